package nextpvr

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/githubixx/nextpvr-go/internal/domain"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nextpvr_client_request_duration_seconds",
		Help:    "Duration of NextPVR web API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{
		"operation", // recordings|timers|series_timers|ping
		"result",    // success|error
	})

	mappedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nextpvr_mapped_records_total",
		Help: "Records produced from NextPVR responses",
	}, []string{"family"})

	mappingFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nextpvr_mapping_failures_total",
		Help: "NextPVR responses that could not be mapped",
	}, []string{
		"family",
		"kind", // malformed_payload|malformed_field|other
	})
)

func observeRequest(operation string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	requestDuration.WithLabelValues(operation, result).Observe(time.Since(start).Seconds())
}

func observeMapping(family string, count int, err error) {
	if err == nil {
		mappedRecords.WithLabelValues(family).Add(float64(count))
		return
	}

	kind := "other"
	switch {
	case errors.Is(err, domain.ErrMalformedPayload):
		kind = "malformed_payload"
	case errors.Is(err, domain.ErrMalformedField):
		kind = "malformed_field"
	}
	mappingFailures.WithLabelValues(family, kind).Inc()
}
