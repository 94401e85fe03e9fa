package ports

import (
	"context"

	"github.com/githubixx/nextpvr-go/internal/domain"
)

// DVRClient defines the read side of a NextPVR backend.
type DVRClient interface {
	// Ping checks if the backend is reachable
	Ping(ctx context.Context) error

	// GetRecordings retrieves in-progress, completed and failed recordings
	GetRecordings(ctx context.Context) ([]domain.RecordingInfo, error)

	// GetTimers retrieves pending one-off timers
	GetTimers(ctx context.Context) ([]domain.TimerInfo, error)

	// GetSeriesTimers retrieves recurring recording rules
	GetSeriesTimers(ctx context.Context) ([]domain.SeriesTimerInfo, error)
}
