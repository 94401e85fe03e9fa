package nextpvr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/githubixx/nextpvr-go/internal/domain"
	"github.com/githubixx/nextpvr-go/internal/infrastructure/logging"
	"github.com/githubixx/nextpvr-go/internal/ports"
)

const (
	managePath = "/public/ManageService/Get/SortedFilteredList"
	pingPath   = "/public/Util/NPVR/VersionCheck"

	opRecordings   = "recordings"
	opTimers       = "timers"
	opSeriesTimers = "series_timers"
	opPing         = "ping"

	// maxBodyBytes bounds a single ManageService response.
	maxBodyBytes = 32 << 20
)

// listFilter is the JSON body understood by SortedFilteredList.
type listFilter struct {
	ResultLimit             int     `json:"resultLimit"`
	DatetimeSortSeq         int     `json:"datetimeSortSeq"`
	ChannelSortSeq          int     `json:"channelSortSeq"`
	TitleSortSeq            int     `json:"titleSortSeq"`
	StatusSortSeq           int     `json:"statusSortSeq"`
	DatetimeDescending      bool    `json:"datetimeDecending"`
	All                     bool    `json:"All"`
	None                    bool    `json:"None"`
	Pending                 bool    `json:"Pending"`
	InProgress              bool    `json:"InProgress"`
	Completed               bool    `json:"Completed"`
	Failed                  bool    `json:"Failed"`
	Conflict                bool    `json:"Conflict"`
	Recurring               bool    `json:"Recurring"`
	Deleted                 bool    `json:"Deleted"`
	FilterByName            bool    `json:"FilterByName"`
	NameFilter              *string `json:"NameFilter"`
	NameFilterCaseSensitive bool    `json:"NameFilterCaseSensitive"`
}

func recordingsFilter() listFilter {
	return listFilter{ResultLimit: -1, InProgress: true, Completed: true, Failed: true}
}

func timersFilter() listFilter {
	return listFilter{ResultLimit: -1, Pending: true, Conflict: true}
}

func seriesTimersFilter() listFilter {
	return listFilter{ResultLimit: -1, Recurring: true}
}

// Client talks to the NextPVR web API and maps its responses into domain records.
type Client struct {
	baseURL   string
	sessionID string
	http      *http.Client
	maxBody   int64
	response  *RecordingResponse
	logger    zerolog.Logger
}

var _ ports.DVRClient = (*Client)(nil)

// NewClient creates a new NextPVR client. sessionID is the "sid" obtained during
// client initialization; loc is the zone used for timestamps without an offset.
func NewClient(baseURL, sessionID string, timeout time.Duration, loc *time.Location) *Client {
	base := strings.TrimRight(baseURL, "/")
	return &Client{
		baseURL:   base,
		sessionID: sessionID,
		http:      &http.Client{Timeout: timeout},
		maxBody:   maxBodyBytes,
		response:  NewRecordingResponse(base, loc),
		logger:    logging.WithComponent("nextpvr").With().Str(logging.FieldBaseURL, base).Logger(),
	}
}

// Ping checks if NextPVR is reachable
func (c *Client) Ping(ctx context.Context) error {
	start := time.Now()
	_, err := c.do(ctx, opPing, http.MethodGet, pingPath, nil)
	observeRequest(opPing, start, err)
	return err
}

// GetRecordings retrieves in-progress, completed and failed recordings
func (c *Client) GetRecordings(ctx context.Context) ([]domain.RecordingInfo, error) {
	env, err := c.list(ctx, opRecordings, recordingsFilter())
	if err != nil {
		return nil, err
	}
	recs, err := Collect(c.response.recordings(env))
	return finish(c, opRecordings, recs, err)
}

// GetTimers retrieves pending and conflicting timers
func (c *Client) GetTimers(ctx context.Context) ([]domain.TimerInfo, error) {
	env, err := c.list(ctx, opTimers, timersFilter())
	if err != nil {
		return nil, err
	}
	timers, err := Collect(c.response.timers(env))
	return finish(c, opTimers, timers, err)
}

// GetSeriesTimers retrieves recurring recording rules
func (c *Client) GetSeriesTimers(ctx context.Context) ([]domain.SeriesTimerInfo, error) {
	env, err := c.list(ctx, opSeriesTimers, seriesTimersFilter())
	if err != nil {
		return nil, err
	}
	series, err := Collect(c.response.seriesTimers(env))
	return finish(c, opSeriesTimers, series, err)
}

func finish[T any](c *Client, operation string, records []T, err error) ([]T, error) {
	observeMapping(operation, len(records), err)
	if err != nil {
		c.logger.Error().Err(err).Str(logging.FieldFamily, operation).Msg("failed to map response")
		return nil, err
	}
	c.logger.Debug().Str(logging.FieldFamily, operation).Int(logging.FieldCount, len(records)).Msg("response mapped")
	return records, nil
}

func (c *Client) list(ctx context.Context, operation string, filter listFilter) (*envelope, error) {
	payload, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filter: %w", err)
	}

	start := time.Now()
	body, err := c.do(ctx, operation, http.MethodPost, managePath, payload)
	observeRequest(operation, start, err)
	if err != nil {
		return nil, err
	}

	env, err := decodeEnvelope(bytes.NewReader(body))
	if err != nil {
		observeMapping(operation, 0, err)
		c.logger.Error().Err(err).Str(logging.FieldFamily, operation).Msg("failed to decode response")
		return nil, err
	}

	for _, msg := range env.returnErrors() {
		c.logger.Warn().Str(logging.FieldOperation, operation).Str("message", msg).Msg("entry carries upstream error")
	}
	return env, nil
}

func (c *Client) do(ctx context.Context, operation, method, path string, payload []byte) ([]byte, error) {
	u := c.baseURL + path
	if c.sessionID != "" {
		u += "?" + url.Values{"sid": []string{c.sessionID}}.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, &UpstreamError{Sentinel: domain.ErrInvalidInput, Operation: operation, Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UpstreamError{Sentinel: transportSentinel(err), Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &UpstreamError{Sentinel: transportSentinel(err), Operation: operation, Err: err}
	}
	if int64(len(data)) > c.maxBody {
		return nil, &UpstreamError{
			Sentinel:  domain.ErrResponseTooLarge,
			Operation: operation,
			Status:    resp.StatusCode,
			Err:       fmt.Errorf("body exceeds %d bytes", c.maxBody),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Sentinel: statusSentinel(resp.StatusCode), Operation: operation, Status: resp.StatusCode}
	}
	return data, nil
}

func transportSentinel(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.ErrTimeout
	}
	return domain.ErrConnection
}

func statusSentinel(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case status == http.StatusForbidden:
		return domain.ErrForbidden
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status >= 500:
		return domain.ErrInternal
	default:
		return domain.ErrInvalidInput
	}
}
