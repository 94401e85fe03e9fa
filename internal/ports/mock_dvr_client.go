package ports

import (
	"context"
	"sync"

	"github.com/githubixx/nextpvr-go/internal/domain"
)

// MockDVRClient is a test double for DVRClient with function field customization.
//
// Usage with function fields:
//
//	mock := &ports.MockDVRClient{
//	    GetTimersFunc: func(ctx context.Context) ([]domain.TimerInfo, error) {
//	        return nil, domain.ErrConnection
//	    },
//	}
//
// Usage with builder pattern:
//
//	mock := ports.NewMockDVRClient().
//	    WithRecordings([]domain.RecordingInfo{{ID: "1", Name: "Tatort"}}).
//	    WithTimers([]domain.TimerInfo{{ID: "2", Name: "News"}})
type MockDVRClient struct {
	PingFunc            func(ctx context.Context) error
	GetRecordingsFunc   func(ctx context.Context) ([]domain.RecordingInfo, error)
	GetTimersFunc       func(ctx context.Context) ([]domain.TimerInfo, error)
	GetSeriesTimersFunc func(ctx context.Context) ([]domain.SeriesTimerInfo, error)

	mu           sync.RWMutex
	recordings   []domain.RecordingInfo
	timers       []domain.TimerInfo
	seriesTimers []domain.SeriesTimerInfo
	calls        map[string]int
}

var _ DVRClient = (*MockDVRClient)(nil)

// NewMockDVRClient creates a new mock returning empty lists.
func NewMockDVRClient() *MockDVRClient {
	return &MockDVRClient{
		recordings:   []domain.RecordingInfo{},
		timers:       []domain.TimerInfo{},
		seriesTimers: []domain.SeriesTimerInfo{},
	}
}

// WithRecordings sets the recordings returned by GetRecordings.
func (m *MockDVRClient) WithRecordings(recordings []domain.RecordingInfo) *MockDVRClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordings = recordings
	return m
}

// WithTimers sets the timers returned by GetTimers.
func (m *MockDVRClient) WithTimers(timers []domain.TimerInfo) *MockDVRClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers = timers
	return m
}

// WithSeriesTimers sets the rules returned by GetSeriesTimers.
func (m *MockDVRClient) WithSeriesTimers(series []domain.SeriesTimerInfo) *MockDVRClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seriesTimers = series
	return m
}

// Calls reports how often the named method was invoked.
func (m *MockDVRClient) Calls(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[method]
}

func (m *MockDVRClient) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

func (m *MockDVRClient) Ping(ctx context.Context) error {
	m.record("Ping")
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return ctx.Err()
}

func (m *MockDVRClient) GetRecordings(ctx context.Context) ([]domain.RecordingInfo, error) {
	m.record("GetRecordings")
	if m.GetRecordingsFunc != nil {
		return m.GetRecordingsFunc(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.RecordingInfo(nil), m.recordings...), nil
}

func (m *MockDVRClient) GetTimers(ctx context.Context) ([]domain.TimerInfo, error) {
	m.record("GetTimers")
	if m.GetTimersFunc != nil {
		return m.GetTimersFunc(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.TimerInfo(nil), m.timers...), nil
}

func (m *MockDVRClient) GetSeriesTimers(ctx context.Context) ([]domain.SeriesTimerInfo, error) {
	m.record("GetSeriesTimers")
	if m.GetSeriesTimersFunc != nil {
		return m.GetSeriesTimersFunc(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.SeriesTimerInfo(nil), m.seriesTimers...), nil
}
