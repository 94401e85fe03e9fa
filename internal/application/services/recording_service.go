package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/githubixx/nextpvr-go/internal/domain"
	"github.com/githubixx/nextpvr-go/internal/infrastructure/logging"
	"github.com/githubixx/nextpvr-go/internal/ports"
)

// Recording sort orders accepted by SortRecordings.
const (
	SortByName       = "name"
	SortByDate       = "date"
	SortByDateOldest = "date_oldest"
)

// RecordingService handles recording-related operations
type RecordingService struct {
	client      ports.DVRClient
	logger      zerolog.Logger
	cache       []domain.RecordingInfo
	cacheMu     sync.RWMutex
	cacheExpiry time.Duration
	cacheTime   time.Time
}

// NewRecordingService creates a new recording service
func NewRecordingService(client ports.DVRClient, cacheExpiry time.Duration) *RecordingService {
	return &RecordingService{
		client:      client,
		logger:      logging.WithComponent("recordings"),
		cacheExpiry: cacheExpiry,
	}
}

// SetCacheExpiry updates the recordings cache expiry.
// If expiry <= 0, caching is disabled.
func (s *RecordingService) SetCacheExpiry(expiry time.Duration) {
	s.cacheMu.Lock()
	s.cacheExpiry = expiry
	s.cache = nil
	s.cacheTime = time.Time{}
	s.cacheMu.Unlock()
}

// GetAllRecordings retrieves all recordings with caching
func (s *RecordingService) GetAllRecordings(ctx context.Context) ([]domain.RecordingInfo, error) {
	s.cacheMu.RLock()
	cacheExpiry := s.cacheExpiry
	if cacheExpiry > 0 && s.cache != nil && time.Now().Before(s.cacheTime.Add(cacheExpiry)) {
		recordings := append([]domain.RecordingInfo(nil), s.cache...)
		s.cacheMu.RUnlock()
		return recordings, nil
	}
	s.cacheMu.RUnlock()

	recordings, err := s.client.GetRecordings(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int(logging.FieldCount, len(recordings)).Msg("recordings fetched")

	if cacheExpiry <= 0 {
		return recordings, nil
	}

	s.cacheMu.Lock()
	s.cache = make([]domain.RecordingInfo, len(recordings))
	copy(s.cache, recordings)
	s.cacheTime = time.Now()
	s.cacheMu.Unlock()

	return recordings, nil
}

// FilterByStatus keeps the recordings whose status is one of statuses.
// With no statuses the input is returned unchanged.
func (s *RecordingService) FilterByStatus(recordings []domain.RecordingInfo, statuses ...domain.RecordingStatus) []domain.RecordingInfo {
	if len(statuses) == 0 {
		return recordings
	}

	want := make(map[domain.RecordingStatus]struct{}, len(statuses))
	for _, st := range statuses {
		want[st] = struct{}{}
	}

	filtered := make([]domain.RecordingInfo, 0, len(recordings))
	for _, rec := range recordings {
		if _, ok := want[rec.Status]; ok {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// SortRecordings sorts recordings by name, date (newest first) or date_oldest.
// Unknown orders fall back to date.
func (s *RecordingService) SortRecordings(recordings []domain.RecordingInfo, sortBy string) []domain.RecordingInfo {
	sorted := make([]domain.RecordingInfo, len(recordings))
	copy(sorted, recordings)

	switch sortBy {
	case SortByName:
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Name != sorted[j].Name {
				return sorted[i].Name < sorted[j].Name
			}
			return sorted[i].ID < sorted[j].ID
		})
	case SortByDateOldest:
		sort.SliceStable(sorted, func(i, j int) bool {
			if !sorted[i].StartDate.Equal(sorted[j].StartDate) {
				return sorted[i].StartDate.Before(sorted[j].StartDate)
			}
			return sorted[i].ID < sorted[j].ID
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			if !sorted[i].StartDate.Equal(sorted[j].StartDate) {
				return sorted[i].StartDate.After(sorted[j].StartDate)
			}
			return sorted[i].ID < sorted[j].ID
		})
	}

	return sorted
}

// InvalidateCache clears the recording cache
func (s *RecordingService) InvalidateCache() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cache = nil
	s.cacheTime = time.Time{}
}
