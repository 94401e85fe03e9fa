package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/githubixx/nextpvr-go/internal/domain"
	"github.com/githubixx/nextpvr-go/internal/ports"
)

// TimerService handles timer and series timer operations
type TimerService struct {
	client ports.DVRClient
}

// NewTimerService creates a new timer service
func NewTimerService(client ports.DVRClient) *TimerService {
	return &TimerService{client: client}
}

// GetAllTimers retrieves all timers ordered by start time
func (s *TimerService) GetAllTimers(ctx context.Context) ([]domain.TimerInfo, error) {
	timers, err := s.client.GetTimers(ctx)
	if err != nil {
		return nil, err
	}
	sortTimers(timers)
	return timers, nil
}

// GetSeriesTimers retrieves all series timers ordered by name
func (s *TimerService) GetSeriesTimers(ctx context.Context) ([]domain.SeriesTimerInfo, error) {
	series, err := s.client.GetSeriesTimers(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(series, func(i, j int) bool {
		if series[i].Name != series[j].Name {
			return series[i].Name < series[j].Name
		}
		return series[i].ID < series[j].ID
	})
	return series, nil
}

// TimersForSeries returns the timers spawned by the series timer with the given ID.
func (s *TimerService) TimersForSeries(ctx context.Context, seriesID string) ([]domain.TimerInfo, error) {
	seriesID = strings.TrimSpace(seriesID)
	if seriesID == "" {
		return nil, fmt.Errorf("%w: series timer ID required", domain.ErrInvalidInput)
	}

	timers, err := s.GetAllTimers(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.TimerInfo, 0)
	for _, t := range timers {
		if t.SeriesTimerID != nil && *t.SeriesTimerID == seriesID {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// CheckConflicts reports every pair of timers on the same channel whose
// padded recording windows overlap.
func (s *TimerService) CheckConflicts(ctx context.Context) ([]domain.TimerConflict, error) {
	timers, err := s.GetAllTimers(ctx)
	if err != nil {
		return nil, err
	}
	return findConflicts(timers), nil
}

func findConflicts(timers []domain.TimerInfo) []domain.TimerConflict {
	conflicts := make([]domain.TimerConflict, 0)
	for i := range timers {
		for j := i + 1; j < len(timers); j++ {
			a, b := &timers[i], &timers[j]
			if a.ChannelID != b.ChannelID || a.ID == b.ID {
				continue
			}
			if timersOverlap(a, b) {
				conflicts = append(conflicts, domain.TimerConflict{First: *a, Second: *b})
			}
		}
	}
	return conflicts
}

func sortTimers(timers []domain.TimerInfo) {
	sort.SliceStable(timers, func(i, j int) bool {
		if !timers[i].StartDate.Equal(timers[j].StartDate) {
			return timers[i].StartDate.Before(timers[j].StartDate)
		}
		return timers[i].ID < timers[j].ID
	})
}

func timersOverlap(t1, t2 *domain.TimerInfo) bool {
	start1, stop1 := paddedWindow(t1)
	start2, stop2 := paddedWindow(t2)
	return start1.Before(stop2) && start2.Before(stop1)
}

// paddedWindow returns the interval a timer actually occupies the tuner.
func paddedWindow(t *domain.TimerInfo) (time.Time, time.Time) {
	start := t.StartDate.Add(-time.Duration(t.PrePaddingSeconds) * time.Second)
	stop := t.EndDate.Add(time.Duration(t.PostPaddingSeconds) * time.Second)
	return start, stop
}
