package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/githubixx/nextpvr-go/internal/domain"
	"github.com/githubixx/nextpvr-go/internal/infrastructure/logging"
)

// DashboardService aggregates the three NextPVR lists into a summary.
type DashboardService struct {
	recordings *RecordingService
	timers     *TimerService
	now        func() time.Time
	logger     zerolog.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(recordings *RecordingService, timers *TimerService) *DashboardService {
	return &DashboardService{
		recordings: recordings,
		timers:     timers,
		now:        time.Now,
		logger:     logging.WithComponent("dashboard"),
	}
}

// Summary fetches recordings, timers and series timers concurrently. The
// first failure cancels the remaining fetches and is returned.
func (s *DashboardService) Summary(ctx context.Context) (*domain.Summary, error) {
	var (
		recordings []domain.RecordingInfo
		timers     []domain.TimerInfo
		series     []domain.SeriesTimerInfo
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recordings, err = s.recordings.GetAllRecordings(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		timers, err = s.timers.GetAllTimers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		series, err = s.timers.GetSeriesTimers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Msg("summary fetch failed")
		return nil, err
	}

	summary := &domain.Summary{
		Recordings:   len(recordings),
		Timers:       len(timers),
		SeriesTimers: len(series),
		Conflicts:    len(findConflicts(timers)),
	}

	now := s.now()
	for i := range timers {
		if timers[i].EndDate.After(now) {
			next := timers[i]
			summary.NextTimer = &next
			break
		}
	}

	return summary, nil
}
