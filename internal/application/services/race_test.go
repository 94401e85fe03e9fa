package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/githubixx/nextpvr-go/internal/domain"
	"github.com/githubixx/nextpvr-go/internal/ports"
)

// TestRecordingService_ConcurrentCacheAccess tests concurrent reads against cache invalidation
func TestRecordingService_ConcurrentCacheAccess(t *testing.T) {
	mock := ports.NewMockDVRClient().WithRecordings([]domain.RecordingInfo{
		{ID: "1", Name: "Recording 1", StartDate: time.Now()},
		{ID: "2", Name: "Recording 2", StartDate: time.Now()},
	})

	service := NewRecordingService(mock, 5*time.Minute)
	ctx := context.Background()

	const goroutines = 20
	const iterations = 50

	var wg sync.WaitGroup
	wg.Add(goroutines * 3)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				recs, err := service.GetAllRecordings(ctx)
				if err != nil {
					t.Errorf("GetAllRecordings failed: %v", err)
					return
				}
				_ = service.SortRecordings(recs, SortByName)
			}
		}()
	}

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				service.InvalidateCache()
			}
		}()
	}

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				service.SetCacheExpiry(time.Duration(j%2) * time.Minute)
			}
		}()
	}

	wg.Wait()
}

// TestDashboardService_ConcurrentSummaries runs summaries in parallel against a shared cache
func TestDashboardService_ConcurrentSummaries(t *testing.T) {
	now := time.Now()
	mock := ports.NewMockDVRClient().
		WithRecordings([]domain.RecordingInfo{{ID: "1"}}).
		WithTimers([]domain.TimerInfo{
			{ID: "1", ChannelID: "7", StartDate: now, EndDate: now.Add(time.Hour)},
			{ID: "2", ChannelID: "7", StartDate: now.Add(time.Minute), EndDate: now.Add(time.Hour)},
		}).
		WithSeriesTimers([]domain.SeriesTimerInfo{{ID: "1"}})

	dashboard := NewDashboardService(NewRecordingService(mock, time.Minute), NewTimerService(mock))
	ctx := context.Background()

	const goroutines = 10

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				s, err := dashboard.Summary(ctx)
				if err != nil {
					t.Errorf("Summary failed: %v", err)
					return
				}
				if s.Conflicts != 1 {
					t.Errorf("expected 1 conflict, got %d", s.Conflicts)
					return
				}
			}
		}()
	}
	wg.Wait()
}
