package scheduler

import (
	"context"
	"time"

	"github.com/silverledger/backend/internal/application/rate"
)

// RateRefreshJobName names the silver rate refresh job
const RateRefreshJobName = "silver-rate-refresh"

// RateRefresher appends a fresh market rate
type RateRefresher interface {
	Refresh(ctx context.Context) (*rate.RateResponse, error)
}

// RegisterRateRefresh schedules refresher every interval, starting with an
// immediate refresh
func RegisterRateRefresh(s *Scheduler, refresher RateRefresher, interval time.Duration) error {
	return s.Register(JobConfig{
		Name:       RateRefreshJobName,
		Interval:   interval,
		Timeout:    time.Minute,
		RunOnStart: true,
	}, func(ctx context.Context) error {
		_, err := refresher.Refresh(ctx)
		return err
	})
}
