package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/storefront/internal/storage"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/robfig/cron/v3"
)

const sweepTimeout = 5 * time.Minute

// ProfileSweeper periodically drops profiles nobody has touched for maxIdle.
type ProfileSweeper struct {
	cron     *cron.Cron
	sweeper  storage.Sweeper
	schedule string
	maxIdle  time.Duration
}

func NewProfileSweeper(sweeper storage.Sweeper, schedule string, maxIdle time.Duration) *ProfileSweeper {
	return &ProfileSweeper{
		cron:     cron.New(),
		sweeper:  sweeper,
		schedule: schedule,
		maxIdle:  maxIdle,
	}
}

// Start registers the sweep job and starts the scheduler.
func (s *ProfileSweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		s.Sweep(ctx)
	})
	if err != nil {
		logger.Error("Failed to add cron job for profile sweep", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Profile sweeper started", map[string]interface{}{
		"schedule": s.schedule,
		"max_idle": s.maxIdle.String(),
	})
	return nil
}

// Sweep runs one purge and reports how many profiles were removed.
func (s *ProfileSweeper) Sweep(ctx context.Context) int64 {
	logger.Info("Starting scheduled profile sweep", nil)

	purged, err := s.sweeper.PurgeStale(ctx, s.maxIdle)
	if err != nil {
		logger.Error("Failed to purge stale profiles", err)
		return 0
	}

	logger.Info("Profile sweep finished", map[string]interface{}{
		"purged": purged,
	})
	return purged
}

func (s *ProfileSweeper) Stop() {
	logger.Info("Stopping profile sweeper...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Profile sweeper stopped", nil)
}
