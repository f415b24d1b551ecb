// Package jobs runs the periodic maintenance of the booking engine.
package jobs

import (
	"context"
	"fmt"
	"time"

	"parking/config"
	"parking/internal/domains/booking/service"
	"parking/shared/timezone"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type Scheduler struct {
	cron     *cron.Cron
	bookings service.Booking
	cfg      *config.Config
	clock    timezone.Clock
}

func New(cfg *config.Config, bookings service.Booking, clock timezone.Clock) (*Scheduler, error) {
	logger := cronLogger{}

	scheduler := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		bookings: bookings,
		cfg:      cfg,
		clock:    clock,
	}

	if !cfg.Job.Enable {
		return scheduler, nil
	}

	if _, err := scheduler.cron.AddFunc(cfg.Job.ExpirePendingSchedule, func() {
		if _, err := scheduler.ExpirePending(context.Background()); err != nil {
			log.Error().Err(err).Msg("expire pending job failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid expire pending schedule %q: %w", cfg.Job.ExpirePendingSchedule, err)
	}

	return scheduler, nil
}

// ExpirePending rejects requests left pending longer than the configured expiry.
func (s *Scheduler) ExpirePending(ctx context.Context) (int, error) {
	if s.cfg.Booking.PendingExpiryMinutes <= 0 {
		return 0, nil
	}

	cutoff := s.clock().Add(-time.Duration(s.cfg.Booking.PendingExpiryMinutes) * time.Minute)

	expired, err := s.bookings.ExpirePending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending bookings: %w", err)
	}

	return expired, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
}

// Stop waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		log.Info().Msg("scheduler stopped")
	case <-ctx.Done():
		log.Warn().Msg("scheduler stop timed out")
	}
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
