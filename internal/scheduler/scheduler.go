package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nba_dashboard/backend/internal/metrics"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Config holds the scheduler's timing settings
type Config struct {
	Season       string
	NightlyCron  string // standard 5-field cron expression, evaluated in Location
	PollInterval time.Duration
	Location     *time.Location
}

// Scheduler manages background ingestion:
// - nightly refresh of teams, the game log, aggregates and predictions
// - scoreboard polling through the day
type Scheduler struct {
	cfg      Config
	syncer   *Syncer
	cron     *cron.Cron
	ticker   *time.Ticker
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg Config, syncer *Syncer) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Scheduler{
		cfg:      cfg,
		syncer:   syncer,
		cron:     cron.New(cron.WithLocation(cfg.Location)),
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// Start registers the nightly job and starts scoreboard polling
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if s.cfg.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", s.cfg.PollInterval)
	}

	if _, err := s.cron.AddFunc(s.cfg.NightlyCron, func() {
		log.Info().Msg("Running nightly refresh...")
		if err := s.syncer.RunNightly(ctx, s.cfg.Season, s.now()); err != nil {
			log.Error().Err(err).Msg("Nightly refresh failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule nightly refresh: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.NightlyCron).
		Str("timezone", s.cfg.Location.String()).
		Msg("Nightly refresh scheduled")

	s.ticker = time.NewTicker(s.cfg.PollInterval)
	log.Info().
		Dur("interval", s.cfg.PollInterval).
		Msg("Scoreboard polling started")

	s.done = make(chan struct{})
	go s.pollScoreboard(ctx)

	return nil
}

// Stop stops the scheduler. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		log.Info().Msg("Stopping scheduler...")

		// wait for a running nightly job to finish
		<-s.cron.Stop().Done()

		if s.ticker != nil {
			s.ticker.Stop()
		}

		close(s.stopChan)
		if s.done != nil {
			<-s.done
		}
		log.Info().Msg("Scheduler stopped")
	})
}

func (s *Scheduler) pollScoreboard(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, stopping scoreboard polling")
			return
		case <-s.stopChan:
			log.Info().Msg("Stop signal received, stopping scoreboard polling")
			return
		case <-s.ticker.C:
			s.Poll(ctx)
		}
	}
}

// Poll refreshes today's scoreboard and predicts any newly listed games
func (s *Scheduler) Poll(ctx context.Context) {
	start := time.Now()
	now := s.now()

	if _, err := s.syncer.SyncScoreboard(ctx, now); err != nil {
		metrics.RecordError("scheduler", "scoreboard")
		log.Error().Err(err).Msg("Failed to poll scoreboard")
	} else if _, err := s.syncer.PredictUpcoming(ctx, now); err != nil {
		metrics.RecordError("scheduler", "predictions")
		log.Error().Err(err).Msg("Failed to predict upcoming games")
	}

	metrics.RecordWorkerIteration(time.Since(start).Seconds())
}
