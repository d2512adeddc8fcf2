package worker

// scheduler.go
// Background loop that scrapes every configured store once at startup and
// then once per interval. Runs stop when the context is cancelled; a pass
// already in progress finishes its current store first.

import (
	"context"
	"time"

	"grocerytracker/internal/dto"

	"github.com/rs/zerolog/log"
)

// ScrapeRunner is the "scrape all stores" entry point.
type ScrapeRunner interface {
	ScrapeAll(ctx context.Context, save bool) dto.ScrapeAllResponse
}

// Scheduler owns the periodic scrape loop. It holds no global state.
type Scheduler struct {
	runner   ScrapeRunner
	interval time.Duration
	enabled  bool
}

func NewScheduler(runner ScrapeRunner, interval time.Duration, enabled bool) *Scheduler {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &Scheduler{runner: runner, interval: interval, enabled: enabled}
}

// Run blocks until ctx is done. It returns at once when scheduling is disabled.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.enabled {
		log.Info().Msg("scheduler: scraping disabled, not starting")
		return
	}

	log.Info().Dur("interval", s.interval).Msg("scheduler: started")
	s.pass(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("scheduler: shutting down")
			return
		case <-ticker.C:
			s.pass(ctx)
		}
	}
}

func (s *Scheduler) pass(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	resp := s.runner.ScrapeAll(ctx, true)

	failed := 0
	for _, r := range resp.Results {
		if !r.Success {
			failed++
		}
	}
	ev := log.Info()
	if failed > 0 {
		ev = log.Warn().Int("stores_failed", failed)
	}
	ev.Int("total_products", resp.TotalProducts).
		Int("total_saved", resp.TotalSaved).
		Dur("took", time.Since(start)).
		Msg("scheduler: scrape pass complete")
}
