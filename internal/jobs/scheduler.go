package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"attendly/api/internal/config"
	"attendly/api/internal/ratelimit"
	"attendly/api/internal/session"
)

// Scheduler drives the background hygiene work: expired sessions are swept
// every five minutes independent of the lazy expiry on the validation path,
// and stale rate buckets are pruned hourly.
type Scheduler struct {
	cron     *cron.Cron
	sessions *session.Registry
	limiter  *ratelimit.Limiter
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewScheduler(sessions *session.Registry, limiter *ratelimit.Limiter, cfg *config.AppConfig, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:     c,
		sessions: sessions,
		limiter:  limiter,
		cfg:      cfg,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 */5 * * * *", s.sweepSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 * * * *", s.pruneRateBuckets); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() context.CancelFunc {
	_, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	go func() {
		s.cron.Stop()
		cancel()
	}()
	return cancel
}

func (s *Scheduler) sweepSessions() {
	removed := s.sessions.Sweep()
	if removed > 0 {
		s.log.Debug().Int("removed", removed).Msg("session sweep")
	}
}

func (s *Scheduler) pruneRateBuckets() {
	removed := s.limiter.Prune(s.cfg.RateLimit.PruneAfter)
	if removed > 0 {
		s.log.Debug().Int("removed", removed).Msg("rate bucket prune")
	}
}
