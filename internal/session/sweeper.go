package session

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultSweepInterval is the period between two eviction passes.
const DefaultSweepInterval = 5 * time.Minute

// A Sweeper periodically evicts inactive and idle-expired sessions.
type Sweeper struct {
	registry *Registry
	interval time.Duration
	log      logrus.FieldLogger
}

// NewSweeper returns a sweeper over the given registry.
// A non-positive interval falls back to the default.
func NewSweeper(registry *Registry, interval time.Duration, log logrus.FieldLogger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		registry: registry,
		interval: interval,
		log:      log,
	}
}

// Run sweeps the registry at a fixed period until ctx is cancelled.
// It uses the same registry operations as request handlers and never
// bypasses their locking.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("session sweeper stopped")
			return
		case <-ticker.C:
			if n := s.registry.Sweep(); n > 0 {
				s.log.WithField("evicted", n).Info("session sweep completed")
			}
		}
	}
}
