package resettokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gpatracker/internal/logging"
)

// DefaultSweepInterval is how often expired tokens are reclaimed.
const DefaultSweepInterval = time.Minute

// Sweeper periodically drops expired tokens from a Store. It only reclaims
// memory: consumers check expiry themselves.
type Sweeper struct {
	store    Store
	interval time.Duration
	logger   logging.Logger
	now      func() time.Time
}

func NewSweeper(store Store, interval time.Duration, logger logging.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		logger:   logger.With("module", "reset_token_sweeper"),
		now:      time.Now,
	}
}

// Run sweeps on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info(ctx, "Starting reset token sweeper", "interval", s.interval.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping reset token sweeper")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single sweep cycle and returns the number removed.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	n := s.store.Sweep(s.now())
	if n > 0 {
		s.logger.Debug(ctx, "Cleaned up expired reset tokens", "count", n, "remaining", s.store.Len())
	}
	return n
}
