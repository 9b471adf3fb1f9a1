package memkv

import (
	"context"
	"time"
)

// Sweeper periodically invokes Engine.CollectGarbage. The source this
// package is ported from runs an unstoppable background thread; per
// spec §9's design note, this port gives the sweeper a context so it can
// be tied to process shutdown cleanly instead.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
}

// NewSweeper creates a Sweeper that collects garbage on engine every
// interval.
func NewSweeper(engine *Engine, interval time.Duration) *Sweeper {
	return &Sweeper{engine: engine, interval: interval}
}

// Run blocks, calling CollectGarbage on each tick, until ctx is cancelled.
// It acquires the engine's write privilege on every tick and never
// observes an intermediate state: if a foreground mutation holds the
// lock, the sweeper simply waits its turn.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.engine.CollectGarbage()
		}
	}
}
