package scraper

import (
	"context"
	"math/rand"
	"time"
)

// Pacer sleeps a random duration in [Min, Max) between requests.
type Pacer struct {
	Min time.Duration
	Max time.Duration
}

func NewPacer(min, max time.Duration) *Pacer {
	return &Pacer{Min: min, Max: max}
}

func (p *Pacer) Next() time.Duration {
	if p == nil {
		return 0
	}
	if p.Max <= p.Min {
		return p.Min
	}
	return p.Min + time.Duration(rand.Int63n(int64(p.Max-p.Min)))
}

// Wait sleeps for Next() or until ctx is done, whichever comes first.
func (p *Pacer) Wait(ctx context.Context) error {
	return sleepCtx(ctx, p.Next())
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
