package engine

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer gates calls to the rate-limited price provider. Wait blocks until
// the next provider call is allowed.
type Pacer interface {
	Wait(ctx context.Context) error
}

// intervalPacer enforces a minimum spacing between provider calls via a
// single-token bucket. The bucket starts empty, so the very first Wait
// already blocks a full interval.
type intervalPacer struct {
	lim *rate.Limiter
}

// NewIntervalPacer builds a pacer with the given minimum inter-call
// interval. A non-positive interval yields a pacer that never blocks.
func NewIntervalPacer(interval time.Duration) Pacer {
	if interval <= 0 {
		return noopPacer{}
	}
	lim := rate.NewLimiter(rate.Every(interval), 1)
	lim.Allow() // drain the initial token
	return &intervalPacer{lim: lim}
}

func (p *intervalPacer) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}

type noopPacer struct{}

func (noopPacer) Wait(ctx context.Context) error { return ctx.Err() }
