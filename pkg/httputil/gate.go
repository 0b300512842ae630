package httputil

import (
	"context"

	"golang.org/x/time/rate"
)

// Gate spaces outgoing requests to a fixed rate. A nil *Gate never waits,
// so callers can hold one unconditionally.
type Gate struct {
	lim *rate.Limiter
}

// NewGate returns a gate allowing perSecond requests per second with a
// burst of one. A non-positive rate returns nil (unlimited).
func NewGate(perSecond float64) *Gate {
	if perSecond <= 0 {
		return nil
	}
	return &Gate{lim: rate.NewLimiter(rate.Limit(perSecond), 1)}
}

// Wait blocks until the next request may be sent or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	if g == nil {
		return ctx.Err()
	}
	return g.lim.Wait(ctx)
}
