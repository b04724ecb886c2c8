package pdfexport

import (
	"context"
	"time"

	"github.com/lvillar/deckforge/render"
)

// DefaultSettleDelay is how long DelaySettler waits by default.
const DefaultSettleDelay = 1200 * time.Millisecond

// Settler waits between showing a page and capturing it, giving image loads
// a chance to finish. It must return ctx's error if ctx ends first.
type Settler interface {
	Settle(ctx context.Context, t *render.Target) error
}

// SettlerFunc adapts a function to Settler.
type SettlerFunc func(ctx context.Context, t *render.Target) error

// Settle calls f.
func (f SettlerFunc) Settle(ctx context.Context, t *render.Target) error {
	return f(ctx, t)
}

// DelaySettler waits a fixed time regardless of the page. A slow image
// only costs the delay; whatever has not loaded by then is captured as a
// placeholder.
type DelaySettler struct {
	Delay time.Duration
}

// Settle implements Settler.
func (s DelaySettler) Settle(ctx context.Context, _ *render.Target) error {
	return sleep(ctx, s.Delay)
}

// LoadSettler waits until every image of the shown page has finished
// loading, but never longer than Max. A zero Max means DefaultSettleDelay.
type LoadSettler struct {
	Max time.Duration
}

// Settle implements Settler.
func (s LoadSettler) Settle(ctx context.Context, t *render.Target) error {
	max := s.Max
	if max <= 0 {
		max = DefaultSettleDelay
	}
	timer := time.NewTimer(max)
	defer timer.Stop()
	select {
	case <-t.Loaded():
		return nil
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
