package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Published requests-per-minute ceilings for embedding model tiers.
const (
	// DefaultRequestsPerMinute applies to small embedding models.
	DefaultRequestsPerMinute = 3500

	// LargeModelRequestsPerMinute applies to large embedding models,
	// which carry a lower provider ceiling.
	LargeModelRequestsPerMinute = 500
)

// Limiter spaces outbound requests. Wait blocks until the next request
// slot and reports how long it slept.
type Limiter interface {
	Wait(ctx context.Context) (time.Duration, error)
}

// RequestsPerMinute returns the ceiling for a model name. Models in the
// "large" tier get the reduced ceiling.
func RequestsPerMinute(model string) int {
	if strings.Contains(model, "large") {
		return LargeModelRequestsPerMinute
	}
	return DefaultRequestsPerMinute
}

// Pacer enforces a minimum interval between calls. It is safe for
// concurrent use: the last-call clock is guarded so a shared embedding
// client cannot corrupt pacing state.
type Pacer struct {
	mu          sync.Mutex
	minInterval time.Duration
	last        time.Time

	nowFunc   func() time.Time                            // for testing
	sleepFunc func(ctx context.Context, d time.Duration) error // for testing
}

// NewPacer creates a pacer for the given requests-per-minute ceiling.
// A non-positive ceiling disables throttling.
func NewPacer(requestsPerMinute int) *Pacer {
	var interval time.Duration
	if requestsPerMinute > 0 {
		interval = time.Minute / time.Duration(requestsPerMinute)
	}
	return &Pacer{
		minInterval: interval,
		nowFunc:     time.Now,
		sleepFunc:   sleepCtx,
	}
}

// ForModel creates a pacer using the ceiling for the model's tier.
func ForModel(model string) *Pacer {
	return NewPacer(RequestsPerMinute(model))
}

// MinInterval returns the enforced spacing between requests.
func (p *Pacer) MinInterval() time.Duration {
	return p.minInterval
}

// Wait blocks until the minimum interval since the previous call has
// elapsed, then records the current time as the last call. It returns the
// duration actually slept. The only error is context cancellation, in
// which case the last-call clock is left untouched.
func (p *Pacer) Wait(ctx context.Context) (time.Duration, error) {
	p.mu.Lock()
	now := p.nowFunc()
	var wait time.Duration
	if !p.last.IsZero() {
		elapsed := now.Sub(p.last)
		if elapsed < p.minInterval {
			wait = p.minInterval - elapsed
		}
	}
	p.mu.Unlock()

	if wait > 0 {
		if err := p.sleepFunc(ctx, wait); err != nil {
			return 0, err
		}
	}

	p.mu.Lock()
	p.last = p.nowFunc()
	p.mu.Unlock()
	return wait, nil
}

// sleepCtx sleeps for d or until the context ends.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
