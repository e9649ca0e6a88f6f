package retry

import (
	"context"
	"time"

	"github.com/careergraph/jobmatch/errors"
	"github.com/careergraph/jobmatch/logging"
)

// Defaults for the backoff schedule.
const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = 1 * time.Second
	DefaultMaxBackoff  = 60 * time.Second
	backoffFactor      = 2.0
)

// Config holds retry settings.
type Config struct {
	MaxAttempts int           // total attempts including the first (default 5)
	BaseDelay   time.Duration // delay before the second attempt (default 1s)
	MaxBackoff  time.Duration // backoff ceiling (default 60s)
	Log         *logging.Logger
}

// Policy executes operations with exponential backoff on retryable failures.
type Policy struct {
	maxAttempts int
	baseDelay   time.Duration
	maxBackoff  time.Duration
	log         *logging.Logger

	sleepFunc func(ctx context.Context, d time.Duration) error // for testing
}

// New creates a Policy, applying defaults for unset fields.
func New(cfg Config) *Policy {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = DefaultMaxBackoff
	}
	if cfg.Log == nil {
		cfg.Log = logging.New().WithComponent("retry")
	}
	return &Policy{
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
		maxBackoff:  cfg.MaxBackoff,
		log:         cfg.Log,
		sleepFunc:   sleepCtx,
	}
}

// MaxAttempts returns the configured attempt budget.
func (p *Policy) MaxAttempts() int {
	return p.maxAttempts
}

// Do runs op until it succeeds, fails permanently, or exhausts the attempt
// budget. The delay before attempt n (1-based) is BaseDelay * 2^(n-2),
// capped at MaxBackoff. The last failure is returned with the attempt
// count folded into the message; its code, category, and status survive
// unwrapping.
func (p *Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	delay := p.baseDelay

	var err error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return errors.Wrap(cerr, "retry aborted")
		}

		err = op(ctx)
		if err == nil {
			return nil
		}

		if !errors.IsRetryable(err) {
			return err
		}

		if attempt == p.maxAttempts {
			break
		}

		p.log.RetryAttempt(attempt, p.maxAttempts, delay, err)
		if serr := p.sleepFunc(ctx, delay); serr != nil {
			return errors.Wrap(serr, "retry wait interrupted")
		}

		delay = time.Duration(float64(delay) * backoffFactor)
		if delay > p.maxBackoff {
			delay = p.maxBackoff
		}
	}

	return errors.Wrapf(err, "failed after %d attempts", p.maxAttempts)
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
