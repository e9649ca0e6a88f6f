// Package retry executes units of work with bounded exponential backoff.
//
// A Policy runs an operation up to MaxAttempts times. Delays between
// attempts form a geometric sequence: BaseDelay, 2*BaseDelay, 4*BaseDelay,
// capped at MaxBackoff. Only errors the errors package classifies as
// retryable (transient transport failures, 5xx responses, rate limits)
// trigger another attempt; permanent failures such as auth rejections
// return immediately.
//
//	policy := retry.New(retry.Config{MaxAttempts: 3})
//	err := policy.Do(ctx, func(ctx context.Context) error {
//	    return callProvider(ctx)
//	})
package retry
