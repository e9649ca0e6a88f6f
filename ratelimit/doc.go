// Package ratelimit spaces outbound embedding requests to respect a
// provider's published requests-per-minute ceiling.
//
// The Pacer enforces a minimum interval between calls: 60s divided by the
// ceiling for the selected model tier. Large embedding models get a lower
// ceiling than the default tier. Throttling is advisory: it reduces, but
// does not guarantee avoidance of, provider-side rate-limit rejections.
//
// Waiting blocks the calling goroutine:
//
//	pacer := ratelimit.ForModel("text-embedding-3-small")
//	if _, err := pacer.Wait(ctx); err != nil {
//	    return err // context canceled
//	}
//	// safe to issue the request
package ratelimit
