// Package errors provides a structured error taxonomy for the jobmatch
// embedding pipeline. Every failure surfaced by the embedding client, the
// posting store, or the matcher carries a code and a category that decide
// how callers (and the retry policy) should react.
//
// # Error Categories
//
// Errors are classified into four categories:
//
//   - Transient: Temporary failures where retry may succeed (network issues, 5xx responses)
//   - Permanent: Failures where retry will not help (invalid input, auth rejection)
//   - Resource: Resource exhaustion issues (rate limits, quotas)
//   - Internal: Unexpected errors indicating bugs or system failures
//
// # Usage
//
// Create a new error:
//
//	err := errors.New(errors.ErrCodeTimeout, "embedding request timed out")
//
// Wrap an existing error with context:
//
//	wrapped := errors.Wrap(err, "embedding batch 3")
//
// Check if an error is retryable before handing it to the retry policy:
//
//	if errors.IsRetryable(err) {
//	    // schedule another attempt
//	}
//
// Transport errors classify themselves from the HTTP status they carry:
// 429 maps to RATE_LIMITED, 5xx to UNAVAILABLE, 401/403 to UNAUTHORIZED,
// and remaining 4xx to INVALID_INPUT. Only transient and resource errors
// are retried.
package errors
