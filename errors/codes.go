package errors

// ErrorCategory classifies errors by their nature and retry semantics.
type ErrorCategory string

// Error categories define how errors should be handled.
const (
	// CategoryTransient indicates temporary failures where retry may succeed.
	// Examples: network timeouts, 5xx responses, connection resets.
	CategoryTransient ErrorCategory = "transient"

	// CategoryPermanent indicates failures where retry will not help.
	// Examples: invalid input, authentication rejection, missing credentials.
	CategoryPermanent ErrorCategory = "permanent"

	// CategoryResource indicates resource exhaustion or quota issues.
	// Examples: provider rate limiting, billing quota exceeded.
	CategoryResource ErrorCategory = "resource"

	// CategoryInternal indicates unexpected errors, bugs, or system failures.
	// Examples: malformed provider payloads, corrupted store state.
	CategoryInternal ErrorCategory = "internal"
)

// String returns the string representation of the category.
func (c ErrorCategory) String() string {
	return string(c)
}

// IsRetryable returns true if errors in this category may succeed on retry.
func (c ErrorCategory) IsRetryable() bool {
	switch c {
	case CategoryTransient, CategoryResource:
		return true
	default:
		return false
	}
}

// ErrorCode identifies specific error types within categories.
type ErrorCode string

// Error codes for common failure scenarios.
const (
	// Transient errors
	ErrCodeTimeout     ErrorCode = "TIMEOUT"     // Request timed out
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE" // Provider temporarily unavailable (5xx)
	ErrCodeNetworkErr  ErrorCode = "NETWORK_ERR" // Network connectivity issue

	// Permanent errors
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"     // Stored record does not exist
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT" // Malformed or invalid input
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"  // API key rejected
	ErrCodeConfig       ErrorCode = "CONFIG"        // Missing or invalid configuration
	ErrCodeCanceled     ErrorCode = "CANCELED"      // Operation was canceled

	// Resource errors
	ErrCodeRateLimit     ErrorCode = "RATE_LIMITED"   // Provider rate limit exceeded (429)
	ErrCodeQuotaExceeded ErrorCode = "QUOTA_EXCEEDED" // Billing quota exhausted

	// Internal errors
	ErrCodeInternal       ErrorCode = "INTERNAL"        // Unexpected internal error
	ErrCodeSchemaMismatch ErrorCode = "SCHEMA_MISMATCH" // Provider response failed validation

	// Pipeline-specific errors
	ErrCodeEmbeddingFailed ErrorCode = "EMBEDDING_FAILED" // Batch exhausted retries
)

// String returns the string representation of the error code.
func (c ErrorCode) String() string {
	return string(c)
}

// DefaultCategory returns the default category for an error code.
func (c ErrorCode) DefaultCategory() ErrorCategory {
	switch c {
	// Transient
	case ErrCodeTimeout, ErrCodeUnavailable, ErrCodeNetworkErr:
		return CategoryTransient

	// Permanent
	case ErrCodeNotFound, ErrCodeInvalidInput, ErrCodeUnauthorized,
		ErrCodeConfig, ErrCodeCanceled:
		return CategoryPermanent

	// Resource
	case ErrCodeRateLimit, ErrCodeQuotaExceeded:
		return CategoryResource

	// Internal
	case ErrCodeInternal, ErrCodeSchemaMismatch:
		return CategoryInternal

	case ErrCodeEmbeddingFailed:
		return CategoryPermanent

	default:
		return CategoryInternal
	}
}

// DefaultRetryable returns whether this error code is typically retryable.
func (c ErrorCode) DefaultRetryable() bool {
	return c.DefaultCategory().IsRetryable()
}

// codeDescriptions provides human-readable descriptions for error codes.
var codeDescriptions = map[ErrorCode]string{
	ErrCodeTimeout:         "request timed out",
	ErrCodeUnavailable:     "provider temporarily unavailable",
	ErrCodeNetworkErr:      "network connectivity error",
	ErrCodeNotFound:        "record not found",
	ErrCodeInvalidInput:    "invalid input provided",
	ErrCodeUnauthorized:    "authentication failed",
	ErrCodeConfig:          "invalid configuration",
	ErrCodeCanceled:        "operation canceled",
	ErrCodeRateLimit:       "rate limit exceeded",
	ErrCodeQuotaExceeded:   "quota exceeded",
	ErrCodeInternal:        "internal error",
	ErrCodeSchemaMismatch:  "provider response failed validation",
	ErrCodeEmbeddingFailed: "embedding generation failed",
}

// Description returns a human-readable description for the error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// CodeForStatus maps an HTTP status from the embedding provider to an
// error code. The mapping decides retry behavior: 429 and 5xx are
// retryable, other 4xx are not.
func CodeForStatus(status int) ErrorCode {
	switch {
	case status == 401 || status == 403:
		return ErrCodeUnauthorized
	case status == 402:
		return ErrCodeQuotaExceeded
	case status == 408:
		return ErrCodeTimeout
	case status == 429:
		return ErrCodeRateLimit
	case status >= 500:
		return ErrCodeUnavailable
	case status >= 400:
		return ErrCodeInvalidInput
	default:
		return ErrCodeInternal
	}
}
