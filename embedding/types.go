package embedding

import (
	"context"

	"github.com/careergraph/jobmatch/errors"
)

// Provider limits and defaults.
const (
	// MaxBatchSize is the provider's input-list ceiling per request.
	MaxBatchSize = 100

	// DefaultModel is used when no model is configured.
	DefaultModel = "text-embedding-3-small"

	// EncodingFormatFloat requests raw float arrays in responses.
	EncodingFormatFloat = "float"
)

// Vector is a fixed-dimension embedding, immutable once produced. A nil
// or empty Vector means "embedding unavailable" and must be excluded from
// ranking.
type Vector []float64

// Request is one provider call: a model, an ordered input list, and the
// output encoding selector.
type Request struct {
	Model          string   `json:"model"`
	Input          []string `json:"input"`
	EncodingFormat string   `json:"encoding_format"`
}

// Validate checks request invariants before any network traffic.
func (r *Request) Validate() error {
	if r.Model == "" {
		return errors.InvalidInput("model is required")
	}
	if len(r.Input) == 0 {
		return errors.InvalidInput("input list is empty")
	}
	if len(r.Input) > MaxBatchSize {
		return errors.Newf(errors.ErrCodeInvalidInput,
			"input list has %d texts, provider maximum is %d", len(r.Input), MaxBatchSize)
	}
	return nil
}

// Embedding is one (vector, source index) pair from a provider response.
// Index identifies the input text; response order is provider-assigned
// and must not be trusted.
type Embedding struct {
	Vector Vector `json:"embedding"`
	Index  int    `json:"index"`
}

// UsageInfo reports token consumption for one request.
type UsageInfo struct {
	TotalTokens int `json:"total_tokens"`
}

// Response is a parsed, validated provider response with Data re-sorted
// into input order.
type Response struct {
	Data  []Embedding `json:"data"`
	Usage UsageInfo   `json:"usage"`
}

// Provider executes a single embedding request against a backend.
// Implementations classify failures via the errors package so the retry
// policy can tell transient from permanent.
type Provider interface {
	CreateEmbeddings(ctx context.Context, req *Request) (*Response, error)
}

// sortByIndex validates indices and rearranges provider data into input
// order. Fails with SCHEMA_MISMATCH when counts or indices are off.
func sortByIndex(data []Embedding, inputLen int) ([]Embedding, error) {
	if len(data) != inputLen {
		return nil, errors.Newf(errors.ErrCodeSchemaMismatch,
			"provider returned %d embeddings for %d inputs", len(data), inputLen)
	}

	sorted := make([]Embedding, inputLen)
	seen := make([]bool, inputLen)
	for _, d := range data {
		if d.Index < 0 || d.Index >= inputLen {
			return nil, errors.Newf(errors.ErrCodeSchemaMismatch,
				"provider returned out-of-range index %d", d.Index)
		}
		if seen[d.Index] {
			return nil, errors.Newf(errors.ErrCodeSchemaMismatch,
				"provider returned duplicate index %d", d.Index)
		}
		seen[d.Index] = true
		sorted[d.Index] = d
	}
	return sorted, nil
}
