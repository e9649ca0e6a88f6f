package embedding

import (
	"context"
	"sync"
)

// MockProvider is a deterministic in-memory provider for tests. Vectors
// derive from the text bytes, so identical texts always embed identically.
type MockProvider struct {
	mu        sync.Mutex
	dimension int
	calls     []*Request
	failWith  error
	failCount int // fail this many calls, then succeed; negative = always

	// TokensPerText overrides the per-text token charge (default 10).
	TokensPerText int
}

// NewMockProvider creates a mock provider with the given vector dimension.
func NewMockProvider(dimension int) *MockProvider {
	return &MockProvider{dimension: dimension, TokensPerText: 10}
}

// FailWith makes the next n calls return err. Negative n fails forever.
func (m *MockProvider) FailWith(err error, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
	m.failCount = n
}

// Calls returns the requests received so far.
func (m *MockProvider) Calls() []*Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// CreateEmbeddings implements Provider.
func (m *MockProvider) CreateEmbeddings(ctx context.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls = append(m.calls, req)
	if m.failWith != nil && m.failCount != 0 {
		if m.failCount > 0 {
			m.failCount--
		}
		err := m.failWith
		m.mu.Unlock()
		return nil, err
	}
	tokens := m.TokensPerText
	m.mu.Unlock()

	data := make([]Embedding, len(req.Input))
	for i, text := range req.Input {
		data[i] = Embedding{Vector: m.vectorFor(text), Index: i}
	}

	return &Response{
		Data:  data,
		Usage: UsageInfo{TotalTokens: tokens * len(req.Input)},
	}, nil
}

// vectorFor produces a deterministic vector from the text bytes.
func (m *MockProvider) vectorFor(text string) Vector {
	vec := make(Vector, m.dimension)
	if len(text) == 0 {
		return vec
	}
	for i := 0; i < m.dimension; i++ {
		vec[i] = float64(text[i%len(text)]) / 256.0
	}
	return vec
}
