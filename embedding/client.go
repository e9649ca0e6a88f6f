package embedding

import (
	"context"
	"strings"
	"time"

	"github.com/careergraph/jobmatch/credentials"
	"github.com/careergraph/jobmatch/errors"
	"github.com/careergraph/jobmatch/logging"
	"github.com/careergraph/jobmatch/ratelimit"
	"github.com/careergraph/jobmatch/retry"
)

// DefaultMaxAttempts is the per-request attempt budget for provider calls.
// Lower than the retry package default: embedding runs favor skipping a
// chunk over long stalls.
const DefaultMaxAttempts = 3

// Config configures a Client.
type Config struct {
	// Provider overrides provider construction. When nil, one is built
	// from ProviderName and the resolved API key.
	Provider Provider

	// ProviderName selects the backend: "openai" (default, wire-level),
	// "openai-sdk", or "google".
	ProviderName string

	// Model is the embedding model (default text-embedding-3-small).
	Model string

	// APIKey overrides credential resolution (environment first, then
	// credentials.toml).
	APIKey string

	// BaseURL overrides the provider endpoint. Useful for tests and
	// gateway deployments.
	BaseURL string

	// Timeout bounds each provider call (default 30s).
	Timeout time.Duration

	// BatchSize caps texts per provider request (default 100, the
	// provider maximum).
	BatchSize int

	// MaxAttempts is the retry budget per request (default 3).
	MaxAttempts int

	// BaseDelay seeds the exponential backoff (default 1s).
	BaseDelay time.Duration

	// Limiter overrides request pacing. Default: the ceiling for the
	// model's tier.
	Limiter ratelimit.Limiter

	Log *logging.Logger
}

// Client is the single point of contact with the embedding provider.
// Stateless between calls except for the rate-limiter clock and the
// usage totals.
type Client struct {
	provider  Provider
	model     string
	batchSize int
	limiter   ratelimit.Limiter
	policy    *retry.Policy
	usage     *usageAccount
	log       *logging.Logger
}

// NewClient builds a client. Construction fails fast with a CONFIG error
// when no API key can be resolved for the selected provider.
func NewClient(cfg Config) (*Client, error) {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	if cfg.Log == nil {
		cfg.Log = logging.New().WithComponent("embedding")
	}

	provider := cfg.Provider
	if provider == nil {
		var err error
		provider, err = buildProvider(cfg)
		if err != nil {
			return nil, err
		}
	}

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = ratelimit.ForModel(model)
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 || batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	return &Client{
		provider:  provider,
		model:     model,
		batchSize: batchSize,
		limiter:   limiter,
		policy: retry.New(retry.Config{
			MaxAttempts: maxAttempts,
			BaseDelay:   cfg.BaseDelay,
			Log:         cfg.Log,
		}),
		usage: newUsageAccount(model),
		log:   cfg.Log,
	}, nil
}

// buildProvider constructs the backend named in the config, resolving the
// API key from the environment and credential files.
func buildProvider(cfg Config) (Provider, error) {
	name := cfg.ProviderName
	if name == "" {
		name = "openai"
	}

	providerKey := "openai"
	if name == "google" {
		providerKey = "google"
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = credentials.ResolveAPIKey(providerKey)
	}
	if apiKey == "" {
		return nil, errors.Newf(errors.ErrCodeConfig,
			"no api key for %s: set %s or add a credentials.toml entry",
			name, credentials.EnvVarForProvider(providerKey))
	}

	switch name {
	case "openai":
		return NewOpenAIProvider(OpenAIConfig{
			APIKey:  apiKey,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	case "openai-sdk":
		return NewSDKProvider(SDKConfig{
			APIKey:  apiKey,
			BaseURL: cfg.BaseURL,
		})
	case "google":
		return NewGoogleProvider(context.Background(), GoogleConfig{APIKey: apiKey})
	default:
		return nil, errors.Newf(errors.ErrCodeConfig, "unknown embedding provider %q", name)
	}
}

// Model returns the configured embedding model.
func (c *Client) Model() string {
	return c.model
}

// EmbedText embeds a single text. Blank input is not an error: it logs a
// warning and returns a nil vector without touching the network.
func (c *Client) EmbedText(ctx context.Context, text string) (Vector, error) {
	if strings.TrimSpace(text) == "" {
		c.log.EmptyInput()
		return nil, nil
	}

	resp, err := c.call(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	c.usage.record(resp.Usage.TotalTokens)
	c.log.Debug("embedded_text", map[string]interface{}{
		"chars":  len(text),
		"tokens": resp.Usage.TotalTokens,
	})
	return resp.Data[0].Vector, nil
}

// BatchItem is the outcome for one input text in a batch run.
type BatchItem struct {
	Vector Vector // nil when the chunk failed
	Err    error  // the chunk's final error, nil on success
}

// BatchResult carries per-item outcomes for a batch run. The item list
// always matches the input list in length and order.
type BatchResult struct {
	Items []BatchItem
}

// Vectors flattens the result into one vector per input text, nil
// placeholders included, so output length always equals input length.
func (r *BatchResult) Vectors() []Vector {
	out := make([]Vector, len(r.Items))
	for i, item := range r.Items {
		out[i] = item.Vector
	}
	return out
}

// Failed counts items whose chunk exhausted its retry budget.
func (r *BatchResult) Failed() int {
	n := 0
	for _, item := range r.Items {
		if item.Err != nil {
			n++
		}
	}
	return n
}

// EmbedBatch embeds texts in consecutive chunks of at most the configured
// batch size, preserving input order throughout. A chunk that exhausts
// its retries yields per-item failures (nil vectors) and the run
// continues with the next chunk; only context cancellation aborts the
// whole call.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) (*BatchResult, error) {
	result := &BatchResult{Items: make([]BatchItem, len(texts))}
	if len(texts) == 0 {
		return result, nil
	}

	start := time.Now()
	c.log.BatchStart(len(texts), c.batchSize)

	totalChunks := (len(texts) + c.batchSize - 1) / c.batchSize
	failed := 0

	for i := 0; i < len(texts); i += c.batchSize {
		end := i + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		chunk := texts[i:end]
		chunkNum := i/c.batchSize + 1

		resp, err := c.call(ctx, chunk)
		if err != nil {
			if ctx.Err() != nil {
				return result, errors.Wrap(ctx.Err(), "embedding batch aborted")
			}
			chunkErr := errors.EmbeddingFailed(chunkNum, err.Error(), errors.WithCause(err))
			c.log.BatchChunkFailed(chunkNum, totalChunks, len(chunk), err)
			for j := range chunk {
				result.Items[i+j] = BatchItem{Err: chunkErr}
			}
			failed += len(chunk)
			continue
		}

		for j, d := range resp.Data {
			result.Items[i+j] = BatchItem{Vector: d.Vector}
		}
		c.usage.record(resp.Usage.TotalTokens)
		c.log.BatchChunk(chunkNum, totalChunks, len(chunk),
			resp.Usage.TotalTokens, CostForTokens(c.model, resp.Usage.TotalTokens))
	}

	c.log.BatchComplete(len(texts)-failed, failed, time.Since(start))
	return result, nil
}

// call runs one paced, retry-wrapped provider request.
func (c *Client) call(ctx context.Context, input []string) (*Response, error) {
	wait, err := c.limiter.Wait(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "rate limit wait")
	}
	if wait > 0 {
		c.log.RateLimitWait(wait)
	}

	req := &Request{
		Model:          c.model,
		Input:          input,
		EncodingFormat: EncodingFormatFloat,
	}

	var resp *Response
	err = c.policy.Do(ctx, func(ctx context.Context) error {
		var callErr error
		resp, callErr = c.provider.CreateEmbeddings(ctx, req)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// EstimateTokens is a fast pre-flight heuristic: roughly one token per
// four characters. Advisory only; billing math always uses the token
// count the provider reports.
func (c *Client) EstimateTokens(text string) int {
	return (len(text) + 2) / 4
}

// Usage returns a snapshot of cumulative provider usage.
func (c *Client) Usage() UsageSnapshot {
	return c.usage.snapshot()
}

// ResetUsage zeroes the usage counters.
func (c *Client) ResetUsage() {
	c.usage.reset()
	c.log.Info("usage_reset")
}

// TestConnection embeds a fixed short string and reports success without
// raising. Useful as a pre-flight credential check.
func (c *Client) TestConnection(ctx context.Context) bool {
	vec, err := c.EmbedText(ctx, "Hello, world!")
	if err != nil {
		c.log.Error("connection_test_failed", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	c.log.Info("connection_test_ok", map[string]interface{}{
		"dimension": len(vec),
	})
	return true
}
