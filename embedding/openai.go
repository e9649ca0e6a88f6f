package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/careergraph/jobmatch/errors"
)

// Wire defaults for the OpenAI embeddings endpoint.
const (
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultTimeout bounds each provider call at the transport layer.
	DefaultTimeout = 30 * time.Second

	// bodyExcerptLimit caps how much of an error body ends up in logs.
	bodyExcerptLimit = 512
)

// OpenAIProvider speaks the OpenAI embeddings wire format directly over
// net/http: POST {base}/embeddings with bearer auth, JSON body
// {model, input, encoding_format}.
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// OpenAIConfig configures the wire-level provider.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string        // default: https://api.openai.com/v1
	Timeout time.Duration // default: 30s
}

// NewOpenAIProvider creates the wire-level provider. The API key must be
// present; resolution from the environment happens in the Client.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.Config("api key is required for openai embeddings")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OpenAIProvider{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// wireResponse mirrors the provider's success payload.
type wireResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     *int      `json:"index"`
	} `json:"data"`
	Usage struct {
		TotalTokens *int `json:"total_tokens"`
	} `json:"usage"`
}

// CreateEmbeddings implements Provider.
func (p *OpenAIProvider) CreateEmbeddings(ctx context.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling embedding request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "building embedding request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "embedding request")
		}
		return nil, errors.WrapWithCode(err, errors.ErrCodeNetworkErr, "embedding request failed")
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCodeNetworkErr, "reading embedding response")
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, errors.Transport(httpResp.StatusCode, excerpt(respBody), errors.WithModel(req.Model))
	}

	return parseWireResponse(respBody, len(req.Input))
}

// parseWireResponse validates the payload shape at the parse boundary and
// re-sorts data into input order.
func parseWireResponse(body []byte, inputLen int) (*Response, error) {
	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCodeSchemaMismatch, "parsing embedding response")
	}

	if wire.Usage.TotalTokens == nil {
		return nil, errors.SchemaMismatch("response missing usage.total_tokens")
	}

	data := make([]Embedding, 0, len(wire.Data))
	for i, d := range wire.Data {
		if d.Index == nil {
			return nil, errors.Newf(errors.ErrCodeSchemaMismatch,
				"response entry %d missing index", i)
		}
		if len(d.Embedding) == 0 {
			return nil, errors.Newf(errors.ErrCodeSchemaMismatch,
				"response entry %d has empty embedding", i)
		}
		data = append(data, Embedding{Vector: d.Embedding, Index: *d.Index})
	}

	sorted, err := sortByIndex(data, inputLen)
	if err != nil {
		return nil, err
	}

	return &Response{
		Data:  sorted,
		Usage: UsageInfo{TotalTokens: *wire.Usage.TotalTokens},
	}, nil
}

// excerpt truncates an error body for logging.
func excerpt(body []byte) string {
	if len(body) > bodyExcerptLimit {
		return string(body[:bodyExcerptLimit]) + "..."
	}
	return string(body)
}
