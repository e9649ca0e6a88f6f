package embedding

import (
	"context"
	stderrors "errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/careergraph/jobmatch/errors"
)

// SDKProvider implements Provider on top of the official OpenAI Go SDK.
// Useful when callers want the SDK's transport stack (custom middleware,
// Azure-style endpoints) instead of the wire-level client. SDK-internal
// retries are disabled so the retry policy stays the single authority on
// attempt counts.
type SDKProvider struct {
	client *openai.Client
}

// SDKConfig configures the SDK-backed provider.
type SDKConfig struct {
	APIKey  string
	BaseURL string // optional custom endpoint
}

// NewSDKProvider creates an SDK-backed provider.
func NewSDKProvider(cfg SDKConfig) (*SDKProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.Config("api key is required for openai embeddings")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)
	return &SDKProvider{client: &client}, nil
}

// CreateEmbeddings implements Provider.
func (p *SDKProvider) CreateEmbeddings(ctx context.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(req.Model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: req.Input,
		},
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	}

	resp, err := p.client.Embeddings.New(ctx, params)
	if err != nil {
		var apierr *openai.Error
		if stderrors.As(err, &apierr) {
			return nil, errors.Transport(apierr.StatusCode, apierr.Error(), errors.WithModel(req.Model))
		}
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "embedding request")
		}
		return nil, errors.WrapWithCode(err, errors.ErrCodeNetworkErr, "embedding request failed")
	}

	data := make([]Embedding, 0, len(resp.Data))
	for _, d := range resp.Data {
		data = append(data, Embedding{
			Vector: Vector(d.Embedding),
			Index:  int(d.Index),
		})
	}

	sorted, err := sortByIndex(data, len(req.Input))
	if err != nil {
		return nil, err
	}

	return &Response{
		Data:  sorted,
		Usage: UsageInfo{TotalTokens: int(resp.Usage.TotalTokens)},
	}, nil
}
