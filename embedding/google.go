package embedding

import (
	"context"
	stderrors "errors"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/careergraph/jobmatch/errors"
)

// DefaultGoogleModel is the Gemini embedding model used when none is
// configured.
const DefaultGoogleModel = "text-embedding-004"

// GoogleProvider implements Provider using the official Gemini SDK.
// Gemini does not report token usage for embedding calls, so responses
// carry zero tokens and cost accounting records nothing for this backend.
type GoogleProvider struct {
	client *genai.Client
}

// GoogleConfig configures the Gemini provider.
type GoogleConfig struct {
	APIKey string
}

// NewGoogleProvider creates a Gemini embedding provider.
func NewGoogleProvider(ctx context.Context, cfg GoogleConfig) (*GoogleProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.Config("api key is required for gemini embeddings")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCodeConfig, "creating gemini client")
	}
	return &GoogleProvider{client: client}, nil
}

// Close closes the underlying client.
func (p *GoogleProvider) Close() error {
	return p.client.Close()
}

// CreateEmbeddings implements Provider. The whole input list goes out as
// one batched request; Gemini returns embeddings in input order.
func (p *GoogleProvider) CreateEmbeddings(ctx context.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = DefaultGoogleModel
	}

	em := p.client.EmbeddingModel(model)
	batch := em.NewBatch()
	for _, text := range req.Input {
		batch = batch.AddContent(genai.Text(text))
	}

	res, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		var gerr *googleapi.Error
		if stderrors.As(err, &gerr) {
			return nil, errors.Transport(gerr.Code, gerr.Message, errors.WithModel(model))
		}
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "embedding request")
		}
		return nil, errors.WrapWithCode(err, errors.ErrCodeNetworkErr, "gemini embedding request failed")
	}

	if len(res.Embeddings) != len(req.Input) {
		return nil, errors.Newf(errors.ErrCodeSchemaMismatch,
			"gemini returned %d embeddings for %d inputs", len(res.Embeddings), len(req.Input))
	}

	data := make([]Embedding, len(res.Embeddings))
	for i, e := range res.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, errors.Newf(errors.ErrCodeSchemaMismatch,
				"gemini returned empty embedding at %d", i)
		}
		vec := make(Vector, len(e.Values))
		for j, v := range e.Values {
			vec[j] = float64(v)
		}
		data[i] = Embedding{Vector: vec, Index: i}
	}

	return &Response{Data: data}, nil
}
