package match

import (
	"context"
	"time"

	"github.com/careergraph/jobmatch/embedding"
	"github.com/careergraph/jobmatch/errors"
	"github.com/careergraph/jobmatch/logging"
	"github.com/careergraph/jobmatch/similarity"
)

// Embedder generates embedding vectors from text. *embedding.Client
// satisfies it.
type Embedder interface {
	EmbedText(ctx context.Context, text string) (embedding.Vector, error)
	EmbedBatch(ctx context.Context, texts []string) (*embedding.BatchResult, error)
}

// Matcher orchestrates embedding generation and similarity ranking for
// postings and candidates.
type Matcher struct {
	embedder Embedder
	ranker   similarity.Ranker
	log      *logging.Logger
}

// NewMatcher creates a matcher ranking by cosine similarity.
func NewMatcher(embedder Embedder, log *logging.Logger) *Matcher {
	if log == nil {
		log = logging.New().WithComponent("match")
	}
	return &Matcher{embedder: embedder, log: log}
}

// EmbedPostings embeds every posting in place, batching provider calls.
// Postings with empty embedding text are skipped with a warning, and a
// posting whose batch chunk failed keeps a nil embedding. Returns how
// many postings were embedded and how many failed.
func (m *Matcher) EmbedPostings(ctx context.Context, postings []*Posting) (embedded, failed int, err error) {
	texts := make([]string, 0, len(postings))
	indices := make([]int, 0, len(postings))
	for i, p := range postings {
		if verr := p.Validate(); verr != nil {
			return 0, 0, errors.InvalidInput(verr.Error())
		}
		text := p.EmbeddingText()
		if text == "" {
			m.log.Warn("posting_missing_text", map[string]interface{}{
				"id":    p.ID,
				"title": p.Title,
			})
			continue
		}
		texts = append(texts, text)
		indices = append(indices, i)
	}
	if len(texts) == 0 {
		return 0, 0, nil
	}

	result, err := m.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, 0, err
	}

	for j, item := range result.Items {
		p := postings[indices[j]]
		if item.Err != nil {
			failed++
			m.log.Warn("posting_embedding_failed", map[string]interface{}{
				"id":    p.ID,
				"error": item.Err.Error(),
			})
			continue
		}
		p.Embedding = item.Vector
		embedded++
	}
	return embedded, failed, nil
}

// EmbedCandidate embeds the candidate profile in place. A candidate with
// no embeddable text is an input error, not a silent skip.
func (m *Matcher) EmbedCandidate(ctx context.Context, c *Candidate) error {
	if err := c.Validate(); err != nil {
		return errors.InvalidInput(err.Error())
	}
	text := c.EmbeddingText()
	if text == "" {
		return errors.InvalidInput("candidate has no text to embed")
	}

	vec, err := m.embedder.EmbedText(ctx, text)
	if err != nil {
		return err
	}
	c.Embedding = vec
	return nil
}

// TopMatches ranks postings against the candidate and returns the top k,
// highest similarity first. The candidate is embedded on the fly when it
// has no vector yet. Postings without embeddings are excluded from
// ranking.
func (m *Matcher) TopMatches(ctx context.Context, c *Candidate, postings []*Posting, k int) ([]Match, error) {
	if len(c.Embedding) == 0 {
		if err := m.EmbedCandidate(ctx, c); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	candidates := make([]similarity.Candidate, len(postings))
	for i, p := range postings {
		candidates[i] = similarity.Candidate{ID: p.ID, Vector: p.Embedding}
	}

	ranked := m.ranker.Rank(c.Embedding, candidates, k)
	matches := make([]Match, len(ranked))
	for i, r := range ranked {
		matches[i] = Match{
			Posting: postings[r.Index],
			Score:   r.Score,
			Rank:    r.Rank,
		}
	}

	m.log.RankingComplete(len(postings), len(matches), time.Since(start))
	return matches, nil
}
