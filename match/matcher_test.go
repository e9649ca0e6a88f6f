package match

import (
	"context"
	"math"
	"testing"

	"github.com/careergraph/jobmatch/embedding"
	"github.com/careergraph/jobmatch/errors"
	"github.com/careergraph/jobmatch/logging"
	"github.com/careergraph/jobmatch/ratelimit"
)

// fakeEmbedder returns scripted vectors keyed by input text.
type fakeEmbedder struct {
	vectors map[string]embedding.Vector
	fail    map[string]error
}

func (f *fakeEmbedder) EmbedText(ctx context.Context, text string) (embedding.Vector, error) {
	if err := f.fail[text]; err != nil {
		return nil, err
	}
	return f.vectors[text], nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) (*embedding.BatchResult, error) {
	result := &embedding.BatchResult{Items: make([]embedding.BatchItem, len(texts))}
	for i, text := range texts {
		if err := f.fail[text]; err != nil {
			result.Items[i] = embedding.BatchItem{Err: err}
			continue
		}
		result.Items[i] = embedding.BatchItem{Vector: f.vectors[text]}
	}
	return result, nil
}

func quietLogger() *logging.Logger {
	l := logging.New().WithComponent("test")
	l.SetLevel(logging.LevelError)
	return l
}

// vectorWithCosine builds a unit vector whose cosine similarity to the
// reference vector {1, 0} is exactly s.
func vectorWithCosine(s float64) embedding.Vector {
	return embedding.Vector{s, math.Sqrt(1 - s*s)}
}

func TestPostingEmbeddingText(t *testing.T) {
	p := &Posting{
		ID:          "j1",
		Title:       "Backend Engineer",
		Company:     "Acme",
		Location:    "St. Louis, MO",
		Description: "Build Go services.",
		Skills:      []string{"Go", "PostgreSQL"},
	}
	want := "Backend Engineer at Acme (St. Louis, MO): Build Go services. Skills: Go PostgreSQL"
	if got := p.EmbeddingText(); got != want {
		t.Errorf("EmbeddingText() = %q, want %q", got, want)
	}

	minimal := &Posting{ID: "j2", Title: "Analyst"}
	if got := minimal.EmbeddingText(); got != "Analyst" {
		t.Errorf("EmbeddingText() = %q, want %q", got, "Analyst")
	}
}

func TestCandidateEmbeddingText(t *testing.T) {
	c := &Candidate{
		Name:       "Jordan",
		Summary:    "Backend engineer.",
		Skills:     []string{"Go"},
		Experience: []string{"Acme 2020-2024"},
	}
	want := "Backend engineer. Skills: Go Experience: Acme 2020-2024"
	if got := c.EmbeddingText(); got != want {
		t.Errorf("EmbeddingText() = %q, want %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	if err := (&Posting{Title: "x"}).Validate(); err != ErrEmptyID {
		t.Errorf("Validate() = %v, want ErrEmptyID", err)
	}
	if err := (&Posting{ID: "x"}).Validate(); err != ErrEmptyTitle {
		t.Errorf("Validate() = %v, want ErrEmptyTitle", err)
	}
	if err := (&Candidate{}).Validate(); err != ErrEmptyName {
		t.Errorf("Validate() = %v, want ErrEmptyName", err)
	}
}

func TestEmbedPostings(t *testing.T) {
	p1 := &Posting{ID: "j1", Title: "Engineer"}
	p2 := &Posting{ID: "j2", Title: "Analyst"}
	blank := &Posting{ID: "j3", Title: "   "}

	fake := &fakeEmbedder{vectors: map[string]embedding.Vector{
		"Engineer": {1, 0},
		"Analyst":  {0, 1},
	}}
	m := NewMatcher(fake, quietLogger())

	embedded, failed, err := m.EmbedPostings(context.Background(), []*Posting{p1, p2, blank})
	if err != nil {
		t.Fatalf("EmbedPostings: %v", err)
	}
	if embedded != 2 || failed != 0 {
		t.Errorf("embedded = %d, failed = %d, want 2, 0", embedded, failed)
	}
	if len(p1.Embedding) == 0 || len(p2.Embedding) == 0 {
		t.Error("postings missing embeddings")
	}
	if blank.Embedding != nil {
		t.Error("blank posting should not be embedded")
	}
}

func TestEmbedPostings_PartialFailure(t *testing.T) {
	p1 := &Posting{ID: "j1", Title: "Engineer"}
	p2 := &Posting{ID: "j2", Title: "Analyst"}

	fake := &fakeEmbedder{
		vectors: map[string]embedding.Vector{"Engineer": {1, 0}},
		fail:    map[string]error{"Analyst": errors.EmbeddingFailed(1, "provider down")},
	}
	m := NewMatcher(fake, quietLogger())

	embedded, failed, err := m.EmbedPostings(context.Background(), []*Posting{p1, p2})
	if err != nil {
		t.Fatalf("EmbedPostings: %v", err)
	}
	if embedded != 1 || failed != 1 {
		t.Errorf("embedded = %d, failed = %d, want 1, 1", embedded, failed)
	}
	if p2.Embedding != nil {
		t.Error("failed posting should keep nil embedding")
	}
}

func TestEmbedCandidate_NoText(t *testing.T) {
	m := NewMatcher(&fakeEmbedder{}, quietLogger())
	err := m.EmbedCandidate(context.Background(), &Candidate{Name: "Jordan"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("EmbedCandidate error = %v, want INVALID_INPUT", err)
	}
}

func TestTopMatches(t *testing.T) {
	postings := []*Posting{
		{ID: "j1", Title: "A", Embedding: vectorWithCosine(0.30)},
		{ID: "j2", Title: "B", Embedding: vectorWithCosine(0.95)},
		{ID: "j3", Title: "C", Embedding: vectorWithCosine(0.90)},
	}
	c := &Candidate{Name: "Jordan", Embedding: embedding.Vector{1, 0}}

	m := NewMatcher(&fakeEmbedder{}, quietLogger())
	matches, err := m.TopMatches(context.Background(), c, postings, 2)
	if err != nil {
		t.Fatalf("TopMatches: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	if matches[0].Posting.ID != "j2" || matches[0].Rank != 1 {
		t.Errorf("top match = %s rank %d, want j2 rank 1", matches[0].Posting.ID, matches[0].Rank)
	}
	if matches[1].Posting.ID != "j3" || matches[1].Rank != 2 {
		t.Errorf("second match = %s rank %d, want j3 rank 2", matches[1].Posting.ID, matches[1].Rank)
	}
	if math.Abs(matches[0].Score-0.95) > 1e-9 {
		t.Errorf("top score = %v, want 0.95", matches[0].Score)
	}
}

func TestTopMatches_EmbedsCandidateOnDemand(t *testing.T) {
	postings := []*Posting{
		{ID: "j1", Title: "A", Embedding: embedding.Vector{1, 0}},
		{ID: "j2", Title: "B"}, // never embedded, must be excluded
	}
	fake := &fakeEmbedder{vectors: map[string]embedding.Vector{
		"Backend engineer.": {1, 0},
	}}
	m := NewMatcher(fake, quietLogger())

	c := &Candidate{Name: "Jordan", Summary: "Backend engineer."}
	matches, err := m.TopMatches(context.Background(), c, postings, 10)
	if err != nil {
		t.Fatalf("TopMatches: %v", err)
	}
	if len(c.Embedding) == 0 {
		t.Error("candidate was not embedded on demand")
	}
	if len(matches) != 1 || matches[0].Posting.ID != "j1" {
		t.Errorf("matches = %v, want only j1", matches)
	}
}

// End to end against the real embedding client with a mock provider.
func TestMatcherWithEmbeddingClient(t *testing.T) {
	client, err := embedding.NewClient(embedding.Config{
		Provider: embedding.NewMockProvider(8),
		Limiter:  ratelimit.NewPacer(0),
		Log:      quietLogger(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	m := NewMatcher(client, quietLogger())

	postings := []*Posting{
		{ID: "j1", Title: "Go Engineer", Description: "Build services in Go."},
		{ID: "j2", Title: "Data Analyst", Description: "SQL and dashboards."},
	}
	embedded, failed, err := m.EmbedPostings(context.Background(), postings)
	if err != nil {
		t.Fatalf("EmbedPostings: %v", err)
	}
	if embedded != 2 || failed != 0 {
		t.Fatalf("embedded = %d, failed = %d, want 2, 0", embedded, failed)
	}

	c := &Candidate{Name: "Jordan", Summary: "Go engineer building services."}
	matches, err := m.TopMatches(context.Background(), c, postings, 1)
	if err != nil {
		t.Fatalf("TopMatches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matches))
	}
	if matches[0].Rank != 1 {
		t.Errorf("rank = %d, want 1", matches[0].Rank)
	}
}
