package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/google/uuid"

	"github.com/careergraph/jobmatch/errors"
	"github.com/careergraph/jobmatch/match"
)

const (
	indexFile     = "postings.bleve"
	postingsFile  = "postings.json"
	candidateFile = "candidate.json"
	metadataFile  = "metadata.json"
)

// Config configures a Store.
type Config struct {
	// BasePath is the directory for all storage files.
	BasePath string

	// Model records which embedding model produced the stored vectors.
	Model string
}

// Store is a disk-backed posting store with BM25 search.
type Store struct {
	mu sync.RWMutex

	index    bleve.Index
	basePath string

	// postings holds the full records; the bleve index only searches.
	postings  map[string]*match.Posting
	candidate *match.Candidate
	meta      metadata
}

type metadata struct {
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// postingDocument is the searchable projection of a posting.
type postingDocument struct {
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Skills      []string  `json:"skills"`
	CreatedAt   time.Time `json:"created_at"`
}

// New opens or creates a store rooted at cfg.BasePath.
func New(cfg Config) (*Store, error) {
	if cfg.BasePath == "" {
		return nil, errors.Config("store base path is required")
	}
	if err := os.MkdirAll(cfg.BasePath, 0755); err != nil {
		return nil, errors.Wrap(err, "creating storage directory")
	}

	indexPath := filepath.Join(cfg.BasePath, indexFile)

	var index bleve.Index
	var err error
	if _, serr := os.Stat(indexPath); os.IsNotExist(serr) {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, errors.Wrap(err, "creating bleve index")
		}
	} else {
		index, err = bleve.Open(indexPath)
		if err != nil {
			return nil, errors.Wrap(err, "opening bleve index")
		}
	}

	s := &Store{
		index:    index,
		basePath: cfg.BasePath,
		postings: make(map[string]*match.Posting),
		meta: metadata{
			Model:     cfg.Model,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		},
	}

	if err := s.load(); err != nil {
		index.Close()
		return nil, err
	}
	return s, nil
}

// buildIndexMapping indexes title and description with the standard
// analyzer and company, location, and skills as keywords.
func buildIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = standard.Name

	keywordField := bleve.NewKeywordFieldMapping()
	dateField := bleve.NewDateTimeFieldMapping()

	docMapping.AddFieldMappingsAt("title", textField)
	docMapping.AddFieldMappingsAt("description", textField)
	docMapping.AddFieldMappingsAt("company", keywordField)
	docMapping.AddFieldMappingsAt("location", keywordField)
	docMapping.AddFieldMappingsAt("skills", textField)
	docMapping.AddFieldMappingsAt("created_at", dateField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}

// SavePosting stores a posting and indexes it for search, assigning an
// ID when the posting has none. Returns the posting ID.
func (s *Store) SavePosting(ctx context.Context, p *match.Posting) (string, error) {
	if p.Title == "" {
		return "", errors.InvalidInput(match.ErrEmptyTitle.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	doc := postingDocument{
		Title:       p.Title,
		Company:     p.Company,
		Location:    p.Location,
		Description: p.Description,
		Skills:      p.Skills,
		CreatedAt:   p.CreatedAt,
	}
	if err := s.index.Index(p.ID, doc); err != nil {
		return "", errors.Wrap(err, "indexing posting")
	}

	stored := *p
	s.postings[p.ID] = &stored
	s.meta.UpdatedAt = time.Now().UTC()

	if err := s.savePostings(); err != nil {
		return "", err
	}
	return p.ID, nil
}

// SaveCandidate stores the candidate profile. The store holds a single
// candidate slot; saving replaces any previous profile.
func (s *Store) SaveCandidate(ctx context.Context, c *match.Candidate) error {
	if err := c.Validate(); err != nil {
		return errors.InvalidInput(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *c
	s.candidate = &stored
	s.meta.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(&stored, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding candidate")
	}
	if err := os.WriteFile(filepath.Join(s.basePath, candidateFile), data, 0644); err != nil {
		return errors.Wrap(err, "writing candidate")
	}
	return s.saveMetadata()
}

// Candidate returns the stored candidate profile, or a NOT_FOUND error
// when none has been saved.
func (s *Store) Candidate() (*match.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.candidate == nil {
		return nil, errors.NotFound("no candidate stored")
	}
	c := *s.candidate
	return &c, nil
}

// GetPosting returns a posting by ID.
func (s *Store) GetPosting(id string) (*match.Posting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.postings[id]
	if !ok {
		return nil, errors.NotFound("posting not found: " + id)
	}
	out := *p
	return &out, nil
}

// AllPostings returns every stored posting, oldest first.
func (s *Store) AllPostings() []*match.Posting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*match.Posting, 0, len(s.postings))
	for _, p := range s.postings {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// SearchPostings runs a BM25 full-text query over the indexed posting
// fields and returns matching postings, best first.
func (s *Store) SearchPostings(ctx context.Context, queryText string, limit int) ([]*match.Posting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	searchReq := bleve.NewSearchRequest(bleve.NewMatchQuery(queryText))
	searchReq.Size = limit

	result, err := s.index.SearchInContext(ctx, searchReq)
	if err != nil {
		return nil, errors.Wrap(err, "searching postings")
	}

	out := make([]*match.Posting, 0, len(result.Hits))
	for _, hit := range result.Hits {
		if p, ok := s.postings[hit.ID]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// DeletePosting removes a posting from the index and the sidecar.
func (s *Store) DeletePosting(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.postings[id]; !ok {
		return errors.NotFound("posting not found: " + id)
	}
	if err := s.index.Delete(id); err != nil {
		return errors.Wrap(err, "deleting from index")
	}
	delete(s.postings, id)
	s.meta.UpdatedAt = time.Now().UTC()
	return s.savePostings()
}

// Stats summarizes store contents.
type Stats struct {
	Postings       int       `json:"postings"`
	WithEmbedding  int       `json:"with_embedding"`
	CandidateSaved bool      `json:"candidate_saved"`
	Model          string    `json:"model,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Stats reports posting counts and embedding coverage.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Postings:       len(s.postings),
		CandidateSaved: s.candidate != nil,
		Model:          s.meta.Model,
		UpdatedAt:      s.meta.UpdatedAt,
	}
	for _, p := range s.postings {
		if len(p.Embedding) > 0 {
			st.WithEmbedding++
		}
	}
	return st
}

// Close flushes sidecar files and closes the index.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.savePostings(); err != nil {
		return err
	}
	return s.index.Close()
}

// load reads the sidecar files. Missing files are a fresh store, not an
// error.
func (s *Store) load() error {
	data, err := os.ReadFile(filepath.Join(s.basePath, postingsFile))
	if err == nil {
		if err := json.Unmarshal(data, &s.postings); err != nil {
			return errors.SchemaMismatch("decoding postings sidecar: " + err.Error())
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, "reading postings sidecar")
	}

	data, err = os.ReadFile(filepath.Join(s.basePath, candidateFile))
	if err == nil {
		var c match.Candidate
		if err := json.Unmarshal(data, &c); err != nil {
			return errors.SchemaMismatch("decoding candidate: " + err.Error())
		}
		s.candidate = &c
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, "reading candidate")
	}

	data, err = os.ReadFile(filepath.Join(s.basePath, metadataFile))
	if err == nil {
		if err := json.Unmarshal(data, &s.meta); err != nil {
			return errors.SchemaMismatch("decoding metadata: " + err.Error())
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, "reading metadata")
	}
	return nil
}

func (s *Store) savePostings() error {
	data, err := json.MarshalIndent(s.postings, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding postings")
	}
	if err := os.WriteFile(filepath.Join(s.basePath, postingsFile), data, 0644); err != nil {
		return errors.Wrap(err, "writing postings sidecar")
	}
	return s.saveMetadata()
}

func (s *Store) saveMetadata() error {
	data, err := json.MarshalIndent(&s.meta, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding metadata")
	}
	if err := os.WriteFile(filepath.Join(s.basePath, metadataFile), data, 0644); err != nil {
		return errors.Wrap(err, "writing metadata")
	}
	return nil
}
