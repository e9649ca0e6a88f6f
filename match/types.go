package match

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Common errors.
var (
	ErrEmptyID    = errors.New("posting id is required")
	ErrEmptyTitle = errors.New("posting title is required")
	ErrEmptyName  = errors.New("candidate name is required")
)

// Posting is a job posting prepared for semantic matching.
type Posting struct {
	// ID uniquely identifies the posting.
	ID string `json:"id"`

	// Title is the job title.
	Title string `json:"title"`

	// Company is the hiring company.
	Company string `json:"company,omitempty"`

	// Location is the normalized job location.
	Location string `json:"location,omitempty"`

	// Description is the cleaned job description text.
	Description string `json:"description,omitempty"`

	// Skills lists required skills extracted from the description.
	Skills []string `json:"skills,omitempty"`

	// Embedding is the vector representation for semantic matching.
	Embedding []float64 `json:"embedding,omitempty"`

	// CreatedAt is when the posting was ingested.
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Validate checks if the posting has required fields.
func (p *Posting) Validate() error {
	if p.ID == "" {
		return ErrEmptyID
	}
	if p.Title == "" {
		return ErrEmptyTitle
	}
	return nil
}

// EmbeddingText returns a natural language representation of the posting
// suitable for embedding.
func (p *Posting) EmbeddingText() string {
	var b strings.Builder
	b.WriteString(p.Title)
	if p.Company != "" {
		b.WriteString(" at ")
		b.WriteString(p.Company)
	}
	if p.Location != "" {
		b.WriteString(" (")
		b.WriteString(p.Location)
		b.WriteString(")")
	}
	if p.Description != "" {
		b.WriteString(": ")
		b.WriteString(p.Description)
	}
	if len(p.Skills) > 0 {
		b.WriteString(" Skills:")
		for _, s := range p.Skills {
			b.WriteString(" ")
			b.WriteString(s)
		}
	}
	return strings.TrimSpace(b.String())
}

// Marshal serializes the posting to JSON.
func (p *Posting) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalPosting deserializes a posting from JSON.
func UnmarshalPosting(data []byte) (*Posting, error) {
	var p Posting
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Candidate is a job seeker's profile prepared for semantic matching.
type Candidate struct {
	// Name identifies the candidate.
	Name string `json:"name"`

	// Summary is a natural language summary of the candidate's background.
	Summary string `json:"summary,omitempty"`

	// Skills lists the candidate's skills.
	Skills []string `json:"skills,omitempty"`

	// Experience lists prior roles, most recent first.
	Experience []string `json:"experience,omitempty"`

	// Embedding is the vector representation for semantic matching.
	Embedding []float64 `json:"embedding,omitempty"`
}

// Validate checks if the candidate has required fields.
func (c *Candidate) Validate() error {
	if c.Name == "" {
		return ErrEmptyName
	}
	return nil
}

// EmbeddingText returns a natural language representation of the
// candidate suitable for embedding.
func (c *Candidate) EmbeddingText() string {
	var b strings.Builder
	b.WriteString(c.Summary)
	if len(c.Skills) > 0 {
		b.WriteString(" Skills:")
		for _, s := range c.Skills {
			b.WriteString(" ")
			b.WriteString(s)
		}
	}
	if len(c.Experience) > 0 {
		b.WriteString(" Experience:")
		for _, e := range c.Experience {
			b.WriteString(" ")
			b.WriteString(e)
		}
	}
	return strings.TrimSpace(b.String())
}

// HasSkill checks if the candidate lists a skill, case-insensitively.
func (c *Candidate) HasSkill(skill string) bool {
	for _, s := range c.Skills {
		if strings.EqualFold(s, skill) {
			return true
		}
	}
	return false
}

// Match pairs a posting with its similarity score and rank.
type Match struct {
	Posting *Posting `json:"posting"`
	Score   float64  `json:"score"`
	Rank    int      `json:"rank"`
}
