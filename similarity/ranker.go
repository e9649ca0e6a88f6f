package similarity

import "sort"

// DefaultTopK is the truncation applied when no explicit top-K is given.
const DefaultTopK = 10

// RankedMatch pairs a candidate with its similarity score and 1-based rank.
type RankedMatch struct {
	ID    string  `json:"id"`
	Index int     `json:"index"` // position in the input candidate list
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// Candidate is a vector with an identifier, submitted for ranking.
type Candidate struct {
	ID     string
	Vector []float64
}

// Ranker ranks candidate vectors against a reference vector. The zero
// value ranks by cosine similarity.
type Ranker struct {
	// Metric scores a candidate against the reference. Nil means Cosine.
	Metric func(reference, candidate []float64) float64
}

// Rank scores every candidate against the reference, sorts descending by
// score, and truncates to topK (DefaultTopK when topK <= 0). Candidates
// with empty vectors are skipped: a placeholder from a failed embedding
// batch has no defined similarity. Equal scores keep input order, and a
// topK beyond the candidate count returns everything ranked.
func (r Ranker) Rank(reference []float64, candidates []Candidate, topK int) []RankedMatch {
	if topK <= 0 {
		topK = DefaultTopK
	}
	metric := r.Metric
	if metric == nil {
		metric = Cosine
	}

	matches := make([]RankedMatch, 0, len(candidates))
	for i, c := range candidates {
		if len(c.Vector) == 0 {
			continue
		}
		matches = append(matches, RankedMatch{
			ID:    c.ID,
			Index: i,
			Score: metric(reference, c.Vector),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	for i := range matches {
		matches[i].Rank = i + 1
	}
	return matches
}

// RankVectors ranks anonymous vectors, assigning each candidate its input
// index as identity.
func (r Ranker) RankVectors(reference []float64, vectors [][]float64, topK int) []RankedMatch {
	candidates := make([]Candidate, len(vectors))
	for i, v := range vectors {
		candidates[i] = Candidate{Vector: v}
	}
	return r.Rank(reference, candidates, topK)
}
