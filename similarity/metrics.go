package similarity

import "math"

// Cosine computes cosine similarity between two embedding vectors.
// Returns a value between -1 and 1 (1 = identical direction). Returns 0
// when either vector is empty or zero-norm, or when dimensions mismatch.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

// Dot computes the raw dot product. Returns 0 for empty or mismatched
// vectors.
func Dot(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}

// Euclidean computes the euclidean distance between two vectors.
// Returns +Inf for empty or mismatched vectors so distances sort last.
func Euclidean(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// EuclideanSimilarity converts euclidean distance to a 0..1 similarity
// via 1/(1+distance).
func EuclideanSimilarity(a, b []float64) float64 {
	d := Euclidean(a, b)
	if math.IsInf(d, 1) {
		return 0
	}
	return 1 / (1 + d)
}

// Manhattan computes the manhattan (L1) distance between two vectors.
// Returns +Inf for empty or mismatched vectors.
func Manhattan(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

// Normalize returns a unit-length copy of v, or nil for a zero-norm or
// empty vector.
func Normalize(v []float64) []float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return nil
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// Stats summarizes a set of embedding vectors. Empty vectors count toward
// Count but not Valid.
type Stats struct {
	Count      int     `json:"count"`
	Valid      int     `json:"valid"`
	Dimensions int     `json:"dimensions"`
	MeanNorm   float64 `json:"mean_norm"`
	MinNorm    float64 `json:"min_norm"`
	MaxNorm    float64 `json:"max_norm"`
}

// Describe computes summary statistics for a set of vectors.
func Describe(vectors [][]float64) Stats {
	s := Stats{Count: len(vectors)}

	var sum float64
	for _, v := range vectors {
		if len(v) == 0 {
			continue
		}
		var norm float64
		for _, x := range v {
			norm += x * x
		}
		norm = math.Sqrt(norm)

		if s.Valid == 0 {
			s.Dimensions = len(v)
			s.MinNorm = norm
			s.MaxNorm = norm
		} else {
			if norm < s.MinNorm {
				s.MinNorm = norm
			}
			if norm > s.MaxNorm {
				s.MaxNorm = norm
			}
		}
		s.Valid++
		sum += norm
	}

	if s.Valid > 0 {
		s.MeanNorm = sum / float64(s.Valid)
	}
	return s
}
