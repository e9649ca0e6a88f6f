package similarity

import (
	"math"
	"testing"
)

func TestRanker_TopKScenario(t *testing.T) {
	// Scores engineered as 0.30, 0.95, 0.90 against the reference.
	ref := []float64{1, 0}
	candidates := []Candidate{
		{ID: "J1", Vector: []float64{0.30, math.Sqrt(1 - 0.30*0.30)}},
		{ID: "J2", Vector: []float64{0.95, math.Sqrt(1 - 0.95*0.95)}},
		{ID: "J3", Vector: []float64{0.90, math.Sqrt(1 - 0.90*0.90)}},
	}

	matches := Ranker{}.Rank(ref, candidates, 2)

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].ID != "J2" || matches[0].Rank != 1 {
		t.Errorf("expected J2 at rank 1, got %s at rank %d", matches[0].ID, matches[0].Rank)
	}
	if !almostEqual(matches[0].Score, 0.95) {
		t.Errorf("expected score 0.95, got %v", matches[0].Score)
	}
	if matches[1].ID != "J3" || matches[1].Rank != 2 {
		t.Errorf("expected J3 at rank 2, got %s at rank %d", matches[1].ID, matches[1].Rank)
	}
	if !almostEqual(matches[1].Score, 0.90) {
		t.Errorf("expected score 0.90, got %v", matches[1].Score)
	}
}

func TestRanker_SortedDescendingWithRanks(t *testing.T) {
	ref := []float64{1, 0, 0}
	candidates := []Candidate{
		{ID: "a", Vector: []float64{0.1, 1, 0}},
		{ID: "b", Vector: []float64{5, 0, 0}},
		{ID: "c", Vector: []float64{1, 1, 0}},
		{ID: "d", Vector: []float64{0, 0, 1}},
	}

	matches := Ranker{}.Rank(ref, candidates, 0) // default top-K

	if len(matches) != 4 {
		t.Fatalf("expected all 4 candidates, got %d", len(matches))
	}
	for i := range matches {
		if matches[i].Rank != i+1 {
			t.Errorf("match %d: expected rank %d, got %d", i, i+1, matches[i].Rank)
		}
		if i > 0 && matches[i].Score > matches[i-1].Score {
			t.Errorf("scores not descending at %d: %v > %v", i, matches[i].Score, matches[i-1].Score)
		}
	}
	if matches[0].ID != "b" {
		t.Errorf("expected b first, got %s", matches[0].ID)
	}
}

func TestRanker_StableTieOrder(t *testing.T) {
	ref := []float64{1, 0}
	same := []float64{2, 0} // identical direction for everyone
	candidates := []Candidate{
		{ID: "first", Vector: same},
		{ID: "second", Vector: same},
		{ID: "third", Vector: same},
	}

	matches := Ranker{}.Rank(ref, candidates, 3)

	want := []string{"first", "second", "third"}
	for i, id := range want {
		if matches[i].ID != id {
			t.Errorf("tie order broken at %d: expected %s, got %s", i, id, matches[i].ID)
		}
	}
}

func TestRanker_TopKBeyondCandidates(t *testing.T) {
	ref := []float64{1, 0}
	candidates := []Candidate{
		{ID: "only", Vector: []float64{1, 1}},
	}

	matches := Ranker{}.Rank(ref, candidates, 50)
	if len(matches) != 1 {
		t.Errorf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Rank != 1 {
		t.Errorf("expected rank 1, got %d", matches[0].Rank)
	}
}

func TestRanker_EmptyCandidates(t *testing.T) {
	matches := Ranker{}.Rank([]float64{1, 0}, nil, 5)
	if len(matches) != 0 {
		t.Errorf("expected empty result, got %d matches", len(matches))
	}
}

func TestRanker_SkipsPlaceholderVectors(t *testing.T) {
	ref := []float64{1, 0}
	candidates := []Candidate{
		{ID: "failed", Vector: nil}, // embedding unavailable
		{ID: "ok", Vector: []float64{1, 0}},
	}

	matches := Ranker{}.Rank(ref, candidates, 10)
	if len(matches) != 1 {
		t.Fatalf("expected placeholder to be skipped, got %d matches", len(matches))
	}
	if matches[0].ID != "ok" {
		t.Errorf("expected ok, got %s", matches[0].ID)
	}
	if matches[0].Index != 1 {
		t.Errorf("expected original index 1, got %d", matches[0].Index)
	}
}

func TestRanker_CustomMetric(t *testing.T) {
	// Rank by negated euclidean distance: closest first.
	r := Ranker{Metric: func(ref, c []float64) float64 {
		return -Euclidean(ref, c)
	}}

	ref := []float64{0, 0}
	candidates := []Candidate{
		{ID: "far", Vector: []float64{10, 0}},
		{ID: "near", Vector: []float64{1, 0}},
	}

	matches := r.Rank(ref, candidates, 2)
	if matches[0].ID != "near" {
		t.Errorf("expected near first, got %s", matches[0].ID)
	}
}

func TestRankVectors(t *testing.T) {
	ref := []float64{1, 0}
	matches := Ranker{}.RankVectors(ref, [][]float64{
		{0, 1},
		{1, 0},
	}, 10)

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Index != 1 {
		t.Errorf("expected index 1 first, got %d", matches[0].Index)
	}
}
