// Package similarity ranks candidate embedding vectors by closeness to a
// reference vector.
//
// Cosine similarity is the primary metric; euclidean, dot-product, and
// manhattan variants are available for experimentation. All metrics treat
// zero-norm, empty, or dimension-mismatched vectors as "no similarity"
// (score 0) rather than an error.
//
// Ranking is deterministic: a stable descending sort means candidates with
// identical scores keep their input order, which keeps test fixtures
// reproducible.
package similarity
