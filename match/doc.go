// Package match pairs job postings with a candidate profile.
//
// It owns the domain types (Posting, Candidate) and the Matcher, which
// orchestrates embedding generation and similarity ranking: postings are
// embedded in batches, the candidate is embedded once, and TopMatches
// ranks postings by cosine similarity to the candidate.
package match
