// Package store persists postings and their embeddings on disk.
//
// Full-text search runs over a Bleve index (BM25); the posting records
// themselves, embeddings included, live in a JSON sidecar next to the
// index, keyed by posting ID. A single candidate profile gets its own
// slot. The store is safe for concurrent use.
package store
