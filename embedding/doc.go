// Package embedding is the single point of contact with embedding
// providers. It turns cleaned text into fixed-dimension vectors while
// handling throttling, retry with exponential backoff, and usage/cost
// accounting.
//
// The Client chunks batch submissions into provider-sized requests,
// preserves input order in the output, and degrades gracefully: a chunk
// that exhausts its retry budget yields nil placeholder vectors rather
// than aborting the run, with per-item failure detail in the BatchResult.
//
// Providers implement the Provider interface. OpenAIProvider speaks the
// provider wire format directly over net/http; SDKProvider uses the
// official OpenAI Go SDK for its transport; GoogleProvider targets the
// Gemini embedding API. MockProvider supports tests.
package embedding
