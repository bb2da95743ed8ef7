package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Ingestion Errors.

	// ErrEmptyInput indicates the corpus contained no text or only whitespace.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrNoChunksProduced indicates a non-empty corpus yielded zero chunks.
	ErrNoChunksProduced = errors.New("no documents created from text")

	// Recommendation Errors.

	// ErrNoCandidates indicates retrieval produced nothing to recommend from,
	// either because the index call failed or because the filters matched nothing.
	ErrNoCandidates = errors.New("no movies found")

	// ErrRetrievalNotInvoked indicates the generator answered without retrieving.
	// This is a contract violation and is never recoverable within a request.
	ErrRetrievalNotInvoked = errors.New("retrieve tool not called")

	// Capability Errors.

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexUnavailable indicates the candidate index is not configured.
	ErrIndexUnavailable = errors.New("candidate index unavailable")

	// ErrPosterCatalogUnavailable indicates the poster catalog is not configured.
	ErrPosterCatalogUnavailable = errors.New("poster catalog unavailable")

	// ErrRateLimited indicates an upstream API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
