package driven

import (
	"context"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

// CandidateIndex stores embedded chunks and answers filtered similarity queries.
type CandidateIndex interface {
	// Replace atomically swaps the index contents for the given chunks.
	// Every chunk must carry an embedding.
	Replace(ctx context.Context, chunks []domain.Chunk) error

	// Search returns up to query.TopK chunks ordered by descending similarity.
	// Rows are eligible only if they pass every filter in query.Filters. A row
	// missing the metadata a filter needs is excluded by that filter.
	Search(ctx context.Context, embedding []float32, query domain.IndexQuery) ([]domain.Candidate, error)

	// Count returns the number of indexed chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
