package driven

import (
	"context"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

// PostProcessor is one step of ingestion. A splitting step receives nil
// chunks and returns the record's chunks; an enriching step receives the
// chunks so far and returns them rewritten.
type PostProcessor interface {
	// Name is the key the processor is configured under.
	Name() string
	Process(ctx context.Context, record *domain.Record, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline turns one record into its final chunks.
type PostProcessorPipeline interface {
	Process(ctx context.Context, record *domain.Record) ([]domain.Chunk, error)
}
