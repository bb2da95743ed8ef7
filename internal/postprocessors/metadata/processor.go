// Package metadata provides a processor that stamps record-level metadata
// onto every chunk produced for the record.
package metadata

import (
	"context"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

// Name is the registry key for this processor.
const Name = "metadata"

// Processor copies the record's title and metadata to each chunk.
// It implements the PostProcessor interface and must run after a chunker.
type Processor struct{}

// New creates a new metadata processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process stamps metadata on the incoming chunks. Each chunk gets its own
// copy so later mutation of one chunk never leaks into its siblings.
func (p *Processor) Process(_ context.Context, record *domain.Record, chunks []domain.Chunk) ([]domain.Chunk, error) {
	for i := range chunks {
		chunks[i].Title = record.Title
		chunks[i].Metadata = record.Metadata.Clone()
	}
	return chunks, nil
}
