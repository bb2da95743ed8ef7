package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
)

// Ensure CandidateIndex implements the interface.
var _ driven.CandidateIndex = (*CandidateIndex)(nil)

// CandidateIndex is an in-memory implementation of driven.CandidateIndex.
// It scans every chunk per query, which is fine for a corpus of a few
// thousand movies and for tests.
type CandidateIndex struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
}

// NewCandidateIndex creates a new empty in-memory candidate index.
func NewCandidateIndex() *CandidateIndex {
	return &CandidateIndex{}
}

// Replace swaps the index contents.
func (idx *CandidateIndex) Replace(_ context.Context, chunks []domain.Chunk) error {
	stored := make([]domain.Chunk, len(chunks))
	for i, c := range chunks {
		if len(c.Embedding) == 0 {
			return fmt.Errorf("chunk %s: %w: missing embedding", c.ID, domain.ErrInvalidInput)
		}
		c.Metadata = c.Metadata.Clone()
		c.Embedding = append([]float32(nil), c.Embedding...)
		stored[i] = c
	}

	idx.mu.Lock()
	idx.chunks = stored
	idx.mu.Unlock()
	return nil
}

// Search returns the top matching chunks that pass the filters.
func (idx *CandidateIndex) Search(
	ctx context.Context,
	embedding []float32,
	query domain.IndexQuery,
) ([]domain.Candidate, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("%w: empty query embedding", domain.ErrInvalidInput)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var candidates []domain.Candidate
	for _, c := range idx.chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !query.Filters.Admits(c.Title, c.Metadata) {
			continue
		}
		if len(c.Embedding) != len(embedding) {
			return nil, fmt.Errorf("embedding dimension mismatch: index has %d, query has %d",
				len(c.Embedding), len(embedding))
		}
		candidates = append(candidates, domain.Candidate{
			Content:    c.Text,
			Metadata:   c.Metadata.Map(),
			Similarity: domain.CosineSimilarity(embedding, c.Embedding),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})

	topK := query.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates, nil
}

// Count returns the number of indexed chunks.
func (idx *CandidateIndex) Count(_ context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.chunks), nil
}

// Close releases resources.
func (idx *CandidateIndex) Close() error {
	return nil
}
