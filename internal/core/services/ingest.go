package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
	"github.com/custodia-labs/cinepick/internal/core/ports/driving"
	"github.com/custodia-labs/cinepick/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService chunks, embeds and indexes a movie corpus.
type IngestService struct {
	pipeline  driven.PostProcessorPipeline
	embedding driven.EmbeddingService
	index     driven.CandidateIndex
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	pipeline driven.PostProcessorPipeline,
	embedding driven.EmbeddingService,
	index driven.CandidateIndex,
) *IngestService {
	return &IngestService{
		pipeline:  pipeline,
		embedding: embedding,
		index:     index,
	}
}

// BuildChunks parses the corpus into records and runs each record through
// the pipeline. It has no side effects.
func BuildChunks(ctx context.Context, corpus string, pipeline driven.PostProcessorPipeline) ([]domain.Chunk, int, error) {
	if strings.TrimSpace(corpus) == "" {
		return nil, 0, domain.ErrEmptyInput
	}

	records := ParseRecords(corpus)
	logger.Debug("Parsed %d records", len(records))

	var chunks []domain.Chunk
	for i := range records {
		recordChunks, err := pipeline.Process(ctx, &records[i])
		if err != nil {
			return nil, 0, fmt.Errorf("processing record %d (%q): %w", i, records[i].Title, err)
		}
		chunks = append(chunks, recordChunks...)
	}

	if len(chunks) == 0 {
		return nil, len(records), domain.ErrNoChunksProduced
	}
	return chunks, len(records), nil
}

// Ingest replaces the index contents with the embedded chunks of corpus.
// The index is left untouched when chunking or embedding fails.
func (s *IngestService) Ingest(ctx context.Context, corpus string) (domain.IngestReport, error) {
	logger.Section("Ingest")

	if s.embedding == nil {
		return domain.IngestReport{}, domain.ErrEmbeddingUnavailable
	}
	if s.index == nil {
		return domain.IngestReport{}, domain.ErrIndexUnavailable
	}

	chunks, records, err := BuildChunks(ctx, corpus, s.pipeline)
	if err != nil {
		return domain.IngestReport{}, err
	}
	logger.Info("Created %d chunks from %d records", len(chunks), records)

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	embeddings, err := s.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("embedding chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return domain.IngestReport{}, fmt.Errorf("embedding chunks: got %d vectors for %d chunks", len(embeddings), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	if err := s.index.Replace(ctx, chunks); err != nil {
		return domain.IngestReport{}, fmt.Errorf("indexing chunks: %w", err)
	}

	logger.Info("Indexed %d chunks with %s", len(chunks), s.embedding.ModelName())
	return domain.IngestReport{Records: records, Chunks: len(chunks)}, nil
}
