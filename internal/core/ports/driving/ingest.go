package driving

import (
	"context"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

// IngestService turns a raw corpus into an indexed candidate set.
type IngestService interface {
	// Ingest chunks, embeds and indexes the corpus text, replacing whatever
	// the index held before.
	Ingest(ctx context.Context, corpus string) (domain.IngestReport, error)
}
