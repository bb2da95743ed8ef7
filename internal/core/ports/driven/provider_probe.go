package driven

import (
	"context"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

// ProviderProbe checks that configured AI providers answer. Settings that
// are not configured have nothing to probe and return nil.
type ProviderProbe interface {
	ProbeEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) error
	ProbeLLM(ctx context.Context, settings *domain.LLMSettings) error
}
