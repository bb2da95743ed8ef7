package driving

import (
	"context"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set stores a single setting by dot key (e.g. "llm.model").
	Set(key, value string) error

	// Keys returns the settable keys in display order.
	Keys() []string

	// Validate checks that the settings needed to serve recommendations are present.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ProbeEmbedding pings the configured embedding provider.
	ProbeEmbedding(ctx context.Context) error

	// ProbeLLM pings the configured LLM provider.
	ProbeLLM(ctx context.Context) error
}
