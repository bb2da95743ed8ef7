// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"errors"
	"fmt"

	ollamaembed "github.com/custodia-labs/cinepick/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/cinepick/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/cinepick/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/cinepick/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/cinepick/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
)

// errNotConfigured is returned by the Require helpers when settings are incomplete.
var errNotConfigured = errors.New("provider not configured")

// Services bundles the AI adapters a recommendation run needs.
type Services struct {
	Embedding driven.EmbeddingService
	LLM       driven.LLMService
}

// Close releases all resources held by the bundle.
func (s *Services) Close() {
	if s.Embedding != nil {
		s.Embedding.Close()
	}
	if s.LLM != nil {
		s.LLM.Close()
	}
}

// RequireEmbeddingService creates the embedding service or fails with
// domain.ErrEmbeddingUnavailable when it is not configured.
func RequireEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, fmt.Errorf("%w: %w. Set OPENAI_API_KEY or run 'cinepick settings set embedding.api_key'",
			domain.ErrEmbeddingUnavailable, errNotConfigured)
	}
	return svc, nil
}

// RequireLLMService creates the LLM service or fails with
// domain.ErrLLMUnavailable when it is not configured.
func RequireLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, fmt.Errorf("%w: %w. Set OPENAI_API_KEY or run 'cinepick settings set llm.api_key'",
			domain.ErrLLMUnavailable, errNotConfigured)
	}
	return svc, nil
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		})
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		}), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil
	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
