package mcp

import (
	"context"
	"errors"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

// mockRecommendationService is a mock implementation of driving.RecommendationService.
type mockRecommendationService struct {
	result domain.Result
	got    domain.RecommendationRequest
}

func (m *mockRecommendationService) Recommend(_ context.Context, req domain.RecommendationRequest) domain.Result {
	m.got = req
	return m.result
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error)    { return m.settings, m.err }
func (m *mockSettingsService) Save(_ *domain.AppSettings) error     { return m.err }
func (m *mockSettingsService) Set(_, _ string) error                { return m.err }
func (m *mockSettingsService) Keys() []string                       { return nil }
func (m *mockSettingsService) Validate() error                      { return m.err }
func (m *mockSettingsService) GetDefaults() domain.AppSettings      { return domain.DefaultAppSettings() }
func (m *mockSettingsService) ProbeEmbedding(context.Context) error { return m.err }
func (m *mockSettingsService) ProbeLLM(context.Context) error       { return m.err }

// mockPromptStore is a mock implementation of driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("unknown prompt")
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}
