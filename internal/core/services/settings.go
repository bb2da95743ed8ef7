package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
	"github.com/custodia-labs/cinepick/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyLLMTemperature = "llm.temperature"
	keyPosterAPIKey   = "poster.api_key"
	keyPosterToken    = "poster.token"
	keyPosterBaseURL  = "poster.base_url"
	keyPosterImageURL = "poster.image_url"
	keyPosterRate     = "poster.rate_limit"
	keyCorpusPath     = "corpus.path"
	keyCorpusBucket   = "corpus.s3_bucket"
	keyCorpusKey      = "corpus.s3_key"
	keyCorpusRegion   = "corpus.s3_region"
	keyCorpusEndpoint = "corpus.s3_endpoint"
	keyCorpusKeyID    = "corpus.s3_key_id"
	keyCorpusSecret   = "corpus.s3_secret"
	keyServerAddr     = "server.addr"
	keyServerRPM      = "server.requests_per_minute"
	keyProcessors     = "pipeline.processors"
	keyChunkSize      = "pipeline.chunker.chunk_size"
	keyChunkOverlap   = "pipeline.chunker.overlap"
)

// settingKind says how a string value from the CLI is stored.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindList
	kindProvider
	kindEmbedProvider
)

// settableKeys lists every key Set accepts, in display order.
var settableKeys = []struct {
	key  string
	kind settingKind
}{
	{keyEmbedProvider, kindEmbedProvider},
	{keyEmbedModel, kindString},
	{keyEmbedBaseURL, kindString},
	{keyEmbedAPIKey, kindString},
	{keyLLMProvider, kindProvider},
	{keyLLMModel, kindString},
	{keyLLMBaseURL, kindString},
	{keyLLMAPIKey, kindString},
	{keyLLMTemperature, kindFloat},
	{keyPosterAPIKey, kindString},
	{keyPosterToken, kindString},
	{keyPosterBaseURL, kindString},
	{keyPosterImageURL, kindString},
	{keyPosterRate, kindFloat},
	{keyCorpusPath, kindString},
	{keyCorpusBucket, kindString},
	{keyCorpusKey, kindString},
	{keyCorpusRegion, kindString},
	{keyCorpusEndpoint, kindString},
	{keyCorpusKeyID, kindString},
	{keyCorpusSecret, kindString},
	{keyServerAddr, kindString},
	{keyServerRPM, kindInt},
	{keyProcessors, kindList},
	{keyChunkSize, kindInt},
	{keyChunkOverlap, kindInt},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	probe       driven.ProviderProbe
}

// NewSettingsService creates a new settings service. A nil probe makes
// ProbeEmbedding and ProbeLLM no-ops.
func NewSettingsService(configStore driven.ConfigStore, probe driven.ProviderProbe) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		probe:       probe,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getEmbedProvider(defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty means the public API
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:       s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			APIKey:      s.configStore.GetString(keyLLMAPIKey),
			Temperature: s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
		},
		Poster: domain.PosterSettings{
			APIKey:            s.configStore.GetString(keyPosterAPIKey),
			Token:             s.configStore.GetString(keyPosterToken),
			BaseURL:           s.getString(keyPosterBaseURL, defaults.Poster.BaseURL),
			ImageBaseURL:      s.getString(keyPosterImageURL, defaults.Poster.ImageBaseURL),
			RequestsPerSecond: s.getFloat(keyPosterRate, defaults.Poster.RequestsPerSecond),
		},
		Corpus: domain.CorpusSettings{
			Path:              s.configStore.GetString(keyCorpusPath),
			S3Bucket:          s.configStore.GetString(keyCorpusBucket),
			S3Key:             s.configStore.GetString(keyCorpusKey),
			S3Region:          s.configStore.GetString(keyCorpusRegion),
			S3Endpoint:        s.configStore.GetString(keyCorpusEndpoint),
			S3AccessKeyID:     s.configStore.GetString(keyCorpusKeyID),
			S3SecretAccessKey: s.configStore.GetString(keyCorpusSecret),
		},
		Pipeline: s.GetPipelineConfig(),
		Server: domain.ServerSettings{
			Addr:              s.getString(keyServerAddr, defaults.Server.Addr),
			RequestsPerMinute: s.getInt(keyServerRPM, defaults.Server.RequestsPerMinute),
		},
	}

	return settings, nil
}

// Save persists application settings.
// Empty credentials are not written so a partial struct never wipes a stored key.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
		skip  bool
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String(), false},
		{keyEmbedModel, settings.Embedding.Model, false},
		{keyEmbedBaseURL, settings.Embedding.BaseURL, false},
		{keyEmbedAPIKey, settings.Embedding.APIKey, settings.Embedding.APIKey == ""},
		{keyLLMProvider, settings.LLM.Provider.String(), false},
		{keyLLMModel, settings.LLM.Model, false},
		{keyLLMBaseURL, settings.LLM.BaseURL, false},
		{keyLLMAPIKey, settings.LLM.APIKey, settings.LLM.APIKey == ""},
		{keyLLMTemperature, settings.LLM.Temperature, false},
		{keyPosterAPIKey, settings.Poster.APIKey, settings.Poster.APIKey == ""},
		{keyPosterToken, settings.Poster.Token, settings.Poster.Token == ""},
		{keyPosterBaseURL, settings.Poster.BaseURL, false},
		{keyPosterImageURL, settings.Poster.ImageBaseURL, false},
		{keyPosterRate, settings.Poster.RequestsPerSecond, false},
		{keyCorpusPath, settings.Corpus.Path, false},
		{keyCorpusBucket, settings.Corpus.S3Bucket, false},
		{keyCorpusKey, settings.Corpus.S3Key, false},
		{keyCorpusRegion, settings.Corpus.S3Region, false},
		{keyCorpusEndpoint, settings.Corpus.S3Endpoint, false},
		{keyCorpusKeyID, settings.Corpus.S3AccessKeyID, settings.Corpus.S3AccessKeyID == ""},
		{keyCorpusSecret, settings.Corpus.S3SecretAccessKey, settings.Corpus.S3SecretAccessKey == ""},
		{keyServerAddr, settings.Server.Addr, false},
		{keyServerRPM, settings.Server.RequestsPerMinute, false},
	}

	for _, v := range values {
		if v.skip {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if len(settings.Pipeline.Processors) > 0 {
		if err := s.configStore.Set(keyProcessors, settings.Pipeline.Processors); err != nil {
			return fmt.Errorf("save %s: %w", keyProcessors, err)
		}
	}

	return nil
}

// Set stores one setting, converting value to the key's type.
func (s *SettingsService) Set(key, value string) error {
	for _, k := range settableKeys {
		if k.key != key {
			continue
		}
		converted, err := convertSetting(k.kind, value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return s.configStore.Set(key, converted)
	}
	return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
}

func convertSetting(kind settingKind, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: expected a non-negative integer, got %q", domain.ErrInvalidInput, value)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("%w: expected a non-negative number, got %q", domain.ErrInvalidInput, value)
		}
		return f, nil
	case kindList:
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil
	case kindProvider:
		if p := domain.AIProvider(value); !p.IsValid() {
			return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, value)
		}
		return value, nil
	case kindEmbedProvider:
		if p := domain.AIProvider(value); !p.SupportsEmbedding() {
			return nil, fmt.Errorf("%w: provider %q cannot serve embeddings", domain.ErrInvalidInput, value)
		}
		return value, nil
	default:
		return value, nil
	}
}

// Keys returns the settable keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settableKeys))
	for i, k := range settableKeys {
		keys[i] = k.key
	}
	return keys
}

// Validate checks that the settings needed to serve recommendations are present.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: set OPENAI_API_KEY or embedding.api_key", domain.ErrEmbeddingUnavailable)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: set OPENAI_API_KEY or llm.api_key", domain.ErrLLMUnavailable)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ProbeEmbedding pings the embedding provider in the current settings.
func (s *SettingsService) ProbeEmbedding(ctx context.Context) error {
	if s.probe == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.probe.ProbeEmbedding(ctx, &settings.Embedding)
}

// ProbeLLM pings the LLM provider in the current settings.
func (s *SettingsService) ProbeLLM(ctx context.Context) error {
	if s.probe == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.probe.ProbeLLM(ctx, &settings.LLM)
}

// GetPipelineConfig returns the post-processor pipeline configuration.
// Returns default configuration if nothing is configured.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	defaults := domain.DefaultPipelineConfig()

	if processors := s.configStore.GetStringSlice(keyProcessors); len(processors) > 0 {
		defaults.Processors = processors
	}

	// Per-processor overrides live under pipeline.<name>.<key>
	for _, name := range defaults.Processors {
		cfg := s.loadProcessorConfig("pipeline." + name + ".")
		if len(cfg) == 0 {
			continue
		}
		if defaults.ProcessorConfigs == nil {
			defaults.ProcessorConfigs = make(map[string]map[string]any)
		}
		existing := defaults.ProcessorConfigs[name]
		if existing == nil {
			existing = make(map[string]any)
		}
		for k, v := range cfg {
			existing[k] = v
		}
		defaults.ProcessorConfigs[name] = existing
	}

	return defaults
}

// loadProcessorConfig loads config keys with a given prefix into a map.
func (s *SettingsService) loadProcessorConfig(prefix string) map[string]any {
	cfg := make(map[string]any)
	for _, key := range []string{"chunk_size", "overlap"} {
		if _, exists := s.configStore.Get(prefix + key); exists {
			cfg[key] = s.configStore.GetInt(prefix + key)
		}
	}
	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getEmbedProvider(defaultVal domain.AIProvider) domain.AIProvider {
	if p := s.getProvider(keyEmbedProvider, defaultVal); p.SupportsEmbedding() {
		return p
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
