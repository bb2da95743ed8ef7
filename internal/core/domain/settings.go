package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is OpenAI cloud API or any compatible endpoint.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is a local Ollama server.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderAnthropic is the Anthropic Messages API. It serves the LLM only.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderOllama, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// SupportsEmbedding returns true if the provider can serve embeddings.
func (p AIProvider) SupportsEmbedding() bool {
	return p == AIProviderOpenAI || p == AIProviderOllama
}

// IsLocal returns true if the provider runs on the user's machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the API endpoint for compatible services.
	BaseURL string

	// APIKey is the API key.
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the API endpoint for compatible services.
	BaseURL string

	// APIKey is the API key.
	APIKey string

	// Temperature controls sampling randomness for recommendations.
	Temperature float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// PosterSettings holds poster catalog (TMDB) configuration.
type PosterSettings struct {
	// APIKey is the catalog API key sent as a query parameter.
	APIKey string

	// Token is the catalog bearer token.
	Token string

	// BaseURL is the catalog API base URL.
	BaseURL string

	// ImageBaseURL is prefixed to poster paths when fetching images.
	ImageBaseURL string

	// RequestsPerSecond caps outbound catalog traffic.
	RequestsPerSecond float64
}

// IsConfigured returns true if the poster catalog can be queried.
func (p PosterSettings) IsConfigured() bool {
	return p.APIKey != "" || p.Token != ""
}

// CorpusSettings locates the raw movie corpus.
type CorpusSettings struct {
	// Path is a local corpus file. Takes precedence over S3 when set.
	Path string

	// S3Bucket is the bucket holding the corpus object.
	S3Bucket string

	// S3Key is the corpus object key.
	S3Key string

	// S3Region is the bucket region.
	S3Region string

	// S3Endpoint overrides the S3 endpoint for compatible stores.
	S3Endpoint string

	// S3AccessKeyID and S3SecretAccessKey are static credentials.
	// When empty the default AWS credential chain is used.
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// UsesS3 returns true if the corpus should be read from object storage.
func (c CorpusSettings) UsesS3() bool {
	return c.Path == "" && c.S3Bucket != "" && c.S3Key != ""
}

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string

	// RequestsPerMinute caps requests per client IP.
	RequestsPerMinute int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Poster holds poster catalog settings.
	Poster PosterSettings

	// Corpus locates the raw corpus for ingestion.
	Corpus CorpusSettings

	// Pipeline configures ingestion post-processors.
	Pipeline PipelineConfig

	// Server holds HTTP server settings.
	Server ServerSettings
}

// Default values for settings.
const (
	DefaultEmbeddingModel  = "text-embedding-3-small"
	DefaultLLMModel        = "gpt-4o-mini"
	DefaultLLMTemperature  = 0.3
	DefaultPosterBaseURL   = "https://api.themoviedb.org/3"
	DefaultPosterImageURL  = "https://image.tmdb.org/t/p/w500"
	DefaultPosterRateLimit = 4.0
	DefaultServerAddr      = ":8080"
	DefaultRequestsPerMin  = 30
	DefaultChunkSize       = 1000
	DefaultChunkOverlap    = 200
)

// DefaultAppSettings returns settings with sensible defaults.
// Credentials are left empty and must come from config or environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultEmbeddingModel,
		},
		LLM: LLMSettings{
			Provider:    AIProviderOpenAI,
			Model:       DefaultLLMModel,
			Temperature: DefaultLLMTemperature,
		},
		Poster: PosterSettings{
			BaseURL:           DefaultPosterBaseURL,
			ImageBaseURL:      DefaultPosterImageURL,
			RequestsPerSecond: DefaultPosterRateLimit,
		},
		Pipeline: DefaultPipelineConfig(),
		Server: ServerSettings{
			Addr:              DefaultServerAddr,
			RequestsPerMinute: DefaultRequestsPerMin,
		},
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default ingestion pipeline.
// The chunker splits each record and the metadata stamper copies the record's
// structured fields onto every chunk.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker", "metadata"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": DefaultChunkSize,
				"overlap":    DefaultChunkOverlap,
			},
		},
	}
}
