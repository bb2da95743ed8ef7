package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for cinepick resources.
	uriScheme = "cinepick://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Active models, poster catalog and pipeline settings (credentials masked)",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "prompts/{name}",
		Name:        "prompt",
		Description: "A generator prompt template by name",
		MIMEType:    "text/plain",
	}, s.handlePromptResource)
}

// settingsInfo is the public view of domain.AppSettings.
type settingsInfo struct {
	EmbeddingModel   string   `json:"embedding_model"`
	EmbeddingKey     bool     `json:"embedding_key_set"`
	LLMModel         string   `json:"llm_model"`
	LLMKey           bool     `json:"llm_key_set"`
	Temperature      float64  `json:"temperature"`
	PosterConfigured bool     `json:"poster_configured"`
	Corpus           string   `json:"corpus,omitempty"`
	Processors       []string `json:"processors"`
}

// handleSettingsResource returns the current settings without secrets.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}

	data, err := json.MarshalIndent(publicSettings(settings), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling settings: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func publicSettings(s *domain.AppSettings) settingsInfo {
	corpus := s.Corpus.Path
	if s.Corpus.UsesS3() {
		corpus = "s3://" + s.Corpus.S3Bucket + "/" + s.Corpus.S3Key
	}
	return settingsInfo{
		EmbeddingModel:   s.Embedding.Model,
		EmbeddingKey:     s.Embedding.APIKey != "",
		LLMModel:         s.LLM.Model,
		LLMKey:           s.LLM.APIKey != "",
		Temperature:      s.LLM.Temperature,
		PosterConfigured: s.Poster.IsConfigured(),
		Corpus:           corpus,
		Processors:       s.Pipeline.Processors,
	}
}

// handlePromptResource returns a prompt template.
func (s *Server) handlePromptResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Prompts == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract name from URI: cinepick://prompts/{name}
	name := extractPromptName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	content, err := s.ports.Prompts.Load(name)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     content,
		}},
	}, nil
}

// extractPromptName extracts the prompt name from a URI like cinepick://prompts/{name}.
func extractPromptName(uri string) string {
	const prefix = uriScheme + "prompts/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	name := strings.TrimPrefix(uri, prefix)
	if strings.Contains(name, "/") {
		return ""
	}
	return name
}
