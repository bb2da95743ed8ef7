// Package mcp serves cinepick over the Model Context Protocol: a recommend
// tool for assistants, plus read-only settings and prompt resources.
package mcp

import (
	"errors"

	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
	"github.com/custodia-labs/cinepick/internal/core/ports/driving"
)

// ErrMissingRecommendationService is returned by NewServer when
// Ports.Recommendation is nil.
var ErrMissingRecommendationService = errors.New("mcp: recommendation service is required")

// Ports are the core services the MCP server exposes. Only Recommendation
// is required; without Settings or Prompts the matching resources report
// not found.
type Ports struct {
	Recommendation driving.RecommendationService
	Settings       driving.SettingsService
	Prompts        driven.PromptStore
}

// Validate reports a missing required port.
func (p *Ports) Validate() error {
	if p.Recommendation == nil {
		return ErrMissingRecommendationService
	}
	return nil
}
