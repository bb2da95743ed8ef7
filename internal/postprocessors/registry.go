package postprocessors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
)

// BuilderFunc creates a PostProcessor from generic config.
// Config is a map of processor-specific settings parsed from user config.
type BuilderFunc func(cfg map[string]any) (driven.PostProcessor, error)

// Stage says where a processor may sit in a pipeline.
type Stage int

const (
	// StageSplit processors turn the record into chunks. A pipeline starts
	// with exactly one.
	StageSplit Stage = iota

	// StageEnrich processors rewrite chunks produced earlier in the pipeline.
	StageEnrich
)

// String returns the stage name used in error messages.
func (s Stage) String() string {
	switch s {
	case StageSplit:
		return "split"
	case StageEnrich:
		return "enrich"
	default:
		return "unknown"
	}
}

type registration struct {
	stage Stage
	build BuilderFunc
}

// Registry maps processor names to their stage and builder.
type Registry struct {
	entries map[string]registration
}

// NewRegistry creates an empty processor registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registration)}
}

// Register adds a processor under name, replacing any earlier registration.
// Name should match the processor's Name() return value.
func (r *Registry) Register(name string, stage Stage, builder BuilderFunc) {
	r.entries[name] = registration{stage: stage, build: builder}
}

// Stage reports the stage of a registered processor.
func (r *Registry) Stage(name string) (Stage, bool) {
	e, ok := r.entries[name]
	return e.stage, ok
}

// Build creates a processor by name with the given config.
func (r *Registry) Build(name string, cfg map[string]any) (driven.PostProcessor, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown processor %q (known: %s)",
			domain.ErrInvalidInput, name, strings.Join(r.Names(), ", "))
	}
	return e.build(cfg)
}

// Names returns the registered processor names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkOrder enforces one split processor followed only by enrichers.
func (r *Registry) checkOrder(names []string) error {
	for i, name := range names {
		stage, ok := r.Stage(name)
		if !ok {
			continue // Build reports unknown names
		}
		switch {
		case i == 0 && stage != StageSplit:
			return fmt.Errorf("%w: pipeline must start with a split processor, %q is %s",
				domain.ErrInvalidInput, name, stage)
		case i > 0 && stage == StageSplit:
			return fmt.Errorf("%w: split processor %q must come first", domain.ErrInvalidInput, name)
		}
	}
	return nil
}
