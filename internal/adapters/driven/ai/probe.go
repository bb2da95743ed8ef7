package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
)

// DefaultProbeTimeout bounds a single provider ping.
const DefaultProbeTimeout = 5 * time.Second

var _ driven.ProviderProbe = (*Prober)(nil)

// pinger is the part of both AI services a probe needs.
type pinger interface {
	Ping(ctx context.Context) error
	Close() error
}

// Prober builds a throwaway client for the configured provider and pings it.
type Prober struct {
	timeout time.Duration
}

// NewProber creates a prober. A non-positive timeout uses DefaultProbeTimeout.
func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Prober{timeout: timeout}
}

// ProbeEmbedding pings the embedding provider described by settings.
func (p *Prober) ProbeEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil
	}
	return p.ping(ctx, svc, domain.ErrEmbeddingUnavailable)
}

// ProbeLLM pings the LLM provider described by settings.
func (p *Prober) ProbeLLM(ctx context.Context, settings *domain.LLMSettings) error {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil
	}
	return p.ping(ctx, svc, domain.ErrLLMUnavailable)
}

func (p *Prober) ping(ctx context.Context, svc pinger, kind error) error {
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w)", kind, err)
	}
	return nil
}
