package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/cinepick/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/cinepick/internal/adapters/driven/config/file"
	"github.com/custodia-labs/cinepick/internal/adapters/driven/corpus"
	"github.com/custodia-labs/cinepick/internal/adapters/driven/poster/tmdb"
	"github.com/custodia-labs/cinepick/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/cinepick/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/cinepick/internal/adapters/driving/cli"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
	"github.com/custodia-labs/cinepick/internal/core/services"
	"github.com/custodia-labs/cinepick/internal/logger"
	"github.com/custodia-labs/cinepick/internal/postprocessors"
)

// buildServices wires the adapters into the core services. Missing AI or
// poster credentials are not fatal here: settings and version still work,
// and the recommendation path reports the gap per request.
//
// configDir defaults to ~/.cinepick when empty.
func buildServices(opts cli.Options, configDir string) (*cli.Services, error) {
	configStore, err := configfile.NewConfigStore(configDir,
		configfile.WithEnvBindings(configfile.DefaultEnvBindings()))
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewProber(ai.DefaultProbeTimeout))
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	promptDir := ""
	if configDir != "" {
		promptDir = filepath.Join(configDir, "prompts")
	}
	prompts, err := configfile.NewPromptStore(promptDir)
	if err != nil {
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	index, closeStore, err := openIndex(opts)
	if err != nil {
		return nil, err
	}

	aiServices := &ai.Services{}
	if aiServices.Embedding, err = ai.CreateEmbeddingService(&settings.Embedding); err != nil {
		logger.Warn("Embedding provider unavailable: %v", err)
	}
	if aiServices.LLM, err = ai.CreateLLMService(&settings.LLM); err != nil {
		logger.Warn("LLM provider unavailable: %v", err)
	}

	var catalog driven.PosterCatalog
	if settings.Poster.IsConfigured() {
		tmdbCatalog, err := tmdb.NewCatalog(tmdb.Config{
			APIKey:            settings.Poster.APIKey,
			Token:             settings.Poster.Token,
			BaseURL:           settings.Poster.BaseURL,
			ImageBaseURL:      settings.Poster.ImageBaseURL,
			RequestsPerSecond: settings.Poster.RequestsPerSecond,
		})
		if err != nil {
			logger.Warn("Poster catalogue unavailable: %v", err)
		} else {
			catalog = tmdbCatalog
		}
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	pipeline, err := postprocessors.BuildPipeline(registry, settingsService.GetPipelineConfig())
	if err != nil {
		_ = index.Close()
		_ = closeStore()
		return nil, fmt.Errorf("building ingest pipeline: %w", err)
	}

	recommendation := services.NewRecommendationService(
		aiServices.Embedding, aiServices.LLM, index, catalog,
		services.WithTemperature(settings.LLM.Temperature),
	)
	recommendation.SetPromptStore(prompts)

	return &cli.Services{
		Recommendation: recommendation,
		Ingest:         services.NewIngestService(pipeline, aiServices.Embedding, index),
		Settings:       settingsService,
		Prompts:        prompts,
		OpenCorpus:     corpus.Open,
		Close: func() error {
			aiServices.Close()
			return errors.Join(index.Close(), closeStore())
		},
	}, nil
}

// openIndex returns the sqlite index under the data dir, or a memory index
// when the user asked for one.
func openIndex(opts cli.Options) (driven.CandidateIndex, func() error, error) {
	if opts.InMemory {
		logger.Debug("Index held in memory")
		return memory.NewCandidateIndex(), func() error { return nil }, nil
	}

	store, err := sqlite.NewStore(opts.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening index: %w", err)
	}
	logger.Debug("Index at %s", store.Path())
	return store.CandidateIndex(), store.Close, nil
}
