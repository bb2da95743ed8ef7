package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cinepick/internal/adapters/driving/cli"
	"github.com/custodia-labs/cinepick/internal/core/domain"
)

func TestBuildServices_WithoutCredentials(t *testing.T) {
	for _, env := range []string{"OPENAI_API_KEY", "TMDB_API_KEY", "TMDB_API_TOKEN", "CINEPICK_CORPUS_PATH",
		"CINEPICK_LLM_PROVIDER", "CINEPICK_EMBEDDING_PROVIDER"} {
		t.Setenv(env, "")
	}
	configDir := t.TempDir()
	dataDir := t.TempDir()

	svc, err := buildServices(cli.Options{DataDir: dataDir}, configDir)
	require.NoError(t, err)
	defer func() { assert.NoError(t, svc.Close()) }()

	require.NotNil(t, svc.Recommendation)
	require.NotNil(t, svc.Ingest)
	require.NotNil(t, svc.Settings)
	require.NotNil(t, svc.OpenCorpus)
	assert.FileExists(t, filepath.Join(dataDir, "index.db"))

	// Without an embedding provider every request fails cleanly.
	result := svc.Recommendation.Recommend(context.Background(), domain.RecommendationRequest{
		PollAnswers: []domain.PollAnswer{{FavoriteMovie: "Heat"}},
	})
	assert.False(t, result.IsOk())
	assert.Equal(t, domain.ErrorKindInternal, result.Kind())

	_, err = svc.Ingest.Ingest(context.Background(), "Name: Heat")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestBuildServices_SettingsRoundTrip(t *testing.T) {
	t.Setenv("OPENAI_LLM_MODEL", "")
	configDir := t.TempDir()

	svc, err := buildServices(cli.Options{DataDir: t.TempDir()}, configDir)
	require.NoError(t, err)
	defer svc.Close()

	require.NoError(t, svc.Settings.Set("llm.model", "gpt-4o"))

	settings, err := svc.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", settings.LLM.Model)
	assert.FileExists(t, filepath.Join(configDir, "config.toml"))
}

func TestBuildServices_InMemory(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	dataDir := t.TempDir()

	svc, err := buildServices(cli.Options{DataDir: dataDir, InMemory: true}, t.TempDir())
	require.NoError(t, err)
	defer func() { assert.NoError(t, svc.Close()) }()

	assert.NoFileExists(t, filepath.Join(dataDir, "index.db"))
}
