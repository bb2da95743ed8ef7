package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("missing recommendation service", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingRecommendationService)
	})

	t.Run("default instructions", func(t *testing.T) {
		server, err := NewServer(&Ports{Recommendation: &mockRecommendationService{}})
		require.NoError(t, err)
		assert.Equal(t, DefaultInstructions, server.Instructions())
	})

	t.Run("custom instructions", func(t *testing.T) {
		server, err := NewServer(
			&Ports{Recommendation: &mockRecommendationService{}},
			WithInstructions("ask for runtime first"),
			WithTraffic(),
		)
		require.NoError(t, err)
		assert.Equal(t, "ask for runtime first", server.Instructions())
		assert.True(t, server.traffic)
	})
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{name: "empty", ports: &Ports{}, wantErr: ErrMissingRecommendationService},
		{name: "recommendation only", ports: &Ports{Recommendation: &mockRecommendationService{}}},
		{name: "all ports", ports: &Ports{
			Recommendation: &mockRecommendationService{},
			Settings:       &mockSettingsService{},
			Prompts:        &mockPromptStore{},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestServer_Handler(t *testing.T) {
	server, err := NewServer(&Ports{Recommendation: &mockRecommendationService{}})
	require.NoError(t, err)

	srv := httptest.NewServer(server.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/elsewhere")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_RunHTTP_StopsOnCancel(t *testing.T) {
	server, err := NewServer(&Ports{Recommendation: &mockRecommendationService{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.RunHTTP(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunHTTP did not return after cancel")
	}
}
