package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
)

func newTestLLM(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewLLMService(LLMConfig{APIKey: "sk-test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return svc
}

func TestNewLLMService(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})
	assert.Error(t, err)

	svc, err := NewLLMService(LLMConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
}

func TestChatWithTools_ReturnsToolCalls(t *testing.T) {
	var got chatCompletionRequest
	svc := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":null,"tool_calls":[
			{"id":"call_1","type":"function","function":{"name":"retrieve","arguments":"{\"query\":\"comedy\"}"}}
		]},"finish_reason":"tool_calls"}]}`))
	})

	resp, err := svc.ChatWithTools(context.Background(),
		[]driven.ChatMessage{
			{Role: driven.RoleSystem, Content: "sys"},
			{Role: driven.RoleUser, Content: "TIME AVAILABLE: 2 hours"},
		},
		driven.ChatOptions{
			Temperature: 0.3,
			Tools: []driven.ToolDefinition{{
				Name:       "retrieve",
				Parameters: map[string]any{"type": "object"},
			}},
			ResponseSchema: &driven.ResponseSchema{Name: "movie", Schema: map[string]any{"type": "object"}},
		})

	require.NoError(t, err)
	assert.Empty(t, resp.Content)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, driven.ToolCall{ID: "call_1", Name: "retrieve", Arguments: `{"query":"comedy"}`}, resp.ToolCalls[0])

	require.Len(t, got.Tools, 1)
	assert.Equal(t, "function", got.Tools[0].Type)
	assert.Equal(t, "retrieve", got.Tools[0].Function.Name)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_schema", got.ResponseFormat.Type)
	assert.Equal(t, "movie", got.ResponseFormat.JSONSchema.Name)
	assert.InDelta(t, 0.3, got.Temperature, 1e-9)
}

func TestChatWithTools_SendsToolMessages(t *testing.T) {
	var got chatCompletionRequest
	svc := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"title\":\"Up\"}"}}]}`))
	})

	resp, err := svc.ChatWithTools(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleAssistant, ToolCalls: []driven.ToolCall{{ID: "c1", Name: "retrieve", Arguments: "{}"}}},
		{Role: driven.RoleTool, ToolCallID: "c1", Content: "=== AVAILABLE MOVIES ==="},
	}, driven.ChatOptions{})

	require.NoError(t, err)
	assert.Equal(t, `{"title":"Up"}`, resp.Content)
	assert.Empty(t, resp.ToolCalls)

	require.Len(t, got.Messages, 2)
	require.Len(t, got.Messages[0].ToolCalls, 1)
	assert.Equal(t, "c1", got.Messages[0].ToolCalls[0].ID)
	assert.Equal(t, "c1", got.Messages[1].ToolCallID)
	assert.Nil(t, got.ResponseFormat)
	assert.Empty(t, got.Tools)
}

func TestChatWithTools_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "api error", status: http.StatusBadRequest, body: `{"error":{"message":"bad schema"}}`, wantErr: "bad schema"},
		{name: "non json", status: http.StatusInternalServerError, body: "boom", wantErr: "status 500"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: "no response choices"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestLLM(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := svc.ChatWithTools(context.Background(), nil, driven.ChatOptions{})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPing_Unauthorized(t *testing.T) {
	svc := newTestLLM(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("nope"))
	})

	err := svc.Ping(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
