package services

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Every text embeds to a vector of its rune length.
type mockEmbeddingService struct {
	embedErr error
	batchErr error
	short    bool
	queries  []string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.queries = append(m.queries, text)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return []float32{float32(len([]rune(text))), 1}, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len([]rune(t))), 1}
	}
	if m.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int              { return 2 }
func (m *mockEmbeddingService) ModelName() string            { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockCandidateIndex implements driven.CandidateIndex for testing.
type mockCandidateIndex struct {
	candidates []domain.Candidate
	searchErr  error
	replaceErr error

	replaced []domain.Chunk
	queries  []domain.IndexQuery
}

func (m *mockCandidateIndex) Replace(_ context.Context, chunks []domain.Chunk) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaced = chunks
	return nil
}

func (m *mockCandidateIndex) Search(_ context.Context, _ []float32, query domain.IndexQuery) ([]domain.Candidate, error) {
	m.queries = append(m.queries, query)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.candidates, nil
}

func (m *mockCandidateIndex) Count(_ context.Context) (int, error) { return len(m.replaced), nil }
func (m *mockCandidateIndex) Close() error                         { return nil }

// mockLLMService implements driven.LLMService with scripted turns.
type mockLLMService struct {
	mu        sync.Mutex
	responses []*driven.ChatResponse
	errs      []error
	calls     [][]driven.ChatMessage
	opts      []driven.ChatOptions
}

func (m *mockLLMService) ChatWithTools(
	_ context.Context,
	messages []driven.ChatMessage,
	opts driven.ChatOptions,
) (*driven.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	turn := len(m.calls)
	m.calls = append(m.calls, append([]driven.ChatMessage(nil), messages...))
	m.opts = append(m.opts, opts)

	if turn < len(m.errs) && m.errs[turn] != nil {
		return nil, m.errs[turn]
	}
	if turn >= len(m.responses) {
		return nil, errors.New("mock llm: no scripted response")
	}
	return m.responses[turn], nil
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockPosterCatalog implements driven.PosterCatalog for testing.
type mockPosterCatalog struct {
	results   []driven.CatalogMovie
	searchErr error
	image     []byte
	imageErr  error

	searched []string
	fetched  []string
}

func (m *mockPosterCatalog) SearchByTitle(_ context.Context, title, year string) ([]driven.CatalogMovie, error) {
	m.searched = append(m.searched, title+"|"+year)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.results, nil
}

func (m *mockPosterCatalog) FetchImage(_ context.Context, posterPath string) ([]byte, error) {
	m.fetched = append(m.fetched, posterPath)
	if m.imageErr != nil {
		return nil, m.imageErr
	}
	return m.image, nil
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

func newMockPromptStore() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{driven.PromptRecommendSystem: "You recommend movies."}}
}

// mockPipeline implements driven.PostProcessorPipeline with one chunk per record.
type mockPipeline struct {
	err   error
	empty bool
}

func (m *mockPipeline) Process(_ context.Context, record *domain.Record) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.empty {
		return nil, nil
	}
	return []domain.Chunk{{
		ID:       record.ID + "-0",
		RecordID: record.ID,
		Text:     record.Text,
		Title:    record.Title,
		Metadata: record.Metadata.Clone(),
	}}, nil
}

// --- Helpers ---

func intPtr(v int) *int { return &v }

func toolCallResponse(id, args string) *driven.ChatResponse {
	return &driven.ChatResponse{ToolCalls: []driven.ToolCall{{ID: id, Name: retrieveToolName, Arguments: args}}}
}

func answerResponse(content string) *driven.ChatResponse {
	return &driven.ChatResponse{Content: content}
}

func movieCandidate(title string, year int) domain.Candidate {
	return domain.Candidate{
		Content:  "Name: " + title + "\nYear: " + strconv.Itoa(year),
		Metadata: map[string]any{domain.MetadataKeyReleaseYear: year},
	}
}
