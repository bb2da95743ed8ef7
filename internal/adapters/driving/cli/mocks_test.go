package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
)

type mockRecommendationService struct {
	result domain.Result
	got    *domain.RecommendationRequest
}

func (m *mockRecommendationService) Recommend(_ context.Context, req domain.RecommendationRequest) domain.Result {
	m.got = &req
	return m.result
}

type mockIngestService struct {
	report domain.IngestReport
	err    error
	corpus []string
}

func (m *mockIngestService) Ingest(_ context.Context, corpus string) (domain.IngestReport, error) {
	m.corpus = append(m.corpus, corpus)
	return m.report, m.err
}

type mockCorpus struct {
	text string
	err  error
	desc string
}

func (m *mockCorpus) Load(_ context.Context) (string, error) { return m.text, m.err }
func (m *mockCorpus) Describe() string                       { return m.desc }

type mockSettingsService struct {
	settings     domain.AppSettings
	values       map[string]string
	validateErr  error
	embeddingErr error
	llmErr       error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DefaultAppSettings(),
		values:   make(map[string]string),
	}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if !strings.Contains(key, ".") {
		return domain.ErrInvalidInput
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"llm.model", "llm.api_key", "corpus.path"}
}

func (m *mockSettingsService) Validate() error                      { return m.validateErr }
func (m *mockSettingsService) GetDefaults() domain.AppSettings      { return domain.DefaultAppSettings() }
func (m *mockSettingsService) ProbeEmbedding(context.Context) error { return m.embeddingErr }
func (m *mockSettingsService) ProbeLLM(context.Context) error       { return m.llmErr }

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	recommendation *mockRecommendationService
	ingest         *mockIngestService
	settings       *mockSettingsService
	corpus         *mockCorpus
	opened         []domain.CorpusSettings
}

// setupTestServices installs mocks and returns them with a cleanup func.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		recommendation: &mockRecommendationService{},
		ingest:         &mockIngestService{},
		settings:       newMockSettingsService(),
		corpus:         &mockCorpus{text: "Name: Up\nYear: 2009", desc: "mock://movies.txt"},
	}

	SetServices(&Services{
		Recommendation: ts.recommendation,
		Ingest:         ts.ingest,
		Settings:       ts.settings,
		OpenCorpus: func(_ context.Context, cfg domain.CorpusSettings) (driven.CorpusSource, error) {
			ts.opened = append(ts.opened, cfg)
			if cfg.Path == "" && !cfg.UsesS3() {
				return nil, errors.New("corpus location not configured")
			}
			return ts.corpus, nil
		},
	})

	return ts, func() {
		SetServices(nil)
		resetFlags(rootCmd)
	}
}

// run executes the root command with args and returns its output.
func run(args ...string) (string, error) {
	return runWithInput("", args...)
}

// runWithInput is run with stdin content.
func runWithInput(input string, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so tests do not leak
// values into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
