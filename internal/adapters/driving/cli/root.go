// Package cli implements the cinepick command line.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
	"github.com/custodia-labs/cinepick/internal/core/ports/driving"
	"github.com/custodia-labs/cinepick/internal/logger"
)

// Services holds everything the commands drive. Nil members disable the
// commands that need them.
type Services struct {
	Recommendation driving.RecommendationService
	Ingest         driving.IngestService
	Settings       driving.SettingsService
	Prompts        driven.PromptStore

	// OpenCorpus resolves a corpus location to a source.
	OpenCorpus CorpusOpener

	// Close releases stores and connections.
	Close func() error
}

// Options are the global flags passed to the bootstrap.
type Options struct {
	DataDir  string
	Verbose  bool
	InMemory bool
}

// Bootstrap builds the services once the global flags are parsed.
type Bootstrap func(opts Options) (*Services, error)

var (
	version = "dev"

	verbose  bool
	dataDir  string
	inMemory bool

	bootstrap Bootstrap
	services  *Services

	recommendationService driving.RecommendationService
	ingestService         driving.IngestService
	settingsService       driving.SettingsService
	promptStore           driven.PromptStore
	openCorpus            CorpusOpener
)

var rootCmd = &cobra.Command{
	Use:   "cinepick",
	Short: "Group movie recommendations grounded in your own catalogue",
	Long: `cinepick picks one movie for a group from a catalogue you index yourself.

Ingest a movie corpus once, then ask for recommendations from the command
line, over HTTP or through an MCP client.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "index directory (default ~/.cinepick/data)")
	rootCmd.PersistentFlags().BoolVar(&inMemory, "in-memory", false,
		"keep the candidate index in memory; it is lost on exit")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetBootstrap registers the function that wires services at startup.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly, bypassing the bootstrap.
func SetServices(s *Services) {
	services = s
	if s == nil {
		recommendationService = nil
		ingestService = nil
		settingsService = nil
		promptStore = nil
		openCorpus = nil
		return
	}
	recommendationService = s.Recommendation
	ingestService = s.Ingest
	settingsService = s.Settings
	promptStore = s.Prompts
	openCorpus = s.OpenCorpus
}

// Execute runs the root command. Long-running commands stop when ctx is
// cancelled.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil {
		return nil
	}
	s, err := bootstrap(Options{DataDir: dataDir, Verbose: verbose, InMemory: inMemory})
	if err != nil {
		return fmt.Errorf("starting cinepick: %w", err)
	}
	SetServices(s)
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if bootstrap == nil || services == nil || services.Close == nil {
		return nil
	}
	return services.Close()
}

// currentSettings loads settings, falling back to defaults when no settings
// service is wired.
func currentSettings() (*domain.AppSettings, error) {
	if settingsService == nil {
		defaults := domain.DefaultAppSettings()
		return &defaults, nil
	}
	s, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

var errRecommendationNotConfigured = errors.New("recommendation service not configured")
