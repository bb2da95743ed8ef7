package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/cinepick/internal/adapters/driving/api"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
	"github.com/custodia-labs/cinepick/internal/logger"
)

var (
	serveAddr    string
	serveLogJSON bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the HTTP API.

Endpoints:
  POST /api/v1/recommendation  recommend a movie for the posted payload
  POST /api/v1/embeddings      ingest the configured corpus
  GET  /healthz                liveness probe

Requests under /api/v1 are rate limited per client IP
(server.requests_per_minute). Edited prompt files are reloaded without a
restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from server.addr)")
	serveCmd.Flags().BoolVar(&serveLogJSON, "log-json", true, "write logs as JSON lines")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if recommendationService == nil {
		return errRecommendationNotConfigured
	}

	settings, err := currentSettings()
	if err != nil {
		return err
	}
	if serveLogJSON {
		logger.SetJSON(true)
	}

	var corpus driven.CorpusSource
	if openCorpus != nil {
		if corpus, err = openCorpus(cmd.Context(), settings.Corpus); err != nil {
			logger.Warn("Ingestion endpoint disabled: %v", err)
			corpus = nil
		}
	}

	server, err := api.NewServer(api.Deps{
		Recommendation:    recommendationService,
		Ingest:            ingestService,
		Corpus:            corpus,
		RequestsPerMinute: settings.Server.RequestsPerMinute,
	})
	if err != nil {
		return err
	}

	if w, ok := promptStore.(driven.PromptWatcher); ok {
		go func() {
			if err := w.Watch(cmd.Context()); err != nil {
				logger.Warn("Prompt hot reload disabled: %v", err)
			}
		}()
	}

	addr := serveAddr
	if addr == "" {
		addr = settings.Server.Addr
	}
	cmd.Printf("cinepick API listening on %s\n", addr)
	return server.ListenAndServe(cmd.Context(), addr)
}
