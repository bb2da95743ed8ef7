package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
	"github.com/custodia-labs/cinepick/internal/logger"
)

// CorpusOpener resolves a corpus location to a source.
type CorpusOpener func(ctx context.Context, cfg domain.CorpusSettings) (driven.CorpusSource, error)

// watchable is implemented by sources that can report changes.
type watchable interface {
	Watch(ctx context.Context, debounce time.Duration, onChange func(ctx context.Context)) error
}

var (
	ingestFile     string
	ingestS3Bucket string
	ingestS3Key    string
	ingestWatch    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index a movie corpus",
	Long: `Chunks, embeds and indexes a movie corpus, replacing the current index.

The corpus is a text file of records separated by blank lines, each record
holding "Field: value" lines (Name, Duration, Year, Rating, Description...).
It is read from --file, from --s3-bucket/--s3-key, or from the configured
corpus location.

With --watch the file is re-ingested every time it changes.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "corpus file to ingest")
	ingestCmd.Flags().StringVar(&ingestS3Bucket, "s3-bucket", "", "S3 bucket holding the corpus")
	ingestCmd.Flags().StringVar(&ingestS3Key, "s3-key", "", "S3 object key of the corpus")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "re-ingest when the corpus file changes")
	ingestCmd.MarkFlagsMutuallyExclusive("file", "s3-bucket")
	ingestCmd.MarkFlagsRequiredTogether("s3-bucket", "s3-key")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if openCorpus == nil {
		return errors.New("corpus sources not configured")
	}

	settings, err := currentSettings()
	if err != nil {
		return err
	}

	src, err := openCorpus(cmd.Context(), corpusLocation(settings.Corpus))
	if err != nil {
		return fmt.Errorf("opening corpus: %w", err)
	}

	if err := ingestOnce(cmd.Context(), cmd.OutOrStdout(), src); err != nil {
		return err
	}

	if !ingestWatch {
		return nil
	}

	w, ok := src.(watchable)
	if !ok {
		return fmt.Errorf("--watch needs a local corpus file, got %s", src.Describe())
	}
	cmd.Printf("Watching %s for changes (Ctrl+C to stop)\n", src.Describe())
	return w.Watch(cmd.Context(), 0, func(ctx context.Context) {
		if err := ingestOnce(ctx, cmd.OutOrStdout(), src); err != nil {
			logger.Error("Re-ingest failed: %v", err)
		}
	})
}

// corpusLocation applies the command line overrides to the configured
// location.
func corpusLocation(cfg domain.CorpusSettings) domain.CorpusSettings {
	switch {
	case ingestFile != "":
		cfg.Path = ingestFile
	case ingestS3Bucket != "":
		cfg.Path = ""
		cfg.S3Bucket = ingestS3Bucket
		cfg.S3Key = ingestS3Key
	}
	return cfg
}

func ingestOnce(ctx context.Context, out io.Writer, src driven.CorpusSource) error {
	start := time.Now()

	text, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading corpus from %s: %w", src.Describe(), err)
	}

	report, err := ingestService.Ingest(ctx, text)
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", src.Describe(), err)
	}

	fmt.Fprintf(out, "Indexed %d chunks from %d records in %s\n",
		report.Chunks, report.Records, time.Since(start).Round(time.Millisecond))
	return nil
}
