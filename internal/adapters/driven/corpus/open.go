// Package corpus selects the CorpusSource for the configured location.
package corpus

import (
	"context"
	"errors"

	"github.com/custodia-labs/cinepick/internal/adapters/driven/corpus/file"
	"github.com/custodia-labs/cinepick/internal/adapters/driven/corpus/s3"
	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
)

// ErrNotConfigured is returned when neither a file nor an S3 object is set.
var ErrNotConfigured = errors.New("corpus location not configured: set corpus.path or corpus.s3_bucket and corpus.s3_key")

// Open returns a source for cfg. A local path wins over S3.
func Open(ctx context.Context, cfg domain.CorpusSettings) (driven.CorpusSource, error) {
	if cfg.Path != "" {
		return file.NewSource(cfg.Path), nil
	}
	if cfg.UsesS3() {
		return s3.NewSource(ctx, s3.Config{
			Bucket:          cfg.S3Bucket,
			Key:             cfg.S3Key,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	}
	return nil, ErrNotConfigured
}
