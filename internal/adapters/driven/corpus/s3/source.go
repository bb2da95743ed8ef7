// Package s3 provides a CorpusSource that reads the movie corpus from
// S3-compatible object storage.
package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.CorpusSource = (*Source)(nil)

// Config locates the corpus object.
type Config struct {
	Bucket          string
	Key             string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// objectGetter is the subset of the S3 client the source needs.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Source reads the corpus from a single object.
type Source struct {
	client objectGetter
	bucket string
	key    string
}

// NewSource creates an S3 corpus source.
// Static credentials are used when provided, otherwise the default chain.
// A custom endpoint switches to path-style addressing for S3-compatible stores.
func NewSource(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("%w: bucket and key are required", domain.ErrInvalidInput)
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newSourceWithClient(client, cfg.Bucket, cfg.Key), nil
}

func newSourceWithClient(client objectGetter, bucket, key string) *Source {
	return &Source{client: client, bucket: bucket, key: key}
}

// Load downloads the corpus object.
func (s *Source) Load(ctx context.Context) (string, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get object %s: %w", s.Describe(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read object %s: %w", s.Describe(), err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("corpus %s: %w", s.Describe(), domain.ErrEmptyInput)
	}
	return string(data), nil
}

// Describe returns the object URI.
func (s *Source) Describe() string {
	return "s3://" + s.bucket + "/" + s.key
}
