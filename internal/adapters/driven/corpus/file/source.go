// Package file provides a CorpusSource that reads the movie corpus from local disk.
package file

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.CorpusSource = (*Source)(nil)

// Source reads the corpus from a text file.
type Source struct {
	path string
}

// NewSource creates a file corpus source.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Load reads the whole file.
func (s *Source) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.path == "" {
		return "", fmt.Errorf("%w: corpus path is empty", domain.ErrInvalidInput)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read corpus %s: %w", s.path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("corpus %s: %w", s.path, domain.ErrEmptyInput)
	}
	return string(data), nil
}

// Describe returns the file path.
func (s *Source) Describe() string {
	return s.path
}

// Path returns the file path for watchers.
func (s *Source) Path() string {
	return s.path
}
