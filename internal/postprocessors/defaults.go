package postprocessors

import (
	"fmt"
	"math"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
	"github.com/custodia-labs/cinepick/internal/postprocessors/chunker"
	"github.com/custodia-labs/cinepick/internal/postprocessors/metadata"
)

// RegisterDefaults registers the built-in chunker and metadata processors.
func RegisterDefaults(r *Registry) {
	r.Register(chunker.Name, StageSplit, buildChunker)
	r.Register(metadata.Name, StageEnrich, buildMetadata)
}

// buildChunker reads chunk_size and overlap (characters) and the
// keep_separator flag. Absent keys keep the chunker defaults.
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	size, ok, err := intSetting(cfg, "chunk_size")
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, chunker.WithChunkSize(size))
	}

	overlap, ok, err := intSetting(cfg, "overlap")
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, chunker.WithOverlap(overlap))
	}

	if raw, ok := cfg["keep_separator"]; ok {
		keep, isBool := raw.(bool)
		if !isBool {
			return nil, fmt.Errorf("%w: keep_separator must be true or false, got %T", domain.ErrInvalidInput, raw)
		}
		opts = append(opts, chunker.WithKeepSeparator(keep))
	}

	return chunker.New(opts...), nil
}

func buildMetadata(_ map[string]any) (driven.PostProcessor, error) {
	return metadata.New(), nil
}

// intSetting reads a non-negative integer. TOML decodes integers as int64
// and JSON as float64, so both are accepted.
func intSetting(cfg map[string]any, key string) (int, bool, error) {
	raw, ok := cfg[key]
	if !ok {
		return 0, false, nil
	}

	var n int
	switch v := raw.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if v != math.Trunc(v) {
			return 0, false, fmt.Errorf("%w: %s must be a whole number, got %v", domain.ErrInvalidInput, key, v)
		}
		n = int(v)
	default:
		return 0, false, fmt.Errorf("%w: %s must be a number, got %T", domain.ErrInvalidInput, key, raw)
	}

	if n < 0 {
		return 0, false, fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, key)
	}
	return n, true, nil
}
