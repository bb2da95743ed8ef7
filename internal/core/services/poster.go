package services

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
	"github.com/custodia-labs/cinepick/internal/logger"
)

// PosterResolver finds poster artwork for a recommended title.
// Every failure degrades to "no poster"; Resolve never returns an error.
type PosterResolver struct {
	catalog driven.PosterCatalog
}

// NewPosterResolver creates a resolver. A nil catalog always resolves to nil.
func NewPosterResolver(catalog driven.PosterCatalog) *PosterResolver {
	return &PosterResolver{catalog: catalog}
}

// Resolve returns the poster as a data URI, or nil when none is available.
func (r *PosterResolver) Resolve(ctx context.Context, title, releaseYear string) *string {
	if r.catalog == nil || strings.TrimSpace(title) == "" {
		return nil
	}

	results, err := r.catalog.SearchByTitle(ctx, title, releaseYear)
	if err != nil {
		logger.Warn("Poster search for %q failed: %v", title, err)
		return nil
	}

	best, ok := SelectBestMatch(title, results)
	if !ok || best.PosterPath == nil || *best.PosterPath == "" {
		logger.Debug("No poster for %q", title)
		return nil
	}
	logger.Debug("Selected catalog movie %q for %q", best.Title, title)

	data, err := r.catalog.FetchImage(ctx, *best.PosterPath)
	if err != nil {
		logger.Warn("Poster download for %q failed: %v", title, err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	uri := "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
	return &uri
}

// SelectBestMatch picks the catalog result for title: an exact match after
// normalisation, else the first result whose title contains or is contained
// in the query, else the first result. It reports false for no results.
func SelectBestMatch(title string, results []driven.CatalogMovie) (driven.CatalogMovie, bool) {
	if len(results) == 0 {
		return driven.CatalogMovie{}, false
	}

	want := domain.NormalizeTitle(title)
	for _, m := range results {
		if domain.NormalizeTitle(m.Title) == want {
			return m, true
		}
	}

	for _, m := range results {
		got := domain.NormalizeTitle(m.Title)
		if got == "" {
			continue
		}
		if strings.Contains(got, want) || strings.Contains(want, got) {
			return m, true
		}
	}

	return results[0], true
}
