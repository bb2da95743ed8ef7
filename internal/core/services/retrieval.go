package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
	"github.com/custodia-labs/cinepick/internal/logger"
)

// Tool response text shown to the generator.
const (
	availableMoviesHeader = "=== AVAILABLE MOVIES ==="
	movieDetailsHeader    = "=== MOVIE DETAILS ==="
	detailsSeparator      = "\n\n---\n\n"

	noMatchesMessage = "ERROR: No movies found matching your time and freshness preferences. Try adjusting your preferences."
)

// CandidateRetriever runs one filtered similarity query and classifies the result.
type CandidateRetriever struct {
	index driven.CandidateIndex
	topK  int
}

// NewCandidateRetriever creates a retriever that asks for domain.DefaultTopK rows.
func NewCandidateRetriever(index driven.CandidateIndex) *CandidateRetriever {
	return &CandidateRetriever{
		index: index,
		topK:  domain.DefaultTopK,
	}
}

// Retrieve issues exactly one index query. An index error and an empty
// result are both failures, reported with different reasons.
func (r *CandidateRetriever) Retrieve(
	ctx context.Context,
	embedding []float32,
	spec domain.FilterSpec,
) domain.RetrievalOutcome {
	logger.Debug("Retrieval filters: max_duration=%v min_year=%v max_year=%v excluded=%v",
		derefInt(spec.MaxDurationMinutes), derefInt(spec.MinYear), derefInt(spec.MaxYear), spec.ExcludedTitles)

	if r.index == nil {
		return domain.RetrievalFailure(domain.FailureQueryError, domain.ErrIndexUnavailable.Error())
	}

	candidates, err := r.index.Search(ctx, embedding, domain.IndexQuery{TopK: r.topK, Filters: spec})
	if err != nil {
		logger.Error("Candidate search failed: %v", err)
		return domain.RetrievalFailure(domain.FailureQueryError, err.Error())
	}
	if len(candidates) == 0 {
		logger.Info("No candidates matched the filters")
		return domain.RetrievalFailure(domain.FailureNoMatches, "")
	}

	titles := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if title := ExtractTitle(c.Content); title != "" {
			titles = append(titles, title)
		}
	}

	logger.Info("Retrieved %d candidates, %d titles", len(candidates), len(titles))
	logger.Debug("Titles: %v", titles)
	return domain.RetrievalSuccess(candidates, titles)
}

// RenderCandidates formats an outcome as the retrieve tool's response text.
func RenderCandidates(outcome domain.RetrievalOutcome) string {
	if !outcome.Succeeded() {
		if outcome.Reason() == domain.FailureQueryError {
			return "ERROR: Failed to retrieve movies from database: " + outcome.Detail()
		}
		return noMatchesMessage
	}

	var b strings.Builder
	b.WriteString(availableMoviesHeader)
	b.WriteString("\n")
	for i, title := range outcome.Titles() {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, title)
	}

	b.WriteString("\n\n")
	b.WriteString(movieDetailsHeader)
	b.WriteString("\n")
	for i, c := range outcome.Candidates() {
		if i > 0 {
			b.WriteString(detailsSeparator)
		}
		b.WriteString(c.Content)
	}
	return b.String()
}

func derefInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
