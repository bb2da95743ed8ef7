package domain

import (
	"math"
	"strings"
)

// DefaultTopK is the number of candidates requested from the index per query.
const DefaultTopK = 20

// FilterSpec holds the hard filters applied to candidate retrieval.
// MinYear and MaxYear are never both set by freshness planning.
type FilterSpec struct {
	// MinYear keeps releases in or after this year.
	MinYear *int

	// MaxYear keeps releases in or before this year.
	MaxYear *int

	// MaxDurationMinutes keeps movies no longer than this.
	MaxDurationMinutes *int

	// ExcludedTitles lists titles already recommended in this session.
	ExcludedTitles []string
}

// IndexQuery is a filtered similarity query against the candidate index.
type IndexQuery struct {
	// TopK is the maximum number of rows to return.
	TopK int

	// Filters restrict which rows are eligible.
	Filters FilterSpec
}

// Candidate is a retrieved corpus item eligible for recommendation.
// The movie title is derived from Content, not stored separately.
type Candidate struct {
	// Content is the chunk text.
	Content string

	// Metadata holds the chunk's structured fields.
	Metadata map[string]any

	// Similarity is the cosine similarity to the query (0-1).
	Similarity float64
}

// FailureReason distinguishes why retrieval produced no candidates.
type FailureReason string

// Retrieval failure reasons.
const (
	// FailureQueryError means the index call itself failed.
	FailureQueryError FailureReason = "query_error"

	// FailureNoMatches means the call succeeded but no rows survived the filters.
	FailureNoMatches FailureReason = "no_matches"
)

// String returns the string representation.
func (r FailureReason) String() string {
	return string(r)
}

// RetrievalOutcome is the tagged result of one filtered similarity query.
// Exactly one of the Success or Failure shapes is populated; use the
// constructors rather than building values by hand.
type RetrievalOutcome struct {
	ok         bool
	candidates []Candidate
	titles     []string
	reason     FailureReason
	detail     string
}

// RetrievalSuccess builds a successful outcome.
// Titles must be in candidate order; rows without a title contribute none.
func RetrievalSuccess(candidates []Candidate, titles []string) RetrievalOutcome {
	return RetrievalOutcome{ok: true, candidates: candidates, titles: titles}
}

// RetrievalFailure builds a failed outcome. Detail carries the underlying
// error text for logging and may be empty.
func RetrievalFailure(reason FailureReason, detail string) RetrievalOutcome {
	return RetrievalOutcome{reason: reason, detail: detail}
}

// Succeeded returns true for a Success outcome.
func (o RetrievalOutcome) Succeeded() bool {
	return o.ok
}

// Candidates returns the retrieved rows. Empty for failures.
func (o RetrievalOutcome) Candidates() []Candidate {
	return o.candidates
}

// Titles returns the extracted titles. Empty for failures.
func (o RetrievalOutcome) Titles() []string {
	return o.titles
}

// Reason returns the failure reason. Empty for successes.
func (o RetrievalOutcome) Reason() FailureReason {
	return o.reason
}

// Detail returns the failure detail, typically the underlying error text.
func (o RetrievalOutcome) Detail() string {
	return o.detail
}

// NormalizeTitle folds a title for comparison: surrounding whitespace is
// trimmed and letters are lowercased.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Admits reports whether a chunk with the given title and metadata passes
// every filter. A chunk missing the metadata a set filter needs is rejected.
func (f FilterSpec) Admits(title string, m ChunkMetadata) bool {
	if f.MaxDurationMinutes != nil {
		if m.DurationMinutes == nil || *m.DurationMinutes > *f.MaxDurationMinutes {
			return false
		}
	}
	if f.MinYear != nil {
		if m.ReleaseYear == nil || *m.ReleaseYear < *f.MinYear {
			return false
		}
	}
	if f.MaxYear != nil {
		if m.ReleaseYear == nil || *m.ReleaseYear > *f.MaxYear {
			return false
		}
	}
	if title != "" {
		norm := NormalizeTitle(title)
		for _, excluded := range f.ExcludedTitles {
			if NormalizeTitle(excluded) == norm {
				return false
			}
		}
	}
	return true
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Vectors of different length or zero magnitude have similarity 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
