package services

import (
	"time"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

// FreshnessWindowYears is how recent a release must be to count as "new".
// Anything released more than this many years ago is "classic".
const FreshnessWindowYears = 10

// Freshness resolves the group's freshness preference by majority vote.
// Each answer may vote for "new", "classic", both or neither. Ties,
// including no votes at all, resolve to any.
func Freshness(answers []domain.PollAnswer) domain.FreshnessPreference {
	var countNew, countClassic int
	for _, answer := range answers {
		if answer.VotesFor(domain.FreshnessNew) {
			countNew++
		}
		if answer.VotesFor(domain.FreshnessClassic) {
			countClassic++
		}
	}

	switch {
	case countNew > countClassic:
		return domain.PreferenceNew
	case countClassic > countNew:
		return domain.PreferenceClassic
	default:
		return domain.PreferenceAny
	}
}

// PlanFilters derives the hard retrieval filters for a request.
// The duration bound and exclusion list are passed through unchanged; only
// the year window is computed here, relative to now.
func PlanFilters(
	answers []domain.PollAnswer,
	maxDurationMinutes *int,
	excludedTitles []string,
	now time.Time,
) domain.FilterSpec {
	spec := domain.FilterSpec{
		MaxDurationMinutes: maxDurationMinutes,
		ExcludedTitles:     excludedTitles,
	}

	year := now.Year()
	switch Freshness(answers) {
	case domain.PreferenceNew:
		minYear := year - FreshnessWindowYears
		spec.MinYear = &minYear
	case domain.PreferenceClassic:
		maxYear := year - FreshnessWindowYears - 1
		spec.MaxYear = &maxYear
	case domain.PreferenceAny:
	}

	return spec
}
