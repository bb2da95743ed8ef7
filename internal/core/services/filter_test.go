package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

func pollVotes(votes ...[]string) []domain.PollAnswer {
	out := make([]domain.PollAnswer, len(votes))
	for i, v := range votes {
		out[i] = domain.PollAnswer{Freshness: v}
	}
	return out
}

func TestFreshness(t *testing.T) {
	tests := []struct {
		name    string
		answers []domain.PollAnswer
		want    domain.FreshnessPreference
	}{
		{name: "no answers", answers: nil, want: domain.PreferenceAny},
		{name: "no votes", answers: pollVotes(nil, nil), want: domain.PreferenceAny},
		{name: "majority new", answers: pollVotes([]string{"new"}, []string{"new"}, []string{"New"}, []string{"classic"}), want: domain.PreferenceNew},
		{name: "majority classic", answers: pollVotes([]string{"Classic"}, []string{"classic"}, []string{"new"}), want: domain.PreferenceClassic},
		{name: "tie", answers: pollVotes([]string{"new"}, []string{"classic"}), want: domain.PreferenceAny},
		{name: "both on one answer", answers: pollVotes([]string{"new", "classic"}), want: domain.PreferenceAny},
		{name: "duplicate vote counts once", answers: pollVotes([]string{"new", "new"}, []string{"classic"}), want: domain.PreferenceAny},
		{name: "unknown labels ignored", answers: pollVotes([]string{"recent"}, []string{"classic"}), want: domain.PreferenceClassic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Freshness(tt.answers))
		})
	}
}

func TestPlanFilters_New(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	polls := pollVotes([]string{"new"}, []string{"new"}, []string{"new"}, []string{"classic"})

	spec := PlanFilters(polls, intPtr(120), []string{"Up"}, now)

	require.NotNil(t, spec.MinYear)
	assert.Equal(t, 2014, *spec.MinYear)
	assert.Nil(t, spec.MaxYear)
	assert.Equal(t, intPtr(120), spec.MaxDurationMinutes)
	assert.Equal(t, []string{"Up"}, spec.ExcludedTitles)
}

func TestPlanFilters_Classic(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	spec := PlanFilters(pollVotes([]string{"classic"}), nil, nil, now)

	assert.Nil(t, spec.MinYear)
	require.NotNil(t, spec.MaxYear)
	assert.Equal(t, 2013, *spec.MaxYear)
	assert.Nil(t, spec.MaxDurationMinutes)
}

func TestPlanFilters_AnyHasNoYearBounds(t *testing.T) {
	spec := PlanFilters(pollVotes([]string{"new"}, []string{"classic"}), nil, nil, time.Now())

	assert.Nil(t, spec.MinYear)
	assert.Nil(t, spec.MaxYear)
}

func TestPlanFilters_WindowsDoNotOverlap(t *testing.T) {
	now := time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC)

	newSpec := PlanFilters(pollVotes([]string{"new"}), nil, nil, now)
	classicSpec := PlanFilters(pollVotes([]string{"classic"}), nil, nil, now)

	assert.Equal(t, *newSpec.MinYear-1, *classicSpec.MaxYear)
}
