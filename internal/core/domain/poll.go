package domain

import "strings"

// Freshness votes recognised in a poll answer.
const (
	FreshnessNew     = "new"
	FreshnessClassic = "classic"
)

// FreshnessPreference is the group's resolved freshness preference.
type FreshnessPreference string

// Resolved freshness preferences.
const (
	// PreferenceNew restricts candidates to the freshness window.
	PreferenceNew FreshnessPreference = "new"

	// PreferenceClassic restricts candidates to releases older than the window.
	PreferenceClassic FreshnessPreference = "classic"

	// PreferenceAny applies no year filter.
	PreferenceAny FreshnessPreference = "any"
)

// String returns the string representation.
func (p FreshnessPreference) String() string {
	return string(p)
}

// PollAnswer is one participant's answers to the group poll.
type PollAnswer struct {
	FavoriteMovie  string   `json:"favoriteMovie"`
	FavoritePerson string   `json:"favoritePerson"`
	Freshness      []string `json:"freshness"`
	Mood           []string `json:"mood"`
}

// VotesFor reports whether the answer contains the given freshness vote.
// Comparison is case-insensitive because poll option labels are capitalised.
func (a PollAnswer) VotesFor(freshness string) bool {
	for _, v := range a.Freshness {
		if strings.EqualFold(strings.TrimSpace(v), freshness) {
			return true
		}
	}
	return false
}

// RecommendationRequest is the payload for one recommendation.
type RecommendationRequest struct {
	// TimeAvailable is free text such as "2 hours" or "90 min".
	TimeAvailable string `json:"timeAvailable"`

	// PollAnswers holds one entry per participant.
	PollAnswers []PollAnswer `json:"pollAnswers"`

	// UsedRecommendations lists titles already recommended in this session.
	UsedRecommendations []string `json:"usedRecommendations"`
}
