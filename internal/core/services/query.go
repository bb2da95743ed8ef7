package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

// BuildGroupQuery renders a request as the user message for the generator.
// Mood votes are counted across participants and listed in first-seen order.
func BuildGroupQuery(req domain.RecommendationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "TIME AVAILABLE: %s\n", req.TimeAvailable)
	fmt.Fprintf(&b, "PARTICIPANTS: %d\n\n", len(req.PollAnswers))

	var (
		moods  []string
		counts = make(map[string]int)
	)
	for _, answer := range req.PollAnswers {
		for _, mood := range answer.Mood {
			if _, seen := counts[mood]; !seen {
				moods = append(moods, mood)
			}
			counts[mood]++
		}
	}
	votes := make([]string, len(moods))
	for i, mood := range moods {
		votes[i] = fmt.Sprintf("%s: %d", mood, counts[mood])
	}
	fmt.Fprintf(&b, "MOOD VOTES: %s\n\n", strings.Join(votes, ", "))

	b.WriteString("PREFERENCES:\n")
	for i, answer := range req.PollAnswers {
		fmt.Fprintf(&b, "Person %d: Movie=\"%s\", Character=\"%s\"\n", i+1, answer.FavoriteMovie, answer.FavoritePerson)
	}

	return b.String()
}
