package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

// Palette used for terminal output.
var (
	colourPrimary = lipgloss.Color("#7C3AED") // Purple
	colourMuted   = lipgloss.Color("#6C7086") // Medium gray
	colourSuccess = lipgloss.Color("#A6E3A1") // Green
	colourBorder  = lipgloss.Color("#45475A") // Border gray
)

// cardStyles holds the styles for a rendered recommendation.
type cardStyles struct {
	Title  lipgloss.Style
	Year   lipgloss.Style
	Body   lipgloss.Style
	Poster lipgloss.Style
	Card   lipgloss.Style
}

func newCardStyles() cardStyles {
	return cardStyles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(colourPrimary),
		Year:   lipgloss.NewStyle().Foreground(colourMuted),
		Body:   lipgloss.NewStyle().Width(72),
		Poster: lipgloss.NewStyle().Foreground(colourSuccess).Italic(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colourBorder).
			Padding(1, 2),
	}
}

// renderRecommendation formats a recommendation as a bordered card.
func renderRecommendation(rec domain.Recommendation) string {
	st := newCardStyles()

	var b strings.Builder
	b.WriteString(st.Title.Render(rec.Title))
	if rec.ReleaseYear != "" {
		b.WriteString(" ")
		b.WriteString(st.Year.Render("(" + rec.ReleaseYear + ")"))
	}
	if rec.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(st.Body.Render(rec.Description))
	}
	b.WriteString("\n\n")
	if rec.Poster != nil {
		b.WriteString(st.Poster.Render("poster available (use --json to get the data URL)"))
	} else {
		b.WriteString(st.Year.Render("no poster"))
	}

	return st.Card.Render(b.String())
}
