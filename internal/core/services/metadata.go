package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

// titleLabel prefixes the line holding a record's movie name.
const titleLabel = "Name:"

var (
	recordSeparator = regexp.MustCompile(`\n[ \t]*\n`)

	// Duration accepts "2h 15m", "2h", "45m", "1h30" and a bare "95".
	durationPattern = regexp.MustCompile(`(?i)Duration:[ \t]*(\d+)[ \t]*([hm])?[a-z]*[ \t]*(?:(\d+)[ \t]*m?)?`)
	yearPattern     = regexp.MustCompile(`(?i)Year:\s*(\d{4})`)
	ratingPattern   = regexp.MustCompile(`(?i)Rating:\s*([\d.]+)`)
)

// ParseRecords splits a corpus into records on blank lines.
// Windows line endings are normalised first. Records that are empty after
// trimming are dropped. Each record carries its title and metadata.
func ParseRecords(corpus string) []domain.Record {
	corpus = strings.ReplaceAll(corpus, "\r\n", "\n")

	var records []domain.Record
	for _, block := range recordSeparator.Split(corpus, -1) {
		text := strings.TrimSpace(block)
		if text == "" {
			continue
		}
		records = append(records, domain.Record{
			ID:       uuid.New().String(),
			Text:     text,
			Title:    ExtractTitle(text),
			Metadata: ExtractMetadata(text),
		})
	}
	return records
}

// ExtractMetadata pulls Duration, Year and Rating out of a record.
// A field that is missing or unparseable is left nil; it never errors.
func ExtractMetadata(text string) domain.ChunkMetadata {
	var m domain.ChunkMetadata

	if match := durationPattern.FindStringSubmatch(text); match != nil {
		if minutes, ok := parseDuration(match[1], strings.ToLower(match[2]), match[3]); ok {
			m.DurationMinutes = &minutes
		}
	}

	if match := yearPattern.FindStringSubmatch(text); match != nil {
		if year, err := strconv.Atoi(match[1]); err == nil {
			m.ReleaseYear = &year
		}
	}

	if match := ratingPattern.FindStringSubmatch(text); match != nil {
		if rating, ok := parseLeadingFloat(match[1]); ok {
			m.Rating = &rating
		}
	}

	return m
}

// parseDuration converts the captured duration parts to minutes.
// A number followed by "h" is hours and the optional second number is
// minutes. A number followed by "m" is minutes. A bare number with a second
// number is read as hours then minutes; a lone bare number is minutes.
func parseDuration(first, unit, second string) (int, bool) {
	n, err := strconv.Atoi(first)
	if err != nil {
		return 0, false
	}
	rest := 0
	if second != "" {
		if rest, err = strconv.Atoi(second); err != nil {
			return 0, false
		}
	}

	switch {
	case unit == "h":
		return n*60 + rest, true
	case unit == "m":
		return n, true
	case second != "":
		return n*60 + rest, true
	default:
		return n, true
	}
}

// parseLeadingFloat parses the longest numeric prefix of s, so "8.5." reads
// as 8.5. A string with no digits before the first invalid rune fails.
func parseLeadingFloat(s string) (float64, bool) {
	for end := len(s); end > 0; end-- {
		if v, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// ExtractTitle returns the trimmed remainder of the first line starting
// with "Name:", or "" when there is none.
func ExtractTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, titleLabel) {
			return strings.TrimSpace(strings.TrimPrefix(line, titleLabel))
		}
	}
	return ""
}
