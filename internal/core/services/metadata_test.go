package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetadata_Duration(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *int
	}{
		{name: "hours and minutes", text: "Duration: 2h 15m", want: intPtr(135)},
		{name: "minutes only", text: "Duration: 45m", want: intPtr(45)},
		{name: "hours only", text: "Duration: 2h", want: intPtr(120)},
		{name: "compact", text: "Duration: 1h30", want: intPtr(90)},
		{name: "words", text: "Duration: 2 hours 30 minutes", want: intPtr(150)},
		{name: "min suffix", text: "Duration: 90 min", want: intPtr(90)},
		{name: "bare number", text: "Duration: 95\nRating: 7", want: intPtr(95)},
		{name: "lowercase label", text: "duration: 1h 5m", want: intPtr(65)},
		{name: "absent", text: "Name: Up\nYear: 2009", want: nil},
		{name: "no digits", text: "Duration: unknown", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMetadata(tt.text)
			assert.Equal(t, tt.want, got.DurationMinutes)
		})
	}
}

func TestExtractMetadata_YearAndRating(t *testing.T) {
	m := ExtractMetadata("Name: The Matrix\nYear: 1999\nRating: 8.7/10")

	require.NotNil(t, m.ReleaseYear)
	assert.Equal(t, 1999, *m.ReleaseYear)
	require.NotNil(t, m.Rating)
	assert.InDelta(t, 8.7, *m.Rating, 1e-9)
	assert.Nil(t, m.DurationMinutes)
}

func TestExtractMetadata_RatingTrailingDot(t *testing.T) {
	m := ExtractMetadata("Rating: 8.5.")

	require.NotNil(t, m.Rating)
	assert.InDelta(t, 8.5, *m.Rating, 1e-9)
}

func TestExtractMetadata_Unparseable(t *testing.T) {
	m := ExtractMetadata("Year: 99\nRating: .")

	assert.Nil(t, m.ReleaseYear)
	assert.Nil(t, m.Rating)
	assert.True(t, m.IsEmpty())
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Inception", ExtractTitle("Name:   Inception  \nYear: 2010"))
	assert.Equal(t, "Up", ExtractTitle("Plot: balloons\nName: Up"))
	assert.Equal(t, "", ExtractTitle("Title: Up"))
	assert.Equal(t, "", ExtractTitle(""))
}

func TestParseRecords(t *testing.T) {
	corpus := "Name: Up\r\nYear: 2009\r\nDuration: 1h 36m\r\n\r\n" +
		"Name: Heat\nYear: 1995\n  \t\n\n" +
		"   \n\n" +
		"Just some notes"

	records := ParseRecords(corpus)

	require.Len(t, records, 3)

	assert.Equal(t, "Up", records[0].Title)
	assert.Equal(t, "Name: Up\nYear: 2009\nDuration: 1h 36m", records[0].Text)
	require.NotNil(t, records[0].Metadata.DurationMinutes)
	assert.Equal(t, 96, *records[0].Metadata.DurationMinutes)

	assert.Equal(t, "Heat", records[1].Title)
	require.NotNil(t, records[1].Metadata.ReleaseYear)
	assert.Equal(t, 1995, *records[1].Metadata.ReleaseYear)

	assert.Equal(t, "", records[2].Title)
	assert.True(t, records[2].Metadata.IsEmpty())

	ids := map[string]bool{}
	for _, r := range records {
		assert.NotEmpty(t, r.ID)
		ids[r.ID] = true
	}
	assert.Len(t, ids, 3)
}

func TestParseRecords_Empty(t *testing.T) {
	assert.Empty(t, ParseRecords(""))
	assert.Empty(t, ParseRecords("\n\n  \n\n"))
}
