package domain

// Metadata keys used when chunk metadata is rendered as a generic map.
// These match the keys the candidate index filters on.
const (
	MetadataKeyDuration    = "durationMinutes"
	MetadataKeyReleaseYear = "releaseYear"
	MetadataKeyRating      = "rating"
)

// Record represents one corpus entry.
// It is a blank-line separated block of free text with optional
// Name, Year, Duration and Rating fields.
type Record struct {
	// ID is the unique identifier for the record within one ingestion run.
	ID string

	// Text is the trimmed record text.
	Text string

	// Title is the value of the record's Name line, empty if absent.
	Title string

	// Metadata holds the structured fields extracted from Text.
	Metadata ChunkMetadata
}

// ChunkMetadata holds the structured fields extracted from a record.
// A nil field means the record had no matching field; values are never
// defaulted to zero.
type ChunkMetadata struct {
	// DurationMinutes is the runtime in minutes.
	DurationMinutes *int

	// ReleaseYear is the four-digit release year.
	ReleaseYear *int

	// Rating is the audience rating (e.g. 8.5).
	Rating *float64
}

// IsEmpty returns true if no metadata field is present.
func (m ChunkMetadata) IsEmpty() bool {
	return m.DurationMinutes == nil && m.ReleaseYear == nil && m.Rating == nil
}

// Map renders the metadata as a generic map containing only present keys.
func (m ChunkMetadata) Map() map[string]any {
	out := make(map[string]any, 3)
	if m.DurationMinutes != nil {
		out[MetadataKeyDuration] = *m.DurationMinutes
	}
	if m.ReleaseYear != nil {
		out[MetadataKeyReleaseYear] = *m.ReleaseYear
	}
	if m.Rating != nil {
		out[MetadataKeyRating] = *m.Rating
	}
	return out
}

// Clone returns a deep copy so chunks never share pointers with each other.
func (m ChunkMetadata) Clone() ChunkMetadata {
	var c ChunkMetadata
	if m.DurationMinutes != nil {
		v := *m.DurationMinutes
		c.DurationMinutes = &v
	}
	if m.ReleaseYear != nil {
		v := *m.ReleaseYear
		c.ReleaseYear = &v
	}
	if m.Rating != nil {
		v := *m.Rating
		c.Rating = &v
	}
	return c
}

// Chunk represents an indexable unit within a record.
// Records are split into chunks that stay within the embedding size budget.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// RecordID links to the parent Record.
	RecordID string

	// Position is the ordinal position within the record.
	Position int

	// Text is the text content of this chunk.
	Text string

	// Title is the movie name of the parent record, empty if the record has none.
	Title string

	// Metadata is inherited from the parent record.
	Metadata ChunkMetadata

	// Embedding is the vector representation for similarity search.
	Embedding []float32
}

// IngestReport summarises an ingestion run.
type IngestReport struct {
	// Records is the number of non-empty records parsed from the corpus.
	Records int

	// Chunks is the number of chunks embedded and indexed.
	Chunks int
}
