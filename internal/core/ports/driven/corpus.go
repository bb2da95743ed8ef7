package driven

import "context"

// CorpusSource loads the raw movie corpus text.
type CorpusSource interface {
	// Load returns the full corpus text.
	Load(ctx context.Context) (string, error)

	// Describe returns a human-readable location for logging.
	Describe() string
}
