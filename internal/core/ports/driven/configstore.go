package driven

// ConfigStore holds settings under dot keys such as "llm.model".
//
// The typed getters never fail: a missing key or a value that cannot be
// converted yields the zero value. Implementations may layer environment
// overrides on top of persisted values, in which case Get reports the
// override.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Set stores value under key. File-backed stores persist immediately.
	Set(key string, value any) error

	// Save writes every value to the backing storage.
	Save() error

	// Load replaces the in-memory values with the backing storage.
	Load() error

	// Path identifies the backing storage, for display.
	Path() string
}
