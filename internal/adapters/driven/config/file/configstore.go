package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/cinepick/internal/adapters/driven/config/coerce"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// DefaultDirName is the config directory created under the user's home.
const DefaultDirName = ".cinepick"

// DefaultEnvBindings maps config keys to the environment variables that
// override them. Environment values always win over the TOML file.
//
//nolint:gosec // G101: These are variable names, not credentials.
func DefaultEnvBindings() map[string]string {
	return map[string]string{
		"embedding.provider": "CINEPICK_EMBEDDING_PROVIDER",
		"embedding.api_key":  "OPENAI_API_KEY",
		"embedding.model":    "OPENAI_EMBEDDING_MODEL",
		"embedding.base_url": "OPENAI_BASE_URL",
		"llm.provider":       "CINEPICK_LLM_PROVIDER",
		"llm.api_key":        "OPENAI_API_KEY",
		"llm.model":          "OPENAI_LLM_MODEL",
		"llm.base_url":       "OPENAI_BASE_URL",
		"poster.api_key":     "TMDB_API_KEY",
		"poster.token":       "TMDB_API_TOKEN",
		"poster.base_url":    "TMDB_BASE_URL",
		"poster.image_url":   "TMDB_IMAGE_BASE_URL",
		"corpus.path":        "CINEPICK_CORPUS_PATH",
		"corpus.s3_bucket":   "CINEPICK_CORPUS_BUCKET",
		"corpus.s3_key":      "CINEPICK_CORPUS_KEY",
		"corpus.s3_region":   "AWS_REGION",
		"corpus.s3_endpoint": "CINEPICK_S3_ENDPOINT",
		"corpus.s3_key_id":   "AWS_ACCESS_KEY_ID",
		"corpus.s3_secret":   "AWS_SECRET_ACCESS_KEY",
		"server.addr":        "CINEPICK_ADDR",
	}
}

// Option configures a ConfigStore.
type Option func(*ConfigStore)

// WithEnvBindings enables environment overrides for the given keys.
func WithEnvBindings(bindings map[string]string) Option {
	return func(s *ConfigStore) {
		s.env = bindings
	}
}

// WithLookupEnv replaces os.LookupEnv, for tests.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(s *ConfigStore) {
		s.lookupEnv = lookup
	}
}

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
// Configuration is stored in a TOML file within the cinepick config directory.
// Values bound to environment variables are read from the environment first.
type ConfigStore struct {
	mu        sync.RWMutex
	filePath  string
	data      map[string]any
	env       map[string]string
	lookupEnv func(string) (string, bool)
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.cinepick/config.toml.
func NewConfigStore(configDir string, opts ...Option) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, DefaultDirName)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath:  filepath.Join(configDir, "config.toml"),
		data:      make(map[string]any),
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// Get retrieves a configuration value by key.
// A non-empty bound environment variable takes precedence over the file.
func (s *ConfigStore) Get(key string) (any, bool) {
	if name, ok := s.env[key]; ok {
		if v, ok := s.lookupEnv(name); ok && v != "" {
			return v, true
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString returns the value at key when it is a string.
func (s *ConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	return coerce.String(v)
}

// GetInt returns the value at key as an int. TOML integers arrive as int64
// and environment overrides as strings.
func (s *ConfigStore) GetInt(key string) int {
	v, _ := s.Get(key)
	return coerce.Int(v)
}

// GetFloat returns the value at key as a float64, widening integers.
func (s *ConfigStore) GetFloat(key string) float64 {
	v, _ := s.Get(key)
	return coerce.Float(v)
}

// GetBool returns the value at key as a bool.
func (s *ConfigStore) GetBool(key string) bool {
	v, _ := s.Get(key)
	return coerce.Bool(v)
}

// GetStringSlice returns the value at key as a string slice. Environment
// overrides are comma separated.
func (s *ConfigStore) GetStringSlice(key string) []string {
	v, _ := s.Get(key)
	return coerce.Strings(v)
}

// Set stores a configuration value and persists immediately.
// Environment overrides are not affected.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes configuration to the TOML file (caller must hold lock).
// Dot keys are expanded into tables so the file stays hand-editable.
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(expandMap(s.data))
	if err != nil {
		return err
	}

	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads configuration from the TOML file.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]any)
			return nil
		}
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}

	if loaded == nil {
		loaded = make(map[string]any)
	}

	s.data = flattenMap(loaded, "")
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Keys returns the keys stored in the file, excluding environment overrides.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// expandMap is the inverse of flattenMap.
// A key colliding with an existing table or value is skipped.
func expandMap(flat map[string]any) map[string]any {
	result := make(map[string]any)

	for key, value := range flat {
		parts := strings.Split(key, ".")
		node := result
		for _, part := range parts[:len(parts)-1] {
			next, ok := node[part].(map[string]any)
			if !ok {
				if _, taken := node[part]; taken {
					node = nil
					break
				}
				next = make(map[string]any)
				node[part] = next
			}
			node = next
		}
		if node == nil {
			continue
		}
		last := parts[len(parts)-1]
		if _, isTable := node[last].(map[string]any); isTable {
			continue
		}
		node[last] = value
	}

	return result
}
