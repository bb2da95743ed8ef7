package file

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
	"github.com/custodia-labs/cinepick/internal/logger"
)

var (
	_ driven.PromptStore   = (*PromptStore)(nil)
	_ driven.PromptWatcher = (*PromptStore)(nil)
)

const promptExt = ".txt"

//go:embed defaults/*.txt defaults/README.md
var builtin embed.FS

// PromptStore serves prompts from <dir>/<name>.txt, falling back to the
// built-in copy when the file is missing or blank. The directory is seeded
// with the built-in prompts on first Load, never earlier.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore creates a store rooted at dir, or ~/.cinepick/prompts when
// dir is empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, DefaultDirName, "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Names lists the built-in prompt names, sorted.
func (s *PromptStore) Names() []string {
	entries, _ := fs.Glob(builtin, "defaults/*"+promptExt)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(filepath.Base(e), promptExt))
	}
	sort.Strings(names)
	return names
}

// Load returns the named prompt. Results are cached until Reload or until
// Watch sees the file change.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(s.seed)

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	fallback, hasDefault := builtinPrompt(name)

	prompt, err := s.readFile(name)
	switch {
	case err == nil && prompt != "":
		// user file wins
	case err == nil || errors.Is(err, fs.ErrNotExist) || s.seedErr != nil:
		if !hasDefault {
			return "", fmt.Errorf("load prompt %q: %w", name, fs.ErrNotExist)
		}
		if err == nil {
			logger.Warn("Prompt %s is empty, using the built-in prompt", name)
		}
		prompt = fallback
	default:
		if !hasDefault {
			return "", fmt.Errorf("load prompt %q: %w", name, err)
		}
		logger.Warn("Reading prompt %s: %v; using the built-in prompt", name, err)
		prompt = fallback
	}

	s.mu.Lock()
	if existing, ok := s.cache[name]; ok {
		prompt = existing
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload drops every cached prompt.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// forget drops one cached prompt.
func (s *PromptStore) forget(name string) {
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
}

// Watch evicts a prompt from the cache whenever its file changes, so a
// long-running server picks up edits. It blocks until ctx is cancelled.
func (s *PromptStore) Watch(ctx context.Context) error {
	s.seedOnce.Do(s.seed)
	if s.seedErr != nil {
		return s.seedErr
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch prompts: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch prompts: adding %s: %w", s.dir, err)
	}
	logger.Debug("Watching %s for prompt edits", s.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			base := filepath.Base(event.Name)
			if filepath.Ext(base) != promptExt || event.Op == fsnotify.Chmod {
				continue
			}
			name := strings.TrimSuffix(base, promptExt)
			s.forget(name)
			logger.Info("Prompt %s changed, reloading", name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Prompt watcher error: %v", err)
		}
	}
}

// seed creates the directory and writes any built-in file the user does not
// already have.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		logger.Warn("Prompts: %v; using built-in prompts", s.seedErr)
		return
	}

	err := fs.WalkDir(builtin, "defaults", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		target := filepath.Join(s.dir, d.Name())
		if _, statErr := os.Stat(target); statErr == nil {
			return nil
		}
		data, err := builtin.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o600)
	})
	if err != nil {
		s.seedErr = fmt.Errorf("seed prompts: %w", err)
		logger.Warn("Prompts: %v; using built-in prompts", s.seedErr)
	}
}

func (s *PromptStore) readFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name+promptExt))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func builtinPrompt(name string) (string, bool) {
	data, err := builtin.ReadFile("defaults/" + name + promptExt)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}
