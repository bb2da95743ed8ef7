package file

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
)

func newTestPromptStore(t *testing.T) (*PromptStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	return store, dir
}

func writePrompt(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".txt"), []byte(content), 0o600))
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DefaultDirName, "prompts"), store.Dir())
}

func TestPromptStore_NoIOUntilLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	_, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = os.Stat(dir)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestPromptStore_Names(t *testing.T) {
	store, _ := newTestPromptStore(t)
	assert.Equal(t, []string{driven.PromptRecommendSystem}, store.Names())
}

func TestPromptStore_Load_SeedsDirectory(t *testing.T) {
	store, dir := newTestPromptStore(t)

	_, err := store.Load(driven.PromptRecommendSystem)
	require.NoError(t, err)

	for _, f := range []string{"recommend_system.txt", "README.md"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "expected file %s to exist", f)
	}
}

func TestPromptStore_Load_SeedKeepsUserEdits(t *testing.T) {
	store, dir := newTestPromptStore(t)
	writePrompt(t, dir, driven.PromptRecommendSystem, "mine")

	prompt, err := store.Load(driven.PromptRecommendSystem)

	require.NoError(t, err)
	assert.Equal(t, "mine", prompt)
}

func TestPromptStore_Load_BuiltinContent(t *testing.T) {
	store, _ := newTestPromptStore(t)

	prompt, err := store.Load(driven.PromptRecommendSystem)

	require.NoError(t, err)
	assert.Contains(t, prompt, "Call retrieve EXACTLY ONCE")
	assert.Contains(t, prompt, `"movieDurationMinutes"`)
	assert.Contains(t, prompt, "GENRE MATCHING")
}

func TestPromptStore_Load_Fallbacks(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, dir string)
		want    string
	}{
		{
			name:    "trimmed user file",
			prepare: func(t *testing.T, dir string) { writePrompt(t, dir, driven.PromptRecommendSystem, "\n  Pick a film.  \n\n") },
			want:    "Pick a film.",
		},
		{
			name:    "blank user file",
			prepare: func(t *testing.T, dir string) { writePrompt(t, dir, driven.PromptRecommendSystem, "  \n") },
			want:    "movie recommendation assistant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, dir := newTestPromptStore(t)
			tt.prepare(t, dir)

			prompt, err := store.Load(driven.PromptRecommendSystem)

			require.NoError(t, err)
			assert.Contains(t, prompt, tt.want)
		})
	}
}

func TestPromptStore_Load_DeletedFile(t *testing.T) {
	store, dir := newTestPromptStore(t)

	_, _ = store.Load(driven.PromptRecommendSystem)
	require.NoError(t, os.Remove(filepath.Join(dir, "recommend_system.txt")))
	store.Reload()

	prompt, err := store.Load(driven.PromptRecommendSystem)

	require.NoError(t, err)
	assert.Contains(t, prompt, "movie recommendation assistant")
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, _ := newTestPromptStore(t)

	_, err := store.Load("nonexistent_prompt")

	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "nonexistent_prompt")
}

func TestPromptStore_Load_CustomPromptWithoutBuiltin(t *testing.T) {
	store, dir := newTestPromptStore(t)
	writePrompt(t, dir, "tone", "Be playful.")

	prompt, err := store.Load("tone")

	require.NoError(t, err)
	assert.Equal(t, "Be playful.", prompt)
}

func TestPromptStore_Reload(t *testing.T) {
	store, dir := newTestPromptStore(t)

	first, err := store.Load(driven.PromptRecommendSystem)
	require.NoError(t, err)

	writePrompt(t, dir, driven.PromptRecommendSystem, "edited")

	cached, err := store.Load(driven.PromptRecommendSystem)
	require.NoError(t, err)
	assert.Equal(t, first, cached, "cached until reload")

	store.Reload()
	fresh, err := store.Load(driven.PromptRecommendSystem)
	require.NoError(t, err)
	assert.Equal(t, "edited", fresh)
}

func TestPromptStore_Watch_EvictsEditedPrompt(t *testing.T) {
	store, dir := newTestPromptStore(t)
	_, err := store.Load(driven.PromptRecommendSystem)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	writePrompt(t, dir, driven.PromptRecommendSystem, "hot reloaded")

	assert.Eventually(t, func() bool {
		prompt, err := store.Load(driven.PromptRecommendSystem)
		return err == nil && prompt == "hot reloaded"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	store, _ := newTestPromptStore(t)

	const goroutines = 50
	var wg sync.WaitGroup
	results := make(chan string, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prompt, err := store.Load(driven.PromptRecommendSystem)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- prompt
		}()
	}
	wg.Wait()
	close(results)

	var first string
	for prompt := range results {
		if first == "" {
			first = prompt
			continue
		}
		assert.Equal(t, first, prompt)
	}
}
