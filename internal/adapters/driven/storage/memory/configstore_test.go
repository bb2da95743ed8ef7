package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
)

func TestConfigStore_ImplementsInterface(t *testing.T) {
	var _ driven.ConfigStore = (*ConfigStore)(nil)
}

func TestNewConfigStore_Seeded(t *testing.T) {
	seed := map[string]any{"llm.model": "gpt-4o"}
	store := NewConfigStore(seed)

	seed["llm.model"] = "changed"

	assert.Equal(t, "gpt-4o", store.GetString("llm.model"), "seed is copied")
	assert.Equal(t, ":memory:", store.Path())
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"s":     "value",
		"i":     42,
		"i64":   int64(7),
		"f":     0.25,
		"b":     true,
		"slice": []any{"a", 1, "b"},
	})

	assert.Equal(t, "value", store.GetString("s"))
	assert.Equal(t, 42, store.GetInt("i"))
	assert.Equal(t, 7, store.GetInt("i64"))
	assert.Equal(t, 0, store.GetInt("f"))
	assert.InDelta(t, 0.25, store.GetFloat("f"), 1e-9)
	assert.InDelta(t, 42.0, store.GetFloat("i"), 1e-9)
	assert.True(t, store.GetBool("b"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("slice"))

	// Wrong type or missing
	assert.Equal(t, "", store.GetString("i"))
	assert.False(t, store.GetBool("s"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.Nil(t, store.GetStringSlice("missing"))
	assert.Equal(t, []string{"value"}, store.GetStringSlice("s"), "strings split on commas")
}

func TestConfigStore_Keys(t *testing.T) {
	store := NewConfigStore(map[string]any{"llm.model": "a"}, map[string]any{"corpus.path": "b", "llm.model": "c"})

	assert.Equal(t, []string{"corpus.path", "llm.model"}, store.Keys())
	assert.Equal(t, "c", store.GetString("llm.model"), "later seeds win")
}

func TestConfigStore_SetOverwrites(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("k", "original"))
	require.NoError(t, store.Set("k", "updated"))

	assert.Equal(t, "updated", store.GetString("k"))
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("counter", n)
			_ = store.GetInt("counter")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("counter")
	assert.True(t, ok)
}
