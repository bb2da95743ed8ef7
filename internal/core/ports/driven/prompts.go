package driven

import "context"

// PromptRecommendSystem is the recommendation agent's system prompt. It
// describes the retrieve tool, the mood-to-genre rules and the answer
// fields, and has no placeholders.
const PromptRecommendSystem = "recommend_system"

// PromptStore returns prompt text by name.
type PromptStore interface {
	// Load returns the named prompt. Stores fall back to a built-in prompt
	// where one exists and fail for names they do not know.
	Load(name string) (string, error)

	// Reload drops cached prompts so the next Load reads fresh content.
	Reload()
}

// PromptWatcher is implemented by stores that can follow edits while the
// process runs. Watch blocks until ctx is cancelled.
type PromptWatcher interface {
	Watch(ctx context.Context) error
}

// PromptStoreAware services accept a PromptStore after construction and use
// their compiled-in prompts until one is set.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
