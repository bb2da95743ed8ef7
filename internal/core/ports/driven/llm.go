package driven

import "context"

// LLMService provides tool-calling chat completions.
// The recommendation agent drives it turn by turn: the model may request a
// tool call, the agent executes it and feeds the result back, and the final
// turn returns structured content matching the requested response schema.
type LLMService interface {
	// ChatWithTools runs one model turn over the conversation so far.
	ChatWithTools(ctx context.Context, messages []ChatMessage, opts ChatOptions) (*ChatResponse, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", "assistant" or "tool".
	Role string

	// Content is the message text.
	Content string

	// ToolCalls are the calls requested by an assistant message.
	ToolCalls []ToolCall

	// ToolCallID links a tool message to the call it answers.
	ToolCallID string
}

// ToolCall is a function call requested by the model.
type ToolCall struct {
	// ID identifies the call within the conversation.
	ID string

	// Name is the tool name.
	Name string

	// Arguments is the raw JSON argument object.
	Arguments string
}

// ToolDefinition describes a tool the model may call.
type ToolDefinition struct {
	// Name is the tool name.
	Name string

	// Description tells the model when to use the tool.
	Description string

	// Parameters is the JSON schema of the argument object.
	Parameters map[string]any
}

// ResponseSchema constrains the final answer to a JSON schema.
type ResponseSchema struct {
	// Name identifies the schema.
	Name string

	// Schema is the JSON schema object.
	Schema map[string]any
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// Tools lists the tools available on this turn.
	Tools []ToolDefinition

	// ResponseSchema, when set, requests structured output.
	ResponseSchema *ResponseSchema
}

// ChatResponse is the result of one model turn.
// Either ToolCalls is non-empty or Content holds the answer.
type ChatResponse struct {
	// Content is the assistant text.
	Content string

	// ToolCalls are calls the model wants executed before answering.
	ToolCalls []ToolCall
}
