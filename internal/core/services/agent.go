package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
	"github.com/custodia-labs/cinepick/internal/logger"
)

// Ensure Agent implements PromptStoreAware.
var _ driven.PromptStoreAware = (*Agent)(nil)

const (
	retrieveToolName = "retrieve"

	// DefaultAgentTurns bounds model calls per request.
	DefaultAgentTurns = 4

	alreadyRetrievedMessage = "ERROR: retrieve was already called for this request. " +
		"Recommend one of the movies it returned."
)

// errNoAnswer is returned when the model never produced a final answer.
var errNoAnswer = errors.New("agent produced no answer")

// RetrieveFunc embeds the generator's search query, plans filters and runs
// candidate retrieval. An error aborts the run; a failed retrieval is an
// outcome, not an error.
type RetrieveFunc func(ctx context.Context, query string, timeLimitMinutes *int) (domain.RetrievalOutcome, error)

// AgentRun is what one agent run hands back to the caller.
type AgentRun struct {
	// Answer is the generator's structured answer. It is zero when the run
	// stopped early after a failed retrieval.
	Answer domain.GeneratedAnswer

	// Outcome is the retrieval outcome, nil if retrieve was never called.
	Outcome *domain.RetrievalOutcome
}

// Agent drives a tool-calling generator through a single retrieval and a
// structured final answer.
type Agent struct {
	llm         driven.LLMService
	prompts     driven.PromptStore
	temperature float64
	maxTurns    int
}

// NewAgent creates an agent around the given LLM.
func NewAgent(llm driven.LLMService, temperature float64) *Agent {
	return &Agent{
		llm:         llm,
		temperature: temperature,
		maxTurns:    DefaultAgentTurns,
	}
}

// SetPromptStore sets the prompt store for the system prompt.
func (a *Agent) SetPromptStore(store driven.PromptStore) {
	a.prompts = store
}

// Run sends the group query to the generator and services its retrieve
// calls. Only the first retrieve call reaches retrieve; later ones are
// answered with an error message. A failed retrieval ends the run at once,
// since nothing can be recommended.
func (a *Agent) Run(ctx context.Context, query string, retrieve RetrieveFunc) (AgentRun, error) {
	if a.llm == nil {
		return AgentRun{}, domain.ErrLLMUnavailable
	}

	systemPrompt, err := a.systemPrompt()
	if err != nil {
		return AgentRun{}, err
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: systemPrompt},
		{Role: driven.RoleUser, Content: query},
	}
	opts := driven.ChatOptions{
		Temperature:    a.temperature,
		Tools:          []driven.ToolDefinition{retrieveTool()},
		ResponseSchema: answerSchema(),
	}

	var run AgentRun
	for turn := 1; turn <= a.maxTurns; turn++ {
		logger.Debug("Agent turn %d", turn)

		resp, err := a.llm.ChatWithTools(ctx, messages, opts)
		if err != nil {
			return run, fmt.Errorf("generation turn %d: %w", turn, err)
		}

		if len(resp.ToolCalls) == 0 {
			answer, err := parseAnswer(resp.Content)
			if err != nil {
				return run, err
			}
			run.Answer = answer
			logger.Info("Generator recommended %q", answer.Title)
			return run, nil
		}

		messages = append(messages, driven.ChatMessage{
			Role:      driven.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			content, err := a.handleToolCall(ctx, call, retrieve, &run)
			if err != nil {
				return run, err
			}
			messages = append(messages, driven.ChatMessage{
				Role:       driven.RoleTool,
				Content:    content,
				ToolCallID: call.ID,
			})
		}

		if run.Outcome != nil && !run.Outcome.Succeeded() {
			return run, nil
		}
	}

	return run, fmt.Errorf("%w within %d turns", errNoAnswer, a.maxTurns)
}

// handleToolCall runs one tool call and returns the tool message content.
func (a *Agent) handleToolCall(
	ctx context.Context,
	call driven.ToolCall,
	retrieve RetrieveFunc,
	run *AgentRun,
) (string, error) {
	if call.Name != retrieveToolName {
		logger.Warn("Generator called unknown tool %q", call.Name)
		return fmt.Sprintf("ERROR: unknown tool %q", call.Name), nil
	}
	if run.Outcome != nil {
		logger.Warn("Generator called retrieve more than once")
		return alreadyRetrievedMessage, nil
	}

	args, err := parseRetrieveArgs(call.Arguments)
	if err != nil {
		logger.Warn("Bad retrieve arguments %q: %v", call.Arguments, err)
		return "ERROR: " + err.Error(), nil
	}
	logger.Debug("Retrieve query: %q, time limit: %v", args.Query, derefInt(args.TimeLimitMinutes))

	outcome, err := retrieve(ctx, args.Query, args.TimeLimitMinutes)
	if err != nil {
		return "", fmt.Errorf("retrieve: %w", err)
	}
	run.Outcome = &outcome
	return RenderCandidates(outcome), nil
}

func (a *Agent) systemPrompt() (string, error) {
	if a.prompts == nil {
		return "", fmt.Errorf("%w: no prompt store configured", domain.ErrInvalidInput)
	}
	prompt, err := a.prompts.Load(driven.PromptRecommendSystem)
	if err != nil {
		return "", fmt.Errorf("loading system prompt: %w", err)
	}
	return prompt, nil
}

// retrieveArgs are the arguments the generator passes to retrieve.
type retrieveArgs struct {
	Query            string
	TimeLimitMinutes *int
}

func parseRetrieveArgs(raw string) (retrieveArgs, error) {
	var wire struct {
		Query            string   `json:"query"`
		TimeLimitMinutes *float64 `json:"timeLimitMinutes"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return retrieveArgs{}, fmt.Errorf("invalid retrieve arguments: %w", err)
	}

	args := retrieveArgs{Query: strings.TrimSpace(wire.Query)}
	if args.Query == "" {
		return retrieveArgs{}, errors.New("retrieve requires a non-empty query")
	}
	// A non-positive limit means the generator could not parse one.
	if wire.TimeLimitMinutes != nil && *wire.TimeLimitMinutes > 0 {
		minutes := int(math.Round(*wire.TimeLimitMinutes))
		args.TimeLimitMinutes = &minutes
	}
	return args, nil
}

// parseAnswer decodes the generator's final JSON answer, tolerating a
// markdown code fence around it.
func parseAnswer(content string) (domain.GeneratedAnswer, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var wire struct {
		Title                looseString `json:"title"`
		Description          looseString `json:"description"`
		ReleaseYear          looseString `json:"releaseYear"`
		TimeLimitMinutes     looseString `json:"timeLimitMinutes"`
		MovieDurationMinutes looseString `json:"movieDurationMinutes"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &wire); err != nil {
		return domain.GeneratedAnswer{}, fmt.Errorf("decoding generator answer: %w", err)
	}
	if strings.TrimSpace(string(wire.Title)) == "" {
		return domain.GeneratedAnswer{}, fmt.Errorf("%w: answer has no title", errNoAnswer)
	}

	return domain.GeneratedAnswer{
		Title:                strings.TrimSpace(string(wire.Title)),
		Description:          string(wire.Description),
		ReleaseYear:          string(wire.ReleaseYear),
		TimeLimitMinutes:     string(wire.TimeLimitMinutes),
		MovieDurationMinutes: string(wire.MovieDurationMinutes),
	}, nil
}

// looseString accepts a JSON string, number or null. Null decodes to "null",
// the placeholder the generator is told to use for unknown values.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*s = "null"
	case strings.HasPrefix(raw, `"`):
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
	default:
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Errorf("expected string or number, got %s", raw)
		}
		*s = looseString(raw)
	}
	return nil
}

func retrieveTool() driven.ToolDefinition {
	return driven.ToolDefinition{
		Name: retrieveToolName,
		Description: "Retrieve movies from the database. Pass timeLimitMinutes (parsed from TIME AVAILABLE) " +
			"to filter by duration. You MUST recommend ONLY from the movies returned by this tool.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type": "string",
					"description": "Search query with 8-12 keywords expanded from moods, favorite movies, " +
						"and characters (no names, no \"new\"/\"classic\")",
				},
				"timeLimitMinutes": map[string]any{
					"type":        []string{"number", "null"},
					"description": "Parsed time limit in minutes from TIME AVAILABLE field (e.g., \"2 hours\" -> 120)",
				},
			},
			"required":             []string{"query", "timeLimitMinutes"},
			"additionalProperties": false,
		},
	}
}

func answerSchema() *driven.ResponseSchema {
	field := func(description string) map[string]any {
		return map[string]any{"type": "string", "description": description}
	}
	return &driven.ResponseSchema{
		Name: "movie_recommendation",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":                field("Exact movie title from retrieved list"),
				"description":          field("2-3 sentence pitch explaining why this movie fits the group preferences"),
				"releaseYear":          field("Movie release year"),
				"timeLimitMinutes":     field("Parsed time limit in minutes, or \"null\" if not specified"),
				"movieDurationMinutes": field("Duration of recommended movie in minutes, or \"null\" if unknown"),
			},
			"required": []string{
				"title", "description", "releaseYear", "timeLimitMinutes", "movieDurationMinutes",
			},
			"additionalProperties": false,
		},
	}
}
