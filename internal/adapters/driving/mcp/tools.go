package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

// RecommendInput is the input schema for the recommend tool.
type RecommendInput struct {
	TimeAvailable       string            `json:"timeAvailable" jsonschema:"how long the group has, free text such as 2 hours or 90 min"`
	PollAnswers         []PollAnswerInput `json:"pollAnswers" jsonschema:"one entry per participant"`
	UsedRecommendations []string          `json:"usedRecommendations,omitempty" jsonschema:"titles already recommended this session"`
}

// PollAnswerInput is one participant's poll answers.
type PollAnswerInput struct {
	FavoriteMovie  string   `json:"favoriteMovie" jsonschema:"the participant's favourite movie"`
	FavoritePerson string   `json:"favoritePerson" jsonschema:"a favourite actor or character"`
	Freshness      []string `json:"freshness,omitempty" jsonschema:"new, classic, both or neither"`
	Mood           []string `json:"mood,omitempty" jsonschema:"moods such as funny, scary or inspiring"`
}

// RecommendOutput is the output schema for the recommend tool.
type RecommendOutput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ReleaseYear string `json:"releaseYear"`
	HasPoster   bool   `json:"hasPoster"`
	Poster      string `json:"poster,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "recommend",
		Description: "Recommend one movie from the indexed catalogue for a group, based on their poll answers",
	}, s.handleRecommend)
}

// handleRecommend handles the recommend tool invocation.
func (s *Server) handleRecommend(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RecommendInput,
) (*mcp.CallToolResult, RecommendOutput, error) {
	result := s.ports.Recommendation.Recommend(ctx, input.toDomain())

	rec, ok := result.Recommendation()
	if !ok {
		return nil, RecommendOutput{}, fmt.Errorf("%s: %s", result.Kind(), result.Message())
	}

	output := RecommendOutput{
		Title:       rec.Title,
		Description: rec.Description,
		ReleaseYear: rec.ReleaseYear,
		HasPoster:   rec.Poster != nil,
	}
	if rec.Poster != nil {
		output.Poster = *rec.Poster
	}
	return nil, output, nil
}

func (in RecommendInput) toDomain() domain.RecommendationRequest {
	req := domain.RecommendationRequest{
		TimeAvailable:       in.TimeAvailable,
		PollAnswers:         make([]domain.PollAnswer, len(in.PollAnswers)),
		UsedRecommendations: in.UsedRecommendations,
	}
	for i, a := range in.PollAnswers {
		req.PollAnswers[i] = domain.PollAnswer{
			FavoriteMovie:  a.FavoriteMovie,
			FavoritePerson: a.FavoritePerson,
			Freshness:      a.Freshness,
			Mood:           a.Mood,
		}
	}
	return req
}
