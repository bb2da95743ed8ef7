package driving

import (
	"context"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

// RecommendationService picks one movie for a group.
type RecommendationService interface {
	// Recommend returns a tagged result. Failures carry a kind the caller maps
	// to its own status codes and a message safe to show the end user.
	Recommend(ctx context.Context, req domain.RecommendationRequest) domain.Result
}
