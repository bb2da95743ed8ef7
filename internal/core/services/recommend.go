package services

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
	"github.com/custodia-labs/cinepick/internal/core/ports/driving"
	"github.com/custodia-labs/cinepick/internal/logger"
)

// Ensure RecommendationService implements the interfaces.
var (
	_ driving.RecommendationService = (*RecommendationService)(nil)
	_ driven.PromptStoreAware       = (*RecommendationService)(nil)
)

// RecommendationService runs the per-request pipeline: group query,
// generator with one retrieval, grounding check and poster lookup.
type RecommendationService struct {
	embedding driven.EmbeddingService
	agent     *Agent
	retriever *CandidateRetriever
	posters   *PosterResolver
	now       func() time.Time
}

// RecommendationOption configures a RecommendationService.
type RecommendationOption func(*RecommendationService)

// WithClock overrides the clock used for the freshness window.
func WithClock(now func() time.Time) RecommendationOption {
	return func(s *RecommendationService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTemperature sets the generator sampling temperature.
func WithTemperature(t float64) RecommendationOption {
	return func(s *RecommendationService) {
		s.agent.temperature = t
	}
}

// NewRecommendationService creates a recommendation service.
// The poster catalog is optional; without it every poster is null.
func NewRecommendationService(
	embedding driven.EmbeddingService,
	llm driven.LLMService,
	index driven.CandidateIndex,
	catalog driven.PosterCatalog,
	opts ...RecommendationOption,
) *RecommendationService {
	s := &RecommendationService{
		embedding: embedding,
		agent:     NewAgent(llm, domain.DefaultLLMTemperature),
		retriever: NewCandidateRetriever(index),
		posters:   NewPosterResolver(catalog),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPromptStore sets the prompt store used by the agent.
func (s *RecommendationService) SetPromptStore(store driven.PromptStore) {
	s.agent.SetPromptStore(store)
}

// Recommend picks one movie for the group. It never panics on collaborator
// failures; every failure becomes an Err result with a user-safe message.
func (s *RecommendationService) Recommend(ctx context.Context, req domain.RecommendationRequest) domain.Result {
	logger.Section("Recommendation")

	if len(req.PollAnswers) == 0 {
		return domain.Err(domain.ErrorKindBadRequest, domain.MessageNoPollAnswers)
	}
	if s.embedding == nil {
		logger.Error("Recommendation requested without an embedding service")
		return domain.Err(domain.ErrorKindInternal, domain.MessageInternalError)
	}

	query := BuildGroupQuery(req)
	logger.Debug("Group query:\n%s", query)

	retrieve := func(ctx context.Context, q string, timeLimit *int) (domain.RetrievalOutcome, error) {
		vec, err := s.embedding.Embed(ctx, q)
		if err != nil {
			return domain.RetrievalOutcome{}, err
		}
		spec := PlanFilters(req.PollAnswers, timeLimit, req.UsedRecommendations, s.now())
		return s.retriever.Retrieve(ctx, vec, spec), nil
	}

	run, err := s.agent.Run(ctx, query, retrieve)
	if err != nil {
		logger.Error("Recommendation failed: %v", err)
		return domain.Err(domain.ErrorKindInternal, domain.MessageInternalError)
	}

	guard := NewGroundingGuard()
	if run.Outcome != nil {
		guard.Observe(*run.Outcome)
	}

	verdict, err := guard.Validate(run.Answer)
	switch {
	case errors.Is(err, domain.ErrNoCandidates):
		return domain.Err(domain.ErrorKindNoCandidates, domain.MessageNoMovies)
	case err != nil:
		return domain.Err(domain.ErrorKindInternal, domain.MessageInternalError)
	}

	answer := verdict.Answer
	rec := domain.Recommendation{
		Title:       answer.Title,
		Description: answer.Description,
		ReleaseYear: answer.ReleaseYear,
		Poster:      s.posters.Resolve(ctx, answer.Title, answer.ReleaseYear),
	}
	logger.Info("Recommendation: %q (%s), grounded=%t, poster=%t",
		rec.Title, rec.ReleaseYear, verdict.Grounded, rec.Poster != nil)

	return domain.Ok(rec)
}
