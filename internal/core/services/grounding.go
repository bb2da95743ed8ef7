package services

import (
	"fmt"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/logger"
)

// GroundingState tracks what the guard has seen of retrieval in one request.
type GroundingState int

// Grounding states.
const (
	// GroundingNotCalled means no retrieval outcome has been observed.
	GroundingNotCalled GroundingState = iota

	// GroundingCalledFailure means retrieval ran and produced no candidates.
	GroundingCalledFailure

	// GroundingCalledSuccess means retrieval returned candidates.
	GroundingCalledSuccess
)

// String returns the string representation.
func (s GroundingState) String() string {
	switch s {
	case GroundingNotCalled:
		return "not_called"
	case GroundingCalledFailure:
		return "called_failure"
	case GroundingCalledSuccess:
		return "called_success"
	default:
		return "unknown"
	}
}

// GroundingVerdict is the result of validating a generated answer.
type GroundingVerdict struct {
	// Answer is the generated answer, unchanged.
	Answer domain.GeneratedAnswer

	// Grounded is true when the answer's title is in the retrieved set.
	Grounded bool
}

// GroundingGuard checks that a generated answer was chosen from what
// retrieval returned. A guard serves exactly one request.
type GroundingGuard struct {
	state   GroundingState
	outcome domain.RetrievalOutcome
	titles  map[string]struct{}
}

// NewGroundingGuard creates a guard in the NotCalled state.
func NewGroundingGuard() *GroundingGuard {
	return &GroundingGuard{state: GroundingNotCalled}
}

// Observe records the request's retrieval outcome. Only the first outcome
// counts; the generator is allowed a single retrieval.
func (g *GroundingGuard) Observe(outcome domain.RetrievalOutcome) {
	if g.state != GroundingNotCalled {
		logger.Warn("Ignoring additional retrieval outcome in state %s", g.state)
		return
	}

	g.outcome = outcome
	if !outcome.Succeeded() {
		g.state = GroundingCalledFailure
		return
	}

	g.state = GroundingCalledSuccess
	g.titles = make(map[string]struct{}, len(outcome.Titles()))
	for _, t := range outcome.Titles() {
		g.titles[domain.NormalizeTitle(t)] = struct{}{}
	}
}

// State returns the current state.
func (g *GroundingGuard) State() GroundingState {
	return g.state
}

// Validate checks the answer against the observed outcome.
//
// Without an observed retrieval it fails with domain.ErrRetrievalNotInvoked.
// After a failed retrieval it fails with domain.ErrNoCandidates without
// looking at the answer. After a successful one it never fails: a title
// outside the retrieved set is logged and reported as not grounded.
func (g *GroundingGuard) Validate(answer domain.GeneratedAnswer) (GroundingVerdict, error) {
	switch g.state {
	case GroundingNotCalled:
		logger.Critical("Generator answered %q without calling retrieve", answer.Title)
		return GroundingVerdict{}, domain.ErrRetrievalNotInvoked

	case GroundingCalledFailure:
		logger.Warn("Retrieval failed (%s): %s", g.outcome.Reason(), g.outcome.Detail())
		return GroundingVerdict{}, fmt.Errorf("%w: %s", domain.ErrNoCandidates, g.outcome.Reason())

	case GroundingCalledSuccess:
		_, ok := g.titles[domain.NormalizeTitle(answer.Title)]
		if !ok {
			logger.Warn("Recommended %q is not in the retrieved list %v", answer.Title, g.outcome.Titles())
		}
		return GroundingVerdict{Answer: answer, Grounded: ok}, nil

	default:
		return GroundingVerdict{}, fmt.Errorf("unknown grounding state %d", g.state)
	}
}
