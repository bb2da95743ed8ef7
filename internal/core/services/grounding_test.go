package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

func TestGroundingGuard_NotCalled(t *testing.T) {
	guard := NewGroundingGuard()
	assert.Equal(t, GroundingNotCalled, guard.State())

	_, err := guard.Validate(domain.GeneratedAnswer{Title: "Inception"})

	assert.ErrorIs(t, err, domain.ErrRetrievalNotInvoked)
}

func TestGroundingGuard_CalledFailure(t *testing.T) {
	for _, reason := range []domain.FailureReason{domain.FailureQueryError, domain.FailureNoMatches} {
		t.Run(reason.String(), func(t *testing.T) {
			guard := NewGroundingGuard()
			guard.Observe(domain.RetrievalFailure(reason, "detail"))

			_, err := guard.Validate(domain.GeneratedAnswer{Title: "Inception"})

			assert.Equal(t, GroundingCalledFailure, guard.State())
			require.ErrorIs(t, err, domain.ErrNoCandidates)
			assert.Contains(t, err.Error(), reason.String())
		})
	}
}

func TestGroundingGuard_CalledSuccess(t *testing.T) {
	outcome := domain.RetrievalSuccess(
		[]domain.Candidate{movieCandidate("Inception", 2010)},
		[]string{"  Inception "},
	)

	tests := []struct {
		name     string
		title    string
		grounded bool
	}{
		{name: "normalised match", title: "inception", grounded: true},
		{name: "exact match", title: "  Inception ", grounded: true},
		{name: "not retrieved", title: "Tenet", grounded: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := NewGroundingGuard()
			guard.Observe(outcome)
			answer := domain.GeneratedAnswer{Title: tt.title, Description: "d"}

			verdict, err := guard.Validate(answer)

			require.NoError(t, err)
			assert.Equal(t, GroundingCalledSuccess, guard.State())
			assert.Equal(t, tt.grounded, verdict.Grounded)
			assert.Equal(t, answer, verdict.Answer)
		})
	}
}

func TestGroundingGuard_FirstOutcomeWins(t *testing.T) {
	guard := NewGroundingGuard()
	guard.Observe(domain.RetrievalFailure(domain.FailureNoMatches, ""))
	guard.Observe(domain.RetrievalSuccess([]domain.Candidate{movieCandidate("Up", 2009)}, []string{"Up"}))

	_, err := guard.Validate(domain.GeneratedAnswer{Title: "Up"})

	assert.Equal(t, GroundingCalledFailure, guard.State())
	assert.ErrorIs(t, err, domain.ErrNoCandidates)
}

func TestGroundingState_String(t *testing.T) {
	assert.Equal(t, "not_called", GroundingNotCalled.String())
	assert.Equal(t, "called_failure", GroundingCalledFailure.String())
	assert.Equal(t, "called_success", GroundingCalledSuccess.String())
	assert.Equal(t, "unknown", GroundingState(42).String())
}
