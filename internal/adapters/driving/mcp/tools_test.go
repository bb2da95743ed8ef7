package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

func TestServer_handleRecommend(t *testing.T) {
	ctx := context.Background()
	input := RecommendInput{
		TimeAvailable: "2 hours",
		PollAnswers: []PollAnswerInput{
			{FavoriteMovie: "Inception", FavoritePerson: "Cobb", Freshness: []string{"new"}, Mood: []string{"funny"}},
		},
		UsedRecommendations: []string{"Up"},
	}

	t.Run("returns recommendation", func(t *testing.T) {
		poster := "data:image/jpeg;base64,AAAA"
		mock := &mockRecommendationService{result: domain.Ok(domain.Recommendation{
			Title:       "Paddington 2",
			Description: "Warm and funny.",
			ReleaseYear: "2017",
			Poster:      &poster,
		})}
		server, err := NewServer(&Ports{Recommendation: mock})
		require.NoError(t, err)

		_, output, err := server.handleRecommend(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "Paddington 2", output.Title)
		assert.Equal(t, "2017", output.ReleaseYear)
		assert.True(t, output.HasPoster)
		assert.Equal(t, poster, output.Poster)

		assert.Equal(t, "2 hours", mock.got.TimeAvailable)
		require.Len(t, mock.got.PollAnswers, 1)
		assert.Equal(t, "Cobb", mock.got.PollAnswers[0].FavoritePerson)
		assert.Equal(t, []string{"funny"}, mock.got.PollAnswers[0].Mood)
		assert.Equal(t, []string{"Up"}, mock.got.UsedRecommendations)
	})

	t.Run("null poster", func(t *testing.T) {
		mock := &mockRecommendationService{result: domain.Ok(domain.Recommendation{Title: "Up"})}
		server, err := NewServer(&Ports{Recommendation: mock})
		require.NoError(t, err)

		_, output, err := server.handleRecommend(ctx, nil, input)

		require.NoError(t, err)
		assert.False(t, output.HasPoster)
		assert.Empty(t, output.Poster)
	})

	t.Run("failed result is a tool error", func(t *testing.T) {
		mock := &mockRecommendationService{result: domain.Err(domain.ErrorKindNoCandidates, domain.MessageNoMovies)}
		server, err := NewServer(&Ports{Recommendation: mock})
		require.NoError(t, err)

		_, _, err = server.handleRecommend(ctx, nil, input)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no_candidates")
		assert.Contains(t, err.Error(), domain.MessageNoMovies)
	})
}
