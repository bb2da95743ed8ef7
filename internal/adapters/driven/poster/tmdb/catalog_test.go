package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

func newTestCatalog(t *testing.T, handler http.HandlerFunc, settings *gobreaker.Settings) *Catalog {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewCatalog(Config{
		APIKey:            "key",
		Token:             "token",
		BaseURL:           srv.URL,
		ImageBaseURL:      srv.URL + "/img",
		RequestsPerSecond: 1000,
		BreakerSettings:   settings,
	})
	require.NoError(t, err)
	return c
}

func TestNewCatalog_RequiresCredentials(t *testing.T) {
	_, err := NewCatalog(Config{})
	assert.ErrorIs(t, err, domain.ErrPosterCatalogUnavailable)

	c, err := NewCatalog(Config{Token: "t"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultImageBaseURL, c.imageBaseURL)
}

func TestSearchByTitle(t *testing.T) {
	var query map[string]string
	c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		query = map[string]string{
			"api_key": r.URL.Query().Get("api_key"),
			"query":   r.URL.Query().Get("query"),
			"year":    r.URL.Query().Get("year"),
		}
		_, _ = w.Write([]byte(`{"results":[
			{"title":"Heat","poster_path":"/heat.jpg","release_date":"1995-12-15"},
			{"title":"Heat Wave","poster_path":null}
		]}`))
	}, nil)

	movies, err := c.SearchByTitle(context.Background(), "Heat", "1995")

	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "Heat", movies[0].Title)
	require.NotNil(t, movies[0].PosterPath)
	assert.Equal(t, "/heat.jpg", *movies[0].PosterPath)
	assert.Equal(t, "1995-12-15", movies[0].ReleaseDate)
	assert.Nil(t, movies[1].PosterPath)
	assert.Equal(t, map[string]string{"api_key": "key", "query": "Heat", "year": "1995"}, query)
}

func TestSearchByTitle_DropsNullYear(t *testing.T) {
	for _, year := range []string{"", "null"} {
		t.Run("year="+year, func(t *testing.T) {
			var hasYear bool
			c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				hasYear = r.URL.Query().Has("year")
				_, _ = w.Write([]byte(`{"results":[]}`))
			}, nil)

			movies, err := c.SearchByTitle(context.Background(), "Up", year)

			require.NoError(t, err)
			assert.Empty(t, movies)
			assert.False(t, hasYear)
		})
	}
}

func TestSearchByTitle_Errors(t *testing.T) {
	c := newTestCatalog(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, nil)

	_, err := c.SearchByTitle(context.Background(), "Up", "")
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	c = newTestCatalog(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}, nil)

	_, err = c.SearchByTitle(context.Background(), "Up", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestFetchImage(t *testing.T) {
	c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/img/heat.jpg", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	}, nil)

	data, err := c.FetchImage(context.Background(), "/heat.jpg")

	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xE0}, data)

	_, err = c.FetchImage(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFetchImage_RejectsOversizedBody(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "at limit", size: maxImageBytes},
		{name: "over limit", size: maxImageBytes + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCatalog(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write(make([]byte, tt.size))
			}, nil)

			data, err := c.FetchImage(context.Background(), "/big.jpg")

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, data)
				assert.Contains(t, err.Error(), "exceeds")
				return
			}
			require.NoError(t, err)
			assert.Len(t, data, tt.size)
		})
	}
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	var calls int32
	settings := &gobreaker.Settings{
		Name:    "tmdb-test",
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
	}
	c := newTestCatalog(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}, settings)

	for i := 0; i < 2; i++ {
		_, err := c.FetchImage(context.Background(), "/x.jpg")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrPosterCatalogUnavailable)
	}

	_, err := c.FetchImage(context.Background(), "/x.jpg")

	assert.ErrorIs(t, err, domain.ErrPosterCatalogUnavailable)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
