// Package tmdb provides a PosterCatalog backed by The Movie Database API.
//
// Requests are paced by a token bucket and guarded by a circuit breaker. While
// the breaker is open every call fails fast and callers get no poster.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
	"github.com/custodia-labs/cinepick/internal/logger"
)

// Ensure Catalog implements the interface.
var _ driven.PosterCatalog = (*Catalog)(nil)

// Default configuration values.
const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
	DefaultTimeout      = 10 * time.Second
	DefaultRateLimit    = 4.0
	DefaultBurst        = 4

	// maxImageBytes bounds poster downloads.
	maxImageBytes = 5 << 20
)

// Config holds configuration for the TMDB catalog.
type Config struct {
	// APIKey is sent as the api_key query parameter.
	APIKey string

	// Token is sent as a Bearer token.
	Token string

	// BaseURL is the API base URL (default: https://api.themoviedb.org/3).
	BaseURL string

	// ImageBaseURL is prefixed to poster paths (default: w500 image CDN).
	ImageBaseURL string

	// RequestsPerSecond paces outgoing requests (default: 4).
	RequestsPerSecond float64

	// Timeout is the per-request timeout (default: 10s).
	Timeout time.Duration

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client

	// BreakerSettings overrides the circuit breaker settings, mainly for tests.
	BreakerSettings *gobreaker.Settings
}

// Catalog searches TMDB and downloads poster images.
type Catalog struct {
	client       *http.Client
	baseURL      string
	imageBaseURL string
	apiKey       string
	token        string
	limiter      *rate.Limiter
	cb           *gobreaker.CircuitBreaker[[]byte]
}

type searchResponse struct {
	Results []struct {
		Title       string  `json:"title"`
		PosterPath  *string `json:"poster_path"`
		ReleaseDate string  `json:"release_date"`
	} `json:"results"`
}

// NewCatalog creates a TMDB catalog.
func NewCatalog(cfg Config) (*Catalog, error) {
	if cfg.APIKey == "" && cfg.Token == "" {
		return nil, fmt.Errorf("tmdb: API key or token is required: %w", domain.ErrPosterCatalogUnavailable)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultImageBaseURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRateLimit
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	settings := defaultBreakerSettings()
	if cfg.BreakerSettings != nil {
		settings = *cfg.BreakerSettings
	}

	return &Catalog{
		client:       client,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		apiKey:       cfg.APIKey,
		token:        cfg.Token,
		limiter:      rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), DefaultBurst),
		cb:           gobreaker.NewCircuitBreaker[[]byte](settings),
	}, nil
}

// defaultBreakerSettings opens the circuit after five consecutive failures
// and probes again after thirty seconds.
func defaultBreakerSettings() gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker %s: %s -> %s", name, from, to)
		},
	}
}

// SearchByTitle queries /search/movie. The year narrows the search unless it
// is empty or the literal "null" a generator emits for unknown years.
func (c *Catalog) SearchByTitle(ctx context.Context, title, year string) ([]driven.CatalogMovie, error) {
	params := url.Values{}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	params.Set("query", title)
	if year != "" && year != "null" {
		params.Set("year", year)
	}

	body, err := c.get(ctx, c.baseURL+"/search/movie?"+params.Encode(), true)
	if err != nil {
		return nil, fmt.Errorf("tmdb search %q: %w", title, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("tmdb search %q: decode response: %w", title, err)
	}

	movies := make([]driven.CatalogMovie, 0, len(resp.Results))
	for _, r := range resp.Results {
		movies = append(movies, driven.CatalogMovie{
			Title:       r.Title,
			PosterPath:  r.PosterPath,
			ReleaseDate: r.ReleaseDate,
		})
	}
	return movies, nil
}

// FetchImage downloads the poster at ImageBaseURL + posterPath.
func (c *Catalog) FetchImage(ctx context.Context, posterPath string) ([]byte, error) {
	if posterPath == "" {
		return nil, fmt.Errorf("tmdb: %w: empty poster path", domain.ErrInvalidInput)
	}
	if !strings.HasPrefix(posterPath, "/") {
		posterPath = "/" + posterPath
	}

	data, err := c.get(ctx, c.imageBaseURL+posterPath, false)
	if err != nil {
		return nil, fmt.Errorf("tmdb image %s: %w", posterPath, err)
	}
	return data, nil
}

// get performs a paced GET through the circuit breaker.
func (c *Catalog) get(ctx context.Context, target string, authorize bool) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.do(ctx, target, authorize)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", domain.ErrPosterCatalogUnavailable, err)
		}
		return nil, err
	}
	return body, nil
}

func (c *Catalog) do(ctx context.Context, target string, authorize bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if authorize {
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	case len(body) > maxImageBytes:
		return nil, fmt.Errorf("response exceeds %d bytes", maxImageBytes)
	}
	return body, nil
}
