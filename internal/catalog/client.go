package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pders01/flick/internal/config"
)

const defaultTimeout = 30 * time.Second

// Client talks to the movie catalog API (TMDB v3).
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient builds a client from the catalog section of the config. A
// missing token is not an error: requests fail upstream with 401.
func NewClient(cfg config.CatalogConfig, logger zerolog.Logger) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		token:     cfg.APIToken,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.With().Str("component", "catalog").Logger(),
	}

	if c.token == "" {
		c.logger.Warn().Err(ErrMissingToken).Msg("catalog requests will be rejected")
	}

	return c
}

// Discover lists popular movies.
func (c *Client) Discover(ctx context.Context) (*Page, error) {
	return c.list(ctx, "/discover/movie?sort_by=popularity.desc")
}

// Search lists movies matching term. The term is sent as typed.
func (c *Client) Search(ctx context.Context, term string) (*Page, error) {
	return c.list(ctx, "/search/movie?query="+encodeQuery(term))
}

// TotalMovies returns the size of the discover listing.
func (c *Client) TotalMovies(ctx context.Context) (int, error) {
	page, err := c.Discover(ctx)
	if err != nil {
		return 0, err
	}
	return page.TotalResults, nil
}

func (c *Client) list(ctx context.Context, endpoint string) (*Page, error) {
	body, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Response.failed() {
		msg := resp.Error
		if msg == "" {
			msg = DefaultFailureMessage
		}
		return nil, &FailureError{Message: msg}
	}

	movies := resp.Results
	if movies == nil {
		movies = []Movie{}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("count", len(movies)).
		Int("total", resp.TotalResults).
		Msg("catalog listing fetched")

	return &Page{
		Movies:       movies,
		Page:         resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
	}, nil
}

// doRequest performs an authenticated GET and returns the body of a 2xx
// response.
func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// encodeQuery percent-encodes a query value with spaces as %20.
func encodeQuery(term string) string {
	return strings.ReplaceAll(url.QueryEscape(term), "+", "%20")
}
