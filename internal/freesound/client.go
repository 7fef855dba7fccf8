// Package freesound is a minimal client for the Freesound.org APIv2
// text search and preview endpoints, using token authentication.
package freesound

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://freesound.org/apiv2"

	// searchFields pins the metadata returned per result to what the
	// scorer needs.
	searchFields = "id,name,tags,description,duration,previews,license,avg_rating,num_ratings,username,url"

	maxBodySize = 10 * 1024 * 1024
)

// Client talks to the Freesound APIv2. Requests are paced by a local
// rate limiter; Freesound throttles token clients to 60 per minute.
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	baseURL string
	apiKey  string
}

// New creates a client with the default base URL.
func New(apiKey string, logger *slog.Logger) *Client {
	return NewWithBaseURL(apiKey, logger, defaultBaseURL)
}

// NewWithBaseURL creates a client with a custom base URL (for testing).
func NewWithBaseURL(apiKey string, logger *slog.Logger, baseURL string) *Client {
	return &Client{
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(1, 1),
		logger:  logger.With(slog.String("component", "freesound")),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// SearchText runs a text search with an optional filter expression
// and returns one page of results in the service's rating-descending
// order. An empty result page is not an error.
func (c *Client) SearchText(ctx context.Context, query, filter string, pageSize int) ([]Sound, error) {
	if c.apiKey == "" {
		return nil, &ErrAuthRequired{}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ErrUnavailable{Cause: fmt.Errorf("rate limiter: %w", err)}
	}

	params := url.Values{
		"query":     {query},
		"fields":    {searchFields},
		"page_size": {strconv.Itoa(pageSize)},
		"sort":      {"rating_desc"},
	}
	if filter != "" {
		params.Set("filter", filter)
	}

	body, err := c.get(ctx, c.baseURL+"/search/text/?"+params.Encode(), true)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	c.logger.Debug("text search completed",
		slog.String("query", query),
		slog.String("filter", filter),
		slog.Int("total", resp.Count),
		slog.Int("results", len(resp.Results)))

	return resp.Results, nil
}

// FetchPreview downloads the sound's preview mp3, preferring the HQ
// rendition. Returns ErrNoPreview when the sound has none.
func (c *Client) FetchPreview(ctx context.Context, s Sound) ([]byte, error) {
	previewURL := s.PreviewURL()
	if previewURL == "" {
		return nil, &ErrNoPreview{ID: s.ID}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ErrUnavailable{Cause: fmt.Errorf("rate limiter: %w", err)}
	}
	return c.get(ctx, previewURL, false)
}

// get executes a GET request and returns the body. Search requests
// carry the token header; preview CDN downloads do not need it.
func (c *Client) get(ctx context.Context, reqURL string, authed bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	if authed {
		req.Header.Set("Authorization", "Token "+c.apiKey)
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ErrUnavailable{Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &ErrAuthRequired{}
	case http.StatusNotFound:
		return nil, &ErrNotFound{URL: reqURL}
	case http.StatusTooManyRequests:
		return nil, &ErrUnavailable{Cause: fmt.Errorf("rate limited by server")}
	default:
		return nil, &ErrUnavailable{Cause: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}
