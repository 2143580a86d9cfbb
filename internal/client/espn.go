package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"ncaab_factors/ingestion/internal/metrics"
	"ncaab_factors/ingestion/internal/models"
)

// PayloadCache is an optional store for raw upstream responses keyed by URL.
// A nil cache disables caching entirely.
type PayloadCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Client is the ESPN site API client. The upstream API is unofficial,
// undocumented and rate-limit-sensitive, so requests run strictly
// sequentially: each call is followed by a fixed delay, and failures are
// retried with bounded exponential backoff.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	requestDelay time.Duration
	maxRetries   int
	retryDelay   time.Duration
	cache        PayloadCache
	cacheTTL     time.Duration
}

// Option configures optional client behavior
type Option func(*Client)

// WithCache attaches a raw-payload cache
func WithCache(cache PayloadCache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// NewClient creates a new ESPN API client
func NewClient(baseURL string, timeout, requestDelay, retryDelay time.Duration, maxRetries int, opts ...Option) *Client {
	c := &Client{
		baseURL:      baseURL,
		requestDelay: requestDelay,
		maxRetries:   maxRetries,
		retryDelay:   retryDelay,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a GET request with retry logic, request pacing and optional caching
func (c *Client) get(ctx context.Context, endpoint, url string) ([]byte, error) {
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, url); err == nil && cached != "" {
			metrics.RecordCacheHit()
			log.Debug().Str("url", url).Msg("Payload served from cache")
			return []byte(cached), nil
		}
		metrics.RecordCacheMiss()
	}

	start := time.Now()
	body, err := c.getWithRetry(ctx, url)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordAPICall(endpoint, status, time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, url, string(body), c.cacheTTL); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("Failed to cache payload")
		}
	}

	// Fixed inter-request spacing to avoid overwhelming the upstream source
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.requestDelay):
	}

	return body, nil
}

func (c *Client) getWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: base, 2x, 4x, ...
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying API request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "ncaab-factors/1.0")

		log.Debug().
			Str("url", url).
			Int("attempt", attempt+1).
			Msg("Making API request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("API request failed: %w", err)
			if attempt < c.maxRetries {
				continue
			}
			return nil, lastErr
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			if attempt < c.maxRetries {
				continue
			}
			return nil, lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			log.Debug().
				Str("url", url).
				Int("status", resp.StatusCode).
				Int("size", len(body)).
				Msg("API request successful")
			return body, nil

		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			lastErr = fmt.Errorf("API returned retryable status %d", resp.StatusCode)
			if attempt < c.maxRetries {
				log.Warn().
					Str("url", url).
					Int("status", resp.StatusCode).
					Int("attempt", attempt+1).
					Msg("Received retryable error, will retry")
				continue
			}
			return nil, lastErr

		default:
			// Other errors - don't retry
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(body, 200))
		}
	}

	return nil, lastErr
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}

// FetchConferences fetches the conference group list for a gender/season
func (c *Client) FetchConferences(ctx context.Context, gender models.Gender, season int) (map[string]interface{}, error) {
	url := fmt.Sprintf("%s/%s/groups?season=%d", c.baseURL, gender.SportPath(), season)
	body, err := c.get(ctx, "groups", url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conferences: %w", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conferences: %w", err)
	}

	return payload, nil
}

// FetchConferenceTeams fetches the member teams of one conference group
func (c *Client) FetchConferenceTeams(ctx context.Context, gender models.Gender, groupID string, season int) (map[string]interface{}, error) {
	url := fmt.Sprintf("%s/%s/teams?groups=%s&season=%d&limit=500", c.baseURL, gender.SportPath(), groupID, season)
	body, err := c.get(ctx, "teams", url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch teams for group %s: %w", groupID, err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal teams for group %s: %w", groupID, err)
	}

	return payload, nil
}

// FetchTeamSchedule fetches a team's season schedule with completion flags
func (c *Client) FetchTeamSchedule(ctx context.Context, gender models.Gender, teamID string, season int) (map[string]interface{}, error) {
	url := fmt.Sprintf("%s/%s/teams/%s/schedule?season=%d", c.baseURL, gender.SportPath(), teamID, season)
	body, err := c.get(ctx, "schedule", url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for team %s: %w", teamID, err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule for team %s: %w", teamID, err)
	}

	return payload, nil
}

// FetchGameSummary fetches one game's box score and competition context
func (c *Client) FetchGameSummary(ctx context.Context, gender models.Gender, eventID string) (map[string]interface{}, error) {
	url := fmt.Sprintf("%s/%s/summary?event=%s", c.baseURL, gender.SportPath(), eventID)
	body, err := c.get(ctx, "summary", url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch summary for game %s: %w", eventID, err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary for game %s: %w", eventID, err)
	}

	return payload, nil
}
