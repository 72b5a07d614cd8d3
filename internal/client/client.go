package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"nba_dashboard/backend/internal/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// stats.nba.com rejects requests that don't look like they come from nba.com
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"Accept":          "application/json",
	"Accept-Language": "en-US,en;q=0.9",
	"Referer":         "https://www.nba.com/",
	"Origin":          "https://www.nba.com",
}

// Config holds client settings
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RateLimit  float64 // requests per second
	BurstLimit int
	Location   *time.Location // calendar used for scoreboard dates
}

// Client is the stats.nba.com API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	location   *time.Location
}

// NewClient creates a new stats.nba.com API client
func NewClient(cfg Config) *Client {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 1
	}
	if cfg.BurstLimit <= 0 {
		cfg.BurstLimit = 1
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.BurstLimit),
		maxRetries: cfg.MaxRetries,
		retryDelay: 1 * time.Second,
		location:   cfg.Location,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a GET request with retry logic and rate limiting
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("endpoint", endpoint).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying API request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		body, status, err := c.do(ctx, endpoint, reqURL)
		if err != nil {
			lastErr = err
			metrics.RecordAPICall(endpoint, "network_error", 0)
			continue
		}

		switch {
		case status == http.StatusOK:
			log.Debug().
				Str("endpoint", endpoint).
				Int("size", len(body)).
				Msg("API request successful")
			return body, nil

		case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
			lastErr = fmt.Errorf("API returned retryable status %d: %s", status, truncate(body))
			log.Warn().
				Str("endpoint", endpoint).
				Int("status", status).
				Int("attempt", attempt+1).
				Msg("Received retryable error")

		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return nil, fmt.Errorf("API rejected request (status %d): %s", status, truncate(body))

		default:
			return nil, fmt.Errorf("API returned status %d: %s", status, truncate(body))
		}
	}

	return nil, lastErr
}

func (c *Client) do(ctx context.Context, endpoint, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	metrics.RecordAPICall(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp.StatusCode, nil
}

func truncate(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

// resultSet is the tabular payload every stats.nba.com endpoint returns
type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

type statsResponse struct {
	ResultSets []resultSet `json:"resultSets"`
}

// find returns the named result set, falling back to position
func (r *statsResponse) find(name string, index int) (*resultSet, error) {
	for i := range r.ResultSets {
		if r.ResultSets[i].Name == name {
			return &r.ResultSets[i], nil
		}
	}
	if index < len(r.ResultSets) {
		return &r.ResultSets[index], nil
	}
	return nil, fmt.Errorf("result set %q not found", name)
}

func parseResponse(body []byte) (*statsResponse, error) {
	var resp statsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &resp, nil
}

// decodeRows zips headers with each row and decodes the record into T via its json tags
func decodeRows[T any](rs *resultSet) ([]T, error) {
	out := make([]T, 0, len(rs.RowSet))
	for i, row := range rs.RowSet {
		if len(row) != len(rs.Headers) {
			return nil, fmt.Errorf("%s row %d has %d columns, expected %d", rs.Name, i, len(row), len(rs.Headers))
		}

		record := make(map[string]any, len(row))
		for j, header := range rs.Headers {
			record[header] = row[j]
		}

		raw, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s row %d: %w", rs.Name, i, err)
		}

		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s row %d: %w", rs.Name, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
