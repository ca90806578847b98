package jikan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultAPIURL = "https://api.jikan.moe/v4"

	// Rate limiting: Jikan allows 3 requests per second
	rateLimit = 3
	rateBurst = 3
)

// Client talks to the Jikan REST API with rate limiting and a bounded
// timeout. No retries: a transport failure is surfaced to the caller
// immediately.
type Client struct {
	apiURL      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a new Jikan API client. An empty apiURL falls back to
// the public endpoint.
func NewClient(apiURL string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiURL:      apiURL,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Search queries the catalog by title and returns at most limit hits.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]AnimeData, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/anime?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jikan request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("jikan returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode jikan response: %w", err)
	}

	return payload.Data, nil
}
