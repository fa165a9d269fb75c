// Package fxrates converts record amounts to USD using historical daily
// exchange rates.
package fxrates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// USD is the reporting currency.
	USD = "USD"

	defaultTimeout = 10 * time.Second
	maxBodySize    = 1 << 16 // 64 KB
)

var (
	// ErrRateUnavailable indicates the service has no rate for the pair.
	ErrRateUnavailable = errors.New("fxrates: rate unavailable")
	// ErrRateLimited indicates the service rate limit was hit.
	ErrRateLimited = errors.New("fxrates: rate limited")
	// ErrBadResponse indicates a 200 response without a USD rate.
	ErrBadResponse = errors.New("fxrates: malformed response")
)

// Client fetches historical rates from a frankfurter-style service.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a client for the service at baseURL.
// A non-positive timeout selects the default of 10s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
}

// FetchRate returns the USD value of one unit of currency on date.
// USD returns 1 without a request.
func (c *Client) FetchRate(ctx context.Context, date, currency string) (float64, error) {
	if currency == USD {
		return 1, nil
	}

	q := url.Values{}
	q.Set("base", currency)
	q.Set("symbols", USD)
	body, err := c.get(ctx, "/"+url.PathEscape(date)+"?"+q.Encode())
	if err != nil {
		return 0, err
	}

	var resp RateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	rate, ok := resp.Rates[USD]
	if !ok {
		return 0, ErrBadResponse
	}
	return rate, nil
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("fxrates: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "github.com/theirongolddev/fundburn/1.0")

	resp, err := c.http.Do(req) //nolint:gosec // URL is built from the configured base URL
	if err != nil {
		return nil, fmt.Errorf("fxrates: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrRateUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("fxrates: reading response: %w", err)
	}
	return body, nil
}
