// Package ratefeed reads the market silver rate from an HTTP endpoint.
package ratefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/application/rate"
	"github.com/silverledger/backend/internal/infrastructure/config"
)

// maxResponseSize bounds the body read from the feed (64KB)
const maxResponseSize = 64 * 1024

var (
	// ErrFeedUnavailable indicates the feed could not be reached
	ErrFeedUnavailable = errors.New("ratefeed: feed unavailable")
	// ErrFeedRequestFailed indicates the feed answered with an error status
	ErrFeedRequestFailed = errors.New("ratefeed: request failed")
	// ErrInvalidPayload indicates the feed body carried no usable rate
	ErrInvalidPayload = errors.New("ratefeed: invalid payload")
)

// payload is the feed body. The rate may be a JSON number or string.
type payload struct {
	Rate *decimal.Decimal `json:"rate"`
}

// Client fetches the rate per kg with a GET on the configured URL
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a Client from the rate feed configuration
func NewClient(cfg config.RateFeedConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("ratefeed: url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Fetch implements rate.Feed
func (c *Client) Fetch(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ratefeed: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return decimal.Zero, fmt.Errorf("ratefeed: failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return decimal.Zero, fmt.Errorf("%w: HTTP %d", ErrFeedRequestFailed, resp.StatusCode)
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.Rate == nil {
		return decimal.Zero, fmt.Errorf("%w: missing rate", ErrInvalidPayload)
	}
	return *p.Rate, nil
}

var _ rate.Feed = (*Client)(nil)
