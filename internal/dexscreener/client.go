// Package dexscreener fetches trading pairs for Solana tokens from the public
// Dexscreener API. No API key is required.
package dexscreener

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"solana-token-risk/internal/domain"
	"solana-token-risk/internal/observability"
)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.dexscreener.com"
	DefaultChain      = "solana"
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 0
	DefaultRetryDelay = 1 * time.Second
	DefaultMaxDelay   = 10 * time.Second
)

// Client reads token pairs from the Dexscreener REST API.
type Client struct {
	baseURL    string
	chain      string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	maxDelay   time.Duration
	httpClient *http.Client
	logger     *log.Logger

	rest *resty.Client
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithChain overrides the chain identifier.
func WithChain(chain string) ClientOption {
	return func(c *Client) {
		c.chain = chain
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMaxRetries sets retry attempts for transport errors, 429 and 5xx.
// Zero disables retries.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets the initial and maximum retry wait.
func WithRetryDelay(initial, max time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = initial
		c.maxDelay = max
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets the logger used for dropped pool entries.
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Dexscreener client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		chain:      DefaultChain,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		maxDelay:   DefaultMaxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}

	if c.httpClient != nil {
		c.rest = resty.NewWithClient(c.httpClient)
	} else {
		c.rest = resty.New()
	}
	c.rest.
		SetLogger(restyLogger{c.logger}).
		SetTimeout(c.timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(c.maxRetries).
		SetRetryWaitTime(c.retryDelay).
		SetRetryMaxWaitTime(c.maxDelay).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})

	return c
}

// PoolsURL returns the endpoint listing pools for tokenAddress.
func (c *Client) PoolsURL(tokenAddress string) string {
	return fmt.Sprintf("%s/tokens/v1/%s/%s", c.baseURL, c.chain, url.PathEscape(tokenAddress))
}

// FetchPools returns every pool the API lists for tokenAddress. Each call is
// a fresh request. All failures are returned as *DataSourceError.
//
// Array entries that are null or do not decode as a pool object are dropped
// and logged.
func (c *Client) FetchPools(ctx context.Context, tokenAddress string) ([]domain.Pool, error) {
	if strings.TrimSpace(tokenAddress) == "" {
		return nil, &DataSourceError{Reason: ReasonInvalidAddress, Err: errors.New("empty token address")}
	}

	u := c.PoolsURL(tokenAddress)
	start := time.Now()

	resp, err := c.rest.R().SetContext(ctx).Get(u)
	if err != nil {
		observability.RecordFetch("error", time.Since(start).Seconds())
		return nil, &DataSourceError{Reason: ReasonRequestFailed, URL: u, Err: err}
	}
	observability.RecordFetch(fmt.Sprintf("%d", resp.StatusCode()), time.Since(start).Seconds())

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return nil, &DataSourceError{
			Reason:     ReasonUnexpectedStatus,
			URL:        u,
			StatusCode: resp.StatusCode(),
			Body:       excerpt(body),
		}
	}

	return c.decodePools(u, tokenAddress, body)
}

// decodePools parses a JSON array body into pools.
func (c *Client) decodePools(u, tokenAddress string, body []byte) ([]domain.Pool, error) {
	if !json.Valid(body) {
		return nil, &DataSourceError{Reason: ReasonInvalidJSON, URL: u, Body: excerpt(body)}
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &DataSourceError{Reason: ReasonUnexpectedShape, URL: u, Body: excerpt(body)}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, &DataSourceError{Reason: ReasonUnexpectedShape, URL: u, Err: err}
	}

	pools := make([]domain.Pool, 0, len(items))
	for i, item := range items {
		if bytes.Equal(bytes.TrimSpace(item), []byte("null")) {
			c.logger.Printf("Warning: dropping null pool %d for token %s", i, tokenAddress)
			continue
		}
		var p domain.Pool
		if err := json.Unmarshal(item, &p); err != nil {
			c.logger.Printf("Warning: dropping pool %d for token %s: %v", i, tokenAddress, err)
			continue
		}
		pools = append(pools, p)
	}
	return pools, nil
}

// restyLogger routes resty diagnostics to the client logger.
type restyLogger struct {
	logger *log.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Printf("Error: dexscreener transport: "+format, v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Printf("Warning: dexscreener transport: "+format, v...)
}

func (l restyLogger) Debugf(string, ...interface{}) {}
