// Package net provides the HTTP transport used for simulator and identity
// requests, with configurable timeout, opt-in retry with exponential backoff,
// and a circuit breaker to stop hammering a backend that is down.
//
// The Client satisfies the Doer contract of the GraphQL layer. Retries are
// disabled by default: the SDK performs no automatic retries on behalf of the
// caller, and enabling them is an explicit transport decision.
//
// Example usage:
//
//	client := net.NewClient(
//	    net.WithTimeout(20*time.Second),
//	    net.WithMaxRetries(2),
//	    net.WithRetryBackoff(2*time.Second),
//	)
package net

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cardsim/sdk-go/errors"
)

// Default configuration values
const (
	defaultTimeout      = 30 * time.Second
	defaultMaxRetries   = 0
	defaultBackoff      = 1 * time.Second
	defaultFailureLimit = 5
	defaultResetTimeout = 60 * time.Second
)

// Client is an HTTP client with timeout, retry, and circuit breaker
// capabilities.
type Client struct {
	httpClient     *http.Client
	maxRetries     int
	retryBackoff   time.Duration
	circuitBreaker *circuitBreaker
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout (default: 30s).
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithMaxRetries sets the maximum number of retry attempts for network and
// server (5xx) failures (default: 0, no retries).
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryBackoff sets the base duration for exponential backoff (default: 1s).
func WithRetryBackoff(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryBackoff = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new HTTP client with the given options.
func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		maxRetries:   defaultMaxRetries,
		retryBackoff: defaultBackoff,
		circuitBreaker: &circuitBreaker{
			failureLimit: defaultFailureLimit,
			resetTimeout: defaultResetTimeout,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes the HTTP request with retry logic and the circuit breaker.
// Network failures and retry exhaustion surface as RequestFailed errors;
// responses with any status code are returned to the caller for
// interpretation.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if !c.circuitBreaker.allowRequest() {
		return nil, errors.NewRequestFailed(0, "circuit breaker is open", nil)
	}

	// Buffer the request body so it can be replayed on retries.
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, errors.NewRequestFailed(0, "failed to read request body", err)
		}
		req.Body.Close()
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		select {
		case <-req.Context().Done():
			return nil, errors.NewRequestFailed(0, "request cancelled", req.Context().Err())
		default:
		}

		// Reset body for each attempt.
		if bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			req.ContentLength = int64(len(bodyBytes))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries {
				c.backoff(attempt)
				continue
			}
			c.circuitBreaker.recordFailure()
			return nil, errors.NewRequestFailed(0, fmt.Sprintf("request failed after %d attempts", attempt+1), err)
		}

		if resp.StatusCode >= 500 && attempt < c.maxRetries {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d %s", resp.StatusCode, resp.Status)
			c.backoff(attempt)
			continue
		}

		if resp.StatusCode >= 500 {
			c.circuitBreaker.recordFailure()
		} else {
			c.circuitBreaker.recordSuccess()
		}
		return resp, nil
	}

	return nil, errors.NewRequestFailed(0, "unexpected retry exhaustion", lastErr)
}

// Post performs an HTTP POST, defaulting the Content-Type to JSON when the
// caller has not set one.
func (c *Client) Post(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.Do(req)
}

// backoff sleeps for retryBackoff * 2^attempt.
func (c *Client) backoff(attempt int) {
	duration := c.retryBackoff * (1 << uint(attempt))
	time.Sleep(duration)
}

// circuitBreaker implements a simple circuit breaker pattern.
type circuitBreaker struct {
	mu           sync.RWMutex
	failures     int
	lastFailTime time.Time
	failureLimit int
	resetTimeout time.Duration
	state        circuitState
}

type circuitState int

const (
	stateClosed circuitState = iota
	stateOpen
)

// allowRequest checks if the circuit breaker allows the request to proceed.
func (cb *circuitBreaker) allowRequest() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	if cb.state == stateClosed {
		return true
	}

	// Allow a probe once the reset timeout has elapsed.
	return time.Since(cb.lastFailTime) > cb.resetTimeout
}

// recordSuccess records a successful request and closes the circuit.
func (cb *circuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.state = stateClosed
}

// recordFailure records a failed request and may open the circuit.
func (cb *circuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailTime = time.Now()

	if cb.failures >= cb.failureLimit {
		cb.state = stateOpen
	}
}
