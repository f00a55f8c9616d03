// Package graphql is the mediation layer between the SDK facade and the
// simulator's GraphQL backend. It executes named query and mutation
// operations with the configured authorization attached, maintains the
// client-side query cache, and routes every failure through the error
// transformer exactly once.
package graphql

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	genqlient "github.com/Khan/genqlient/graphql"

	"github.com/cardsim/sdk-go/errors"
)

// TokenProvider supplies the bearer token for user-pool authorized requests.
type TokenProvider interface {
	LatestAuthToken(ctx context.Context) (string, error)
}

// Authorizer attaches authentication to an outgoing simulator request.
type Authorizer interface {
	Authorize(req *http.Request) error
}

// apiKeyAuthorizer authenticates requests with a static API key header.
type apiKeyAuthorizer struct {
	apiKey string
}

// NewAPIKeyAuthorizer returns an Authorizer that sets the x-api-key header.
func NewAPIKeyAuthorizer(apiKey string) Authorizer {
	return &apiKeyAuthorizer{apiKey: apiKey}
}

func (a *apiKeyAuthorizer) Authorize(req *http.Request) error {
	req.Header.Set("x-api-key", a.apiKey)
	return nil
}

// tokenAuthorizer authenticates requests with a bearer token obtained from
// the token provider on every request.
type tokenAuthorizer struct {
	provider TokenProvider
}

// NewTokenAuthorizer returns an Authorizer that attaches a bearer token from
// the given provider.
func NewTokenAuthorizer(provider TokenProvider) Authorizer {
	return &tokenAuthorizer{provider: provider}
}

func (a *tokenAuthorizer) Authorize(req *http.Request) error {
	token, err := a.provider.LatestAuthToken(req.Context())
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// authDoer wraps the transport Doer and authorizes each request before it
// leaves the process.
type authDoer struct {
	inner      genqlient.Doer
	authorizer Authorizer
}

func (d *authDoer) Do(req *http.Request) (*http.Response, error) {
	if err := d.authorizer.Authorize(req); err != nil {
		return nil, err
	}
	return d.inner.Do(req)
}

// Request describes one named GraphQL operation: its operation name, the
// fixed document, and the variables map. Names and documents must match the
// backend schema exactly.
type Request struct {
	OpName    string
	Query     string
	Variables interface{}
}

// CachePolicy controls how queries use the client-side cache.
type CachePolicy int

const (
	// CachePolicyRemoteOnly always executes queries against the backend.
	// Results still populate the cache.
	CachePolicyRemoteOnly CachePolicy = iota

	// CachePolicyCacheFirst serves queries from the cache when a previous
	// result for the same operation and variables exists.
	CachePolicyCacheFirst
)

// Client executes GraphQL operations against the simulator backend.
type Client struct {
	inner   genqlient.Client
	cache   *queryCache
	pending *pendingRequests
	policy  CachePolicy
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithCachePolicy sets the query cache policy (default: remote only).
func WithCachePolicy(policy CachePolicy) ClientOption {
	return func(c *Client) {
		c.policy = policy
	}
}

// WithLogger sets the logger for operation dispatch.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a GraphQL client for the given endpoint. Every request
// passes through the authorizer before the doer executes it.
func NewClient(endpoint string, doer genqlient.Doer, authorizer Authorizer, opts ...ClientOption) *Client {
	client := &Client{
		inner:   genqlient.NewClient(endpoint, &authDoer{inner: doer, authorizer: authorizer}),
		cache:   newQueryCache(),
		pending: newPendingRequests(),
		policy:  CachePolicyRemoteOnly,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Query executes a named query operation and unmarshals the response data
// into out. Failures are normalized through the error transformer; the
// optional transformers add operation-specific error translations.
func (c *Client) Query(ctx context.Context, req Request, out interface{}, transformers ...errors.ServiceErrorTransformer) error {
	key := c.cache.key(req.OpName, req.Variables)
	if c.policy == CachePolicyCacheFirst {
		if cached, ok := c.cache.get(key); ok {
			c.logger.DebugContext(ctx, "query served from cache", "operation", req.OpName)
			if err := json.Unmarshal(cached, out); err == nil {
				return nil
			}
			// Fall through to a remote fetch on a cache decode failure.
		}
	}

	if err := c.execute(ctx, req, out); err != nil {
		return errors.Transform(err, transformers...)
	}

	if data, err := json.Marshal(out); err == nil {
		c.cache.set(key, data)
	}
	return nil
}

// Mutate executes a named mutation operation and unmarshals the response
// data into out. Mutations never touch the cache.
func (c *Client) Mutate(ctx context.Context, req Request, out interface{}, transformers ...errors.ServiceErrorTransformer) error {
	if err := c.execute(ctx, req, out); err != nil {
		return errors.Transform(err, transformers...)
	}
	return nil
}

// Reset cancels the simulator requests still in flight and clears all cached
// query results.
func (c *Client) Reset(ctx context.Context) error {
	cancelled := c.pending.cancelAll()
	c.cache.clear()
	c.logger.DebugContext(ctx, "client reset", "cancelledRequests", cancelled)
	return nil
}

// execute dispatches one operation through the transport, tracking it for
// cancellation by Reset.
func (c *Client) execute(ctx context.Context, req Request, out interface{}) error {
	ctx, cancel := context.WithCancel(ctx)
	id := c.pending.add(cancel)
	defer func() {
		c.pending.remove(id)
		cancel()
	}()

	c.logger.DebugContext(ctx, "executing operation", "operation", req.OpName)
	resp := &genqlient.Response{Data: out}
	return c.inner.MakeRequest(ctx, &genqlient.Request{
		OpName:    req.OpName,
		Query:     req.Query,
		Variables: req.Variables,
	}, resp)
}
