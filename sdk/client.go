// Package sdk provides the client for the virtual cards simulator service.
// It simulates the card-network side of transaction processing: merchant
// authorizations, incremental authorizations, reversals, expiry, refunds and
// debits, plus lookups of the simulator's merchants and conversion rates.
//
// Construct a client from a Config:
//
//	cfg, err := config.Load("sudoplatformconfig.json")
//	...
//	client, err := sdk.New(cfg)
package sdk

import (
	"context"
	"log/slog"

	"github.com/cardsim/sdk-go"
	"github.com/cardsim/sdk-go/core/config"
	"github.com/cardsim/sdk-go/core/graphql"
	"github.com/cardsim/sdk-go/core/net"
	"github.com/cardsim/sdk-go/errors"
	"github.com/cardsim/sdk-go/identity"
	"github.com/cardsim/sdk-go/identity/userpools"
)

// Credentials are the user pool sign-in credentials. Required when the
// configuration selects user pool authentication, ignored otherwise.
type Credentials struct {
	Username string
	Password string
}

type options struct {
	credentials *Credentials
	logger      *slog.Logger
	httpClient  *net.Client
	cachePolicy graphql.CachePolicy
}

// Option configures a Client.
type Option func(*options)

// WithCredentials supplies the user pool sign-in credentials.
func WithCredentials(username, password string) Option {
	return func(o *options) {
		o.credentials = &Credentials{Username: username, Password: password}
	}
}

// WithLogger sets the logger used across the client. The default discards
// everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHTTPClient replaces the transport used for simulator and identity
// requests.
func WithHTTPClient(client *net.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithCachePolicy sets the query cache policy (default: remote only).
func WithCachePolicy(policy graphql.CachePolicy) Option {
	return func(o *options) {
		o.cachePolicy = policy
	}
}

// Client talks to the virtual cards simulator service. It is safe for
// concurrent use.
type Client struct {
	gql    *graphql.Client
	logger *slog.Logger
}

var _ cardsim.Client = (*Client)(nil)

// New creates a simulator client from the given configuration. The
// configuration is validated before anything else: an incomplete or
// contradictory Config is an InvalidConfig error, raised here and never at
// call time.
func New(cfg config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = net.NewClient()
	}

	var authorizer graphql.Authorizer
	switch cfg.AuthMode() {
	case config.AuthModeAPIKey:
		authorizer = graphql.NewAPIKeyAuthorizer(cfg.APIKey)
	case config.AuthModeUserPools:
		if o.credentials == nil {
			return nil, errors.New(errors.InvalidConfig, "user pool authentication requires credentials; use WithCredentials", nil)
		}
		authenticator := userpools.New(cfg.UserPoolID, cfg.ClientID, cfg.Region,
			userpools.WithHTTPClient(o.httpClient),
			userpools.WithLogger(o.logger))
		provider := identity.NewTokenProvider(authenticator, o.credentials.Username, o.credentials.Password, o.logger)
		authorizer = graphql.NewTokenAuthorizer(provider)
	}

	gql := graphql.NewClient(cfg.Endpoint, o.httpClient, authorizer,
		graphql.WithCachePolicy(o.cachePolicy),
		graphql.WithLogger(o.logger))

	return &Client{
		gql:    gql,
		logger: o.logger,
	}, nil
}

// NewFromFile loads the configuration from the JSON config file at path and
// creates a client from it.
func NewFromFile(path string, opts ...Option) (*Client, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Reset cancels the operations still in flight and clears all client-side
// cached data. Call it when the simulated environment is torn down.
func (c *Client) Reset(ctx context.Context) error {
	c.logger.InfoContext(ctx, "resetting simulator client")
	return c.gql.Reset(ctx)
}
