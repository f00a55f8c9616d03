package identity

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/cardsim/sdk-go/errors"
)

// TokenProvider produces a valid bearer token for one outstanding simulator
// request, coordinating a sign-in when the session has lapsed.
//
// Concurrent callers share a single in-flight sign-in/token sequence: at most
// one sign-in attempt is current at a time per provider, and overlapping
// demand receives the outcome of the sequence already running. The identity
// provider is never retried automatically; every failure is surfaced to the
// GraphQL layer unchanged.
type TokenProvider struct {
	authenticator Authenticator
	username      string
	password      string
	logger        *slog.Logger
	group         singleflight.Group
}

// NewTokenProvider creates a token provider over the given authenticator.
// The credentials are fixed for the provider's lifetime.
func NewTokenProvider(authenticator Authenticator, username, password string, logger *slog.Logger) *TokenProvider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TokenProvider{
		authenticator: authenticator,
		username:      username,
		password:      password,
		logger:        logger,
	}
}

// LatestAuthToken returns a bearer token for the current session, signing in
// first if the provider reports no session. A token is never returned from a
// session observed as not signed in without an intervening successful
// sign-in.
//
// The shared sequence runs under the context of the caller that started it.
// If that caller cancels, every coalesced waiter receives the resulting
// failure; waiters wanting isolation from each other must serialize their
// calls instead.
func (p *TokenProvider) LatestAuthToken(ctx context.Context) (string, error) {
	token, err, shared := p.group.Do("token", func() (interface{}, error) {
		return p.fetchToken(ctx)
	})
	if err != nil {
		return "", err
	}
	if shared {
		p.logger.DebugContext(ctx, "auth token demand coalesced onto in-flight sequence")
	}
	return token.(string), nil
}

// fetchToken runs one initialize -> (sign-in) -> get-tokens sequence.
func (p *TokenProvider) fetchToken(ctx context.Context) (interface{}, error) {
	state, err := p.authenticator.Initialize(ctx)
	if err != nil {
		return nil, err
	}

	switch state {
	case StateNotSignedIn:
		p.logger.DebugContext(ctx, "no session, signing in", "username", p.username)
		result, err := p.authenticator.SignIn(ctx, p.username, p.password)
		if err != nil {
			return nil, err
		}
		if result == nil {
			return nil, errors.New(errors.InternalError, "identity provider returned no sign-in result", nil)
		}
		// Fall through to the token fetch so the request that triggered the
		// sign-in proceeds with a token in the same call.
	case StateSignedIn:
	default:
		return nil, errors.New(errors.InternalError, "identity provider returned no session state", nil)
	}

	tokens, err := p.authenticator.GetTokens(ctx)
	if err != nil {
		return nil, err
	}
	if tokens == nil || tokens.IDToken == "" {
		return nil, errors.New(errors.InternalError, "identity provider returned no id token", nil)
	}
	return tokens.IDToken, nil
}
