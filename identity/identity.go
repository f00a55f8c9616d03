// Package identity wraps the hosted identity provider used to authenticate
// simulator requests when the client is configured for user-pool auth.
//
// The Authenticator interface is the complete surface the SDK depends on:
// initialize, sign in, and token retrieval. The TokenProvider orchestrates
// those primitives into a bearer token on demand, enforcing the sign-in
// before token-fetch ordering and coalescing concurrent demand onto a single
// in-flight sequence.
package identity

import "context"

// SessionState is the authentication state reported by the identity provider.
type SessionState string

const (
	// StateSignedIn indicates a valid session exists and tokens can be
	// retrieved without signing in again.
	StateSignedIn SessionState = "signedIn"

	// StateNotSignedIn indicates no valid session exists; a sign-in is
	// required before tokens can be retrieved.
	StateNotSignedIn SessionState = "notSignedIn"
)

// SignInResult is the outcome of a successful sign-in.
type SignInResult struct {
	// State is the session state after the sign-in completed.
	State SessionState
}

// Tokens is the token set for an authenticated session.
type Tokens struct {
	// IDToken is the identity token attached to simulator requests as the
	// bearer token.
	IDToken string

	// AccessToken authorizes identity-provider API calls.
	AccessToken string

	// RefreshToken renews the session when the other tokens expire.
	RefreshToken string
}

// Authenticator is the identity collaborator contract. Implementations
// report failures as *errors.AuthError so they can be normalized by the
// error transformer.
type Authenticator interface {
	// Initialize establishes the provider's view of the current session and
	// returns its state. An empty state is a contract violation.
	Initialize(ctx context.Context) (SessionState, error)

	// SignIn authenticates with the given credentials and establishes a
	// session.
	SignIn(ctx context.Context, username, password string) (*SignInResult, error)

	// GetTokens returns the tokens of the current session. Fails when no
	// valid session exists.
	GetTokens(ctx context.Context) (*Tokens, error)
}
