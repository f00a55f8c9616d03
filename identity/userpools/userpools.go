// Package userpools implements the identity.Authenticator contract against a
// hosted user pool over its JSON HTTP protocol.
//
// A sign-in exchanges the caller's username and password for an ID, access,
// and refresh token triple. The token set is cached for the authenticator's
// lifetime; Initialize reports signed-in as long as the ID token is still
// valid or a refresh token remains, and GetTokens transparently refreshes an
// expired session before giving up.
package userpools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cardsim/sdk-go/core/net"
	"github.com/cardsim/sdk-go/errors"
	"github.com/cardsim/sdk-go/identity"
)

const (
	initiateAuthTarget   = "AWSCognitoIdentityProviderService.InitiateAuth"
	amzJSONContentType   = "application/x-amz-json-1.1"
	authFlowUserPassword = "USER_PASSWORD_AUTH"
	authFlowRefreshToken = "REFRESH_TOKEN_AUTH"

	// expiryLeeway avoids handing out a token that expires mid-request.
	expiryLeeway = 30 * time.Second
)

// Authenticator authenticates against a hosted user pool.
type Authenticator struct {
	userPoolID string
	clientID   string
	endpoint   string
	httpClient *net.Client
	logger     *slog.Logger

	mu      sync.Mutex
	session *session
}

// session is the cached token set from the most recent sign-in or refresh.
type session struct {
	idToken      string
	accessToken  string
	refreshToken string
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithEndpoint overrides the identity endpoint derived from the region.
func WithEndpoint(endpoint string) Option {
	return func(a *Authenticator) {
		a.endpoint = endpoint
	}
}

// WithHTTPClient sets the underlying HTTP client for identity requests.
func WithHTTPClient(client *net.Client) Option {
	return func(a *Authenticator) {
		a.httpClient = client
	}
}

// WithLogger sets the logger for auth transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Authenticator) {
		a.logger = logger
	}
}

// New creates an Authenticator for the given user pool and app client.
func New(userPoolID, clientID, region string, opts ...Option) *Authenticator {
	a := &Authenticator{
		userPoolID: userPoolID,
		clientID:   clientID,
		endpoint:   fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/", region),
		httpClient: net.NewClient(),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Initialize reports the provider's view of the current session. A session
// counts as signed in while its ID token is valid or a refresh token remains.
func (a *Authenticator) Initialize(ctx context.Context) (identity.SessionState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session == nil {
		return identity.StateNotSignedIn, nil
	}
	if tokenExpired(a.session.idToken) && a.session.refreshToken == "" {
		a.session = nil
		return identity.StateNotSignedIn, nil
	}
	return identity.StateSignedIn, nil
}

// SignIn authenticates with the user pool and caches the resulting session.
func (a *Authenticator) SignIn(ctx context.Context, username, password string) (*identity.SignInResult, error) {
	result, err := a.initiateAuth(ctx, initiateAuthRequest{
		AuthFlow: authFlowUserPassword,
		ClientID: a.clientID,
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.session = &session{
		idToken:      result.IDToken,
		accessToken:  result.AccessToken,
		refreshToken: result.RefreshToken,
	}
	a.mu.Unlock()

	a.logger.DebugContext(ctx, "user pool sign-in complete", "userPoolId", a.userPoolID)
	return &identity.SignInResult{State: identity.StateSignedIn}, nil
}

// GetTokens returns the session tokens, refreshing an expired ID token with
// the refresh token first. Fails with a signed-out auth error when no
// usable session exists.
func (a *Authenticator) GetTokens(ctx context.Context) (*identity.Tokens, error) {
	a.mu.Lock()
	current := a.session
	a.mu.Unlock()

	if current == nil {
		return nil, errors.NewAuthError(errors.AuthSignedOut, "no session, sign in first", nil)
	}

	if tokenExpired(current.idToken) {
		if current.refreshToken == "" {
			return nil, errors.NewAuthError(errors.AuthSessionExpired, "session expired and no refresh token available", nil)
		}
		refreshed, err := a.initiateAuth(ctx, initiateAuthRequest{
			AuthFlow: authFlowRefreshToken,
			ClientID: a.clientID,
			AuthParameters: map[string]string{
				"REFRESH_TOKEN": current.refreshToken,
			},
		})
		if err != nil {
			return nil, err
		}
		a.mu.Lock()
		// Refresh responses omit the refresh token; the existing one stays valid.
		a.session = &session{
			idToken:      refreshed.IDToken,
			accessToken:  refreshed.AccessToken,
			refreshToken: current.refreshToken,
		}
		current = a.session
		a.mu.Unlock()
		a.logger.DebugContext(ctx, "user pool session refreshed", "userPoolId", a.userPoolID)
	}

	return &identity.Tokens{
		IDToken:      current.idToken,
		AccessToken:  current.accessToken,
		RefreshToken: current.refreshToken,
	}, nil
}

// initiateAuthRequest is the wire shape of the identity provider's
// InitiateAuth call.
type initiateAuthRequest struct {
	AuthFlow       string            `json:"AuthFlow"`
	ClientID       string            `json:"ClientId"`
	AuthParameters map[string]string `json:"AuthParameters"`
}

// initiateAuthResponse is the wire shape of a successful InitiateAuth reply.
type initiateAuthResponse struct {
	AuthenticationResult *authenticationResult `json:"AuthenticationResult"`
	ChallengeName        string                `json:"ChallengeName"`
}

type authenticationResult struct {
	IDToken      string `json:"IdToken"`
	AccessToken  string `json:"AccessToken"`
	RefreshToken string `json:"RefreshToken"`
	ExpiresIn    int    `json:"ExpiresIn"`
}

// apiError is the wire shape of an identity provider failure.
type apiError struct {
	Type    string `json:"__type"`
	Message string `json:"message"`
}

// initiateAuth executes one InitiateAuth round trip.
func (a *Authenticator) initiateAuth(ctx context.Context, payload initiateAuthRequest) (*authenticationResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewAuthError(errors.AuthUnknown, "failed to marshal auth request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewAuthError(errors.AuthConfiguration, "failed to create auth request", err)
	}
	req.Header.Set("Content-Type", amzJSONContentType)
	req.Header.Set("X-Amz-Target", initiateAuthTarget)

	resp, err := a.httpClient.Post(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		var failure apiError
		if err := json.Unmarshal(respBody, &failure); err != nil || failure.Type == "" {
			return nil, errors.NewAuthError(errors.AuthUnknown,
				fmt.Sprintf("auth request returned status %d: %s", resp.StatusCode, string(respBody)), nil)
		}
		return nil, errors.NewAuthError(classifyAPIError(failure.Type), failure.Message, nil)
	}

	var decoded initiateAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.NewAuthError(errors.AuthUnknown, "failed to decode auth response", err)
	}
	if decoded.AuthenticationResult == nil {
		if decoded.ChallengeName != "" {
			return nil, errors.NewAuthError(errors.AuthInvalidState,
				fmt.Sprintf("auth challenge %q is not supported", decoded.ChallengeName), nil)
		}
		return nil, errors.NewAuthError(errors.AuthUnknown, "auth response carried no result", nil)
	}
	return decoded.AuthenticationResult, nil
}

// classifyAPIError maps the identity provider's exception type onto an auth
// error kind.
func classifyAPIError(exceptionType string) errors.AuthErrorKind {
	// Exception types may arrive prefixed with a namespace.
	if idx := strings.LastIndex(exceptionType, "#"); idx >= 0 {
		exceptionType = exceptionType[idx+1:]
	}
	switch exceptionType {
	case "NotAuthorizedException", "UserNotFoundException", "UserNotConfirmedException", "PasswordResetRequiredException":
		return errors.AuthNotAuthorized
	case "InvalidParameterException", "InvalidPasswordException":
		return errors.AuthValidation
	case "ResourceNotFoundException", "InvalidUserPoolConfigurationException":
		return errors.AuthConfiguration
	case "TooManyRequestsException", "InternalErrorException", "ServiceUnavailableException":
		return errors.AuthService
	default:
		return errors.AuthUnknown
	}
}

// tokenExpired reports whether the JWT's exp claim has passed, with leeway.
// The signature is not verified here; the service verifies it server-side.
// Unparseable tokens count as expired.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return true
	}
	return time.Now().Add(expiryLeeway).After(expiry.Time)
}

// Verify that Authenticator implements identity.Authenticator
var _ identity.Authenticator = (*Authenticator)(nil)
