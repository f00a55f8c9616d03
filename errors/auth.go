package errors

import "fmt"

// AuthErrorKind classifies a failure reported by the identity collaborator.
type AuthErrorKind string

// Auth error kinds, mirroring the identity provider's failure surface.
const (
	AuthSignedOut      AuthErrorKind = "signedOut"
	AuthNotAuthorized  AuthErrorKind = "notAuthorized"
	AuthValidation     AuthErrorKind = "validation"
	AuthConfiguration  AuthErrorKind = "configuration"
	AuthSessionExpired AuthErrorKind = "sessionExpired"
	AuthInvalidState   AuthErrorKind = "invalidState"
	AuthService        AuthErrorKind = "service"
	AuthUnknown        AuthErrorKind = "unknown"
)

// AuthError is a failure surfaced by the identity collaborator before it has
// been normalized into the SDK taxonomy. Transform maps AuthSignedOut to
// NotSignedIn and every other kind to NotAuthorized.
type AuthError struct {
	Kind    AuthErrorKind
	Message string
	Cause   error
}

// Error returns a formatted error string.
func (e *AuthError) Error() string {
	msg := fmt.Sprintf("identity: %s", e.Kind)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error.
func (e *AuthError) Unwrap() error {
	return e.Cause
}

// NewAuthError creates an identity collaborator error of the given kind.
func NewAuthError(kind AuthErrorKind, message string, cause error) *AuthError {
	return &AuthError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}
