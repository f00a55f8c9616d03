// Package errors defines the error taxonomy for the virtual cards simulator
// SDK and the transformation pipeline that maps collaborator failures onto it.
//
// All SDK errors are represented as *Error, which provides:
//   - Code: machine-readable error identifier from the closed taxonomy
//   - Message: human-readable error description
//   - HTTPStatus: HTTP status code, when the failure carried one
//   - Cause: underlying error, if any
//
// Errors are created only at the SDK boundary, either by the constructors in
// this package or by Transform; callers can match them with errors.Is or
// inspect the chain via Unwrap.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is a machine-readable error identifier.
type Code string

// Error codes - authentication and configuration
const (
	// NotSignedIn indicates the caller is not authenticated with the
	// identity provider.
	NotSignedIn Code = "NOT_SIGNED_IN"

	// NotAuthorized indicates the request was rejected due to bad
	// credentials, an expired session, insufficient rights, or an HTTP 401.
	NotAuthorized Code = "NOT_AUTHORIZED"

	// InvalidConfig indicates the client configuration is malformed or
	// incomplete. Raised at construction time, never at call time.
	InvalidConfig Code = "INVALID_CONFIG"
)

// Error codes - request and service failures
const (
	// InvalidRequest indicates malformed input rejected by backend
	// validation, a decoding failure, or a conditional-write conflict.
	InvalidRequest Code = "INVALID_REQUEST"

	// RateLimitExceeded indicates the backend throttled the request.
	RateLimitExceeded Code = "RATE_LIMIT_EXCEEDED"

	// ServiceError indicates a generic, possibly transient backend failure.
	// Retrying later may succeed.
	ServiceError Code = "SERVICE_ERROR"

	// RequestFailed indicates a network, connectivity, or non-401 HTTP
	// failure. HTTPStatus carries the status code when one was received.
	RequestFailed Code = "REQUEST_FAILED"

	// GraphQLError is the catch-all for a backend error shape the SDK does
	// not recognize. Message carries the backend's description.
	GraphQLError Code = "GRAPHQL_ERROR"

	// InternalError indicates the SDK observed a contract violation, such as
	// a success response with no payload. It signals a bug, not a legitimate
	// domain outcome.
	InternalError Code = "INTERNAL_ERROR"

	// FatalError indicates an unrecoverable condition such as bad local
	// configuration or an unexpected transport failure.
	FatalError Code = "FATAL_ERROR"
)

// Error codes - virtual cards business rules, passed through distinctly so
// callers can react precisely.
const (
	CardNotFound           Code = "CARD_NOT_FOUND"
	CardStateError         Code = "CARD_STATE_ERROR"
	TransactionNotFound    Code = "TRANSACTION_NOT_FOUND"
	CurrencyMismatch       Code = "CURRENCY_MISMATCH"
	MerchantNotFound       Code = "MERCHANT_NOT_FOUND"
	InvalidTransactionType Code = "INVALID_TRANSACTION_TYPE"
	ExcessiveReversal      Code = "EXCESSIVE_REVERSAL"
	ExcessiveRefund        Code = "EXCESSIVE_REFUND"
	AlreadyExpired         Code = "ALREADY_EXPIRED"
)

// Error codes - per-operation generic failures. Raised only when a success
// response arrives without the operation's payload, which indicates a
// contract violation between the SDK and the transport.
const (
	SimulateAuthorizationFailed            Code = "SIMULATE_AUTHORIZATION_FAILED"
	SimulateIncrementalAuthorizationFailed Code = "SIMULATE_INCREMENTAL_AUTHORIZATION_FAILED"
	SimulateReversalFailed                 Code = "SIMULATE_REVERSAL_FAILED"
	SimulateAuthorizationExpiryFailed      Code = "SIMULATE_AUTHORIZATION_EXPIRY_FAILED"
	SimulateRefundFailed                   Code = "SIMULATE_REFUND_FAILED"
	SimulateDebitFailed                    Code = "SIMULATE_DEBIT_FAILED"
	GetSimulatorMerchantsFailed            Code = "GET_SIMULATOR_MERCHANTS_FAILED"
	GetSimulatorConversionRatesFailed      Code = "GET_SIMULATOR_CONVERSION_RATES_FAILED"
)

// Error is the base error type for all SDK errors.
type Error struct {
	Code       Code
	Message    string
	HTTPStatus int // 0 when the failure did not carry an HTTP status
	Cause      error
}

// Error returns a formatted error string.
func (e *Error) Error() string {
	msg := fmt.Sprintf("cardsim: %s", e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.HTTPStatus != 0 {
		msg += fmt.Sprintf(" (http status %d)", e.HTTPStatus)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error, enabling error chain inspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

// New creates an SDK error with the given code, message and cause.
func New(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewRequestFailed creates a RequestFailed error carrying the HTTP status of
// the failed request. Pass status 0 for failures with no HTTP response.
func NewRequestFailed(status int, message string, cause error) *Error {
	return &Error{
		Code:       RequestFailed,
		Message:    message,
		HTTPStatus: status,
		Cause:      cause,
	}
}

// As checks whether any error in err's chain is an *Error and assigns it to
// target.
func As(err error, target **Error) bool {
	return stderrors.As(err, target)
}
