package errors

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"net/url"

	"github.com/Khan/genqlient/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// serviceErrorTypeKey is the GraphQL error extension carrying the backend's
// machine-readable error type.
const serviceErrorTypeKey = "errorType"

// Platform-level error types reported by the backend.
const (
	serviceErrorInvalidArgument        = "sudoplatform.InvalidArgumentError"
	serviceErrorLimitExceeded          = "sudoplatform.LimitExceededError"
	serviceErrorConditionalCheckFailed = "DynamoDB:ConditionalCheckFailedException"
	serviceErrorDecoding               = "sudoplatform.DecodingError"
	serviceErrorService                = "sudoplatform.ServiceError"
)

// Virtual-cards service error types reported by the backend.
const (
	serviceErrorCardNotFound           = "sudoplatform.virtual-cards.CardNotFoundError"
	serviceErrorCardState              = "sudoplatform.virtual-cards.CardStateError"
	serviceErrorTransactionNotFound    = "sudoplatform.virtual-cards.TransactionNotFoundError"
	serviceErrorCurrencyMismatch       = "sudoplatform.virtual-cards.CurrencyMismatchError"
	serviceErrorMerchantNotFound       = "sudoplatform.virtual-cards.MerchantNotFoundError"
	serviceErrorInvalidTransactionType = "sudoplatform.virtual-cards.InvalidTransactionTypeError"
	serviceErrorExcessiveReversal      = "sudoplatform.virtual-cards.ExcessiveReversalError"
	serviceErrorExcessiveRefund        = "sudoplatform.virtual-cards.ExcessiveRefundError"
	serviceErrorAlreadyExpired         = "sudoplatform.virtual-cards.AlreadyExpiredError"
)

// serviceErrorCodes is the generic error-type to SDK code table.
var serviceErrorCodes = map[string]Code{
	serviceErrorInvalidArgument:        InvalidRequest,
	serviceErrorLimitExceeded:          RateLimitExceeded,
	serviceErrorConditionalCheckFailed: InvalidRequest,
	serviceErrorDecoding:               InvalidRequest,
	serviceErrorService:                ServiceError,
	serviceErrorCardNotFound:           CardNotFound,
	serviceErrorCardState:              CardStateError,
	serviceErrorTransactionNotFound:    TransactionNotFound,
	serviceErrorCurrencyMismatch:       CurrencyMismatch,
	serviceErrorMerchantNotFound:       MerchantNotFound,
	serviceErrorInvalidTransactionType: InvalidTransactionType,
	serviceErrorExcessiveReversal:      ExcessiveReversal,
	serviceErrorExcessiveRefund:        ExcessiveRefund,
	serviceErrorAlreadyExpired:         AlreadyExpired,
}

// ServiceErrorTransformer maps one backend GraphQL error entry onto an SDK
// error. Returning nil means the transformer does not recognize the entry.
// Callers pass transformers to add operation-specific translations; they are
// consulted before the generic table.
type ServiceErrorTransformer func(*gqlerror.Error) *Error

// Transform maps an arbitrary failure surfaced by the GraphQL layer or the
// identity collaborator onto exactly one SDK error. It is idempotent: an
// error already in SDK form is returned unchanged. Transform never returns
// nil for a non-nil input.
func Transform(err error, transformers ...ServiceErrorTransformer) *Error {
	if err == nil {
		return nil
	}

	// Already normalized.
	var sdkErr *Error
	if stderrors.As(err, &sdkErr) {
		return sdkErr
	}

	// Identity collaborator failures take precedence over transport shapes,
	// including when nested inside a transport error.
	var authErr *AuthError
	if stderrors.As(err, &authErr) {
		return transformAuthError(authErr)
	}

	// HTTP-level rejection from the GraphQL endpoint.
	var httpErr *graphql.HTTPError
	if stderrors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusUnauthorized {
			return New(NotAuthorized, "request rejected with HTTP 401", err)
		}
		return NewRequestFailed(httpErr.StatusCode, "request failed", err)
	}

	// Structured backend error payload, possibly one-of-many in a partial
	// failure response.
	var gqlList gqlerror.List
	if stderrors.As(err, &gqlList) {
		return transformGraphQLErrors(gqlList, transformers)
	}
	var gqlErr *gqlerror.Error
	if stderrors.As(err, &gqlErr) {
		return transformGraphQLErrors(gqlerror.List{gqlErr}, transformers)
	}

	// Connectivity failures.
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		return NewRequestFailed(0, "network error", err)
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return NewRequestFailed(0, "network error", err)
	}
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return NewRequestFailed(0, "request cancelled", err)
	}

	// Unrecognized failure shape. Still satisfies the closed taxonomy.
	return New(GraphQLError, err.Error(), err)
}

// transformAuthError maps an identity collaborator failure onto the taxonomy.
func transformAuthError(authErr *AuthError) *Error {
	if authErr.Kind == AuthSignedOut {
		return New(NotSignedIn, authErr.Message, authErr)
	}
	return New(NotAuthorized, authErr.Message, authErr)
}

// transformGraphQLErrors scans backend error entries in order and maps the
// first entry carrying an error type. Caller transformers are consulted
// before the generic table. An entry with a recognized type maps to its code;
// an entry with an unrecognized type maps to GraphQLError; entries with no
// type are skipped. If no entry carries a type at all, the response is
// malformed and maps to FatalError.
func transformGraphQLErrors(list gqlerror.List, transformers []ServiceErrorTransformer) *Error {
	for _, entry := range list {
		if entry == nil {
			continue
		}
		for _, transform := range transformers {
			if mapped := transform(entry); mapped != nil {
				return mapped
			}
		}
		errorType, ok := entry.Extensions[serviceErrorTypeKey].(string)
		if !ok || errorType == "" {
			continue
		}
		if code, known := serviceErrorCodes[errorType]; known {
			return New(code, entry.Message, entry)
		}
		return New(GraphQLError, entry.Message, entry)
	}
	return New(FatalError, "GraphQL operation failed but error type was not found in the response", list)
}
