// Package cardsim provides a Go SDK for the virtual cards simulator service.
// It lets an application simulate card-network transaction events
// (authorizations, incremental authorizations, reversals, expirations,
// refunds, debits) against the simulator's GraphQL backend and query
// reference data (simulated merchants, currency conversion rates).
//
// The SDK handles authentication (API key or hosted user pools), marshals
// typed requests into GraphQL operations, and normalizes backend failures
// into the closed error taxonomy in the errors package. Business rules
// (authorization/reversal/refund math) are enforced server-side; this
// package is a faithful wire client, not a rules engine.
package cardsim

import "context"

// Client is the public operation surface of the simulator SDK.
// Every method either returns the documented success value or exactly one
// *errors.Error from the SDK taxonomy; no partial outcomes are exposed.
type Client interface {
	// SimulateAuthorization simulates an authorization transaction (a pending
	// hold of funds) against a virtual card.
	SimulateAuthorization(ctx context.Context, input SimulateAuthorizationInput) (*SimulateAuthorizationResponse, error)

	// SimulateIncrementalAuthorization simulates an incremental authorization
	// against a prior approved authorization.
	SimulateIncrementalAuthorization(ctx context.Context, input SimulateIncrementalAuthorizationInput) (*SimulateAuthorizationResponse, error)

	// SimulateReversal simulates a partial or full reversal of a pending
	// authorization. Reversing the full amount deletes the authorization
	// record on the service.
	SimulateReversal(ctx context.Context, input SimulateReversalInput) (*SimulateReversalResponse, error)

	// SimulateAuthorizationExpiry simulates the expiry of a pending
	// authorization identified by id.
	SimulateAuthorizationExpiry(ctx context.Context, id string) (*SimulateAuthorizationExpiryResponse, error)

	// SimulateRefund simulates a refund of a previously debited transaction.
	SimulateRefund(ctx context.Context, input SimulateRefundInput) (*SimulateRefundResponse, error)

	// SimulateDebit simulates a debit (settlement) of a previously authorized
	// transaction. The debited amount may exceed the authorized amount; the
	// service performs no excessive-debit check.
	SimulateDebit(ctx context.Context, input SimulateDebitInput) (*SimulateDebitResponse, error)

	// GetSimulatorMerchants returns the merchants available for simulated
	// transactions. An empty list is a valid result.
	GetSimulatorMerchants(ctx context.Context) ([]SimulatorMerchant, error)

	// GetSimulatorConversionRates returns the currency conversion rates the
	// simulator supports. An empty list is a valid result.
	GetSimulatorConversionRates(ctx context.Context) ([]CurrencyAmount, error)

	// Reset clears all cached query data held by the transport layer and
	// cancels any simulator requests still in flight.
	Reset(ctx context.Context) error
}
