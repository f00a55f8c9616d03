package cardsim

import "time"

// CurrencyAmount is an amount of money in a single currency.
type CurrencyAmount struct {
	// Currency is the ISO 4217 currency code, e.g. "USD".
	Currency string

	// Amount is a non-negative count of minor currency units (cents).
	Amount int
}

// Expiry is a card expiry date.
type Expiry struct {
	// Mm is the month specifier, 1-12.
	Mm int

	// Yyyy is the four digit year specifier, e.g. 2026.
	Yyyy int
}

// BillingAddress is the address presented with an authorization for AVS
// checking. Absent optional fields are treated as "NOT_PROVIDED" by the
// service.
type BillingAddress struct {
	AddressLine1 string
	AddressLine2 *string
	City         string
	State        string
	PostalCode   string
	Country      string
}

// SimulateAuthorizationInput holds the input for Client.SimulateAuthorization.
type SimulateAuthorizationInput struct {
	// Pan is the primary account number of the card to authorize against.
	Pan string

	// Amount to authorize, in minor currency units of the merchant currency.
	Amount int

	// MerchantID identifies the simulated merchant performing the
	// authorization. Use an id returned by GetSimulatorMerchants.
	MerchantID string

	// Expiry is the card expiry presented to the merchant.
	Expiry Expiry

	// BillingAddress presented to the merchant. Nil simulates the address
	// not being provided.
	BillingAddress *BillingAddress

	// CSC is the card security code presented to the merchant. Nil simulates
	// the security code not being provided.
	CSC *string
}

// SimulateIncrementalAuthorizationInput holds the input for
// Client.SimulateIncrementalAuthorization.
type SimulateIncrementalAuthorizationInput struct {
	// Amount to increment the authorization by, in minor currency units.
	Amount int

	// AuthorizationID references a prior approved authorization.
	AuthorizationID string
}

// SimulateReversalInput holds the input for Client.SimulateReversal.
type SimulateReversalInput struct {
	// Amount to reverse, in minor currency units. Must not exceed the
	// remaining pending amount of the authorization.
	Amount int

	// AuthorizationID references the authorization to reverse.
	AuthorizationID string
}

// SimulateRefundInput holds the input for Client.SimulateRefund.
type SimulateRefundInput struct {
	// Amount to refund, in minor currency units. Must not exceed the
	// remaining settled amount of the debit.
	Amount int

	// DebitID references the debit to refund.
	DebitID string
}

// SimulateDebitInput holds the input for Client.SimulateDebit.
type SimulateDebitInput struct {
	// Amount to debit, in minor currency units.
	Amount int

	// AuthorizationID references the authorization to settle.
	AuthorizationID string
}

// SimulateAuthorizationResponse is the result of an authorization or
// incremental authorization simulation.
type SimulateAuthorizationResponse struct {
	// ID of the authorization transaction, for use in follow-up simulations.
	ID string

	// Approved is whether the authorization was approved.
	Approved bool

	// BilledAmount is the amount billed in the card's currency.
	BilledAmount CurrencyAmount

	// DeclineReason is present when Approved is false.
	DeclineReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SimulateReversalResponse is the result of a reversal simulation.
type SimulateReversalResponse struct {
	ID           string
	BilledAmount CurrencyAmount
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SimulateAuthorizationExpiryResponse is the result of an authorization
// expiry simulation.
type SimulateAuthorizationExpiryResponse struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SimulateRefundResponse is the result of a refund simulation.
type SimulateRefundResponse struct {
	ID           string
	BilledAmount CurrencyAmount
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SimulateDebitResponse is the result of a debit simulation.
type SimulateDebitResponse struct {
	ID           string
	BilledAmount CurrencyAmount
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SimulatorMerchant is a merchant available for simulated transactions.
// Merchants are owned and mutated by the service; the client only reads them.
type SimulatorMerchant struct {
	// ID of the merchant for use in simulated transaction requests.
	ID string

	// Name of the merchant, used as the transaction description.
	Name string

	// Mcc is the merchant category code.
	Mcc string

	City       string
	State      *string
	PostalCode string
	Country    string

	// Currency is the ISO 4217 code the merchant charges in.
	Currency string

	// DeclineAfterAuthorization marks a merchant whose transactions are
	// authorized at the service level and then immediately declined once
	// they reach the provider level.
	DeclineAfterAuthorization bool

	// DeclineBeforeAuthorization marks a merchant whose transactions are
	// declined before they reach the authorization level.
	DeclineBeforeAuthorization bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
