package sdk

import (
	"math"
	"time"

	"github.com/cardsim/sdk-go"
)

// Operation names as registered in the backend schema.
const (
	opSimulateAuthorization            = "SimulateAuthorization"
	opSimulateIncrementalAuthorization = "SimulateIncrementalAuthorization"
	opSimulateReversal                 = "SimulateReversal"
	opSimulateAuthorizationExpiry      = "SimulateAuthorizationExpiry"
	opSimulateRefund                   = "SimulateRefund"
	opSimulateDebit                    = "SimulateDebit"
	opListSimulatorMerchants           = "ListSimulatorMerchants"
	opListSimulatorConversionRates     = "ListSimulatorConversionRates"
)

// Operation documents. These must match the backend schema exactly; do not
// reformat them.
const (
	simulateAuthorizationDocument = `mutation SimulateAuthorization($input: SimulateAuthorizationRequest!) {
  simulateAuthorization(input: $input) {
    __typename
    id
    approved
    billedAmount {
      __typename
      currency
      amount
    }
    declineReason
    createdAtEpochMs
    updatedAtEpochMs
  }
}`

	simulateIncrementalAuthorizationDocument = `mutation SimulateIncrementalAuthorization($input: SimulateIncrementalAuthorizationRequest!) {
  simulateIncrementalAuthorization(input: $input) {
    __typename
    id
    approved
    billedAmount {
      __typename
      currency
      amount
    }
    declineReason
    createdAtEpochMs
    updatedAtEpochMs
  }
}`

	simulateReversalDocument = `mutation SimulateReversal($input: SimulateReversalRequest!) {
  simulateReversal(input: $input) {
    __typename
    id
    billedAmount {
      __typename
      currency
      amount
    }
    createdAtEpochMs
    updatedAtEpochMs
  }
}`

	simulateAuthorizationExpiryDocument = `mutation SimulateAuthorizationExpiry($input: SimulateAuthorizationExpiryRequest!) {
  simulateAuthorizationExpiry(input: $input) {
    __typename
    id
    createdAtEpochMs
    updatedAtEpochMs
  }
}`

	simulateRefundDocument = `mutation SimulateRefund($input: SimulateRefundRequest!) {
  simulateRefund(input: $input) {
    __typename
    id
    billedAmount {
      __typename
      currency
      amount
    }
    createdAtEpochMs
    updatedAtEpochMs
  }
}`

	simulateDebitDocument = `mutation SimulateDebit($input: SimulateDebitRequest!) {
  simulateDebit(input: $input) {
    __typename
    id
    billedAmount {
      __typename
      currency
      amount
    }
    createdAtEpochMs
    updatedAtEpochMs
  }
}`

	listSimulatorMerchantsDocument = `query ListSimulatorMerchants {
  listSimulatorMerchants {
    __typename
    id
    description
    name
    mcc
    city
    state
    postalCode
    country
    currency
    declineAfterAuthorization
    declineBeforeAuthorization
    createdAtEpochMs
    updatedAtEpochMs
  }
}`

	listSimulatorConversionRatesDocument = `query ListSimulatorConversionRates {
  listSimulatorConversionRates {
    __typename
    currency
    amount
  }
}`
)

// Wire-level request payloads. Field names match the backend input types.

type expiryInput struct {
	Mm   int `json:"mm"`
	Yyyy int `json:"yyyy"`
}

type enteredAddressInput struct {
	AddressLine1 string  `json:"addressLine1"`
	AddressLine2 *string `json:"addressLine2,omitempty"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	PostalCode   string  `json:"postalCode"`
	Country      string  `json:"country"`
}

type simulateAuthorizationRequest struct {
	Pan            string               `json:"pan"`
	Amount         int                  `json:"amount"`
	MerchantID     string               `json:"merchantId"`
	Expiry         expiryInput          `json:"expiry"`
	BillingAddress *enteredAddressInput `json:"billingAddress,omitempty"`
	Csc            *string              `json:"csc,omitempty"`
}

type simulateIncrementalAuthorizationRequest struct {
	Amount          int    `json:"amount"`
	AuthorizationID string `json:"authorizationId"`
}

type simulateReversalRequest struct {
	Amount          int    `json:"amount"`
	AuthorizationID string `json:"authorizationId"`
}

type simulateAuthorizationExpiryRequest struct {
	AuthorizationID string `json:"authorizationId"`
}

type simulateRefundRequest struct {
	Amount  int    `json:"amount"`
	DebitID string `json:"debitId"`
}

type simulateDebitRequest struct {
	Amount          int    `json:"amount"`
	AuthorizationID string `json:"authorizationId"`
}

// Wire-level response payloads. Timestamps arrive as epoch milliseconds.

type currencyAmountResult struct {
	Currency string `json:"currency"`
	Amount   int    `json:"amount"`
}

func (r currencyAmountResult) toPublic() cardsim.CurrencyAmount {
	return cardsim.CurrencyAmount{
		Currency: r.Currency,
		Amount:   r.Amount,
	}
}

type authorizationResult struct {
	ID               string               `json:"id"`
	Approved         bool                 `json:"approved"`
	BilledAmount     currencyAmountResult `json:"billedAmount"`
	DeclineReason    *string              `json:"declineReason"`
	CreatedAtEpochMs float64              `json:"createdAtEpochMs"`
	UpdatedAtEpochMs float64              `json:"updatedAtEpochMs"`
}

type settlementResult struct {
	ID               string               `json:"id"`
	BilledAmount     currencyAmountResult `json:"billedAmount"`
	CreatedAtEpochMs float64              `json:"createdAtEpochMs"`
	UpdatedAtEpochMs float64              `json:"updatedAtEpochMs"`
}

type expiryResult struct {
	ID               string  `json:"id"`
	CreatedAtEpochMs float64 `json:"createdAtEpochMs"`
	UpdatedAtEpochMs float64 `json:"updatedAtEpochMs"`
}

type merchantResult struct {
	ID                         string  `json:"id"`
	Description                string  `json:"description"`
	Name                       string  `json:"name"`
	Mcc                        string  `json:"mcc"`
	City                       string  `json:"city"`
	State                      *string `json:"state"`
	PostalCode                 string  `json:"postalCode"`
	Country                    string  `json:"country"`
	Currency                   string  `json:"currency"`
	DeclineAfterAuthorization  bool    `json:"declineAfterAuthorization"`
	DeclineBeforeAuthorization bool    `json:"declineBeforeAuthorization"`
	CreatedAtEpochMs           float64 `json:"createdAtEpochMs"`
	UpdatedAtEpochMs           float64 `json:"updatedAtEpochMs"`
}

// Per-operation response data wrappers. Pointer fields distinguish a missing
// payload (a contract violation) from a present one.

type simulateAuthorizationData struct {
	SimulateAuthorization *authorizationResult `json:"simulateAuthorization"`
}

type simulateIncrementalAuthorizationData struct {
	SimulateIncrementalAuthorization *authorizationResult `json:"simulateIncrementalAuthorization"`
}

type simulateReversalData struct {
	SimulateReversal *settlementResult `json:"simulateReversal"`
}

type simulateAuthorizationExpiryData struct {
	SimulateAuthorizationExpiry *expiryResult `json:"simulateAuthorizationExpiry"`
}

type simulateRefundData struct {
	SimulateRefund *settlementResult `json:"simulateRefund"`
}

type simulateDebitData struct {
	SimulateDebit *settlementResult `json:"simulateDebit"`
}

type listSimulatorMerchantsData struct {
	ListSimulatorMerchants *[]merchantResult `json:"listSimulatorMerchants"`
}

type listSimulatorConversionRatesData struct {
	ListSimulatorConversionRates *[]currencyAmountResult `json:"listSimulatorConversionRates"`
}

// epochMsToTime converts the backend's epoch-millisecond timestamp into a
// time.Time, preserving millisecond precision.
func epochMsToTime(ms float64) time.Time {
	return time.UnixMilli(int64(math.Round(ms))).UTC()
}
