package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardsim/sdk-go"
	"github.com/cardsim/sdk-go/core/config"
	"github.com/cardsim/sdk-go/errors"
)

// graphQLRequest is the wire shape the scripted backend receives.
type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// simulatorBackend scripts the GraphQL endpoint per operation name and
// records every request it sees.
type simulatorBackend struct {
	t        *testing.T
	respond  map[string]interface{}
	requests []graphQLRequest
	calls    int
}

func (b *simulatorBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req graphQLRequest
	require.NoError(b.t, json.NewDecoder(r.Body).Decode(&req))
	b.requests = append(b.requests, req)
	b.calls++

	body, ok := b.respond[req.OperationName]
	if !ok {
		b.t.Errorf("unscripted operation %q", req.OperationName)
		body = map[string]interface{}{"data": nil}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func dataResponse(field string, payload interface{}) interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{field: payload},
	}
}

func errorTypeResponse(errorType string) interface{} {
	return map[string]interface{}{
		"data": nil,
		"errors": []map[string]interface{}{
			{
				"message":    "backend rejected the operation",
				"extensions": map[string]interface{}{"errorType": errorType},
			},
		},
	}
}

func newTestClient(t *testing.T, backend *simulatorBackend) *Client {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client, err := New(config.Config{
		Endpoint: server.URL,
		Region:   "us-east-1",
		APIKey:   "da2-testkey",
	})
	require.NoError(t, err)
	return client
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(config.Config{Endpoint: "https://sim.example.com/graphql"})

	var sdkErr *errors.Error
	require.True(t, errors.As(err, &sdkErr))
	assert.Equal(t, errors.InvalidConfig, sdkErr.Code)
}

func TestNewUserPoolsWithoutCredentials(t *testing.T) {
	// Must fail at construction time, before any network activity.
	_, err := New(config.Config{
		Endpoint:   "https://sim.example.com/graphql",
		Region:     "us-east-1",
		UserPoolID: "us-east-1_testpool",
		ClientID:   "client-id",
	})

	var sdkErr *errors.Error
	require.True(t, errors.As(err, &sdkErr))
	assert.Equal(t, errors.InvalidConfig, sdkErr.Code)
}

func TestSimulateAuthorization(t *testing.T) {
	backend := &simulatorBackend{t: t, respond: map[string]interface{}{
		"SimulateAuthorization": dataResponse("simulateAuthorization", map[string]interface{}{
			"id":       "auth-1",
			"approved": true,
			"billedAmount": map[string]interface{}{
				"currency": "USD",
				"amount":   1000,
			},
			"declineReason":    nil,
			"createdAtEpochMs": 1700000000000,
			"updatedAtEpochMs": 1700000000000,
		}),
	}}
	client := newTestClient(t, backend)

	csc := "123"
	resp, err := client.SimulateAuthorization(context.Background(), cardsim.SimulateAuthorizationInput{
		Pan:        "4242424242424242",
		Amount:     1000,
		MerchantID: "merchant-1",
		Expiry:     cardsim.Expiry{Mm: 4, Yyyy: 2028},
		BillingAddress: &cardsim.BillingAddress{
			AddressLine1: "123 Street Rd",
			City:         "Salt Lake City",
			State:        "UT",
			PostalCode:   "84044",
			Country:      "US",
		},
		CSC: &csc,
	})
	require.NoError(t, err)

	assert.Equal(t, "auth-1", resp.ID)
	assert.True(t, resp.Approved)
	assert.Nil(t, resp.DeclineReason)
	assert.Equal(t, cardsim.CurrencyAmount{Currency: "USD", Amount: 1000}, resp.BilledAmount)
	assert.Equal(t, int64(1700000000000), resp.CreatedAt.UnixMilli())

	require.Len(t, backend.requests, 1)
	input, ok := backend.requests[0].Variables["input"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "4242424242424242", input["pan"])
	assert.Equal(t, "merchant-1", input["merchantId"])
	assert.Equal(t, map[string]interface{}{"mm": float64(4), "yyyy": float64(2028)}, input["expiry"])
	assert.Equal(t, "123", input["csc"])
	address, ok := input["billingAddress"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "123 Street Rd", address["addressLine1"])
	assert.NotContains(t, address, "addressLine2")
}

func TestSimulateAuthorizationOmitsAbsentOptionals(t *testing.T) {
	backend := &simulatorBackend{t: t, respond: map[string]interface{}{
		"SimulateAuthorization": dataResponse("simulateAuthorization", map[string]interface{}{
			"id":               "auth-1",
			"approved":         true,
			"billedAmount":     map[string]interface{}{"currency": "USD", "amount": 100},
			"createdAtEpochMs": 1,
			"updatedAtEpochMs": 1,
		}),
	}}
	client := newTestClient(t, backend)

	_, err := client.SimulateAuthorization(context.Background(), cardsim.SimulateAuthorizationInput{
		Pan:        "4242424242424242",
		Amount:     100,
		MerchantID: "merchant-1",
		Expiry:     cardsim.Expiry{Mm: 4, Yyyy: 2028},
	})
	require.NoError(t, err)

	input := backend.requests[0].Variables["input"].(map[string]interface{})
	assert.NotContains(t, input, "billingAddress")
	assert.NotContains(t, input, "csc")
}

func TestSimulateAuthorizationDeclined(t *testing.T) {
	backend := &simulatorBackend{t: t, respond: map[string]interface{}{
		"SimulateAuthorization": dataResponse("simulateAuthorization", map[string]interface{}{
			"id":               "auth-2",
			"approved":         false,
			"billedAmount":     map[string]interface{}{"currency": "USD", "amount": 0},
			"declineReason":    "AVS_CHECK_FAILED",
			"createdAtEpochMs": 1700000000000,
			"updatedAtEpochMs": 1700000000000,
		}),
	}}
	client := newTestClient(t, backend)

	resp, err := client.SimulateAuthorization(context.Background(), cardsim.SimulateAuthorizationInput{
		Pan:        "4242424242424242",
		Amount:     100,
		MerchantID: "merchant-1",
		Expiry:     cardsim.Expiry{Mm: 4, Yyyy: 2028},
	})
	require.NoError(t, err)

	// A decline is a successful simulation outcome, not an error.
	assert.False(t, resp.Approved)
	require.NotNil(t, resp.DeclineReason)
	assert.Equal(t, "AVS_CHECK_FAILED", *resp.DeclineReason)
}

func TestSimulateIncrementalAuthorization(t *testing.T) {
	backend := &simulatorBackend{t: t, respond: map[string]interface{}{
		"SimulateIncrementalAuthorization": dataResponse("simulateIncrementalAuthorization", map[string]interface{}{
			"id":               "auth-1",
			"approved":         true,
			"billedAmount":     map[string]interface{}{"currency": "USD", "amount": 500},
			"createdAtEpochMs": 1700000000000,
			"updatedAtEpochMs": 1700000001000,
		}),
	}}
	client := newTestClient(t, backend)

	resp, err := client.SimulateIncrementalAuthorization(context.Background(), cardsim.SimulateIncrementalAuthorizationInput{
		Amount:          500,
		AuthorizationID: "auth-1",
	})
	require.NoError(t, err)

	assert.True(t, resp.Approved)
	input := backend.requests[0].Variables["input"].(map[string]interface{})
	assert.Equal(t, "auth-1", input["authorizationId"])
	assert.Equal(t, float64(500), input["amount"])
}

func TestSimulateReversalExcessive(t *testing.T) {
	backend := &simulatorBackend{t: t, respond: map[string]interface{}{
		"SimulateReversal": errorTypeResponse("sudoplatform.virtual-cards.ExcessiveReversalError"),
	}}
	client := newTestClient(t, backend)

	_, err := client.SimulateReversal(context.Background(), cardsim.SimulateReversalInput{
		Amount:          99999,
		AuthorizationID: "auth-1",
	})

	var sdkErr *errors.Error
	require.True(t, errors.As(err, &sdkErr))
	assert.Equal(t, errors.ExcessiveReversal, sdkErr.Code)
}

func TestSimulateAuthorizationExpiry(t *testing.T) {
	backend := &simulatorBackend{t: t, respond: map[string]interface{}{
		"SimulateAuthorizationExpiry": dataResponse("simulateAuthorizationExpiry", map[string]interface{}{
			"id":               "auth-1",
			"createdAtEpochMs": 1700000000000,
			"updatedAtEpochMs": 1700000002000,
		}),
	}}
	client := newTestClient(t, backend)

	resp, err := client.SimulateAuthorizationExpiry(context.Background(), "auth-1")
	require.NoError(t, err)

	assert.Equal(t, "auth-1", resp.ID)
	assert.Equal(t, time.UnixMilli(1700000002000).UTC(), resp.UpdatedAt)
	input := backend.requests[0].Variables["input"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"authorizationId": "auth-1"}, input)
}

func TestSimulateAuthorizationExpiryAlreadyExpired(t *testing.T) {
	backend := &simulatorBackend{t: t, respond: map[string]interface{}{
		"SimulateAuthorizationExpiry": errorTypeResponse("sudoplatform.virtual-cards.AlreadyExpiredError"),
	}}
	client := newTestClient(t, backend)

	_, err := client.SimulateAuthorizationExpiry(context.Background(), "auth-1")

	var sdkErr *errors.Error
	require.True(t, errors.As(err, &sdkErr))
	assert.Equal(t, errors.AlreadyExpired, sdkErr.Code)
}

func TestSimulateRefundExcessive(t *testing.T) {
	backend := &simulatorBackend{t: t, respond: map[string]interface{}{
		"SimulateRefund": errorTypeResponse("sudoplatform.virtual-cards.ExcessiveRefundError"),
	}}
	client := newTestClient(t, backend)

	_, err := client.SimulateRefund(context.Background(), cardsim.SimulateRefundInput{
		Amount:  99999,
		DebitID: "debit-1",
	})

	var sdkErr *errors.Error
	require.True(t, errors.As(err, &sdkErr))
	assert.Equal(t, errors.ExcessiveRefund, sdkErr.Code)
}

func TestSimulateDebitOverAuthorizedAmount(t *testing.T) {
	// The service allows settling for more than was authorized; the client
	// must not enforce an upper bound.
	backend := &simulatorBackend{t: t, respond: map[string]interface{}{
		"SimulateDebit": dataResponse("simulateDebit", map[string]interface{}{
			"id":               "debit-1",
			"billedAmount":     map[string]interface{}{"currency": "USD", "amount": 2000},
			"createdAtEpochMs": 1700000000000,
			"updatedAtEpochMs": 1700000000000,
		}),
	}}
	client := newTestClient(t, backend)

	resp, err := client.SimulateDebit(context.Background(), cardsim.SimulateDebitInput{
		Amount:          2000,
		AuthorizationID: "auth-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "debit-1", resp.ID)
	assert.Equal(t, 2000, resp.BilledAmount.Amount)
	input := backend.requests[0].Variables["input"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"amount": float64(2000), "authorizationId": "auth-1"}, input)
}

func TestSimulateRefund(t *testing.T) {
	backend := &simulatorBackend{t: t, respond: map[string]interface{}{
		"SimulateRefund": dataResponse("simulateRefund", map[string]interface{}{
			"id":               "refund-1",
			"billedAmount":     map[string]interface{}{"currency": "USD", "amount": 300},
			"createdAtEpochMs": 1700000000000,
			"updatedAtEpochMs": 1700000000000,
		}),
	}}
	client := newTestClient(t, backend)

	resp, err := client.SimulateRefund(context.Background(), cardsim.SimulateRefundInput{
		Amount:  300,
		DebitID: "debit-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "refund-1", resp.ID)
	input := backend.requests[0].Variables["input"].(map[string]interface{})
	assert.Equal(t, "debit-1", input["debitId"])
}

func TestMissingPayloadIsOperationFailure(t *testing.T) {
	backend := &simulatorBackend{t: t, respond: map[string]interface{}{
		"SimulateReversal": map[string]interface{}{
			"data": map[string]interface{}{"simulateReversal": nil},
		},
	}}
	client := newTestClient(t, backend)

	_, err := client.SimulateReversal(context.Background(), cardsim.SimulateReversalInput{
		Amount:          100,
		AuthorizationID: "auth-1",
	})

	var sdkErr *errors.Error
	require.True(t, errors.As(err, &sdkErr))
	assert.Equal(t, errors.SimulateReversalFailed, sdkErr.Code)
}

func TestGetSimulatorMerchants(t *testing.T) {
	backend := &simulatorBackend{t: t, respond: map[string]interface{}{
		"ListSimulatorMerchants": dataResponse("listSimulatorMerchants", []map[string]interface{}{
			{
				"id":                         "merchant-1",
				"description":                "Simulated storefront",
				"name":                       "Brick and Mortar",
				"mcc":                        "5999",
				"city":                       "Salt Lake City",
				"state":                      "UT",
				"postalCode":                 "84044",
				"country":                    "US",
				"currency":                   "USD",
				"declineAfterAuthorization":  false,
				"declineBeforeAuthorization": true,
				"createdAtEpochMs":           1700000000000,
				"updatedAtEpochMs":           1700000000000,
			},
		}),
	}}
	client := newTestClient(t, backend)

	merchants, err := client.GetSimulatorMerchants(context.Background())
	require.NoError(t, err)

	require.Len(t, merchants, 1)
	m := merchants[0]
	assert.Equal(t, "merchant-1", m.ID)
	assert.Equal(t, "Brick and Mortar", m.Name)
	assert.Equal(t, "5999", m.Mcc)
	require.NotNil(t, m.State)
	assert.Equal(t, "UT", *m.State)
	assert.True(t, m.DeclineBeforeAuthorization)
	assert.False(t, m.DeclineAfterAuthorization)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), m.CreatedAt)
}

func TestGetSimulatorMerchantsEmpty(t *testing.T) {
	backend := &simulatorBackend{t: t, respond: map[string]interface{}{
		"ListSimulatorMerchants": dataResponse("listSimulatorMerchants", []map[string]interface{}{}),
	}}
	client := newTestClient(t, backend)

	merchants, err := client.GetSimulatorMerchants(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, merchants)
	assert.Empty(t, merchants)
}

func TestGetSimulatorConversionRates(t *testing.T) {
	backend := &simulatorBackend{t: t, respond: map[string]interface{}{
		"ListSimulatorConversionRates": dataResponse("listSimulatorConversionRates", []map[string]interface{}{
			{"currency": "USD", "amount": 100},
			{"currency": "AUD", "amount": 155},
		}),
	}}
	client := newTestClient(t, backend)

	rates, err := client.GetSimulatorConversionRates(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []cardsim.CurrencyAmount{
		{Currency: "USD", Amount: 100},
		{Currency: "AUD", Amount: 155},
	}, rates)
}

func TestGetSimulatorConversionRatesMissingList(t *testing.T) {
	backend := &simulatorBackend{t: t, respond: map[string]interface{}{
		"ListSimulatorConversionRates": map[string]interface{}{
			"data": map[string]interface{}{"listSimulatorConversionRates": nil},
		},
	}}
	client := newTestClient(t, backend)

	_, err := client.GetSimulatorConversionRates(context.Background())

	var sdkErr *errors.Error
	require.True(t, errors.As(err, &sdkErr))
	assert.Equal(t, errors.GetSimulatorConversionRatesFailed, sdkErr.Code)
}

func TestResetSucceeds(t *testing.T) {
	backend := &simulatorBackend{t: t, respond: map[string]interface{}{}}
	client := newTestClient(t, backend)

	require.NoError(t, client.Reset(context.Background()))
	assert.Zero(t, backend.calls)
}
