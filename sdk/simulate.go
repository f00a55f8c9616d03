package sdk

import (
	"context"

	"github.com/cardsim/sdk-go"
	"github.com/cardsim/sdk-go/core/graphql"
	"github.com/cardsim/sdk-go/errors"
)

// SimulateAuthorization simulates a merchant authorizing an amount against a
// card. Whether the authorization is approved or declined is a successful
// outcome either way; inspect Approved and DeclineReason on the response.
func (c *Client) SimulateAuthorization(ctx context.Context, input cardsim.SimulateAuthorizationInput) (*cardsim.SimulateAuthorizationResponse, error) {
	request := simulateAuthorizationRequest{
		Pan:        input.Pan,
		Amount:     input.Amount,
		MerchantID: input.MerchantID,
		Expiry: expiryInput{
			Mm:   input.Expiry.Mm,
			Yyyy: input.Expiry.Yyyy,
		},
		Csc: input.CSC,
	}
	if input.BillingAddress != nil {
		request.BillingAddress = &enteredAddressInput{
			AddressLine1: input.BillingAddress.AddressLine1,
			AddressLine2: input.BillingAddress.AddressLine2,
			City:         input.BillingAddress.City,
			State:        input.BillingAddress.State,
			PostalCode:   input.BillingAddress.PostalCode,
			Country:      input.BillingAddress.Country,
		}
	}

	var data simulateAuthorizationData
	err := c.gql.Mutate(ctx, graphql.Request{
		OpName:    opSimulateAuthorization,
		Query:     simulateAuthorizationDocument,
		Variables: map[string]interface{}{"input": request},
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.SimulateAuthorization == nil {
		return nil, errors.New(errors.SimulateAuthorizationFailed, "response contained no authorization", nil)
	}
	return authorizationToPublic(data.SimulateAuthorization), nil
}

// SimulateIncrementalAuthorization simulates a merchant incrementing a
// previous authorization by a further amount.
func (c *Client) SimulateIncrementalAuthorization(ctx context.Context, input cardsim.SimulateIncrementalAuthorizationInput) (*cardsim.SimulateAuthorizationResponse, error) {
	var data simulateIncrementalAuthorizationData
	err := c.gql.Mutate(ctx, graphql.Request{
		OpName: opSimulateIncrementalAuthorization,
		Query:  simulateIncrementalAuthorizationDocument,
		Variables: map[string]interface{}{"input": simulateIncrementalAuthorizationRequest{
			Amount:          input.Amount,
			AuthorizationID: input.AuthorizationID,
		}},
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.SimulateIncrementalAuthorization == nil {
		return nil, errors.New(errors.SimulateIncrementalAuthorizationFailed, "response contained no authorization", nil)
	}
	return authorizationToPublic(data.SimulateIncrementalAuthorization), nil
}

// SimulateReversal simulates a merchant reversing all or part of an
// outstanding authorization. Reversing more than remains outstanding is an
// ExcessiveReversal error.
func (c *Client) SimulateReversal(ctx context.Context, input cardsim.SimulateReversalInput) (*cardsim.SimulateReversalResponse, error) {
	var data simulateReversalData
	err := c.gql.Mutate(ctx, graphql.Request{
		OpName: opSimulateReversal,
		Query:  simulateReversalDocument,
		Variables: map[string]interface{}{"input": simulateReversalRequest{
			Amount:          input.Amount,
			AuthorizationID: input.AuthorizationID,
		}},
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.SimulateReversal == nil {
		return nil, errors.New(errors.SimulateReversalFailed, "response contained no reversal", nil)
	}
	result := data.SimulateReversal
	return &cardsim.SimulateReversalResponse{
		ID:           result.ID,
		BilledAmount: result.BilledAmount.toPublic(),
		CreatedAt:    epochMsToTime(result.CreatedAtEpochMs),
		UpdatedAt:    epochMsToTime(result.UpdatedAtEpochMs),
	}, nil
}

// SimulateAuthorizationExpiry simulates the expiry of an outstanding
// authorization, as the network does when a merchant never completes it.
// Expiring an authorization that already expired is an AlreadyExpired error.
func (c *Client) SimulateAuthorizationExpiry(ctx context.Context, authorizationID string) (*cardsim.SimulateAuthorizationExpiryResponse, error) {
	var data simulateAuthorizationExpiryData
	err := c.gql.Mutate(ctx, graphql.Request{
		OpName: opSimulateAuthorizationExpiry,
		Query:  simulateAuthorizationExpiryDocument,
		Variables: map[string]interface{}{"input": simulateAuthorizationExpiryRequest{
			AuthorizationID: authorizationID,
		}},
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.SimulateAuthorizationExpiry == nil {
		return nil, errors.New(errors.SimulateAuthorizationExpiryFailed, "response contained no expiry", nil)
	}
	result := data.SimulateAuthorizationExpiry
	return &cardsim.SimulateAuthorizationExpiryResponse{
		ID:        result.ID,
		CreatedAt: epochMsToTime(result.CreatedAtEpochMs),
		UpdatedAt: epochMsToTime(result.UpdatedAtEpochMs),
	}, nil
}

// SimulateRefund simulates a merchant refunding all or part of a settled
// debit. Refunding more than was debited is an ExcessiveRefund error.
func (c *Client) SimulateRefund(ctx context.Context, input cardsim.SimulateRefundInput) (*cardsim.SimulateRefundResponse, error) {
	var data simulateRefundData
	err := c.gql.Mutate(ctx, graphql.Request{
		OpName: opSimulateRefund,
		Query:  simulateRefundDocument,
		Variables: map[string]interface{}{"input": simulateRefundRequest{
			Amount:  input.Amount,
			DebitID: input.DebitID,
		}},
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.SimulateRefund == nil {
		return nil, errors.New(errors.SimulateRefundFailed, "response contained no refund", nil)
	}
	result := data.SimulateRefund
	return &cardsim.SimulateRefundResponse{
		ID:           result.ID,
		BilledAmount: result.BilledAmount.toPublic(),
		CreatedAt:    epochMsToTime(result.CreatedAtEpochMs),
		UpdatedAt:    epochMsToTime(result.UpdatedAtEpochMs),
	}, nil
}

// SimulateDebit simulates a merchant settling all or part of an outstanding
// authorization as a debit. The network permits settling for more than was
// authorized, so no upper bound is enforced here.
func (c *Client) SimulateDebit(ctx context.Context, input cardsim.SimulateDebitInput) (*cardsim.SimulateDebitResponse, error) {
	var data simulateDebitData
	err := c.gql.Mutate(ctx, graphql.Request{
		OpName: opSimulateDebit,
		Query:  simulateDebitDocument,
		Variables: map[string]interface{}{"input": simulateDebitRequest{
			Amount:          input.Amount,
			AuthorizationID: input.AuthorizationID,
		}},
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.SimulateDebit == nil {
		return nil, errors.New(errors.SimulateDebitFailed, "response contained no debit", nil)
	}
	result := data.SimulateDebit
	return &cardsim.SimulateDebitResponse{
		ID:           result.ID,
		BilledAmount: result.BilledAmount.toPublic(),
		CreatedAt:    epochMsToTime(result.CreatedAtEpochMs),
		UpdatedAt:    epochMsToTime(result.UpdatedAtEpochMs),
	}, nil
}

func authorizationToPublic(result *authorizationResult) *cardsim.SimulateAuthorizationResponse {
	return &cardsim.SimulateAuthorizationResponse{
		ID:            result.ID,
		Approved:      result.Approved,
		BilledAmount:  result.BilledAmount.toPublic(),
		DeclineReason: result.DeclineReason,
		CreatedAt:     epochMsToTime(result.CreatedAtEpochMs),
		UpdatedAt:     epochMsToTime(result.UpdatedAtEpochMs),
	}
}
