package sdk

import (
	"context"

	"github.com/cardsim/sdk-go"
	"github.com/cardsim/sdk-go/core/graphql"
	"github.com/cardsim/sdk-go/errors"
)

// GetSimulatorMerchants returns the merchants available for simulated
// transactions. An empty list is a valid result, distinct from the service
// omitting the list entirely.
func (c *Client) GetSimulatorMerchants(ctx context.Context) ([]cardsim.SimulatorMerchant, error) {
	var data listSimulatorMerchantsData
	err := c.gql.Query(ctx, graphql.Request{
		OpName: opListSimulatorMerchants,
		Query:  listSimulatorMerchantsDocument,
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.ListSimulatorMerchants == nil {
		return nil, errors.New(errors.GetSimulatorMerchantsFailed, "response contained no merchant list", nil)
	}

	merchants := make([]cardsim.SimulatorMerchant, 0, len(*data.ListSimulatorMerchants))
	for _, m := range *data.ListSimulatorMerchants {
		merchants = append(merchants, cardsim.SimulatorMerchant{
			ID:                         m.ID,
			Name:                       m.Name,
			Mcc:                        m.Mcc,
			City:                       m.City,
			State:                      m.State,
			PostalCode:                 m.PostalCode,
			Country:                    m.Country,
			Currency:                   m.Currency,
			DeclineAfterAuthorization:  m.DeclineAfterAuthorization,
			DeclineBeforeAuthorization: m.DeclineBeforeAuthorization,
			CreatedAt:                  epochMsToTime(m.CreatedAtEpochMs),
			UpdatedAt:                  epochMsToTime(m.UpdatedAtEpochMs),
		})
	}
	return merchants, nil
}

// GetSimulatorConversionRates returns the currency conversion rates the
// simulator applies when a merchant's currency differs from the card's.
func (c *Client) GetSimulatorConversionRates(ctx context.Context) ([]cardsim.CurrencyAmount, error) {
	var data listSimulatorConversionRatesData
	err := c.gql.Query(ctx, graphql.Request{
		OpName: opListSimulatorConversionRates,
		Query:  listSimulatorConversionRatesDocument,
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.ListSimulatorConversionRates == nil {
		return nil, errors.New(errors.GetSimulatorConversionRatesFailed, "response contained no conversion rate list", nil)
	}

	rates := make([]cardsim.CurrencyAmount, 0, len(*data.ListSimulatorConversionRates))
	for _, r := range *data.ListSimulatorConversionRates {
		rates = append(rates, r.toPublic())
	}
	return rates, nil
}
