// Package pricing maps provider-quoted fiat amounts to credited in-game
// currency quantities. Each provider has its own table because the business
// credits different quantities per rail for the same fiat price point.
package pricing

import "errors"

// ErrUnknownPrice means the quoted amount has no configured price point.
// Callers must reject the event; crediting zero would hide a data-integrity
// anomaly.
var ErrUnknownPrice = errors.New("unknown price point")

type Provider string

const (
	ProviderPayPal   Provider = "paypal"
	ProviderCoinbase Provider = "coinbase"
)

var quantitiesByPrice = map[Provider]map[string]int64{
	ProviderPayPal: {
		"0.99":  250,
		"4.99":  1500,
		"13.99": 6000,
	},
	// Crypto rail credits a 10% bonus over the PayPal table.
	ProviderCoinbase: {
		"0.99":  275,
		"4.99":  1650,
		"13.99": 6600,
	},
}

// QuantityFor resolves the credited currency quantity for a quoted amount,
// given as the provider's exact decimal string (no normalization is applied).
func QuantityFor(provider Provider, quotedAmount string) (int64, error) {
	table, ok := quantitiesByPrice[provider]
	if !ok {
		return 0, ErrUnknownPrice
	}

	quantity, ok := table[quotedAmount]
	if !ok {
		return 0, ErrUnknownPrice
	}

	return quantity, nil
}
