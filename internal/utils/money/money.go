package money

import "github.com/shopspring/decimal"

// CurrencyScale is the decimal precision of the platform currency.
const CurrencyScale = 2

// Round rounds an amount to the platform currency scale.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(CurrencyScale)
}

// PercentOf computes pct% of amount at currency scale. Used for withdrawal
// fees and top-up commission quotes.
// Example: PercentOf(200, 2) returns 4.00.
func PercentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(pct).Div(decimal.NewFromInt(100)))
}
