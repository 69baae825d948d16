package models

import (
	"github.com/shopspring/decimal"
)

// ExchangeRates holds central-bank style direct quotes: how many UAH
// one USD and one EUR cost. The USD->EUR rate is therefore composed
// through the local currency (usd/eur).
type ExchangeRates struct {
	Usd      decimal.Decimal `json:"usd"`
	Eur      decimal.Decimal `json:"eur"`
	IsManual bool            `json:"is_manual"`
}

const divisionScale = 8

// rateOrOne degrades an uninitialized (zero or negative) rate to 1 so
// an empty settings record can never produce a division by zero.
func rateOrOne(rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() || rate.IsNegative() {
		return decimal.NewFromInt(1)
	}
	return rate
}

// ToDisplay converts a stored USD amount into the given display
// currency. The result is NOT rounded; round only at presentation time
// so rounding error does not compound across lines.
func ToDisplay(amountUsd decimal.Decimal, currency CurrencyCode, rates ExchangeRates) decimal.Decimal {
	switch currency {
	case CurrencyUAH:
		return amountUsd.Mul(rateOrOne(rates.Usd))
	case CurrencyEUR:
		return amountUsd.Mul(rateOrOne(rates.Usd)).DivRound(rateOrOne(rates.Eur), divisionScale)
	default:
		return amountUsd
	}
}

// ToUSD converts an amount in a display/payment currency back into the
// storage currency. Exact inverse of ToDisplay up to division scale.
func ToUSD(amountLocal decimal.Decimal, currency CurrencyCode, rates ExchangeRates) decimal.Decimal {
	switch currency {
	case CurrencyUAH:
		return amountLocal.DivRound(rateOrOne(rates.Usd), divisionScale)
	case CurrencyEUR:
		return amountLocal.Mul(rateOrOne(rates.Eur)).DivRound(rateOrOne(rates.Usd), divisionScale)
	default:
		return amountLocal
	}
}

// DisplayRate returns the USD->currency multiplier, 1 for USD itself.
func DisplayRate(currency CurrencyCode, rates ExchangeRates) decimal.Decimal {
	return ToDisplay(decimal.NewFromInt(1), currency, rates)
}

// RoundDisplay rounds for rendering (2 decimal places).
func RoundDisplay(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
