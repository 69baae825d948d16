package models

import (
	"bitbucket.org/stepfield/shoes_backend/config"
	"github.com/shopspring/decimal"
)

// OrderTotals is the invoice arithmetic in storage currency (USD).
type OrderTotals struct {
	Gross        decimal.Decimal `json:"gross"`
	LineDiscount decimal.Decimal `json:"line_discount"`
	LumpDiscount decimal.Decimal `json:"lump_discount"`
	Net          decimal.Decimal `json:"net"`
}

// PaymentSummary is a prepayment converted to USD plus what remains.
type PaymentSummary struct {
	PrepaymentUsd decimal.Decimal `json:"prepayment_usd"`
	RemainingUsd  decimal.Decimal `json:"remaining_usd"`
}

// PriceOrder aggregates cart lines and discounts into invoice totals.
// Net is floored at zero: over-discounting is clamped, not an error.
func PriceOrder(items []OrderItem, lumpDiscount decimal.Decimal) OrderTotals {
	gross := decimal.Zero
	lineDiscount := decimal.Zero
	for i := range items {
		qty := decimal.NewFromInt(int64(items[i].Qty))
		gross = gross.Add(items[i].UnitPrice.Mul(qty))
		lineDiscount = lineDiscount.Add(items[i].UnitDiscount.Mul(qty))
	}
	if lumpDiscount.IsNegative() {
		lumpDiscount = decimal.Zero
	}
	net := gross.Sub(lineDiscount).Sub(lumpDiscount)
	if net.IsNegative() {
		net = decimal.Zero
	}
	return OrderTotals{
		Gross:        gross,
		LineDiscount: lineDiscount,
		LumpDiscount: lumpDiscount,
		Net:          net,
	}
}

// ApplyPayment converts a prepayment into USD using the payment
// currency's rate and computes the remaining balance, floored at zero.
func ApplyPayment(netUsd decimal.Decimal, amount decimal.Decimal, currency CurrencyCode, rates ExchangeRates) PaymentSummary {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	prepayment := ToUSD(amount, currency, rates)
	remaining := netUsd.Sub(prepayment)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return PaymentSummary{
		PrepaymentUsd: prepayment,
		RemainingUsd:  remaining,
	}
}

// LegacyPrepaymentUsd resolves the prepayment of records written before
// the USD conversion was stored. USD payments count at face value; for
// any other currency there is nothing safe to assume, so they
// contribute zero and the gap is logged for the migration report.
func (order *Order) LegacyPrepaymentUsd() decimal.Decimal {
	if !order.PrepaymentUsd.IsZero() {
		return order.PrepaymentUsd
	}
	if order.PaymentAmount.IsZero() {
		return decimal.Zero
	}
	if order.PaymentCurrency == CurrencyUSD || order.PaymentCurrency == "" {
		return order.PaymentAmount
	}
	logger := config.GetLogger()
	logger.WithField("order_no", order.OrderNo).
		Warn("non-USD prepayment without stored conversion treated as zero")
	return decimal.Zero
}

// RemainingUsd is the open balance of a saved order.
func (order *Order) RemainingUsd() decimal.Decimal {
	remaining := order.TotalAmount.Sub(order.LegacyPrepaymentUsd())
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
