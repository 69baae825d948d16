package models

import (
	"bitbucket.org/stepfield/shoes_backend/utils"
	"github.com/shopspring/decimal"
)

// Two discount mechanisms that compose additively at the order level:
// a lump discount attached to the order, and a per-pair discount on a
// caller-selected subset of lines. Both accept display-currency input
// and store USD. Re-applying either one overwrites, never accumulates.

// ApplyLumpDiscount sets the order-wide discount. Negative input is
// treated as zero.
func ApplyLumpDiscount(order *Order, amount decimal.Decimal, currency CurrencyCode, rates ExchangeRates) {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	order.LumpDiscount = ToUSD(amount, currency, rates)
}

// ApplyUnitDiscount sets the per-pair discount on the selected line
// indexes and recomputes their totals. Unselected lines are untouched.
func ApplyUnitDiscount(items []OrderItem, selected []int, amount decimal.Decimal, currency CurrencyCode, rates ExchangeRates) error {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	discountUsd := ToUSD(amount, currency, rates)

	for _, idx := range selected {
		if idx < 0 || idx >= len(items) {
			return utils.NewValidationError("selected", "line index out of range")
		}
	}
	for _, idx := range selected {
		items[idx].UnitDiscount = discountUsd
		items[idx].recompute()
	}
	return nil
}

// TotalDiscount is the order-level discount figure:
// sum of per-pair discounts times quantity, plus the lump discount.
// Always computed from current lines, never cached.
func TotalDiscount(items []OrderItem, lumpDiscount decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].UnitDiscount.Mul(decimal.NewFromInt(int64(items[i].Qty))))
	}
	if lumpDiscount.IsPositive() {
		total = total.Add(lumpDiscount)
	}
	return total
}
