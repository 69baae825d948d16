package models_test

import (
	"testing"

	"bitbucket.org/stepfield/shoes_backend/models"
	"github.com/shopspring/decimal"
)

func TestPriceOrderAggregates(t *testing.T) {
	items := testItems(t) // 5 pairs at 20
	totals := models.PriceOrder(items, decimal.NewFromInt(10))
	if !totals.Gross.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("gross expected 100, got %s", totals.Gross)
	}
	if !totals.Net.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("net expected 90, got %s", totals.Net)
	}
}

func TestPriceOrderNetClampsAtZero(t *testing.T) {
	items := testItems(t)
	totals := models.PriceOrder(items, decimal.NewFromInt(500))
	if !totals.Net.IsZero() {
		t.Fatalf("over-discounted order expected net 0, got %s", totals.Net)
	}
	// negative lump is ignored, not credited
	totals = models.PriceOrder(items, decimal.NewFromInt(-50))
	if !totals.Net.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("negative lump expected net 100, got %s", totals.Net)
	}
}

func TestApplyPayment(t *testing.T) {
	net := decimal.NewFromInt(100)
	summary := models.ApplyPayment(net, decimal.NewFromInt(50), models.CurrencyEUR, testRates())
	if models.RoundDisplay(summary.PrepaymentUsd).String() != "53.66" {
		t.Fatalf("50 EUR expected 53.66 USD, got %s", summary.PrepaymentUsd)
	}
	if models.RoundDisplay(summary.RemainingUsd).String() != "46.34" {
		t.Fatalf("remaining expected 46.34, got %s", summary.RemainingUsd)
	}
}

func TestApplyPaymentRemainingClampsAtZero(t *testing.T) {
	summary := models.ApplyPayment(decimal.NewFromInt(30), decimal.NewFromInt(100), models.CurrencyUSD, testRates())
	if !summary.RemainingUsd.IsZero() {
		t.Fatalf("overpayment expected remaining 0, got %s", summary.RemainingUsd)
	}
}

func TestLegacyPrepaymentUsd(t *testing.T) {
	cases := []struct {
		name     string
		order    models.Order
		expected string
	}{
		{
			name:     "stored conversion wins",
			order:    models.Order{PrepaymentUsd: decimal.NewFromInt(53), PaymentAmount: decimal.NewFromInt(50), PaymentCurrency: models.CurrencyEUR},
			expected: "53",
		},
		{
			name:     "usd face value",
			order:    models.Order{PaymentAmount: decimal.NewFromInt(40), PaymentCurrency: models.CurrencyUSD},
			expected: "40",
		},
		{
			name:     "missing currency treated as usd",
			order:    models.Order{PaymentAmount: decimal.NewFromInt(40)},
			expected: "40",
		},
		{
			name:     "non-usd without conversion contributes zero",
			order:    models.Order{PaymentAmount: decimal.NewFromInt(50), PaymentCurrency: models.CurrencyEUR},
			expected: "0",
		},
		{
			name:     "no payment",
			order:    models.Order{},
			expected: "0",
		},
	}
	for _, tc := range cases {
		if got := tc.order.LegacyPrepaymentUsd(); got.String() != tc.expected {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.expected, got)
		}
	}
}

func TestRemainingUsdClampsAtZero(t *testing.T) {
	order := models.Order{
		TotalAmount:     decimal.NewFromInt(30),
		PaymentAmount:   decimal.NewFromInt(100),
		PaymentCurrency: models.CurrencyUSD,
	}
	if got := order.RemainingUsd(); !got.IsZero() {
		t.Fatalf("expected 0, got %s", got)
	}
	order.PaymentAmount = decimal.NewFromInt(10)
	if got := order.RemainingUsd(); !got.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected 20, got %s", got)
	}
}
