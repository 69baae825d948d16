package models_test

import (
	"testing"

	"bitbucket.org/stepfield/shoes_backend/models"
	"github.com/shopspring/decimal"
)

func testRates() models.ExchangeRates {
	return models.ExchangeRates{
		Usd: decimal.NewFromInt(41),
		Eur: decimal.NewFromInt(44),
	}
}

func TestToDisplayConvertsThroughLocalCurrency(t *testing.T) {
	rates := testRates()
	cases := []struct {
		amountUsd string
		currency  models.CurrencyCode
		expected  string
	}{
		{"100", models.CurrencyUSD, "100"},
		{"100", models.CurrencyUAH, "4100"},
		{"1", models.CurrencyUAH, "41"},
		// 44 USD buys 44*41 UAH which buys 41 EUR
		{"44", models.CurrencyEUR, "41"},
	}
	for _, tc := range cases {
		got := models.ToDisplay(decimal.RequireFromString(tc.amountUsd), tc.currency, rates)
		if !got.Equal(decimal.RequireFromString(tc.expected)) {
			t.Fatalf("ToDisplay(%s, %s) expected %s, got %s", tc.amountUsd, tc.currency, tc.expected, got)
		}
	}
}

func TestToUSDEurPrepayment(t *testing.T) {
	// 50 EUR at usd=41, eur=44: 50*44/41 = 53.65853...
	got := models.ToUSD(decimal.NewFromInt(50), models.CurrencyEUR, testRates())
	if models.RoundDisplay(got).String() != "53.66" {
		t.Fatalf("50 EUR expected 53.66 USD rounded, got %s", models.RoundDisplay(got))
	}
}

func TestToUSDIsInverseOfToDisplay(t *testing.T) {
	rates := testRates()
	for _, currency := range []models.CurrencyCode{models.CurrencyUSD, models.CurrencyEUR, models.CurrencyUAH} {
		amount := decimal.RequireFromString("123.45")
		back := models.ToUSD(models.ToDisplay(amount, currency, rates), currency, rates)
		if !models.RoundDisplay(back).Equal(models.RoundDisplay(amount)) {
			t.Fatalf("%s round trip expected %s, got %s", currency, amount, back)
		}
	}
}

func TestZeroRateDegradesToIdentity(t *testing.T) {
	var empty models.ExchangeRates
	amount := decimal.NewFromInt(70)
	if got := models.ToDisplay(amount, models.CurrencyUAH, empty); !got.Equal(amount) {
		t.Fatalf("zero usd rate: expected %s, got %s", amount, got)
	}
	if got := models.ToUSD(amount, models.CurrencyEUR, empty); !got.Equal(amount) {
		t.Fatalf("zero eur rate: expected %s, got %s", amount, got)
	}
}

func TestDisplayRate(t *testing.T) {
	rates := testRates()
	if got := models.DisplayRate(models.CurrencyUSD, rates); !got.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("USD rate expected 1, got %s", got)
	}
	if got := models.DisplayRate(models.CurrencyUAH, rates); !got.Equal(decimal.NewFromInt(41)) {
		t.Fatalf("UAH rate expected 41, got %s", got)
	}
}
