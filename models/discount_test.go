package models_test

import (
	"testing"

	"bitbucket.org/stepfield/shoes_backend/models"
	"github.com/shopspring/decimal"
)

func testItems(t *testing.T) []models.OrderItem {
	t.Helper()
	item, err := models.BuildOrderItem(testProduct(), models.SizeQuantities{40: 2, 42: 3})
	if err != nil {
		t.Fatalf("BuildOrderItem: %v", err)
	}
	return []models.OrderItem{*item}
}

func TestApplyUnitDiscountRecomputesSelectedLines(t *testing.T) {
	items := testItems(t)
	err := models.ApplyUnitDiscount(items, []int{0}, decimal.NewFromInt(2), models.CurrencyUSD, testRates())
	if err != nil {
		t.Fatalf("ApplyUnitDiscount: %v", err)
	}
	// (20 - 2) * 5
	if !items[0].TotalAmount.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected 90, got %s", items[0].TotalAmount)
	}
}

func TestApplyUnitDiscountOverwrites(t *testing.T) {
	items := testItems(t)
	if err := models.ApplyUnitDiscount(items, []int{0}, decimal.NewFromInt(5), models.CurrencyUSD, testRates()); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := models.ApplyUnitDiscount(items, []int{0}, decimal.NewFromInt(2), models.CurrencyUSD, testRates()); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if !items[0].UnitDiscount.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("discount accumulated: %s", items[0].UnitDiscount)
	}
}

func TestApplyUnitDiscountConvertsDisplayCurrency(t *testing.T) {
	items := testItems(t) // 5 pairs at 20
	// 41 UAH at usd=41 is 1 USD per pair
	err := models.ApplyUnitDiscount(items, []int{0}, decimal.NewFromInt(41), models.CurrencyUAH, testRates())
	if err != nil {
		t.Fatalf("ApplyUnitDiscount: %v", err)
	}
	if !items[0].UnitDiscount.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected stored discount 1 USD, got %s", items[0].UnitDiscount)
	}
	if !items[0].TotalAmount.Equal(decimal.NewFromInt(95)) {
		t.Fatalf("expected line total 95, got %s", items[0].TotalAmount)
	}
}

func TestApplyUnitDiscountRejectsBadIndex(t *testing.T) {
	items := testItems(t)
	if err := models.ApplyUnitDiscount(items, []int{1}, decimal.NewFromInt(1), models.CurrencyUSD, testRates()); err == nil {
		t.Fatal("out-of-range index expected error")
	}
	// nothing applied on a failed call
	if !items[0].UnitDiscount.IsZero() {
		t.Fatalf("discount leaked: %s", items[0].UnitDiscount)
	}
}

func TestApplyLumpDiscountConvertsAndOverwrites(t *testing.T) {
	var order models.Order
	models.ApplyLumpDiscount(&order, decimal.NewFromInt(4100), models.CurrencyUAH, testRates())
	if !order.LumpDiscount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("4100 UAH expected 100 USD, got %s", order.LumpDiscount)
	}
	models.ApplyLumpDiscount(&order, decimal.NewFromInt(-5), models.CurrencyUSD, testRates())
	if !order.LumpDiscount.IsZero() {
		t.Fatalf("negative input expected 0, got %s", order.LumpDiscount)
	}
}

func TestTotalDiscount(t *testing.T) {
	items := testItems(t)
	if err := models.ApplyUnitDiscount(items, []int{0}, decimal.NewFromInt(2), models.CurrencyUSD, testRates()); err != nil {
		t.Fatalf("ApplyUnitDiscount: %v", err)
	}
	// 2 * 5 pairs + 7 lump
	got := models.TotalDiscount(items, decimal.NewFromInt(7))
	if !got.Equal(decimal.NewFromInt(17)) {
		t.Fatalf("expected 17, got %s", got)
	}
}
