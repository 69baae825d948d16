package models_test

import (
	"errors"
	"testing"

	"bitbucket.org/stepfield/shoes_backend/models"
	"bitbucket.org/stepfield/shoes_backend/utils"
	"github.com/shopspring/decimal"
)

func testProduct() *models.Product {
	return &models.Product{
		ID:    1,
		Sku:   "SN-1001",
		Color: "black",
		Price: decimal.NewFromInt(20),
	}
}

func TestBuildOrderItemDerivesEverythingFromSizes(t *testing.T) {
	item, err := models.BuildOrderItem(testProduct(), models.SizeQuantities{40: 1, 42: 2, 44: 1})
	if err != nil {
		t.Fatalf("BuildOrderItem: %v", err)
	}
	if item.Qty != 4 {
		t.Fatalf("Qty expected 4, got %d", item.Qty)
	}
	if item.Note != "40(1), 42(2), 44(1)" {
		t.Fatalf("unexpected note %q", item.Note)
	}
	if !item.TotalAmount.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("TotalAmount expected 80, got %s", item.TotalAmount)
	}
	if item.Sku != "SN-1001" || item.Color != "black" {
		t.Fatalf("product fields not copied: %+v", item)
	}
}

func TestBuildOrderItemRejectsEmptyQuantities(t *testing.T) {
	for _, sizes := range []models.SizeQuantities{nil, {}, {40: 0, 41: -1}} {
		if _, err := models.BuildOrderItem(testProduct(), sizes); !errors.Is(err, utils.ErrorEmptyQuantity) {
			t.Fatalf("sizes %v expected ErrorEmptyQuantity, got %v", sizes, err)
		}
	}
}

func TestRebuildReplacesNotPatches(t *testing.T) {
	item, err := models.BuildOrderItem(testProduct(), models.SizeQuantities{40: 5})
	if err != nil {
		t.Fatalf("BuildOrderItem: %v", err)
	}
	if err := item.Rebuild(models.SizeQuantities{42: 2}, decimal.NewFromInt(3)); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if item.Qty != 2 || item.Note != "42(2)" {
		t.Fatalf("old breakdown survived: qty=%d note=%q", item.Qty, item.Note)
	}
	// (20 - 3) * 2
	if !item.TotalAmount.Equal(decimal.NewFromInt(34)) {
		t.Fatalf("TotalAmount expected 34, got %s", item.TotalAmount)
	}
	if err := item.Rebuild(models.SizeQuantities{}, decimal.Zero); !errors.Is(err, utils.ErrorEmptyQuantity) {
		t.Fatalf("empty rebuild expected ErrorEmptyQuantity, got %v", err)
	}
}

func TestLineTotalClampsAtZero(t *testing.T) {
	item, err := models.BuildOrderItem(testProduct(), models.SizeQuantities{40: 2})
	if err != nil {
		t.Fatalf("BuildOrderItem: %v", err)
	}
	if err := item.Rebuild(models.SizeQuantities{40: 2}, decimal.NewFromInt(25)); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if !item.TotalAmount.IsZero() {
		t.Fatalf("over-discounted line expected 0, got %s", item.TotalAmount)
	}
}
