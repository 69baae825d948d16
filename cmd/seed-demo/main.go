package main

import (
	"context"
	"log"

	"bitbucket.org/stepfield/shoes_backend/config"
	"bitbucket.org/stepfield/shoes_backend/models"
	"github.com/shopspring/decimal"
)

// Seeds a small demo dataset for local frontend work: one grid with two
// box types, two products, a customer and an order. Idempotent enough
// for a fresh database; re-running against seeded data fails on the
// uniqueness checks, which is fine for its purpose.
func main() {
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	ctx := context.Background()

	if err := models.MigrateTable(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	grid, err := models.CreateSizeGrid(ctx, &models.NewSizeGrid{Name: "Men 40-45", Min: "40", Max: "45"})
	if err != nil {
		log.Fatalf("grid: %v", err)
	}
	if _, err := models.AddBoxType(ctx, grid.ID, 6); err != nil {
		log.Fatalf("box: %v", err)
	}
	for size := 40; size <= 45; size++ {
		if _, err := models.SetBoxContent(ctx, grid.ID, 6, size, 1); err != nil {
			log.Fatalf("box content: %v", err)
		}
	}
	if _, err := models.AddBoxType(ctx, grid.ID, 8); err != nil {
		log.Fatalf("box: %v", err)
	}

	sneaker, err := models.CreateProduct(ctx, &models.NewProduct{
		Sku: "SN-1001", Color: "black", Price: decimal.NewFromInt(20), SizeGridId: grid.ID,
	})
	if err != nil {
		log.Fatalf("product: %v", err)
	}
	if _, err := models.CreateProduct(ctx, &models.NewProduct{
		Sku: "SN-1001", Color: "white", Price: decimal.NewFromInt(22), SizeGridId: grid.ID,
	}); err != nil {
		log.Fatalf("product: %v", err)
	}

	customer, err := models.CreateCustomer(ctx, &models.NewCustomer{
		Name: "Demo Trade LLC", City: "Kharkiv", Phone: "+380 50 123 45 67",
	})
	if err != nil {
		log.Fatalf("customer: %v", err)
	}

	order, err := models.CreateOrder(ctx, &models.NewOrder{
		CustomerId: customer.ID,
		Items: []models.NewOrderItem{
			{ProductId: sneaker.ID, Sizes: models.SizeQuantities{40: 1, 42: 2, 44: 1}},
		},
		PaymentAmount:   decimal.NewFromInt(50),
		PaymentCurrency: models.CurrencyEUR,
	})
	if err != nil {
		log.Fatalf("order: %v", err)
	}
	log.Printf("seeded order #%d", order.OrderNo)
}
