package main

import (
	"context"
	"log"

	"bitbucket.org/stepfield/shoes_backend/config"
	"bitbucket.org/stepfield/shoes_backend/models"
)

// One-shot backfill for data imported from the old JSON store. Safe to
// re-run; it only touches orders that still miss a number.
func main() {
	config.ConnectDatabaseWithRetry()

	if err := models.MigrateTable(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := models.MigrateLegacyOrders(context.Background()); err != nil {
		log.Fatalf("backfill: %v", err)
	}
	log.Println("legacy order migration complete")
}
