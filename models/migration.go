package models

import (
	"context"

	"bitbucket.org/stepfield/shoes_backend/config"
)

// MigrateTable creates/updates the schema for every model.
func MigrateTable() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&Settings{},
		&SizeGrid{},
		&BoxTemplate{},
		&Product{},
		&Customer{},
		&Order{},
		&OrderItem{},
	)
}

// MigrateLegacyOrders is the one-time, idempotent backfill for records
// imported from the old JSON store: orders without a sequential number
// get one in creation order, and non-USD prepayments lacking a stored
// USD conversion are counted and reported as a data gap (they are NOT
// guessed from current rates).
func MigrateLegacyOrders(ctx context.Context) error {
	logger := config.GetLogger()
	db := config.GetDB()

	var missing []*Order
	if err := db.WithContext(ctx).
		Where("order_no = 0 OR order_no IS NULL").
		Order("created_at").Find(&missing).Error; err != nil {
		return err
	}

	if len(missing) > 0 {
		var maxNo *int64
		if err := db.WithContext(ctx).Model(&Order{}).
			Select("max(order_no)").Scan(&maxNo).Error; err != nil {
			return err
		}
		next := int64(1)
		if maxNo != nil {
			next = *maxNo + 1
		}
		for _, order := range missing {
			if err := db.WithContext(ctx).Model(&Order{}).
				Where("id = ?", order.ID).Update("order_no", next).Error; err != nil {
				return err
			}
			next++
		}
		logger.WithField("count", len(missing)).Info("backfilled missing order numbers")
	}

	var gapCount int64
	if err := db.WithContext(ctx).Model(&Order{}).
		Where("payment_currency <> ? AND payment_amount > 0 AND prepayment_usd = 0", CurrencyUSD).
		Count(&gapCount).Error; err != nil {
		return err
	}
	if gapCount > 0 {
		logger.WithField("count", gapCount).
			Warn("orders with non-USD prepayment and no stored USD conversion; these count as zero until corrected manually")
	}

	return nil
}
