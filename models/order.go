package models

import (
	"context"
	"time"

	"bitbucket.org/stepfield/shoes_backend/config"
	"bitbucket.org/stepfield/shoes_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem is one cart line: one product with its own per-size
// quantity breakdown and per-pair discount. Qty, Note and TotalAmount
// are always recomputed from Sizes and the discount, never patched.
type OrderItem struct {
	ID           int             `gorm:"primary_key" json:"id"`
	OrderId      int             `gorm:"index;not null" json:"order_id"`
	ProductId    int             `gorm:"index" json:"product_id"`
	Sku          string          `gorm:"size:100" json:"sku"`
	Color        string          `gorm:"size:100" json:"color"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	Qty          int             `gorm:"not null" json:"qty"`
	Sizes        SizeQuantities  `gorm:"type:json" json:"sizes"`
	Note         string          `gorm:"size:255" json:"note"`
	UnitDiscount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_discount"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
}

// Order is a persisted cart. OrderNo is the sequential human-facing
// number, assigned once at creation and stable across edits.
type Order struct {
	ID              int             `gorm:"primary_key" json:"id"`
	OrderNo         int64           `gorm:"uniqueIndex;not null" json:"order_no"`
	OrderDate       time.Time       `gorm:"not null" json:"order_date"`
	CustomerId      int             `gorm:"index;not null" json:"customer_id" binding:"required"`
	Items           []OrderItem     `gorm:"foreignKey:OrderId" json:"items"`
	LumpDiscount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"lump_discount"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	PaymentAmount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"payment_amount"`
	PaymentCurrency CurrencyCode    `gorm:"size:3;default:'USD'" json:"payment_currency"`
	PaymentRate     decimal.Decimal `gorm:"type:decimal(20,6);default:0" json:"payment_rate"`
	PrepaymentUsd   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"prepayment_usd"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewOrder carries order input. Discount amounts arrive in
// DiscountCurrency (USD when blank) and are converted to storage USD
// through the discount engine before anything is persisted.
type NewOrder struct {
	CustomerId       int             `json:"customer_id" binding:"required"`
	OrderDate        time.Time       `json:"order_date"`
	Items            []NewOrderItem  `json:"items" binding:"required"`
	LumpDiscount     decimal.Decimal `json:"lump_discount"`
	DiscountCurrency CurrencyCode    `json:"discount_currency"`
	PaymentAmount    decimal.Decimal `json:"payment_amount"`
	PaymentCurrency  CurrencyCode    `json:"payment_currency"`
}

type NewOrderItem struct {
	ProductId    int             `json:"product_id" binding:"required"`
	Sizes        SizeQuantities  `json:"sizes" binding:"required"`
	UnitDiscount decimal.Decimal `json:"unit_discount"`
}

// recompute rebuilds every derived field from Sizes and the discount.
// The stored line total never goes below zero.
func (item *OrderItem) recompute() {
	item.Sizes = item.Sizes.Normalize()
	item.Qty = item.Sizes.Total()
	item.Note = item.Sizes.Note()
	total := item.UnitPrice.Sub(item.UnitDiscount).Mul(decimal.NewFromInt(int64(item.Qty)))
	if total.IsNegative() {
		total = decimal.Zero
	}
	item.TotalAmount = total
}

// BuildOrderItem assembles a cart line from a product and a per-size
// quantity map. A line with no positive quantities is rejected.
func BuildOrderItem(product *Product, sizes SizeQuantities) (*OrderItem, error) {
	if sizes.Total() == 0 {
		return nil, utils.ErrorEmptyQuantity
	}
	item := OrderItem{
		ProductId: product.ID,
		Sku:       product.Sku,
		Color:     product.Color,
		UnitPrice: product.Price,
		Sizes:     sizes,
	}
	item.recompute()
	return &item, nil
}

// Rebuild replaces the size breakdown and discount and recomputes the
// line from scratch; no incremental patching.
func (item *OrderItem) Rebuild(sizes SizeQuantities, unitDiscount decimal.Decimal) error {
	if sizes.Total() == 0 {
		return utils.ErrorEmptyQuantity
	}
	if unitDiscount.IsNegative() {
		unitDiscount = decimal.Zero
	}
	item.Sizes = sizes
	item.UnitDiscount = unitDiscount
	item.recompute()
	return nil
}

func (input *NewOrder) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[Customer](ctx, input.CustomerId); err != nil {
		return err
	}
	if len(input.Items) == 0 {
		return utils.NewValidationError("items", "order has no lines")
	}
	if input.PaymentCurrency != "" && !input.PaymentCurrency.IsValid() {
		return utils.NewValidationError("payment_currency", "unknown currency")
	}
	if input.DiscountCurrency != "" && !input.DiscountCurrency.IsValid() {
		return utils.NewValidationError("discount_currency", "unknown currency")
	}
	return nil
}

func (input *NewOrder) discountCurrency() CurrencyCode {
	if input.DiscountCurrency == "" {
		return CurrencyUSD
	}
	return input.DiscountCurrency
}

// buildItems turns the raw input lines into priced cart lines. Per-pair
// discounts go through the discount engine so display-currency input is
// stored as USD.
func (input *NewOrder) buildItems(ctx context.Context, rates ExchangeRates) ([]OrderItem, error) {
	items := make([]OrderItem, 0, len(input.Items))
	for i, line := range input.Items {
		product, err := GetProduct(ctx, line.ProductId)
		if err != nil {
			return nil, err
		}
		item, err := BuildOrderItem(product, line.Sizes)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
		if err := ApplyUnitDiscount(items, []int{i}, line.UnitDiscount, input.discountCurrency(), rates); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// price fills the order's totals and payment fields from its items.
// LumpDiscount must already be set (in USD, via ApplyLumpDiscount).
func (order *Order) price(paymentAmount decimal.Decimal, paymentCurrency CurrencyCode, rates ExchangeRates) {
	if paymentCurrency == "" {
		paymentCurrency = CurrencyUSD
	}
	totals := PriceOrder(order.Items, order.LumpDiscount)
	payment := ApplyPayment(totals.Net, paymentAmount, paymentCurrency, rates)

	order.LumpDiscount = totals.LumpDiscount
	order.TotalAmount = totals.Net
	order.PaymentAmount = paymentAmount
	order.PaymentCurrency = paymentCurrency
	order.PaymentRate = DisplayRate(paymentCurrency, rates)
	order.PrepaymentUsd = payment.PrepaymentUsd
}

func CreateOrder(ctx context.Context, input *NewOrder) (*Order, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	settings, err := GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	rates := settings.Rates()

	items, err := input.buildItems(ctx, rates)
	if err != nil {
		return nil, err
	}

	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := Order{
		OrderDate:  orderDate,
		CustomerId: input.CustomerId,
		Items:      items,
	}
	ApplyLumpDiscount(&order, input.LumpDiscount, input.discountCurrency(), rates)
	order.price(input.PaymentAmount, input.PaymentCurrency, rates)

	seqNo, err := utils.GetSequence[Order](ctx, "order_no")
	if err != nil {
		return nil, err
	}
	order.OrderNo = seqNo

	// db action
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrder replaces every field of a saved order from the input; a
// destructive overwrite, not a merge. OrderNo survives edits.
func UpdateOrder(ctx context.Context, id int, input *NewOrder) (*Order, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	order, err := utils.FetchModel[Order](ctx, id, "Items")
	if err != nil {
		return nil, err
	}

	settings, err := GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	rates := settings.Rates()

	items, err := input.buildItems(ctx, rates)
	if err != nil {
		return nil, err
	}

	order.CustomerId = input.CustomerId
	if !input.OrderDate.IsZero() {
		order.OrderDate = input.OrderDate
	}
	order.Items = items
	ApplyLumpDiscount(order, input.LumpDiscount, input.discountCurrency(), rates)
	order.price(input.PaymentAmount, input.PaymentCurrency, rates)

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&OrderItem{}).Error; err != nil {
			return err
		}
		for i := range order.Items {
			order.Items[i].ID = 0
			order.Items[i].OrderId = order.ID
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func DeleteOrder(ctx context.Context, id int) (*Order, error) {
	order, err := utils.FetchModel[Order](ctx, id, "Items")
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Order{}, order.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func GetOrder(ctx context.Context, id int) (*Order, error) {
	return utils.FetchModel[Order](ctx, id, "Items")
}

func GetOrders(ctx context.Context) ([]*Order, error) {
	db := config.GetDB()
	var orders []*Order
	err := db.WithContext(ctx).Preload("Items").Order("order_no DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
