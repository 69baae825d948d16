package models

import (
	"context"
	"time"

	"bitbucket.org/stepfield/shoes_backend/config"
	"bitbucket.org/stepfield/shoes_backend/utils"
	"github.com/shopspring/decimal"
)

// Product is one catalog entry: an article (SKU) in one color, priced
// in USD and bound to the size grid it can be ordered in.
type Product struct {
	ID         int             `gorm:"primary_key" json:"id"`
	Sku        string          `gorm:"size:100;index;not null" json:"sku" binding:"required"`
	Color      string          `gorm:"size:100;not null" json:"color" binding:"required"`
	Price      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
	SizeGridId int             `gorm:"default:0" json:"size_grid_id"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Sku        string          `json:"sku" binding:"required"`
	Color      string          `json:"color" binding:"required"`
	Price      decimal.Decimal `json:"price"`
	SizeGridId int             `json:"size_grid_id"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewProduct) validate(ctx context.Context, id int) error {
	if input.Sku == "" {
		return utils.NewValidationError("sku", "is required")
	}
	if input.Price.IsNegative() {
		return utils.NewValidationError("price", "must not be negative")
	}
	// (sku, color) is unique across the catalog, enforced server-side
	var count int64
	var err error
	if id > 0 {
		count, err = utils.ResourceCountWhere[Product](ctx,
			"sku = ? AND color = ? AND NOT id = ?", input.Sku, input.Color, id)
	} else {
		count, err = utils.ResourceCountWhere[Product](ctx,
			"sku = ? AND color = ?", input.Sku, input.Color)
	}
	if err != nil {
		return err
	}
	if count > 0 {
		return &utils.ConflictError{Field: "sku and color"}
	}
	// grid binding is optional; validate when set
	if input.SizeGridId > 0 {
		if err := utils.ValidateResourceId[SizeGrid](ctx, input.SizeGridId); err != nil {
			return err
		}
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	product := Product{
		Sku:        input.Sku,
		Color:      input.Color,
		Price:      input.Price,
		SizeGridId: input.SizeGridId,
	}

	// db action
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&product).Updates(map[string]interface{}{
		"Sku":        input.Sku,
		"Color":      input.Color,
		"Price":      input.Price,
		"SizeGridId": input.SizeGridId,
	}).Error
	if err != nil {
		return nil, err
	}
	return product, nil
}

func DeleteProduct(ctx context.Context, id int) (*Product, error) {
	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return utils.FetchModel[Product](ctx, id)
}

func GetProducts(ctx context.Context) ([]*Product, error) {
	return utils.FetchAllModels[Product](ctx)
}

// ResolveSizeGrid returns the grid size entry runs against for this
// product, or nil when no grids are configured.
func (p *Product) ResolveSizeGrid(ctx context.Context) (*SizeGrid, error) {
	grids, err := GetSizeGrids(ctx)
	if err != nil {
		return nil, err
	}
	return ResolveGridForProduct(p, grids), nil
}
