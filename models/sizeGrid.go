package models

import (
	"context"
	"strconv"
	"time"

	"bitbucket.org/stepfield/shoes_backend/config"
	"bitbucket.org/stepfield/shoes_backend/utils"
	"gorm.io/gorm"
)

// MaxSizeGrids is a policy limit, not a technical one.
const MaxSizeGrids = 5

// SizeGrid is a named contiguous integer range of shoe sizes a product
// can be ordered in. Exactly one grid is the default at any time.
type SizeGrid struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Min       int       `gorm:"not null" json:"min"`
	Max       int       `gorm:"not null" json:"max"`
	IsDefault *bool     `gorm:"not null;default:false" json:"is_default"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewSizeGrid carries raw form input; Min/Max arrive as strings and are
// parsed here so a typo surfaces as a field-level validation error.
type NewSizeGrid struct {
	Name string `json:"name" binding:"required"`
	Min  string `json:"min" binding:"required"`
	Max  string `json:"max" binding:"required"`
}

func (input *NewSizeGrid) parse() (minSize int, maxSize int, err error) {
	minSize, err = strconv.Atoi(input.Min)
	if err != nil {
		return 0, 0, utils.NewValidationError("min", "must be an integer")
	}
	maxSize, err = strconv.Atoi(input.Max)
	if err != nil {
		return 0, 0, utils.NewValidationError("max", "must be an integer")
	}
	if maxSize < minSize {
		return 0, 0, utils.NewValidationError("max", "must not be less than min")
	}
	return minSize, maxSize, nil
}

func CreateSizeGrid(ctx context.Context, input *NewSizeGrid) (*SizeGrid, error) {
	if input.Name == "" {
		return nil, utils.NewValidationError("name", "is required")
	}
	minSize, maxSize, err := input.parse()
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&SizeGrid{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count >= MaxSizeGrids {
		return nil, utils.ErrorLimitExceeded
	}

	grid := SizeGrid{
		Name:      input.Name,
		Min:       minSize,
		Max:       maxSize,
		IsDefault: utils.NewFalse(),
	}
	// the first grid automatically becomes the default
	if count == 0 {
		grid.IsDefault = utils.NewTrue()
	}

	// db action
	if err := db.WithContext(ctx).Create(&grid).Error; err != nil {
		return nil, err
	}
	return &grid, nil
}

// DeleteSizeGrid removes a grid together with its box templates. The
// last remaining grid cannot be deleted; deleting the default promotes
// the first remaining grid inside the same transaction.
func DeleteSizeGrid(ctx context.Context, id int) (*SizeGrid, error) {
	grid, err := utils.FetchModel[SizeGrid](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&SizeGrid{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count <= 1 {
		return nil, utils.ErrorLastGrid
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// cascade: box templates belong to the grid
		if err := tx.Where("grid_id = ?", grid.ID).Delete(&BoxTemplate{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&SizeGrid{}, grid.ID).Error; err != nil {
			return err
		}
		var remaining []*SizeGrid
		if err := tx.Order("id").Find(&remaining).Error; err != nil {
			return err
		}
		if next := PromoteDefault(grid, remaining); next != nil {
			if err := tx.Model(&SizeGrid{}).Where("id = ?", next.ID).
				Update("is_default", true).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return grid, nil
}

func SetDefaultSizeGrid(ctx context.Context, id int) (*SizeGrid, error) {
	grid, err := utils.FetchModel[SizeGrid](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&SizeGrid{}).Where("id <> ?", grid.ID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&SizeGrid{}).Where("id = ?", grid.ID).
			Update("is_default", true).Error
	})
	if err != nil {
		return nil, err
	}
	grid.IsDefault = utils.NewTrue()
	return grid, nil
}

func GetSizeGrid(ctx context.Context, id int) (*SizeGrid, error) {
	return utils.FetchModel[SizeGrid](ctx, id)
}

func GetSizeGrids(ctx context.Context) ([]*SizeGrid, error) {
	return utils.FetchAllModels[SizeGrid](ctx)
}

// PromoteDefault picks the grid that takes over the default mark after
// a deletion: nothing when the deleted grid was not the default, else
// the lowest-id survivor. Exactly one default remains either way.
func PromoteDefault(deleted *SizeGrid, remaining []*SizeGrid) *SizeGrid {
	if deleted == nil || !utils.DereferencePtr(deleted.IsDefault) {
		return nil
	}
	var next *SizeGrid
	for _, grid := range remaining {
		if grid.ID == deleted.ID {
			continue
		}
		if next == nil || grid.ID < next.ID {
			next = grid
		}
	}
	return next
}

// ResolveGridForProduct picks the grid size entry runs against:
// the product's bound grid, else the default, else the first grid.
// Returns nil for an empty registry; callers disable size entry then.
func ResolveGridForProduct(product *Product, grids []*SizeGrid) *SizeGrid {
	if len(grids) == 0 {
		return nil
	}
	if product != nil && product.SizeGridId > 0 {
		for _, grid := range grids {
			if grid.ID == product.SizeGridId {
				return grid
			}
		}
	}
	for _, grid := range grids {
		if utils.DereferencePtr(grid.IsDefault) {
			return grid
		}
	}
	return grids[0]
}
