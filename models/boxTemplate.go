package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/stepfield/shoes_backend/config"
	"bitbucket.org/stepfield/shoes_backend/utils"
	"gorm.io/gorm"
)

// MaxBoxTypesPerGrid is a policy limit, not a technical one.
const MaxBoxTypesPerGrid = 6

// BoxTemplate is a preset size->quantity bundle ("a carton of 12")
// used to bulk-populate an order line. BoxSize is a label; the UI only
// warns when the content does not add up to it.
type BoxTemplate struct {
	GridId    int            `gorm:"primaryKey;autoIncrement:false" json:"grid_id"`
	BoxSize   int            `gorm:"primaryKey;autoIncrement:false" json:"box_size"`
	Content   SizeQuantities `gorm:"type:json" json:"content"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func fetchBoxTemplate(ctx context.Context, gridId int, boxSize int) (*BoxTemplate, error) {
	db := config.GetDB()
	var tpl BoxTemplate
	err := db.WithContext(ctx).
		Where("grid_id = ? AND box_size = ?", gridId, boxSize).
		First(&tpl).Error
	if err != nil {
		// only a genuinely missing row maps to the sentinel; a failed
		// query must not read as "does not exist"
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

// AddBoxType registers a new box size label under a grid. The template
// starts empty and must be filled in before it can be applied.
func AddBoxType(ctx context.Context, gridId int, boxSize int) (*BoxTemplate, error) {
	if boxSize <= 0 {
		return nil, utils.NewValidationError("box_size", "must be a positive integer")
	}
	if err := utils.ValidateResourceId[SizeGrid](ctx, gridId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&BoxTemplate{}).
		Where("grid_id = ?", gridId).Count(&count).Error; err != nil {
		return nil, err
	}
	if count >= MaxBoxTypesPerGrid {
		return nil, utils.ErrorLimitExceeded
	}
	if _, err := fetchBoxTemplate(ctx, gridId, boxSize); err == nil {
		return nil, &utils.ConflictError{Field: "box_size"}
	} else if !errors.Is(err, utils.ErrorRecordNotFound) {
		return nil, err
	}

	tpl := BoxTemplate{
		GridId:  gridId,
		BoxSize: boxSize,
		Content: make(SizeQuantities),
	}
	if err := db.WithContext(ctx).Create(&tpl).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

// SetBoxContent upserts one size entry of a template. A non-positive
// qty removes the entry; the content mapping never stores zeros.
func SetBoxContent(ctx context.Context, gridId int, boxSize int, size int, qty int) (*BoxTemplate, error) {
	tpl, err := fetchBoxTemplate(ctx, gridId, boxSize)
	if err != nil {
		return nil, err
	}

	if tpl.Content == nil {
		tpl.Content = make(SizeQuantities)
	}
	if qty > 0 {
		tpl.Content[size] = qty
	} else {
		delete(tpl.Content, size)
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&BoxTemplate{}).
		Where("grid_id = ? AND box_size = ?", gridId, boxSize).
		Update("content", tpl.Content).Error; err != nil {
		return nil, err
	}
	return tpl, nil
}

func RemoveBoxType(ctx context.Context, gridId int, boxSize int) (*BoxTemplate, error) {
	tpl, err := fetchBoxTemplate(ctx, gridId, boxSize)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).
		Where("grid_id = ? AND box_size = ?", gridId, boxSize).
		Delete(&BoxTemplate{}).Error; err != nil {
		return nil, err
	}
	return tpl, nil
}

func GetBoxTemplates(ctx context.Context, gridId int) ([]*BoxTemplate, error) {
	db := config.GetDB()
	var tpls []*BoxTemplate
	err := db.WithContext(ctx).
		Where("grid_id = ?", gridId).Order("box_size").Find(&tpls).Error
	if err != nil {
		return nil, err
	}
	return tpls, nil
}

// Apply adds the template content on top of the caller's current
// per-size quantities (additive, so boxes stack). An unconfigured
// template is an error, not a no-op.
func (tpl *BoxTemplate) Apply(current SizeQuantities) (SizeQuantities, error) {
	if tpl.Content.Total() == 0 {
		return nil, utils.ErrorNotConfigured
	}
	return current.Add(tpl.Content), nil
}

// ApplyBoxTemplate looks the template up and applies it. A missing
// template counts as not configured, matching the empty-template case.
func ApplyBoxTemplate(ctx context.Context, gridId int, boxSize int, current SizeQuantities) (SizeQuantities, error) {
	tpl, err := fetchBoxTemplate(ctx, gridId, boxSize)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return nil, utils.ErrorNotConfigured
	}
	if err != nil {
		return nil, err
	}
	return tpl.Apply(current)
}

// IsComplete reports whether the content adds up to the box's own size
// label. Advisory only: an incomplete box can still be saved and used.
func (tpl *BoxTemplate) IsComplete() bool {
	return tpl.Content.Total() == tpl.BoxSize
}
