package models

import (
	"context"
	"time"

	"bitbucket.org/stepfield/shoes_backend/config"
	"bitbucket.org/stepfield/shoes_backend/utils"
)

// Customer is a wholesale client. Phone is stored as the canonical
// digit string (E.164 without the plus) and is unique across clients.
type Customer struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	City      string    `gorm:"size:100" json:"city"`
	Phone     string    `gorm:"size:20;index;not null" json:"phone" binding:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCustomer struct {
	Name  string `json:"name" binding:"required"`
	City  string `json:"city"`
	Phone string `json:"phone" binding:"required"`
}

// validate input for both create & update. (id = 0 for create)
// Returns the normalized phone so callers store the canonical form.
func (input *NewCustomer) validate(ctx context.Context, id int) (string, error) {
	if input.Name == "" {
		return "", utils.NewValidationError("name", "is required")
	}
	phone, err := utils.NormalizePhone(input.Phone)
	if err != nil {
		return "", err
	}
	if err := utils.ValidateUnique[Customer](ctx, "phone", phone, id); err != nil {
		return "", err
	}
	return phone, nil
}

func CreateCustomer(ctx context.Context, input *NewCustomer) (*Customer, error) {
	phone, err := input.validate(ctx, 0)
	if err != nil {
		return nil, err
	}

	customer := Customer{
		Name:  input.Name,
		City:  input.City,
		Phone: phone,
	}

	// db action
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func UpdateCustomer(ctx context.Context, id int, input *NewCustomer) (*Customer, error) {
	phone, err := input.validate(ctx, id)
	if err != nil {
		return nil, err
	}

	customer, err := utils.FetchModel[Customer](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&customer).Updates(map[string]interface{}{
		"Name":  input.Name,
		"City":  input.City,
		"Phone": phone,
	}).Error
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func DeleteCustomer(ctx context.Context, id int) (*Customer, error) {
	customer, err := utils.FetchModel[Customer](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func GetCustomer(ctx context.Context, id int) (*Customer, error) {
	return utils.FetchModel[Customer](ctx, id)
}

func GetCustomers(ctx context.Context) ([]*Customer, error) {
	return utils.FetchAllModels[Customer](ctx)
}

// PhoneDisplay renders the stored digits in international format.
func (c *Customer) PhoneDisplay() string {
	return utils.FormatPhone(c.Phone)
}
