package models

import (
	"context"
	"sync"
	"time"

	"bitbucket.org/stepfield/shoes_backend/config"
	"bitbucket.org/stepfield/shoes_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsSchemaVersion is bumped whenever the settings shape changes;
// migrateSettings upgrades older records once at load.
const SettingsSchemaVersion = 2

// Settings is the single global configuration record. It is loaded
// once, mutated only through UpdateSettings (read-merge-write in one
// transaction) and every change notifies subscribers.
type Settings struct {
	ID            int             `gorm:"primary_key" json:"id"`
	SchemaVersion int             `gorm:"not null;default:1" json:"schema_version"`
	MainCurrency  CurrencyCode    `gorm:"size:3;default:'UAH'" json:"main_currency"`
	UsdRate       decimal.Decimal `gorm:"type:decimal(20,6);default:0" json:"usd_rate"`
	EurRate       decimal.Decimal `gorm:"type:decimal(20,6);default:0" json:"eur_rate"`
	IsManualRate  *bool           `gorm:"not null;default:false" json:"is_manual_rate"`

	CompanyName    string `gorm:"size:255" json:"company_name"`
	CompanyAddress string `gorm:"size:255" json:"company_address"`
	CompanyPhone   string `gorm:"size:50" json:"company_phone"`
	LogoUrl        string `gorm:"size:512" json:"logo_url"`

	// legacy single-grid shape; read only by migrateSettings
	LegacyMinSize int `gorm:"default:0" json:"-"`
	LegacyMaxSize int `gorm:"default:0" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Settings) Rates() ExchangeRates {
	return ExchangeRates{
		Usd:      s.UsdRate,
		Eur:      s.EurRate,
		IsManual: utils.DereferencePtr(s.IsManualRate),
	}
}

var (
	settingsMu          sync.RWMutex
	settingsCache       *Settings
	settingsSubscribers []chan Settings
)

// GetSettings returns the cached record, creating the default row on
// first use.
func GetSettings(ctx context.Context) (*Settings, error) {
	settingsMu.RLock()
	if settingsCache != nil {
		cached := *settingsCache
		settingsMu.RUnlock()
		return &cached, nil
	}
	settingsMu.RUnlock()

	db := config.GetDB()
	var settings Settings
	err := db.WithContext(ctx).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		settings = Settings{SchemaVersion: SettingsSchemaVersion, MainCurrency: CurrencyUAH, IsManualRate: utils.NewFalse()}
		if err := db.WithContext(ctx).Create(&settings).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if err := migrateSettings(ctx, &settings); err != nil {
		return nil, err
	}

	settingsMu.Lock()
	settingsCache = &settings
	settingsMu.Unlock()
	cached := settings
	return &cached, nil
}

// updatableSettingsFields is the allow-list for UpdateSettings.
var updatableSettingsFields = map[string]bool{
	"main_currency":   true,
	"usd_rate":        true,
	"eur_rate":        true,
	"is_manual_rate":  true,
	"company_name":    true,
	"company_address": true,
	"company_phone":   true,
	"logo_url":        true,
}

// UpdateSettings applies a named field-set with read-merge-write
// under a row lock, then refreshes the cache and notifies subscribers.
// Unknown fields are rejected so a stale client cannot clobber columns
// it does not know about.
func UpdateSettings(ctx context.Context, fields map[string]interface{}) (*Settings, error) {
	if len(fields) == 0 {
		return GetSettings(ctx)
	}
	for name := range fields {
		if !updatableSettingsFields[name] {
			return nil, utils.NewValidationError(name, "unknown settings field")
		}
	}
	if c, ok := fields["main_currency"]; ok {
		code, _ := c.(string)
		if !CurrencyCode(code).IsValid() {
			return nil, utils.NewValidationError("main_currency", "unknown currency")
		}
	}

	current, err := GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var updated Settings
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&updated, current.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&updated).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&updated, current.ID).Error
	})
	if err != nil {
		return nil, err
	}

	// a manual rate edit outranks the cached bank quotes
	if fields["usd_rate"] != nil || fields["eur_rate"] != nil || fields["is_manual_rate"] != nil {
		if err := config.RemoveRedisKey(ratesCacheKey); err != nil {
			config.LogError(ctx, config.GetLogger(), "settings", "UpdateSettings", "rate cache", nil, err)
		}
	}

	settingsMu.Lock()
	settingsCache = &updated
	subscribers := make([]chan Settings, len(settingsSubscribers))
	copy(subscribers, settingsSubscribers)
	settingsMu.Unlock()

	for _, ch := range subscribers {
		select {
		case ch <- updated:
		default:
			// a slow subscriber never blocks a settings write
		}
	}

	result := updated
	return &result, nil
}

// SubscribeSettings returns a channel receiving every settings change
// and a cancel func. Replaces ambient re-reads of a mutable global.
func SubscribeSettings() (<-chan Settings, func()) {
	ch := make(chan Settings, 1)
	settingsMu.Lock()
	settingsSubscribers = append(settingsSubscribers, ch)
	settingsMu.Unlock()

	cancel := func() {
		settingsMu.Lock()
		for i, sub := range settingsSubscribers {
			if sub == ch {
				settingsSubscribers = append(settingsSubscribers[:i], settingsSubscribers[i+1:]...)
				break
			}
		}
		settingsMu.Unlock()
	}
	return ch, cancel
}

// migrateSettings upgrades a legacy record in place. Idempotent and
// logged; runs once per process at first load.
func migrateSettings(ctx context.Context, settings *Settings) error {
	if settings.SchemaVersion >= SettingsSchemaVersion {
		return nil
	}
	logger := config.GetLogger()
	db := config.GetDB()

	// v1 -> v2: the single global size range becomes a grid registry
	if settings.LegacyMinSize > 0 && settings.LegacyMaxSize >= settings.LegacyMinSize {
		var count int64
		if err := db.WithContext(ctx).Model(&SizeGrid{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			grid := SizeGrid{
				Name:      "Default",
				Min:       settings.LegacyMinSize,
				Max:       settings.LegacyMaxSize,
				IsDefault: utils.NewTrue(),
			}
			if err := db.WithContext(ctx).Create(&grid).Error; err != nil {
				return err
			}
			logger.WithField("grid_id", grid.ID).Info("migrated legacy size range to grid registry")
		}
	}

	settings.SchemaVersion = SettingsSchemaVersion
	if err := db.WithContext(ctx).Model(settings).
		Update("schema_version", SettingsSchemaVersion).Error; err != nil {
		return err
	}
	logger.WithField("schema_version", SettingsSchemaVersion).Info("settings schema migrated")
	return nil
}

// ResetSettingsCache drops the in-memory copy; next GetSettings reloads.
func ResetSettingsCache() {
	settingsMu.Lock()
	settingsCache = nil
	settingsMu.Unlock()
}
