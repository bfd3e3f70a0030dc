package models

import "time"

// Setting is one key/value row in the settings table.
type Setting struct {
	Key       string    `gorm:"type:text;primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Well-known settings keys seeded by the base migration.
const (
	SettingKeyTaxRate       = "tax_rate"
	SettingKeyStoreName     = "store_name"
	SettingKeyReceiptFooter = "receipt_footer"
)
