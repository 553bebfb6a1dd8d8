package models

import "time"

// AppSetting is a scalar configuration value addressed by string key.
type AppSetting struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"uniqueIndex;size:64;not null"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}
