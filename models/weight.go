package models

import "time"

// WeightEntry is one weight measurement. Entries are unique per (user, day):
// logging twice on the same day overwrites the earlier value.
type WeightEntry struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"uniqueIndex:idx_weight_user_day"`
	Day       time.Time `gorm:"uniqueIndex:idx_weight_user_day"` // truncated to local midnight
	WeightKg  float64
	CreatedAt time.Time
}
