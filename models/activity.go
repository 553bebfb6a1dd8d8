package models

import "time"

// ActivityLog is an append-only audit entry, capped per user (oldest evicted).
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index"`
	Action    string    `gorm:"size:64"`
	Detail    string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`
}

// ActiveSession is a device session, bounded to a small fixed maximum per
// user; registering beyond the cap evicts the oldest session.
type ActiveSession struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"index"`
	TokenHash  string `gorm:"size:64"`
	Platform   string `gorm:"size:32"`
	CreatedAt  time.Time
	LastSeenAt time.Time
}
