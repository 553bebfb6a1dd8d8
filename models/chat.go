package models

import "time"

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index"`
	Role      string    `gorm:"size:16"` // "user" | "assistant"
	Content   string    `gorm:"type:text"`
	Source    string    `gorm:"size:32"` // provider that produced an assistant turn
	CreatedAt time.Time `gorm:"index"`
}
