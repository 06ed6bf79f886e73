package models

import (
	"time"
)

// Token is an opaque bearer credential. The token string itself is the lookup
// key; LastUsedAt moves forward on every successful verification, which gives
// sessions a sliding expiration window instead of a fixed deadline.
type Token struct {
	Token      string    `gorm:"primaryKey" json:"token"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	LastUsedAt time.Time `gorm:"not null;index" json:"last_used_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Token) TableName() string {
	return "tokens"
}
