package models

import (
	"time"
)

// User is an account record. Accounts are created inactive and stay that way
// until the activation token sent by email is redeemed.
type User struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	Username        string  `gorm:"not null" json:"username"`
	Email           string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash    string  `gorm:"column:password_hash;not null" json:"-"`
	Inactive        bool    `gorm:"not null;default:true" json:"-"`
	ActivationToken *string `gorm:"index" json:"-"` // nil once the account is activated
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Tokens []Token `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}
