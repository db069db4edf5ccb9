package models

import (
	"time"

	"helpdesk/internal/shared/constants"
)

// UserModel is the users row. Email is stored lower-cased.
type UserModel struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"size:100;not null"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password;size:255;not null"`
	Role         string    `gorm:"size:20;not null;default:user;index"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
