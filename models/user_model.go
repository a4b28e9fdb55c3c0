package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username  string `json:"username" gorm:"unique"`
	Password  string `json:"-"`
	Name      string `json:"name"`
	Email     string `json:"email" gorm:"unique"`
	Role      string `json:"role"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

type UserSession struct {
	gorm.Model
	SessionID      string `gorm:"uniqueIndex;size:64"`
	UserID         uint
	IsActive       bool
	ExpiresAt      time.Time
	LastActivityAt time.Time
}

type LoginLog struct {
	gorm.Model
	UserID    uint
	SessionID string `gorm:"size:64"`
	LoginAt   time.Time
	LogoutAt  *time.Time
	UserAgent string
	IPAddress string
}
