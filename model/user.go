package model

import (
	"time"

	"gorm.io/gorm"
)

// User is a staff account. Password holds an argon2id hash.
type User struct {
	gorm.Model
	Name           string      `json:"name" gorm:"type:varchar(191);not null"`
	Username       string      `json:"username" gorm:"type:varchar(191);uniqueIndex;not null"`
	Password       string      `json:"-" gorm:"type:varchar(255);not null"`
	PasswordSalt   string      `json:"-" gorm:"type:varchar(64)"`
	RoleID         uint32      `json:"role_id" gorm:"not null;index"`
	HealthUnitID   *uint       `json:"health_unit_id" gorm:"index"`
	HealthUnit     *HealthUnit `json:"health_unit,omitempty"`
	FailedAttempts int         `json:"-" gorm:"default:0"`
	LockedUntil    *int64      `json:"-"`
}

// RoleName returns the user's role name.
func (u User) RoleName() string {
	return RoleName(u.RoleID)
}

type Session struct {
	gorm.Model
	SessionToken string    `json:"session_token" gorm:"type:varchar(512);uniqueIndex"`
	UserID       uint      `json:"user_id" gorm:"index"`
	ExpiresAt    time.Time `json:"expires_at"`
	ClientIP     string    `json:"client_ip" gorm:"type:varchar(45)"`
	Browser      string    `json:"browser" gorm:"type:varchar(512)"`
}

type HealthUnit struct {
	gorm.Model
	Name        string `json:"name" gorm:"type:varchar(191);not null" example:"UBS Centro"`
	Address     string `json:"address" example:"Rua Principal, 100"`
	PhoneNumber string `json:"phone_number" example:"(11) 3333-4444"`
}
