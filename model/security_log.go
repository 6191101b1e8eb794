package model

import (
	"time"

	"gorm.io/datatypes"
)

// SecurityLog is an append-only audit row for authentication and access
// events. Rows are never updated, so it carries no UpdatedAt or DeletedAt.
type SecurityLog struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_security_event_time,priority:2"`
	EventType string         `json:"event_type" gorm:"type:varchar(64);index:idx_security_event_time,priority:1"`
	UserID    string         `json:"user_id" gorm:"type:varchar(64);index"`
	Username  string         `json:"username" gorm:"type:varchar(191);index"`
	IP        string         `json:"ip" gorm:"type:varchar(45)"`
	Location  string         `json:"location" gorm:"type:varchar(255)"` // "City/Country" when GeoIP knows the address
	UserAgent string         `json:"user_agent" gorm:"type:varchar(512)"`
	Message   string         `json:"message" gorm:"type:text"`
	Details   datatypes.JSON `json:"details" gorm:"type:json"`
}
