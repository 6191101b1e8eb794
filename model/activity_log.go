package model

import (
	"time"

	"gorm.io/datatypes"
)

// Activity log actions.
const (
	ActionCreate        = "create_request"
	ActionApprove       = "approve_request"
	ActionReject        = "reject_request"
	ActionStatusUpdate  = "update_status"
	ActionComplete      = "complete_request"
	ActionSuspend       = "suspend_request"
	ActionRevert        = "revert_suspended"
	ActionFixFailed     = "fix_failed"
	ActionForward       = "forward_request"
	ActionDelete        = "delete_request"
	ActionAttach        = "attach_file"
	ActionPatientCreate = "create_patient"
	ActionPatientPhoto  = "upload_patient_document"
)

// ActivityLog is the append-only audit trail of request and patient mutations.
type ActivityLog struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	CreatedAt   time.Time      `json:"created_at" gorm:"index"`
	UserID      uint           `json:"user_id" gorm:"not null;index"`
	RequestID   *uint          `json:"request_id" gorm:"index"`
	PatientID   *uint          `json:"patient_id" gorm:"index"`
	Action      string         `json:"action" gorm:"type:varchar(64);not null"`
	OldStatus   string         `json:"old_status" gorm:"type:varchar(32)"`
	NewStatus   string         `json:"new_status" gorm:"type:varchar(32)"`
	Description string         `json:"description" gorm:"type:text"`
	Details     datatypes.JSON `json:"details" gorm:"type:json"`
}

// Notification statuses.
const (
	NotificationQueued = "queued"
	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

// Notification is an outbound message about a request, dispatched through the
// notification queue.
type Notification struct {
	ID        uint       `json:"id" gorm:"primarykey"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	RequestID uint       `json:"request_id" gorm:"not null;index"`
	PatientID uint       `json:"patient_id" gorm:"not null;index"`
	Recipient string     `json:"recipient" gorm:"type:varchar(32)"`
	Channel   string     `json:"channel" gorm:"type:varchar(32)"`
	Message   string     `json:"message" gorm:"type:text"`
	Status    string     `json:"status" gorm:"type:varchar(16);not null;index"`
	Error     string     `json:"error,omitempty" gorm:"type:text"`
	SentAt    *time.Time `json:"sent_at"`
}
