package referral

import (
	"context"

	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/util"
	"gorm.io/gorm"
)

// ActivityFilter narrows the activity log listing.
type ActivityFilter struct {
	RequestID uint
	PatientID uint
	UserID    uint
	Limit     int
	Offset    int
}

// ActivityEntry is a log row with the actor's display name.
type ActivityEntry struct {
	model.ActivityLog
	UserName string `json:"user_name"`
}

// ListActivity returns the audit trail, newest first.
func (s *Service) ListActivity(ctx context.Context, f ActivityFilter) ([]ActivityEntry, int64, error) {
	db := s.db.WithContext(ctx).Model(&model.ActivityLog{})
	if f.RequestID != 0 {
		db = db.Where("request_id = ?", f.RequestID)
	}
	if f.PatientID != 0 {
		db = db.Where("patient_id = ?", f.PatientID)
	}
	if f.UserID != 0 {
		db = db.Where("user_id = ?", f.UserID)
	}
	db = db.Session(&gorm.Session{})
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit, offset := ListFilter{Limit: f.Limit, Offset: f.Offset}.page()
	var logs []model.ActivityLog
	if err := db.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]ActivityEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, ActivityEntry{ActivityLog: l, UserName: util.GetUserName(s.db.WithContext(ctx), l.UserID)})
	}
	return entries, total, nil
}

// ListNotifications returns notifications, newest first, optionally by status.
func (s *Service) ListNotifications(ctx context.Context, status string, limit, offset int) ([]model.Notification, int64, error) {
	db := s.db.WithContext(ctx).Model(&model.Notification{})
	switch status {
	case "":
	case model.NotificationQueued, model.NotificationSent, model.NotificationFailed:
		db = db.Where("status = ?", status)
	default:
		return nil, 0, validationError("unknown notification status %q", status)
	}
	db = db.Session(&gorm.Session{})
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit, offset = ListFilter{Limit: limit, Offset: offset}.page()
	notifications := []model.Notification{}
	err := db.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&notifications).Error
	return notifications, total, err
}
