package referral

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/notify"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	examDateLayout = "2006-01-02"
	examTimeLayout = "15:04"
)

// CompleteInput carries the scheduling details and result file recorded when
// a request is completed.
type CompleteInput struct {
	Location   string
	Date       string
	Time       string
	ResultFile *FileUpload
}

func (in CompleteInput) validate() error {
	var missing []string
	if strings.TrimSpace(in.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(in.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(in.Time) == "" {
		missing = append(missing, "time")
	}
	if in.ResultFile.validate("result file") != nil {
		missing = append(missing, "result file")
	}
	if len(missing) > 0 {
		return validationError("missing required fields: %s", strings.Join(missing, ", "))
	}
	if _, err := time.Parse(examDateLayout, strings.TrimSpace(in.Date)); err != nil {
		return validationError("date must be formatted as YYYY-MM-DD")
	}
	if _, err := time.Parse(examTimeLayout, strings.TrimSpace(in.Time)); err != nil {
		return validationError("time must be formatted as HH:MM")
	}
	return nil
}

// CompleteResult is the completed request plus the message prepared for
// the patient.
type CompleteResult struct {
	Request      model.Request      `json:"request"`
	Message      string             `json:"message"`
	Notification model.Notification `json:"notification"`
}

// CompleteWithResult records where and when the exam or consultation takes
// place, stores the result file and completes the request. A notification is
// queued for the patient; failing to publish it does not fail completion.
func (s *Service) CompleteWithResult(ctx context.Context, actor Actor, id uint, in CompleteInput) (CompleteResult, error) {
	if err := actor.require("complete requests", approverRoles...); err != nil {
		return CompleteResult{}, err
	}
	if err := in.validate(); err != nil {
		return CompleteResult{}, err
	}

	req, err := s.loadRequest(s.db.WithContext(ctx), id)
	if err != nil {
		return CompleteResult{}, err
	}
	if !lo.Contains(activeStatuses, req.Status) {
		return CompleteResult{}, validationError("cannot complete request %d in status %q", id, req.Status)
	}

	obj, err := s.upload(ctx, fmt.Sprintf("requests/%d/results", id), in.ResultFile)
	if err != nil {
		return CompleteResult{}, err
	}

	var (
		res    CompleteResult
		oldKey string
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(preloadRequest).First(&req, id).Error; err != nil {
			return classifyDBError(err, "request", id)
		}
		if !lo.Contains(activeStatuses, req.Status) {
			return validationError("cannot complete request %d in status %q", id, req.Status)
		}
		oldKey = req.ResultFileKey
		now := s.now()
		extra := map[string]interface{}{
			"completed_date":        now,
			"exam_location":         strings.TrimSpace(in.Location),
			"exam_date":             strings.TrimSpace(in.Date),
			"exam_time":             strings.TrimSpace(in.Time),
			"result_file_key":       obj.Key,
			"result_file_name":      obj.Name,
			"result_file_size":      obj.Size,
			"result_file_mime":      obj.ContentType,
			"result_uploaded_by_id": actor.UserID,
			"result_uploaded_at":    now,
		}
		if err := s.transition(tx, actor, &req, model.ActionComplete, model.StatusCompleted, extra, ""); err != nil {
			return err
		}
		if err := tx.Scopes(preloadRequest).First(&req, id).Error; err != nil {
			return err
		}

		res.Request = req
		res.Message = notify.CompletionMessage(notify.Appointment{
			PatientName: patientName(req),
			ServiceName: req.ServiceName(),
			Location:    req.ExamLocation,
			Date:        req.ExamDate,
			Time:        req.ExamTime,
		})
		res.Notification = model.Notification{
			CreatedAt: now,
			UpdatedAt: now,
			RequestID: req.ID,
			PatientID: req.PatientID,
			Channel:   notify.ChannelWhatsApp,
			Message:   res.Message,
			Status:    model.NotificationQueued,
		}
		if req.Patient != nil {
			res.Notification.Recipient = req.Patient.PhoneNumber
		}
		return tx.Create(&res.Notification).Error
	})
	if err != nil {
		s.removeFiles(ctx, obj.Key)
		return CompleteResult{}, err
	}
	if oldKey != obj.Key {
		s.removeFiles(ctx, oldKey)
	}

	s.dispatch(ctx, &res.Notification)
	return res, nil
}

func patientName(req model.Request) string {
	if req.Patient == nil {
		return ""
	}
	return req.Patient.FullName
}

// dispatch publishes a queued notification and records the outcome on its row.
func (s *Service) dispatch(ctx context.Context, n *model.Notification) {
	updates := map[string]interface{}{"updated_at": s.now()}
	err := s.publisher.Publish(ctx, notify.Message{
		NotificationID: n.ID,
		RequestID:      n.RequestID,
		PatientID:      n.PatientID,
		Recipient:      n.Recipient,
		Channel:        n.Channel,
		Body:           n.Message,
	})
	if err != nil {
		s.log.Warn("notification publish failed", zap.Uint("notification_id", n.ID), zap.Error(err))
		n.Status = model.NotificationFailed
		n.Error = err.Error()
		updates["error"] = n.Error
	} else {
		n.Status = model.NotificationSent
		n.SentAt = ptr(s.now())
		updates["sent_at"] = *n.SentAt
	}
	updates["status"] = n.Status
	if err := s.db.WithContext(ctx).Model(&model.Notification{}).Where("id = ?", n.ID).Updates(updates).Error; err != nil {
		s.log.Error("failed to record notification status", zap.Uint("notification_id", n.ID), zap.Error(err))
	}
}
