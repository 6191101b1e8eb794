// Package referral implements the referral request workflow: creation,
// status transitions, forwarding, suspension, quota and spending reports and
// duplicate detection.
package referral

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/notify"
	"github.com/ariebrainware/sisreg/storage"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service runs request operations against a database. Every mutation runs
// in one transaction together with its activity log row.
type Service struct {
	db        *gorm.DB
	files     storage.Store
	publisher notify.Publisher
	log       *zap.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithFileStore sets where attachments, result files and ID photos go.
func WithFileStore(s storage.Store) Option {
	return func(svc *Service) { svc.files = s }
}

// WithPublisher sets the notification publisher used on completion.
func WithPublisher(p notify.Publisher) Option {
	return func(svc *Service) { svc.publisher = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(svc *Service) { svc.log = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

func New(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db, log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.publisher == nil {
		s.publisher = notify.LogPublisher{Log: s.log}
	}
	return s
}

func (s *Service) DB() *gorm.DB { return s.db }

// Now is the service clock.
func (s *Service) Now() time.Time { return s.now() }

func (s *Service) loadRequest(tx *gorm.DB, id uint) (model.Request, error) {
	var req model.Request
	err := tx.First(&req, id).Error
	return req, classifyDBError(err, "request", id)
}

type activity struct {
	actor       Actor
	action      string
	requestID   *uint
	patientID   *uint
	oldStatus   model.RequestStatus
	newStatus   model.RequestStatus
	description string
	details     interface{}
}

func (s *Service) logActivity(tx *gorm.DB, a activity) error {
	entry := model.ActivityLog{
		CreatedAt:   s.now(),
		UserID:      a.actor.UserID,
		RequestID:   a.requestID,
		PatientID:   a.patientID,
		Action:      a.action,
		OldStatus:   string(a.oldStatus),
		NewStatus:   string(a.newStatus),
		Description: a.description,
	}
	if a.details != nil {
		raw, err := json.Marshal(a.details)
		if err != nil {
			return err
		}
		entry.Details = datatypes.JSON(raw)
	}
	return tx.Create(&entry).Error
}

// transition moves one loaded request to a new status, applying extra column
// updates, and writes the activity log row.
func (s *Service) transition(tx *gorm.DB, actor Actor, req *model.Request, action string, to model.RequestStatus, extra map[string]interface{}, description string) error {
	updates := map[string]interface{}{"status": to, "updated_at": s.now()}
	for k, v := range extra {
		updates[k] = v
	}
	if err := tx.Model(&model.Request{}).Where("id = ?", req.ID).Updates(updates).Error; err != nil {
		return err
	}
	from := req.Status
	if err := tx.First(req, req.ID).Error; err != nil {
		return err
	}
	if description == "" {
		description = describeStatus(to)
	}
	id := req.ID
	pid := req.PatientID
	return s.logActivity(tx, activity{
		actor:       actor,
		action:      action,
		requestID:   &id,
		patientID:   &pid,
		oldStatus:   from,
		newStatus:   to,
		description: description,
	})
}

func ptr[T any](v T) *T { return &v }

// Get returns one request with its associations, whatever its status.
func (s *Service) Get(ctx context.Context, id uint) (model.Request, error) {
	var req model.Request
	err := s.db.WithContext(ctx).Scopes(preloadRequest).First(&req, id).Error
	return req, classifyDBError(err, "request", id)
}
