package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// RequestStatus is the lifecycle state of a referral request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "Aguardando Análise"
	StatusReceived  RequestStatus = "received"
	StatusAccepted  RequestStatus = "accepted"
	StatusConfirmed RequestStatus = "confirmed"
	StatusCompleted RequestStatus = "completed"
	StatusSuspended RequestStatus = "suspenso"
)

// ErrExclusiveServiceType is returned when a request names both an exam type
// and a consultation type, or neither.
var ErrExclusiveServiceType = errors.New("request must reference exactly one of exam type or consultation type")

// ErrServiceTypeChange is returned when a partial update touches the service
// type columns. The service type is fixed once a request exists.
var ErrServiceTypeChange = errors.New("the service type of a request cannot be changed")

// HiddenStatuses lists the statuses excluded from every normal listing and statistic.
func HiddenStatuses() []RequestStatus {
	return []RequestStatus{StatusPending, StatusSuspended}
}

// ParseStatus validates a status string.
func ParseStatus(s string) (RequestStatus, bool) {
	switch st := RequestStatus(s); st {
	case StatusPending, StatusReceived, StatusAccepted, StatusConfirmed, StatusCompleted, StatusSuspended:
		return st, true
	}
	return "", false
}

// Request is a single referral for one exam or one consultation.
//
// CreatedAt never changes after insert. ReportingYear and ReportingMonth are the
// key of every month-scoped query; they start at the creation month and are
// moved by forwarding. Rows are deleted permanently, so there is no DeletedAt.
type Request struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PatientID          uint              `json:"patient_id" gorm:"not null;index"`
	Patient            *Patient          `json:"patient,omitempty"`
	CreatedByID        uint              `json:"created_by_id" gorm:"not null;index"`
	CreatedBy          *User             `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
	HealthUnitID       uint              `json:"health_unit_id" gorm:"not null;index"`
	HealthUnit         *HealthUnit       `json:"health_unit,omitempty"`
	ExamTypeID         *uint             `json:"exam_type_id" gorm:"index"`
	ExamType           *ExamType         `json:"exam_type,omitempty"`
	ConsultationTypeID *uint             `json:"consultation_type_id" gorm:"index"`
	ConsultationType   *ConsultationType `json:"consultation_type,omitempty"`

	Status   RequestStatus `json:"status" gorm:"type:varchar(32);not null;index"`
	IsUrgent bool          `json:"is_urgent" gorm:"not null;default:false"`
	// Notes doubles as the suspension reason while the request is suspended.
	Notes string `json:"notes" gorm:"type:text"`

	ReportingYear  int `json:"reporting_year" gorm:"not null;index:idx_requests_period,priority:1"`
	ReportingMonth int `json:"reporting_month" gorm:"not null;index:idx_requests_period,priority:2"`

	ForwardedToMonth *int       `json:"forwarded_to_month"`
	ForwardedToYear  *int       `json:"forwarded_to_year"`
	ForwardedByID    *uint      `json:"forwarded_by_id"`
	ForwardedAt      *time.Time `json:"forwarded_at"`
	ForwardedReason  string     `json:"forwarded_reason" gorm:"type:text"`

	AttachmentKey          string     `json:"-"`
	AttachmentName         string     `json:"attachment_name"`
	AttachmentSize         int64      `json:"attachment_size"`
	AttachmentMime         string     `json:"attachment_mime"`
	AttachmentUploadedByID *uint      `json:"attachment_uploaded_by_id"`
	AttachmentUploadedAt   *time.Time `json:"attachment_uploaded_at"`

	ExamLocation       string     `json:"exam_location"`
	ExamDate           string     `json:"exam_date"`
	ExamTime           string     `json:"exam_time"`
	CompletedDate      *time.Time `json:"completed_date"`
	ResultFileKey      string     `json:"-"`
	ResultFileName     string     `json:"result_file_name"`
	ResultFileSize     int64      `json:"result_file_size"`
	ResultFileMime     string     `json:"result_file_mime"`
	ResultUploadedByID *uint      `json:"result_uploaded_by_id"`
	ResultUploadedAt   *time.Time `json:"result_uploaded_at"`
}

func (r *Request) checkServiceType() error {
	if (r.ExamTypeID == nil) == (r.ConsultationTypeID == nil) {
		return ErrExclusiveServiceType
	}
	return nil
}

// BeforeCreate enforces the exclusive service type invariant and seeds the
// reporting period from the creation time when it was not set explicitly.
func (r *Request) BeforeCreate(tx *gorm.DB) error {
	if err := r.checkServiceType(); err != nil {
		return err
	}
	if r.ReportingYear == 0 || r.ReportingMonth == 0 {
		created := r.CreatedAt
		if created.IsZero() {
			created = tx.NowFunc()
		}
		r.ReportingYear, r.ReportingMonth = created.Year(), int(created.Month())
	}
	return nil
}

// BeforeUpdate re-checks full saves. Column updates run against a bare
// model, so there the service type columns are simply off limits.
func (r *Request) BeforeUpdate(tx *gorm.DB) error {
	switch dest := tx.Statement.Dest.(type) {
	case *Request:
		return dest.checkServiceType()
	case map[string]interface{}:
		for _, key := range []string{"exam_type_id", "consultation_type_id", "ExamTypeID", "ConsultationTypeID"} {
			if _, ok := dest[key]; ok {
				return ErrServiceTypeChange
			}
		}
	}
	return nil
}

// ServiceKind reports whether the request is for an exam or a consultation.
func (r Request) ServiceKind() ServiceKind {
	if r.ExamTypeID != nil {
		return ServiceExam
	}
	return ServiceConsultation
}

// ServiceTypeID returns the id of the exam or consultation type.
func (r Request) ServiceTypeID() uint {
	if r.ExamTypeID != nil {
		return *r.ExamTypeID
	}
	if r.ConsultationTypeID != nil {
		return *r.ConsultationTypeID
	}
	return 0
}

// ServiceName is the display name of the requested exam or consultation.
// The type association must be preloaded.
func (r Request) ServiceName() string {
	switch {
	case r.ExamType != nil:
		return r.ExamType.Name
	case r.ConsultationType != nil:
		return r.ConsultationType.Name
	}
	return ""
}

// ReportingPeriodStart is the first day of the request's reporting month.
func (r Request) ReportingPeriodStart() time.Time {
	return time.Date(r.ReportingYear, time.Month(r.ReportingMonth), 1, 0, 0, 0, 0, time.Local)
}

// ViewKind classifies how a request is visible.
type ViewKind int

const (
	ViewActive ViewKind = iota
	ViewPending
	ViewSuspended
)

func (k ViewKind) String() string {
	switch k {
	case ViewPending:
		return "pending"
	case ViewSuspended:
		return "suspended"
	}
	return "active"
}

// RequestView is the visibility of a request: Active(status), Pending, or
// Suspended(reason).
type RequestView struct {
	Kind   ViewKind      `json:"kind"`
	Status RequestStatus `json:"status,omitempty"`
	Reason string        `json:"reason,omitempty"`
}

// View returns the request's visibility variant.
func (r Request) View() RequestView {
	switch r.Status {
	case StatusPending:
		return RequestView{Kind: ViewPending}
	case StatusSuspended:
		return RequestView{Kind: ViewSuspended, Reason: r.Notes}
	}
	return RequestView{Kind: ViewActive, Status: r.Status}
}
