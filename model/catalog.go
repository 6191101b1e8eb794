package model

import "gorm.io/gorm"

// ServiceKind tells exam requests apart from consultation requests.
type ServiceKind string

const (
	ServiceExam         ServiceKind = "exam"
	ServiceConsultation ServiceKind = "consultation"
)

// CatalogEntry holds the fields shared by exam and consultation types.
// Price is stored in cents; conversion to currency happens at display time.
type CatalogEntry struct {
	Name                   string `json:"name" gorm:"type:varchar(191);not null" example:"Hemograma Completo"`
	Description            string `json:"description" example:"Complete blood count"`
	MonthlyQuota           int    `json:"monthly_quota" gorm:"not null;default:0" example:"100"`
	Price                  int64  `json:"price" gorm:"not null;default:0" example:"5000"`
	NeedsSecretaryApproval bool   `json:"needs_secretary_approval" gorm:"not null;default:false"`
	IsActive               bool   `json:"is_active" gorm:"not null;default:true"`
}

// InitialStatus is the status a new request of this type starts with.
func (e CatalogEntry) InitialStatus() RequestStatus {
	if e.NeedsSecretaryApproval {
		return StatusPending
	}
	return StatusReceived
}

// Entry exposes the shared fields of an embedding catalog type.
func (e *CatalogEntry) Entry() *CatalogEntry { return e }

type ExamType struct {
	gorm.Model
	CatalogEntry `gorm:"embedded"`
}

type ConsultationType struct {
	gorm.Model
	CatalogEntry `gorm:"embedded"`
}
