package referral

import (
	"github.com/ariebrainware/sisreg/model"
	"gorm.io/gorm"
)

// Visible restricts a requests query to active requests. Every normal listing
// and statistic goes through it; pending and suspended requests are reachable
// only through PendingOnly and SuspendedOnly.
func Visible(db *gorm.DB) *gorm.DB {
	return db.Where("requests.status NOT IN ?", model.HiddenStatuses())
}

// PendingOnly restricts a requests query to requests awaiting secretary approval.
func PendingOnly(db *gorm.DB) *gorm.DB {
	return db.Where("requests.status = ?", model.StatusPending)
}

// SuspendedOnly restricts a requests query to suspended requests.
func SuspendedOnly(db *gorm.DB) *gorm.DB {
	return db.Where("requests.status = ?", model.StatusSuspended)
}

// InPeriod restricts a requests query to a reporting month.
func InPeriod(p Period) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("requests.reporting_year = ? AND requests.reporting_month = ?", p.Year, p.Month)
	}
}

// withStatuses restricts a requests query to the given statuses.
func withStatuses(statuses ...model.RequestStatus) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("requests.status IN ?", statuses)
	}
}

func preloadRequest(db *gorm.DB) *gorm.DB {
	return db.Preload("Patient").Preload("HealthUnit").Preload("ExamType").Preload("ConsultationType").Preload("CreatedBy")
}
