package referral

import (
	"context"
	"strings"

	"github.com/ariebrainware/sisreg/model"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// ListFilter narrows request listings. Zero values mean "any".
type ListFilter struct {
	Year         int
	Month        int
	Status       string
	HealthUnitID uint
	PatientID    uint
	IsUrgent     *bool
	Keyword      string
	Limit        int
	Offset       int
}

func (f ListFilter) page() (limit, offset int) {
	limit = f.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset = f.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (f ListFilter) apply(db *gorm.DB) (*gorm.DB, error) {
	if f.Year != 0 || f.Month != 0 {
		p := Period{Year: f.Year, Month: f.Month}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		db = db.Scopes(InPeriod(p))
	}
	if f.HealthUnitID != 0 {
		db = db.Where("requests.health_unit_id = ?", f.HealthUnitID)
	}
	if f.PatientID != 0 {
		db = db.Where("requests.patient_id = ?", f.PatientID)
	}
	if f.IsUrgent != nil {
		db = db.Where("requests.is_urgent = ?", *f.IsUrgent)
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		db = db.Where(`(requests.patient_id IN (?) OR requests.exam_type_id IN (?) OR requests.consultation_type_id IN (?))`,
			db.Session(&gorm.Session{NewDB: true}).Model(&model.Patient{}).Select("id").Where("LOWER(full_name) LIKE ? OR cpf LIKE ?", like, like),
			db.Session(&gorm.Session{NewDB: true}).Model(&model.ExamType{}).Select("id").Where("LOWER(name) LIKE ?", like),
			db.Session(&gorm.Session{NewDB: true}).Model(&model.ConsultationType{}).Select("id").Where("LOWER(name) LIKE ?", like),
		)
	}
	return db, nil
}

// List returns active requests only. Pending and suspended requests are
// never part of it, whatever the filter says.
func (s *Service) List(ctx context.Context, f ListFilter) ([]model.Request, int64, error) {
	if f.Status != "" {
		st, ok := model.ParseStatus(f.Status)
		if !ok {
			return nil, 0, validationError("unknown status %q", f.Status)
		}
		if st == model.StatusPending || st == model.StatusSuspended {
			return nil, 0, validationError("status %q is listed through its dedicated query", st)
		}
		return s.list(ctx, f, Visible, withStatuses(st))
	}
	return s.list(ctx, f, Visible)
}

// ListPending returns requests awaiting secretary approval.
func (s *Service) ListPending(ctx context.Context, f ListFilter) ([]model.Request, int64, error) {
	return s.list(ctx, f, PendingOnly)
}

// ListSuspended returns suspended requests.
func (s *Service) ListSuspended(ctx context.Context, f ListFilter) ([]model.Request, int64, error) {
	return s.list(ctx, f, SuspendedOnly)
}

func (s *Service) list(ctx context.Context, f ListFilter, scopes ...func(*gorm.DB) *gorm.DB) ([]model.Request, int64, error) {
	db, err := f.apply(s.db.WithContext(ctx).Model(&model.Request{}).Scopes(scopes...))
	if err != nil {
		return nil, 0, err
	}
	db = db.Session(&gorm.Session{})
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit, offset := f.page()
	requests := []model.Request{}
	err = db.Scopes(preloadRequest).
		Order("requests.is_urgent DESC").Order("requests.created_at DESC").Order("requests.id DESC").
		Limit(limit).Offset(offset).
		Find(&requests).Error
	return requests, total, err
}
