package referral

import (
	"context"
	"sort"

	"github.com/ariebrainware/sisreg/model"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// serviceRef identifies one exam or consultation type.
type serviceRef struct {
	Kind model.ServiceKind
	ID   uint
}

type catalogItem struct {
	serviceRef
	model.CatalogEntry
}

// loadCatalog returns every exam and consultation type, active or not.
func loadCatalog(db *gorm.DB) (map[serviceRef]catalogItem, []catalogItem, error) {
	var exams []model.ExamType
	if err := db.Order("name").Find(&exams).Error; err != nil {
		return nil, nil, err
	}
	var consultations []model.ConsultationType
	if err := db.Order("name").Find(&consultations).Error; err != nil {
		return nil, nil, err
	}
	items := make([]catalogItem, 0, len(exams)+len(consultations))
	for _, e := range exams {
		items = append(items, catalogItem{serviceRef{model.ServiceExam, e.ID}, e.CatalogEntry})
	}
	for _, c := range consultations {
		items = append(items, catalogItem{serviceRef{model.ServiceConsultation, c.ID}, c.CatalogEntry})
	}
	byRef := lo.SliceToMap(items, func(it catalogItem) (serviceRef, catalogItem) { return it.serviceRef, it })
	return byRef, items, nil
}

type typeCount struct {
	HealthUnitID       uint
	ExamTypeID         *uint
	ConsultationTypeID *uint
	Count              int64
}

func (t typeCount) ref() serviceRef {
	if t.ExamTypeID != nil {
		return serviceRef{model.ServiceExam, *t.ExamTypeID}
	}
	if t.ConsultationTypeID != nil {
		return serviceRef{model.ServiceConsultation, *t.ConsultationTypeID}
	}
	return serviceRef{}
}

// countByType counts requests in the period per service type under the
// given scopes.
func countByType(db *gorm.DB, p Period, perUnit bool, scopes ...func(*gorm.DB) *gorm.DB) ([]typeCount, error) {
	cols := "requests.exam_type_id, requests.consultation_type_id"
	if perUnit {
		cols = "requests.health_unit_id, " + cols
	}
	var rows []typeCount
	err := db.Model(&model.Request{}).
		Scopes(append(scopes, InPeriod(p))...).
		Select(cols + ", COUNT(*) AS count").
		Group(cols).
		Scan(&rows).Error
	return rows, err
}

// QuotaLine is the quota usage of one service type in a month.
type QuotaLine struct {
	Kind      model.ServiceKind `json:"kind"`
	TypeID    uint              `json:"type_id"`
	Name      string            `json:"name"`
	Quota     int               `json:"quota"`
	Used      int64             `json:"used"`
	Remaining int64             `json:"remaining"`
	Exceeded  bool              `json:"exceeded"`
}

// QuotaReport lists quota usage for every active type.
type QuotaReport struct {
	Period Period      `json:"period"`
	Items  []QuotaLine `json:"items"`
}

// QuotaUsage counts, per active type, the requests of the month that count
// against its quota. Pending and suspended requests do not count.
func (s *Service) QuotaUsage(ctx context.Context, p Period) (QuotaReport, error) {
	if err := p.Validate(); err != nil {
		return QuotaReport{}, err
	}
	db := s.db.WithContext(ctx)
	_, items, err := loadCatalog(db)
	if err != nil {
		return QuotaReport{}, err
	}
	rows, err := countByType(db, p, false, Visible)
	if err != nil {
		return QuotaReport{}, err
	}
	used := lo.SliceToMap(rows, func(r typeCount) (serviceRef, int64) { return r.ref(), r.Count })

	report := QuotaReport{Period: p, Items: []QuotaLine{}}
	for _, it := range items {
		if !it.IsActive {
			continue
		}
		n := used[it.serviceRef]
		report.Items = append(report.Items, QuotaLine{
			Kind:      it.Kind,
			TypeID:    it.ID,
			Name:      it.Name,
			Quota:     it.MonthlyQuota,
			Used:      n,
			Remaining: int64(it.MonthlyQuota) - n,
			Exceeded:  it.MonthlyQuota > 0 && n > int64(it.MonthlyQuota),
		})
	}
	return report, nil
}

// SpendingLine is the count and cost of one service type within a bucket.
// Amounts are in cents.
type SpendingLine struct {
	Kind       model.ServiceKind `json:"kind"`
	TypeID     uint              `json:"type_id"`
	Name       string            `json:"name"`
	Count      int64             `json:"count"`
	UnitPrice  int64             `json:"unit_price"`
	TotalSpent int64             `json:"total_spent"`
}

// SpendingBucket aggregates the lines of one status group.
type SpendingBucket struct {
	Count      int64          `json:"count"`
	TotalSpent int64          `json:"total_spent"`
	Items      []SpendingLine `json:"items"`
}

// SpendingReport splits the month's requests into three disjoint buckets.
type SpendingReport struct {
	Period    Period         `json:"period"`
	Received  SpendingBucket `json:"received"`
	Confirmed SpendingBucket `json:"confirmed"`
	Forecast  SpendingBucket `json:"forecast"`
}

// Spending buckets. Suspended requests belong to none of them.
var (
	receivedBucket  = []model.RequestStatus{model.StatusReceived}
	confirmedBucket = []model.RequestStatus{model.StatusAccepted, model.StatusConfirmed, model.StatusCompleted}
	forecastBucket  = []model.RequestStatus{model.StatusPending}
)

func buildBucket(rows []typeCount, catalog map[serviceRef]catalogItem) SpendingBucket {
	b := SpendingBucket{Items: []SpendingLine{}}
	for _, r := range rows {
		it, ok := catalog[r.ref()]
		if !ok {
			continue
		}
		line := SpendingLine{
			Kind:       it.Kind,
			TypeID:     it.ID,
			Name:       it.Name,
			Count:      r.Count,
			UnitPrice:  it.Price,
			TotalSpent: r.Count * it.Price,
		}
		b.Items = append(b.Items, line)
		b.Count += line.Count
		b.TotalSpent += line.TotalSpent
	}
	sortLines(b.Items)
	return b
}

func sortLines(lines []SpendingLine) {
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Kind != lines[j].Kind {
			return lines[i].Kind == model.ServiceExam
		}
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].TypeID < lines[j].TypeID
	})
}

// Spending prices the month's requests at the current catalog prices.
func (s *Service) Spending(ctx context.Context, p Period) (SpendingReport, error) {
	if err := p.Validate(); err != nil {
		return SpendingReport{}, err
	}
	db := s.db.WithContext(ctx)
	catalog, _, err := loadCatalog(db)
	if err != nil {
		return SpendingReport{}, err
	}

	report := SpendingReport{Period: p}
	buckets := []struct {
		statuses []model.RequestStatus
		dst      *SpendingBucket
	}{
		{receivedBucket, &report.Received},
		{confirmedBucket, &report.Confirmed},
		{forecastBucket, &report.Forecast},
	}
	for _, b := range buckets {
		rows, err := countByType(db, p, false, withStatuses(b.statuses...))
		if err != nil {
			return SpendingReport{}, err
		}
		*b.dst = buildBucket(rows, catalog)
	}
	return report, nil
}

// UnitAuthorizations is what one health unit had authorized in a month.
type UnitAuthorizations struct {
	HealthUnitID   uint           `json:"health_unit_id"`
	HealthUnitName string         `json:"health_unit_name"`
	Count          int64          `json:"count"`
	TotalSpent     int64          `json:"total_spent"`
	Items          []SpendingLine `json:"items"`
}

// MonthlyAuthorizations groups the month's active requests by health unit.
func (s *Service) MonthlyAuthorizations(ctx context.Context, p Period) ([]UnitAuthorizations, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	catalog, _, err := loadCatalog(db)
	if err != nil {
		return nil, err
	}
	rows, err := countByType(db, p, true, Visible)
	if err != nil {
		return nil, err
	}
	var units []model.HealthUnit
	if err := db.Unscoped().Where("id IN ?", lo.Uniq(lo.Map(rows, func(r typeCount, _ int) uint { return r.HealthUnitID }))).Find(&units).Error; err != nil {
		return nil, err
	}
	names := lo.SliceToMap(units, func(u model.HealthUnit) (uint, string) { return u.ID, u.Name })

	out := []UnitAuthorizations{}
	for unitID, unitRows := range lo.GroupBy(rows, func(r typeCount) uint { return r.HealthUnitID }) {
		b := buildBucket(unitRows, catalog)
		out = append(out, UnitAuthorizations{
			HealthUnitID:   unitID,
			HealthUnitName: names[unitID],
			Count:          b.Count,
			TotalSpent:     b.TotalSpent,
			Items:          b.Items,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HealthUnitName != out[j].HealthUnitName {
			return out[i].HealthUnitName < out[j].HealthUnitName
		}
		return out[i].HealthUnitID < out[j].HealthUnitID
	})
	return out, nil
}

// Dashboard summarises a month. ByStatus and Total cover active requests
// only; pending and suspended are counted on their own.
type Dashboard struct {
	Period    Period                        `json:"period"`
	Total     int64                         `json:"total"`
	Urgent    int64                         `json:"urgent"`
	ByStatus  map[model.RequestStatus]int64 `json:"by_status"`
	Pending   int64                         `json:"pending"`
	Suspended int64                         `json:"suspended"`
}

func (s *Service) Dashboard(ctx context.Context, p Period) (Dashboard, error) {
	if err := p.Validate(); err != nil {
		return Dashboard{}, err
	}
	db := s.db.WithContext(ctx)
	d := Dashboard{Period: p, ByStatus: map[model.RequestStatus]int64{}}

	var rows []statusCount
	if err := db.Model(&model.Request{}).Scopes(Visible, InPeriod(p)).
		Select("requests.status AS status, COUNT(*) AS count").Group("requests.status").
		Scan(&rows).Error; err != nil {
		return Dashboard{}, err
	}
	for _, st := range lo.Flatten([][]model.RequestStatus{receivedBucket, confirmedBucket}) {
		d.ByStatus[st] = 0
	}
	for _, r := range rows {
		d.ByStatus[r.Status] = r.Count
		d.Total += r.Count
	}

	counts := []struct {
		dst    *int64
		scopes []func(*gorm.DB) *gorm.DB
	}{
		{&d.Urgent, []func(*gorm.DB) *gorm.DB{Visible, InPeriod(p), urgentOnly}},
		{&d.Pending, []func(*gorm.DB) *gorm.DB{PendingOnly, InPeriod(p)}},
		{&d.Suspended, []func(*gorm.DB) *gorm.DB{SuspendedOnly, InPeriod(p)}},
	}
	for _, c := range counts {
		if err := db.Model(&model.Request{}).Scopes(c.scopes...).Count(c.dst).Error; err != nil {
			return Dashboard{}, err
		}
	}
	return d, nil
}

type statusCount struct {
	Status model.RequestStatus
	Count  int64
}

func urgentOnly(db *gorm.DB) *gorm.DB {
	return db.Where("requests.is_urgent = ?", true)
}
