package referral

import (
	"context"
	"testing"
	"time"

	"github.com/ariebrainware/sisreg/model"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march = Period{Year: 2025, Month: 3}

func quotaLine(t *testing.T, r QuotaReport, name string) QuotaLine {
	t.Helper()
	line, ok := lo.Find(r.Items, func(l QuotaLine) bool { return l.Name == name })
	require.True(t, ok, "no quota line for %s", name)
	return line
}

// The worked example: a type without approval is received immediately and
// shows up in quota and in the received spending bucket.
func TestHemogramaScenario(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	req := f.createExam(t, f.hemograma)
	assert.Equal(t, model.StatusReceived, req.Status)

	quota, err := f.svc.QuotaUsage(ctx, march)
	require.NoError(t, err)
	line := quotaLine(t, quota, "Hemograma Completo")
	assert.Equal(t, 100, line.Quota)
	assert.Equal(t, int64(1), line.Used)
	assert.Equal(t, int64(99), line.Remaining)

	spending, err := f.svc.Spending(ctx, march)
	require.NoError(t, err)
	require.Len(t, spending.Received.Items, 1)
	assert.Equal(t, "Hemograma Completo", spending.Received.Items[0].Name)
	assert.Equal(t, int64(5000), spending.Received.Items[0].TotalSpent)
	assert.Equal(t, int64(5000), spending.Received.TotalSpent)
	assert.Empty(t, spending.Confirmed.Items)
	assert.Empty(t, spending.Forecast.Items)
}

func TestQuotaMonotonicity(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	used := func() int64 {
		r, err := f.svc.QuotaUsage(ctx, march)
		require.NoError(t, err)
		return quotaLine(t, r, "Raio X Tórax").Used
	}

	assert.Equal(t, int64(0), used())
	pending := f.createExam(t, f.raioX)
	assert.Equal(t, int64(0), used(), "pending requests do not count")

	_, err := f.svc.Approve(ctx, f.regulacao, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), used())

	_, err = f.svc.Suspend(ctx, f.regulacao, pending.ID, "documento ilegível")
	require.NoError(t, err)
	assert.Equal(t, int64(0), used(), "suspended requests do not count")
}

func TestQuotaExceededIsAdvisory(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		f.create(t, CreateInput{ConsultationTypeID: &f.cardio.ID})
	}
	r, err := f.svc.QuotaUsage(ctx, march)
	require.NoError(t, err)
	line := quotaLine(t, r, "Cardiologia")
	assert.Equal(t, int64(6), line.Used)
	assert.Equal(t, int64(-1), line.Remaining)
	assert.True(t, line.Exceeded)
}

func TestSpendingBucketsAreDisjoint(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	at := f.now

	statuses := []model.RequestStatus{
		model.StatusPending, model.StatusPending,
		model.StatusReceived,
		model.StatusAccepted, model.StatusConfirmed, model.StatusCompleted,
		model.StatusSuspended,
	}
	for _, st := range statuses {
		f.insert(t, f.patient.ID, &f.hemograma, nil, st, at)
	}
	f.insert(t, f.patient.ID, nil, &f.cardio, model.StatusConfirmed, at)
	f.insert(t, f.patient.ID, &f.hemograma, nil, model.StatusReceived, at.AddDate(0, -1, 0))

	r, err := f.svc.Spending(ctx, march)
	require.NoError(t, err)

	assert.Equal(t, int64(1), r.Received.Count)
	assert.Equal(t, int64(4), r.Confirmed.Count)
	assert.Equal(t, int64(2), r.Forecast.Count)
	assert.Equal(t, int64(5000), r.Received.TotalSpent)
	assert.Equal(t, int64(3*5000+12000), r.Confirmed.TotalSpent)
	assert.Equal(t, int64(2*5000), r.Forecast.TotalSpent)

	var nonSuspended int64
	f.db.Model(&model.Request{}).Scopes(InPeriod(march)).Where("status <> ?", model.StatusSuspended).Count(&nonSuspended)
	assert.Equal(t, nonSuspended, r.Received.Count+r.Confirmed.Count+r.Forecast.Count)
}

func TestReportsRejectBadPeriod(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.svc.QuotaUsage(ctx, Period{Year: 2025, Month: 13})
	requireKind(t, err, KindValidation)
	_, err = f.svc.Spending(ctx, Period{Year: 1999, Month: 1})
	requireKind(t, err, KindValidation)
	_, err = f.svc.Dashboard(ctx, Period{Year: 2025, Month: 0})
	requireKind(t, err, KindValidation)
}

func TestExhaustiveExclusion(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	active := f.createExam(t, f.hemograma)
	pending := f.createExam(t, f.raioX)
	suspended := f.createExam(t, f.hemograma)
	_, err := f.svc.Suspend(ctx, f.regulacao, suspended.ID, "duplicado")
	require.NoError(t, err)

	list, total, err := f.svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, active.ID, list[0].ID)

	for _, st := range []string{string(model.StatusPending), string(model.StatusSuspended)} {
		_, _, err := f.svc.List(ctx, ListFilter{Status: st})
		requireKind(t, err, KindValidation)
	}

	onlyPending, _, err := f.svc.ListPending(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, onlyPending, 1)
	assert.Equal(t, pending.ID, onlyPending[0].ID)

	onlySuspended, _, err := f.svc.ListSuspended(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, onlySuspended, 1)
	assert.Equal(t, suspended.ID, onlySuspended[0].ID)

	dash, err := f.svc.Dashboard(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dash.Total)
	assert.Equal(t, int64(1), dash.ByStatus[model.StatusReceived])
	assert.NotContains(t, dash.ByStatus, model.StatusPending)
	assert.NotContains(t, dash.ByStatus, model.StatusSuspended)
	assert.Equal(t, int64(1), dash.Pending)
	assert.Equal(t, int64(1), dash.Suspended)

	units, err := f.svc.MonthlyAuthorizations(ctx, march)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, int64(1), units[0].Count)
	assert.Equal(t, "UBS Centro", units[0].HealthUnitName)
}

func TestListFilters(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	urgent := f.create(t, CreateInput{ExamTypeID: &f.hemograma.ID, IsUrgent: true})
	f.create(t, CreateInput{ConsultationTypeID: &f.cardio.ID})
	f.insert(t, f.patient.ID, &f.hemograma, nil, model.StatusReceived, f.now.AddDate(0, 1, 0))

	yes := true
	list, total, err := f.svc.List(ctx, ListFilter{IsUrgent: &yes})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, urgent.ID, list[0].ID)

	_, total, err = f.svc.List(ctx, ListFilter{Year: 2025, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	list, _, err = f.svc.List(ctx, ListFilter{Keyword: "cardio"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Cardiologia", list[0].ServiceName())

	_, total, err = f.svc.List(ctx, ListFilter{Keyword: "maria"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	list, total, err = f.svc.List(ctx, ListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, list, 1)

	_, _, err = f.svc.List(ctx, ListFilter{Year: 2025, Month: 14})
	requireKind(t, err, KindValidation)
}

func TestMonthlyAuthorizationsPerUnit(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	other := model.HealthUnit{Name: "UBS Norte"}
	require.NoError(t, f.db.Create(&other).Error)

	f.create(t, CreateInput{ExamTypeID: &f.hemograma.ID})
	f.create(t, CreateInput{ExamTypeID: &f.hemograma.ID})
	f.create(t, CreateInput{ConsultationTypeID: &f.cardio.ID, HealthUnitID: other.ID})
	f.create(t, CreateInput{ExamTypeID: &f.raioX.ID, HealthUnitID: other.ID})

	units, err := f.svc.MonthlyAuthorizations(ctx, march)
	require.NoError(t, err)
	require.Len(t, units, 2)

	assert.Equal(t, "UBS Centro", units[0].HealthUnitName)
	assert.Equal(t, int64(2), units[0].Count)
	assert.Equal(t, int64(10000), units[0].TotalSpent)

	assert.Equal(t, "UBS Norte", units[1].HealthUnitName)
	assert.Equal(t, int64(1), units[1].Count, "pending raio x is not authorized yet")
	assert.Equal(t, int64(12000), units[1].TotalSpent)
}

func TestPeriod(t *testing.T) {
	p, err := ResolvePeriod(0, 0, time.Date(2024, time.December, 31, 23, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, Period{Year: 2024, Month: 12}, p)
	assert.Equal(t, "2024-12", p.String())
	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.Local), p.Start())

	p, err = ResolvePeriod(2026, 0, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, Period{Year: 2026, Month: 5}, p)

	_, err = ResolvePeriod(2101, 1, time.Now())
	requireKind(t, err, KindValidation)
}
