package referral

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/notify"
	"github.com/ariebrainware/sisreg/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *memStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

type recordingPublisher struct {
	err  error
	sent []notify.Message
}

func (p *recordingPublisher) Publish(ctx context.Context, msg notify.Message) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, msg)
	return nil
}

type fixture struct {
	db    *gorm.DB
	svc   *Service
	store *memStore
	pub   *recordingPublisher
	now   time.Time

	admin, regulacao, recepcao Actor

	unit      model.HealthUnit
	hemograma model.ExamType
	raioX     model.ExamType
	cardio    model.ConsultationType
	patient   model.Patient
}

func (f *fixture) clock() time.Time { return f.now }

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb_%s_%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	require.NoError(t, model.SeedRoles(db))

	f := &fixture{
		db:    db,
		store: newMemStore(),
		pub:   &recordingPublisher{},
		now:   time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local),
	}
	f.svc = New(db, WithFileStore(f.store), WithPublisher(f.pub), WithClock(f.clock))

	f.unit = model.HealthUnit{Name: "UBS Centro", Address: "Rua Principal, 100"}
	require.NoError(t, db.Create(&f.unit).Error)

	users := []struct {
		actor *Actor
		role  uint32
		name  string
	}{
		{&f.admin, model.RoleAdmin, "admin"},
		{&f.regulacao, model.RoleRegulacao, "regulacao"},
		{&f.recepcao, model.RoleRecepcao, "recepcao"},
	}
	for _, u := range users {
		user := model.User{Name: "User " + u.name, Username: u.name, Password: "x", RoleID: u.role, HealthUnitID: &f.unit.ID}
		require.NoError(t, db.Create(&user).Error)
		*u.actor = Actor{UserID: user.ID, Role: model.RoleName(u.role)}
	}

	f.hemograma = model.ExamType{CatalogEntry: model.CatalogEntry{Name: "Hemograma Completo", MonthlyQuota: 100, Price: 5000, IsActive: true}}
	f.raioX = model.ExamType{CatalogEntry: model.CatalogEntry{Name: "Raio X Tórax", MonthlyQuota: 10, Price: 8000, NeedsSecretaryApproval: true, IsActive: true}}
	f.cardio = model.ConsultationType{CatalogEntry: model.CatalogEntry{Name: "Cardiologia", MonthlyQuota: 5, Price: 12000, IsActive: true}}
	require.NoError(t, db.Create(&f.hemograma).Error)
	require.NoError(t, db.Create(&f.raioX).Error)
	require.NoError(t, db.Create(&f.cardio).Error)

	cpf := "12345678909"
	f.patient = model.Patient{FullName: "Maria da Silva", CPF: &cpf, PhoneNumber: "11999998888"}
	require.NoError(t, db.Create(&f.patient).Error)
	return f
}

// create makes one request through the service as recepcao.
func (f *fixture) create(t *testing.T, in CreateInput) model.Request {
	t.Helper()
	if in.PatientID == 0 && in.Patient == nil {
		in.PatientID = f.patient.ID
	}
	reqs, err := f.svc.Create(context.Background(), f.recepcao, in)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	return reqs[0]
}

func (f *fixture) createExam(t *testing.T, et model.ExamType) model.Request {
	t.Helper()
	return f.create(t, CreateInput{ExamTypeID: &et.ID})
}

// insert stores a request directly with the given status and creation time.
func (f *fixture) insert(t *testing.T, patientID uint, et *model.ExamType, ct *model.ConsultationType, status model.RequestStatus, createdAt time.Time) model.Request {
	t.Helper()
	req := model.Request{
		CreatedAt:    createdAt,
		PatientID:    patientID,
		CreatedByID:  f.recepcao.UserID,
		HealthUnitID: f.unit.ID,
		Status:       status,
	}
	if et != nil {
		req.ExamTypeID = &et.ID
	}
	if ct != nil {
		req.ConsultationTypeID = &ct.ID
	}
	require.NoError(t, f.db.Create(&req).Error)
	return req
}

func (f *fixture) reload(t *testing.T, id uint) model.Request {
	t.Helper()
	var req model.Request
	require.NoError(t, f.db.First(&req, id).Error)
	return req
}

func (f *fixture) activity(t *testing.T, requestID uint) []model.ActivityLog {
	t.Helper()
	var logs []model.ActivityLog
	require.NoError(t, f.db.Where("request_id = ?", requestID).Order("id").Find(&logs).Error)
	return logs
}

func resultFile(content string) *FileUpload {
	return &FileUpload{Name: "laudo.pdf", Size: int64(len(content)), ContentType: "application/pdf", Body: strings.NewReader(content)}
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
}

var errBroker = errors.New("broker down")
