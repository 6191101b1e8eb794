package model

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a private in-memory SQLite database with every table
// migrated and the roles seeded. The name is uniquified so shared-cache
// databases do not leak between tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb_model_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open test database")
	require.NoError(t, db.AutoMigrate(AllModels()...))
	require.NoError(t, SeedRoles(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// seedRequestDeps creates the rows every request points at.
func seedRequestDeps(t *testing.T, db *gorm.DB) (Patient, User, HealthUnit, ExamType) {
	t.Helper()
	unit := HealthUnit{Name: "UBS Centro"}
	require.NoError(t, db.Create(&unit).Error)
	user := User{Name: "Recepção", Username: "recepcao", Password: "hash", RoleID: RoleRecepcao, HealthUnitID: &unit.ID}
	require.NoError(t, db.Create(&user).Error)
	patient := Patient{FullName: "Maria da Silva", PhoneNumber: "11999998888"}
	require.NoError(t, db.Create(&patient).Error)
	exam := ExamType{CatalogEntry: CatalogEntry{Name: "Hemograma", MonthlyQuota: 10, Price: 1500, IsActive: true}}
	require.NoError(t, db.Create(&exam).Error)
	return patient, user, unit, exam
}
