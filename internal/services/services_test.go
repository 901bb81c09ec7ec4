package services

import (
	"testing"

	"github.com/hydroapp/hydro-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory sqlite database. The pool is pinned to
// one connection because each sqlite :memory: connection is its own
// database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.IntakeEntry{}, &models.DailyStat{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestServices(t *testing.T) (*gorm.DB, *ProfileService, *IntakeService, *StatsService, *ReportService) {
	t.Helper()
	db := newTestDB(t)
	profiles := NewProfileService(db, 33)
	intake := NewIntakeService(db)
	stats := NewStatsService(db)
	reports := NewReportService(db, profiles, intake, stats)
	return db, profiles, intake, stats, reports
}

func mustEnsure(t *testing.T, profiles *ProfileService, tgID int64) *models.User {
	t.Helper()
	user, err := profiles.EnsureUser(tgID, "tester", "Test")
	if err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}
	return user
}
