package db

import (
	"testing"

	"github.com/zulandar/backlot/internal/config"
	"gorm.io/gorm"
)

// NewTestDB returns a migrated in-memory sqlite database that is closed when
// the test finishes.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := Connect(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}
