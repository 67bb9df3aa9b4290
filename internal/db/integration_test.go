//go:build integration

package db

import (
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/zulandar/backlot/internal/config"
	"github.com/zulandar/backlot/internal/models"
	"github.com/zulandar/backlot/internal/record"
)

// serverConfig reads connection settings for driver from
// BACKLOT_TEST_<DRIVER>_{HOST,PORT,USER,PASSWORD}, skipping the test when no
// host is set.
func serverConfig(t *testing.T, driver string) config.DatabaseConfig {
	t.Helper()
	prefix := "BACKLOT_TEST_" + map[string]string{config.DriverMySQL: "MYSQL", config.DriverPostgres: "POSTGRES"}[driver]
	host := os.Getenv(prefix + "_HOST")
	if host == "" {
		t.Skipf("%s_HOST not set", prefix)
	}
	cfg := config.DatabaseConfig{
		Driver:   driver,
		Host:     host,
		User:     os.Getenv(prefix + "_USER"),
		Password: os.Getenv(prefix + "_PASSWORD"),
		Name:     fmt.Sprintf("backlot_it_%d", time.Now().UnixNano()),
	}
	cfg.Port, _ = strconv.Atoi(os.Getenv(prefix + "_PORT"))
	if cfg.Port == 0 {
		cfg.Port = map[string]int{config.DriverMySQL: 3306, config.DriverPostgres: 5432}[driver]
	}
	if cfg.User == "" {
		cfg.User = map[string]string{config.DriverMySQL: "root", config.DriverPostgres: "postgres"}[driver]
	}
	return cfg
}

func TestIntegration_Servers(t *testing.T) {
	for _, driver := range []string{config.DriverMySQL, config.DriverPostgres} {
		t.Run(driver, func(t *testing.T) {
			cfg := serverConfig(t, driver)

			adminDB, err := ConnectAdmin(cfg)
			if err != nil {
				t.Fatalf("ConnectAdmin: %v", err)
			}
			if err := CreateDatabase(adminDB, cfg.Name); err != nil {
				t.Fatalf("CreateDatabase: %v", err)
			}
			// Creating twice is a no-op.
			if err := CreateDatabase(adminDB, cfg.Name); err != nil {
				t.Fatalf("second CreateDatabase: %v", err)
			}

			gdb, err := Connect(cfg)
			if err != nil {
				t.Fatalf("Connect: %v", err)
			}
			t.Cleanup(func() {
				if sqlDB, err := gdb.DB(); err == nil {
					sqlDB.Close()
				}
				if err := DropDatabase(adminDB, cfg.Name); err != nil {
					t.Errorf("DropDatabase: %v", err)
				}
			})

			if err := AutoMigrate(gdb); err != nil {
				t.Fatalf("AutoMigrate: %v", err)
			}
			n, err := SeedTags(gdb, []string{"Bug", "bug", "Art"})
			if err != nil {
				t.Fatalf("SeedTags: %v", err)
			}
			if n != 2 {
				t.Errorf("seeded %d tags, want 2", n)
			}

			err = gdb.Create(&models.Tag{Name: "ART"}).Error
			if !record.IsUniqueViolation(err) {
				t.Errorf("duplicate tag error = %v, want unique violation", err)
			}

			err = gdb.Create(&models.Asset{Name: "Orphan", Type: models.AssetSprite, ProjectID: 999}).Error
			if !record.IsForeignKeyViolation(err) {
				t.Errorf("orphan asset error = %v, want foreign key violation", err)
			}

			if err := DropAll(gdb); err != nil {
				t.Fatalf("DropAll: %v", err)
			}
			if gdb.Migrator().HasTable("projects") {
				t.Error("projects table still exists after DropAll")
			}
		})
	}
}
