package db

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/zulandar/backlot/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Option adjusts the gorm configuration used by Connect.
type Option func(*gorm.Config)

// WithLogger routes gorm's SQL logging through l instead of discarding it.
func WithLogger(l logger.Interface) Option {
	return func(c *gorm.Config) { c.Logger = l }
}

// DSN builds the driver-specific data source name for cfg. A non-empty
// cfg.DSN is returned unchanged.
func DSN(cfg config.DatabaseConfig) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return sqliteDSN(cfg.Path), nil
	case config.DriverMySQL:
		return mysqlDSN(cfg, cfg.Name), nil
	case config.DriverPostgres:
		return postgresDSN(cfg, cfg.Name), nil
	default:
		return "", fmt.Errorf("db: unsupported driver %q", cfg.Driver)
	}
}

// sqliteDSN enables foreign key enforcement, which sqlite leaves off by default.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func mysqlDSN(cfg config.DatabaseConfig, database string) string {
	mc := gomysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = database
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

func postgresDSN(cfg config.DatabaseConfig, database string) string {
	parts := []string{
		"host=" + cfg.Host,
		"port=" + strconv.Itoa(cfg.Port),
		"user=" + cfg.User,
	}
	if cfg.Password != "" {
		parts = append(parts, "password="+cfg.Password)
	}
	parts = append(parts, "dbname="+database, "sslmode=disable")
	return strings.Join(parts, " ")
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case config.DriverSQLite, "":
		return sqlite.Open(dsn), nil
	case config.DriverMySQL:
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", driver)
	}
}

func open(driver, dsn string, opts []Option) (*gorm.DB, error) {
	d, err := dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	gcfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	for _, opt := range opts {
		opt(gcfg)
	}
	return gorm.Open(d, gcfg)
}

// Connect opens a gorm connection to the configured database.
func Connect(cfg config.DatabaseConfig, opts ...Option) (*gorm.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	gdb, err := open(cfg.Driver, dsn, opts)
	if err != nil {
		return nil, fmt.Errorf("db: connect to %s: %w", describe(cfg), err)
	}
	if cfg.Driver == config.DriverSQLite || cfg.Driver == "" {
		// A single connection serializes writers and keeps ":memory:"
		// databases alive for the lifetime of the handle.
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("db: connect to %s: %w", describe(cfg), err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return gdb, nil
}

// ConnectAdmin opens a connection to a mysql or postgres server without
// selecting the application database, used for CREATE/DROP DATABASE.
func ConnectAdmin(cfg config.DatabaseConfig, opts ...Option) (*gorm.DB, error) {
	var dsn string
	switch cfg.Driver {
	case config.DriverMySQL:
		dsn = mysqlDSN(cfg, "")
	case config.DriverPostgres:
		dsn = postgresDSN(cfg, "postgres")
	default:
		return nil, fmt.Errorf("db: admin connection not supported for driver %q", cfg.Driver)
	}
	gdb, err := open(cfg.Driver, dsn, opts)
	if err != nil {
		return nil, fmt.Errorf("db: admin connect to %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return gdb, nil
}

// DropDatabase drops the named database if it exists.
func DropDatabase(adminDB *gorm.DB, name string) error {
	sql := fmt.Sprintf("DROP DATABASE IF EXISTS %s", quoteIdent(adminDB, name))
	if err := adminDB.Exec(sql).Error; err != nil {
		return fmt.Errorf("db: drop database %s: %w", name, err)
	}
	return nil
}

// CreateDatabase creates the named database if it doesn't already exist.
func CreateDatabase(adminDB *gorm.DB, name string) error {
	if adminDB.Dialector.Name() == config.DriverPostgres {
		// Postgres has no CREATE DATABASE IF NOT EXISTS.
		var n int64
		if err := adminDB.Raw("SELECT COUNT(*) FROM pg_database WHERE datname = ?", name).Scan(&n).Error; err != nil {
			return fmt.Errorf("db: create database %s: %w", name, err)
		}
		if n > 0 {
			return nil
		}
		if err := adminDB.Exec("CREATE DATABASE " + quoteIdent(adminDB, name)).Error; err != nil {
			return fmt.Errorf("db: create database %s: %w", name, err)
		}
		return nil
	}
	sql := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", quoteIdent(adminDB, name))
	if err := adminDB.Exec(sql).Error; err != nil {
		return fmt.Errorf("db: create database %s: %w", name, err)
	}
	return nil
}

// RemoveSQLite deletes a sqlite database file. Missing files and in-memory
// databases are not an error.
func RemoveSQLite(path string) error {
	if path == "" || strings.HasPrefix(path, ":memory:") || strings.HasPrefix(path, "file::memory:") {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("db: remove %s: %w", path, err)
	}
	return nil
}

func quoteIdent(gdb *gorm.DB, name string) string {
	var b strings.Builder
	gdb.Dialector.QuoteTo(&b, name)
	return b.String()
}

// describe names the database for error messages without leaking passwords.
func describe(cfg config.DatabaseConfig) string {
	switch {
	case cfg.DSN != "":
		return cfg.Driver + " (dsn)"
	case cfg.Driver == config.DriverMySQL || cfg.Driver == config.DriverPostgres:
		return fmt.Sprintf("%s %s:%d/%s", cfg.Driver, cfg.Host, cfg.Port, cfg.Name)
	default:
		return "sqlite " + cfg.Path
	}
}
