// Package config provides YAML-based configuration loading for Backlot.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/zulandar/backlot/internal/validate"
	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config is the top-level Backlot configuration, loaded from backlot.yaml.
type Config struct {
	Studio   string         `yaml:"studio"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Tags     []string       `yaml:"tags"`
}

// DatabaseConfig selects the storage engine and how to reach it.
// Path is used by sqlite; Host/Port/User/Password/Name by mysql and postgres.
// A non-empty DSN overrides everything else for the chosen driver.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	DSN      string `yaml:"dsn"`
}

// ServerConfig holds settings for the JSON API server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LogConfig controls the zerolog logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Load reads a YAML config file from path and returns a validated Config.
// Environment overrides (BACKLOT_*) are applied before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return parse(data, os.LookupEnv)
}

// Parse unmarshals YAML bytes into a validated Config. It does not consult the
// environment.
func Parse(data []byte) (*Config, error) {
	return parse(data, func(string) (string, bool) { return "", false })
}

func parse(data []byte, lookup func(string) (string, bool)) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overlays BACKLOT_* environment variables onto the file values.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("BACKLOT_DB_DRIVER"); ok && v != "" {
		c.Database.Driver = v
	}
	if v, ok := lookup("BACKLOT_DB_DSN"); ok && v != "" {
		c.Database.DSN = v
	}
	if v, ok := lookup("BACKLOT_DB_PATH"); ok && v != "" {
		c.Database.Path = v
	}
	if v, ok := lookup("BACKLOT_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("BACKLOT_SERVER_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: BACKLOT_SERVER_PORT %q is not a number", v)
		}
		c.Server.Port = port
	}
	return nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	c.Database.Driver = strings.ToLower(c.Database.Driver)

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			c.Database.Path = "backlot.db"
		}
	case DriverMySQL, DriverPostgres:
		if c.Database.Host == "" {
			c.Database.Host = "127.0.0.1"
		}
		if c.Database.Port == 0 {
			c.Database.Port = 3306
			if c.Database.Driver == DriverPostgres {
				c.Database.Port = 5432
			}
		}
		if c.Database.User == "" {
			c.Database.User = "root"
			if c.Database.Driver == DriverPostgres {
				c.Database.User = "postgres"
			}
		}
		if c.Database.Name == "" {
			c.Database.Name = "backlot"
			if c.Studio != "" {
				c.Database.Name = "backlot_" + strings.ReplaceAll(c.Studio, "-", "_")
			}
		}
	}

	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Studio == "" {
		errs = append(errs, "studio is required")
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not one of sqlite, mysql, postgres", c.Database.Driver))
	}
	if c.Database.Port < 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port %d is out of range", c.Database.Port))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q is not one of console, json", c.Log.Format))
	}
	seen := make(map[string]bool)
	for i, t := range c.Tags {
		key := strings.ToLower(strings.TrimSpace(t))
		if key == "" {
			errs = append(errs, fmt.Sprintf("tags[%d] is empty", i))
			continue
		}
		var ve *validate.Error
		if _, err := validate.Tag(t, 0, nil); errors.As(err, &ve) {
			for _, f := range ve.Fields {
				errs = append(errs, fmt.Sprintf("tags[%d] %q: %s", i, t, f.Message))
			}
			continue
		}
		if seen[key] {
			errs = append(errs, fmt.Sprintf("tags[%d] %q is a duplicate", i, t))
		}
		seen[key] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
