package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zulandar/backlot/internal/config"
	"github.com/zulandar/backlot/internal/db"
	"github.com/zulandar/backlot/internal/logging"
	"gorm.io/gorm"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBResetCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the Backlot database",
		Long:  "Creates the database if needed, migrates all tables, and seeds the starter tags from config.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fmt.Fprintf(out, "Loaded config for studio %q from %s\n", cfg.Studio, configPath)

	if needsAdmin(cfg.Database) {
		adminDB, err := db.ConnectAdmin(cfg.Database)
		if err != nil {
			return err
		}
		if err := db.CreateDatabase(adminDB, cfg.Database.Name); err != nil {
			return err
		}
		fmt.Fprintf(out, "Database %s ready\n", cfg.Database.Name)
	}

	gormDB, err := openDB(cmd, cfg)
	if err != nil {
		return err
	}
	if err := migrateAndSeed(out, gormDB, cfg); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nBacklot database initialized successfully.")
	return nil
}

func newDBResetCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and re-initialize the Backlot database",
		Long: `Deletes every Backlot record and re-creates the schema from config.

For sqlite the database file is removed. For mysql and postgres the database
is dropped and created again, unless a DSN is configured, in which case only
the Backlot tables are dropped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBReset(cmd, configPath, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runDBReset(cmd *cobra.Command, configPath string, yes bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fmt.Fprintf(out, "Loaded config for studio %q from %s\n", cfg.Studio, configPath)

	target := databaseLabel(cfg.Database)
	ok, err := confirm(cmd, fmt.Sprintf("This will permanently delete all data in %s.", target), yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	switch {
	case cfg.Database.Driver == config.DriverSQLite && cfg.Database.DSN == "":
		if err := db.RemoveSQLite(cfg.Database.Path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %s\n", cfg.Database.Path)
	case needsAdmin(cfg.Database):
		adminDB, err := db.ConnectAdmin(cfg.Database)
		if err != nil {
			return err
		}
		if err := db.DropDatabase(adminDB, cfg.Database.Name); err != nil {
			return err
		}
		fmt.Fprintf(out, "Dropped database %s\n", cfg.Database.Name)
		if err := db.CreateDatabase(adminDB, cfg.Database.Name); err != nil {
			return err
		}
		fmt.Fprintf(out, "Database %s re-created\n", cfg.Database.Name)
	default:
		gormDB, err := openDB(cmd, cfg)
		if err != nil {
			return err
		}
		if err := db.DropAll(gormDB); err != nil {
			return err
		}
		fmt.Fprintln(out, "Dropped Backlot tables")
	}

	gormDB, err := openDB(cmd, cfg)
	if err != nil {
		return err
	}
	if err := migrateAndSeed(out, gormDB, cfg); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nBacklot database reset and re-initialized successfully.")
	return nil
}

func migrateAndSeed(out io.Writer, gormDB *gorm.DB, cfg *config.Config) error {
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	n, err := db.SeedTags(gormDB, cfg.Tags)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Seeded %d of %d tags", n, len(cfg.Tags))
	if len(cfg.Tags) > 0 {
		fmt.Fprintf(out, ": %s", strings.Join(cfg.Tags, ", "))
	}
	fmt.Fprintln(out)
	return nil
}

// needsAdmin reports whether the database itself must be created or dropped
// through a server connection.
func needsAdmin(cfg config.DatabaseConfig) bool {
	return cfg.DSN == "" && (cfg.Driver == config.DriverMySQL || cfg.Driver == config.DriverPostgres)
}

func databaseLabel(cfg config.DatabaseConfig) string {
	switch {
	case cfg.DSN != "":
		return cfg.Driver + " database (from DSN)"
	case cfg.Driver == config.DriverSQLite:
		return fmt.Sprintf("sqlite database %q", cfg.Path)
	default:
		return fmt.Sprintf("%s database %q", cfg.Driver, cfg.Name)
	}
}

// connectFromConfig loads config and returns a GORM DB connection.
func connectFromConfig(cmd *cobra.Command, configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	gormDB, err := openDB(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, gormDB, nil
}

// openDB connects with SQL tracing routed to the configured logger on stderr.
func openDB(cmd *cobra.Command, cfg *config.Config) (*gorm.DB, error) {
	log := logging.New(cfg.Log, cmd.ErrOrStderr())
	return db.Connect(cfg.Database, db.WithLogger(logging.NewGormLogger(log)))
}
