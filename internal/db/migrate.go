package db

import (
	"fmt"
	"strings"

	"github.com/zulandar/backlot/internal/models"
	"github.com/zulandar/backlot/internal/validate"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns every gorm model in migration order. Parents precede
// children so foreign keys resolve.
func AllModels() []interface{} {
	return []interface{}{
		&models.Project{},
		&models.ProjectDetail{},
		&models.Tag{},
		&models.Asset{},
		&models.Task{},
	}
}

// AutoMigrate creates or updates all tables, including the task_tags join.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// DropAll drops every Backlot table, children first. Tables that do not exist
// are skipped.
func DropAll(db *gorm.DB) error {
	tables := []interface{}{"task_tags"}
	all := AllModels()
	for i := len(all) - 1; i >= 0; i-- {
		tables = append(tables, all[i])
	}
	for _, t := range tables {
		if err := db.Migrator().DropTable(t); err != nil {
			return fmt.Errorf("db: drop tables: %w", err)
		}
	}
	return nil
}

// SeedTags inserts the configured starter tags, skipping blank names and any
// name that already exists ignoring case. Every name must pass the tag rules;
// nothing is inserted when one fails. It returns the number of tags inserted.
func SeedTags(db *gorm.DB, names []string) (int, error) {
	var valid []string
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		name, err := validate.Tag(name, 0, nil)
		if err != nil {
			return 0, fmt.Errorf("db: seed tags[%d] %q: %w", i, name, err)
		}
		valid = append(valid, name)
	}

	seeded := 0
	for _, name := range valid {
		tag := models.Tag{Name: name}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name_key"}},
			DoNothing: true,
		}).Create(&tag)
		if result.Error != nil {
			return seeded, fmt.Errorf("db: seed tag %q: %w", tag.Name, result.Error)
		}
		seeded += int(result.RowsAffected)
	}
	return seeded, nil
}
