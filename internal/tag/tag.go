// Package tag provides create/read/update/delete for tags. Tag names are
// unique ignoring case.
package tag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zulandar/backlot/internal/models"
	"github.com/zulandar/backlot/internal/record"
	"github.com/zulandar/backlot/internal/validate"
	"gorm.io/gorm"
)

// ListFilters holds optional filters for listing tags.
type ListFilters struct {
	Search string
}

// names adapts a database handle to validate.TagNames.
type names struct {
	db *gorm.DB
}

func (n names) TagNameTaken(name string, excludeID uint) (bool, error) {
	return NameTaken(n.db, name, excludeID)
}

// NameTaken reports whether a tag other than excludeID already uses name,
// ignoring case.
func NameTaken(db *gorm.DB, name string, excludeID uint) (bool, error) {
	q := db.Model(&models.Tag{}).Where("name_key = ?", models.TagKey(name))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("tag: check name %q: %w", name, err)
	}
	return n > 0, nil
}

// Create validates and inserts a tag. A concurrent insert of the same name
// surfaces as an integrity error from the unique index.
func Create(db *gorm.DB, name string) (*models.Tag, error) {
	name, err := validate.Tag(name, 0, names{db})
	if err != nil {
		return nil, err
	}
	t := models.Tag{Name: name}
	if err := db.Create(&t).Error; err != nil {
		return nil, record.Wrap("tag: create", err)
	}
	return &t, nil
}

// Get retrieves a tag by ID.
func Get(db *gorm.DB, id uint) (*models.Tag, error) {
	var t models.Tag
	if err := db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, record.NotFound("tag", id)
		}
		return nil, fmt.Errorf("tag: get %d: %w", id, err)
	}
	return &t, nil
}

// List returns tags in alphabetical order.
func List(db *gorm.DB, filters ListFilters) ([]models.Tag, error) {
	q := db.Model(&models.Tag{})
	if s := strings.TrimSpace(filters.Search); s != "" {
		q = q.Where(record.Like("name_key"), record.Contains(s))
	}

	var tags []models.Tag
	if err := q.Order("name_key ASC, name ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("tag: list: %w", err)
	}
	return tags, nil
}

// Update renames a tag. Renaming onto another tag's name, ignoring case, is
// a validation error; changing only the case of its own name is allowed.
func Update(db *gorm.DB, id uint, name string) (*models.Tag, error) {
	t, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	name, err = validate.Tag(name, id, names{db})
	if err != nil {
		return nil, err
	}
	t.Name = name
	if err := db.Save(t).Error; err != nil {
		return nil, record.Wrap(fmt.Sprintf("tag: update %d", id), err)
	}
	return t, nil
}

// Delete removes a tag and its task links. Tasks are kept.
func Delete(db *gorm.DB, id uint) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM task_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Tag{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return record.NotFound("tag", id)
		}
		return nil
	})
	return record.Wrap(fmt.Sprintf("tag: delete %d", id), err)
}

// TaskCounts returns the number of tasks carrying each of ids.
func TaskCounts(db *gorm.DB, ids []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	for _, id := range ids {
		out[id] = 0
	}
	var rows []struct {
		TagID uint
		N     int64
	}
	if err := db.Table("task_tags").
		Select("tag_id, COUNT(*) AS n").
		Where("tag_id IN ?", ids).
		Group("tag_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("tag: count tasks: %w", err)
	}
	for _, r := range rows {
		out[r.TagID] = r.N
	}
	return out, nil
}
