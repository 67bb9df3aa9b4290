// Package task provides create/read/update/delete for tasks and their tag
// links.
package task

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zulandar/backlot/internal/models"
	"github.com/zulandar/backlot/internal/project"
	"github.com/zulandar/backlot/internal/record"
	"github.com/zulandar/backlot/internal/validate"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// now stamps CreatedAt; tests replace it to control ordering.
var now = time.Now

// CreateOpts holds parameters for creating a task.
type CreateOpts struct {
	Title       string
	Description string
	Status      models.TaskStatus   // empty means PENDING
	Priority    models.TaskPriority // empty means MEDIUM
	ProjectID   uint
	TagIDs      []uint
}

// UpdateOpts holds the fields to change. Nil fields are left as stored.
// A non-nil TagIDs replaces the task's tags, so a pointer to an empty
// slice clears them.
type UpdateOpts struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	ProjectID   *uint
	TagIDs      *[]uint
}

// ListFilters holds optional filters for listing tasks.
type ListFilters struct {
	Status    models.TaskStatus
	Priority  models.TaskPriority
	ProjectID uint
	TagID     uint
	Search    string // matches title or description, ignoring case
}

// Create validates and inserts a task with its tag links. The project and
// every tag must exist.
func Create(db *gorm.DB, opts CreateOpts) (*models.Task, error) {
	in, err := validate.Task(validate.TaskInput{
		Title:       opts.Title,
		Description: opts.Description,
		Status:      opts.Status,
		Priority:    opts.Priority,
		ProjectID:   opts.ProjectID,
		TagIDs:      opts.TagIDs,
	})
	if err != nil {
		return nil, err
	}
	if err := requireProject(db, in.ProjectID); err != nil {
		return nil, err
	}
	tags, err := loadTags(db, in.TagIDs)
	if err != nil {
		return nil, err
	}

	t := models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		ProjectID:   in.ProjectID,
		CreatedAt:   now(),
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&t).Error; err != nil {
			return err
		}
		return linkTags(tx, t.ID, tags)
	})
	if err != nil {
		return nil, record.Wrap("task: create", err)
	}
	t.Tags = tags
	return &t, nil
}

// Get retrieves a task by ID with its project and tags.
func Get(db *gorm.DB, id uint) (*models.Task, error) {
	var t models.Task
	if err := withRelations(db).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, record.NotFound("task", id)
		}
		return nil, fmt.Errorf("task: get %d: %w", id, err)
	}
	return &t, nil
}

// List returns tasks matching filters, newest first.
func List(db *gorm.DB, filters ListFilters) ([]models.Task, error) {
	q := withRelations(db.Model(&models.Task{}))

	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.Priority != "" {
		q = q.Where("priority = ?", filters.Priority)
	}
	if filters.ProjectID != 0 {
		q = q.Where("project_id = ?", filters.ProjectID)
	}
	if filters.TagID != 0 {
		q = q.Where("id IN (?)", db.Table("task_tags").Select("task_id").Where("tag_id = ?", filters.TagID))
	}
	if s := strings.TrimSpace(filters.Search); s != "" {
		like := record.Contains(s)
		q = q.Where(record.Like("LOWER(title)")+" OR "+record.Like("LOWER(description)"), like, like)
	}

	var tasks []models.Task
	if err := q.Order("created_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("task: list: %w", err)
	}
	return tasks, nil
}

// Update overlays opts onto the stored task and validates the result. Tags
// are replaced only when opts.TagIDs is set. CreatedAt is never changed.
func Update(db *gorm.DB, id uint, opts UpdateOpts) (*models.Task, error) {
	var t models.Task
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return record.NotFound("task", id)
			}
			return err
		}

		in := validate.TaskInput{
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
			Priority:    t.Priority,
			ProjectID:   t.ProjectID,
		}
		if opts.Title != nil {
			in.Title = *opts.Title
		}
		if opts.Description != nil {
			in.Description = *opts.Description
		}
		if opts.Status != nil {
			in.Status = *opts.Status
		}
		if opts.Priority != nil {
			in.Priority = *opts.Priority
		}
		if opts.ProjectID != nil {
			in.ProjectID = *opts.ProjectID
		}
		if opts.TagIDs != nil {
			in.TagIDs = *opts.TagIDs
			if in.TagIDs == nil {
				in.TagIDs = []uint{}
			}
		}
		in, err := validate.Task(in)
		if err != nil {
			return err
		}
		if in.ProjectID != t.ProjectID {
			if err := requireProject(tx, in.ProjectID); err != nil {
				return err
			}
		}

		if err := tx.Model(&t).Omit(clause.Associations, "created_at").Updates(map[string]interface{}{
			"title":       in.Title,
			"description": in.Description,
			"status":      in.Status,
			"priority":    in.Priority,
			"project_id":  in.ProjectID,
		}).Error; err != nil {
			return err
		}

		if in.TagIDs != nil {
			tags, err := loadTags(tx, in.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM task_tags WHERE task_id = ?", id).Error; err != nil {
				return err
			}
			if err := linkTags(tx, id, tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if validate.IsValidation(err) {
			return nil, err
		}
		return nil, record.Wrap(fmt.Sprintf("task: update %d", id), err)
	}
	return Get(db, id)
}

// Delete removes a task and its tag links. The tags are kept.
func Delete(db *gorm.DB, id uint) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM task_tags WHERE task_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return record.NotFound("task", id)
		}
		return nil
	})
	return record.Wrap(fmt.Sprintf("task: delete %d", id), err)
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Project").Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("tags.name_key ASC")
	})
}

// loadTags fetches the tags for ids, reporting unknown ids as a validation
// error on the tags field.
func loadTags(db *gorm.DB, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}
	var tags []models.Tag
	if err := db.Where("id IN ?", ids).Order("name_key ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("task: load tags: %w", err)
	}
	if len(tags) == len(ids) {
		return tags, nil
	}
	found := make(map[uint]bool, len(tags))
	for _, tg := range tags {
		found[tg.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, strconv.FormatUint(uint64(id), 10))
		}
	}
	return nil, validate.Field("tags", "unknown tag ids: "+strings.Join(missing, ", "))
}

func linkTags(tx *gorm.DB, taskID uint, tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, len(tags))
	for i, tg := range tags {
		rows[i] = map[string]interface{}{"task_id": taskID, "tag_id": tg.ID}
	}
	return tx.Table("task_tags").Create(rows).Error
}

// requireProject turns a missing project into a validation error on
// project_id.
func requireProject(db *gorm.DB, id uint) error {
	ok, err := project.Exists(db, id)
	if err != nil {
		return err
	}
	if !ok {
		return validate.Field("project_id", fmt.Sprintf("project %d does not exist", id))
	}
	return nil
}
