// Package project provides create/read/update/delete for projects and their
// paired technical details.
package project

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zulandar/backlot/internal/models"
	"github.com/zulandar/backlot/internal/record"
	"github.com/zulandar/backlot/internal/validate"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateOpts holds parameters for creating a project and its detail.
type CreateOpts struct {
	Name        string
	Description string
	StartDate   time.Time
	Status      models.ProjectStatus // empty means PLANNING

	Platform string
	Engine   string
	TeamSize int
}

// UpdateOpts holds the fields to change. Nil fields are left as stored.
type UpdateOpts struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	Status      *models.ProjectStatus

	Platform *string
	Engine   *string
	TeamSize *int
}

// ListFilters holds optional filters for listing projects.
type ListFilters struct {
	Status models.ProjectStatus
	Search string // matches name or description, ignoring case
}

// Count holds the number of assets and tasks attached to a project.
type Count struct {
	Assets int64
	Tasks  int64
}

// Create validates both halves and inserts the project and its detail in one
// transaction.
func Create(db *gorm.DB, opts CreateOpts) (*models.Project, error) {
	pin, perr := validate.Project(validate.ProjectInput{
		Name:        opts.Name,
		Description: opts.Description,
		StartDate:   opts.StartDate,
		Status:      opts.Status,
	})
	din, derr := validate.Detail(validate.DetailInput{
		Platform: opts.Platform,
		Engine:   opts.Engine,
		TeamSize: opts.TeamSize,
	})
	if err := validate.Merge(perr, derr); err != nil {
		return nil, err
	}

	p := models.Project{
		Name:        pin.Name,
		Description: pin.Description,
		StartDate:   pin.StartDate,
		Status:      pin.Status,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&p).Error; err != nil {
			return err
		}
		d := models.ProjectDetail{
			ProjectID: p.ID,
			Platform:  din.Platform,
			Engine:    din.Engine,
			TeamSize:  din.TeamSize,
		}
		if err := tx.Create(&d).Error; err != nil {
			return err
		}
		p.Detail = &d
		return nil
	})
	if err != nil {
		return nil, record.Wrap("project: create", err)
	}
	return &p, nil
}

// Get retrieves a project by ID with its detail.
func Get(db *gorm.DB, id uint) (*models.Project, error) {
	var p models.Project
	if err := db.Preload("Detail").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, record.NotFound("project", id)
		}
		return nil, fmt.Errorf("project: get %d: %w", id, err)
	}
	return &p, nil
}

// Exists reports whether a project with id is stored.
func Exists(db *gorm.DB, id uint) (bool, error) {
	var n int64
	if err := db.Model(&models.Project{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("project: check %d: %w", id, err)
	}
	return n > 0, nil
}

// List returns projects matching filters, newest start date first.
func List(db *gorm.DB, filters ListFilters) ([]models.Project, error) {
	q := db.Model(&models.Project{}).Preload("Detail")

	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if s := strings.TrimSpace(filters.Search); s != "" {
		like := record.Contains(s)
		q = q.Where(record.Like("LOWER(name)")+" OR "+record.Like("LOWER(description)"), like, like)
	}

	var projects []models.Project
	if err := q.Order("start_date DESC, id DESC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("project: list: %w", err)
	}
	return projects, nil
}

// Update overlays opts onto the stored project and detail, validates both,
// and writes both in one transaction. Nothing is written if either half
// fails. A project without a detail is reported as an integrity error.
func Update(db *gorm.DB, id uint, opts UpdateOpts) (*models.Project, error) {
	op := fmt.Sprintf("project: update %d", id)
	var p models.Project

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return record.NotFound("project", id)
			}
			return err
		}
		var d models.ProjectDetail
		if err := tx.Where("project_id = ?", id).First(&d).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return record.Integrity(op, errors.New("project detail missing"))
			}
			return err
		}

		pin := validate.ProjectInput{Name: p.Name, Description: p.Description, StartDate: p.StartDate, Status: p.Status}
		din := validate.DetailInput{Platform: d.Platform, Engine: d.Engine, TeamSize: d.TeamSize}
		if opts.Name != nil {
			pin.Name = *opts.Name
		}
		if opts.Description != nil {
			pin.Description = *opts.Description
		}
		if opts.StartDate != nil {
			pin.StartDate = *opts.StartDate
		}
		if opts.Status != nil {
			pin.Status = *opts.Status
		}
		if opts.Platform != nil {
			din.Platform = *opts.Platform
		}
		if opts.Engine != nil {
			din.Engine = *opts.Engine
		}
		if opts.TeamSize != nil {
			din.TeamSize = *opts.TeamSize
		}

		pin, perr := validate.Project(pin)
		din, derr := validate.Detail(din)
		if err := validate.Merge(perr, derr); err != nil {
			return err
		}

		p.Name, p.Description, p.StartDate, p.Status = pin.Name, pin.Description, pin.StartDate, pin.Status
		d.Platform, d.Engine, d.TeamSize = din.Platform, din.Engine, din.TeamSize

		if err := tx.Omit(clause.Associations).Save(&p).Error; err != nil {
			return err
		}
		if err := tx.Save(&d).Error; err != nil {
			return err
		}
		p.Detail = &d
		return nil
	})
	if err != nil {
		if validate.IsValidation(err) {
			return nil, err
		}
		return nil, record.Wrap(op, err)
	}
	return &p, nil
}

// Delete removes a project together with its detail, assets, tasks and the
// tag links of those tasks. Tags themselves are kept.
func Delete(db *gorm.DB, id uint) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var p models.Project
		if err := tx.Select("id").First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return record.NotFound("project", id)
			}
			return err
		}

		var taskIDs []uint
		if err := tx.Model(&models.Task{}).Where("project_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Exec("DELETE FROM task_tags WHERE task_id IN ?", taskIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Asset{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
	return record.Wrap(fmt.Sprintf("project: delete %d", id), err)
}

// Counts returns asset and task totals for each of ids. Projects with
// nothing attached map to a zero Count.
func Counts(db *gorm.DB, ids []uint) (map[uint]Count, error) {
	out := make(map[uint]Count, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	for _, id := range ids {
		out[id] = Count{}
	}

	type row struct {
		ProjectID uint
		N         int64
	}
	var assets, tasks []row
	if err := db.Model(&models.Asset{}).
		Select("project_id, COUNT(*) AS n").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&assets).Error; err != nil {
		return nil, fmt.Errorf("project: count assets: %w", err)
	}
	if err := db.Model(&models.Task{}).
		Select("project_id, COUNT(*) AS n").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&tasks).Error; err != nil {
		return nil, fmt.Errorf("project: count tasks: %w", err)
	}
	for _, r := range assets {
		c := out[r.ProjectID]
		c.Assets = r.N
		out[r.ProjectID] = c
	}
	for _, r := range tasks {
		c := out[r.ProjectID]
		c.Tasks = r.N
		out[r.ProjectID] = c
	}
	return out, nil
}
