// Package asset provides create/read/update/delete for production assets.
package asset

import (
	"errors"
	"fmt"
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

// CreateOpts holds parameters for creating an asset.
type CreateOpts struct {
	Name        string
	Type        models.AssetType
	Description string
	ProjectID   uint
}

// UpdateOpts holds the fields to change. Nil fields are left as stored.
type UpdateOpts struct {
	Name        *string
	Type        *models.AssetType
	Description *string
	ProjectID   *uint
}

// ListFilters holds optional filters for listing assets.
type ListFilters struct {
	Type      models.AssetType
	ProjectID uint
	Search    string // matches name or description, ignoring case
}

// Create validates and inserts an asset. The project must exist.
func Create(db *gorm.DB, opts CreateOpts) (*models.Asset, error) {
	in, err := validate.Asset(validate.AssetInput{
		Name:        opts.Name,
		Type:        opts.Type,
		Description: opts.Description,
		ProjectID:   opts.ProjectID,
	})
	if err != nil {
		return nil, err
	}
	if err := requireProject(db, in.ProjectID); err != nil {
		return nil, err
	}

	a := models.Asset{
		Name:        in.Name,
		Type:        in.Type,
		Description: strings.TrimSpace(in.Description),
		ProjectID:   in.ProjectID,
		CreatedAt:   now(),
	}
	if err := db.Omit(clause.Associations).Create(&a).Error; err != nil {
		return nil, record.Wrap("asset: create", err)
	}
	return &a, nil
}

// Get retrieves an asset by ID with its project.
func Get(db *gorm.DB, id uint) (*models.Asset, error) {
	var a models.Asset
	if err := db.Preload("Project").First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, record.NotFound("asset", id)
		}
		return nil, fmt.Errorf("asset: get %d: %w", id, err)
	}
	return &a, nil
}

// List returns assets matching filters, newest first.
func List(db *gorm.DB, filters ListFilters) ([]models.Asset, error) {
	q := db.Model(&models.Asset{}).Preload("Project")

	if filters.Type != "" {
		q = q.Where("type = ?", filters.Type)
	}
	if filters.ProjectID != 0 {
		q = q.Where("project_id = ?", filters.ProjectID)
	}
	if s := strings.TrimSpace(filters.Search); s != "" {
		like := record.Contains(s)
		q = q.Where(record.Like("LOWER(name)")+" OR "+record.Like("LOWER(description)"), like, like)
	}

	var assets []models.Asset
	if err := q.Order("created_at DESC, id DESC").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("asset: list: %w", err)
	}
	return assets, nil
}

// Update overlays opts onto the stored asset and validates the result.
// CreatedAt is never changed.
func Update(db *gorm.DB, id uint, opts UpdateOpts) (*models.Asset, error) {
	var a models.Asset
	if err := db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, record.NotFound("asset", id)
		}
		return nil, fmt.Errorf("asset: get %d for update: %w", id, err)
	}

	in := validate.AssetInput{Name: a.Name, Type: a.Type, Description: a.Description, ProjectID: a.ProjectID}
	if opts.Name != nil {
		in.Name = *opts.Name
	}
	if opts.Type != nil {
		in.Type = *opts.Type
	}
	if opts.Description != nil {
		in.Description = *opts.Description
	}
	if opts.ProjectID != nil {
		in.ProjectID = *opts.ProjectID
	}
	in, err := validate.Asset(in)
	if err != nil {
		return nil, err
	}
	if in.ProjectID != a.ProjectID {
		if err := requireProject(db, in.ProjectID); err != nil {
			return nil, err
		}
	}

	a.Name, a.Type, a.Description, a.ProjectID = in.Name, in.Type, strings.TrimSpace(in.Description), in.ProjectID
	if err := db.Model(&a).Omit(clause.Associations, "created_at").Updates(map[string]interface{}{
		"name":        a.Name,
		"type":        a.Type,
		"description": a.Description,
		"project_id":  a.ProjectID,
	}).Error; err != nil {
		return nil, record.Wrap(fmt.Sprintf("asset: update %d", id), err)
	}
	return &a, nil
}

// Delete removes an asset.
func Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Asset{}, id)
	if result.Error != nil {
		return record.Wrap(fmt.Sprintf("asset: delete %d", id), result.Error)
	}
	if result.RowsAffected == 0 {
		return record.NotFound("asset", id)
	}
	return nil
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
