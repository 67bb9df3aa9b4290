package task

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zulandar/backlot/internal/db"
	"github.com/zulandar/backlot/internal/models"
	"github.com/zulandar/backlot/internal/project"
	"github.com/zulandar/backlot/internal/record"
	"github.com/zulandar/backlot/internal/validate"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	project *models.Project
	bug     models.Tag
	art     models.Tag
}

func setup(t *testing.T) fixture {
	t.Helper()
	gdb := db.NewTestDB(t)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}
	t.Cleanup(func() { now = time.Now })

	p, err := project.Create(gdb, project.CreateOpts{
		Name:        "Skyforge",
		Description: "Airship roguelike",
		StartDate:   base,
		Platform:    "PC",
		Engine:      "Godot",
		TeamSize:    4,
	})
	require.NoError(t, err)

	f := fixture{db: gdb, project: p, bug: models.Tag{Name: "Bug"}, art: models.Tag{Name: "Art"}}
	require.NoError(t, gdb.Create(&f.bug).Error)
	require.NoError(t, gdb.Create(&f.art).Error)
	return f
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, len(tags))
	for i, tg := range tags {
		names[i] = tg.Name
	}
	return names
}

func TestCreate_WithTags(t *testing.T) {
	f := setup(t)

	created, err := Create(f.db, CreateOpts{
		Title:       "  Fix jump physics ",
		Description: "Player clips through ledges",
		ProjectID:   f.project.ID,
		TagIDs:      []uint{f.bug.ID, f.art.ID, f.bug.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Fix jump physics", created.Title)
	assert.Equal(t, models.TaskPending, created.Status)
	assert.Equal(t, models.PriorityMedium, created.Priority)

	got, err := Get(f.db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Art", "Bug"}, tagNames(got.Tags))
	require.NotNil(t, got.Project)
	assert.Equal(t, "Skyforge", got.Project.Name)
}

func TestCreate_TitleBoundary(t *testing.T) {
	f := setup(t)

	_, err := Create(f.db, CreateOpts{Title: "1234", Description: "d", ProjectID: f.project.ID})
	assert.True(t, validate.IsValidation(err), "err = %v", err)

	_, err = Create(f.db, CreateOpts{Title: "12345", Description: "d", ProjectID: f.project.ID})
	assert.NoError(t, err)
}

func TestCreate_UnknownReferences(t *testing.T) {
	f := setup(t)

	_, err := Create(f.db, CreateOpts{Title: "Orphan task", Description: "d", ProjectID: 999})
	var ve *validate.Error
	require.True(t, errors.As(err, &ve), "err = %v", err)
	assert.True(t, ve.Has("project_id"))

	_, err = Create(f.db, CreateOpts{Title: "Tagged task", Description: "d", ProjectID: f.project.ID, TagIDs: []uint{f.bug.ID, 404}})
	require.True(t, errors.As(err, &ve), "err = %v", err)
	assert.True(t, ve.Has("tags"))
	assert.Contains(t, err.Error(), "404")

	var n int64
	f.db.Model(&models.Task{}).Count(&n)
	assert.Zero(t, n)
}

func TestGet_NotFound(t *testing.T) {
	f := setup(t)

	_, err := Get(f.db, 31)
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestUpdate_StatusOnlyLeavesRestUnchanged(t *testing.T) {
	f := setup(t)
	created, err := Create(f.db, CreateOpts{
		Title:       "Compose title theme",
		Description: "Orchestral",
		Priority:    models.PriorityHigh,
		ProjectID:   f.project.ID,
		TagIDs:      []uint{f.art.ID},
	})
	require.NoError(t, err)
	before, err := Get(f.db, created.ID)
	require.NoError(t, err)

	status := models.TaskInProgress
	updated, err := Update(f.db, created.ID, UpdateOpts{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, models.TaskInProgress, updated.Status)
	assert.Equal(t, before.Title, updated.Title)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, []string{"Art"}, tagNames(updated.Tags))
	assert.True(t, before.CreatedAt.Equal(updated.CreatedAt), "created_at changed: %v -> %v", before.CreatedAt, updated.CreatedAt)
}

func TestUpdate_ReplacesAndClearsTags(t *testing.T) {
	f := setup(t)
	created, err := Create(f.db, CreateOpts{Title: "Paint sky", Description: "d", ProjectID: f.project.ID, TagIDs: []uint{f.art.ID}})
	require.NoError(t, err)

	ids := []uint{f.bug.ID}
	updated, err := Update(f.db, created.ID, UpdateOpts{TagIDs: &ids})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bug"}, tagNames(updated.Tags))

	none := []uint{}
	updated, err = Update(f.db, created.ID, UpdateOpts{TagIDs: &none})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)
}

func TestUpdate_InvalidWritesNothing(t *testing.T) {
	f := setup(t)
	created, err := Create(f.db, CreateOpts{Title: "Paint sky", Description: "d", ProjectID: f.project.ID, TagIDs: []uint{f.art.ID}})
	require.NoError(t, err)

	short := "abc"
	ids := []uint{f.bug.ID}
	_, err = Update(f.db, created.ID, UpdateOpts{Title: &short, TagIDs: &ids})
	assert.True(t, validate.IsValidation(err))

	unknown := []uint{777}
	_, err = Update(f.db, created.ID, UpdateOpts{TagIDs: &unknown})
	assert.True(t, validate.IsValidation(err))

	got, err := Get(f.db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paint sky", got.Title)
	assert.Equal(t, []string{"Art"}, tagNames(got.Tags))
}

func TestUpdate_NotFound(t *testing.T) {
	f := setup(t)

	title := "Anything here"
	_, err := Update(f.db, 55, UpdateOpts{Title: &title})
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestList_OrderAndFilters(t *testing.T) {
	f := setup(t)

	first, err := Create(f.db, CreateOpts{Title: "Write design doc", Description: "d", Priority: models.PriorityLow, ProjectID: f.project.ID})
	require.NoError(t, err)
	second, err := Create(f.db, CreateOpts{Title: "Fix crash on boot", Description: "segfault", Priority: models.PriorityHigh, ProjectID: f.project.ID, TagIDs: []uint{f.bug.ID}})
	require.NoError(t, err)
	third, err := Create(f.db, CreateOpts{Title: "Paint backgrounds", Description: "d", Status: models.TaskCompleted, ProjectID: f.project.ID, TagIDs: []uint{f.art.ID}})
	require.NoError(t, err)

	all, err := List(f.db, ListFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{third.ID, second.ID, first.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})

	done, err := List(f.db, ListFilters{Status: models.TaskCompleted})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, third.ID, done[0].ID)

	high, err := List(f.db, ListFilters{Priority: models.PriorityHigh})
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, second.ID, high[0].ID)

	bugs, err := List(f.db, ListFilters{TagID: f.bug.ID})
	require.NoError(t, err)
	require.Len(t, bugs, 1)
	assert.Equal(t, second.ID, bugs[0].ID)
	assert.Equal(t, []string{"Bug"}, tagNames(bugs[0].Tags))

	found, err := List(f.db, ListFilters{Search: "SEGFAULT"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, second.ID, found[0].ID)

	ofProject, err := List(f.db, ListFilters{ProjectID: f.project.ID + 1})
	require.NoError(t, err)
	assert.Empty(t, ofProject)
}

func TestDelete_KeepsTags(t *testing.T) {
	f := setup(t)
	created, err := Create(f.db, CreateOpts{Title: "Paint sky", Description: "d", ProjectID: f.project.ID, TagIDs: []uint{f.art.ID, f.bug.ID}})
	require.NoError(t, err)

	require.NoError(t, Delete(f.db, created.ID))

	_, err = Get(f.db, created.ID)
	assert.ErrorIs(t, err, record.ErrNotFound)

	var links, tags int64
	f.db.Table("task_tags").Count(&links)
	f.db.Model(&models.Tag{}).Count(&tags)
	assert.Zero(t, links)
	assert.Equal(t, int64(2), tags)

	assert.ErrorIs(t, Delete(f.db, created.ID), record.ErrNotFound)
}
