package project

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zulandar/backlot/internal/db"
	"github.com/zulandar/backlot/internal/models"
	"github.com/zulandar/backlot/internal/record"
	"github.com/zulandar/backlot/internal/validate"
	"gorm.io/gorm"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newOpts(name string, start time.Time) CreateOpts {
	return CreateOpts{
		Name:        name,
		Description: "A game about " + name,
		StartDate:   start,
		Platform:    "PC",
		Engine:      "Godot",
		TeamSize:    3,
	}
}

func mustCreate(t *testing.T, gdb *gorm.DB, opts CreateOpts) *models.Project {
	t.Helper()
	p, err := Create(gdb, opts)
	require.NoError(t, err)
	return p
}

func countRows(t *testing.T, gdb *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Table(table).Count(&n).Error)
	return n
}

func TestCreate_RoundTrip(t *testing.T) {
	gdb := db.NewTestDB(t)

	opts := newOpts("  Skyforge  ", date(2024, 3, 1))
	created := mustCreate(t, gdb, opts)
	require.NotZero(t, created.ID)
	require.NotNil(t, created.Detail)

	got, err := Get(gdb, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Skyforge", got.Name)
	assert.Equal(t, "A game about   Skyforge", got.Description)
	assert.True(t, got.StartDate.Equal(date(2024, 3, 1)), "StartDate = %v", got.StartDate)
	assert.Equal(t, models.ProjectPlanning, got.Status)
	require.NotNil(t, got.Detail)
	assert.Equal(t, "PC", got.Detail.Platform)
	assert.Equal(t, "Godot", got.Detail.Engine)
	assert.Equal(t, 3, got.Detail.TeamSize)
	assert.Equal(t, created.ID, got.Detail.ProjectID)
}

func TestCreate_NameBoundary(t *testing.T) {
	gdb := db.NewTestDB(t)

	_, err := Create(gdb, newOpts("AB", date(2024, 1, 1)))
	require.Error(t, err)
	assert.True(t, validate.IsValidation(err))

	_, err = Create(gdb, newOpts("ABC", date(2024, 1, 1)))
	assert.NoError(t, err)
}

func TestCreate_ReportsBothHalvesAndStoresNothing(t *testing.T) {
	gdb := db.NewTestDB(t)

	opts := newOpts("AB", date(2024, 1, 1))
	opts.TeamSize = 1001
	_, err := Create(gdb, opts)

	var ve *validate.Error
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.Has("name"))
	assert.True(t, ve.Has("team_size"))
	assert.Zero(t, countRows(t, gdb, "projects"))
	assert.Zero(t, countRows(t, gdb, "project_details"))
}

func TestCreate_TeamSizeBounds(t *testing.T) {
	gdb := db.NewTestDB(t)

	for _, tt := range []struct {
		size int
		ok   bool
	}{{0, false}, {1, true}, {1000, true}, {1001, false}} {
		opts := newOpts("Bounds", date(2024, 1, 1))
		opts.TeamSize = tt.size
		_, err := Create(gdb, opts)
		assert.Equal(t, tt.ok, err == nil, "team_size %d: err = %v", tt.size, err)
	}
}

func TestGet_NotFound(t *testing.T) {
	gdb := db.NewTestDB(t)

	_, err := Get(gdb, 42)
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestList_OrderAndFilters(t *testing.T) {
	gdb := db.NewTestDB(t)

	old := mustCreate(t, gdb, newOpts("Old Quest", date(2022, 6, 1)))
	newer := mustCreate(t, gdb, newOpts("Neon Drift", date(2024, 6, 1)))
	opts := newOpts("Tie Breaker", date(2024, 6, 1))
	opts.Status = models.ProjectTesting
	tie := mustCreate(t, gdb, opts)

	all, err := List(gdb, ListFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{tie.ID, newer.ID, old.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})
	assert.NotNil(t, all[0].Detail)

	inTesting, err := List(gdb, ListFilters{Status: models.ProjectTesting})
	require.NoError(t, err)
	require.Len(t, inTesting, 1)
	assert.Equal(t, tie.ID, inTesting[0].ID)

	found, err := List(gdb, ListFilters{Search: "QUEST"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, old.ID, found[0].ID)

	byDescription, err := List(gdb, ListFilters{Search: "about neon"})
	require.NoError(t, err)
	require.Len(t, byDescription, 1)
	assert.Equal(t, newer.ID, byDescription[0].ID)
}

func TestList_SearchMatchesWildcardsLiterally(t *testing.T) {
	gdb := db.NewTestDB(t)

	juice := mustCreate(t, gdb, newOpts("100% Juice", date(2024, 1, 1)))
	tiles := mustCreate(t, gdb, newOpts("Tile_Set", date(2024, 1, 2)))
	mustCreate(t, gdb, newOpts("Tilexset", date(2024, 1, 3)))

	for _, tt := range []struct {
		search string
		want   uint
	}{
		{"%", juice.ID},
		{"_", tiles.ID},
		{"e_s", tiles.ID},
	} {
		found, err := List(gdb, ListFilters{Search: tt.search})
		require.NoError(t, err)
		require.Len(t, found, 1, "search %q", tt.search)
		assert.Equal(t, tt.want, found[0].ID, "search %q", tt.search)
	}
}

func TestUpdate_OverlaysFields(t *testing.T) {
	gdb := db.NewTestDB(t)
	p := mustCreate(t, gdb, newOpts("Skyforge", date(2024, 3, 1)))

	status := models.ProjectInDevelopment
	size := 12
	updated, err := Update(gdb, p.ID, UpdateOpts{Status: &status, TeamSize: &size})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectInDevelopment, updated.Status)
	assert.Equal(t, 12, updated.Detail.TeamSize)

	got, err := Get(gdb, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Skyforge", got.Name)
	assert.Equal(t, models.ProjectInDevelopment, got.Status)
	assert.Equal(t, "Godot", got.Detail.Engine)
	assert.Equal(t, 12, got.Detail.TeamSize)
}

func TestUpdate_InvalidHalfWritesNothing(t *testing.T) {
	gdb := db.NewTestDB(t)
	p := mustCreate(t, gdb, newOpts("Skyforge", date(2024, 3, 1)))

	name := "Renamed"
	size := 0
	_, err := Update(gdb, p.ID, UpdateOpts{Name: &name, TeamSize: &size})
	require.Error(t, err)
	assert.True(t, validate.IsValidation(err))

	got, err := Get(gdb, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Skyforge", got.Name)
	assert.Equal(t, 3, got.Detail.TeamSize)
}

func TestUpdate_MissingDetailIsIntegrityError(t *testing.T) {
	gdb := db.NewTestDB(t)
	p := mustCreate(t, gdb, newOpts("Skyforge", date(2024, 3, 1)))
	require.NoError(t, gdb.Where("project_id = ?", p.ID).Delete(&models.ProjectDetail{}).Error)

	name := "Renamed"
	_, err := Update(gdb, p.ID, UpdateOpts{Name: &name})
	assert.ErrorIs(t, err, record.ErrIntegrity)
}

func TestUpdate_NotFound(t *testing.T) {
	gdb := db.NewTestDB(t)

	name := "Whatever"
	_, err := Update(gdb, 9, UpdateOpts{Name: &name})
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestDelete_Cascades(t *testing.T) {
	gdb := db.NewTestDB(t)
	keep := mustCreate(t, gdb, newOpts("Keeper", date(2024, 1, 1)))
	doomed := mustCreate(t, gdb, newOpts("Doomed", date(2024, 1, 1)))

	bug := models.Tag{Name: "Bug"}
	require.NoError(t, gdb.Create(&bug).Error)

	for _, pid := range []uint{keep.ID, doomed.ID} {
		require.NoError(t, gdb.Create(&models.Asset{Name: "Hero", Type: models.AssetSprite, ProjectID: pid}).Error)
		task := models.Task{Title: "Fix the jump", Description: "d", Status: models.TaskPending, Priority: models.PriorityLow, ProjectID: pid, Tags: []models.Tag{bug}}
		require.NoError(t, gdb.Create(&task).Error)
	}
	require.Equal(t, int64(2), countRows(t, gdb, "task_tags"))

	require.NoError(t, Delete(gdb, doomed.ID))

	_, err := Get(gdb, doomed.ID)
	assert.ErrorIs(t, err, record.ErrNotFound)
	assert.Equal(t, int64(1), countRows(t, gdb, "projects"))
	assert.Equal(t, int64(1), countRows(t, gdb, "project_details"))
	assert.Equal(t, int64(1), countRows(t, gdb, "assets"))
	assert.Equal(t, int64(1), countRows(t, gdb, "tasks"))
	assert.Equal(t, int64(1), countRows(t, gdb, "task_tags"))
	assert.Equal(t, int64(1), countRows(t, gdb, "tags"), "tags must survive project deletion")
}

func TestDelete_NotFound(t *testing.T) {
	gdb := db.NewTestDB(t)

	assert.ErrorIs(t, Delete(gdb, 3), record.ErrNotFound)
}

func TestExists(t *testing.T) {
	gdb := db.NewTestDB(t)
	p := mustCreate(t, gdb, newOpts("Skyforge", date(2024, 3, 1)))

	ok, err := Exists(gdb, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(gdb, p.ID+1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCounts(t *testing.T) {
	gdb := db.NewTestDB(t)
	a := mustCreate(t, gdb, newOpts("Alpha", date(2024, 1, 1)))
	b := mustCreate(t, gdb, newOpts("Bravo", date(2024, 1, 1)))

	for i := 0; i < 2; i++ {
		require.NoError(t, gdb.Create(&models.Asset{Name: "Tree", Type: models.AssetModel3D, ProjectID: a.ID}).Error)
	}
	require.NoError(t, gdb.Create(&models.Task{Title: "Model trees", Description: "d", Status: models.TaskPending, Priority: models.PriorityHigh, ProjectID: a.ID}).Error)

	counts, err := Counts(gdb, []uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, Count{Assets: 2, Tasks: 1}, counts[a.ID])
	assert.Equal(t, Count{}, counts[b.ID])

	empty, err := Counts(gdb, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
