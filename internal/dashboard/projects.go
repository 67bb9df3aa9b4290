package dashboard

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/backlot/internal/models"
	"github.com/zulandar/backlot/internal/project"
	"github.com/zulandar/backlot/internal/validate"
	"gorm.io/gorm"
)

type projectView struct {
	models.Project
	StartDate   string `json:"start_date"`
	StatusLabel string `json:"status_label"`
	AssetCount  int64  `json:"asset_count"`
	TaskCount   int64  `json:"task_count"`
}

func newProjectView(p models.Project, n project.Count) projectView {
	return projectView{
		Project:     p,
		StartDate:   p.StartDate.Format(models.DateLayout),
		StatusLabel: p.Status.Label(),
		AssetCount:  n.Assets,
		TaskCount:   n.Tasks,
	}
}

type projectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	Status      *string `json:"status"`
	Platform    *string `json:"platform"`
	Engine      *string `json:"engine"`
	TeamSize    *int    `json:"team_size"`
}

func handleProjectList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tx := scoped(c, db)
		projects, err := project.List(tx, project.ListFilters{
			Status: models.ProjectStatus(enumValue(c.Query("status"))),
			Search: c.Query("search"),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		ids := make([]uint, len(projects))
		for i, p := range projects {
			ids[i] = p.ID
		}
		counts, err := project.Counts(tx, ids)
		if err != nil {
			writeError(c, err)
			return
		}
		views := make([]projectView, len(projects))
		for i, p := range projects {
			views[i] = newProjectView(p, counts[p.ID])
		}
		c.JSON(http.StatusOK, gin.H{"data": views})
	}
}

func handleProjectGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			writeError(c, err)
			return
		}
		tx := scoped(c, db)
		p, err := project.Get(tx, id)
		if err != nil {
			writeError(c, err)
			return
		}
		counts, err := project.Counts(tx, []uint{id})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": newProjectView(*p, counts[id])})
	}
}

func handleProjectCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req projectRequest
		if err := bindJSON(c, &req); err != nil {
			writeError(c, err)
			return
		}
		opts := project.CreateOpts{
			Name:        deref(req.Name),
			Description: deref(req.Description),
			Status:      models.ProjectStatus(enumValue(deref(req.Status))),
			Platform:    deref(req.Platform),
			Engine:      deref(req.Engine),
			TeamSize:    models.MinTeamSize,
		}
		if req.TeamSize != nil {
			opts.TeamSize = *req.TeamSize
		}
		start, err := parseDate(deref(req.StartDate))
		if err != nil {
			writeError(c, err)
			return
		}
		opts.StartDate = start

		p, err := project.Create(scoped(c, db), opts)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("Location", fmt.Sprintf("/api/projects/%d", p.ID))
		created(c, fmt.Sprintf("Created project %d", p.ID), newProjectView(*p, project.Count{}))
	}
}

func handleProjectUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			writeError(c, err)
			return
		}
		var req projectRequest
		if err := bindJSON(c, &req); err != nil {
			writeError(c, err)
			return
		}
		opts := project.UpdateOpts{
			Name:        req.Name,
			Description: req.Description,
			Platform:    req.Platform,
			Engine:      req.Engine,
			TeamSize:    req.TeamSize,
		}
		if req.Status != nil {
			s := models.ProjectStatus(enumValue(*req.Status))
			opts.Status = &s
		}
		if req.StartDate != nil {
			start, err := parseDate(*req.StartDate)
			if err != nil {
				writeError(c, err)
				return
			}
			opts.StartDate = &start
		}

		tx := scoped(c, db)
		p, err := project.Update(tx, id, opts)
		if err != nil {
			writeError(c, err)
			return
		}
		counts, err := project.Counts(tx, []uint{id})
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, fmt.Sprintf("Updated project %d", id), newProjectView(*p, counts[id]))
	}
}

func handleProjectDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			writeError(c, err)
			return
		}
		if err := project.Delete(scoped(c, db), id); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Deleted project %d", id)})
	}
}

// parseDate reads a YYYY-MM-DD date. An empty string yields the zero time,
// which the validator reports as missing.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, validate.Field("start_date", "start_date must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

// enumValue normalizes user-supplied enum text to the stored form.
func enumValue(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
