package dashboard

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/backlot/internal/models"
	"github.com/zulandar/backlot/internal/task"
	"gorm.io/gorm"
)

type taskView struct {
	models.Task
	StatusLabel   string `json:"status_label"`
	PriorityLabel string `json:"priority_label"`
}

func newTaskView(t models.Task) taskView {
	if t.Tags == nil {
		t.Tags = []models.Tag{}
	}
	return taskView{Task: t, StatusLabel: t.Status.Label(), PriorityLabel: t.Priority.Label()}
}

type taskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	ProjectID   *uint   `json:"project_id"`
	Tags        *[]uint `json:"tags"`
}

func handleTaskList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := uintQuery(c, "project_id")
		if err != nil {
			writeError(c, err)
			return
		}
		tagID, err := uintQuery(c, "tag_id")
		if err != nil {
			writeError(c, err)
			return
		}
		tasks, err := task.List(scoped(c, db), task.ListFilters{
			Status:    models.TaskStatus(enumValue(c.Query("status"))),
			Priority:  models.TaskPriority(enumValue(c.Query("priority"))),
			ProjectID: projectID,
			TagID:     tagID,
			Search:    c.Query("search"),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		views := make([]taskView, len(tasks))
		for i, t := range tasks {
			views[i] = newTaskView(t)
		}
		c.JSON(http.StatusOK, gin.H{"data": views})
	}
}

func handleTaskGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			writeError(c, err)
			return
		}
		t, err := task.Get(scoped(c, db), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": newTaskView(*t)})
	}
}

func handleTaskCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req taskRequest
		if err := bindJSON(c, &req); err != nil {
			writeError(c, err)
			return
		}
		t, err := task.Create(scoped(c, db), task.CreateOpts{
			Title:       deref(req.Title),
			Description: deref(req.Description),
			Status:      models.TaskStatus(enumValue(deref(req.Status))),
			Priority:    models.TaskPriority(enumValue(deref(req.Priority))),
			ProjectID:   deref(req.ProjectID),
			TagIDs:      deref(req.Tags),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("Location", fmt.Sprintf("/api/tasks/%d", t.ID))
		created(c, fmt.Sprintf("Created task %d", t.ID), newTaskView(*t))
	}
}

func handleTaskUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			writeError(c, err)
			return
		}
		var req taskRequest
		if err := bindJSON(c, &req); err != nil {
			writeError(c, err)
			return
		}
		opts := task.UpdateOpts{
			Title:       req.Title,
			Description: req.Description,
			ProjectID:   req.ProjectID,
			TagIDs:      req.Tags,
		}
		if req.Status != nil {
			s := models.TaskStatus(enumValue(*req.Status))
			opts.Status = &s
		}
		if req.Priority != nil {
			p := models.TaskPriority(enumValue(*req.Priority))
			opts.Priority = &p
		}
		t, err := task.Update(scoped(c, db), id, opts)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, fmt.Sprintf("Updated task %d", id), newTaskView(*t))
	}
}

func handleTaskDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			writeError(c, err)
			return
		}
		if err := task.Delete(scoped(c, db), id); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Deleted task %d", id)})
	}
}
