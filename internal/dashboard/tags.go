package dashboard

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/backlot/internal/models"
	"github.com/zulandar/backlot/internal/tag"
	"gorm.io/gorm"
)

type tagView struct {
	models.Tag
	TaskCount int64 `json:"task_count"`
}

type tagRequest struct {
	Name *string `json:"name"`
}

func handleTagList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tx := scoped(c, db)
		tags, err := tag.List(tx, tag.ListFilters{Search: c.Query("search")})
		if err != nil {
			writeError(c, err)
			return
		}
		ids := make([]uint, len(tags))
		for i, t := range tags {
			ids[i] = t.ID
		}
		counts, err := tag.TaskCounts(tx, ids)
		if err != nil {
			writeError(c, err)
			return
		}
		views := make([]tagView, len(tags))
		for i, t := range tags {
			views[i] = tagView{Tag: t, TaskCount: counts[t.ID]}
		}
		c.JSON(http.StatusOK, gin.H{"data": views})
	}
}

func handleTagGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			writeError(c, err)
			return
		}
		tx := scoped(c, db)
		t, err := tag.Get(tx, id)
		if err != nil {
			writeError(c, err)
			return
		}
		counts, err := tag.TaskCounts(tx, []uint{id})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": tagView{Tag: *t, TaskCount: counts[id]}})
	}
}

func handleTagCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tagRequest
		if err := bindJSON(c, &req); err != nil {
			writeError(c, err)
			return
		}
		t, err := tag.Create(scoped(c, db), deref(req.Name))
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("Location", fmt.Sprintf("/api/tags/%d", t.ID))
		created(c, fmt.Sprintf("Created tag %d", t.ID), tagView{Tag: *t})
	}
}

func handleTagUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			writeError(c, err)
			return
		}
		var req tagRequest
		if err := bindJSON(c, &req); err != nil {
			writeError(c, err)
			return
		}
		tx := scoped(c, db)
		var t *models.Tag
		if req.Name == nil {
			// Nothing to change; report the current state.
			t, err = tag.Get(tx, id)
		} else {
			t, err = tag.Update(tx, id, *req.Name)
		}
		if err != nil {
			writeError(c, err)
			return
		}
		counts, err := tag.TaskCounts(tx, []uint{id})
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, fmt.Sprintf("Updated tag %d", id), tagView{Tag: *t, TaskCount: counts[id]})
	}
}

func handleTagDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			writeError(c, err)
			return
		}
		if err := tag.Delete(scoped(c, db), id); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Deleted tag %d", id)})
	}
}
