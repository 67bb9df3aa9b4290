package dashboard

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/backlot/internal/asset"
	"github.com/zulandar/backlot/internal/models"
	"gorm.io/gorm"
)

type assetView struct {
	models.Asset
	TypeLabel   string `json:"type_label"`
	DisplayName string `json:"display_name"`
}

func newAssetView(a models.Asset) assetView {
	return assetView{Asset: a, TypeLabel: a.Type.Label(), DisplayName: a.DisplayName()}
}

type assetRequest struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	ProjectID   *uint   `json:"project_id"`
}

func handleAssetList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := uintQuery(c, "project_id")
		if err != nil {
			writeError(c, err)
			return
		}
		assets, err := asset.List(scoped(c, db), asset.ListFilters{
			Type:      models.AssetType(enumValue(c.Query("type"))),
			ProjectID: projectID,
			Search:    c.Query("search"),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		views := make([]assetView, len(assets))
		for i, a := range assets {
			views[i] = newAssetView(a)
		}
		c.JSON(http.StatusOK, gin.H{"data": views})
	}
}

func handleAssetGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			writeError(c, err)
			return
		}
		a, err := asset.Get(scoped(c, db), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": newAssetView(*a)})
	}
}

func handleAssetCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req assetRequest
		if err := bindJSON(c, &req); err != nil {
			writeError(c, err)
			return
		}
		a, err := asset.Create(scoped(c, db), asset.CreateOpts{
			Name:        deref(req.Name),
			Type:        models.AssetType(enumValue(deref(req.Type))),
			Description: deref(req.Description),
			ProjectID:   deref(req.ProjectID),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("Location", fmt.Sprintf("/api/assets/%d", a.ID))
		created(c, fmt.Sprintf("Created asset %d", a.ID), newAssetView(*a))
	}
}

func handleAssetUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			writeError(c, err)
			return
		}
		var req assetRequest
		if err := bindJSON(c, &req); err != nil {
			writeError(c, err)
			return
		}
		opts := asset.UpdateOpts{
			Name:        req.Name,
			Description: req.Description,
			ProjectID:   req.ProjectID,
		}
		if req.Type != nil {
			t := models.AssetType(enumValue(*req.Type))
			opts.Type = &t
		}
		a, err := asset.Update(scoped(c, db), id, opts)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, fmt.Sprintf("Updated asset %d", id), newAssetView(*a))
	}
}

func handleAssetDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			writeError(c, err)
			return
		}
		if err := asset.Delete(scoped(c, db), id); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Deleted asset %d", id)})
	}
}
