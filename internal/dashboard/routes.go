package dashboard

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB) {
	router.GET("/health", handleHealth(db))

	api := router.Group("/api")
	api.GET("/summary", handleSummary(db))

	projects := api.Group("/projects")
	projects.GET("", handleProjectList(db))
	projects.POST("", handleProjectCreate(db))
	projects.GET("/:id", handleProjectGet(db))
	projects.PATCH("/:id", handleProjectUpdate(db))
	projects.DELETE("/:id", handleProjectDelete(db))

	assets := api.Group("/assets")
	assets.GET("", handleAssetList(db))
	assets.POST("", handleAssetCreate(db))
	assets.GET("/:id", handleAssetGet(db))
	assets.PATCH("/:id", handleAssetUpdate(db))
	assets.DELETE("/:id", handleAssetDelete(db))

	tasks := api.Group("/tasks")
	tasks.GET("", handleTaskList(db))
	tasks.POST("", handleTaskCreate(db))
	tasks.GET("/:id", handleTaskGet(db))
	tasks.PATCH("/:id", handleTaskUpdate(db))
	tasks.DELETE("/:id", handleTaskDelete(db))

	tags := api.Group("/tags")
	tags.GET("", handleTagList(db))
	tags.POST("", handleTagCreate(db))
	tags.GET("/:id", handleTagGet(db))
	tags.PATCH("/:id", handleTagUpdate(db))
	tags.DELETE("/:id", handleTagDelete(db))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": apiError{Code: CodeNotFound, Message: "no route for " + c.Request.URL.Path}})
	})
}

func handleHealth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func handleSummary(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := LoadSummary(scoped(c, db))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": s})
	}
}

// scoped binds the request context (and its logger) to db.
func scoped(c *gin.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(c.Request.Context())
}

// idParam parses the :id path segment.
func idParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, badRequest("id must be a positive integer")
	}
	return uint(id), nil
}

// uintQuery parses an optional positive integer query parameter.
func uintQuery(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, badRequest(name + " must be a positive integer")
	}
	return uint(v), nil
}

// bindJSON decodes the request body, reporting malformed input as a bad
// request.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return badRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

func created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, gin.H{"message": message, "data": data})
}

func ok(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, gin.H{"message": message, "data": data})
}
