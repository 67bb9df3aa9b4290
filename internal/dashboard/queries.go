package dashboard

import (
	"fmt"

	"github.com/zulandar/backlot/internal/models"
	"gorm.io/gorm"
)

// Summary holds the record totals shown on the index page.
type Summary struct {
	Projects int64 `json:"projects"`
	Assets   int64 `json:"assets"`
	Tasks    int64 `json:"tasks"`
	Tags     int64 `json:"tags"`
}

// LoadSummary counts every entity.
func LoadSummary(db *gorm.DB) (Summary, error) {
	var s Summary
	counts := []struct {
		model interface{}
		dst   *int64
		name  string
	}{
		{&models.Project{}, &s.Projects, "projects"},
		{&models.Asset{}, &s.Assets, "assets"},
		{&models.Task{}, &s.Tasks, "tasks"},
		{&models.Tag{}, &s.Tags, "tags"},
	}
	for _, q := range counts {
		if err := db.Model(q.model).Count(q.dst).Error; err != nil {
			return Summary{}, fmt.Errorf("dashboard: count %s: %w", q.name, err)
		}
	}
	return s, nil
}
