package models

import (
	"fmt"
	"time"
)

// Asset is a production resource (sprite, sound, model ...) belonging to a
// Project. CreatedAt is written once on insert.
type Asset struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Type        AssetType `gorm:"size:20;not null;index" json:"type"`
	Description string    `gorm:"type:text" json:"description"`
	ProjectID   uint      `gorm:"not null;index" json:"project_id"`
	CreatedAt   time.Time `gorm:"<-:create;index" json:"created_at"`

	Project *Project `json:"project,omitempty"`
}

// DisplayName renders the asset as "name (Type label)".
func (a Asset) DisplayName() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.Type.Label())
}
