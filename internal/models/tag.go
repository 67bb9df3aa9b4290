package models

import (
	"strings"

	"gorm.io/gorm"
)

// Tag is a free-form label. Names are unique ignoring case; NameKey holds
// the normalized form and carries the unique index.
type Tag struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"size:50;not null" json:"name"`
	NameKey string `gorm:"size:50;not null;uniqueIndex" json:"-"`
}

// BeforeSave keeps NameKey in step with Name.
func (t *Tag) BeforeSave(tx *gorm.DB) error {
	t.NameKey = TagKey(t.Name)
	return nil
}

// TagKey returns the normalized uniqueness key for a tag name.
func TagKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
