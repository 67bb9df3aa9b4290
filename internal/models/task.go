package models

import "time"

// Task is a unit of work inside a Project, labelled by any number of Tags.
type Task struct {
	ID          uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string       `gorm:"size:200;not null" json:"title"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Status      TaskStatus   `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	Priority    TaskPriority `gorm:"size:10;not null;default:MEDIUM;index" json:"priority"`
	ProjectID   uint         `gorm:"not null;index" json:"project_id"`
	CreatedAt   time.Time    `gorm:"<-:create;index" json:"created_at"`

	Project *Project `json:"project,omitempty"`
	Tags    []Tag    `gorm:"many2many:task_tags;constraint:OnDelete:CASCADE" json:"tags"`
}
