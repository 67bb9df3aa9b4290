package models

import "time"

// Field limits shared by the validators and the column sizes below.
const (
	MaxNameLen     = 200
	MaxPlatformLen = 100
	MaxEngineLen   = 100
	MinTagNameLen  = 2
	MaxTagNameLen  = 50
	MinTeamSize    = 1
	MaxTeamSize    = 1000
)

// Project is a game under development. Deleting it removes its detail,
// assets and tasks.
type Project struct {
	ID          uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string        `gorm:"size:200;not null" json:"name"`
	Description string        `gorm:"type:text;not null" json:"description"`
	StartDate   time.Time     `gorm:"type:date;not null;index" json:"start_date"`
	Status      ProjectStatus `gorm:"size:20;not null;default:PLANNING;index" json:"status"`

	Detail *ProjectDetail `gorm:"constraint:OnDelete:CASCADE" json:"detail,omitempty"`
	Assets []Asset        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Tasks  []Task         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// ProjectDetail holds the technical facts of a Project. Exactly one exists
// per Project.
type ProjectDetail struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	ProjectID uint   `gorm:"not null;uniqueIndex" json:"project_id"`
	Platform  string `gorm:"size:100;not null" json:"platform"`
	Engine    string `gorm:"size:100;not null" json:"engine"`
	TeamSize  int    `gorm:"not null;default:1" json:"team_size"`
}

// DateLayout is the calendar-date format used for start dates on input and
// output.
const DateLayout = "2006-01-02"

// Date truncates t to its calendar date in UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
