package validate

import (
	"time"

	"github.com/zulandar/backlot/internal/models"
)

// ProjectInput is the editable part of a Project.
type ProjectInput struct {
	Name        string
	Description string
	StartDate   time.Time
	Status      models.ProjectStatus
}

// Project checks a project's own fields. Status defaults to PLANNING and the
// start date is truncated to a calendar day.
func Project(in ProjectInput) (ProjectInput, error) {
	e := &Error{}
	in.Name = text(e, "name", in.Name, 3, models.MaxNameLen)
	in.Description = text(e, "description", in.Description, 1, 0)
	if in.StartDate.IsZero() {
		e.add("start_date", "start_date is required")
	} else {
		in.StartDate = models.Date(in.StartDate)
	}
	if in.Status == "" {
		in.Status = models.ProjectPlanning
	} else if !in.Status.Valid() {
		e.add("status", "status %q is not one of %s", in.Status, oneOf(models.ProjectStatuses()))
	}
	return in, e.orNil()
}

// DetailInput is the editable part of a ProjectDetail.
type DetailInput struct {
	Platform string
	Engine   string
	TeamSize int
}

// Detail checks a project's technical details.
func Detail(in DetailInput) (DetailInput, error) {
	e := &Error{}
	in.Platform = text(e, "platform", in.Platform, 1, models.MaxPlatformLen)
	in.Engine = text(e, "engine", in.Engine, 1, models.MaxEngineLen)
	if in.TeamSize < models.MinTeamSize || in.TeamSize > models.MaxTeamSize {
		e.add("team_size", "team_size must be between %d and %d", models.MinTeamSize, models.MaxTeamSize)
	}
	return in, e.orNil()
}

// AssetInput is the editable part of an Asset.
type AssetInput struct {
	Name        string
	Type        models.AssetType
	Description string
	ProjectID   uint
}

// Asset checks an asset's fields. It does not check that the project exists.
func Asset(in AssetInput) (AssetInput, error) {
	e := &Error{}
	in.Name = text(e, "name", in.Name, 2, models.MaxNameLen)
	switch {
	case in.Type == "":
		e.add("type", "type is required")
	case !in.Type.Valid():
		e.add("type", "type %q is not one of %s", in.Type, oneOf(models.AssetTypes()))
	}
	if in.ProjectID == 0 {
		e.add("project_id", "project_id is required")
	}
	return in, e.orNil()
}

// TaskInput is the editable part of a Task.
type TaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	ProjectID   uint
	TagIDs      []uint
}

// Task checks a task's fields. Status defaults to PENDING, priority to
// MEDIUM, and repeated tag ids are collapsed keeping first occurrence order.
func Task(in TaskInput) (TaskInput, error) {
	e := &Error{}
	in.Title = text(e, "title", in.Title, 5, models.MaxNameLen)
	in.Description = text(e, "description", in.Description, 1, 0)
	if in.Status == "" {
		in.Status = models.TaskPending
	} else if !in.Status.Valid() {
		e.add("status", "status %q is not one of %s", in.Status, oneOf(models.TaskStatuses()))
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	} else if !in.Priority.Valid() {
		e.add("priority", "priority %q is not one of %s", in.Priority, oneOf(models.TaskPriorities()))
	}
	if in.ProjectID == 0 {
		e.add("project_id", "project_id is required")
	}
	if in.TagIDs != nil {
		seen := make(map[uint]bool, len(in.TagIDs))
		ids := make([]uint, 0, len(in.TagIDs))
		for _, id := range in.TagIDs {
			if id == 0 {
				e.add("tags", "tags contains an invalid id 0")
				continue
			}
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		in.TagIDs = ids
	}
	return in, e.orNil()
}

// TagNames answers whether a tag name is already used by a record other
// than excludeID. Names compare ignoring case.
type TagNames interface {
	TagNameTaken(name string, excludeID uint) (bool, error)
}

// Tag checks a tag name and its uniqueness. Pass excludeID 0 when creating.
// A lookup failure is returned unwrapped, not as a validation error.
func Tag(name string, excludeID uint, names TagNames) (string, error) {
	e := &Error{}
	name = text(e, "name", name, models.MinTagNameLen, models.MaxTagNameLen)
	if len(e.Fields) > 0 || names == nil {
		return name, e.orNil()
	}
	taken, err := names.TagNameTaken(name, excludeID)
	if err != nil {
		return name, err
	}
	if taken {
		e.add("name", "a tag named %q already exists", name)
	}
	return name, e.orNil()
}
