package models

// ProjectStatus is the development stage of a Project.
type ProjectStatus string

const (
	ProjectPlanning      ProjectStatus = "PLANNING"
	ProjectInDevelopment ProjectStatus = "IN_DEVELOPMENT"
	ProjectTesting       ProjectStatus = "TESTING"
	ProjectFinished      ProjectStatus = "FINISHED"
)

var projectStatusLabels = map[ProjectStatus]string{
	ProjectPlanning:      "Planning",
	ProjectInDevelopment: "In Development",
	ProjectTesting:       "Testing",
	ProjectFinished:      "Finished",
}

// ProjectStatuses returns every ProjectStatus in display order.
func ProjectStatuses() []ProjectStatus {
	return []ProjectStatus{ProjectPlanning, ProjectInDevelopment, ProjectTesting, ProjectFinished}
}

func (s ProjectStatus) String() string { return string(s) }

// Valid reports whether s is a known status.
func (s ProjectStatus) Valid() bool {
	_, ok := projectStatusLabels[s]
	return ok
}

// Label returns the human-readable name, or the raw value when unknown.
func (s ProjectStatus) Label() string {
	if l, ok := projectStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// AssetType classifies a production asset.
type AssetType string

const (
	AssetSprite  AssetType = "SPRITE"
	AssetAudio   AssetType = "AUDIO"
	AssetMusic   AssetType = "MUSIC"
	AssetModel3D AssetType = "MODEL_3D"
	AssetOther   AssetType = "OTHER"
)

var assetTypeLabels = map[AssetType]string{
	AssetSprite:  "Sprite/Graphic",
	AssetAudio:   "Audio/SFX",
	AssetMusic:   "Music",
	AssetModel3D: "3D Model",
	AssetOther:   "Other",
}

// AssetTypes returns every AssetType in display order.
func AssetTypes() []AssetType {
	return []AssetType{AssetSprite, AssetAudio, AssetMusic, AssetModel3D, AssetOther}
}

func (t AssetType) String() string { return string(t) }

// Valid reports whether t is a known asset type.
func (t AssetType) Valid() bool {
	_, ok := assetTypeLabels[t]
	return ok
}

// Label returns the human-readable name, or the raw value when unknown.
func (t AssetType) Label() string {
	if l, ok := assetTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// TaskStatus is the progress state of a Task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
)

var taskStatusLabels = map[TaskStatus]string{
	TaskPending:    "Pending",
	TaskInProgress: "In Progress",
	TaskCompleted:  "Completed",
}

// TaskStatuses returns every TaskStatus in display order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskPending, TaskInProgress, TaskCompleted}
}

func (s TaskStatus) String() string { return string(s) }

func (s TaskStatus) Valid() bool {
	_, ok := taskStatusLabels[s]
	return ok
}

func (s TaskStatus) Label() string {
	if l, ok := taskStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// TaskPriority orders Tasks by urgency.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

var taskPriorityLabels = map[TaskPriority]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
}

// TaskPriorities returns every TaskPriority from lowest to highest.
func TaskPriorities() []TaskPriority {
	return []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}
}

func (p TaskPriority) String() string { return string(p) }

func (p TaskPriority) Valid() bool {
	_, ok := taskPriorityLabels[p]
	return ok
}

func (p TaskPriority) Label() string {
	if l, ok := taskPriorityLabels[p]; ok {
		return l
	}
	return string(p)
}
