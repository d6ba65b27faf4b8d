package models

import "time"

// Priority is the server-side task priority vocabulary.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task mirrors one server-owned task record. The server is the sole authority
// for ID, CreatedAt and UpdatedAt; the client never generates them.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskDraft is the payload for creating a task. It deliberately has no ID or
// timestamp fields.
type TaskDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Completed   bool     `json:"completed"`
	Priority    Priority `json:"priority"`
}

// TaskPatch carries only the fields the caller intends to change. Nil fields
// are omitted from the wire payload; everything else on a Task is immutable
// from the client's perspective.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// StatusFilter selects tasks by completion state in derived views.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterActive    StatusFilter = "active"
	FilterCompleted StatusFilter = "completed"
)

// ParseStatusFilter maps user input onto a StatusFilter.
func ParseStatusFilter(s string) (StatusFilter, bool) {
	switch StatusFilter(s) {
	case FilterAll, FilterActive, FilterCompleted:
		return StatusFilter(s), true
	}
	return "", false
}

// ViewMode selects the task list presentation.
type ViewMode string

const (
	ViewList ViewMode = "list"
	ViewGrid ViewMode = "grid"
)

// ParseViewMode maps user input onto a ViewMode.
func ParseViewMode(s string) (ViewMode, bool) {
	switch ViewMode(s) {
	case ViewList, ViewGrid:
		return ViewMode(s), true
	}
	return "", false
}
