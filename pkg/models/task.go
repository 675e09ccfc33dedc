package models

import "time"

// Priority represents the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank returns the numeric weight of a priority for sorting.
// Higher priorities have higher ranks.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Next returns the priority that follows p in the cycling order
// high -> medium -> low -> high.
func (p Priority) Next() Priority {
	switch p {
	case PriorityHigh:
		return PriorityMedium
	case PriorityMedium:
		return PriorityLow
	case PriorityLow:
		return PriorityHigh
	}
	return PriorityMedium
}

// ValidPriority reports whether p is one of the three allowed values.
func ValidPriority(p Priority) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Status represents the completion state of a task.
type Status string

const (
	StatusOpen Status = "open"
	StatusDone Status = "done"
)

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusDone {
		return StatusOpen
	}
	return StatusDone
}

// Task is the central entity of the shared workspace. Both members edit the
// same task set; the remote store assigns ID, CreatedBy, and both timestamps.
type Task struct {
	ID string `json:"id"`
	// Title is trimmed text between 1 and 100 characters.
	Title string `json:"title"`
	// Memo is optional trimmed text up to 2000 characters.
	Memo string `json:"memo,omitempty"`
	// DueDate is a calendar date in YYYY-MM-DD form with no time component.
	// Empty means no due date.
	DueDate  string   `json:"due_date,omitempty"`
	Priority Priority `json:"priority"`
	// Assignee is a Profile ID. Empty means shared/unassigned.
	Assignee   string    `json:"assignee,omitempty"`
	Status     Status    `json:"status"`
	IsArchived bool      `json:"is_archived"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TaskPatch is a partial update to a task. Nil fields are left unchanged.
type TaskPatch struct {
	Title      *string   `json:"title,omitempty"`
	Memo       *string   `json:"memo,omitempty"`
	DueDate    *string   `json:"due_date,omitempty"`
	Priority   *Priority `json:"priority,omitempty"`
	Assignee   *string   `json:"assignee,omitempty"`
	Status     *Status   `json:"status,omitempty"`
	IsArchived *bool     `json:"is_archived,omitempty"`
}

// IsEmpty reports whether the patch carries no field changes.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Memo == nil && p.DueDate == nil &&
		p.Priority == nil && p.Assignee == nil && p.Status == nil &&
		p.IsArchived == nil
}
