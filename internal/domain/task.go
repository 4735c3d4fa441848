package domain

import (
	"time"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the priorities from highest to lowest.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Rank orders priorities: high=3, medium=2, low=1. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	return p.Rank() > 0
}

// Task represents a task in the domain model.
type Task struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	Priority    Priority
	Category    string
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskDraft holds the caller-supplied fields of a new task.
// Identifier and timestamps are assigned by the repository.
type TaskDraft struct {
	Title       string `validate:"required"`
	Description string
	Completed   bool
	Priority    Priority `validate:"required,priority"`
	Category    string   `validate:"required"`
	DueDate     *time.Time
}

// NewTaskDraft returns a draft with the defaults the task form starts from.
func NewTaskDraft(title string) TaskDraft {
	return TaskDraft{
		Title:    title,
		Priority: PriorityMedium,
		Category: DefaultCategoryID,
	}
}

// TaskPatch is a partial update. Nil fields keep their current value;
// ClearDueDate removes the due date and takes precedence over DueDate.
type TaskPatch struct {
	Title        *string `validate:"omitempty,min=1"`
	Description  *string
	Completed    *bool
	Priority     *Priority `validate:"omitempty,priority"`
	Category     *string   `validate:"omitempty,min=1"`
	DueDate      *time.Time
	ClearDueDate bool
}

// IsEmpty reports whether the patch changes nothing but the update timestamp.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.Priority == nil && p.Category == nil && p.DueDate == nil && !p.ClearDueDate
}

// Apply merges the patch into a copy of t. Timestamps are left untouched.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	return t
}

// HasDueDate reports whether the task has a due date.
func (t Task) HasDueDate() bool {
	return t.DueDate != nil
}

// IsOverdue reports whether an incomplete task's due date has passed.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// IsValid checks if the task has valid data.
func (t Task) IsValid() bool {
	return t.ID != "" && t.Title != "" && !t.UpdatedAt.Before(t.CreatedAt)
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}
