// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidStatus is returned when a status string is not a workflow step.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidPriority is returned when a priority string is not low, medium, or high.
	ErrInvalidPriority = errors.New("invalid priority")
)

// Priority ranks a task. The zero value is not valid; use PriorityMedium
// as the default.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of low, medium, or high.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority converts a case-insensitive string to a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q (want low, medium, or high)", ErrInvalidPriority, s)
	}
	return p, nil
}

// Status is a step in the task workflow: todo, in_progress, completed.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists the workflow steps in order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusCompleted}

// Valid reports whether s is a known workflow step.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Next returns the workflow step after s. Completed tasks have no next
// step and return false.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusTodo:
		return StatusInProgress, true
	case StatusInProgress:
		return StatusCompleted, true
	}
	return "", false
}

// Label returns a human-readable form of the status ("in progress").
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// ParseStatus converts a string to a Status. It accepts the stored form
// ("in_progress") as well as hyphen and space variants ("in-progress").
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	st := Status(norm)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q (want todo, in_progress, or completed)", ErrInvalidStatus, s)
	}
	return st, nil
}

// Task is a unit of work. Tasks produced by the PRD extractor are candidates
// with no identity; the store wraps them in StoredTask once persisted.
type Task struct {
	// Title is the non-empty display string.
	Title string `json:"title" yaml:"title"`

	// Description is free-form and may span several lines or be empty.
	Description string `json:"description" yaml:"description"`

	// Priority is low, medium, or high.
	Priority Priority `json:"priority" yaml:"priority"`

	// Status is the workflow step. Freshly parsed candidates are always todo.
	Status Status `json:"status" yaml:"status"`

	// Role names the responsible role. Nil means no constraint.
	Role *string `json:"role" yaml:"role"`
}

// RoleName returns the role, or "" when none is set.
func (t Task) RoleName() string {
	if t.Role == nil {
		return ""
	}
	return *t.Role
}

// Validate checks the fields the store requires: a non-empty title and
// known priority and status values.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("task title is empty")
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("task %q: %w: %q", t.Title, ErrInvalidPriority, t.Priority)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("task %q: %w: %q", t.Title, ErrInvalidStatus, t.Status)
	}
	return nil
}

// RolePtr returns a pointer to the trimmed role, or nil when it is empty.
func RolePtr(role string) *string {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil
	}
	return &role
}

// StoredTask is a Task persisted in a project.
type StoredTask struct {
	Task `yaml:",inline"`

	ID        int64     `json:"id" yaml:"id"`
	ProjectID int64     `json:"project_id" yaml:"project_id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Project groups tasks.
type Project struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}
