package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidStatus   = errors.New("model: invalid task status")
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrInvalidDueTime  = errors.New("model: invalid task due time")
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsActive reports whether a task in this status still needs doing.
func (s Status) IsActive() bool {
	return s != StatusCompleted && s != StatusCancelled
}

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Rank orders priorities from most (0) to least (3) pressing. Unknown
// priorities sort after low.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

type Task struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description,omitempty"`
	Status       Status             `json:"status"`
	Priority     Priority           `json:"priority"`
	DueDate      Date               `json:"dueDate"`
	DueTime      string             `json:"dueTime,omitempty"`
	Project      string             `json:"project,omitempty"`
	Tags         []string           `json:"tags"`
	Recurrence   *RecurrencePattern `json:"recurrence,omitempty"`
	ParentTaskID string             `json:"parentTaskId,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
	CompletedAt  *time.Time         `json:"completedAt,omitempty"`
}

func (t Task) HasDueDate() bool {
	return !t.DueDate.IsZero()
}

func (t Task) IsActive() bool {
	return t.Status.IsActive()
}

// Clone returns a deep copy so callers can hold it without sharing slices or
// pointers with the owner.
func (t Task) Clone() Task {
	out := t
	out.Tags = append([]string(nil), t.Tags...)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if t.Recurrence != nil {
		r := t.Recurrence.Clone()
		out.Recurrence = &r
	}
	if t.CompletedAt != nil {
		c := *t.CompletedAt
		out.CompletedAt = &c
	}
	return out
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.DueTime != "" {
		if _, err := time.Parse("15:04", t.DueTime); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDueTime, t.DueTime)
		}
	}
	if t.Recurrence != nil {
		if err := t.Recurrence.Validate(); err != nil {
			return err
		}
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.Status == StatusCompleted && t.CompletedAt == nil {
		return errors.New("model: completed_at is required when task status is completed")
	}
	if t.Status != StatusCompleted && t.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when task status is not completed")
	}
	return nil
}

// NormalizeTags trims, drops empties and de-duplicates; tag order carries no
// meaning so the result is sorted.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
