package storage

import (
	"time"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

// Task is the row shape of the tasks table joined with its tags and
// recurrence.
type Task struct {
	ID           string
	Title        string
	Description  string
	Status       string
	Priority     string
	DueDate      model.Date
	DueTime      string
	Project      string
	ParentTaskID string
	Position     int
	Tags         []string
	Recurrence   *RecurrenceRule
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

type RecurrenceRule struct {
	TaskID        string
	RuleType      string
	IntervalValue int
	DaysOfWeek    string
	DayOfMonth    int
	EndDate       model.Date
}

type Goal struct {
	ID          string
	Name        string
	Description string
	Frequency   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ArchivedAt  *time.Time
}

// GoalPatch holds the goal fields to change; nil fields are left alone.
type GoalPatch struct {
	Name        *string
	Description *string
	Frequency   *string
}

type Progress struct {
	GoalID       string
	Date         model.Date
	Completed    bool
	AutoDetected bool
	Value        *int
}

// AppState is the UI state persisted next to the tasks.
type AppState struct {
	CurrentView          string     `json:"currentView"`
	NotificationsEnabled bool       `json:"notificationsEnabled"`
	LastReminderDate     model.Date `json:"lastReminderDate"`
}

func DefaultAppState() AppState {
	return AppState{CurrentView: "today", NotificationsEnabled: true}
}

type TaskListFilter struct {
	Status  string
	Project string
	Limit   int
	Offset  int
}

type GoalListFilter struct {
	IncludeArchived bool
	Limit           int
	Offset          int
}
