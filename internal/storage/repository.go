package storage

import (
	"context"
	"errors"
	"time"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// Snapshot is everything the app needs at startup.
type Snapshot struct {
	Tasks []model.Task `json:"tasks"`
	AppState
}

// StateStore is the persistence collaborator of the task service. Both the
// SQLite repository and the JSON snapshot file implement it.
type StateStore interface {
	Load(ctx context.Context) (Snapshot, error)
	SaveTasks(ctx context.Context, tasks []model.Task) error
	SaveAppState(ctx context.Context, state AppState) error
}

type Repository interface {
	StateStore

	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)

	CreateGoal(ctx context.Context, in Goal) error
	GetGoal(ctx context.Context, id string) (Goal, error)
	UpdateGoal(ctx context.Context, id string, patch GoalPatch, at time.Time) (Goal, error)
	ListGoals(ctx context.Context, filter GoalListFilter) ([]Goal, error)
	ArchiveGoal(ctx context.Context, id string, at time.Time) error
	DeleteGoal(ctx context.Context, id string) error

	RecordProgress(ctx context.Context, in Progress) error
	DeleteProgress(ctx context.Context, goalID string, date model.Date) error
	ProgressRange(ctx context.Context, goalID string, start, end model.Date) ([]model.GoalProgress, error)
}
