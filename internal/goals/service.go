// Package goals manages habit goals and their daily activity log.
package goals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/tasktrack/internal/calendar"
	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/storage"
	"go.uber.org/zap"
)

var (
	ErrNameRequired = errors.New("goals: name is required")
	ErrNotFound     = errors.New("goals: goal not found")
	ErrAmbiguous    = errors.New("goals: name matches more than one goal")
)

// Store is the slice of storage.Repository the goal service needs.
type Store interface {
	CreateGoal(ctx context.Context, in storage.Goal) error
	UpdateGoal(ctx context.Context, id string, patch storage.GoalPatch, at time.Time) (storage.Goal, error)
	DeleteGoal(ctx context.Context, id string) error
	ListGoals(ctx context.Context, filter storage.GoalListFilter) ([]storage.Goal, error)
	ArchiveGoal(ctx context.Context, id string, at time.Time) error
	RecordProgress(ctx context.Context, in storage.Progress) error
	DeleteProgress(ctx context.Context, goalID string, date model.Date) error
	ProgressRange(ctx context.Context, goalID string, start, end model.Date) ([]model.GoalProgress, error)
}

// Patch holds the goal fields to change; nil fields are left alone.
type Patch struct {
	Name        *string
	Description *string
	Frequency   *model.Frequency
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

type Service struct {
	store Store
	agg   *calendar.Aggregator
	now   func() time.Time
	newID func() string
	log   *zap.Logger
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		agg:   calendar.NewAggregator(store),
		now:   time.Now,
		newID: uuid.NewString,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, name string, freq model.Frequency) (model.Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Goal{}, ErrNameRequired
	}
	if freq == "" {
		freq = model.FrequencyDaily
	}
	if !freq.IsValid() {
		return model.Goal{}, fmt.Errorf("%w: %q", model.ErrInvalidFrequency, freq)
	}
	now := s.now()
	g := model.Goal{ID: s.newID(), Name: name, Frequency: freq, CreatedAt: now, UpdatedAt: now}
	if err := s.store.CreateGoal(ctx, storage.GoalFromModel(g)); err != nil {
		return model.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	s.log.Debug("goal created", zap.String("goal_id", g.ID), zap.String("frequency", string(freq)))
	return g, nil
}

func (s *Service) List(ctx context.Context) ([]model.Goal, error) {
	rows, err := s.store.ListGoals(ctx, storage.GoalListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	out := make([]model.Goal, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToModel())
	}
	return out, nil
}

// Find resolves a goal by exact name (case-insensitive), falling back to a
// unique name prefix.
func (s *Service) Find(ctx context.Context, name string) (model.Goal, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return model.Goal{}, ErrNameRequired
	}
	all, err := s.List(ctx)
	if err != nil {
		return model.Goal{}, err
	}
	var prefixed []model.Goal
	for _, g := range all {
		lower := strings.ToLower(g.Name)
		if lower == name || g.ID == name {
			return g, nil
		}
		if strings.HasPrefix(lower, name) {
			prefixed = append(prefixed, g)
		}
	}
	switch len(prefixed) {
	case 0:
		return model.Goal{}, ErrNotFound
	case 1:
		return prefixed[0], nil
	default:
		return model.Goal{}, ErrAmbiguous
	}
}

// Check marks the goal done on date. Checking the same date again overwrites
// the earlier entry.
func (s *Service) Check(ctx context.Context, goalID string, date model.Date) error {
	if date.IsZero() {
		return model.ErrInvalidDate
	}
	p := model.GoalProgress{GoalID: goalID, Date: date, Completed: true}
	if err := s.store.RecordProgress(ctx, storage.ProgressFromModel(p)); err != nil {
		return fmt.Errorf("record progress: %w", err)
	}
	s.log.Debug("goal checked", zap.String("goal_id", goalID), zap.String("date", date.String()))
	return nil
}

// Uncheck removes the entry for date. A missing entry is not an error.
func (s *Service) Uncheck(ctx context.Context, goalID string, date model.Date) error {
	err := s.store.DeleteProgress(ctx, goalID, date)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// Toggle flips the day's state and reports whether it is now checked.
func (s *Service) Toggle(ctx context.Context, goalID string, date model.Date) (bool, error) {
	recs, err := s.store.ProgressRange(ctx, goalID, date, date)
	if err != nil {
		return false, fmt.Errorf("load progress: %w", err)
	}
	if len(recs) > 0 && recs[0].Completed {
		return false, s.Uncheck(ctx, goalID, date)
	}
	return true, s.Check(ctx, goalID, date)
}

func (s *Service) Archive(ctx context.Context, goalID string) error {
	if err := s.store.ArchiveGoal(ctx, goalID, s.now()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("archive goal: %w", err)
	}
	return nil
}

// Calendar builds the heatmap for goal over the last weeks weeks, picking the
// grid from the goal's frequency.
func (s *Service) Calendar(ctx context.Context, g model.Goal, weeks int) (calendar.Grid, error) {
	return s.CalendarMode(ctx, g, weeks, calendar.ModeFor(g.Frequency))
}

func (s *Service) CalendarMode(ctx context.Context, g model.Goal, weeks int, mode calendar.Mode) (calendar.Grid, error) {
	return s.agg.Build(ctx, g.ID, model.DateOf(s.now()), weeks, mode)
}

// Update applies patch to the goal and bumps UpdatedAt.
func (s *Service) Update(ctx context.Context, goalID string, patch Patch) (model.Goal, error) {
	var row storage.GoalPatch
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return model.Goal{}, ErrNameRequired
		}
		row.Name = &name
	}
	if patch.Description != nil {
		desc := strings.TrimSpace(*patch.Description)
		row.Description = &desc
	}
	if patch.Frequency != nil {
		if !patch.Frequency.IsValid() {
			return model.Goal{}, fmt.Errorf("%w: %q", model.ErrInvalidFrequency, *patch.Frequency)
		}
		freq := string(*patch.Frequency)
		row.Frequency = &freq
	}
	updated, err := s.store.UpdateGoal(ctx, goalID, row, s.now())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.Goal{}, ErrNotFound
		}
		return model.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	s.log.Debug("goal updated", zap.String("goal_id", goalID))
	return updated.ToModel(), nil
}

// Delete removes the goal together with its activity log.
func (s *Service) Delete(ctx context.Context, goalID string) error {
	if err := s.store.DeleteGoal(ctx, goalID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete goal: %w", err)
	}
	s.log.Debug("goal deleted", zap.String("goal_id", goalID))
	return nil
}

// Summary counts active goals and those checked on today.
func (s *Service) Summary(ctx context.Context, today model.Date) (model.GoalSummary, error) {
	active, err := s.List(ctx)
	if err != nil {
		return model.GoalSummary{}, err
	}
	out := model.GoalSummary{Date: today, ActiveGoals: len(active)}
	for _, g := range active {
		recs, err := s.store.ProgressRange(ctx, g.ID, today, today)
		if err != nil {
			return model.GoalSummary{}, fmt.Errorf("load progress for goal %s: %w", g.ID, err)
		}
		if len(recs) > 0 && recs[0].Completed {
			out.CompletedToday++
		}
	}
	return out, nil
}
