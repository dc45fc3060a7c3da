package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/tasktrack/internal/model"
	"go.uber.org/zap"
)

var ErrTitleRequired = errors.New("tasks: title is required")

// Persister durably stores the collection after each successful mutation.
type Persister interface {
	SaveTasks(ctx context.Context, tasks []model.Task) error
}

// Repository is the task collection as seen by the UI layer. Mutations that
// reference an unknown id are no-ops and report ok=false.
type Repository interface {
	Create(ctx context.Context, req CreateRequest) (model.Task, error)
	Update(ctx context.Context, id string, patch Patch) (model.Task, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Complete(ctx context.Context, id string) (CompleteResult, bool, error)
	Reopen(ctx context.Context, id string) (model.Task, bool, error)

	Get(id string) (model.Task, bool)
	Snapshot() []model.Task
	Summary() Summary
	View(view View, project string) []model.Task
	Projects() []string
}

type CreateRequest struct {
	Title       string
	Description string
	Priority    model.Priority
	DueDate     model.Date
	DueTime     string
	Project     string
	Tags        []string
	Recurrence  *model.RecurrencePattern
}

// Patch holds the fields to change; nil fields are left alone. A zero DueDate
// or empty Project clears the field; ClearRecurrence drops the pattern.
type Patch struct {
	Title           *string
	Description     *string
	Status          *model.Status
	Priority        *model.Priority
	DueDate         *model.Date
	DueTime         *string
	Project         *string
	Tags            *[]string
	Recurrence      *model.RecurrencePattern
	ClearRecurrence bool
}

type CompleteResult struct {
	Completed model.Task
	// Next is the spawned occurrence, nil when the task does not recur or
	// the series has ended.
	Next *model.Task
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

func WithPersister(p Persister) Option {
	return func(s *Service) { s.persister = p }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithOnChange registers a callback run after each successful mutation, once
// the lock has been released.
func WithOnChange(fn func(Summary)) Option {
	return func(s *Service) { s.onChange = fn }
}

type Service struct {
	mu        sync.RWMutex
	tasks     []model.Task
	summary   Summary
	now       func() time.Time
	newID     func() string
	log       *zap.Logger
	persister Persister
	onChange  func(Summary)
}

var _ Repository = (*Service)(nil)

func NewService(initial []model.Task, opts ...Option) *Service {
	s := &Service{
		now:   time.Now,
		newID: uuid.NewString,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = make([]model.Task, 0, len(initial))
	for _, t := range initial {
		t = t.Clone()
		if t.Recurrence != nil {
			r := t.Recurrence.Normalize()
			t.Recurrence = &r
		}
		s.tasks = append(s.tasks, t)
	}
	s.summary = Summarize(s.tasks, s.today())
	return s
}

func (s *Service) today() model.Date {
	return model.DateOf(s.now())
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (model.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.Task{}, ErrTitleRequired
	}
	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.IsValid() {
		return model.Task{}, fmt.Errorf("%w: %q", model.ErrInvalidPriority, priority)
	}

	s.mu.Lock()
	now := s.now()
	task := model.Task{
		ID:          s.newID(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Status:      model.StatusTodo,
		Priority:    priority,
		DueDate:     req.DueDate,
		DueTime:     strings.TrimSpace(req.DueTime),
		Project:     strings.TrimSpace(req.Project),
		Tags:        model.NormalizeTags(req.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Recurrence != nil {
		r := req.Recurrence.Normalize()
		task.Recurrence = &r
	}
	if err := task.Validate(); err != nil {
		s.mu.Unlock()
		return model.Task{}, err
	}
	s.tasks = append(s.tasks, task)
	s.log.Debug("task created", zap.String("id", task.ID), zap.String("title", task.Title))
	err := s.afterMutationLocked(ctx)
	summary := s.summary
	s.mu.Unlock()

	s.notify(summary)
	return task.Clone(), err
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (model.Task, bool, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return model.Task{}, false, ErrTitleRequired
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.log.Debug("update ignored, task not found", zap.String("id", id))
		return model.Task{}, false, nil
	}

	next := s.tasks[idx].Clone()
	now := s.now()
	if err := applyPatch(&next, patch, now); err != nil {
		s.mu.Unlock()
		return model.Task{}, false, err
	}
	next.UpdatedAt = now
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return model.Task{}, false, err
	}
	s.tasks[idx] = next
	s.log.Debug("task updated", zap.String("id", id))
	err := s.afterMutationLocked(ctx)
	summary := s.summary
	s.mu.Unlock()

	s.notify(summary)
	return next.Clone(), true, err
}

func applyPatch(t *model.Task, p Patch, now time.Time) error {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.DueTime != nil {
		t.DueTime = strings.TrimSpace(*p.DueTime)
	}
	if p.Project != nil {
		t.Project = strings.TrimSpace(*p.Project)
	}
	if p.Tags != nil {
		t.Tags = model.NormalizeTags(*p.Tags)
	}
	switch {
	case p.ClearRecurrence:
		t.Recurrence = nil
	case p.Recurrence != nil:
		r := p.Recurrence.Normalize()
		t.Recurrence = &r
	}
	if p.Status != nil {
		if !p.Status.IsValid() {
			return fmt.Errorf("%w: %q", model.ErrInvalidStatus, *p.Status)
		}
		setStatus(t, *p.Status, now)
	}
	return nil
}

// setStatus keeps CompletedAt in step with the status.
func setStatus(t *model.Task, status model.Status, now time.Time) {
	if status == model.StatusCompleted {
		if t.Status != model.StatusCompleted || t.CompletedAt == nil {
			done := now
			t.CompletedAt = &done
		}
	} else {
		t.CompletedAt = nil
	}
	t.Status = status
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.log.Debug("delete ignored, task not found", zap.String("id", id))
		return false, nil
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.log.Debug("task deleted", zap.String("id", id))
	err := s.afterMutationLocked(ctx)
	summary := s.summary
	s.mu.Unlock()

	s.notify(summary)
	return true, err
}

// Complete marks the task done in place. A recurring task with a due date
// spawns its next occurrence unless the series has ended. Completing an
// already completed task changes nothing and spawns nothing.
func (s *Service) Complete(ctx context.Context, id string) (CompleteResult, bool, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.log.Debug("complete ignored, task not found", zap.String("id", id))
		return CompleteResult{}, false, nil
	}

	src := &s.tasks[idx]
	if src.Status == model.StatusCompleted {
		result := CompleteResult{Completed: src.Clone()}
		s.mu.Unlock()
		s.log.Debug("complete ignored, task already completed", zap.String("id", id))
		return result, true, nil
	}

	now := s.now()
	done := now
	src.Status = model.StatusCompleted
	src.CompletedAt = &done
	src.UpdatedAt = now
	result := CompleteResult{Completed: src.Clone()}

	if src.HasDueDate() && src.Recurrence != nil {
		if due, ok := model.NextOccurrence(src.DueDate, *src.Recurrence); ok {
			next := spawnOccurrence(*src, due, s.newID(), now)
			s.tasks = append(s.tasks, next)
			cp := next.Clone()
			result.Next = &cp
			s.log.Debug("recurring task spawned",
				zap.String("parent", id),
				zap.String("id", next.ID),
				zap.String("due", due.String()))
		} else {
			s.log.Debug("recurring series ended", zap.String("id", id))
		}
	}
	s.log.Debug("task completed", zap.String("id", id))
	err := s.afterMutationLocked(ctx)
	summary := s.summary
	s.mu.Unlock()

	s.notify(summary)
	return result, true, err
}

func spawnOccurrence(src model.Task, due model.Date, id string, now time.Time) model.Task {
	next := src.Clone()
	next.ID = id
	next.Status = model.StatusTodo
	next.DueDate = due
	next.ParentTaskID = src.ID
	next.CreatedAt = now
	next.UpdatedAt = now
	next.CompletedAt = nil
	return next
}

// Reopen moves a finished or cancelled task back to todo.
func (s *Service) Reopen(ctx context.Context, id string) (model.Task, bool, error) {
	status := model.StatusTodo
	return s.Update(ctx, id, Patch{Status: &status})
}

// SetStatus moves a task to any status. Completing through SetStatus does not
// spawn the next occurrence; use Complete for that.
func (s *Service) SetStatus(ctx context.Context, id string, status model.Status) (model.Task, bool, error) {
	if !status.IsValid() {
		return model.Task{}, false, fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}
	return s.Update(ctx, id, Patch{Status: &status})
}

func (s *Service) Get(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Task{}, false
	}
	return s.tasks[idx].Clone(), true
}

// FindByPrefix resolves a unique id prefix, as typed in the command palette.
func (s *Service) FindByPrefix(prefix string) (model.Task, bool) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return model.Task{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *model.Task
	for i := range s.tasks {
		if !strings.HasPrefix(s.tasks[i].ID, prefix) {
			continue
		}
		if found != nil {
			return model.Task{}, false
		}
		found = &s.tasks[i]
	}
	if found == nil {
		return model.Task{}, false
	}
	return found.Clone(), true
}

func (s *Service) Snapshot() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Clone())
	}
	return out
}

func (s *Service) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// Refresh recomputes the summary against the clock, for when the day rolls
// over without any mutation.
func (s *Service) Refresh() Summary {
	s.mu.Lock()
	s.summary = Summarize(s.tasks, s.today())
	summary := s.summary
	s.mu.Unlock()
	return summary
}

func (s *Service) View(view View, project string) []model.Task {
	return FilterTasks(s.Snapshot(), view, s.today(), project)
}

func (s *Service) Projects() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Projects(s.tasks)
}

func (s *Service) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// afterMutationLocked refreshes the summary and hands the new state to the
// persister. A persistence failure leaves the in-memory change in place.
func (s *Service) afterMutationLocked(ctx context.Context) error {
	s.summary = Summarize(s.tasks, s.today())
	if s.persister == nil {
		return nil
	}
	if err := s.persister.SaveTasks(ctx, s.snapshotLocked()); err != nil {
		s.log.Error("persist tasks failed", zap.Error(err))
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}

func (s *Service) notify(summary Summary) {
	if s.onChange != nil {
		s.onChange(summary)
	}
}
