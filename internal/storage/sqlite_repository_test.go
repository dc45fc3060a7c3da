package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "tasktrack.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSaveTasksRoundTripKeepsAbsentFieldsAbsent(t *testing.T) {
	repo := newTestRepo(t)
	created := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	// 23:30 at UTC-5 is already the next day in UTC.
	doneAt := time.Date(2024, 3, 10, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))

	in := []model.Task{
		{
			ID:        "b-recurring",
			Title:     "Standup",
			Status:    model.StatusTodo,
			Priority:  model.PriorityHigh,
			DueDate:   model.MustParseDate("2024-03-11"),
			DueTime:   "09:30",
			Project:   "work",
			Tags:      []string{"daily", "team"},
			CreatedAt: created,
			UpdatedAt: created,
			Recurrence: &model.RecurrencePattern{
				Type:       model.RecurrenceWeekly,
				Interval:   2,
				DaysOfWeek: []int{1, 3},
				EndDate:    model.MustParseDate("2024-06-30"),
			},
		},
		{
			ID:          "a-plain",
			Title:       "Buy milk",
			Status:      model.StatusCompleted,
			Priority:    model.PriorityLow,
			Tags:        []string{},
			CreatedAt:   created,
			UpdatedAt:   doneAt,
			CompletedAt: &doneAt,
		},
	}
	if err := repo.SaveTasks(t.Context(), in); err != nil {
		t.Fatalf("save tasks: %v", err)
	}

	snap, err := repo.Load(t.Context())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Tasks) != 2 || snap.Tasks[0].ID != "b-recurring" || snap.Tasks[1].ID != "a-plain" {
		t.Fatalf("collection order not preserved: %+v", snap.Tasks)
	}

	rec := snap.Tasks[0]
	if rec.DueDate.String() != "2024-03-11" || rec.DueTime != "09:30" || rec.Project != "work" {
		t.Fatalf("unexpected recurring task: %+v", rec)
	}
	if len(rec.Tags) != 2 || rec.Tags[0] != "daily" || rec.Tags[1] != "team" {
		t.Fatalf("unexpected tags: %v", rec.Tags)
	}
	if rec.Recurrence == nil || rec.Recurrence.Type != model.RecurrenceWeekly || rec.Recurrence.Interval != 2 {
		t.Fatalf("unexpected recurrence: %+v", rec.Recurrence)
	}
	if len(rec.Recurrence.DaysOfWeek) != 2 || rec.Recurrence.DaysOfWeek[1] != 3 || rec.Recurrence.EndDate.String() != "2024-06-30" {
		t.Fatalf("unexpected recurrence detail: %+v", rec.Recurrence)
	}
	if rec.CompletedAt != nil {
		t.Fatal("active task must not gain a completion time")
	}

	plain := snap.Tasks[1]
	if !plain.DueDate.IsZero() || plain.DueTime != "" || plain.Project != "" || plain.Recurrence != nil {
		t.Fatalf("absent fields came back present: %+v", plain)
	}
	if plain.Tags == nil || len(plain.Tags) != 0 {
		t.Fatalf("tags should load as empty slice, got %#v", plain.Tags)
	}
	if plain.CompletedAt == nil || !plain.CompletedAt.Equal(doneAt) {
		t.Fatalf("completion time lost: %v", plain.CompletedAt)
	}
	if model.DateOf(*plain.CompletedAt) != model.MustParseDate("2024-03-10") {
		t.Fatalf("completion day shifted: %v", plain.CompletedAt)
	}
}

func TestSaveTasksReplacesCollection(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	first := []model.Task{
		{ID: "t1", Title: "one", Status: model.StatusTodo, Priority: model.PriorityMedium, Tags: []string{"x"}, CreatedAt: now, UpdatedAt: now,
			Recurrence: &model.RecurrencePattern{Type: model.RecurrenceDaily, Interval: 1}},
		{ID: "t2", Title: "two", Status: model.StatusTodo, Priority: model.PriorityMedium, CreatedAt: now, UpdatedAt: now},
	}
	if err := repo.SaveTasks(t.Context(), first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	second := []model.Task{
		{ID: "t2", Title: "two renamed", Status: model.StatusTodo, Priority: model.PriorityUrgent, CreatedAt: now, UpdatedAt: now},
	}
	if err := repo.SaveTasks(t.Context(), second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	rows, err := repo.ListTasks(t.Context(), TaskListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "two renamed" || rows[0].Priority != "urgent" {
		t.Fatalf("unexpected rows after replace: %+v", rows)
	}
	if _, err := repo.GetTask(t.Context(), "t1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected removed task to be gone, got %v", err)
	}

	var orphanTags, orphanRules int
	if err := repo.db.QueryRow(`SELECT COUNT(*) FROM task_tags`).Scan(&orphanTags); err != nil {
		t.Fatalf("count tags: %v", err)
	}
	if err := repo.db.QueryRow(`SELECT COUNT(*) FROM task_recurrences`).Scan(&orphanRules); err != nil {
		t.Fatalf("count recurrences: %v", err)
	}
	if orphanTags != 0 || orphanRules != 0 {
		t.Fatalf("child rows left behind: tags=%d rules=%d", orphanTags, orphanRules)
	}
}

func TestTaskCRUDAndFilters(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	for i, p := range []string{"work", "home", "work"} {
		row := Task{
			ID:        []string{"a", "b", "c"}[i],
			Title:     "task",
			Status:    "todo",
			Priority:  "medium",
			Project:   p,
			Position:  i,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.CreateTask(t.Context(), row); err != nil {
			t.Fatalf("create %s: %v", row.ID, err)
		}
	}

	work, err := repo.ListTasks(t.Context(), TaskListFilter{Project: "work"})
	if err != nil {
		t.Fatalf("list work: %v", err)
	}
	if len(work) != 2 || work[0].ID != "a" || work[1].ID != "c" {
		t.Fatalf("unexpected work tasks: %+v", work)
	}

	page, err := repo.ListTasks(t.Context(), TaskListFilter{Offset: 1, Limit: 1})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 1 || page[0].ID != "b" {
		t.Fatalf("unexpected page: %+v", page)
	}

	b, err := repo.GetTask(t.Context(), "b")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b.Status = "completed"
	b.Tags = []string{"errand"}
	done := now.Add(time.Hour)
	b.CompletedAt = &done
	if err := repo.UpdateTask(t.Context(), b); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.GetTask(t.Context(), "b")
	if err != nil {
		t.Fatalf("get updated: %v", err)
	}
	if got.Status != "completed" || len(got.Tags) != 1 || got.CompletedAt == nil {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := repo.UpdateTask(t.Context(), Task{ID: "missing", CreatedAt: now, UpdatedAt: now}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
	if err := repo.DeleteTask(t.Context(), "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteTask(t.Context(), "b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestAppStateDefaultsAndUpsert(t *testing.T) {
	repo := newTestRepo(t)
	state, err := repo.LoadAppState(t.Context())
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if state != DefaultAppState() {
		t.Fatalf("expected defaults, got %+v", state)
	}

	want := AppState{CurrentView: "upcoming", NotificationsEnabled: true, LastReminderDate: model.MustParseDate("2024-03-10")}
	for i := 0; i < 2; i++ {
		if err := repo.SaveAppState(t.Context(), want); err != nil {
			t.Fatalf("save app state #%d: %v", i+1, err)
		}
	}
	snap, err := repo.Load(t.Context())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.AppState != want {
		t.Fatalf("app state = %+v, want %+v", snap.AppState, want)
	}
	if len(snap.Tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(snap.Tasks))
	}
}

func TestGoalProgressUpsertAndRange(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	if err := repo.CreateGoal(t.Context(), GoalFromModel(model.Goal{ID: "g1", Name: "Run", Frequency: model.FrequencyWeekly, CreatedAt: now})); err != nil {
		t.Fatalf("create goal: %v", err)
	}

	three := 3
	entries := []Progress{
		{GoalID: "g1", Date: model.MustParseDate("2024-03-05"), Completed: true},
		{GoalID: "g1", Date: model.MustParseDate("2024-03-01"), Completed: true, Value: &three},
		{GoalID: "g1", Date: model.MustParseDate("2024-03-20"), Completed: true},
		{GoalID: "g1", Date: model.MustParseDate("2024-03-05"), Completed: false, AutoDetected: true},
	}
	for _, p := range entries {
		if err := repo.RecordProgress(t.Context(), p); err != nil {
			t.Fatalf("record %s: %v", p.Date, err)
		}
	}

	got, err := repo.ProgressRange(t.Context(), "g1", model.MustParseDate("2024-03-01"), model.MustParseDate("2024-03-10"))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries in range, got %+v", got)
	}
	if got[0].Date.String() != "2024-03-01" || got[0].Value == nil || *got[0].Value != 3 {
		t.Fatalf("unexpected first entry: %+v", got[0])
	}
	if got[1].Date.String() != "2024-03-05" || got[1].Completed || !got[1].AutoDetected {
		t.Fatalf("second write for a date should replace the first: %+v", got[1])
	}

	if err := repo.DeleteProgress(t.Context(), "g1", model.MustParseDate("2024-03-20")); err != nil {
		t.Fatalf("delete progress: %v", err)
	}
	if err := repo.DeleteProgress(t.Context(), "g1", model.MustParseDate("2024-03-20")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGoalArchiveAndDelete(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	for _, id := range []string{"g1", "g2"} {
		if err := repo.CreateGoal(t.Context(), Goal{ID: id, Name: id, Frequency: "daily", CreatedAt: now}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	if err := repo.RecordProgress(t.Context(), Progress{GoalID: "g2", Date: model.MustParseDate("2024-03-02"), Completed: true}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := repo.ArchiveGoal(t.Context(), "g1", now.Add(24*time.Hour)); err != nil {
		t.Fatalf("archive: %v", err)
	}

	active, err := repo.ListGoals(t.Context(), GoalListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].ID != "g2" {
		t.Fatalf("archived goal should be hidden: %+v", active)
	}
	all, err := repo.ListGoals(t.Context(), GoalListFilter{IncludeArchived: true})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both goals, got %+v", all)
	}
	g1, err := repo.GetGoal(t.Context(), "g1")
	if err != nil || g1.ArchivedAt == nil || g1.ToModel().ArchivedAt == nil {
		t.Fatalf("archive time not stored: %+v %v", g1, err)
	}

	if err := repo.DeleteGoal(t.Context(), "g2"); err != nil {
		t.Fatalf("delete goal: %v", err)
	}
	if _, err := repo.GetGoal(t.Context(), "g2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted goal gone, got %v", err)
	}
	left, err := repo.ProgressRange(t.Context(), "g2", model.MustParseDate("2024-01-01"), model.MustParseDate("2024-12-31"))
	if err != nil || len(left) != 0 {
		t.Fatalf("progress should go with its goal: %+v %v", left, err)
	}
	if err := repo.ArchiveGoal(t.Context(), "missing", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateGoalPatchesFields(t *testing.T) {
	repo := newTestRepo(t)
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	if err := repo.CreateGoal(t.Context(), Goal{ID: "g1", Name: "Run", Description: "5k", Frequency: "daily", CreatedAt: created}); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.GetGoal(t.Context(), "g1")
	if err != nil || !got.UpdatedAt.Equal(created) {
		t.Fatalf("zero UpdatedAt should default to CreatedAt: %+v %v", got, err)
	}

	at := created.Add(48 * time.Hour)
	freq := "weekly"
	updated, err := repo.UpdateGoal(t.Context(), "g1", GoalPatch{Frequency: &freq}, at)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Frequency != "weekly" || updated.Name != "Run" || updated.Description != "5k" {
		t.Fatalf("only frequency should change: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(at) || !updated.CreatedAt.Equal(created) {
		t.Fatalf("unexpected timestamps: %+v", updated)
	}
	if _, err := repo.UpdateGoal(t.Context(), "missing", GoalPatch{}, at); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
