package goals

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/tasktrack/internal/calendar"
	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/storage"
)

func newTestService(t *testing.T, now time.Time) *Service {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "goals.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	n := 0
	return NewService(repo,
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("goal-%d", n) }),
	)
}

func TestCreateAndFind(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	if _, err := svc.Create(ctx, "  ", model.FrequencyDaily); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if _, err := svc.Create(ctx, "Swim", model.Frequency("hourly")); !errors.Is(err, model.ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
	read, err := svc.Create(ctx, "Read", "")
	if err != nil {
		t.Fatalf("create read: %v", err)
	}
	if read.ID != "goal-1" || read.Frequency != model.FrequencyDaily {
		t.Fatalf("unexpected goal: %+v", read)
	}
	if _, err := svc.Create(ctx, "Run", model.FrequencyWeekly); err != nil {
		t.Fatalf("create run: %v", err)
	}
	if _, err := svc.Create(ctx, "Run far", model.FrequencyWeekly); err != nil {
		t.Fatalf("create run far: %v", err)
	}

	got, err := svc.Find(ctx, "read")
	if err != nil || got.ID != read.ID {
		t.Fatalf("find by name: %+v err=%v", got, err)
	}
	if got, err := svc.Find(ctx, "run"); err != nil || got.Name != "Run" {
		t.Fatalf("exact match should beat prefix: %+v err=%v", got, err)
	}
	if _, err := svc.Find(ctx, "ru"); !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("expected ErrAmbiguous, got %v", err)
	}
	if _, err := svc.Find(ctx, "yoga"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := svc.Archive(ctx, read.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	list, err := svc.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("archived goal should be hidden: %+v err=%v", list, err)
	}
	if err := svc.Archive(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCheckToggleAndCalendar(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC))
	g, err := svc.Create(ctx, "Stretch", model.FrequencyWeekly)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	day := model.MustParseDate("2024-03-05")
	if err := svc.Check(ctx, g.ID, day); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := svc.Check(ctx, g.ID, day); err != nil {
		t.Fatalf("re-check same day: %v", err)
	}
	if err := svc.Check(ctx, g.ID, model.Date{}); !errors.Is(err, model.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	checked, err := svc.Toggle(ctx, g.ID, model.MustParseDate("2024-03-10"))
	if err != nil || !checked {
		t.Fatalf("toggle on: %v %v", checked, err)
	}

	grid, err := svc.Calendar(ctx, g, 2)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if grid.Mode != calendar.ModeWeekly || grid.Start.String() != "2024-02-25" {
		t.Fatalf("unexpected grid: mode=%s start=%s", grid.Mode, grid.Start)
	}
	if len(grid.Weeks) != 3 || grid.Weeks[1].DaysCompleted != 1 || grid.Weeks[2].DaysCompleted != 1 {
		t.Fatalf("unexpected weeks: %+v", grid.Weeks)
	}

	checked, err = svc.Toggle(ctx, g.ID, model.MustParseDate("2024-03-10"))
	if err != nil || checked {
		t.Fatalf("toggle off: %v %v", checked, err)
	}
	if err := svc.Uncheck(ctx, g.ID, model.MustParseDate("2024-03-10")); err != nil {
		t.Fatalf("uncheck of missing entry should be quiet: %v", err)
	}

	daily, err := svc.CalendarMode(ctx, g, 2, calendar.ModeDaily)
	if err != nil {
		t.Fatalf("daily calendar: %v", err)
	}
	completed := 0
	for _, d := range daily.Days {
		if d.Completed {
			completed++
		}
	}
	if len(daily.Days) != 15 || completed != 1 || len(daily.Rows) != 3 {
		t.Fatalf("unexpected daily grid: days=%d completed=%d rows=%d", len(daily.Days), completed, len(daily.Rows))
	}
}

func TestUpdateDeleteAndSummary(t *testing.T) {
	ctx := context.Background()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "goals.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := NewService(repo, WithClock(func() time.Time { return now }))

	read, err := svc.Create(ctx, "Read", model.FrequencyDaily)
	if err != nil {
		t.Fatalf("create read: %v", err)
	}
	run, err := svc.Create(ctx, "Run", model.FrequencyDaily)
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	if !read.UpdatedAt.Equal(read.CreatedAt) {
		t.Fatalf("new goal should have UpdatedAt = CreatedAt: %+v", read)
	}

	now = now.Add(time.Hour)
	name, desc, weekly := "  Read books ", "twenty pages", model.FrequencyWeekly
	updated, err := svc.Update(ctx, read.ID, Patch{Name: &name, Description: &desc, Frequency: &weekly})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Read books" || updated.Description != "twenty pages" || updated.Frequency != model.FrequencyWeekly {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(now) || !updated.CreatedAt.Equal(read.CreatedAt) {
		t.Fatalf("unexpected timestamps: created=%v updated=%v", updated.CreatedAt, updated.UpdatedAt)
	}
	found, err := svc.Find(ctx, "read books")
	if err != nil || found.ID != read.ID {
		t.Fatalf("renamed goal not found: %+v %v", found, err)
	}

	blank := " "
	if _, err := svc.Update(ctx, read.ID, Patch{Name: &blank}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	hourly := model.Frequency("hourly")
	if _, err := svc.Update(ctx, read.ID, Patch{Frequency: &hourly}); !errors.Is(err, model.ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
	if _, err := svc.Update(ctx, "missing", Patch{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	today := model.MustParseDate("2024-03-10")
	if err := svc.Check(ctx, run.ID, today); err != nil {
		t.Fatalf("check run: %v", err)
	}
	if err := svc.Check(ctx, read.ID, model.MustParseDate("2024-03-09")); err != nil {
		t.Fatalf("check read yesterday: %v", err)
	}
	sum, err := svc.Summary(ctx, today)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.ActiveGoals != 2 || sum.CompletedToday != 1 || sum.Date != today {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	if err := svc.Delete(ctx, run.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, run.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	sum, err = svc.Summary(ctx, today)
	if err != nil {
		t.Fatalf("summary after delete: %v", err)
	}
	if sum.ActiveGoals != 1 || sum.CompletedToday != 0 {
		t.Fatalf("unexpected summary after delete: %+v", sum)
	}
}
