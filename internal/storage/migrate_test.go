package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	if err := repo.CreateTask(t.Context(), Task{
		ID:          "task-rt-1",
		Title:       "Roundtrip task",
		Description: "migration compatibility",
		Status:      string(model.StatusTodo),
		Priority:    string(model.PriorityMedium),
		DueDate:     model.MustParseDate("2026-02-10"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("insert after roundtrip failed: %v", err)
	}

	got, err := repo.GetTask(t.Context(), "task-rt-1")
	if err != nil {
		t.Fatalf("get after roundtrip failed: %v", err)
	}
	if got.Title != "Roundtrip task" || got.DueDate.String() != "2026-02-10" {
		t.Fatalf("unexpected task after roundtrip: %+v", got)
	}

	if err := repo.CreateGoal(t.Context(), Goal{ID: "goal-rt-1", Name: "Read", Frequency: "daily", CreatedAt: now}); err != nil {
		t.Fatalf("insert goal after roundtrip failed: %v", err)
	}
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "idempotent.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	for i := 0; i < 2; i++ {
		if err := MigrateUp(db); err != nil {
			t.Fatalf("migrate up #%d: %v", i+1, err)
		}
	}
	got, err := AppliedMigrations(db)
	if err != nil {
		t.Fatalf("applied migrations: %v", err)
	}
	if len(got) != 2 || got[0] != "0001_tasks" || got[1] != "0002_goals" {
		t.Fatalf("unexpected applied versions: %v", got)
	}
}

func TestMigrateDownClearsVersions(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "down.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	got, err := AppliedMigrations(db)
	if err != nil {
		t.Fatalf("applied migrations: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no applied versions, got %v", got)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'tasks'`).Scan(&n); err != nil {
		t.Fatalf("inspect schema: %v", err)
	}
	if n != 0 {
		t.Fatalf("tasks table should be dropped")
	}
}
