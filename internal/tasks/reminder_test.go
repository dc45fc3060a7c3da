package tasks

import (
	"testing"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

func TestReminderGateOncePerDay(t *testing.T) {
	gate := NewReminderGate(true, model.Date{})
	day := model.MustParseDate("2024-03-10")
	pending := Summary{TotalTasks: 3, OverdueCount: 1, DueTodayCount: 2}

	rem, ok := gate.Check(day, pending)
	if !ok {
		t.Fatal("expected reminder on first check of the day")
	}
	if rem.OverdueCount != 1 || rem.DueTodayCount != 2 || rem.Message() != "1 overdue, 2 due today" {
		t.Fatalf("unexpected reminder: %+v %q", rem, rem.Message())
	}
	if err := rem.Validate(); err != nil {
		t.Fatalf("reminder should be valid: %v", err)
	}
	if _, ok := gate.Check(day, pending); ok {
		t.Fatal("expected no second reminder on the same day")
	}
	if _, ok := gate.Check(day.AddDays(1), pending); !ok {
		t.Fatal("expected reminder on the next day")
	}
	if gate.LastChecked() != day.AddDays(1) {
		t.Fatalf("unexpected last checked: %s", gate.LastChecked())
	}
}

func TestReminderGateNothingPendingStillMarksDay(t *testing.T) {
	gate := NewReminderGate(true, model.Date{})
	day := model.MustParseDate("2024-03-10")
	if _, ok := gate.Check(day, Summary{TotalTasks: 2}); ok {
		t.Fatal("expected no reminder with nothing due")
	}
	if _, ok := gate.Check(day, Summary{TotalTasks: 2, DueTodayCount: 1}); ok {
		t.Fatal("day was already checked")
	}
}

func TestReminderGateRespectsPersistedDateAndDisable(t *testing.T) {
	day := model.MustParseDate("2024-03-10")
	gate := NewReminderGate(true, day)
	if _, ok := gate.Check(day, Summary{TotalTasks: 1, OverdueCount: 1}); ok {
		t.Fatal("persisted last-checked date should suppress today's reminder")
	}

	gate = NewReminderGate(false, model.Date{})
	if _, ok := gate.Check(day, Summary{TotalTasks: 1, OverdueCount: 1}); ok {
		t.Fatal("disabled gate must not fire")
	}
	gate.SetEnabled(true)
	if _, ok := gate.Check(day, Summary{TotalTasks: 1, OverdueCount: 1}); !ok || !gate.Enabled() {
		t.Fatal("re-enabled gate should fire")
	}
}
