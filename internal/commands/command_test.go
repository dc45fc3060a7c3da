package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/tasks"
)

// 2024-03-10 is a Sunday.
var today = model.MustParseDate("2024-03-10")

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent due:tomorrow", TypeAdd},
		{"done 3f2a", TypeDone},
		{"delete 3f2a", TypeDelete},
		{"reopen 3f2a", TypeReopen},
		{"view upcoming", TypeView},
		{"goal Read daily", TypeGoal},
		{"check Read", TypeCheck},
		{"notify off", TypeNotify},
		{"rename Read to Read books", TypeRename},
	}

	for _, tc := range cases {
		cmd, err := ParseAt(tc.in, today)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddOptions(t *testing.T) {
	cmd, err := ParseAt("add Team sync due:2024-03-12 at:09:30 p:high project:work #meeting #Team every:weekly/2 until:2024-06-30 on:tue,thu", today)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	a := cmd.Add
	if a.Title != "Team sync" || a.DueDate.String() != "2024-03-12" || a.DueTime != "09:30" {
		t.Fatalf("unexpected basics: %+v", a)
	}
	if a.Priority != model.PriorityHigh || a.Project != "work" {
		t.Fatalf("unexpected priority/project: %+v", a)
	}
	if len(a.Tags) != 2 || a.Tags[0] != "Team" || a.Tags[1] != "meeting" {
		t.Fatalf("unexpected tags: %v", a.Tags)
	}
	r := a.Recurrence
	if r == nil || r.Type != model.RecurrenceWeekly || r.Interval != 2 || r.EndDate.String() != "2024-06-30" {
		t.Fatalf("unexpected recurrence: %+v", r)
	}
	if len(r.DaysOfWeek) != 2 || r.DaysOfWeek[0] != 2 || r.DaysOfWeek[1] != 4 {
		t.Fatalf("unexpected weekdays: %v", r.DaysOfWeek)
	}

	req := a.Request()
	if req.Title != a.Title || req.Recurrence != a.Recurrence {
		t.Fatalf("request does not mirror args: %+v", req)
	}
}

func TestParseAddDefaultsAndRelativeDates(t *testing.T) {
	cases := []struct {
		in  string
		due string
	}{
		{"add buy milk", ""},
		{"add buy milk due:today", "2024-03-10"},
		{"add buy milk due:tomorrow", "2024-03-11"},
		{"add buy milk due:fri", "2024-03-15"},
		{"add buy milk due:sunday", "2024-03-17"},
	}
	for _, tc := range cases {
		cmd, err := ParseAt(tc.in, today)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if cmd.Add.DueDate.String() != tc.due {
			t.Fatalf("%q due = %q, want %q", tc.in, cmd.Add.DueDate, tc.due)
		}
		if cmd.Add.Priority != model.PriorityMedium || cmd.Add.Recurrence != nil || cmd.Add.Title != "buy milk" {
			t.Fatalf("%q unexpected defaults: %+v", tc.in, cmd.Add)
		}
	}
}

func TestParseAddKeepsUnknownColonWordsInTitle(t *testing.T) {
	cmd, err := ParseAt("add read re:invent notes", today)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Add.Title != "read re:invent notes" {
		t.Fatalf("unexpected title %q", cmd.Add.Title)
	}
}

func TestParseAddRejectsBadInput(t *testing.T) {
	cases := []string{
		"add",
		"add due:today",
		"add x due:2024-13-01",
		"add x at:25:00",
		"add x p:someday",
		"add x every:hourly",
		"add x every:daily/0",
		"add x until:2024-05-01",
		"add x every:weekly on:funday",
	}
	for _, in := range cases {
		_, err := ParseAt(in, today)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseViewGoalCheck(t *testing.T) {
	cmd, err := ParseAt("view project side hustle", today)
	if err != nil {
		t.Fatalf("parse view: %v", err)
	}
	if cmd.View.View != tasks.ViewByProject || cmd.View.Project != "side hustle" {
		t.Fatalf("unexpected view args: %+v", cmd.View)
	}
	if _, err := ParseAt("view today work", today); err == nil {
		t.Fatal("expected project to be rejected for today view")
	}

	cmd, err = ParseAt("goal Morning run weekly", today)
	if err != nil || cmd.Goal.Name != "Morning run" || cmd.Goal.Frequency != model.FrequencyWeekly {
		t.Fatalf("unexpected goal args: %+v err=%v", cmd.Goal, err)
	}
	cmd, err = ParseAt("goal Read", today)
	if err != nil || cmd.Goal.Name != "Read" || cmd.Goal.Frequency != model.FrequencyDaily {
		t.Fatalf("unexpected default goal args: %+v err=%v", cmd.Goal, err)
	}

	cmd, err = ParseAt("check Morning run 2024-03-08", today)
	if err != nil || cmd.Check.Goal != "Morning run" || cmd.Check.Date.String() != "2024-03-08" {
		t.Fatalf("unexpected check args: %+v err=%v", cmd.Check, err)
	}
	cmd, err = ParseAt("check Read", today)
	if err != nil || cmd.Check.Date != today {
		t.Fatalf("check should default to today: %+v err=%v", cmd.Check, err)
	}
}

func TestParseEmptyAndUnknown(t *testing.T) {
	var ce *CommandError
	if _, err := ParseAt("  / ", today); !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
		t.Fatalf("expected empty input error, got %v", err)
	}
	if _, err := ParseAt("/unknown do x", today); !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if _, err := ParseAt("done", today); !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
		t.Fatalf("expected invalid argument error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := ParseAt("/add write docs", today)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "write docs" {
				t.Fatalf("unexpected title: %q", a.Title)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}

	cmd, _ = ParseAt("delete abc", today)
	res, err = Execute(cmd, Handlers{
		Done:   func(TargetArgs) (Result, error) { return Result{Message: "done"}, nil },
		Delete: func(a TargetArgs) (Result, error) { return Result{Message: "deleted " + a.Target}, nil },
	})
	if err != nil || res.Message != "deleted abc" {
		t.Fatalf("unexpected delete dispatch: %+v err=%v", res, err)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	for _, in := range []string{"view all", "reopen abc", "notify on", "rename a to b"} {
		cmd, err := ParseAt(in, today)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		_, err = Execute(cmd, Handlers{})
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
			t.Fatalf("%q: expected missing handler error, got %v", in, err)
		}
	}
}

func TestParseRename(t *testing.T) {
	cmd, err := ParseAt("rename morning run to Evening run", today)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Rename.Goal != "morning run" || cmd.Rename.Name != "Evening run" {
		t.Fatalf("unexpected rename args: %+v", cmd.Rename)
	}

	for _, in := range []string{"rename Read", "rename to Books", "rename Read to", "rename"} {
		_, err := ParseAt(in, today)
		var cmdErr *CommandError
		if !errors.As(err, &cmdErr) || cmdErr.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}
