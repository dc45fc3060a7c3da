package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/tasks"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeDelete Type = "delete"
	TypeReopen Type = "reopen"
	TypeView   Type = "view"
	TypeGoal   Type = "goal"
	TypeCheck  Type = "check"
	TypeNotify Type = "notify"
	TypeRename Type = "rename"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
	ErrCodeNotFound        ErrorCode = "not_found"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) *CommandError {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// AddArgs is a parsed quick-add line, ready to become a task.
type AddArgs struct {
	Title      string
	DueDate    model.Date
	DueTime    string
	Priority   model.Priority
	Project    string
	Tags       []string
	Recurrence *model.RecurrencePattern
}

func (a AddArgs) Request() tasks.CreateRequest {
	return tasks.CreateRequest{
		Title:      a.Title,
		Priority:   a.Priority,
		DueDate:    a.DueDate,
		DueTime:    a.DueTime,
		Project:    a.Project,
		Tags:       a.Tags,
		Recurrence: a.Recurrence,
	}
}

// TargetArgs names a task by id prefix.
type TargetArgs struct {
	Target string
}

type ViewArgs struct {
	View    tasks.View
	Project string
}

type GoalArgs struct {
	Name      string
	Frequency model.Frequency
}

type CheckArgs struct {
	Goal string
	Date model.Date
}

// RenameArgs renames the goal matching Goal to Name.
type RenameArgs struct {
	Goal string
	Name string
}

type NotifyArgs struct {
	Enabled bool
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Target *TargetArgs
	View   *ViewArgs
	Goal   *GoalArgs
	Check  *CheckArgs
	Notify *NotifyArgs
	Rename *RenameArgs
}

// Parse reads a palette line relative to the current local date.
func Parse(input string) (Command, error) {
	return ParseAt(input, model.DateOf(time.Now()))
}

// ParseAt is Parse with an explicit "today" for relative dates.
func ParseAt(input string, today model.Date) (Command, error) {
	raw := strings.TrimSpace(input)
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args, today)
	case TypeDone, TypeDelete, TypeReopen:
		return parseTarget(input, Type(head), args)
	case TypeView:
		return parseView(input, args)
	case TypeGoal:
		return parseGoal(input, args)
	case TypeCheck:
		return parseCheck(input, args, today)
	case TypeNotify:
		return parseNotify(input, args)
	case TypeRename:
		return parseRename(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string, today model.Date) (Command, error) {
	out := AddArgs{Priority: model.PriorityMedium}
	var (
		title      []string
		recurrence *model.RecurrencePattern
		until      model.Date
		days       []int
	)
	for _, arg := range args {
		key, value, ok := splitOption(arg)
		if !ok {
			if strings.HasPrefix(arg, "#") && len(arg) > 1 {
				out.Tags = append(out.Tags, arg[1:])
				continue
			}
			title = append(title, arg)
			continue
		}
		switch key {
		case "due":
			d, err := parseDay(value, today)
			if err != nil {
				return Command{}, err
			}
			out.DueDate = d
		case "at":
			if _, err := time.Parse("15:04", value); err != nil {
				return Command{}, invalid("invalid time %q, want HH:MM", value)
			}
			out.DueTime = value
		case "p", "priority":
			p, err := model.ParsePriority(value)
			if err != nil {
				return Command{}, invalid("invalid priority %q", value)
			}
			out.Priority = p
		case "project":
			out.Project = value
		case "every":
			r, err := parseEvery(value)
			if err != nil {
				return Command{}, err
			}
			recurrence = &r
		case "until":
			d, err := parseDay(value, today)
			if err != nil {
				return Command{}, err
			}
			until = d
		case "on":
			for _, name := range strings.Split(value, ",") {
				wd, ok := model.ParseWeekday(name)
				if !ok {
					return Command{}, invalid("invalid weekday %q", name)
				}
				days = append(days, wd)
			}
		}
	}

	out.Title = strings.TrimSpace(strings.Join(title, " "))
	if out.Title == "" {
		return Command{}, invalid("add requires a title")
	}
	if recurrence == nil && (!until.IsZero() || len(days) > 0) {
		return Command{}, invalid("until: and on: need every:")
	}
	if recurrence != nil {
		recurrence.EndDate = until
		recurrence.DaysOfWeek = days
		r := recurrence.Normalize()
		out.Recurrence = &r
	}
	out.Tags = model.NormalizeTags(out.Tags)
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

// optionKeys are the recognised key:value tokens of the add command. Other
// words containing a colon stay in the title.
var optionKeys = map[string]bool{
	"due": true, "at": true, "p": true, "priority": true, "project": true,
	"every": true, "until": true, "on": true,
}

func splitOption(arg string) (string, string, bool) {
	key, value, found := strings.Cut(arg, ":")
	if !found {
		return "", "", false
	}
	key = strings.ToLower(key)
	if !optionKeys[key] || value == "" {
		return "", "", false
	}
	return key, value, true
}

// parseEvery reads "weekly" or "weekly/2".
func parseEvery(value string) (model.RecurrencePattern, error) {
	name, step, hasStep := strings.Cut(value, "/")
	typ, err := model.ParseRecurrenceType(name)
	if err != nil {
		return model.RecurrencePattern{}, invalid("invalid recurrence %q", name)
	}
	interval := 1
	if hasStep {
		n, err := strconv.Atoi(step)
		if err != nil || n < 1 {
			return model.RecurrencePattern{}, invalid("invalid recurrence interval %q", step)
		}
		interval = n
	}
	return model.RecurrencePattern{Type: typ, Interval: interval}, nil
}

// parseDay accepts an ISO date, today, tomorrow, or a weekday name meaning
// the next such day after today.
func parseDay(value string, today model.Date) (model.Date, error) {
	switch strings.ToLower(value) {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	}
	if wd, ok := model.ParseWeekday(value); ok && len(value) > 1 {
		ahead := (wd - int(today.Weekday()) + 7) % 7
		if ahead == 0 {
			ahead = 7
		}
		return today.AddDays(ahead), nil
	}
	d, err := model.ParseDate(value)
	if err != nil {
		return model.Date{}, invalid("invalid date %q, want YYYY-MM-DD", value)
	}
	return d, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("%s requires one task id", typ)
	}
	return Command{Type: typ, Raw: raw, Target: &TargetArgs{Target: args[0]}}, nil
}

func parseView(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("view requires a name")
	}
	v, err := tasks.ParseView(args[0])
	if err != nil {
		return Command{}, invalid("unknown view %q", args[0])
	}
	project := strings.TrimSpace(strings.Join(args[1:], " "))
	if project != "" && v != tasks.ViewByProject {
		return Command{}, invalid("only by_project takes a project")
	}
	return Command{Type: TypeView, Raw: raw, View: &ViewArgs{View: v, Project: project}}, nil
}

func parseGoal(raw string, args []string) (Command, error) {
	freq := model.FrequencyDaily
	if n := len(args); n > 1 {
		if f, err := model.ParseFrequency(args[n-1]); err == nil {
			freq = f
			args = args[:n-1]
		}
	}
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return Command{}, invalid("goal requires a name")
	}
	return Command{Type: TypeGoal, Raw: raw, Goal: &GoalArgs{Name: name, Frequency: freq}}, nil
}

func parseCheck(raw string, args []string, today model.Date) (Command, error) {
	day := today
	if n := len(args); n > 1 {
		if d, err := parseDay(args[n-1], today); err == nil {
			day = d
			args = args[:n-1]
		}
	}
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return Command{}, invalid("check requires a goal")
	}
	return Command{Type: TypeCheck, Raw: raw, Check: &CheckArgs{Goal: name, Date: day}}, nil
}

func parseNotify(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("notify requires on or off")
	}
	switch strings.ToLower(args[0]) {
	case "on":
		return Command{Type: TypeNotify, Raw: raw, Notify: &NotifyArgs{Enabled: true}}, nil
	case "off":
		return Command{Type: TypeNotify, Raw: raw, Notify: &NotifyArgs{Enabled: false}}, nil
	default:
		return Command{}, invalid("notify requires on or off, got %q", args[0])
	}
}

// parseRename reads "rename <goal> to <new name>".
func parseRename(raw string, args []string) (Command, error) {
	for i, a := range args {
		if !strings.EqualFold(a, "to") {
			continue
		}
		goal := strings.TrimSpace(strings.Join(args[:i], " "))
		name := strings.TrimSpace(strings.Join(args[i+1:], " "))
		if goal == "" || name == "" {
			break
		}
		return Command{Type: TypeRename, Raw: raw, Rename: &RenameArgs{Goal: goal, Name: name}}, nil
	}
	return Command{}, invalid("rename requires <goal> to <new name>")
}
