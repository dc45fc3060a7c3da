package tasks

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

var ErrInvalidView = errors.New("tasks: invalid view")

type View string

const (
	ViewToday      View = "today"
	ViewUpcoming   View = "upcoming"
	ViewByProject  View = "by_project"
	ViewByPriority View = "by_priority"
	ViewAll        View = "all"
)

// Views lists every view in tab order.
var Views = []View{ViewToday, ViewUpcoming, ViewByProject, ViewByPriority, ViewAll}

func (v View) IsValid() bool {
	switch v {
	case ViewToday, ViewUpcoming, ViewByProject, ViewByPriority, ViewAll:
		return true
	default:
		return false
	}
}

func ParseView(s string) (View, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch normalized {
	case "project":
		normalized = string(ViewByProject)
	case "priority":
		normalized = string(ViewByPriority)
	}
	v := View(normalized)
	if !v.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidView, s)
	}
	return v, nil
}

func (v View) Label() string {
	switch v {
	case ViewToday:
		return "Today"
	case ViewUpcoming:
		return "Upcoming"
	case ViewByProject:
		return "Projects"
	case ViewByPriority:
		return "Priority"
	case ViewAll:
		return "All"
	default:
		return string(v)
	}
}

// FilterTasks returns the active tasks visible in view, ordered for display.
// project only applies to ViewByProject; empty means every project.
func FilterTasks(tasks []model.Task, view View, today model.Date, project string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsActive() {
			continue
		}
		switch view {
		case ViewToday:
			if !t.HasDueDate() || t.DueDate.After(today) {
				continue
			}
		case ViewUpcoming:
			if !t.HasDueDate() || t.DueDate.Before(today) {
				continue
			}
		case ViewByProject:
			if project != "" && t.Project != project {
				continue
			}
		}
		out = append(out, t)
	}

	if view == ViewByPriority {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		return compareDue(out[i], out[j]) < 0
	})
	return out
}

// compareDue orders dated tasks by due date ahead of undated ones, and undated
// ones by priority.
func compareDue(a, b model.Task) int {
	switch {
	case a.HasDueDate() && b.HasDueDate():
		return strings.Compare(a.DueDate.String(), b.DueDate.String())
	case a.HasDueDate():
		return -1
	case b.HasDueDate():
		return 1
	default:
		return a.Priority.Rank() - b.Priority.Rank()
	}
}

// Projects returns the distinct non-empty project names in lexicographic order.
func Projects(tasks []model.Task) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, t := range tasks {
		if t.Project == "" || seen[t.Project] {
			continue
		}
		seen[t.Project] = true
		out = append(out, t.Project)
	}
	sort.Strings(out)
	return out
}

// CountByView reports how many tasks each view would show.
func CountByView(tasks []model.Task, today model.Date) map[View]int {
	out := make(map[View]int, len(Views))
	for _, v := range Views {
		out[v] = len(FilterTasks(tasks, v, today, ""))
	}
	return out
}
