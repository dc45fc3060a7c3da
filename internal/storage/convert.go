package storage

import (
	"strconv"
	"strings"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

func taskFromModel(t model.Task, position int) Task {
	out := Task{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		DueDate:      t.DueDate,
		DueTime:      t.DueTime,
		Project:      t.Project,
		ParentTaskID: t.ParentTaskID,
		Position:     position,
		Tags:         append([]string(nil), t.Tags...),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if t.CompletedAt != nil {
		c := *t.CompletedAt
		out.CompletedAt = &c
	}
	if t.Recurrence != nil {
		out.Recurrence = &RecurrenceRule{
			TaskID:        t.ID,
			RuleType:      string(t.Recurrence.Type),
			IntervalValue: t.Recurrence.Interval,
			DaysOfWeek:    joinDays(t.Recurrence.DaysOfWeek),
			DayOfMonth:    t.Recurrence.DayOfMonth,
			EndDate:       t.Recurrence.EndDate,
		}
	}
	return out
}

func (t Task) toModel() model.Task {
	out := model.Task{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       model.Status(t.Status),
		Priority:     model.Priority(t.Priority),
		DueDate:      t.DueDate,
		DueTime:      t.DueTime,
		Project:      t.Project,
		ParentTaskID: t.ParentTaskID,
		Tags:         append([]string{}, t.Tags...),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		CompletedAt:  t.CompletedAt,
	}
	if t.Recurrence != nil {
		r := model.RecurrencePattern{
			Type:       model.RecurrenceType(t.Recurrence.RuleType),
			Interval:   t.Recurrence.IntervalValue,
			DaysOfWeek: splitDays(t.Recurrence.DaysOfWeek),
			DayOfMonth: t.Recurrence.DayOfMonth,
			EndDate:    t.Recurrence.EndDate,
		}.Normalize()
		out.Recurrence = &r
	}
	return out
}

// GoalFromModel maps a domain goal onto its row.
func GoalFromModel(g model.Goal) Goal {
	return Goal{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Frequency:   string(g.Frequency),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
		ArchivedAt:  g.ArchivedAt,
	}
}

func (g Goal) ToModel() model.Goal {
	return model.Goal{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Frequency:   model.Frequency(g.Frequency),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
		ArchivedAt:  g.ArchivedAt,
	}
}

func (p Progress) toModel() model.GoalProgress {
	return model.GoalProgress{
		GoalID:       p.GoalID,
		Date:         p.Date,
		Completed:    p.Completed,
		AutoDetected: p.AutoDetected,
		Value:        p.Value,
	}
}

func ProgressFromModel(p model.GoalProgress) Progress {
	return Progress{
		GoalID:       p.GoalID,
		Date:         p.Date,
		Completed:    p.Completed,
		AutoDetected: p.AutoDetected,
		Value:        p.Value,
	}
}

func joinDays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ",")
}

func splitDays(raw string) []int {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	out := make([]int, 0, 7)
	for _, part := range strings.Split(raw, ",") {
		if v, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			out = append(out, v)
		}
	}
	return out
}
