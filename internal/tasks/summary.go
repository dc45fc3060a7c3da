package tasks

import (
	"github.com/sandeepkv93/tasktrack/internal/model"
)

// Summary is derived from the task collection and never edited directly.
type Summary struct {
	TotalTasks          int
	DueTodayCount       int
	OverdueCount        int
	CompletedTodayCount int
}

// Summarize counts active, due-today, overdue and completed-today tasks.
// CompletedAt is read in its own location; callers that care about a zone
// store completion times in it.
func Summarize(tasks []model.Task, today model.Date) Summary {
	var s Summary
	for _, t := range tasks {
		if t.Status == model.StatusCompleted && t.CompletedAt != nil && model.DateOf(*t.CompletedAt).Equal(today) {
			s.CompletedTodayCount++
		}
		if !t.IsActive() {
			continue
		}
		s.TotalTasks++
		if !t.HasDueDate() {
			continue
		}
		switch {
		case t.DueDate.Equal(today):
			s.DueTodayCount++
		case t.DueDate.Before(today):
			s.OverdueCount++
		}
	}
	return s
}
