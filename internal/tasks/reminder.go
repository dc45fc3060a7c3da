package tasks

import (
	"sync"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

// ReminderGate decides whether the daily reminder is due. It fires at most
// once per calendar day, keyed on the last date it was evaluated.
type ReminderGate struct {
	mu          sync.Mutex
	enabled     bool
	lastChecked model.Date
}

func NewReminderGate(enabled bool, lastChecked model.Date) *ReminderGate {
	return &ReminderGate{enabled: enabled, lastChecked: lastChecked}
}

// Check evaluates the summary for today. The day is marked as checked even
// when nothing is pending, so a task added later that day does not trigger a
// second reminder.
func (g *ReminderGate) Check(today model.Date, s Summary) (model.Reminder, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.enabled || today.IsZero() || g.lastChecked.Equal(today) {
		return model.Reminder{}, false
	}
	g.lastChecked = today
	if s.OverdueCount+s.DueTodayCount == 0 {
		return model.Reminder{}, false
	}
	return model.Reminder{
		Date:          today,
		OverdueCount:  s.OverdueCount,
		DueTodayCount: s.DueTodayCount,
	}, true
}

func (g *ReminderGate) LastChecked() model.Date {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastChecked
}

func (g *ReminderGate) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled
}

func (g *ReminderGate) SetEnabled(enabled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.enabled = enabled
}
