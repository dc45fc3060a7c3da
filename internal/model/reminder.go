package model

import (
	"errors"
	"fmt"
)

// Reminder is the daily nudge handed to whatever delivers notifications.
type Reminder struct {
	Date          Date
	OverdueCount  int
	DueTodayCount int
}

func (r Reminder) Validate() error {
	if r.Date.IsZero() {
		return errors.New("model: reminder date is required")
	}
	if r.OverdueCount < 0 || r.DueTodayCount < 0 {
		return errors.New("model: reminder counts must not be negative")
	}
	return nil
}

func (r Reminder) Message() string {
	switch {
	case r.OverdueCount > 0 && r.DueTodayCount > 0:
		return fmt.Sprintf("%d overdue, %d due today", r.OverdueCount, r.DueTodayCount)
	case r.OverdueCount > 0:
		return fmt.Sprintf("%d overdue", r.OverdueCount)
	default:
		return fmt.Sprintf("%d due today", r.DueTodayCount)
	}
}
