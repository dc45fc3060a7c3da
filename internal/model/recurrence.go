package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

var ErrInvalidRecurrenceType = errors.New("model: invalid recurrence type")

func (t RecurrenceType) IsValid() bool {
	switch t {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	default:
		return false
	}
}

func ParseRecurrenceType(s string) (RecurrenceType, error) {
	t := RecurrenceType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRecurrenceType, s)
	}
	return t, nil
}

// RecurrencePattern describes how a task repeats. DaysOfWeek (0 = Sunday) is
// kept for display and editing only; DayOfMonth is reserved.
type RecurrencePattern struct {
	Type       RecurrenceType `json:"type"`
	Interval   int            `json:"interval"`
	DaysOfWeek []int          `json:"daysOfWeek,omitempty"`
	DayOfMonth int            `json:"dayOfMonth,omitempty"`
	EndDate    Date           `json:"endDate"`
}

// Normalize clamps Interval to at least 1 and cleans DaysOfWeek. It is applied
// wherever a pattern is built or edited.
func (r RecurrencePattern) Normalize() RecurrencePattern {
	out := r.Clone()
	if out.Interval < 1 {
		out.Interval = 1
	}
	if len(out.DaysOfWeek) > 0 {
		seen := make(map[int]bool, len(out.DaysOfWeek))
		days := make([]int, 0, len(out.DaysOfWeek))
		for _, d := range out.DaysOfWeek {
			if d < 0 || d > 6 || seen[d] {
				continue
			}
			seen[d] = true
			days = append(days, d)
		}
		sort.Ints(days)
		out.DaysOfWeek = days
	}
	return out
}

func (r RecurrencePattern) Validate() error {
	if !r.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRecurrenceType, r.Type)
	}
	return nil
}

func (r RecurrencePattern) Clone() RecurrencePattern {
	out := r
	if r.DaysOfWeek != nil {
		out.DaysOfWeek = append([]int(nil), r.DaysOfWeek...)
	}
	return out
}

// NextOccurrence returns the date after due on which the series repeats.
// It reports false once the series has passed EndDate.
func NextOccurrence(due Date, r RecurrencePattern) (Date, bool) {
	interval := r.Interval
	if interval < 1 {
		interval = 1
	}

	var next Date
	switch r.Type {
	case RecurrenceDaily:
		next = due.AddDays(interval)
	case RecurrenceWeekly:
		next = due.AddDays(7 * interval)
	case RecurrenceMonthly:
		next = due.AddMonths(interval)
	case RecurrenceYearly:
		next = due.AddYears(interval)
	default:
		return Date{}, false
	}

	if !r.EndDate.IsZero() && next.After(r.EndDate) {
		return Date{}, false
	}
	return next, true
}

// Preview lists up to count occurrences following from.
func (r RecurrencePattern) Preview(from Date, count int) []Date {
	if count <= 0 {
		return []Date{}
	}
	out := make([]Date, 0, count)
	cursor := from
	for i := 0; i < count; i++ {
		next, ok := NextOccurrence(cursor, r)
		if !ok {
			break
		}
		out = append(out, next)
		cursor = next
	}
	return out
}

var weekdayShort = [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// ParseWeekday accepts "sun".."sat", full names, or digits 0-6.
func ParseWeekday(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= '0' && s[0] <= '6' {
		return int(s[0] - '0'), true
	}
	for i, name := range weekdayShort {
		if s == name || s == strings.ToLower(time.Weekday(i).String()) {
			return i, true
		}
	}
	return 0, false
}

func (r RecurrencePattern) Describe() string {
	interval := r.Interval
	if interval < 1 {
		interval = 1
	}
	unit := map[RecurrenceType]string{
		RecurrenceDaily:   "day",
		RecurrenceWeekly:  "week",
		RecurrenceMonthly: "month",
		RecurrenceYearly:  "year",
	}[r.Type]
	if unit == "" {
		return string(r.Type)
	}

	var b strings.Builder
	if interval == 1 {
		b.WriteString("every " + unit)
	} else {
		fmt.Fprintf(&b, "every %d %ss", interval, unit)
	}
	if r.Type == RecurrenceWeekly && len(r.DaysOfWeek) > 0 {
		names := make([]string, 0, len(r.DaysOfWeek))
		for _, d := range r.DaysOfWeek {
			if d >= 0 && d <= 6 {
				names = append(names, weekdayShort[d])
			}
		}
		b.WriteString(" on " + strings.Join(names, ","))
	}
	if !r.EndDate.IsZero() {
		b.WriteString(" until " + r.EndDate.String())
	}
	return b.String()
}
