package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidFrequency = errors.New("model: invalid goal frequency")

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
	}
	return f, nil
}

type Goal struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Frequency   Frequency  `json:"frequency"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	ArchivedAt  *time.Time `json:"archivedAt,omitempty"`
}

// GoalProgress is one dated observation from the activity log.
type GoalProgress struct {
	GoalID       string `json:"goalId"`
	Date         Date   `json:"date"`
	Completed    bool   `json:"completed"`
	AutoDetected bool   `json:"autoDetected"`
	Value        *int   `json:"value,omitempty"`
}

// GoalSummary counts the active goals and how many of them were checked on
// a given day.
type GoalSummary struct {
	Date           Date `json:"date"`
	ActiveGoals    int  `json:"activeGoals"`
	CompletedToday int  `json:"completedToday"`
}

// DayData is one calendar cell. A zero Date marks a padding cell.
type DayData struct {
	Date      Date `json:"date"`
	Completed bool `json:"completed"`
	Value     *int `json:"value,omitempty"`
}

func (d DayData) IsPadding() bool {
	return d.Date.IsZero()
}

type WeekData struct {
	WeekStart     Date `json:"weekStart"`
	WeekEnd       Date `json:"weekEnd"`
	Completed     bool `json:"completed"`
	DaysCompleted int  `json:"daysCompleted"`
	TotalDays     int  `json:"totalDays"`
}
