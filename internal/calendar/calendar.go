// Package calendar turns a goal's sparse activity log into week-aligned grids
// for the habit heatmap. Weeks start on Sunday.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

var ErrInvalidMode = errors.New("calendar: invalid grid mode")

type Mode string

const (
	ModeDaily  Mode = "daily"
	ModeWeekly Mode = "weekly"
)

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeDaily, ModeWeekly:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// ModeFor picks the grid for a goal's frequency. Only weekly goals get the
// roll-up; monthly goals are shown per day.
func ModeFor(f model.Frequency) Mode {
	if f == model.FrequencyWeekly {
		return ModeWeekly
	}
	return ModeDaily
}

const daysPerWeek = 7

type WeekRow struct {
	Days       []model.DayData
	MonthLabel string
}

type WeekBlock struct {
	model.WeekData
	MonthLabel string
}

// Grid is the rendered shape for one goal over one date range. Rows is set
// in daily mode, Weeks in weekly mode.
type Grid struct {
	GoalID string
	Mode   Mode
	Start  model.Date
	End    model.Date
	Days   []model.DayData
	Rows   []WeekRow
	Weeks  []WeekBlock
}

// Range returns the inclusive window ending today and reaching back weeks
// whole weeks.
func Range(today model.Date, weeks int) (model.Date, model.Date) {
	if weeks < 0 {
		weeks = 0
	}
	return today.AddDays(-weeks * daysPerWeek), today
}

// BuildDays emits one DayData per calendar day from start through end. Days
// without a record default to not completed. Records match by exact date;
// the first record for a date wins.
func BuildDays(start, end model.Date, records []model.GoalProgress) []model.DayData {
	if end.Before(start) {
		return []model.DayData{}
	}
	byDate := make(map[model.Date]model.GoalProgress, len(records))
	for _, r := range records {
		if _, dup := byDate[r.Date]; dup {
			continue
		}
		byDate[r.Date] = r
	}

	out := make([]model.DayData, 0, start.DaysUntil(end)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		day := model.DayData{Date: d}
		if r, ok := byDate[d]; ok {
			day.Completed = r.Completed
			if r.Value != nil {
				v := *r.Value
				day.Value = &v
			}
		}
		out = append(out, day)
	}
	return out
}

// DailyGrid lays days out in Sunday-first rows, padding the first and last
// rows with empty cells.
func DailyGrid(days []model.DayData) []WeekRow {
	if len(days) == 0 {
		return []WeekRow{}
	}
	lead := int(days[0].Date.Weekday())
	cells := make([]model.DayData, lead, lead+len(days)+daysPerWeek)
	cells = append(cells, days...)
	if rem := len(cells) % daysPerWeek; rem != 0 {
		cells = append(cells, make([]model.DayData, daysPerWeek-rem)...)
	}

	rows := make([]WeekRow, 0, len(cells)/daysPerWeek)
	var prev model.Date
	for i := 0; i < len(cells); i += daysPerWeek {
		row := WeekRow{Days: cells[i : i+daysPerWeek : i+daysPerWeek]}
		first := firstDated(row.Days)
		if len(rows) == 0 || !sameMonth(first, prev) {
			row.MonthLabel = monthLabel(first)
		}
		prev = first
		rows = append(rows, row)
	}
	return rows
}

// WeeklyGrid rolls days up into Sunday-started weeks. Days before the first
// Sunday are dropped; a short trailing week is kept.
func WeeklyGrid(days []model.DayData) []WeekBlock {
	offset := -1
	for i, d := range days {
		if d.Date.Weekday() == time.Sunday {
			offset = i
			break
		}
	}
	if offset < 0 {
		return []WeekBlock{}
	}

	rest := days[offset:]
	out := make([]WeekBlock, 0, (len(rest)+daysPerWeek-1)/daysPerWeek)
	var prev model.Date
	for i := 0; i < len(rest); i += daysPerWeek {
		end := i + daysPerWeek
		if end > len(rest) {
			end = len(rest)
		}
		chunk := rest[i:end]
		block := WeekBlock{WeekData: model.WeekData{
			WeekStart: chunk[0].Date,
			WeekEnd:   chunk[len(chunk)-1].Date,
			TotalDays: len(chunk),
		}}
		for _, d := range chunk {
			if d.Completed {
				block.DaysCompleted++
			}
		}
		block.Completed = block.DaysCompleted > 0
		if len(out) == 0 || !sameMonth(block.WeekStart, prev) {
			block.MonthLabel = monthLabel(block.WeekStart)
		}
		prev = block.WeekStart
		out = append(out, block)
	}
	return out
}

// ProgressSource supplies a goal's activity records for an inclusive range.
type ProgressSource interface {
	ProgressRange(ctx context.Context, goalID string, start, end model.Date) ([]model.GoalProgress, error)
}

// Aggregator builds grids from a ProgressSource. It keeps no state between
// calls.
type Aggregator struct {
	source ProgressSource
}

func NewAggregator(source ProgressSource) *Aggregator {
	return &Aggregator{source: source}
}

func (a *Aggregator) Build(ctx context.Context, goalID string, today model.Date, weeks int, mode Mode) (Grid, error) {
	if mode != ModeDaily && mode != ModeWeekly {
		return Grid{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	start, end := Range(today, weeks)
	var records []model.GoalProgress
	if a.source != nil {
		var err error
		records, err = a.source.ProgressRange(ctx, goalID, start, end)
		if err != nil {
			return Grid{}, fmt.Errorf("load progress for goal %s: %w", goalID, err)
		}
	}
	return BuildGrid(goalID, start, end, records, mode), nil
}

// BuildGrid is Build without the source lookup.
func BuildGrid(goalID string, start, end model.Date, records []model.GoalProgress, mode Mode) Grid {
	g := Grid{GoalID: goalID, Mode: mode, Start: start, End: end}
	g.Days = BuildDays(start, end, records)
	if mode == ModeWeekly {
		g.Weeks = WeeklyGrid(g.Days)
	} else {
		g.Rows = DailyGrid(g.Days)
	}
	return g
}

func firstDated(days []model.DayData) model.Date {
	for _, d := range days {
		if !d.IsPadding() {
			return d.Date
		}
	}
	return model.Date{}
}

func sameMonth(a, b model.Date) bool {
	return a.Year == b.Year && a.Month == b.Month
}

func monthLabel(d model.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Month.String()[:3]
}
