package update

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasktrack/internal/calendar"
	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/views"
)

var errGoalsUnavailable = errors.New("goals need the sqlite storage driver")

func (m Model) handleCalendarKey(msg tea.KeyMsg) Model {
	k := m.Keys
	switch {
	case key.Matches(msg, k.Mode):
		if m.Calendar.Mode == calendar.ModeWeekly {
			m.Calendar.Mode = calendar.ModeDaily
		} else {
			m.Calendar.Mode = calendar.ModeWeekly
		}
		m.rebuildGrid()
	case key.Matches(msg, k.PrevGoal):
		if m.Calendar.Index > 0 {
			m.Calendar.Index--
			m.selectGoalMode()
			m.rebuildGrid()
		}
	case key.Matches(msg, k.NextGoal):
		if m.Calendar.Index < len(m.Calendar.Goals)-1 {
			m.Calendar.Index++
			m.selectGoalMode()
			m.rebuildGrid()
		}
	case key.Matches(msg, k.CheckGoal):
		m.toggleTodayCheck()
	}
	return m
}

// reloadCalendar refreshes the goal list and rebuilds the grid.
func (m *Model) reloadCalendar() {
	m.Calendar.Err = ""
	if m.deps.Goals == nil {
		m.Calendar.Err = errGoalsUnavailable.Error()
		return
	}
	goals, err := m.deps.Goals.List(m.ctx)
	if err != nil {
		m.Calendar.Err = err.Error()
		return
	}
	m.Calendar.Goals = goals
	if m.Calendar.Index >= len(goals) {
		m.Calendar.Index = 0
	}
	m.selectGoalMode()
	m.rebuildGrid()
}

func (m *Model) selectGoalMode() {
	if g, ok := m.currentGoal(); ok {
		m.Calendar.Mode = calendar.ModeFor(g.Frequency)
	}
}

func (m *Model) rebuildGrid() {
	g, ok := m.currentGoal()
	if !ok || m.deps.Goals == nil {
		m.Calendar.Grid = calendar.Grid{}
		return
	}
	grid, err := m.deps.Goals.CalendarMode(m.ctx, g, m.settings.CalendarWeeks, m.Calendar.Mode)
	if err != nil {
		m.Calendar.Err = err.Error()
		return
	}
	summary, err := m.deps.Goals.Summary(m.ctx, m.today())
	if err != nil {
		m.Calendar.Err = err.Error()
		return
	}
	m.Calendar.Grid = grid
	m.Calendar.Summary = summary
	m.Calendar.Err = ""
}

func (m Model) currentGoal() (model.Goal, bool) {
	if m.Calendar.Index < 0 || m.Calendar.Index >= len(m.Calendar.Goals) {
		return model.Goal{}, false
	}
	return m.Calendar.Goals[m.Calendar.Index], true
}

func (m *Model) toggleTodayCheck() {
	g, ok := m.currentGoal()
	if !ok || m.deps.Goals == nil {
		return
	}
	checked, err := m.deps.Goals.Toggle(m.ctx, g.ID, m.today())
	if err != nil {
		m.setError(err)
		return
	}
	if checked {
		m.setStatus(fmt.Sprintf("%s checked for %s", g.Name, m.today()))
	} else {
		m.setStatus(fmt.Sprintf("%s unchecked for %s", g.Name, m.today()))
	}
	m.rebuildGrid()
}

func (m Model) renderCalendar() string {
	c := m.Calendar
	data := views.CalendarData{Mode: string(c.Mode), GoalIndex: c.Index, GoalCount: len(c.Goals)}
	switch {
	case c.Err != "":
		data.Message = "error: " + c.Err
		return views.RenderCalendar(data)
	case len(c.Goals) == 0:
		data.Message = "no goals yet, try: /goal Read daily"
		return views.RenderCalendar(data)
	}
	g, _ := m.currentGoal()
	data.GoalName = g.Name
	data.Summary = fmt.Sprintf("%d active, %d done today", c.Summary.ActiveGoals, c.Summary.CompletedToday)

	for _, row := range c.Grid.Rows {
		r := views.CalendarRowData{Label: row.MonthLabel, Cells: make([]views.CellState, 0, len(row.Days))}
		for _, d := range row.Days {
			switch {
			case d.IsPadding():
				r.Cells = append(r.Cells, views.CellPadding)
			case d.Completed:
				r.Cells = append(r.Cells, views.CellDone)
			default:
				r.Cells = append(r.Cells, views.CellEmpty)
			}
		}
		data.Rows = append(data.Rows, r)
	}
	for _, w := range c.Grid.Weeks {
		data.Weeks = append(data.Weeks, views.CalendarWeekData{
			Label:     w.MonthLabel,
			Range:     fmt.Sprintf("%s..%s", w.WeekStart, w.WeekEnd),
			Completed: w.DaysCompleted,
			Total:     w.TotalDays,
		})
	}
	return views.RenderCalendar(data)
}
