package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasktrack/internal/commands"
	"github.com/sandeepkv93/tasktrack/internal/goals"
	"go.uber.org/zap"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePalette()
		m.setStatus("command palette closed")
		return m
	case tea.KeyEnter:
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	m.commandInput, _ = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m
}

func (m *Model) closePalette() {
	m.Palette = PaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()

	cmd, err := commands.ParseAt(raw, m.today())
	if err != nil {
		m.setError(err)
		return m
	}
	res, err := commands.Execute(cmd, m.paletteHandlers())
	if err != nil {
		m.log.Debug("palette command failed", zap.String("input", raw), zap.Error(err))
		m.setError(err)
		return m
	}
	m.LastError = nil
	m.setStatus(res.Message)
	m.clampCursor()
	return m
}

// paletteHandlers binds each command to the model. Handlers run inside
// Update and mutate m through the pointer.
func (m *Model) paletteHandlers() commands.Handlers {
	return commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			t, err := m.deps.Tasks.Create(m.ctx, a.Request())
			if err != nil {
				return commands.Result{}, err
			}
			msg := "added: " + t.Title
			if t.HasDueDate() {
				msg += fmt.Sprintf(" (due %s)", t.DueDate)
			}
			return commands.Result{Message: msg}, nil
		},
		Done: func(a commands.TargetArgs) (commands.Result, error) {
			t, ok := m.deps.Tasks.FindByPrefix(a.Target)
			if !ok {
				return commands.Result{}, commands.NotFound("task", a.Target)
			}
			res, _, err := m.deps.Tasks.Complete(m.ctx, t.ID)
			if err != nil {
				return commands.Result{}, err
			}
			msg := "completed: " + res.Completed.Title
			if res.Next != nil {
				msg += fmt.Sprintf(" (next on %s)", res.Next.DueDate)
			}
			return commands.Result{Message: msg}, nil
		},
		Delete: func(a commands.TargetArgs) (commands.Result, error) {
			t, ok := m.deps.Tasks.FindByPrefix(a.Target)
			if !ok {
				return commands.Result{}, commands.NotFound("task", a.Target)
			}
			if _, err := m.deps.Tasks.Delete(m.ctx, t.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "deleted: " + t.Title}, nil
		},
		Reopen: func(a commands.TargetArgs) (commands.Result, error) {
			t, ok := m.deps.Tasks.FindByPrefix(a.Target)
			if !ok {
				return commands.Result{}, commands.NotFound("task", a.Target)
			}
			if _, _, err := m.deps.Tasks.Reopen(m.ctx, t.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "reopened: " + t.Title}, nil
		},
		View: func(a commands.ViewArgs) (commands.Result, error) {
			m.switchView(a.View)
			m.Project = a.Project
			label := a.View.Label()
			if a.Project != "" {
				label += " / " + a.Project
			}
			return commands.Result{Message: "view: " + label}, nil
		},
		Goal: func(a commands.GoalArgs) (commands.Result, error) {
			if m.deps.Goals == nil {
				return commands.Result{}, errGoalsUnavailable
			}
			g, err := m.deps.Goals.Create(m.ctx, a.Name, a.Frequency)
			if err != nil {
				return commands.Result{}, err
			}
			if m.Screen == ScreenCalendar {
				m.reloadCalendar()
			}
			return commands.Result{Message: fmt.Sprintf("goal added: %s (%s)", g.Name, g.Frequency)}, nil
		},
		Check: func(a commands.CheckArgs) (commands.Result, error) {
			if m.deps.Goals == nil {
				return commands.Result{}, errGoalsUnavailable
			}
			g, err := m.deps.Goals.Find(m.ctx, a.Goal)
			if errors.Is(err, goals.ErrNotFound) {
				return commands.Result{}, commands.NotFound("goal", a.Goal)
			}
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.deps.Goals.Check(m.ctx, g.ID, a.Date); err != nil {
				return commands.Result{}, err
			}
			if m.Screen == ScreenCalendar {
				m.rebuildGrid()
			}
			return commands.Result{Message: fmt.Sprintf("%s checked for %s", g.Name, a.Date)}, nil
		},
		Rename: func(a commands.RenameArgs) (commands.Result, error) {
			if m.deps.Goals == nil {
				return commands.Result{}, errGoalsUnavailable
			}
			g, err := m.deps.Goals.Find(m.ctx, a.Goal)
			if errors.Is(err, goals.ErrNotFound) {
				return commands.Result{}, commands.NotFound("goal", a.Goal)
			}
			if err != nil {
				return commands.Result{}, err
			}
			renamed, err := m.deps.Goals.Update(m.ctx, g.ID, goals.Patch{Name: &a.Name})
			if err != nil {
				return commands.Result{}, err
			}
			if m.Screen == ScreenCalendar {
				m.reloadCalendar()
			}
			return commands.Result{Message: fmt.Sprintf("goal renamed: %s -> %s", g.Name, renamed.Name)}, nil
		},
		Notify: func(a commands.NotifyArgs) (commands.Result, error) {
			m.setNotifications(a.Enabled)
			switch {
			case a.Enabled && m.settings.RemindersOff:
				return commands.Result{Message: "reminders on (disabled by config)"}, nil
			case a.Enabled:
				return commands.Result{Message: "reminders on"}, nil
			}
			return commands.Result{Message: "reminders off"}, nil
		},
	}
}
