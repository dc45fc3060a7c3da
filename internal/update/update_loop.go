package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasktrack/internal/scheduler"
	"github.com/sandeepkv93/tasktrack/internal/tasks"
	"github.com/sandeepkv93/tasktrack/internal/views"
)

// Init arms the daily check and evaluates the reminder once at startup.
func (m Model) Init() tea.Cmd {
	startup := func() tea.Msg {
		return ReminderDueMsg{Event: scheduler.Event{ID: "startup", Kind: scheduler.KindDailyCheck, At: m.now()}}
	}
	if m.deps.Scheduler == nil {
		return startup
	}
	m.scheduleDailyCheck()
	return tea.Batch(startup, waitForEventCmd(m.deps.Scheduler.C()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}
		return m.handleKey(typed)
	case SwitchViewMsg:
		if typed.View.IsValid() {
			m.switchView(typed.View)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.setError(typed.Err)
		if typed.Err != nil {
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case ReminderDueMsg:
		m.runReminderCheck()
		if typed.Scheduled && m.deps.Scheduler != nil {
			m.scheduleDailyCheck()
			return m, waitForEventCmd(m.deps.Scheduler.C())
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.Keys
	switch {
	case key.Matches(msg, k.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case key.Matches(msg, k.Palette):
		m.Palette = PaletteState{Active: true}
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.setStatus("command palette active")
		return m, nil
	case key.Matches(msg, k.Calendar):
		if m.Screen == ScreenCalendar {
			m.Screen = ScreenTasks
			return m, nil
		}
		m.Screen = ScreenCalendar
		m.reloadCalendar()
		return m, nil
	case key.Matches(msg, k.Notify):
		m.toggleNotifications()
		return m, nil
	}

	if m.Screen == ScreenCalendar {
		return m.handleCalendarKey(msg), nil
	}
	return m.handleTaskKey(msg), nil
}

func (m *Model) switchView(v tasks.View) {
	if m.CurrentView != v {
		m.Project = ""
	}
	m.CurrentView = v
	m.Screen = ScreenTasks
	m.Cursor = 0
	m.persistAppState()
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		status = "status: " + m.Status.Text
	}

	var left, right string
	tabs := ""
	switch m.Screen {
	case ScreenCalendar:
		left = m.renderCalendar()
	default:
		tabs = m.renderTabs()
		left = m.renderTaskList()
		right = m.renderSelectedTask()
	}
	if m.Palette.Active {
		right = strings.TrimSpace(views.RenderCommandPalette(true, m.commandInput.View()) + "\n\n" + right)
	}
	if m.HelpVisible {
		right = strings.TrimSpace(right + "\n\n" + m.renderHelp())
	}

	notification := ""
	if n := len(m.Notifications); n > 0 {
		last := m.Notifications[n-1]
		notification = views.RenderNotification(last.Level, last.Body)
	}

	summary := m.deps.Tasks.Summary()
	return views.RenderApp(views.AppData{
		Header: fmt.Sprintf("tasktrack | %s | %s", m.today(), views.RenderSummary(views.SummaryData{
			Total:          summary.TotalTasks,
			DueToday:       summary.DueTodayCount,
			Overdue:        summary.OverdueCount,
			CompletedToday: summary.CompletedTodayCount,
		})),
		Tabs:         tabs,
		LeftPane:     left,
		RightPane:    right,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: notification,
		Footer:       m.helpModel.View(m.helpKeys()),
	})
}
