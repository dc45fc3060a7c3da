package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasktrack/internal/scheduler"
	"github.com/sandeepkv93/tasktrack/internal/storage"
	"go.uber.org/zap"
)

// waitForEventCmd blocks on the scheduler channel. A closed channel ends the
// wait without a message.
func waitForEventCmd(ch <-chan scheduler.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev, Scheduled: true}
	}
}

// scheduleDailyCheck replaces any pending daily check with the next one.
func (m Model) scheduleDailyCheck() {
	s := m.deps.Scheduler
	if s == nil {
		return
	}
	s.Cancel(dailyCheckID)
	at := scheduler.NextDailyCheck(m.now(), m.settings.ReminderHour)
	if err := s.Schedule(scheduler.Event{ID: dailyCheckID, Kind: scheduler.KindDailyCheck, At: at}); err != nil {
		m.log.Warn("schedule daily check", zap.Error(err))
		return
	}
	m.log.Debug("daily check scheduled", zap.Time("at", at))
}

func (m *Model) runReminderCheck() {
	if m.deps.Gate == nil {
		return
	}
	summary := m.deps.Tasks.Refresh()
	before := m.deps.Gate.LastChecked()
	reminder, due := m.deps.Gate.Check(m.today(), summary)
	if due {
		m.notify("Tasks need attention", reminder.Message(), "warning")
		m.log.Info("reminder delivered",
			zap.Int("overdue", reminder.OverdueCount),
			zap.Int("due_today", reminder.DueTodayCount))
	}
	if !m.deps.Gate.LastChecked().Equal(before) {
		m.persistAppState()
	}
}

func (m *Model) toggleNotifications() {
	m.setNotifications(!m.notifyPref)
	switch {
	case m.notifyPref && m.settings.RemindersOff:
		m.setStatus("reminders on (disabled by config)")
	case m.notifyPref:
		m.setStatus("reminders on")
	default:
		m.setStatus("reminders off")
	}
}

// setNotifications records the user's preference. The gate follows it unless
// config switched reminders off.
func (m *Model) setNotifications(enabled bool) {
	m.notifyPref = enabled
	if m.deps.Gate == nil {
		return
	}
	m.deps.Gate.SetEnabled(enabled && !m.settings.RemindersOff)
	m.persistAppState()
	if m.deps.Gate.Enabled() {
		m.runReminderCheck()
	}
}

func (m *Model) persistAppState() {
	if m.deps.State == nil {
		return
	}
	state := storage.AppState{
		CurrentView:          string(m.CurrentView),
		NotificationsEnabled: m.notifyPref,
	}
	if m.deps.Gate != nil {
		state.LastReminderDate = m.deps.Gate.LastChecked()
	}
	if err := m.deps.State.SaveAppState(m.ctx, state); err != nil {
		m.log.Warn("save app state", zap.Error(err))
		m.setError(err)
	}
}
