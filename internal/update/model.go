package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/tasktrack/internal/calendar"
	"github.com/sandeepkv93/tasktrack/internal/goals"
	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/scheduler"
	"github.com/sandeepkv93/tasktrack/internal/storage"
	"github.com/sandeepkv93/tasktrack/internal/tasks"
	"go.uber.org/zap"
)

// Screen is the top-level page. Task views live on ScreenTasks.
type Screen string

const (
	ScreenTasks    Screen = "tasks"
	ScreenCalendar Screen = "calendar"
)

// TaskService is what the UI needs from the task collection.
type TaskService interface {
	tasks.Repository
	FindByPrefix(prefix string) (model.Task, bool)
	Refresh() tasks.Summary
}

type GoalService interface {
	Create(ctx context.Context, name string, freq model.Frequency) (model.Goal, error)
	List(ctx context.Context) ([]model.Goal, error)
	Find(ctx context.Context, name string) (model.Goal, error)
	Check(ctx context.Context, goalID string, date model.Date) error
	Toggle(ctx context.Context, goalID string, date model.Date) (bool, error)
	CalendarMode(ctx context.Context, g model.Goal, weeks int, mode calendar.Mode) (calendar.Grid, error)
	Update(ctx context.Context, goalID string, patch goals.Patch) (model.Goal, error)
	Summary(ctx context.Context, today model.Date) (model.GoalSummary, error)
}

type AppStateSaver interface {
	SaveAppState(ctx context.Context, state storage.AppState) error
}

type Deps struct {
	Tasks     TaskService
	Goals     GoalService
	State     AppStateSaver
	Gate      *tasks.ReminderGate
	Scheduler *scheduler.Engine
	Logger    *zap.Logger
	Now       func() time.Time
}

type Settings struct {
	InitialView   tasks.View
	ReminderHour  int
	CalendarWeeks int
	// RemindersOff forces the gate off without touching the saved
	// notify on|off preference.
	RemindersOff bool
}

type StatusBar struct {
	Text    string
	IsError bool
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type PaletteState struct {
	Active bool
	Input  string
}

type CalendarState struct {
	Goals   []model.Goal
	Index   int
	Mode    calendar.Mode
	Grid    calendar.Grid
	Summary model.GoalSummary
	Err     string
}

type Model struct {
	Screen        Screen
	CurrentView   tasks.View
	Project       string
	Cursor        int
	Calendar      CalendarState
	Palette       PaletteState
	HelpVisible   bool
	Status        StatusBar
	Notifications []Notification
	Keys          keyMap
	Quitting      bool
	LastError     error

	deps         Deps
	settings     Settings
	notifyPref   bool
	ctx          context.Context
	log          *zap.Logger
	now          func() time.Time
	commandInput textinput.Model
	helpModel    help.Model
}

const dailyCheckID = "daily-check"

type SwitchViewMsg struct {
	View tasks.View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// ReminderDueMsg asks the model to evaluate the reminder gate. Events that
// come off the scheduler channel re-arm the wait.
type ReminderDueMsg struct {
	Event     scheduler.Event
	Scheduled bool
}

func NewModel(deps Deps, settings Settings) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if !settings.InitialView.IsValid() {
		settings.InitialView = tasks.ViewToday
	}
	if settings.CalendarWeeks <= 0 {
		settings.CalendarWeeks = 12
	}

	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "add pay rent due:tomorrow p:high"
	input.CharLimit = 256
	input.Width = 56

	pref := deps.Gate != nil && deps.Gate.Enabled()
	if deps.Gate != nil && settings.RemindersOff {
		deps.Gate.SetEnabled(false)
	}

	return Model{
		Screen:       ScreenTasks,
		CurrentView:  settings.InitialView,
		Calendar:     CalendarState{Mode: calendar.ModeDaily},
		Keys:         defaultKeyMap(),
		deps:         deps,
		settings:     settings,
		notifyPref:   pref,
		ctx:          context.Background(),
		log:          deps.Logger,
		now:          deps.Now,
		commandInput: input,
		helpModel:    help.New(),
	}
}

func (m Model) today() model.Date {
	return model.DateOf(m.now())
}

func (m *Model) notify(title, body, level string) {
	m.Notifications = append(m.Notifications, Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now(),
	})
	if len(m.Notifications) > 20 {
		m.Notifications = m.Notifications[len(m.Notifications)-20:]
	}
}

func (m *Model) setStatus(text string) {
	m.Status = StatusBar{Text: text}
}

func (m *Model) setError(err error) {
	m.LastError = err
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	}
}
