package update

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Today      key.Binding
	Upcoming   key.Binding
	ByProject  key.Binding
	ByPriority key.Binding
	All        key.Binding
	Up         key.Binding
	Down       key.Binding
	Complete   key.Binding
	Delete     key.Binding
	Project    key.Binding
	Palette    key.Binding
	Calendar   key.Binding
	Mode       key.Binding
	PrevGoal   key.Binding
	NextGoal   key.Binding
	CheckGoal  key.Binding
	Notify     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Today:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "today")),
		Upcoming:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "upcoming")),
		ByProject:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "by project")),
		ByPriority: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "by priority")),
		All:        key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "all")),
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Complete:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "complete")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Project:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "next project")),
		Palette:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command")),
		Calendar:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "goals calendar")),
		Mode:       key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "daily/weekly")),
		PrevGoal:   key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "prev goal")),
		NextGoal:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "next goal")),
		CheckGoal:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "check today")),
		Notify:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "reminders on/off")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) helpKeys() helpKeyMap {
	k := m.Keys
	global := []key.Binding{k.Palette, k.Calendar, k.Notify, k.Help, k.Quit}
	var screen []key.Binding
	if m.Screen == ScreenCalendar {
		screen = []key.Binding{k.PrevGoal, k.NextGoal, k.Mode, k.CheckGoal}
	} else {
		screen = []key.Binding{k.Today, k.Upcoming, k.ByProject, k.ByPriority, k.All, k.Up, k.Down, k.Complete, k.Delete, k.Project}
	}
	return helpKeyMap{
		short: append(append([]key.Binding{}, screen...), global...),
		full:  [][]key.Binding{screen, global},
	}
}
