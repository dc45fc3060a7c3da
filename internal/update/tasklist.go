package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/tasks"
	"github.com/sandeepkv93/tasktrack/internal/views"
	"go.uber.org/zap"
)

func (m Model) handleTaskKey(msg tea.KeyMsg) Model {
	k := m.Keys
	for v, b := range map[tasks.View]key.Binding{
		tasks.ViewToday:      k.Today,
		tasks.ViewUpcoming:   k.Upcoming,
		tasks.ViewByProject:  k.ByProject,
		tasks.ViewByPriority: k.ByPriority,
		tasks.ViewAll:        k.All,
	} {
		if key.Matches(msg, b) {
			m.switchView(v)
			return m
		}
	}

	switch {
	case key.Matches(msg, k.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, k.Down):
		if m.Cursor < len(m.visibleTasks())-1 {
			m.Cursor++
		}
	case key.Matches(msg, k.Complete):
		if t, ok := m.selectedTask(); ok {
			m.completeTask(t.ID)
		}
	case key.Matches(msg, k.Delete):
		if t, ok := m.selectedTask(); ok {
			m.deleteTask(t.ID)
		}
	case key.Matches(msg, k.Project):
		if m.CurrentView == tasks.ViewByProject {
			m.Project = nextProject(m.deps.Tasks.Projects(), m.Project)
			m.Cursor = 0
		}
	}
	return m
}

// nextProject cycles "", p1, p2, ... and back to "" (all projects).
func nextProject(projects []string, current string) string {
	if current == "" {
		if len(projects) == 0 {
			return ""
		}
		return projects[0]
	}
	for i, p := range projects {
		if p == current && i+1 < len(projects) {
			return projects[i+1]
		}
	}
	return ""
}

func (m Model) visibleTasks() []model.Task {
	return m.deps.Tasks.View(m.CurrentView, m.Project)
}

func (m Model) selectedTask() (model.Task, bool) {
	list := m.visibleTasks()
	if m.Cursor < 0 || m.Cursor >= len(list) {
		return model.Task{}, false
	}
	return list[m.Cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visibleTasks())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m *Model) completeTask(id string) {
	res, ok, err := m.deps.Tasks.Complete(m.ctx, id)
	if err != nil {
		m.setError(err)
		return
	}
	if !ok {
		m.setStatus("task no longer exists")
		return
	}
	m.log.Debug("task completed", zap.String("task_id", id))
	text := fmt.Sprintf("completed: %s", res.Completed.Title)
	if res.Next != nil {
		text += fmt.Sprintf(" (next on %s)", res.Next.DueDate)
	}
	m.setStatus(text)
	m.clampCursor()
}

func (m *Model) deleteTask(id string) {
	ok, err := m.deps.Tasks.Delete(m.ctx, id)
	if err != nil {
		m.setError(err)
		return
	}
	if ok {
		m.setStatus("task deleted")
	}
	m.clampCursor()
}

func (m Model) renderTabs() string {
	counts := tasks.CountByView(m.deps.Tasks.Snapshot(), m.today())
	tabs := make([]views.TabData, 0, len(tasks.Views))
	for i, v := range tasks.Views {
		tabs = append(tabs, views.TabData{
			Label:  v.Label(),
			Key:    fmt.Sprintf("%d", i+1),
			Count:  counts[v],
			Active: v == m.CurrentView,
		})
	}
	return views.RenderTabs(tabs)
}

func (m Model) renderTaskList() string {
	today := m.today()
	list := m.visibleTasks()
	items := make([]views.TaskItemData, 0, len(list))
	for _, t := range list {
		items = append(items, views.TaskItemData{
			ID:       t.ID,
			Title:    t.Title,
			Priority: string(t.Priority),
			Due:      formatDue(t),
			Project:  t.Project,
			Overdue:  t.HasDueDate() && t.DueDate.Before(today),
			DueToday: t.HasDueDate() && t.DueDate.Equal(today),
			Repeats:  t.Recurrence != nil,
		})
	}
	return views.RenderTaskList(views.TaskListData{
		Title:    m.CurrentView.Label(),
		Project:  m.Project,
		Items:    items,
		Selected: m.Cursor,
	})
}

func (m Model) renderSelectedTask() string {
	t, ok := m.selectedTask()
	if !ok {
		return views.RenderTaskDetail(views.TaskDetailData{})
	}
	data := views.TaskDetailData{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Due:         formatDue(t),
		Project:     t.Project,
		Tags:        t.Tags,
	}
	if t.Recurrence != nil {
		data.Recurrence = t.Recurrence.Describe()
		if t.HasDueDate() {
			for _, d := range t.Recurrence.Preview(t.DueDate, 3) {
				data.Upcoming = append(data.Upcoming, d.String())
			}
		}
	}
	return views.RenderTaskDetail(data)
}

func formatDue(t model.Task) string {
	if !t.HasDueDate() {
		return ""
	}
	if t.DueTime != "" {
		return t.DueDate.String() + " " + t.DueTime
	}
	return t.DueDate.String()
}
