package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TabData struct {
	Label  string
	Key    string
	Count  int
	Active bool
}

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("7"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
)

func RenderTabs(tabs []TabData) string {
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := fmt.Sprintf("%s %s (%d)", t.Key, t.Label, t.Count)
		if t.Active {
			parts = append(parts, activeTabStyle.Render(label))
			continue
		}
		parts = append(parts, tabStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

type TaskItemData struct {
	ID       string
	Title    string
	Priority string
	Due      string
	Project  string
	Overdue  bool
	DueToday bool
	Repeats  bool
}

type TaskListData struct {
	Title    string
	Project  string
	Items    []TaskItemData
	Selected int
}

var (
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	todayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func RenderTaskList(data TaskListData) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(data.Title))
	if data.Project != "" {
		b.WriteString(" / " + data.Project)
	}
	b.WriteString(":\n")
	if len(data.Items) == 0 {
		b.WriteString(mutedStyle.Render("  (nothing here)"))
		return b.String()
	}

	for i, item := range data.Items {
		cursor := " "
		if i == data.Selected {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s %s", cursor, priorityBadge(item.Priority), item.Title)
		if item.Repeats {
			line += " ↻"
		}
		if item.Due != "" {
			due := "due:" + item.Due
			switch {
			case item.Overdue:
				due = overdueStyle.Render(due)
			case item.DueToday:
				due = todayStyle.Render(due)
			}
			line += " " + due
		}
		if item.Project != "" && data.Project == "" {
			line += mutedStyle.Render(" @" + item.Project)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func priorityBadge(p string) string {
	switch p {
	case "urgent":
		return "[!!]"
	case "high":
		return "[! ]"
	case "low":
		return "[ .]"
	default:
		return "[  ]"
	}
}

type SummaryData struct {
	Total          int
	DueToday       int
	Overdue        int
	CompletedToday int
}

func RenderSummary(s SummaryData) string {
	return fmt.Sprintf("open %d | due today %d | overdue %d | done today %d", s.Total, s.DueToday, s.Overdue, s.CompletedToday)
}

type TaskDetailData struct {
	ID          string
	Title       string
	Description string
	Status      string
	Priority    string
	Due         string
	Project     string
	Tags        []string
	Recurrence  string
	Upcoming    []string
}

func RenderTaskDetail(data TaskDetailData) string {
	if strings.TrimSpace(data.ID) == "" {
		return "details:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("details:\n")
	b.WriteString(fmt.Sprintf("id: %s\n", shortID(data.ID)))
	b.WriteString(fmt.Sprintf("title: %s\n", data.Title))
	b.WriteString(fmt.Sprintf("status: %s | priority: %s\n", data.Status, data.Priority))
	if data.Due != "" {
		b.WriteString(fmt.Sprintf("due: %s\n", data.Due))
	}
	if data.Project != "" {
		b.WriteString(fmt.Sprintf("project: %s\n", data.Project))
	}
	if len(data.Tags) > 0 {
		b.WriteString("tags: #" + strings.Join(data.Tags, " #") + "\n")
	}
	if data.Recurrence != "" {
		b.WriteString(fmt.Sprintf("repeats: %s\n", data.Recurrence))
		if len(data.Upcoming) > 0 {
			b.WriteString("next: " + strings.Join(data.Upcoming, ", ") + "\n")
		}
	}
	if data.Description != "" {
		b.WriteString("\n" + data.Description)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// CellState is how a calendar cell is drawn.
type CellState int

const (
	CellPadding CellState = iota
	CellEmpty
	CellDone
)

type CalendarRowData struct {
	Label string
	Cells []CellState
}

type CalendarWeekData struct {
	Label     string
	Range     string
	Completed int
	Total     int
}

type CalendarData struct {
	GoalName  string
	GoalIndex int
	GoalCount int
	Mode      string
	Rows      []CalendarRowData
	Weeks     []CalendarWeekData
	Summary   string
	Message   string
}

var (
	doneCell  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("■")
	emptyCell = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("□")
)

func RenderCalendar(data CalendarData) string {
	var b strings.Builder
	b.WriteString("goals:\n")
	if data.Message != "" {
		b.WriteString(data.Message)
		return b.String()
	}
	b.WriteString(fmt.Sprintf("%s (%d/%d) | mode: %s\n", data.GoalName, data.GoalIndex+1, data.GoalCount, data.Mode))
	if data.Summary != "" {
		b.WriteString(mutedStyle.Render(data.Summary) + "\n")
	}
	b.WriteString("actions: [h/l]goal [w]daily/weekly [space]check today\n\n")

	if data.Mode == "weekly" {
		if len(data.Weeks) == 0 {
			b.WriteString(mutedStyle.Render("(no full weeks in range)"))
			return b.String()
		}
		for _, w := range data.Weeks {
			mark := emptyCell
			if w.Completed > 0 {
				mark = doneCell
			}
			b.WriteString(fmt.Sprintf("%-3s %s %s %d/%d\n", w.Label, w.Range, mark, w.Completed, w.Total))
		}
		return strings.TrimSuffix(b.String(), "\n")
	}

	b.WriteString("    S M T W T F S\n")
	for _, row := range data.Rows {
		b.WriteString(fmt.Sprintf("%-3s", row.Label))
		for _, c := range row.Cells {
			switch c {
			case CellDone:
				b.WriteString(" " + doneCell)
			case CellEmpty:
				b.WriteString(" " + emptyCell)
			default:
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return "command:\n" + input
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("[%s] %s", strings.ToUpper(level), body)
}

type HelpPanelData struct {
	CurrentView string
	Markdown    string
	HelpView    string
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n\n%s",
		strings.ToLower(data.CurrentView),
		RenderMarkdown(data.Markdown),
		data.HelpView,
	)
}
