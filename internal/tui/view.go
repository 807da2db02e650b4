package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ewhitmore/focal/internal/grid"
	"github.com/ewhitmore/focal/internal/lifecycle"
	"github.com/ewhitmore/focal/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("focal · " + m.day))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(hourStyle.Render("Nothing scheduled for this day."))
		b.WriteString("\n")
	}

	unscheduledHeader := false
	for i, task := range m.tasks {
		if !task.HasSlot() && !unscheduledHeader {
			b.WriteString("\n")
			b.WriteString(hourStyle.Render("Unscheduled"))
			b.WriteString("\n")
			unscheduledHeader = true
		}
		b.WriteString(m.renderTask(task, i == m.cursor))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return docStyle.Render(b.String())
}

func (m Model) renderTask(task models.Task, selected bool) string {
	line := taskLine(task)

	style := styleFor(task)
	if selected {
		style = selectedStyle
	}

	gutter := "        "
	if task.HasSlot() {
		gutter = hourStyle.Render(task.StartTime + "   ")
	}
	return gutter + style.Render(line)
}

func taskLine(task models.Task) string {
	mark := "[ ]"
	switch task.Status {
	case models.StatusDone:
		mark = "[x]"
	case models.StatusInProgress:
		mark = "[~]"
	case models.StatusBlocked:
		mark = "[!]"
	}

	line := fmt.Sprintf("%s %s", mark, task.Title)
	if task.HasSlot() {
		if dur, err := grid.DurationMinutes(task.StartTime, task.EndTime); err == nil {
			line += fmt.Sprintf(" (%dm)", dur)
		}
	}
	if progress := lifecycle.DisplayProgress(task); progress > 0 && task.Status != models.StatusDone {
		line += fmt.Sprintf(" %d%%", progress)
	}
	if task.Status == models.StatusBlocked {
		line += " blocked"
	}
	return line
}

func styleFor(task models.Task) lipgloss.Style {
	switch task.Status {
	case models.StatusDone:
		return doneStyle
	case models.StatusBlocked:
		return blockedStyle
	case models.StatusInProgress:
		return inProgressStyle
	default:
		return lipgloss.NewStyle()
	}
}
