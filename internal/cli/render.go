package cli

import (
	"fmt"
	"io"

	"taskboard/internal/export"
	"taskboard/internal/models/task"
	"taskboard/internal/viewmodel"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type palette struct {
	border    lipgloss.Style
	header    lipgloss.Style
	overdue   lipgloss.Style
	completed lipgloss.Style
	muted     lipgloss.Style
}

func paletteFor(theme viewmodel.Theme) palette {
	if theme == viewmodel.ThemeDark {
		return palette{
			border:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
			overdue:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
			completed: lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("114")),
			muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		}
	}
	return palette{
		border:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("236")),
		overdue:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160")),
		completed: lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("28")),
		muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

func themeLabel(theme viewmodel.Theme) string {
	return "Theme: " + string(theme)
}

func renderTasks(w io.Writer, store *viewmodel.Store, tasks []task.Task, showHistory bool) {
	p := paletteFor(store.Theme())

	if len(tasks) == 0 {
		fmt.Fprintln(w, p.muted.Render("No tasks found."))
		return
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		due := t.DueDate.String()
		if t.DueDate.IsZero() {
			due = export.NoDueDate
		}

		status := string(t.Status)
		title := t.Title
		switch {
		case t.IsCompleted():
			title = p.completed.Render(title)
		case store.IsOverdue(t):
			due = p.overdue.Render(due + " (overdue)")
		}

		rows = append(rows, []string{
			t.ID.String(),
			title,
			t.Description,
			due,
			string(t.Priority),
			string(t.Category),
			status,
		})
	}

	headers := []string{"ID", "Title", "Description", "Due Date", "Priority", "Category", "Status"}
	for i, h := range headers {
		headers[i] = p.header.Render(h)
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.border).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, tbl.Render())

	if showHistory {
		for _, t := range tasks {
			fmt.Fprintf(w, "%s %s\n", p.header.Render("#"+t.ID.String()), t.Title)
			for _, h := range t.History {
				fmt.Fprintf(w, "  %s  %s\n", p.muted.Render(h.Timestamp.Display()), h.Action)
			}
		}
	}
}
