package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"taskpilot/internal/models"
)

func (a *App) cmdAdd(ctx context.Context) {
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	description, err := GetSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	priority, err := GetSimpleText(a.reader, "Priority (low/medium/high/urgent, default medium)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	created, err := a.tasks.Create(ctx, models.TaskDraft{
		Title:       title,
		Description: description,
		Priority:    models.Priority(priority),
	})
	if err != nil {
		a.handleAPIError(ctx, err)
		return
	}
	fmt.Fprintf(a.out, "Created %s\n", created.ID)
	a.renderCurrent()
}

func (a *App) cmdEdit(ctx context.Context, id string) {
	if id == "" {
		fmt.Fprintln(a.out, "Usage: edit <id>")
		return
	}

	title, err := GetSimpleText(a.reader, "New title (empty keeps current)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	description, err := GetSimpleText(a.reader, "New description (empty keeps current)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	var patch models.TaskPatch
	if title != "" {
		patch.Title = &title
	}
	if description != "" {
		patch.Description = &description
	}
	if patch.Title == nil && patch.Description == nil {
		fmt.Fprintln(a.out, "Nothing to change.")
		return
	}

	if _, err := a.tasks.Update(ctx, id, patch); err != nil {
		a.handleAPIError(ctx, err)
		return
	}
	a.renderCurrent()
}

func (a *App) cmdDelete(ctx context.Context, id string) {
	if id == "" {
		fmt.Fprintln(a.out, "Usage: del <id>")
		return
	}
	if err := a.tasks.Delete(ctx, id); err != nil {
		a.handleAPIError(ctx, err)
		return
	}
	fmt.Fprintf(a.out, "Deleted %s\n", id)
	a.renderCurrent()
}

func (a *App) cmdToggle(ctx context.Context, id string) {
	if id == "" {
		fmt.Fprintln(a.out, "Usage: toggle <id>")
		return
	}
	if _, err := a.tasks.Toggle(ctx, id); err != nil {
		a.handleAPIError(ctx, err)
		return
	}
	a.renderCurrent()
}

func (a *App) cmdSearch(term string) {
	a.search = term
	a.renderCurrent()
}

func (a *App) cmdFilter(arg string) {
	status, ok := models.ParseStatusFilter(arg)
	if !ok {
		fmt.Fprintln(a.out, "Usage: filter all|active|completed")
		return
	}
	a.status = status
	a.renderCurrent()
}

func (a *App) cmdView(arg string) {
	view, ok := models.ParseViewMode(arg)
	if !ok {
		fmt.Fprintln(a.out, "Usage: view list|grid")
		return
	}
	a.view = view
	a.renderCurrent()
}

func (a *App) cmdRefresh(ctx context.Context) {
	if _, err := a.tasks.List(ctx); err != nil {
		a.handleAPIError(ctx, err)
		return
	}
	a.renderCurrent()
}

// renderCurrent projects the collection through the active search term and
// status filter and renders it in the active view mode.
func (a *App) renderCurrent() {
	renderTasks(a.out, a.tasks.Filter(a.search, a.status), a.view)
}

// renderTasks is a pure renderer: it writes the given tasks to w without
// touching any state.
func renderTasks(w io.Writer, tasks []models.Task, view models.ViewMode) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}

	switch view {
	case models.ViewGrid:
		for i, t := range tasks {
			fmt.Fprintf(w, "+----------------------------------------+\n")
			fmt.Fprintf(w, "| %s %-36s |\n", checkbox(t.Completed), truncate(t.Title, 36))
			if t.Description != "" {
				fmt.Fprintf(w, "|   %-36s |\n", truncate(t.Description, 36))
			}
			fmt.Fprintf(w, "|   %-8s %-27s |\n", t.Priority, t.ID)
			if i == len(tasks)-1 {
				fmt.Fprintf(w, "+----------------------------------------+\n")
			}
		}
	default:
		for _, t := range tasks {
			fmt.Fprintf(w, "%s [%-6s] %s  %s\n", checkbox(t.Completed), t.Priority, t.Title, t.ID)
			if t.Description != "" {
				fmt.Fprintf(w, "          %s\n", t.Description)
			}
		}
	}
	fmt.Fprintf(w, "%d task(s)\n", len(tasks))
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n-3]) + "..."
}
