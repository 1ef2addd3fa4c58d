// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package display renders tasks and projects for the terminal.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pdiddy/task-tracker/internal/store"
	"github.com/pdiddy/task-tracker/pkg/types"
)

const (
	idWidth       = 5
	titleWidth    = 40
	priorityWidth = 8
	statusWidth   = 12
	roleWidth     = 16
	nameWidth     = 24
	countWidth    = 6
	columnWidth   = 30
)

var (
	primaryColor   = lipgloss.Color("#5FAFAF")
	secondaryColor = lipgloss.Color("#666666")
	successColor   = lipgloss.Color("#87AF87")
	warningColor   = lipgloss.Color("#D7AF5F")
	errorColor     = lipgloss.Color("#AF5F5F")
)

// Printer renders to one writer with styles matched to that writer's
// colour support. Output to files and pipes is plain text.
type Printer struct {
	w io.Writer

	header   lipgloss.Style
	subtle   lipgloss.Style
	cell     lipgloss.Style
	column   lipgloss.Style
	priority map[types.Priority]lipgloss.Style
	status   map[types.Status]lipgloss.Style
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	base := r.NewStyle()
	return &Printer{
		w:      w,
		header: base.Bold(true).Foreground(primaryColor),
		subtle: base.Foreground(secondaryColor),
		cell:   base,
		column: base.Border(lipgloss.RoundedBorder()).
			BorderForeground(secondaryColor).
			Padding(0, 1).
			Width(columnWidth),
		priority: map[types.Priority]lipgloss.Style{
			types.PriorityHigh:   base.Bold(true).Foreground(errorColor),
			types.PriorityMedium: base.Foreground(warningColor),
			types.PriorityLow:    base.Foreground(secondaryColor),
		},
		status: map[types.Status]lipgloss.Style{
			types.StatusTodo:       base.Foreground(secondaryColor),
			types.StatusInProgress: base.Foreground(warningColor),
			types.StatusCompleted:  base.Foreground(successColor),
		},
	}
}

// Truncate shortens s to maxLen columns, ending in "..." when cut. Below
// four columns a cut string is only dots.
func Truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if ansi.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", max(maxLen, 0))
	}
	return ansi.Truncate(s, maxLen, "...")
}

func (p *Printer) pad(style lipgloss.Style, s string, width int) string {
	return style.Width(width).Render(Truncate(s, width-1))
}

func (p *Printer) priorityCell(pr types.Priority) string {
	style, ok := p.priority[pr]
	if !ok {
		style = p.cell
	}
	return p.pad(style, string(pr), priorityWidth)
}

func (p *Printer) statusCell(st types.Status) string {
	style, ok := p.status[st]
	if !ok {
		style = p.cell
	}
	return p.pad(style, st.Label(), statusWidth)
}

func (p *Printer) roleCell(t types.Task) string {
	role := t.RoleName()
	if role == "" {
		return p.pad(p.subtle, "-", roleWidth)
	}
	return p.pad(p.cell, role, roleWidth)
}

func (p *Printer) line(cells ...string) {
	fmt.Fprintln(p.w, strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, cells...), " "))
}

func (p *Printer) rule(width int) {
	fmt.Fprintln(p.w, p.subtle.Render(strings.Repeat("-", width)))
}

// Candidates prints unsaved task candidates with their position.
func (p *Printer) Candidates(tasks []types.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(p.w, "No tasks found.")
		return
	}

	p.line(
		p.pad(p.header, "#", idWidth),
		p.pad(p.header, "Title", titleWidth),
		p.pad(p.header, "Priority", priorityWidth),
		p.pad(p.header, "Role", roleWidth),
		p.header.Render("Description"),
	)
	p.rule(idWidth + titleWidth + priorityWidth + roleWidth + 30)

	for i, t := range tasks {
		p.line(
			p.pad(p.cell, fmt.Sprint(i+1), idWidth),
			p.pad(p.cell, t.Title, titleWidth),
			p.priorityCell(t.Priority),
			p.roleCell(t),
			p.subtle.Render(Truncate(t.Description, 30)),
		)
	}

	fmt.Fprintf(p.w, "\n%d tasks\n", len(tasks))
}

// Tasks prints stored tasks as a table.
func (p *Printer) Tasks(tasks []types.StoredTask) {
	if len(tasks) == 0 {
		fmt.Fprintln(p.w, "No tasks found.")
		return
	}

	p.line(
		p.pad(p.header, "ID", idWidth),
		p.pad(p.header, "Title", titleWidth),
		p.pad(p.header, "Priority", priorityWidth),
		p.pad(p.header, "Status", statusWidth),
		p.header.Render("Role"),
	)
	p.rule(idWidth + titleWidth + priorityWidth + statusWidth + roleWidth)

	for _, t := range tasks {
		p.line(
			p.pad(p.cell, fmt.Sprint(t.ID), idWidth),
			p.pad(p.cell, t.Title, titleWidth),
			p.priorityCell(t.Priority),
			p.statusCell(t.Status),
			p.roleCell(t.Task),
		)
	}

	fmt.Fprintf(p.w, "\n%d tasks\n", len(tasks))
}

// Task prints one stored task with its full description.
func (p *Printer) Task(t types.StoredTask) {
	fmt.Fprintf(p.w, "%s %s\n", p.header.Render(fmt.Sprintf("#%d", t.ID)), t.Title)
	fmt.Fprintf(p.w, "  priority: %s\n", p.priority[t.Priority].Render(string(t.Priority)))
	fmt.Fprintf(p.w, "  status:   %s\n", p.status[t.Status].Render(t.Status.Label()))
	if role := t.RoleName(); role != "" {
		fmt.Fprintf(p.w, "  role:     %s\n", role)
	}
	fmt.Fprintf(p.w, "  updated:  %s\n", t.UpdatedAt.Format("2006-01-02 15:04"))
	if t.Description != "" {
		fmt.Fprintln(p.w)
		for _, l := range strings.Split(t.Description, "\n") {
			fmt.Fprintf(p.w, "  %s\n", l)
		}
	}
}

// Board prints tasks in one column per workflow step.
func (p *Printer) Board(tasks []types.StoredTask) {
	byStatus := make(map[types.Status][]types.StoredTask, len(types.Statuses))
	for _, t := range tasks {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	columns := make([]string, 0, len(types.Statuses))
	for _, st := range types.Statuses {
		var b strings.Builder
		fmt.Fprintf(&b, "%s (%d)\n", p.status[st].Bold(true).Render(strings.ToUpper(st.Label())), len(byStatus[st]))
		for _, t := range byStatus[st] {
			fmt.Fprintf(&b, "\n%s %s", p.subtle.Render(fmt.Sprintf("#%d", t.ID)), Truncate(t.Title, columnWidth-8))
			fmt.Fprintf(&b, "\n  %s", p.priority[t.Priority].Render(string(t.Priority)))
			if role := t.RoleName(); role != "" {
				fmt.Fprintf(&b, " %s", p.subtle.Render("@"+Truncate(role, columnWidth-14)))
			}
		}
		columns = append(columns, p.column.Render(b.String()))
	}

	fmt.Fprintln(p.w, lipgloss.JoinHorizontal(lipgloss.Top, columns...))
}

// ProjectSummary pairs a project with its task counts.
type ProjectSummary struct {
	types.Project
	Counts store.StatusCounts
}

// Projects prints projects with task counts per workflow step.
func (p *Printer) Projects(projects []ProjectSummary) {
	if len(projects) == 0 {
		fmt.Fprintln(p.w, "No projects found.")
		return
	}

	p.line(
		p.pad(p.header, "ID", idWidth),
		p.pad(p.header, "Name", nameWidth),
		p.pad(p.header, "Todo", countWidth),
		p.pad(p.header, "Doing", countWidth),
		p.pad(p.header, "Done", countWidth),
		p.header.Render("Description"),
	)
	p.rule(idWidth + nameWidth + 3*countWidth + 30)

	for _, pr := range projects {
		p.line(
			p.pad(p.cell, fmt.Sprint(pr.ID), idWidth),
			p.pad(p.cell, pr.Name, nameWidth),
			p.pad(p.status[types.StatusTodo], fmt.Sprint(pr.Counts.Todo), countWidth),
			p.pad(p.status[types.StatusInProgress], fmt.Sprint(pr.Counts.InProgress), countWidth),
			p.pad(p.status[types.StatusCompleted], fmt.Sprint(pr.Counts.Completed), countWidth),
			p.subtle.Render(Truncate(pr.Description, 30)),
		)
	}

	fmt.Fprintf(p.w, "\n%d projects\n", len(projects))
}
