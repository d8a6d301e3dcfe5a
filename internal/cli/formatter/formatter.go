// Package formatter renders sync results and project state for the
// terminal.
package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ganttsync/internal/domain"
	"github.com/alexanderramin/ganttsync/internal/sync"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorDim    = lipgloss.Color("#928374")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
)

// RenderResult formats a reconciliation result summary.
func RenderResult(shortID string, r *sync.Result) string {
	var b strings.Builder
	if r.Success {
		b.WriteString(StyleGreen.Render(fmt.Sprintf("✓ %s synchronized", shortID)))
	} else {
		b.WriteString(StyleRed.Render(fmt.Sprintf("✗ %s sync incomplete", shortID)))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  tasks: %d created, %d removed\n", r.Tasks.Created, r.Tasks.Removed)
	fmt.Fprintf(&b, "  resources: %d synced, %d skipped\n", r.Resources.Synced, r.Resources.Skipped)
	fmt.Fprintf(&b, "  dependencies: %d created, %d removed, %d skipped\n",
		r.Dependencies.Created, r.Dependencies.Removed,
		r.Dependencies.SkippedMissing+r.Dependencies.SkippedExisting+r.Dependencies.SkippedSummaryLink)
	fmt.Fprintf(&b, "  assignments: %d applied, %d skipped\n", r.Assignments.Applied, r.Assignments.Skipped)
	if r.CalendarsKept+r.CalendarsRemoved > 0 {
		fmt.Fprintf(&b, "  calendars: %d kept, %d removed\n", r.CalendarsKept, r.CalendarsRemoved)
	}
	if len(r.Resources.IDMapping) > 0 {
		b.WriteString(StyleHeader.Render("  resource id mapping:"))
		b.WriteString("\n")
		for tempID, durable := range r.Resources.IDMapping {
			fmt.Fprintf(&b, "    %s -> %s\n", tempID, durable)
		}
	}
	for _, msg := range r.Resources.Errors {
		b.WriteString(StyleYellow.Render("  ! " + msg))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderTree formats the task outline, indented by nesting level.
func RenderTree(p *domain.Project) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render(fmt.Sprintf("%s (%d tasks)", p.ShortID, len(p.Tasks))))
	b.WriteString("\n")
	for _, t := range p.Tasks {
		indent := strings.Repeat("  ", t.OutlineLevel)
		marker := "·"
		switch {
		case t.Milestone:
			marker = "◆"
		case len(p.Children(t)) > 0:
			marker = "▸"
		}
		line := fmt.Sprintf("%s%s %s", indent, marker, t.Name)
		if t.Completion > 0 {
			line += StyleDim.Render(fmt.Sprintf(" (%d%%)", int(t.Completion*100)))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// RenderCalendars formats both calendar sets.
func RenderCalendars(p *domain.Project) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render("base calendars"))
	b.WriteString("\n")
	for _, c := range p.BaseCalendars {
		fmt.Fprintf(&b, "  [%d] %s (kind %d)\n", c.ID, c.Name, c.Kind)
	}
	b.WriteString(StyleHeader.Render("derived calendars"))
	b.WriteString("\n")
	for _, c := range p.DerivedCalendars {
		base := "-"
		if c.Base != nil {
			base = c.Base.Name
		}
		fmt.Fprintf(&b, "  [%d] %s (base %s)\n", c.ID, c.Name, base)
	}
	return b.String()
}
