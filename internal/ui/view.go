package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/faizmokh/eldlog/internal/logbook"
	"github.com/faizmokh/eldlog/internal/render"
)

// View renders the frame.
func (m Model) View() string {
	main := m.mainView()
	if m.sidebarOpen {
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", m.sidebarView())
	}

	var b strings.Builder
	b.WriteString(main)
	b.WriteString(m.footerView())
	return b.String()
}

func (m Model) mainView() string {
	var b strings.Builder

	header := "Driver's Daily Log  " + m.currentDate.Format("Monday, 02 January 2006")
	b.WriteString(m.theme.Title.Render(header))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", lipgloss.Width(header)))
	b.WriteString("\n\n")

	b.WriteString(m.theme.Grid(m.sheet.Grid, render.SheetRows(m.sheet)))
	b.WriteByte('\n')

	switch {
	case m.loading:
		b.WriteString("Loading...\n")
	case len(m.day.Entries) == 0:
		b.WriteString(m.theme.Muted.Render("(no entries)"))
		b.WriteByte('\n')
	default:
		for i, entry := range m.day.Entries {
			line := formatEntry(entry)
			if i == m.selected {
				b.WriteString(m.theme.Selected.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) sidebarView() string {
	var b strings.Builder
	b.WriteString(m.theme.Recap(m.sheet.Recap))
	b.WriteByte('\n')

	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		b.WriteString(m.theme.Muted.Render(label+":") + " " + value + "\n")
	}
	field("Driver", m.sheet.Title.DriverName)
	field("Carrier", m.sheet.Carrier.Name)
	field("Home terminal", m.sheet.Carrier.HomeTerminal)
	field("Truck", m.sheet.Carrier.Truck)
	field("Trailer", m.sheet.Carrier.Trailer)
	field("Miles", render.Miles(m.sheet.Carrier.MilesDriving)+" / "+render.Miles(m.sheet.Carrier.MilesTotal))
	if m.sheet.Route != (logbook.Route{}) {
		field("Route", m.sheet.Route.From+" -> "+m.sheet.Route.To)
	}

	return m.theme.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) footerView() string {
	var b strings.Builder

	if m.errorLine != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.Error.Render("! " + m.errorLine))
		b.WriteByte('\n')
	} else if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(m.statusLine)
		b.WriteByte('\n')
	}

	switch m.mode {
	case modeStatus, modeEdit:
		b.WriteString("\n")
		b.WriteString(m.inputLabel)
		b.WriteByte('\n')
		b.WriteString(m.input.View())
		b.WriteByte('\n')
	case modeConfirmDelete:
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Delete entry %d? (y/n, Esc to cancel)", m.editingIndex+1))
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteByte('\n')
	return b.String()
}

func formatEntry(entry logbook.Entry) string {
	var builder strings.Builder
	builder.Grow(48 + len(entry.Remarks) + len(entry.Location))

	end := "now  "
	switch {
	case entry.Open():
	case !entry.End.Before(logbook.StartOfDay(entry.Start).AddDate(0, 0, 1)):
		end = "24:00"
	default:
		end = entry.End.Format("15:04")
	}
	fmt.Fprintf(&builder, "%s-%s  %-21s", entry.Start.Format("15:04"), end, entry.Status.Label())

	if entry.Remarks != "" {
		builder.WriteByte(' ')
		builder.WriteString(entry.Remarks)
	}
	if entry.Location != "" {
		builder.WriteString(" @ ")
		builder.WriteString(entry.Location)
	}
	return strings.TrimRight(builder.String(), " ")
}
