package registryform

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/hospreg/hospreg/internal/domain/registry"
)

var (
	accentColor  = lipgloss.AdaptiveColor{Light: "#0B5CAD", Dark: "#54A0FF"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#8A8A8A"}
	borderColor  = lipgloss.AdaptiveColor{Light: "#C4C4C4", Dark: "#444444"}
	successColor = lipgloss.AdaptiveColor{Light: "#1E7F3C", Dark: "#4CD97B"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#FF6B6B"}

	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	sectionTitleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle        = lipgloss.NewStyle().Width(11).Foreground(mutedColor)
	helpStyle         = lipgloss.NewStyle().Foreground(mutedColor)

	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1).
			Width(52)
	sectionFocusedStyle = sectionStyle.BorderForeground(accentColor)
)

var tableHeaders = []string{"DNI", "Name", "Specialty", "Hospital"}

const columnWidth = 16

// renderTable draws the header and at most one result row.
func renderTable(row *registry.Row) string {
	header := make([]string, len(tableHeaders))
	for i, h := range tableHeaders {
		header[i] = cell(h)
	}
	lines := []string{
		sectionTitleStyle.Render(strings.Join(header, " ")),
		lipgloss.NewStyle().Foreground(borderColor).Render(strings.Repeat("─", len(tableHeaders)*(columnWidth+1)-1)),
	}
	if row == nil {
		lines = append(lines, helpStyle.Render("(no results)"))
	} else {
		lines = append(lines, strings.Join([]string{
			cell(row.ID), cell(row.Name), cell(row.Specialty), cell(row.FacilityName),
		}, " "))
	}
	return strings.Join(lines, "\n")
}

// cell pads or truncates s to the column width, counting display cells.
func cell(s string) string {
	s = runewidth.Truncate(s, columnWidth, "…")
	return runewidth.FillRight(s, columnWidth)
}

func renderDialog(d Dialog) string {
	color, icon := accentColor, "ℹ"
	switch d.Kind {
	case KindSuccess:
		color, icon = successColor, "✔"
	case KindError:
		color, icon = errorColor, "✖"
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(color).Render(icon + " " + d.Title)
	body := lipgloss.NewStyle().Width(40).Render(d.Message)
	hint := helpStyle.Render("enter to close")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(1, 2).
		Render(title + "\n\n" + body + "\n\n" + hint)
}
