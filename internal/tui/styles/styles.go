// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Optifuse palette, panel borders and the text styles for reports and forms

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	Primary   = lipgloss.Color("#0EA5E9") // Sky, brand
	Secondary = lipgloss.Color("#22C55E") // Feasible, connected
	Warning   = lipgloss.Color("#EAB308") // Not found, not connected
	Danger    = lipgloss.Color("#F43F5E") // Failures
	Muted     = lipgloss.Color("#64748B")
	Text      = lipgloss.Color("#F8FAFC")
	Accent    = lipgloss.Color("#F97316") // Fusion groups, key hints
	Surface   = lipgloss.Color("#334155")
	Info      = lipgloss.Color("#38BDF8")
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func bold(c lipgloss.Color) lipgloss.Style {
	return fg(c).Bold(true)
}

func panel(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2)
}

var (
	Title    = bold(Primary).MarginBottom(1)
	Subtitle = fg(Muted).MarginBottom(1)
	Help     = fg(Muted).MarginTop(1)

	StatusOK       = bold(Secondary)
	StatusWarning  = bold(Warning)
	StatusCritical = bold(Danger)
	StatusInfo     = fg(Info)

	// Panel frames inactive content, ActivePanel the pane that has focus
	Panel       = panel(Muted)
	ActivePanel = panel(Primary)

	KeyStyle   = bold(Accent)
	ValueStyle = bold(Text)
	LabelStyle = fg(Muted).Width(16)
	CodeStyle  = fg(Accent)

	// SelectedRow marks the best candidate in the live results table
	SelectedRow = bold(Secondary).Background(Surface)
)

// Field renders an aligned "label value" line
func Field(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}

// ScoreBar draws percent as a bar of width cells; red below 10, amber below 25, green above
func ScoreBar(percent float64, width int) string {
	filled := int(percent / 100.0 * float64(width))
	filled = min(max(filled, 0), width)

	color := Danger
	switch {
	case percent >= 25:
		color = Secondary
	case percent >= 10:
		color = Warning
	}
	return fg(color).Render(strings.Repeat("█", filled) + strings.Repeat("░", width-filled))
}
