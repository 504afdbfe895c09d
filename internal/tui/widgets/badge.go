// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Maps workflow states and candidate feasibility to colored badges

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/optifuse/optifuse-cli/internal/tui/icons"
	"github.com/optifuse/optifuse-cli/internal/tui/styles"
	"github.com/optifuse/optifuse-cli/internal/workflow"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// tone is the background and text color of a status level
type tone struct {
	bg, fg lipgloss.Color
}

var tones = map[StatusLevel]tone{
	StatusOK:       {styles.Secondary, lipgloss.Color("#052E16")},
	StatusWarning:  {styles.Warning, lipgloss.Color("#1C1917")},
	StatusCritical: {styles.Danger, styles.Text},
	StatusInfo:     {styles.Info, lipgloss.Color("#082F49")},
	StatusNeutral:  {styles.Muted, styles.Text},
}

func toneOf(level StatusLevel) tone {
	if t, ok := tones[level]; ok {
		return t
	}
	return tones[StatusNeutral]
}

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	t := toneOf(level)
	return lipgloss.NewStyle().
		Background(t.bg).
		Foreground(t.fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	glyph := "•"
	switch level {
	case StatusOK:
		glyph = icons.CheckOK.String()
	case StatusWarning:
		glyph = icons.Warning.String()
	case StatusCritical:
		glyph = icons.Critical.String()
	case StatusInfo:
		glyph = icons.Info.String()
	}
	return lipgloss.NewStyle().Foreground(toneOf(level).bg).Render(glyph)
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	return StatusIcon(level) + " " + lipgloss.NewStyle().Foreground(toneOf(level).bg).Render(text)
}

// StateLevel maps a workflow state to a status level
func StateLevel(s workflow.State) StatusLevel {
	switch s {
	case workflow.ConfigReady, workflow.OptimizationReady:
		return StatusOK
	case workflow.FetchingConfig, workflow.Optimizing:
		return StatusInfo
	case workflow.ConfigNotFound:
		return StatusWarning
	case workflow.ConfigError, workflow.OptimizationError:
		return StatusCritical
	default:
		return StatusNeutral
	}
}

// StateBadge renders the workflow state as a badge
func StateBadge(s workflow.State) string {
	return Badge(s.String(), StateLevel(s))
}

// FeasibleBadge renders a candidate's feasibility
func FeasibleBadge(feasible bool) string {
	if feasible {
		return Badge("feasible", StatusOK)
	}
	return Badge("infeasible", StatusCritical)
}

// DeltaBadge renders a percentage improvement, positive is good
func DeltaBadge(delta float64) string {
	switch {
	case delta > 0:
		return Badge(fmt.Sprintf("+%.1f%%", delta), StatusOK)
	case delta < 0:
		return Badge(fmt.Sprintf("%.1f%%", delta), StatusWarning)
	default:
		return Badge("0%", StatusNeutral)
	}
}
