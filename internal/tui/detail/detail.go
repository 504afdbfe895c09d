// ABOUTME: Repository detail pane showing the workflow state and configuration
// ABOUTME: Renders the inspection summary above a scrollable view of the YAML

package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/optifuse/optifuse-cli/internal/apierr"
	"github.com/optifuse/optifuse-cli/internal/models"
	"github.com/optifuse/optifuse-cli/internal/repoconfig"
	"github.com/optifuse/optifuse-cli/internal/tui/icons"
	"github.com/optifuse/optifuse-cli/internal/tui/styles"
	"github.com/optifuse/optifuse-cli/internal/tui/widgets"
	"github.com/optifuse/optifuse-cli/internal/workflow"
)

// summaryHeight is the number of lines above the YAML viewport
const summaryHeight = 10

// SessionExpired is shown for auth failures instead of a retry hint
const SessionExpired = "session expired, run optifuse login"

// Detail displays one repository's workflow
type Detail struct {
	view       workflow.View
	summary    *repoconfig.Summary
	summaryErr error
	doc        *models.ConfigDocument
	viewport   viewport.Model
	width      int
	height     int
}

// New creates an empty detail pane
func New(width, height int) *Detail {
	d := &Detail{viewport: viewport.New(width, max(1, height-summaryHeight))}
	d.SetSize(width, height)
	return d
}

// SetSize updates the pane dimensions
func (d *Detail) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.viewport.Width = width
	d.viewport.Height = max(1, height-summaryHeight)
}

// SetView refreshes the pane from a workflow snapshot
func (d *Detail) SetView(v workflow.View) {
	d.view = v
	if v.Document == d.doc {
		return
	}

	d.doc = v.Document
	d.summary, d.summaryErr = nil, nil
	if d.doc == nil {
		d.viewport.SetContent("")
		return
	}
	d.summary, d.summaryErr = repoconfig.Inspect(d.doc)
	d.viewport.SetContent(styles.CodeStyle.Render(d.doc.Content))
	d.viewport.GotoTop()
}

// Summary returns the inspection of the current document, if any
func (d *Detail) Summary() *repoconfig.Summary {
	return d.summary
}

// Update forwards scrolling input to the viewport
func (d *Detail) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return cmd
}

// View renders the pane
func (d *Detail) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s %s", icons.Repo.String(), d.view.Ref)))
	sb.WriteString("\n")
	sb.WriteString(widgets.StateBadge(d.view.State))
	sb.WriteString("  ")
	sb.WriteString(StatusLine(d.view))
	sb.WriteString("\n\n")

	if d.doc == nil {
		return lipgloss.NewStyle().Width(d.width).Render(sb.String())
	}

	sb.WriteString(d.renderSummary())
	sb.WriteString("\n")
	sb.WriteString(d.viewport.View())

	return lipgloss.NewStyle().
		Width(d.width).
		Height(d.height).
		Render(sb.String())
}

func (d *Detail) renderSummary() string {
	if d.summaryErr != nil {
		return widgets.StatusText(d.summaryErr.Error(), widgets.StatusWarning) + "\n"
	}

	s := d.summary
	var sb strings.Builder
	sb.WriteString(styles.Field("File", d.doc.Filename) + "\n")
	sb.WriteString(styles.Field("Service", orDash(s.Service)) + "\n")
	sb.WriteString(styles.Field("Provider", orDash(s.Provider)) + "\n")
	sb.WriteString(styles.Field("Runtime", orDash(s.Runtime)) + "\n")
	sb.WriteString(styles.Field("Region", orDash(s.Region)) + "\n")
	sb.WriteString(styles.Field("Functions", functionsLabel(s.Functions, d.width-16)) + "\n")
	return sb.String()
}

// StatusLine renders the workflow status with the error recovery hint
func StatusLine(v workflow.View) string {
	switch v.Display.Recovery {
	case apierr.RecoveryLogin:
		return styles.StatusCritical.Render(SessionExpired)
	case apierr.RecoveryRetry:
		return styles.StatusCritical.Render(v.Status) + styles.Help.Render("  r retry")
	}
	if v.NoFeasible() {
		return styles.StatusWarning.Render(v.Status)
	}
	return styles.StatusInfo.Render(v.Status)
}

func functionsLabel(fns []string, width int) string {
	if len(fns) == 0 {
		return "-"
	}
	label := fmt.Sprintf("%d (%s)", len(fns), strings.Join(fns, ", "))
	if width > 3 && len(label) > width {
		label = label[:width-3] + "..."
	}
	return label
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
