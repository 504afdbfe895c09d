// ABOUTME: Results view for a finished optimization
// ABOUTME: Shows the static report or the live candidate table with the best candidate highlighted

package results

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/optifuse/optifuse-cli/internal/models"
	"github.com/optifuse/optifuse-cli/internal/tui/icons"
	"github.com/optifuse/optifuse-cli/internal/tui/styles"
	"github.com/optifuse/optifuse-cli/internal/tui/widgets"
	"github.com/optifuse/optifuse-cli/internal/workflow"
)

// bestMarker prefixes the selected candidate's name
const bestMarker = "★ "

// Results displays the outcome of a workflow in OptimizationReady
type Results struct {
	view   workflow.View
	table  table.Model
	best   int
	width  int
	height int
}

// New creates the results view for a snapshot
func New(v workflow.View, width, height int) *Results {
	r := &Results{view: v, width: width, height: height, best: BestIndex(v.Candidates, v.Best)}
	if v.Mode == workflow.ModeLive {
		r.table = r.buildTable()
	}
	return r
}

// BestIndex returns the position of best in candidates, or -1
func BestIndex(candidates []models.CandidateResult, best *models.CandidateResult) int {
	if best == nil {
		return -1
	}
	for i, c := range candidates {
		if c.Feasible && c.Name == best.Name && c.Cost == best.Cost && c.Latency == best.Latency {
			return i
		}
	}
	return -1
}

func (r *Results) buildTable() table.Model {
	columns := []table.Column{
		{Title: "Strategy", Width: 18},
		{Title: "Cost ($)", Width: 12},
		{Title: "Latency (ms)", Width: 12},
		{Title: "Feasible", Width: 8},
		{Title: "Groups", Width: 6},
		{Title: "Runtime (s)", Width: 11},
		{Title: "Notes", Width: max(10, r.width-85)},
	}

	rows := make([]table.Row, 0, len(r.view.Candidates))
	for i, c := range r.view.Candidates {
		name := c.Name
		if i == r.best {
			name = bestMarker + name
		}
		groups := "N/A"
		if c.Groups != nil {
			groups = strconv.Itoa(c.GroupCount())
		}
		feasible := "no"
		if c.Feasible {
			feasible = "yes"
		}
		rows = append(rows, table.Row{
			name,
			strconv.FormatFloat(c.Cost, 'f', 8, 64),
			strconv.FormatFloat(c.Latency, 'f', 2, 64),
			feasible,
			groups,
			humanize.FtoaWithDigits(c.Runtime, 2),
			c.ErrorText(),
		})
	}

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = styles.SelectedRow.Background(styles.Surface)

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(3, min(len(rows)+1, r.height-12))),
	)
	t.SetStyles(s)
	if r.best >= 0 {
		t.SetCursor(r.best)
	}
	return t
}

// Cursor returns the highlighted candidate row
func (r *Results) Cursor() int {
	return r.table.Cursor()
}

// Update forwards navigation to the candidate table
func (r *Results) Update(msg tea.Msg) tea.Cmd {
	if r.view.Mode != workflow.ModeLive {
		return nil
	}
	var cmd tea.Cmd
	r.table, cmd = r.table.Update(msg)
	return cmd
}

// View renders the results
func (r *Results) View() string {
	var content string
	if r.view.Mode == workflow.ModeLive {
		content = r.viewLive()
	} else {
		content = r.viewStatic()
	}
	return lipgloss.NewStyle().Width(r.width).Render(content)
}

func (r *Results) viewLive() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s Live Simulation", icons.Simulate.String())))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s  %d strategies evaluated", r.view.Ref, len(r.view.Candidates))))
	sb.WriteString("\n")
	sb.WriteString(r.table.View())
	sb.WriteString("\n\n")

	best := r.view.Best
	if best == nil {
		sb.WriteString(widgets.StatusText("No Feasible Solution Found", widgets.StatusCritical))
		sb.WriteString("\n")
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("None of the %d strategies met the constraints.", len(r.view.Candidates))))
		return sb.String()
	}

	sb.WriteString(widgets.StatusText("Best candidate: "+best.Name, widgets.StatusOK))
	sb.WriteString("\n")
	sb.WriteString(styles.Field("  Cost", fmt.Sprintf("$%.8f", best.Cost)) + "\n")
	sb.WriteString(styles.Field("  Latency", fmt.Sprintf("%.2f ms", best.Latency)) + "\n")
	sb.WriteString(styles.Field("  Groups", strconv.Itoa(best.GroupCount())))
	for _, g := range best.Groups {
		sb.WriteString("\n    " + styles.CodeStyle.Render("["+strings.Join(g, ", ")+"]"))
	}
	return sb.String()
}

func (r *Results) viewStatic() string {
	report := r.view.Report
	if report == nil {
		return "No optimization data"
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s Optimization Report", icons.Optimize.String())))
	sb.WriteString("\n")

	s := report.Summary
	sb.WriteString(widgets.MetricRow(r.width,
		widgets.Metric{Icon: icons.Function, Title: "Changes", Value: strconv.Itoa(s.TotalChanges), Note: "applied"},
		widgets.Metric{Icon: icons.Optimize, Title: "Score", Value: fmt.Sprintf("%.1f", s.OptimizationScore), Note: "optimization"},
		widgets.Metric{Icon: icons.Cloud, Title: "Cost", Value: fmt.Sprintf("%.1f%%", s.CostSavingsPct), Note: "savings"},
		widgets.Metric{Icon: icons.Simulate, Title: "Perf", Value: fmt.Sprintf("%.1f%%", s.PerfImprovementPct), Note: "improvement"},
	))
	sb.WriteString("\n\n")
	sb.WriteString("Cost savings  " + styles.ScoreBar(s.CostSavingsPct, 20) + " " + widgets.DeltaBadge(s.CostSavingsPct))
	sb.WriteString("\n\n")

	writeList(&sb, "Applied changes", report.Changes, widgets.StatusOK)
	writeList(&sb, "Recommendations", report.Recommendations, widgets.StatusInfo)
	return sb.String()
}

func writeList(sb *strings.Builder, title string, items []string, level widgets.StatusLevel) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(styles.Subtitle.Render(title))
	sb.WriteString("\n")
	for _, item := range items {
		sb.WriteString("  " + widgets.StatusText(item, level) + "\n")
	}
	sb.WriteString("\n")
}
