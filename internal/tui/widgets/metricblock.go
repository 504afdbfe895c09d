// ABOUTME: Boxed headline numbers for the static optimization report
// ABOUTME: A Metric renders as a four-line block; MetricRow fits several to a width

package widgets

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/optifuse/optifuse-cli/internal/tui/icons"
	"github.com/optifuse/optifuse-cli/internal/tui/styles"
)

const (
	defaultBlockWidth = 22
	minBlockWidth     = 12
)

// Metric is one headline number with a short note under it
type Metric struct {
	Icon  icons.Icon
	Title string
	Value string
	Note  string
}

// MetricBlockConfig sizes and colors a metric block
type MetricBlockConfig struct {
	Width  int
	Border lipgloss.Color
	Title  lipgloss.Color
	Value  lipgloss.Color
}

// DefaultMetricBlockConfig uses the shared palette
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:  defaultBlockWidth,
		Border: styles.Muted,
		Title:  styles.Primary,
		Value:  styles.Text,
	}
}

// Render draws the metric as a box exactly cfg.Width columns wide
func (m Metric) Render(cfg MetricBlockConfig) string {
	width := cfg.Width
	if width <= 0 {
		width = defaultBlockWidth
	}
	inner := width - 4
	border := lipgloss.NewStyle().Foreground(cfg.Border)

	title := truncate(m.Icon.String()+" "+m.Title, inner)
	rule := strings.Repeat("─", max(0, inner-lipgloss.Width(title)-1))
	top := border.Render("┌─ ") + lipgloss.NewStyle().Foreground(cfg.Title).Render(title) + border.Render(" "+rule+"┐")

	value := lipgloss.NewStyle().Foreground(cfg.Value).Bold(true).Render(truncate(m.Value, inner))
	note := lipgloss.NewStyle().Foreground(styles.Muted).Render(truncate(m.Note, inner))
	bottom := border.Render("└" + strings.Repeat("─", width-2) + "┘")

	return strings.Join([]string{top, line(border, value, inner), line(border, note, inner), bottom}, "\n")
}

// MetricBlock renders a single metric
func MetricBlock(icon icons.Icon, title, value, note string, cfg MetricBlockConfig) string {
	return Metric{Icon: icon, Title: title, Value: value, Note: note}.Render(cfg)
}

// CountBlock renders an integer metric
func CountBlock(icon icons.Icon, title string, count int, note string, cfg MetricBlockConfig) string {
	return MetricBlock(icon, title, strconv.Itoa(count), note, cfg)
}

// MetricRow lays metrics side by side within width, shrinking blocks down to a minimum
func MetricRow(width int, metrics ...Metric) string {
	if len(metrics) == 0 {
		return ""
	}
	cfg := DefaultMetricBlockConfig()
	gaps := len(metrics) - 1
	cfg.Width = min(defaultBlockWidth, max(minBlockWidth, (width-gaps)/len(metrics)))

	blocks := make([]string, 0, 2*len(metrics))
	for i, m := range metrics {
		if i > 0 {
			blocks = append(blocks, " ")
		}
		blocks = append(blocks, m.Render(cfg))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

// line frames rendered content between side borders, padded to inner
func line(border lipgloss.Style, rendered string, inner int) string {
	pad := strings.Repeat(" ", max(0, inner-lipgloss.Width(rendered)))
	return border.Render("│  ") + rendered + pad + border.Render("│")
}

// truncate shortens s to n runes, ending in "..." when cut
func truncate(s string, n int) string {
	r := []rune(s)
	switch {
	case len(r) <= n:
		return s
	case n <= 3:
		return string(r[:n])
	default:
		return string(r[:n-3]) + "..."
	}
}
