// ABOUTME: Tests for badge and metric block widgets
// ABOUTME: Validates state mapping and rendered content

package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/optifuse/optifuse-cli/internal/tui/icons"
	"github.com/optifuse/optifuse-cli/internal/workflow"
)

func TestStateLevel(t *testing.T) {
	tests := []struct {
		state workflow.State
		want  StatusLevel
	}{
		{workflow.Idle, StatusNeutral},
		{workflow.FetchingConfig, StatusInfo},
		{workflow.ConfigReady, StatusOK},
		{workflow.ConfigNotFound, StatusWarning},
		{workflow.ConfigError, StatusCritical},
		{workflow.Optimizing, StatusInfo},
		{workflow.OptimizationReady, StatusOK},
		{workflow.OptimizationError, StatusCritical},
	}

	for _, tt := range tests {
		if got := StateLevel(tt.state); got != tt.want {
			t.Errorf("StateLevel(%s) = %d, want %d", tt.state, got, tt.want)
		}
	}
}

func TestBadgesContainText(t *testing.T) {
	if !strings.Contains(StateBadge(workflow.ConfigReady), "config_ready") {
		t.Error("expected state name in badge")
	}
	if !strings.Contains(FeasibleBadge(false), "infeasible") {
		t.Error("expected infeasible badge")
	}
	if !strings.Contains(DeltaBadge(12.5), "+12.5%") {
		t.Errorf("expected +12.5%%, got %q", DeltaBadge(12.5))
	}
	if !strings.Contains(DeltaBadge(-3), "-3.0%") {
		t.Errorf("expected -3.0%%, got %q", DeltaBadge(-3))
	}
}

func TestMetricBlock(t *testing.T) {
	block := MetricBlock(icons.Optimize, "Score", "87.5", "optimization", DefaultMetricBlockConfig())

	lines := strings.Split(block, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 22 {
			t.Errorf("line %d width = %d, want 22: %q", i, w, l)
		}
	}
	if !strings.Contains(block, "87.5") || !strings.Contains(block, "Score") {
		t.Errorf("expected value and title in block:\n%s", block)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefgh", 6); got != "abc..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abc", 6); got != "abc" {
		t.Errorf("truncate = %q", got)
	}
}

func TestMetricRow_FitsWidth(t *testing.T) {
	metrics := []Metric{
		{Icon: icons.Function, Title: "Changes", Value: "3", Note: "applied"},
		{Icon: icons.Optimize, Title: "Score", Value: "87.5", Note: "optimization"},
		{Icon: icons.Cloud, Title: "Cost", Value: "22.4%", Note: "savings"},
		{Icon: icons.Simulate, Title: "Perf", Value: "12.0%", Note: "improvement"},
	}

	for _, width := range []int{72, 92, 120} {
		row := MetricRow(width, metrics...)
		if w := lipgloss.Width(row); w > width {
			t.Errorf("width %d: row is %d columns wide", width, w)
		}
		if !strings.Contains(row, "87.5") {
			t.Errorf("width %d: expected score in row", width)
		}
	}

	if MetricRow(80) != "" {
		t.Error("expected empty row without metrics")
	}
}
