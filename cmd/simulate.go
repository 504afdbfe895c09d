// ABOUTME: Simulate command for the optifuse CLI
// ABOUTME: Runs a live fusion simulation and reports the best feasible candidate

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/optifuse/optifuse-cli/internal/models"
	"github.com/optifuse/optifuse-cli/internal/selector"
	"github.com/optifuse/optifuse-cli/internal/workflow"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate owner/repo",
	Short: "Run a live fusion simulation",
	Long: `Simulate function fusion strategies for a repository against live AWS
X-Ray and CloudWatch data, then pick the cheapest feasible candidate
(ties broken by latency).

Requires the Optifuse role to be configured, see 'optifuse aws'.

Exit codes:
  0 - A feasible candidate was found
  1 - No feasible solution
  2 - Error (not logged in, simulation failed, connectivity)`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runSimulate(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}

type simulateOutput struct {
	Repository string                   `json:"repository"`
	Candidates []models.CandidateResult `json:"candidates"`
	Feasible   int                      `json:"feasible"`
	Best       *models.CandidateResult  `json:"best"`
	Status     string                   `json:"status"`
}

// runSimulate runs the live simulation and returns exit code
func runSimulate(ctx context.Context, w io.Writer, arg string) int {
	ref, err := parseRef(arg)
	if err != nil {
		return reportError(w, err)
	}
	svc, err := newServices()
	if err != nil {
		return reportError(w, err)
	}

	wf := svc.newWorkflow(ref)
	defer wf.Close()
	if err := wf.LoadConfig(ctx, svc.retriever); err != nil {
		return reportError(w, err)
	}
	if err := wf.Optimize(ctx, workflow.ModeLive, svc.runner); err != nil {
		return reportError(w, err)
	}
	view := wf.Snapshot()
	summary := selector.Summarize(view.Candidates)

	out := simulateOutput{
		Repository: ref.String(),
		Candidates: view.Candidates,
		Feasible:   summary.Feasible,
		Best:       view.Best,
		Status:     view.Status,
	}
	if out.Candidates == nil {
		out.Candidates = []models.CandidateResult{}
	}

	if IsJSONOutput() {
		if err := writeJSON(w, out); err != nil {
			return reportError(w, err)
		}
	} else {
		fmt.Fprintln(w, formatSimulationHuman(out))
	}

	if view.NoFeasible() {
		return 1
	}
	return 0
}

// formatSimulationHuman formats the candidate table and the selection
func formatSimulationHuman(out simulateOutput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Live Simulation: %s\n", out.Repository)
	fmt.Fprintf(&sb, "%s\n\n", strings.Repeat("=", len("Live Simulation: ")+len(out.Repository)))

	rows := [][]string{{"STRATEGY", "COST ($)", "LATENCY (ms)", "FEASIBLE", "GROUPS", "RUNTIME (s)", "NOTES"}}
	for _, c := range out.Candidates {
		rows = append(rows, []string{
			c.Name,
			strconv.FormatFloat(c.Cost, 'f', 8, 64),
			strconv.FormatFloat(c.Latency, 'f', 2, 64),
			yesNo(c.Feasible),
			groupsLabel(c),
			humanize.FtoaWithDigits(c.Runtime, 2),
			c.ErrorText(),
		})
	}
	sb.WriteString(formatTable(rows))

	sb.WriteString("\n")
	if out.Best == nil {
		fmt.Fprintf(&sb, "No Feasible Solution Found\n")
		fmt.Fprintf(&sb, "None of the %d strategies met the constraints.", len(out.Candidates))
		return sb.String()
	}
	fmt.Fprintf(&sb, "Best candidate: %s\n", out.Best.Name)
	fmt.Fprintf(&sb, "  Cost:     $%.8f\n", out.Best.Cost)
	fmt.Fprintf(&sb, "  Latency:  %.2f ms\n", out.Best.Latency)
	fmt.Fprintf(&sb, "  Groups:   %s", groupsLabel(*out.Best))
	for _, g := range out.Best.Groups {
		fmt.Fprintf(&sb, "\n    [%s]", strings.Join(g, ", "))
	}
	return sb.String()
}

func groupsLabel(c models.CandidateResult) string {
	if c.GroupCount() == 0 {
		return "N/A"
	}
	return strconv.Itoa(c.GroupCount())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
