// ABOUTME: Optimize command for the optifuse CLI
// ABOUTME: Runs static optimization of a repository's or a local serverless.yml

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/optifuse/optifuse-cli/internal/apierr"
	"github.com/optifuse/optifuse-cli/internal/models"
	"github.com/optifuse/optifuse-cli/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	optimizeFile  string
	optimizeWrite string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [owner/repo]",
	Short: "Statically optimize a serverless.yml",
	Long: `Send a serverless.yml to Optifuse for static optimization and show the
suggested changes and recommendations.

The configuration comes from a repository (owner/repo) or a local file (--file).
A local file does not require login.

Example:
  optifuse optimize octo/shop --write serverless.optimized.yml
  optifuse optimize --file ./serverless.yml --json

Exit codes:
  0 - Optimization complete
  2 - Error (not found, rejected configuration, connectivity)`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		exitCode := runOptimize(ctx, os.Stdout, arg)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
	optimizeCmd.Flags().StringVarP(&optimizeFile, "file", "f", "", "Optimize a local serverless.yml instead of a repository")
	optimizeCmd.Flags().StringVarP(&optimizeWrite, "write", "w", "", "Write the optimized YAML to this path")
}

// runOptimize runs static optimization and returns exit code
func runOptimize(ctx context.Context, w io.Writer, arg string) int {
	if (arg == "") == (optimizeFile == "") {
		return reportError(w, apierr.Validation("specify either owner/repo or --file"))
	}

	svc, err := newServices()
	if err != nil {
		return reportError(w, err)
	}

	var ref models.RepositoryRef
	var source workflow.Fetcher = svc.retriever
	if optimizeFile != "" {
		doc, err := readLocalDocument(optimizeFile)
		if err != nil {
			return reportError(w, err)
		}
		source = workflow.LocalDocument(doc)
	} else if ref, err = parseRef(arg); err != nil {
		return reportError(w, err)
	}

	wf := svc.newWorkflow(ref)
	defer wf.Close()
	if err := wf.LoadConfig(ctx, source); err != nil {
		return reportError(w, err)
	}
	if err := wf.Optimize(ctx, workflow.ModeStatic, svc.runner); err != nil {
		return reportError(w, err)
	}
	report := wf.Snapshot().Report

	if optimizeWrite != "" {
		if err := os.WriteFile(optimizeWrite, []byte(report.OptimizedText), 0644); err != nil {
			return reportError(w, fmt.Errorf("failed to write %s: %w", optimizeWrite, err))
		}
	}

	if IsJSONOutput() {
		if err := writeJSON(w, report); err != nil {
			return reportError(w, err)
		}
	} else {
		fmt.Fprintln(w, formatReportHuman(report))
		if optimizeWrite != "" {
			fmt.Fprintf(w, "\nOptimized configuration written to %s\n", optimizeWrite)
		}
	}
	return 0
}

func readLocalDocument(path string) (*models.ConfigDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &models.ConfigDocument{Filename: filepath.Base(path), Content: string(data)}, nil
}

// formatReportHuman formats a static optimization report
func formatReportHuman(r *models.OptimizationReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Optimization Report\n")
	fmt.Fprintf(&sb, "===================\n\n")
	fmt.Fprintf(&sb, "Changes:            %d\n", r.Summary.TotalChanges)
	fmt.Fprintf(&sb, "Score:              %.1f\n", r.Summary.OptimizationScore)
	fmt.Fprintf(&sb, "Cost savings:       %.1f%%\n", r.Summary.CostSavingsPct)
	fmt.Fprintf(&sb, "Perf improvement:   %.1f%%\n", r.Summary.PerfImprovementPct)

	if len(r.Changes) > 0 {
		fmt.Fprintf(&sb, "\nApplied changes:\n")
		for _, c := range r.Changes {
			fmt.Fprintf(&sb, "  - %s\n", c)
		}
	}
	if len(r.Recommendations) > 0 {
		fmt.Fprintf(&sb, "\nRecommendations:\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&sb, "  - %s\n", rec)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
