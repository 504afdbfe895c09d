// ABOUTME: Config command for the optifuse CLI
// ABOUTME: Fetches a repository's serverless.yml and optionally summarizes it

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/optifuse/optifuse-cli/internal/models"
	"github.com/optifuse/optifuse-cli/internal/repoconfig"
	"github.com/spf13/cobra"
)

var configSummary bool

var configCmd = &cobra.Command{
	Use:   "config owner/repo",
	Short: "Show a repository's serverless.yml",
	Long: `Fetch the serverless.yml of a repository through the Optifuse backend.

Exit codes:
  0 - Configuration fetched
  2 - Not found, not logged in, or request failed`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runConfig(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&configSummary, "summary", false, "Show service, provider and functions instead of the raw file")
}

type configOutput struct {
	Repository string                 `json:"repository"`
	Document   *models.ConfigDocument `json:"document"`
	Summary    *repoconfig.Summary    `json:"summary,omitempty"`
	Warnings   []string               `json:"warnings,omitempty"`
}

// runConfig fetches the configuration and returns exit code
func runConfig(ctx context.Context, w io.Writer, arg string) int {
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
	doc := wf.Snapshot().Document

	out := configOutput{Repository: ref.String(), Document: doc}
	if configSummary || IsJSONOutput() {
		summary, err := repoconfig.Inspect(doc)
		if err != nil {
			out.Warnings = append(out.Warnings, err.Error())
		}
		out.Summary = summary
	}

	switch {
	case IsJSONOutput():
		if err := writeJSON(w, out); err != nil {
			return reportError(w, err)
		}
	case configSummary:
		fmt.Fprintln(w, formatSummaryHuman(ref, out))
	default:
		fmt.Fprint(w, doc.Content)
		if !strings.HasSuffix(doc.Content, "\n") {
			fmt.Fprintln(w)
		}
	}
	return 0
}

// formatSummaryHuman formats an inspection summary
func formatSummaryHuman(ref models.RepositoryRef, out configOutput) string {
	if out.Summary == nil {
		return fmt.Sprintf("%s: %s could not be parsed: %s", ref, out.Document.Filename, strings.Join(out.Warnings, "; "))
	}
	s := out.Summary

	var sb strings.Builder
	fmt.Fprintf(&sb, "Repository:  %s\n", ref)
	fmt.Fprintf(&sb, "File:        %s\n", out.Document.Filename)
	fmt.Fprintf(&sb, "Service:     %s\n", orDash(s.Service))
	fmt.Fprintf(&sb, "Provider:    %s\n", orDash(s.Provider))
	fmt.Fprintf(&sb, "Runtime:     %s\n", orDash(s.Runtime))
	fmt.Fprintf(&sb, "Region:      %s\n", orDash(s.Region))
	fmt.Fprintf(&sb, "Functions:   %d\n", len(s.Functions))
	for _, f := range s.Functions {
		fmt.Fprintf(&sb, "  - %s\n", f)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
