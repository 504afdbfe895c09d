// ABOUTME: Repos command for the optifuse CLI
// ABOUTME: Lists the GitHub repositories visible to the signed-in user

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/optifuse/optifuse-cli/internal/models"
	"github.com/spf13/cobra"
)

const maxDescriptionWidth = 60

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List your repositories",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRepos(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(reposCmd)
}

// runRepos lists repositories and returns exit code
func runRepos(ctx context.Context, w io.Writer) int {
	svc, err := newServices()
	if err != nil {
		return reportError(w, err)
	}

	repos, err := svc.retriever.List(ctx)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		if err := writeJSON(w, repos); err != nil {
			return reportError(w, err)
		}
	} else {
		fmt.Fprintln(w, formatReposHuman(repos))
	}
	return 0
}

// formatReposHuman formats the repository list as an aligned table
func formatReposHuman(repos []models.Repository) string {
	if len(repos) == 0 {
		return "No repositories found."
	}

	rows := [][]string{{"REPOSITORY", "STARS", "DESCRIPTION"}}
	for _, r := range repos {
		rows = append(rows, []string{
			r.FullName,
			humanize.Comma(int64(r.StargazersCount)),
			truncate(r.DescriptionOrDefault(), maxDescriptionWidth),
		})
	}
	return strings.TrimRight(formatTable(rows), "\n")
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
