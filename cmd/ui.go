// ABOUTME: UI command launching the interactive terminal interface
// ABOUTME: Routes logs to a rotating file since the TUI owns the terminal

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/optifuse/optifuse-cli/internal/logger"
	"github.com/optifuse/optifuse-cli/internal/tui"
	"github.com/optifuse/optifuse-cli/internal/tui/recent"
	"github.com/spf13/cobra"
)

// runTUI is replaced in tests
var runTUI = tui.Run

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Browse repositories and run analyses interactively",
	Long: `Start the interactive terminal UI.

Pick a repository, inspect its serverless.yml, run a static optimization or a
live simulation, and manage the AWS integration. Logs are written to
debug.log in the config directory.

Exit codes:
  0 - Normal exit
  2 - Not logged in or the UI failed`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runUI(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

// runUI starts the TUI and returns exit code
func runUI(ctx context.Context, w io.Writer) int {
	svc, err := newServices()
	if err != nil {
		return reportError(w, err)
	}
	if _, err := svc.sessions.Require(); err != nil {
		return reportError(w, err)
	}

	closer := logger.InitFile(svc.cfg.ConfigDir, svc.cfg.LogLevel, svc.cfg.LogFormat)
	defer closer.Close()

	err = runTUI(ctx, tui.Deps{
		Repositories: svc.retriever,
		Fetcher:      svc.retriever,
		Runner:       svc.runner,
		Trust:        svc.trust,
		Recent:       recent.New(svc.cfg.ConfigDir),
		Timeout:      svc.cfg.Timeout,
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		fmt.Fprintf(w, "See %s for details.\n", filepath.Join(svc.cfg.ConfigDir, logger.DebugLogName))
		return 2
	}
	return 0
}
