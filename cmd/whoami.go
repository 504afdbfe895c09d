// ABOUTME: Whoami command for the optifuse CLI
// ABOUTME: Reports whether a session is stored and who it belongs to

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/optifuse/optifuse-cli/internal/apierr"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long: `Show whether a session is stored and which GitHub user it belongs to.

Exit codes:
  0 - Logged in
  2 - Not logged in or session rejected`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

type whoamiOutput struct {
	LoggedIn     bool   `json:"loggedIn"`
	Username     string `json:"username,omitempty"`
	Subscription string `json:"subscription,omitempty"`
	APIURL       string `json:"apiUrl"`
	Warning      string `json:"warning,omitempty"`
}

// runWhoami shows the session owner and returns exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	svc, err := newServices()
	if err != nil {
		return reportError(w, err)
	}

	out := whoamiOutput{APIURL: svc.cfg.APIURL}
	if _, ok := svc.sessions.Get(); !ok {
		return reportError(w, apierr.Auth("not logged in"))
	}
	out.LoggedIn = true

	// The username is not persisted, the profile endpoint supplies it.
	if _, err := svc.trust.FetchProfile(ctx); err != nil {
		if apierr.IsKind(err, apierr.KindAuth) {
			return reportError(w, err)
		}
		out.Warning = err.Error()
	} else if profile, ok := svc.trust.Profile(); ok {
		out.Username = profile.Username
		out.Subscription = profile.Subscription
	}

	if IsJSONOutput() {
		if err := writeJSON(w, out); err != nil {
			return reportError(w, err)
		}
	} else {
		fmt.Fprintln(w, formatWhoamiHuman(out))
	}
	return 0
}

func formatWhoamiHuman(out whoamiOutput) string {
	user := out.Username
	if user == "" {
		user = "(unknown)"
	}
	msg := fmt.Sprintf("Logged in as:  %s\nAPI:           %s", user, out.APIURL)
	if out.Subscription != "" {
		msg += fmt.Sprintf("\nSubscription:  %s", out.Subscription)
	}
	if out.Warning != "" {
		msg += fmt.Sprintf("\nWarning:       could not load profile: %s", out.Warning)
	}
	return msg
}
