// ABOUTME: Login and logout commands
// ABOUTME: Exchanges a GitHub authorization code for an Optifuse session

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/optifuse/optifuse-cli/internal/session"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var (
	loginCode      string
	loginNoBrowser bool
	logoutYes      bool
)

// Interactive collaborators, replaced in tests
var (
	openBrowser = browser.OpenURL
	promptCode  = promptCodeForm
	confirmExit = confirmLogoutForm
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with GitHub",
	Long: `Sign in with GitHub and store an Optifuse session.

Without --code, the GitHub authorize page is opened (or printed with
--no-browser) and the code from the redirect is requested interactively.

Exit codes:
  0 - Signed in
  2 - Authentication failed`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runLogout(os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	loginCmd.Flags().StringVar(&loginCode, "code", "", "GitHub authorization code to exchange")
	loginCmd.Flags().BoolVar(&loginNoBrowser, "no-browser", false, "Print the authorize URL instead of opening a browser")
	logoutCmd.Flags().BoolVarP(&logoutYes, "yes", "y", false, "Skip the confirmation prompt")
}

type loginOutput struct {
	Username string `json:"username"`
	APIURL   string `json:"apiUrl"`
}

// runLogin acquires a session and returns exit code
func runLogin(ctx context.Context, w io.Writer) int {
	svc, err := newServices()
	if err != nil {
		return reportError(w, err)
	}

	code := strings.TrimSpace(loginCode)
	if code == "" {
		authURL, err := session.AuthorizeURL(svc.cfg.GitHubClientID)
		if err != nil {
			return reportError(w, err)
		}

		fmt.Fprintf(w, "Authorize Optifuse on GitHub:\n  %s\n\n", authURL)
		if !loginNoBrowser {
			if err := openBrowser(authURL); err != nil {
				fmt.Fprintln(w, "Could not open a browser, open the URL above manually.")
			}
		}

		code, err = promptCode()
		if err != nil {
			return reportError(w, err)
		}
	}

	sess, err := svc.sessions.Acquire(ctx, code)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		if err := writeJSON(w, loginOutput{Username: sess.Username, APIURL: svc.cfg.APIURL}); err != nil {
			return reportError(w, err)
		}
		return 0
	}
	fmt.Fprintf(w, "Logged in as %s.\n", sess.Username)
	return 0
}

// runLogout clears the session and returns exit code
func runLogout(w io.Writer) int {
	svc, err := newServices()
	if err != nil {
		return reportError(w, err)
	}

	if _, ok := svc.sessions.Get(); !ok {
		fmt.Fprintln(w, "Not logged in.")
		return 0
	}

	if !logoutYes {
		ok, err := confirmExit()
		if err != nil {
			return reportError(w, err)
		}
		if !ok {
			fmt.Fprintln(w, "Canceled.")
			return 0
		}
	}

	if err := svc.sessions.Clear(); err != nil {
		return reportError(w, err)
	}
	fmt.Fprintln(w, "Logged out.")
	return 0
}

func promptCodeForm() (string, error) {
	var code string
	err := huh.NewInput().
		Title("Authorization code").
		Description("Paste the code parameter from the page GitHub redirected to").
		Value(&code).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("code is required")
			}
			return nil
		}).
		Run()
	return strings.TrimSpace(code), err
}

func confirmLogoutForm() (bool, error) {
	var confirm bool
	err := huh.NewConfirm().
		Title("Remove the stored Optifuse session?").
		Affirmative("Log out").
		Negative("Cancel").
		Value(&confirm).
		Run()
	return confirm, err
}
