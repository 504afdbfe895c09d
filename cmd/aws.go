// ABOUTME: AWS trust commands for the optifuse CLI
// ABOUTME: Shows the external ID, stores the role ARN and renders the CloudFormation template

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/optifuse/optifuse-cli/internal/awstrust"
	"github.com/spf13/cobra"
)

var (
	templateOutput string
	templateCopy   bool
	showCopy       bool
)

// copyToClipboard is replaced in tests
var copyToClipboard = clipboard.WriteAll

var awsCmd = &cobra.Command{
	Use:   "aws",
	Short: "Manage the AWS role Optifuse uses for live simulations",
	Long: `Live simulations read X-Ray traces and CloudWatch Logs from your AWS
account through a read-only role that trusts the Optifuse account.

  1. optifuse aws template -o optifuse-template.yml
  2. Create a stack from it in the CloudFormation console
  3. optifuse aws set-role <RoleArn output of the stack>`,
}

var awsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the external ID and stored role ARN",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAWSShow(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var awsSetRoleCmd = &cobra.Command{
	Use:   "set-role ARN",
	Short: "Store the ARN of the role created from the template",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAWSSetRole(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var awsTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print the CloudFormation template for the Optifuse role",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAWSTemplate(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(awsCmd)
	awsCmd.AddCommand(awsShowCmd, awsSetRoleCmd, awsTemplateCmd)
	awsShowCmd.Flags().BoolVar(&showCopy, "copy", false, "Copy the external ID to the clipboard")
	awsTemplateCmd.Flags().StringVarP(&templateOutput, "output", "o", "", "Write the template to a file (e.g. "+awstrust.TemplateFilename+")")
	awsTemplateCmd.Flags().BoolVar(&templateCopy, "copy", false, "Copy the template to the clipboard")
}

type awsShowOutput struct {
	ExternalID       string `json:"externalId"`
	RoleARN          string `json:"roleArn,omitempty"`
	Connected        bool   `json:"connected"`
	AccountID        string `json:"accountId,omitempty"`
	RoleName         string `json:"roleName,omitempty"`
	ServiceAccountID string `json:"serviceAccountId"`
}

// runAWSShow shows the AWS integration and returns exit code
func runAWSShow(ctx context.Context, w io.Writer) int {
	svc, err := newServices()
	if err != nil {
		return reportError(w, err)
	}

	integration, err := svc.trust.FetchProfile(ctx)
	if err != nil {
		return reportError(w, err)
	}

	out := awsShowOutput{
		ExternalID:       integration.ExternalID,
		RoleARN:          integration.RoleARNOrEmpty(),
		Connected:        integration.Connected(),
		ServiceAccountID: awstrust.ServiceAccountID,
	}
	if out.Connected {
		info := awstrust.DescribeRoleARN(out.RoleARN)
		out.AccountID = info.AccountID
		out.RoleName = info.RoleName
	}

	if IsJSONOutput() {
		if err := writeJSON(w, out); err != nil {
			return reportError(w, err)
		}
	} else {
		fmt.Fprintln(w, formatAWSShowHuman(out))
	}

	if showCopy {
		if err := copyToClipboard(out.ExternalID); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not copy to clipboard: %v\n", err)
		} else if !IsJSONOutput() {
			fmt.Fprintln(w, "External ID copied to clipboard.")
		}
	}
	return 0
}

func formatAWSShowHuman(out awsShowOutput) string {
	status := "not connected"
	if out.Connected {
		status = "connected"
	}
	msg := fmt.Sprintf(`AWS Integration: %s

External ID:         %s
Optifuse account:    %s`, status, out.ExternalID, out.ServiceAccountID)

	if !out.Connected {
		return msg + "\n\nRun 'optifuse aws template' and create the stack, then 'optifuse aws set-role ARN'."
	}
	msg += fmt.Sprintf("\nRole ARN:            %s", out.RoleARN)
	if out.AccountID != "" {
		msg += fmt.Sprintf("\nAccount / role:      %s / %s", out.AccountID, out.RoleName)
	}
	return msg
}

type awsSetRoleOutput struct {
	Message string `json:"message"`
	RoleARN string `json:"roleArn"`
}

// runAWSSetRole stores the role ARN and returns exit code
func runAWSSetRole(ctx context.Context, w io.Writer, roleARN string) int {
	svc, err := newServices()
	if err != nil {
		return reportError(w, err)
	}

	msg, err := svc.trust.SaveRoleARN(ctx, roleARN)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		if err := writeJSON(w, awsSetRoleOutput{Message: msg, RoleARN: roleARN}); err != nil {
			return reportError(w, err)
		}
	} else {
		fmt.Fprintln(w, msg)
	}
	return 0
}

// runAWSTemplate renders the template for the user's external ID and returns exit code
func runAWSTemplate(ctx context.Context, w io.Writer) int {
	svc, err := newServices()
	if err != nil {
		return reportError(w, err)
	}

	integration, err := svc.trust.FetchProfile(ctx)
	if err != nil {
		return reportError(w, err)
	}
	tmpl, err := awstrust.Template(integration.ExternalID)
	if err != nil {
		return reportError(w, err)
	}

	if templateCopy {
		if err := copyToClipboard(tmpl); err != nil {
			return reportError(w, fmt.Errorf("could not copy to clipboard: %w", err))
		}
	}

	if templateOutput == "" {
		fmt.Fprint(w, tmpl)
		return 0
	}
	if err := os.WriteFile(templateOutput, []byte(tmpl), 0644); err != nil {
		return reportError(w, fmt.Errorf("failed to write %s: %w", templateOutput, err))
	}
	fmt.Fprintf(w, "Template written to %s\nCreate the stack at %s\n", templateOutput, awstrust.ConsoleURL)
	return 0
}
