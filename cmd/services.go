// ABOUTME: Wires the backend client and components shared by the commands
// ABOUTME: Also holds the common error and JSON output helpers

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/optifuse/optifuse-cli/internal/apierr"
	"github.com/optifuse/optifuse-cli/internal/awstrust"
	"github.com/optifuse/optifuse-cli/internal/client"
	"github.com/optifuse/optifuse-cli/internal/config"
	"github.com/optifuse/optifuse-cli/internal/models"
	"github.com/optifuse/optifuse-cli/internal/optimizer"
	"github.com/optifuse/optifuse-cli/internal/repoconfig"
	"github.com/optifuse/optifuse-cli/internal/session"
	"github.com/optifuse/optifuse-cli/internal/workflow"
)

// services is the component graph used by one command invocation
type services struct {
	cfg       *config.Config
	client    *client.Client
	sessions  *session.Store
	retriever *repoconfig.Retriever
	runner    *optimizer.Runner
	trust     *awstrust.Configurator
}

func newServices() (*services, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	c := client.New(cfg.APIURL, client.WithTimeout(cfg.Timeout))
	store := session.New(cfg.ConfigDir, c)
	return &services{
		cfg:       cfg,
		client:    c,
		sessions:  store,
		retriever: repoconfig.New(c, store),
		runner:    optimizer.New(c, store),
		trust:     awstrust.New(c, store),
	}, nil
}

// newWorkflow creates a controller for ref bounded by the configured timeout
func (s *services) newWorkflow(ref models.RepositoryRef) *workflow.Controller {
	return workflow.New(ref, workflow.WithTimeout(s.cfg.Timeout))
}

// errorOutput is the JSON shape of a failed command
type errorOutput struct {
	Error    string `json:"error"`
	Kind     string `json:"kind,omitempty"`
	Status   int    `json:"status,omitempty"`
	Recovery string `json:"recovery,omitempty"`
}

// reportError prints err and returns exit code 2
func reportError(w io.Writer, err error) int {
	d := apierr.Describe(err)
	if IsJSONOutput() {
		out := errorOutput{
			Error:    err.Error(),
			Kind:     string(apierr.KindOf(err)),
			Status:   apierr.StatusOf(err),
			Recovery: string(d.Recovery),
		}
		// Falls back to the text form if the error cannot be encoded
		if writeJSON(w, out) == nil {
			return 2
		}
	}

	fmt.Fprintf(w, "Error: %v\n", err)
	if d.Recovery == apierr.RecoveryLogin {
		fmt.Fprintln(w, "Run `optifuse login` to sign in.")
	}
	return 2
}

// writeJSON writes v as indented JSON. Nothing is written when v cannot be encoded.
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// formatTable aligns tab-separated rows into columns; the first row is the header
func formatTable(rows [][]string) string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
	return sb.String()
}

// parseRef parses an owner/name argument
func parseRef(arg string) (models.RepositoryRef, error) {
	ref, err := models.ParseRepositoryRef(arg)
	if err != nil {
		return models.RepositoryRef{}, apierr.Validation(err.Error())
	}
	return ref, nil
}
