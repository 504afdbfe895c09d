// ABOUTME: Tests for the repository detail pane
// ABOUTME: Validates summary rendering and status hints per workflow state

package detail

import (
	"strings"
	"testing"

	"github.com/optifuse/optifuse-cli/internal/apierr"
	"github.com/optifuse/optifuse-cli/internal/models"
	"github.com/optifuse/optifuse-cli/internal/workflow"
)

var ref = models.RepositoryRef{Owner: "octo", Name: "shop"}

const content = `service: shop
provider:
  name: aws
  runtime: python3.12
  region: eu-west-1
functions:
  checkout:
    handler: handler.checkout
  cart:
    handler: handler.cart
`

func TestDetailView_ConfigReady(t *testing.T) {
	d := New(100, 40)
	d.SetView(workflow.View{
		State:    workflow.ConfigReady,
		Ref:      ref,
		Document: &models.ConfigDocument{Filename: "serverless.yml", Content: content},
		Status:   "configuration ready",
	})

	view := d.View()
	for _, expected := range []string{"octo/shop", "config_ready", "serverless.yml", "python3.12", "eu-west-1", "2 (checkout, cart)"} {
		if !strings.Contains(view, expected) {
			t.Errorf("expected view to contain %q\nView:\n%s", expected, view)
		}
	}
	if d.Summary() == nil || d.Summary().Service != "shop" {
		t.Errorf("expected inspected summary, got %+v", d.Summary())
	}
}

func TestDetailView_InvalidYAML(t *testing.T) {
	d := New(100, 40)
	d.SetView(workflow.View{
		State:    workflow.ConfigReady,
		Ref:      ref,
		Document: &models.ConfigDocument{Filename: "serverless.yml", Content: "a: [b"},
	})

	if !strings.Contains(d.View(), "invalid YAML") {
		t.Errorf("expected inspection warning\nView:\n%s", d.View())
	}
}

func TestDetailView_Fetching(t *testing.T) {
	d := New(100, 40)
	d.SetView(workflow.View{State: workflow.FetchingConfig, Ref: ref, Status: "fetching configuration for octo/shop"})

	if !strings.Contains(d.View(), "fetching configuration") {
		t.Errorf("expected fetching status\nView:\n%s", d.View())
	}
}

func TestStatusLine(t *testing.T) {
	auth := workflow.View{
		State:   workflow.ConfigError,
		Status:  "invalid token",
		Display: apierr.Display{Recovery: apierr.RecoveryLogin},
	}
	if !strings.Contains(StatusLine(auth), SessionExpired) {
		t.Errorf("expected session expired hint, got %q", StatusLine(auth))
	}

	network := workflow.View{
		State:   workflow.OptimizationError,
		Status:  "connection refused",
		Display: apierr.Display{Recovery: apierr.RecoveryRetry},
	}
	line := StatusLine(network)
	if !strings.Contains(line, "connection refused") || !strings.Contains(line, "retry") {
		t.Errorf("expected message with retry hint, got %q", line)
	}

	none := workflow.View{State: workflow.OptimizationReady, Mode: workflow.ModeLive, Status: workflow.NoFeasibleSolution}
	if !strings.Contains(StatusLine(none), workflow.NoFeasibleSolution) {
		t.Errorf("expected no feasible status, got %q", StatusLine(none))
	}
}
