// ABOUTME: Tests for the workflow state machine
// ABOUTME: Covers transitions, stale result discarding, teardown and the view model

package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/optifuse/optifuse-cli/internal/apierr"
	"github.com/optifuse/optifuse-cli/internal/models"
)

var app = models.RepositoryRef{Owner: "octo", Name: "app"}

var doc = &models.ConfigDocument{Filename: "serverless.yml", Content: "service: app\n"}

type stubRunner struct {
	report  *models.OptimizationReport
	results []models.CandidateResult
	err     error
	calls   int
}

func (s *stubRunner) RunStatic(ctx context.Context, d *models.ConfigDocument) (*models.OptimizationReport, error) {
	s.calls++
	return s.report, s.err
}

func (s *stubRunner) RunLive(ctx context.Context, ref models.RepositoryRef) ([]models.CandidateResult, error) {
	s.calls++
	return s.results, s.err
}

func ready(t *testing.T) *Controller {
	t.Helper()
	c := New(app)
	if err := c.LoadConfig(context.Background(), LocalDocument(doc)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.State() != ConfigReady {
		t.Fatalf("expected config_ready, got %s", c.State())
	}
	return c
}

func TestLoadConfig_Outcomes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     State
		recovery apierr.Recovery
	}{
		{"not found", apierr.ConfigNotFound("serverless.yml not found in octo/app"), ConfigNotFound, apierr.RecoveryRetry},
		{"auth", apierr.Auth("Invalid token."), ConfigError, apierr.RecoveryLogin},
		{"network", apierr.Network("request timed out"), ConfigError, apierr.RecoveryRetry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(app)
			f := FetcherFunc(func(ctx context.Context, ref models.RepositoryRef) (*models.ConfigDocument, error) {
				return nil, tt.err
			})

			err := c.LoadConfig(context.Background(), f)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			v := c.Snapshot()
			if v.State != tt.want {
				t.Errorf("expected %s, got %s", tt.want, v.State)
			}
			if v.Display.Recovery != tt.recovery {
				t.Errorf("expected recovery %q, got %q", tt.recovery, v.Display.Recovery)
			}
			if v.Status != tt.err.Error() {
				t.Errorf("expected status %q, got %q", tt.err.Error(), v.Status)
			}
		})
	}
}

func TestOptimize_Static(t *testing.T) {
	c := ready(t)
	r := &stubRunner{report: &models.OptimizationReport{Summary: models.OptimizationSummary{TotalChanges: 3}}}

	if err := c.Optimize(context.Background(), ModeStatic, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := c.Snapshot()
	if v.State != OptimizationReady || v.Report == nil || v.Report.Summary.TotalChanges != 3 {
		t.Errorf("unexpected view %+v", v)
	}
	if v.Document != doc {
		t.Error("expected fetched document to stay available")
	}
}

func TestOptimize_LiveSelectsBest(t *testing.T) {
	c := ready(t)
	r := &stubRunner{results: []models.CandidateResult{
		{Name: "A", Cost: 5, Latency: 10, Feasible: true},
		{Name: "B", Cost: 5, Latency: 8, Feasible: true},
		{Name: "C", Cost: 3, Latency: 1, Feasible: false},
	}}

	if err := c.Optimize(context.Background(), ModeLive, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := c.Snapshot()
	if v.Best == nil || v.Best.Name != "B" {
		t.Fatalf("expected B, got %+v", v.Best)
	}
	if v.Status != "best candidate: B" {
		t.Errorf("unexpected status %q", v.Status)
	}
	if len(v.Candidates) != 3 {
		t.Errorf("expected all candidates in view, got %d", len(v.Candidates))
	}
}

func TestOptimize_LiveNoFeasibleSolution(t *testing.T) {
	c := ready(t)
	r := &stubRunner{results: []models.CandidateResult{
		{Name: "A", Cost: 1, Latency: 1, Feasible: false},
		{Name: "B", Cost: 2, Latency: 2, Feasible: false},
	}}

	if err := c.Optimize(context.Background(), ModeLive, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := c.Snapshot()
	if v.State != OptimizationReady {
		t.Fatalf("expected optimization_ready, got %s", v.State)
	}
	if v.Best != nil || !v.NoFeasible() {
		t.Errorf("expected no selection, got %+v", v.Best)
	}
	if v.Status != NoFeasibleSolution {
		t.Errorf("expected %q, got %q", NoFeasibleSolution, v.Status)
	}
}

func TestOptimize_Failure(t *testing.T) {
	c := ready(t)
	r := &stubRunner{err: apierr.Optimization("Simulation failed")}

	err := c.Optimize(context.Background(), ModeLive, r)
	if !apierr.IsKind(err, apierr.KindOptimization) {
		t.Fatalf("expected optimization error, got %v", err)
	}
	v := c.Snapshot()
	if v.State != OptimizationError {
		t.Errorf("expected optimization_error, got %s", v.State)
	}
	if v.Display.Recovery != apierr.RecoveryRetry {
		t.Errorf("expected retry, got %q", v.Display.Recovery)
	}
}

func TestInvalidTransitions(t *testing.T) {
	ctx := context.Background()

	idle := New(app)
	if _, err := idle.BeginOptimize(ctx, ModeStatic); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected invalid transition from idle, got %v", err)
	}

	fetching := New(app)
	if _, err := fetching.BeginFetch(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := fetching.BeginFetch(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected invalid transition while fetching, got %v", err)
	}
	if _, err := fetching.BeginOptimize(ctx, ModeLive); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected invalid transition while fetching, got %v", err)
	}

	done := ready(t)
	if err := done.Optimize(ctx, ModeStatic, &stubRunner{report: &models.OptimizationReport{}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := done.BeginOptimize(ctx, ModeStatic); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected terminal state to stay until reset, got %v", err)
	}
	if _, err := done.BeginFetch(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected terminal state to stay until reset, got %v", err)
	}

	done.Reset()
	if done.State() != Idle {
		t.Errorf("expected idle after reset, got %s", done.State())
	}
	if done.Snapshot().Document != nil {
		t.Error("expected reset to drop the document")
	}
}

func TestStaleResultWhileOptimizing(t *testing.T) {
	ctx := context.Background()
	c := New(app)

	fetch, err := c.BeginFetch(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.CompleteFetch(fetch, doc, nil)

	first, err := c.BeginOptimize(ctx, ModeLive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The user retries: the first request is abandoned and a new one issued.
	c.Reset()
	fetch, _ = c.BeginFetch(ctx)
	c.CompleteFetch(fetch, doc, nil)
	second, err := c.BeginOptimize(ctx, ModeLive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Ctx.Err() == nil {
		t.Error("expected abandoned request context to be canceled")
	}

	before := c.Snapshot()
	late := []models.CandidateResult{{Name: "late", Cost: 1, Latency: 1, Feasible: true}}
	if c.CompleteLive(first, late, nil) {
		t.Fatal("expected stale result to be discarded")
	}
	after := c.Snapshot()
	if after.State != Optimizing || before.State != after.State || after.Best != nil {
		t.Errorf("stale result changed state: %+v", after)
	}

	// A fetch ticket cannot complete an optimization either.
	if c.CompleteLive(fetch, late, nil) {
		t.Error("expected fetch ticket to be rejected")
	}

	fresh := []models.CandidateResult{{Name: "fresh", Cost: 2, Latency: 2, Feasible: true}}
	if !c.CompleteLive(second, fresh, nil) {
		t.Fatal("expected current result to apply")
	}
	if got := c.Snapshot().Best; got == nil || got.Name != "fresh" {
		t.Errorf("expected fresh, got %+v", got)
	}
}

func TestCompleteWithWrongMode(t *testing.T) {
	c := ready(t)
	ticket, err := c.BeginOptimize(context.Background(), ModeLive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.CompleteStatic(ticket, &models.OptimizationReport{}, nil) {
		t.Error("expected static completion of a live request to be discarded")
	}
	if c.State() != Optimizing {
		t.Errorf("expected optimizing, got %s", c.State())
	}
}

func TestClose_DiscardsLateResults(t *testing.T) {
	ctx := context.Background()
	c := New(app)

	ticket, err := c.BeginFetch(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Close()

	if ticket.Ctx.Err() == nil {
		t.Error("expected outstanding request to be canceled")
	}
	if c.CompleteFetch(ticket, doc, nil) {
		t.Error("expected result after close to be discarded")
	}
	if c.State() != FetchingConfig {
		t.Errorf("expected state unchanged, got %s", c.State())
	}
	if _, err := c.BeginFetch(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestTicketTimeout(t *testing.T) {
	c := New(app, WithTimeout(1))
	ticket, err := c.BeginFetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-ticket.Ctx.Done()
	if !errors.Is(ticket.Ctx.Err(), context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", ticket.Ctx.Err())
	}
}

func TestStateHelpers(t *testing.T) {
	if !FetchingConfig.InFlight() || !Optimizing.InFlight() || ConfigReady.InFlight() {
		t.Error("unexpected in-flight classification")
	}
	if !ConfigNotFound.Terminal() || Idle.Terminal() || Optimizing.Terminal() {
		t.Error("unexpected terminal classification")
	}
	if OptimizationReady.String() != "optimization_ready" || ModeLive.String() != "live" {
		t.Error("unexpected string forms")
	}
}

func TestLoadConfig_EmptyDocumentIsError(t *testing.T) {
	c := New(app)
	f := FetcherFunc(func(ctx context.Context, ref models.RepositoryRef) (*models.ConfigDocument, error) {
		return nil, nil
	})

	err := c.LoadConfig(context.Background(), f)
	if !apierr.IsKind(err, apierr.KindNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if c.State() != ConfigError {
		t.Errorf("expected config_error, got %s", c.State())
	}
}

func TestOptimize_EmptyReportIsError(t *testing.T) {
	c := ready(t)

	err := c.Optimize(context.Background(), ModeStatic, &stubRunner{})
	if !apierr.IsKind(err, apierr.KindOptimization) {
		t.Fatalf("expected optimization error, got %v", err)
	}
	if c.State() != OptimizationError {
		t.Errorf("expected optimization_error, got %s", c.State())
	}
}
