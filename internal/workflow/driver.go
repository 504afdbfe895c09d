// ABOUTME: Synchronous drivers running a workflow step to completion
// ABOUTME: Used by CLI commands; the TUI drives Begin and Complete from commands

package workflow

import (
	"context"

	"github.com/optifuse/optifuse-cli/internal/models"
)

// Fetcher retrieves a repository's configuration document
type Fetcher interface {
	Fetch(ctx context.Context, ref models.RepositoryRef) (*models.ConfigDocument, error)
}

// Runner performs static optimization and live simulation
type Runner interface {
	RunStatic(ctx context.Context, doc *models.ConfigDocument) (*models.OptimizationReport, error)
	RunLive(ctx context.Context, ref models.RepositoryRef) ([]models.CandidateResult, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, ref models.RepositoryRef) (*models.ConfigDocument, error)

// Fetch calls f
func (f FetcherFunc) Fetch(ctx context.Context, ref models.RepositoryRef) (*models.ConfigDocument, error) {
	return f(ctx, ref)
}

// LocalDocument returns a Fetcher serving doc, for configurations read from disk
func LocalDocument(doc *models.ConfigDocument) Fetcher {
	return FetcherFunc(func(ctx context.Context, ref models.RepositoryRef) (*models.ConfigDocument, error) {
		return doc, nil
	})
}

// LoadConfig fetches the configuration and waits for the result.
// It returns nil only when the workflow reached ConfigReady.
func (c *Controller) LoadConfig(ctx context.Context, f Fetcher) error {
	t, err := c.BeginFetch(ctx)
	if err != nil {
		return err
	}
	doc, err := f.Fetch(t.Ctx, t.Ref)
	if !c.CompleteFetch(t, doc, err) {
		return ErrDiscarded
	}
	return c.failure()
}

// Optimize runs the analysis for mode and waits for the result.
// It returns nil only when the workflow reached OptimizationReady.
func (c *Controller) Optimize(ctx context.Context, mode Mode, r Runner) error {
	t, err := c.BeginOptimize(ctx, mode)
	if err != nil {
		return err
	}

	var applied bool
	switch mode {
	case ModeLive:
		var results []models.CandidateResult
		results, err = r.RunLive(t.Ctx, t.Ref)
		applied = c.CompleteLive(t, results, err)
	default:
		var report *models.OptimizationReport
		report, err = r.RunStatic(t.Ctx, t.Document)
		applied = c.CompleteStatic(t, report, err)
	}
	if !applied {
		return ErrDiscarded
	}
	return c.failure()
}

// failure returns the error recorded by the last applied result, nil after a success
func (c *Controller) failure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
