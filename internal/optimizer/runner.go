// ABOUTME: Submits configurations for static optimization and live simulation
// ABOUTME: Allows one outstanding live simulation per repository

package optimizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/optifuse/optifuse-cli/internal/apierr"
	"github.com/optifuse/optifuse-cli/internal/models"
	"golang.org/x/sync/semaphore"
)

// API is the subset of the backend client used by the runner
type API interface {
	Optimize(ctx context.Context, token, yamlContent string) (*models.OptimizationReport, error)
	SimulateLive(ctx context.Context, token string, ref models.RepositoryRef) ([]models.CandidateResult, error)
}

// Sessions provides the current session and invalidates rejected ones
type Sessions interface {
	Get() (models.Session, bool)
	Require() (models.Session, error)
	Invalidate(token string) bool
}

// Runner submits optimization requests. Results are never cached.
type Runner struct {
	api      API
	sessions Sessions

	mu      sync.Mutex
	running map[models.RepositoryRef]*semaphore.Weighted
}

// New creates a runner
func New(api API, sessions Sessions) *Runner {
	return &Runner{
		api:      api,
		sessions: sessions,
		running:  make(map[models.RepositoryRef]*semaphore.Weighted),
	}
}

// RunStatic asks the backend to optimize doc. A session is optional; its token
// is sent when present.
func (r *Runner) RunStatic(ctx context.Context, doc *models.ConfigDocument) (*models.OptimizationReport, error) {
	if doc == nil {
		return nil, errors.New("no configuration document to optimize")
	}

	sess, _ := r.sessions.Get()
	start := time.Now()

	report, err := r.api.Optimize(ctx, sess.Token, doc.Content)
	if err != nil {
		return nil, r.classify(ctx, sess.Token, err)
	}

	slog.Info("Static optimization complete",
		"filename", doc.Filename,
		"changes", report.Summary.TotalChanges,
		"duration", time.Since(start))
	return report, nil
}

// RunLive asks the backend to simulate fusion strategies for ref against live
// cloud data. A second call for the same ref while one is pending fails with
// an already_running error without contacting the backend.
func (r *Runner) RunLive(ctx context.Context, ref models.RepositoryRef) ([]models.CandidateResult, error) {
	sess, err := r.sessions.Require()
	if err != nil {
		return nil, err
	}

	sem := r.guard(ref)
	if !sem.TryAcquire(1) {
		return nil, apierr.AlreadyRunning(fmt.Sprintf("a live simulation for %s is already running", ref))
	}
	defer sem.Release(1)

	start := time.Now()
	results, err := r.api.SimulateLive(ctx, sess.Token, ref)
	if err != nil {
		return nil, r.classify(ctx, sess.Token, err)
	}

	slog.Info("Live simulation complete",
		"repository", ref.String(),
		"candidates", len(results),
		"duration", time.Since(start))
	return results, nil
}

func (r *Runner) guard(ref models.RepositoryRef) *semaphore.Weighted {
	r.mu.Lock()
	defer r.mu.Unlock()

	sem, ok := r.running[ref]
	if !ok {
		sem = semaphore.NewWeighted(1)
		r.running[ref] = sem
	}
	return sem
}

// classify refines client errors: a backend failure reply is an optimization
// error, a rejected token clears the session, transport failures stay network.
func (r *Runner) classify(ctx context.Context, token string, err error) error {
	switch {
	case apierr.IsKind(err, apierr.KindAuth):
		if token != "" && ctx.Err() == nil {
			r.sessions.Invalidate(token)
		}
		return err
	case apierr.IsKind(err, apierr.KindNetwork) && apierr.StatusOf(err) >= 400:
		return apierr.Reclassify(err, apierr.KindOptimization)
	default:
		return err
	}
}
