// ABOUTME: State machine for one repository's fetch and optimize workflow
// ABOUTME: Sequence numbers discard stale responses; Close discards everything after teardown

package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/optifuse/optifuse-cli/internal/apierr"
	"github.com/optifuse/optifuse-cli/internal/models"
	"github.com/optifuse/optifuse-cli/internal/selector"
)

// DefaultTimeout bounds every request issued by a workflow
const DefaultTimeout = 30 * time.Second

var (
	// ErrInvalidTransition is returned when a step is requested from the wrong state
	ErrInvalidTransition = errors.New("invalid workflow transition")
	// ErrClosed is returned after the workflow has been torn down
	ErrClosed = errors.New("workflow closed")
	// ErrDiscarded is returned by the drivers when a result arrived too late to apply
	ErrDiscarded = errors.New("result discarded")
)

// Ticket identifies one outstanding request. Ctx is canceled when the
// request is superseded, the workflow is reset or closed, or the timeout passes.
type Ticket struct {
	Seq      uint64
	Ctx      context.Context
	Ref      models.RepositoryRef
	Mode     Mode
	Document *models.ConfigDocument
}

// Option configures a Controller
type Option func(*Controller)

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// Controller sequences retrieval and optimization for one repository
type Controller struct {
	ref     models.RepositoryRef
	timeout time.Duration

	mu     sync.Mutex
	state  State
	seq    uint64
	cancel context.CancelFunc
	closed bool

	doc        *models.ConfigDocument
	mode       Mode
	report     *models.OptimizationReport
	candidates []models.CandidateResult
	best       *models.CandidateResult
	err        error
}

// New creates a controller for ref in the Idle state
func New(ref models.RepositoryRef, opts ...Option) *Controller {
	c := &Controller{ref: ref, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ref returns the repository this workflow belongs to
func (c *Controller) Ref() models.RepositoryRef {
	return c.ref
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// BeginFetch moves Idle to FetchingConfig and issues a ticket for the request
func (c *Controller) BeginFetch(parent context.Context) (Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Ticket{}, ErrClosed
	}
	if c.state != Idle {
		return Ticket{}, ErrInvalidTransition
	}

	t := c.issue(parent)
	c.state = FetchingConfig
	return t, nil
}

// CompleteFetch applies a retrieval result. It returns false when the result
// is stale and was discarded without changing state.
func (c *Controller) CompleteFetch(t Ticket, doc *models.ConfigDocument, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.current(t, FetchingConfig) {
		slog.Debug("Discarding stale fetch result", "repository", c.ref.String(), "seq", t.Seq)
		return false
	}
	c.release()

	switch {
	case err == nil && doc != nil:
		c.doc = doc
		c.state = ConfigReady
	case apierr.IsKind(err, apierr.KindConfigNotFound):
		c.err = err
		c.state = ConfigNotFound
	default:
		if err == nil {
			err = apierr.Network("empty configuration response")
		}
		c.err = err
		c.state = ConfigError
	}
	return true
}

// BeginOptimize moves ConfigReady to Optimizing. Any other state is an invalid transition.
func (c *Controller) BeginOptimize(parent context.Context, mode Mode) (Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Ticket{}, ErrClosed
	}
	if c.state != ConfigReady {
		return Ticket{}, ErrInvalidTransition
	}

	c.mode = mode
	t := c.issue(parent)
	c.state = Optimizing
	return t, nil
}

// CompleteStatic applies a static optimization result
func (c *Controller) CompleteStatic(t Ticket, report *models.OptimizationReport, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.current(t, Optimizing) || c.mode != ModeStatic {
		slog.Debug("Discarding stale optimization result", "repository", c.ref.String(), "seq", t.Seq)
		return false
	}
	c.release()

	if err != nil || report == nil {
		if err == nil {
			err = apierr.Optimization("empty optimization response")
		}
		c.err = err
		c.state = OptimizationError
		return true
	}
	c.report = report
	c.state = OptimizationReady
	return true
}

// CompleteLive applies a live simulation result and selects the best feasible candidate
func (c *Controller) CompleteLive(t Ticket, results []models.CandidateResult, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.current(t, Optimizing) || c.mode != ModeLive {
		slog.Debug("Discarding stale simulation result", "repository", c.ref.String(), "seq", t.Seq)
		return false
	}
	c.release()

	if err != nil {
		c.err = err
		c.state = OptimizationError
		return true
	}
	c.candidates = results
	if best, ok := selector.Select(results); ok {
		c.best = &best
	}
	c.state = OptimizationReady
	return true
}

// Reset cancels any outstanding request and returns to Idle
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.release()
	c.seq++
	c.state = Idle
	c.doc = nil
	c.report = nil
	c.candidates = nil
	c.best = nil
	c.err = nil
}

// Close tears the workflow down. The outstanding request is canceled and
// every later result is discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.release()
	c.seq++
	c.closed = true
}

// issue starts a new request. Callers hold mu.
func (c *Controller) issue(parent context.Context) Ticket {
	if parent == nil {
		parent = context.Background()
	}
	c.release()
	c.seq++
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	c.cancel = cancel
	c.err = nil
	return Ticket{Seq: c.seq, Ctx: ctx, Ref: c.ref, Mode: c.mode, Document: c.doc}
}

// current reports whether t is the latest ticket and the workflow still waits for it
func (c *Controller) current(t Ticket, inFlight State) bool {
	return !c.closed && t.Seq == c.seq && c.state == inFlight
}

func (c *Controller) release() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
