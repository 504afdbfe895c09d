// ABOUTME: Read-only view model of a workflow for rendering
// ABOUTME: Carries the data of the current state plus a display message and recovery action

package workflow

import (
	"fmt"

	"github.com/optifuse/optifuse-cli/internal/apierr"
	"github.com/optifuse/optifuse-cli/internal/models"
)

// NoFeasibleSolution is the status of a live simulation without a feasible candidate
const NoFeasibleSolution = "no feasible solution"

// View is a snapshot of a workflow
type View struct {
	State      State
	Ref        models.RepositoryRef
	Mode       Mode
	Document   *models.ConfigDocument
	Report     *models.OptimizationReport
	Candidates []models.CandidateResult
	Best       *models.CandidateResult
	Err        error
	Status     string
	Display    apierr.Display
}

// NoFeasible reports a finished live simulation that found no feasible candidate
func (v View) NoFeasible() bool {
	return v.State == OptimizationReady && v.Mode == ModeLive && v.Best == nil
}

// Snapshot returns the current view
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State:    c.state,
		Ref:      c.ref,
		Mode:     c.mode,
		Document: c.doc,
		Report:   c.report,
		Best:     c.best,
		Err:      c.err,
		Display:  apierr.Describe(c.err),
	}
	if c.candidates != nil {
		v.Candidates = append([]models.CandidateResult(nil), c.candidates...)
	}
	v.Status = status(v)
	return v
}

func status(v View) string {
	switch v.State {
	case Idle:
		return "idle"
	case FetchingConfig:
		return fmt.Sprintf("fetching configuration for %s", v.Ref)
	case ConfigReady:
		return "configuration ready"
	case Optimizing:
		if v.Mode == ModeLive {
			return "running live simulation"
		}
		return "optimizing configuration"
	case OptimizationReady:
		if v.Mode == ModeStatic {
			return "optimization complete"
		}
		if v.Best == nil {
			return NoFeasibleSolution
		}
		return fmt.Sprintf("best candidate: %s", v.Best.Name)
	case ConfigNotFound, ConfigError, OptimizationError:
		return v.Display.Message
	default:
		return v.State.String()
	}
}
