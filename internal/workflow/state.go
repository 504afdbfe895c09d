// ABOUTME: Workflow states and optimization modes
// ABOUTME: Retrieval and optimization phases of one repository workflow

package workflow

// State is a step of the repository workflow
type State int

const (
	Idle State = iota
	FetchingConfig
	ConfigReady
	ConfigNotFound
	ConfigError
	Optimizing
	OptimizationReady
	OptimizationError
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FetchingConfig:
		return "fetching_config"
	case ConfigReady:
		return "config_ready"
	case ConfigNotFound:
		return "config_not_found"
	case ConfigError:
		return "config_error"
	case Optimizing:
		return "optimizing"
	case OptimizationReady:
		return "optimization_ready"
	case OptimizationError:
		return "optimization_error"
	default:
		return "unknown"
	}
}

// InFlight reports whether a request is outstanding in this state
func (s State) InFlight() bool {
	return s == FetchingConfig || s == Optimizing
}

// Terminal reports whether the state stays until Reset
func (s State) Terminal() bool {
	switch s {
	case ConfigNotFound, ConfigError, OptimizationReady, OptimizationError:
		return true
	}
	return false
}

// Mode selects how a fetched configuration is analyzed
type Mode int

const (
	// ModeStatic sends the document text for static optimization
	ModeStatic Mode = iota
	// ModeLive simulates fusion strategies against live cloud data
	ModeLive
)

func (m Mode) String() string {
	if m == ModeLive {
		return "live"
	}
	return "static"
}
