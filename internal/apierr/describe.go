// ABOUTME: Maps errors to a displayable message and a recovery action
// ABOUTME: Used by the workflow view model and the CLI commands

package apierr

// Recovery is the action offered to the user after a failure.
type Recovery string

const (
	RecoveryNone  Recovery = ""
	RecoveryLogin Recovery = "login"
	RecoveryRetry Recovery = "retry"
)

// Display is a user-facing rendition of an error.
type Display struct {
	Title    string
	Message  string
	Recovery Recovery
}

// Describe maps any error to a display message and recovery action.
func Describe(err error) Display {
	if err == nil {
		return Display{}
	}

	msg := err.Error()
	switch KindOf(err) {
	case KindAuth:
		return Display{Title: "Not authenticated", Message: msg, Recovery: RecoveryLogin}
	case KindConfigNotFound:
		return Display{Title: "Configuration not found", Message: msg, Recovery: RecoveryRetry}
	case KindValidation:
		return Display{Title: "Rejected by backend", Message: msg, Recovery: RecoveryRetry}
	case KindAlreadyRunning:
		return Display{Title: "Simulation already running", Message: msg, Recovery: RecoveryRetry}
	case KindOptimization:
		return Display{Title: "Analysis failed", Message: msg, Recovery: RecoveryRetry}
	default:
		return Display{Title: "Request failed", Message: msg, Recovery: RecoveryRetry}
	}
}
