// ABOUTME: Tests for the error taxonomy and its display mapping
// ABOUTME: Covers kind matching through wrapping, reclassification and recovery actions

package apierr

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Message(t *testing.T) {
	err := Network("cannot connect").WithCause(errors.New("connection refused"))
	if err.Error() != "cannot connect: connection refused" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	if Auth("not logged in").Error() != "not logged in" {
		t.Error("expected message without cause to be returned as is")
	}
}

func TestKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("loading config: %w", ConfigNotFound("serverless.yml not found").WithStatus(404))

	if !IsKind(err, KindConfigNotFound) {
		t.Errorf("expected config_not_found, got %q", KindOf(err))
	}
	if StatusOf(err) != 404 {
		t.Errorf("expected status 404, got %d", StatusOf(err))
	}
	if !errors.Is(err, ConfigNotFound("")) {
		t.Error("expected errors.Is to match by kind")
	}
	if errors.Is(err, Auth("")) {
		t.Error("expected errors.Is not to match a different kind")
	}
}

func TestKindOf_PlainError(t *testing.T) {
	err := errors.New("boom")
	if KindOf(err) != "" || StatusOf(err) != 0 {
		t.Error("expected zero kind and status for a plain error")
	}
}

func TestReclassify(t *testing.T) {
	orig := Network("Invalid AWS Role ARN format.").WithStatus(400)

	err := Reclassify(orig, KindValidation)

	if !IsKind(err, KindValidation) {
		t.Errorf("expected validation, got %q", KindOf(err))
	}
	if err.Error() != "Invalid AWS Role ARN format." || StatusOf(err) != 400 {
		t.Errorf("expected message and status kept, got %q / %d", err.Error(), StatusOf(err))
	}
	if orig.Kind != KindNetwork {
		t.Error("expected the original error to be left unchanged")
	}

	plain := errors.New("boom")
	if Reclassify(plain, KindValidation) != plain {
		t.Error("expected non-apierr errors to pass through")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		recovery Recovery
	}{
		{name: "auth", err: Auth("session expired"), recovery: RecoveryLogin},
		{name: "not found", err: ConfigNotFound("missing"), recovery: RecoveryRetry},
		{name: "network", err: Network("request timed out"), recovery: RecoveryRetry},
		{name: "validation", err: Validation("bad arn"), recovery: RecoveryRetry},
		{name: "already running", err: AlreadyRunning("busy"), recovery: RecoveryRetry},
		{name: "optimization", err: Optimization("failed"), recovery: RecoveryRetry},
		{name: "plain", err: errors.New("boom"), recovery: RecoveryRetry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Describe(tt.err)
			if d.Recovery != tt.recovery {
				t.Errorf("expected recovery %q, got %q", tt.recovery, d.Recovery)
			}
			if d.Message != tt.err.Error() {
				t.Errorf("expected message %q, got %q", tt.err.Error(), d.Message)
			}
			if d.Title == "" {
				t.Error("expected a title")
			}
		})
	}

	if Describe(nil) != (Display{}) {
		t.Error("expected empty display for nil error")
	}
}
