// ABOUTME: Tests for the session store
// ABOUTME: Covers acquire, persistence, clear and single invalidation

package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/optifuse/optifuse-cli/internal/apierr"
	"github.com/optifuse/optifuse-cli/internal/client"
)

type fakeExchanger struct {
	calls int
	resp  *client.AuthResponse
	err   error
}

func (f *fakeExchanger) ExchangeCode(ctx context.Context, code string) (*client.AuthResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestAcquire_PersistsToken(t *testing.T) {
	dir := t.TempDir()
	ex := &fakeExchanger{resp: &client.AuthResponse{Username: "octo", Token: "abc"}}
	s := New(dir, ex)

	sess, err := s.Acquire(context.Background(), "code-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Token != "abc" || sess.Username != "octo" {
		t.Errorf("unexpected session %+v", sess)
	}

	got, ok := s.Get()
	if !ok {
		t.Fatal("expected persisted session")
	}
	if got.Token != "abc" || got.Username != "octo" {
		t.Errorf("unexpected session from Get %+v", got)
	}

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatalf("expected session file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestGet_FromAnotherStoreHasNoUsername(t *testing.T) {
	dir := t.TempDir()
	first := New(dir, &fakeExchanger{resp: &client.AuthResponse{Username: "octo", Token: "abc"}})
	if _, err := first.Acquire(context.Background(), "code"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := New(dir, &fakeExchanger{})
	sess, ok := second.Get()
	if !ok {
		t.Fatal("expected session to be read from disk")
	}
	if sess.Token != "abc" {
		t.Errorf("expected token abc, got %q", sess.Token)
	}
	if sess.Username != "" {
		t.Errorf("expected username to stay in memory only, got %q", sess.Username)
	}
}

func TestAcquire_Failures(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		ex        *fakeExchanger
		wantCalls int
	}{
		{"empty code", "  ", &fakeExchanger{}, 0},
		{"rejected code", "bad", &fakeExchanger{err: apierr.Network("bad_verification_code").WithStatus(400)}, 1},
		{"unreachable", "code", &fakeExchanger{err: apierr.Network("cannot connect to backend")}, 1},
		{"empty token", "code", &fakeExchanger{resp: &client.AuthResponse{Username: "octo"}}, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(t.TempDir(), tc.ex)
			_, err := s.Acquire(context.Background(), tc.code)
			if !apierr.IsKind(err, apierr.KindAuth) {
				t.Errorf("expected auth error, got %v", err)
			}
			if tc.ex.calls != tc.wantCalls {
				t.Errorf("expected %d exchange calls, got %d", tc.wantCalls, tc.ex.calls)
			}
			if _, ok := s.Get(); ok {
				t.Error("expected no session after failed acquire")
			}
		})
	}
}

func TestRequire_NoSession(t *testing.T) {
	s := New(t.TempDir(), &fakeExchanger{})
	_, err := s.Require()
	if !apierr.IsKind(err, apierr.KindAuth) {
		t.Errorf("expected auth error, got %v", err)
	}
}

func TestClear(t *testing.T) {
	s := New(t.TempDir(), &fakeExchanger{resp: &client.AuthResponse{Token: "abc"}})
	if _, err := s.Acquire(context.Background(), "code"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.Get(); ok {
		t.Error("expected no session after Clear")
	}
	// Clearing twice is not an error
	if err := s.Clear(); err != nil {
		t.Errorf("expected second Clear to succeed, got %v", err)
	}
}

func TestInvalidate_ClearsOnce(t *testing.T) {
	s := New(t.TempDir(), &fakeExchanger{resp: &client.AuthResponse{Token: "abc"}})
	if _, err := s.Acquire(context.Background(), "code"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.Invalidate("abc") {
		t.Fatal("expected first invalidation to clear the session")
	}
	if s.Invalidate("abc") {
		t.Error("expected second invalidation to be a no-op")
	}
	if _, ok := s.Get(); ok {
		t.Error("expected no session after invalidation")
	}
}

func TestInvalidate_KeepsNewerSession(t *testing.T) {
	ex := &fakeExchanger{resp: &client.AuthResponse{Token: "old"}}
	s := New(t.TempDir(), ex)
	if _, err := s.Acquire(context.Background(), "code"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ex.resp = &client.AuthResponse{Token: "new"}
	if _, err := s.Acquire(context.Background(), "code-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Invalidate("old") {
		t.Error("expected stale token invalidation to be ignored")
	}
	sess, ok := s.Get()
	if !ok || sess.Token != "new" {
		t.Errorf("expected newer session to survive, got %+v (ok=%v)", sess, ok)
	}
}

func TestGet_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte("{oops"), 0600); err != nil {
		t.Fatal(err)
	}
	s := New(dir, &fakeExchanger{})
	if _, ok := s.Get(); ok {
		t.Error("expected corrupt session file to read as logged out")
	}
}

func TestAcquire_WrapsCause(t *testing.T) {
	cause := errors.New("boom")
	s := New(t.TempDir(), &fakeExchanger{err: cause})
	_, err := s.Acquire(context.Background(), "code")
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped, got %v", err)
	}
}

func TestAuthorizeURL(t *testing.T) {
	got, err := AuthorizeURL("abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://github.com/login/oauth/authorize?client_id=abc123&scope=read%3Auser%2Crepo"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	if _, err := AuthorizeURL(""); err == nil {
		t.Error("expected error without client ID")
	}
}
