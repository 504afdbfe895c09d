// ABOUTME: Session store holding the persisted Optifuse API token
// ABOUTME: Only this package reads or writes the token file in the config directory

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/optifuse/optifuse-cli/internal/apierr"
	"github.com/optifuse/optifuse-cli/internal/client"
	"github.com/optifuse/optifuse-cli/internal/models"
)

// TokenKey is the single key persisted in the session file
const TokenKey = "optifuse_api_token"

const sessionFileName = "session.json"

// Exchanger trades a GitHub authorization code for an API token
type Exchanger interface {
	ExchangeCode(ctx context.Context, code string) (*client.AuthResponse, error)
}

// Store manages the one active session of this client
type Store struct {
	configDir string
	exchanger Exchanger

	mu sync.Mutex
	// username is known only for sessions acquired by this process
	username    string
	usernameFor string
	invalidated map[string]bool
}

// New creates a session store persisting under configDir
func New(configDir string, exchanger Exchanger) *Store {
	return &Store{
		configDir:   configDir,
		exchanger:   exchanger,
		invalidated: make(map[string]bool),
	}
}

// Path returns the session file location
func (s *Store) Path() string {
	return filepath.Join(s.configDir, sessionFileName)
}

// Acquire exchanges an authorization code for a session and persists it.
// Every failure of the exchange itself is reported as an auth error.
func (s *Store) Acquire(ctx context.Context, code string) (models.Session, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Session{}, apierr.Auth("no authorization code received from GitHub")
	}

	resp, err := s.exchanger.ExchangeCode(ctx, code)
	if err != nil {
		return models.Session{}, apierr.Auth("failed to authenticate with backend").
			WithStatus(apierr.StatusOf(err)).
			WithCause(err)
	}
	if resp.Token == "" {
		return models.Session{}, apierr.Auth("backend returned an empty token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(resp.Token); err != nil {
		return models.Session{}, fmt.Errorf("failed to persist session: %w", err)
	}
	s.username = resp.Username
	s.usernameFor = resp.Token
	delete(s.invalidated, resp.Token)

	slog.Info("Session acquired", "username", resp.Username)
	return models.Session{Token: resp.Token, Username: resp.Username}, nil
}

// Get reads the persisted session without any network call
func (s *Store) Get() (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.read()
	if err != nil || token == "" {
		return models.Session{}, false
	}

	sess := models.Session{Token: token}
	if s.usernameFor == token {
		sess.Username = s.username
	}
	return sess, true
}

// Require returns the current session or an auth error when there is none
func (s *Store) Require() (models.Session, error) {
	sess, ok := s.Get()
	if !ok {
		return models.Session{}, apierr.Auth("not logged in, run `optifuse login`")
	}
	return sess, nil
}

// Clear removes the persisted session
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.username = ""
	s.usernameFor = ""
	err := os.Remove(s.Path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Invalidate clears the session after the backend rejected token.
// It clears at most once per token and never touches a newer session.
// Returns true when the persisted session was removed.
func (s *Store) Invalidate(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" || s.invalidated[token] {
		return false
	}

	current, err := s.read()
	if err != nil || current != token {
		return false
	}

	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to remove invalidated session", "error", err)
		return false
	}
	s.invalidated[token] = true
	s.username = ""
	s.usernameFor = ""

	slog.Info("Session invalidated by backend")
	return true
}

// read returns the persisted token. A missing or unreadable file means no session.
func (s *Store) read() (string, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var stored map[string]string
	if err := json.Unmarshal(data, &stored); err != nil {
		// Invalid JSON, treat as logged out
		return "", nil
	}
	return stored[TokenKey], nil
}

// write persists token atomically with owner-only permissions
func (s *Store) write(token string) error {
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}

	data, err := json.Marshal(map[string]string{TokenKey: token})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.configDir, sessionFileName+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path())
}
