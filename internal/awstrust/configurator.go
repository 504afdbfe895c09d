// ABOUTME: Reads and stores the user's AWS cross-account trust settings
// ABOUTME: The backend is the only validator of role ARNs

package awstrust

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/optifuse/optifuse-cli/internal/apierr"
	"github.com/optifuse/optifuse-cli/internal/client"
	"github.com/optifuse/optifuse-cli/internal/models"
)

const defaultSavedMessage = "Settings updated successfully."

// API is the subset of the backend client used for profile settings
type API interface {
	GetProfile(ctx context.Context, token string) (*models.Profile, error)
	SaveRoleARN(ctx context.Context, token, roleARN string) (*client.SaveProfileResponse, error)
}

// Sessions gates profile access on a stored session
type Sessions interface {
	Require() (models.Session, error)
	Invalidate(token string) bool
}

// Configurator holds the last known AWS integration of the user
type Configurator struct {
	api      API
	sessions Sessions

	mu          sync.RWMutex
	profile     models.Profile
	integration models.AWSIntegration
	loaded      bool
}

// New creates a configurator
func New(api API, sessions Sessions) *Configurator {
	return &Configurator{api: api, sessions: sessions}
}

// FetchProfile loads the profile and keeps its AWS integration in memory
func (c *Configurator) FetchProfile(ctx context.Context) (models.AWSIntegration, error) {
	sess, err := c.sessions.Require()
	if err != nil {
		return models.AWSIntegration{}, err
	}

	profile, err := c.api.GetProfile(ctx, sess.Token)
	if err != nil {
		return models.AWSIntegration{}, c.classify(ctx, sess.Token, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = *profile
	c.integration = profile.Integration()
	c.loaded = true

	slog.Debug("Profile loaded", "connected", c.integration.Connected())
	return c.integration, nil
}

// SaveRoleARN stores roleARN on the backend. The value is sent as entered;
// a rejection is returned as a validation error carrying the backend reason.
// The in-memory integration changes only after the backend confirms.
func (c *Configurator) SaveRoleARN(ctx context.Context, roleARN string) (string, error) {
	sess, err := c.sessions.Require()
	if err != nil {
		return "", err
	}

	resp, err := c.api.SaveRoleARN(ctx, sess.Token, roleARN)
	if err != nil {
		return "", c.classify(ctx, sess.Token, err)
	}

	c.mu.Lock()
	saved := roleARN
	c.integration.RoleARN = &saved
	c.profile.AWSRoleARN = &saved
	c.mu.Unlock()

	slog.Info("Role ARN saved")
	if resp.Message == "" {
		return defaultSavedMessage, nil
	}
	return resp.Message, nil
}

// Current returns the in-memory integration; ok is false before the first FetchProfile
func (c *Configurator) Current() (models.AWSIntegration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.integration, c.loaded
}

// Profile returns the last fetched profile
func (c *Configurator) Profile() (models.Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile, c.loaded
}

func (c *Configurator) classify(ctx context.Context, token string, err error) error {
	switch {
	case apierr.IsKind(err, apierr.KindAuth):
		if ctx.Err() == nil {
			c.sessions.Invalidate(token)
		}
		return err
	case apierr.StatusOf(err) == http.StatusBadRequest:
		return apierr.Reclassify(err, apierr.KindValidation)
	default:
		return err
	}
}
