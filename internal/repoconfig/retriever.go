// ABOUTME: Retrieves a repository's deployment configuration document
// ABOUTME: Distinguishes a missing document from auth and transport failures

package repoconfig

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/optifuse/optifuse-cli/internal/apierr"
	"github.com/optifuse/optifuse-cli/internal/models"
)

// DefaultFilename is the configuration file the backend reads from a repository
const DefaultFilename = "serverless.yml"

// API is the subset of the backend client used for retrieval
type API interface {
	ListRepositories(ctx context.Context, token string) ([]models.Repository, error)
	GetConfigFile(ctx context.Context, token string, ref models.RepositoryRef) (*models.ConfigDocument, error)
}

// Sessions gates every retrieval on a stored session
type Sessions interface {
	Require() (models.Session, error)
	Invalidate(token string) bool
}

// Retriever fetches configuration documents and repository listings
type Retriever struct {
	api      API
	sessions Sessions
}

// New creates a retriever
func New(api API, sessions Sessions) *Retriever {
	return &Retriever{api: api, sessions: sessions}
}

// Fetch returns the configuration document of ref
func (r *Retriever) Fetch(ctx context.Context, ref models.RepositoryRef) (*models.ConfigDocument, error) {
	sess, err := r.sessions.Require()
	if err != nil {
		return nil, err
	}

	doc, err := r.api.GetConfigFile(ctx, sess.Token, ref)
	if err != nil {
		return nil, r.classify(ctx, sess, ref, err)
	}
	if doc.Filename == "" {
		doc.Filename = DefaultFilename
	}

	slog.Debug("Configuration fetched", "repository", ref.String(), "filename", doc.Filename, "bytes", len(doc.Content))
	return doc, nil
}

// List returns the repositories visible to the current session
func (r *Retriever) List(ctx context.Context) ([]models.Repository, error) {
	sess, err := r.sessions.Require()
	if err != nil {
		return nil, err
	}

	repos, err := r.api.ListRepositories(ctx, sess.Token)
	if err != nil {
		if apierr.IsKind(err, apierr.KindAuth) && ctx.Err() == nil {
			r.sessions.Invalidate(sess.Token)
		}
		return nil, err
	}
	return repos, nil
}

func (r *Retriever) classify(ctx context.Context, sess models.Session, ref models.RepositoryRef, err error) error {
	switch {
	case apierr.IsKind(err, apierr.KindAuth):
		if ctx.Err() == nil {
			r.sessions.Invalidate(sess.Token)
		}
		return err
	case apierr.StatusOf(err) == http.StatusNotFound:
		return apierr.ConfigNotFound(fmt.Sprintf("%s not found in %s", DefaultFilename, ref)).
			WithStatus(http.StatusNotFound)
	default:
		return err
	}
}
