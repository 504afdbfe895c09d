// ABOUTME: Remembers recently opened repositories for the TUI repository list
// ABOUTME: Persists owner/name references to recent.json in the config directory

package recent

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/optifuse/optifuse-cli/internal/models"
)

// MaxRecent is the maximum number of repositories remembered
const MaxRecent = 5

const fileName = "recent.json"

// Repositories manages the recently opened repository list
type Repositories struct {
	configDir string
	refs      []models.RepositoryRef
	loaded    bool
}

type recentData struct {
	Repositories []string `json:"repositories"`
}

// New creates a recent list stored under configDir
func New(configDir string) *Repositories {
	return &Repositories{configDir: configDir}
}

func (r *Repositories) path() string {
	return filepath.Join(r.configDir, fileName)
}

// Load reads the list from disk, skipping malformed entries
func (r *Repositories) Load() ([]models.RepositoryRef, error) {
	r.loaded = true
	r.refs = nil

	data, err := os.ReadFile(r.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stored recentData
	if err := json.Unmarshal(data, &stored); err != nil {
		// Invalid JSON, start fresh
		return nil, nil
	}

	for _, s := range stored.Repositories {
		ref, err := models.ParseRepositoryRef(s)
		if err != nil {
			continue
		}
		r.refs = append(r.refs, ref)
	}
	if len(r.refs) > MaxRecent {
		r.refs = r.refs[:MaxRecent]
	}
	return r.refs, nil
}

// Add moves ref to the front of the list and saves it
func (r *Repositories) Add(ref models.RepositoryRef) error {
	if !r.loaded {
		if _, err := r.Load(); err != nil {
			r.refs = nil
		}
	}

	refs := []models.RepositoryRef{ref}
	for _, existing := range r.refs {
		if existing != ref {
			refs = append(refs, existing)
		}
	}
	if len(refs) > MaxRecent {
		refs = refs[:MaxRecent]
	}
	r.refs = refs

	return r.save()
}

// List returns the current list, loading it on first use
func (r *Repositories) List() []models.RepositoryRef {
	if !r.loaded {
		r.Load()
	}
	return r.refs
}

// Rank returns the position of ref in the list, or -1
func (r *Repositories) Rank(ref models.RepositoryRef) int {
	for i, existing := range r.List() {
		if existing == ref {
			return i
		}
	}
	return -1
}

func (r *Repositories) save() error {
	if r.configDir == "" {
		return nil
	}
	if err := os.MkdirAll(r.configDir, 0700); err != nil {
		return err
	}

	stored := recentData{Repositories: make([]string, 0, len(r.refs))}
	for _, ref := range r.refs {
		stored.Repositories = append(stored.Repositories, ref.String())
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path(), data, 0600)
}
