package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/viral-studio/internal/casestore"
	"github.com/viral-studio/internal/models"
	"github.com/viral-studio/pkg/logger"
)

// document is the on-disk shape of the store: a single JSON document with
// the ordered case collection under "cases"
type document struct {
	Cases []*models.Case `json:"cases"`
}

// Repository implements casestore.Repository on a single JSON document,
// read wholesale and written wholesale. A mutex serializes all access:
// the store assumes at most one writer at a time.
type Repository struct {
	path string
	mu   sync.Mutex
	log  *logger.Logger
}

// New creates a JSON file repository rooted at path
func New(path string, log *logger.Logger) (*Repository, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	return &Repository{
		path: path,
		log:  log.WithComponent("jsonfile-store"),
	}, nil
}

// Load returns the whole collection. A missing store is first-run
// bootstrap, not an error: the built-in seed collection is returned.
func (r *Repository) Load(ctx context.Context) ([]*models.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *Repository) load() ([]*models.Case, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		r.log.Debug().Str("path", r.path).Msg("No case store yet, using seed collection")
		return casestore.Seed(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", casestore.ErrStoreUnavailable, r.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", casestore.ErrStoreUnavailable, r.path, err)
	}
	return doc.Cases, nil
}

// Save overwrites the whole collection. The document is written to a
// temporary file and atomically renamed into place so a failed write never
// leaves the previous store truncated.
func (r *Repository) Save(ctx context.Context, cases []*models.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(cases)
}

func (r *Repository) save(cases []*models.Case) error {
	data, err := json.MarshalIndent(document{Cases: cases}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding: %v", casestore.ErrStoreWrite, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", casestore.ErrStoreWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", casestore.ErrStoreWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", casestore.ErrStoreWrite, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", casestore.ErrStoreWrite, err)
	}

	r.log.Debug().Int("cases", len(cases)).Str("path", r.path).Msg("Saved case store")
	return nil
}

// Append adds one case to the collection and persists it. A case without
// an id is assigned the next VC-numbered one; a caller-supplied id that
// collides with an existing case is rejected.
func (r *Repository) Append(ctx context.Context, c *models.Case) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cases, err := r.load()
	if err != nil {
		return "", err
	}

	if c.ID == "" {
		c.ID = casestore.NextCaseID(cases)
	} else {
		for _, existing := range cases {
			if existing.ID == c.ID {
				return "", fmt.Errorf("%w: %s", casestore.ErrDuplicateID, c.ID)
			}
		}
	}

	cases = append(cases, c)
	if err := r.save(cases); err != nil {
		return "", err
	}

	r.log.Info().Str("case_id", c.ID).Str("title", c.Title).Msg("Appended case")
	return c.ID, nil
}

// Query returns the filtered, ordered collection
func (r *Repository) Query(ctx context.Context, q casestore.Query) ([]*models.Case, error) {
	cases, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	return casestore.Apply(cases, q), nil
}

// FindByID returns the case with the given id
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Case, error) {
	cases, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range cases {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", casestore.ErrCaseNotFound, id)
}

// Close is a no-op for the file-backed store
func (r *Repository) Close() error {
	return nil
}
