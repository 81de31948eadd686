package casestore

import (
	"context"
	"errors"

	"github.com/viral-studio/internal/models"
)

// Sentinel errors for repository failures. Callers branch with errors.Is.
var (
	// ErrStoreUnavailable means the backing store exists but cannot be read
	ErrStoreUnavailable = errors.New("case store unavailable")

	// ErrStoreWrite means the store could not be written; the previous
	// contents are left intact
	ErrStoreWrite = errors.New("case store write failed")

	// ErrDuplicateID means an appended case carries an id already present
	// in the collection
	ErrDuplicateID = errors.New("duplicate case id")
)

// SortKey selects the ordering of query results
type SortKey int

const (
	SortNone SortKey = iota
	SortImpactDesc
	SortPublishDesc
	SortAddedDesc
)

// Query defines filtering and ordering of cases. An empty Platforms set
// matches nothing: an empty selection suppresses all rows rather than
// showing everything.
type Query struct {
	Platforms []models.Platform
	Keyword   string
	SortKey   SortKey
}

// DefaultQuery returns a query matching every supported platform
func DefaultQuery() Query {
	return Query{Platforms: models.Platforms}
}

// Repository defines the interface for the persisted case collection.
// Cases are only ever appended; there is no delete operation.
type Repository interface {
	// Load returns the whole collection, bootstrapping the built-in seed
	// collection when no store exists yet
	Load(ctx context.Context) ([]*models.Case, error)

	// Save overwrites the whole collection
	Save(ctx context.Context, cases []*models.Case) error

	// Append adds one case, assigning the next VC-numbered id when the
	// case carries none, and returns the id. A caller-supplied id that
	// already exists in the collection is rejected with ErrDuplicateID.
	Append(ctx context.Context, c *models.Case) (string, error)

	// Query returns the filtered, ordered collection
	Query(ctx context.Context, q Query) ([]*models.Case, error)

	// FindByID returns the case with the given id
	FindByID(ctx context.Context, id string) (*models.Case, error)

	Close() error
}

// ErrCaseNotFound is returned by FindByID for an unknown id
var ErrCaseNotFound = errors.New("case not found")
