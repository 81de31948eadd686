package source

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/viral-studio/internal/models"
)

// CaseSource defines the interface for bulk case acquisition sources
type CaseSource interface {
	// Name returns the unique name of this source
	Name() string

	// Platform returns the platform the source feeds cases for
	Platform() models.Platform

	// Fetch retrieves candidate cases from the source
	Fetch(ctx context.Context) ([]*models.RawCase, error)

	// HealthCheck verifies the source is accessible
	HealthCheck(ctx context.Context) error
}

// Fingerprint creates a stable identity for a candidate case based on its
// platform and link, used to skip duplicates across imports
func Fingerprint(platform models.Platform, link string) string {
	data := fmt.Sprintf("%s:%s", platform, link)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash[:16])
}

// Manager manages multiple case sources
type Manager struct {
	sources []CaseSource
}

// NewManager creates a new source manager
func NewManager() *Manager {
	return &Manager{
		sources: make([]CaseSource, 0),
	}
}

// Register adds a source to the manager
func (m *Manager) Register(source CaseSource) {
	m.sources = append(m.sources, source)
}

// GetSources returns all registered sources
func (m *Manager) GetSources() []CaseSource {
	return m.sources
}

// GetSourceByName returns a source by name
func (m *Manager) GetSourceByName(name string) CaseSource {
	for _, s := range m.sources {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// FetchAll fetches candidate cases from every registered source. Sources
// fail independently; one broken feed never blocks the rest.
func (m *Manager) FetchAll(ctx context.Context) ([]*models.RawCase, []error) {
	var all []*models.RawCase
	var errs []error

	for _, s := range m.sources {
		cases, err := s.Fetch(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("source %s: %w", s.Name(), err))
			continue
		}
		all = append(all, cases...)
	}

	return all, errs
}
