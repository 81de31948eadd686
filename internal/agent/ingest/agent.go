package ingest

import (
	"context"
	"time"

	"github.com/viral-studio/internal/casestore"
	"github.com/viral-studio/internal/models"
	"github.com/viral-studio/internal/source"
	"github.com/viral-studio/pkg/logger"
)

// Agent handles bulk import of candidate cases from acquisition sources
type Agent struct {
	sourceManager *source.Manager
	repository    casestore.Repository
	log           *logger.Logger
}

// NewAgent creates a new ingest agent
func NewAgent(sourceManager *source.Manager, repository casestore.Repository, log *logger.Logger) *Agent {
	return &Agent{
		sourceManager: sourceManager,
		repository:    repository,
		log:           log.WithComponent("ingest"),
	}
}

// Result contains the results of an ingest run
type Result struct {
	CasesFound   int
	CasesSaved   int
	CasesSkipped int
	Errors       []error
	Duration     time.Duration
}

// Run fetches candidate cases from every registered source, drops
// duplicates and appends the rest to the case repository.
func (a *Agent) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()
	result := &Result{}

	a.log.Info().Msg("Starting case ingest")

	rawCases, fetchErrors := a.sourceManager.FetchAll(ctx)
	result.Errors = append(result.Errors, fetchErrors...)
	result.CasesFound = len(rawCases)

	a.log.Info().
		Int("cases_found", len(rawCases)).
		Int("fetch_errors", len(fetchErrors)).
		Msg("Fetched candidate cases")

	if len(rawCases) == 0 {
		result.Duration = time.Since(startTime)
		return result, nil
	}

	unique, err := a.deduplicate(ctx, rawCases)
	if err != nil {
		result.Errors = append(result.Errors, err)
		result.Duration = time.Since(startTime)
		return result, err
	}

	a.log.Info().
		Int("unique_cases", len(unique)).
		Int("duplicates_removed", len(rawCases)-len(unique)).
		Msg("Deduplicated candidate cases")

	now := time.Now()
	for _, raw := range unique {
		id, err := a.repository.Append(ctx, raw.ToCase(now))
		if err != nil {
			a.log.Warn().
				Err(err).
				Str("title", raw.Title).
				Msg("Failed to save case")
			result.CasesSkipped++
			continue
		}
		a.log.Debug().Str("case_id", id).Str("title", raw.Title).Msg("Imported case")
		result.CasesSaved++
	}

	result.Duration = time.Since(startTime)

	a.log.Info().
		Int("cases_saved", result.CasesSaved).
		Int("cases_skipped", result.CasesSkipped).
		Dur("duration", result.Duration).
		Msg("Ingest completed")

	return result, nil
}

// deduplicate drops candidates already seen in this batch or already
// present in the repository, keyed on the platform+link fingerprint
func (a *Agent) deduplicate(ctx context.Context, rawCases []*models.RawCase) ([]*models.RawCase, error) {
	existing, err := a.repository.Load(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[source.Fingerprint(c.Platform, c.Link)] = true
	}

	unique := make([]*models.RawCase, 0, len(rawCases))
	for _, raw := range rawCases {
		fp := source.Fingerprint(raw.Platform, raw.Link)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		unique = append(unique, raw)
	}

	return unique, nil
}
