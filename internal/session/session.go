package session

import (
	"errors"
	"sync"

	"github.com/viral-studio/internal/models"
)

// State is the phase of the single active selection
type State int

const (
	// Empty: no case selected
	Empty State = iota
	// CaseSelected: a case is chosen, no analysis yet
	CaseSelected
	// Analyzed: case and analysis result both present
	Analyzed
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case CaseSelected:
		return "case_selected"
	case Analyzed:
		return "analyzed"
	}
	return "unknown"
}

// Errors returned by invalid transitions
var (
	ErrNoSelection = errors.New("no case selected")
)

// Session holds the one active case selection and its analysis result for
// a single logical user session. An analysis result is meaningful only in
// combination with the case it was derived from, so every transition that
// changes the selection discards the result atomically.
type Session struct {
	mu       sync.Mutex
	state    State
	selected *models.Case
	analysis *models.AnalysisResult
}

// New creates an empty session
func New() *Session {
	return &Session{state: Empty}
}

// State returns the current phase
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Select makes c the active case. From any state this lands in
// CaseSelected and discards any prior analysis result, so a result is
// never shown paired with the wrong case.
func (s *Session) Select(c *models.Case) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = c
	s.analysis = nil
	s.state = CaseSelected
}

// Selected returns the active case, if any
func (s *Session) Selected() (*models.Case, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.selected != nil
}

// SetAnalysis records a completed analysis for the active case, moving
// CaseSelected to Analyzed. It fails when no case is selected; a pipeline
// must never attach a result to nothing.
func (s *Session) SetAnalysis(result *models.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Empty || s.selected == nil {
		return ErrNoSelection
	}
	s.analysis = result
	s.state = Analyzed
	return nil
}

// Analysis returns the cached analysis result for the active case, if any
func (s *Session) Analysis() (*models.AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis, s.analysis != nil
}
