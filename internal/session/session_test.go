package session

import (
	"errors"
	"testing"

	"github.com/viral-studio/internal/models"
)

func TestNewSessionIsEmpty(t *testing.T) {
	s := New()
	if s.State() != Empty {
		t.Errorf("State() = %v, want Empty", s.State())
	}
	if _, ok := s.Selected(); ok {
		t.Error("Selected() reported a case on an empty session")
	}
	if _, ok := s.Analysis(); ok {
		t.Error("Analysis() reported a result on an empty session")
	}
}

func TestSelectLandsInCaseSelected(t *testing.T) {
	s := New()
	s.Select(&models.Case{ID: "VC0001"})

	if s.State() != CaseSelected {
		t.Errorf("State() = %v, want CaseSelected", s.State())
	}
	selected, ok := s.Selected()
	if !ok || selected.ID != "VC0001" {
		t.Errorf("Selected() = %v, %v", selected, ok)
	}
}

func TestSetAnalysisRequiresSelection(t *testing.T) {
	s := New()
	err := s.SetAnalysis(&models.AnalysisResult{})
	if !errors.Is(err, ErrNoSelection) {
		t.Errorf("SetAnalysis() on empty session error = %v, want ErrNoSelection", err)
	}
}

func TestSetAnalysisMovesToAnalyzed(t *testing.T) {
	s := New()
	s.Select(&models.Case{ID: "VC0001"})

	result := &models.AnalysisResult{Highlights: "three things"}
	if err := s.SetAnalysis(result); err != nil {
		t.Fatalf("SetAnalysis() error = %v", err)
	}

	if s.State() != Analyzed {
		t.Errorf("State() = %v, want Analyzed", s.State())
	}
	got, ok := s.Analysis()
	if !ok || got.Highlights != "three things" {
		t.Errorf("Analysis() = %v, %v", got, ok)
	}
}

func TestSelectDiscardsPriorAnalysis(t *testing.T) {
	s := New()
	s.Select(&models.Case{ID: "VC0001"})
	if err := s.SetAnalysis(&models.AnalysisResult{Highlights: "from A"}); err != nil {
		t.Fatalf("SetAnalysis() error = %v", err)
	}

	// Selecting case B must never leave A's result visible
	s.Select(&models.Case{ID: "VC0002"})

	if s.State() != CaseSelected {
		t.Errorf("State() after reselect = %v, want CaseSelected", s.State())
	}
	if _, ok := s.Analysis(); ok {
		t.Error("Analysis() still present after selecting a different case")
	}
	selected, _ := s.Selected()
	if selected.ID != "VC0002" {
		t.Errorf("Selected().ID = %s, want VC0002", selected.ID)
	}
}

func TestReselectSameCaseStillDiscards(t *testing.T) {
	c := &models.Case{ID: "VC0001"}
	s := New()
	s.Select(c)
	if err := s.SetAnalysis(&models.AnalysisResult{}); err != nil {
		t.Fatalf("SetAnalysis() error = %v", err)
	}

	s.Select(c)
	if s.State() != CaseSelected {
		t.Errorf("State() = %v, want CaseSelected", s.State())
	}
	if _, ok := s.Analysis(); ok {
		t.Error("Analysis() survived a re-selection")
	}
}
