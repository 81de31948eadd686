package models

import (
	"fmt"
	"sort"
)

// Dimension is one named axis of content-quality scoring
type Dimension string

const (
	DimensionThemeFit           Dimension = "theme_fit"
	DimensionCoreThesis         Dimension = "core_thesis"
	DimensionFormat             Dimension = "format"
	DimensionNarrativeAngle     Dimension = "narrative_angle"
	DimensionNarrativeStructure Dimension = "narrative_structure"
	DimensionHeadline           Dimension = "headline"
	DimensionContentDensity     Dimension = "content_density"
	DimensionEmotionalTrigger   Dimension = "emotional_trigger"
)

// Dimensions lists every scoring dimension in canonical order. The order
// doubles as the tie-break priority when ranking dimensions by score.
var Dimensions = []Dimension{
	DimensionThemeFit,
	DimensionCoreThesis,
	DimensionFormat,
	DimensionNarrativeAngle,
	DimensionNarrativeStructure,
	DimensionHeadline,
	DimensionContentDensity,
	DimensionEmotionalTrigger,
}

// priority maps each dimension to its canonical rank
var priority = func() map[Dimension]int {
	m := make(map[Dimension]int, len(Dimensions))
	for i, d := range Dimensions {
		m[d] = i
	}
	return m
}()

// RadarScores maps every scoring dimension to an integer score in [0,100]
type RadarScores map[Dimension]int

// Validate checks that the score set contains exactly the canonical
// dimensions with values in [0,100].
func (r RadarScores) Validate() error {
	if len(r) != len(Dimensions) {
		return fmt.Errorf("expected %d dimensions, got %d", len(Dimensions), len(r))
	}
	for _, d := range Dimensions {
		score, ok := r[d]
		if !ok {
			return fmt.Errorf("missing dimension %q", d)
		}
		if score < 0 || score > 100 {
			return fmt.Errorf("dimension %q score %d out of range [0,100]", d, score)
		}
	}
	return nil
}

// Top returns the n highest-scoring dimensions in descending score order.
// Equal scores rank by canonical dimension order.
func (r RadarScores) Top(n int) []Dimension {
	ranked := make([]Dimension, 0, len(r))
	for _, d := range Dimensions {
		if _, ok := r[d]; ok {
			ranked = append(ranked, d)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if r[ranked[i]] != r[ranked[j]] {
			return r[ranked[i]] > r[ranked[j]]
		}
		return priority[ranked[i]] < priority[ranked[j]]
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// AnalysisResult is the scoring pipeline's output for exactly one case.
// It lives only in session state and is never persisted.
type AnalysisResult struct {
	RadarScores      RadarScores `json:"radar_scores"`
	DetailedAnalysis string      `json:"detailed_analysis"`
	Highlights       string      `json:"highlights"`
}
