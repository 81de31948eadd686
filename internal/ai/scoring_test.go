package ai

import (
	"errors"
	"testing"

	"github.com/viral-studio/internal/models"
)

func validScoresJSON() string {
	return `{"radar_scores": {
		"theme_fit": 85,
		"core_thesis": 78,
		"format": 62,
		"narrative_angle": 70,
		"narrative_structure": 66,
		"headline": 91,
		"content_density": 55,
		"emotional_trigger": 88
	}}`
}

func TestParseRadarScores_Valid(t *testing.T) {
	scores, err := parseRadarScores(validScoresJSON())
	if err != nil {
		t.Fatalf("parseRadarScores() error = %v", err)
	}
	if scores[models.DimensionHeadline] != 91 {
		t.Errorf("headline = %d, want 91", scores[models.DimensionHeadline])
	}
	if scores[models.DimensionContentDensity] != 55 {
		t.Errorf("content_density = %d, want 55", scores[models.DimensionContentDensity])
	}
	if len(scores) != len(models.Dimensions) {
		t.Errorf("len(scores) = %d, want %d", len(scores), len(models.Dimensions))
	}
}

func TestParseRadarScores_MarkdownFenced(t *testing.T) {
	fenced := "```json\n" + validScoresJSON() + "\n```"
	scores, err := parseRadarScores(fenced)
	if err != nil {
		t.Fatalf("parseRadarScores() error = %v", err)
	}
	if scores[models.DimensionThemeFit] != 85 {
		t.Errorf("theme_fit = %d, want 85", scores[models.DimensionThemeFit])
	}
}

func TestParseRadarScores_SurroundingProse(t *testing.T) {
	wrapped := "Here are the scores:\n" + validScoresJSON() + "\nLet me know if you need more."
	if _, err := parseRadarScores(wrapped); err != nil {
		t.Fatalf("parseRadarScores() error = %v", err)
	}
}

func TestParseRadarScores_FractionalTruncates(t *testing.T) {
	scores, err := parseRadarScores(`{"radar_scores": {
		"theme_fit": 85.9,
		"core_thesis": 78.1,
		"format": 62,
		"narrative_angle": 70,
		"narrative_structure": 66,
		"headline": 91,
		"content_density": 55,
		"emotional_trigger": 88
	}}`)
	if err != nil {
		t.Fatalf("parseRadarScores() error = %v", err)
	}
	if scores[models.DimensionThemeFit] != 85 {
		t.Errorf("theme_fit = %d, want 85 (truncated)", scores[models.DimensionThemeFit])
	}
}

func TestParseRadarScores_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "the content scores highly on emotional resonance"},
		{"empty", ""},
		{"missing radar_scores key", `{"scores": {"headline": 80}}`},
		{"missing dimension", `{"radar_scores": {"headline": 80}}`},
		{"extra dimension", `{"radar_scores": {
			"theme_fit": 85, "core_thesis": 78, "format": 62,
			"narrative_angle": 70, "narrative_structure": 66,
			"headline": 91, "content_density": 55,
			"emotional_trigger": 88, "virality": 99
		}}`},
		{"score above range", `{"radar_scores": {
			"theme_fit": 185, "core_thesis": 78, "format": 62,
			"narrative_angle": 70, "narrative_structure": 66,
			"headline": 91, "content_density": 55, "emotional_trigger": 88
		}}`},
		{"negative score", `{"radar_scores": {
			"theme_fit": -5, "core_thesis": 78, "format": 62,
			"narrative_angle": 70, "narrative_structure": 66,
			"headline": 91, "content_density": 55, "emotional_trigger": 88
		}}`},
		{"non-numeric value", `{"radar_scores": {
			"theme_fit": "high", "core_thesis": 78, "format": 62,
			"narrative_angle": 70, "narrative_structure": 66,
			"headline": 91, "content_density": 55, "emotional_trigger": 88
		}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRadarScores(tt.response)
			if !errors.Is(err, ErrMalformedOutput) {
				t.Errorf("parseRadarScores() error = %v, want ErrMalformedOutput", err)
			}
		})
	}
}

func TestStripMarkdownCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain json", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced no language", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose around", "sure:\n{\"a\": 1}\ndone", `{"a": 1}`},
		{"no braces", "no json here", "no json here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripMarkdownCodeBlock(tt.input); got != tt.expected {
				t.Errorf("stripMarkdownCodeBlock() = %q, want %q", got, tt.expected)
			}
		})
	}
}
