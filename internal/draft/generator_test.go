package draft

import (
	"errors"
	"strings"
	"testing"

	"github.com/viral-studio/internal/models"
)

func TestGenerate_MissingTheme(t *testing.T) {
	for _, theme := range []string{"", "   ", "\n\t"} {
		if _, err := Generate(Input{Theme: theme}); !errors.Is(err, ErrMissingTheme) {
			t.Errorf("Generate(theme=%q) error = %v, want ErrMissingTheme", theme, err)
		}
	}
}

func TestGenerate_IncludesAllSections(t *testing.T) {
	out, err := Generate(Input{
		Theme:      "Tariff fallout",
		Background: "Aimed at small exporters",
		References: []*models.Case{
			{ID: "VC0001", Title: "How tariffs hit my shop"},
			{ID: "VC0002", Title: "Three moves before the deadline"},
		},
		Highlights: "1. Lead with a concrete loss figure",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for _, want := range []string{
		"## Draft: Tariff fallout",
		"How tariffs hit my shop, Three moves before the deadline",
		"**Background**: Aimed at small exporters",
		"**Strategy**:\n1. Lead with a concrete loss figure",
		"To be written.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("draft missing %q:\n%s", want, out)
		}
	}
}

func TestGenerate_OmitsStrategyWithoutHighlights(t *testing.T) {
	out, err := Generate(Input{Theme: "Anything", Highlights: "  "})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if strings.Contains(out, "**Strategy**") {
		t.Errorf("draft contains a strategy section without highlights:\n%s", out)
	}
}

func TestGenerate_NoReferences(t *testing.T) {
	out, err := Generate(Input{Theme: "Cold start"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(out, "## Draft: Cold start") {
		t.Errorf("draft missing heading:\n%s", out)
	}
}
