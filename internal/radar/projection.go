package radar

import (
	"errors"
	"fmt"

	"github.com/viral-studio/internal/models"
)

// ErrUnknownDimension means a group asked for a dimension that is absent
// from the score mapping. This is a programmer error with well-formed
// analysis results and fails loudly rather than defaulting to 0.
var ErrUnknownDimension = errors.New("unknown dimension")

// Group is a named cluster of dimensions shown together in one
// visualization panel
type Group struct {
	Label      string
	Dimensions []models.Dimension
}

// Panel is one projected group with its resolved scores
type Panel struct {
	Label  string
	Scores map[models.Dimension]int
}

// DefaultGroups splits the dimensions into the macro/meso/micro panels
// used by the chart renderer
var DefaultGroups = []Group{
	{
		Label: "macro",
		Dimensions: []models.Dimension{
			models.DimensionThemeFit,
			models.DimensionCoreThesis,
		},
	},
	{
		Label: "meso",
		Dimensions: []models.Dimension{
			models.DimensionFormat,
			models.DimensionNarrativeAngle,
			models.DimensionNarrativeStructure,
		},
	},
	{
		Label: "micro",
		Dimensions: []models.Dimension{
			models.DimensionHeadline,
			models.DimensionContentDensity,
			models.DimensionEmotionalTrigger,
		},
	},
}

// Project splits a flat dimension score mapping into the given ordered
// groups. Pure and deterministic; safe to call repeatedly on the same
// analysis result.
func Project(scores models.RadarScores, groups []Group) ([]Panel, error) {
	panels := make([]Panel, 0, len(groups))
	for _, g := range groups {
		panel := Panel{
			Label:  g.Label,
			Scores: make(map[models.Dimension]int, len(g.Dimensions)),
		}
		for _, d := range g.Dimensions {
			score, ok := scores[d]
			if !ok {
				return nil, fmt.Errorf("%w: %q in group %q", ErrUnknownDimension, d, g.Label)
			}
			panel.Scores[d] = score
		}
		panels = append(panels, panel)
	}
	return panels, nil
}
