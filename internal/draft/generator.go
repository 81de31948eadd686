package draft

import (
	"errors"
	"fmt"
	"strings"

	"github.com/viral-studio/internal/models"
)

// ErrMissingTheme means no draft theme was provided
var ErrMissingTheme = errors.New("draft theme is required")

// Input holds everything the draft skeleton substitutes. Highlights come
// from the cached analysis result when one exists and may be empty.
type Input struct {
	Theme      string
	Background string
	References []*models.Case
	Highlights string
}

// Generate renders the fixed draft skeleton. Pure string formatting with
// no state and no model call.
func Generate(in Input) (string, error) {
	if strings.TrimSpace(in.Theme) == "" {
		return "", ErrMissingTheme
	}

	titles := make([]string, 0, len(in.References))
	for _, c := range in.References {
		titles = append(titles, c.Title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Draft: %s\n\n", in.Theme)
	fmt.Fprintf(&b, "**Reference hits**: %s\n\n", strings.Join(titles, ", "))
	fmt.Fprintf(&b, "**Background**: %s\n\n", in.Background)
	if strings.TrimSpace(in.Highlights) != "" {
		fmt.Fprintf(&b, "**Strategy**:\n%s\n\n", in.Highlights)
	}
	b.WriteString("**Draft body**:\nTo be written.\n")

	return b.String(), nil
}
