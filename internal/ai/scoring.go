package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/viral-studio/internal/models"
)

// ErrMalformedOutput means the model's response could not be parsed into
// the required schema. Treated like any other gateway failure: the run
// aborts and nothing is cached.
var ErrMalformedOutput = errors.New("malformed model output")

// stripMarkdownCodeBlock removes markdown code block delimiters from AI responses
func stripMarkdownCodeBlock(response string) string {
	response = strings.TrimSpace(response)

	// Find the first { which starts valid JSON
	startIdx := strings.Index(response, "{")
	if startIdx == -1 {
		return response
	}

	// Find the last } which ends valid JSON
	endIdx := strings.LastIndex(response, "}")
	if endIdx == -1 || endIdx < startIdx {
		return response
	}

	// Extract just the JSON object
	return response[startIdx : endIdx+1]
}

// scoringResponse is the wire shape of a stage-1 response. Values arrive
// as arbitrary JSON numbers and are coerced to int by truncation.
type scoringResponse struct {
	RadarScores map[string]float64 `json:"radar_scores"`
}

// parseRadarScores validates a stage-1 response against the fixed schema:
// exactly the canonical dimension set, every value a number in [0,100].
func parseRadarScores(response string) (models.RadarScores, error) {
	var parsed scoringResponse
	if err := json.Unmarshal([]byte(stripMarkdownCodeBlock(response)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if parsed.RadarScores == nil {
		return nil, fmt.Errorf("%w: missing radar_scores object", ErrMalformedOutput)
	}

	scores := make(models.RadarScores, len(models.Dimensions))
	for name, value := range parsed.RadarScores {
		scores[models.Dimension(name)] = int(value)
	}
	if err := scores.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return scores, nil
}

// ScoreDimensions runs the first pipeline stage: score the case along the
// fixed dimension set via a structured response.
func (c *Client) ScoreDimensions(ctx context.Context, cs *models.Case) (models.RadarScores, error) {
	userPrompt := fmt.Sprintf(ScoringUserPrompt,
		cs.Platform,
		cs.Title,
		cs.Author,
		cs.Content,
		cs.CanonicalPublishTime(),
	)

	response, err := c.CompleteWithJSON(ctx, ScoringSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	scores, err := parseRadarScores(response)
	if err != nil {
		c.log.Error().
			Err(err).
			Str("response", response).
			Msg("Failed to parse scoring response")
		return nil, err
	}

	return scores, nil
}

// ExplainTopDimensions runs the second pipeline stage: explain why the 3
// highest-scoring dimensions scored highly. The output is unstructured
// prose; the only validation is that it is non-empty.
func (c *Client) ExplainTopDimensions(ctx context.Context, cs *models.Case, scores models.RadarScores) (string, error) {
	top := scores.Top(3)
	topNames := make([]string, len(top))
	for i, d := range top {
		topNames[i] = fmt.Sprintf("%s (%d)", d, scores[d])
	}

	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return "", fmt.Errorf("failed to encode scores: %w", err)
	}

	userPrompt := fmt.Sprintf(ExplanationUserPrompt,
		cs.Platform,
		cs.Title,
		cs.Author,
		cs.Content,
		cs.CanonicalPublishTime(),
		string(scoresJSON),
		strings.Join(topNames, ", "),
	)

	response, err := c.Complete(ctx, ExplanationSystemPrompt, userPrompt)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(response) == "" {
		c.log.Error().Msg("Empty explanation response")
		return "", fmt.Errorf("%w: empty explanation", ErrMalformedOutput)
	}

	return response, nil
}

// DistillHighlights runs the third pipeline stage: compress the full
// explanation into exactly 3 reusable takeaways.
func (c *Client) DistillHighlights(ctx context.Context, explanation string) (string, error) {
	userPrompt := fmt.Sprintf(HighlightsUserPrompt, explanation)

	response, err := c.Complete(ctx, HighlightsSystemPrompt, userPrompt)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(response) == "" {
		c.log.Error().Msg("Empty highlights response")
		return "", fmt.Errorf("%w: empty highlights", ErrMalformedOutput)
	}

	return response, nil
}
