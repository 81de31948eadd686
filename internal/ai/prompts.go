package ai

// Stage 1: dimension scoring
const (
	ScoringSystemPrompt = `You are an expert analyst of viral social-media content.

Your task is to score a published post's viral potential along 8 fixed dimensions, each 0-100:
- theme_fit: how well the content's theme fits the platform it was published on
- core_thesis: strength and clarity of the central point
- format: presentation style (documentary, explainer, vlog, thread...) and whether it stands out
- narrative_angle: the entry point and the connections it draws
- narrative_structure: whether the storytelling hooks (case teaching, flashback, escalating conflict...)
- headline: keyword density, emotional intensity, clarity, suspense/conflict design
- content_density: information density, meme density, twists
- emotional_trigger: how many empathy, controversy or payoff triggers, and where they sit`

	ScoringUserPrompt = `Score the following post on all 8 dimensions.

Platform: %s
Title: %s
Author: %s
Content: %s
Published: %s

Respond in JSON format:
{
  "radar_scores": {
    "theme_fit": <0-100>,
    "core_thesis": <0-100>,
    "format": <0-100>,
    "narrative_angle": <0-100>,
    "narrative_structure": <0-100>,
    "headline": <0-100>,
    "content_density": <0-100>,
    "emotional_trigger": <0-100>
  }
}
Return only the scores, no explanations.`
)

// Stage 2: attribution explanation for the top-scoring dimensions
const (
	ExplanationSystemPrompt = `You are an expert analyst of viral social-media content.

Given a post and its dimension scores, explain why the highest-scoring dimensions scored so highly. Ground every explanation in the post itself, not in generalities.`

	ExplanationUserPrompt = `Explain, per dimension, why each of these top-scoring dimensions drove this post's virality.

Platform: %s
Title: %s
Author: %s
Content: %s
Published: %s
Dimension scores: %s
Top dimensions to explain: %s

Output format:
1. [dimension] (score: XX)
   The reason, stated directly (150-200 words)
2. [dimension] (score: XX)
   The reason, stated directly (150-200 words)
3. [dimension] (score: XX)
   The reason, stated directly (150-200 words)`
)

// Stage 3: highlight distillation
const (
	HighlightsSystemPrompt = `You are an expert analyst of viral social-media content.

Given a detailed breakdown of why a post went viral, distill its three most reusable takeaways. Each takeaway must be short and transferable to new drafts, and tie back to the breakdown.`

	HighlightsUserPrompt = `Compress the following breakdown into exactly 3 short, reusable takeaways (50-80 words each).

Breakdown:
%s

Output format:
1. Takeaway, stated directly (50-80 words)
2. Takeaway, stated directly (50-80 words)
3. Takeaway, stated directly (50-80 words)`
)
