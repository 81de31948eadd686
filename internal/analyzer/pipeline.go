package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/viral-studio/internal/models"
	"github.com/viral-studio/internal/session"
	"github.com/viral-studio/pkg/logger"
)

// Gateway is the model-facing contract the pipeline depends on. *ai.Client
// implements it; tests substitute a stub.
type Gateway interface {
	ScoreDimensions(ctx context.Context, cs *models.Case) (models.RadarScores, error)
	ExplainTopDimensions(ctx context.Context, cs *models.Case, scores models.RadarScores) (string, error)
	DistillHighlights(ctx context.Context, explanation string) (string, error)
}

// Pipeline runs the three-stage scoring chain for the session's selected
// case. The chain is strictly ordered and all-or-nothing: a failure at any
// stage caches nothing, and the next attempt starts again from stage 1.
type Pipeline struct {
	gateway      Gateway
	stageTimeout time.Duration
	log          *logger.Logger
}

// NewPipeline creates a scoring pipeline. stageTimeout bounds each model
// call; zero means no bound beyond what the gateway enforces.
func NewPipeline(gateway Gateway, stageTimeout time.Duration, log *logger.Logger) *Pipeline {
	return &Pipeline{
		gateway:      gateway,
		stageTimeout: stageTimeout,
		log:          log.WithComponent("analyzer"),
	}
}

// stageCtx derives a bounded context for one stage call
func (p *Pipeline) stageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.stageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.stageTimeout)
}

// Analyze produces the analysis result for the session's selected case.
// Once a result exists for the current selection it is reused without
// touching the model again; a new selection forces a fresh run.
func (p *Pipeline) Analyze(ctx context.Context, sess *session.Session) (*models.AnalysisResult, error) {
	cs, ok := sess.Selected()
	if !ok {
		return nil, session.ErrNoSelection
	}

	if cached, ok := sess.Analysis(); ok {
		p.log.Debug().Str("case_id", cs.ID).Msg("Reusing cached analysis")
		return cached, nil
	}

	start := time.Now()
	log := p.log.WithCaseID(cs.ID)
	log.Info().Str("title", cs.Title).Msg("Starting analysis")

	// Stage 1: dimension scoring
	stage1Ctx, cancel1 := p.stageCtx(ctx)
	scores, err := p.gateway.ScoreDimensions(stage1Ctx, cs)
	cancel1()
	if err != nil {
		log.Error().Err(err).Msg("Dimension scoring failed")
		return nil, fmt.Errorf("dimension scoring: %w", err)
	}

	// Stage 2: attribution explanation for the top-scoring dimensions
	stage2Ctx, cancel2 := p.stageCtx(ctx)
	explanation, err := p.gateway.ExplainTopDimensions(stage2Ctx, cs, scores)
	cancel2()
	if err != nil {
		log.Error().Err(err).Msg("Attribution explanation failed")
		return nil, fmt.Errorf("attribution explanation: %w", err)
	}

	// Stage 3: highlight distillation
	stage3Ctx, cancel3 := p.stageCtx(ctx)
	highlights, err := p.gateway.DistillHighlights(stage3Ctx, explanation)
	cancel3()
	if err != nil {
		log.Error().Err(err).Msg("Highlight distillation failed")
		return nil, fmt.Errorf("highlight distillation: %w", err)
	}

	result := &models.AnalysisResult{
		RadarScores:      scores,
		DetailedAnalysis: explanation,
		Highlights:       highlights,
	}

	if err := sess.SetAnalysis(result); err != nil {
		return nil, err
	}

	log.Info().
		Dur("duration", time.Since(start)).
		Msg("Analysis completed")

	return result, nil
}
