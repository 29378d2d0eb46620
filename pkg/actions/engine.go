package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/pkg/logger"
	"copyforge-be/pkg/insights"
	"copyforge-be/pkg/llm"
	"copyforge-be/pkg/prompt"
	"copyforge-be/pkg/refine"
	"copyforge-be/pkg/scoring"
)

var (
	// ErrNoActiveVersion means the session has no content for the asset
	// type the action targets.
	ErrNoActiveVersion = errors.New("no active version for asset type")

	// ErrInsufficientEvidence means community research returned too little
	// practitioner material to ground a rewrite in.
	ErrInsufficientEvidence = errors.New("community research returned insufficient evidence")
)

const (
	actionTemperature = 0.6
	bannedPhraseLimit = 25

	// Community evidence below this length is useless for grounding and
	// far more likely to be a refusal or an error page summary.
	minCommunityEvidenceChars = 100
)

// VoiceInput is the resolved voice profile an action evaluates against.
type VoiceInput struct {
	Id          *uuid.UUID
	Name        string
	Guide       string
	BannedWords []string
	Thresholds  scoring.Thresholds
}

// Request carries the shared inputs of every workspace action.
type Request struct {
	SessionId     uuid.UUID
	AssetType     string
	Voice         VoiceInput
	Insights      *insights.ExtractedInsights
	ProductDocs   string
	PriorResearch string
	PainPoints    []string
	Model         string
}

// Result is what every action returns: the new version (nil when the
// action found no improvement) and the scores it started from, so callers
// can render a before/after delta.
type Result struct {
	Version        *entity.SessionVersion
	PreviousScores *scoring.ScoreResults
}

// VersionStore is the slice of the version service the engine needs.
// CreateVersionAndActivate is the sole mutation point of version lineage.
type VersionStore interface {
	GetActiveVersion(ctx context.Context, sessionId uuid.UUID, assetType string) (*entity.SessionVersion, error)
	CreateVersionAndActivate(
		ctx context.Context,
		sessionId uuid.UUID,
		assetType string,
		content string,
		source entity.VersionSource,
		detail map[string]interface{},
		scores *scoring.ScoreResults,
		thresholds *scoring.Thresholds,
	) (*entity.SessionVersion, error)
}

// Engine applies the quality machinery of the generation pipelines to
// content that already exists in a session.
type Engine struct {
	provider llm.Provider
	searcher llm.GroundedSearcher
	deep     llm.DeepResearcher
	scorer   refine.ContentScorer
	loop     *refine.Loop
	slop     *scoring.HeuristicSlopAnalyzer
	versions VersionStore
	logger   logger.ILogger
}

func NewEngine(
	provider llm.Provider,
	searcher llm.GroundedSearcher,
	deep llm.DeepResearcher,
	scorer refine.ContentScorer,
	loop *refine.Loop,
	versions VersionStore,
	log logger.ILogger,
) *Engine {
	return &Engine{
		provider: provider,
		searcher: searcher,
		deep:     deep,
		scorer:   scorer,
		loop:     loop,
		slop:     scoring.NewHeuristicSlopAnalyzer(),
		versions: versions,
		logger:   log,
	}
}

// active loads the current active version or fails the action.
func (e *Engine) active(ctx context.Context, req Request) (*entity.SessionVersion, error) {
	v, err := e.versions.GetActiveVersion(ctx, req.SessionId, req.AssetType)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoActiveVersion, req.AssetType)
	}
	return v, nil
}

func (e *Engine) insightsFor(req Request) *insights.ExtractedInsights {
	if req.Insights != nil {
		return req.Insights
	}
	return insights.BuildFallbackInsights(req.ProductDocs)
}

func (e *Engine) grounding(req Request, researchText string) []string {
	g := []string{e.insightsFor(req).ForScoring()}
	if researchText != "" {
		g = append(g, researchText)
	}
	return g
}

func (e *Engine) generate(ctx context.Context, req Request, userPrompt string) (string, error) {
	b := &prompt.Builder{VoiceName: req.Voice.Name, VoiceGuide: req.Voice.Guide}
	out, err := e.provider.Generate(ctx, userPrompt,
		llm.WithSystem(b.System()),
		llm.WithTemperature(actionTemperature),
		llm.WithModel(req.Model),
	)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("empty generation for %s", req.AssetType)
	}
	return out, nil
}

// Deslop runs the targeted filler rewrite against the active version.
func (e *Engine) Deslop(ctx context.Context, req Request) (*Result, error) {
	current, err := e.active(ctx, req)
	if err != nil {
		return nil, err
	}

	analysis, err := e.slop.Analyze(ctx, current.Content)
	if err != nil {
		return nil, fmt.Errorf("slop analysis: %w", err)
	}

	rewritten, err := e.loop.DeslopRewrite(ctx, current.Content, analysis, req.Model)
	if err != nil {
		return nil, err
	}

	scores := e.scorer.ScoreContent(ctx, rewritten, e.grounding(req, req.PriorResearch))
	version, err := e.versions.CreateVersionAndActivate(ctx, req.SessionId, req.AssetType, rewritten,
		entity.SourceDeslop,
		map[string]interface{}{"flaggedPhrases": len(analysis.Matches)},
		&scores, &req.Voice.Thresholds,
	)
	if err != nil {
		return nil, err
	}

	return &Result{Version: version, PreviousScores: current.Scores}, nil
}

// Regenerate re-derives the full original generation context and runs the
// same prompt-building and refinement machinery as the pipeline, so a
// regenerated version has quality parity with initial generation.
func (e *Engine) Regenerate(ctx context.Context, req Request) (*Result, error) {
	current, err := e.active(ctx, req)
	if err != nil {
		return nil, err
	}

	ins := e.insightsFor(req)
	builder := &prompt.Builder{
		AssetType:   req.AssetType,
		VoiceName:   req.Voice.Name,
		VoiceGuide:  req.Voice.Guide,
		Insights:    ins,
		Research:    req.PriorResearch,
		Evidence:    prompt.DetermineEvidenceLevel(req.PriorResearch != "", false),
		BannedWords: append(scoring.BannedPhrases(bannedPhraseLimit), req.Voice.BannedWords...),
		PainPoints:  req.PainPoints,
	}

	content, err := e.provider.Generate(ctx, builder.Build(),
		llm.WithSystem(builder.System()),
		llm.WithTemperature(actionTemperature),
		llm.WithModel(req.Model),
	)
	if err != nil {
		return nil, err
	}

	scores := e.scorer.ScoreContent(ctx, content, e.grounding(req, req.PriorResearch))
	refined := e.loop.Refine(ctx, refine.Input{
		Content:    content,
		Scores:     scores,
		Thresholds: req.Voice.Thresholds,
		VoiceGuide: req.Voice.Guide,
		AssetType:  req.AssetType,
		Model:      req.Model,
		Grounding:  e.grounding(req, req.PriorResearch),
	})

	version, err := e.versions.CreateVersionAndActivate(ctx, req.SessionId, req.AssetType, refined.Content,
		entity.SourceRegenerate,
		map[string]interface{}{"refined": refined.Refined},
		&refined.Scores, &req.Voice.Thresholds,
	)
	if err != nil {
		return nil, err
	}

	return &Result{Version: version, PreviousScores: current.Scores}, nil
}

// VoiceChange rewrites the active content into a different voice profile.
// The result is scored against the NEW voice's thresholds.
func (e *Engine) VoiceChange(ctx context.Context, req Request) (*Result, error) {
	current, err := e.active(ctx, req)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("Rewrite the content below in the \"" + req.Voice.Name + "\" voice.\n")
	sb.WriteString("Keep every claim and fact exactly as it is; only the voice changes.\n\n")
	sb.WriteString("<voice_guide>\n" + req.Voice.Guide + "\n</voice_guide>\n\n")
	sb.WriteString("<content>\n" + current.Content + "\n</content>")

	rewritten, err := e.generate(ctx, req, sb.String())
	if err != nil {
		return nil, err
	}

	scores := e.scorer.ScoreContent(ctx, rewritten, e.grounding(req, req.PriorResearch))
	version, err := e.versions.CreateVersionAndActivate(ctx, req.SessionId, req.AssetType, rewritten,
		entity.SourceVoiceChange,
		map[string]interface{}{"voice": req.Voice.Name},
		&scores, &req.Voice.Thresholds,
	)
	if err != nil {
		return nil, err
	}

	return &Result{Version: version, PreviousScores: current.Scores}, nil
}
