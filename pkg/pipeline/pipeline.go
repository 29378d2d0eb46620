package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"copyforge-be/internal/pkg/logger"
	"copyforge-be/pkg/insights"
	"copyforge-be/pkg/llm"
	"copyforge-be/pkg/refine"
	"copyforge-be/pkg/research"
	"copyforge-be/pkg/scoring"
)

// ErrUnknownPipeline is returned for names outside the closed strategy set.
// Callers validate at job creation; nothing defaults silently.
var ErrUnknownPipeline = errors.New("unknown pipeline")

const (
	PipelineStandard         = "standard"
	PipelineSplitResearch    = "split_research"
	PipelineOutsideIn        = "outside_in"
	PipelineAdversarial      = "adversarial"
	PipelineMultiPerspective = "multi_perspective"
)

// Voice is the resolved writing-style input for one variant: the profile's
// guide plus the thresholds its output must clear.
type Voice struct {
	Id          uuid.UUID
	Name        string
	Guide       string
	BannedWords []string
	Thresholds  scoring.Thresholds
}

// Inputs is the full parameter set of one pipeline run, resolved from the
// Job before launch so strategies never touch the database directly.
type Inputs struct {
	JobId       uuid.UUID
	SessionId   uuid.UUID
	ProductDocs string
	AssetTypes  []string
	Voices      []Voice
	Model       string
	PainPoints  []string
}

// Tracker is the narrow mutation surface of the job store. Implementations
// must refuse transitions out of a terminal status.
type Tracker interface {
	Start(ctx context.Context, jobId uuid.UUID)
	UpdateProgress(ctx context.Context, jobId uuid.UUID, step string, progress int)
	Complete(ctx context.Context, jobId uuid.UUID, metadata map[string]interface{})
	Fail(ctx context.Context, jobId uuid.UUID, message string)
}

// VariantRecord is one finished (assetType, voice) unit ready to persist.
type VariantRecord struct {
	JobId          uuid.UUID
	SessionId      uuid.UUID
	AssetType      string
	VoiceProfileId *uuid.UUID
	VoiceName      string
	Content        string
	Scores         scoring.ScoreResults
	PassesGates    bool
	Source         string
	SourceDetail   map[string]interface{}
}

// VariantWriter persists a record into the asset store and the session
// version lineage.
type VariantWriter interface {
	SaveVariant(ctx context.Context, rec VariantRecord) error
}

// InsightsSink receives the extracted insights and research text of a
// run so later workspace actions can reuse them without re-extracting
// or re-researching.
type InsightsSink interface {
	Save(sessionId uuid.UUID, ins *insights.ExtractedInsights)
	SaveResearch(sessionId uuid.UUID, researchText string)
}

type strategyFunc func(ctx context.Context, in Inputs) (map[string]interface{}, error)

// Runner dispatches a job to one of the closed set of generation
// strategies and owns the job lifecycle around it.
type Runner struct {
	provider   llm.Provider
	scorer     refine.ContentScorer
	loop       *refine.Loop
	researcher *research.Researcher
	extractor  *insights.Extractor
	tracker    Tracker
	writer     VariantWriter
	sink       InsightsSink
	logger     logger.ILogger

	strategies map[string]strategyFunc
}

// SetInsightsSink attaches an optional insights cache. Nil is fine.
func (r *Runner) SetInsightsSink(sink InsightsSink) {
	r.sink = sink
}

func NewRunner(
	provider llm.Provider,
	scorer refine.ContentScorer,
	loop *refine.Loop,
	researcher *research.Researcher,
	extractor *insights.Extractor,
	tracker Tracker,
	writer VariantWriter,
	log logger.ILogger,
) *Runner {
	r := &Runner{
		provider:   provider,
		scorer:     scorer,
		loop:       loop,
		researcher: researcher,
		extractor:  extractor,
		tracker:    tracker,
		writer:     writer,
		logger:     log,
	}
	r.strategies = map[string]strategyFunc{
		PipelineStandard:         r.runStandard,
		PipelineSplitResearch:    r.runSplitResearch,
		PipelineOutsideIn:        r.runOutsideIn,
		PipelineAdversarial:      r.runAdversarial,
		PipelineMultiPerspective: r.runMultiPerspective,
	}
	return r
}

// KnownPipelines lists the valid strategy names, sorted.
func KnownPipelines() []string {
	names := []string{
		PipelineStandard,
		PipelineSplitResearch,
		PipelineOutsideIn,
		PipelineAdversarial,
		PipelineMultiPerspective,
	}
	sort.Strings(names)
	return names
}

// IsKnownPipeline reports whether name maps to a strategy. Job creation
// uses this to reject bad names synchronously.
func IsKnownPipeline(name string) bool {
	switch name {
	case PipelineStandard, PipelineSplitResearch, PipelineOutsideIn,
		PipelineAdversarial, PipelineMultiPerspective:
		return true
	}
	return false
}

// Execute runs the named strategy to completion and settles the job. It
// never returns an error: every failure path ends in tracker.Fail. Run it
// on its own goroutine.
func (r *Runner) Execute(ctx context.Context, pipelineName string, in Inputs) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("pipeline", "panic during pipeline run", map[string]interface{}{
				"jobId":    in.JobId,
				"pipeline": pipelineName,
				"panic":    fmt.Sprint(rec),
			})
			r.tracker.Fail(ctx, in.JobId, fmt.Sprintf("internal error: %v", rec))
		}
	}()

	strategy, ok := r.strategies[pipelineName]
	if !ok {
		r.tracker.Fail(ctx, in.JobId, fmt.Sprintf("%s: %q", ErrUnknownPipeline, pipelineName))
		return
	}

	r.tracker.Start(ctx, in.JobId)

	metadata, err := strategy(ctx, in)
	if err != nil {
		r.logger.Error("pipeline", "pipeline run failed", map[string]interface{}{
			"jobId":    in.JobId,
			"pipeline": pipelineName,
			"error":    err.Error(),
		})
		r.tracker.Fail(ctx, in.JobId, err.Error())
		return
	}

	r.tracker.Complete(ctx, in.JobId, metadata)
}

// progressAt computes the job progress for a completed unit count, with a
// baseline reserved for the strategy's upfront research phase.
func progressAt(baseline, span, completed, total int) int {
	if total <= 0 {
		return baseline
	}
	return int(math.Round(float64(baseline) + float64(completed)/float64(total)*float64(span)))
}

// researchOutcome caches the run's research text for follow-up actions
// and summarizes it into the job metadata.
func (r *Runner) researchOutcome(in Inputs, researchText string) map[string]interface{} {
	if r.sink != nil && researchText != "" {
		r.sink.SaveResearch(in.SessionId, researchText)
	}
	return map[string]interface{}{
		"_researchAvailable": len(researchText) > 0,
		"_researchLength":    len(researchText),
	}
}
