package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copyforge-be/internal/pkg/logger"
	"copyforge-be/pkg/insights"
	"copyforge-be/pkg/llm"
	"copyforge-be/pkg/refine"
	"copyforge-be/pkg/research"
	"copyforge-be/pkg/scoring"
)

// mockProvider returns canned responses in call order; errAt maps a
// 1-based call number to a forced error.
type mockProvider struct {
	mu        sync.Mutex
	responses []string
	prompts   []string
	errAt     map[int]error
}

func (m *mockProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if err, ok := m.errAt[len(m.prompts)]; ok {
		return "", err
	}
	if len(m.responses) == 0 {
		return "generated content", nil
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func (m *mockProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return m.Generate(ctx, history[len(history)-1].Content, options...)
}

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// queueScorer pops queued results in call order, repeating the last.
type queueScorer struct {
	mu    sync.Mutex
	queue []scoring.ScoreResults
}

func (q *queueScorer) ScoreContent(ctx context.Context, content string, grounding []string) scoring.ScoreResults {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.queue) > 1 {
		r := q.queue[0]
		q.queue = q.queue[1:]
		return r
	}
	return q.queue[0]
}

// contentScorer keys scores off the content itself, for strategies that
// score concurrently.
type contentScorer struct {
	byContent map[string]scoring.ScoreResults
	fallback  scoring.ScoreResults
}

func (c *contentScorer) ScoreContent(ctx context.Context, content string, grounding []string) scoring.ScoreResults {
	if s, ok := c.byContent[content]; ok {
		return s
	}
	return c.fallback
}

type fakeTracker struct {
	mu       sync.Mutex
	status   string
	steps    []string
	metadata map[string]interface{}
	failMsg  string
}

func (t *fakeTracker) Start(ctx context.Context, jobId uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = "running"
}

func (t *fakeTracker) UpdateProgress(ctx context.Context, jobId uuid.UUID, step string, progress int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = append(t.steps, fmt.Sprintf("%s@%d", step, progress))
}

func (t *fakeTracker) Complete(ctx context.Context, jobId uuid.UUID, metadata map[string]interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = "completed"
	t.metadata = metadata
}

func (t *fakeTracker) Fail(ctx context.Context, jobId uuid.UUID, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = "failed"
	t.failMsg = message
}

type fakeWriter struct {
	mu      sync.Mutex
	records []VariantRecord
}

func (w *fakeWriter) SaveVariant(ctx context.Context, rec VariantRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = append(w.records, rec)
	return nil
}

func passingScores() scoring.ScoreResults {
	return scoring.ScoreResults{SlopScore: 2, VendorSpeakScore: 2, AuthenticityScore: 8, SpecificityScore: 8, PersonaAvgScore: 8}
}

func failingSlopScores() scoring.ScoreResults {
	return scoring.ScoreResults{
		SlopScore:         8,
		VendorSpeakScore:  2,
		AuthenticityScore: 8,
		SpecificityScore:  8,
		PersonaAvgScore:   8,
		SlopAnalysis: &scoring.SlopAnalysis{
			Score:   8,
			Matches: []scoring.SlopMatch{{Phrase: "delve into", Count: 2}},
		},
	}
}

func newTestRunner(provider *mockProvider, scorer refine.ContentScorer) (*Runner, *fakeTracker, *fakeWriter) {
	log := logger.NewNopLogger()
	tracker := &fakeTracker{}
	writer := &fakeWriter{}
	runner := NewRunner(
		provider,
		scorer,
		refine.NewLoop(provider, scorer, log),
		research.NewResearcher(nil, log), // nil searcher: research degrades to empty
		insights.NewExtractor(provider, log),
		tracker,
		writer,
		log,
	)
	return runner, tracker, writer
}

func singleUnitInputs() Inputs {
	return Inputs{
		JobId:       uuid.New(),
		SessionId:   uuid.New(),
		ProductDocs: "Short note about an API gateway",
		AssetTypes:  []string{"battlecard"},
		Voices: []Voice{{
			Id:         uuid.New(),
			Name:       "Default",
			Guide:      "direct, technical",
			Thresholds: scoring.DefaultThresholds(),
		}},
		Model: "test-model",
	}
}

func TestIsKnownPipeline(t *testing.T) {
	for _, name := range KnownPipelines() {
		assert.True(t, IsKnownPipeline(name), name)
	}
	assert.False(t, IsKnownPipeline(""))
	assert.False(t, IsKnownPipeline("Standard"))
	assert.False(t, IsKnownPipeline("quick"))
}

func TestExecuteRejectsUnknownPipeline(t *testing.T) {
	provider := &mockProvider{}
	runner, tracker, writer := newTestRunner(provider, &queueScorer{queue: []scoring.ScoreResults{passingScores()}})

	runner.Execute(context.Background(), "quick", singleUnitInputs())

	assert.Equal(t, "failed", tracker.status)
	assert.Contains(t, tracker.failMsg, "unknown pipeline")
	assert.Empty(t, writer.records)
	assert.Zero(t, provider.callCount())
}

func TestStandardPipelinePassingFirstGeneration(t *testing.T) {
	provider := &mockProvider{responses: []string{
		"not json", // insight extraction: parse fails, fallback kicks in
		"solid battlecard copy",
	}}
	scorer := &queueScorer{queue: []scoring.ScoreResults{passingScores()}}
	runner, tracker, writer := newTestRunner(provider, scorer)

	runner.Execute(context.Background(), PipelineStandard, singleUnitInputs())

	assert.Equal(t, "completed", tracker.status)
	require.Len(t, writer.records, 1)
	rec := writer.records[0]
	assert.Equal(t, "solid battlecard copy", rec.Content)
	assert.True(t, rec.PassesGates)
	assert.Equal(t, "battlecard", rec.AssetType)
	// Extraction + one generation; passing content must trigger no
	// refinement calls.
	assert.Equal(t, 2, provider.callCount())
	assert.Equal(t, false, tracker.metadata["_researchAvailable"])
	assert.Equal(t, 0, tracker.metadata["_researchLength"])
}

func TestStandardPipelineFailingFirstGenerationRefines(t *testing.T) {
	provider := &mockProvider{responses: []string{
		"not json",           // extraction fallback
		"sloppy first draft", // initial generation
		"deslopped draft",    // targeted deslop rewrite
		"clean refined copy", // consolidated refinement
	}}
	scorer := &queueScorer{queue: []scoring.ScoreResults{failingSlopScores(), passingScores()}}
	runner, tracker, writer := newTestRunner(provider, scorer)

	runner.Execute(context.Background(), PipelineStandard, singleUnitInputs())

	assert.Equal(t, "completed", tracker.status)
	// Extraction, generation, deslop, refinement: exactly four calls.
	assert.Equal(t, 4, provider.callCount())
	require.Len(t, writer.records, 1)
	rec := writer.records[0]
	assert.Equal(t, "clean refined copy", rec.Content)
	assert.True(t, rec.PassesGates)
	assert.Equal(t, passingScores(), rec.Scores)
	assert.Equal(t, true, rec.SourceDetail["refined"])
}

func TestStandardPipelineSkipsFailedUnitWithoutAbortingJob(t *testing.T) {
	// Two asset types; the first unit's generation call (call 2, after
	// extraction) errors and must be skipped.
	provider := &mockProvider{
		responses: []string{"not json", "talk track copy"},
		errAt:     map[int]error{2: errors.New("provider overloaded")},
	}
	scorer := &queueScorer{queue: []scoring.ScoreResults{passingScores()}}
	runner, tracker, writer := newTestRunner(provider, scorer)

	in := singleUnitInputs()
	in.AssetTypes = []string{"battlecard", "talk_track"}
	runner.Execute(context.Background(), PipelineStandard, in)

	assert.Equal(t, "completed", tracker.status)
	assert.Empty(t, tracker.failMsg)
	require.Len(t, writer.records, 1)
	assert.Equal(t, "talk_track", writer.records[0].AssetType)
}

func TestMultiPerspectiveKeepsBestCandidate(t *testing.T) {
	provider := &mockProvider{responses: []string{
		"not json", // extraction fallback
		"draft a", "draft b", "draft c",
		"synthesized blend",
	}}
	scorer := &contentScorer{
		byContent: map[string]scoring.ScoreResults{
			"synthesized blend": passingScores(),
		},
		fallback: scoring.ScoreResults{SlopScore: 6, VendorSpeakScore: 6, AuthenticityScore: 4, SpecificityScore: 4, PersonaAvgScore: 4},
	}
	runner, tracker, writer := newTestRunner(provider, scorer)

	runner.Execute(context.Background(), PipelineMultiPerspective, singleUnitInputs())

	assert.Equal(t, "completed", tracker.status)
	require.Len(t, writer.records, 1)
	rec := writer.records[0]
	assert.Equal(t, "synthesized blend", rec.Content)
	assert.Equal(t, "synthesis", rec.SourceDetail["winningPerspective"])
	assert.True(t, rec.PassesGates)
}

func TestAdversarialKeepsDefendedWhenItScoresHigher(t *testing.T) {
	provider := &mockProvider{responses: []string{
		"not json",         // extraction fallback
		"naive draft",      // initial
		"1. vague promise", // critique
		"defended draft",   // defense
	}}
	scorer := &contentScorer{
		byContent: map[string]scoring.ScoreResults{
			"defended draft": passingScores(),
		},
		fallback: scoring.ScoreResults{SlopScore: 6, VendorSpeakScore: 6, AuthenticityScore: 4, SpecificityScore: 4, PersonaAvgScore: 4},
	}
	runner, tracker, writer := newTestRunner(provider, scorer)

	runner.Execute(context.Background(), PipelineAdversarial, singleUnitInputs())

	assert.Equal(t, "completed", tracker.status)
	require.Len(t, writer.records, 1)
	assert.Equal(t, "defended draft", writer.records[0].Content)
}

func TestProgressMath(t *testing.T) {
	assert.Equal(t, 58, progressAt(20, 75, 1, 2))
	assert.Equal(t, 95, progressAt(20, 75, 2, 2))
	assert.Equal(t, 20, progressAt(20, 75, 0, 2))
	assert.Equal(t, 20, progressAt(20, 75, 0, 0))
}

type fakeSink struct {
	mu       sync.Mutex
	insights map[uuid.UUID]*insights.ExtractedInsights
	research map[uuid.UUID]string
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		insights: map[uuid.UUID]*insights.ExtractedInsights{},
		research: map[uuid.UUID]string{},
	}
}

func (s *fakeSink) Save(sessionId uuid.UUID, ins *insights.ExtractedInsights) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insights[sessionId] = ins
}

func (s *fakeSink) SaveResearch(sessionId uuid.UUID, researchText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.research[sessionId] = researchText
}

type fakeSearcher struct {
	text string
}

func (f *fakeSearcher) GroundedSearch(ctx context.Context, prompt string) (*llm.GroundedResult, error) {
	return &llm.GroundedResult{Text: f.text}, nil
}

func TestStandardPipelineCachesResearchForActions(t *testing.T) {
	provider := &mockProvider{responses: []string{"not json", "battlecard copy"}}
	scorer := &queueScorer{queue: []scoring.ScoreResults{passingScores()}}
	log := logger.NewNopLogger()
	tracker := &fakeTracker{}
	writer := &fakeWriter{}
	runner := NewRunner(
		provider,
		scorer,
		refine.NewLoop(provider, scorer, log),
		research.NewResearcher(&fakeSearcher{text: "competitor X positions on speed"}, log),
		insights.NewExtractor(provider, log),
		tracker,
		writer,
		log,
	)
	sink := newFakeSink()
	runner.SetInsightsSink(sink)

	in := singleUnitInputs()
	runner.Execute(context.Background(), PipelineStandard, in)

	assert.Equal(t, "completed", tracker.status)
	assert.Equal(t, true, tracker.metadata["_researchAvailable"])
	assert.NotNil(t, sink.insights[in.SessionId])
	assert.Equal(t, "competitor X positions on speed", sink.research[in.SessionId])
}

func TestGenerationPromptCarriesVoiceAndBannedWords(t *testing.T) {
	provider := &mockProvider{responses: []string{"not json", "copy"}}
	scorer := &queueScorer{queue: []scoring.ScoreResults{passingScores()}}
	runner, _, _ := newTestRunner(provider, scorer)

	in := singleUnitInputs()
	in.Voices[0].BannedWords = []string{"synergy"}
	runner.Execute(context.Background(), PipelineStandard, in)

	require.Equal(t, 2, provider.callCount())
	genPrompt := provider.prompts[1]
	assert.True(t, strings.Contains(genPrompt, "battlecard"))
	assert.True(t, strings.Contains(genPrompt, "synergy"))
}
