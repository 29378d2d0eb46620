package refine

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copyforge-be/internal/pkg/logger"
	"copyforge-be/pkg/llm"
	"copyforge-be/pkg/scoring"
)

// mockProvider records prompts and returns canned responses in order.
type mockProvider struct {
	mu        sync.Mutex
	responses []string
	prompts   []string
}

func (m *mockProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
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

// fixedScorer returns queued results in order, repeating the last.
type fixedScorer struct {
	mu     sync.Mutex
	queue  []scoring.ScoreResults
	scored int
}

func (f *fixedScorer) ScoreContent(ctx context.Context, content string, grounding []string) scoring.ScoreResults {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scored++
	if len(f.queue) > 1 {
		r := f.queue[0]
		f.queue = f.queue[1:]
		return r
	}
	return f.queue[0]
}

func failing(slop float64) scoring.ScoreResults {
	return scoring.ScoreResults{
		SlopScore:         slop,
		VendorSpeakScore:  2,
		AuthenticityScore: 8,
		SpecificityScore:  8,
		PersonaAvgScore:   8,
		SlopAnalysis: &scoring.SlopAnalysis{
			Score:   slop,
			Matches: []scoring.SlopMatch{{Phrase: "delve into", Count: 2}},
		},
	}
}

func passing() scoring.ScoreResults {
	return scoring.ScoreResults{SlopScore: 2, VendorSpeakScore: 2, AuthenticityScore: 8, SpecificityScore: 8, PersonaAvgScore: 8}
}

func TestPickBest(t *testing.T) {
	a := Candidate{Content: "a", Scores: passing()}

	t.Run("idempotence", func(t *testing.T) {
		assert.Equal(t, a, PickBest(a, a))
	})

	t.Run("higher total wins", func(t *testing.T) {
		b := Candidate{Content: "b", Scores: scoring.ScoreResults{SlopScore: 1, VendorSpeakScore: 1, AuthenticityScore: 9, SpecificityScore: 9, PersonaAvgScore: 9}}
		assert.Equal(t, b, PickBest(a, b))
		assert.Equal(t, b, PickBest(b, a))
	})

	t.Run("tie keeps first", func(t *testing.T) {
		b := Candidate{Content: "b", Scores: passing()}
		assert.Equal(t, a, PickBest(a, b))
	})
}

func TestRefineSkipsPassingContent(t *testing.T) {
	provider := &mockProvider{}
	loop := NewLoop(provider, &fixedScorer{queue: []scoring.ScoreResults{passing()}}, logger.NewNopLogger())

	result := loop.Refine(context.Background(), Input{
		Content:    "already good",
		Scores:     passing(),
		Thresholds: scoring.DefaultThresholds(),
		AssetType:  "battlecard",
	})

	assert.False(t, result.Refined)
	assert.Equal(t, "already good", result.Content)
	assert.Equal(t, 0, provider.callCount(), "no LLM calls for passing content")
}

func TestRefineDeslopsThenRefines(t *testing.T) {
	provider := &mockProvider{responses: []string{"deslopped draft", "refined draft"}}
	scorer := &fixedScorer{queue: []scoring.ScoreResults{passing()}}
	loop := NewLoop(provider, scorer, logger.NewNopLogger())

	result := loop.Refine(context.Background(), Input{
		Content:    "sloppy draft",
		Scores:     failing(8),
		Thresholds: scoring.DefaultThresholds(),
		AssetType:  "battlecard",
	})

	require.True(t, result.Refined)
	// Exactly one deslop call and one refinement call
	require.Equal(t, 2, provider.callCount())
	assert.Contains(t, provider.prompts[0], "delve into")
	assert.Contains(t, provider.prompts[1], "failed quality review")
	// Refined draft scored clean, so it wins over the slop-8 original
	assert.Equal(t, "refined draft", result.Content)
	assert.Equal(t, passing(), result.Scores)
}

func TestRefineKeepsOriginalWhenRefinementScoresWorse(t *testing.T) {
	provider := &mockProvider{responses: []string{"deslopped", "worse draft"}}
	worse := scoring.ScoreResults{SlopScore: 9, VendorSpeakScore: 9, AuthenticityScore: 2, SpecificityScore: 2, PersonaAvgScore: 2}
	scorer := &fixedScorer{queue: []scoring.ScoreResults{worse}}
	loop := NewLoop(provider, scorer, logger.NewNopLogger())

	original := Input{
		Content:    "original",
		Scores:     failing(8),
		Thresholds: scoring.DefaultThresholds(),
	}
	result := loop.Refine(context.Background(), original)

	assert.True(t, result.Refined)
	assert.Equal(t, "original", result.Content, "pick-best must not trust refinement blindly")
}

func TestRefinementPromptNamesFailingAxesWithGaps(t *testing.T) {
	in := Input{
		Scores: scoring.ScoreResults{
			SlopScore:         8,
			VendorSpeakScore:  7,
			AuthenticityScore: 3,
			SpecificityScore:  4,
			PersonaAvgScore:   2,
		},
		Thresholds: scoring.DefaultThresholds(),
		AssetType:  "talk track",
	}

	prompt := buildRefinementPrompt("content", in)

	for _, fragment := range []string{"8.0", "7.0", "3.0", "4.0", "2.0", "talk track"} {
		assert.True(t, strings.Contains(prompt, fragment), "prompt should mention %s", fragment)
	}
}
