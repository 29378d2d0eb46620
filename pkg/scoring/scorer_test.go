package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copyforge-be/internal/pkg/logger"
)

func passingScores() ScoreResults {
	return ScoreResults{
		SlopScore:         2,
		VendorSpeakScore:  2,
		AuthenticityScore: 8,
		SpecificityScore:  8,
		PersonaAvgScore:   8,
	}
}

func TestCheckQualityGates(t *testing.T) {
	thresholds := DefaultThresholds()

	tests := []struct {
		name   string
		mutate func(*ScoreResults)
		want   bool
	}{
		{
			name:   "all axes pass",
			mutate: func(s *ScoreResults) {},
			want:   true,
		},
		{
			name:   "exactly on every threshold passes",
			mutate: func(s *ScoreResults) { *s = ScoreResults{5, 5, 6, 6, 6, nil} },
			want:   true,
		},
		{
			name:   "slop over max fails",
			mutate: func(s *ScoreResults) { s.SlopScore = 5.1 },
			want:   false,
		},
		{
			name:   "vendor speak over max fails",
			mutate: func(s *ScoreResults) { s.VendorSpeakScore = 7 },
			want:   false,
		},
		{
			name:   "authenticity under min fails",
			mutate: func(s *ScoreResults) { s.AuthenticityScore = 5.9 },
			want:   false,
		},
		{
			name:   "specificity under min fails",
			mutate: func(s *ScoreResults) { s.SpecificityScore = 3 },
			want:   false,
		},
		{
			name:   "persona under min fails",
			mutate: func(s *ScoreResults) { s.PersonaAvgScore = 1 },
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := passingScores()
			tt.mutate(&scores)
			assert.Equal(t, tt.want, CheckQualityGates(scores, thresholds))
		})
	}
}

func TestTotalQualityScore(t *testing.T) {
	scores := passingScores()
	// (10-2) + (10-2) + 8 + 8 + 8
	assert.InDelta(t, 40.0, TotalQualityScore(scores), 0.001)

	perfect := ScoreResults{SlopScore: 0, VendorSpeakScore: 0, AuthenticityScore: 10, SpecificityScore: 10, PersonaAvgScore: 10}
	assert.InDelta(t, 50.0, TotalQualityScore(perfect), 0.001)
}

// --- failing fakes ---

type failingSlop struct{}

func (failingSlop) Analyze(ctx context.Context, content string) (*SlopAnalysis, error) {
	return nil, errors.New("slop analyzer down")
}

type failingVendor struct{}

func (failingVendor) Analyze(ctx context.Context, content string) (*VendorSpeakAnalysis, error) {
	return nil, errors.New("vendor analyzer down")
}

type failingSpecificity struct{}

func (failingSpecificity) Analyze(ctx context.Context, content string, grounding []string) (float64, error) {
	return 0, errors.New("specificity analyzer down")
}

type failingPanel struct{}

func (failingPanel) Analyze(ctx context.Context, content string) (float64, error) {
	return 0, errors.New("panel down")
}

type panickingSlop struct{}

func (panickingSlop) Analyze(ctx context.Context, content string) (*SlopAnalysis, error) {
	panic("boom")
}

func TestScoreContentTotalFailureResilience(t *testing.T) {
	scorer := NewScorerWithAnalyzers(failingSlop{}, failingVendor{}, failingSpecificity{}, failingPanel{}, logger.NewNopLogger())

	results := scorer.ScoreContent(context.Background(), "anything at all", nil)

	assert.Equal(t, 5.0, results.SlopScore)
	assert.Equal(t, 5.0, results.VendorSpeakScore)
	// Authenticity follows its analyzer's failure contract: with the vendor
	// analyzer down, its companion signal defaults too.
	assert.Equal(t, 5.0, results.AuthenticityScore)
	assert.Equal(t, 5.0, results.SpecificityScore)
	assert.Equal(t, 5.0, results.PersonaAvgScore)
}

func TestScoreContentPanicDoesNotPropagate(t *testing.T) {
	scorer := NewScorerWithAnalyzers(panickingSlop{}, failingVendor{}, failingSpecificity{}, failingPanel{}, logger.NewNopLogger())

	assert.NotPanics(t, func() {
		results := scorer.ScoreContent(context.Background(), "anything", nil)
		assert.Equal(t, 5.0, results.SlopScore)
	})
}

func TestHeuristicSlopAnalyzer(t *testing.T) {
	analyzer := NewHeuristicSlopAnalyzer()

	clean, err := analyzer.Analyze(context.Background(), "The gateway handles 40k requests per second on a single node. Routing rules live in one YAML file.")
	require.NoError(t, err)
	assert.Less(t, clean.Score, 2.0)

	sloppy, err := analyzer.Analyze(context.Background(),
		"In today's fast-paced world, our game-changer platform lets you seamlessly delve into "+
			"and unlock the power of data. Embark on a journey to elevate your business.")
	require.NoError(t, err)
	assert.Greater(t, sloppy.Score, clean.Score)
	assert.NotEmpty(t, sloppy.Matches)
}

func TestHeuristicVendorSpeakAuthenticityIsIndependent(t *testing.T) {
	analyzer := NewHeuristicVendorSpeakAnalyzer()

	jargon, err := analyzer.Analyze(context.Background(),
		"Our industry-leading, best-of-breed turnkey solution drives synergy and a paradigm shift "+
			"for your digital transformation, delivering unparalleled operational excellence.")
	require.NoError(t, err)

	concrete, err := analyzer.Analyze(context.Background(),
		"You deploy it in 10 minutes. It cut our p99 from 800ms to 90ms on Postgres 15. "+
			"Honestly, the tradeoff is you give up custom plugins.")
	require.NoError(t, err)

	assert.Greater(t, jargon.Score, concrete.Score)
	assert.Greater(t, concrete.Authenticity, jargon.Authenticity)

	// Guard against the historical shortcut: authenticity must not simply
	// mirror the vendor-speak score.
	assert.NotEqual(t, 10-jargon.Score, jargon.Authenticity)
}

func TestAnalyzersHandleEmptyContent(t *testing.T) {
	slop, err := NewHeuristicSlopAnalyzer().Analyze(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, slop.Score)

	vendor, err := NewHeuristicVendorSpeakAnalyzer().Analyze(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, vendor.Score)
}
