package scoring

import (
	"context"
	"sync"

	"copyforge-be/internal/pkg/logger"
	"copyforge-be/pkg/llm"
)

// neutralScore is the degraded default when a sub-analysis fails.
// Availability over precision: one broken analyzer must never take the
// whole scoring call down.
const neutralScore = 5.0

type slopAnalyzer interface {
	Analyze(ctx context.Context, content string) (*SlopAnalysis, error)
}

type vendorSpeakAnalyzer interface {
	Analyze(ctx context.Context, content string) (*VendorSpeakAnalysis, error)
}

type specificityAnalyzer interface {
	Analyze(ctx context.Context, content string, grounding []string) (float64, error)
}

type personaPanel interface {
	Analyze(ctx context.Context, content string) (float64, error)
}

// Scorer runs the four sub-analyses in parallel and assembles ScoreResults.
// Scores are computed fresh for every content string, never cached.
type Scorer struct {
	slop        slopAnalyzer
	vendorSpeak vendorSpeakAnalyzer
	specificity specificityAnalyzer
	personas    personaPanel
	logger      logger.ILogger
}

func NewScorer(provider llm.Provider, log logger.ILogger) *Scorer {
	return &Scorer{
		slop:        NewHeuristicSlopAnalyzer(),
		vendorSpeak: NewHeuristicVendorSpeakAnalyzer(),
		specificity: NewLLMSpecificityAnalyzer(provider),
		personas:    NewLLMPersonaPanel(provider),
		logger:      log,
	}
}

// NewScorerWithAnalyzers lets tests and special pipelines swap sub-analyzers.
func NewScorerWithAnalyzers(
	slop slopAnalyzer,
	vendorSpeak vendorSpeakAnalyzer,
	specificity specificityAnalyzer,
	personas personaPanel,
	log logger.ILogger,
) *Scorer {
	return &Scorer{
		slop:        slop,
		vendorSpeak: vendorSpeak,
		specificity: specificity,
		personas:    personas,
		logger:      log,
	}
}

// ScoreContent never returns an error: every failing sub-analysis degrades
// to the neutral default instead.
func (s *Scorer) ScoreContent(ctx context.Context, content string, groundingContext []string) ScoreResults {
	results := ScoreResults{
		SlopScore:         neutralScore,
		VendorSpeakScore:  neutralScore,
		AuthenticityScore: neutralScore,
		SpecificityScore:  neutralScore,
		PersonaAvgScore:   neutralScore,
	}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		defer s.recoverAnalysis("slop")
		analysis, err := s.slop.Analyze(ctx, content)
		if err != nil {
			s.logger.Warn("Scorer", "Slop analysis failed, using neutral default", map[string]interface{}{"error": err.Error()})
			return
		}
		results.SlopScore = analysis.Score
		results.SlopAnalysis = analysis
	}()

	go func() {
		defer wg.Done()
		defer s.recoverAnalysis("vendor_speak")
		analysis, err := s.vendorSpeak.Analyze(ctx, content)
		if err != nil {
			s.logger.Warn("Scorer", "Vendor-speak analysis failed, using neutral defaults", map[string]interface{}{"error": err.Error()})
			return
		}
		results.VendorSpeakScore = analysis.Score
		// Authenticity rides on the vendor-speak analyzer's companion signal
		results.AuthenticityScore = analysis.Authenticity
	}()

	go func() {
		defer wg.Done()
		defer s.recoverAnalysis("specificity")
		score, err := s.specificity.Analyze(ctx, content, groundingContext)
		if err != nil {
			s.logger.Warn("Scorer", "Specificity analysis failed, using neutral default", map[string]interface{}{"error": err.Error()})
			return
		}
		results.SpecificityScore = score
	}()

	go func() {
		defer wg.Done()
		defer s.recoverAnalysis("personas")
		score, err := s.personas.Analyze(ctx, content)
		if err != nil {
			s.logger.Warn("Scorer", "Persona panel failed, using neutral default", map[string]interface{}{"error": err.Error()})
			return
		}
		results.PersonaAvgScore = score
	}()

	wg.Wait()
	return results
}

func (s *Scorer) recoverAnalysis(name string) {
	if r := recover(); r != nil {
		s.logger.Error("Scorer", "Sub-analysis panicked", map[string]interface{}{
			"analysis": name,
			"panic":    r,
		})
	}
}
