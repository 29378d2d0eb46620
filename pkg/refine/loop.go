package refine

import (
	"context"
	"fmt"
	"strings"

	"copyforge-be/internal/pkg/logger"
	"copyforge-be/pkg/llm"
	"copyforge-be/pkg/scoring"
)

// refinementTemperature is deliberately lower than generation temperature:
// a refinement pass should converge, not explore.
const refinementTemperature = 0.5

// ContentScorer is the slice of the scorer the loop needs.
type ContentScorer interface {
	ScoreContent(ctx context.Context, content string, groundingContext []string) scoring.ScoreResults
}

// Input is everything the loop needs to decide whether and how to improve
// one piece of content.
type Input struct {
	Content    string
	Scores     scoring.ScoreResults
	Thresholds scoring.Thresholds
	VoiceGuide string
	AssetType  string
	Model      string
	Grounding  []string
}

// Result is the surviving candidate plus whether a refinement generation
// actually ran.
type Result struct {
	Candidate
	Refined bool
}

// Loop runs the single-round quality-gated refinement used by every
// pipeline strategy: deslop if the slop gate failed, one consolidated
// refinement generation, re-score, keep whichever candidate ranks higher.
type Loop struct {
	provider llm.Provider
	scorer   ContentScorer
	logger   logger.ILogger
}

func NewLoop(provider llm.Provider, scorer ContentScorer, log logger.ILogger) *Loop {
	return &Loop{
		provider: provider,
		scorer:   scorer,
		logger:   log,
	}
}

// Refine improves content that failed its gates. Content that already
// passes is returned untouched with no LLM calls issued. Refinement is
// allowed to make things worse; the pick-best step protects against that.
func (l *Loop) Refine(ctx context.Context, in Input) Result {
	original := Candidate{Content: in.Content, Scores: in.Scores}

	if scoring.CheckQualityGates(in.Scores, in.Thresholds) {
		return Result{Candidate: original, Refined: false}
	}

	working := in.Content

	// Targeted deslop first: the analyzer's matches make a far sharper
	// rewrite instruction than "be less slop".
	if in.Scores.SlopScore > in.Thresholds.SlopMax && in.Scores.SlopAnalysis != nil {
		deslopped, err := l.DeslopRewrite(ctx, working, in.Scores.SlopAnalysis, in.Model)
		if err != nil {
			l.logger.Warn("RefinementLoop", "Deslop rewrite failed, continuing with original", map[string]interface{}{
				"error": err.Error(),
			})
		} else if deslopped != "" {
			working = deslopped
		}
	}

	prompt := buildRefinementPrompt(working, in)

	opts := []llm.Option{llm.WithTemperature(refinementTemperature)}
	if in.Model != "" {
		opts = append(opts, llm.WithModel(in.Model))
	}
	refined, err := l.provider.Generate(ctx, prompt, opts...)
	if err != nil {
		l.logger.Warn("RefinementLoop", "Refinement generation failed, keeping original", map[string]interface{}{
			"error": err.Error(),
		})
		return Result{Candidate: original, Refined: false}
	}

	refinedScores := l.scorer.ScoreContent(ctx, refined, in.Grounding)
	best := PickBest(original, Candidate{Content: refined, Scores: refinedScores})

	return Result{Candidate: best, Refined: true}
}

// DeslopRewrite asks for a surgical rewrite removing only the flagged
// filler. Also used directly by the workspace deslop action.
func (l *Loop) DeslopRewrite(ctx context.Context, content string, analysis *scoring.SlopAnalysis, model string) (string, error) {
	if len(analysis.Matches) == 0 {
		return content, nil
	}

	var sb strings.Builder
	sb.WriteString("Rewrite the content below, removing ONLY the flagged filler phrases. ")
	sb.WriteString("Keep the structure, claims, and voice intact. Replace each flagged phrase with plain, direct language or cut it entirely.\n\n")
	sb.WriteString("Flagged phrases:\n")
	for _, m := range analysis.Matches {
		sb.WriteString(fmt.Sprintf("- %q (appears %dx)\n", m.Phrase, m.Count))
	}
	sb.WriteString("\nReturn only the rewritten content, no commentary.\n\n")
	sb.WriteString("<content>\n")
	sb.WriteString(content)
	sb.WriteString("\n</content>")

	opts := []llm.Option{llm.WithTemperature(0.3)}
	if model != "" {
		opts = append(opts, llm.WithModel(model))
	}
	rewritten, err := l.provider.Generate(ctx, sb.String(), opts...)
	if err != nil {
		return "", fmt.Errorf("deslop rewrite: %w", err)
	}
	return strings.TrimSpace(rewritten), nil
}

// buildRefinementPrompt names every failing axis with its numeric gap, so
// the model fixes the actual problems instead of paraphrasing.
func buildRefinementPrompt(content string, in Input) string {
	var sb strings.Builder
	sb.WriteString("The ")
	sb.WriteString(in.AssetType)
	sb.WriteString(" below failed quality review. Rewrite it to fix every issue listed while keeping everything that works.\n\nIssues:\n")

	s, t := in.Scores, in.Thresholds
	if s.SlopScore > t.SlopMax {
		sb.WriteString(fmt.Sprintf("- AI-filler score %.1f exceeds the %.1f limit: cut cliches and empty transitions.\n", s.SlopScore, t.SlopMax))
	}
	if s.VendorSpeakScore > t.VendorSpeakMax {
		sb.WriteString(fmt.Sprintf("- Marketing-jargon score %.1f exceeds the %.1f limit: replace jargon with concrete language.\n", s.VendorSpeakScore, t.VendorSpeakMax))
	}
	if s.AuthenticityScore < t.AuthenticityMin {
		sb.WriteString(fmt.Sprintf("- Authenticity %.1f is below the %.1f floor: write like a practitioner talking to a peer, admit tradeoffs.\n", s.AuthenticityScore, t.AuthenticityMin))
	}
	if s.SpecificityScore < t.SpecificityMin {
		sb.WriteString(fmt.Sprintf("- Specificity %.1f is below the %.1f floor: back claims with the concrete capabilities and numbers available.\n", s.SpecificityScore, t.SpecificityMin))
	}
	if s.PersonaAvgScore < t.PersonaMin {
		sb.WriteString(fmt.Sprintf("- Reader-panel score %.1f is below the %.1f floor: lead with the reader's problem, earn attention faster.\n", s.PersonaAvgScore, t.PersonaMin))
	}

	if in.VoiceGuide != "" {
		sb.WriteString("\nVoice guide to maintain:\n")
		sb.WriteString(in.VoiceGuide)
		sb.WriteString("\n")
	}
	if len(in.Grounding) > 0 {
		sb.WriteString("\nProduct facts you may draw on:\n")
		for _, g := range in.Grounding {
			sb.WriteString(g)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nReturn only the rewritten content.\n\n<content>\n")
	sb.WriteString(content)
	sb.WriteString("\n</content>")
	return sb.String()
}
