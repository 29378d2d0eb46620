package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"copyforge-be/pkg/llm"
)

// LLMSpecificityAnalyzer asks the model to verify content claims against
// the grounding context (insight capabilities, claims, differentiators).
// Vague copy that name-drops nothing verifiable scores low.
type LLMSpecificityAnalyzer struct {
	provider llm.Provider
}

func NewLLMSpecificityAnalyzer(provider llm.Provider) *LLMSpecificityAnalyzer {
	return &LLMSpecificityAnalyzer{provider: provider}
}

type specificityVerdict struct {
	Score            float64  `json:"score"`
	UngroundedClaims []string `json:"ungroundedClaims"`
}

func (a *LLMSpecificityAnalyzer) Analyze(ctx context.Context, content string, grounding []string) (float64, error) {
	var sb strings.Builder
	sb.WriteString("Score the marketing content below for SPECIFICITY on a 0-10 scale.\n")
	sb.WriteString("10 = every claim is concrete, verifiable, and grounded in the product facts provided.\n")
	sb.WriteString("0 = pure vague promises with nothing checkable.\n\n")
	sb.WriteString("Return ONLY JSON: {\"score\": <number>, \"ungroundedClaims\": [\"...\"]}\n\n")

	if len(grounding) > 0 {
		sb.WriteString("<product_facts>\n")
		for _, g := range grounding {
			sb.WriteString(g)
			sb.WriteString("\n")
		}
		sb.WriteString("</product_facts>\n\n")
	}

	sb.WriteString("<content>\n")
	sb.WriteString(content)
	sb.WriteString("\n</content>")

	raw, err := a.provider.Generate(ctx, sb.String(), llm.WithTemperature(0.1))
	if err != nil {
		return 0, fmt.Errorf("specificity analysis: %w", err)
	}

	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.Index(cleaned, "\n"); idx != -1 {
			cleaned = cleaned[idx+1:]
		}
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	}

	var verdict specificityVerdict
	if err := json.Unmarshal([]byte(cleaned), &verdict); err != nil {
		return 0, fmt.Errorf("parse specificity verdict: %w", err)
	}

	return clampScore(round1(verdict.Score)), nil
}
