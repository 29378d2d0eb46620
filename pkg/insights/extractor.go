package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"copyforge-be/internal/pkg/logger"
	"copyforge-be/pkg/llm"
)

// Raw docs beyond this are cut before extraction (provider context limits)
const maxDocsChars = 200_000

type Extractor struct {
	provider llm.Provider
	logger   logger.ILogger
}

func NewExtractor(provider llm.Provider, log logger.ILogger) *Extractor {
	return &Extractor{
		provider: provider,
		logger:   log,
	}
}

// Extract distills raw product docs into structured insights via one LLM call.
// Returns nil on any failure; callers MUST fall back to BuildFallbackInsights
// so every downstream formatter still produces something.
func (e *Extractor) Extract(ctx context.Context, rawDocs string) *ExtractedInsights {
	docs := rawDocs
	if len(docs) > maxDocsChars {
		docs = docs[:maxDocsChars]
	}

	prompt := buildExtractionPrompt(docs)

	raw, err := e.provider.Generate(ctx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		e.logger.Warn("InsightExtractor", "Extraction LLM call failed, caller should use fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	parsed, err := parseInsightsJSON(raw)
	if err != nil {
		e.logger.Warn("InsightExtractor", "Failed to parse extraction response", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	backfill(parsed)
	return parsed
}

func buildExtractionPrompt(docs string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the product documentation below and extract structured insights.\n\n")
	sb.WriteString("Return ONLY a JSON object with exactly this shape (no markdown, no commentary):\n")
	sb.WriteString(`{
  "productCapabilities": ["..."],
  "keyDifferentiators": ["..."],
  "targetPersonas": ["..."],
  "painPointsAddressed": ["..."],
  "claimsAndMetrics": ["..."],
  "technicalDetails": ["..."],
  "summary": "2-3 sentence plain-language summary",
  "domain": "e.g. devops, security, data",
  "category": "e.g. API gateway, CI/CD, observability",
  "productType": "e.g. SaaS platform, CLI tool, managed service"
}`)
	sb.WriteString("\n\nOnly include claims and metrics that literally appear in the docs.\n\n")
	sb.WriteString("<product_docs>\n")
	sb.WriteString(docs)
	sb.WriteString("\n</product_docs>")
	return sb.String()
}

func parseInsightsJSON(raw string) (*ExtractedInsights, error) {
	cleaned := stripCodeFences(raw)

	var insights ExtractedInsights
	if err := json.Unmarshal([]byte(cleaned), &insights); err != nil {
		return nil, fmt.Errorf("unmarshal insights: %w", err)
	}
	return &insights, nil
}

// stripCodeFences removes ```json ... ``` wrappers models add despite
// being told not to.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// backfill fills any field the model omitted so consumers never see nils.
func backfill(i *ExtractedInsights) {
	if i.ProductCapabilities == nil {
		i.ProductCapabilities = []string{}
	}
	if i.KeyDifferentiators == nil {
		i.KeyDifferentiators = []string{}
	}
	if i.TargetPersonas == nil {
		i.TargetPersonas = []string{}
	}
	if i.PainPointsAddressed == nil {
		i.PainPointsAddressed = []string{}
	}
	if i.ClaimsAndMetrics == nil {
		i.ClaimsAndMetrics = []string{}
	}
	if i.TechnicalDetails == nil {
		i.TechnicalDetails = []string{}
	}
	if i.Summary == "" {
		i.Summary = "unknown"
	}
	if i.Domain == "" {
		i.Domain = "unknown"
	}
	if i.Category == "" {
		i.Category = "unknown"
	}
	if i.ProductType == "" {
		i.ProductType = "unknown"
	}
}

// BuildFallbackInsights is the deterministic non-AI fallback: the first
// couple of sentences become the summary, everything else stays empty.
// Guarantees downstream formatters always have a valid record to slice.
func BuildFallbackInsights(rawDocs string) *ExtractedInsights {
	insights := &ExtractedInsights{
		ProductCapabilities: []string{},
		KeyDifferentiators:  []string{},
		TargetPersonas:      []string{},
		PainPointsAddressed: []string{},
		ClaimsAndMetrics:    []string{},
		TechnicalDetails:    []string{},
		Summary:             firstSentences(rawDocs, 3),
		Domain:              "unknown",
		Category:            "unknown",
		ProductType:         "unknown",
	}
	if insights.Summary == "" {
		insights.Summary = "unknown"
	}
	return insights
}

func firstSentences(text string, n int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	count := 0
	for i, r := range trimmed {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count >= n {
				return strings.TrimSpace(trimmed[:i+1])
			}
		}
	}
	// Fewer sentences than asked for; cap length instead
	if len(trimmed) > 400 {
		return strings.TrimSpace(trimmed[:400])
	}
	return trimmed
}
