package scoring

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"copyforge-be/pkg/llm"
)

// The critic panel. Each persona reads the content cold and scores how
// likely they'd be to keep reading past the first paragraph.
var critics = []struct {
	name  string
	brief string
}{
	{
		name: "skeptical engineer",
		brief: "You are a senior engineer who has been burned by vendor promises before. " +
			"You distrust superlatives and want proof, numbers, and an honest account of limitations.",
	},
	{
		name: "busy practitioner",
		brief: "You are a practitioner with 45 seconds to decide if this is relevant. " +
			"You reward copy that gets to the point and names the problem you actually have.",
	},
	{
		name: "buying committee lead",
		brief: "You evaluate tools for a team. You reward copy that addresses objections, " +
			"differentiates against alternatives you know, and respects your intelligence.",
	},
}

// LLMPersonaPanel runs each critic as its own LLM call, in parallel.
// A failed critic is dropped from the average rather than failing the panel.
type LLMPersonaPanel struct {
	provider llm.Provider
}

func NewLLMPersonaPanel(provider llm.Provider) *LLMPersonaPanel {
	return &LLMPersonaPanel{provider: provider}
}

func (p *LLMPersonaPanel) Analyze(ctx context.Context, content string) (float64, error) {
	scores := make([]float64, len(critics))
	oks := make([]bool, len(critics))

	var wg sync.WaitGroup
	for i, critic := range critics {
		wg.Add(1)
		go func(idx int, name, brief string) {
			defer wg.Done()
			score, err := p.askCritic(ctx, name, brief, content)
			if err != nil {
				return
			}
			scores[idx] = score
			oks[idx] = true
		}(i, critic.name, critic.brief)
	}
	wg.Wait()

	var sum float64
	var n int
	for i := range scores {
		if oks[i] {
			sum += scores[i]
			n++
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("every persona critic failed")
	}

	return round1(sum / float64(n)), nil
}

func (p *LLMPersonaPanel) askCritic(ctx context.Context, name, brief, content string) (float64, error) {
	var sb strings.Builder
	sb.WriteString(brief)
	sb.WriteString("\n\nRead the content below and rate it 0-10 from your perspective.\n")
	sb.WriteString("Respond with ONLY the number, nothing else.\n\n")
	sb.WriteString("<content>\n")
	sb.WriteString(content)
	sb.WriteString("\n</content>")

	raw, err := p.provider.Generate(ctx, sb.String(), llm.WithTemperature(0.3), llm.WithMaxTokens(8))
	if err != nil {
		return 0, fmt.Errorf("critic %q: %w", name, err)
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("critic %q returned non-numeric verdict %q", name, raw)
	}
	return clampScore(score), nil
}
