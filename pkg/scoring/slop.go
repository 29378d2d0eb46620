package scoring

import (
	"context"
	"strings"
)

// SlopMatch is one flagged phrase with how often it appeared.
type SlopMatch struct {
	Phrase string `json:"phrase"`
	Count  int    `json:"count"`
}

// SlopAnalysis is the raw output of the slop analyzer. The matches feed
// targeted deslop rewrites, so keep them specific.
type SlopAnalysis struct {
	Score   float64     `json:"score"`
	Matches []SlopMatch `json:"matches"`
}

// slopPhrases are AI-generated filler markers, weighted by how strongly
// they signal machine-written copy.
var slopPhrases = map[string]float64{
	"delve":                          2.0,
	"delve into":                     2.5,
	"in today's fast-paced":          3.0,
	"in today's digital age":         3.0,
	"in the ever-evolving":           3.0,
	"navigate the complexities":      2.5,
	"navigating the landscape":       2.5,
	"unlock the power":               2.5,
	"unlock the potential":           2.5,
	"game-changer":                   2.0,
	"game changer":                   2.0,
	"revolutionize":                  2.0,
	"seamlessly":                     1.5,
	"seamless":                       1.0,
	"elevate your":                   2.0,
	"empower":                        1.5,
	"harness the power":              2.5,
	"it's important to note":         2.0,
	"it is important to note":        2.0,
	"it's worth noting":              1.5,
	"in conclusion":                  1.5,
	"furthermore":                    1.0,
	"moreover":                       1.0,
	"robust":                         1.0,
	"comprehensive suite":            2.0,
	"a testament to":                 2.0,
	"look no further":                2.5,
	"at the end of the day":          1.5,
	"take your business to the next": 3.0,
	"whether you're a":               1.5,
	"dive deep":                      1.5,
	"deep dive into":                 1.5,
	"in the realm of":                2.5,
	"tapestry":                       2.5,
	"landscape of":                   1.5,
	"embark on":                      2.0,
	"journey":                        0.5,
	"supercharge":                    2.0,
	"effortlessly":                   1.5,
	"cutting-edge":                   1.5,
	"state-of-the-art":               1.5,
	"best-in-class":                  2.0,
	"world-class":                    2.0,
	"next-level":                     2.0,
	"not just":                       0.5,
	"more than just":                 1.0,
}

// HeuristicSlopAnalyzer flags AI-cliche phrasing with a weighted phrase list.
// Deterministic; no network.
type HeuristicSlopAnalyzer struct{}

func NewHeuristicSlopAnalyzer() *HeuristicSlopAnalyzer { return &HeuristicSlopAnalyzer{} }

func (a *HeuristicSlopAnalyzer) Analyze(ctx context.Context, content string) (*SlopAnalysis, error) {
	lower := strings.ToLower(content)
	words := len(strings.Fields(content))
	if words == 0 {
		return &SlopAnalysis{Score: 0, Matches: []SlopMatch{}}, nil
	}

	var weighted float64
	matches := []SlopMatch{}
	for phrase, weight := range slopPhrases {
		count := strings.Count(lower, phrase)
		if count == 0 {
			continue
		}
		matches = append(matches, SlopMatch{Phrase: phrase, Count: count})
		weighted += weight * float64(count)
	}

	// Normalize against length: one heavy cliche in a tweet-sized blurb is
	// worse than one in a two-page battlecard.
	per100 := weighted / float64(words) * 100
	score := clampScore(round1(per100 * 1.8))

	return &SlopAnalysis{Score: score, Matches: matches}, nil
}
