package scoring

import (
	"context"
	"regexp"
	"strings"
)

// VendorSpeakAnalysis carries the jargon score plus the authenticity
// companion signal computed from the same pass over the text.
//
// Authenticity is NOT derived as 10 - VendorSpeak. That shortcut shipped
// once and made the two gates redundant; authenticity now comes from its
// own positive evidence (concrete numbers, direct address, named specifics)
// even though both signals are produced by the same analyzer.
type VendorSpeakAnalysis struct {
	Score        float64  `json:"score"`
	Matches      []string `json:"matches"`
	Authenticity float64  `json:"authenticity"`
}

var vendorPhrases = map[string]float64{
	"industry-leading":          2.5,
	"market-leading":            2.5,
	"enterprise-grade":          1.5,
	"mission-critical":          1.5,
	"synergy":                   3.0,
	"synergies":                 3.0,
	"best-of-breed":             3.0,
	"turnkey solution":          2.5,
	"end-to-end solution":       2.0,
	"holistic approach":         2.5,
	"value proposition":         2.0,
	"core competency":           2.5,
	"paradigm shift":            3.0,
	"thought leadership":        2.0,
	"move the needle":           2.5,
	"low-hanging fruit":         2.5,
	"single pane of glass":      2.0,
	"future-proof":              2.0,
	"drive business value":      2.5,
	"digital transformation":    1.5,
	"accelerate your":           1.5,
	"unparalleled":              2.5,
	"unmatched":                 2.0,
	"trusted by":                1.0,
	"leading provider":          2.5,
	"one-stop shop":             2.5,
	"across the enterprise":     1.5,
	"at scale":                  0.5,
	"leverage":                  1.5,
	"utilize":                   1.0,
	"facilitate":                1.0,
	"streamline your workflow":  2.0,
	"maximize roi":              2.5,
	"boost productivity":        1.5,
	"actionable insights":       2.0,
	"operational excellence":    2.5,
	"competitive advantage":     1.5,
	"strategic initiative":      2.0,
	"stakeholder alignment":     2.5,
	"transformative":            2.0,
	"innovative solution":       2.5,
	"solution provider":         2.0,
	"customer-centric":          2.0,
	"results-driven":            2.0,
	"scalable architecture":     1.0,
	"business outcomes":         1.5,
	"we're excited to announce": 1.5,
}

var (
	numberPattern    = regexp.MustCompile(`\b\d+(\.\d+)?\s*(%|ms|s|x|k|m|gb|mb|tb|users|requests|rps|qps|hours|days|minutes)?\b`)
	secondPersonRe   = regexp.MustCompile(`\b(you|your|you're|you've|you'll)\b`)
	quotedSpeechRe   = regexp.MustCompile(`"[^"]{10,}"`)
	versionOrProper  = regexp.MustCompile(`\b[A-Z][a-zA-Z]+\s+v?\d+(\.\d+)*\b`)
	hedgeOrAdmission = regexp.MustCompile(`(?i)\b(honestly|to be fair|the catch|tradeoff|trade-off|downside|doesn't|won't work|isn't for|not a fit)\b`)
)

// HeuristicVendorSpeakAnalyzer detects marketing jargon and, from the same
// pass, scores authenticity on positive evidence.
type HeuristicVendorSpeakAnalyzer struct{}

func NewHeuristicVendorSpeakAnalyzer() *HeuristicVendorSpeakAnalyzer {
	return &HeuristicVendorSpeakAnalyzer{}
}

func (a *HeuristicVendorSpeakAnalyzer) Analyze(ctx context.Context, content string) (*VendorSpeakAnalysis, error) {
	lower := strings.ToLower(content)
	words := len(strings.Fields(content))
	if words == 0 {
		return &VendorSpeakAnalysis{Score: 0, Matches: []string{}, Authenticity: 5}, nil
	}

	var weighted float64
	matches := []string{}
	for phrase, weight := range vendorPhrases {
		count := strings.Count(lower, phrase)
		if count == 0 {
			continue
		}
		matches = append(matches, phrase)
		weighted += weight * float64(count)
	}

	per100 := weighted / float64(words) * 100
	score := clampScore(round1(per100 * 2.0))

	return &VendorSpeakAnalysis{
		Score:        score,
		Matches:      matches,
		Authenticity: authenticityScore(content, words),
	}, nil
}

// authenticityScore rewards the things real practitioners write: concrete
// numbers, direct address, named tools/versions, quoted speech, and honest
// hedges. Starts from a neutral midpoint and earns its way up.
func authenticityScore(content string, words int) float64 {
	score := 5.0

	numbers := len(numberPattern.FindAllString(content, -1))
	if numbers > 0 {
		score += minFloat(float64(numbers)*0.4, 2.0)
	}

	secondPerson := len(secondPersonRe.FindAllString(strings.ToLower(content), -1))
	density := float64(secondPerson) / float64(words) * 100
	if density >= 1 {
		score += 1.0
	}

	if quotedSpeechRe.MatchString(content) {
		score += 0.5
	}
	if versionOrProper.MatchString(content) {
		score += 0.5
	}
	if hedgeOrAdmission.MatchString(content) {
		score += 1.0
	}

	return clampScore(round1(score))
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
