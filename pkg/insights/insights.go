package insights

import "strings"

// ExtractedInsights is the structured distillation of raw product docs.
// It is produced once per job/session and every downstream stage consumes
// a formatted slice of it rather than the raw docs.
type ExtractedInsights struct {
	ProductCapabilities []string `json:"productCapabilities"`
	KeyDifferentiators  []string `json:"keyDifferentiators"`
	TargetPersonas      []string `json:"targetPersonas"`
	PainPointsAddressed []string `json:"painPointsAddressed"`
	ClaimsAndMetrics    []string `json:"claimsAndMetrics"`
	TechnicalDetails    []string `json:"technicalDetails"`
	Summary             string   `json:"summary"`
	Domain              string   `json:"domain"`
	Category            string   `json:"category"`
	ProductType         string   `json:"productType"`
}

// ForDiscovery is the smallest view (~150 chars): just enough to seed
// community-search keyword extraction. Product framing is deliberately
// excluded so keywords don't drift toward vendor language.
func (i *ExtractedInsights) ForDiscovery() string {
	var sb strings.Builder
	sb.WriteString("Domain: " + i.Domain + "\n")
	sb.WriteString("Category: " + i.Category + "\n")
	sb.WriteString("Product type: " + i.ProductType)
	return sb.String()
}

// ForResearch (~1-2K chars) gives a researcher enough context to name
// competitors and practitioner communities.
func (i *ExtractedInsights) ForResearch() string {
	var sb strings.Builder
	sb.WriteString("Summary: " + i.Summary + "\n")
	writeList(&sb, "Capabilities", i.ProductCapabilities, 6)
	writeList(&sb, "Differentiators", i.KeyDifferentiators, 5)
	writeList(&sb, "Target personas", i.TargetPersonas, 4)
	return sb.String()
}

// ForPrompt (~2-3K chars) is the full structured view used by generation.
func (i *ExtractedInsights) ForPrompt() string {
	var sb strings.Builder
	sb.WriteString("Summary: " + i.Summary + "\n")
	sb.WriteString("Domain: " + i.Domain + " / " + i.Category + " / " + i.ProductType + "\n")
	writeList(&sb, "Capabilities", i.ProductCapabilities, 10)
	writeList(&sb, "Differentiators", i.KeyDifferentiators, 8)
	writeList(&sb, "Target personas", i.TargetPersonas, 6)
	writeList(&sb, "Pain points addressed", i.PainPointsAddressed, 8)
	writeList(&sb, "Claims and metrics", i.ClaimsAndMetrics, 8)
	writeList(&sb, "Technical details", i.TechnicalDetails, 8)
	return sb.String()
}

// ForScoring (~1-2K chars) is what a specificity scorer needs to verify
// content claims are grounded in the actual product.
func (i *ExtractedInsights) ForScoring() string {
	var sb strings.Builder
	writeList(&sb, "Capabilities", i.ProductCapabilities, 10)
	writeList(&sb, "Claims and metrics", i.ClaimsAndMetrics, 10)
	writeList(&sb, "Differentiators", i.KeyDifferentiators, 8)
	return sb.String()
}

func writeList(sb *strings.Builder, label string, items []string, max int) {
	if len(items) == 0 {
		return
	}
	if len(items) > max {
		items = items[:max]
	}
	sb.WriteString(label + ":\n")
	for _, item := range items {
		sb.WriteString("- " + item + "\n")
	}
}
