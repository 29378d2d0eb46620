package prompt

import (
	"strings"

	"copyforge-be/pkg/insights"
)

// EvidenceLevel labels how much external grounding backs a generation.
// It only adjusts framing; the model is never told to invent evidence.
type EvidenceLevel string

const (
	EvidenceStrong      EvidenceLevel = "strong"
	EvidencePartial     EvidenceLevel = "partial"
	EvidenceProductOnly EvidenceLevel = "product-only"
)

// DetermineEvidenceLevel maps which research streams came back non-empty
// to a coarse evidence label.
func DetermineEvidenceLevel(hasCompetitive, hasPractitioner bool) EvidenceLevel {
	switch {
	case hasCompetitive && hasPractitioner:
		return EvidenceStrong
	case hasCompetitive || hasPractitioner:
		return EvidencePartial
	default:
		return EvidenceProductOnly
	}
}

// assetTemplates describes the expected structure per asset type.
var assetTemplates = map[string]string{
	"battlecard": "A competitive battlecard for sales: quick positioning summary, " +
		"\"we win when\" scenarios, objection handling with suggested responses, " +
		"landmine questions to ask, and honest \"we lose when\" scenarios.",
	"talk_track": "A spoken talk track for a sales or field team: conversational, " +
		"short sentences, natural transitions, written to be said out loud in under 3 minutes.",
	"launch_messaging": "Launch messaging: a headline, a one-paragraph narrative, " +
		"three supporting proof points, and a closing call to action.",
	"one_pager": "A one-page overview: problem statement, how the product addresses it, " +
		"key capabilities, and who it is for. Skimmable in 60 seconds.",
	"email_sequence": "A 3-email outbound sequence: each email under 120 words, " +
		"one idea per email, subject lines included, no fake personalization.",
}

// AssetTemplate returns the structural brief for an asset type, falling
// back to a generic brief for unknown types.
func AssetTemplate(assetType string) string {
	if t, ok := assetTemplates[assetType]; ok {
		return t
	}
	return "A piece of product messaging appropriate for the asset type \"" + assetType + "\"."
}

// KnownAssetTypes lists the asset types with dedicated templates.
func KnownAssetTypes() []string {
	return []string{"battlecard", "talk_track", "launch_messaging", "one_pager", "email_sequence"}
}

// Builder assembles the generation prompt from insights, voice, research
// and evidence level. Mirrors the tagged-section prompt style used across
// the codebase.
type Builder struct {
	AssetType   string
	VoiceName   string
	VoiceGuide  string
	Insights    *insights.ExtractedInsights
	Research    string
	Evidence    EvidenceLevel
	BannedWords []string
	PainPoints  []string
}

// System returns the system instruction for the generation call.
func (b *Builder) System() string {
	var sb strings.Builder
	sb.WriteString("You write marketing and sales enablement copy that sounds like a sharp practitioner, not a vendor.\n")
	if b.VoiceName != "" {
		sb.WriteString("You are writing in the \"" + b.VoiceName + "\" voice.\n")
	}
	if b.VoiceGuide != "" {
		sb.WriteString("<voice_guide>\n")
		sb.WriteString(b.VoiceGuide)
		sb.WriteString("\n</voice_guide>\n")
	}
	return sb.String()
}

// Build creates the user prompt.
func (b *Builder) Build() string {
	var sb strings.Builder

	b.writeTask(&sb)
	b.writeProductContext(&sb)
	b.writeResearch(&sb)
	b.writePainPoints(&sb)
	b.writeGuidelines(&sb)

	return sb.String()
}

func (b *Builder) writeTask(sb *strings.Builder) {
	sb.WriteString("<task>\n")
	sb.WriteString("Write: ")
	sb.WriteString(AssetTemplate(b.AssetType))
	sb.WriteString("\n</task>\n\n")
}

func (b *Builder) writeProductContext(sb *strings.Builder) {
	if b.Insights == nil {
		return
	}
	sb.WriteString("<product_context>\n")
	sb.WriteString(b.Insights.ForPrompt())
	sb.WriteString("</product_context>\n\n")
}

func (b *Builder) writeResearch(sb *strings.Builder) {
	if b.Research == "" {
		return
	}
	sb.WriteString("<research>\n")
	sb.WriteString(b.Research)
	sb.WriteString("\n</research>\n\n")
}

func (b *Builder) writePainPoints(sb *strings.Builder) {
	if len(b.PainPoints) == 0 {
		return
	}
	sb.WriteString("<practitioner_pain_points>\n")
	for _, p := range b.PainPoints {
		sb.WriteString("- ")
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	sb.WriteString("</practitioner_pain_points>\n\n")
}

func (b *Builder) writeGuidelines(sb *strings.Builder) {
	sb.WriteString("<guidelines>\n")

	switch b.Evidence {
	case EvidenceStrong:
		sb.WriteString("You have real competitive and practitioner research above. Ground every positioning claim in it; quote practitioner language where it fits.\n")
	case EvidencePartial:
		sb.WriteString("You have partial external research above. Use it where it applies; stick to product facts everywhere else.\n")
	default:
		sb.WriteString("You have product facts only, no external research. Make no claims about competitors or market sentiment; let the product specifics carry the piece.\n")
	}

	sb.WriteString("Every claim must trace back to the product context. Do not invent metrics, customers, or quotes.\n")
	sb.WriteString("Admit limitations where relevant; one honest tradeoff is worth three superlatives.\n")

	if len(b.BannedWords) > 0 {
		sb.WriteString("\nNever use these words or phrases:\n")
		for _, w := range b.BannedWords {
			sb.WriteString("- ")
			sb.WriteString(w)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nReturn only the finished content, no preamble.\n")
	sb.WriteString("</guidelines>\n")
}
