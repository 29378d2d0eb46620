package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"copyforge-be/pkg/insights"
	"copyforge-be/pkg/llm"
	"copyforge-be/pkg/prompt"
	"copyforge-be/pkg/refine"
	"copyforge-be/pkg/research"
	"copyforge-be/pkg/scoring"
)

const (
	generationTemperature = 0.7
	// Outside-in drafts are deliberately starved of product detail so the
	// practitioner framing leads.
	outsideInDocsBudget = 1_500
	bannedPhraseLimit   = 25
)

// runContext carries the shared, read-only context of one strategy run
// into the per-(assetType, voice) loop.
type runContext struct {
	ins          *insights.ExtractedInsights
	researchText string
	evidence     prompt.EvidenceLevel
	source       string
	baseline     int
	span         int
}

func (r *Runner) resolveInsights(ctx context.Context, in Inputs) *insights.ExtractedInsights {
	r.tracker.UpdateProgress(ctx, in.JobId, "Extracting product insights", 5)
	ins := r.extractor.Extract(ctx, in.ProductDocs)
	if ins == nil {
		ins = insights.BuildFallbackInsights(in.ProductDocs)
	}
	if r.sink != nil {
		r.sink.Save(in.SessionId, ins)
	}
	return ins
}

// 4.4 Standard: competitive research, insight extraction, then the
// sequential per-pair generate/score/refine loop.
func (r *Runner) runStandard(ctx context.Context, in Inputs) (map[string]interface{}, error) {
	ins := r.resolveInsights(ctx, in)

	r.tracker.UpdateProgress(ctx, in.JobId, "Researching competitive landscape", 10)
	comp := r.researcher.Competitive(ctx, ins.ForResearch())

	rc := runContext{
		ins:          ins,
		researchText: comp.Text,
		evidence:     prompt.DetermineEvidenceLevel(!comp.Empty(), false),
		source:       PipelineStandard,
		baseline:     20,
		span:         75,
	}
	r.generateUnits(ctx, in, rc)

	return r.researchOutcome(in, rc.researchText), nil
}

// Split-research: competitive and practitioner research run concurrently,
// each independently tolerant of failure, concatenated under labeled
// headers before generation.
func (r *Runner) runSplitResearch(ctx context.Context, in Inputs) (map[string]interface{}, error) {
	ins := r.resolveInsights(ctx, in)

	r.tracker.UpdateProgress(ctx, in.JobId, "Running split research", 10)
	comp, pract := r.researcher.Parallel(ctx, ins.ForResearch(), ins.ForDiscovery())
	combined := research.Combine(comp, pract)

	rc := runContext{
		ins:          ins,
		researchText: combined,
		evidence:     prompt.DetermineEvidenceLevel(!comp.Empty(), !pract.Empty()),
		source:       PipelineSplitResearch,
		baseline:     25,
		span:         70,
	}
	r.generateUnits(ctx, in, rc)

	return r.researchOutcome(in, combined), nil
}

// Outside-in: practitioner research first, pain-first draft starved of
// product specifics, competitive research and draft scoring concurrent,
// then a product-layering refinement, best candidate kept.
func (r *Runner) runOutsideIn(ctx context.Context, in Inputs) (map[string]interface{}, error) {
	ins := r.resolveInsights(ctx, in)

	r.tracker.UpdateProgress(ctx, in.JobId, "Researching practitioner pain", 10)
	pract := r.researcher.Practitioner(ctx, ins.ForDiscovery())

	total := len(in.AssetTypes) * len(in.Voices)
	completed := 0
	var comp research.Result
	compFetched := false

	for _, assetType := range in.AssetTypes {
		for _, voice := range in.Voices {
			unit := fmt.Sprintf("%s / %s", assetType, voice.Name)

			draft, err := r.generateDraft(ctx, in, voice, assetType, outsideInPrompt(ins, pract, in.ProductDocs, assetType, voice))
			if err != nil {
				r.logUnitFailure(in, unit, err)
				completed++
				continue
			}

			// Competitive research piggybacks on the first draft's scoring
			// pass; both sides tolerate failure.
			var draftScores scoring.ScoreResults
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				draftScores = r.scorer.ScoreContent(gctx, draft, grounding(ins, pract.Text))
				return nil
			})
			if !compFetched {
				g.Go(func() error {
					comp = r.researcher.Competitive(gctx, ins.ForResearch())
					return nil
				})
			}
			_ = g.Wait()
			compFetched = true

			refined, err := r.provider.Generate(ctx, layeringPrompt(draft, ins, comp.Text),
				llm.WithSystem(voiceSystem(voice)),
				llm.WithTemperature(generationTemperature),
				llm.WithModel(in.Model),
			)

			best := refine.Candidate{Content: draft, Scores: draftScores}
			if err == nil && strings.TrimSpace(refined) != "" {
				refinedScores := r.scorer.ScoreContent(ctx, refined, grounding(ins, comp.Text))
				best = refine.PickBest(best, refine.Candidate{Content: refined, Scores: refinedScores})
			}

			completed++
			r.storeUnit(ctx, in, voice, assetType, best, PipelineOutsideIn, nil)
			r.tracker.UpdateProgress(ctx, in.JobId, "Generated "+unit, progressAt(30, 65, completed, total))
		}
	}

	combined := research.Combine(comp, pract)
	return r.researchOutcome(in, combined), nil
}

// Adversarial: draft, hostile critique, defended rewrite, keep the better
// of the two.
func (r *Runner) runAdversarial(ctx context.Context, in Inputs) (map[string]interface{}, error) {
	ins := r.resolveInsights(ctx, in)

	r.tracker.UpdateProgress(ctx, in.JobId, "Researching competitive landscape", 10)
	comp := r.researcher.Competitive(ctx, ins.ForResearch())

	total := len(in.AssetTypes) * len(in.Voices)
	completed := 0

	for _, assetType := range in.AssetTypes {
		for _, voice := range in.Voices {
			unit := fmt.Sprintf("%s / %s", assetType, voice.Name)

			initial, err := r.generateDraft(ctx, in, voice, assetType, standardPrompt(ins, comp.Text, in, assetType, voice))
			if err != nil {
				r.logUnitFailure(in, unit, err)
				completed++
				continue
			}

			critique, err := r.provider.Generate(ctx, critiquePrompt(initial, assetType),
				llm.WithSystem("You are a hostile reviewer who has seen a thousand vendor pitches and believes none of them."),
				llm.WithTemperature(0.4),
				llm.WithModel(in.Model),
			)
			if err != nil {
				// No critique means nothing to defend against; keep the draft.
				scores := r.scorer.ScoreContent(ctx, initial, grounding(ins, comp.Text))
				completed++
				r.storeUnit(ctx, in, voice, assetType, refine.Candidate{Content: initial, Scores: scores}, PipelineAdversarial, nil)
				r.tracker.UpdateProgress(ctx, in.JobId, "Generated "+unit, progressAt(15, 80, completed, total))
				continue
			}

			defended, err := r.provider.Generate(ctx, defensePrompt(initial, critique, ins),
				llm.WithSystem(voiceSystem(voice)),
				llm.WithTemperature(generationTemperature),
				llm.WithModel(in.Model),
			)

			initialScores := r.scorer.ScoreContent(ctx, initial, grounding(ins, comp.Text))
			best := refine.Candidate{Content: initial, Scores: initialScores}
			if err == nil && strings.TrimSpace(defended) != "" {
				defendedScores := r.scorer.ScoreContent(ctx, defended, grounding(ins, comp.Text))
				best = refine.PickBest(best, refine.Candidate{Content: defended, Scores: defendedScores})
			}

			completed++
			r.storeUnit(ctx, in, voice, assetType, best, PipelineAdversarial, nil)
			r.tracker.UpdateProgress(ctx, in.JobId, "Generated "+unit, progressAt(15, 80, completed, total))
		}
	}

	return r.researchOutcome(in, comp.Text), nil
}

// Multi-perspective: three angle drafts generated concurrently, a fourth
// synthesized from their strongest elements, all four scored, max kept.
func (r *Runner) runMultiPerspective(ctx context.Context, in Inputs) (map[string]interface{}, error) {
	ins := r.resolveInsights(ctx, in)

	r.tracker.UpdateProgress(ctx, in.JobId, "Researching competitive landscape", 10)
	comp := r.researcher.Competitive(ctx, ins.ForResearch())

	total := len(in.AssetTypes) * len(in.Voices)
	completed := 0

	for _, assetType := range in.AssetTypes {
		for _, voice := range in.Voices {
			unit := fmt.Sprintf("%s / %s", assetType, voice.Name)

			base := standardPrompt(ins, comp.Text, in, assetType, voice)
			drafts := make([]string, len(perspectiveAngles))
			g, gctx := errgroup.WithContext(ctx)
			for i, angle := range perspectiveAngles {
				i, angle := i, angle
				g.Go(func() error {
					out, err := r.provider.Generate(gctx, base+"\n\n<angle>\n"+angle.instruction+"\n</angle>",
						llm.WithSystem(voiceSystem(voice)),
						llm.WithTemperature(generationTemperature),
						llm.WithModel(in.Model),
					)
					if err != nil {
						return fmt.Errorf("%s draft: %w", angle.name, err)
					}
					drafts[i] = out
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				r.logUnitFailure(in, unit, err)
				completed++
				continue
			}

			synthesis, err := r.provider.Generate(ctx, synthesisPrompt(drafts, assetType),
				llm.WithSystem(voiceSystem(voice)),
				llm.WithTemperature(generationTemperature),
				llm.WithModel(in.Model),
			)

			candidates := make([]refine.Candidate, 0, len(drafts)+1)
			for _, d := range drafts {
				candidates = append(candidates, refine.Candidate{Content: d})
			}
			if err == nil && strings.TrimSpace(synthesis) != "" {
				candidates = append(candidates, refine.Candidate{Content: synthesis})
			}

			sg, sgctx := errgroup.WithContext(ctx)
			for i := range candidates {
				i := i
				sg.Go(func() error {
					candidates[i].Scores = r.scorer.ScoreContent(sgctx, candidates[i].Content, grounding(ins, comp.Text))
					return nil
				})
			}
			_ = sg.Wait()

			best := refine.PickBest(candidates...)
			winner := "synthesis"
			for i, angle := range perspectiveAngles {
				if best.Content == drafts[i] {
					winner = angle.name
				}
			}

			completed++
			r.storeUnit(ctx, in, voice, assetType, best, PipelineMultiPerspective, map[string]interface{}{
				"winningPerspective": winner,
			})
			r.tracker.UpdateProgress(ctx, in.JobId, "Generated "+unit, progressAt(15, 80, completed, total))
		}
	}

	return r.researchOutcome(in, comp.Text), nil
}

// generateUnits is the shared sequential pair loop used by the standard
// and split-research strategies: prompt, generate, score, refine when the
// gates fail, store. A unit failure is logged and skipped.
func (r *Runner) generateUnits(ctx context.Context, in Inputs, rc runContext) {
	total := len(in.AssetTypes) * len(in.Voices)
	completed := 0

	for _, assetType := range in.AssetTypes {
		for _, voice := range in.Voices {
			unit := fmt.Sprintf("%s / %s", assetType, voice.Name)

			builder := &prompt.Builder{
				AssetType:   assetType,
				VoiceName:   voice.Name,
				VoiceGuide:  voice.Guide,
				Insights:    rc.ins,
				Research:    rc.researchText,
				Evidence:    rc.evidence,
				BannedWords: bannedWords(voice),
				PainPoints:  in.PainPoints,
			}

			content, err := r.provider.Generate(ctx, builder.Build(),
				llm.WithSystem(builder.System()),
				llm.WithTemperature(generationTemperature),
				llm.WithModel(in.Model),
			)
			if err != nil {
				r.logUnitFailure(in, unit, err)
				completed++
				continue
			}

			scores := r.scorer.ScoreContent(ctx, content, grounding(rc.ins, rc.researchText))

			result := r.loop.Refine(ctx, refine.Input{
				Content:    content,
				Scores:     scores,
				Thresholds: voice.Thresholds,
				VoiceGuide: voice.Guide,
				AssetType:  assetType,
				Model:      in.Model,
				Grounding:  grounding(rc.ins, rc.researchText),
			})

			completed++
			r.storeUnit(ctx, in, voice, assetType, result.Candidate, rc.source, map[string]interface{}{
				"refined": result.Refined,
			})
			r.tracker.UpdateProgress(ctx, in.JobId, "Generated "+unit, progressAt(rc.baseline, rc.span, completed, total))
		}
	}
}

func (r *Runner) generateDraft(ctx context.Context, in Inputs, voice Voice, assetType, userPrompt string) (string, error) {
	out, err := r.provider.Generate(ctx, userPrompt,
		llm.WithSystem(voiceSystem(voice)),
		llm.WithTemperature(generationTemperature),
		llm.WithModel(in.Model),
	)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("empty draft for %s", assetType)
	}
	return out, nil
}

func (r *Runner) storeUnit(ctx context.Context, in Inputs, voice Voice, assetType string, c refine.Candidate, source string, detail map[string]interface{}) {
	if detail == nil {
		detail = map[string]interface{}{}
	}
	detail["pipeline"] = source

	var voiceId *uuid.UUID
	if voice.Id != uuid.Nil {
		id := voice.Id
		voiceId = &id
	}
	rec := VariantRecord{
		JobId:          in.JobId,
		SessionId:      in.SessionId,
		AssetType:      assetType,
		VoiceProfileId: voiceId,
		VoiceName:      voice.Name,
		Content:        c.Content,
		Scores:         c.Scores,
		PassesGates:    scoring.CheckQualityGates(c.Scores, voice.Thresholds),
		Source:         "generation",
		SourceDetail:   detail,
	}
	if err := r.writer.SaveVariant(ctx, rec); err != nil {
		r.logger.Error("pipeline", "failed to store variant", map[string]interface{}{
			"jobId":     in.JobId,
			"assetType": assetType,
			"voice":     voice.Name,
			"error":     err.Error(),
		})
	}
}

func (r *Runner) logUnitFailure(in Inputs, unit string, err error) {
	r.logger.Warn("pipeline", "unit generation failed, skipping", map[string]interface{}{
		"jobId": in.JobId,
		"unit":  unit,
		"error": err.Error(),
	})
}

func bannedWords(voice Voice) []string {
	return append(scoring.BannedPhrases(bannedPhraseLimit), voice.BannedWords...)
}

func grounding(ins *insights.ExtractedInsights, researchText string) []string {
	g := []string{ins.ForScoring()}
	if researchText != "" {
		g = append(g, researchText)
	}
	return g
}

func voiceSystem(voice Voice) string {
	b := &prompt.Builder{VoiceName: voice.Name, VoiceGuide: voice.Guide}
	return b.System()
}

func standardPrompt(ins *insights.ExtractedInsights, researchText string, in Inputs, assetType string, voice Voice) string {
	b := &prompt.Builder{
		AssetType:   assetType,
		VoiceName:   voice.Name,
		VoiceGuide:  voice.Guide,
		Insights:    ins,
		Research:    researchText,
		Evidence:    prompt.DetermineEvidenceLevel(researchText != "", false),
		BannedWords: bannedWords(voice),
		PainPoints:  in.PainPoints,
	}
	return b.Build()
}

func outsideInPrompt(ins *insights.ExtractedInsights, pract research.Result, rawDocs, assetType string, voice Voice) string {
	var sb strings.Builder
	sb.WriteString("Write a " + assetType + " that leads with the practitioner's pain, not the product.\n\n")
	if !pract.Empty() {
		sb.WriteString("<practitioner_research>\n" + pract.Text + "\n</practitioner_research>\n\n")
	}
	sb.WriteString("<product_notes>\n" + truncate(rawDocs, outsideInDocsBudget) + "\n</product_notes>\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Open with the problem as practitioners describe it, in their language.\n")
	sb.WriteString("- Mention the product only where it directly answers a named pain.\n")
	sb.WriteString("- No feature lists, no vendor framing.\n")
	sb.WriteString("- Template:\n" + prompt.AssetTemplate(assetType) + "\n")
	return sb.String()
}

func layeringPrompt(draft string, ins *insights.ExtractedInsights, compText string) string {
	var sb strings.Builder
	sb.WriteString("Revise the draft below by layering in concrete product specifics.\n")
	sb.WriteString("Do NOT lose the practitioner voice the draft opens with; the pain framing stays in charge.\n\n")
	sb.WriteString("<draft>\n" + draft + "\n</draft>\n\n")
	sb.WriteString("<product_insights>\n" + ins.ForPrompt() + "\n</product_insights>\n")
	if compText != "" {
		sb.WriteString("\n<competitive_research>\n" + compText + "\n</competitive_research>\n")
	}
	return sb.String()
}

func critiquePrompt(content, assetType string) string {
	var sb strings.Builder
	sb.WriteString("Attack this " + assetType + ". List every weakness as a numbered objection:\n")
	sb.WriteString("- unsubstantiated claims\n")
	sb.WriteString("- vendor-speak phrases\n")
	sb.WriteString("- vague promises\n")
	sb.WriteString("- objections a skeptical buyer would raise that the content ignores\n\n")
	sb.WriteString("<content>\n" + content + "\n</content>")
	return sb.String()
}

func defensePrompt(content, critique string, ins *insights.ExtractedInsights) string {
	var sb strings.Builder
	sb.WriteString("Rewrite the content so it survives every objection below. Ground every fix in the product insights; do not invent claims.\n\n")
	sb.WriteString("<content>\n" + content + "\n</content>\n\n")
	sb.WriteString("<objections>\n" + critique + "\n</objections>\n\n")
	sb.WriteString("<product_insights>\n" + ins.ForPrompt() + "\n</product_insights>\n\n")
	sb.WriteString("Return only the rewritten content.")
	return sb.String()
}

type angle struct {
	name        string
	instruction string
}

var perspectiveAngles = []angle{
	{
		name:        "empathy",
		instruction: "Lead with empathy: open inside the reader's worst day with this problem before the product appears at all.",
	},
	{
		name:        "competitor_gap",
		instruction: "Lead with the gap: frame everything around what the incumbent approaches structurally cannot do.",
	},
	{
		name:        "thought_leadership",
		instruction: "Lead with a point of view: argue for how this problem should be solved, then show the product as the natural consequence.",
	},
}

func synthesisPrompt(drafts []string, assetType string) string {
	var sb strings.Builder
	sb.WriteString("Below are three drafts of the same " + assetType + " written from different angles.\n")
	sb.WriteString("Write a fourth version that blends the strongest element of each. Blend, do not concatenate.\n")
	for i, d := range drafts {
		fmt.Fprintf(&sb, "\n<draft_%d>\n%s\n</draft_%d>\n", i+1, d, i+1)
	}
	return sb.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
