package actions

import (
	"context"
	"fmt"
	"strings"

	"copyforge-be/internal/entity"
	"copyforge-be/pkg/scoring"
)

const maxAdversarialIterations = 3

// AdversarialLoop iterates attack-and-rewrite up to three times. Content
// that already passes its gates is pushed toward near-perfect scores
// instead (elevation mode). The loop stops as soon as the total quality
// score fails to strictly increase, and returns a nil Version when no
// iteration beat the original content.
func (e *Engine) AdversarialLoop(ctx context.Context, req Request) (*Result, error) {
	current, err := e.active(ctx, req)
	if err != nil {
		return nil, err
	}

	previousScores := current.Scores

	var scores scoring.ScoreResults
	if current.Scores != nil {
		scores = *current.Scores
	} else {
		scores = e.scorer.ScoreContent(ctx, current.Content, e.grounding(req, req.PriorResearch))
	}

	elevation := scoring.CheckQualityGates(scores, req.Voice.Thresholds)
	best := current.Content
	bestScores := scores
	iterations := 0

	for i := 0; i < maxAdversarialIterations; i++ {
		working := best

		if bestScores.SlopScore > req.Voice.Thresholds.SlopMax {
			analysis, aerr := e.slop.Analyze(ctx, working)
			if aerr == nil && len(analysis.Matches) > 0 {
				if deslopped, derr := e.loop.DeslopRewrite(ctx, working, analysis, req.Model); derr == nil && deslopped != "" {
					working = deslopped
				}
			}
		}

		rewritten, gerr := e.generate(ctx, req, adversarialPrompt(working, bestScores, req, elevation))
		if gerr != nil {
			e.logger.Warn("ActionEngine", "Adversarial iteration generation failed, stopping", map[string]interface{}{
				"iteration": i + 1,
				"error":     gerr.Error(),
			})
			break
		}

		newScores := e.scorer.ScoreContent(ctx, rewritten, e.grounding(req, req.PriorResearch))
		iterations = i + 1

		if scoring.TotalQualityScore(newScores) <= scoring.TotalQualityScore(bestScores) {
			// Plateau: the loop has stopped paying for itself.
			break
		}

		best = rewritten
		bestScores = newScores
	}

	if best == current.Content {
		// No improvement found; nil version tells the caller nothing
		// changed, it is not an error.
		return &Result{Version: nil, PreviousScores: previousScores}, nil
	}

	version, err := e.versions.CreateVersionAndActivate(ctx, req.SessionId, req.AssetType, best,
		entity.SourceAdversarial,
		map[string]interface{}{
			"iterations": iterations,
			"elevation":  elevation,
		},
		&bestScores, &req.Voice.Thresholds,
	)
	if err != nil {
		return nil, err
	}

	return &Result{Version: version, PreviousScores: previousScores}, nil
}

func adversarialPrompt(content string, scores scoring.ScoreResults, req Request, elevation bool) string {
	var sb strings.Builder

	if elevation {
		sb.WriteString("This " + req.AssetType + " already clears its quality bar. Elevate it toward near-perfect:\n")
		fmt.Fprintf(&sb, "- push filler below 2 (currently %.1f)\n", scores.SlopScore)
		fmt.Fprintf(&sb, "- push vendor-speak below 2 (currently %.1f)\n", scores.VendorSpeakScore)
		fmt.Fprintf(&sb, "- push persona resonance above 9 (currently %.1f)\n", scores.PersonaAvgScore)
		sb.WriteString("Sharpen, cut, and ground; do not pad.\n\n")
	} else {
		sb.WriteString("This " + req.AssetType + " failed quality review. Fix every issue:\n")
		t := req.Voice.Thresholds
		if scores.SlopScore > t.SlopMax {
			fmt.Fprintf(&sb, "- filler score %.1f exceeds the %.1f limit\n", scores.SlopScore, t.SlopMax)
		}
		if scores.VendorSpeakScore > t.VendorSpeakMax {
			fmt.Fprintf(&sb, "- vendor-speak score %.1f exceeds the %.1f limit\n", scores.VendorSpeakScore, t.VendorSpeakMax)
		}
		if scores.AuthenticityScore < t.AuthenticityMin {
			fmt.Fprintf(&sb, "- authenticity %.1f is below the %.1f minimum\n", scores.AuthenticityScore, t.AuthenticityMin)
		}
		if scores.SpecificityScore < t.SpecificityMin {
			fmt.Fprintf(&sb, "- specificity %.1f is below the %.1f minimum; ground claims in concrete detail\n", scores.SpecificityScore, t.SpecificityMin)
		}
		if scores.PersonaAvgScore < t.PersonaMin {
			fmt.Fprintf(&sb, "- persona resonance %.1f is below the %.1f minimum\n", scores.PersonaAvgScore, t.PersonaMin)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("<content>\n" + content + "\n</content>\n\n")
	sb.WriteString("Return only the rewritten content.")
	return sb.String()
}
