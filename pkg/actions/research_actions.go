package actions

import (
	"context"
	"fmt"
	"strings"

	"copyforge-be/internal/entity"
)

// internalFacingAssets may name competitors directly; external-facing
// copy must not.
var internalFacingAssets = map[string]bool{
	"battlecard": true,
	"talk_track": true,
}

// CompetitiveDive researches the competitive landscape (deep research
// first, grounded search as fallback) and rewrites the active content to
// weave the findings in.
func (e *Engine) CompetitiveDive(ctx context.Context, req Request) (*Result, error) {
	current, err := e.active(ctx, req)
	if err != nil {
		return nil, err
	}

	ins := e.insightsFor(req)
	researchPrompt := competitiveDivePrompt(ins.ForResearch())

	findings, err := e.research(ctx, researchPrompt)
	if err != nil {
		return nil, fmt.Errorf("competitive research: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Rewrite the " + req.AssetType + " below to weave in the competitive findings.\n")
	if internalFacingAssets[req.AssetType] {
		sb.WriteString("This is internal-facing material: name competitors directly where the findings support it.\n")
	} else {
		sb.WriteString("This is external-facing material: use the findings for positioning but never name a competitor.\n")
	}
	sb.WriteString("\n<content>\n" + current.Content + "\n</content>\n\n")
	sb.WriteString("<competitive_findings>\n" + findings + "\n</competitive_findings>\n\n")
	sb.WriteString("Return only the rewritten content.")

	rewritten, err := e.generate(ctx, req, sb.String())
	if err != nil {
		return nil, err
	}

	scores := e.scorer.ScoreContent(ctx, rewritten, e.grounding(req, findings))
	version, err := e.versions.CreateVersionAndActivate(ctx, req.SessionId, req.AssetType, rewritten,
		entity.SourceCompetitiveDive,
		map[string]interface{}{"researchLength": len(findings)},
		&scores, &req.Voice.Thresholds,
	)
	if err != nil {
		return nil, err
	}

	return &Result{Version: version, PreviousScores: current.Scores}, nil
}

// CommunityCheck grounds the active content in real practitioner
// language. The research query is scoped to the product's domain and
// category, never its branding, so search results aren't biased toward
// vendor material. Too little evidence fails the action rather than
// producing a rewrite grounded in nothing.
func (e *Engine) CommunityCheck(ctx context.Context, req Request) (*Result, error) {
	current, err := e.active(ctx, req)
	if err != nil {
		return nil, err
	}

	ins := e.insightsFor(req)

	var qb strings.Builder
	qb.WriteString("Find real practitioner discussions about problems in this space:\n\n")
	qb.WriteString(ins.ForDiscovery())
	qb.WriteString("\n\nCollect direct quotes, recurring complaints, and the exact words ")
	qb.WriteString("practitioners use. Forums, Q&A sites, and community threads over vendor content.")

	evidence, err := e.research(ctx, qb.String())
	if err != nil {
		return nil, fmt.Errorf("community research: %w", err)
	}
	if len(strings.TrimSpace(evidence)) < minCommunityEvidenceChars {
		return nil, ErrInsufficientEvidence
	}

	var sb strings.Builder
	sb.WriteString("Rewrite the " + req.AssetType + " below so its pain framing is grounded in the community evidence.\n")
	sb.WriteString("Use the practitioners' own words where they fit. Do NOT introduce any claim the evidence or the original content does not support.\n\n")
	sb.WriteString("<content>\n" + current.Content + "\n</content>\n\n")
	sb.WriteString("<community_evidence>\n" + evidence + "\n</community_evidence>\n\n")
	sb.WriteString("Return only the rewritten content.")

	rewritten, err := e.generate(ctx, req, sb.String())
	if err != nil {
		return nil, err
	}

	scores := e.scorer.ScoreContent(ctx, rewritten, e.grounding(req, evidence))
	version, err := e.versions.CreateVersionAndActivate(ctx, req.SessionId, req.AssetType, rewritten,
		entity.SourceCommunityCheck,
		map[string]interface{}{"evidenceLength": len(evidence)},
		&scores, &req.Voice.Thresholds,
	)
	if err != nil {
		return nil, err
	}

	return &Result{Version: version, PreviousScores: current.Scores}, nil
}

// research prefers the deep researcher and falls back to grounded search.
func (e *Engine) research(ctx context.Context, query string) (string, error) {
	if e.deep != nil {
		text, err := e.deep.DeepResearch(ctx, query)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		if err != nil {
			e.logger.Warn("ActionEngine", "Deep research failed, falling back to grounded search", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	if e.searcher == nil {
		return "", fmt.Errorf("no research provider configured")
	}
	res, err := e.searcher.GroundedSearch(ctx, query)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func competitiveDivePrompt(researchView string) string {
	var sb strings.Builder
	sb.WriteString("Research the competitive landscape for this product:\n\n")
	sb.WriteString(researchView)
	sb.WriteString("\n\nFor each close competitor: how they position, where they win, ")
	sb.WriteString("where they are weak, and what their users complain about. Verifiable detail over marketing copy.")
	return sb.String()
}
