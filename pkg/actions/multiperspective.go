package actions

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"copyforge-be/internal/entity"
	"copyforge-be/pkg/refine"
)

type perspective struct {
	name        string
	instruction string
}

var actionPerspectives = []perspective{
	{
		name:        "empathy",
		instruction: "Recast it to lead with empathy: open inside the reader's worst day with this problem before the product appears.",
	},
	{
		name:        "competitor_gap",
		instruction: "Recast it to lead with the gap: frame everything around what incumbent approaches structurally cannot do.",
	},
	{
		name:        "thought_leadership",
		instruction: "Recast it to lead with a point of view: argue for how this problem should be solved, with the product as the natural consequence.",
	},
}

// MultiPerspective applies the three-angle-plus-synthesis technique to
// the existing active version: three concurrent recasts, a blended
// fourth, all four scored, max kept. Always evaluated against the
// originating voice profile's thresholds.
func (e *Engine) MultiPerspective(ctx context.Context, req Request) (*Result, error) {
	current, err := e.active(ctx, req)
	if err != nil {
		return nil, err
	}

	drafts := make([]string, len(actionPerspectives))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range actionPerspectives {
		i, p := i, p
		g.Go(func() error {
			var sb strings.Builder
			sb.WriteString(p.instruction + "\n\n")
			sb.WriteString("<content>\n" + current.Content + "\n</content>\n\n")
			sb.WriteString("Keep every claim grounded in the original. Return only the recast content.")
			out, gerr := e.generate(gctx, req, sb.String())
			if gerr != nil {
				return fmt.Errorf("%s recast: %w", p.name, gerr)
			}
			drafts[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("Below are three recasts of the same " + req.AssetType + " from different angles.\n")
	sb.WriteString("Write a fourth version that blends the strongest element of each. Blend, do not concatenate.\n")
	for i, d := range drafts {
		fmt.Fprintf(&sb, "\n<draft_%d>\n%s\n</draft_%d>\n", i+1, d, i+1)
	}
	synthesis, err := e.generate(ctx, req, sb.String())

	candidates := make([]refine.Candidate, 0, len(drafts)+1)
	for _, d := range drafts {
		candidates = append(candidates, refine.Candidate{Content: d})
	}
	if err == nil {
		candidates = append(candidates, refine.Candidate{Content: synthesis})
	}

	sg, sgctx := errgroup.WithContext(ctx)
	for i := range candidates {
		i := i
		sg.Go(func() error {
			candidates[i].Scores = e.scorer.ScoreContent(sgctx, candidates[i].Content, e.grounding(req, req.PriorResearch))
			return nil
		})
	}
	_ = sg.Wait()

	best := refine.PickBest(candidates...)
	winner := "synthesis"
	for i, p := range actionPerspectives {
		if best.Content == drafts[i] {
			winner = p.name
		}
	}

	version, err := e.versions.CreateVersionAndActivate(ctx, req.SessionId, req.AssetType, best.Content,
		entity.SourceMultiPerspective,
		map[string]interface{}{"winningPerspective": winner},
		&best.Scores, &req.Voice.Thresholds,
	)
	if err != nil {
		return nil, err
	}

	return &Result{Version: version, PreviousScores: current.Scores}, nil
}
