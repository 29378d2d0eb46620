package research

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"copyforge-be/internal/pkg/logger"
	"copyforge-be/pkg/llm"
)

// Result wraps one research stream's output. Research is best-effort
// everywhere: call sites must check Empty() instead of trusting a string
// sentinel, and a failed stream only costs grounding, never the job.
type Result struct {
	Text    string
	Sources []llm.Source
}

func (r Result) Empty() bool {
	return strings.TrimSpace(r.Text) == ""
}

// Researcher issues the competitive and practitioner research queries.
type Researcher struct {
	searcher llm.GroundedSearcher
	logger   logger.ILogger
}

func NewResearcher(searcher llm.GroundedSearcher, log logger.ILogger) *Researcher {
	return &Researcher{
		searcher: searcher,
		logger:   log,
	}
}

// Competitive researches the competitive landscape from the insight
// research view. Failure degrades to an empty Result.
func (r *Researcher) Competitive(ctx context.Context, researchView string) Result {
	if r.searcher == nil {
		return Result{}
	}

	var sb strings.Builder
	sb.WriteString("Research the competitive landscape for this product:\n\n")
	sb.WriteString(researchView)
	sb.WriteString("\n\nName the 3-5 closest competitors, how each positions itself, ")
	sb.WriteString("where this product genuinely differs, and where competitors are stronger. ")
	sb.WriteString("Stick to what you can verify; say so when you can't.")

	res, err := r.searcher.GroundedSearch(ctx, sb.String())
	if err != nil {
		r.logger.Warn("Research", "Competitive research failed, continuing without it", map[string]interface{}{
			"error": err.Error(),
		})
		return Result{}
	}
	return Result{Text: res.Text, Sources: res.Sources}
}

// Practitioner researches real pain language in the product's domain. The
// query is scoped by the discovery view (domain/category/type only) so
// vendor framing can't bias what gets searched.
func (r *Researcher) Practitioner(ctx context.Context, discoveryView string) Result {
	if r.searcher == nil {
		return Result{}
	}

	var sb strings.Builder
	sb.WriteString("Find how practitioners actually talk about problems in this space:\n\n")
	sb.WriteString(discoveryView)
	sb.WriteString("\n\nSurface the recurring complaints, the words practitioners use for them, ")
	sb.WriteString("what workarounds they describe, and what they say they wish existed. ")
	sb.WriteString("Prefer direct quotes from forums and discussions over summaries.")

	res, err := r.searcher.GroundedSearch(ctx, sb.String())
	if err != nil {
		r.logger.Warn("Research", "Practitioner research failed, continuing without it", map[string]interface{}{
			"error": err.Error(),
		})
		return Result{}
	}
	return Result{Text: res.Text, Sources: res.Sources}
}

// Parallel runs both streams concurrently; each tolerates failure on its own.
func (r *Researcher) Parallel(ctx context.Context, researchView, discoveryView string) (competitive, practitioner Result) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		competitive = r.Competitive(gctx, researchView)
		return nil
	})
	g.Go(func() error {
		practitioner = r.Practitioner(gctx, discoveryView)
		return nil
	})
	_ = g.Wait() // streams never return errors; they degrade
	return competitive, practitioner
}

// Combine joins non-empty streams under labeled headers for prompt use.
func Combine(competitive, practitioner Result) string {
	var parts []string
	if !competitive.Empty() {
		parts = append(parts, "## Competitive landscape\n\n"+competitive.Text)
	}
	if !practitioner.Empty() {
		parts = append(parts, "## Practitioner pain research\n\n"+practitioner.Text)
	}
	return strings.Join(parts, "\n\n")
}
