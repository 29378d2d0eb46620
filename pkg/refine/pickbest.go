package refine

import "copyforge-be/pkg/scoring"

// Candidate pairs one content draft with its scores.
type Candidate struct {
	Content string
	Scores  scoring.ScoreResults
}

// PickBest reduces candidates by TotalQualityScore. Ties keep the earlier
// candidate, so PickBest(original, refined) prefers the original when a
// refinement pass bought nothing. Pure function; no side effects.
func PickBest(candidates ...Candidate) Candidate {
	best := candidates[0]
	bestTotal := scoring.TotalQualityScore(best.Scores)
	for _, c := range candidates[1:] {
		if total := scoring.TotalQualityScore(c.Scores); total > bestTotal {
			best = c
			bestTotal = total
		}
	}
	return best
}
