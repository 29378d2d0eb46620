package scoring

import "sort"

// BannedPhrases returns the highest-weighted slop and vendor phrases, used
// to build do-not-use lists for generation prompts. Deterministic order.
func BannedPhrases(limit int) []string {
	type weighted struct {
		phrase string
		weight float64
	}

	all := make([]weighted, 0, len(slopPhrases)+len(vendorPhrases))
	for p, w := range slopPhrases {
		all = append(all, weighted{p, w})
	}
	for p, w := range vendorPhrases {
		all = append(all, weighted{p, w})
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].weight != all[j].weight {
			return all[i].weight > all[j].weight
		}
		return all[i].phrase < all[j].phrase
	})

	if limit > len(all) {
		limit = len(all)
	}
	phrases := make([]string, 0, limit)
	for _, w := range all[:limit] {
		phrases = append(phrases, w.phrase)
	}
	return phrases
}
