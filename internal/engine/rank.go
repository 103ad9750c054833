package engine

import "sort"

// Rank produces the presentation order over merged findings: severity
// descending, then category ascending, then finding ID ascending. The
// final key is unique per group, so the order is a strict total order
// and re-sorting an already ranked sequence is a no-op.
func Rank(merged map[string]*Finding) []Finding {
	ranked := make([]Finding, 0, len(merged))
	for _, f := range merged {
		ranked = append(ranked, *f)
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.ID < b.ID
	})

	return ranked
}
