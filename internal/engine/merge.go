package engine

import (
	"fmt"
	"sort"
)

// Merge collapses findings that share a finding ID into one finding
// per ID. Evidence lines and source checks are set-unioned and stored
// in sorted order so the merged output is identical for every input
// ordering or batching; severity is escalation-only (the maximum of
// the group).
//
// Malformed findings are excluded from the merge and reported in the
// returned notes instead of aborting the scan. A group whose members
// disagree on category indicates a normalization bug and fails with
// *FatalError.
func Merge(findings []*Finding) (map[string]*Finding, []string, error) {
	merged := make(map[string]*Finding, len(findings))
	var notes []string

	for _, f := range findings {
		if err := f.validate(); err != nil {
			notes = append(notes, fmt.Sprintf("finding excluded from merge: %v", err))
			continue
		}

		existing, ok := merged[f.ID]
		if !ok {
			merged[f.ID] = &Finding{
				ID:           f.ID,
				Category:     f.Category,
				Severity:     f.Severity,
				Evidence:     sortedUnion(nil, f.Evidence),
				Remediation:  f.Remediation,
				SourceChecks: sortedUnion(nil, f.SourceChecks),
			}
			continue
		}

		if existing.Category != f.Category {
			return nil, nil, &FatalError{
				FindingID: f.ID,
				Detail:    fmt.Sprintf("divergent categories %q and %q", existing.Category, f.Category),
			}
		}

		existing.Severity = MaxSeverity(existing.Severity, f.Severity)
		existing.Evidence = sortedUnion(existing.Evidence, f.Evidence)
		existing.SourceChecks = sortedUnion(existing.SourceChecks, f.SourceChecks)
	}

	return merged, notes, nil
}

// sortedUnion merges two string slices into a sorted slice without
// duplicates. Sorting makes the union commutative, which is what keeps
// Merge independent of input order.
func sortedUnion(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for _, s := range b {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
