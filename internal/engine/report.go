package engine

import (
	"sort"
	"time"
)

// Report is the immutable artifact of one scan. Field names and the
// severity ordering of Findings are part of the stable JSON contract
// consumed by renderers and API clients.
type Report struct {
	Target        string    `json:"target"`
	GeneratedAt   time.Time `json:"generated_at"`
	Summary       string    `json:"summary"`
	Findings      []Finding `json:"findings"`
	CoverageNotes []string  `json:"coverage_notes"`
}

// Assemble builds the final Report value. An empty findings slice is
// valid and means "no issues found", which is distinct from a failed
// scan. GeneratedAt is stamped exactly once here; coverage notes are
// sorted so reports are reproducible regardless of check execution
// order.
func Assemble(target string, ranked []Finding, summary string, coverageNotes []string) *Report {
	if ranked == nil {
		ranked = []Finding{}
	}
	notes := append([]string(nil), coverageNotes...)
	sort.Strings(notes)
	if notes == nil {
		notes = []string{}
	}

	return &Report{
		Target:        target,
		GeneratedAt:   time.Now().UTC(),
		Summary:       summary,
		Findings:      ranked,
		CoverageNotes: notes,
	}
}

// SeverityCounts tallies findings per severity level for summaries and
// report headers.
func SeverityCounts(findings []Finding) map[Severity]int {
	counts := make(map[Severity]int, len(severityRanks))
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}
