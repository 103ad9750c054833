package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Summarizer is the capability interface for executive summary
// generation. Implementations may fail; the pipeline falls through an
// ordered list of summarizers and the terminal one must never fail.
type Summarizer interface {
	// Summarize composes an executive summary for the ranked findings.
	Summarize(ctx context.Context, target string, findings []Finding) (string, error)

	// Name identifies the summarizer in coverage notes and logs
	Name() string
}

// BuildReport runs the full aggregation pipeline over an unordered
// collection of raw check results: normalize, merge, rank, summarize,
// assemble.
//
// Per-item failures degrade to coverage notes; the only error returned
// is *FatalError on an invariant violation. Summarizers are tried in
// order, so callers pass the AI-backed variant first (when enabled)
// and the rule-based fallback last.
func BuildReport(ctx context.Context, target string, results []CheckResult, summarizers []Summarizer, log *zap.SugaredLogger) (*Report, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	var (
		findings []*Finding
		notes    []string
	)

	for _, res := range results {
		if res.Status == StatusError {
			detail := res.RawData[RawError]
			if detail == "" {
				detail = "check did not complete"
			}
			notes = append(notes, fmt.Sprintf("check %s did not run: %s", res.CheckID, detail))
			continue
		}

		f, err := Normalize(res)
		if err != nil {
			log.Warnw("skipping unrecognized check result", "check_id", res.CheckID, "error", err)
			notes = append(notes, fmt.Sprintf("check %s skipped: unrecognized check id", res.CheckID))
			continue
		}
		if f != nil {
			findings = append(findings, f)
		}
	}

	merged, mergeNotes, err := Merge(findings)
	if err != nil {
		return nil, err
	}
	notes = append(notes, mergeNotes...)

	ranked := Rank(merged)

	summary := ""
	for _, s := range summarizers {
		text, err := s.Summarize(ctx, target, ranked)
		if err != nil {
			log.Warnw("summarizer failed, falling back", "summarizer", s.Name(), "error", err)
			notes = append(notes, fmt.Sprintf("summary: %s attempted and failed: %v", s.Name(), err))
			continue
		}
		summary = text
		break
	}

	return Assemble(target, ranked, summary, notes), nil
}
