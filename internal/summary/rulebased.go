package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/khanhnv2901/websentry/internal/engine"
)

// RuleBased composes an executive summary from severity counts and the
// top findings by rank. It is a pure function of its inputs: no I/O,
// never fails, never blocks.
type RuleBased struct{}

func (RuleBased) Name() string { return "rule-based" }

func (RuleBased) Summarize(_ context.Context, target string, findings []engine.Finding) (string, error) {
	if len(findings) == 0 {
		return fmt.Sprintf(
			"A lightweight security review of %s did not identify obvious baseline "+
				"misconfigurations during limited automated checks. This does not guarantee "+
				"the application is secure; deeper authenticated testing may still be required.",
			target), nil
	}

	counts := engine.SeverityCounts(findings)

	var posture, priority string
	switch {
	case counts[engine.SeverityCritical] > 0:
		posture = "a critical risk"
		priority = "address Critical and High severity issues immediately"
	case counts[engine.SeverityHigh] > 0:
		posture = "an elevated risk"
		priority = "address High severity issues first, followed by Medium and Low findings"
	case counts[engine.SeverityMedium] > 0:
		posture = "a moderate risk"
		priority = "remediate Medium severity issues first, then the remaining hardening gaps"
	default:
		posture = "a low risk"
		priority = "resolve the remaining configuration and hardening issues"
	}

	top := findings
	if len(top) > 3 {
		top = top[:3]
	}
	topIssues := make([]string, 0, len(top))
	for _, f := range top {
		topIssues = append(topIssues, fmt.Sprintf("%s (%s)", f.Category, f.Severity))
	}

	return fmt.Sprintf(
		"A lightweight security review of %s identified %d issue(s): %d critical, %d high, "+
			"%d medium, %d low, %d informational. Top findings: %s. Overall the application "+
			"presents %s security posture driven primarily by configuration and security "+
			"header gaps. It is recommended to %s and re-test to validate remediation.",
		target, len(findings),
		counts[engine.SeverityCritical], counts[engine.SeverityHigh],
		counts[engine.SeverityMedium], counts[engine.SeverityLow], counts[engine.SeverityInfo],
		strings.Join(topIssues, ", "), posture, priority), nil
}
