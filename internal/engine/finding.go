package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// CheckStatus represents the outcome of a single check observation
type CheckStatus string

const (
	StatusOK      CheckStatus = "ok"
	StatusFlagged CheckStatus = "flagged"
	StatusError   CheckStatus = "error"
)

// CheckResult is one raw observation produced by an external check.
// It is immutable once produced and consumed exactly once by Normalize.
type CheckResult struct {
	CheckID    string            `json:"check_id"`
	Target     string            `json:"target"`
	ObservedAt time.Time         `json:"observed_at"`
	RawData    map[string]string `json:"raw_data,omitempty"`
	Status     CheckStatus       `json:"status"`
}

// Well-known RawData keys set by check implementations.
const (
	RawEvidence = "evidence" // human-readable evidence line
	RawKey      = "key"      // normalized evidence key used for deduplication
	RawError    = "error"    // failure detail for status=error results
)

// Severity is the ordered severity scale for findings
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

var severityRanks = map[Severity]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
	SeverityInfo:     0,
}

// Rank returns the numeric weight of a severity (critical highest).
// Unknown severities rank below info.
func (s Severity) Rank() int {
	if r, ok := severityRanks[s]; ok {
		return r
	}
	return -1
}

// Valid reports whether the severity is one of the defined levels
func (s Severity) Valid() bool {
	_, ok := severityRanks[s]
	return ok
}

// MaxSeverity returns the higher of two severities
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Category classifies a finding by the kind of issue observed
type Category string

const (
	CategoryMissingHeader  Category = "missing-header"
	CategoryWeakTLS        Category = "weak-tls"
	CategoryInfoDisclosure Category = "info-disclosure"
	CategoryInsecureCookie Category = "insecure-cookie"
	CategoryCORSMisconfig  Category = "cors-misconfig"
)

// Finding is a normalized, deduplicated security observation.
// Created by Normalize, mutated only during Merge, frozen after Rank.
type Finding struct {
	ID           string   `json:"finding_id"`
	Category     Category `json:"category"`
	Severity     Severity `json:"severity"`
	Evidence     []string `json:"evidence"`
	Remediation  string   `json:"remediation"`
	SourceChecks []string `json:"source_checks"`
}

// FindingID computes the deterministic identity of a finding so that
// different checks flagging the same underlying issue collapse to one
// finding downstream. The hash covers category, target, and the
// normalized evidence key only; evidence text and severity do not
// participate, keeping the ID stable under merge.
func FindingID(category Category, target, key string) string {
	h := sha256.New()
	h.Write([]byte(string(category)))
	h.Write([]byte{0})
	h.Write([]byte(target))
	h.Write([]byte{0})
	h.Write([]byte(key))
	return hex.EncodeToString(h.Sum(nil))
}

// validate checks the structural invariants required before a finding
// may enter the merge step.
func (f *Finding) validate() error {
	switch {
	case f == nil:
		return ErrInvalidFinding
	case f.ID == "":
		return ErrInvalidFinding
	case f.Category == "":
		return ErrInvalidFinding
	case !f.Severity.Valid():
		return ErrInvalidFinding
	}
	return nil
}
