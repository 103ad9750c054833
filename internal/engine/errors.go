package engine

import (
	"errors"
	"fmt"
)

// Engine errors. Per-item failures (unrecognized checks, malformed
// findings, summary failures) are degraded to coverage notes by the
// pipeline; only FatalError aborts report generation.
var (
	ErrUnrecognizedCheck  = errors.New("unrecognized check id")
	ErrInvalidFinding     = errors.New("invalid finding")
	ErrSummaryUnavailable = errors.New("summary unavailable")
)

// FatalError signals an invariant violation inside the aggregation
// pipeline, such as two findings sharing an ID but disagreeing on
// category. It indicates a normalization bug and is the only error
// class that aborts a scan.
type FatalError struct {
	FindingID string
	Detail    string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("engine invariant violated for finding %s: %s", e.FindingID, e.Detail)
}
