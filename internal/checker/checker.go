package checker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/khanhnv2901/websentry/internal/engine"
)

// Checker is the interface that all check implementations must satisfy
type Checker interface {
	// Check performs the read-only probe against the target and
	// returns the raw observations for the aggregation engine.
	Check(ctx context.Context, target string) []engine.CheckResult

	// Name returns the name of this checker (e.g., "headers", "tls")
	Name() string
}

// Runner orchestrates the execution of checks with concurrency and rate limiting.
// Checks may finish in any order; the engine treats the combined results as an
// unordered collection.
type Runner struct {
	Concurrency int           // Maximum number of concurrent checks
	RateLimit   int           // Requests per second (global)
	Timeout     time.Duration // Timeout for each check
}

// RunChecks executes every checker against the target and returns the
// flattened results.
func (r *Runner) RunChecks(ctx context.Context, target string, checkers []Checker) []engine.CheckResult {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = len(checkers)
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if r.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.RateLimit), r.RateLimit)
	}

	// Worker pool
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	mu := sync.Mutex{}
	results := make([]engine.CheckResult, 0, len(checkers))

	for _, chk := range checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()

			// Acquire semaphore
			sem <- struct{}{}
			defer func() { <-sem }()

			// Wait for rate limiter
			_ = limiter.Wait(ctx)

			checkCtx, cancel := context.WithTimeout(ctx, r.Timeout)
			defer cancel()

			res := c.Check(checkCtx, target)

			mu.Lock()
			results = append(results, res...)
			mu.Unlock()
		}(chk)
	}

	wg.Wait()
	return results
}

// errorResult builds the CheckResult emitted when a probe could not
// complete; the engine turns it into a coverage note.
func errorResult(checkID, target string, err error) engine.CheckResult {
	return engine.CheckResult{
		CheckID:    checkID,
		Target:     target,
		ObservedAt: time.Now().UTC(),
		Status:     engine.StatusError,
		RawData:    map[string]string{engine.RawError: err.Error()},
	}
}

// flaggedResult builds a flagged CheckResult carrying one evidence
// line and the normalized dedup key.
func flaggedResult(checkID, target, key, evidence string) engine.CheckResult {
	return engine.CheckResult{
		CheckID:    checkID,
		Target:     target,
		ObservedAt: time.Now().UTC(),
		Status:     engine.StatusFlagged,
		RawData: map[string]string{
			engine.RawKey:      key,
			engine.RawEvidence: evidence,
		},
	}
}
