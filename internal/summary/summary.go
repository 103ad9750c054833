// Package summary provides executive summary strategies for scan
// reports: an AI-backed variant using the Gemini API and a
// deterministic rule-based fallback that never fails.
package summary

import (
	"time"

	"github.com/khanhnv2901/websentry/internal/engine"
)

// Config controls summarizer selection. Enablement is threaded in
// explicitly at construction time; nothing here is read from ambient
// state during a scan.
type Config struct {
	Enabled bool
	APIKey  string
	Model   string
	Timeout time.Duration
}

const (
	defaultModel   = "gemini-1.5-flash"
	defaultTimeout = 15 * time.Second
)

// Select returns the summarizers to try in order. The AI-backed
// variant is included only when it is explicitly enabled and an API
// key is present; the rule-based fallback is always last so the
// pipeline can never end up without a summary.
func Select(cfg Config) []engine.Summarizer {
	summarizers := make([]engine.Summarizer, 0, 2)

	if cfg.Enabled && cfg.APIKey != "" {
		model := cfg.Model
		if model == "" {
			model = defaultModel
		}
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		summarizers = append(summarizers, &Gemini{
			APIKey:  cfg.APIKey,
			Model:   model,
			Timeout: timeout,
		})
	}

	return append(summarizers, RuleBased{})
}

// Mode describes the configured capability for report metadata. It
// reflects what is configured, not what succeeded for a given scan.
func Mode(cfg Config) string {
	if cfg.Enabled && cfg.APIKey != "" {
		return "AI-assisted (LLM enabled)"
	}
	return "Rule-based (LLM disabled)"
}
