package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/khanhnv2901/websentry/internal/engine"
)

// Gemini generates an executive summary through the Gemini API. Every
// failure path (client setup, timeout, blocked or empty response) is
// reported as engine.ErrSummaryUnavailable so the pipeline can fall
// back silently.
type Gemini struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

func (g *Gemini) Name() string { return "ai summarization" }

func (g *Gemini) Summarize(ctx context.Context, target string, findings []engine.Finding) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.APIKey))
	if err != nil {
		return "", fmt.Errorf("%w: create client: %v", engine.ErrSummaryUnavailable, err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.Model)
	model.SetTemperature(0.3)

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(target, findings)))
	if err != nil {
		return "", fmt.Errorf("%w: generate: %v", engine.ErrSummaryUnavailable, err)
	}

	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: model returned no text", engine.ErrSummaryUnavailable)
	}
	return text, nil
}

func buildPrompt(target string, findings []engine.Finding) string {
	counts := engine.SeverityCounts(findings)

	top := findings
	if len(top) > 8 {
		top = top[:8]
	}
	issues := make([]string, 0, len(top))
	for _, f := range top {
		line := fmt.Sprintf("%s [%s]", f.Category, f.Severity)
		if len(f.Evidence) > 0 {
			line += ": " + f.Evidence[0]
		}
		issues = append(issues, line)
	}
	keyIssues := "No issues detected"
	if len(issues) > 0 {
		keyIssues = strings.Join(issues, "; ")
	}

	return fmt.Sprintf(`Write ONE concise executive summary paragraph for a web application security review.

Target URL: %s

Findings count:
Critical=%d, High=%d, Medium=%d, Low=%d, Info=%d

Key issues:
%s

Requirements:
- One paragraph only
- Non-technical, executive-friendly language
- State overall risk level
- Clearly state what should be prioritized first
- No bullet points`,
		target,
		counts[engine.SeverityCritical], counts[engine.SeverityHigh],
		counts[engine.SeverityMedium], counts[engine.SeverityLow], counts[engine.SeverityInfo],
		keyIssues)
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(b.String())
}
