package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/khanhnv2901/websentry/internal/engine"
)

// headerSpec ties a response header to the check id emitted when the
// header is absent.
type headerSpec struct {
	Name    string
	CheckID string
}

// requiredHeaders lists the security headers the reviewer expects on
// every response, in the order they are probed.
var requiredHeaders = []headerSpec{
	{"Strict-Transport-Security", "headers.hsts-missing"},
	{"Content-Security-Policy", "headers.csp-missing"},
	{"X-Frame-Options", "headers.frame-options-missing"},
	{"X-Content-Type-Options", "headers.content-type-options-missing"},
	{"Referrer-Policy", "headers.referrer-policy-missing"},
	{"Permissions-Policy", "headers.permissions-policy-missing"},
}

// disclosureHeaders are response headers that reveal server software
var disclosureHeaders = []headerSpec{
	{"Server", "headers.server-banner"},
	{"X-Powered-By", "headers.powered-by"},
}

// maxTitleBytes bounds how much of the body is read for the page title
const maxTitleBytes = 64 * 1024

// PageInfo is the non-finding context captured during the header fetch,
// used for report metadata and the summarizer prompt.
type PageInfo struct {
	Title   string
	Headers http.Header
}

// HeadersChecker performs one read-only HTTP GET and inspects the
// response for missing security headers, information disclosure,
// insecure cookie flags, and CORS misconfiguration.
type HeadersChecker struct {
	Timeout   time.Duration
	UserAgent string

	// PageHandler, when set, receives the page title and response
	// headers observed during the fetch.
	PageHandler func(info PageInfo)
}

func (h *HeadersChecker) Name() string { return "headers" }

// Check fetches the target once and emits one CheckResult per issue
// observed on the response.
func (h *HeadersChecker) Check(ctx context.Context, target string) []engine.CheckResult {
	info := ParseTarget(target)

	client := &http.Client{Timeout: h.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, info.FullURL, nil)
	if err != nil {
		return []engine.CheckResult{errorResult("headers.fetch", target, err)}
	}
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return []engine.CheckResult{errorResult("headers.fetch", target, err)}
	}
	defer resp.Body.Close()

	if h.PageHandler != nil {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxTitleBytes))
		h.PageHandler(PageInfo{
			Title:   extractTitle(string(body)),
			Headers: resp.Header.Clone(),
		})
	}

	return AnalyzeResponse(target, info.Scheme, resp.Header, resp.Cookies())
}

// AnalyzeResponse inspects response headers and cookies and returns
// the flagged observations. Split from Check so the analysis can be
// exercised without network I/O.
func AnalyzeResponse(target, scheme string, headers http.Header, cookies []*http.Cookie) []engine.CheckResult {
	results := make([]engine.CheckResult, 0)

	for _, spec := range requiredHeaders {
		// HSTS is only meaningful over HTTPS
		if spec.Name == "Strict-Transport-Security" && scheme != "https" {
			continue
		}
		if headers.Get(spec.Name) == "" {
			results = append(results, flaggedResult(spec.CheckID, target,
				strings.ToLower(spec.Name),
				fmt.Sprintf("No %s header present in response", spec.Name)))
		}
	}

	for _, spec := range disclosureHeaders {
		if value := headers.Get(spec.Name); value != "" {
			results = append(results, flaggedResult(spec.CheckID, target,
				strings.ToLower(spec.Name),
				fmt.Sprintf("%s header present: %s", spec.Name, value)))
		}
	}

	for _, cookie := range cookies {
		var missing []string
		if !cookie.Secure {
			missing = append(missing, "Secure")
		}
		if !cookie.HttpOnly {
			missing = append(missing, "HttpOnly")
		}
		if len(missing) > 0 {
			results = append(results, flaggedResult("headers.cookie-flags", target,
				"cookie:"+cookie.Name,
				fmt.Sprintf("Cookie %q is missing the %s flag(s)", cookie.Name, strings.Join(missing, ", "))))
		}
	}

	if origin := headers.Get("Access-Control-Allow-Origin"); origin == "*" {
		if headers.Get("Access-Control-Allow-Credentials") == "true" {
			results = append(results, flaggedResult("headers.cors-credentials", target,
				"cors:credentials-with-wildcard",
				"Access-Control-Allow-Credentials combined with wildcard origin"))
		} else {
			results = append(results, flaggedResult("headers.cors-wildcard", target,
				"cors:wildcard-origin",
				"Access-Control-Allow-Origin allows any origin (*)"))
		}
	}

	return results
}

// extractTitle does a naive <title> parse, good enough for report
// metadata on ordinary HTML pages.
func extractTitle(body string) string {
	lower := strings.ToLower(body)
	start := strings.Index(lower, "<title>")
	end := strings.Index(lower, "</title>")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return strings.TrimSpace(body[start+len("<title>") : end])
}
