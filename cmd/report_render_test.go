package cmd

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/khanhnv2901/websentry/internal/engine"
)

func testReport() *engine.Report {
	return &engine.Report{
		Target:      "https://example.com",
		GeneratedAt: time.Date(2026, 8, 1, 12, 30, 45, 0, time.UTC),
		Summary:     "A lightweight security review of https://example.com identified 1 issue(s).",
		Findings: []engine.Finding{
			{
				ID:           engine.FindingID(engine.CategoryMissingHeader, "https://example.com", "content-security-policy"),
				Category:     engine.CategoryMissingHeader,
				Severity:     engine.SeverityMedium,
				Evidence:     []string{"No Content-Security-Policy header present in response"},
				Remediation:  "Add the missing security header with a restrictive policy.",
				SourceChecks: []string{"headers.csp-missing"},
			},
		},
		CoverageNotes: []string{"check tls.handshake did not run: target is not HTTPS, TLS posture not assessed"},
	}
}

func TestReportBaseName(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 30, 45, 0, time.UTC)

	cases := []struct {
		name   string
		target string
		want   string
	}{
		{"https url", "https://example.com", "report-example.com-20260801-123045"},
		{"bare host", "example.com", "report-example.com-20260801-123045"},
		{"port and path", "https://Example.com:8443/admin", "report-example.com-8443-admin-20260801-123045"},
		{"trailing slash", "https://example.com/", "report-example.com-20260801-123045"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := reportBaseName(tc.target, ts); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestReportBaseName_Deterministic(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 30, 45, 0, time.UTC)
	a := reportBaseName("https://example.com", ts)
	b := reportBaseName("https://example.com", ts)
	if a != b {
		t.Error("Expected identical names for identical inputs")
	}
}

func TestValidReportFormat(t *testing.T) {
	for _, format := range []string{"json", "html", "pdf"} {
		if !validReportFormat(format) {
			t.Errorf("Expected %q to be valid", format)
		}
	}
	for _, format := range []string{"", "xml", "JSON", "txt"} {
		if validReportFormat(format) {
			t.Errorf("Expected %q to be invalid", format)
		}
	}
}

func TestBuildDocument(t *testing.T) {
	headers := http.Header{}
	headers.Set("Server", "nginx")
	headers.Set("Content-Type", "text/html")

	out := &scanOutput{
		Report:  testReport(),
		Title:   "Example Domain",
		Headers: headers,
	}

	doc := buildDocument(out, "Rule-based (LLM disabled)")

	if doc.Meta.Tool != "WebSentry" {
		t.Errorf("Expected tool name in metadata, got %q", doc.Meta.Tool)
	}
	if doc.Meta.Mode != "Rule-based (LLM disabled)" {
		t.Errorf("Unexpected mode: %q", doc.Meta.Mode)
	}
	if !doc.Meta.ScannedAt.Equal(doc.GeneratedAt) {
		t.Error("Expected scan timestamp to match report generation time")
	}
	if doc.Title != "Example Domain" {
		t.Errorf("Expected page title carried over, got %q", doc.Title)
	}
	if doc.HeadersSample["Server"] != "nginx" {
		t.Errorf("Expected headers sample, got %v", doc.HeadersSample)
	}

	counts := doc.Counts()
	if counts["medium"] != 1 {
		t.Errorf("Expected 1 medium finding in counts, got %v", counts)
	}
	if counts["critical"] != 0 {
		t.Errorf("Expected no critical findings in counts, got %v", counts)
	}
}

func TestBuildDocument_HeadersSampleCapped(t *testing.T) {
	headers := http.Header{}
	for i := 0; i < 30; i++ {
		headers.Set("X-Header-"+string(rune('a'+i)), "value")
	}

	doc := buildDocument(&scanOutput{Report: testReport(), Headers: headers}, "Rule-based (LLM disabled)")
	if len(doc.HeadersSample) > headersSampleLimit {
		t.Errorf("Expected at most %d sampled headers, got %d", headersSampleLimit, len(doc.HeadersSample))
	}
}

func TestRenderJSON_Contract(t *testing.T) {
	doc := buildDocument(&scanOutput{Report: testReport()}, "Rule-based (LLM disabled)")

	data, err := renderJSON(doc)
	if err != nil {
		t.Fatalf("Failed to render JSON: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Rendered JSON is invalid: %v", err)
	}

	for _, field := range []string{"target", "generated_at", "summary", "findings", "coverage_notes", "meta"} {
		if _, ok := decoded[field]; !ok {
			t.Errorf("Expected top-level field %q in report document", field)
		}
	}

	findings := decoded["findings"].([]interface{})
	finding := findings[0].(map[string]interface{})
	for _, field := range []string{"finding_id", "category", "severity", "evidence", "remediation", "source_checks"} {
		if _, ok := finding[field]; !ok {
			t.Errorf("Expected finding field %q", field)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	doc := buildDocument(&scanOutput{Report: testReport(), Title: "Example Domain"}, "Rule-based (LLM disabled)")

	data, err := renderHTML(doc)
	if err != nil {
		t.Fatalf("Failed to render HTML: %v", err)
	}

	body := string(data)
	for _, want := range []string{
		"https://example.com",
		"Example Domain",
		"missing-header",
		"No Content-Security-Policy header present in response",
		"Rule-based (LLM disabled)",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected rendered HTML to contain %q", want)
		}
	}

	// The severity counts block indexes the tallies by severity name;
	// zero counts must render as 0, not fail template execution.
	for _, want := range []string{
		"Critical: 0",
		"High: 0",
		"Medium: 1",
		"Low: 0",
		"Info: 0",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected severity counts in rendered HTML, missing %q", want)
		}
	}
}

func TestRenderPDF(t *testing.T) {
	doc := buildDocument(&scanOutput{Report: testReport()}, "Rule-based (LLM disabled)")

	data, err := renderPDF(doc)
	if err != nil {
		t.Fatalf("Failed to render PDF: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Error("Expected a PDF document")
	}
}

func TestWriteReportFiles(t *testing.T) {
	dir := t.TempDir()
	doc := buildDocument(&scanOutput{Report: testReport()}, "Rule-based (LLM disabled)")

	written, err := writeReportFiles(dir, doc, []string{"json", "html"})
	if err != nil {
		t.Fatalf("Failed to write reports: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("Expected 2 artifacts, got %d", len(written))
	}

	for format, path := range written {
		if filepath.Dir(path) != dir {
			t.Errorf("Expected %s artifact under reports dir, got %s", format, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read artifact: %v", err)
		}
		if len(data) == 0 {
			t.Errorf("Expected non-empty %s artifact", format)
		}
	}

	base := reportBaseName(doc.Target, doc.GeneratedAt)
	if filepath.Base(written["json"]) != base+".json" {
		t.Errorf("Unexpected JSON artifact name: %s", written["json"])
	}
}

func TestWriteReportFiles_UnsupportedFormat(t *testing.T) {
	doc := buildDocument(&scanOutput{Report: testReport()}, "Rule-based (LLM disabled)")

	if _, err := writeReportFiles(t.TempDir(), doc, []string{"xml"}); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
