package cmd

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/khanhnv2901/websentry/internal/engine"
)

const htmlTemplatePath = "templates/report.html"

// headersSampleLimit caps how many response headers end up in the
// report metadata.
const headersSampleLimit = 20

//go:embed templates/report.html
var reportTemplateFS embed.FS

var htmlReportTemplate = template.Must(
	template.New("report.html").Funcs(template.FuncMap{
		"formatTime": formatReportTimestamp,
		"join":       strings.Join,
	}).ParseFS(reportTemplateFS, htmlTemplatePath),
)

// ReportMeta carries tool and scan metadata alongside the report body
type ReportMeta struct {
	Tool      string    `json:"tool"`
	Version   string    `json:"version"`
	ScannedAt time.Time `json:"scanned_at"`
	Mode      string    `json:"mode"`
	Scope     string    `json:"scope"`
}

// ReportDocument is the serialized artifact: the engine's stable
// report contract plus page context and tool metadata.
type ReportDocument struct {
	engine.Report
	Title         string            `json:"title,omitempty"`
	HeadersSample map[string]string `json:"headers_sample,omitempty"`
	Meta          ReportMeta        `json:"meta"`
}

// Counts exposes severity tallies to the report templates. Keys are
// the severity names as plain strings so templates can index with
// string literals.
func (d ReportDocument) Counts() map[string]int {
	counts := make(map[string]int, len(d.Findings))
	for _, f := range d.Findings {
		counts[string(f.Severity)]++
	}
	return counts
}

func buildDocument(out *scanOutput, mode string) ReportDocument {
	doc := ReportDocument{
		Report: *out.Report,
		Title:  out.Title,
		Meta: ReportMeta{
			Tool:      "WebSentry",
			Version:   Version,
			ScannedAt: out.Report.GeneratedAt,
			Mode:      mode,
			Scope:     "Unauthenticated, read-only checks",
		},
	}

	if len(out.Headers) > 0 {
		names := make([]string, 0, len(out.Headers))
		for name := range out.Headers {
			names = append(names, name)
		}
		sort.Strings(names)
		if len(names) > headersSampleLimit {
			names = names[:headersSampleLimit]
		}
		doc.HeadersSample = make(map[string]string, len(names))
		for _, name := range names {
			doc.HeadersSample[name] = out.Headers.Get(name)
		}
	}

	return doc
}

func validReportFormat(format string) bool {
	switch format {
	case "json", "html", "pdf":
		return true
	}
	return false
}

// reportBaseName derives the deterministic artifact name from the
// target host and the report timestamp.
func reportBaseName(target string, generatedAt time.Time) string {
	slug := strings.ToLower(target)
	if idx := strings.Index(slug, "://"); idx != -1 {
		slug = slug[idx+3:]
	}
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return '-'
		}
	}, slug)
	slug = strings.Trim(slug, "-")

	return fmt.Sprintf("report-%s-%s", slug, generatedAt.Format("20060102-150405"))
}

// writeReportFiles renders the document in each requested format and
// writes it under dir. Returns format -> written file path.
func writeReportFiles(dir string, doc ReportDocument, formats []string) (map[string]string, error) {
	base := reportBaseName(doc.Target, doc.GeneratedAt)
	written := make(map[string]string, len(formats))

	for _, format := range formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case "json":
			data, err = renderJSON(doc)
		case "html":
			data, err = renderHTML(doc)
		case "pdf":
			data, err = renderPDF(doc)
		default:
			return nil, fmt.Errorf("unsupported report format %q", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s report: %w", format, err)
		}

		path := filepath.Join(dir, base+"."+format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s report: %w", format, err)
		}
		written[format] = path
	}

	return written, nil
}

func renderJSON(doc ReportDocument) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

func renderHTML(doc ReportDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlReportTemplate.ExecuteTemplate(&buf, "report.html", doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDF(doc ReportDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Security Review: %s", doc.Target), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Metadata section
	pdf.SetFont("Arial", "", 10)
	if doc.Title != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Page title: %s", doc.Title), "", 1, "", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", formatReportTimestamp(doc.GeneratedAt)), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Mode: %s", doc.Meta.Mode), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Scope: %s", doc.Meta.Scope), "", 1, "", false, 0, "")
	pdf.Ln(5)

	// Executive summary
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Executive Summary", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, doc.Summary, "", "", false)
	pdf.Ln(5)

	// Findings
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Findings (%d)", len(doc.Findings)), "", 1, "", false, 0, "")
	if len(doc.Findings) == 0 {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, "No issues found.", "", 1, "", false, 0, "")
	}
	for i, f := range doc.Findings {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d. [%s] %s", i+1, strings.ToUpper(string(f.Severity)), f.Category), "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, ev := range f.Evidence {
			pdf.MultiCell(0, 5, "Evidence: "+ev, "", "", false)
		}
		pdf.MultiCell(0, 5, "Remediation: "+f.Remediation, "", "", false)
		pdf.MultiCell(0, 5, "Checks: "+strings.Join(f.SourceChecks, ", "), "", "", false)
		pdf.Ln(2)
	}

	// Coverage notes
	if len(doc.CoverageNotes) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "Coverage Notes", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, note := range doc.CoverageNotes {
			pdf.MultiCell(0, 5, "- "+note, "", "", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatReportTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}
