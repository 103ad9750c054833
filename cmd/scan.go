package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanhnv2901/websentry/internal/checker"
	"github.com/khanhnv2901/websentry/internal/engine"
	"github.com/khanhnv2901/websentry/internal/summary"
)

// scanOutput bundles the assembled report with the page context
// captured during the header fetch.
type scanOutput struct {
	Report  *engine.Report
	Title   string
	Headers http.Header
}

var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Run read-only security checks against a URL and write a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		formats, _ := cmd.Flags().GetStringSlice("format")
		noAI, _ := cmd.Flags().GetBool("no-ai")

		for _, f := range formats {
			if !validReportFormat(f) {
				return fmt.Errorf("unsupported report format %q (supported: json, html, pdf)", f)
			}
		}

		cfg := appCfg
		if noAI {
			cfg.LLM.Enabled = false
		}

		fmt.Printf("%s Scanning %s\n", colorInfo("→"), target)

		out, err := runScan(cmd.Context(), target, cfg, logger)
		if err != nil {
			return err
		}
		if out.Title != "" {
			fmt.Printf("%s Page title: %s\n", colorInfo("→"), out.Title)
		}

		doc := buildDocument(out, summary.Mode(cfg.SummaryConfig()))
		written, err := writeReportFiles(cfg.ReportsDir, doc, formats)
		if err != nil {
			return err
		}
		for _, f := range formats {
			fmt.Printf("%s Saved %s report: %s\n", colorSuccess("✓"), strings.ToUpper(f), written[f])
		}

		printFindings(out.Report)
		return nil
	},
}

// runScan executes the checkers and feeds their results through the
// aggregation engine. Shared by the scan command and the API server.
func runScan(ctx context.Context, target string, cfg Config, log *zap.SugaredLogger) (*scanOutput, error) {
	out := &scanOutput{}
	var mu sync.Mutex

	headersChecker := &checker.HeadersChecker{
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.UserAgent,
		PageHandler: func(info checker.PageInfo) {
			mu.Lock()
			out.Title = info.Title
			out.Headers = info.Headers
			mu.Unlock()
		},
	}
	tlsChecker := &checker.TLSChecker{
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.UserAgent,
	}

	runner := &checker.Runner{
		Concurrency: cfg.Concurrency,
		RateLimit:   cfg.RateLimit,
		Timeout:     cfg.Timeout(),
	}
	results := runner.RunChecks(ctx, target, []checker.Checker{headersChecker, tlsChecker})

	report, err := engine.BuildReport(ctx, target, results, summary.Select(cfg.SummaryConfig()), log)
	if err != nil {
		return nil, err
	}
	out.Report = report
	return out, nil
}

// printFindings writes the console summary, one numbered block per
// finding, in rank order.
func printFindings(report *engine.Report) {
	if len(report.Findings) == 0 {
		fmt.Printf("\n%s No obvious issues detected.\n", colorSuccess("✓"))
		return
	}

	fmt.Println()
	for i, f := range report.Findings {
		fmt.Printf("[%d] %s\n", i+1, f.Category)
		fmt.Printf("    Severity   : %s\n", colorSeverity(f.Severity))
		for _, ev := range f.Evidence {
			fmt.Printf("    Evidence   : %s\n", ev)
		}
		fmt.Printf("    Remediation: %s\n", f.Remediation)
		fmt.Printf("    Checks     : %s\n\n", strings.Join(f.SourceChecks, ", "))
	}

	if len(report.CoverageNotes) > 0 {
		fmt.Printf("%s Coverage notes:\n", colorWarn("!"))
		for _, note := range report.CoverageNotes {
			fmt.Printf("    - %s\n", note)
		}
	}
}

func init() {
	scanCmd.Flags().StringSlice("format", []string{"json", "html"}, "Report formats to write (json, html, pdf)")
	scanCmd.Flags().Bool("no-ai", false, "Disable AI summarization for this scan")
}
