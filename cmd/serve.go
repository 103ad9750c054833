package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanhnv2901/websentry/internal/api"
	"github.com/khanhnv2901/websentry/internal/summary"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run WebSentry as a web UI and JSON API service",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		apiKey, _ := cmd.Flags().GetString("api-key")
		shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")
		corsOrigins, _ := cmd.Flags().GetStringSlice("cors-origins")
		rateLimit, _ := cmd.Flags().GetInt("rate-limit")
		rateBurst, _ := cmd.Flags().GetInt("rate-burst")

		// Initialize structured logger
		zlogger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() {
			if err := zlogger.Sync(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
			}
		}()

		server := api.NewServer(api.Config{
			Scans:       &scanService{cfg: appCfg, logger: zlogger.Sugar()},
			ReportsDir:  appCfg.ReportsDir,
			APIKey:      apiKey,
			Logger:      zlogger,
			CORSOrigins: corsOrigins,
			RateLimit:   rateLimit,
			RateBurst:   rateBurst,
		})

		httpServer := &http.Server{
			Addr:         addr,
			Handler:      server,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 120 * time.Second, // scans run inside request handling
			IdleTimeout:  120 * time.Second,
		}

		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("%s WebSentry listening on %s (reports dir: %s)\n", colorInfo("→"), addr, appCfg.ReportsDir)
			fmt.Printf("%s Press Ctrl+C to gracefully shutdown\n", colorInfo("→"))
			serverErrors <- httpServer.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
		case sig := <-shutdown:
			fmt.Printf("\n%s Received signal %v, initiating graceful shutdown...\n", colorInfo("→"), sig)

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(ctx); err != nil {
				if closeErr := httpServer.Close(); closeErr != nil {
					return fmt.Errorf("failed to gracefully shutdown server: %w (close error: %v)", err, closeErr)
				}
				return fmt.Errorf("failed to gracefully shutdown server: %w", err)
			}

			fmt.Printf("%s Server shutdown complete\n", colorSuccess("✓"))
		}

		return nil
	},
}

// scanService adapts the CLI scan pipeline to the API server's
// ScanService interface: run checks, assemble the report, write the
// JSON and HTML artifacts.
type scanService struct {
	cfg    Config
	logger *zap.SugaredLogger
}

func (s *scanService) Scan(ctx context.Context, target string) (*api.ScanResult, error) {
	out, err := runScan(ctx, target, s.cfg, s.logger)
	if err != nil {
		return nil, err
	}

	doc := buildDocument(out, summary.Mode(s.cfg.SummaryConfig()))
	written, err := writeReportFiles(s.cfg.ReportsDir, doc, []string{"json", "html"})
	if err != nil {
		return nil, err
	}

	data, err := renderJSON(doc)
	if err != nil {
		return nil, err
	}

	return &api.ScanResult{
		Report:   out.Report,
		Title:    out.Title,
		JSON:     data,
		JSONFile: filepath.Base(written["json"]),
		HTMLFile: filepath.Base(written["html"]),
	}, nil
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Address for the web server")
	serveCmd.Flags().String("api-key", "", "Optional shared secret for /api/scan requests")
	serveCmd.Flags().Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	serveCmd.Flags().StringSlice("cors-origins", nil, "Allowed CORS origins (empty = allow all)")
	serveCmd.Flags().Int("rate-limit", 0, "Requests per second per IP (0 = disabled)")
	serveCmd.Flags().Int("rate-burst", 5, "Burst size for rate limiter")
}
