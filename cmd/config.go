package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/khanhnv2901/websentry/internal/summary"
)

const (
	defaultTimeoutSecs    = 15
	defaultConcurrency    = 4
	defaultRateLimit      = 5
	defaultLLMTimeoutSecs = 15
	defaultLLMModel       = "gemini-1.5-flash"
)

// Config captures runtime configuration shared across commands
type Config struct {
	ReportsDir  string
	TimeoutSecs int
	Concurrency int
	RateLimit   int
	UserAgent   string
	LLM         LLMConfig
}

// LLMConfig groups AI summarization options. Enablement requires both
// the flag and an API key; the summary selector receives these values
// explicitly instead of reading them at scan time.
type LLMConfig struct {
	Enabled     bool
	APIKey      string
	Model       string
	TimeoutSecs int
}

// loadConfig materializes the configuration from viper (config file
// plus WEBSENTRY_* environment variables).
func loadConfig() Config {
	cfg := Config{
		ReportsDir:  viper.GetString("reports_dir"),
		TimeoutSecs: viper.GetInt("timeout_secs"),
		Concurrency: viper.GetInt("concurrency"),
		RateLimit:   viper.GetInt("rate_limit"),
		UserAgent:   viper.GetString("user_agent"),
		LLM: LLMConfig{
			Enabled:     viper.GetBool("llm.enabled"),
			APIKey:      viper.GetString("llm.api_key"),
			Model:       viper.GetString("llm.model"),
			TimeoutSecs: viper.GetInt("llm.timeout_secs"),
		},
	}

	if cfg.ReportsDir == "" {
		cfg.ReportsDir = "./reports"
	}
	if cfg.TimeoutSecs <= 0 {
		cfg.TimeoutSecs = defaultTimeoutSecs
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = fmt.Sprintf("WebSentry/%s (+read-only security review)", Version)
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultLLMModel
	}
	if cfg.LLM.TimeoutSecs <= 0 {
		cfg.LLM.TimeoutSecs = defaultLLMTimeoutSecs
	}
	if cfg.LLM.APIKey == "" {
		// GEMINI_API_KEY is the conventional variable for the Gemini SDK
		cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	return cfg
}

// SummaryConfig converts the CLI configuration into the summary
// selector's explicit config value.
func (c Config) SummaryConfig() summary.Config {
	return summary.Config{
		Enabled: c.LLM.Enabled,
		APIKey:  c.LLM.APIKey,
		Model:   c.LLM.Model,
		Timeout: time.Duration(c.LLM.TimeoutSecs) * time.Second,
	}
}

// Timeout returns the per-check timeout as a duration
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}
