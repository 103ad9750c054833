package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/khanhnv2901/websentry/internal/engine"
)

var cfgFile string
var logger *zap.SugaredLogger
var appCfg Config

var rootCmd = &cobra.Command{
	Use:   "websentry",
	Short: "Read-only web application security reviewer (headers, TLS, misconfiguration signals)",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init config
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME")
			viper.SetConfigName(".websentry")
			viper.SetConfigType("yaml")
		}
		viper.SetEnvPrefix("WEBSENTRY")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		_ = viper.ReadInConfig()
		appCfg = loadConfig()

		// create reports dir if not exists
		if err := os.MkdirAll(appCfg.ReportsDir, 0o755); err != nil {
			return fmt.Errorf("failed to create reports directory: %s", err.Error())
		}
		if abs, err := filepath.Abs(appCfg.ReportsDir); err == nil {
			appCfg.ReportsDir = abs
		}

		// init logger
		l, _ := zap.NewProduction()
		logger = l.Sugar()

		// the normalization catalog is static data; reject a broken
		// build before any scan runs
		if err := engine.ValidateCatalog(); err != nil {
			return fmt.Errorf("check catalog validation failed: %w", err)
		}

		logger.Infof("reports_dir=%s llm_enabled=%t", appCfg.ReportsDir, appCfg.LLM.Enabled)

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.websentry.yaml)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
