// Package main provides the Wellbot server and knowledge-base CLI.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gls-pallavi/Wellbot/internal/config"
	"github.com/gls-pallavi/Wellbot/internal/observability"
)

var (
	// Global flags
	cfgFile    string
	outputJSON bool
	verbose    bool

	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wellbot",
	Short: "Wellbot health-answer engine",
	Long: `Wellbot answers health questions from per-intent knowledge bases in
English and Hindi.

Use this tool to:
- Serve the chat and knowledge-base API
- Resolve a single question from the command line
- Inspect and edit knowledge-base files`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := cfg.Observability.LogLevel
		format := cfg.Observability.LogFormat
		if cmd.Name() != "serve" {
			// One-shot commands print results on stdout; keep stderr quiet.
			format = "console"
			if !verbose {
				level = "warn"
			}
		}

		logger = observability.NewLogger(observability.LogConfig{
			Level:       level,
			Format:      format,
			ServiceName: cfg.Observability.ServiceName,
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", os.Getenv("WELLBOT_CONFIG"), "config file path (default: defaults + env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newKBCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
