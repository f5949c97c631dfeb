package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"booklog/internal/cli"
	"booklog/internal/config"
	"booklog/internal/log"
)

// version is set at build time with -ldflags "-X booklog/cmd/booklog/cmd.version=...".
var version = "dev"

var (
	logLevel string

	cfg    *config.Config
	logger *log.Logger

	now = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "booklog",
	Short: "Reading log calendar",
	Long: `booklog shows a reading log as a month calendar.

It serves the calendar over HTTP, runs it in the terminal, lists books by
month, imports the log into SQLite and exposes it to MCP clients.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		cli.LoadEnvFile()

		c, err := cli.LoadAndValidateConfig()
		if err != nil {
			return err
		}
		if logLevel != "" {
			c.LogLevel = logLevel
		}
		cfg = c
		// Logs go to stderr so that stdout stays clean for list and mcp.
		logger = cli.SetupLogger(cfg.LogLevel, os.Stderr)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
}

// nowIn is the current time in the configured timezone.
func nowIn() time.Time {
	if cfg == nil {
		return now()
	}
	return now().In(cfg.Location())
}
