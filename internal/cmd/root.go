package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/atikulmunna/logtally/internal/output"
	"github.com/atikulmunna/logtally/internal/worker"
)

// envPrefix namespaces the environment variables bound to flags,
// e.g. LOGTALLY_FILE and LOGTALLY_WORKERS.
const envPrefix = "LOGTALLY"

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd builds the logtally command with its own viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var logger *zap.Logger

	cmd := &cobra.Command{
		Use:   "logtally [category] [date] [keyword]",
		Short: "Filter a log file and count lines by severity",
		Long: `logtally reads a log file line by line, prints every line that matches the
optional filters, and counts INFO, WARN and ERROR lines on a pool of workers.

Filters (all positional, all optional):
  category  info, warn or error (case-insensitive); anything else disables it
  date      literal substring the line must contain (case-sensitive)
  keyword   substring the line must contain (case-insensitive)

Examples:
  logtally --file app.log
  logtally error --file app.log
  logtally any 2026-02-17 disk --file app.log --workers 8
  LOGTALLY_FILE=app.log logtally warn --output json`,
		Args:          cobra.MaximumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			config.Encoding = "console"
			config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if v.GetBool("verbose") {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := options{
				File:    v.GetString("file"),
				Workers: v.GetInt("workers"),
				Output:  v.GetString("output"),
			}
			return runAnalyze(cmd, args, opts, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringP("file", "f", "", "log file to analyze (required)")
	flags.IntP("workers", "w", worker.DefaultPoolSize, "number of counting workers")
	flags.StringP("output", "o", output.FormatText, "output format: text, json")
	flags.BoolP("verbose", "v", false, "print debug diagnostics to stderr")

	cobra.CheckErr(v.BindPFlags(flags))
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}
