package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/nurye/shop/internal/config"
	"github.com/nurye/shop/internal/logtail"
)

var (
	logLines   int
	logLevel   string
	logNoColor bool
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the end of the storefront log",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().IntVarP(&logLines, "lines", "n", 50, "Number of lines to read (0 for all)")
	logsCmd.Flags().StringVar(&logLevel, "level", "info", "Minimum level: debug, info, warn, error")
	logsCmd.Flags().BoolVar(&logNoColor, "no-color", false, "Disable colors")
}

func runLogs(cmd *cobra.Command, args []string) error {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid level %q: %w", logLevel, err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lines, err := logtail.Read(cfg.LogFile, logLines)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(lines) == 0 {
		fmt.Fprintf(out, "no log entries in %s\n", cfg.LogFile)
		return nil
	}
	for _, line := range logtail.FormatLines(lines, level, !logNoColor) {
		fmt.Fprintln(out, line)
	}
	return nil
}
