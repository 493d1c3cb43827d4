package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drawplan",
		Short: "Monte Carlo withdrawal-strategy simulator for retirement portfolios",
		Long: `drawplan estimates how long a retirement portfolio sustains five
competing withdrawal strategies (fixed-real, variable-percentage, guardrails,
three-bucket, dynamic-actuarial) under bootstrap-sampled historical market
returns, and ranks them by a composite of success rate, income stability and
ending wealth.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newSimulateCmd())
	return cmd
}

// initializeLogger creates a zap logger based on configuration and CLI
// override.
func initializeLogger(level, format string) (*zap.Logger, error) {
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	var config zap.Config
	switch format {
	case "", "console":
		config = zap.NewDevelopmentConfig()
	case "json":
		config = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	return config.Build()
}
