package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/drawplan/drawplan/internal/config"
	"github.com/drawplan/drawplan/internal/domain"
	"github.com/drawplan/drawplan/internal/output"
	"github.com/drawplan/drawplan/internal/simulation"
	"github.com/spf13/cobra"
)

func newSimulateCmd() *cobra.Command {
	var (
		configPath   string
		outputFormat string
		logLevel     string
		seed         uint32
		numRuns      int
		parallel     bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the five-strategy Monte Carlo comparison",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			conf, err := parser.LoadFromFile(configPath)
			if err != nil {
				return err
			}

			// CLI overrides take precedence over the config file.
			if seed != 0 {
				conf.Simulation.Seed = seed
			}
			if numRuns != 0 {
				conf.Simulation.NumRuns = numRuns
			}
			if outputFormat != "" {
				conf.Output.Format = outputFormat
			}
			if logLevel != "" {
				conf.Logging.Level = logLevel
			}

			logger, err := initializeLogger(conf.Logging.Level, conf.Logging.Format)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			sugar := logger.Sugar()

			dataset, err := loadDataset(conf.Dataset)
			if err != nil {
				return err
			}
			sugar.Infof("dataset %s: %d years, mean %s%%",
				dataset.Name, dataset.Len(), dataset.Statistics.Mean.StringFixed(2))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			engine := simulation.NewEngine(dataset)
			engine.SetLogger(sugar)
			engine.SetParallel(parallel)
			engine.SetProgress(func(result *domain.StrategyResult) {
				sugar.Infof("completed %s (%d runs)", result.Strategy, result.NumRuns)
			})

			outcome, err := engine.Run(ctx, &conf.Simulation)
			if err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}

			return output.GenerateReport(outcome, conf.Output.Format)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "drawplan.yaml", "path to simulation input file")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format override (console, json, csv)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	cmd.Flags().Uint32Var(&seed, "seed", 0, "top-level random seed override (0 = from config or time)")
	cmd.Flags().IntVar(&numRuns, "runs", 0, "runs per strategy override")
	cmd.Flags().BoolVar(&parallel, "parallel", true, "run strategies and simulations concurrently")

	return cmd
}

// loadDataset resolves the historical dataset: a CSV file when configured,
// otherwise the built-in S&P 500 annual series.
func loadDataset(conf config.DatasetConfig) (*simulation.ReturnDataset, error) {
	if conf.CSVPath == "" {
		return simulation.DefaultDataset(), nil
	}
	name := conf.Name
	if name == "" {
		name = "custom"
	}
	return simulation.LoadReturnDatasetCSV(conf.CSVPath, name, conf.Source)
}
