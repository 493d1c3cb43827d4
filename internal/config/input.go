package config

import (
	"fmt"
	"os"

	"github.com/drawplan/drawplan/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Configuration is the top-level structure of a simulation input file.
type Configuration struct {
	Simulation domain.SimulationInput `yaml:"simulation"`
	Dataset    DatasetConfig          `yaml:"dataset"`
	Logging    LoggingConfig          `yaml:"logging"`
	Output     OutputConfig           `yaml:"output"`
}

// DatasetConfig selects the historical return dataset. An empty CSVPath
// means the built-in S&P 500 annual series.
type DatasetConfig struct {
	CSVPath string `yaml:"csv_path"`
	Name    string `yaml:"name"`
	Source  string `yaml:"source"`
}

// LoggingConfig controls the CLI logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// InputParser handles parsing of input configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML file, applies defaults and
// validates the result.
func (ip *InputParser) LoadFromFile(filename string) (*Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var config Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.ApplyDefaults(&config)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ApplyDefaults fills in unset optional fields.
func (ip *InputParser) ApplyDefaults(config *Configuration) {
	sim := &config.Simulation
	if sim.NumRuns == 0 {
		sim.NumRuns = 1000
	}
	if sim.WithdrawalRate.IsZero() {
		sim.WithdrawalRate = decimal.NewFromFloat(0.04)
	}
	if config.Output.Format == "" {
		config.Output.Format = "console"
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "console"
	}
}

// ValidateConfiguration enforces the numeric invariants the engine depends
// on. Inputs are user-facing, so failures carry the offending value.
func (ip *InputParser) ValidateConfiguration(config *Configuration) error {
	sim := &config.Simulation

	if !sim.PortfolioBalance.IsPositive() {
		return fmt.Errorf("portfolio balance must be positive, got %s", sim.PortfolioBalance)
	}
	if sim.CurrentAge <= 0 {
		return fmt.Errorf("current age must be positive, got %d", sim.CurrentAge)
	}
	if sim.RetirementAge < sim.CurrentAge {
		return fmt.Errorf("retirement age (%d) cannot be before current age (%d)", sim.RetirementAge, sim.CurrentAge)
	}
	if sim.LifeExpectancy <= sim.RetirementAge {
		return fmt.Errorf("life expectancy (%d) must exceed retirement age (%d)", sim.LifeExpectancy, sim.RetirementAge)
	}

	// Allow deflation but cap extreme values.
	if sim.InflationRate.LessThan(decimal.NewFromFloat(-0.10)) || sim.InflationRate.GreaterThan(decimal.NewFromFloat(0.20)) {
		return fmt.Errorf("inflation rate must be between -10%% and 20%%, got %s%%",
			sim.InflationRate.Mul(decimal.NewFromInt(100)).StringFixed(2))
	}
	if !sim.WithdrawalRate.IsPositive() || sim.WithdrawalRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("withdrawal rate must be in (0, 1), got %s", sim.WithdrawalRate)
	}
	if sim.NumRuns <= 0 {
		return fmt.Errorf("num_runs must be positive, got %d", sim.NumRuns)
	}

	return nil
}
