package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validConfigYAML = `
simulation:
  portfolio_balance: 1000000
  current_age: 55
  retirement_age: 65
  life_expectancy: 95
  inflation_rate: 0.025
  expected_return: 0.07
  withdrawal_rate: 0.04
  num_runs: 500
  seed: 42
dataset:
  name: "S&P 500 Annual Returns"
  source: "historical"
logging:
  level: debug
output:
  format: json
`

func TestLoadFromFile(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile(writeConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	sim := config.Simulation
	assert.True(t, sim.PortfolioBalance.Equal(decimal.NewFromInt(1000000)))
	assert.Equal(t, 55, sim.CurrentAge)
	assert.Equal(t, 65, sim.RetirementAge)
	assert.Equal(t, 95, sim.LifeExpectancy)
	assert.True(t, sim.InflationRate.Equal(decimal.NewFromFloat(0.025)))
	assert.Equal(t, 500, sim.NumRuns)
	assert.Equal(t, uint32(42), sim.Seed)
	assert.Equal(t, "json", config.Output.Format)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadFromFileMissing(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFileBadYAML(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.LoadFromFile(writeConfigFile(t, "simulation: [not: a map"))
	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile(writeConfigFile(t, `
simulation:
  portfolio_balance: 750000
  current_age: 60
  retirement_age: 62
  life_expectancy: 90
  inflation_rate: 0.03
`))
	require.NoError(t, err)

	assert.Equal(t, 1000, config.Simulation.NumRuns)
	assert.True(t, config.Simulation.WithdrawalRate.Equal(decimal.NewFromFloat(0.04)))
	assert.Equal(t, "console", config.Output.Format)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "console", config.Logging.Format)
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Configuration)
		wantErr string
	}{
		{
			name:    "zero balance",
			mutate:  func(c *Configuration) { c.Simulation.PortfolioBalance = decimal.Zero },
			wantErr: "portfolio balance",
		},
		{
			name:    "negative balance",
			mutate:  func(c *Configuration) { c.Simulation.PortfolioBalance = decimal.NewFromInt(-5) },
			wantErr: "portfolio balance",
		},
		{
			name:    "zero current age",
			mutate:  func(c *Configuration) { c.Simulation.CurrentAge = 0 },
			wantErr: "current age",
		},
		{
			name:    "retirement before current age",
			mutate:  func(c *Configuration) { c.Simulation.RetirementAge = 50 },
			wantErr: "retirement age",
		},
		{
			name: "life expectancy at retirement",
			mutate: func(c *Configuration) {
				c.Simulation.LifeExpectancy = c.Simulation.RetirementAge
			},
			wantErr: "life expectancy",
		},
		{
			name:    "inflation too low",
			mutate:  func(c *Configuration) { c.Simulation.InflationRate = decimal.NewFromFloat(-0.15) },
			wantErr: "inflation rate",
		},
		{
			name:    "inflation too high",
			mutate:  func(c *Configuration) { c.Simulation.InflationRate = decimal.NewFromFloat(0.25) },
			wantErr: "inflation rate",
		},
		{
			name:    "withdrawal rate at one",
			mutate:  func(c *Configuration) { c.Simulation.WithdrawalRate = decimal.NewFromInt(1) },
			wantErr: "withdrawal rate",
		},
		{
			name:    "negative run count",
			mutate:  func(c *Configuration) { c.Simulation.NumRuns = -1 },
			wantErr: "num_runs",
		},
	}

	parser := NewInputParser()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config, err := parser.LoadFromFile(writeConfigFile(t, validConfigYAML))
			require.NoError(t, err)

			tc.mutate(config)
			err = parser.ValidateConfiguration(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
