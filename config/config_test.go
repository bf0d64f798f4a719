package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridclear/meritsim/core/market"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
scenario:
  workbook: data.xlsx
policy:
  curtailment: wind-first
  price_cap: 180
metrics:
  prometheus_enabled: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data.xlsx", cfg.Scenario.Workbook)
	assert.Equal(t, "wind-first", cfg.Policy.Curtailment)
	assert.Equal(t, 180.0, cfg.Policy.PriceCap)
	assert.True(t, cfg.Metrics.PrometheusEnabled)
	// Defaults applied.
	assert.Equal(t, "hourly_prices_and_mix_report.csv", cfg.Output.CSVPath)
	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.Equal(t, ":9090", cfg.Metrics.PrometheusPort)

	e := cfg.Policy.Engine()
	assert.Equal(t, market.CurtailWindFirst, e.Curtailment)
	assert.Equal(t, 180.0, e.PriceCap)
}

func TestLoadDefaultsCurtailment(t *testing.T) {
	path := writeConfig(t, "config.yaml", "scenario:\n  csv_dir: testdata\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, string(market.CurtailProportional), cfg.Policy.Curtailment)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "config.toml", "")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadScenarioValidation(t *testing.T) {
	path := writeConfig(t, "config.yaml", "policy:\n  price_cap: 1\n")
	_, err := Load(path)
	require.Error(t, err)

	path = writeConfig(t, "config.yaml", "scenario:\n  workbook: a.xlsx\n  csv_dir: b\n")
	_, err = Load(path)
	require.Error(t, err)
}

func TestLoadPolicyValidation(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
scenario:
  workbook: data.xlsx
policy:
  curtailment: random
`)
	_, err := Load(path)
	require.Error(t, err)

	path = writeConfig(t, "config.yaml", `
scenario:
  workbook: data.xlsx
policy:
  price_cap: -1
`)
	_, err = Load(path)
	require.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", "scenario:\n  workbook: data.xlsx\n")
	t.Setenv("MS_POLICY__PRICE_CAP", "42")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42.0, cfg.Policy.PriceCap)
}
