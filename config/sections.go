package config

import (
	"fmt"

	"github.com/gridclear/meritsim/core/market"
)

// ScenarioConfig locates the input data: either an .xlsx workbook in the
// original sheet layout or a directory of CSV files.
type ScenarioConfig struct {
	Workbook string `json:"workbook"`
	CSVDir   string `json:"csv_dir"`
}

// Validate requires exactly one input source.
func (c ScenarioConfig) Validate() error {
	if c.Workbook == "" && c.CSVDir == "" {
		return fmt.Errorf("scenario: either workbook or csv_dir is required")
	}
	if c.Workbook != "" && c.CSVDir != "" {
		return fmt.Errorf("scenario: workbook and csv_dir are mutually exclusive")
	}
	return nil
}

// PolicyConfig holds the engine knobs left open by the auction rule.
type PolicyConfig struct {
	// Curtailment: proportional, wind-first or solar-first.
	Curtailment string `json:"curtailment"`
	// PriceCap prices hours where demand is positive but no generator
	// exists at all.
	PriceCap float64 `json:"price_cap"`
}

// SetDefaults applies sane defaults.
func (c *PolicyConfig) SetDefaults() {
	if c.Curtailment == "" {
		c.Curtailment = string(market.CurtailProportional)
	}
}

// Validate checks the policy fields.
func (c PolicyConfig) Validate() error {
	if !market.CurtailmentPolicy(c.Curtailment).Valid() {
		return fmt.Errorf("policy: unknown curtailment %q", c.Curtailment)
	}
	if c.PriceCap < 0 {
		return fmt.Errorf("policy: price_cap must be non-negative")
	}
	return nil
}

// Engine builds the configured dispatch engine.
func (c PolicyConfig) Engine() market.Engine {
	e := market.NewEngine()
	e.Curtailment = market.CurtailmentPolicy(c.Curtailment)
	e.PriceCap = c.PriceCap
	return e
}

// OutputConfig names the report artifacts a run writes.
type OutputConfig struct {
	CSVPath  string `json:"csv_path"`
	JSONPath string `json:"json_path"`
	ChartDir string `json:"chart_dir"`
}

// SetDefaults keeps the original report filename.
func (c *OutputConfig) SetDefaults() {
	if c.CSVPath == "" {
		c.CSVPath = "hourly_prices_and_mix_report.csv"
	}
}

// APIConfig configures serve mode.
type APIConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies the default listen address.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}
