package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gridclear/meritsim/core/metrics"
)

// Config is the root configuration for a simulator invocation.
type Config struct {
	Scenario ScenarioConfig `json:"scenario"`
	Policy   PolicyConfig   `json:"policy"`
	Output   OutputConfig   `json:"output"`
	Metrics  metrics.Config `json:"metrics"`
	API      APIConfig      `json:"api"`
}

// Load reads a yaml or json configuration file, applies MS_-prefixed
// environment overrides, then validates every section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. MS_POLICY__PRICE_CAP=180.
	if err := k.Load(env.Provider("MS_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ms_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Policy.SetDefaults()
	cfg.Output.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.API.SetDefaults()
	if err := cfg.Scenario.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Policy.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
