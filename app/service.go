// Package app wires configuration, loaders, the engine, exports and
// observability sinks into a runnable service.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/gridclear/meritsim/config"
	"github.com/gridclear/meritsim/core/logger"
	"github.com/gridclear/meritsim/core/market"
	coremetrics "github.com/gridclear/meritsim/core/metrics"
	"github.com/gridclear/meritsim/core/scenario"
	"github.com/gridclear/meritsim/infra/csvdata"
	"github.com/gridclear/meritsim/infra/excel"
	infralogger "github.com/gridclear/meritsim/infra/logger"
	"github.com/gridclear/meritsim/infra/metrics"
	"github.com/gridclear/meritsim/pkg/export"
	"github.com/gridclear/meritsim/pkg/plot"
)

// RunOutput is the outcome of one simulation run.
type RunOutput struct {
	RunID   string              `json:"run_id"`
	Summary market.RunSummary   `json:"summary"`
	Results []market.HourResult `json:"results"`
}

// Service runs simulations for a fixed configuration.
type Service struct {
	cfg  *config.Config
	log  logger.Logger
	sink coremetrics.ResultSink
}

// New creates a Service from the configuration, building the configured
// metrics sinks.
func New(cfg *config.Config) (*Service, error) {
	logg := infralogger.New("service")

	var sinks []coremetrics.ResultSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.ResultSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	return &Service{cfg: cfg, log: logg, sink: sink}, nil
}

// Sink exposes the configured result sink, e.g. for the HTTP API.
func (s *Service) Sink() coremetrics.ResultSink { return s.sink }

// loadScenario reads the configured input source.
func (s *Service) loadScenario() (*scenario.Scenario, error) {
	if s.cfg.Scenario.Workbook != "" {
		return excel.LoadScenario(s.cfg.Scenario.Workbook)
	}
	return csvdata.LoadScenario(s.cfg.Scenario.CSVDir)
}

// Run executes one simulation: load, validate, clear every hour, write the
// configured artifacts and record the run on the sinks.
func (s *Service) Run() (*RunOutput, error) {
	sc, err := s.loadScenario()
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	frame, ladder, err := sc.Resolve()
	if err != nil {
		return nil, err
	}
	s.log.Debugw("scenario resolved", map[string]any{
		"hours":      frame.Horizon(),
		"generators": ladder.Len(),
		"capacity":   ladder.TotalCapacity(),
	})

	engine := s.cfg.Policy.Engine()
	results, err := engine.Run(frame, ladder)
	if err != nil {
		return nil, err
	}
	out := &RunOutput{RunID: uuid.NewString(), Summary: market.Summarize(results), Results: results}

	if err := s.writeArtifacts(out); err != nil {
		return nil, err
	}
	if err := s.sink.RecordRun(coremetrics.RunRecord{
		RunID:   out.RunID,
		Time:    time.Now(),
		Results: out.Results,
		Summary: out.Summary,
	}); err != nil {
		s.log.Errorf("record run: %v", err)
	}

	s.log.Infof("average price: £%.2f/MWh over %d hours", out.Summary.AveragePrice, out.Summary.Hours)
	if out.Summary.ShortageHours > 0 {
		s.log.Warnf("supply shortage in %d hours (%.2f MWh unserved)", out.Summary.ShortageHours, out.Summary.TotalShortageMWh)
	}
	return out, nil
}

func (s *Service) writeArtifacts(out *RunOutput) error {
	if path := s.cfg.Output.CSVPath; path != "" {
		if err := writeFile(path, func(f *os.File) error { return export.WriteCSV(f, out.Results) }); err != nil {
			return fmt.Errorf("write csv report: %w", err)
		}
		s.log.Infof("results saved to %s", path)
	}
	if path := s.cfg.Output.JSONPath; path != "" {
		if err := writeFile(path, func(f *os.File) error { return export.WriteJSON(f, out.Results) }); err != nil {
			return fmt.Errorf("write json report: %w", err)
		}
	}
	if dir := s.cfg.Output.ChartDir; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := plot.MixChart(out.Results, filepath.Join(dir, "dispatch_mix.png")); err != nil {
			return fmt.Errorf("render mix chart: %w", err)
		}
		if err := plot.PriceChart(out.Results, filepath.Join(dir, "price.png")); err != nil {
			return fmt.Errorf("render price chart: %w", err)
		}
		s.log.Infof("charts saved to %s", dir)
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
