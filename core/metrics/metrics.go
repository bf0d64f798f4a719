package metrics

import (
	"time"

	"github.com/gridclear/meritsim/core/market"
)

// RunRecord is a completed simulation run handed to observability sinks.
type RunRecord struct {
	RunID   string
	Time    time.Time
	Results []market.HourResult
	Summary market.RunSummary
}

// ResultSink records completed runs for observability purposes.
type ResultSink interface {
	RecordRun(rec RunRecord) error
}

// NopSink implements ResultSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunRecord) error { return nil }
