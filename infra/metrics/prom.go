package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/gridclear/meritsim/core/metrics"
)

// PromSink records run summaries in Prometheus metrics.
type PromSink struct {
	runs          prometheus.Counter
	shortageHours prometheus.Gauge
	averagePrice  prometheus.Gauge
	peakPrice     prometheus.Gauge
	hourPrices    prometheus.Histogram
}

// NewPromSink registers run metrics on the default Prometheus registerer.
// The exposition server is started separately in serve mode.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simulation_runs_total",
			Help: "Total number of completed simulation runs",
		}),
		shortageHours: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "simulation_shortage_hours",
			Help: "Hours with unserved energy in the last run",
		}),
		averagePrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "simulation_average_price_gbp_per_mwh",
			Help: "Average clearing price of the last run",
		}),
		peakPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "simulation_peak_price_gbp_per_mwh",
			Help: "Highest clearing price of the last run",
		}),
		hourPrices: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "simulation_clearing_price_gbp_per_mwh",
			Help:    "Distribution of hourly clearing prices",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
	collectors := []prometheus.Collector{s.runs, s.shortageHours, s.averagePrice, s.peakPrice, s.hourPrices}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			collectors[i] = are.ExistingCollector
		}
	}
	s.runs = collectors[0].(prometheus.Counter)
	s.shortageHours = collectors[1].(prometheus.Gauge)
	s.averagePrice = collectors[2].(prometheus.Gauge)
	s.peakPrice = collectors[3].(prometheus.Gauge)
	s.hourPrices = collectors[4].(prometheus.Histogram)
	return s, nil
}

// RecordRun updates the run counters and gauges and observes every hourly
// clearing price.
func (s *PromSink) RecordRun(rec coremetrics.RunRecord) error {
	s.runs.Inc()
	s.shortageHours.Set(float64(rec.Summary.ShortageHours))
	s.averagePrice.Set(rec.Summary.AveragePrice)
	s.peakPrice.Set(rec.Summary.PeakPrice)
	for _, r := range rec.Results {
		s.hourPrices.Observe(r.PriceGBPPerMWh)
	}
	return nil
}
