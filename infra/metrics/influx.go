package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/gridclear/meritsim/core/logger"
	coremetrics "github.com/gridclear/meritsim/core/metrics"
	infralogger "github.com/gridclear/meritsim/infra/logger"
)

// InfluxSink writes run results to an InfluxDB instance using the official
// client: one point per cleared hour plus a summary point per run.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      infralogger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so a missing database never aborts
// a run.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.ResultSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes each hour of the run as a point, stamped relative to the
// run time so consecutive hours stay distinguishable, then a summary point.
func (s *InfluxSink) RecordRun(rec coremetrics.RunRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range rec.Results {
		p := write.NewPointWithMeasurement("hour_result").
			AddTag("run_id", rec.RunID).
			AddField("hour", r.Hour).
			AddField("price_gbp_per_mwh", r.PriceGBPPerMWh).
			AddField("demand_mwh", r.DemandMWh).
			AddField("wind_mwh", r.WindMWh).
			AddField("solar_mwh", r.SolarMWh).
			AddField("gas_mwh", r.GasMWh).
			AddField("shortage_mwh", r.ShortageMWh).
			SetTime(rec.Time.Add(time.Duration(r.Hour) * time.Hour))
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	p := write.NewPointWithMeasurement("run_summary").
		AddTag("run_id", rec.RunID).
		AddField("hours", rec.Summary.Hours).
		AddField("average_price_gbp_per_mwh", rec.Summary.AveragePrice).
		AddField("peak_price_gbp_per_mwh", rec.Summary.PeakPrice).
		AddField("shortage_hours", rec.Summary.ShortageHours).
		AddField("total_shortage_mwh", rec.Summary.TotalShortageMWh).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
