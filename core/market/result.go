package market

// HourResult is the cleared outcome for one hour: price, generation split
// and unserved energy. WindMWh + SolarMWh + GasMWh + ShortageMWh equals
// DemandMWh within floating-point tolerance.
type HourResult struct {
	Hour           int                `json:"hour"`
	DemandMWh      float64            `json:"demand_mwh"`
	PriceGBPPerMWh float64            `json:"price_gbp_per_mwh"`
	WindMWh        float64            `json:"wind_mwh"`
	SolarMWh       float64            `json:"solar_mwh"`
	GasMWh         float64            `json:"gas_mwh"`
	GasDispatch    map[string]float64 `json:"gas_dispatch,omitempty"`
	ShortageMWh    float64            `json:"shortage_mwh"`
}

// RunSummary aggregates a result sequence for reporting.
type RunSummary struct {
	Hours            int     `json:"hours"`
	AveragePrice     float64 `json:"average_price_gbp_per_mwh"`
	PeakPrice        float64 `json:"peak_price_gbp_per_mwh"`
	ShortageHours    int     `json:"shortage_hours"`
	TotalDemandMWh   float64 `json:"total_demand_mwh"`
	TotalWindMWh     float64 `json:"total_wind_mwh"`
	TotalSolarMWh    float64 `json:"total_solar_mwh"`
	TotalGasMWh      float64 `json:"total_gas_mwh"`
	TotalShortageMWh float64 `json:"total_shortage_mwh"`
}

// Summarize folds a result sequence into a RunSummary.
func Summarize(results []HourResult) RunSummary {
	s := RunSummary{Hours: len(results)}
	if len(results) == 0 {
		return s
	}
	var priceSum float64
	for _, r := range results {
		priceSum += r.PriceGBPPerMWh
		if r.PriceGBPPerMWh > s.PeakPrice {
			s.PeakPrice = r.PriceGBPPerMWh
		}
		if r.ShortageMWh > 0 {
			s.ShortageHours++
		}
		s.TotalDemandMWh += r.DemandMWh
		s.TotalWindMWh += r.WindMWh
		s.TotalSolarMWh += r.SolarMWh
		s.TotalGasMWh += r.GasMWh
		s.TotalShortageMWh += r.ShortageMWh
	}
	s.AveragePrice = priceSum / float64(len(results))
	return s
}
