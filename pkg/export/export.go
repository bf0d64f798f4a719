package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/gridclear/meritsim/core/market"
)

// WriteJSON writes the hourly results to w in JSON format.
func WriteJSON(w io.Writer, results []market.HourResult) error {
	enc := json.NewEncoder(w)
	return enc.Encode(results)
}

// WriteCSV writes the hourly results to w with the report headers of the
// original study output.
func WriteCSV(w io.Writer, results []market.HourResult) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Hour",
		"Marginal_Price_GBP",
		"Wind_Generated_MWh",
		"Solar_Generated_MWh",
		"Gas_Generated_MWh",
		"Demand_MWh",
		"Supply_Shortage_MWh",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		rec := []string{
			strconv.Itoa(r.Hour),
			fmtFloat(r.PriceGBPPerMWh),
			fmtFloat(r.WindMWh),
			fmtFloat(r.SolarMWh),
			fmtFloat(r.GasMWh),
			fmtFloat(r.DemandMWh),
			fmtFloat(r.ShortageMWh),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
