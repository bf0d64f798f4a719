// Package csvdata loads a simulation scenario from a directory of CSV
// files: demand.csv, wind.csv and solar.csv (hour,value pairs),
// gasplants.csv and an optional gas_prices.csv. CSV mode takes aggregate
// wind/solar series rather than plant fleets; workbook input covers the
// fleet layout.
package csvdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gridclear/meritsim/core/market"
	"github.com/gridclear/meritsim/core/scenario"
)

// LoadScenario reads a scenario from dir.
func LoadScenario(dir string) (*scenario.Scenario, error) {
	sc := &scenario.Scenario{}
	var err error

	if sc.Demand, err = readSeries(filepath.Join(dir, "demand.csv"), "demand"); err != nil {
		return nil, err
	}
	if sc.Wind, err = readSeries(filepath.Join(dir, "wind.csv"), "wind"); err != nil {
		return nil, err
	}
	if sc.Solar, err = readSeries(filepath.Join(dir, "solar.csv"), "solar"); err != nil {
		return nil, err
	}

	pricesPath := filepath.Join(dir, "gas_prices.csv")
	hasPrices := fileExists(pricesPath)
	if sc.Generators, err = readGenerators(filepath.Join(dir, "gasplants.csv"), !hasPrices); err != nil {
		return nil, err
	}
	if hasPrices {
		prices, err := readSeries(pricesPath, "gas_prices")
		if err != nil {
			return nil, err
		}
		sc.GasPrices = &prices
	}
	return sc, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func readRecords(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}
	return records, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// readSeries reads an hour column and the first non-hour column.
func readSeries(path, name string) (market.Series, error) {
	records, err := readRecords(path)
	if err != nil {
		return market.Series{}, err
	}
	hi := columnIndex(records[0], "hour")
	if hi < 0 {
		return market.Series{}, fmt.Errorf("%s: column hour is required", path)
	}
	vi := -1
	for i := range records[0] {
		if i != hi {
			vi = i
			break
		}
	}
	if vi < 0 {
		return market.Series{}, fmt.Errorf("%s: a value column is required", path)
	}
	s := market.Series{Name: name}
	for n, row := range records[1:] {
		h, err := strconv.Atoi(strings.TrimSpace(row[hi]))
		if err != nil {
			return market.Series{}, fmt.Errorf("%s row %d: hour %q is not an integer", path, n+2, row[hi])
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[vi]), 64)
		if err != nil {
			return market.Series{}, fmt.Errorf("%s row %d: %q is not a number", path, n+2, row[vi])
		}
		s.Hours = append(s.Hours, h)
		s.Values = append(s.Values, v)
	}
	return s, nil
}

func readGenerators(path string, requireFuelPrice bool) ([]market.GeneratorSpec, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	header := records[0]
	ni := columnIndex(header, "name")
	ci := columnIndex(header, "capacity")
	ei := columnIndex(header, "efficiency")
	fi := columnIndex(header, "fuel_price")
	if ni < 0 || ci < 0 || ei < 0 {
		return nil, fmt.Errorf("%s: columns name, capacity and efficiency are required", path)
	}
	if requireFuelPrice && fi < 0 {
		return nil, fmt.Errorf("%s: column fuel_price is required without gas_prices.csv", path)
	}
	var specs []market.GeneratorSpec
	for n, row := range records[1:] {
		c, err := strconv.ParseFloat(strings.TrimSpace(row[ci]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: capacity %q is not a number", path, n+2, row[ci])
		}
		e, err := strconv.ParseFloat(strings.TrimSpace(row[ei]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: efficiency %q is not a number", path, n+2, row[ei])
		}
		spec := market.GeneratorSpec{Name: strings.TrimSpace(row[ni]), CapacityMW: c, Efficiency: e}
		if fi >= 0 {
			p, err := strconv.ParseFloat(strings.TrimSpace(row[fi]), 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: fuel_price %q is not a number", path, n+2, row[fi])
			}
			spec.FuelPricePencePerTherm = p
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
