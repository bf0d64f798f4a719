// Package excel loads a simulation scenario from an .xlsx workbook laid
// out with sheets demand, windplants, wind_loadfactors, solarplants,
// solar_loadfactors, gasplants and optionally gas_prices.
package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gridclear/meritsim/core/fleet"
	"github.com/gridclear/meritsim/core/market"
	"github.com/gridclear/meritsim/core/scenario"
)

const (
	sheetDemand       = "demand"
	sheetWindPlants   = "windplants"
	sheetWindFactors  = "wind_loadfactors"
	sheetSolarPlants  = "solarplants"
	sheetSolarFactors = "solar_loadfactors"
	sheetGasPlants    = "gasplants"
	sheetGasPrices    = "gas_prices"
)

// LoadScenario reads a scenario workbook. The gas_prices sheet is optional;
// without it each gas plant needs a fuel_price column.
func LoadScenario(path string) (*scenario.Scenario, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sc := &scenario.Scenario{}

	sc.Demand, err = readSeries(f, sheetDemand, "hour", "demand")
	if err != nil {
		return nil, err
	}
	sc.WindPlants, err = readPlants(f, sheetWindPlants)
	if err != nil {
		return nil, err
	}
	sc.WindFactors, err = readLoadFactors(f, sheetWindFactors)
	if err != nil {
		return nil, err
	}
	sc.SolarPlants, err = readPlants(f, sheetSolarPlants)
	if err != nil {
		return nil, err
	}
	sc.SolarFactors, err = readLoadFactors(f, sheetSolarFactors)
	if err != nil {
		return nil, err
	}

	hasPrices := sheetExists(f, sheetGasPrices)
	sc.Generators, err = readGenerators(f, sheetGasPlants, !hasPrices)
	if err != nil {
		return nil, err
	}
	if hasPrices {
		prices, err := readSeries(f, sheetGasPrices, "hour", "price")
		if err != nil {
			return nil, err
		}
		sc.GasPrices = &prices
	}
	return sc, nil
}

func sheetExists(f *excelize.File, name string) bool {
	for _, s := range f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

// rows returns the sheet contents without trailing blank rows.
func rows(f *excelize.File, sheet string) ([][]string, error) {
	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	for len(all) > 0 {
		last := all[len(all)-1]
		empty := true
		for _, c := range last {
			if strings.TrimSpace(c) != "" {
				empty = false
				break
			}
		}
		if !empty {
			break
		}
		all = all[:len(all)-1]
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("sheet %q: empty", sheet)
	}
	return all, nil
}

func headerIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseFloat(sheet string, rowNum int, col, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("sheet %q row %d: column %q: %q is not a number", sheet, rowNum, col, raw)
	}
	return v, nil
}

func parseHour(sheet string, rowNum int, raw string) (int, error) {
	// Excel stores integers as floats; accept both forms.
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v != float64(int(v)) {
		return 0, fmt.Errorf("sheet %q row %d: hour %q is not an integer", sheet, rowNum, raw)
	}
	return int(v), nil
}

// readSeries reads a two-column sheet into a Series named after the sheet.
func readSeries(f *excelize.File, sheet, hourCol, valueCol string) (market.Series, error) {
	all, err := rows(f, sheet)
	if err != nil {
		return market.Series{}, err
	}
	hi := headerIndex(all[0], hourCol)
	vi := headerIndex(all[0], valueCol)
	if hi < 0 || vi < 0 {
		return market.Series{}, fmt.Errorf("sheet %q: columns %q and %q are required", sheet, hourCol, valueCol)
	}
	s := market.Series{Name: sheet}
	for n, row := range all[1:] {
		h, err := parseHour(sheet, n+2, cell(row, hi))
		if err != nil {
			return market.Series{}, err
		}
		v, err := parseFloat(sheet, n+2, valueCol, cell(row, vi))
		if err != nil {
			return market.Series{}, err
		}
		s.Hours = append(s.Hours, h)
		s.Values = append(s.Values, v)
	}
	return s, nil
}

func readPlants(f *excelize.File, sheet string) ([]fleet.Plant, error) {
	all, err := rows(f, sheet)
	if err != nil {
		return nil, err
	}
	ni := headerIndex(all[0], "name")
	ci := headerIndex(all[0], "capacity")
	if ni < 0 || ci < 0 {
		return nil, fmt.Errorf("sheet %q: columns name and capacity are required", sheet)
	}
	var plants []fleet.Plant
	for n, row := range all[1:] {
		c, err := parseFloat(sheet, n+2, "capacity", cell(row, ci))
		if err != nil {
			return nil, err
		}
		plants = append(plants, fleet.Plant{Name: cell(row, ni), CapacityMW: c})
	}
	return plants, nil
}

// readLoadFactors reads an hour column plus one column per plant.
func readLoadFactors(f *excelize.File, sheet string) (*fleet.LoadFactors, error) {
	all, err := rows(f, sheet)
	if err != nil {
		return nil, err
	}
	hi := headerIndex(all[0], "hour")
	if hi < 0 {
		return nil, fmt.Errorf("sheet %q: column hour is required", sheet)
	}
	var plants []string
	var cols []int
	for i, h := range all[0] {
		if i == hi || strings.TrimSpace(h) == "" {
			continue
		}
		plants = append(plants, strings.TrimSpace(h))
		cols = append(cols, i)
	}
	hours := make([]int, 0, len(all)-1)
	values := make([][]float64, 0, len(all)-1)
	for n, row := range all[1:] {
		h, err := parseHour(sheet, n+2, cell(row, hi))
		if err != nil {
			return nil, err
		}
		hours = append(hours, h)
		vals := make([]float64, len(cols))
		for j, ci := range cols {
			v, err := parseFloat(sheet, n+2, plants[j], cell(row, ci))
			if err != nil {
				return nil, err
			}
			vals[j] = v
		}
		values = append(values, vals)
	}
	return fleet.NewLoadFactors(hours, plants, values)
}

func readGenerators(f *excelize.File, sheet string, requireFuelPrice bool) ([]market.GeneratorSpec, error) {
	all, err := rows(f, sheet)
	if err != nil {
		return nil, err
	}
	ni := headerIndex(all[0], "name")
	ci := headerIndex(all[0], "capacity")
	ei := headerIndex(all[0], "efficiency")
	fi := headerIndex(all[0], "fuel_price")
	if ni < 0 || ci < 0 || ei < 0 {
		return nil, fmt.Errorf("sheet %q: columns name, capacity and efficiency are required", sheet)
	}
	if requireFuelPrice && fi < 0 {
		return nil, fmt.Errorf("sheet %q: column fuel_price is required without a gas_prices sheet", sheet)
	}
	var specs []market.GeneratorSpec
	for n, row := range all[1:] {
		c, err := parseFloat(sheet, n+2, "capacity", cell(row, ci))
		if err != nil {
			return nil, err
		}
		e, err := parseFloat(sheet, n+2, "efficiency", cell(row, ei))
		if err != nil {
			return nil, err
		}
		spec := market.GeneratorSpec{Name: cell(row, ni), CapacityMW: c, Efficiency: e}
		if fi >= 0 {
			p, err := parseFloat(sheet, n+2, "fuel_price", cell(row, fi))
			if err != nil {
				return nil, err
			}
			spec.FuelPricePencePerTherm = p
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
