package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFrame(t *testing.T, demand, wind, solar []float64) *Frame {
	t.Helper()
	f, err := NewFrame(NewSeries("demand", demand), NewSeries("wind", wind), NewSeries("solar", solar), nil)
	require.NoError(t, err)
	return f
}

func mustLadder(t *testing.T, specs ...GeneratorSpec) *MeritOrder {
	t.Helper()
	m, err := BuildMeritOrder(specs)
	require.NoError(t, err)
	return m
}

func assertConservation(t *testing.T, results []HourResult) {
	t.Helper()
	for _, r := range results {
		sum := r.WindMWh + r.SolarMWh + r.GasMWh + r.ShortageMWh
		assert.InDelta(t, r.DemandMWh, sum, 1e-6, "hour %d", r.Hour)
		var gas float64
		for _, v := range r.GasDispatch {
			gas += v
		}
		assert.InDelta(t, r.GasMWh, gas, 1e-6, "hour %d dispatch total", r.Hour)
	}
}

func TestRunSurplusHour(t *testing.T) {
	f := mustFrame(t, []float64{40}, []float64{30}, []float64{20})
	ladder := mustLadder(t, GeneratorSpec{Name: "g", CapacityMW: 100, Efficiency: 1, FuelPricePencePerTherm: fuelFor(10)})

	results, err := NewEngine().Run(f, ladder)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Zero(t, r.PriceGBPPerMWh)
	assert.Zero(t, r.ShortageMWh)
	assert.Zero(t, r.GasMWh)
	assert.InDelta(t, 40, r.WindMWh+r.SolarMWh, 1e-9)
	// Proportional policy: both sources scaled by 40/50.
	assert.InDelta(t, 24, r.WindMWh, 1e-9)
	assert.InDelta(t, 16, r.SolarMWh, 1e-9)
	assertConservation(t, results)
}

func TestRunNormalHour(t *testing.T) {
	f := mustFrame(t, []float64{100}, []float64{30}, []float64{20})
	ladder := mustLadder(t,
		GeneratorSpec{Name: "base", CapacityMW: 40, Efficiency: 1, FuelPricePencePerTherm: fuelFor(10)},
		GeneratorSpec{Name: "peaker", CapacityMW: 30, Efficiency: 1, FuelPricePencePerTherm: fuelFor(20)},
	)

	results, err := NewEngine().Run(f, ladder)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.InDelta(t, 20, r.PriceGBPPerMWh, 1e-9)
	assert.Zero(t, r.ShortageMWh)
	assert.Equal(t, 30.0, r.WindMWh)
	assert.Equal(t, 20.0, r.SolarMWh)
	assert.InDelta(t, 40, r.GasDispatch["base"], 1e-9)
	assert.InDelta(t, 10, r.GasDispatch["peaker"], 1e-9)
	assert.InDelta(t, 50, r.GasMWh, 1e-9)
	assertConservation(t, results)
}

func TestRunShortageHour(t *testing.T) {
	f := mustFrame(t, []float64{200}, []float64{10}, []float64{10})
	ladder := mustLadder(t,
		GeneratorSpec{Name: "base", CapacityMW: 100, Efficiency: 1, FuelPricePencePerTherm: fuelFor(15)},
		GeneratorSpec{Name: "peaker", CapacityMW: 50, Efficiency: 1, FuelPricePencePerTherm: fuelFor(25)},
	)

	results, err := NewEngine().Run(f, ladder)
	require.NoError(t, err)
	r := results[0]
	assert.InDelta(t, 25, r.PriceGBPPerMWh, 1e-9)
	assert.InDelta(t, 150, r.GasMWh, 1e-9)
	assert.InDelta(t, 30, r.ShortageMWh, 1e-9)
	assert.Equal(t, 100.0, r.GasDispatch["base"])
	assert.Equal(t, 50.0, r.GasDispatch["peaker"])
	assertConservation(t, results)
}

func TestRunMeritOrderMonotonicity(t *testing.T) {
	f := mustFrame(t, []float64{120}, []float64{0}, []float64{0})
	ladder := mustLadder(t,
		GeneratorSpec{Name: "a", CapacityMW: 50, Efficiency: 1, FuelPricePencePerTherm: fuelFor(5)},
		GeneratorSpec{Name: "b", CapacityMW: 50, Efficiency: 1, FuelPricePencePerTherm: fuelFor(10)},
		GeneratorSpec{Name: "c", CapacityMW: 50, Efficiency: 1, FuelPricePencePerTherm: fuelFor(15)},
		GeneratorSpec{Name: "d", CapacityMW: 50, Efficiency: 1, FuelPricePencePerTherm: fuelFor(30)},
	)

	results, err := NewEngine().Run(f, ladder)
	require.NoError(t, err)
	r := results[0]
	// Cheaper than marginal: full. Marginal: partial. Dearer: zero.
	assert.Equal(t, 50.0, r.GasDispatch["a"])
	assert.Equal(t, 50.0, r.GasDispatch["b"])
	assert.InDelta(t, 20, r.GasDispatch["c"], 1e-9)
	assert.Zero(t, r.GasDispatch["d"])
	assert.InDelta(t, 15, r.PriceGBPPerMWh, 1e-9)
}

func TestRunExactCapacityBoundary(t *testing.T) {
	// Net demand lands exactly on the first unit's capacity: no spurious
	// partial dispatch of the second unit, price set by the first.
	f := mustFrame(t, []float64{70}, []float64{20}, []float64{10})
	ladder := mustLadder(t,
		GeneratorSpec{Name: "base", CapacityMW: 40, Efficiency: 1, FuelPricePencePerTherm: fuelFor(10)},
		GeneratorSpec{Name: "peaker", CapacityMW: 30, Efficiency: 1, FuelPricePencePerTherm: fuelFor(20)},
	)

	results, err := NewEngine().Run(f, ladder)
	require.NoError(t, err)
	r := results[0]
	assert.InDelta(t, 10, r.PriceGBPPerMWh, 1e-9)
	assert.InDelta(t, 40, r.GasDispatch["base"], 1e-9)
	assert.Zero(t, r.GasDispatch["peaker"])
	assertConservation(t, results)
}

func TestRunEmptyLadder(t *testing.T) {
	f := mustFrame(t, []float64{100, 10}, []float64{10, 20}, []float64{10, 20})
	e := NewEngine()
	e.PriceCap = 180

	results, err := e.Run(f, &MeritOrder{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.InDelta(t, 80, results[0].ShortageMWh, 1e-9)
	assert.Equal(t, 180.0, results[0].PriceGBPPerMWh)
	// Surplus hour is still priced at zero, cap or not.
	assert.Zero(t, results[1].PriceGBPPerMWh)
	assert.Zero(t, results[1].ShortageMWh)
	assertConservation(t, results)
}

func TestRunPriceSign(t *testing.T) {
	f := mustFrame(t,
		[]float64{40, 100, 200, 55},
		[]float64{30, 30, 10, 25},
		[]float64{20, 20, 10, 30},
	)
	ladder := mustLadder(t,
		GeneratorSpec{Name: "base", CapacityMW: 40, Efficiency: 1, FuelPricePencePerTherm: fuelFor(10)},
		GeneratorSpec{Name: "peaker", CapacityMW: 30, Efficiency: 1, FuelPricePencePerTherm: fuelFor(20)},
	)

	results, err := NewEngine().Run(f, ladder)
	require.NoError(t, err)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.PriceGBPPerMWh, 0.0)
		net := r.DemandMWh - (f.Wind.Values[r.Hour] + f.Solar.Values[r.Hour])
		if net <= 0 {
			assert.Zero(t, r.PriceGBPPerMWh, "hour %d", r.Hour)
		} else {
			assert.Greater(t, r.PriceGBPPerMWh, 0.0, "hour %d", r.Hour)
		}
	}
	assertConservation(t, results)
}

func TestRunIdempotent(t *testing.T) {
	f := mustFrame(t,
		[]float64{40, 100, 200, 55, 70},
		[]float64{30, 30, 10, 25, 20},
		[]float64{20, 20, 10, 30, 10},
	)
	ladder := mustLadder(t,
		GeneratorSpec{Name: "base", CapacityMW: 40, Efficiency: 0.55, FuelPricePencePerTherm: 90},
		GeneratorSpec{Name: "peaker", CapacityMW: 30, Efficiency: 0.35, FuelPricePencePerTherm: 90},
	)

	e := NewEngine()
	first, err := e.Run(f, ladder)
	require.NoError(t, err)
	second, err := e.Run(f, ladder)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunCurtailmentPolicies(t *testing.T) {
	cases := []struct {
		policy    CurtailmentPolicy
		wind, sun float64
	}{
		{CurtailProportional, 24, 16},
		{CurtailWindFirst, 30, 10},
		{CurtailSolarFirst, 20, 20},
	}
	for _, tc := range cases {
		t.Run(string(tc.policy), func(t *testing.T) {
			f := mustFrame(t, []float64{40}, []float64{30}, []float64{20})
			e := NewEngine()
			e.Curtailment = tc.policy
			results, err := e.Run(f, &MeritOrder{})
			require.NoError(t, err)
			assert.InDelta(t, tc.wind, results[0].WindMWh, 1e-9)
			assert.InDelta(t, tc.sun, results[0].SolarMWh, 1e-9)
			assertConservation(t, results)
		})
	}
}

func TestRunInvalidPolicy(t *testing.T) {
	f := mustFrame(t, []float64{40}, []float64{30}, []float64{20})
	e := Engine{Curtailment: "round-robin"}
	_, err := e.Run(f, &MeritOrder{})
	var specErr *SpecError
	require.ErrorAs(t, err, &specErr)

	e = Engine{Curtailment: CurtailProportional, PriceCap: -5}
	_, err = e.Run(f, &MeritOrder{})
	require.ErrorAs(t, err, &specErr)
}

func TestRunHourlyGasPrices(t *testing.T) {
	demand := NewSeries("demand", []float64{60, 60})
	wind := NewSeries("wind", []float64{10, 10})
	solar := NewSeries("solar", []float64{10, 10})
	gas := NewSeries("gas_prices", []float64{100, 200})
	f, err := NewFrame(demand, wind, solar, &gas)
	require.NoError(t, err)

	ladder := mustLadder(t,
		GeneratorSpec{Name: "new", CapacityMW: 30, Efficiency: 0.5, FuelPricePencePerTherm: 100},
		GeneratorSpec{Name: "old", CapacityMW: 30, Efficiency: 0.25, FuelPricePencePerTherm: 100},
	)

	results, err := NewEngine().Run(f, ladder)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Net demand 40: the less efficient unit is marginal in both hours;
	// doubling the fuel price doubles the clearing price.
	assert.InDelta(t, 34.121/0.25, results[0].PriceGBPPerMWh, 1e-9)
	assert.InDelta(t, 2*34.121/0.25, results[1].PriceGBPPerMWh, 1e-9)
	assertConservation(t, results)
}

func TestRunHourlyGasPricesMixedFuelLadder(t *testing.T) {
	demand := NewSeries("demand", []float64{60})
	wind := NewSeries("wind", []float64{10})
	solar := NewSeries("solar", []float64{10})
	gas := NewSeries("gas_prices", []float64{100})
	f, err := NewFrame(demand, wind, solar, &gas)
	require.NoError(t, err)

	// Mixed per-generator fuel prices put the more efficient unit higher
	// up the ladder, so the hourly bids would not be non-decreasing.
	ladder := mustLadder(t,
		GeneratorSpec{Name: "cheap-fuel", CapacityMW: 30, Efficiency: 0.25, FuelPricePencePerTherm: 20},
		GeneratorSpec{Name: "dear-fuel", CapacityMW: 30, Efficiency: 0.5, FuelPricePencePerTherm: 100},
	)

	_, err = NewEngine().Run(f, ladder)
	var specErr *SpecError
	require.ErrorAs(t, err, &specErr)
	assert.Equal(t, "efficiency", specErr.Field)

	// The same ladder without the hourly series is legal.
	plain := mustFrame(t, []float64{60}, []float64{10}, []float64{10})
	_, err = NewEngine().Run(plain, ladder)
	require.NoError(t, err)
}

func TestSummarize(t *testing.T) {
	f := mustFrame(t, []float64{40, 100, 200}, []float64{30, 30, 10}, []float64{20, 20, 10})
	ladder := mustLadder(t,
		GeneratorSpec{Name: "base", CapacityMW: 40, Efficiency: 1, FuelPricePencePerTherm: fuelFor(10)},
		GeneratorSpec{Name: "peaker", CapacityMW: 30, Efficiency: 1, FuelPricePencePerTherm: fuelFor(20)},
	)
	results, err := NewEngine().Run(f, ladder)
	require.NoError(t, err)

	s := Summarize(results)
	assert.Equal(t, 3, s.Hours)
	assert.Equal(t, 1, s.ShortageHours)
	assert.InDelta(t, 340, s.TotalDemandMWh, 1e-9)
	assert.InDelta(t, (0+20+20)/3.0, s.AveragePrice, 1e-9)
	assert.InDelta(t, 20, s.PeakPrice, 1e-9)
	assert.InDelta(t, 110, s.TotalShortageMWh, 1e-9)

	assert.Equal(t, RunSummary{}, Summarize(nil))
}
