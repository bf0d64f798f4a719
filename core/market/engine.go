package market

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// epsilon is the relative tolerance applied at capacity and surplus
// boundaries so floating-point noise cannot flip an hour between regimes
// or leave a spurious partial dispatch.
const epsilon = 1e-9

// CurtailmentPolicy decides how excess renewable output is split between
// wind and solar in surplus hours.
type CurtailmentPolicy string

const (
	// CurtailProportional scales wind and solar by demand/(wind+solar).
	CurtailProportional CurtailmentPolicy = "proportional"
	// CurtailWindFirst keeps wind whole and curtails solar first.
	CurtailWindFirst CurtailmentPolicy = "wind-first"
	// CurtailSolarFirst keeps solar whole and curtails wind first.
	CurtailSolarFirst CurtailmentPolicy = "solar-first"
)

// Valid reports whether the policy is one of the known values.
func (p CurtailmentPolicy) Valid() bool {
	switch p {
	case CurtailProportional, CurtailWindFirst, CurtailSolarFirst:
		return true
	}
	return false
}

// Engine clears the market for every hour of a frame against a merit-order
// ladder. The zero value is not usable; construct with NewEngine.
type Engine struct {
	// Curtailment selects the surplus-hour renewable split.
	Curtailment CurtailmentPolicy
	// PriceCap is the price assigned to hours with positive net demand and
	// an empty ladder. It never overrides a real marginal price.
	PriceCap float64
}

// NewEngine returns an engine with the default proportional curtailment
// policy and a zero price cap.
func NewEngine() Engine {
	return Engine{Curtailment: CurtailProportional}
}

// Run computes one HourResult per hour of the frame. Inputs are read-only;
// running twice on the same inputs yields identical results.
//
// Net demand is computed for the whole horizon at once; each hour then
// resolves its marginal generator with a prefix-sum search on the ladder.
// When the frame carries an hourly gas price series, bids are recomputed
// per hour from that price. A uniform hourly price rescales all bids
// without reordering the ladder, so the prefix sums stay valid.
func (e Engine) Run(f *Frame, ladder *MeritOrder) ([]HourResult, error) {
	if !e.Curtailment.Valid() {
		return nil, &SpecError{Subject: "engine", Field: "curtailment", Index: -1, Reason: "must be proportional, wind-first or solar-first"}
	}
	if e.PriceCap < 0 {
		return nil, negativeSpec("engine", "price_cap", -1, e.PriceCap)
	}

	h := f.Horizon()
	net := make([]float64, h)
	floats.SubTo(net, f.Demand.Values, f.Wind.Values)
	floats.Sub(net, f.Solar.Values)

	costs := ladder.Costs
	hourly := f.GasPrice != nil
	if hourly {
		// Hourly bids are fuel/efficiency, so the prefix sums only stay
		// valid when the ladder is already efficiency-descending. A ladder
		// built from mixed per-generator fuel prices may not be; reject it
		// rather than price hours off a non-marginal unit.
		for j := 1; j < ladder.Len(); j++ {
			if ladder.Generators[j].Efficiency > ladder.Generators[j-1].Efficiency {
				return nil, &SpecError{
					Subject: "generator " + ladder.Generators[j].Name,
					Field:   "efficiency",
					Index:   j,
					Value:   ladder.Generators[j].Efficiency,
					Reason:  "breaks the ladder order under hourly gas prices; build the ladder from a single fuel price",
				}
			}
		}
		costs = make([]float64, ladder.Len())
	}

	results := make([]HourResult, h)
	for i := 0; i < h; i++ {
		if hourly && ladder.Len() > 0 {
			if err := ladder.BidsInto(costs, f.GasPrice.Values[i]); err != nil {
				return nil, err
			}
		}
		results[i] = e.clearHour(f, ladder, costs, i, net[i])
	}
	return results, nil
}

// clearHour resolves one hour into the surplus, normal or shortage regime.
func (e Engine) clearHour(f *Frame, ladder *MeritOrder, costs []float64, i int, net float64) HourResult {
	demand := f.Demand.Values[i]
	wind := f.Wind.Values[i]
	solar := f.Solar.Values[i]
	res := HourResult{Hour: f.Demand.Hours[i], DemandMWh: demand}

	tol := epsilon * math.Max(1, math.Abs(net))
	if net <= tol {
		// Surplus: renewables cover demand, the excess is curtailed and
		// the clearing price is zero.
		res.WindMWh, res.SolarMWh = e.curtail(demand, wind, solar)
		return res
	}

	res.WindMWh = wind
	res.SolarMWh = solar
	if ladder.Len() == 0 {
		res.ShortageMWh = net
		res.PriceGBPPerMWh = e.PriceCap
		return res
	}

	total := ladder.TotalCapacity()
	res.GasDispatch = make(map[string]float64, ladder.Len())
	if net > total+tol {
		// Shortage: every unit runs flat out, the highest accepted bid
		// sets the price and the rest goes unserved.
		for _, g := range ladder.Generators {
			res.GasDispatch[g.Name] = g.CapacityMW
		}
		res.GasMWh = total
		res.ShortageMWh = net - total
		res.PriceGBPPerMWh = costs[len(costs)-1]
		return res
	}

	// Normal: find the first ladder position whose cumulative capacity
	// covers net demand, fill everything below it and run the marginal
	// unit partially.
	idx := sort.SearchFloat64s(ladder.Cumulative, net-tol)
	if idx >= ladder.Len() {
		idx = ladder.Len() - 1
	}
	prev := 0.0
	if idx > 0 {
		prev = ladder.Cumulative[idx-1]
	}
	for j := 0; j < idx; j++ {
		res.GasDispatch[ladder.Generators[j].Name] = ladder.Generators[j].CapacityMW
	}
	partial := net - prev
	if partial < 0 {
		partial = 0
	}
	if nameplate := ladder.Generators[idx].CapacityMW; partial > nameplate {
		partial = nameplate
	}
	res.GasDispatch[ladder.Generators[idx].Name] = partial
	for j := idx + 1; j < ladder.Len(); j++ {
		res.GasDispatch[ladder.Generators[j].Name] = 0
	}
	res.GasMWh = prev + partial
	res.PriceGBPPerMWh = costs[idx]
	return res
}

// curtail caps renewable output so wind+solar equals demand in a surplus
// hour, splitting the cut per the configured policy.
func (e Engine) curtail(demand, wind, solar float64) (float64, float64) {
	avail := wind + solar
	if avail <= 0 || demand >= avail {
		return wind, solar
	}
	switch e.Curtailment {
	case CurtailWindFirst:
		w := math.Min(wind, demand)
		return w, demand - w
	case CurtailSolarFirst:
		s := math.Min(solar, demand)
		return demand - s, s
	default:
		scale := demand / avail
		return wind * scale, solar * scale
	}
}
