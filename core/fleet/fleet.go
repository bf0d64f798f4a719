// Package fleet turns renewable plant lists and hourly load factors into
// the aggregate generation series the auction consumes. Wind and solar
// enter the market as a single zero-marginal-cost series each; individual
// plants only matter here.
package fleet

import (
	"gonum.org/v1/gonum/mat"

	"github.com/gridclear/meritsim/core/market"
)

// Plant is a named renewable unit with a nameplate capacity.
type Plant struct {
	Name       string  `json:"name"`
	CapacityMW float64 `json:"capacity_mw"`
}

// LoadFactors holds per-plant hourly output fractions, one column per
// plant, rows keyed by the same hour stamps as the demand series.
type LoadFactors struct {
	Hours   []int
	Plants  []string
	factors *mat.Dense
}

// NewLoadFactors builds a load factor table from row-major values, one row
// per hour in column order matching plants. Factors must be non-negative.
func NewLoadFactors(hours []int, plants []string, rows [][]float64) (*LoadFactors, error) {
	if len(rows) != len(hours) {
		return nil, &market.AlignmentError{Series: "load factors", Index: -1, Reason: "row count differs from hour count"}
	}
	data := make([]float64, 0, len(hours)*len(plants))
	for i, row := range rows {
		if len(row) != len(plants) {
			return nil, &market.AlignmentError{Series: "load factors", Index: i, Reason: "row width differs from plant count"}
		}
		for j, v := range row {
			if v < 0 {
				return nil, &market.SpecError{Subject: "load factor " + plants[j], Field: "factor", Index: i, Value: v, Reason: "must be non-negative"}
			}
			data = append(data, v)
		}
	}
	var m *mat.Dense
	if len(hours) > 0 && len(plants) > 0 {
		m = mat.NewDense(len(hours), len(plants), data)
	}
	return &LoadFactors{Hours: hours, Plants: plants, factors: m}, nil
}

// Generation computes the fleet's aggregate hourly output: the load factor
// matrix multiplied by the capacity vector. Every plant must have a load
// factor column and every column a plant.
func Generation(name string, plants []Plant, lf *LoadFactors) (market.Series, error) {
	byName := make(map[string]int, len(lf.Plants))
	for i, p := range lf.Plants {
		byName[p] = i
	}
	if len(plants) != len(lf.Plants) {
		return market.Series{}, &market.SpecError{Subject: "fleet " + name, Field: "plants", Index: -1, Value: float64(len(plants)), Reason: "must match load factor columns"}
	}

	caps := make([]float64, len(lf.Plants))
	for i, p := range plants {
		if p.CapacityMW < 0 {
			return market.Series{}, &market.SpecError{Subject: "plant " + p.Name, Field: "capacity_mw", Index: i, Value: p.CapacityMW, Reason: "must be non-negative"}
		}
		col, ok := byName[p.Name]
		if !ok {
			return market.Series{}, &market.SpecError{Subject: "plant " + p.Name, Field: "load factors", Index: i, Reason: "has no column"}
		}
		caps[col] = p.CapacityMW
	}

	out := make([]float64, len(lf.Hours))
	if lf.factors != nil {
		vec := mat.NewVecDense(len(caps), caps)
		res := mat.NewVecDense(len(lf.Hours), out)
		res.MulVec(lf.factors, vec)
	}
	return market.Series{Name: name, Hours: lf.Hours, Values: out}, nil
}
