package market

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// MeritOrder is the dispatch ladder: generator specs sorted by ascending
// marginal cost with their bids and capacity prefix sums precomputed.
// Built once per run, then shared read-only.
type MeritOrder struct {
	Generators []GeneratorSpec
	// Costs holds the static bid of each generator in ladder order.
	Costs []float64
	// Cumulative[i] is the summed capacity of the i+1 cheapest generators.
	Cumulative []float64
}

// BuildMeritOrder validates the specs and sorts them into dispatch order:
// marginal cost ascending, ties broken by efficiency descending, then
// capacity descending, then input order. An empty collection is legal and
// represents "no dispatchable generation".
func BuildMeritOrder(specs []GeneratorSpec) (*MeritOrder, error) {
	gens := make([]GeneratorSpec, len(specs))
	copy(gens, specs)

	seen := make(map[string]struct{}, len(gens))
	costs := make([]float64, len(gens))
	for i := range gens {
		if gens[i].Name == "" {
			gens[i].Name = fmt.Sprintf("gas-%d", i+1)
		}
		if err := gens[i].Validate(i); err != nil {
			return nil, err
		}
		if _, dup := seen[gens[i].Name]; dup {
			return nil, &SpecError{Subject: "generator " + gens[i].Name, Field: "name", Index: i, Reason: "is duplicated"}
		}
		seen[gens[i].Name] = struct{}{}
		c, err := gens[i].MarginalCost()
		if err != nil {
			return nil, err
		}
		costs[i] = c
	}

	order := make([]int, len(gens))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ga, gb := gens[order[a]], gens[order[b]]
		if costs[order[a]] != costs[order[b]] {
			return costs[order[a]] < costs[order[b]]
		}
		if ga.Efficiency != gb.Efficiency {
			return ga.Efficiency > gb.Efficiency
		}
		return ga.CapacityMW > gb.CapacityMW
	})

	m := &MeritOrder{
		Generators: make([]GeneratorSpec, len(gens)),
		Costs:      make([]float64, len(gens)),
		Cumulative: make([]float64, len(gens)),
	}
	for i, idx := range order {
		m.Generators[i] = gens[idx]
		m.Costs[i] = costs[idx]
		m.Cumulative[i] = gens[idx].CapacityMW
	}
	if len(m.Cumulative) > 0 {
		floats.CumSum(m.Cumulative, m.Cumulative)
	}
	return m, nil
}

// Len returns the number of generators in the ladder.
func (m *MeritOrder) Len() int { return len(m.Generators) }

// TotalCapacity is the summed capacity of every generator.
func (m *MeritOrder) TotalCapacity() float64 {
	if len(m.Cumulative) == 0 {
		return 0
	}
	return m.Cumulative[len(m.Cumulative)-1]
}

// BidsInto writes each generator's bid for an hourly fuel price into dst,
// in ladder order: the converted fuel cost divided by the generator's
// efficiency. The ladder ordering is efficiency-descending within a fuel
// price, so a uniform hourly price never reorders it.
func (m *MeritOrder) BidsInto(dst []float64, pencePerTherm float64) error {
	thermal, err := ConvertFuelPrice(pencePerTherm)
	if err != nil {
		return err
	}
	for i, g := range m.Generators {
		dst[i] = thermal / g.Efficiency
	}
	return nil
}
