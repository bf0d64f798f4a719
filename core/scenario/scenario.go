// Package scenario assembles loaded inputs into the validated frame and
// ladder a run needs. Wind and solar can be given either as ready series
// or as plant fleets with load factors; fleets are resolved here.
package scenario

import (
	"github.com/gridclear/meritsim/core/fleet"
	"github.com/gridclear/meritsim/core/market"
)

// Scenario is the full input set for one simulation run, as produced by
// the workbook, CSV or API loaders.
type Scenario struct {
	Demand market.Series

	// Either the aggregate series or a fleet per renewable source.
	Wind         market.Series
	Solar        market.Series
	WindPlants   []fleet.Plant
	WindFactors  *fleet.LoadFactors
	SolarPlants  []fleet.Plant
	SolarFactors *fleet.LoadFactors

	Generators []market.GeneratorSpec
	// GasPrices optionally prices gas hourly instead of per generator.
	GasPrices *market.Series
}

// Resolve computes fleet generation where fleets are given, validates
// alignment and builds the merit-order ladder.
func (s *Scenario) Resolve() (*market.Frame, *market.MeritOrder, error) {
	wind := s.Wind
	if s.WindFactors != nil {
		var err error
		wind, err = fleet.Generation("wind", s.WindPlants, s.WindFactors)
		if err != nil {
			return nil, nil, err
		}
	}
	solar := s.Solar
	if s.SolarFactors != nil {
		var err error
		solar, err = fleet.Generation("solar", s.SolarPlants, s.SolarFactors)
		if err != nil {
			return nil, nil, err
		}
	}

	frame, err := market.NewFrame(s.Demand, wind, solar, s.GasPrices)
	if err != nil {
		return nil, nil, err
	}

	specs := s.Generators
	if s.GasPrices != nil && s.GasPrices.Len() > 0 {
		// A single hourly price applies to every unit. Pinning the specs
		// to the first hour's price keeps the static ladder order equal to
		// the efficiency-descending order the hourly bids follow.
		specs = make([]market.GeneratorSpec, len(s.Generators))
		copy(specs, s.Generators)
		for i := range specs {
			specs[i].FuelPricePencePerTherm = s.GasPrices.Values[0]
		}
	}
	ladder, err := market.BuildMeritOrder(specs)
	if err != nil {
		return nil, nil, err
	}
	return frame, ladder, nil
}
