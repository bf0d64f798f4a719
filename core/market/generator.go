package market

// GeneratorSpec describes a dispatchable gas unit: nameplate capacity,
// thermal efficiency and the fuel price it pays. Immutable once loaded.
type GeneratorSpec struct {
	Name                   string  `json:"name"`
	CapacityMW             float64 `json:"capacity_mw"`
	Efficiency             float64 `json:"efficiency"`
	FuelPricePencePerTherm float64 `json:"fuel_price_pence_per_therm"`
}

// Validate rejects negative capacity or fuel price and non-positive
// efficiency. Index is reported in the error when >= 0.
func (g GeneratorSpec) Validate(index int) error {
	if g.CapacityMW < 0 {
		return negativeSpec("generator "+g.Name, "capacity_mw", index, g.CapacityMW)
	}
	if g.Efficiency <= 0 {
		return &SpecError{Subject: "generator " + g.Name, Field: "efficiency", Index: index, Value: g.Efficiency, Reason: "must be positive"}
	}
	if g.FuelPricePencePerTherm < 0 {
		return negativeSpec("generator "+g.Name, "fuel_price_pence_per_therm", index, g.FuelPricePencePerTherm)
	}
	return nil
}

// MarginalCost is the unit's bid in £/MWh of electricity: the thermal fuel
// cost divided by efficiency. With efficiency 1 this is exactly the fuel
// price conversion.
func (g GeneratorSpec) MarginalCost() (float64, error) {
	thermal, err := ConvertFuelPrice(g.FuelPricePencePerTherm)
	if err != nil {
		return 0, err
	}
	return thermal / g.Efficiency, nil
}
