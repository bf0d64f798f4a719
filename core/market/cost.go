package market

// thermsPerMWh converts thermal energy units: one MWh is 34.121 therms.
const thermsPerMWh = 34.121

// ConvertFuelPrice converts a gas price in pence per therm into a thermal
// fuel cost in £/MWh. A price of 100 p/therm converts to 34.121 £/MWh.
func ConvertFuelPrice(pencePerTherm float64) (float64, error) {
	if pencePerTherm < 0 {
		return 0, negativeSpec("fuel price", "pence_per_therm", -1, pencePerTherm)
	}
	return pencePerTherm / 100 * thermsPerMWh, nil
}
