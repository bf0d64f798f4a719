package market

// Frame holds the validated, index-compatible input series for one run.
// Demand is the master timeline; wind and solar (and the optional hourly
// gas price series) are guaranteed to share its hour stamps exactly.
type Frame struct {
	Demand Series
	Wind   Series
	Solar  Series
	// GasPrice optionally replaces the per-generator fuel prices with an
	// hourly gas price, aligned like any companion series.
	GasPrice *Series
}

// NewFrame validates that every companion series aligns with the demand
// timeline and that no series carries a negative value, then returns the
// frame. There is no reindexing, interpolation or truncation: any
// divergence is an immediate AlignmentError naming the series and the
// first divergent index.
func NewFrame(demand, wind, solar Series, gasPrice *Series) (*Frame, error) {
	if err := demand.validateShape(); err != nil {
		return nil, err
	}
	companions := []Series{wind, solar}
	if gasPrice != nil {
		companions = append(companions, *gasPrice)
	}
	for _, c := range companions {
		if err := alignTo(demand, c); err != nil {
			return nil, err
		}
	}
	for _, s := range []Series{demand, wind, solar} {
		for i, v := range s.Values {
			if v < 0 {
				return nil, negativeSpec("series "+s.Name, "value", i, v)
			}
		}
	}
	if gasPrice != nil {
		for i, v := range gasPrice.Values {
			if v < 0 {
				return nil, negativeSpec("series "+gasPrice.Name, "price", i, v)
			}
		}
	}
	return &Frame{Demand: demand, Wind: wind, Solar: solar, GasPrice: gasPrice}, nil
}

// Horizon is the number of hours in the run.
func (f *Frame) Horizon() int { return f.Demand.Len() }

// alignTo checks that s carries exactly the master's hour stamps, in the
// master's order.
func alignTo(master, s Series) error {
	if err := s.validateShape(); err != nil {
		return err
	}
	n := len(s.Hours)
	if len(master.Hours) < n {
		n = len(master.Hours)
	}
	for i := 0; i < n; i++ {
		if s.Hours[i] != master.Hours[i] {
			return &AlignmentError{Series: s.Name, Index: i, Reason: "hour stamps diverge"}
		}
	}
	if len(s.Hours) != len(master.Hours) {
		return &AlignmentError{Series: s.Name, Index: n, Reason: "series length differs from demand"}
	}
	return nil
}
