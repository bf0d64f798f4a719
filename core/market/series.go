package market

// Series is an hourly time series: one value per hour, keyed by an integer
// hour stamp. All series in a run share the demand series' hour stamps.
type Series struct {
	Name   string    `json:"name"`
	Hours  []int     `json:"hours"`
	Values []float64 `json:"values"`
}

// NewSeries builds a Series over consecutive hour stamps starting at 0.
// Convenient for tests and API inputs that omit explicit hours.
func NewSeries(name string, values []float64) Series {
	hours := make([]int, len(values))
	for i := range hours {
		hours[i] = i
	}
	return Series{Name: name, Hours: hours, Values: values}
}

// Len returns the number of hours in the series.
func (s Series) Len() int { return len(s.Values) }

func (s Series) validateShape() error {
	if len(s.Hours) != len(s.Values) {
		return &AlignmentError{Series: s.Name, Index: -1, Reason: "hour and value columns differ in length"}
	}
	return nil
}
