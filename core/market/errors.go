package market

import "fmt"

// AlignmentError reports a companion series whose timeline diverges from the
// demand master timeline. The run aborts before any price is computed.
type AlignmentError struct {
	Series string
	// Index is the first divergent position, or -1 when the series is a
	// different length and every overlapping hour matches.
	Index  int
	Reason string
}

func (e *AlignmentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("series %q does not align with demand hours: %s", e.Series, e.Reason)
	}
	return fmt.Sprintf("series %q does not align with demand hours at index %d: %s", e.Series, e.Index, e.Reason)
}

// SpecError reports an invalid generator spec or series value. Index is the
// position in the input collection, or -1 when not applicable.
type SpecError struct {
	Subject string
	Field   string
	Index   int
	Value   float64
	Reason  string
}

func (e *SpecError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s[%d]: %s %s, got %v", e.Subject, e.Index, e.Field, e.Reason, e.Value)
	}
	return fmt.Sprintf("%s: %s %s, got %v", e.Subject, e.Field, e.Reason, e.Value)
}

func negativeSpec(subject, field string, index int, value float64) *SpecError {
	return &SpecError{Subject: subject, Field: field, Index: index, Value: value, Reason: "must be non-negative"}
}
