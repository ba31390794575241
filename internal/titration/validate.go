package titration

import (
	"fmt"
	"math"
	"strings"
)

const (
	minPH = 0.0
	maxPH = 14.0
)

// Issue describes one cell that blocks committing an edited table. Row is
// zero-based.
type Issue struct {
	Row    int
	Field  string
	Value  float64
	Reason string
}

func (i Issue) String() string {
	return fmt.Sprintf("row %d %s=%g: %s", i.Row+1, i.Field, i.Value, i.Reason)
}

// ValidationError lists every offending cell found by ValidateForApply.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "invalid titration data"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return "invalid titration data: " + strings.Join(parts, "; ")
}

// ErrorKind classifies the failure for callers that map errors to statuses.
func (e *ValidationError) ErrorKind() string {
	return "validation"
}

// ValidateForApply gates committing edited samples back to the main table:
// values must be finite, volumes non-negative and non-decreasing, and pH
// within [0, 14]. It never blocks preview recomputation. Series that could
// not be analyzed at all report ErrInsufficientData.
func ValidateForApply(volume, pH []float64) error {
	if len(volume) < 2 || len(volume) != len(pH) {
		return ErrInsufficientData
	}
	var issues []Issue
	for i, v := range volume {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			issues = append(issues, Issue{Row: i, Field: "volume", Value: v, Reason: "not a finite number"})
		case v < 0:
			issues = append(issues, Issue{Row: i, Field: "volume", Value: v, Reason: "must be non-negative"})
		case i > 0 && v < volume[i-1]:
			issues = append(issues, Issue{Row: i, Field: "volume", Value: v, Reason: fmt.Sprintf("decreases from %g", volume[i-1])})
		}
	}
	for i, p := range pH {
		switch {
		case math.IsNaN(p) || math.IsInf(p, 0):
			issues = append(issues, Issue{Row: i, Field: "ph", Value: p, Reason: "not a finite number"})
		case p < minPH || p > maxPH:
			issues = append(issues, Issue{Row: i, Field: "ph", Value: p, Reason: "must be between 0 and 14"})
		}
	}
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}
