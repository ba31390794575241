package titration

import "errors"

// Type labels the titration pairing inferred from the end-point pH.
type Type string

const (
	TypeStrongBaseWeakAcid   Type = "Strong Base + Weak Acid"
	TypeStrongAcidWeakBase   Type = "Strong Acid + Weak Base"
	TypeStrongAcidStrongBase Type = "Strong Acid + Strong Base"
)

const (
	basicEndPointPH  = 8.0
	acidicEndPointPH = 6.0
)

// ErrInsufficientData reports that fewer than two aligned samples were supplied.
var ErrInsufficientData = errors.New("insufficient data: at least two volume/pH pairs of equal length are required")

// Result is an immutable analysis snapshot. Slices are private copies and
// must be treated as read-only.
type Result struct {
	Volume     []float64 `json:"volume"`
	PH         []float64 `json:"ph"`
	PlotVolume []float64 `json:"plot_volume"`
	DeltaPH    []float64 `json:"delta_ph"`
	DeltaV     []float64 `json:"delta_v"`
	Slope      []float64 `json:"slope"`

	EqIndex int     `json:"eq_index"`
	EqVol   float64 `json:"eq_volume"`
	EqPH    float64 `json:"eq_ph"`
	EqSlope float64 `json:"eq_slope"`
	Type    Type    `json:"exp_type"`

	// ManualDeltas is set when DeltaPH/DeltaV came from caller edits rather
	// than from differencing Volume and PH.
	ManualDeltas bool `json:"manual_deltas,omitempty"`
}

// Points returns the number of samples in the series.
func (r Result) Points() int {
	return len(r.Volume)
}

// Intervals returns the number of difference rows (Points-1).
func (r Result) Intervals() int {
	return len(r.Slope)
}

// IsEndPoint reports whether interval i holds the end point.
func (r Result) IsEndPoint(i int) bool {
	return len(r.Slope) > 0 && i == r.EqIndex
}

// Classify maps an end-point pH to a titration type. Exactly 6 and 8 fall
// into the strong/strong bucket.
func Classify(eqPH float64) Type {
	switch {
	case eqPH > basicEndPointPH:
		return TypeStrongBaseWeakAcid
	case eqPH < acidicEndPointPH:
		return TypeStrongAcidWeakBase
	default:
		return TypeStrongAcidStrongBase
	}
}
