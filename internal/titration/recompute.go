package titration

import "math"

// Input is the tagged variant accepted by Recompute. SeriesInput regenerates
// every delta from the samples; DeltaInput keeps caller-edited deltas as the
// source of truth.
type Input interface {
	isInput()
}

// SeriesInput carries edited volume and pH series.
type SeriesInput struct {
	Volume []float64
	PH     []float64
}

// DeltaInput carries edited difference cells. Each slice is indexed by
// interval and should have base.Intervals() entries.
type DeltaInput struct {
	DeltaPH []float64
	DeltaV  []float64
}

func (SeriesInput) isInput() {}
func (DeltaInput) isInput()  {}

// Recompute produces a new Result from base and an edit. base is never
// modified. Non-finite values in the edit are read as 0 so a preview never
// carries NaN forward.
func Recompute(base Result, input Input) Result {
	switch in := input.(type) {
	case SeriesInput:
		return RecomputeFromSeries(base, in.Volume, in.PH)
	case DeltaInput:
		return RecomputeFromDeltas(base, in.DeltaPH, in.DeltaV)
	default:
		return base
	}
}

// RecomputeFromSeries regenerates deltas from edited samples, discarding any
// earlier manual delta edits. Missing cells in the shorter series read as 0.
// When fewer than two samples remain the base Result is returned as is.
func RecomputeFromSeries(base Result, volume, pH []float64) Result {
	n := max(len(volume), len(pH))
	if n < 2 {
		return base
	}
	v := coerceCells(volume, n)
	p := coerceCells(pH, n)
	deltaPH, deltaV := differences(v, p)
	return assemble(v, p, deltaPH, deltaV, false)
}

// RecomputeFromDeltas recomputes slopes, the end point, and the type from
// edited deltas. Plot volumes and the end-point pH still come from base's
// samples; the deltas themselves are kept verbatim.
func RecomputeFromDeltas(base Result, deltaPH, deltaV []float64) Result {
	n := base.Intervals()
	if n == 0 {
		return base
	}
	return assemble(
		cloneOrEmpty(base.Volume),
		cloneOrEmpty(base.PH),
		coerceCells(deltaPH, n),
		coerceCells(deltaV, n),
		true,
	)
}

// coerceCells copies values into a slice of exactly n cells, zero-filling
// missing cells and replacing NaN or Inf with 0.
func coerceCells(values []float64, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n && i < len(values); i++ {
		out[i] = Finite(values[i])
	}
	return out
}

// Finite returns v, or 0 when v is NaN or infinite.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func cloneOrEmpty(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	return out
}
