package titration

import "slices"

// Calculate analyzes aligned volume and pH samples. ok is false when either
// series has fewer than two points or their lengths differ.
func Calculate(volume, pH []float64) (Result, bool) {
	if len(volume) < 2 || len(pH) < 2 || len(volume) != len(pH) {
		return Result{}, false
	}

	volume = slices.Clone(volume)
	pH = slices.Clone(pH)
	deltaPH, deltaV := differences(volume, pH)

	return assemble(volume, pH, deltaPH, deltaV, false), true
}

func differences(volume, pH []float64) ([]float64, []float64) {
	n := len(volume) - 1
	deltaPH := make([]float64, n)
	deltaV := make([]float64, n)
	for i := 0; i < n; i++ {
		deltaPH[i] = pH[i+1] - pH[i]
		deltaV[i] = volume[i+1] - volume[i]
	}
	return deltaPH, deltaV
}

// assemble derives slopes, plot volumes, the end point, and the type. It
// takes ownership of every slice passed in.
func assemble(volume, pH, deltaPH, deltaV []float64, manual bool) Result {
	n := len(deltaPH)
	slope := make([]float64, n)
	plotVolume := make([]float64, n)
	for i := 0; i < n; i++ {
		slope[i] = safeSlope(deltaPH[i], deltaV[i])
		plotVolume[i] = volume[i+1]
	}

	eqIndex := steepestInterval(slope)
	eqPH := pH[eqIndex+1]

	return Result{
		Volume:       volume,
		PH:           pH,
		PlotVolume:   plotVolume,
		DeltaPH:      deltaPH,
		DeltaV:       deltaV,
		Slope:        slope,
		EqIndex:      eqIndex,
		EqVol:        plotVolume[eqIndex],
		EqPH:         eqPH,
		EqSlope:      slope[eqIndex],
		Type:         Classify(eqPH),
		ManualDeltas: manual,
	}
}

// safeSlope divides with a zero guard so a repeated volume reading never
// produces NaN or Inf.
func safeSlope(dPH, dV float64) float64 {
	if dV == 0 {
		return 0
	}
	return dPH / dV
}

// steepestInterval returns the first index holding the maximum slope.
func steepestInterval(slope []float64) int {
	best := 0
	for i := 1; i < len(slope); i++ {
		if slope[i] > slope[best] {
			best = i
		}
	}
	return best
}
