package report

import "titrate/internal/titration"

// Stats summarizes the sample series of a result.
type Stats struct {
	Points    int     `json:"points" yaml:"points"`
	MinVolume float64 `json:"min_volume" yaml:"min_volume"`
	MaxVolume float64 `json:"max_volume" yaml:"max_volume"`
	MinPH     float64 `json:"min_ph" yaml:"min_ph"`
	MaxPH     float64 `json:"max_ph" yaml:"max_ph"`
	MaxSlope  float64 `json:"max_slope" yaml:"max_slope"`
}

// Summarize computes Stats for result. Empty series yield the zero value.
func Summarize(result titration.Result) Stats {
	stats := Stats{Points: result.Points()}
	if stats.Points == 0 {
		return stats
	}
	stats.MinVolume, stats.MaxVolume = bounds(result.Volume)
	stats.MinPH, stats.MaxPH = bounds(result.PH)
	if len(result.Slope) > 0 {
		_, stats.MaxSlope = bounds(result.Slope)
	}
	return stats
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
