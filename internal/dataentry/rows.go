package dataentry

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Row is one editable line of the input table. Cells stay as typed so a
// half-entered value never gets rewritten under the user.
type Row struct {
	Volume string `json:"volume"`
	PH     string `json:"ph"`
}

// RowsFromSamples renders samples as table rows.
func RowsFromSamples(samples []Sample) []Row {
	rows := make([]Row, len(samples))
	for i, s := range samples {
		rows[i] = Row{Volume: cast.ToString(s.Volume), PH: cast.ToString(s.PH)}
	}
	return rows
}

// ValidSeries keeps rows whose cells are both non-empty numbers. ok is false
// when fewer than two rows survive.
func ValidSeries(rows []Row) (volume, pH []float64, ok bool) {
	for _, row := range rows {
		v, vok := cellValue(row.Volume)
		p, pok := cellValue(row.PH)
		if !vok || !pok {
			continue
		}
		volume = append(volume, v)
		pH = append(pH, p)
	}
	if len(volume) < 2 {
		return nil, nil, false
	}
	return volume, pH, true
}

// CountValid returns how many rows ValidSeries would keep.
func CountValid(rows []Row) int {
	n := 0
	for _, row := range rows {
		_, vok := cellValue(row.Volume)
		_, pok := cellValue(row.PH)
		if vok && pok {
			n++
		}
	}
	return n
}

// CoerceCell converts an edited cell to a number for live previews. Blank,
// malformed, and non-finite input all read as 0.
func CoerceCell(value string) float64 {
	v, ok := cellValue(value)
	if !ok {
		return 0
	}
	return v
}

// ParseCell is the strict form of CoerceCell used for committed edits.
func ParseCell(value string) (float64, error) {
	v, ok := cellValue(value)
	if !ok {
		return 0, fmt.Errorf("%q is not a finite number", strings.TrimSpace(value))
	}
	return v, nil
}

func cellValue(value string) (float64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	v, err := cast.ToFloat64E(trimmed)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
