package worksheet

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"titrate/internal/titration"
)

// ErrIndexOutOfRange reports an edit addressed past the end of a series.
var ErrIndexOutOfRange = errors.New("worksheet: index out of range")

// Meta labels the run the worksheet was opened from.
type Meta struct {
	Name    string `json:"name,omitempty"`
	Number  string `json:"number,omitempty"`
	Student string `json:"student,omitempty"`
	Source  string `json:"source,omitempty"`
}

// Sheet is an editable analysis. The zero value is not usable; call Open.
type Sheet struct {
	Meta Meta `json:"meta"`

	Volume  []float64 `json:"volume"`
	PH      []float64 `json:"ph"`
	DeltaPH []float64 `json:"delta_ph"`
	DeltaV  []float64 `json:"delta_v"`

	Result titration.Result `json:"result"`

	// Edits counts accepted cell changes since Open.
	Edits     int       `json:"edits"`
	OpenedAt  time.Time `json:"opened_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Open starts a worksheet from an analysis result.
func Open(result titration.Result, meta Meta) *Sheet {
	now := time.Now().UTC()
	return &Sheet{
		Meta:      meta,
		Volume:    slices.Clone(result.Volume),
		PH:        slices.Clone(result.PH),
		DeltaPH:   slices.Clone(result.DeltaPH),
		DeltaV:    slices.Clone(result.DeltaV),
		Result:    result,
		OpenedAt:  now,
		UpdatedAt: now,
	}
}

// SetVolume overrides sample i and rederives the differences.
func (s *Sheet) SetVolume(i int, v float64) error {
	if err := checkIndex("volume", i, len(s.Volume)); err != nil {
		return err
	}
	s.Volume[i] = v
	s.recomputeFromSeries()
	return nil
}

// SetPH overrides sample i and rederives the differences.
func (s *Sheet) SetPH(i int, v float64) error {
	if err := checkIndex("ph", i, len(s.PH)); err != nil {
		return err
	}
	s.PH[i] = v
	s.recomputeFromSeries()
	return nil
}

// SetDeltaPH overrides difference row i, keeping every other delta as is.
func (s *Sheet) SetDeltaPH(i int, v float64) error {
	if err := checkIndex("delta_ph", i, len(s.DeltaPH)); err != nil {
		return err
	}
	s.DeltaPH[i] = v
	s.recomputeFromDeltas()
	return nil
}

// SetDeltaV overrides difference row i, keeping every other delta as is. A
// zero volume step is accepted and previews as slope 0.
func (s *Sheet) SetDeltaV(i int, v float64) error {
	if err := checkIndex("delta_v", i, len(s.DeltaV)); err != nil {
		return err
	}
	s.DeltaV[i] = v
	s.recomputeFromDeltas()
	return nil
}

// Set dispatches an edit by field name: volume, ph, delta_ph, or delta_v.
func (s *Sheet) Set(field string, i int, v float64) error {
	switch field {
	case FieldVolume:
		return s.SetVolume(i, v)
	case FieldPH:
		return s.SetPH(i, v)
	case FieldDeltaPH:
		return s.SetDeltaPH(i, v)
	case FieldDeltaV:
		return s.SetDeltaV(i, v)
	default:
		return fmt.Errorf("worksheet: unknown field %q (want %s, %s, %s, or %s)", field, FieldVolume, FieldPH, FieldDeltaPH, FieldDeltaV)
	}
}

// Field names accepted by Set.
const (
	FieldVolume  = "volume"
	FieldPH      = "ph"
	FieldDeltaPH = "delta_ph"
	FieldDeltaV  = "delta_v"
)

// Apply validates the edited series and returns the committed samples with
// the result currently shown. The worksheet is unchanged when validation
// fails, so the caller can keep editing.
func (s *Sheet) Apply() (volume, pH []float64, result titration.Result, err error) {
	if err := titration.ValidateForApply(s.Volume, s.PH); err != nil {
		return nil, nil, titration.Result{}, err
	}
	return slices.Clone(s.Volume), slices.Clone(s.PH), s.Result, nil
}

func (s *Sheet) recomputeFromSeries() {
	s.Result = titration.Recompute(s.Result, titration.SeriesInput{Volume: s.Volume, PH: s.PH})
	s.DeltaPH = slices.Clone(s.Result.DeltaPH)
	s.DeltaV = slices.Clone(s.Result.DeltaV)
	s.touch()
}

func (s *Sheet) recomputeFromDeltas() {
	s.Result = titration.Recompute(s.Result, titration.DeltaInput{DeltaPH: s.DeltaPH, DeltaV: s.DeltaV})
	s.touch()
}

func (s *Sheet) touch() {
	s.Edits++
	s.UpdatedAt = time.Now().UTC()
}

func checkIndex(field string, i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %s row %d (have %d)", ErrIndexOutOfRange, field, i+1, n)
	}
	return nil
}
