package experiments

import (
	"slices"
	"strings"
	"time"

	"titrate/internal/config"
	"titrate/internal/titration"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// Meta labels a run when it is saved.
type Meta struct {
	Name    string
	Number  string
	Student string
}

// Record is a saved experiment. The end-point fields are zero when HasEndPoint
// is false, which happens for runs saved before enough data was entered.
type Record struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"experiment_name" yaml:"experiment_name"`
	Number  string `json:"experiment_no" yaml:"experiment_no"`
	Student string `json:"student,omitempty" yaml:"student,omitempty"`

	Volume []float64 `json:"volume_data" yaml:"volume_data"`
	PH     []float64 `json:"ph_data" yaml:"ph_data"`

	HasEndPoint bool           `json:"has_end_point" yaml:"has_end_point"`
	EqVolume    float64        `json:"eq_volume" yaml:"eq_volume"`
	EqPH        float64        `json:"eq_ph" yaml:"eq_ph"`
	EqSlope     float64        `json:"eq_dph_dv" yaml:"eq_dph_dv"`
	ExpType     titration.Type `json:"exp_type,omitempty" yaml:"exp_type,omitempty"`

	Chart config.Chart `json:"chart_config" yaml:"chart_config"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewRecord captures a result under the given labels. The end point and type
// are copied from the result as-is, so a run saved after manual delta edits
// keeps the end point the user saw.
func NewRecord(meta Meta, result titration.Result, chart config.Chart) *Record {
	rec := &Record{
		Name:    strings.TrimSpace(meta.Name),
		Number:  strings.TrimSpace(meta.Number),
		Student: strings.TrimSpace(meta.Student),
		Volume:  slices.Clone(result.Volume),
		PH:      slices.Clone(result.PH),
		Chart:   chart,
	}
	if result.Intervals() > 0 {
		rec.HasEndPoint = true
		rec.EqVolume = result.EqVol
		rec.EqPH = result.EqPH
		rec.EqSlope = result.EqSlope
		rec.ExpType = result.Type
	}
	return rec
}

// Points returns the number of saved samples.
func (r *Record) Points() int {
	if r == nil {
		return 0
	}
	return len(r.Volume)
}

// Analyze reruns the analyzer on the saved series.
func (r *Record) Analyze() (titration.Result, bool) {
	if r == nil {
		return titration.Result{}, false
	}
	return titration.Calculate(r.Volume, r.PH)
}

// ShortID returns the first eight characters of the ID for table display.
func (r *Record) ShortID() string {
	if r == nil {
		return ""
	}
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}
