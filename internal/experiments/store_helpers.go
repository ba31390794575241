package experiments

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"titrate/internal/titration"
)

// timestampLayout is fixed width so created_at sorts correctly as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const recordColumns = "id, name, number, student, volume_json, ph_json, eq_volume, eq_ph, eq_slope, exp_type, chart_json, created_at, updated_at"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id         string
		name       string
		number     string
		student    sql.NullString
		volumeRaw  string
		phRaw      string
		eqVolume   sql.NullFloat64
		eqPH       sql.NullFloat64
		eqSlope    sql.NullFloat64
		expType    sql.NullString
		chartRaw   sql.NullString
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&name,
		&number,
		&student,
		&volumeRaw,
		&phRaw,
		&eqVolume,
		&eqPH,
		&eqSlope,
		&expType,
		&chartRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	rec := &Record{
		ID:      id,
		Name:    name,
		Number:  number,
		Student: student.String,
		ExpType: titration.Type(expType.String),
	}
	if err := json.Unmarshal([]byte(volumeRaw), &rec.Volume); err != nil {
		return nil, fmt.Errorf("decode volume for %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(phRaw), &rec.PH); err != nil {
		return nil, fmt.Errorf("decode ph for %s: %w", id, err)
	}
	if eqVolume.Valid && eqPH.Valid {
		rec.HasEndPoint = true
		rec.EqVolume = eqVolume.Float64
		rec.EqPH = eqPH.Float64
		rec.EqSlope = eqSlope.Float64
	}
	if chartRaw.Valid && chartRaw.String != "" {
		if err := json.Unmarshal([]byte(chartRaw.String), &rec.Chart); err != nil {
			return nil, fmt.Errorf("decode chart for %s: %w", id, err)
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		rec.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		rec.UpdatedAt = updated
	}
	return rec, nil
}

func encodeSeries(values []float64) (string, error) {
	if values == nil {
		values = []float64{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(valid bool, value float64) any {
	if !valid {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func escapeLike(value string) string {
	out := make([]byte, 0, len(value))
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, value[i])
	}
	return string(out)
}
