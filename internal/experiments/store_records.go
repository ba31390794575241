package experiments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"titrate/internal/titration"
)

// Save inserts rec as a new experiment, assigning its ID and timestamps.
func (s *Store) Save(ctx context.Context, rec *Record) (*Record, error) {
	if rec == nil {
		return nil, errors.New("record is nil")
	}
	if strings.TrimSpace(rec.Name) == "" {
		return nil, errors.New("experiment name is required")
	}
	if len(rec.Volume) != len(rec.PH) {
		return nil, fmt.Errorf("%w: volume has %d values, ph has %d", titration.ErrInsufficientData, len(rec.Volume), len(rec.PH))
	}

	volumeJSON, err := encodeSeries(rec.Volume)
	if err != nil {
		return nil, fmt.Errorf("encode volume: %w", err)
	}
	phJSON, err := encodeSeries(rec.PH)
	if err != nil {
		return nil, fmt.Errorf("encode ph: %w", err)
	}
	chartJSON, err := json.Marshal(rec.Chart)
	if err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}

	now := time.Now().UTC()
	timestamp := now.Format(timestampLayout)
	id := uuid.NewString()

	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO experiments (
            id, name, number, student, volume_json, ph_json,
            eq_volume, eq_ph, eq_slope, exp_type, chart_json, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		rec.Name,
		rec.Number,
		nullableString(rec.Student),
		volumeJSON,
		phJSON,
		nullableFloat(rec.HasEndPoint, rec.EqVolume),
		nullableFloat(rec.HasEndPoint, rec.EqPH),
		nullableFloat(rec.HasEndPoint, rec.EqSlope),
		nullableString(string(rec.ExpType)),
		string(chartJSON),
		timestamp,
		timestamp,
	); err != nil {
		return nil, fmt.Errorf("insert experiment: %w", err)
	}

	return s.Get(ctx, id)
}

// Get fetches a saved experiment by its full ID.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM experiments WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get experiment: %w", err)
	}
	return rec, nil
}

// Resolve finds the experiment whose ID equals or starts with ref. A prefix
// shared by several experiments yields ErrAmbiguousID.
func (s *Store) Resolve(ctx context.Context, ref string) (*Record, error) {
	ctx = ensureContext(ctx)
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, &NotFoundError{ID: ref}
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordColumns+` FROM experiments WHERE id LIKE ? ESCAPE '\' ORDER BY created_at DESC LIMIT 2`,
		escapeLike(ref)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("resolve experiment: %w", err)
	}
	defer rows.Close()

	var matches []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if rec.ID == ref {
			return rec, nil
		}
		matches = append(matches, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, &NotFoundError{ID: ref}
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousID, ref)
	}
}

// List returns saved experiments newest first. A non-positive limit falls
// back to DefaultListLimit.
func (s *Store) List(ctx context.Context, limit int) ([]*Record, error) {
	return s.list(ctx, "", limit)
}

// ListForStudent is List restricted to one student's runs.
func (s *Store) ListForStudent(ctx context.Context, student string, limit int) ([]*Record, error) {
	return s.list(ctx, strings.TrimSpace(student), limit)
}

func (s *Store) list(ctx context.Context, student string, limit int) ([]*Record, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var (
		rows *sql.Rows
		err  error
	)
	baseQuery := `SELECT ` + recordColumns + ` FROM experiments`
	orderClause := ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	if student == "" {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE student = ?`+orderClause, student, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list experiments: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the total number of saved experiments.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM experiments`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count experiments: %w", err)
	}
	return total, nil
}

// Delete removes the experiment with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM experiments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete experiment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete experiment rows affected: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}
