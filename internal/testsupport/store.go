package testsupport

import (
	"context"
	"testing"

	"titrate/internal/config"
	"titrate/internal/experiments"
	"titrate/internal/titration"
)

// MustOpenStore opens an experiments.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *experiments.Store {
	t.Helper()

	store, err := experiments.Open(cfg)
	if err != nil {
		t.Fatalf("experiments.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SaveRun analyzes the series and saves it under name using the config's
// chart layout and student.
func SaveRun(t testing.TB, store *experiments.Store, cfg *config.Config, name string, volume, pH []float64) *experiments.Record {
	t.Helper()

	result, ok := titration.Calculate(volume, pH)
	if !ok {
		t.Fatalf("titration.Calculate: insufficient data for %s", name)
	}
	meta := experiments.Meta{Name: name, Number: cfg.Experiment.Number, Student: cfg.Experiment.Student}
	rec, err := store.Save(context.Background(), experiments.NewRecord(meta, result, cfg.Chart))
	if err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return rec
}
