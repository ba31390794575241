package experiments_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"titrate/internal/config"
	"titrate/internal/experiments"
	"titrate/internal/testsupport"
	"titrate/internal/titration"
)

func TestSaveAndGetRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	saved := testsupport.SaveRun(t, store, cfg, "KHP-STD", testsupport.WeakAcidVolume, testsupport.WeakAcidPH)
	if saved.ID == "" {
		t.Fatal("expected ID to be assigned")
	}
	if saved.CreatedAt.IsZero() || !saved.CreatedAt.Equal(saved.UpdatedAt) {
		t.Fatalf("unexpected timestamps: created=%v updated=%v", saved.CreatedAt, saved.UpdatedAt)
	}

	fetched, err := store.Get(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.Name != "KHP-STD" || fetched.Number != "Run 1" || fetched.Student != "tester" {
		t.Fatalf("unexpected labels: %#v", fetched)
	}
	if len(fetched.Volume) != 7 || fetched.PH[5] != 10.5 {
		t.Fatalf("series not preserved: %v / %v", fetched.Volume, fetched.PH)
	}
	if !fetched.HasEndPoint || fetched.EqVolume != 5 || fetched.EqPH != 10.5 {
		t.Fatalf("unexpected end point: %#v", fetched)
	}
	if math.Abs(fetched.EqSlope-3.7) > 1e-9 {
		t.Fatalf("expected slope 3.7, got %v", fetched.EqSlope)
	}
	if fetched.ExpType != titration.TypeStrongBaseWeakAcid {
		t.Fatalf("unexpected type %q", fetched.ExpType)
	}
	if fetched.Chart != cfg.Chart {
		t.Fatalf("chart not preserved: %#v", fetched.Chart)
	}
}

func TestSaveKeepsManualEndPoint(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	base, ok := titration.Calculate(testsupport.WeakAcidVolume, testsupport.WeakAcidPH)
	if !ok {
		t.Fatal("expected analysis to succeed")
	}
	edited := titration.Recompute(base, titration.DeltaInput{
		DeltaPH: []float64{9, 0.5, 0.6, 1.6, 3.7, 0.7},
		DeltaV:  base.DeltaV,
	})
	if edited.EqIndex != 0 {
		t.Fatalf("expected edit to move end point, got %d", edited.EqIndex)
	}

	rec := experiments.NewRecord(experiments.Meta{Name: " edited "}, edited, cfg.Chart)
	saved, err := store.Save(context.Background(), rec)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.Name != "edited" {
		t.Fatalf("expected trimmed name, got %q", saved.Name)
	}
	if saved.EqVolume != 1 || saved.EqSlope != 9 {
		t.Fatalf("expected manual end point to be stored, got vol=%v slope=%v", saved.EqVolume, saved.EqSlope)
	}

	reanalyzed, ok := saved.Analyze()
	if !ok || reanalyzed.EqIndex != 4 {
		t.Fatalf("expected re-analysis from series to find index 4, got %d (ok=%v)", reanalyzed.EqIndex, ok)
	}
}

func TestSaveWithoutEndPointStoresNulls(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	rec := &experiments.Record{Name: "empty", Volume: []float64{1}, PH: []float64{7}}
	saved, err := store.Save(context.Background(), rec)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.HasEndPoint || saved.ExpType != "" {
		t.Fatalf("expected no end point, got %#v", saved)
	}
}

func TestSaveRejectsInvalidRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := store.Save(ctx, nil); err == nil {
		t.Fatal("expected error for nil record")
	}
	if _, err := store.Save(ctx, &experiments.Record{Name: "  "}); err == nil {
		t.Fatal("expected error for blank name")
	}
	_, err := store.Save(ctx, &experiments.Record{Name: "x", Volume: []float64{1, 2}, PH: []float64{7}})
	if !errors.Is(err, titration.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		testsupport.SaveRun(t, store, cfg, fmt.Sprintf("run-%d", i), testsupport.WeakAcidVolume, testsupport.WeakAcidPH)
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	if all[0].Name != "run-2" || all[2].Name != "run-0" {
		t.Fatalf("expected newest first, got %s..%s", all[0].Name, all[2].Name)
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 2 || limited[0].Name != "run-2" {
		t.Fatalf("unexpected limited list: %d", len(limited))
	}

	total, err := store.Count(ctx)
	if err != nil || total != 3 {
		t.Fatalf("Count = %d, %v", total, err)
	}
}

func TestListForStudent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.SaveRun(t, store, cfg, "mine", testsupport.WeakAcidVolume, testsupport.WeakAcidPH)
	other := testsupport.NewConfig(t, testsupport.WithStudent("someone-else"))
	testsupport.SaveRun(t, store, other, "theirs", testsupport.WeakAcidVolume, testsupport.WeakAcidPH)

	records, err := store.ListForStudent(context.Background(), "tester", 10)
	if err != nil {
		t.Fatalf("ListForStudent failed: %v", err)
	}
	if len(records) != 1 || records[0].Name != "mine" {
		t.Fatalf("unexpected records: %#v", records)
	}
}

func TestDeleteAndNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	rec := testsupport.SaveRun(t, store, cfg, "gone", testsupport.WeakAcidVolume, testsupport.WeakAcidPH)
	if err := store.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.Get(ctx, rec.ID); !errors.Is(err, experiments.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Get, got %v", err)
	}
	err := store.Delete(ctx, rec.ID)
	if !errors.Is(err, experiments.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from second Delete, got %v", err)
	}
	var nf *experiments.NotFoundError
	if !errors.As(err, &nf) || nf.ID != rec.ID || nf.ErrorKind() != "not_found" {
		t.Fatalf("expected NotFoundError for %s, got %#v", rec.ID, err)
	}
}

func TestResolveByPrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	rec := testsupport.SaveRun(t, store, cfg, "prefix", testsupport.WeakAcidVolume, testsupport.WeakAcidPH)

	found, err := store.Resolve(ctx, rec.ShortID())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if found.ID != rec.ID {
		t.Fatalf("expected %s, got %s", rec.ID, found.ID)
	}
	if _, err := store.Resolve(ctx, "zzzz"); !errors.Is(err, experiments.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	testsupport.SaveRun(t, store, cfg, "second", testsupport.WeakAcidVolume, testsupport.WeakAcidPH)
	if _, err := store.Resolve(ctx, ""); !errors.Is(err, experiments.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank ref, got %v", err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	store.Close()

	raw, err := experiments.OpenPath(cfg.DatabasePath())
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	if err := raw.BumpSchemaVersionForTest(99); err != nil {
		t.Fatalf("bump schema version: %v", err)
	}
	raw.Close()

	if _, err := experiments.Open(cfg); !errors.Is(err, experiments.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenCreatesDataDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if store.Path() != filepath.Join(cfg.Paths.DataDir, "experiments.db") {
		t.Fatalf("unexpected path %s", store.Path())
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
}

func TestOpenRejectsNilConfig(t *testing.T) {
	var cfg *config.Config
	if _, err := experiments.Open(cfg); err == nil {
		t.Fatal("expected error for nil config")
	}
}
