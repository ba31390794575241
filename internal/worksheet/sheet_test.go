package worksheet_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"titrate/internal/titration"
	"titrate/internal/worksheet"
)

func openSheet(t *testing.T) *worksheet.Sheet {
	t.Helper()
	result, ok := titration.Calculate([]float64{0, 1, 2, 3}, []float64{3, 4, 9, 10})
	if !ok {
		t.Fatal("expected analysis to succeed")
	}
	return worksheet.Open(result, worksheet.Meta{Name: "KHP-STD", Source: "run.tsv"})
}

func TestOpenCopiesResult(t *testing.T) {
	sheet := openSheet(t)
	if sheet.Result.EqIndex != 1 || sheet.Result.EqVol != 2 {
		t.Fatalf("unexpected end point: %+v", sheet.Result)
	}
	sheet.Volume[0] = 42
	if sheet.Result.Volume[0] == 42 {
		t.Fatal("worksheet volume should not alias the result")
	}
}

func TestSetPHRederivesDeltas(t *testing.T) {
	sheet := openSheet(t)
	if err := sheet.SetDeltaPH(0, 50); err != nil {
		t.Fatalf("SetDeltaPH: %v", err)
	}
	if !sheet.Result.ManualDeltas || sheet.Result.EqIndex != 0 {
		t.Fatalf("expected manual delta to move end point, got %+v", sheet.Result)
	}

	if err := sheet.SetPH(3, 14); err != nil {
		t.Fatalf("SetPH: %v", err)
	}
	if sheet.Result.ManualDeltas {
		t.Fatal("series edit should discard manual deltas")
	}
	if sheet.DeltaPH[0] != 1 || sheet.DeltaPH[2] != 5 {
		t.Fatalf("expected rederived deltas, got %v", sheet.DeltaPH)
	}
	if sheet.Result.EqIndex != 1 {
		t.Fatalf("expected first-max tie at index 1, got %d", sheet.Result.EqIndex)
	}
	if sheet.Edits != 2 {
		t.Fatalf("expected 2 edits, got %d", sheet.Edits)
	}
}

func TestSetDeltaVZeroPreviewsZeroSlope(t *testing.T) {
	sheet := openSheet(t)
	if err := sheet.SetDeltaV(1, 0); err != nil {
		t.Fatalf("SetDeltaV: %v", err)
	}
	if sheet.Result.Slope[1] != 0 {
		t.Fatalf("expected slope 0, got %v", sheet.Result.Slope[1])
	}
	if sheet.Result.EqIndex != 0 && sheet.Result.EqIndex != 2 {
		t.Fatalf("unexpected end point %d", sheet.Result.EqIndex)
	}
	if sheet.DeltaV[1] != 0 || sheet.Result.DeltaV[1] != 0 {
		t.Fatal("edited delta should be kept verbatim")
	}
}

func TestSetByFieldName(t *testing.T) {
	sheet := openSheet(t)
	if err := sheet.Set(worksheet.FieldVolume, 3, 2.5); err != nil {
		t.Fatalf("Set volume: %v", err)
	}
	if sheet.Result.PlotVolume[2] != 2.5 {
		t.Fatalf("expected plot volume 2.5, got %v", sheet.Result.PlotVolume)
	}
	if err := sheet.Set("temperature", 0, 1); err == nil {
		t.Fatal("expected unknown field error")
	}
	if err := sheet.Set(worksheet.FieldDeltaPH, 3, 1); !errors.Is(err, worksheet.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := sheet.SetPH(-1, 7); !errors.Is(err, worksheet.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestApplyBlocksInvalidSeries(t *testing.T) {
	sheet := openSheet(t)
	if err := sheet.SetVolume(2, 0.5); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if err := sheet.SetPH(0, 15); err != nil {
		t.Fatalf("SetPH: %v", err)
	}

	_, _, _, err := sheet.Apply()
	var verr *titration.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %v", verr.Issues)
	}

	if err := sheet.SetVolume(2, 2); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if err := sheet.SetPH(0, 3); err != nil {
		t.Fatalf("SetPH: %v", err)
	}
	volume, pH, result, err := sheet.Apply()
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(volume) != 4 || pH[0] != 3 || result.EqVol != 2 {
		t.Fatalf("unexpected applied data: %v %v %+v", volume, pH, result)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet", "worksheet.json")
	ctx := context.Background()

	if _, err := worksheet.Load(path); !errors.Is(err, worksheet.ErrNoWorksheet) {
		t.Fatalf("expected ErrNoWorksheet, got %v", err)
	}
	if err := worksheet.Create(ctx, path, openSheet(t)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := worksheet.Update(ctx, path, func(s *worksheet.Sheet) error {
		return s.SetDeltaPH(2, 7)
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Result.EqIndex != 2 {
		t.Fatalf("expected end point at 2, got %d", updated.Result.EqIndex)
	}

	loaded, err := worksheet.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Meta.Source != "run.tsv" || loaded.DeltaPH[2] != 7 || !loaded.Result.ManualDeltas {
		t.Fatalf("unexpected loaded sheet: %+v", loaded)
	}
}

func TestUpdateFailureLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worksheet.json")
	ctx := context.Background()
	if err := worksheet.Create(ctx, path, openSheet(t)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if _, err := worksheet.Update(ctx, path, func(s *worksheet.Sheet) error {
		_ = s.SetPH(0, 1)
		return errors.New("abort")
	}); err == nil {
		t.Fatal("expected error")
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("worksheet should be unchanged after a failed update")
	}
}

func TestConcurrentUpdatesSerialize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worksheet.json")
	ctx := context.Background()
	if err := worksheet.Create(ctx, path, openSheet(t)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := worksheet.Update(ctx, path, func(s *worksheet.Sheet) error {
				return s.SetPH(0, 3)
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	loaded, err := worksheet.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Edits != workers {
		t.Fatalf("expected %d serialized edits, got %d", workers, loaded.Edits)
	}
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worksheet.json")
	ctx := context.Background()
	if err := worksheet.Create(ctx, path, openSheet(t)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := worksheet.Remove(ctx, path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := worksheet.Remove(ctx, path); !errors.Is(err, worksheet.ErrNoWorksheet) {
		t.Fatalf("expected ErrNoWorksheet, got %v", err)
	}
}
