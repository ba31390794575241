package worksheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrNoWorksheet reports that no worksheet has been opened at the path.
var ErrNoWorksheet = errors.New("no worksheet is open")

const lockRetryDelay = 25 * time.Millisecond

// Load reads the worksheet at path without taking the lock.
func Load(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoWorksheet
	}
	if err != nil {
		return nil, fmt.Errorf("read worksheet: %w", err)
	}
	var sheet Sheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("decode worksheet %s: %w", path, err)
	}
	return &sheet, nil
}

// Save writes the worksheet to path through a temp file and rename.
func Save(path string, sheet *Sheet) error {
	if sheet == nil {
		return errors.New("worksheet is nil")
	}
	data, err := json.MarshalIndent(sheet, "", "  ")
	if err != nil {
		return fmt.Errorf("encode worksheet: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create worksheet dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".worksheet-*.json")
	if err != nil {
		return fmt.Errorf("create temp worksheet: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write worksheet: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close worksheet: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace worksheet: %w", err)
	}
	return nil
}

// Create stores a freshly opened worksheet, replacing any existing one.
func Create(ctx context.Context, path string, sheet *Sheet) error {
	return withLock(ctx, path, func() error {
		return Save(path, sheet)
	})
}

// Update loads the worksheet under lock, applies fn, and saves the result.
// Nothing is written when fn fails.
func Update(ctx context.Context, path string, fn func(*Sheet) error) (*Sheet, error) {
	var sheet *Sheet
	err := withLock(ctx, path, func() error {
		loaded, err := Load(path)
		if err != nil {
			return err
		}
		if err := fn(loaded); err != nil {
			return err
		}
		if err := Save(path, loaded); err != nil {
			return err
		}
		sheet = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sheet, nil
}

// Remove discards the worksheet. Removing a missing worksheet reports
// ErrNoWorksheet.
func Remove(ctx context.Context, path string) error {
	return withLock(ctx, path, func() error {
		err := os.Remove(path)
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNoWorksheet
		}
		if err != nil {
			return fmt.Errorf("remove worksheet: %w", err)
		}
		return nil
	})
}

func withLock(ctx context.Context, path string, fn func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create worksheet dir: %w", err)
	}
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire worksheet lock: %w", err)
	}
	if !ok {
		return errors.New("worksheet is locked by another titrate process")
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}
