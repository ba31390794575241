// Package watch re-analyzes a titration data file whenever it changes on
// disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"titrate/internal/dataentry"
	"titrate/internal/logging"
	"titrate/internal/titration"
)

// DefaultDebounce coalesces the burst of events editors emit for one save.
const DefaultDebounce = 150 * time.Millisecond

// Update is delivered after each analysis of the watched file.
type Update struct {
	Path    string
	Samples int
	Result  titration.Result
	Err     error
	At      time.Time
}

// Options tunes Watch. The zero value is usable.
type Options struct {
	Debounce    time.Duration
	Logger      *slog.Logger
	SkipInitial bool
}

// Analyze reads and analyzes path once.
func Analyze(path string) Update {
	update := Update{Path: path, At: time.Now()}
	samples, err := dataentry.ReadFile(path)
	if err != nil {
		update.Err = err
		return update
	}
	update.Samples = len(samples)
	volume, pH := dataentry.Series(samples)
	result, ok := titration.Calculate(volume, pH)
	if !ok {
		update.Err = fmt.Errorf("%s: %w", filepath.Base(path), titration.ErrInsufficientData)
		return update
	}
	update.Result = result
	return update
}

// Watch calls onUpdate with a fresh analysis each time path is written,
// created, or replaced, until ctx is cancelled. The parent directory is
// watched so editors that save by renaming a temp file are still seen.
// Unless SkipInitial is set, the file is analyzed once before waiting.
func Watch(ctx context.Context, path string, opts Options, onUpdate func(Update)) error {
	if onUpdate == nil {
		return errors.New("watch: onUpdate is nil")
	}
	logger := logging.NewComponentLogger(opts.Logger, "watch")
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve watch path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	logger.Info("watching data file", logging.String(logging.FieldSource, target))

	deliver := func() {
		update := Analyze(target)
		if update.Err != nil {
			logger.Warn("analysis failed", logging.String(logging.FieldSource, target), logging.Error(update.Err))
		} else {
			logger.Debug("analysis updated",
				logging.String(logging.FieldSource, target),
				logging.Int(logging.FieldPoints, update.Samples),
				logging.Float64("eq_volume", update.Result.EqVol),
			)
		}
		onUpdate(update)
	}

	if !opts.SkipInitial {
		deliver()
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			deliver()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", logging.Error(err))
		}
	}
}
