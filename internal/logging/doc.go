// Package logging assembles structured slog loggers and formatting helpers used
// across titrate commands.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes helpers so components tag their log lines with a
// component name and, where relevant, the experiment they act on. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every command emits
// data with the same shape.
package logging
