package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldExperimentID is the standardized key for saved experiment identifiers.
	FieldExperimentID = "experiment_id"
	// FieldSource is the standardized key for the data file or stream being analyzed.
	FieldSource = "source"
	// FieldPoints is the standardized key for the number of samples in a series.
	FieldPoints = "points"
)

type contextKey int

const (
	experimentIDKey contextKey = iota
	sourceKey
)

// WithExperimentID tags ctx with the experiment a command acts on.
func WithExperimentID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, experimentIDKey, id)
}

// WithSource tags ctx with the data source a command reads.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := ctx.Value(experimentIDKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldExperimentID, id))
	}
	if src, ok := ctx.Value(sourceKey).(string); ok && src != "" {
		fields = append(fields, slog.String(FieldSource, src))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, f)
	}
	return logger.With(args...)
}
