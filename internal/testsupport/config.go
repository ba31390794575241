package testsupport

import (
	"path/filepath"
	"testing"

	"titrate/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Experiment.Student = "tester"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStudent overrides the default student label.
func WithStudent(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Experiment.Student = name
	}
}

// WithReportFormat sets the report locale and decimal places.
func WithReportFormat(locale string, decimals int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Report.Locale = locale
		b.cfg.Report.Decimals = decimals
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
