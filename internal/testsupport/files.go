package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// WeakAcidVolume and WeakAcidPH describe a strong base into weak acid run
// whose steepest rise sits between 4 and 5 mL.
var (
	WeakAcidVolume = []float64{0, 1, 2, 3, 4, 5, 6}
	WeakAcidPH     = []float64{3.0, 4.1, 4.6, 5.2, 6.8, 10.5, 11.2}
)

// WriteSamples writes a tab-separated data file with a header line, creating
// parent directories as needed.
func WriteSamples(t testing.TB, path string, volume, pH []float64) {
	t.Helper()

	if len(volume) != len(pH) {
		t.Fatalf("WriteSamples: %d volumes vs %d pH values", len(volume), len(pH))
	}
	var b strings.Builder
	b.WriteString("volume\tpH\n")
	for i := range volume {
		b.WriteString(strconv.FormatFloat(volume[i], 'g', -1, 64))
		b.WriteByte('\t')
		b.WriteString(strconv.FormatFloat(pH[i], 'g', -1, 64))
		b.WriteByte('\n')
	}
	WriteText(t, path, b.String())
}

// WriteText writes raw content to path.
func WriteText(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
