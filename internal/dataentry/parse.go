package dataentry

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Sample is one parsed (volume, pH) pair.
type Sample struct {
	Volume float64 `json:"volume" yaml:"volume"`
	PH     float64 `json:"ph" yaml:"ph"`
}

var (
	whitespaceSplit = regexp.MustCompile(`\s+`)
	leadingNumber   = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// ParsePasted parses one pair per line. Lines with a tab split on tabs,
// otherwise on commas, otherwise on runs of whitespace. Lines whose first two
// fields are not numbers are skipped.
func ParsePasted(text string) []Sample {
	var samples []Sample
	for _, line := range strings.Split(text, "\n") {
		if sample, ok := parseLine(line); ok {
			samples = append(samples, sample)
		}
	}
	return samples
}

func parseLine(line string) (Sample, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Sample{}, false
	}

	var parts []string
	switch {
	case strings.Contains(line, "\t"):
		parts = strings.Split(line, "\t")
	case strings.Contains(line, ","):
		parts = strings.Split(line, ",")
	default:
		parts = whitespaceSplit.Split(trimmed, -1)
	}

	fields := parts[:0]
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			fields = append(fields, p)
		}
	}
	if len(fields) < 2 {
		return Sample{}, false
	}

	volume, ok := parseLeadingFloat(fields[0])
	if !ok {
		return Sample{}, false
	}
	pH, ok := parseLeadingFloat(fields[1])
	if !ok {
		return Sample{}, false
	}
	return Sample{Volume: volume, PH: pH}, true
}

// parseLeadingFloat reads the numeric prefix of s, so "7.5 mL" yields 7.5.
func parseLeadingFloat(s string) (float64, bool) {
	match := leadingNumber.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// IsMultiLine reports whether pasted text should be treated as a block of
// rows rather than a single cell value.
func IsMultiLine(text string) bool {
	return strings.ContainsAny(text, "\n\t")
}

// Read parses every sample from r.
func Read(r io.Reader) ([]Sample, error) {
	var b strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		b.WriteString(scanner.Text())
		b.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read samples: %w", err)
	}
	return ParsePasted(b.String()), nil
}

// ReadFile parses every sample from the file at path.
func ReadFile(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Series splits samples into aligned volume and pH slices.
func Series(samples []Sample) (volume, pH []float64) {
	volume = make([]float64, len(samples))
	pH = make([]float64, len(samples))
	for i, s := range samples {
		volume[i] = s.Volume
		pH[i] = s.PH
	}
	return volume, pH
}

// FromSeries zips aligned series back into samples, stopping at the shorter.
func FromSeries(volume, pH []float64) []Sample {
	n := min(len(volume), len(pH))
	samples := make([]Sample, n)
	for i := 0; i < n; i++ {
		samples[i] = Sample{Volume: volume[i], PH: pH[i]}
	}
	return samples
}

// Format renders samples as tab separated lines that ParsePasted reads back.
func Format(samples []Sample) string {
	var b strings.Builder
	for _, s := range samples {
		b.WriteString(strconv.FormatFloat(s.Volume, 'f', -1, 64))
		b.WriteByte('\t')
		b.WriteString(strconv.FormatFloat(s.PH, 'f', -1, 64))
		b.WriteByte('\n')
	}
	return b.String()
}
