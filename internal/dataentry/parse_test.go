package dataentry_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titrate/internal/dataentry"
)

func TestParsePastedDelimiters(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"tabs", "0\t2\n1\t2.1\n2\t7.5"},
		{"commas", "0,2\n1, 2.1\n2 ,7.5"},
		{"spaces", "0 2\n1    2.1\n  2 7.5  "},
		{"crlf", "0,2\r\n1,2.1\r\n2,7.5\r\n"},
	}
	want := []dataentry.Sample{{0, 2}, {1, 2.1}, {2, 7.5}}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, want, dataentry.ParsePasted(tc.text))
		})
	}
}

func TestParsePastedSkipsHeadersAndShortLines(t *testing.T) {
	text := strings.Join([]string{
		"Volume (mL)\tpH",
		"",
		"0\t3.0",
		"5",
		"abc\t4",
		"5\tNaN",
		"10 mL\t7.2 ",
	}, "\n")

	got := dataentry.ParsePasted(text)
	assert.Equal(t, []dataentry.Sample{{0, 3}, {10, 7.2}}, got)
}

func TestParsePastedTabWinsOverComma(t *testing.T) {
	got := dataentry.ParsePasted("1,5\t7,2")
	assert.Equal(t, []dataentry.Sample{{Volume: 1, PH: 7}}, got)
}

func TestIsMultiLine(t *testing.T) {
	assert.True(t, dataentry.IsMultiLine("1\n2"))
	assert.True(t, dataentry.IsMultiLine("1\t2"))
	assert.False(t, dataentry.IsMultiLine("7.25"))
}

func TestReadFileRoundTripsFormat(t *testing.T) {
	samples := []dataentry.Sample{{0, 2}, {0.5, 2.35}, {12.25, 11.9}}
	path := filepath.Join(t.TempDir(), "run.tsv")
	require.NoError(t, os.WriteFile(path, []byte("volume\tph\n"+dataentry.Format(samples)), 0o644))

	got, err := dataentry.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, samples, got)
}

func TestReadFileMissing(t *testing.T) {
	_, err := dataentry.ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestSeriesAndFromSeries(t *testing.T) {
	samples := []dataentry.Sample{{0, 2}, {1, 3}}
	volume, pH := dataentry.Series(samples)
	assert.Equal(t, []float64{0, 1}, volume)
	assert.Equal(t, []float64{2, 3}, pH)
	assert.Equal(t, samples, dataentry.FromSeries(volume, append(pH, 9)))
}
