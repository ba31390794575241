package report

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultDecimals matches the two-place rounding used on lab worksheets.
const DefaultDecimals = 2

// Formatter prints numbers for one locale at a fixed precision.
type Formatter struct {
	tag      language.Tag
	printer  *message.Printer
	decimals int
	verb     string
}

// NewFormatter builds a Formatter for a BCP 47 locale. Negative decimals
// fall back to DefaultDecimals.
func NewFormatter(locale string, decimals int) (Formatter, error) {
	tag := language.AmericanEnglish
	if locale != "" {
		parsed, err := language.Parse(locale)
		if err != nil {
			return Formatter{}, fmt.Errorf("report locale %q: %w", locale, err)
		}
		tag = parsed
	}
	if decimals < 0 {
		decimals = DefaultDecimals
	}
	return Formatter{
		tag:      tag,
		printer:  message.NewPrinter(tag),
		decimals: decimals,
		verb:     fmt.Sprintf("%%.%df", decimals),
	}, nil
}

// Tag reports the formatter locale.
func (f Formatter) Tag() language.Tag {
	return f.tag
}

// Float formats v with the configured precision and locale separators.
func (f Formatter) Float(v float64) string {
	if f.printer == nil {
		f, _ = NewFormatter("", DefaultDecimals)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	// Avoid printing "-0.00" for tiny negatives that round to zero.
	scale := math.Pow(10, float64(f.decimals))
	if math.Round(v*scale) == 0 {
		v = 0
	}
	return f.printer.Sprintf(f.verb, v)
}

// Int formats n with locale digit grouping.
func (f Formatter) Int(n int) string {
	if f.printer == nil {
		f, _ = NewFormatter("", DefaultDecimals)
	}
	return f.printer.Sprintf("%d", n)
}
