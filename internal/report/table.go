package report

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"titrate/internal/titration"
)

const (
	ansiReset  = "\x1b[0m"
	ansiYellow = "\x1b[33m"
	ansiBold   = "\x1b[1m"
	ansiBlue   = "\x1b[34m"
)

// EndPointMarker prefixes the end-point row of a difference table.
const EndPointMarker = "*"

const emptyCell = "-"

// Labels names the axes in table headers.
type Labels struct {
	X string
	Y string
}

func (l Labels) withDefaults() Labels {
	if l.X == "" {
		l.X = "V"
	}
	if l.Y == "" {
		l.Y = "pH"
	}
	return l
}

// DifferenceTable renders one row per sample. The first row has no
// differences; row i+1 carries interval i. The end-point row is starred and,
// when colorize is set, highlighted.
func DifferenceTable(result titration.Result, labels Labels, f Formatter, colorize bool) string {
	labels = labels.withDefaults()
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	// Keep unit casing such as "pH" and "mL" intact.
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(table.Row{
		"",
		"#",
		labels.X,
		labels.Y,
		"Δ" + labels.Y,
		"Δ" + labels.X,
		"Δ" + labels.Y + "/Δ" + labels.X,
	})

	for i := range result.Volume {
		row := table.Row{"", strconv.Itoa(i + 1), f.Float(result.Volume[i]), f.Float(cell(result.PH, i))}
		if i == 0 {
			row = append(row, emptyCell, emptyCell, emptyCell)
			tw.AppendRow(row)
			continue
		}
		interval := i - 1
		row = append(row,
			f.Float(cell(result.DeltaPH, interval)),
			f.Float(cell(result.DeltaV, interval)),
			f.Float(cell(result.Slope, interval)),
		)
		if result.IsEndPoint(interval) {
			row[0] = EndPointMarker
			if colorize {
				for c := range row {
					row[c] = ansiBold + ansiYellow + row[c].(string) + ansiReset
				}
			}
		}
		tw.AppendRow(row)
	}

	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignCenter}}
	for n := 2; n <= 7; n++ {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func cell(values []float64, i int) float64 {
	if i < 0 || i >= len(values) {
		return 0
	}
	return values[i]
}
