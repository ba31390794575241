package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"titrate/internal/titration"
)

// Info carries the labels printed in the report header. Empty fields are
// omitted.
type Info struct {
	ID      string
	Name    string
	Number  string
	Student string
	Source  string
	SavedAt time.Time
}

// Document is everything a report needs.
type Document struct {
	Info   Info
	Result titration.Result
	Labels Labels
}

const labelWidth = 14

// Render produces the full text report: header, end point, statistics, and
// the difference table.
func Render(doc Document, f Formatter, colorize bool) string {
	var b strings.Builder
	title := cases.Title(f.Tag())
	labels := doc.Labels.withDefaults()
	result := doc.Result

	writeSection(&b, title.String("titration report"), colorize)
	experiment := doc.Info.Name
	if doc.Info.Number != "" {
		experiment = strings.TrimSpace(experiment + " (" + doc.Info.Number + ")")
	}
	writeField(&b, "Experiment", experiment)
	writeField(&b, "Student", doc.Info.Student)
	writeField(&b, "Source", doc.Info.Source)
	writeField(&b, "ID", doc.Info.ID)
	if !doc.Info.SavedAt.IsZero() {
		writeField(&b, "Saved", doc.Info.SavedAt.Local().Format("2006-01-02 15:04"))
	}

	b.WriteByte('\n')
	writeSection(&b, title.String("end point"), colorize)
	if result.Intervals() == 0 {
		writeField(&b, "Status", "not enough data (need at least two samples)")
		return b.String()
	}
	writeField(&b, "Volume", f.Float(result.EqVol)+" mL")
	writeField(&b, labels.Y, f.Float(result.EqPH))
	writeField(&b, "Δ"+labels.Y+"/ΔV", f.Float(result.EqSlope))
	writeField(&b, "Type", string(result.Type))
	if result.ManualDeltas {
		writeField(&b, "Differences", "edited by hand")
	}

	stats := Summarize(result)
	b.WriteByte('\n')
	writeSection(&b, title.String("statistics"), colorize)
	writeField(&b, "Points", f.Int(stats.Points))
	writeField(&b, "Volume range", f.Float(stats.MinVolume)+" - "+f.Float(stats.MaxVolume)+" mL")
	writeField(&b, labels.Y+" range", f.Float(stats.MinPH)+" - "+f.Float(stats.MaxPH))
	writeField(&b, "Max slope", f.Float(stats.MaxSlope))

	b.WriteByte('\n')
	writeSection(&b, title.String("differences"), colorize)
	b.WriteString(DifferenceTable(result, labels, f, colorize))
	b.WriteString("\n" + EndPointMarker + " marks the end-point interval\n")
	return b.String()
}

// Write renders doc to w.
func Write(w io.Writer, doc Document, f Formatter, colorize bool) error {
	_, err := io.WriteString(w, Render(doc, f, colorize))
	return err
}

// Summary is the short end-point block printed after an analysis.
func Summary(result titration.Result, f Formatter) string {
	if result.Intervals() == 0 {
		return "End point: not enough data\n"
	}
	return fmt.Sprintf("End point: %s mL at pH %s (slope %s)\nType: %s\n",
		f.Float(result.EqVol), f.Float(result.EqPH), f.Float(result.EqSlope), result.Type)
}

func writeSection(b *strings.Builder, title string, colorize bool) {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if colorize {
		line = ansiBlue + line + ansiReset
	}
	b.WriteString(line)
	b.WriteByte('\n')
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "  %-*s %s\n", labelWidth, label+":", value)
}
