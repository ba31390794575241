package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"titrate/internal/config"
	"titrate/internal/dataentry"
	"titrate/internal/report"
	"titrate/internal/titration"
)

type exportExperiment struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Name    string `json:"name" yaml:"name"`
	Number  string `json:"number" yaml:"number"`
	Student string `json:"student,omitempty" yaml:"student,omitempty"`
	Source  string `json:"source,omitempty" yaml:"source,omitempty"`
}

type exportEndPoint struct {
	Index  int            `json:"index" yaml:"index"`
	Volume float64        `json:"volume" yaml:"volume"`
	PH     float64        `json:"ph" yaml:"ph"`
	Slope  float64        `json:"slope" yaml:"slope"`
	Type   titration.Type `json:"type" yaml:"type"`
}

type exportInterval struct {
	PlotVolume float64 `json:"plot_volume" yaml:"plot_volume"`
	DeltaPH    float64 `json:"delta_ph" yaml:"delta_ph"`
	DeltaV     float64 `json:"delta_v" yaml:"delta_v"`
	Slope      float64 `json:"slope" yaml:"slope"`
	EndPoint   bool    `json:"end_point,omitempty" yaml:"end_point,omitempty"`
}

type exportDocument struct {
	Experiment exportExperiment   `json:"experiment" yaml:"experiment"`
	Samples    []dataentry.Sample `json:"samples" yaml:"samples"`
	EndPoint   exportEndPoint     `json:"end_point" yaml:"end_point"`
	Intervals  []exportInterval   `json:"intervals" yaml:"intervals"`
	Stats      report.Stats       `json:"stats" yaml:"stats"`
	Chart      config.Chart       `json:"chart" yaml:"chart"`
}

func newExportDocument(run analyzedRun) exportDocument {
	result := run.Result
	doc := exportDocument{
		Experiment: exportExperiment{
			ID:      run.Info.ID,
			Name:    run.Info.Name,
			Number:  run.Info.Number,
			Student: run.Info.Student,
			Source:  run.Info.Source,
		},
		Samples: run.Samples,
		EndPoint: exportEndPoint{
			Index:  result.EqIndex,
			Volume: result.EqVol,
			PH:     result.EqPH,
			Slope:  result.EqSlope,
			Type:   result.Type,
		},
		Intervals: make([]exportInterval, result.Intervals()),
		Stats:     report.Summarize(result),
		Chart:     run.Chart,
	}
	for i := range doc.Intervals {
		doc.Intervals[i] = exportInterval{
			PlotVolume: result.PlotVolume[i],
			DeltaPH:    result.DeltaPH[i],
			DeltaV:     result.DeltaV[i],
			Slope:      result.Slope[i],
			EndPoint:   result.IsEndPoint(i),
		}
	}
	return doc
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		format        string
		experimentRef string
	)

	cmd := &cobra.Command{
		Use:   "export [file|-]",
		Short: "Export an analysis as JSON or YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported export format %q (want json or yaml)", format)
			}
			run, err := loadRun(cmd, ctx, args, experimentRef)
			if err != nil {
				return err
			}
			doc := newExportDocument(run)
			if format == "yaml" {
				return writeYAML(cmd, doc)
			}
			return writeJSON(cmd, doc)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&experimentRef, "experiment", "e", "", "Export a saved experiment by ID or ID prefix")
	return cmd
}
