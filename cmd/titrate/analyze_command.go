package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"titrate/internal/experiments"
	"titrate/internal/logging"
	"titrate/internal/report"
	"titrate/internal/titration"
)

type saveFlags struct {
	name    string
	number  string
	student string
}

func (f *saveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Experiment name (defaults to experiment.name)")
	cmd.Flags().StringVar(&f.number, "number", "", "Experiment number (defaults to experiment.number)")
	cmd.Flags().StringVar(&f.student, "student", "", "Student name (defaults to experiment.student)")
}

func (f *saveFlags) meta(ctx *commandContext) (experiments.Meta, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return experiments.Meta{}, err
	}
	meta := experiments.Meta{
		Name:    cfg.Experiment.Name,
		Number:  cfg.Experiment.Number,
		Student: cfg.Experiment.Student,
	}
	if f.name != "" {
		meta.Name = f.name
	}
	if f.number != "" {
		meta.Number = f.number
	}
	if f.student != "" {
		meta.Student = f.student
	}
	return meta, nil
}

// saveResult stores result under the flag-supplied labels and returns the new record.
func saveResult(cmd *cobra.Command, ctx *commandContext, flags *saveFlags, result titration.Result) (*experiments.Record, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	meta, err := flags.meta(ctx)
	if err != nil {
		return nil, err
	}
	var saved *experiments.Record
	err = ctx.withStore(func(store *experiments.Store) error {
		rec, err := store.Save(cmd.Context(), experiments.NewRecord(meta, result, cfg.Chart))
		if err != nil {
			return err
		}
		saved = rec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save experiment: %w", err)
	}
	logging.WithContext(logging.WithExperimentID(cmd.Context(), saved.ID), ctx.log("history")).
		Info("experiment saved", logging.String("name", saved.Name), logging.Int(logging.FieldPoints, saved.Points()))
	return saved, nil
}

type analysisView struct {
	Source       string           `json:"source"`
	Result       titration.Result `json:"result"`
	Stats        report.Stats     `json:"stats"`
	ExperimentID string           `json:"experiment_id,omitempty"`
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		save       bool
		flags      saveFlags
	)

	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Find the end point of a titration data set",
		Long: "Reads volume/pH pairs (tab, comma, or space separated; header lines are skipped)\n" +
			"from a file or stdin and prints the difference table with the end point starred.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			logger := logging.WithContext(logging.WithSource(cmd.Context(), input.Source), ctx.log("analyze"))

			result, err := input.analyze()
			if err != nil {
				logger.Warn("analysis skipped", logging.Error(err))
				return err
			}
			logger.Info("analysis complete",
				logging.Int(logging.FieldPoints, result.Points()),
				logging.Float64("eq_volume", result.EqVol),
				logging.String("type", string(result.Type)),
			)

			view := analysisView{Source: input.Source, Result: result, Stats: report.Summarize(result)}
			if save {
				rec, err := saveResult(cmd, ctx, &flags, result)
				if err != nil {
					return err
				}
				view.ExperimentID = rec.ID
			}

			if jsonOutput {
				return writeJSON(cmd, view)
			}

			f, err := ctx.formatter()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := ctx.colorize(out)
			fmt.Fprintln(out, report.DifferenceTable(result, ctx.labels(), f, colorize))
			fmt.Fprint(out, report.Summary(result, f))
			if view.ExperimentID != "" {
				fmt.Fprintln(out, renderStatusLine(statusOK, "Saved experiment "+view.ExperimentID, colorize))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	cmd.Flags().BoolVar(&save, "save", false, "Save the run to the experiment history")
	flags.register(cmd)
	return cmd
}
