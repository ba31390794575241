package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"titrate/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var experimentRef string

	cmd := &cobra.Command{
		Use:   "report [file|-]",
		Short: "Print a full titration report",
		Long:  "Prints experiment details, the end point, summary statistics, and the\ndifference table for a data file, stdin, or a saved experiment.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := loadRun(cmd, ctx, args, experimentRef)
			if err != nil {
				return err
			}
			f, err := ctx.formatter()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := ctx.colorize(out)
			doc := report.Document{Info: run.Info, Result: run.Result, Labels: ctx.labels()}
			if err := report.Write(out, doc, f, colorize); err != nil {
				return err
			}
			if run.endPointDrift() {
				msg := fmt.Sprintf("Saved end point was %s mL at pH %s (differences were edited before saving)",
					f.Float(run.Record.EqVolume), f.Float(run.Record.EqPH))
				fmt.Fprintln(out, renderStatusLine(statusWarn, msg, colorize))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&experimentRef, "experiment", "e", "", "Report a saved experiment by ID or ID prefix")
	return cmd
}
