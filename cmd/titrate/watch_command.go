package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"titrate/internal/report"
	"titrate/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-analyze a data file every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ctx.formatter()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := ctx.colorize(out)
			labels := ctx.labels()

			fmt.Fprintf(out, "Watching %s (Ctrl-C to stop)\n", args[0])
			opts := watch.Options{Debounce: debounce, Logger: ctx.log("")}
			return watch.Watch(cmd.Context(), args[0], opts, func(u watch.Update) {
				stamp := u.At.Format("15:04:05")
				if u.Err != nil {
					fmt.Fprintln(out, renderStatusLine(statusWarn, stamp+" "+u.Err.Error(), colorize))
					return
				}
				fmt.Fprintln(out, renderStatusLine(statusInfo, fmt.Sprintf("%s %d samples", stamp, u.Samples), colorize))
				fmt.Fprintln(out, report.DifferenceTable(u.Result, labels, f, colorize))
				fmt.Fprint(out, report.Summary(u.Result, f))
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before re-analyzing after a change")
	return cmd
}
