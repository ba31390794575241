package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"titrate/internal/experiments"
	"titrate/internal/logging"
	"titrate/internal/report"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"experiments"},
		Short:   "Inspect and manage saved experiments",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryDeleteCommand(ctx))
	historyCmd.AddCommand(newHistoryLoadCommand(ctx))

	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		student    string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved experiments, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = cfg.History.Limit
			}

			var records []*experiments.Record
			err = ctx.withStore(func(store *experiments.Store) error {
				var listErr error
				if student != "" {
					records, listErr = store.ListForStudent(cmd.Context(), student, limit)
				} else {
					records, listErr = store.List(cmd.Context(), limit)
				}
				return listErr
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				if records == nil {
					records = []*experiments.Record{}
				}
				return writeJSON(cmd, records)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No saved experiments")
				return nil
			}
			f, err := ctx.formatter()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderHistoryTable(records, f))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", experiments.DefaultListLimit, "Maximum number of experiments to list")
	cmd.Flags().StringVar(&student, "student", "", "Only list experiments saved for this student")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func renderHistoryTable(records []*experiments.Record, f report.Formatter) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		eqVol, eqPH := "-", "-"
		if rec.HasEndPoint {
			eqVol = f.Float(rec.EqVolume)
			eqPH = f.Float(rec.EqPH)
		}
		rows = append(rows, []string{
			rec.ShortID(),
			rec.Name,
			rec.Number,
			rec.Student,
			strconv.Itoa(rec.Points()),
			eqVol,
			eqPH,
			string(rec.ExpType),
			rec.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return renderTable(
		[]string{"ID", "Name", "No.", "Student", "Points", "Eq. V", "Eq. pH", "Type", "Saved"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
	)
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one saved experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := loadSavedRun(cmd, ctx, args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, run.Record)
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

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the saved record as JSON")
	return cmd
}

func newHistoryDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a saved experiment",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var deleted *experiments.Record
			err := ctx.withStore(func(store *experiments.Store) error {
				rec, err := store.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := store.Delete(cmd.Context(), rec.ID); err != nil {
					return err
				}
				deleted = rec
				return nil
			})
			if err != nil {
				return err
			}
			logging.WithContext(logging.WithExperimentID(cmd.Context(), deleted.ID), ctx.log("history")).
				Info("experiment deleted")
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted experiment %s (%s)\n", deleted.ShortID(), deleted.Name)
			return nil
		},
	}
}

func newHistoryLoadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "load ID",
		Short: "Open a saved experiment in the worksheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := loadSavedRun(cmd, ctx, args[0])
			if err != nil {
				return err
			}
			return openSheetFromRun(cmd, ctx, run)
		},
	}
}
