package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"titrate/internal/dataentry"
	"titrate/internal/logging"
	"titrate/internal/report"
	"titrate/internal/titration"
	"titrate/internal/worksheet"
)

func newSheetCommand(ctx *commandContext) *cobra.Command {
	sheetCmd := &cobra.Command{
		Use:   "sheet",
		Short: "Edit an analysis cell by cell before committing it",
		Long: "The worksheet keeps an editable copy of one analysis between commands.\n" +
			"Volume and pH edits rederive every difference; delta edits keep the\n" +
			"other differences as entered. 'sheet apply' validates the series.",
	}

	sheetCmd.AddCommand(newSheetOpenCommand(ctx))
	sheetCmd.AddCommand(newSheetShowCommand(ctx))
	sheetCmd.AddCommand(newSheetSetCommand(ctx))
	sheetCmd.AddCommand(newSheetApplyCommand(ctx))
	sheetCmd.AddCommand(newSheetCloseCommand(ctx))

	return sheetCmd
}

func (c *commandContext) worksheetPath() (string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.WorksheetPath(), nil
}

func newSheetOpenCommand(ctx *commandContext) *cobra.Command {
	var experimentRef string

	cmd := &cobra.Command{
		Use:   "open [file|-]",
		Short: "Open a worksheet from a data file, stdin, or saved experiment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := loadRun(cmd, ctx, args, experimentRef)
			if err != nil {
				return err
			}
			return openSheetFromRun(cmd, ctx, run)
		},
	}

	cmd.Flags().StringVarP(&experimentRef, "experiment", "e", "", "Open a saved experiment by ID or ID prefix")
	return cmd
}

func openSheetFromRun(cmd *cobra.Command, ctx *commandContext, run analyzedRun) error {
	path, err := ctx.worksheetPath()
	if err != nil {
		return err
	}
	source := run.Info.Source
	if source == "" && run.Info.ID != "" {
		source = "experiment " + run.Info.ID
	}
	sheet := worksheet.Open(run.Result, worksheet.Meta{
		Name:    run.Info.Name,
		Number:  run.Info.Number,
		Student: run.Info.Student,
		Source:  source,
	})
	if err := worksheet.Create(cmd.Context(), path, sheet); err != nil {
		return err
	}
	ctx.log("worksheet").Info("worksheet opened",
		logging.String(logging.FieldSource, source),
		logging.Int(logging.FieldPoints, run.Result.Points()),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Opened worksheet with %d samples from %s\n", run.Result.Points(), source)
	return printSheet(cmd, ctx, sheet)
}

func newSheetShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the worksheet with the current preview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.worksheetPath()
			if err != nil {
				return err
			}
			sheet, err := worksheet.Load(path)
			if err != nil {
				return sheetError(err)
			}
			if jsonOutput {
				return writeJSON(cmd, sheet)
			}
			return printSheet(cmd, ctx, sheet)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the worksheet as JSON")
	return cmd
}

func newSheetSetCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set FIELD ROW VALUE",
		Short: "Override one cell (volume, ph, delta_ph, delta_v)",
		Long: "ROW is the # column of the worksheet table. Difference cells start on\n" +
			"row 2, which holds the step from sample 1 to sample 2.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			field := normalizeField(args[0])
			row, err := strconv.Atoi(strings.TrimSpace(args[1]))
			if err != nil {
				return fmt.Errorf("row %q is not a number", args[1])
			}
			value, err := dataentry.ParseCell(args[2])
			if err != nil {
				return err
			}
			path, err := ctx.worksheetPath()
			if err != nil {
				return err
			}

			sheet, err := worksheet.Update(cmd.Context(), path, func(s *worksheet.Sheet) error {
				index, err := cellIndex(field, row, len(s.Volume))
				if err != nil {
					return err
				}
				return s.Set(field, index, value)
			})
			if err != nil {
				return sheetError(err)
			}
			ctx.log("worksheet").Info("cell overridden",
				logging.String("field", field),
				logging.Int("row", row),
				logging.Float64("value", value),
			)
			return printSheet(cmd, ctx, sheet)
		},
	}
	return cmd
}

func newSheetApplyCommand(ctx *commandContext) *cobra.Command {
	var (
		save       bool
		outputPath string
		flags      saveFlags
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Validate the edited series and commit it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.worksheetPath()
			if err != nil {
				return err
			}
			sheet, err := worksheet.Load(path)
			if err != nil {
				return sheetError(err)
			}
			out := cmd.OutOrStdout()
			colorize := ctx.colorize(out)

			volume, pH, result, err := sheet.Apply()
			var verr *titration.ValidationError
			if errors.As(err, &verr) {
				for _, issue := range verr.Issues {
					fmt.Fprintln(out, renderStatusLine(statusError, issue.String(), colorize))
				}
				ctx.log("worksheet").Warn("apply blocked", logging.Int("issues", len(verr.Issues)))
				return fmt.Errorf("apply blocked: %d invalid cell(s)", len(verr.Issues))
			}
			if err != nil {
				return err
			}

			samples := dataentry.FromSeries(volume, pH)
			if outputPath != "" {
				if err := os.WriteFile(outputPath, []byte(dataentry.Format(samples)), 0o644); err != nil {
					return fmt.Errorf("write applied data: %w", err)
				}
				fmt.Fprintln(out, renderStatusLine(statusOK, "Wrote "+strconv.Itoa(len(samples))+" samples to "+outputPath, colorize))
			}
			fmt.Fprintln(out, renderStatusLine(statusOK, "Worksheet values are valid", colorize))

			if save {
				if flags.name == "" {
					flags.name = sheet.Meta.Name
				}
				if flags.number == "" {
					flags.number = sheet.Meta.Number
				}
				if flags.student == "" {
					flags.student = sheet.Meta.Student
				}
				rec, err := saveResult(cmd, ctx, &flags, result)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderStatusLine(statusOK, "Saved experiment "+rec.ID, colorize))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Save the applied run to the experiment history")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the applied samples to a data file")
	flags.register(cmd)
	return cmd
}

func newSheetCloseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "close",
		Short: "Discard the worksheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.worksheetPath()
			if err != nil {
				return err
			}
			if err := worksheet.Remove(cmd.Context(), path); err != nil {
				return sheetError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Worksheet closed")
			return nil
		},
	}
}

func printSheet(cmd *cobra.Command, ctx *commandContext, sheet *worksheet.Sheet) error {
	f, err := ctx.formatter()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	colorize := ctx.colorize(out)
	fmt.Fprintln(out, report.DifferenceTable(sheet.Result, ctx.labels(), f, colorize))
	fmt.Fprint(out, report.Summary(sheet.Result, f))
	if sheet.Result.ManualDeltas {
		fmt.Fprintln(out, renderStatusLine(statusInfo, "Differences edited by hand; volume or pH edits will rederive them", colorize))
	}
	if sheet.Edits > 0 {
		fmt.Fprintf(out, "Edits: %d (run 'titrate sheet apply' to commit)\n", sheet.Edits)
	}
	return nil
}

func normalizeField(field string) string {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "v", "vol", "volume":
		return worksheet.FieldVolume
	case "ph":
		return worksheet.FieldPH
	case "dph", "delta_ph", "deltaph":
		return worksheet.FieldDeltaPH
	case "dv", "delta_v", "deltav":
		return worksheet.FieldDeltaV
	default:
		return strings.ToLower(strings.TrimSpace(field))
	}
}

// cellIndex maps a table row number to a series index. Sample cells use rows
// 1..n; difference cells use rows 2..n.
func cellIndex(field string, row, points int) (int, error) {
	switch field {
	case worksheet.FieldDeltaPH, worksheet.FieldDeltaV:
		if row < 2 || row > points {
			return 0, fmt.Errorf("row %d has no %s cell (valid rows 2-%d)", row, field, points)
		}
		return row - 2, nil
	case worksheet.FieldVolume, worksheet.FieldPH:
		if row < 1 || row > points {
			return 0, fmt.Errorf("row %d has no %s cell (valid rows 1-%d)", row, field, points)
		}
		return row - 1, nil
	default:
		return 0, fmt.Errorf("unknown field %q (want volume, ph, delta_ph, or delta_v)", field)
	}
}

func sheetError(err error) error {
	if errors.Is(err, worksheet.ErrNoWorksheet) {
		return fmt.Errorf("%w; start one with 'titrate sheet open FILE'", err)
	}
	return err
}
