package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"titrate/internal/config"
	"titrate/internal/dataentry"
	"titrate/internal/experiments"
	"titrate/internal/report"
	"titrate/internal/titration"
)

// analyzedRun is a result plus the labels it should be presented with,
// loaded from a data file, stdin, or a saved experiment.
type analyzedRun struct {
	Info    report.Info
	Result  titration.Result
	Chart   config.Chart
	Samples []dataentry.Sample
	Record  *experiments.Record
}

// endPointDrift reports whether a saved end point no longer matches a fresh
// analysis of its series, which happens when it was saved after difference
// cells were edited by hand.
func (r analyzedRun) endPointDrift() bool {
	if r.Record == nil || !r.Record.HasEndPoint {
		return false
	}
	return r.Record.EqVolume != r.Result.EqVol || r.Record.EqPH != r.Result.EqPH
}

func loadRun(cmd *cobra.Command, ctx *commandContext, args []string, experimentRef string) (analyzedRun, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return analyzedRun{}, err
	}

	if ref := strings.TrimSpace(experimentRef); ref != "" {
		if len(args) > 0 {
			return analyzedRun{}, errors.New("pass either a data file or --experiment, not both")
		}
		return loadSavedRun(cmd, ctx, ref)
	}

	input, err := readInput(cmd, args)
	if err != nil {
		return analyzedRun{}, err
	}
	result, err := input.analyze()
	if err != nil {
		return analyzedRun{}, err
	}
	return analyzedRun{
		Info: report.Info{
			Name:    cfg.Experiment.Name,
			Number:  cfg.Experiment.Number,
			Student: cfg.Experiment.Student,
			Source:  input.Source,
		},
		Result:  result,
		Chart:   cfg.Chart,
		Samples: input.Samples,
	}, nil
}

func loadSavedRun(cmd *cobra.Command, ctx *commandContext, ref string) (analyzedRun, error) {
	var rec *experiments.Record
	err := ctx.withStore(func(store *experiments.Store) error {
		found, err := store.Resolve(cmd.Context(), ref)
		if err != nil {
			return err
		}
		rec = found
		return nil
	})
	if err != nil {
		return analyzedRun{}, err
	}
	return runFromRecord(rec)
}

func runFromRecord(rec *experiments.Record) (analyzedRun, error) {
	result, ok := rec.Analyze()
	if !ok {
		return analyzedRun{}, fmt.Errorf("experiment %s: %w", rec.ShortID(), titration.ErrInsufficientData)
	}
	return analyzedRun{
		Info: report.Info{
			ID:      rec.ID,
			Name:    rec.Name,
			Number:  rec.Number,
			Student: rec.Student,
			SavedAt: rec.CreatedAt,
		},
		Result:  result,
		Chart:   rec.Chart,
		Samples: dataentry.FromSeries(rec.Volume, rec.PH),
		Record:  rec,
	}, nil
}
