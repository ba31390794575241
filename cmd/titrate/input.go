package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"titrate/internal/dataentry"
	"titrate/internal/titration"
)

const stdinSource = "-"

type dataInput struct {
	Source  string
	Samples []dataentry.Sample
}

// readInput reads samples from the file named by args[0], or from stdin when
// no argument or "-" is given.
func readInput(cmd *cobra.Command, args []string) (dataInput, error) {
	source := stdinSource
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		source = strings.TrimSpace(args[0])
	}

	var (
		samples []dataentry.Sample
		err     error
	)
	if source == stdinSource {
		samples, err = dataentry.Read(cmd.InOrStdin())
		source = "stdin"
	} else {
		samples, err = dataentry.ReadFile(source)
	}
	if err != nil {
		return dataInput{}, err
	}
	return dataInput{Source: source, Samples: samples}, nil
}

// analyze runs the analyzer on the input, turning the insufficient-data
// outcome into an error that names the source.
func (in dataInput) analyze() (titration.Result, error) {
	volume, pH := dataentry.Series(in.Samples)
	result, ok := titration.Calculate(volume, pH)
	if !ok {
		return titration.Result{}, fmt.Errorf("%s: %w (found %d usable rows)", in.Source, titration.ErrInsufficientData, len(in.Samples))
	}
	return result, nil
}
