package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExperiment()
	c.normalizeChart()
	c.normalizeReport()
	if c.History.Limit <= 0 {
		c.History.Limit = defaultHistoryLimit
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir()
	}
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExperiment() {
	c.Experiment.Name = strings.TrimSpace(c.Experiment.Name)
	if c.Experiment.Name == "" {
		c.Experiment.Name = defaultExperimentName
	}
	c.Experiment.Number = strings.TrimSpace(c.Experiment.Number)
	if c.Experiment.Number == "" {
		c.Experiment.Number = defaultExperimentNo
	}
	c.Experiment.Student = strings.TrimSpace(c.Experiment.Student)
	if c.Experiment.Student == "" {
		if value, ok := os.LookupEnv("TITRATE_STUDENT"); ok {
			c.Experiment.Student = strings.TrimSpace(value)
		}
	}
	c.Experiment.XLabel = strings.TrimSpace(c.Experiment.XLabel)
	if c.Experiment.XLabel == "" {
		c.Experiment.XLabel = defaultXLabel
	}
	c.Experiment.YLabel = strings.TrimSpace(c.Experiment.YLabel)
	if c.Experiment.YLabel == "" {
		c.Experiment.YLabel = defaultYLabel
	}
}

func (c *Config) normalizeChart() {
	c.Chart.LineColor = strings.TrimSpace(c.Chart.LineColor)
	if c.Chart.LineColor == "" {
		c.Chart.LineColor = defaultChartColor
	}
	c.Chart.MarkerColor = strings.TrimSpace(c.Chart.MarkerColor)
	if c.Chart.MarkerColor == "" {
		c.Chart.MarkerColor = c.Chart.LineColor
	}
}

func (c *Config) normalizeReport() {
	c.Report.Locale = strings.TrimSpace(c.Report.Locale)
	if c.Report.Locale == "" {
		c.Report.Locale = defaultReportLocale
	}
	if tag, err := language.Parse(c.Report.Locale); err == nil {
		c.Report.Locale = tag.String()
	}
	if c.Report.Decimals < 0 {
		c.Report.Decimals = defaultReportDecimals
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
