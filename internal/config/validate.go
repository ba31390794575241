package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateChart(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateChart() error {
	if err := ensurePositiveMap(map[string]float64{
		"chart.x_max":     c.Chart.XMax,
		"chart.y_max_ph":  c.Chart.YMaxPH,
		"chart.y_max_dv":  c.Chart.YMaxDV,
		"chart.x_step":    c.Chart.XStep,
		"chart.y_step_ph": c.Chart.YStepPH,
		"chart.y_step_dv": c.Chart.YStepDV,
	}); err != nil {
		return err
	}
	if c.Chart.YMaxPH > 14 {
		return errors.New("chart.y_max_ph must not exceed 14")
	}
	if c.Chart.XStep > c.Chart.XMax {
		return errors.New("chart.x_step must not exceed chart.x_max")
	}
	if !hexColor.MatchString(c.Chart.LineColor) {
		return fmt.Errorf("chart.line_color %q must be a hex color like #33b8ff", c.Chart.LineColor)
	}
	if !hexColor.MatchString(c.Chart.MarkerColor) {
		return fmt.Errorf("chart.marker_color %q must be a hex color like #33b8ff", c.Chart.MarkerColor)
	}
	return nil
}

func (c *Config) validateReport() error {
	if _, err := language.Parse(c.Report.Locale); err != nil {
		return fmt.Errorf("report.locale %q: %w", c.Report.Locale, err)
	}
	if c.Report.Decimals > maxReportDecimals {
		return fmt.Errorf("report.decimals must be between 0 and %d", maxReportDecimals)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]float64) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
