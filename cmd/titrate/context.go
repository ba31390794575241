package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"titrate/internal/config"
	"titrate/internal/experiments"
	"titrate/internal/logging"
	"titrate/internal/report"
)

type commandContext struct {
	configFlag *string
	noColor    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, noColor *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		noColor:    noColor,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// log returns the file logger for the loaded config, tagged with component
// when one is given. Logging failures never block a command; they fall back
// to a no-op logger.
func (c *commandContext) log(component string) *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	if component == "" {
		return c.logger
	}
	return logging.NewComponentLogger(c.logger, component)
}

func (c *commandContext) withStore(fn func(*experiments.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := experiments.Open(cfg)
	if err != nil {
		return fmt.Errorf("open experiment history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func (c *commandContext) formatter() (report.Formatter, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return report.Formatter{}, err
	}
	return report.NewFormatter(cfg.Report.Locale, cfg.Report.Decimals)
}

func (c *commandContext) labels() report.Labels {
	cfg, err := c.ensureConfig()
	if err != nil {
		return report.Labels{}
	}
	return report.Labels{X: cfg.Experiment.XLabel, Y: cfg.Experiment.YLabel}
}

func (c *commandContext) colorize(w io.Writer) bool {
	if c.noColor != nil && *c.noColor {
		return false
	}
	return shouldColorize(w)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
