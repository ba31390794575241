package config

const (
	defaultConfigPath      = "~/.config/titrate/config.toml"
	defaultDataDirFallback = "~/.local/share/titrate"
	defaultLogDir          = "~/.local/share/titrate/logs"
	defaultExperimentName  = "KHP-STD"
	defaultExperimentNo    = "Run 1"
	defaultXLabel          = "Volume of NaOH (mL)"
	defaultYLabel          = "pH"
	defaultChartColor      = "#33b8ff"
	defaultReportLocale    = "en-US"
	defaultReportDecimals  = 2
	defaultHistoryLimit    = 20
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	maxReportDecimals      = 6
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir(),
			LogDir:  defaultLogDir,
		},
		Experiment: Experiment{
			Name:   defaultExperimentName,
			Number: defaultExperimentNo,
			XLabel: defaultXLabel,
			YLabel: defaultYLabel,
		},
		Chart: DefaultChart(),
		Report: Report{
			Locale:   defaultReportLocale,
			Decimals: defaultReportDecimals,
		},
		History: History{
			Limit: defaultHistoryLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// DefaultChart returns the stock axis layout for a 0-10 mL, 0-14 pH run.
func DefaultChart() Chart {
	return Chart{
		XMax:        10,
		YMaxPH:      14,
		YMaxDV:      6,
		XStep:       2,
		YStepPH:     2,
		YStepDV:     1,
		LineColor:   defaultChartColor,
		MarkerColor: defaultChartColor,
	}
}
