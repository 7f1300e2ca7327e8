package main

import "github.com/eonlabs/eonparse/internal/visualize"

const (
	defaultBindHost     = "127.0.0.1"
	defaultAPIPort      = 3000
	defaultResultsLimit = 0 // unlimited
	defaultLogLevel     = "info"
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	DownsampleThreshold int    `mapstructure:"downsample-threshold"`
	ResultsLimit        int    `mapstructure:"results-limit"`
	Parallel            bool   `mapstructure:"parallel"`
	APIPort             int    `mapstructure:"api-port"`
	APIAddr             string `mapstructure:"api-addr"`
	LogLevel            string `mapstructure:"log-level"`
	ConfigPath          string `mapstructure:"-"` // not from config file
}

func defaultDownsampleThreshold() int {
	return visualize.DefaultDownsampleThreshold
}
