package config

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/termplay/playbackctl/internal/errors"
)

// Defaults
const (
	DefaultTargetFPS  = 24.0
	DefaultWindowSize = 5
	DefaultInterval   = 2
)

type Config struct {
	TargetFPS  float64 `mapstructure:"target_fps"`
	WindowSize int     `mapstructure:"window_size"`
	Interval   int     `mapstructure:"interval"`

	Monitor bool `mapstructure:"monitor"`
	Debug   bool `mapstructure:"debug"`
	Verbose bool `mapstructure:"verbose"`

	Telemetry   bool   `mapstructure:"telemetry"`
	TelemetryDB string `mapstructure:"database"`

	// Adaptation policy overrides. Zero values keep the built-in tuning.
	SevereBandEdge   float64 `mapstructure:"severe_band_edge"`
	ModerateBandEdge float64 `mapstructure:"moderate_band_edge"`
	CPUPressureHigh  float64 `mapstructure:"cpu_pressure_high"`
	MemPressureHigh  float64 `mapstructure:"mem_pressure_high"`
	CPUPressureLow   float64 `mapstructure:"cpu_pressure_low"`
	MemPressureLow   float64 `mapstructure:"mem_pressure_low"`
}

func Load() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	errFactory := errors.New()
	config := &Config{}

	// Define flags
	fs := flag.NewFlagSet("playbackctl", flag.ContinueOnError)
	targetFPS := fs.Float64("target-fps", DefaultTargetFPS, "Target playback frame rate")
	windowSize := fs.Int("window", DefaultWindowSize, "Frame timing window size")
	interval := fs.Int("interval", DefaultInterval, "Resource sampling interval in seconds")
	monitor := fs.Bool("monitor", false, "Only monitor playback performance")
	debug := fs.Bool("debug", false, "Enable debugging mode")
	verbose := fs.Bool("verbose", false, "Enable verbose logging")
	telemetry := fs.Bool("telemetry", false, "Enable telemetry recording")
	database := fs.String("database", "", "Path to the telemetry database")

	if err := fs.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetDefault("target_fps", DefaultTargetFPS)
	v.SetDefault("window_size", DefaultWindowSize)
	v.SetDefault("interval", DefaultInterval)

	// Load configuration from file
	if path := os.Getenv("PLAYBACKCTL_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("playbackctl.conf")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	// Override config file values with command line flags
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "target-fps":
			v.Set("target_fps", *targetFPS)
		case "window":
			v.Set("window_size", *windowSize)
		case "interval":
			v.Set("interval", *interval)
		case "monitor":
			v.Set("monitor", *monitor)
		case "debug":
			v.Set("debug", *debug)
		case "verbose":
			v.Set("verbose", *verbose)
		case "telemetry":
			v.Set("telemetry", *telemetry)
		case "database":
			v.Set("database", *database)
		}
	})

	// Unmarshal the configuration
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Set log level based on config
	if config.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else if config.Verbose {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	return config, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.TargetFPS <= 0 {
		return errFactory.WithData(errors.ErrInvalidTargetFPS, c.TargetFPS)
	}
	if c.WindowSize <= 0 {
		return errFactory.WithData(errors.ErrInvalidWindow, c.WindowSize)
	}
	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.SevereBandEdge < 0 || c.ModerateBandEdge < 0 ||
		(c.ModerateBandEdge > 0 && c.SevereBandEdge > c.ModerateBandEdge) {
		return errFactory.WithData(errors.ErrInvalidConfig, "band edges out of order")
	}

	return nil
}
