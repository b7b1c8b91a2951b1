// Package config loads the service configuration from an optional YAML
// file layered over built-in defaults.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/liftlab/formcheck/internal/detector"
	"github.com/liftlab/formcheck/internal/metrics"
)

// ConfigName is the base name of the configuration file, resolved as
// formcheck.yaml in the search directories.
const ConfigName = "formcheck"

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	StaticDir string `mapstructure:"static_dir"`
}

// CaptureConfig holds the video capture and sampling settings.
type CaptureConfig struct {
	Device            int     `mapstructure:"device"`
	SampleFPS         float64 `mapstructure:"sample_fps"`
	MaxFrames         int     `mapstructure:"max_frames"`
	ActivityThreshold float64 `mapstructure:"activity_threshold"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Config is the full service configuration.
type Config struct {
	DBPath     string             `mapstructure:"db_path"`
	Server     ServerConfig       `mapstructure:"server"`
	Capture    CaptureConfig      `mapstructure:"capture"`
	Log        LogConfig          `mapstructure:"log"`
	Detector   detector.Config    `mapstructure:"detector"`
	Thresholds metrics.Thresholds `mapstructure:"thresholds"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath: "formcheck.db",
		Server: ServerConfig{
			Addr: ":8080",
		},
		Capture: CaptureConfig{
			Device:            0,
			SampleFPS:         15,
			MaxFrames:         1800,
			ActivityThreshold: 0.5,
		},
		Log: LogConfig{
			Level: "info",
		},
		Detector:   detector.DefaultConfig(),
		Thresholds: metrics.DefaultThresholds(),
	}
}

// Load reads formcheck.yaml from the given directories, the first match
// winning, and unmarshals it over the defaults. A missing file is not
// an error; the defaults are returned unchanged.
func Load(dirs ...string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("error reading config file: %w", err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}
