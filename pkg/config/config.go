// Package config loads process-level settings for the sampler host: call
// timeouts, default port-name hints, and log level. It never touches
// sampler device state, which lives on the device and nowhere else.
// Grounded on the teacher's gopkg.in/ini.v1 EDS-parsing idiom
// (pkg/od/parser_v1.go), repurposed from object-dictionary entries to a
// small flat settings file.
package config

import (
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

// Config holds the process settings sampler.ini may override.
type Config struct {
	DefaultTimeout time.Duration
	BulkTimeout    time.Duration
	SampleTimeout  time.Duration

	InputPortHint  string
	OutputPortHint string

	LogLevel logrus.Level
}

// Defaults returns the settings used when no sampler.ini is present.
func Defaults() Config {
	return Config{
		DefaultTimeout: 2 * time.Second,
		BulkTimeout:    60 * time.Second,
		SampleTimeout:  100 * time.Second,
		InputPortHint:  "S1000",
		OutputPortHint: "S1000",
		LogLevel:       logrus.InfoLevel,
	}
}

// Load reads path (an ini file) over the defaults; an empty path returns
// Defaults() unchanged, and a file that cannot be loaded returns an error.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	file, err := ini.Load(path)
	if err != nil {
		return cfg, err
	}
	section := file.Section("sampler")

	cfg.DefaultTimeout = section.Key("default_timeout").MustDuration(cfg.DefaultTimeout)
	cfg.BulkTimeout = section.Key("bulk_timeout").MustDuration(cfg.BulkTimeout)
	cfg.SampleTimeout = section.Key("sample_timeout").MustDuration(cfg.SampleTimeout)
	cfg.InputPortHint = section.Key("input_port_hint").MustString(cfg.InputPortHint)
	cfg.OutputPortHint = section.Key("output_port_hint").MustString(cfg.OutputPortHint)

	level, err := logrus.ParseLevel(section.Key("log_level").MustString(cfg.LogLevel.String()))
	if err == nil {
		cfg.LogLevel = level
	}
	return cfg, nil
}
