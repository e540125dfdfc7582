// Package config handles converter configuration loading and management.
package config

import "runtime"

// Config holds all converter settings.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConvertConfig holds mesh conversion settings.
type ConvertConfig struct {
	OutputDir  string   `yaml:"output_dir"` // Where batch output is written
	Workers    int      `yaml:"workers"`    // Concurrent conversions in batch mode
	Extensions []string `yaml:"extensions"` // Extensions picked up by batch mode
	Validate   bool     `yaml:"validate"`   // Run mesh validation after conversion
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			OutputDir:  "out",
			Workers:    runtime.NumCPU(),
			Extensions: []string{"obj"},
			Validate:   true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
