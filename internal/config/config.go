// File: internal/config/config.go
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer" yaml:"analyzer"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
}

// LoggerConfig controls the zap logger setup.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"` // "console" or "json"
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"` // days
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig maps log levels to terminal colors for the console encoder.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// AnalyzerConfig tunes the charcode engine's diagnostics.
type AnalyzerConfig struct {
	// SampleSize is how many leading values the array inventory samples.
	SampleSize int `mapstructure:"sample_size" yaml:"sample_size"`
	// Trace enables the per-character verbose trace on decoded sites.
	Trace bool `mapstructure:"trace" yaml:"trace"`
	// Concurrency bounds how many input files analyze in parallel.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// DatabaseConfig configures the optional findings store.
type DatabaseConfig struct {
	URL     string `mapstructure:"url" yaml:"url"`
	Persist bool   `mapstructure:"persist" yaml:"persist"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
	Path   string `mapstructure:"path" yaml:"path"`     // "" means stdout
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "charsift")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "red")
	v.SetDefault("logger.colors.panic", "red")
	v.SetDefault("logger.colors.fatal", "red")

	v.SetDefault("analyzer.sample_size", 8)
	v.SetDefault("analyzer.trace", false)
	v.SetDefault("analyzer.concurrency", 4)

	v.SetDefault("database.url", "")
	v.SetDefault("database.persist", false)

	v.SetDefault("output.format", "text")
	v.SetDefault("output.path", "")
}

// Validate rejects configurations the run cannot honor.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("output.format must be \"text\" or \"json\", got %q", c.Output.Format)
	}
	if c.Analyzer.SampleSize <= 0 {
		return fmt.Errorf("analyzer.sample_size must be positive, got %d", c.Analyzer.SampleSize)
	}
	if c.Analyzer.Concurrency <= 0 {
		return fmt.Errorf("analyzer.concurrency must be positive, got %d", c.Analyzer.Concurrency)
	}
	if c.Database.Persist && c.Database.URL == "" {
		return fmt.Errorf("database.persist requires database.url")
	}
	return nil
}
