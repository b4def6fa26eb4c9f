package dto

import (
	"fmt"
)

// ApplicationConfig is the root configuration structure
type ApplicationConfig struct {
	Application   ApplicationInfo     `mapstructure:"application"`
	Codec         CodecConfig         `mapstructure:"codec"`
	Parquet       ParquetConfig       `mapstructure:"parquet"`
	Avro          AvroConfig          `mapstructure:"avro"`
	Generator     GeneratorConfig     `mapstructure:"generator"`
	IO            IOConfig            `mapstructure:"io"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// ApplicationInfo contains application metadata
type ApplicationInfo struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// CodecConfig selects the formats events are read and written in
type CodecConfig struct {
	InputFormat  string `mapstructure:"input_format"`
	OutputFormat string `mapstructure:"output_format"`
	// Compression overrides the per-format settings below when set.
	Compression string `mapstructure:"compression"`
}

// ParquetConfig contains Parquet format settings
type ParquetConfig struct {
	Compression string `mapstructure:"compression"`
}

// AvroConfig contains Avro Object Container File settings
type AvroConfig struct {
	Codec string `mapstructure:"codec"`
}

// GeneratorConfig controls fake event generation
type GeneratorConfig struct {
	Count  int      `mapstructure:"count"`
	Source string   `mapstructure:"source"`
	Types  []string `mapstructure:"types"`
	// BinaryRatio is the share of events carrying binary data, 0.0 to 1.0.
	BinaryRatio float64 `mapstructure:"binary_ratio"`
	// Extensions is the number of extension attributes added to each event.
	Extensions int `mapstructure:"extensions"`
}

// IOConfig names the input and output files. "-" means stdin or stdout.
type IOConfig struct {
	Input  string `mapstructure:"input"`
	Output string `mapstructure:"output"`
}

// ObservabilityConfig contains observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig contains metrics settings
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// TextfilePath receives the registry in text exposition format on exit.
	TextfilePath string `mapstructure:"textfile_path"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.Application.Name == "" {
		return fmt.Errorf("application name is required")
	}
	if c.Codec.InputFormat == "" {
		return fmt.Errorf("codec input format is required")
	}
	if c.Codec.OutputFormat == "" {
		return fmt.Errorf("codec output format is required")
	}
	if err := c.Generator.Validate(); err != nil {
		return err
	}
	return c.Observability.Metrics.Validate()
}

// Validate validates generator configuration.
func (c *GeneratorConfig) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("generator count must not be negative")
	}
	if c.Source == "" {
		return fmt.Errorf("generator source is required")
	}
	if len(c.Types) == 0 {
		return fmt.Errorf("generator types are required")
	}
	if c.BinaryRatio < 0 || c.BinaryRatio > 1 {
		return fmt.Errorf("generator binary ratio must be between 0 and 1")
	}
	if c.Extensions < 0 {
		return fmt.Errorf("generator extensions must not be negative")
	}
	return nil
}

// Validate validates metrics configuration.
func (c *MetricsConfig) Validate() error {
	if c.TextfilePath != "" && !c.Enabled {
		return fmt.Errorf("metrics textfile path requires metrics to be enabled")
	}
	return nil
}
