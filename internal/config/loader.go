package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jittakal/kafeventcodec/internal/config/dto"
	"github.com/jittakal/kafeventcodec/pkg/codec"
	"github.com/jittakal/kafeventcodec/pkg/format"
)

// EnvPrefix prefixes environment overrides, e.g. CECODEC_CODEC_OUTPUT_FORMAT.
const EnvPrefix = "CECODEC"

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"from":        "codec.input_format",
	"to":          "codec.output_format",
	"compression": "codec.compression",
	"input":       "io.input",
	"output":      "io.output",
	"count":       "generator.count",
	"source":      "generator.source",
	"log-level":   "observability.logging.level",
	"log-format":  "observability.logging.format",
	"metrics":     "observability.metrics.textfile_path",
}

// Loader handles configuration loading and validation
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// BindFlags binds every known flag present in fs to its configuration key.
// Flags take precedence over environment variables and the config file.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load loads configuration from file and environment variables
func (l *Loader) Load(path string) (*dto.ApplicationConfig, error) {
	// Set defaults
	l.setDefaults()

	// Load from file if provided
	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Expand environment variables in config values
	// Only expand if the value contains ${...} pattern
	for _, key := range l.v.AllKeys() {
		value := l.v.GetString(key)
		if strings.Contains(value, "${") {
			l.v.Set(key, os.ExpandEnv(value))
		}
	}

	// Unmarshal configuration
	var config dto.ApplicationConfig
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := l.Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func (l *Loader) setDefaults() {
	// Application defaults
	l.v.SetDefault("application.name", "cecodec")
	l.v.SetDefault("application.version", "1.0.0")
	l.v.SetDefault("application.environment", "development")

	// Codec defaults
	l.v.SetDefault("codec.input_format", "json")
	l.v.SetDefault("codec.output_format", "json")
	l.v.SetDefault("codec.compression", "")

	// Parquet defaults
	l.v.SetDefault("parquet.compression", format.DefaultCompression(codec.FormatParquet))

	// Avro defaults
	l.v.SetDefault("avro.codec", format.DefaultCompression(codec.FormatAvroOCF))

	// Generator defaults
	l.v.SetDefault("generator.count", 10)
	l.v.SetDefault("generator.source", "oximeter/123")
	l.v.SetDefault("generator.types", []string{"OximeterMeasured", "HeartRateMeasured"})
	l.v.SetDefault("generator.binary_ratio", 0.2)
	l.v.SetDefault("generator.extensions", 1)

	// IO defaults
	l.v.SetDefault("io.input", "-")
	l.v.SetDefault("io.output", "-")

	// Observability defaults
	l.v.SetDefault("observability.logging.level", "info")
	l.v.SetDefault("observability.logging.format", "json")
	l.v.SetDefault("observability.logging.output", "stderr")
	l.v.SetDefault("observability.metrics.enabled", true)
	l.v.SetDefault("observability.metrics.textfile_path", "")
}

// Validate validates the configuration
func (l *Loader) Validate(config *dto.ApplicationConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	// Format validation
	input, err := format.ParseFormat(config.Codec.InputFormat)
	if err != nil {
		return fmt.Errorf("codec.input_format: %w", err)
	}
	output, err := format.ParseFormat(config.Codec.OutputFormat)
	if err != nil {
		return fmt.Errorf("codec.output_format: %w", err)
	}

	// Compression validation
	for _, f := range []codec.Format{input, output} {
		if c := CompressionFor(config, f); c != "" && !validCompression(f, c) {
			return fmt.Errorf("unsupported %s compression: %s", f, c)
		}
	}
	if !validCompression(codec.FormatParquet, config.Parquet.Compression) {
		return fmt.Errorf("unsupported parquet compression: %s", config.Parquet.Compression)
	}
	if !validCompression(codec.FormatAvroOCF, config.Avro.Codec) {
		return fmt.Errorf("unsupported avro codec: %s", config.Avro.Codec)
	}

	// Logging validation
	switch strings.ToLower(config.Observability.Logging.Format) {
	case "json", "console", "text":
	default:
		return fmt.Errorf("unsupported log format: %s", config.Observability.Logging.Format)
	}

	return nil
}

// CompressionFor returns the compression to use for f: codec.compression when
// set, otherwise the format's own setting. Formats without compression get "".
func CompressionFor(config *dto.ApplicationConfig, f codec.Format) string {
	switch f {
	case codec.FormatParquet:
		if config.Codec.Compression != "" {
			return config.Codec.Compression
		}
		return config.Parquet.Compression
	case codec.FormatAvroOCF:
		if config.Codec.Compression != "" {
			return config.Codec.Compression
		}
		return config.Avro.Codec
	default:
		return ""
	}
}

func validCompression(f codec.Format, compression string) bool {
	c := strings.ToLower(compression)
	if c == "" {
		return true
	}
	if f == codec.FormatAvroOCF && (c == "none" || c == "uncompressed") {
		return true
	}
	if f == codec.FormatParquet && c == "none" {
		return true
	}
	return slices.Contains(format.SupportedCompressions(f), c)
}
