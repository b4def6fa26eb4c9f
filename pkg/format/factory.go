package format

import (
	"fmt"
	"strings"

	"github.com/jittakal/kafeventcodec/pkg/codec"
)

// Factory creates codecs based on format and configuration.
type Factory struct {
	format      codec.Format
	compression string
}

// NewFactory creates a new codec factory.
// An empty compression selects DefaultCompression(format).
func NewFactory(format codec.Format, compression string) *Factory {
	format = codec.Format(strings.ToLower(string(format)))
	if compression == "" {
		compression = DefaultCompression(format)
	}
	return &Factory{
		format:      format,
		compression: compression,
	}
}

// Format returns the configured format.
func (f *Factory) Format() codec.Format {
	return f.format
}

// CreateCodec creates a single-event codec for the configured format.
// Batch-only formats return an error.
func (f *Factory) CreateCodec() (codec.Codec, error) {
	switch f.format {
	case codec.FormatJSON:
		return NewJSON(), nil
	case codec.FormatAvro:
		a, err := NewAvro()
		if err != nil {
			return nil, err
		}
		return a, nil
	case codec.FormatAvroOCF, codec.FormatParquet:
		return nil, fmt.Errorf("format %s only supports batches", f.format)
	default:
		return nil, fmt.Errorf("unsupported format: %s", f.format)
	}
}

// CreateBatchCodec creates a batch codec for the configured format.
// The avro format has no container, so its batches are consecutive datums.
func (f *Factory) CreateBatchCodec() (codec.BatchCodec, error) {
	switch f.format {
	case codec.FormatJSON:
		return NewJSON(), nil
	case codec.FormatAvro:
		a, err := NewAvro()
		if err != nil {
			return nil, err
		}
		return NewAvroStream(a), nil
	case codec.FormatAvroOCF:
		o, err := NewAvroOCF(f.compression)
		if err != nil {
			return nil, err
		}
		return o, nil
	case codec.FormatParquet:
		return NewParquet(f.compression), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", f.format)
	}
}

// SupportedFormats returns a list of supported formats.
func SupportedFormats() []codec.Format {
	return []codec.Format{
		codec.FormatJSON,
		codec.FormatAvro,
		codec.FormatAvroOCF,
		codec.FormatParquet,
	}
}

// ParseFormat returns the format named s.
func ParseFormat(s string) (codec.Format, error) {
	f := codec.Format(strings.ToLower(strings.TrimSpace(s)))
	for _, supported := range SupportedFormats() {
		if f == supported {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %q", s)
}

// SupportedCompressions returns supported compression codecs for a given format.
func SupportedCompressions(format codec.Format) []string {
	switch format {
	case codec.FormatParquet:
		return []string{"uncompressed", "snappy", "gzip", "lz4", "zstd"}
	case codec.FormatAvroOCF:
		return []string{"null", "deflate", "snappy", "gzip"}
	default:
		return []string{}
	}
}

// DefaultCompression returns the default compression for a format.
func DefaultCompression(format codec.Format) string {
	switch format {
	case codec.FormatParquet:
		return "snappy"
	case codec.FormatAvroOCF:
		return "deflate"
	default:
		return "uncompressed"
	}
}

// Available reports whether codecs for format can be created in this build.
func Available(format codec.Format) bool {
	switch format {
	case codec.FormatJSON, codec.FormatParquet:
		return true
	case codec.FormatAvro, codec.FormatAvroOCF:
		return AvroAvailable()
	default:
		return false
	}
}
