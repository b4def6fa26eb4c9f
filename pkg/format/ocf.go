//go:build !noavro

package format

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/linkedin/goavro/v2"

	"github.com/jittakal/kafeventcodec/pkg/codec"
	"github.com/jittakal/kafeventcodec/pkg/errors"
	"github.com/jittakal/kafeventcodec/pkg/event"
)

// Ensure implementation satisfies interface at compile time.
var _ codec.BatchCodec = (*AvroOCF)(nil)

// AvroOCF implements codec.BatchCodec as an Avro Object Container File.
// Block compression is "null", "deflate" or "snappy"; "gzip" writes an
// uncompressed container inside a gzip stream.
// Produces files readable by Apache Spark and other Avro readers.
type AvroOCF struct {
	avro        *Avro
	compression string
}

// NewAvroOCF creates an OCF codec with the given compression.
func NewAvroOCF(compression string) (*AvroOCF, error) {
	a, err := NewAvro()
	if err != nil {
		return nil, err
	}
	compression = strings.ToLower(compression)
	switch compression {
	case "", "none", "uncompressed":
		compression = goavro.CompressionNullLabel
	case goavro.CompressionNullLabel, goavro.CompressionDeflateLabel, goavro.CompressionSnappyLabel, "gzip":
	default:
		return nil, fmt.Errorf("unsupported avro compression: %s", compression)
	}
	return &AvroOCF{avro: a, compression: compression}, nil
}

// Format returns the file format.
func (o *AvroOCF) Format() codec.Format {
	return codec.FormatAvroOCF
}

// Compression returns the configured compression name.
func (o *AvroOCF) Compression() string {
	return o.compression
}

// EncodeBatch writes events to an Object Container File.
func (o *AvroOCF) EncodeBatch(events []event.Event) ([]byte, error) {
	if len(events) == 0 {
		return nil, errors.ErrNoEvents
	}

	// Convert all events before writing so nothing partial is returned
	natives := make([]interface{}, len(events))
	for i, e := range events {
		native, err := o.avro.toNative(e)
		if err != nil {
			return nil, fmt.Errorf("failed to convert event %d: %w", i, err)
		}
		natives[i] = native
	}

	var buf bytes.Buffer
	var writer io.Writer = &buf

	blockCompression := o.compression
	var gzipWriter *gzip.Writer
	if o.compression == "gzip" {
		gzipWriter = gzip.NewWriter(&buf)
		writer = gzipWriter
		blockCompression = goavro.CompressionNullLabel
	}

	ocfWriter, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               writer,
		Codec:           o.avro.codec,
		CompressionName: blockCompression,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create OCF writer: %w", err)
	}

	if err := ocfWriter.Append(natives); err != nil {
		return nil, fmt.Errorf("failed to write events: %w", err)
	}

	if gzipWriter != nil {
		if err := gzipWriter.Close(); err != nil {
			return nil, fmt.Errorf("failed to close gzip writer: %w", err)
		}
	}

	return buf.Bytes(), nil
}

// DecodeBatch reads every event of an Object Container File.
func (o *AvroOCF) DecodeBatch(b []byte) ([]event.Event, error) {
	var reader io.Reader = bytes.NewReader(b)
	if o.compression == "gzip" {
		gzipReader, err := gzip.NewReader(reader)
		if err != nil {
			return nil, &errors.DecodeError{Format: codec.FormatAvroOCF.String(), Err: err}
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	ocfReader, err := goavro.NewOCFReader(reader)
	if err != nil {
		return nil, &errors.DecodeError{Format: codec.FormatAvroOCF.String(), Err: err}
	}

	events := []event.Event{}
	for ocfReader.Scan() {
		native, err := ocfReader.Read()
		if err != nil {
			return nil, &errors.DecodeError{Format: codec.FormatAvroOCF.String(), Err: err}
		}
		e, err := nativeToEvent(native)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", len(events), err)
		}
		events = append(events, e)
	}
	if err := ocfReader.Err(); err != nil {
		return nil, &errors.DecodeError{Format: codec.FormatAvroOCF.String(), Err: err}
	}

	return events, nil
}

// FileExtension returns the file extension.
func (o *AvroOCF) FileExtension() string {
	if o.compression == "gzip" {
		return ".avro.gz"
	}
	return ".avro"
}
