// Package codec defines interfaces for encoding events to wire and file formats.
package codec

import (
	"io"

	"github.com/jittakal/kafeventcodec/pkg/event"
)

// Format names a serialization format.
type Format string

const (
	FormatJSON    Format = "json"
	FormatAvro    Format = "avro"
	FormatAvroOCF Format = "avro-ocf"
	FormatParquet Format = "parquet"
)

// String returns the format name.
func (f Format) String() string {
	return string(f)
}

// Codec encodes and decodes a single event.
type Codec interface {
	// Encode serializes e. Nothing is returned on error.
	Encode(e event.Event) ([]byte, error)

	// Decode parses exactly one event from b.
	Decode(b []byte) (event.Event, error)

	// Format returns the format this codec produces.
	Format() Format
}

// BatchCodec encodes and decodes an ordered sequence of events.
type BatchCodec interface {
	// EncodeBatch serializes events in order.
	EncodeBatch(events []event.Event) ([]byte, error)

	// DecodeBatch parses events in the order they were encoded.
	DecodeBatch(b []byte) ([]event.Event, error)

	// Format returns the format this codec produces.
	Format() Format
}

// StreamCodec writes events to and reads them from caller-supplied streams.
type StreamCodec interface {
	// EncodeTo writes one encoded event to w.
	EncodeTo(w io.Writer, e event.Event) error

	// DecodeFrom reads one event from r.
	DecodeFrom(r io.Reader) (event.Event, error)
}
