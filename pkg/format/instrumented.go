package format

import (
	"time"

	"github.com/jittakal/kafeventcodec/pkg/codec"
	"github.com/jittakal/kafeventcodec/pkg/errors"
	"github.com/jittakal/kafeventcodec/pkg/event"
)

// Ensure implementation satisfies interfaces at compile time.
var (
	_ codec.Codec      = (*InstrumentedCodec)(nil)
	_ codec.BatchCodec = (*InstrumentedBatchCodec)(nil)
)

// MetricsCollector receives codec measurements.
// observability.Metrics implements it.
type MetricsCollector interface {
	IncEvents(format, operation, status string, count int)
	ObserveDuration(format, operation string, seconds float64)
	ObservePayloadSize(format, operation string, size float64)
	IncErrors(format, kind string)
}

// Operation labels.
const (
	OpEncode      = "encode"
	OpDecode      = "decode"
	OpEncodeBatch = "encode_batch"
	OpDecodeBatch = "decode_batch"
)

type instrument struct {
	metrics MetricsCollector
	format  string
}

func (in instrument) record(operation string, start time.Time, events, size int, err error) {
	in.metrics.ObserveDuration(in.format, operation, time.Since(start).Seconds())
	if err != nil {
		in.metrics.IncEvents(in.format, operation, "failure", 1)
		in.metrics.IncErrors(in.format, errors.KindOf(err).String())
		return
	}
	in.metrics.IncEvents(in.format, operation, "success", events)
	in.metrics.ObservePayloadSize(in.format, operation, float64(size))
}

// InstrumentedCodec records metrics around a codec.Codec.
type InstrumentedCodec struct {
	next codec.Codec
	instrument
}

// NewInstrumentedCodec wraps next so every call is measured.
func NewInstrumentedCodec(next codec.Codec, metrics MetricsCollector) *InstrumentedCodec {
	return &InstrumentedCodec{
		next:       next,
		instrument: instrument{metrics: metrics, format: next.Format().String()},
	}
}

// Format returns the wrapped codec's format.
func (c *InstrumentedCodec) Format() codec.Format {
	return c.next.Format()
}

// Encode encodes e and records the outcome.
func (c *InstrumentedCodec) Encode(e event.Event) ([]byte, error) {
	start := time.Now()
	b, err := c.next.Encode(e)
	c.record(OpEncode, start, 1, len(b), err)
	return b, err
}

// Decode decodes b and records the outcome.
func (c *InstrumentedCodec) Decode(b []byte) (event.Event, error) {
	start := time.Now()
	e, err := c.next.Decode(b)
	c.record(OpDecode, start, 1, len(b), err)
	return e, err
}

// InstrumentedBatchCodec records metrics around a codec.BatchCodec.
type InstrumentedBatchCodec struct {
	next codec.BatchCodec
	instrument
}

// NewInstrumentedBatchCodec wraps next so every call is measured.
func NewInstrumentedBatchCodec(next codec.BatchCodec, metrics MetricsCollector) *InstrumentedBatchCodec {
	return &InstrumentedBatchCodec{
		next:       next,
		instrument: instrument{metrics: metrics, format: next.Format().String()},
	}
}

// Format returns the wrapped codec's format.
func (c *InstrumentedBatchCodec) Format() codec.Format {
	return c.next.Format()
}

// EncodeBatch encodes events and records the outcome.
func (c *InstrumentedBatchCodec) EncodeBatch(events []event.Event) ([]byte, error) {
	start := time.Now()
	b, err := c.next.EncodeBatch(events)
	c.record(OpEncodeBatch, start, len(events), len(b), err)
	return b, err
}

// DecodeBatch decodes b and records the outcome.
func (c *InstrumentedBatchCodec) DecodeBatch(b []byte) ([]event.Event, error) {
	start := time.Now()
	events, err := c.next.DecodeBatch(b)
	c.record(OpDecodeBatch, start, len(events), len(b), err)
	return events, err
}
