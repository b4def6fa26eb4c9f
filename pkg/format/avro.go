//go:build !noavro

package format

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/linkedin/goavro/v2"

	"github.com/jittakal/kafeventcodec/internal/validator"
	"github.com/jittakal/kafeventcodec/pkg/codec"
	"github.com/jittakal/kafeventcodec/pkg/errors"
	"github.com/jittakal/kafeventcodec/pkg/event"
)

// Ensure implementation satisfies interfaces at compile time.
var (
	_ codec.Codec       = (*Avro)(nil)
	_ codec.StreamCodec = (*Avro)(nil)
	_ codec.BatchCodec  = (*AvroStream)(nil)
)

// compileAvro builds the schema codec on first use. Every Avro value shares it.
var compileAvro = sync.OnceValues(func() (*goavro.Codec, error) {
	c, err := goavro.NewCodec(cloudEventSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to create avro codec: %w", err)
	}
	return c, nil
})

// AvroAvailable reports whether the Avro codec can be used.
// The schema is compiled on the first call; later calls return the cached result.
func AvroAvailable() bool {
	_, err := compileAvro()
	return err == nil
}

// Avro implements the CloudEvents Avro event format: single datums encoded
// against the fixed CloudEvents schema, without a container.
// It is safe for concurrent use.
type Avro struct {
	codec     *goavro.Codec
	validator *validator.AvroAttributeValidator
}

// NewAvro creates an Avro codec. It returns an error matching
// errors.ErrUnavailable when the Avro runtime cannot be used.
func NewAvro() (*Avro, error) {
	c, err := compileAvro()
	if err != nil {
		return nil, errors.Unavailable(codec.FormatAvro.String(), err)
	}
	return &Avro{
		codec:     c,
		validator: validator.NewAvroAttributeValidator(),
	}, nil
}

// Format returns the file format.
func (a *Avro) Format() codec.Format {
	return codec.FormatAvro
}

// Encode writes e as one Avro datum.
func (a *Avro) Encode(e event.Event) ([]byte, error) {
	return a.appendEvent(nil, e)
}

// EncodeTo writes e to w as one Avro datum. Nothing is written on error.
func (a *Avro) EncodeTo(w io.Writer, e event.Event) error {
	b, err := a.Encode(e)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func (a *Avro) appendEvent(buf []byte, e event.Event) ([]byte, error) {
	native, err := a.toNative(e)
	if err != nil {
		return nil, err
	}
	out, err := a.codec.BinaryFromNative(buf, native)
	if err != nil {
		return nil, fmt.Errorf("failed to encode avro datum: %w", err)
	}
	return out, nil
}

func (a *Avro) toNative(e event.Event) (map[string]interface{}, error) {
	if err := a.validator.Validate(e); err != nil {
		return nil, err
	}
	return eventToNative(e), nil
}

// Decode parses exactly one Avro datum. Trailing bytes are an error.
func (a *Avro) Decode(b []byte) (event.Event, error) {
	native, rest, err := a.codec.NativeFromBinary(b)
	if err != nil {
		return event.Event{}, &errors.DecodeError{Format: codec.FormatAvro.String(), Err: err}
	}
	if len(rest) > 0 {
		return event.Event{}, &errors.DecodeError{
			Format: codec.FormatAvro.String(),
			Err:    fmt.Errorf("%d unexpected bytes after datum", len(rest)),
		}
	}
	return nativeToEvent(native)
}

// DecodeFrom reads all of r and parses it as exactly one Avro datum.
// It does not return before r reports io.EOF. Callers reading several datums
// or an unbounded stream should use NewDecoder.
func (a *Avro) DecodeFrom(r io.Reader) (event.Event, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return event.Event{}, fmt.Errorf("failed to read input: %w", err)
	}
	return a.Decode(b)
}

// AvroEncoder writes consecutive Avro datums to a stream.
type AvroEncoder struct {
	avro *Avro
	w    io.Writer
	buf  []byte
}

// NewEncoder returns an encoder writing datums to w.
func (a *Avro) NewEncoder(w io.Writer) *AvroEncoder {
	return &AvroEncoder{avro: a, w: w}
}

// Encode writes e as the next datum. Nothing is written on error.
func (enc *AvroEncoder) Encode(e event.Event) error {
	out, err := enc.avro.appendEvent(enc.buf[:0], e)
	if err != nil {
		return err
	}
	enc.buf = out
	_, err = enc.w.Write(out)
	return err
}

// AvroDecoder reads consecutive Avro datums from a stream.
type AvroDecoder struct {
	avro *Avro
	r    io.Reader
	buf  []byte
	eof  bool
}

// avroReadChunk is the smallest read a decoder issues.
const avroReadChunk = 4096

// NewDecoder returns a decoder reading datums from r.
// Input is read only until the next datum is complete.
func (a *Avro) NewDecoder(r io.Reader) *AvroDecoder {
	return &AvroDecoder{avro: a, r: r}
}

// Decode returns the next event, or io.EOF when the input is exhausted.
// Input that does not form a datum is reported once r reaches io.EOF.
func (dec *AvroDecoder) Decode() (event.Event, error) {
	for {
		if len(dec.buf) > 0 {
			native, rest, err := dec.avro.codec.NativeFromBinary(dec.buf)
			if err == nil {
				dec.buf = rest
				return nativeToEvent(native)
			}
			if dec.eof {
				dec.buf = nil
				return event.Event{}, &errors.DecodeError{Format: codec.FormatAvro.String(), Err: err}
			}
		} else if dec.eof {
			return event.Event{}, io.EOF
		}

		if err := dec.fill(); err != nil {
			return event.Event{}, err
		}
	}
}

// fill appends the next read from r to buf, growing reads with the buffer.
func (dec *AvroDecoder) fill() error {
	chunk := make([]byte, max(avroReadChunk, len(dec.buf)))
	n, err := dec.r.Read(chunk)
	dec.buf = append(dec.buf, chunk[:n]...)
	switch {
	case err == io.EOF:
		dec.eof = true
	case err != nil:
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// AvroStream implements codec.BatchCodec as consecutive Avro datums with no
// container or framing. An empty batch encodes to no bytes.
type AvroStream struct {
	avro *Avro
}

// NewAvroStream returns a batch codec that writes events as back-to-back datums.
func NewAvroStream(a *Avro) *AvroStream {
	return &AvroStream{avro: a}
}

// Format returns the file format.
func (s *AvroStream) Format() codec.Format {
	return codec.FormatAvro
}

// EncodeBatch appends one datum per event.
func (s *AvroStream) EncodeBatch(events []event.Event) ([]byte, error) {
	out := []byte{}
	for i, e := range events {
		var err error
		if out, err = s.avro.appendEvent(out, e); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
	}
	return out, nil
}

// DecodeBatch reads datums until the input is exhausted.
func (s *AvroStream) DecodeBatch(b []byte) ([]event.Event, error) {
	dec := s.avro.NewDecoder(bytes.NewReader(b))
	events := []event.Event{}
	for {
		e, err := dec.Decode()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", len(events), err)
		}
		events = append(events, e)
	}
}
