//go:build noavro

package format

import (
	stderrors "errors"
	"io"

	"github.com/jittakal/kafeventcodec/pkg/codec"
	"github.com/jittakal/kafeventcodec/pkg/errors"
	"github.com/jittakal/kafeventcodec/pkg/event"
)

// errAvroNotBuilt is the cause reported when the binary was built with the noavro tag.
var errAvroNotBuilt = stderrors.New("built with the noavro tag")

func avroUnavailable(format codec.Format) error {
	return errors.Unavailable(format.String(), errAvroNotBuilt)
}

// AvroAvailable reports whether the Avro codec can be used. It is always false
// in builds with the noavro tag.
func AvroAvailable() bool {
	return false
}

// Avro is the Avro codec. In builds with the noavro tag it cannot be constructed.
type Avro struct{}

// NewAvro returns an error matching errors.ErrUnavailable.
func NewAvro() (*Avro, error) {
	return nil, avroUnavailable(codec.FormatAvro)
}

// Format returns the file format.
func (a *Avro) Format() codec.Format { return codec.FormatAvro }

// Encode returns an error matching errors.ErrUnavailable.
func (a *Avro) Encode(event.Event) ([]byte, error) {
	return nil, avroUnavailable(codec.FormatAvro)
}

// EncodeTo returns an error matching errors.ErrUnavailable.
func (a *Avro) EncodeTo(io.Writer, event.Event) error {
	return avroUnavailable(codec.FormatAvro)
}

// Decode returns an error matching errors.ErrUnavailable.
func (a *Avro) Decode([]byte) (event.Event, error) {
	return event.Event{}, avroUnavailable(codec.FormatAvro)
}

// DecodeFrom returns an error matching errors.ErrUnavailable.
func (a *Avro) DecodeFrom(io.Reader) (event.Event, error) {
	return event.Event{}, avroUnavailable(codec.FormatAvro)
}

// AvroEncoder writes consecutive Avro datums to a stream.
type AvroEncoder struct{}

// NewEncoder returns an encoder whose writes fail with errors.ErrUnavailable.
func (a *Avro) NewEncoder(io.Writer) *AvroEncoder { return &AvroEncoder{} }

// Encode returns an error matching errors.ErrUnavailable.
func (enc *AvroEncoder) Encode(event.Event) error {
	return avroUnavailable(codec.FormatAvro)
}

// AvroDecoder reads consecutive Avro datums from a stream.
type AvroDecoder struct{}

// NewDecoder returns a decoder whose reads fail with errors.ErrUnavailable.
func (a *Avro) NewDecoder(io.Reader) *AvroDecoder { return &AvroDecoder{} }

// Decode returns an error matching errors.ErrUnavailable.
func (dec *AvroDecoder) Decode() (event.Event, error) {
	return event.Event{}, avroUnavailable(codec.FormatAvro)
}

// AvroStream is the Avro datum stream batch codec.
type AvroStream struct{}

// NewAvroStream returns a batch codec whose calls fail with errors.ErrUnavailable.
func NewAvroStream(*Avro) *AvroStream { return &AvroStream{} }

// Format returns the file format.
func (s *AvroStream) Format() codec.Format { return codec.FormatAvro }

// EncodeBatch returns an error matching errors.ErrUnavailable.
func (s *AvroStream) EncodeBatch([]event.Event) ([]byte, error) {
	return nil, avroUnavailable(codec.FormatAvro)
}

// DecodeBatch returns an error matching errors.ErrUnavailable.
func (s *AvroStream) DecodeBatch([]byte) ([]event.Event, error) {
	return nil, avroUnavailable(codec.FormatAvro)
}

// AvroOCF is the Avro Object Container File codec. In builds with the noavro
// tag it cannot be constructed.
type AvroOCF struct{}

// NewAvroOCF returns an error matching errors.ErrUnavailable.
func NewAvroOCF(string) (*AvroOCF, error) {
	return nil, avroUnavailable(codec.FormatAvroOCF)
}

// Format returns the file format.
func (o *AvroOCF) Format() codec.Format { return codec.FormatAvroOCF }

// Compression returns "".
func (o *AvroOCF) Compression() string { return "" }

// EncodeBatch returns an error matching errors.ErrUnavailable.
func (o *AvroOCF) EncodeBatch([]event.Event) ([]byte, error) {
	return nil, avroUnavailable(codec.FormatAvroOCF)
}

// DecodeBatch returns an error matching errors.ErrUnavailable.
func (o *AvroOCF) DecodeBatch([]byte) ([]event.Event, error) {
	return nil, avroUnavailable(codec.FormatAvroOCF)
}

// FileExtension returns the file extension.
func (o *AvroOCF) FileExtension() string { return ".avro" }
