package format

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/jittakal/kafeventcodec/pkg/codec"
	"github.com/jittakal/kafeventcodec/pkg/errors"
	"github.com/jittakal/kafeventcodec/pkg/event"
)

// Ensure implementation satisfies interfaces at compile time.
var (
	_ codec.Codec       = (*JSON)(nil)
	_ codec.BatchCodec  = (*JSON)(nil)
	_ codec.StreamCodec = (*JSON)(nil)
)

// AttrDataBase64 carries a binary payload in the JSON format.
const AttrDataBase64 = "data_base64"

// attrDataB64 is an older spelling of AttrDataBase64, accepted on decode only.
const attrDataB64 = "data_b64"

// jsonOrder is the order standard attributes are written in.
var jsonOrder = []string{
	event.AttrType,
	event.AttrSource,
	event.AttrID,
	event.AttrSpecVersion,
	event.AttrDataContentType,
	event.AttrSubject,
	event.AttrDataSchema,
	event.AttrTime,
}

// jsonAPI writes strings without HTML escaping so payloads stay byte-for-byte readable.
// Map keys are sorted so structured payloads render the same way every time.
var jsonAPI = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// JSON implements the CloudEvents JSON event format for single events and batches.
// The zero value is ready to use and safe for concurrent use.
//
// Extension values may be floats in JSON; the Avro format cannot carry them.
type JSON struct{}

// NewJSON creates a JSON codec.
func NewJSON() *JSON {
	return &JSON{}
}

// Format returns the file format.
func (j *JSON) Format() codec.Format {
	return codec.FormatJSON
}

// Encode writes e as a JSON object.
// Extensions named data_base64 or data_b64 would read back as the payload and
// fail with a *errors.TypeError.
func (j *JSON) Encode(e event.Event) ([]byte, error) {
	stream := jsonAPI.BorrowStream(nil)
	defer jsonAPI.ReturnStream(stream)

	if err := writeEvent(stream, e); err != nil {
		return nil, err
	}
	if stream.Error != nil {
		return nil, fmt.Errorf("failed to encode event: %w", stream.Error)
	}
	return bytes.Clone(stream.Buffer()), nil
}

// EncodeBatch writes events as a JSON array. An empty batch encodes to [].
func (j *JSON) EncodeBatch(events []event.Event) ([]byte, error) {
	stream := jsonAPI.BorrowStream(nil)
	defer jsonAPI.ReturnStream(stream)

	stream.WriteArrayStart()
	for i, e := range events {
		if i > 0 {
			stream.WriteMore()
		}
		if err := writeEvent(stream, e); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
	}
	stream.WriteArrayEnd()

	if stream.Error != nil {
		return nil, fmt.Errorf("failed to encode batch: %w", stream.Error)
	}
	return bytes.Clone(stream.Buffer()), nil
}

// EncodeTo writes e to w as a JSON object. Nothing is written on error.
func (j *JSON) EncodeTo(w io.Writer, e event.Event) error {
	b, err := j.Encode(e)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Decode parses one JSON object. Arrays are rejected; use DecodeBatch or DecodeAny.
func (j *JSON) Decode(b []byte) (event.Event, error) {
	events, batch, err := j.DecodeAny(b)
	if err != nil {
		return event.Event{}, err
	}
	if batch {
		return event.Event{}, &errors.TypeError{Field: "document", Expected: "object", Got: "array"}
	}
	return events[0], nil
}

// DecodeFrom reads all of r and parses it as one JSON object.
func (j *JSON) DecodeFrom(r io.Reader) (event.Event, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return event.Event{}, fmt.Errorf("failed to read input: %w", err)
	}
	return j.Decode(b)
}

// DecodeBatch parses a JSON array of objects. Objects are rejected.
func (j *JSON) DecodeBatch(b []byte) ([]event.Event, error) {
	events, batch, err := j.DecodeAny(b)
	if err != nil {
		return nil, err
	}
	if !batch {
		return nil, &errors.TypeError{Field: "document", Expected: "array", Got: "object"}
	}
	return events, nil
}

// DecodeAny parses either a JSON object or a JSON array of objects.
// batch reports which one b held. An empty array yields an empty, non-nil slice.
func (j *JSON) DecodeAny(b []byte) (events []event.Event, batch bool, err error) {
	iter := jsoniter.ParseBytes(jsonAPI, b)

	switch next := iter.WhatIsNext(); next {
	case jsoniter.ObjectValue:
		e, err := readEvent(iter)
		if err != nil {
			return nil, false, err
		}
		if err := expectEnd(iter); err != nil {
			return nil, false, err
		}
		return []event.Event{e}, false, nil

	case jsoniter.ArrayValue:
		events = []event.Event{}
		var elemErr error
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			if kind := it.WhatIsNext(); kind != jsoniter.ObjectValue {
				elemErr = &errors.TypeError{
					Field:    fmt.Sprintf("element %d", len(events)),
					Expected: "object",
					Got:      valueTypeName(kind),
				}
				return false
			}
			e, err := readEvent(it)
			if err != nil {
				elemErr = fmt.Errorf("element %d: %w", len(events), err)
				return false
			}
			events = append(events, e)
			return true
		})
		if elemErr != nil {
			return nil, true, elemErr
		}
		if err := expectEnd(iter); err != nil {
			return nil, true, err
		}
		return events, true, nil

	case jsoniter.InvalidValue:
		cause := iter.Error
		if cause == nil || cause == io.EOF {
			cause = fmt.Errorf("no JSON value")
		}
		return nil, false, &errors.DecodeError{Format: codec.FormatJSON.String(), Err: cause}

	default:
		iter.Skip()
		if err := expectEnd(iter); err != nil {
			return nil, false, err
		}
		return nil, false, &errors.TypeError{Field: "document", Expected: "object or array", Got: valueTypeName(next)}
	}
}

// expectEnd checks that iter consumed the whole input without error.
func expectEnd(iter *jsoniter.Iterator) error {
	if iter.Error != nil && iter.Error != io.EOF {
		return &errors.DecodeError{Format: codec.FormatJSON.String(), Err: iter.Error}
	}
	if iter.Error == nil {
		if iter.WhatIsNext() != jsoniter.InvalidValue || iter.Error != io.EOF {
			return &errors.DecodeError{Format: codec.FormatJSON.String(), Err: fmt.Errorf("unexpected data after top-level value")}
		}
	}
	return nil
}

func writeEvent(stream *jsoniter.Stream, e event.Event) error {
	stream.WriteObjectStart()
	first := true
	field := func(name string) {
		if !first {
			stream.WriteMore()
		}
		first = false
		stream.WriteObjectField(name)
	}

	for _, name := range jsonOrder {
		value, ok := e.Attribute(name)
		if !ok {
			continue
		}
		field(name)
		stream.WriteString(value.(string))
	}

	switch data := e.Data().(type) {
	case event.Text:
		field(event.AttrData)
		stream.WriteString(string(data))
	case event.Binary:
		field(AttrDataBase64)
		stream.WriteString(base64.StdEncoding.EncodeToString(data))
	}

	for name, value := range e.Extensions() {
		if name == AttrDataBase64 || name == attrDataB64 {
			return &errors.TypeError{Field: name, Expected: "extension name other than the JSON payload members", Got: name}
		}
		field(name)
		if err := writeScalar(stream, name, value); err != nil {
			return err
		}
	}

	stream.WriteObjectEnd()
	return nil
}

func writeScalar(stream *jsoniter.Stream, name string, value any) error {
	switch v := value.(type) {
	case nil:
		stream.WriteNil()
	case string:
		stream.WriteString(v)
	case bool:
		stream.WriteBool(v)
	case int64:
		stream.WriteInt64(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &errors.TypeError{Field: name, Expected: "finite number", Got: strconv.FormatFloat(v, 'g', -1, 64)}
		}
		stream.WriteRaw(formatFloat(v))
	default:
		return errors.NewTypeError(name, "string, boolean, number or null", value)
	}
	return nil
}

// encodeExtensions renders the extensions of e as a JSON object, or nil when there are none.
func encodeExtensions(e event.Event) (*string, error) {
	stream := jsonAPI.BorrowStream(nil)
	defer jsonAPI.ReturnStream(stream)

	n := 0
	stream.WriteObjectStart()
	for name, value := range e.Extensions() {
		if n > 0 {
			stream.WriteMore()
		}
		n++
		stream.WriteObjectField(name)
		if err := writeScalar(stream, name, value); err != nil {
			return nil, err
		}
	}
	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, fmt.Errorf("failed to encode extensions: %w", stream.Error)
	}
	if n == 0 {
		return nil, nil
	}
	s := string(stream.Buffer())
	return &s, nil
}

// decodeExtensions applies the members of a JSON object written by encodeExtensions to opts.
func decodeExtensions(text string, opts *event.Options) error {
	iter := jsoniter.ParseString(jsonAPI, text)
	if kind := iter.WhatIsNext(); kind != jsoniter.ObjectValue {
		return &errors.TypeError{Field: "extensions", Expected: "object", Got: valueTypeName(kind)}
	}

	var err error
	iter.ReadMapCB(func(it *jsoniter.Iterator, name string) bool {
		var value any
		if value, err = readScalar(it, name); err != nil {
			return false
		}
		err = opts.Set(name, value)
		return err == nil && it.Error == nil
	})
	if err != nil {
		return err
	}
	return expectEnd(iter)
}

// formatFloat keeps a decimal point or exponent so the value reads back as a float.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func readEvent(iter *jsoniter.Iterator) (event.Event, error) {
	var (
		opts    event.Options
		encoded *string
		err     error
	)

	iter.ReadMapCB(func(it *jsoniter.Iterator, name string) bool {
		switch name {
		case AttrDataBase64, attrDataB64:
			if it.WhatIsNext() != jsoniter.StringValue {
				err = &errors.TypeError{Field: name, Expected: "string", Got: valueTypeName(it.WhatIsNext())}
				return false
			}
			s := it.ReadString()
			encoded = &s
		case event.AttrData:
			switch it.WhatIsNext() {
			case jsoniter.StringValue:
				opts.Data = event.Text(it.ReadString())
			case jsoniter.NilValue:
				it.ReadNil()
				opts.Data = nil
			default:
				opts.Data = event.Text(it.SkipAndReturnBytes())
			}
		default:
			var value any
			value, err = readScalar(it, name)
			if err != nil {
				return false
			}
			err = opts.Set(name, value)
		}
		return err == nil && it.Error == nil
	})

	if err != nil {
		return event.Event{}, err
	}
	if iter.Error != nil {
		return event.Event{}, &errors.DecodeError{Format: codec.FormatJSON.String(), Err: iter.Error}
	}

	if encoded != nil {
		raw, decErr := base64.StdEncoding.DecodeString(*encoded)
		if decErr != nil {
			return event.Event{}, &errors.DecodeError{
				Format: codec.FormatJSON.String(),
				Err:    fmt.Errorf("invalid %s: %w", AttrDataBase64, decErr),
			}
		}
		opts.Data = event.Binary(raw)
	}

	return event.New(opts)
}

func readScalar(iter *jsoniter.Iterator, name string) (any, error) {
	switch kind := iter.WhatIsNext(); kind {
	case jsoniter.StringValue:
		return iter.ReadString(), nil
	case jsoniter.NumberValue:
		return parseNumber(name, string(iter.ReadNumber()))
	case jsoniter.BoolValue:
		return iter.ReadBool(), nil
	case jsoniter.NilValue:
		iter.ReadNil()
		return nil, nil
	case jsoniter.ObjectValue, jsoniter.ArrayValue:
		return nil, &errors.TypeError{Field: name, Expected: "string, boolean, number or null", Got: valueTypeName(kind)}
	default:
		iter.Skip()
		if iter.Error != nil {
			return nil, &errors.DecodeError{Format: codec.FormatJSON.String(), Err: iter.Error}
		}
		return nil, &errors.DecodeError{Format: codec.FormatJSON.String(), Err: fmt.Errorf("invalid value for %s", name)}
	}
}

// parseNumber returns int64 for integral literals and float64 otherwise.
func parseNumber(name, literal string) (any, error) {
	if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return nil, &errors.DecodeError{
			Format: codec.FormatJSON.String(),
			Err:    fmt.Errorf("invalid number for %s: %w", name, err),
		}
	}
	return f, nil
}

func valueTypeName(kind jsoniter.ValueType) string {
	switch kind {
	case jsoniter.StringValue:
		return "string"
	case jsoniter.NumberValue:
		return "number"
	case jsoniter.NilValue:
		return "null"
	case jsoniter.BoolValue:
		return "boolean"
	case jsoniter.ArrayValue:
		return "array"
	case jsoniter.ObjectValue:
		return "object"
	default:
		return "invalid"
	}
}
