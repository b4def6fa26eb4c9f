//go:build !noavro

package format

import (
	"fmt"
	"math"
	"slices"

	"github.com/linkedin/goavro/v2"

	"github.com/jittakal/kafeventcodec/pkg/codec"
	"github.com/jittakal/kafeventcodec/pkg/errors"
	"github.com/jittakal/kafeventcodec/pkg/event"
)

// eventToNative converts e to the goavro native form of a CloudEvent record.
// Attribute values must already fit the attribute union.
func eventToNative(e event.Event) map[string]interface{} {
	attrs := make(map[string]interface{}, e.Len())
	for name, value := range e.All() {
		attrs[name] = attributeUnion(value)
	}

	var data interface{}
	switch d := e.Data().(type) {
	case event.Text:
		data = goavro.Union(avroString, string(d))
	case event.Binary:
		data = goavro.Union(avroBytes, []byte(d))
	}

	return map[string]interface{}{
		avroFieldAttribute: attrs,
		avroFieldData:      data,
	}
}

func attributeUnion(value any) interface{} {
	switch v := value.(type) {
	case string:
		return goavro.Union(avroString, v)
	case bool:
		return goavro.Union(avroBoolean, v)
	case int64:
		return goavro.Union(avroInt, int32(v))
	default:
		return nil
	}
}

// nativeToEvent builds an event from a decoded CloudEvent record.
// Standard attributes are applied in declared order, then extensions by name.
func nativeToEvent(native interface{}) (event.Event, error) {
	record, ok := native.(map[string]interface{})
	if !ok {
		return event.Event{}, decodeErrorf("unexpected datum %T", native)
	}
	attrs, ok := record[avroFieldAttribute].(map[string]interface{})
	if !ok {
		return event.Event{}, decodeErrorf("unexpected attribute map %T", record[avroFieldAttribute])
	}

	var opts event.Options
	for _, name := range event.StandardAttributes {
		raw, ok := attrs[name]
		if !ok {
			continue
		}
		if err := setAttribute(&opts, name, raw); err != nil {
			return event.Event{}, err
		}
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		if !event.IsStandard(name) && name != event.AttrData {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	for _, name := range names {
		if err := setAttribute(&opts, name, attrs[name]); err != nil {
			return event.Event{}, err
		}
	}

	data, err := liftData(record[avroFieldData])
	if err != nil {
		return event.Event{}, err
	}
	opts.Data = data

	return event.New(opts)
}

func setAttribute(opts *event.Options, name string, raw interface{}) error {
	branch, datum, err := unionBranch(raw)
	if err != nil {
		return err
	}
	var value any
	switch branch {
	case avroNull:
		value = nil
	case avroString, avroBoolean:
		value = datum
	case avroInt:
		n, ok := datum.(int32)
		if !ok {
			return decodeErrorf("unexpected int value %T for %s", datum, name)
		}
		value = int64(n)
	case avroBytes:
		return &errors.TypeError{Field: name, Expected: "string, boolean, int or null", Got: "bytes"}
	default:
		return decodeErrorf("unexpected branch %q for %s", branch, name)
	}
	return opts.Set(name, value)
}

// liftData converts the decoded data union to a payload. Structured branches
// become their JSON text.
func liftData(raw interface{}) (event.Payload, error) {
	branch, datum, err := unionBranch(raw)
	if err != nil {
		return nil, err
	}
	switch branch {
	case avroNull:
		return nil, nil
	case avroBytes:
		b, ok := datum.([]byte)
		if !ok {
			return nil, decodeErrorf("unexpected bytes value %T", datum)
		}
		return event.Binary(b), nil
	case avroString:
		s, ok := datum.(string)
		if !ok {
			return nil, decodeErrorf("unexpected string value %T", datum)
		}
		return event.Text(s), nil
	}

	var value any
	switch branch {
	case avroBoolean, avroDouble:
		value = datum
	case avroMap:
		m, ok := datum.(map[string]interface{})
		if !ok {
			return nil, decodeErrorf("unexpected map value %T", datum)
		}
		obj := make(map[string]any, len(m))
		for k, v := range m {
			if obj[k], err = jsonValue(v); err != nil {
				return nil, err
			}
		}
		value = obj
	case avroArray:
		if value, err = dataRecords(datum); err != nil {
			return nil, err
		}
	default:
		return nil, decodeErrorf("unexpected data branch %q", branch)
	}

	text, err := marshalJSONValue(value)
	if err != nil {
		return nil, err
	}
	return event.Text(text), nil
}

// jsonValue unwraps a union holding a JSON-like value: null, boolean, double,
// string, a CloudEventData record, or a map or array of records.
func jsonValue(raw interface{}) (any, error) {
	branch, datum, err := unionBranch(raw)
	if err != nil {
		return nil, err
	}
	switch branch {
	case avroNull:
		return nil, nil
	case avroBoolean, avroDouble, avroString:
		return datum, nil
	case avroCloudEventData:
		return dataRecord(datum)
	case avroMap:
		m, ok := datum.(map[string]interface{})
		if !ok {
			return nil, decodeErrorf("unexpected map value %T", datum)
		}
		obj := make(map[string]any, len(m))
		for k, v := range m {
			if obj[k], err = dataRecord(v); err != nil {
				return nil, err
			}
		}
		return obj, nil
	case avroArray:
		return dataRecords(datum)
	default:
		return nil, decodeErrorf("unexpected value branch %q", branch)
	}
}

// dataRecord converts a CloudEventData record to the object held in its value map.
func dataRecord(datum interface{}) (map[string]any, error) {
	record, ok := datum.(map[string]interface{})
	if !ok {
		return nil, decodeErrorf("unexpected CloudEventData %T", datum)
	}
	values, ok := record[avroFieldValue].(map[string]interface{})
	if !ok {
		return nil, decodeErrorf("unexpected CloudEventData value %T", record[avroFieldValue])
	}
	obj := make(map[string]any, len(values))
	for k, v := range values {
		var err error
		if obj[k], err = jsonValue(v); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func dataRecords(datum interface{}) ([]any, error) {
	items, ok := datum.([]interface{})
	if !ok {
		return nil, decodeErrorf("unexpected array value %T", datum)
	}
	out := make([]any, len(items))
	for i, item := range items {
		obj, err := dataRecord(item)
		if err != nil {
			return nil, err
		}
		out[i] = obj
	}
	return out, nil
}

// unionBranch splits a goavro union value into its branch name and datum.
// goavro decodes null as a bare nil.
func unionBranch(raw interface{}) (string, interface{}, error) {
	if raw == nil {
		return avroNull, nil, nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok || len(m) != 1 {
		return "", nil, decodeErrorf("unexpected union value %T", raw)
	}
	for branch, datum := range m {
		return branch, datum, nil
	}
	return "", nil, nil
}

func marshalJSONValue(value any) (string, error) {
	if f, ok := value.(float64); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return formatFloat(f), nil
	}
	b, err := jsonAPI.Marshal(value)
	if err != nil {
		return "", decodeErrorf("failed to render data as JSON: %v", err)
	}
	return string(b), nil
}

func decodeErrorf(format string, args ...any) error {
	return &errors.DecodeError{Format: codec.FormatAvro.String(), Err: fmt.Errorf(format, args...)}
}
