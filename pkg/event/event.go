// Package event defines the CloudEvents 1.0 event model.
package event

import (
	"bytes"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/jittakal/kafeventcodec/pkg/errors"
)

// DefaultSpecVersion is used when Options.SpecVersion is empty.
const DefaultSpecVersion = "1.0"

// Standard attribute names.
const (
	AttrType            = "type"
	AttrSource          = "source"
	AttrID              = "id"
	AttrSpecVersion     = "specversion"
	AttrSubject         = "subject"
	AttrDataContentType = "datacontenttype"
	AttrDataSchema      = "dataschema"
	AttrTime            = "time"

	// AttrData names the payload. It is not part of the attribute set.
	AttrData = "data"
)

// StandardAttributes lists the standard attribute names in storage order.
var StandardAttributes = []string{
	AttrType,
	AttrSource,
	AttrID,
	AttrSpecVersion,
	AttrSubject,
	AttrDataContentType,
	AttrDataSchema,
	AttrTime,
}

// IsStandard reports whether name is a standard attribute.
func IsStandard(name string) bool {
	return slices.Contains(StandardAttributes, name)
}

func isReserved(name string) bool {
	return name == AttrData || IsStandard(name)
}

// Payload is event data: Text or Binary.
type Payload interface {
	// Bytes returns a copy of the payload bytes.
	Bytes() []byte
	isPayload()
}

// Text is a textual payload.
type Text string

// Bytes returns the UTF-8 bytes of the text.
func (t Text) Bytes() []byte { return []byte(t) }
func (Text) isPayload()      {}

// Binary is a raw byte payload.
type Binary []byte

// Bytes returns a copy of the payload.
func (b Binary) Bytes() []byte { return bytes.Clone(b) }
func (Binary) isPayload()      {}

// Event is an immutable CloudEvent.
// See https://github.com/cloudevents/spec/blob/v1.0/spec.md
//
// Standard attributes are stored in StandardAttributes order followed by
// extensions in insertion order. Empty optional attributes are not stored.
type Event struct {
	attrs *orderedmap.OrderedMap[string, any]
	data  Payload
}

// New builds an Event from opts.
//
// It returns a *errors.ValidationError when type, source or id is empty and a
// *errors.TypeError when an extension overriding a standard attribute has the
// wrong shape.
func New(opts Options) (Event, error) {
	o := opts
	o.Extensions = nil

	exts := orderedmap.NewOrderedMap[string, any]()
	for name, value := range opts.Extensions.All() {
		if isReserved(name) {
			if err := o.Set(name, value); err != nil {
				return Event{}, err
			}
			continue
		}
		exts.Set(name, value)
	}

	if o.SpecVersion == "" {
		o.SpecVersion = DefaultSpecVersion
	}

	required := []struct {
		name  string
		value string
	}{
		{AttrType, o.Type},
		{AttrSource, o.Source},
		{AttrID, o.ID},
	}
	for _, r := range required {
		if r.value == "" {
			return Event{}, &errors.ValidationError{
				EventID: o.ID,
				Field:   r.name,
				Reason:  "required attribute is missing",
			}
		}
	}

	attrs := orderedmap.NewOrderedMapWithCapacity[string, any](len(StandardAttributes) + exts.Len())
	attrs.Set(AttrType, o.Type)
	attrs.Set(AttrSource, o.Source)
	attrs.Set(AttrID, o.ID)
	attrs.Set(AttrSpecVersion, o.SpecVersion)

	optional := []struct {
		name  string
		value string
	}{
		{AttrSubject, o.Subject},
		{AttrDataContentType, o.DataContentType},
		{AttrDataSchema, o.DataSchema},
		{AttrTime, renderTime(o.Time)},
	}
	for _, opt := range optional {
		if opt.value != "" {
			attrs.Set(opt.name, opt.value)
		}
	}

	for el := exts.Front(); el != nil; el = el.Next() {
		attrs.Set(el.Key, el.Value)
	}

	return Event{attrs: attrs, data: normalizePayload(o.Data)}, nil
}

func normalizePayload(p Payload) Payload {
	switch v := p.(type) {
	case Text:
		if v == "" {
			return nil
		}
		return v
	case Binary:
		if len(v) == 0 {
			return nil
		}
		return Binary(bytes.Clone(v))
	default:
		return nil
	}
}

func (e Event) str(name string) string {
	if e.attrs == nil {
		return ""
	}
	v, _ := e.attrs.Get(name)
	s, _ := v.(string)
	return s
}

// Type returns the type attribute.
func (e Event) Type() string { return e.str(AttrType) }

// Source returns the source attribute.
func (e Event) Source() string { return e.str(AttrSource) }

// ID returns the id attribute.
func (e Event) ID() string { return e.str(AttrID) }

// SpecVersion returns the specversion attribute.
func (e Event) SpecVersion() string { return e.str(AttrSpecVersion) }

// Subject returns the subject attribute or "".
func (e Event) Subject() string { return e.str(AttrSubject) }

// DataContentType returns the datacontenttype attribute or "".
func (e Event) DataContentType() string { return e.str(AttrDataContentType) }

// DataSchema returns the dataschema attribute or "".
func (e Event) DataSchema() string { return e.str(AttrDataSchema) }

// Time returns the time attribute as RFC3339 text or "".
func (e Event) Time() string { return e.str(AttrTime) }

// Data returns the payload or nil. Binary payloads are copied.
func (e Event) Data() Payload {
	if b, ok := e.data.(Binary); ok {
		return Binary(bytes.Clone(b))
	}
	return e.data
}

// HasData reports whether the event carries a payload.
func (e Event) HasData() bool {
	return e.data != nil
}

// HasBinaryData reports whether the payload was supplied as raw bytes.
func (e Event) HasBinaryData() bool {
	_, ok := e.data.(Binary)
	return ok
}

// Attribute returns the attribute called name. "data" returns the payload.
// Unknown names return nil, false.
func (e Event) Attribute(name string) (any, bool) {
	if name == AttrData {
		if e.data == nil {
			return nil, false
		}
		return e.Data(), true
	}
	if e.attrs == nil {
		return nil, false
	}
	return e.attrs.Get(name)
}

// Len returns the number of stored attributes, payload excluded.
func (e Event) Len() int {
	if e.attrs == nil {
		return 0
	}
	return e.attrs.Len()
}

// Names returns the stored attribute names in order.
func (e Event) Names() []string {
	if e.attrs == nil {
		return nil
	}
	return e.attrs.Keys()
}

// All iterates the stored attributes in order, payload excluded.
func (e Event) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if e.attrs == nil {
			return
		}
		for el := e.attrs.Front(); el != nil; el = el.Next() {
			if !yield(el.Key, el.Value) {
				return
			}
		}
	}
}

// Extensions iterates the extension attributes in insertion order.
func (e Event) Extensions() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for name, value := range e.All() {
			if IsStandard(name) {
				continue
			}
			if !yield(name, value) {
				return
			}
		}
	}
}

// Options returns options that build an equal event.
func (e Event) Options() Options {
	opts := Options{
		Type:            e.Type(),
		Source:          e.Source(),
		ID:              e.ID(),
		SpecVersion:     e.SpecVersion(),
		Subject:         e.Subject(),
		DataContentType: e.DataContentType(),
		DataSchema:      e.DataSchema(),
		Data:            e.Data(),
	}
	if t := e.Time(); t != "" {
		opts.Time = TextTime(t)
	}
	for name, value := range e.Extensions() {
		if opts.Extensions == nil {
			opts.Extensions = NewExtensions()
		}
		// values were normalized when e was built
		_ = opts.Extensions.Set(name, value)
	}
	return opts
}

// String renders the attributes in order, for logs and debugging.
func (e Event) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for name, value := range e.All() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "%s: %v", name, value)
	}
	switch d := e.data.(type) {
	case Text:
		fmt.Fprintf(&sb, ", data: %q", string(d))
	case Binary:
		fmt.Fprintf(&sb, ", data: <%d bytes>", len(d))
	}
	sb.WriteByte('}')
	return sb.String()
}
