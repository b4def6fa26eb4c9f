// Package interop converts events to and from the CloudEvents Go SDK.
package interop

import (
	"fmt"
	"math"
	"slices"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/cloudevents/sdk-go/v2/types"

	"github.com/jittakal/kafeventcodec/pkg/errors"
	"github.com/jittakal/kafeventcodec/pkg/event"
)

// ToSDK copies e into an SDK event. The payload is carried as encoded bytes
// with DataBase64 set for binary data. Extensions must be strings, booleans or
// integers within int32 range.
func ToSDK(e event.Event) (cloudevents.Event, error) {
	switch e.SpecVersion() {
	case cloudevents.VersionV1, cloudevents.VersionV03:
	default:
		return cloudevents.Event{}, &errors.ValidationError{
			EventID: e.ID(),
			Field:   event.AttrSpecVersion,
			Reason:  fmt.Sprintf("unsupported spec version %q", e.SpecVersion()),
		}
	}

	se := cloudevents.NewEvent(e.SpecVersion())
	se.SetType(e.Type())
	se.SetSource(e.Source())
	se.SetID(e.ID())

	if v := e.Subject(); v != "" {
		se.SetSubject(v)
	}
	if v := e.DataContentType(); v != "" {
		se.SetDataContentType(v)
	}
	if v := e.DataSchema(); v != "" {
		se.SetDataSchema(v)
	}
	if v := e.Time(); v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return cloudevents.Event{}, &errors.ValidationError{
				EventID: e.ID(),
				Field:   event.AttrTime,
				Reason:  fmt.Sprintf("not an RFC 3339 timestamp: %q", v),
			}
		}
		se.SetTime(t)
	}

	for name, value := range e.Extensions() {
		sdkValue, err := extensionToSDK(name, value)
		if err != nil {
			return cloudevents.Event{}, err
		}
		se.SetExtension(name, sdkValue)
	}

	if d := e.Data(); d != nil {
		se.DataEncoded = d.Bytes()
		se.DataBase64 = e.HasBinaryData()
	}

	// Setters record field errors on the event; Validate reports them.
	if err := se.Validate(); err != nil {
		return cloudevents.Event{}, &errors.ValidationError{EventID: e.ID(), Reason: err.Error()}
	}
	return se, nil
}

func extensionToSDK(name string, value any) (any, error) {
	switch v := value.(type) {
	case string, bool:
		return v, nil
	case int64:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, &errors.TypeError{Field: name, Expected: "integer within int32 range", Got: fmt.Sprint(v)}
		}
		return int32(v), nil
	default:
		return nil, errors.NewTypeError(name, "string, boolean or int32", value)
	}
}

// FromSDK builds an event from an SDK event. Extensions are applied in name
// order; URI and timestamp extensions become their canonical strings.
func FromSDK(se cloudevents.Event) (event.Event, error) {
	opts := event.Options{
		Type:            se.Type(),
		Source:          se.Source(),
		ID:              se.ID(),
		SpecVersion:     se.SpecVersion(),
		Subject:         se.Subject(),
		DataContentType: se.DataContentType(),
		DataSchema:      se.DataSchema(),
	}
	if t := se.Time(); !t.IsZero() {
		opts.Time = event.At(t)
	}

	exts := se.Extensions()
	names := make([]string, 0, len(exts))
	for name := range exts {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		value, err := extensionFromSDK(name, exts[name])
		if err != nil {
			return event.Event{}, err
		}
		if err := opts.Set(name, value); err != nil {
			return event.Event{}, err
		}
	}

	if len(se.DataEncoded) > 0 {
		if se.DataBase64 {
			opts.Data = event.Binary(se.DataEncoded)
		} else {
			opts.Data = event.Text(se.DataEncoded)
		}
	}

	return event.New(opts)
}

func extensionFromSDK(name string, value any) (any, error) {
	switch v := value.(type) {
	case string, bool, int32:
		return v, nil
	case []byte:
		return nil, &errors.TypeError{Field: name, Expected: "string, boolean or integer", Got: "bytes"}
	default:
		s, err := types.Format(v)
		if err != nil {
			return nil, errors.NewTypeError(name, "string, boolean or integer", value)
		}
		return s, nil
	}
}
