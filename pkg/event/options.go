package event

import (
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/jittakal/kafeventcodec/pkg/errors"
)

// Options carries the fields New builds an Event from.
// Empty optional fields are treated as absent.
type Options struct {
	// Required attributes
	Type   string
	Source string
	ID     string

	// SpecVersion defaults to "1.0".
	SpecVersion string

	// Optional attributes
	Subject         string
	DataContentType string
	DataSchema      string
	Time            Time

	// Data is the payload: Text, Binary or nil.
	Data Payload

	// Extensions are applied after the fields above. Keys that name a standard
	// attribute override it.
	Extensions *Extensions
}

// Set assigns the attribute called name, checking that value has a shape the
// attribute accepts. Names that are not standard attributes become extensions.
func (o *Options) Set(name string, value any) error {
	var err error
	switch name {
	case AttrType:
		o.Type, err = stringValue(name, value)
	case AttrSource:
		o.Source, err = stringValue(name, value)
	case AttrID:
		o.ID, err = stringValue(name, value)
	case AttrSpecVersion:
		o.SpecVersion, err = stringValue(name, value)
	case AttrSubject:
		o.Subject, err = stringValue(name, value)
	case AttrDataContentType:
		o.DataContentType, err = stringValue(name, value)
	case AttrDataSchema:
		o.DataSchema, err = stringValue(name, value)
	case AttrTime:
		o.Time, err = timeValue(value)
	case AttrData:
		o.Data, err = payloadValue(value)
	default:
		if o.Extensions == nil {
			o.Extensions = NewExtensions()
		}
		err = o.Extensions.Set(name, value)
	}
	return err
}

func stringValue(name string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", errors.NewTypeError(name, "string", value)
	}
}

func timeValue(value any) (Time, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return TextTime(v), nil
	case time.Time:
		return At(v), nil
	case Time:
		return v, nil
	default:
		return nil, errors.NewTypeError(AttrTime, "string or date-time", value)
	}
}

func payloadValue(value any) (Payload, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return Text(v), nil
	case []byte:
		return Binary(v), nil
	case Payload:
		return v, nil
	default:
		return nil, errors.NewTypeError(AttrData, "string or bytes", value)
	}
}

// Extensions is an insertion-ordered set of extension attributes.
// Values are limited to nil, string, bool, integers (stored as int64) and
// floats (stored as float64). The Avro format only carries nil, string, bool
// and integers that fit in 32 bits; floats are a JSON-only extension.
// Re-setting a key keeps its original position.
type Extensions struct {
	m *orderedmap.OrderedMap[string, any]
}

// NewExtensions returns an empty extension set.
func NewExtensions() *Extensions {
	return &Extensions{m: orderedmap.NewOrderedMap[string, any]()}
}

// Set stores value under name.
// Values under standard attribute names are kept as given and checked when the
// event is built.
func (x *Extensions) Set(name string, value any) error {
	if x.m == nil {
		x.m = orderedmap.NewOrderedMap[string, any]()
	}
	if isReserved(name) {
		x.m.Set(name, value)
		return nil
	}
	v, err := normalizeExtension(name, value)
	if err != nil {
		return err
	}
	x.m.Set(name, v)
	return nil
}

// MustSet is Set for literals known to be valid. It panics on error.
func (x *Extensions) MustSet(name string, value any) *Extensions {
	if err := x.Set(name, value); err != nil {
		panic(err)
	}
	return x
}

// Get returns the value stored under name.
func (x *Extensions) Get(name string) (any, bool) {
	if x == nil || x.m == nil {
		return nil, false
	}
	return x.m.Get(name)
}

// Len returns the number of entries.
func (x *Extensions) Len() int {
	if x == nil || x.m == nil {
		return 0
	}
	return x.m.Len()
}

// Keys returns the names in insertion order.
func (x *Extensions) Keys() []string {
	if x == nil || x.m == nil {
		return nil
	}
	return x.m.Keys()
}

// All iterates entries in insertion order.
func (x *Extensions) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if x == nil || x.m == nil {
			return
		}
		for el := x.m.Front(); el != nil; el = el.Next() {
			if !yield(el.Key, el.Value) {
				return
			}
		}
	}
}

func normalizeExtension(name string, value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, int64, float64:
		return v, nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return nil, &errors.TypeError{Field: name, Expected: "integer within int64 range", Got: fmt.Sprint(v)}
		}
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, &errors.TypeError{Field: name, Expected: "integer within int64 range", Got: fmt.Sprint(v)}
		}
		return int64(v), nil
	case float32:
		return float64(v), nil
	default:
		return nil, errors.NewTypeError(name, "string, boolean, integer, float or null", value)
	}
}
