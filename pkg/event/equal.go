package event

import (
	"bytes"
	"encoding/binary"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Equal reports whether both events hold the same attribute set and payload.
// Attribute order is ignored; use SameOrder when it matters.
func (e Event) Equal(other Event) bool {
	if e.Len() != other.Len() {
		return false
	}
	for name, value := range e.All() {
		otherValue, ok := other.attrs.Get(name)
		if !ok || !valueEqual(value, otherValue) {
			return false
		}
	}
	return payloadEqual(e.data, other.data)
}

// valueEqual is == except that NaN equals NaN.
func valueEqual(a, b any) bool {
	if af, ok := a.(float64); ok && math.IsNaN(af) {
		bf, ok := b.(float64)
		return ok && math.IsNaN(bf)
	}
	return a == b
}

// SameOrder reports whether the events are Equal and store their attributes in the same order.
func (e Event) SameOrder(other Event) bool {
	return e.Equal(other) && slices.Equal(e.Names(), other.Names())
}

func payloadEqual(a, b Payload) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case Binary:
		bv, ok := b.(Binary)
		return ok && bytes.Equal(av, bv)
	default:
		return false
	}
}

// Hash returns a 64-bit hash consistent with Equal.
// Attributes are hashed in name order so insertion order does not change the result.
func (e Event) Hash() uint64 {
	d := xxhash.New()

	names := e.Names()
	slices.Sort(names)
	for _, name := range names {
		value, _ := e.attrs.Get(name)
		_, _ = d.WriteString(name)
		_, _ = d.Write([]byte{0})
		writeHashValue(d, value)
		_, _ = d.Write([]byte{0xff})
	}

	switch p := e.data.(type) {
	case Text:
		_, _ = d.Write([]byte{'T'})
		_, _ = d.WriteString(string(p))
	case Binary:
		_, _ = d.Write([]byte{'B'})
		_, _ = d.Write(p)
	}

	return d.Sum64()
}

func writeHashValue(d *xxhash.Digest, value any) {
	var scratch [9]byte
	switch v := value.(type) {
	case nil:
		_, _ = d.Write([]byte{'n'})
	case string:
		_, _ = d.Write([]byte{'s'})
		_, _ = d.WriteString(v)
	case bool:
		scratch[0] = 'b'
		if v {
			scratch[1] = 1
		}
		_, _ = d.Write(scratch[:2])
	case int64:
		scratch[0] = 'i'
		binary.BigEndian.PutUint64(scratch[1:], uint64(v))
		_, _ = d.Write(scratch[:])
	case float64:
		switch {
		case v == 0:
			v = 0 // -0 == 0
		case math.IsNaN(v):
			v = math.NaN()
		}
		scratch[0] = 'f'
		binary.BigEndian.PutUint64(scratch[1:], math.Float64bits(v))
		_, _ = d.Write(scratch[:])
	}
}
