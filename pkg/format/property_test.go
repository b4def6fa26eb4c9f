package format

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/jittakal/kafeventcodec/pkg/codec"
	"github.com/jittakal/kafeventcodec/pkg/event"
)

// eventSeed is the generated input an event is built from.
type eventSeed struct {
	Type     string
	Source   string
	ID       string
	Subject  string
	Binary   bool
	Payload  []byte
	Text     string
	ExtName  string
	ExtValue int32
	ExtFlag  bool
}

func (s eventSeed) event() (event.Event, error) {
	opts := event.Options{
		Type:    s.Type,
		Source:  s.Source,
		ID:      s.ID,
		Subject: s.Subject,
	}
	if s.Binary {
		opts.Data = event.Binary(s.Payload)
	} else {
		opts.Data = event.Text(s.Text)
	}
	opts.Extensions = event.NewExtensions().
		MustSet("x"+s.ExtName, s.ExtValue).
		MustSet("f"+s.ExtName, s.ExtFlag)
	return event.New(opts)
}

func eventSeedGenerator() gopter.Gen {
	return gen.Struct(reflect.TypeOf(eventSeed{}), map[string]gopter.Gen{
		"Type":     gen.Identifier(),
		"Source":   gen.Identifier(),
		"ID":       gen.Identifier(),
		"Subject":  gen.AlphaString(),
		"Binary":   gen.Bool(),
		"Payload":  gen.SliceOf(gen.UInt8()),
		"Text":     gen.AlphaString(),
		"ExtName":  gen.Identifier(),
		"ExtValue": gen.Int32(),
		"ExtFlag":  gen.Bool(),
	})
}

func roundTrips(c codec.Codec) func(eventSeed) bool {
	return func(seed eventSeed) bool {
		e, err := seed.event()
		if err != nil {
			return false
		}
		b, err := c.Encode(e)
		if err != nil {
			return false
		}
		got, err := c.Decode(b)
		return err == nil && got.Equal(e) && got.Hash() == e.Hash()
	}
}

func TestCodecRoundTripProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("json decode inverts encode", prop.ForAll(
		roundTrips(NewJSON()),
		eventSeedGenerator(),
	))

	if a, err := NewAvro(); err == nil {
		properties.Property("avro decode inverts encode", prop.ForAll(
			roundTrips(a),
			eventSeedGenerator(),
		))
	}

	properties.Property("parquet decode inverts encode", prop.ForAll(
		func(seeds []eventSeed) bool {
			events := make([]event.Event, 0, len(seeds))
			for _, s := range seeds {
				e, err := s.event()
				if err != nil {
					return false
				}
				events = append(events, e)
			}
			p := NewParquet("snappy")
			b, err := p.EncodeBatch(events)
			if err != nil {
				return false
			}
			got, err := p.DecodeBatch(b)
			if err != nil || len(got) != len(events) {
				return false
			}
			for i := range events {
				if !got[i].SameOrder(events[i]) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(5, eventSeedGenerator()),
	))

	properties.TestingRun(t)
}
