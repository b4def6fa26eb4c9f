// Package event defines the CloudEvents 1.0 event model used by the codecs.
//
// # Building Events
//
// New is the only way to build an Event. Required attributes are type, source
// and id; specversion defaults to "1.0":
//
//	e, err := event.New(event.Options{
//	    Type:            "OximeterMeasured",
//	    Source:          "oximeter/123",
//	    ID:              "1000",
//	    DataContentType: "application/json",
//	    Data:            event.Text(`{"spo2": 99}`),
//	})
//
// Optional attributes left empty are not stored, so codecs never see them.
//
// # Time
//
// The time attribute is a TextTime, passed through unchanged, or a
// StructuredTime rendered to RFC3339 at construction:
//
//	event.TextTime("2020-09-28T21:33:21Z")
//	event.At(t)      // keeps the offset of t
//	event.NaiveAt(t) // wall clock of t read as UTC, rendered with "Z"
//
// # Payload
//
// Data is Text or Binary. HasBinaryData reports which one was supplied and
// decides how codecs carry it (data vs data_base64 in JSON, string vs bytes in
// Avro).
//
// # Extensions
//
// Extensions keeps insertion order. Values are nil, string, bool, integers
// (stored as int64) or floats (stored as float64, JSON only):
//
//	exts := event.NewExtensions()
//	exts.MustSet("external1", "foo/bar")
//
// A key naming a standard attribute overrides that attribute.
//
// # Equality
//
// Equal compares attribute sets and payloads without regard to attribute
// order, and Hash agrees with it. Two equal events can still encode to JSON
// with different key order; SameOrder compares order as well.
//
// Events are immutable and safe to share between goroutines.
package event
