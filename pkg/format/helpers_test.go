package format

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jittakal/kafeventcodec/pkg/event"
)

// eventComparer lets cmp.Diff compare events by value.
var eventComparer = cmp.Comparer(func(a, b event.Event) bool {
	return a.Equal(b)
})

func mustEvent(t testing.TB, opts event.Options) event.Event {
	t.Helper()
	e, err := event.New(opts)
	if err != nil {
		t.Fatalf("event.New() error = %v", err)
	}
	return e
}

// oximeter returns the options shared by most fixtures.
func oximeter(mutators ...func(*event.Options)) event.Options {
	opts := event.Options{
		Type:   "OximeterMeasured",
		Source: "oximeter/123",
		ID:     "1000",
	}
	for _, m := range mutators {
		m(&opts)
	}
	return opts
}

func withOptional(o *event.Options) {
	o.Subject = "subject1"
	o.DataSchema = "https://particlemetrics.com/schema"
	o.Time = event.TextTime("2020-09-28T21:33:21Z")
}

func withStringData(o *event.Options) {
	o.DataContentType = "application/json"
	o.Data = event.Text(`{"spo2": 99}`)
}

func withBinaryData(o *event.Options) {
	o.DataContentType = "application/octet-stream"
	o.Data = event.Binary{0x01, 0x02, 0x03, 0x04}
}

func withExtension(o *event.Options) {
	o.Extensions = event.NewExtensions().MustSet("external1", "foo/bar")
}
