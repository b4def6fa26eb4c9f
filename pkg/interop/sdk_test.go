package interop

import (
	"net/url"
	"strings"
	"testing"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/cloudevents/sdk-go/v2/types"
	"github.com/google/go-cmp/cmp"

	"github.com/jittakal/kafeventcodec/pkg/errors"
	"github.com/jittakal/kafeventcodec/pkg/event"
)

func mustEvent(t *testing.T, opts event.Options) event.Event {
	t.Helper()
	e, err := event.New(opts)
	if err != nil {
		t.Fatalf("event.New() error = %v", err)
	}
	return e
}

func TestToSDK(t *testing.T) {
	e := mustEvent(t, event.Options{
		Type:            "OximeterMeasured",
		Source:          "oximeter/123",
		ID:              "1000",
		Subject:         "subject1",
		DataContentType: "application/json",
		DataSchema:      "https://particlemetrics.com/schema",
		Time:            event.TextTime("2020-09-28T21:33:21Z"),
		Data:            event.Text(`{"spo2": 99}`),
		Extensions: event.NewExtensions().
			MustSet("external1", "foo/bar").
			MustSet("retries", 3).
			MustSet("sampled", true),
	})

	se, err := ToSDK(e)
	if err != nil {
		t.Fatalf("ToSDK() error = %v", err)
	}

	checks := []struct {
		name string
		got  string
		want string
	}{
		{"type", se.Type(), "OximeterMeasured"},
		{"source", se.Source(), "oximeter/123"},
		{"id", se.ID(), "1000"},
		{"specversion", se.SpecVersion(), cloudevents.VersionV1},
		{"subject", se.Subject(), "subject1"},
		{"datacontenttype", se.DataContentType(), "application/json"},
		{"dataschema", se.DataSchema(), "https://particlemetrics.com/schema"},
		{"data", string(se.Data()), `{"spo2": 99}`},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.name, c.got, c.want)
		}
	}

	wantTime := time.Date(2020, 9, 28, 21, 33, 21, 0, time.UTC)
	if !se.Time().Equal(wantTime) {
		t.Errorf("time = %v, want %v", se.Time(), wantTime)
	}
	if se.DataBase64 {
		t.Error("text data should not be marked base64")
	}

	exts := se.Extensions()
	if exts["external1"] != "foo/bar" || exts["retries"] != int32(3) || exts["sampled"] != true {
		t.Errorf("extensions = %#v", exts)
	}
}

func TestToSDK_BinaryData(t *testing.T) {
	e := mustEvent(t, event.Options{
		Type:            "T",
		Source:          "S",
		ID:              "1",
		DataContentType: "application/octet-stream",
		Data:            event.Binary{1, 2, 3, 4},
	})

	se, err := ToSDK(e)
	if err != nil {
		t.Fatalf("ToSDK() error = %v", err)
	}
	if !se.DataBase64 {
		t.Error("binary data should be marked base64")
	}

	b, err := se.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if want := `"data_base64":"AQIDBA=="`; !strings.Contains(string(b), want) {
		t.Errorf("MarshalJSON() = %s, want it to contain %s", b, want)
	}
}

func TestToSDK_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts event.Options
		want errors.Kind
	}{
		{
			name: "float extension",
			opts: event.Options{Type: "T", Source: "S", ID: "1",
				Extensions: event.NewExtensions().MustSet("ratio", 0.5)},
			want: errors.KindType,
		},
		{
			name: "int beyond int32",
			opts: event.Options{Type: "T", Source: "S", ID: "1",
				Extensions: event.NewExtensions().MustSet("big", int64(1)<<40)},
			want: errors.KindType,
		},
		{
			name: "null extension",
			opts: event.Options{Type: "T", Source: "S", ID: "1",
				Extensions: event.NewExtensions().MustSet("trace", nil)},
			want: errors.KindType,
		},
		{
			name: "invalid extension name",
			opts: event.Options{Type: "T", Source: "S", ID: "1",
				Extensions: event.NewExtensions().MustSet("not-valid", "x")},
			want: errors.KindValidation,
		},
		{
			name: "unknown spec version",
			opts: event.Options{Type: "T", Source: "S", ID: "1", SpecVersion: "2.0"},
			want: errors.KindValidation,
		},
		{
			name: "time not RFC 3339",
			opts: event.Options{Type: "T", Source: "S", ID: "1", Time: event.TextTime("yesterday")},
			want: errors.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToSDK(mustEvent(t, tt.opts))
			if err == nil {
				t.Fatal("ToSDK() error = nil, want error")
			}
			if got := errors.KindOf(err); got != tt.want {
				t.Errorf("KindOf(%v) = %v, want %v", err, got, tt.want)
			}
		})
	}
}

func TestFromSDK(t *testing.T) {
	se := cloudevents.NewEvent()
	se.SetType("OximeterMeasured")
	se.SetSource("oximeter/123")
	se.SetID("1000")
	se.SetTime(time.Date(2020, 9, 28, 21, 33, 21, 500, time.UTC))
	se.SetExtension("zeta", "last")
	se.SetExtension("alpha", 7)
	se.SetExtension("link", &url.URL{Scheme: "https", Host: "example.com", Path: "/oximeter"})
	se.SetExtension("seen", types.Timestamp{Time: time.Date(2020, 9, 28, 23, 33, 21, 0, time.FixedZone("", 2*3600))})
	if err := se.SetData("application/json", map[string]int{"spo2": 99}); err != nil {
		t.Fatalf("SetData() error = %v", err)
	}

	e, err := FromSDK(se)
	if err != nil {
		t.Fatalf("FromSDK() error = %v", err)
	}

	if e.Type() != "OximeterMeasured" || e.Source() != "oximeter/123" || e.ID() != "1000" {
		t.Errorf("required attributes = %v", e)
	}
	if e.Time() != "2020-09-28T21:33:21.0000005Z" {
		t.Errorf("Time() = %q", e.Time())
	}
	if e.DataContentType() != "application/json" {
		t.Errorf("DataContentType() = %q", e.DataContentType())
	}
	if e.HasBinaryData() || string(e.Data().Bytes()) != `{"spo2":99}` {
		t.Errorf("Data() = %v", e.Data())
	}

	var names []string
	for name := range e.Extensions() {
		names = append(names, name)
	}
	if diff := cmp.Diff([]string{"alpha", "link", "seen", "zeta"}, names); diff != "" {
		t.Errorf("extension names mismatch (-want +got):\n%s", diff)
	}
	if v, _ := e.Attribute("alpha"); v != int64(7) {
		t.Errorf("alpha = %#v, want int64(7)", v)
	}
	if v, _ := e.Attribute("link"); v != "https://example.com/oximeter" {
		t.Errorf("link = %#v, want the URI text", v)
	}
	if v, _ := e.Attribute("seen"); v != "2020-09-28T21:33:21Z" {
		t.Errorf("seen = %#v, want the UTC timestamp text", v)
	}
}

func TestFromSDK_Errors(t *testing.T) {
	se := cloudevents.NewEvent()
	se.SetType("T")
	se.SetSource("S")
	if _, err := FromSDK(se); errors.KindOf(err) != errors.KindValidation {
		t.Errorf("FromSDK(missing id) error = %v, want validation error", err)
	}

	se.SetID("1")
	se.SetExtension("blob", []byte{1})
	if _, err := FromSDK(se); errors.KindOf(err) != errors.KindType {
		t.Errorf("FromSDK(bytes extension) error = %v, want type error", err)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		opts event.Options
	}{
		{"required", event.Options{Type: "T", Source: "S", ID: "1"}},
		{"text data", event.Options{Type: "T", Source: "S", ID: "1",
			DataContentType: "text/plain", Data: event.Text("hello")}},
		{"binary data", event.Options{Type: "T", Source: "S", ID: "1", Data: event.Binary{0, 1, 2}}},
		{"time with offset", event.Options{Type: "T", Source: "S", ID: "1",
			Time: event.At(time.Date(2020, 9, 25, 13, 32, 56, 0, time.FixedZone("", 3*3600)))}},
		{"extensions", event.Options{Type: "T", Source: "S", ID: "1",
			Extensions: event.NewExtensions().MustSet("a", "x").MustSet("b", false).MustSet("c", -1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustEvent(t, tt.opts)
			se, err := ToSDK(e)
			if err != nil {
				t.Fatalf("ToSDK() error = %v", err)
			}
			got, err := FromSDK(se)
			if err != nil {
				t.Fatalf("FromSDK() error = %v", err)
			}
			if !got.Equal(e) {
				t.Errorf("round trip = %v, want %v", got, e)
			}
		})
	}
}
