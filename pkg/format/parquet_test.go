package format

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jittakal/kafeventcodec/pkg/codec"
	"github.com/jittakal/kafeventcodec/pkg/errors"
	"github.com/jittakal/kafeventcodec/pkg/event"
)

func TestParquet_RoundTrip(t *testing.T) {
	events := []event.Event{
		mustEvent(t, oximeter()),
		mustEvent(t, oximeter(withOptional, withStringData)),
		mustEvent(t, oximeter(withBinaryData, withExtension)),
		mustEvent(t, oximeter(func(o *event.Options) {
			o.Extensions = event.NewExtensions().
				MustSet("ratio", 0.5).
				MustSet("retries", 3).
				MustSet("sampled", true).
				MustSet("trace", nil)
		})),
	}

	for _, compression := range SupportedCompressions(codec.FormatParquet) {
		t.Run(compression, func(t *testing.T) {
			p := NewParquet(compression)

			b, err := p.EncodeBatch(events)
			if err != nil {
				t.Fatalf("EncodeBatch() error = %v", err)
			}
			if !bytes.HasPrefix(b, []byte("PAR1")) {
				t.Errorf("output should start with the parquet magic, got % x", b[:4])
			}

			got, err := p.DecodeBatch(b)
			if err != nil {
				t.Fatalf("DecodeBatch() error = %v", err)
			}
			if diff := cmp.Diff(events, got, eventComparer); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
			for i := range events {
				if !got[i].SameOrder(events[i]) {
					t.Errorf("event %d attribute order = %v, want %v", i, got[i].Names(), events[i].Names())
				}
			}
		})
	}
}

func TestParquet_KeepsPayloadKind(t *testing.T) {
	p := NewParquet("snappy")
	text := mustEvent(t, oximeter(func(o *event.Options) { o.Data = event.Text("\x01\x02") }))
	binary := mustEvent(t, oximeter(func(o *event.Options) { o.Data = event.Binary("\x01\x02") }))

	b, err := p.EncodeBatch([]event.Event{text, binary})
	if err != nil {
		t.Fatalf("EncodeBatch() error = %v", err)
	}
	got, err := p.DecodeBatch(b)
	if err != nil {
		t.Fatalf("DecodeBatch() error = %v", err)
	}

	if got[0].HasBinaryData() {
		t.Error("text payload decoded as binary")
	}
	if !got[1].HasBinaryData() {
		t.Error("binary payload decoded as text")
	}
}

func TestParquet_Errors(t *testing.T) {
	p := NewParquet("")

	if _, err := p.EncodeBatch([]event.Event{}); err != errors.ErrNoEvents {
		t.Errorf("EncodeBatch(empty) error = %v, want ErrNoEvents", err)
	}
	if _, err := p.DecodeBatch([]byte("not a parquet file")); errors.KindOf(err) != errors.KindDecode {
		t.Errorf("DecodeBatch(garbage) error = %v, want decode error", err)
	}
}

func TestParquet_FileExtension(t *testing.T) {
	p := NewParquet("zstd")
	if p.FileExtension() != ".parquet" {
		t.Errorf("FileExtension() = %q, want .parquet", p.FileExtension())
	}
	if p.Format() != codec.FormatParquet {
		t.Errorf("Format() = %v, want %v", p.Format(), codec.FormatParquet)
	}
}

func BenchmarkParquet_EncodeBatch(b *testing.B) {
	p := NewParquet("snappy")
	events := make([]event.Event, 0, 300)
	for i := 0; i < 100; i++ {
		events = append(events,
			mustEvent(b, oximeter()),
			mustEvent(b, oximeter(withOptional, withStringData)),
			mustEvent(b, oximeter(withBinaryData, withExtension)),
		)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = p.EncodeBatch(events)
	}
}
