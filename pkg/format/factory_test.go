package format

import (
	"testing"

	"github.com/jittakal/kafeventcodec/pkg/codec"
	"github.com/jittakal/kafeventcodec/pkg/event"
)

func TestNewFactory(t *testing.T) {
	tests := []struct {
		name            string
		format          codec.Format
		compression     string
		wantFormat      codec.Format
		wantCompression string
	}{
		{"json default", codec.FormatJSON, "", codec.FormatJSON, "uncompressed"},
		{"parquet default", codec.FormatParquet, "", codec.FormatParquet, "snappy"},
		{"ocf default", codec.FormatAvroOCF, "", codec.FormatAvroOCF, "deflate"},
		{"upper case format", "PARQUET", "", codec.FormatParquet, "snappy"},
		{"explicit compression", codec.FormatParquet, "zstd", codec.FormatParquet, "zstd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFactory(tt.format, tt.compression)
			if f.Format() != tt.wantFormat {
				t.Errorf("Format() = %v, want %v", f.Format(), tt.wantFormat)
			}
			if f.compression != tt.wantCompression {
				t.Errorf("compression = %q, want %q", f.compression, tt.wantCompression)
			}
		})
	}
}

func TestFactory_CreateCodec(t *testing.T) {
	tests := []struct {
		format  codec.Format
		wantErr bool
	}{
		{codec.FormatJSON, false},
		{codec.FormatAvro, !AvroAvailable()},
		{codec.FormatAvroOCF, true},
		{codec.FormatParquet, true},
		{"xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			c, err := NewFactory(tt.format, "").CreateCodec()
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateCodec() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if c != nil {
					t.Errorf("CreateCodec() = %v, want nil on error", c)
				}
				return
			}
			if c.Format() != tt.format {
				t.Errorf("Format() = %v, want %v", c.Format(), tt.format)
			}

			e := mustEvent(t, oximeter(withStringData))
			b, err := c.Encode(e)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := c.Decode(b)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !got.Equal(e) {
				t.Errorf("round trip = %v, want %v", got, e)
			}
		})
	}
}

func TestFactory_CreateBatchCodec(t *testing.T) {
	events := []event.Event{
		mustEvent(t, oximeter()),
		mustEvent(t, oximeter(withBinaryData, withExtension)),
	}

	for _, format := range SupportedFormats() {
		t.Run(format.String(), func(t *testing.T) {
			c, err := NewFactory(format, "").CreateBatchCodec()
			if !Available(format) {
				if err == nil {
					t.Fatal("CreateBatchCodec() error = nil for an unavailable format")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateBatchCodec() error = %v", err)
			}
			if c.Format() != format {
				t.Errorf("Format() = %v, want %v", c.Format(), format)
			}

			b, err := c.EncodeBatch(events)
			if err != nil {
				t.Fatalf("EncodeBatch() error = %v", err)
			}
			got, err := c.DecodeBatch(b)
			if err != nil {
				t.Fatalf("DecodeBatch() error = %v", err)
			}
			if len(got) != len(events) {
				t.Fatalf("DecodeBatch() returned %d events, want %d", len(got), len(events))
			}
			for i := range events {
				if !got[i].Equal(events[i]) {
					t.Errorf("event %d = %v, want %v", i, got[i], events[i])
				}
			}
		})
	}

	if _, err := NewFactory("xml", "").CreateBatchCodec(); err == nil {
		t.Error("CreateBatchCodec(xml) error = nil, want error")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    codec.Format
		wantErr bool
	}{
		{"json", codec.FormatJSON, false},
		{" Avro ", codec.FormatAvro, false},
		{"AVRO-OCF", codec.FormatAvroOCF, false},
		{"parquet", codec.FormatParquet, false},
		{"", "", true},
		{"csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSupportedCompressions(t *testing.T) {
	tests := []struct {
		format codec.Format
		want   int
	}{
		{codec.FormatParquet, 5},
		{codec.FormatAvroOCF, 4},
		{codec.FormatAvro, 0},
		{codec.FormatJSON, 0},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			got := SupportedCompressions(tt.format)
			if len(got) != tt.want {
				t.Errorf("SupportedCompressions(%v) = %v, want %d entries", tt.format, got, tt.want)
			}
			if len(got) > 0 {
				def := DefaultCompression(tt.format)
				found := false
				for _, c := range got {
					found = found || c == def
				}
				if !found {
					t.Errorf("DefaultCompression(%v) = %q, not in %v", tt.format, def, got)
				}
			}
		})
	}
}

func TestAvailable(t *testing.T) {
	if !Available(codec.FormatJSON) || !Available(codec.FormatParquet) {
		t.Error("json and parquet should always be available")
	}
	if Available("xml") {
		t.Error("unknown formats should not be available")
	}
	if Available(codec.FormatAvro) != AvroAvailable() {
		t.Error("Available(avro) should follow AvroAvailable()")
	}
}
