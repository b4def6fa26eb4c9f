package validator

import (
	"errors"
	"math"
	"testing"

	ceerrors "github.com/jittakal/kafeventcodec/pkg/errors"
	"github.com/jittakal/kafeventcodec/pkg/event"
)

func TestNewAvroAttributeValidator(t *testing.T) {
	validator := NewAvroAttributeValidator()
	if validator == nil {
		t.Fatal("expected non-nil validator")
	}
}

func newEvent(t *testing.T, exts *event.Extensions) event.Event {
	t.Helper()
	e, err := event.New(event.Options{
		Type:       "test.event",
		Source:     "test-source",
		ID:         "test-id",
		Subject:    "subject1",
		Extensions: exts,
	})
	if err != nil {
		t.Fatalf("event.New() error = %v", err)
	}
	return e
}

func TestAvroAttributeValidator_ValidateSuccess(t *testing.T) {
	validator := NewAvroAttributeValidator()

	tests := []struct {
		name string
		exts *event.Extensions
	}{
		{"no extensions", nil},
		{"string", event.NewExtensions().MustSet("external1", "foo/bar")},
		{"bool", event.NewExtensions().MustSet("sampled", true)},
		{"null", event.NewExtensions().MustSet("parent", nil)},
		{"int", event.NewExtensions().MustSet("retries", 3)},
		{"int32 bounds", event.NewExtensions().MustSet("min", math.MinInt32).MustSet("max", math.MaxInt32)},
		{"narrow ints", event.NewExtensions().MustSet("level", int8(-3)).MustSet("port", uint16(8080)).MustSet("offset", int32(-7))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validator.Validate(newEvent(t, tt.exts)); err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
		})
	}
}

func TestAvroAttributeValidator_ValidateErrors(t *testing.T) {
	validator := NewAvroAttributeValidator()

	tests := []struct {
		name      string
		exts      *event.Extensions
		wantField string
	}{
		{"float", event.NewExtensions().MustSet("ratio", 0.5), "ratio"},
		{"int above int32", event.NewExtensions().MustSet("big", int64(math.MaxInt32)+1), "big"},
		{"int below int32", event.NewExtensions().MustSet("small", int64(math.MinInt32)-1), "small"},
		{"first bad wins", event.NewExtensions().MustSet("ok", "x").MustSet("bad1", 1.5).MustSet("bad2", 2.5), "bad1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(newEvent(t, tt.exts))
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}

			var validationErr *ceerrors.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			if validationErr.Field != tt.wantField {
				t.Errorf("Field = %s, want %s", validationErr.Field, tt.wantField)
			}
			if validationErr.EventID != "test-id" {
				t.Errorf("EventID = %s, want test-id", validationErr.EventID)
			}
		})
	}
}
