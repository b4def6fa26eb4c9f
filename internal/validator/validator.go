// Package validator checks events against the value kinds a wire format can carry.
package validator

import (
	"fmt"
	"math"

	"github.com/jittakal/kafeventcodec/pkg/errors"
	"github.com/jittakal/kafeventcodec/pkg/event"
)

// AvroAttributeValidator checks that every attribute fits the value union of
// the CloudEvents Avro attribute map. Events never hold bytes attributes, so
// only the null, boolean, int and string branches are written.
type AvroAttributeValidator struct{}

// NewAvroAttributeValidator creates a new Avro attribute validator.
func NewAvroAttributeValidator() *AvroAttributeValidator {
	return &AvroAttributeValidator{}
}

// Validate returns a *errors.ValidationError for the first attribute whose
// value the Avro attribute map cannot hold.
func (v *AvroAttributeValidator) Validate(e event.Event) error {
	for name, value := range e.All() {
		if reason := v.check(value); reason != "" {
			return &errors.ValidationError{
				EventID: e.ID(),
				Field:   name,
				Reason:  reason,
			}
		}
	}
	return nil
}

func (v *AvroAttributeValidator) check(value any) string {
	switch val := value.(type) {
	case nil, string, bool:
		return ""
	case int64:
		if val < math.MinInt32 || val > math.MaxInt32 {
			return fmt.Sprintf("integer %d out of int32 range", val)
		}
		return ""
	case float64:
		return "floating point values are not supported by the Avro attribute map"
	default:
		return fmt.Sprintf("unsupported value type %T", value)
	}
}
