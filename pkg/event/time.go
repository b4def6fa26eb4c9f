package event

import "time"

// Time is the value of the time attribute: a TextTime or a StructuredTime.
// It is rendered to text once, when the event is built.
type Time interface {
	rfc3339() string
}

// TextTime is a time attribute supplied as text. It is stored unchanged.
type TextTime string

func (t TextTime) rfc3339() string {
	return string(t)
}

// StructuredTime is a time attribute supplied as a time.Time.
//
// An offset-aware value renders with its offset ("+03:00", or "Z" in UTC).
// A naive value has no zone of its own: its wall clock is read as UTC and
// rendered with a "Z" suffix. The zero time is treated as absent.
type StructuredTime struct {
	Value time.Time
	Naive bool
}

// At returns an offset-aware StructuredTime.
func At(t time.Time) StructuredTime {
	return StructuredTime{Value: t}
}

// NaiveAt returns a StructuredTime that ignores the location of t and keeps only its wall clock.
func NaiveAt(t time.Time) StructuredTime {
	return StructuredTime{Value: t, Naive: true}
}

func (t StructuredTime) rfc3339() string {
	if t.Value.IsZero() {
		return ""
	}
	v := t.Value
	if t.Naive {
		v = time.Date(v.Year(), v.Month(), v.Day(), v.Hour(), v.Minute(), v.Second(), v.Nanosecond(), time.UTC)
	}
	return v.Format(time.RFC3339Nano)
}

func renderTime(t Time) string {
	if t == nil {
		return ""
	}
	return t.rfc3339()
}
