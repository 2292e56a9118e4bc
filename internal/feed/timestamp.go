package feed

import (
	"time"

	"github.com/araddon/dateparse"
)

// Timestamp is one candidate publish time found on an entry: a
// StructuredTime attached by a parser, a TextTime still to be parsed, or
// Absent.
type Timestamp interface {
	isTimestamp()
}

type StructuredTime struct {
	Time time.Time
}

type TextTime struct {
	Text string
}

type Absent struct{}

func (StructuredTime) isTimestamp() {}
func (TextTime) isTimestamp()       {}
func (Absent) isTimestamp()         {}

// ResolveTimestamp turns a candidate into a UTC instant. Text without zone
// information is read as UTC.
func ResolveTimestamp(ts Timestamp) (time.Time, bool) {
	switch v := ts.(type) {
	case StructuredTime:
		if v.Time.IsZero() {
			return time.Time{}, false
		}
		return v.Time.UTC(), true
	case TextTime:
		if v.Text == "" {
			return time.Time{}, false
		}
		parsed, err := dateparse.ParseIn(v.Text, time.UTC)
		if err != nil {
			return time.Time{}, false
		}
		return parsed.UTC(), true
	default:
		return time.Time{}, false
	}
}

// timestampAt returns the candidate stored under key: a structured value at
// key+"_parsed" or key itself first, then the string form.
func timestampAt(e RawEntry, key string) Timestamp {
	if t, ok := e.Time(key + "_parsed"); ok {
		return StructuredTime{Time: t}
	}
	if t, ok := e.Time(key); ok {
		return StructuredTime{Time: t}
	}
	if s := e.String(key); s != "" {
		return TextTime{Text: s}
	}
	return Absent{}
}
