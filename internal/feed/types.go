package feed

import (
	"strings"
	"time"
)

// RawEntry is one feed entry as produced by an adapter. There is no fixed
// schema; fields are read through FieldChain lookups.
type RawEntry map[string]any

// String returns the trimmed string stored at key, or "" when the key is
// missing or holds a non-string value.
func (e RawEntry) String(key string) string {
	v, ok := e[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// Time returns the structured time stored at key, if any.
func (e RawEntry) Time(key string) (time.Time, bool) {
	switch v := e[key].(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v != nil && !v.IsZero() {
			return *v, true
		}
	}
	return time.Time{}, false
}

// NormalizedEntry is a RawEntry reduced to the fields the pipeline uses.
type NormalizedEntry struct {
	Title       string
	Link        string
	Published   *time.Time
	Description string
}

// FetchResult is the outcome of one feed fetch. A failed fetch carries Err
// and no entries; it is never fatal to a run.
type FetchResult struct {
	URL     string
	Entries []RawEntry
	Err     error
}

func (r FetchResult) OK() bool {
	return r.Err == nil
}
