// Package models defines the data shapes moved between the fetcher,
// normalizer and output sinks.
package models

import (
	"encoding/json"
	"fmt"
)

// RawRecord is one decoded listing item (submission or comment) as it
// arrives off the wire. Records are treated as immutable once fetched.
type RawRecord = map[string]any

// refKind discriminates how a name reference arrived.
type refKind int

const (
	refPlain refKind = iota
	refRich
)

// NameRef is an author or community reference: either a plain name string
// or a richer object carrying display fields. Deleted accounts surface as
// rich references with no usable name.
type NameRef struct {
	plain string
	rich  map[string]any
	kind  refKind
}

// NewNameRef classifies a raw value into a NameRef. The second return is
// false when the value is neither a string nor an object.
func NewNameRef(v any) (NameRef, bool) {
	switch t := v.(type) {
	case string:
		return NameRef{plain: t, kind: refPlain}, true
	case map[string]any:
		return NameRef{rich: t, kind: refRich}, true
	}

	return NameRef{}, false
}

// AuthorName reduces the reference to an account name, or nil when the
// account is unavailable (deleted).
func (r NameRef) AuthorName() any {
	if r.kind == refPlain {
		return r.plain
	}

	if name, ok := r.rich["name"].(string); ok {
		return name
	}

	return nil
}

// CommunityName reduces the reference to a community display name, falling
// back to the raw string form when no display name exists.
func (r NameRef) CommunityName() any {
	if r.kind == refPlain {
		return r.plain
	}

	if name, ok := r.rich["display_name"].(string); ok {
		return name
	}

	return fmt.Sprint(r.rich)
}

// FetchState holds per-community transient counters. It is never persisted.
type FetchState struct {
	Posts    int
	Comments int
}

// AsInt coerces a decoded JSON numeric value to an int64. Anything
// non-numeric coerces to zero.
func AsInt(v any) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case int64:
		return t
	case int:
		return int64(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return int64(f)
		}
	}

	return 0
}

// CreatedUTC extracts a record's creation timestamp in epoch seconds.
func CreatedUTC(r RawRecord) int64 {
	return AsInt(r["created_utc"])
}
