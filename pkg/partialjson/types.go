// Package partialjson parses JSON that may be a truncated prefix of a
// larger document — the shape a streaming model emits mid-generation — and
// heals it into a valid value by inserting a caller-supplied marker at the
// point of truncation.
//
// Healed documents are built and queried with github.com/tidwall/gjson and
// github.com/tidwall/sjson rather than encoding/json's map[string]any,
// because Go maps don't preserve key insertion order and tool-call argument
// objects are frequently re-dumped where key order is user-visible.
package partialjson

import "errors"

// ErrInvalidJSON is returned when input is neither a valid JSON value nor a
// healable truncated prefix of one.
var ErrInvalidJSON = errors.New("partialjson: invalid json")

// HealingMarker describes the sentinel injected while repairing a
// truncated prefix.
type HealingMarker struct {
	// Marker is the literal value injected at the truncation point.
	Marker string
	// DumpMarker is the substring that appears in the serialised healed
	// document marking where synthetic content begins. It may differ from
	// Marker because keys and string values require quoting.
	DumpMarker string
}

// Empty reports whether no healing occurred.
func (h HealingMarker) Empty() bool { return h.Marker == "" }

// Value is a parsed (possibly healed) JSON document: compact, order
// preserving bytes plus the marker used to produce them.
type Value struct {
	Raw    []byte
	Marker HealingMarker
}

func (v Value) String() string { return string(v.Raw) }
