package partialjson

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// PruneOutsidePaths walks value and replaces any leaf that was synthesised
// by healing (i.e. contains marker) with the literal 1, and removes any
// object key/value pair whose key contains marker, except where the path
// falls under one of argsPaths — those keep their partial content untouched. This isolates a tool call's argument object from
// incidental healing that landed elsewhere in the structure.
//
// Recursion is depth-first, object keys before array elements, matching
// the order the value was originally healed in.
func PruneOutsidePaths(value []byte, marker string, argsPaths []string) []byte {
	if marker == "" {
		return value
	}
	result := gjson.ParseBytes(value)
	out := string(value)
	pruned, changed := pruneNode(out, result, "", marker, argsPaths)
	if !changed {
		return value
	}
	return []byte(pruned)
}

func pruneNode(doc string, v gjson.Result, path, marker string, argsPaths []string) (string, bool) {
	if underWhitelist(path, argsPaths) {
		return doc, false
	}

	switch {
	case v.IsObject():
		changed := false
		v.ForEach(func(key, val gjson.Result) bool {
			childPath := joinPath(path, key.String())
			if strings.Contains(key.String(), marker) && !underWhitelist(childPath, argsPaths) {
				// A key seeded by healing: drop the whole synthetic pair.
				if newDoc, err := sjson.Delete(doc, childPath); err == nil {
					doc = newDoc
					changed = true
				}
				return true
			}
			newDoc, did := pruneNode(doc, val, childPath, marker, argsPaths)
			if did {
				doc = newDoc
				changed = true
			}
			return true
		})
		return doc, changed
	case v.IsArray():
		changed := false
		idx := 0
		v.ForEach(func(_, val gjson.Result) bool {
			childPath := joinPath(path, strconv.Itoa(idx))
			newDoc, did := pruneNode(doc, val, childPath, marker, argsPaths)
			if did {
				doc = newDoc
				changed = true
			}
			idx++
			return true
		})
		return doc, changed
	default:
		if path == "" {
			return doc, false
		}
		if !strings.Contains(v.Raw, marker) {
			return doc, false
		}
		newDoc, err := sjson.SetRaw(doc, path, "1")
		if err != nil {
			return doc, false
		}
		return newDoc, true
	}
}

func underWhitelist(path string, argsPaths []string) bool {
	if path == "" {
		return false
	}
	for _, p := range argsPaths {
		if p == path || strings.HasPrefix(path, p+".") {
			return true
		}
	}
	return false
}

func joinPath(base, seg string) string {
	if base == "" {
		return seg
	}
	return base + "." + seg
}
