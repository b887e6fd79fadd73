package partialjson

import "github.com/tidwall/gjson"

func subtreeAt(raw []byte, path string) (string, bool) {
	if path == "" {
		return string(raw), true
	}
	r := gjson.GetBytes(raw, path)
	if !r.Exists() {
		return "", false
	}
	return r.Raw, true
}

// ParseWithArgsPaths parses input like Parse, then — if healing occurred and
// argsPaths is non-empty — prunes any synthetic leaf outside those paths
// back down to the marker placeholder 1 and drops any synthetic key there
// (see PruneOutsidePaths), so incidental truncation elsewhere
// in the structure doesn't leak into paths the caller didn't ask about.
func ParseWithArgsPaths(input, marker string, argsPaths []string) (Value, int, error) {
	v, consumed, err := Parse(input, marker)
	if err != nil {
		return Value{}, 0, err
	}
	if !v.Marker.Empty() && len(argsPaths) > 0 {
		v.Raw = PruneOutsidePaths(v.Raw, marker, argsPaths)
	}
	return v, consumed, nil
}

// DumpedArgsString extracts the JSON-stringified form of the subtree at
// path, trimming at the marker's dump boundary if the subtree itself was
// healed, so the resulting string is the real prefix followed by no
// synthetic tail.
func DumpedArgsString(v Value, path string) (string, bool) {
	sub, ok := subtreeAt(v.Raw, path)
	if !ok {
		return "", false
	}
	if v.Marker.Empty() || v.Marker.DumpMarker == "" {
		return sub, true
	}
	if idx := indexOf(sub, v.Marker.DumpMarker); idx >= 0 {
		return sub[:idx], true
	}
	return sub, true
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
