package utils

import (
	"regexp"
	"strings"
)

var matchNewlines = regexp.MustCompile(`[\r\n]`)
var doubleQuoteRe = regexp.MustCompile(doubleQuote)

const doubleQuote = `"[^"\\]*(?:\\[\s\S][^"\\]*)*"`

func EscapeNewLines(s string) string {
	return doubleQuoteRe.ReplaceAllStringFunc(s, func(s string) string {
		return matchNewlines.ReplaceAllString(s, "\\n")
	})
}

// EscapeNewLinesMapped is EscapeNewLines plus a function translating a byte
// offset into the escaped string back onto s. A caller that parses the
// escaped copy (because encoding/json rejects literal newlines inside a
// string) can use it to re-anchor a consumed-length measurement onto the
// original, un-escaped buffer instead of the longer escaped one.
func EscapeNewLinesMapped(s string) (escaped string, toOriginal func(escapedPos int) int) {
	var b strings.Builder
	offsets := make([]int, 0, len(s)+1)

	last := 0
	for _, loc := range doubleQuoteRe.FindAllStringIndex(s, -1) {
		start, end := loc[0], loc[1]
		if start > last {
			b.WriteString(s[last:start])
			for i := last; i < start; i++ {
				offsets = append(offsets, i)
			}
		}
		for i := start; i < end; i++ {
			c := s[i]
			if c == '\n' || c == '\r' {
				b.WriteString(`\n`)
				offsets = append(offsets, i, i)
			} else {
				b.WriteByte(c)
				offsets = append(offsets, i)
			}
		}
		last = end
	}
	if last < len(s) {
		b.WriteString(s[last:])
		for i := last; i < len(s); i++ {
			offsets = append(offsets, i)
		}
	}
	offsets = append(offsets, len(s))

	escaped = b.String()
	toOriginal = func(escapedPos int) int {
		switch {
		case escapedPos <= 0:
			return 0
		case escapedPos >= len(offsets):
			return len(s)
		default:
			return offsets[escapedPos]
		}
	}
	return escaped, toOriginal
}
