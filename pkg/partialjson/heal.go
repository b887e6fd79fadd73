package partialjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

type stackKind int

const (
	stackObject stackKind = iota
	stackArray
)

type stackFrame struct {
	kind        stackKind
	awaitingKey bool // only meaningful for stackObject
	hasContent  bool // at least one element/pair has already been read
	keyStart    int  // byte offset where the current pending key began (stackObject only)
}

// Parse consumes a JSON value from the front of input. On a clean, complete
// value it returns the compacted bytes, an empty HealingMarker, and the
// number of bytes of input the value occupied. On a truncated prefix it
// heals the value using marker and reports consumed = len(input), since the
// remainder of input is considered part of the in-progress value.
func Parse(input string, marker string) (Value, int, error) {
	dec := json.NewDecoder(strings.NewReader(input))
	dec.UseNumber()

	var stack []stackFrame
	lastGood := 0

	for {
		offsetBefore := int(dec.InputOffset())
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Reached with an empty stack only when input contained no
				// value at all (a complete top-level value returns inside
				// the loop below, before Token() is called again).
				return heal(input, lastGood, stack, marker)
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return heal(input, offsetBefore, stack, marker)
			}
			// A genuine syntax error (not simply running out of input).
			// Still try to heal from whatever was last consistent, since a
			// dangling comma or stray character right at the truncation
			// boundary is a normal streaming artifact, not invalid JSON.
			if len(stack) > 0 || lastGood > 0 {
				return heal(input, lastGood, stack, marker)
			}
			return Value{}, 0, ErrInvalidJSON
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, stackFrame{kind: stackObject, awaitingKey: true})
			case '[':
				stack = append(stack, stackFrame{kind: stackArray})
			case '}', ']':
				if len(stack) == 0 {
					return Value{}, 0, ErrInvalidJSON
				}
				stack = stack[:len(stack)-1]
				noteContainerClosed(&stack)
			}
		default:
			noteScalar(&stack, offsetBefore)
		}

		lastGood = int(dec.InputOffset())
		if len(stack) == 0 {
			// A complete top-level value has been read. Whether anything
			// trails it is the driver's concern (finish()'s
			// UnexpectedTrailingContent check), not this parser's.
			return Value{Raw: compact(input[:lastGood])}, lastGood, nil
		}
	}
}

// noteScalar records that a key or value scalar was just read by the
// decoder, updating the enclosing frame's awaitingKey/hasContent/keyStart
// bookkeeping. offsetBefore is the byte offset where this scalar's token
// started, captured before Token() was called.
func noteScalar(stack *[]stackFrame, offsetBefore int) {
	if len(*stack) == 0 {
		return
	}
	top := &(*stack)[len(*stack)-1]
	if top.kind == stackObject {
		if top.awaitingKey {
			top.awaitingKey = false
			top.keyStart = offsetBefore
		} else {
			top.awaitingKey = true
			top.hasContent = true
		}
	} else {
		top.hasContent = true
	}
}

// noteContainerClosed updates the new top frame (the parent of whatever
// container just closed) to reflect that its pending value slot was filled.
func noteContainerClosed(stack *[]stackFrame) {
	if len(*stack) == 0 {
		return
	}
	top := &(*stack)[len(*stack)-1]
	if top.kind == stackObject {
		top.awaitingKey = true
	}
	top.hasContent = true
}

type trailKind int

const (
	trailEmpty trailKind = iota
	trailString
	trailNumber
	trailKeyword
)

// fragInfo is the classification of the raw text following the last
// successfully tokenized position: whether a structural comma and/or colon
// were typed before the truncation, and what kind of content (if any)
// follows them.
type fragInfo struct {
	hadComma bool
	hadColon bool
	kind     trailKind
	body     string // text after the kind's leading character, if applicable
}

func classifyTrailing(frag string) fragInfo {
	rest := strings.TrimLeft(frag, " \t\n\r")

	var info fragInfo
	if strings.HasPrefix(rest, ",") {
		info.hadComma = true
		rest = strings.TrimLeft(rest[1:], " \t\n\r")
	}
	if strings.HasPrefix(rest, ":") {
		info.hadColon = true
		rest = strings.TrimLeft(rest[1:], " \t\n\r")
	}

	if rest == "" {
		info.kind = trailEmpty
		return info
	}
	switch rest[0] {
	case '"':
		info.kind = trailString
		info.body = rest[1:]
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		info.kind = trailNumber
		info.body = rest
	case 't', 'f', 'n':
		info.kind = trailKeyword
		info.body = rest
	default:
		info.kind = trailEmpty
	}
	return info
}

// unescapedStringContent returns the literal text of a (possibly
// unterminated) string body starting right after the opening quote.
func unescapedStringContent(body string) string {
	var b strings.Builder
	escaped := false
	for _, r := range body {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			b.WriteRune(r)
			continue
		}
		if r == '"' {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// heal builds a valid completion for input[:lastGood] plus whatever
// trailing fragment follows, given the currently open container stack, and
// returns the assembled Value.
func heal(input string, lastGood int, stack []stackFrame, marker string) (Value, int, error) {
	if len(stack) == 0 {
		// A bare top-level scalar was truncated with nothing to heal it
		// into; only a string can still be salvaged.
		frag := input[lastGood:]
		info := classifyTrailing(frag)
		if info.kind != trailString {
			return Value{}, 0, ErrInvalidJSON
		}
		content := unescapedStringContent(info.body)
		scaffold := `"` + content + marker + `"`
		return finish(input[:lastGood], scaffold, marker, marker, len(input))
	}

	frag := input[lastGood:]
	top := stack[len(stack)-1]
	info := classifyTrailing(frag)
	comma := ""
	if info.hadComma {
		comma = ","
	}
	var fragmentScaffold string
	var dumpMarker string

	switch top.kind {
	case stackObject:
		if top.awaitingKey {
			switch info.kind {
			case trailString:
				content := unescapedStringContent(info.body)
				fragmentScaffold = comma + `"` + content + marker + `":1`
				// dumpMarker is the bare marker, not content+marker: callers
				// slice the dump at dumpMarker's position to recover the real
				// prefix, so it must land after the salvaged content, not
				// swallow it too.
				dumpMarker = marker
			default:
				if !top.hasContent {
					// Freshly opened object: always seed a placeholder pair.
					fragmentScaffold = comma + `"` + marker + `":1`
					dumpMarker = `"` + marker + `"`
				} else if info.hadComma {
					// A comma was typed but the next key never started.
					fragmentScaffold = `,"` + marker + `":1`
					dumpMarker = `"` + marker + `"`
				} else {
					// Ended cleanly after a complete pair; nothing dangling.
					fragmentScaffold = ""
					dumpMarker = ""
				}
			}
		} else {
			switch info.kind {
			case trailString:
				content := unescapedStringContent(info.body)
				fragmentScaffold = `:"` + content + marker + `"`
				dumpMarker = marker
			case trailEmpty:
				// Key and colon present, value never started.
				fragmentScaffold = `:"` + marker + `"`
				dumpMarker = `"` + marker + `"`
			default:
				// trailNumber or trailKeyword: a value started but can't be
				// salvaged. The whole dangling key is dropped by cutting
				// the prefix back to before it began, rather than just
				// omitting its value (which would leave a bare key).
				var closers strings.Builder
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i].kind == stackObject {
						closers.WriteByte('}')
					} else {
						closers.WriteByte(']')
					}
				}
				return finish(input[:top.keyStart], closers.String(), "", marker, len(input))
			}
		}
	case stackArray:
		switch info.kind {
		case trailString:
			content := unescapedStringContent(info.body)
			fragmentScaffold = comma + `"` + content + marker + `"`
			dumpMarker = marker
		case trailEmpty:
			if info.hadComma {
				// A comma was typed but the next element never started.
				fragmentScaffold = `,"` + marker + `"`
				dumpMarker = `"` + marker + `"`
			} else {
				fragmentScaffold = ""
				dumpMarker = ""
			}
		default:
			// trailNumber or trailKeyword: unusable partial element, drop it.
			fragmentScaffold = ""
			dumpMarker = ""
		}
	}

	var closers strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].kind == stackObject {
			closers.WriteByte('}')
		} else {
			closers.WriteByte(']')
		}
	}

	return finish(input[:lastGood], fragmentScaffold+closers.String(), dumpMarker, marker, len(input))
}

func finish(prefix, scaffoldTail, dumpMarker, marker string, consumed int) (Value, int, error) {
	full := prefix + scaffoldTail
	if !json.Valid([]byte(full)) {
		return Value{}, 0, ErrInvalidJSON
	}
	raw := compact(full)
	return Value{
		Raw: raw,
		Marker: HealingMarker{
			Marker:     marker,
			DumpMarker: dumpMarker,
		},
	}, consumed, nil
}

func compact(s string) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		// Construction guarantees valid JSON reaches here; fall back to the
		// uncompacted text rather than panicking on a defensive path.
		return []byte(s)
	}
	return buf.Bytes()
}
