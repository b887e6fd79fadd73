package chatparser

import (
	"fmt"

	"github.com/go-skynet/chatparser/internal/clog"
)

// HandlerFunc is a dialect's parse routine: it drives p's primitives to
// populate p's result, then returns it via p.Finish(). Handlers signal a
// truncated/ambiguous parse by returning the error from p.Incomplete.
type HandlerFunc func(p *Parser) (ChatMessage, error)

var handlers = map[Dialect]HandlerFunc{}

// RegisterHandler wires a dialect's parse routine into the public Parse
// dispatcher. Dialect packages call this from an init() func, the same
// registration pattern database/sql uses for drivers — it lets
// pkg/chatparser expose the single public entry point spec.md §6 names
// without importing pkg/dialect (which itself imports pkg/chatparser for
// the primitives above).
func RegisterHandler(d Dialect, fn HandlerFunc) {
	handlers[d] = fn
}

// Parse is the public entry point (spec.md §6): it builds a cursor over
// input and dispatches to whichever dialect handler syntax.Format named.
//
// When isPartial is true and the handler signals IncompleteError, that is
// not reported as a failure: the partial ChatMessage already finalised by
// Incomplete() is returned instead, since spec.md §7 requires a
// well-formed (if truncated) message on every partial parse. When isPartial
// is false, any error aborts the parse and the zero ChatMessage is
// returned.
func Parse(input string, isPartial bool, syntax ChatSyntax) (ChatMessage, error) {
	fn, ok := handlers[syntax.Format]
	if !ok {
		clog.Warn("chatparser: no handler registered for dialect", "dialect", syntax.Format)
		return ChatMessage{}, fmt.Errorf("chatparser: no handler registered for dialect %q", syntax.Format)
	}

	p := NewParser(input, isPartial, syntax)
	msg, err := fn(p)
	if err == nil {
		return msg, nil
	}

	if isPartial {
		if _, ok := err.(*IncompleteError); ok {
			// Incomplete() already ran Finish() against p.result as a
			// side effect; that's the well-formed partial message spec.md
			// §7 requires, regardless of what the handler itself returned.
			return p.Result(), nil
		}
	}
	return ChatMessage{}, err
}
