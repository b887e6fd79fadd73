// Package dialect holds the per-model recipes that drive
// github.com/go-skynet/chatparser/pkg/chatparser's cursor primitives to
// recognise a specific chat-completion wire format. Each file registers one
// Dialect's handler from an init() func via chatparser.RegisterHandler,
// mirroring the driver-registration pattern database/sql uses so this
// package can import pkg/chatparser without pkg/chatparser needing to
// import pkg/dialect back.
package dialect

import "github.com/go-skynet/chatparser/pkg/partialregex"

// mustCompile panics on an invalid pattern, matching spec.md §4.A's
// "invalid pattern construction fails eagerly (programmer error)" — every
// pattern here is a fixed literal compiled once at package init, never
// derived from untrusted input.
func mustCompile(pattern string, anchoredAtStart bool) *partialregex.Pattern {
	p, err := partialregex.Compile(pattern, anchoredAtStart)
	if err != nil {
		panic(err)
	}
	return p
}
