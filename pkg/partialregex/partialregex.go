// Package partialregex matches a regular expression against a string that
// may be a truncated prefix of the text the caller actually wants to match.
// It reports not just whether the pattern matched, but whether the *lack*
// of a match is explained by the input simply running out before the
// pattern could finish — the "Partial" verdict a streaming parser needs to
// decide whether to wait for more tokens instead of giving up.
//
// The trick, following the construction in spec.md §4.A, is to compile a
// second pattern R(P) that recognizes reversed prefixes of P and run it
// against the reversed remainder of the input. A match there means some
// suffix of the input is a genuine prefix of what P would eventually
// accept.
package partialregex

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// MatchKind is the three-way verdict a partial-aware search produces.
type MatchKind int

const (
	// NoMatch means the pattern cannot match at this position no matter
	// what text follows.
	NoMatch MatchKind = iota
	// Partial means the input ends before the pattern could complete, but
	// everything seen so far is consistent with a longer input matching.
	Partial
	// Full means the pattern matched completely.
	Full
)

func (k MatchKind) String() string {
	switch k {
	case NoMatch:
		return "NoMatch"
	case Partial:
		return "Partial"
	case Full:
		return "Full"
	default:
		return "Unknown"
	}
}

// Group is a single captured span, byte-offset into the original input
// passed to Search.
type Group struct {
	Begin int
	End   int
}

func (g Group) Len() int { return g.End - g.Begin }

// Match is the result of a partial-aware search.
type Match struct {
	Kind MatchKind
	// Groups[0] is always the overall match span. For Kind == Partial it
	// is the "matched so far" span and there are no sub-captures. For
	// Kind == Full it mirrors the underlying engine's capture groups.
	Groups []Group
}

// Pattern is a compiled partial-aware regular expression.
type Pattern struct {
	source         string
	anchoredAtStart bool
	forward        *regexp2.Regexp
	reversed       *regexp2.Regexp
}

// Compile parses pattern (a PCRE/regexp2 subset: literals, escapes,
// character classes, '.', '(...)'/'(?:...)' groups, '|' alternation, and
// '+' '*' '?' '{m,n}' quantifiers with optional lazy '?') and builds both
// the forward matcher and its reversed-partial counterpart.
//
// If anchoredAtStart is true, Search only reports matches (Full or Partial)
// that begin exactly at the requested start position.
func Compile(pattern string, anchoredAtStart bool) (*Pattern, error) {
	forward, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("partialregex: invalid pattern %q: %w", pattern, err)
	}

	reversedSrc, err := Reverse(pattern)
	if err != nil {
		return nil, fmt.Errorf("partialregex: cannot build reversed form of %q: %w", pattern, err)
	}
	reversed, err := regexp2.Compile(reversedSrc, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("partialregex: reversed pattern %q failed to compile (from %q): %w", reversedSrc, pattern, err)
	}

	return &Pattern{
		source:          pattern,
		anchoredAtStart: anchoredAtStart,
		forward:         forward,
		reversed:        reversed,
	}, nil
}

// String returns the source pattern text Compile was called with.
func (p *Pattern) String() string { return p.source }

// Search looks for p starting no earlier than startPos in input. It first
// tries a complete forward match; failing that, it checks whether the
// remainder of input is a valid (possibly empty) prefix of a future match.
func (p *Pattern) Search(input string, startPos int) (Match, error) {
	if startPos < 0 || startPos > len(input) {
		return Match{}, fmt.Errorf("partialregex: start position %d out of range for input of length %d", startPos, len(input))
	}

	if m, ok, err := p.searchForward(input, startPos); err != nil {
		return Match{}, err
	} else if ok {
		return m, nil
	}

	suffix := input[startPos:]
	reversedSuffix := reverseString(suffix)
	rm, err := p.reversed.FindStringMatch(reversedSuffix)
	if err != nil {
		return Match{}, fmt.Errorf("partialregex: reversed match against %q failed: %w", p.source, err)
	}
	if rm == nil || rm.Index != 0 {
		return Match{Kind: NoMatch}, nil
	}
	g := rm.Groups()[1]
	if len(g.Captures) == 0 {
		return Match{Kind: NoMatch}, nil
	}
	matchedLen := len(g.Captures[0].String()) // byte length; reverseString swaps whole runes so byte counts are preserved
	begin := len(input) - matchedLen
	if p.anchoredAtStart && begin != startPos {
		return Match{Kind: NoMatch}, nil
	}
	return Match{
		Kind:   Partial,
		Groups: []Group{{Begin: begin, End: len(input)}},
	}, nil
}

func (p *Pattern) searchForward(input string, startPos int) (Match, bool, error) {
	suffix := input[startPos:]
	m, err := p.forward.FindStringMatch(suffix)
	if err != nil {
		return Match{}, false, fmt.Errorf("partialregex: forward match against %q failed: %w", p.source, err)
	}
	if m == nil {
		return Match{}, false, nil
	}
	if p.anchoredAtStart && m.Index != 0 {
		return Match{}, false, nil
	}

	groups := make([]Group, 0, len(m.Groups()))
	for _, grp := range m.Groups() {
		if len(grp.Captures) == 0 {
			groups = append(groups, Group{Begin: -1, End: -1})
			continue
		}
		c := grp.Captures[0]
		// regexp2 reports Index in runes, not bytes; convert against the
		// byte-indexed string we're actually slicing.
		byteBegin := runeOffsetToByteOffset(suffix, c.Index)
		byteEnd := byteBegin + len(c.String())
		groups = append(groups, Group{Begin: startPos + byteBegin, End: startPos + byteEnd})
	}
	return Match{Kind: Full, Groups: groups}, true, nil
}

// runeOffsetToByteOffset converts a rune-counted offset (as reported by
// regexp2, which matches over []rune) into a byte offset into s.
func runeOffsetToByteOffset(s string, runeOffset int) int {
	if runeOffset <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == runeOffset {
			return i
		}
		n++
	}
	return len(s)
}

func reverseString(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
