package chatparser

import (
	"strings"
	"unicode"

	"github.com/go-skynet/chatparser/pkg/healingid"
	"github.com/go-skynet/chatparser/pkg/partialjson"
	"github.com/go-skynet/chatparser/pkg/partialregex"
	"github.com/go-skynet/chatparser/pkg/reasoning"
	"github.com/go-skynet/chatparser/pkg/utils"
)

// Parser is the mutable cursor a dialect handler drives. It owns the raw
// input, the current read position, and the ChatMessage being assembled.
//
// A Parser is used for exactly one parse attempt and is not safe for
// concurrent use, matching the single-threaded, non-suspending model in
// spec.md §5.
type Parser struct {
	input         string
	pos           int
	isPartial     bool
	syntax        ChatSyntax
	result        ChatMessage
	healingMarker string
}

// NewParser creates a cursor over input. The healing marker is generated
// deterministically (github.com/go-skynet/chatparser/pkg/healingid) so that
// golden-output tests don't depend on wall-clock randomness, while still
// satisfying the "does not occur in input" invariant (spec.md §3).
func NewParser(input string, isPartial bool, syntax ChatSyntax) *Parser {
	return &Parser{
		input:         input,
		pos:           0,
		isPartial:     isPartial,
		syntax:        syntax,
		healingMarker: healingid.Generate(input),
		result:        ChatMessage{Role: "assistant"},
	}
}

func (p *Parser) Pos() int           { return p.pos }
func (p *Parser) Input() string      { return p.input }
func (p *Parser) IsPartial() bool    { return p.isPartial }
func (p *Parser) Syntax() ChatSyntax { return p.syntax }
func (p *Parser) HealingMarker() string { return p.healingMarker }

// MoveTo repositions the cursor. It is the only way pos can move backward,
// used by handlers that need to retry a sub-parse from an earlier point.
func (p *Parser) MoveTo(pos int) error {
	if pos < 0 || pos > len(p.input) {
		return &BadPositionError{Pos: pos, Len: len(p.input)}
	}
	p.pos = pos
	return nil
}

// ConsumeSpaces advances past ASCII whitespace and reports whether any was
// consumed.
func (p *Parser) ConsumeSpaces() bool {
	start := p.pos
	for p.pos < len(p.input) && isASCIISpace(p.input[p.pos]) {
		p.pos++
	}
	return p.pos > start
}

func isASCIISpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// TryConsumeLiteral advances past s iff it appears at pos.
func (p *Parser) TryConsumeLiteral(s string) bool {
	if s == "" {
		return true
	}
	if p.pos+len(s) > len(p.input) {
		return false
	}
	if p.input[p.pos:p.pos+len(s)] != s {
		return false
	}
	p.pos += len(s)
	return true
}

// ConsumeLiteral is TryConsumeLiteral but raises Incomplete when s is
// absent.
func (p *Parser) ConsumeLiteral(s string) error {
	if p.TryConsumeLiteral(s) {
		return nil
	}
	return p.Incomplete("expected literal: " + s)
}

// FoundLiteral is the result of a successful TryFindRegex/TryFindLiteral.
type FoundLiteral struct {
	Prelude string
	Match   RegexMatch
}

// TryFindRegex searches pattern starting from pos (pattern should be
// compiled with anchoredAtStart=false). On a Full match it advances pos
// past the match and returns the text between the old pos and the match as
// Prelude. On a Partial match it raises Incomplete when isPartial, else
// returns (nil, nil). On no match it returns (nil, nil).
func (p *Parser) TryFindRegex(pattern *partialregex.Pattern) (*FoundLiteral, error) {
	m, err := pattern.Search(p.input, p.pos)
	if err != nil {
		return nil, &InvalidRegexPatternError{Pattern: pattern.String(), Err: err}
	}
	switch m.Kind {
	case partialregex.Full:
		begin := m.Groups[0].Begin
		end := m.Groups[0].End
		prelude := p.input[p.pos:begin]
		p.pos = end
		return &FoundLiteral{Prelude: prelude, Match: toRegexMatch(m)}, nil
	case partialregex.Partial:
		if p.isPartial {
			return nil, p.Incomplete("partial regex match: " + pattern.String())
		}
		return nil, nil
	default:
		return nil, nil
	}
}

// ConsumeRegex requires pattern (compiled with anchoredAtStart=true) to
// match exactly at pos; it advances pos past the match or raises
// Incomplete.
func (p *Parser) ConsumeRegex(pattern *partialregex.Pattern) (RegexMatch, error) {
	m, err := p.TryConsumeRegex(pattern)
	if err != nil {
		return RegexMatch{}, err
	}
	if m == nil {
		return RegexMatch{}, p.Incomplete("expected pattern: " + pattern.String())
	}
	return *m, nil
}

// TryConsumeRegex is ConsumeRegex without the failure on no-match; nil, nil
// is returned when the pattern doesn't match at pos (and isn't partial).
func (p *Parser) TryConsumeRegex(pattern *partialregex.Pattern) (*RegexMatch, error) {
	m, err := pattern.Search(p.input, p.pos)
	if err != nil {
		return nil, &InvalidRegexPatternError{Pattern: pattern.String(), Err: err}
	}
	switch m.Kind {
	case partialregex.Full:
		if m.Groups[0].Begin != p.pos {
			return nil, nil
		}
		p.pos = m.Groups[0].End
		rm := toRegexMatch(m)
		return &rm, nil
	case partialregex.Partial:
		if m.Groups[0].Begin != p.pos {
			return nil, nil
		}
		if p.isPartial {
			return nil, p.Incomplete("partial regex match: " + pattern.String())
		}
		return nil, nil
	default:
		return nil, nil
	}
}

func toRegexMatch(m partialregex.Match) RegexMatch {
	groups := make([]StringRange, len(m.Groups))
	for i, g := range m.Groups {
		groups[i] = StringRange{Begin: g.Begin, End: g.End}
	}
	kind := NoMatch
	switch m.Kind {
	case partialregex.Full:
		kind = Full
	case partialregex.Partial:
		kind = Partial
	}
	return RegexMatch{Kind: kind, Groups: groups}
}

// TryConsumeJSON consumes a JSON value at pos. A clean value is returned
// and pos advances past it. A value healed from a truncated prefix while
// the parser is NOT partial (no more input is ever coming, so the healed
// guess is the final answer) is returned and pos advances to the end of
// input. A truncated value while
// the parser IS partial raises Incomplete instead of returning a guess,
// since more tokens may still arrive — callers that want the in-progress
// value itself should use TryConsumeJSONWithDumpedArgs.
func (p *Parser) TryConsumeJSON(argsPaths []string) (*partialjson.Value, error) {
	p.ConsumeSpaces()
	if p.pos >= len(p.input) {
		return nil, nil
	}
	if p.input[p.pos] != '{' && p.input[p.pos] != '[' {
		return nil, nil
	}

	// Escaped narrowly to this JSON-bound slice, not the whole buffer: a raw
	// model completion can contain literal newlines inside what's meant to
	// be a JSON string value, which encoding/json (and therefore
	// pkg/partialjson) rejects outright, but free-form content elsewhere in
	// input must keep its real newlines (pkg/functions/parse.go escapes the
	// same narrow way, right before the json.Unmarshal call). toRaw
	// re-anchors the parser's consumed count onto the un-escaped input,
	// since escaping can lengthen the string.
	escaped, toRaw := utils.EscapeNewLinesMapped(p.input[p.pos:])
	v, consumed, err := partialjson.ParseWithArgsPaths(escaped, p.healingMarker, argsPaths)
	if err != nil {
		return nil, &InvalidJsonError{Err: err}
	}
	if !v.Marker.Empty() && p.isPartial {
		return nil, p.Incomplete("truncated json")
	}
	p.pos += toRaw(consumed)
	return &v, nil
}

// DumpedArgsResult is the outcome of TryConsumeJSONWithDumpedArgs.
type DumpedArgsResult struct {
	Value     partialjson.Value
	IsPartial bool
}

// TryConsumeJSONWithDumpedArgs consumes a JSON value at pos like
// TryConsumeJSON, but always returns it (even truncated, even while
// isPartial), along with whether it was healed. This is the primitive
// dialect handlers use to build a tool call's stringified arguments field
// while the value is still streaming in.
func (p *Parser) TryConsumeJSONWithDumpedArgs(argsPaths []string) (*DumpedArgsResult, error) {
	p.ConsumeSpaces()
	if p.pos >= len(p.input) {
		return nil, nil
	}
	if p.input[p.pos] != '{' && p.input[p.pos] != '[' {
		return nil, nil
	}

	escaped, toRaw := utils.EscapeNewLinesMapped(p.input[p.pos:])
	v, consumed, err := partialjson.ParseWithArgsPaths(escaped, p.healingMarker, argsPaths)
	if err != nil {
		return nil, &InvalidJsonError{Err: err}
	}
	p.pos += toRaw(consumed)
	return &DumpedArgsResult{Value: v, IsPartial: !v.Marker.Empty()}, nil
}

// TryParseReasoning extracts a dialect's reasoning block into
// ReasoningContent (or, when ReasoningInContent is set, appends the
// tag-wrapped text into Content instead). It reports whether a reasoning
// block was recognised at all.
//
// The actual tag scanning, trimming, and unclosed-tag handling is delegated
// to reasoning.ExtractReasoningWithConfig rather than hand-rolled here: it
// already knows every thinking-tag pair these dialects use and how to fold
// an implicit thinking_forced_open tag in via PrependThinkingTokenIfNeeded.
// This just bounds that to the single open/close pair the calling dialect
// expects and advances the cursor past that pair.
func (p *Parser) TryParseReasoning(openTag, closeTag string) bool {
	if p.syntax.ReasoningFormat == ReasoningFormatNone {
		return false
	}

	remaining := p.input[p.pos:]
	thinkingStartToken := ""
	searchFrom := 0
	switch {
	case p.syntax.ThinkingForcedOpen:
		thinkingStartToken = openTag
	case strings.HasPrefix(remaining, openTag):
		searchFrom = len(openTag)
	default:
		return false
	}

	// An unclosed tag only counts as reasoning while more input may still
	// arrive (spec.md §4.C); once the stream is final it falls through to
	// be parsed as ordinary content instead. ExtractReasoningWithConfig
	// always takes an unclosed tag to the end of the string, so guard that
	// case here before handing off to it.
	if !p.isPartial && !strings.Contains(remaining[searchFrom:], closeTag) {
		return false
	}

	// Only this dialect's first open/close pair is handed over, so tag-like
	// text later in the input stays for the handler. The whole block is
	// reasoning (an unclosed block runs to the end of input), so the cursor
	// moves past all of it.
	block := remaining
	if idx := strings.Index(remaining[searchFrom:], closeTag); idx >= 0 {
		block = remaining[:searchFrom+idx+len(closeTag)]
	}
	reasoningText, _ := reasoning.ExtractReasoningWithConfig(block, thinkingStartToken, reasoning.Config{})
	p.pos += len(block)

	if p.syntax.ReasoningInContent {
		p.AddContent(openTag + reasoningText + closeTag)
	} else {
		p.AddReasoningContent(reasoningText)
	}
	return true
}

// ConsumeRest drains from pos to the end of input.
func (p *Parser) ConsumeRest() string {
	if p.pos >= len(p.input) {
		return ""
	}
	rest := p.input[p.pos:]
	p.pos = len(p.input)
	return rest
}

func (p *Parser) AddContent(s string) {
	p.result.Content += s
}

func (p *Parser) AddReasoningContent(s string) {
	p.result.ReasoningContent += s
}

// AddToolCall appends a tool call, applying the healing-boundary
// normalisation described in spec.md §4.C/§9: when healingMarker is
// non-empty, arguments is truncated to the marker before storing, and the
// special case arguments == "\"" (a string healed right after its opening
// quote) collapses to empty. Returns false (no-op) when name is empty.
func (p *Parser) AddToolCall(name, id, arguments string, healingMarker ...string) bool {
	if name == "" {
		return false
	}
	if len(healingMarker) > 0 && healingMarker[0] != "" {
		if idx := strings.Index(arguments, healingMarker[0]); idx >= 0 {
			arguments = arguments[:idx]
		}
	}
	if arguments == `"` {
		arguments = ""
	}
	p.result.ToolCalls = append(p.result.ToolCalls, ToolCall{Name: name, ID: id, Arguments: arguments})
	return true
}

// AddToolCalls appends each call via AddToolCall, skipping any with an
// empty name.
func (p *Parser) AddToolCalls(calls []ToolCall) {
	for _, c := range calls {
		p.AddToolCall(c.Name, c.ID, c.Arguments)
	}
}

// Result returns the ChatMessage accumulated so far, without the
// end-of-input / whitespace checks Finish applies.
func (p *Parser) Result() ChatMessage { return p.result }

// Finish validates that a non-partial parse consumed the whole input, then
// strips the whitespace invariants spec.md §3 requires on ChatMessage.
func (p *Parser) Finish() (ChatMessage, error) {
	if !p.isPartial && p.pos < len(p.input) {
		return p.result, &UnexpectedTrailingContentError{Pos: p.pos, Len: len(p.input)}
	}
	p.result.ReasoningContent = strings.TrimFunc(p.result.ReasoningContent, unicode.IsSpace)
	if len(p.result.ToolCalls) > 0 {
		p.result.Content = strings.TrimFunc(p.result.Content, unicode.IsSpace)
	}
	return p.result, nil
}

// Incomplete is how a handler signals it cannot proceed further. When the
// parser is partial, whatever has been accumulated so far is finalised via
// Finish (so a partial ChatMessage is still available to the caller) before
// the error propagates; callers distinguish this case to treat it as a
// successful partial result rather than a hard failure (spec.md §7).
func (p *Parser) Incomplete(reason string) error {
	if p.isPartial {
		p.Finish()
	}
	return &IncompleteError{Reason: reason}
}
