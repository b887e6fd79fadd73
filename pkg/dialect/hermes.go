package dialect

import (
	"strings"

	"github.com/go-skynet/chatparser/pkg/chatparser"
	"github.com/go-skynet/chatparser/pkg/partialjson"
	"github.com/google/uuid"
)

func init() {
	chatparser.RegisterHandler(chatparser.Hermes2Pro, parseHermes2Pro)
}

// parseHermes2Pro handles the Hermes-2-Pro family of tool-call wrappers:
// <tool_call>, <tool>, <tools>, <response>, a ```json fenced block, the bare
// `<function=NAME>{args}</function>` / `<function name="NAME">...` forms, or
// a bare `{"name":...,"arguments":...}` object with no wrapper at all.
func parseHermes2Pro(p *chatparser.Parser) (chatparser.ChatMessage, error) {
	p.TryParseReasoning("<think>", "</think>")

	for {
		p.ConsumeSpaces()
		start := p.Pos()
		matched, err := tryHermesCall(p)
		if err != nil {
			return p.Result(), err
		}
		if !matched {
			if err := p.MoveTo(start); err != nil {
				return p.Result(), err
			}
			break
		}
	}

	p.AddContent(p.ConsumeRest())
	return p.Finish()
}

func tryHermesCall(p *chatparser.Parser) (bool, error) {
	switch {
	case p.TryConsumeLiteral("<tool_call>"):
		return consumeNameArgsJSON(p, "name", "</tool_call>", uuid.NewString)
	case p.TryConsumeLiteral("<tools>"):
		return consumeNameArgsJSON(p, "name", "</tools>", uuid.NewString)
	case p.TryConsumeLiteral("<tool>"):
		return consumeNameArgsJSON(p, "name", "</tool>", uuid.NewString)
	case p.TryConsumeLiteral("<response>"):
		return consumeNameArgsJSON(p, "name", "</response>", uuid.NewString)
	case p.TryConsumeLiteral("```json"):
		return consumeNameArgsJSON(p, "name", "```", uuid.NewString)
	case p.TryConsumeLiteral("<function="):
		return consumeFunctionEquals(p)
	case p.TryConsumeLiteral(`<function name="`):
		return consumeFunctionNamedAttr(p)
	default:
		return consumeNameArgsJSON(p, "name", "", uuid.NewString)
	}
}

func consumeFunctionEquals(p *chatparser.Parser) (bool, error) {
	closeIdx := strings.IndexByte(p.Input()[p.Pos():], '>')
	if closeIdx < 0 {
		if p.IsPartial() {
			return true, p.Incomplete("unterminated <function= name")
		}
		return false, nil
	}
	name := p.Input()[p.Pos() : p.Pos()+closeIdx]
	if err := p.MoveTo(p.Pos() + closeIdx + 1); err != nil {
		return false, err
	}
	return consumeBareJSONCall(p, name, "</function>")
}

func consumeFunctionNamedAttr(p *chatparser.Parser) (bool, error) {
	closeIdx := strings.IndexByte(p.Input()[p.Pos():], '"')
	if closeIdx < 0 {
		if p.IsPartial() {
			return true, p.Incomplete("unterminated function name attribute")
		}
		return false, nil
	}
	name := p.Input()[p.Pos() : p.Pos()+closeIdx]
	if err := p.MoveTo(p.Pos() + closeIdx + 1); err != nil {
		return false, err
	}
	if !p.TryConsumeLiteral(`">`) {
		if p.IsPartial() {
			return true, p.Incomplete(`missing "> after function name attribute`)
		}
		return false, nil
	}
	return consumeBareJSONCall(p, name, "</function>")
}

// consumeBareJSONCall consumes a JSON value that IS the arguments object
// itself (no "arguments" wrapper key), for the <function=NAME>{args} forms
// where the name already came from the tag rather than the JSON body.
func consumeBareJSONCall(p *chatparser.Parser, name, closer string) (bool, error) {
	res, err := p.TryConsumeJSONWithDumpedArgs(nil)
	if err != nil {
		return false, err
	}
	if res == nil {
		return false, nil
	}
	args, ok := partialjson.DumpedArgsString(res.Value, "")
	if !ok {
		args = "{}"
	}
	p.AddToolCall(name, uuid.NewString(), args)
	p.ConsumeSpaces()
	if !p.TryConsumeLiteral(closer) && p.IsPartial() {
		return true, p.Incomplete("missing closer: " + closer)
	}
	return true, nil
}
