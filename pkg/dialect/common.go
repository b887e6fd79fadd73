package dialect

import (
	"strconv"

	"github.com/go-skynet/chatparser/pkg/chatparser"
	"github.com/go-skynet/chatparser/pkg/partialjson"
	"github.com/tidwall/gjson"
)

var lineTokenPattern = mustCompile(`([^\n]+)\n`, true)

// consumeLineToken reads a bare token up to (and consuming) the next
// newline, the routing-token shape DeepSeek-R1's tool name and
// Functionary-v3.2's channel header both use.
func consumeLineToken(p *chatparser.Parser) (string, bool, error) {
	m, err := p.TryConsumeRegex(lineTokenPattern)
	if err != nil {
		return "", false, err
	}
	if m == nil {
		return "", false, nil
	}
	g := m.Groups[1]
	return p.Input()[g.Begin:g.End], true, nil
}

// consumeNameArgsJSON consumes a `{"<nameKey>": ..., "arguments": {...}}`
// object at pos, adds it as a tool call, and (if closer is non-empty) peels
// a trailing closer literal. It reports whether a call was recognised at
// all, so callers can fall back to plain content when it wasn't. When the
// object carries no "id" field, genID (may be nil) supplies one.
func consumeNameArgsJSON(p *chatparser.Parser, nameKey, closer string, genID func() string) (bool, error) {
	res, err := p.TryConsumeJSONWithDumpedArgs([]string{"arguments"})
	if err != nil {
		return false, err
	}
	if res == nil {
		return false, nil
	}
	name := gjson.GetBytes(res.Value.Raw, nameKey).String()
	if name == "" {
		return false, nil
	}
	args, ok := partialjson.DumpedArgsString(res.Value, "arguments")
	if !ok {
		args = "{}"
	}
	id := gjson.GetBytes(res.Value.Raw, "id").String()
	if id == "" && genID != nil {
		id = genID()
	}
	p.AddToolCall(name, id, args)

	if closer == "" {
		return true, nil
	}
	p.ConsumeSpaces()
	if !p.TryConsumeLiteral(closer) && p.IsPartial() {
		return true, p.Incomplete("missing closer: " + closer)
	}
	return true, nil
}

// consumeArrayOfCalls walks a JSON array of tool-call objects already
// consumed into res, adding one ToolCall per element. nameKey/idKey/argsKey
// name the element's fields (idKey may be "" when the dialect has none, in
// which case genID supplies one).
func consumeArrayOfCalls(p *chatparser.Parser, res *chatparser.DumpedArgsResult, nameKey, idKey, argsKey string, genID func() string) {
	idx := 0
	gjson.ParseBytes(res.Value.Raw).ForEach(func(_, call gjson.Result) bool {
		name := call.Get(nameKey).String()
		id := ""
		if idKey != "" {
			id = call.Get(idKey).String()
		}
		if id == "" && genID != nil {
			id = genID()
		}
		path := strconv.Itoa(idx) + "." + argsKey
		args, ok := partialjson.DumpedArgsString(res.Value, path)
		if !ok {
			args = "{}"
		}
		p.AddToolCall(name, id, args)
		idx++
		return true
	})
}
