package dialect

import (
	"encoding/json"

	"github.com/go-skynet/chatparser/pkg/chatparser"
	"github.com/go-skynet/chatparser/pkg/partialjson"
)

func init() {
	chatparser.RegisterHandler(chatparser.FunctionaryV32, parseFunctionaryV32)
}

// parseFunctionaryV32 reads the routing token that opens every Functionary-
// v3.2 turn: "all\n" for plain content, "python\n<code>" for an ipython
// call (wrapped into a synthetic {"code": ...} arguments object), or
// "NAME\n{json}" for a regular tool call.
func parseFunctionaryV32(p *chatparser.Parser) (chatparser.ChatMessage, error) {
	p.ConsumeSpaces()

	if p.TryConsumeLiteral("all\n") {
		p.AddContent(p.ConsumeRest())
		return p.Finish()
	}

	start := p.Pos()
	route, ok, err := consumeLineToken(p)
	if err != nil {
		return p.Result(), err
	}
	if !ok {
		p.AddContent(p.ConsumeRest())
		return p.Finish()
	}

	if route == "python" {
		code := p.ConsumeRest()
		codeJSON, _ := json.Marshal(code)
		p.AddToolCall("python", "", `{"code": `+string(codeJSON)+`}`)
		return p.Finish()
	}

	res, err := p.TryConsumeJSONWithDumpedArgs(nil)
	if err != nil {
		return p.Result(), err
	}
	if res == nil {
		if err := p.MoveTo(start); err != nil {
			return p.Result(), err
		}
		p.AddContent(p.ConsumeRest())
		return p.Finish()
	}
	args, ok := partialjson.DumpedArgsString(res.Value, "")
	if !ok {
		args = "{}"
	}
	p.AddToolCall(route, "", args)
	return p.Finish()
}
