package dialect

import (
	"github.com/go-skynet/chatparser/pkg/chatparser"
	"github.com/go-skynet/chatparser/pkg/partialjson"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

func init() {
	chatparser.RegisterHandler(chatparser.Generic, parseGeneric)
}

// parseGeneric is the fallback dialect: either
// {"tool_call":{"name":...,"arguments":{...}}} or {"response":"..."}. Models
// that emit neither just get their raw output as content.
func parseGeneric(p *chatparser.Parser) (chatparser.ChatMessage, error) {
	p.ConsumeSpaces()
	start := p.Pos()

	res, err := p.TryConsumeJSONWithDumpedArgs([]string{"tool_call.arguments"})
	if err != nil {
		return p.Result(), err
	}
	if res == nil {
		p.AddContent(p.ConsumeRest())
		return p.Finish()
	}

	raw := res.Value.Raw
	if name := gjson.GetBytes(raw, "tool_call.name").String(); name != "" {
		args, ok := partialjson.DumpedArgsString(res.Value, "tool_call.arguments")
		if !ok {
			args = "{}"
		}
		id := gjson.GetBytes(raw, "tool_call.id").String()
		if id == "" {
			id = uuid.NewString()
		}
		p.AddToolCall(name, id, args)

		if res.IsPartial && p.IsPartial() {
			return p.Result(), p.Incomplete("tool call arguments still streaming")
		}
		return p.Finish()
	}

	if response := gjson.GetBytes(raw, "response").String(); response != "" {
		p.AddContent(response)
		return p.Finish()
	}

	if err := p.MoveTo(start); err != nil {
		return p.Result(), err
	}
	p.AddContent(p.ConsumeRest())
	return p.Finish()
}
