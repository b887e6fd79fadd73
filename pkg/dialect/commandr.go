package dialect

import (
	"github.com/go-skynet/chatparser/pkg/chatparser"
	"github.com/google/uuid"
)

func init() {
	chatparser.RegisterHandler(chatparser.CommandR7B, parseCommandR7B)
}

// parseCommandR7B handles reasoning in <|START_THINKING|>...<|END_THINKING|>,
// free-form content in <|START_RESPONSE|>...<|END_RESPONSE|>, and tool
// calls in <|START_ACTION|>[{"tool_call_id":...,"tool_name":...,
// "parameters":{...}}]<|END_ACTION|>.
func parseCommandR7B(p *chatparser.Parser) (chatparser.ChatMessage, error) {
	p.TryParseReasoning("<|START_THINKING|>", "<|END_THINKING|>")
	p.ConsumeSpaces()

	switch {
	case p.TryConsumeLiteral("<|START_RESPONSE|>"):
		return consumeResponseBlock(p)
	case p.TryConsumeLiteral("<|START_ACTION|>"):
		return consumeActionBlock(p)
	default:
		p.AddContent(p.ConsumeRest())
		return p.Finish()
	}
}

func consumeResponseBlock(p *chatparser.Parser) (chatparser.ChatMessage, error) {
	closeIdx := indexOf(p.Input()[p.Pos():], "<|END_RESPONSE|>")
	if closeIdx < 0 {
		if !p.IsPartial() {
			return p.Result(), p.Incomplete("missing <|END_RESPONSE|>")
		}
		p.AddContent(p.ConsumeRest())
		return p.Finish()
	}
	p.AddContent(p.Input()[p.Pos() : p.Pos()+closeIdx])
	if err := p.MoveTo(p.Pos() + closeIdx + len("<|END_RESPONSE|>")); err != nil {
		return p.Result(), err
	}
	return p.Finish()
}

func consumeActionBlock(p *chatparser.Parser) (chatparser.ChatMessage, error) {
	res, err := p.TryConsumeJSONWithDumpedArgs(nil)
	if err != nil {
		return p.Result(), err
	}
	if res != nil {
		consumeArrayOfCalls(p, res, "tool_name", "tool_call_id", "parameters", uuid.NewString)
	}
	p.ConsumeSpaces()
	if !p.TryConsumeLiteral("<|END_ACTION|>") && p.IsPartial() {
		return p.Result(), p.Incomplete("missing <|END_ACTION|>")
	}
	return p.Finish()
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
