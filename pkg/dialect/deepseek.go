package dialect

import (
	"github.com/go-skynet/chatparser/pkg/chatparser"
	"github.com/go-skynet/chatparser/pkg/partialjson"
)

func init() {
	chatparser.RegisterHandler(chatparser.DeepSeekR1, parseDeepSeekR1)
}

// parseDeepSeekR1 handles optional <think>...</think> reasoning followed by
// zero or more tool calls wrapped in the
// <｜tool▁calls▁begin｜>...<｜tool▁call▁begin｜>function<｜tool▁sep｜>NAME
// ```json{args}``` <｜tool▁call▁end｜>...<｜tool▁calls▁end｜> envelope.
func parseDeepSeekR1(p *chatparser.Parser) (chatparser.ChatMessage, error) {
	p.TryParseReasoning("<think>", "</think>")
	p.ConsumeSpaces()

	if p.TryConsumeLiteral("<｜tool▁calls▁begin｜>") {
		for {
			p.ConsumeSpaces()
			if !p.TryConsumeLiteral("<｜tool▁call▁begin｜>") {
				break
			}
			if err := p.ConsumeLiteral("function"); err != nil {
				return p.Result(), err
			}
			if err := p.ConsumeLiteral("<｜tool▁sep｜>"); err != nil {
				return p.Result(), err
			}
			name, ok, err := consumeLineToken(p)
			if err != nil {
				return p.Result(), err
			}
			if !ok {
				return p.Result(), p.Incomplete("expected tool name")
			}
			if err := p.ConsumeLiteral("```json\n"); err != nil {
				return p.Result(), err
			}
			res, err := p.TryConsumeJSONWithDumpedArgs(nil)
			if err != nil {
				return p.Result(), err
			}
			if res == nil {
				return p.Result(), p.Incomplete("expected tool call arguments")
			}
			args, ok := partialjson.DumpedArgsString(res.Value, "")
			if !ok {
				args = "{}"
			}
			p.AddToolCall(name, "", args)

			p.ConsumeSpaces()
			p.TryConsumeLiteral("```")
			if !p.TryConsumeLiteral("<｜tool▁call▁end｜>") && p.IsPartial() {
				return p.Result(), p.Incomplete("missing tool call end")
			}
		}
		p.ConsumeSpaces()
		if !p.TryConsumeLiteral("<｜tool▁calls▁end｜>") && p.IsPartial() {
			return p.Result(), p.Incomplete("missing tool calls end")
		}
	}

	p.AddContent(p.ConsumeRest())
	return p.Finish()
}
