package dialect

import (
	"github.com/go-skynet/chatparser/pkg/chatparser"
	"github.com/google/uuid"
)

func init() {
	chatparser.RegisterHandler(chatparser.FireFunctionV2, parseFireFunctionV2)
}

// parseFireFunctionV2 handles the "functools[{...}]" envelope: a literal
// opener followed by a JSON array of {"name":...,"arguments":...} calls.
func parseFireFunctionV2(p *chatparser.Parser) (chatparser.ChatMessage, error) {
	p.ConsumeSpaces()
	if !p.TryConsumeLiteral("functools") {
		p.AddContent(p.ConsumeRest())
		return p.Finish()
	}

	res, err := p.TryConsumeJSONWithDumpedArgs(nil)
	if err != nil {
		return p.Result(), err
	}
	if res != nil {
		consumeArrayOfCalls(p, res, "name", "id", "arguments", uuid.NewString)
	}
	return p.Finish()
}
