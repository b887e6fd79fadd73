package dialect

import (
	"encoding/json"
	"strings"

	"github.com/go-skynet/chatparser/pkg/chatparser"
	"github.com/go-skynet/chatparser/pkg/partialjson"
	"github.com/tidwall/gjson"
)

func init() {
	chatparser.RegisterHandler(chatparser.Llama3x, parseLlama3x)
}

// parseLlama3x handles the ipython-channel call form
// "<|python_tag|>name.call(key=\"value\", ...)" and the bare
// `{"name":..., "parameters":...}` JSON form.
func parseLlama3x(p *chatparser.Parser) (chatparser.ChatMessage, error) {
	p.TryConsumeLiteral("<|python_tag|>")
	p.ConsumeSpaces()

	start := p.Pos()
	if name, ok := tryConsumeIdentifier(p); ok && p.TryConsumeLiteral(".call(") {
		args, err := consumeCallArgs(p)
		if err != nil {
			return p.Result(), err
		}
		if args != nil {
			p.AddToolCall(name, "", *args)
			return p.Finish()
		}
	}
	if err := p.MoveTo(start); err != nil {
		return p.Result(), err
	}

	res, err := p.TryConsumeJSONWithDumpedArgs([]string{"parameters"})
	if err != nil {
		return p.Result(), err
	}
	if res != nil {
		if name := gjson.GetBytes(res.Value.Raw, "name").String(); name != "" {
			args, ok := partialjson.DumpedArgsString(res.Value, "parameters")
			if !ok {
				args = "{}"
			}
			p.AddToolCall(name, "", args)
			return p.Finish()
		}
	}

	p.AddContent(p.ConsumeRest())
	return p.Finish()
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func tryConsumeIdentifier(p *chatparser.Parser) (string, bool) {
	input := p.Input()
	start := p.Pos()
	i := start
	for i < len(input) && isIdentByte(input[i]) {
		i++
	}
	if i == start {
		return "", false
	}
	name := input[start:i]
	if err := p.MoveTo(i); err != nil {
		return "", false
	}
	return name, true
}

// consumeCallArgs reads "key=value, key2=value2)" after the opening paren
// has already been consumed, reusing partialjson.Parse for each value since
// a call argument value is itself a valid JSON scalar or structure.
func consumeCallArgs(p *chatparser.Parser) (*string, error) {
	var order []string
	values := map[string]json.RawMessage{}

	for {
		p.ConsumeSpaces()
		if p.TryConsumeLiteral(")") {
			var b strings.Builder
			b.WriteByte('{')
			for i, key := range order {
				if i > 0 {
					b.WriteByte(',')
				}
				keyJSON, _ := json.Marshal(key)
				b.Write(keyJSON)
				b.WriteByte(':')
				b.Write(values[key])
			}
			b.WriteByte('}')
			out := b.String()
			return &out, nil
		}

		key, ok := tryConsumeIdentifier(p)
		if !ok {
			return nil, nil
		}
		p.ConsumeSpaces()
		if !p.TryConsumeLiteral("=") {
			return nil, nil
		}
		p.ConsumeSpaces()

		v, consumed, err := partialjson.Parse(p.Input()[p.Pos():], p.HealingMarker())
		if err != nil {
			return nil, nil
		}
		if err := p.MoveTo(p.Pos() + consumed); err != nil {
			return nil, err
		}
		if !v.Marker.Empty() && p.IsPartial() {
			return nil, p.Incomplete("truncated call argument value")
		}

		values[key] = v.Raw
		order = append(order, key)
		p.ConsumeSpaces()
		p.TryConsumeLiteral(",")
	}
}
