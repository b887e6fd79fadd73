package dialect_test

import (
	"github.com/go-skynet/chatparser/pkg/chatparser"
	_ "github.com/go-skynet/chatparser/pkg/dialect"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("registered dialect handlers", func() {
	It("extracts reasoning and plain content with no tool call (Hermes-2-Pro)", func() {
		msg, err := chatparser.Parse(
			"<think>I'm thinking</think>Hello, world!\nWhat's up?",
			false,
			chatparser.ChatSyntax{Format: chatparser.Hermes2Pro, ReasoningFormat: chatparser.ReasoningFormatDeepSeek},
		)
		Expect(err).ToNot(HaveOccurred())
		Expect(msg.ReasoningContent).To(Equal("I'm thinking"))
		Expect(msg.Content).To(Equal("Hello, world!\nWhat's up?"))
		Expect(msg.ToolCalls).To(BeEmpty())
	})

	It("parses a <tool_call> wrapper (Hermes-2-Pro)", func() {
		msg, err := chatparser.Parse(
			`<tool_call>
{"name": "special_function", "arguments": {"arg1": 1}}
</tool_call>`,
			false,
			chatparser.ChatSyntax{Format: chatparser.Hermes2Pro},
		)
		Expect(err).ToNot(HaveOccurred())
		Expect(msg.ToolCalls).To(HaveLen(1))
		Expect(msg.ToolCalls[0].Name).To(Equal("special_function"))
		Expect(msg.ToolCalls[0].Arguments).To(Equal(`{"arg1":1}`))
		Expect(msg.ToolCalls[0].ID).ToNot(BeEmpty())
	})

	It("parses the tool-calls envelope (DeepSeek-R1)", func() {
		input := "<think>I'm\nthinking</think>\n\n<｜tool▁calls▁begin｜><｜tool▁call▁begin｜>function<｜tool▁sep｜>special_function\n```json\n{\"arg1\": 1}\n```<｜tool▁call▁end｜><｜tool▁calls▁end｜>"
		msg, err := chatparser.Parse(
			input,
			false,
			chatparser.ChatSyntax{Format: chatparser.DeepSeekR1, ReasoningFormat: chatparser.ReasoningFormatDeepSeek},
		)
		Expect(err).ToNot(HaveOccurred())
		Expect(msg.ReasoningContent).To(Equal("I'm\nthinking"))
		Expect(msg.ToolCalls).To(HaveLen(1))
		Expect(msg.ToolCalls[0].Name).To(Equal("special_function"))
		Expect(msg.ToolCalls[0].Arguments).To(Equal(`{"arg1":1}`))
	})

	It("routes an ipython call into a synthetic code argument (Functionary-v3.2)", func() {
		msg, err := chatparser.Parse(
			"python\n# This is a program:\nprint('hey')",
			false,
			chatparser.ChatSyntax{Format: chatparser.FunctionaryV32},
		)
		Expect(err).ToNot(HaveOccurred())
		Expect(msg.ToolCalls).To(HaveLen(1))
		Expect(msg.ToolCalls[0].Name).To(Equal("python"))
		Expect(msg.ToolCalls[0].Arguments).To(Equal(`{"code": "# This is a program:\nprint('hey')"}`))
	})

	It("heals a truncated tool-call argument without leaking the synthetic suffix (Generic)", func() {
		msg, err := chatparser.Parse(
			`{ "tool_call" : { "name" : "special_function", "arguments" : { "arg`,
			true,
			chatparser.ChatSyntax{Format: chatparser.Generic},
		)
		Expect(err).ToNot(HaveOccurred())
		Expect(msg.ToolCalls).To(HaveLen(1))
		Expect(msg.ToolCalls[0].Name).To(Equal("special_function"))
		Expect(msg.ToolCalls[0].Arguments).To(Equal(`{"arg`))
	})

	It("parses the thinking/action triad with an explicit tool_call_id (Command-R7B)", func() {
		input := "<|START_THINKING|>I'm\nthinking<|END_THINKING|><|START_ACTION|>[\n    {\"tool_call_id\": \"0\", \"tool_name\": \"special_function\", \"parameters\": {\"arg1\": 1}}\n]<|END_ACTION|>"
		msg, err := chatparser.Parse(
			input,
			false,
			chatparser.ChatSyntax{Format: chatparser.CommandR7B, ReasoningFormat: chatparser.ReasoningFormatDeepSeek},
		)
		Expect(err).ToNot(HaveOccurred())
		Expect(msg.ReasoningContent).To(Equal("I'm\nthinking"))
		Expect(msg.ToolCalls).To(HaveLen(1))
		Expect(msg.ToolCalls[0].Name).To(Equal("special_function"))
		Expect(msg.ToolCalls[0].ID).To(Equal("0"))
		Expect(msg.ToolCalls[0].Arguments).To(Equal(`{"arg1":1}`))
	})
})

var _ = Describe("Llama-3.x", func() {
	It("parses a bare name/parameters JSON call", func() {
		msg, err := chatparser.Parse(
			`{"name": "special_function", "parameters": {"arg1": 1}}`,
			false,
			chatparser.ChatSyntax{Format: chatparser.Llama3x},
		)
		Expect(err).ToNot(HaveOccurred())
		Expect(msg.ToolCalls).To(HaveLen(1))
		Expect(msg.ToolCalls[0].Name).To(Equal("special_function"))
		Expect(msg.ToolCalls[0].Arguments).To(Equal(`{"arg1":1}`))
	})

	It("parses the python-tag call(key=value) form", func() {
		msg, err := chatparser.Parse(
			`<|python_tag|>special_function.call(arg1="value")`,
			false,
			chatparser.ChatSyntax{Format: chatparser.Llama3x},
		)
		Expect(err).ToNot(HaveOccurred())
		Expect(msg.ToolCalls).To(HaveLen(1))
		Expect(msg.ToolCalls[0].Name).To(Equal("special_function"))
		Expect(msg.ToolCalls[0].Arguments).To(Equal(`{"arg1":"value"}`))
	})

	It("falls back to plain content when nothing matches", func() {
		msg, err := chatparser.Parse("just some text", false, chatparser.ChatSyntax{Format: chatparser.Llama3x})
		Expect(err).ToNot(HaveOccurred())
		Expect(msg.Content).To(Equal("just some text"))
		Expect(msg.ToolCalls).To(BeEmpty())
	})
})

var _ = Describe("Mistral-Nemo", func() {
	It("parses [TOOL_CALLS][{...}]", func() {
		msg, err := chatparser.Parse(
			`[TOOL_CALLS][{"name": "special_function", "arguments": {"arg1": 1}}]`,
			false,
			chatparser.ChatSyntax{Format: chatparser.MistralNemo},
		)
		Expect(err).ToNot(HaveOccurred())
		Expect(msg.ToolCalls).To(HaveLen(1))
		Expect(msg.ToolCalls[0].Name).To(Equal("special_function"))
		Expect(msg.ToolCalls[0].ID).ToNot(BeEmpty())
	})
})

var _ = Describe("FireFunction-v2", func() {
	It("parses functools[{...}]", func() {
		msg, err := chatparser.Parse(
			`functools[{"name": "special_function", "arguments": {"arg1": 1}}]`,
			false,
			chatparser.ChatSyntax{Format: chatparser.FireFunctionV2},
		)
		Expect(err).ToNot(HaveOccurred())
		Expect(msg.ToolCalls).To(HaveLen(1))
		Expect(msg.ToolCalls[0].Name).To(Equal("special_function"))
	})
})

var _ = Describe("Generic", func() {
	It("falls back to the response field", func() {
		msg, err := chatparser.Parse(
			`{"response": "hello there"}`,
			false,
			chatparser.ChatSyntax{Format: chatparser.Generic},
		)
		Expect(err).ToNot(HaveOccurred())
		Expect(msg.Content).To(Equal("hello there"))
		Expect(msg.ToolCalls).To(BeEmpty())
	})

	It("treats non-JSON output as plain content", func() {
		msg, err := chatparser.Parse("hello there", false, chatparser.ChatSyntax{Format: chatparser.Generic})
		Expect(err).ToNot(HaveOccurred())
		Expect(msg.Content).To(Equal("hello there"))
	})
})
