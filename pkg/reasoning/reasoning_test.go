package reasoning_test

import (
	. "github.com/go-skynet/chatparser/pkg/reasoning"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func boolPtr(b bool) *bool { return &b }

var _ = Describe("DetectThinkingStartToken", func() {
	It("finds a known token inside a prompt template", func() {
		Expect(DetectThinkingStartToken("...assistant\n<think>\n")).To(Equal("<think>"))
	})

	It("prefers the more specific Command-R token over the generic one", func() {
		Expect(DetectThinkingStartToken("<think>\n<|START_THINKING|>")).To(Equal("<|START_THINKING|>"))
	})

	It("returns empty when no token is present", func() {
		Expect(DetectThinkingStartToken("plain prompt with no tags")).To(BeEmpty())
	})

	It("tolerates trailing whitespace after the token", func() {
		Expect(DetectThinkingStartToken("<think>   \n\n")).To(Equal("<think>"))
	})
})

var _ = Describe("ExtractReasoning", func() {
	It("returns no reasoning for content without tags", func() {
		reasoning, cleaned := ExtractReasoning("just an answer")
		Expect(reasoning).To(BeEmpty())
		Expect(cleaned).To(Equal("just an answer"))
	})

	It("extracts a single <think> block and leaves the rest as content", func() {
		reasoning, cleaned := ExtractReasoning("<think>step one</think>the answer")
		Expect(reasoning).To(Equal("step one"))
		Expect(cleaned).To(Equal("the answer"))
	})

	It("extracts Command-R's START_THINKING/END_THINKING pair", func() {
		reasoning, cleaned := ExtractReasoning("<|START_THINKING|>plan<|END_THINKING|>done")
		Expect(reasoning).To(Equal("plan"))
		Expect(cleaned).To(Equal("done"))
	})

	It("joins multiple reasoning blocks with a blank line", func() {
		reasoning, cleaned := ExtractReasoning("<think>a</think>mid<think>b</think>tail")
		Expect(reasoning).To(Equal("a\n\nb"))
		Expect(cleaned).To(Equal("midtail"))
	})

	It("takes the remainder as reasoning when the tag is never closed", func() {
		reasoning, cleaned := ExtractReasoning("<think>still thinking")
		Expect(reasoning).To(Equal("still thinking"))
		Expect(cleaned).To(BeEmpty())
	})

	It("trims whitespace around the extracted reasoning", func() {
		reasoning, _ := ExtractReasoning("<think>\n  padded  \n</think>rest")
		Expect(reasoning).To(Equal("padded"))
	})
})

var _ = Describe("PrependThinkingTokenIfNeeded", func() {
	It("prepends the token when it's absent from the content", func() {
		Expect(PrependThinkingTokenIfNeeded("plan</think>answer", "<think>")).
			To(Equal("<think>plan</think>answer"))
	})

	It("is a no-op when the token is empty", func() {
		Expect(PrependThinkingTokenIfNeeded("plain", "")).To(Equal("plain"))
	})

	It("does not double-prepend when the tag is already present", func() {
		content := "<think>plan</think>answer"
		Expect(PrependThinkingTokenIfNeeded(content, "<think>")).To(Equal(content))
	})

	It("prepends after leading whitespace", func() {
		Expect(PrependThinkingTokenIfNeeded("  plan</think>answer", "<think>")).
			To(Equal("  <think>plan</think>answer"))
	})
})

var _ = Describe("ExtractReasoningWithConfig", func() {
	It("prepends an implicit thinking token before extracting", func() {
		reasoning, cleaned := ExtractReasoningWithConfig("plan</think>answer", "<think>", Config{})
		Expect(reasoning).To(Equal("plan"))
		Expect(cleaned).To(Equal("answer"))
	})

	It("returns content unchanged when reasoning is disabled", func() {
		config := Config{DisableReasoning: boolPtr(true)}
		reasoning, cleaned := ExtractReasoningWithConfig("<think>plan</think>answer", "<think>", config)
		Expect(reasoning).To(BeEmpty())
		Expect(cleaned).To(Equal("<think>plan</think>answer"))
	})

	It("skips the implicit prepend when tag prefill is disabled", func() {
		config := Config{DisableReasoningTagPrefill: boolPtr(true)}
		reasoning, cleaned := ExtractReasoningWithConfig("plan</think>answer", "<think>", config)
		Expect(reasoning).To(BeEmpty())
		Expect(cleaned).To(Equal("plan</think>answer"))
	})
})
