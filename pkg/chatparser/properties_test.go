package chatparser_test

import (
	cp "github.com/go-skynet/chatparser/pkg/chatparser"
	"github.com/go-skynet/chatparser/pkg/partialregex"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("universal properties", func() {
	Context("cursor monotonicity and no-overshoot", func() {
		It("never moves pos backward or out of range on literal consumption", func() {
			p := cp.NewParser("hello world", false, cp.ChatSyntax{Format: cp.Generic})
			before := p.Pos()
			Expect(p.TryConsumeLiteral("nope")).To(BeFalse())
			Expect(p.Pos()).To(Equal(before))

			Expect(p.TryConsumeLiteral("hello")).To(BeTrue())
			Expect(p.Pos()).To(BeNumerically(">", before))
			Expect(p.Pos()).To(BeNumerically("<=", len(p.Input())))
		})

		It("never overshoots while consuming the rest of the input", func() {
			p := cp.NewParser("abc", false, cp.ChatSyntax{Format: cp.Generic})
			p.ConsumeRest()
			Expect(p.Pos()).To(Equal(len(p.Input())))
			Expect(p.ConsumeRest()).To(Equal(""))
			Expect(p.Pos()).To(Equal(len(p.Input())))
		})
	})

	Context("healing marker absence", func() {
		It("produces a marker that does not occur in the input", func() {
			input := `{"tool_call": {"name": "f", "arguments": {"arg1": 1`
			p := cp.NewParser(input, true, cp.ChatSyntax{Format: cp.Generic})
			Expect(input).NotTo(ContainSubstring(p.HealingMarker()))
		})
	})

	Context("tool-call guard", func() {
		It("drops a tool call with an empty name", func() {
			p := cp.NewParser("", false, cp.ChatSyntax{Format: cp.Generic})
			Expect(p.AddToolCall("", "id", "{}")).To(BeFalse())
			Expect(p.Result().ToolCalls).To(BeEmpty())
		})

		It("keeps a tool call with a name", func() {
			p := cp.NewParser("", false, cp.ChatSyntax{Format: cp.Generic})
			Expect(p.AddToolCall("f", "id", "{}")).To(BeTrue())
			Expect(p.Result().ToolCalls).To(HaveLen(1))
		})

		It("truncates arguments at the healing marker and normalises a bare quote", func() {
			p := cp.NewParser("", false, cp.ChatSyntax{Format: cp.Generic})
			p.AddToolCall("f", "", `"MK`, "MK")
			Expect(p.Result().ToolCalls[0].Arguments).To(Equal(""))

			p2 := cp.NewParser("", false, cp.ChatSyntax{Format: cp.Generic})
			p2.AddToolCall("f", "", `{"arg1":1,MK`, "MK")
			Expect(p2.Result().ToolCalls[0].Arguments).To(Equal(`{"arg1":1,`))
		})
	})

	Context("finalisation", func() {
		It("strips reasoning content and, when tool calls exist, content too", func() {
			p := cp.NewParser("", false, cp.ChatSyntax{Format: cp.Generic})
			p.AddReasoningContent("  thinking  ")
			p.AddContent("  hi  ")
			p.AddToolCall("f", "", "{}")
			msg, err := p.Finish()
			Expect(err).NotTo(HaveOccurred())
			Expect(msg.ReasoningContent).To(Equal("thinking"))
			Expect(msg.Content).To(Equal("hi"))
		})

		It("fails with UnexpectedTrailingContent when not partial and input remains", func() {
			p := cp.NewParser("abc", false, cp.ChatSyntax{Format: cp.Generic})
			p.TryConsumeLiteral("ab")
			_, err := p.Finish()
			Expect(err).To(HaveOccurred())
			var trailing *cp.UnexpectedTrailingContentError
			Expect(err).To(BeAssignableToTypeOf(trailing))
		})
	})

	Context("regex search primitives", func() {
		It("TryFindRegex advances past a match and reports the prelude", func() {
			pattern, err := partialregex.Compile("world", false)
			Expect(err).NotTo(HaveOccurred())

			p := cp.NewParser("hello world!", false, cp.ChatSyntax{Format: cp.Generic})
			found, err := p.TryFindRegex(pattern)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).NotTo(BeNil())
			Expect(found.Prelude).To(Equal("hello "))
			Expect(p.Pos()).To(Equal(len("hello world")))
		})

		It("TryFindRegex reports no match without touching pos", func() {
			pattern, err := partialregex.Compile("xyz", false)
			Expect(err).NotTo(HaveOccurred())

			p := cp.NewParser("hello world!", false, cp.ChatSyntax{Format: cp.Generic})
			found, err := p.TryFindRegex(pattern)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
			Expect(p.Pos()).To(Equal(0))
		})

		It("ConsumeRegex requires the pattern to match exactly at pos", func() {
			pattern, err := partialregex.Compile("[a-z]+", true)
			Expect(err).NotTo(HaveOccurred())

			p := cp.NewParser("abc123", false, cp.ChatSyntax{Format: cp.Generic})
			m, err := p.ConsumeRegex(pattern)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Kind).To(Equal(cp.Full))
			Expect(p.Pos()).To(Equal(3))
		})

		It("ConsumeRegex raises Incomplete when the pattern doesn't match at pos", func() {
			pattern, err := partialregex.Compile("[0-9]+", true)
			Expect(err).NotTo(HaveOccurred())

			p := cp.NewParser("abc123", false, cp.ChatSyntax{Format: cp.Generic})
			_, err = p.ConsumeRegex(pattern)
			Expect(err).To(HaveOccurred())
			var incomplete *cp.IncompleteError
			Expect(err).To(BeAssignableToTypeOf(incomplete))
		})
	})

	Context("strict TryConsumeJSON", func() {
		It("returns a clean value and advances past it", func() {
			p := cp.NewParser(`{"a":1} trailing`, false, cp.ChatSyntax{Format: cp.Generic})
			v, err := p.TryConsumeJSON(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).NotTo(BeNil())
			Expect(p.ConsumeRest()).To(Equal(" trailing"))
		})

		It("returns a healed guess once a truncated value is final (not partial)", func() {
			p := cp.NewParser(`{"a":1`, false, cp.ChatSyntax{Format: cp.Generic})
			v, err := p.TryConsumeJSON(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).NotTo(BeNil())
			Expect(v.Marker.Empty()).To(BeFalse())
		})

		It("raises Incomplete on a truncated value while still partial", func() {
			p := cp.NewParser(`{"a":1`, true, cp.ChatSyntax{Format: cp.Generic})
			_, err := p.TryConsumeJSON(nil)
			Expect(err).To(HaveOccurred())
			var incomplete *cp.IncompleteError
			Expect(err).To(BeAssignableToTypeOf(incomplete))
		})
	})

	Context("AddToolCalls", func() {
		It("appends every call, skipping ones with an empty name", func() {
			p := cp.NewParser("", false, cp.ChatSyntax{Format: cp.Generic})
			p.AddToolCalls([]cp.ToolCall{
				{Name: "f", ID: "1", Arguments: "{}"},
				{Name: "", ID: "2", Arguments: "{}"},
				{Name: "g", ID: "3", Arguments: `{"x":1}`},
			})
			Expect(p.Result().ToolCalls).To(HaveLen(2))
			Expect(p.Result().ToolCalls[0].Name).To(Equal("f"))
			Expect(p.Result().ToolCalls[1].Name).To(Equal("g"))
		})
	})

	Context("diff append law", func() {
		It("reconstructs curr by applying the computed diffs to prev", func() {
			prev := cp.ChatMessage{
				Content:          "Hel",
				ReasoningContent: "thin",
				ToolCalls:        []cp.ToolCall{{Name: "f", ID: "1", Arguments: `{"a":1`}},
			}
			curr := cp.ChatMessage{
				Content:          "Hello",
				ReasoningContent: "thinking",
				ToolCalls:        []cp.ToolCall{{Name: "f", ID: "1", Arguments: `{"a":1,"b":2}`}},
			}

			diffs, err := cp.ComputeDiffs(prev, curr)
			Expect(err).NotTo(HaveOccurred())

			applied := prev
			for _, d := range diffs {
				applied.Content += d.ContentDelta
				applied.ReasoningContent += d.ReasoningContentDelta
				if d.ToolCallIndex >= 0 {
					tc := &applied.ToolCalls[d.ToolCallIndex]
					tc.Name += d.ToolCallDelta.Name
					tc.ID += d.ToolCallDelta.ID
					tc.Arguments += d.ToolCallDelta.Arguments
				}
			}
			Expect(applied).To(Equal(curr))
		})

		It("reports ErrRegression when curr is not a monotone extension of prev", func() {
			prev := cp.ChatMessage{Content: "Hello"}
			curr := cp.ChatMessage{Content: "Hel"}
			_, err := cp.ComputeDiffs(prev, curr)
			Expect(err).To(MatchError(cp.ErrRegression))
		})
	})
})
