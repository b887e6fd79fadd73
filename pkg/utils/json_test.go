package utils_test

import (
	. "github.com/go-skynet/chatparser/pkg/utils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("utils/json tests", func() {
	Context("EscapeNewLines", func() {
		It("escapes a literal newline inside a quoted string", func() {
			Expect(EscapeNewLines(`{"a":"x` + "\n" + `y"}`)).To(Equal(`{"a":"x\ny"}`))
		})

		It("leaves newlines outside of quotes untouched", func() {
			Expect(EscapeNewLines("{\n\"a\":\"b\"\n}")).To(Equal("{\n\"a\":\"b\"\n}"))
		})
	})

	Context("EscapeNewLinesMapped", func() {
		It("maps a consumed length back through an escaped newline", func() {
			raw := `{"a":"x` + "\n" + `y"} rest`
			escaped, toOriginal := EscapeNewLinesMapped(raw)
			Expect(escaped).To(Equal(`{"a":"x\ny"} rest`))

			closeBrace := len(`{"a":"x\ny"}`)
			Expect(toOriginal(closeBrace)).To(Equal(len(`{"a":"x` + "\n" + `y"}`)))
		})

		It("is an identity mapping when nothing needs escaping", func() {
			raw := `{"a":"b"} rest`
			escaped, toOriginal := EscapeNewLinesMapped(raw)
			Expect(escaped).To(Equal(raw))
			for i := 0; i <= len(raw); i++ {
				Expect(toOriginal(i)).To(Equal(i))
			}
		})
	})
})
