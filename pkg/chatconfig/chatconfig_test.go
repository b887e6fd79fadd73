package chatconfig_test

import (
	"os"

	"github.com/go-skynet/chatparser/pkg/chatconfig"
	"github.com/go-skynet/chatparser/pkg/chatparser"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Registry", func() {
	It("resolves every built-in dialect preset", func() {
		r := chatconfig.NewRegistry()
		for _, name := range []string{
			"deepseek-r1", "hermes-2-pro", "functionary-v3.2", "llama-3.x",
			"command-r7b", "firefunction-v2", "mistral-nemo", "generic",
		} {
			syntax, err := r.Resolve(name, "")
			Expect(err).ToNot(HaveOccurred())
			Expect(syntax.Format).To(Equal(chatparser.Dialect(name)))
			Expect(syntax.ParseToolCalls).To(BeTrue())
		}
	})

	It("rejects an unknown preset name", func() {
		r := chatconfig.NewRegistry()
		_, err := r.Resolve("nonexistent", "")
		Expect(err).To(HaveOccurred())
	})

	It("forces the thinking block open when the prompt already opened it", func() {
		r := chatconfig.NewRegistry()
		syntax, err := r.Resolve("deepseek-r1", "some prompt prefix <think>")
		Expect(err).ToNot(HaveOccurred())
		Expect(syntax.ThinkingForcedOpen).To(BeTrue())
	})

	It("loads overrides from a YAML file", func() {
		tmp, err := os.CreateTemp("", "presets-*.yaml")
		Expect(err).ToNot(HaveOccurred())
		defer os.Remove(tmp.Name())
		_, err = tmp.WriteString(`
- name: generic
  dialect: generic
  parse_tool_calls: false
- name: custom
  dialect: generic
  parse_tool_calls: true
`)
		Expect(err).ToNot(HaveOccurred())
		Expect(tmp.Close()).To(Succeed())

		r := chatconfig.NewRegistry()
		Expect(r.LoadFile(tmp.Name())).To(Succeed())

		generic, err := r.Resolve("generic", "")
		Expect(err).ToNot(HaveOccurred())
		Expect(generic.ParseToolCalls).To(BeFalse())

		custom, err := r.Resolve("custom", "")
		Expect(err).ToNot(HaveOccurred())
		Expect(custom.Format).To(Equal(chatparser.Generic))
	})

	It("errors on a missing file without panicking", func() {
		r := chatconfig.NewRegistry()
		err := r.LoadFile("/nonexistent/path/presets.yaml")
		Expect(err).To(HaveOccurred())
	})
})
