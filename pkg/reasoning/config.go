package reasoning

// Config controls how ExtractReasoningWithConfig treats a dialect's
// reasoning block. Only the fields it actually consults live here; an
// unread knob is a trap for whoever sets it expecting it to do something.
type Config struct {
	DisableReasoningTagPrefill *bool `yaml:"disable_reasoning_tag_prefill,omitempty" json:"disable_reasoning_tag_prefill,omitempty"`
	DisableReasoning           *bool `yaml:"disable,omitempty" json:"disable,omitempty"`
}
