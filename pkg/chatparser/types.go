// Package chatparser drives a cursor over a (possibly truncated) chat
// completion token stream and assembles it into a structured assistant
// message: free-form content, reasoning/"thinking" content, and any tool
// calls with stringified JSON arguments.
//
// The driver itself knows nothing about any one model's wire format; dialect
// handlers in github.com/go-skynet/chatparser/pkg/dialect register
// themselves here and compose the primitives this package exposes.
package chatparser

// StringRange is a half-open byte-offset span into a parser's input.
type StringRange struct {
	Begin int
	End   int
}

func (r StringRange) Len() int { return r.End - r.Begin }

// MatchKind mirrors partialregex.MatchKind at the driver's data-model level.
type MatchKind int

const (
	NoMatch MatchKind = iota
	Partial
	Full
)

// RegexMatch is the result of a regex search against the parser's input.
type RegexMatch struct {
	Kind   MatchKind
	Groups []StringRange
}

// ReasoningFormat selects how (or whether) reasoning/thinking content is
// tagged in the model's output.
type ReasoningFormat string

const (
	ReasoningFormatNone     ReasoningFormat = ""
	ReasoningFormatDeepSeek ReasoningFormat = "deepseek"
)

// Dialect names a model-family output convention. The zero value is not a
// valid dialect; callers must pick one of the named constants.
type Dialect string

const (
	DeepSeekR1     Dialect = "deepseek-r1"
	Hermes2Pro     Dialect = "hermes-2-pro"
	FunctionaryV32 Dialect = "functionary-v3.2"
	Llama3x        Dialect = "llama-3.x"
	CommandR7B     Dialect = "command-r7b"
	FireFunctionV2 Dialect = "firefunction-v2"
	MistralNemo    Dialect = "mistral-nemo"
	Generic        Dialect = "generic"
)

// ChatSyntax selects the dialect and reasoning/tool-call options that govern
// a single parse attempt.
type ChatSyntax struct {
	Format              Dialect
	ReasoningFormat     ReasoningFormat
	ReasoningInContent  bool
	ThinkingForcedOpen  bool
	ParseToolCalls      bool
}

// ToolCall is a single model-requested function invocation. Arguments is
// either empty or a valid (possibly syntactically-truncated-but-healed)
// JSON value re-serialised as text.
type ToolCall struct {
	Name      string
	Arguments string
	ID        string
}

// ChatMessage is the structured result of a parse.
type ChatMessage struct {
	Role             string
	Content          string
	ReasoningContent string
	ContentParts     []string
	ToolCalls        []ToolCall
	ToolName         string
	ToolCallID       string
}

// MessageDiff is one incremental delta between two successive parses of a
// growing input, as produced by ComputeDiffs.
type MessageDiff struct {
	ContentDelta          string
	ReasoningContentDelta string
	ToolCallIndex         int  // -1 when ToolCallDelta is the zero value
	ToolCallDelta         ToolCall
}
