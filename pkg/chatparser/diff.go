package chatparser

import (
	"errors"
	"strings"
)

// ErrRegression is returned by ComputeDiffs when curr is not a monotone
// field-wise extension of prev. Per spec.md §4.D this is one of two
// documented choices (the other being a silent full overwrite); this
// module picks ErrRegression because a silent overwrite would let a caller
// stream a corrupted delta to a client without ever noticing (see
// DESIGN.md).
var ErrRegression = errors.New("chatparser: curr is not a monotone extension of prev")

// ComputeDiffs returns the incremental deltas needed to turn prev into
// curr, assuming curr was produced by re-parsing a longer prefix of the
// same growing input. At most one content delta and one reasoning-content
// delta are emitted, plus at most one tool-call delta per tool-call index
// whose name/id/arguments grew.
func ComputeDiffs(prev, curr ChatMessage) ([]MessageDiff, error) {
	if err := checkMonotone(prev, curr); err != nil {
		return nil, err
	}

	var diffs []MessageDiff

	if d := suffix(prev.Content, curr.Content); d != "" {
		diffs = append(diffs, MessageDiff{ContentDelta: d, ToolCallIndex: -1})
	}
	if d := suffix(prev.ReasoningContent, curr.ReasoningContent); d != "" {
		diffs = append(diffs, MessageDiff{ReasoningContentDelta: d, ToolCallIndex: -1})
	}

	for i, c := range curr.ToolCalls {
		var p ToolCall
		if i < len(prev.ToolCalls) {
			p = prev.ToolCalls[i]
		}
		delta := ToolCall{
			Name:      suffix(p.Name, c.Name),
			ID:        suffix(p.ID, c.ID),
			Arguments: suffix(p.Arguments, c.Arguments),
		}
		if delta.Name != "" || delta.ID != "" || delta.Arguments != "" {
			diffs = append(diffs, MessageDiff{ToolCallIndex: i, ToolCallDelta: delta})
		}
	}

	return diffs, nil
}

func checkMonotone(prev, curr ChatMessage) error {
	if !strings.HasPrefix(curr.Content, prev.Content) {
		return ErrRegression
	}
	if !strings.HasPrefix(curr.ReasoningContent, prev.ReasoningContent) {
		return ErrRegression
	}
	if len(curr.ToolCalls) < len(prev.ToolCalls) {
		return ErrRegression
	}
	for i, p := range prev.ToolCalls {
		c := curr.ToolCalls[i]
		if !strings.HasPrefix(c.Name, p.Name) || !strings.HasPrefix(c.ID, p.ID) || !strings.HasPrefix(c.Arguments, p.Arguments) {
			return ErrRegression
		}
	}
	return nil
}

func suffix(prev, curr string) string {
	if len(curr) <= len(prev) {
		return ""
	}
	return curr[len(prev):]
}
