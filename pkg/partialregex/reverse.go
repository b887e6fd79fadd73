package partialregex

import "strings"

// reverseAlternation renders R(alts) — the reversed form of a top-level
// alternation — as the content of a (non-capturing, for sub-expressions)
// group: alt1|alt2|... with each alternative independently reversed.
func reverseAlternation(alts [][]node) string {
	parts := make([]string, len(alts))
	for i, seq := range alts {
		parts[i] = reverseSequence(expandSequence(seq))
	}
	return strings.Join(parts, "|")
}

// expandSequence flattens {m,n} quantifiers on simple atoms into their
// unrolled form: m mandatory copies followed by (n-m) individually-optional
// copies ("X?"). Partial-match semantics only care about the set of valid
// prefixes of an accepted string, and since shorter repeat counts within
// [m,n] are themselves prefixes of longer ones, every copy up to n is a
// legal prefix regardless of the m minimum — only the final m..n behavior
// at the tail (handled by quantStar below) needs the minimum.
func expandSequence(seq []node) []node {
	var out []node
	for _, n := range seq {
		if n.kind != nodeQuant || n.quant.kind != quantRange {
			out = append(out, n)
			continue
		}
		child := *n.child
		m := n.quant.min
		if n.quant.max == -1 {
			for i := 0; i < m; i++ {
				out = append(out, child)
			}
			star := child
			out = append(out, node{kind: nodeQuant, child: &star, quant: quantifier{kind: quantStar}})
			continue
		}
		for i := 0; i < m; i++ {
			out = append(out, child)
		}
		for i := m; i < n.quant.max; i++ {
			opt := child
			out = append(out, node{kind: nodeQuant, child: &opt, quant: quantifier{kind: quantOpt}})
		}
	}
	return out
}

// reverseSequence builds R(seq) per the chain-building rule: process
// original terms from last to first, each step wrapping the accumulator in
// a non-capturing optional group and appending the next term reversed, so
// that every prefix-length match of the original sequence (read in reverse)
// is accepted. The first original term is never itself optional-wrapped —
// it is the minimal 1-character match a partial result can report.
func reverseSequence(seq []node) string {
	if len(seq) == 0 {
		return ""
	}
	n := len(seq)
	acc := reverseAtomForChain(seq[n-1], n == 1)
	for i := n - 2; i >= 0; i-- {
		term := reverseAtomForChain(seq[i], i == 0)
		acc = "(?:" + acc + ")?" + term
	}
	return acc
}

// reverseAtomForChain reverses a single chain term. isHead marks the
// original first term of the enclosing sequence — the term appended last
// while building the chain, and the only position where a '*'-quantified
// atom's laziness is inverted rather than preserved (observed from the
// canonical ".*?ab" / "a*" reversal pairs: a star anchored at the sequence
// head trades its greediness for the opposite, since it now sits directly
// against the always-appended trailing ".*").
func reverseAtomForChain(n node, isHead bool) string {
	if n.kind == nodeQuant && n.quant.kind == quantStar && isHead {
		flipped := n
		flipped.quant.lazy = !n.quant.lazy
		return reverseNode(flipped)
	}
	return reverseNode(n)
}

func reverseNode(n node) string {
	switch n.kind {
	case nodeLiteral, nodeClass, nodeAny:
		return n.raw
	case nodeGroup:
		return "(?:" + reverseAlternation(n.alts) + ")"
	case nodeQuant:
		inner := reverseNode(*n.child)
		switch n.quant.kind {
		case quantPlus:
			if n.quant.lazy {
				return inner + "+?"
			}
			return inner + "+"
		case quantStar:
			if n.quant.lazy {
				return inner + "*?"
			}
			return inner + "*"
		case quantOpt:
			if n.quant.lazy {
				return inner + "??"
			}
			return inner + "?"
		default:
			// quantRange should already have been expanded away by
			// expandSequence before reaching here.
			return inner
		}
	default:
		return n.raw
	}
}

// Reverse returns the reversed-partial regex source R(P) for pattern,
// ready to be compiled and matched against reverse(input[start_pos:]).
func Reverse(pattern string) (string, error) {
	alts, err := parsePattern(pattern)
	if err != nil {
		return "", err
	}
	content := reverseAlternation(alts)
	return "^(" + content + ").*", nil
}
