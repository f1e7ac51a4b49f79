package realize

import (
	"typstcore/eval"
)

// Space collapsing over the realized pair stream: runs of collapsible
// spaces merge into one, spaces adjacent to destructive elements vanish,
// and the stream's edges are trimmed. Transparent elements (tags,
// counter and state updates, context nodes) neither support nor destroy
// adjacent spaces; collapsing looks straight through them.

// spaceBehavior classifies an element for collapsing.
type spaceBehavior int

const (
	// behaviorTransparent elements are skipped over when deciding a
	// space's fate.
	behaviorTransparent spaceBehavior = iota
	// behaviorDestructive elements discard the spaces around them.
	behaviorDestructive
	// behaviorSupportive elements keep one space on each side.
	behaviorSupportive
	// behaviorSpace marks a collapsible space itself.
	behaviorSpace
)

// behaviorOf classifies an element.
func behaviorOf(elem eval.ContentElement) spaceBehavior {
	switch e := elem.(type) {
	case nil:
		return behaviorTransparent

	case *eval.SpaceElement:
		return behaviorSpace
	case *eval.TextElement:
		if isWhitespaceOnly(e.Text) {
			return behaviorSpace
		}
		return behaviorSupportive

	// Introspection machinery is invisible to spacing: a counter step
	// between two words must not eat the space between them.
	case *eval.TagElem, *eval.CounterStepElem, *eval.StateUpdateElem,
		*eval.ContextElem:
		return behaviorTransparent

	case *eval.ParbreakElement, *eval.LinebreakElement,
		*eval.ParagraphElement, *eval.HeadingElement,
		*eval.ListItemElement, *eval.EnumItemElement, *eval.TermItemElement,
		*eval.ListElement, *eval.EnumElement, *eval.TermsElement,
		*eval.BlockElement, *eval.VElem, *eval.PagebreakElem:
		return behaviorDestructive
	}

	if block, ok := elem.(*eval.EquationElement); ok && block.Block {
		return behaviorDestructive
	}
	return behaviorSupportive
}

// isWhitespaceOnly reports whether s is non-empty and all whitespace.
func isWhitespaceOnly(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return len(s) > 0
}

// collapseSpaces rewrites the pair stream with spaces collapsed. The
// stream edge counts as destructive, so leading and trailing spaces
// vanish.
func collapseSpaces(pairs []Pair) []Pair {
	out := make([]Pair, 0, len(pairs))
	// pending is the index in out of a space waiting to learn what
	// follows it; -1 when none.
	pending := -1
	last := behaviorDestructive

	for _, pair := range pairs {
		switch behaviorOf(pair.Element) {
		case behaviorTransparent:
			out = append(out, pair)

		case behaviorSpace:
			if last == behaviorDestructive || last == behaviorSpace {
				continue
			}
			pending = len(out)
			out = append(out, pair)
			last = behaviorSpace

		case behaviorDestructive:
			out = dropPending(out, pending)
			pending = -1
			out = append(out, pair)
			last = behaviorDestructive

		case behaviorSupportive:
			pending = -1
			out = append(out, pair)
			last = behaviorSupportive
		}
	}

	if last == behaviorSpace {
		out = dropPending(out, pending)
	}
	return out
}

// dropPending removes the pair at index from out, preserving order.
func dropPending(out []Pair, index int) []Pair {
	if index < 0 || index >= len(out) {
		return out
	}
	return append(out[:index], out[index+1:]...)
}
