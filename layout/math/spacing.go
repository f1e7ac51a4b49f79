package math

import "typstcore/layout"

// Spacing between adjacent fragments depends on their class pair: thin
// after punctuation, medium around binary operators, thick around
// relations, nothing between ordinary atoms.
const (
	thinSpace   = 3.0 / 18.0
	mediumSpace = 4.0 / 18.0
	thickSpace  = 5.0 / 18.0
)

// spacingBetween returns the space inserted between fragments of the
// given classes.
func (ctx *Context) spacingBetween(left, right MathClass) layout.Abs {
	scripted := ctx.Style == StyleScript || ctx.Style == StyleScriptScript

	switch {
	case left == ClassRelation || right == ClassRelation:
		if left == ClassOpening || right == ClassClosing {
			return 0
		}
		if scripted {
			return 0
		}
		return ctx.em(thickSpace)
	case left == ClassBinary || right == ClassBinary:
		if scripted {
			return 0
		}
		return ctx.em(mediumSpace)
	case left == ClassPunctuation:
		return ctx.em(thinSpace)
	case left == ClassOperator || right == ClassOperator:
		return ctx.em(thinSpace)
	}
	return 0
}

// run joins fragments into one composed fragment on a shared baseline,
// inserting class-pair spacing.
func (ctx *Context) run(frags []Fragment) *ComposedFragment {
	var children []Positioned
	var x layout.Abs
	var prev Fragment

	for _, frag := range frags {
		if _, isSpace := frag.(*SpacingFragment); !isSpace && prev != nil {
			if _, prevSpace := prev.(*SpacingFragment); !prevSpace {
				x += ctx.spacingBetween(prev.Class(), frag.Class())
			}
		}
		children = append(children, Positioned{X: x, Y: 0, Fragment: frag})
		x += frag.Width()
		prev = frag
	}

	return compose(ClassOrdinary, children)
}
