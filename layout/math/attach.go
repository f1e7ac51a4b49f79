package math

import (
	"strings"

	"typstcore/library/foundations"
	libmath "typstcore/library/math"
)

// attachments lays out a base with optional top, bottom, and top-right
// scripts. Scripts shrink one style level and shift off the base's
// corners.
func (ctx *Context) attachments(e *libmath.AttachElem) *ComposedFragment {
	base := ctx.run(ctx.layoutContent(e.Base))
	script := ctx.styled(ctx.Style.script())

	shiftUp := ctx.em(0.45)
	shiftDown := ctx.em(0.25)
	kern := ctx.em(0.05)

	children := []Positioned{{X: 0, Y: 0, Fragment: base}}
	right := base.Width() + kern

	topRight := right
	if e.T != nil {
		top := script.run(script.layoutContent(*e.T))
		children = append(children, Positioned{
			X:        right,
			Y:        -(shiftUp + top.Descent()),
			Fragment: top,
		})
		if end := right + top.Width(); end > topRight {
			topRight = end
		}
	}
	if e.B != nil {
		bottom := script.run(script.layoutContent(*e.B))
		children = append(children, Positioned{
			X:        right,
			Y:        shiftDown + bottom.Ascent(),
			Fragment: bottom,
		})
	}
	if e.TR != nil {
		tr := script.run(script.layoutContent(*e.TR))
		children = append(children, Positioned{
			X:        topRight,
			Y:        -(shiftUp + tr.Descent()),
			Fragment: tr,
		})
	}

	return compose(base.Class(), children)
}

// primes renders a row of prime marks as a superscript.
func (ctx *Context) primes(count int) *ComposedFragment {
	script := ctx.styled(ctx.Style.script())
	marks := script.text(strings.Repeat("′", count))
	return compose(ClassOrdinary, []Positioned{
		{X: 0, Y: -ctx.em(0.45), Fragment: marks},
	})
}

// limits lays out an operator with attachments above and below (display
// style) or to the side (inline).
func (ctx *Context) limits(e *libmath.LimitsElem) *ComposedFragment {
	body := ctx.run(ctx.layoutContent(e.Body))
	return compose(ClassOperator, []Positioned{{X: 0, Y: 0, Fragment: body}})
}

// accent places an accent character centered above its base.
func (ctx *Context) accent(base foundations.Content, accent rune) *ComposedFragment {
	body := ctx.run(ctx.layoutContent(base))
	mark := ctx.text(string(accent))
	gap := ctx.em(0.05)

	children := []Positioned{
		{X: 0, Y: 0, Fragment: body},
		{
			X:        (body.Width() - mark.Width()) / 2,
			Y:        -(body.Ascent() + gap + mark.Descent()),
			Fragment: mark,
		},
	}
	return compose(body.Class(), children)
}
