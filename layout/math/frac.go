package math

import (
	"typstcore/layout"
	"typstcore/library/foundations"
)

// fraction stacks a numerator over a denominator with a rule between
// them, centered on the math axis.
func (ctx *Context) fraction(num, denom foundations.Content) *ComposedFragment {
	inner := ctx.styled(ctx.Style.script())
	if ctx.Style == StyleDisplay {
		// Display fractions keep full-size parts.
		inner = ctx.styled(StyleText)
	}

	top := inner.run(inner.layoutContent(num))
	bottom := inner.run(inner.layoutContent(denom))

	thickness := ctx.em(ruleThickness)
	gap := ctx.em(0.1)
	axis := ctx.em(axisHeight)

	width := top.Width()
	if bottom.Width() > width {
		width = bottom.Width()
	}
	pad := ctx.em(0.1)
	width += 2 * pad

	rule := &RuleFragment{Length: width, Thickness: thickness}

	// The rule sits on the axis; the numerator's descent clears it by
	// gap, the denominator's ascent likewise.
	ruleY := -axis
	topY := ruleY - thickness - gap - top.Descent()
	bottomY := ruleY + gap + bottom.Ascent()

	children := []Positioned{
		{X: (width - top.Width()) / 2, Y: topY, Fragment: top},
		{X: 0, Y: ruleY, Fragment: rule},
		{X: (width - bottom.Width()) / 2, Y: bottomY, Fragment: bottom},
	}
	return compose(ClassInner, children)
}

// radical draws a root: the radicand under an overline, the surd glyph
// in front, and an optional index above the surd.
func (ctx *Context) radical(index, radicand foundations.Content) *ComposedFragment {
	body := ctx.run(ctx.layoutContent(radicand))

	thickness := ctx.em(ruleThickness)
	gap := ctx.em(0.1)

	surd := ctx.text("√")
	surdHeight := body.Ascent() + body.Descent() + gap + thickness
	if minHeight := ctx.em(textAscent + textDescent); surdHeight < minHeight {
		surdHeight = minHeight
	}

	var children []Positioned
	var x layout.Abs

	if len(index.Elements) > 0 {
		idx := ctx.styled(StyleScriptScript)
		idxFrag := idx.run(idx.layoutContent(index))
		// The index rides above the surd's midpoint.
		children = append(children, Positioned{
			X:        x,
			Y:        -(surdHeight/2 + idxFrag.Descent()),
			Fragment: idxFrag,
		})
		x += idxFrag.Width() - ctx.em(0.1)
		if x < 0 {
			x = 0
		}
	}

	children = append(children, Positioned{X: x, Y: body.Descent(), Fragment: surd})
	x += surd.Width()

	lineY := -(body.Ascent() + gap + thickness)
	children = append(children,
		Positioned{X: x, Y: lineY, Fragment: &RuleFragment{Length: body.Width(), Thickness: thickness}},
		Positioned{X: x, Y: 0, Fragment: body},
	)

	return compose(ClassInner, children)
}
