package math

import (
	"typstcore/layout"
	"typstcore/library/foundations"
)

// fenced lays out delimited content. The opening and closing delimiters
// stretch to cover the inner fragment's vertical extent, centered on the
// math axis.
func (ctx *Context) fenced(body foundations.Content) *ComposedFragment {
	frags := ctx.layoutContent(body)
	if len(frags) == 0 {
		return compose(ClassInner, nil)
	}

	// Split off single-glyph opening/closing delimiters so they can be
	// stretched; everything between is an ordinary run.
	var opening, closing Fragment
	if t, ok := frags[0].(*TextFragment); ok && t.Class() == ClassOpening {
		opening = frags[0]
		frags = frags[1:]
	}
	if n := len(frags); n > 0 {
		if t, ok := frags[n-1].(*TextFragment); ok && t.Class() == ClassClosing {
			closing = frags[n-1]
			frags = frags[:n-1]
		}
	}

	inner := ctx.run(frags)
	target := Height(inner)

	var children []Positioned
	var x layout.Abs
	if opening != nil {
		stretched := ctx.stretch(opening.(*TextFragment), target, inner)
		children = append(children, Positioned{X: x, Y: stretched.Y, Fragment: stretched.Fragment})
		x += stretched.Fragment.Width()
	}
	children = append(children, Positioned{X: x, Y: 0, Fragment: inner})
	x += inner.Width()
	if closing != nil {
		stretched := ctx.stretch(closing.(*TextFragment), target, inner)
		children = append(children, Positioned{X: x, Y: stretched.Y, Fragment: stretched.Fragment})
	}

	return compose(ClassInner, children)
}

// stretch scales a delimiter glyph to at least the target height,
// keeping it centered on the inner content's vertical midpoint.
func (ctx *Context) stretch(delim *TextFragment, target layout.Abs, inner Fragment) Positioned {
	height := Height(delim)
	if height >= target || height <= 0 {
		// Tall enough already; align baselines.
		return Positioned{Y: 0, Fragment: delim}
	}

	scale := float64(target) / float64(height)
	grown := &TextFragment{
		Text:    delim.Text,
		Size:    layout.Abs(float64(delim.Size) * scale),
		class:   delim.class,
		width:   delim.width,
		ascent:  layout.Abs(float64(delim.ascent) * scale),
		descent: layout.Abs(float64(delim.descent) * scale),
	}

	// Center the grown glyph over the inner extent: its midpoint moves
	// to the inner fragment's midpoint.
	innerMid := (inner.Descent() - inner.Ascent()) / 2
	grownMid := (grown.Descent() - grown.Ascent()) / 2
	return Positioned{Y: innerMid - grownMid, Fragment: grown}
}
