package math

import (
	"typstcore/eval"
	"typstcore/layout"
	"typstcore/library/foundations"
	libmath "typstcore/library/math"
)

// Style selects the size regime an equation part is laid out in.
type Style int

const (
	// StyleDisplay is full-size display math.
	StyleDisplay Style = iota
	// StyleText is full-size inline math.
	StyleText
	// StyleScript is first-level sub/superscript size.
	StyleScript
	// StyleScriptScript is nested script size.
	StyleScriptScript
)

// scaleFor returns the font-size multiplier of a style.
func scaleFor(style Style) float64 {
	switch style {
	case StyleScript:
		return 0.7
	case StyleScriptScript:
		return 0.5
	default:
		return 1.0
	}
}

// script returns the style one script level deeper.
func (s Style) script() Style {
	switch s {
	case StyleDisplay, StyleText:
		return StyleScript
	default:
		return StyleScriptScript
	}
}

// Context carries the parameters of one equation layout: the base font
// size and the current style. All vertical constants are font-relative
// and resolve against the styled size.
type Context struct {
	// BaseSize is the surrounding text's font size.
	BaseSize layout.Abs
	// Style is the current size regime.
	Style Style
}

// NewContext returns a Context at the given base size.
func NewContext(size layout.Abs, block bool) *Context {
	style := StyleText
	if block {
		style = StyleDisplay
	}
	return &Context{BaseSize: size, Style: style}
}

// size is the effective font size under the current style.
func (ctx *Context) size() layout.Abs {
	return layout.Abs(float64(ctx.BaseSize) * scaleFor(ctx.Style))
}

// em resolves a font-relative length at the current styled size.
func (ctx *Context) em(v float64) layout.Abs {
	return layout.Em(v).At(ctx.size())
}

// styled returns a copy of the context in the given style.
func (ctx *Context) styled(style Style) *Context {
	return &Context{BaseSize: ctx.BaseSize, Style: style}
}

// Metric constants, font-relative. These stand in for the math
// constants a math font's MATH table would provide; they are resolved
// against the styled size so nested scripts shrink coherently.
const (
	axisHeight    = 0.25 // vertical center of fraction bars and delimiters
	textAscent    = 0.8
	textDescent   = 0.2
	ruleThickness = 0.06
	charAdvance   = 0.5  // ordinary glyph advance
	wideAdvance   = 0.65 // operators like sum and integral
)

// text lays out a run of math text at the current size.
func (ctx *Context) text(s string) *TextFragment {
	frag := &TextFragment{Text: s, Size: ctx.size(), class: ClassOrdinary}
	if runes := []rune(s); len(runes) == 1 {
		frag.class = classOf(runes[0])
	}
	for _, r := range s {
		adv := charAdvance
		if classOf(r) == ClassOperator {
			adv = wideAdvance
		}
		frag.width += ctx.em(adv)
	}
	frag.ascent = ctx.em(textAscent)
	frag.descent = ctx.em(textDescent)
	return frag
}

// LayoutEquation lays out an equation element at the given base font
// size and returns the composed fragment of its body.
func LayoutEquation(elem *libmath.EquationElem, size layout.Abs) *ComposedFragment {
	ctx := NewContext(size, elem.Block)
	run := ctx.layoutContent(elem.Body)
	return ctx.run(run)
}

// layoutContent lays out every element of a content value in order.
func (ctx *Context) layoutContent(content foundations.Content) []Fragment {
	var out []Fragment
	for _, elem := range content.Elements {
		if frag := ctx.layoutElement(elem); frag != nil {
			out = append(out, frag)
		}
	}
	return out
}

// layoutElement lays out a single equation element.
func (ctx *Context) layoutElement(elem foundations.ContentElement) Fragment {
	switch e := elem.(type) {
	case *libmath.FracElem:
		return ctx.fraction(e.Num, e.Denom)
	case *libmath.RootElem:
		return ctx.radical(e.Index, e.Radicand)
	case *libmath.AttachElem:
		return ctx.attachments(e)
	case *libmath.PrimesElem:
		return ctx.primes(e.Count)
	case *libmath.LrElem:
		return ctx.fenced(e.Body)
	case *libmath.AccentElem:
		return ctx.accent(e.Base, e.Accent)
	case *libmath.LimitsElem:
		return ctx.limits(e)
	case *libmath.MatrixElem:
		return ctx.matrix(e)
	case *libmath.EquationElem:
		// A nested equation contributes its body inline.
		return ctx.run(ctx.layoutContent(e.Body))
	case *libmath.AlignPointElem:
		// Alignment points are resolved by multi-line equation layout;
		// within a single run they occupy no space.
		return nil
	case *foundations.SymbolElem:
		return ctx.text(e.Text)
	case *foundations.StyledElem:
		return ctx.run(ctx.layoutContent(e.Child))
	case *foundations.LabelledElem:
		return ctx.run(ctx.layoutContent(e.Child))
	case *foundations.SequenceElem:
		var frags []Fragment
		for _, child := range e.Children {
			frags = append(frags, ctx.layoutContent(child)...)
		}
		return ctx.run(frags)

	case *eval.TextElement:
		return ctx.text(e.Text)
	case *eval.SpaceElement:
		return &SpacingFragment{Amount: ctx.em(0.25)}
	}

	return nil
}
