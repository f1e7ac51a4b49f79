package math

import "typstcore/layout"

// MathClass categorizes a fragment for inter-fragment spacing, following
// the TeX atom classes.
type MathClass int

const (
	ClassOrdinary MathClass = iota
	ClassOperator
	ClassBinary
	ClassRelation
	ClassOpening
	ClassClosing
	ClassPunctuation
	ClassInner
)

// classOf determines the math class of a rune.
func classOf(r rune) MathClass {
	switch r {
	case '+', '-', '−', '±', '∓', '×', '÷', '∗', '∘', '·', '⊕', '⊗', '∧', '∨':
		return ClassBinary
	case '=', '<', '>', '≤', '≥', '≠', '≈', '≡', '∼', '⊂', '⊃', '⊆', '⊇', '∈', '∉', '→', '←', '↔', '⇒', '⇐', '⇔':
		return ClassRelation
	case '(', '[', '{', '⟨', '⌈', '⌊', '|':
		return ClassOpening
	case ')', ']', '}', '⟩', '⌉', '⌋':
		return ClassClosing
	case ',', ';', ':':
		return ClassPunctuation
	case '∑', '∏', '∫', '∮', '⋃', '⋂', '⨁', '⨂':
		return ClassOperator
	}
	return ClassOrdinary
}

// Fragment is one laid-out piece of an equation. Every fragment knows
// its metrics; composition positions fragments relative to a shared
// baseline.
type Fragment interface {
	// Width is the horizontal advance.
	Width() layout.Abs
	// Ascent is the extent above the baseline.
	Ascent() layout.Abs
	// Descent is the extent below the baseline.
	Descent() layout.Abs
	// Class is the spacing class.
	Class() MathClass
}

// Height returns a fragment's total vertical extent.
func Height(f Fragment) layout.Abs {
	return f.Ascent() + f.Descent()
}

// TextFragment is a run of math text laid out at one size.
type TextFragment struct {
	Text  string
	Size  layout.Abs
	class MathClass

	width   layout.Abs
	ascent  layout.Abs
	descent layout.Abs
}

func (f *TextFragment) Width() layout.Abs   { return f.width }
func (f *TextFragment) Ascent() layout.Abs  { return f.ascent }
func (f *TextFragment) Descent() layout.Abs { return f.descent }
func (f *TextFragment) Class() MathClass    { return f.class }

// SpacingFragment is horizontal space between fragments.
type SpacingFragment struct {
	Amount layout.Abs
}

func (f *SpacingFragment) Width() layout.Abs   { return f.Amount }
func (f *SpacingFragment) Ascent() layout.Abs  { return 0 }
func (f *SpacingFragment) Descent() layout.Abs { return 0 }
func (f *SpacingFragment) Class() MathClass    { return ClassOrdinary }

// RuleFragment is a horizontal rule: a fraction bar or the overline of a
// radical.
type RuleFragment struct {
	Length    layout.Abs
	Thickness layout.Abs
}

func (f *RuleFragment) Width() layout.Abs   { return f.Length }
func (f *RuleFragment) Ascent() layout.Abs  { return f.Thickness }
func (f *RuleFragment) Descent() layout.Abs { return 0 }
func (f *RuleFragment) Class() MathClass    { return ClassOrdinary }

// Positioned is a child fragment placed within a composed fragment,
// offset relative to the parent's origin at its baseline start.
type Positioned struct {
	// X is the horizontal offset from the parent's start.
	X layout.Abs
	// Y is the vertical offset from the parent's baseline; negative is
	// above.
	Y layout.Abs
	// Fragment is the placed child.
	Fragment Fragment
}

// ComposedFragment is a fragment assembled from positioned children:
// a fraction, a radical, a scripted base, a delimited group, a matrix.
type ComposedFragment struct {
	Children []Positioned
	class    MathClass

	width   layout.Abs
	ascent  layout.Abs
	descent layout.Abs
}

func (f *ComposedFragment) Width() layout.Abs   { return f.width }
func (f *ComposedFragment) Ascent() layout.Abs  { return f.ascent }
func (f *ComposedFragment) Descent() layout.Abs { return f.descent }
func (f *ComposedFragment) Class() MathClass    { return f.class }

// compose builds a ComposedFragment from children, deriving the bounding
// metrics from their offsets.
func compose(class MathClass, children []Positioned) *ComposedFragment {
	out := &ComposedFragment{Children: children, class: class}
	for _, c := range children {
		if right := c.X + c.Fragment.Width(); right > out.width {
			out.width = right
		}
		if up := c.Fragment.Ascent() - c.Y; up > out.ascent {
			out.ascent = up
		}
		if down := c.Fragment.Descent() + c.Y; down > out.descent {
			out.descent = down
		}
	}
	return out
}
