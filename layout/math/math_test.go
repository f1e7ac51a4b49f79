package math

import (
	"testing"

	"typstcore/eval"
	"typstcore/library/foundations"
	libmath "typstcore/library/math"
)

func textContent(s string) foundations.Content {
	return foundations.Content{Elements: []foundations.ContentElement{
		&eval.TextElement{Text: s},
	}}
}

func TestLayoutEquationSimpleRun(t *testing.T) {
	eq := &libmath.EquationElem{Body: textContent("x+y")}
	frag := LayoutEquation(eq, 12)

	if frag.Width() <= 0 {
		t.Error("equation should have positive width")
	}
	if frag.Ascent() <= 0 || frag.Descent() <= 0 {
		t.Errorf("equation should extend both sides of the baseline, got ascent=%v descent=%v",
			frag.Ascent(), frag.Descent())
	}
}

func TestRunInsertsBinarySpacing(t *testing.T) {
	ctx := NewContext(12, false)
	tight := ctx.run([]Fragment{ctx.text("x"), ctx.text("y")})
	spaced := ctx.run([]Fragment{ctx.text("x"), ctx.text("+"), ctx.text("y")})

	bare := tight.Width() + ctx.text("+").Width()
	if spaced.Width() <= bare {
		t.Errorf("binary operator should add spacing: %v <= %v", spaced.Width(), bare)
	}
}

func TestScriptSpacingSuppressed(t *testing.T) {
	display := NewContext(12, true)
	script := display.styled(StyleScript)
	if got := script.spacingBetween(ClassOrdinary, ClassBinary); got != 0 {
		t.Errorf("script styles suppress binary spacing, got %v", got)
	}
	if got := display.spacingBetween(ClassOrdinary, ClassBinary); got == 0 {
		t.Error("display style should space binary operators")
	}
}

func TestFractionStacksOnAxis(t *testing.T) {
	ctx := NewContext(12, true)
	frag := ctx.fraction(textContent("1"), textContent("2"))

	if frag.Ascent() <= ctx.em(textAscent) {
		t.Error("fraction should rise above plain text height")
	}
	if frag.Descent() <= ctx.em(textDescent) {
		t.Error("fraction should drop below plain text depth")
	}

	// The numerator must sit fully above the denominator.
	var topY, bottomY float64
	seen := 0
	for _, child := range frag.Children {
		if _, ok := child.Fragment.(*RuleFragment); ok {
			continue
		}
		if seen == 0 {
			topY = float64(child.Y)
		} else {
			bottomY = float64(child.Y)
		}
		seen++
	}
	if seen != 2 || topY >= bottomY {
		t.Errorf("numerator (y=%v) should be above denominator (y=%v)", topY, bottomY)
	}
}

func TestFractionShrinksInlineParts(t *testing.T) {
	display := NewContext(12, true).fraction(textContent("1"), textContent("2"))
	inline := NewContext(12, false).fraction(textContent("1"), textContent("2"))
	if inline.Width() >= display.Width() {
		t.Errorf("inline fraction parts should shrink: inline=%v display=%v",
			inline.Width(), display.Width())
	}
}

func TestAttachmentsWiden(t *testing.T) {
	ctx := NewContext(12, false)
	base := textContent("x")
	sup := textContent("2")
	attached := ctx.attachments(&libmath.AttachElem{Base: base, T: &sup})
	bare := ctx.run(ctx.layoutContent(base))

	if attached.Width() <= bare.Width() {
		t.Error("superscript should widen the fragment")
	}
	if attached.Ascent() <= bare.Ascent() {
		t.Error("superscript should raise the fragment")
	}
}

func TestRadicalCoversBody(t *testing.T) {
	ctx := NewContext(12, false)
	frag := ctx.radical(foundations.Content{}, textContent("x+1"))
	body := ctx.run(ctx.layoutContent(textContent("x+1")))

	if frag.Width() <= body.Width() {
		t.Error("radical should be wider than its radicand")
	}
	if frag.Ascent() <= body.Ascent() {
		t.Error("the overline should rise above the radicand")
	}
}

func TestFencedStretchesDelimiters(t *testing.T) {
	ctx := NewContext(12, true)
	frac := ctx.fraction(textContent("1"), textContent("2"))

	body := foundations.Content{Elements: []foundations.ContentElement{
		&eval.TextElement{Text: "("},
		&libmath.FracElem{Num: textContent("1"), Denom: textContent("2")},
		&eval.TextElement{Text: ")"},
	}}
	fenced := ctx.fenced(body)

	if Height(fenced) < Height(frac) {
		t.Errorf("delimiters should cover the fraction: %v < %v", Height(fenced), Height(frac))
	}
}

func TestMatrixGridMetrics(t *testing.T) {
	ctx := NewContext(12, true)
	elem := &libmath.MatrixElem{Rows: [][]foundations.Content{
		{textContent("1"), textContent("22")},
		{textContent("333"), textContent("4")},
	}}
	frag := ctx.matrix(elem)

	// Two rows must be taller than one.
	single := ctx.run(ctx.layoutContent(textContent("1")))
	if Height(frag) <= Height(single) {
		t.Error("a two-row matrix should be taller than a single cell")
	}

	// Delimiters wrap the grid.
	if len(frag.Children) != 3 {
		t.Fatalf("expected open delimiter, grid, close delimiter, got %d children", len(frag.Children))
	}
}

func TestMatrixDelimiters(t *testing.T) {
	m := &libmath.MatrixElem{}
	if m.DelimOpen() != '(' || m.DelimClose() != ')' {
		t.Error("default delimiters should be parentheses")
	}
	m.Delim = '['
	if m.DelimOpen() != '[' || m.DelimClose() != ']' {
		t.Error("bracket delimiters")
	}
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		r    rune
		want MathClass
	}{
		{'+', ClassBinary},
		{'=', ClassRelation},
		{'(', ClassOpening},
		{')', ClassClosing},
		{',', ClassPunctuation},
		{'∑', ClassOperator},
		{'x', ClassOrdinary},
	}
	for _, tt := range tests {
		if got := classOf(tt.r); got != tt.want {
			t.Errorf("classOf(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}
