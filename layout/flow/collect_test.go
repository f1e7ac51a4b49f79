package flow

import (
	"testing"

	"typstcore/eval"
)

func collectPlain(elements ...eval.ContentElement) []Child {
	return Collect(&Engine{}, &eval.Content{Elements: elements}, FlowModeRoot, StyleChain{}, &Locator{})
}

func TestCollectEmpty(t *testing.T) {
	if children := collectPlain(); len(children) != 0 {
		t.Errorf("expected 0 children, got %d", len(children))
	}
	if children := Collect(&Engine{}, nil, FlowModeRoot, StyleChain{}, &Locator{}); len(children) != 0 {
		t.Errorf("expected 0 children for nil content, got %d", len(children))
	}
}

func TestCollectTextBecomesParagraph(t *testing.T) {
	children := collectPlain(
		&eval.TextElement{Text: "Hello"},
		&eval.SpaceElement{},
		&eval.TextElement{Text: "world"},
	)
	if len(children) != 1 {
		t.Fatalf("expected one paragraph child, got %d", len(children))
	}
	par, ok := children[0].(*ParChild)
	if !ok {
		t.Fatalf("expected ParChild, got %T", children[0])
	}
	if par.Prep.Text != "Hello world" {
		t.Errorf("paragraph text = %q", par.Prep.Text)
	}
	if par.Leading <= 0 {
		t.Error("paragraph leading should be positive")
	}
}

func TestCollectParbreakSplitsParagraphs(t *testing.T) {
	children := collectPlain(
		&eval.TextElement{Text: "one"},
		&eval.ParbreakElement{},
		&eval.TextElement{Text: "two"},
	)

	pars := 0
	for _, child := range children {
		if _, ok := child.(*ParChild); ok {
			pars++
		}
	}
	if pars != 2 {
		t.Errorf("expected 2 paragraphs around the break, got %d", pars)
	}
}

func TestCollectHeadingIsSizedLine(t *testing.T) {
	children := collectPlain(&eval.HeadingElement{
		Level:   1,
		Content: eval.Content{Elements: []eval.ContentElement{&eval.TextElement{Text: "Title"}}},
	})

	var line *LineChild
	for _, child := range children {
		if l, ok := child.(*LineChild); ok {
			line = l
			break
		}
	}
	if line == nil {
		t.Fatal("heading should produce a line child")
	}
	// Level-1 headings are larger than body text.
	if line.Frame.Height() <= 12*flowLeading {
		t.Errorf("heading line height %v should exceed body leading", line.Frame.Height())
	}
}

func TestCollectPagebreak(t *testing.T) {
	children := collectPlain(
		&eval.TextElement{Text: "before"},
		&eval.PagebreakElem{},
		&eval.TextElement{Text: "after"},
	)

	sawBreak := false
	for _, child := range children {
		if _, ok := child.(BreakChild); ok {
			sawBreak = true
		}
	}
	if !sawBreak {
		t.Error("pagebreak element should produce a break child")
	}
}

func TestCollectBlockEquation(t *testing.T) {
	children := collectPlain(&eval.EquationElement{
		Block: true,
		Body:  eval.Content{Elements: []eval.ContentElement{&eval.TextElement{Text: "x+y"}}},
	})

	var line *LineChild
	for _, child := range children {
		if l, ok := child.(*LineChild); ok {
			line = l
		}
	}
	if line == nil {
		t.Fatal("block equation should produce a line child")
	}
	if line.Align.X != FixedAlignCenter {
		t.Error("block equations center horizontally")
	}
	if line.Frame.Width() <= 0 || line.Frame.Height() <= 0 {
		t.Error("equation line should have the fragment's size")
	}
}

func TestCollectListEmitsItemLines(t *testing.T) {
	children := collectPlain(&eval.ListElement{
		Items: []*eval.ListItemElement{{}, {}, {}},
	})

	lines := 0
	for _, child := range children {
		if _, ok := child.(*LineChild); ok {
			lines++
		}
	}
	if lines != 3 {
		t.Errorf("expected one line per list item, got %d", lines)
	}
}

func TestCollectInlineRawJoinsParagraph(t *testing.T) {
	children := collectPlain(
		&eval.TextElement{Text: "see "},
		&eval.RawElement{Text: "code", Block: false},
	)
	if len(children) != 1 {
		t.Fatalf("expected one paragraph, got %d children", len(children))
	}
	par := children[0].(*ParChild)
	if par.Prep.Text != "see code" {
		t.Errorf("paragraph text = %q", par.Prep.Text)
	}
}
