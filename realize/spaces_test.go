package realize

import (
	"testing"

	"typstcore/eval"
)

func pairsOf(elements ...eval.ContentElement) []Pair {
	pairs := make([]Pair, len(elements))
	for i, elem := range elements {
		pairs[i] = Pair{Element: elem, Styles: EmptyStyleChain()}
	}
	return pairs
}

func elementsOf(pairs []Pair) []eval.ContentElement {
	out := make([]eval.ContentElement, len(pairs))
	for i, pair := range pairs {
		out[i] = pair.Element
	}
	return out
}

func TestBehaviorClassification(t *testing.T) {
	tests := []struct {
		elem eval.ContentElement
		want spaceBehavior
	}{
		{&eval.SpaceElement{}, behaviorSpace},
		{&eval.TextElement{Text: "   "}, behaviorSpace},
		{&eval.TextElement{Text: "word"}, behaviorSupportive},
		{&eval.ParbreakElement{}, behaviorDestructive},
		{&eval.HeadingElement{}, behaviorDestructive},
		{&eval.TagElem{}, behaviorTransparent},
		{&eval.CounterStepElem{Key: "c"}, behaviorTransparent},
		{&eval.StateUpdateElem{Key: "s"}, behaviorTransparent},
		{&eval.ContextElem{}, behaviorTransparent},
		{&eval.EquationElement{Block: true}, behaviorDestructive},
		{&eval.EquationElement{Block: false}, behaviorSupportive},
	}
	for _, tt := range tests {
		if got := behaviorOf(tt.elem); got != tt.want {
			t.Errorf("behaviorOf(%T) = %v, want %v", tt.elem, got, tt.want)
		}
	}
}

func TestCollapseMergesSpaceRuns(t *testing.T) {
	out := collapseSpaces(pairsOf(
		&eval.TextElement{Text: "a"},
		&eval.SpaceElement{},
		&eval.SpaceElement{},
		&eval.SpaceElement{},
		&eval.TextElement{Text: "b"},
	))
	if len(out) != 3 {
		t.Fatalf("expected text-space-text, got %d pairs", len(out))
	}
	if _, ok := out[1].Element.(*eval.SpaceElement); !ok {
		t.Errorf("middle pair should be the surviving space, got %T", out[1].Element)
	}
}

func TestCollapseDropsEdgeSpaces(t *testing.T) {
	out := collapseSpaces(pairsOf(
		&eval.SpaceElement{},
		&eval.TextElement{Text: "a"},
		&eval.SpaceElement{},
	))
	if len(out) != 1 {
		t.Fatalf("expected just the text, got %d pairs", len(out))
	}
}

func TestCollapseDropsSpacesAroundDestructive(t *testing.T) {
	out := collapseSpaces(pairsOf(
		&eval.TextElement{Text: "a"},
		&eval.SpaceElement{},
		&eval.ParbreakElement{},
		&eval.SpaceElement{},
		&eval.TextElement{Text: "b"},
	))
	for _, pair := range out {
		if _, ok := pair.Element.(*eval.SpaceElement); ok {
			t.Error("spaces next to a parbreak must vanish")
		}
	}
	if len(out) != 3 {
		t.Errorf("expected text, parbreak, text; got %d pairs", len(out))
	}
}

func TestCollapseLooksThroughUpdates(t *testing.T) {
	// A counter step between a word and a space must not make the space
	// collapse: updates are transparent.
	out := collapseSpaces(pairsOf(
		&eval.TextElement{Text: "a"},
		&eval.CounterStepElem{Key: "c"},
		&eval.SpaceElement{},
		&eval.TextElement{Text: "b"},
	))
	spaceCount := 0
	for _, pair := range out {
		if _, ok := pair.Element.(*eval.SpaceElement); ok {
			spaceCount++
		}
	}
	if spaceCount != 1 {
		t.Errorf("the space should survive across the counter update, got %d spaces", spaceCount)
	}
	if len(out) != 4 {
		t.Errorf("no pair should be dropped, got %d of 4", len(out))
	}
}

func TestCollapseKeepsTransparentAtEdges(t *testing.T) {
	out := collapseSpaces(pairsOf(
		&eval.TagElem{},
		&eval.SpaceElement{},
		&eval.TextElement{Text: "a"},
	))
	if len(out) != 2 {
		t.Fatalf("expected tag and text, got %d pairs", len(out))
	}
	if _, ok := out[0].Element.(*eval.TagElem); !ok {
		t.Errorf("tag should survive at the stream edge, got %T", out[0].Element)
	}
}

func TestCollapseEmptyStream(t *testing.T) {
	if out := collapseSpaces(nil); len(out) != 0 {
		t.Errorf("empty input should stay empty, got %d", len(out))
	}
	out := elementsOf(collapseSpaces(pairsOf(&eval.SpaceElement{})))
	if len(out) != 0 {
		t.Errorf("a lone space should vanish, got %v", out)
	}
}
