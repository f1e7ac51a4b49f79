package realize

import (
	"testing"

	"typstcore/eval"
	"typstcore/introspect"
)

func TestAssignLocationsSkipsSpacing(t *testing.T) {
	pairs := []Pair{
		{Element: &eval.TextElement{Text: "a"}},
		{Element: &eval.HElem{}},
		{Element: &eval.TextElement{Text: "b"}},
	}
	reg := introspect.NewRegistry()
	located := AssignLocations(pairs, introspect.Root(1), reg)

	if len(located) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(located))
	}
	if located[0].Location.IsNil() {
		t.Error("text element should receive a location")
	}
	if !located[1].Location.IsNil() {
		t.Error("HElem should not receive a location")
	}
	if located[0].Location == located[2].Location {
		t.Error("two distinct text elements should get distinct locations")
	}

	ins := reg.Freeze()
	if ins.Len() != 2 {
		t.Errorf("expected 2 registry entries (spacing excluded), got %d", ins.Len())
	}
}

func TestRealizeDocumentRegistersHeadingCounter(t *testing.T) {
	content := &eval.Content{
		Elements: []eval.ContentElement{
			&eval.HeadingElement{Level: 1, Content: eval.Content{}},
			&eval.HeadingElement{Level: 1, Content: eval.Content{}},
		},
	}
	reg := introspect.NewRegistry()
	located, err := RealizeDocument(LayoutDocument{}, nil, content, EmptyStyleChain(), introspect.Root(1), reg, introspect.Empty())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(located) != 2 {
		t.Fatalf("expected 2 located headings, got %d", len(located))
	}

	ins := reg.Freeze()
	final := HeadingCounter.Final(ins)
	if len(final) != 1 || final[0] != 2 {
		t.Errorf("expected heading counter [2] after two level-1 headings, got %v", final)
	}

	before := HeadingCounter.At(ins, located[1].Location, false)
	if len(before) != 1 || before[0] != 1 {
		t.Errorf("expected heading counter [1] before the second heading, got %v", before)
	}
}
