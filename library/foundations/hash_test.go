package foundations

import "testing"

func TestHashValueDistinguishesKinds(t *testing.T) {
	values := []Value{
		NoneValue{},
		AutoValue{},
		Bool(true),
		Int(1),
		Float(1),
		Str("1"),
		LabelValue("1"),
		LengthValue{Length: Length{Points: 1}},
		RatioValue{Ratio: Ratio{Value: 1}},
	}
	seen := make(map[uint64]Value)
	for _, v := range values {
		h := HashValue(v)
		if prev, ok := seen[h]; ok {
			t.Errorf("%T and %T hash alike", prev, v)
		}
		seen[h] = v
	}
}

func TestHashValueStructural(t *testing.T) {
	a := ContentValue{Content: Content{Elements: []ContentElement{
		&SymbolElem{Text: "x"},
	}}}
	b := ContentValue{Content: Content{Elements: []ContentElement{
		&SymbolElem{Text: "x"},
	}}}
	if HashValue(a) != HashValue(b) {
		t.Error("structurally equal content should hash alike")
	}

	c := ContentValue{Content: Content{Elements: []ContentElement{
		&SymbolElem{Text: "y"},
	}}}
	if HashValue(a) == HashValue(c) {
		t.Error("different symbol text should change the digest")
	}
}

func TestHashDictOrderIndependent(t *testing.T) {
	a := NewDict()
	a.Set("x", Int(1))
	a.Set("y", Int(2))

	b := NewDict()
	b.Set("y", Int(2))
	b.Set("x", Int(1))

	if HashValue(a) != HashValue(b) {
		t.Error("dictionaries with the same entries should hash alike regardless of insertion order")
	}
}

func TestHashLabelledContent(t *testing.T) {
	plain := Content{Elements: []ContentElement{&SymbolElem{Text: "x"}}}
	labelled := plain.Labelled("tag")
	if HashContent(plain) == HashContent(labelled) {
		t.Error("a label must change the content digest")
	}
}

func TestHashArrayOrderDependent(t *testing.T) {
	a := NewArray(Int(1), Int(2))
	b := NewArray(Int(2), Int(1))
	if HashValue(a) == HashValue(b) {
		t.Error("array order is structural and must affect the digest")
	}
}
