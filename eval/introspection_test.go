package eval

import (
	"testing"

	"typstcore/introspect"
	"typstcore/library/foundations"
	"typstcore/syntax"
)

func callBound(t *testing.T, method Value, ctx *Context, args *Args) (Value, error) {
	t.Helper()
	fv, ok := method.(FuncValue)
	if !ok {
		t.Fatalf("expected bound method, got %T", method)
	}
	native, ok := fv.Func.Repr.(NativeFunc)
	if !ok {
		t.Fatalf("expected native method, got %T", fv.Func.Repr)
	}
	return native.Func(nil, ctx, args)
}

func TestCounterKeyDerivation(t *testing.T) {
	span := syntax.Detached()

	key, err := counterKey(Str("figures"), span)
	if err != nil || key != "figures" {
		t.Errorf("string key: got %q, %v", key, err)
	}

	key, err = counterKey(LabelValue("intro"), span)
	if err != nil || key != "label:intro" {
		t.Errorf("label key: got %q, %v", key, err)
	}

	name := "heading"
	key, err = counterKey(FuncValue{Func: &Func{Name: &name}}, span)
	if err != nil || key != "heading" {
		t.Errorf("element function key: got %q, %v", key, err)
	}

	if _, err = counterKey(Int(3), span); err == nil {
		t.Error("integer is not a valid counter key")
	}
}

func TestCounterStepProducesUpdateElement(t *testing.T) {
	method := GetCounterMethod(CounterValue{Key: "heading"}, "step", syntax.Detached())
	result, err := callBound(t, method, nil, NewArgs(syntax.Detached()))
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}

	content, ok := result.(ContentValue)
	if !ok || len(content.Content.Elements) != 1 {
		t.Fatalf("step should produce single-element content, got %v", result)
	}
	step, ok := content.Content.Elements[0].(*CounterStepElem)
	if !ok {
		t.Fatalf("expected CounterStepElem, got %T", content.Content.Elements[0])
	}
	if step.Key != "heading" || step.Level != 0 || step.Amount != 1 {
		t.Errorf("unexpected step element: %+v", step)
	}
	if !content.Content.ContainsStateOrCounter() {
		t.Error("step content should register as a counter update")
	}
}

func TestCounterUpdateSetsTuple(t *testing.T) {
	method := GetCounterMethod(CounterValue{Key: "c"}, "update", syntax.Detached())
	args := NewArgs(syntax.Detached())
	args.Push(Int(7), syntax.Detached())
	result, err := callBound(t, method, nil, args)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	step := result.(ContentValue).Content.Elements[0].(*CounterStepElem)
	if len(step.Set) != 1 || step.Set[0] != 7 {
		t.Errorf("expected Set [7], got %v", step.Set)
	}
}

func TestCounterGetRequiresContext(t *testing.T) {
	method := GetCounterMethod(CounterValue{Key: "c"}, "get", syntax.Detached())
	_, err := callBound(t, method, foundations.NewContext(), NewArgs(syntax.Detached()))
	if err == nil {
		t.Fatal("get outside of a context must fail")
	}
	var deferred *introspect.DeferredError
	if !asDeferredErr(err, &deferred) {
		t.Errorf("missing context should be a deferred error, got %T: %v", err, err)
	}
}

func asDeferredErr(err error, target **introspect.DeferredError) bool {
	for err != nil {
		if d, ok := err.(*introspect.DeferredError); ok {
			*target = d
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func TestCounterGetFoldsPriorEvents(t *testing.T) {
	// Two heading steps precede the reading location in layout order.
	reg := introspect.NewRegistry()
	locator := introspect.Root(1).Tracked()
	counter := introspect.NewCounter("heading")

	locs := make([]introspect.Location, 3)
	for i := range locs {
		locs[i] = locator.Next("HeadingElement", uint64(i))
	}
	reg.Push(introspect.Entry{
		Location: locs[0], Kind: "HeadingElement",
		UpdateKey: "heading", UpdateApply: counter.Update(introspect.Step(0, 1)),
	})
	reg.Push(introspect.Entry{
		Location: locs[1], Kind: "HeadingElement",
		UpdateKey: "heading", UpdateApply: counter.Update(introspect.Step(0, 1)),
	})
	reg.Push(introspect.Entry{Location: locs[2], Kind: "ContextElem"})

	ctx := foundations.NewContext()
	ctx.Introspector = reg.Freeze()
	ctx.Loc = locs[2]

	method := GetCounterMethod(CounterValue{Key: "heading"}, "get", syntax.Detached())
	result, err := callBound(t, method, ctx, NewArgs(syntax.Detached()))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	arr, ok := result.(*foundations.Array)
	if !ok || arr.Len() != 1 {
		t.Fatalf("expected single-element array, got %v", result)
	}
	if n, _ := foundations.AsInt(arr.At(0)); n != 2 {
		t.Errorf("expected counter value 2 after two steps, got %d", n)
	}
}

func TestStateUpdateAndFold(t *testing.T) {
	st := StateValue{Key: "state:mode", Init: Str("draft")}

	update := GetStateMethod(st, "update", syntax.Detached())
	args := NewArgs(syntax.Detached())
	args.Push(Str("final"), syntax.Detached())
	result, err := callBound(t, update, nil, args)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	elem := result.(ContentValue).Content.Elements[0].(*StateUpdateElem)
	if elem.Key != "state:mode" {
		t.Errorf("unexpected key %q", elem.Key)
	}

	reg := introspect.NewRegistry()
	loc := introspect.Root(2).Tracked().Next("StateUpdateElem", 0)
	reg.Push(introspect.Entry{
		Location: loc, Kind: "StateUpdateElem",
		UpdateKey: elem.Key, UpdateApply: elem.Apply,
	})

	ctx := foundations.NewContext()
	ctx.Introspector = reg.Freeze()

	final := GetStateMethod(st, "final", syntax.Detached())
	got, err := callBound(t, final, ctx, NewArgs(syntax.Detached()))
	if err != nil {
		t.Fatalf("final failed: %v", err)
	}
	if s, _ := AsStr(got); s != "final" {
		t.Errorf("expected folded state \"final\", got %v", got)
	}
}

func TestFormatNumbering(t *testing.T) {
	tests := []struct {
		pattern string
		nums    []int
		want    string
	}{
		{"", []int{2}, "2"},
		{"", []int{1, 2, 3}, "1.2.3"},
		{"1.", []int{4}, "4."},
		{"1.1", []int{2, 5}, "2.5"},
		{"a)", []int{3}, "c)"},
		{"A.", []int{27}, "AA."},
		{"i.", []int{4}, "iv."},
		{"I", []int{1999}, "MCMXCIX"},
		{"", nil, "0"},
		{"§1", []int{9}, "§9"},
	}
	for _, tt := range tests {
		if got := formatNumbering(tt.pattern, tt.nums); got != tt.want {
			t.Errorf("formatNumbering(%q, %v) = %q, want %q", tt.pattern, tt.nums, got, tt.want)
		}
	}
}

func TestQueryByLabelSeesRegistry(t *testing.T) {
	reg := introspect.NewRegistry()
	loc := introspect.Root(3).Tracked().Next("HeadingElement", 0)
	reg.Push(introspect.Entry{
		Location: loc,
		Kind:     "HeadingElement",
		Label:    "x",
		Payload:  &HeadingElement{Level: 1},
	})

	ctx := foundations.NewContext()
	ctx.Introspector = introspect.Empty()
	ctx.Registry = reg

	args := NewArgs(syntax.Detached())
	args.Push(LabelValue("x"), syntax.Detached())
	result, err := queryNative(nil, ctx, args)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	arr := result.(*foundations.Array)
	if arr.Len() != 1 {
		t.Fatalf("expected the in-pass entry to be visible, got %d results", arr.Len())
	}
}
