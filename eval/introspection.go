// Counter, state, and query functions for document introspection.
// Translated from typst-library/src/introspection/counter.rs, state.rs,
// query.rs, here.rs, and locate.rs

package eval

import (
	"fmt"
	"strings"

	"typstcore/introspect"
	"typstcore/library/foundations"
	liblayout "typstcore/library/layout"
	"typstcore/syntax"
)

// ----------------------------------------------------------------------------
// Values
// ----------------------------------------------------------------------------

// CounterValue is a handle on a named document counter. Reads fold the
// update events recorded in the previous pass's introspector snapshot;
// writes produce update elements that realization registers.
type CounterValue struct {
	foundations.ValueMarker
	Key string
}

func (CounterValue) Type() Type         { return foundations.TypeCounter }
func (v CounterValue) Display() Content { return Content{} }
func (v CounterValue) Clone() Value     { return v }

// StateValue is a handle on a named document state register.
type StateValue struct {
	foundations.ValueMarker
	Key  string
	Init Value
}

func (StateValue) Type() Type         { return foundations.TypeState }
func (v StateValue) Display() Content { return Content{} }
func (v StateValue) Clone() Value     { return v }

// LocationValue wraps an element location as a script-visible value.
type LocationValue struct {
	foundations.ValueMarker
	Loc introspect.Location
}

func (LocationValue) Type() Type         { return foundations.TypeLocation }
func (v LocationValue) Display() Content { return Content{} }
func (v LocationValue) Clone() Value     { return v }

// ----------------------------------------------------------------------------
// Update Elements
// ----------------------------------------------------------------------------

// CounterStepElem is the update event produced by counter.step() and
// counter.update(): it either advances the field at Level by Amount
// (resetting deeper fields) or, when Set is non-nil, replaces the tuple
// outright. Realization assigns it a location and registers it; queries
// then fold it in layout order.
type CounterStepElem struct {
	Key    string
	Level  int
	Amount int
	Set    []int
}

func (*CounterStepElem) IsContentElement() {}
func (*CounterStepElem) Unlabellable()     {}

// UpdateEventKey names the counter this element updates.
func (e *CounterStepElem) UpdateEventKey() string { return e.Key }

// StateUpdateElem is the update event produced by state.update().
type StateUpdateElem struct {
	Key   string
	Apply func(prev any) any
}

func (*StateUpdateElem) IsContentElement() {}
func (*StateUpdateElem) Unlabellable()     {}

// UpdateEventKey names the state this element updates.
func (e *StateUpdateElem) UpdateEventKey() string { return e.Key }

// ----------------------------------------------------------------------------
// Element Functions
// ----------------------------------------------------------------------------

// counterKey derives the register key from the value passed to counter():
// a string names a free counter, a label scopes a counter to labelled
// content, and an element function selects the built-in counter of that
// element kind (e.g. counter(heading)).
func counterKey(v Value, span syntax.Span) (string, error) {
	switch t := v.(type) {
	case StrValue:
		return string(t), nil
	case LabelValue:
		return "label:" + string(t), nil
	case FuncValue:
		if t.Func != nil && t.Func.Name != nil {
			return *t.Func.Name, nil
		}
	case CounterValue:
		return t.Key, nil
	}
	return "", &InvalidArgumentError{
		Message: "expected string, label, or element function",
		Span:    span,
	}
}

// CounterFunc creates the counter() function.
func CounterFunc() *Func {
	name := "counter"
	return &Func{
		Name: &name,
		Span: syntax.Detached(),
		Repr: NativeFunc{
			Func: counterNative,
			Info: &FuncInfo{
				Name: "counter",
				Params: []ParamInfo{
					{Name: "key", Type: TypeStr, Named: false},
				},
			},
		},
	}
}

func counterNative(engine *Engine, context *Context, args *Args) (Value, error) {
	keyArg, err := args.Expect("key")
	if err != nil {
		return nil, err
	}
	key, err := counterKey(keyArg.V, keyArg.Span)
	if err != nil {
		return nil, err
	}
	if err := args.Finish(); err != nil {
		return nil, err
	}
	return CounterValue{Key: key}, nil
}

// StateFunc creates the state() function.
func StateFunc() *Func {
	name := "state"
	return &Func{
		Name: &name,
		Span: syntax.Detached(),
		Repr: NativeFunc{
			Func: stateNative,
			Info: &FuncInfo{
				Name: "state",
				Params: []ParamInfo{
					{Name: "key", Type: TypeStr, Named: false},
					{Name: "init", Named: false, Default: None},
				},
			},
		},
	}
}

func stateNative(engine *Engine, context *Context, args *Args) (Value, error) {
	keyArg, err := args.Expect("key")
	if err != nil {
		return nil, err
	}
	key, ok := AsStr(keyArg.V)
	if !ok {
		return nil, &TypeMismatchError{
			Expected: "string",
			Got:      keyArg.V.Type().String(),
			Span:     keyArg.Span,
		}
	}

	var init Value = None
	if initArg := args.Eat(); initArg != nil {
		init = initArg.V
	}
	if err := args.Finish(); err != nil {
		return nil, err
	}
	return StateValue{Key: "state:" + key, Init: init}, nil
}

// HereFunc creates the here() function, returning the location of the
// enclosing context.
func HereFunc() *Func {
	name := "here"
	return &Func{
		Name: &name,
		Span: syntax.Detached(),
		Repr: NativeFunc{
			Func: func(engine *Engine, context *Context, args *Args) (Value, error) {
				if err := args.Finish(); err != nil {
					return nil, err
				}
				loc, err := context.GetLoc()
				if err != nil {
					return nil, err
				}
				return LocationValue{Loc: loc}, nil
			},
			Info: &FuncInfo{Name: "here"},
		},
	}
}

// LocateFunc creates the locate() function, resolving a label to the
// location of the (unique) element carrying it.
func LocateFunc() *Func {
	name := "locate"
	return &Func{
		Name: &name,
		Span: syntax.Detached(),
		Repr: NativeFunc{
			Func: locateNative,
			Info: &FuncInfo{
				Name: "locate",
				Params: []ParamInfo{
					{Name: "target", Type: TypeLabel, Named: false},
				},
			},
		},
	}
}

func locateNative(engine *Engine, context *Context, args *Args) (Value, error) {
	targetArg, err := args.Expect("target")
	if err != nil {
		return nil, err
	}
	if err := args.Finish(); err != nil {
		return nil, err
	}
	label, ok := targetArg.V.(LabelValue)
	if !ok {
		return nil, &TypeMismatchError{
			Expected: "label",
			Got:      targetArg.V.Type().String(),
			Span:     targetArg.Span,
		}
	}

	ins, err := context.GetIntrospector()
	if err != nil {
		return nil, err
	}
	for _, e := range queryEntries(ins, context, func(e introspect.Entry) bool {
		return e.Label == string(label)
	}) {
		return LocationValue{Loc: e.Location}, nil
	}
	return nil, introspect.NewDeferredError(fmt.Errorf("label <%s> does not exist in the document", label))
}

// QueryFunc creates the query() function.
func QueryFunc() *Func {
	name := "query"
	return &Func{
		Name: &name,
		Span: syntax.Detached(),
		Repr: NativeFunc{
			Func: queryNative,
			Info: &FuncInfo{
				Name: "query",
				Params: []ParamInfo{
					{Name: "target", Named: false},
				},
			},
		},
	}
}

// elementKindNames maps element function names to the element kinds
// realization records, so query(heading) finds HeadingElement entries.
var elementKindNames = map[string]string{
	"heading":  "HeadingElement",
	"par":      "ParagraphElement",
	"text":     "TextElement",
	"image":    "ImageElement",
	"equation": "EquationElement",
	"ref":      "RefElement",
	"link":     "LinkElement",
	"raw":      "RawElement",
}

func queryNative(engine *Engine, context *Context, args *Args) (Value, error) {
	targetArg, err := args.Expect("target")
	if err != nil {
		return nil, err
	}
	if err := args.Finish(); err != nil {
		return nil, err
	}

	var match func(introspect.Entry) bool
	switch t := targetArg.V.(type) {
	case LabelValue:
		match = func(e introspect.Entry) bool { return e.Label == string(t) }
	case FuncValue:
		if t.Func == nil || t.Func.Name == nil {
			return nil, &InvalidArgumentError{Message: "expected element function", Span: targetArg.Span}
		}
		kind, ok := elementKindNames[*t.Func.Name]
		if !ok {
			return nil, &InvalidArgumentError{
				Message: fmt.Sprintf("%s is not queryable", *t.Func.Name),
				Span:    targetArg.Span,
			}
		}
		match = func(e introspect.Entry) bool { return e.Kind == kind }
	default:
		return nil, &TypeMismatchError{
			Expected: "label or element function",
			Got:      targetArg.V.Type().String(),
			Span:     targetArg.Span,
		}
	}

	ins, err := context.GetIntrospector()
	if err != nil {
		return nil, err
	}

	arr := foundations.NewArray()
	for _, e := range queryEntries(ins, context, match) {
		if elem, ok := e.Payload.(ContentElement); ok {
			arr.Push(ContentValue{Content: Content{Elements: []ContentElement{elem}}})
		}
	}
	return arr, nil
}

// queryEntries returns the snapshot entries matching sel, merged with
// in-pass registry entries whose locations the snapshot does not know
// yet, in layout order. The merge makes elements realized earlier in the
// current pass visible to queries before the next snapshot freeze.
func queryEntries(ins *introspect.Introspector, context *Context, sel func(introspect.Entry) bool) []introspect.Entry {
	out := ins.Query(func(e introspect.Entry) bool { return sel(e) })

	if context != nil && context.Registry != nil {
		for _, e := range context.Registry.InPassLookup() {
			if !sel(e) {
				continue
			}
			if _, known := ins.ByLocation(e.Location); known {
				continue
			}
			out = append(out, e)
		}
	}
	return out
}

// ----------------------------------------------------------------------------
// Counter Methods
// ----------------------------------------------------------------------------

// GetCounterMethod returns a bound method on a counter value.
func GetCounterMethod(target CounterValue, methodName string, span syntax.Span) Value {
	var fn func(engine *Engine, context *Context, args *Args) (Value, error)
	counter := introspect.NewCounter(target.Key)

	switch methodName {
	case "get":
		fn = func(engine *Engine, context *Context, args *Args) (Value, error) {
			if err := args.Finish(); err != nil {
				return nil, err
			}
			ins, err := context.GetIntrospector()
			if err != nil {
				return nil, err
			}
			loc, err := context.GetLoc()
			if err != nil {
				return nil, err
			}
			return intTupleValue(counter.At(ins, loc, false)), nil
		}

	case "at":
		fn = func(engine *Engine, context *Context, args *Args) (Value, error) {
			locArg, err := args.Expect("location")
			if err != nil {
				return nil, err
			}
			if err := args.Finish(); err != nil {
				return nil, err
			}
			ins, err := context.GetIntrospector()
			if err != nil {
				return nil, err
			}
			loc, err := resolveLocation(ins, context, locArg.V, locArg.Span)
			if err != nil {
				return nil, err
			}
			return intTupleValue(counter.At(ins, loc, false)), nil
		}

	case "final":
		fn = func(engine *Engine, context *Context, args *Args) (Value, error) {
			if err := args.Finish(); err != nil {
				return nil, err
			}
			ins, err := context.GetIntrospector()
			if err != nil {
				return nil, err
			}
			return intTupleValue(counter.Final(ins)), nil
		}

	case "display":
		fn = func(engine *Engine, context *Context, args *Args) (Value, error) {
			pattern := ""
			if patArg := args.Eat(); patArg != nil {
				if s, ok := AsStr(patArg.V); ok {
					pattern = s
				}
			}
			if err := args.Finish(); err != nil {
				return nil, err
			}
			// Deferred: the displayed value depends on where this node
			// ends up, which realization only knows once it assigns the
			// node a location.
			inner := &Func{
				Span: span,
				Repr: NativeFunc{
					Func: func(engine *Engine, context *Context, args *Args) (Value, error) {
						ins, err := context.GetIntrospector()
						if err != nil {
							return nil, err
						}
						loc, err := context.GetLoc()
						if err != nil {
							return nil, err
						}
						nums := counter.At(ins, loc, true)
						return ContentValue{Content: Content{
							Elements: []ContentElement{&TextElement{Text: formatNumbering(pattern, nums)}},
						}}, nil
					},
					Info: &FuncInfo{Name: "display"},
				},
			}
			return ContentValue{Content: Content{
				Elements: []ContentElement{&ContextElem{Func: inner}},
			}}, nil
		}

	case "step":
		fn = func(engine *Engine, context *Context, args *Args) (Value, error) {
			level := int64(1)
			if lvlArg := args.Named("level"); lvlArg != nil {
				if n, ok := AsInt(lvlArg.V); ok {
					level = n
				}
			}
			if err := args.Finish(); err != nil {
				return nil, err
			}
			if level < 1 {
				return nil, &InvalidArgumentError{Message: "level must be at least 1", Span: span}
			}
			return ContentValue{Content: Content{
				Elements: []ContentElement{&CounterStepElem{
					Key:    target.Key,
					Level:  int(level) - 1,
					Amount: 1,
				}},
			}}, nil
		}

	case "update":
		fn = func(engine *Engine, context *Context, args *Args) (Value, error) {
			valArg, err := args.Expect("value")
			if err != nil {
				return nil, err
			}
			if err := args.Finish(); err != nil {
				return nil, err
			}
			var set []int
			switch v := valArg.V.(type) {
			case IntValue:
				set = []int{int(v)}
			case *ArrayValue:
				for _, item := range v.Items() {
					n, ok := AsInt(item)
					if !ok {
						return nil, &TypeMismatchError{
							Expected: "integer",
							Got:      item.Type().String(),
							Span:     valArg.Span,
						}
					}
					set = append(set, int(n))
				}
				if set == nil {
					set = []int{}
				}
			default:
				return nil, &TypeMismatchError{
					Expected: "integer or array of integers",
					Got:      valArg.V.Type().String(),
					Span:     valArg.Span,
				}
			}
			return ContentValue{Content: Content{
				Elements: []ContentElement{&CounterStepElem{Key: target.Key, Set: set}},
			}}, nil
		}

	default:
		return nil
	}

	return boundMethod(methodName, span, fn)
}

// ----------------------------------------------------------------------------
// State Methods
// ----------------------------------------------------------------------------

// GetStateMethod returns a bound method on a state value.
func GetStateMethod(target StateValue, methodName string, span syntax.Span) Value {
	var fn func(engine *Engine, context *Context, args *Args) (Value, error)
	st := introspect.NewState(target.Key, target.Init)

	read := func(context *Context, at func(*introspect.Introspector) any) (Value, error) {
		ins, err := context.GetIntrospector()
		if err != nil {
			return nil, err
		}
		v, ok := at(ins).(Value)
		if !ok {
			return None, nil
		}
		return v, nil
	}

	switch methodName {
	case "get":
		fn = func(engine *Engine, context *Context, args *Args) (Value, error) {
			if err := args.Finish(); err != nil {
				return nil, err
			}
			loc, err := context.GetLoc()
			if err != nil {
				return nil, err
			}
			return read(context, func(ins *introspect.Introspector) any {
				return st.At(ins, loc, false)
			})
		}

	case "at":
		fn = func(engine *Engine, context *Context, args *Args) (Value, error) {
			locArg, err := args.Expect("location")
			if err != nil {
				return nil, err
			}
			if err := args.Finish(); err != nil {
				return nil, err
			}
			ins, err := context.GetIntrospector()
			if err != nil {
				return nil, err
			}
			loc, err := resolveLocation(ins, context, locArg.V, locArg.Span)
			if err != nil {
				return nil, err
			}
			return read(context, func(ins *introspect.Introspector) any {
				return st.At(ins, loc, false)
			})
		}

	case "final":
		fn = func(engine *Engine, context *Context, args *Args) (Value, error) {
			if err := args.Finish(); err != nil {
				return nil, err
			}
			return read(context, func(ins *introspect.Introspector) any {
				return st.Final(ins)
			})
		}

	case "update":
		fn = func(engine *Engine, context *Context, args *Args) (Value, error) {
			valArg, err := args.Expect("value")
			if err != nil {
				return nil, err
			}
			if err := args.Finish(); err != nil {
				return nil, err
			}

			var apply func(prev any) any
			if updateFn, ok := AsFunc(valArg.V); ok {
				// The closure captures the engine so the fold can invoke
				// user code when the registers are read back.
				captured := engine
				apply = func(prev any) any {
					prevVal, ok := prev.(Value)
					if !ok {
						prevVal = None
					}
					scopes := NewScopes(captured.World.Library())
					vm := NewVm(captured, foundations.NewContext(), scopes, updateFn.Span)
					callArgs := NewArgs(updateFn.Span)
					callArgs.Push(prevVal, updateFn.Span)
					result, err := CallFunc(vm, updateFn, callArgs)
					if err != nil {
						return prev
					}
					return result
				}
			} else {
				value := valArg.V
				apply = func(any) any { return value }
			}

			return ContentValue{Content: Content{
				Elements: []ContentElement{&StateUpdateElem{Key: target.Key, Apply: apply}},
			}}, nil
		}

	default:
		return nil
	}

	return boundMethod(methodName, span, fn)
}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

// boundMethod wraps fn as a named function value.
func boundMethod(name string, span syntax.Span, fn func(*Engine, *Context, *Args) (Value, error)) Value {
	method := name
	return FuncValue{Func: &Func{
		Name: &method,
		Span: span,
		Repr: NativeFunc{
			Func: fn,
			Info: &FuncInfo{Name: name},
		},
	}}
}

// resolveLocation converts a location-or-label argument to a Location.
func resolveLocation(ins *introspect.Introspector, context *Context, v Value, span syntax.Span) (introspect.Location, error) {
	switch t := v.(type) {
	case LocationValue:
		return t.Loc, nil
	case LabelValue:
		for _, e := range queryEntries(ins, context, func(e introspect.Entry) bool {
			return e.Label == string(t)
		}) {
			return e.Location, nil
		}
		return introspect.Nil, introspect.NewDeferredError(
			fmt.Errorf("label <%s> does not exist in the document", t))
	}
	return introspect.Nil, &TypeMismatchError{
		Expected: "location or label",
		Got:      v.Type().String(),
		Span:     span,
	}
}

// intTupleValue converts a counter tuple to an array value. An empty
// tuple reads as [0]: a counter that was never stepped is at zero.
func intTupleValue(nums []int) Value {
	if len(nums) == 0 {
		nums = []int{0}
	}
	arr := foundations.NewArray()
	for _, n := range nums {
		arr.Push(Int(int64(n)))
	}
	return arr
}

// formatNumbering renders a counter tuple against a numbering pattern.
// Counting symbols (1, a, A, i, I) consume successive tuple fields; the
// characters before each symbol form its prefix and the characters after
// the last symbol form the suffix. Extra fields repeat the last symbol
// with its prefix. An empty pattern joins arabic numbers with dots.
func formatNumbering(pattern string, nums []int) string {
	if len(nums) == 0 {
		nums = []int{0}
	}
	if pattern == "" {
		parts := make([]string, len(nums))
		for i, n := range nums {
			parts[i] = fmt.Sprintf("%d", n)
		}
		return strings.Join(parts, ".")
	}

	type piece struct {
		prefix string
		symbol rune
	}
	var pieces []piece
	var pending strings.Builder
	for _, r := range pattern {
		switch r {
		case '1', 'a', 'A', 'i', 'I':
			pieces = append(pieces, piece{prefix: pending.String(), symbol: r})
			pending.Reset()
		default:
			pending.WriteRune(r)
		}
	}
	suffix := pending.String()

	if len(pieces) == 0 {
		return pattern
	}

	var out strings.Builder
	for i, n := range nums {
		p := pieces[len(pieces)-1]
		if i < len(pieces) {
			p = pieces[i]
		}
		out.WriteString(p.prefix)
		out.WriteString(formatNumberingSymbol(p.symbol, n))
	}
	out.WriteString(suffix)
	return out.String()
}

// formatNumberingSymbol renders one number in the style of a counting
// symbol.
func formatNumberingSymbol(symbol rune, n int) string {
	switch symbol {
	case 'a', 'A':
		if n <= 0 {
			return "0"
		}
		var out []rune
		for n > 0 {
			n--
			out = append([]rune{rune('a' + n%26)}, out...)
			n /= 26
		}
		if symbol == 'A' {
			return strings.ToUpper(string(out))
		}
		return string(out)
	case 'i', 'I':
		if n <= 0 {
			return "0"
		}
		roman := toRoman(n)
		if symbol == 'i' {
			return strings.ToLower(roman)
		}
		return roman
	default:
		return fmt.Sprintf("%d", n)
	}
}

// registerIntrospectionFunctions adds the introspection functions to the
// standard library scope.
func registerIntrospectionFunctions(scope *Scope) {
	scope.DefineFunc("counter", CounterFunc())
	scope.DefineFunc("state", StateFunc())
	scope.DefineFunc("query", QueryFunc())
	scope.DefineFunc("here", HereFunc())
	scope.DefineFunc("locate", LocateFunc())
}

// elementTableOnce guards the element table registration: Library() may
// be called more than once (tests, multiple worlds), the table is
// process-wide.
var elementTableRegistered bool

// registerElementTable enters the closed set of element kinds into the
// foundations element registry. A function is recognized as an element
// function (usable as a set rule target or show selector) exactly when
// its name appears here.
func registerElementTable() {
	if elementTableRegistered {
		return
	}
	elementTableRegistered = true

	foundations.RegisterElement[TextElement]("text", nil)
	foundations.RegisterElement[ParagraphElement]("par", nil)
	foundations.RegisterElement[HeadingElement]("heading", nil)
	foundations.RegisterElement[StrongElement]("strong", nil)
	foundations.RegisterElement[EmphElement]("emph", nil)
	foundations.RegisterElement[RawElement]("raw", nil)
	foundations.RegisterElement[LinkElement]("link", nil)
	foundations.RegisterElement[RefElement]("ref", nil)
	foundations.RegisterElement[ListElement]("list", nil)
	foundations.RegisterElement[EnumElement]("enum", nil)
	foundations.RegisterElement[TermsElement]("terms", nil)
	foundations.RegisterElement[TableElement]("table", nil)
	foundations.RegisterElement[PageElement]("page", nil)
	foundations.RegisterElement[BlockElement]("block", nil)
	foundations.RegisterElement[BoxElement]("box", nil)
	foundations.RegisterElement[ImageElement]("image", nil)
	foundations.RegisterElement[ColumnsElement]("columns", nil)
	foundations.RegisterElement[StackElement]("stack", nil)
	foundations.RegisterElement[liblayout.AlignElement]("align", nil)
	foundations.RegisterElement[liblayout.GridElement]("grid", nil)
}

var romanValues = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func toRoman(n int) string {
	var out strings.Builder
	for _, rv := range romanValues {
		for n >= rv.value {
			out.WriteString(rv.symbol)
			n -= rv.value
		}
	}
	return out.String()
}
