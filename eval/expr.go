package eval

import (
	"fmt"
	"strconv"

	"typstcore/syntax"
)

// EvalExpr evaluates an expression and returns its value.
//
// This is the exported entry point for expression evaluation; it
// delegates to the internal dispatcher, which handles flow events,
// span attachment, and tracing uniformly.
func EvalExpr(vm *Vm, expr syntax.Expr) (Value, error) {
	if vm.HasFlow() {
		return None, nil
	}
	return evalExpr(vm, expr)
}

// ----------------------------------------------------------------------------
// Operator Evaluators
// ----------------------------------------------------------------------------

func evalUnary(vm *Vm, e *syntax.UnaryExpr) (Value, error) {
	operand, err := EvalExpr(vm, e.Expr())
	if err != nil {
		return nil, err
	}

	op := e.Op()
	span := e.ToUntyped().Span()

	var result Value
	switch op {
	case syntax.UnOpPos:
		result, err = Pos(operand)
	case syntax.UnOpNeg:
		result, err = Neg(operand)
	case syntax.UnOpNot:
		result, err = Not(operand)
	default:
		return nil, &UnsupportedOperatorError{Op: op.String(), Span: span}
	}
	if err != nil {
		return nil, atSpan(err, span)
	}
	return result, nil
}

func evalBinary(vm *Vm, e *syntax.BinaryExpr) (Value, error) {
	op := e.Op()
	span := e.ToUntyped().Span()

	// Handle short-circuit operators
	if op == syntax.BinOpAnd || op == syntax.BinOpOr {
		return evalShortCircuit(vm, e)
	}

	// Handle assignment operators
	if op.IsAssignment() {
		return evalAssignment(vm, e)
	}

	// Evaluate both operands
	lhs, err := EvalExpr(vm, e.Lhs())
	if err != nil {
		return nil, err
	}

	rhs, err := EvalExpr(vm, e.Rhs())
	if err != nil {
		return nil, err
	}

	// Apply the operator
	return applyBinaryOp(op, lhs, rhs, span)
}

func evalShortCircuit(vm *Vm, e *syntax.BinaryExpr) (Value, error) {
	op := e.Op()

	lhs, err := EvalExpr(vm, e.Lhs())
	if err != nil {
		return nil, err
	}

	lhsBool, ok := AsBool(lhs)
	if !ok {
		return nil, &TypeError{Expected: TypeBool, Got: lhs.Type(), Span: e.Lhs().ToUntyped().Span()}
	}

	// Short-circuit evaluation
	if op == syntax.BinOpAnd && !lhsBool {
		return False, nil
	}
	if op == syntax.BinOpOr && lhsBool {
		return True, nil
	}

	// Evaluate right side
	rhs, err := EvalExpr(vm, e.Rhs())
	if err != nil {
		return nil, err
	}

	rhsBool, ok := AsBool(rhs)
	if !ok {
		return nil, &TypeError{Expected: TypeBool, Got: rhs.Type(), Span: e.Rhs().ToUntyped().Span()}
	}

	return Bool(rhsBool), nil
}

func evalAssignment(vm *Vm, e *syntax.BinaryExpr) (Value, error) {
	op := e.Op()
	lhsExpr := e.Lhs()
	rhsExpr := e.Rhs()

	// Evaluate the right-hand side
	rhs, err := EvalExpr(vm, rhsExpr)
	if err != nil {
		return nil, err
	}

	// For compound assignments, we need to compute the new value
	if op != syntax.BinOpAssign {
		lhs, err := EvalExpr(vm, lhsExpr)
		if err != nil {
			return nil, err
		}

		var opResult Value
		span := e.ToUntyped().Span()

		switch op {
		case syntax.BinOpAddAssign:
			opResult, err = Add(lhs, rhs)
		case syntax.BinOpSubAssign:
			opResult, err = Sub(lhs, rhs)
		case syntax.BinOpMulAssign:
			opResult, err = Mul(lhs, rhs)
		case syntax.BinOpDivAssign:
			opResult, err = Div(lhs, rhs)
		default:
			return nil, &UnsupportedOperatorError{Op: op.String(), Span: span}
		}
		if err != nil {
			return nil, atSpan(err, span)
		}
		rhs = opResult
	}

	// Perform the assignment
	return assignToExpr(vm, lhsExpr, rhs)
}

// assignToExpr assigns a value to an lvalue expression.
func assignToExpr(vm *Vm, expr syntax.Expr, value Value) (Value, error) {
	switch e := expr.(type) {
	case *syntax.IdentExpr:
		name := e.Get()
		binding := vm.GetMut(name)
		if binding == nil {
			return nil, &UndefinedVariableError{Name: name, Span: e.ToUntyped().Span()}
		}
		if err := binding.Write(value); err != nil {
			return nil, err
		}
		return None, nil

	case *syntax.FieldAccessExpr:
		// Get the target object
		target, err := EvalExpr(vm, e.Target())
		if err != nil {
			return nil, err
		}

		field := e.Field()
		if field == nil {
			return nil, &TypeError{Expected: TypeDict, Got: target.Type(), Span: e.ToUntyped().Span()}
		}
		fieldName := field.Get()

		// For dictionary field access
		if dict, ok := AsDict(target); ok {
			dict.Set(fieldName, value)
			return None, nil
		}

		return nil, &TypeError{Expected: TypeDict, Got: target.Type(), Span: e.ToUntyped().Span()}

	default:
		return nil, &InvalidAssignmentTargetError{Span: expr.ToUntyped().Span()}
	}
}

func applyBinaryOp(op syntax.BinOp, lhs, rhs Value, span syntax.Span) (Value, error) {
	var result Value
	var err error
	switch op {
	case syntax.BinOpAdd:
		result, err = Add(lhs, rhs)
	case syntax.BinOpSub:
		result, err = Sub(lhs, rhs)
	case syntax.BinOpMul:
		result, err = Mul(lhs, rhs)
	case syntax.BinOpDiv:
		result, err = Div(lhs, rhs)
	case syntax.BinOpEq:
		result, err = Eq(lhs, rhs)
	case syntax.BinOpNeq:
		result, err = Neq(lhs, rhs)
	case syntax.BinOpLt:
		result, err = Lt(lhs, rhs)
	case syntax.BinOpLeq:
		result, err = Leq(lhs, rhs)
	case syntax.BinOpGt:
		result, err = Gt(lhs, rhs)
	case syntax.BinOpGeq:
		result, err = Geq(lhs, rhs)
	case syntax.BinOpIn:
		result, err = In(lhs, rhs)
	case syntax.BinOpNotIn:
		result, err = NotIn(lhs, rhs)
	default:
		return nil, &UnsupportedOperatorError{Op: op.String(), Span: span}
	}
	if err != nil {
		return nil, atSpan(err, span)
	}
	return result, nil
}

// getBuiltinMethod returns a built-in method for a value, or nil if not found.
func getBuiltinMethod(target Value, name string, span syntax.Span) Value {
	switch t := target.(type) {
	case StrValue:
		return GetStrMethod(t, name, span)
	case *ArrayValue:
		return GetArrayMethod(*t, name, span)
	case CounterValue:
		return GetCounterMethod(t, name, span)
	case StateValue:
		return GetStateMethod(t, name, span)
	}
	return nil
}

func evalFuncCall(vm *Vm, e *syntax.FuncCallExpr) (Value, error) {
	// Check call depth
	if err := vm.CheckCallDepth(); err != nil {
		return nil, err
	}

	// Evaluate the callee
	calleeExpr := e.Callee()
	callee, err := EvalExpr(vm, calleeExpr)
	if err != nil {
		return nil, err
	}

	// Build arguments
	args, err := evalArgs(vm, e.Args())
	if err != nil {
		return nil, err
	}

	// Call the function
	return callFunc(vm, callee, args, e.ToUntyped().Span())
}

// callFunc calls a function with the given arguments.
func callFunc(vm *Vm, callee Value, args *Args, span syntax.Span) (Value, error) {
	fn, ok := AsFunc(callee)
	if !ok {
		return nil, &TypeError{Expected: TypeFunc, Got: callee.Type(), Span: span}
	}

	vm.EnterCall()
	defer vm.ExitCall()

	switch repr := fn.Repr.(type) {
	case NativeFunc:
		return repr.Func(vm.Engine, vm.Context, args)

	case ClosureFunc:
		return evalClosureCall(vm, fn, repr.Closure, args)

	case WithFunc:
		// Merge pre-applied args with new args
		merged := mergeArgs(repr.Args, args)
		return callFunc(vm, FuncValue{Func: repr.Func}, merged, span)

	default:
		return nil, &TypeError{Expected: TypeFunc, Got: callee.Type(), Span: span}
	}
}

// mergeArgs merges pre-applied arguments with new arguments.
func mergeArgs(pre, new *Args) *Args {
	if pre == nil {
		return new
	}
	if new == nil {
		return pre
	}
	result := &Args{Span: new.Span}
	result.Items = append(result.Items, pre.Items...)
	result.Items = append(result.Items, new.Items...)
	return result
}

// evalClosureCall evaluates a closure call.
func evalClosureCall(vm *Vm, fn *Func, closure *Closure, args *Args) (Value, error) {
	if closure == nil {
		return nil, &TypeError{Expected: TypeFunc, Got: TypeNone, Span: fn.Span}
	}

	// Create new scopes with captured variables
	scopes := NewScopes(nil)
	if closure.Captured != nil {
		scopes.SetTop(closure.Captured.Clone())
	}

	// Create new VM for closure evaluation
	closureVm := NewVm(vm.Engine, vm.Context, scopes, fn.Span)

	// Bind function name for recursion
	if fn.Name != nil {
		closureVm.Define(*fn.Name, FuncValue{Func: fn})
	}

	// Bind parameters from arguments
	// This is simplified - full implementation would handle all param types
	if closure.Node != nil {
		if closureAst, ok := closure.Node.(ClosureAstNode); ok {
			closureExpr := syntax.ClosureExprFromNode(closureAst.Node)
			if closureExpr != nil {
				if err := bindParams(closureVm, closureExpr.Params(), args, closure.Defaults); err != nil {
					return nil, err
				}

				// Evaluate body
				body := closureExpr.Body()
				if body != nil {
					result, err := EvalExpr(closureVm, body)
					if err != nil {
						return nil, err
					}

					// Handle return flow
					if closureVm.HasFlow() {
						if ret, ok := closureVm.Flow.(ReturnEvent); ok {
							if ret.Value != nil {
								return ret.Value, nil
							}
							return result, nil
						}
					}
					return result, nil
				}
			}
		}
	}

	return None, nil
}

// bindParams binds function parameters from arguments.
func bindParams(vm *Vm, params *syntax.ParamsNode, args *Args, defaults []Value) error {
	if params == nil {
		return nil
	}

	paramList := params.Children()
	argIndex := 0
	defaultIndex := 0

	for _, param := range paramList {
		switch p := param.(type) {
		case *syntax.PosParam:
			// Positional parameter
			ident := p.Name()
			if ident == nil {
				continue
			}
			name := ident.Get()

			if argIndex < len(args.Items) && args.Items[argIndex].Name == nil {
				vm.Define(name, args.Items[argIndex].Value.V)
				argIndex++
			} else {
				// No argument provided
				return &MissingArgumentError{What: name, Span: ident.ToUntyped().Span()}
			}

		case *syntax.NamedParam:
			// Named parameter with default
			ident := p.Name()
			if ident == nil {
				continue
			}
			name := ident.Get()

			// Look for named argument
			found := false
			for _, arg := range args.Items {
				if arg.Name != nil && *arg.Name == name {
					vm.Define(name, arg.Value.V)
					found = true
					break
				}
			}

			if !found {
				// Use default value
				if defaultIndex < len(defaults) {
					vm.Define(name, defaults[defaultIndex])
				} else {
					vm.Define(name, None)
				}
			}
			defaultIndex++

		case *syntax.SinkParam:
			// Rest parameter - collect remaining positional args
			ident := p.Name()
			if ident == nil {
				continue
			}
			name := ident.Get()

			var rest ArrayValue
			for argIndex < len(args.Items) {
				if args.Items[argIndex].Name == nil {
					rest = append(rest, args.Items[argIndex].Value.V)
				}
				argIndex++
			}
			vm.Define(name, rest)
		}
	}

	return nil
}

// ----------------------------------------------------------------------------
// Closure Evaluation
// ----------------------------------------------------------------------------

func evalClosure(vm *Vm, e *syntax.ClosureExpr) (Value, error) {
	// Evaluate default values for named parameters
	var defaults []Value
	params := e.Params()
	if params != nil {
		for _, param := range params.Children() {
			if np, ok := param.(*syntax.NamedParam); ok {
				if defExpr := np.Default(); defExpr != nil {
					defVal, err := EvalExpr(vm, defExpr)
					if err != nil {
						return nil, err
					}
					defaults = append(defaults, defVal)
				}
			}
		}
	}

	// Capture variables
	captured := captureVariables(vm, e)

	// Count positional parameters
	numPosParams := countPosParams(e)

	// Get optional name
	var name *string
	if nameExpr := e.Name(); nameExpr != nil {
		n := nameExpr.Get()
		name = &n
	}

	// Create closure
	closure := &Closure{
		Node:         ClosureAstNode{Node: e.ToUntyped()},
		Defaults:     defaults,
		Captured:     captured,
		NumPosParams: numPosParams,
	}

	fn := &Func{
		Name: name,
		Span: e.ToUntyped().Span(),
		Repr: ClosureFunc{Closure: closure},
	}

	return FuncValue{Func: fn}, nil
}

// captureVariables captures variables referenced by a closure.
func captureVariables(vm *Vm, e *syntax.ClosureExpr) *Scope {
	// For now, capture all accessible variables
	// A proper implementation would use static analysis to capture only referenced variables
	return vm.Scopes.FlattenToScope()
}

// countPosParams counts positional parameters in a closure.
func countPosParams(e *syntax.ClosureExpr) int {
	params := e.Params()
	if params == nil {
		return 0
	}

	count := 0
	for _, param := range params.Children() {
		if _, ok := param.(*syntax.PosParam); ok {
			count++
		}
	}
	return count
}

// ----------------------------------------------------------------------------
// Let Binding and Destructuring
// ----------------------------------------------------------------------------

func evalLetBinding(vm *Vm, e *syntax.LetBindingExpr) (Value, error) {
	if e.BindingKind() == syntax.LetBindingClosure {
		// Closure binding: let f(x) = ...
		init := e.Init()
		if init == nil {
			return None, nil
		}

		value, err := EvalExpr(vm, init)
		if err != nil {
			return nil, err
		}
		if vm.HasFlow() {
			return None, nil
		}

		// For closure bindings, the pattern contains the function name
		if closure, ok := init.(*syntax.ClosureExpr); ok {
			if name := closure.Name(); name != nil {
				vm.Define(name.Get(), value)
			}
		}
		return None, nil
	}

	// Plain binding: let x = ...
	var value Value = None
	if init := e.Init(); init != nil {
		var err error
		value, err = EvalExpr(vm, init)
		if err != nil {
			return nil, err
		}
		if vm.HasFlow() {
			return None, nil
		}
	}

	// Destructure the pattern using the complete binding.go implementation
	pattern := e.Pattern()
	if err := Destructure(vm, pattern, value); err != nil {
		return nil, err
	}
	return None, nil
}

func evalDestructAssignment(vm *Vm, e *syntax.DestructAssignmentExpr) (Value, error) {
	// Evaluate the value
	valueExpr := e.Value()
	if valueExpr == nil {
		return None, nil
	}

	value, err := EvalExpr(vm, valueExpr)
	if err != nil {
		return nil, err
	}

	// Destructure into the pattern (reassignment) using the complete binding.go implementation
	destructNode := e.Pattern()
	if destructNode == nil {
		return None, nil
	}

	// Convert DestructuringNode to DestructuringPattern for DestructureAssign
	pattern := syntax.DestructuringPatternFromNode(destructNode.ToUntyped())
	if err := DestructureAssign(vm, pattern, value); err != nil {
		return nil, err
	}
	return None, nil
}

type LinebreakElement struct{}

func (*LinebreakElement) IsContentElement() {}

type ParbreakElement struct{}

func (*ParbreakElement) IsContentElement() {}

// Unlabellable marks paragraph breaks as unable to carry a label.
func (*ParbreakElement) Unlabellable() {}

// ParagraphElement represents a paragraph with styling properties.
// This wraps content in paragraph-level formatting.
type ParagraphElement struct {
	// Body is the content of the paragraph.
	Body Content
	// Leading is the spacing between lines (in points).
	// If nil, uses default leading (0.65em).
	Leading *float64
	// Justify indicates whether to justify the paragraph text.
	// If nil, uses default (false).
	Justify *bool
	// Linebreaks specifies the line breaking algorithm.
	// Values: "simple", "optimized", or nil for auto.
	Linebreaks *string
	// FirstLineIndent is the indent for the first line (in points).
	// If nil, uses default (0pt).
	FirstLineIndent *float64
	// HangingIndent is the indent for subsequent lines (in points).
	// If nil, uses default (0pt).
	HangingIndent *float64
}

func (*ParagraphElement) IsContentElement() {}

type StrongElement struct {
	Content Content
}

func (*StrongElement) IsContentElement() {}

type EmphElement struct {
	Content Content
}

func (*EmphElement) IsContentElement() {}

type RawElement struct {
	Text  string
	Lang  string
	Block bool
}

func (*RawElement) IsContentElement() {}

type LinkElement struct {
	URL string
}

func (*LinkElement) IsContentElement() {}

// RefElement represents a reference to a labeled element.
type RefElement struct {
	Target     string   // The label being referenced
	Supplement *Content // Optional supplement content (e.g., @label[supplement])
}

func (*RefElement) IsContentElement() {}

type HeadingElement struct {
	Level      int
	Content    Content
	Numbering  *string // Optional numbering pattern (e.g., "1.", "1.1", "I.")
	Supplement *Content
	Outlined   bool
	Bookmarked *bool
}

func (*HeadingElement) IsContentElement() {}

type ListItemElement struct {
	Content Content
}

func (*ListItemElement) IsContentElement() {}

type EnumItemElement struct {
	Number  int
	Content Content
}

func (*EnumItemElement) IsContentElement() {}

type TermItemElement struct {
	Term        Content
	Description Content
}

func (*TermItemElement) IsContentElement() {}

// parseEscapeSequence parses an escape sequence and returns the resulting character(s).
func parseEscapeSequence(text string) string {
	if len(text) < 2 || text[0] != '\\' {
		return text
	}

	// Handle Unicode escape: \u{XXXX}
	if len(text) >= 4 && text[1] == 'u' && text[2] == '{' {
		// Find closing brace
		end := 3
		for end < len(text) && text[end] != '}' {
			end++
		}
		if end < len(text) {
			hex := text[3:end]
			if codepoint, err := strconv.ParseUint(hex, 16, 32); err == nil {
				return string(rune(codepoint))
			}
		}
	}

	// Simple escape: \X returns X
	return string(text[1])
}

// shorthandToSymbol converts a shorthand text to its Unicode symbol.
func shorthandToSymbol(text string) string {
	switch text {
	case "~":
		return "\u00A0" // Non-breaking space
	case "---":
		return "\u2014" // Em dash
	case "--":
		return "\u2013" // En dash
	case "-?":
		return "\u00AD" // Soft hyphen
	case "...":
		return "\u2026" // Horizontal ellipsis
	default:
		// Check for minus sign before numbers (e.g., "-1")
		if len(text) >= 2 && text[0] == '-' && text[1] >= '0' && text[1] <= '9' {
			return "\u2212" + text[1:] // Minus sign + number
		}
		return text
	}
}

// SmartQuoteElement represents a smart quote in content.
// The actual quote character is determined during layout based on context.
type SmartQuoteElement struct {
	Double bool // true for double quotes, false for single quotes
}

func (*SmartQuoteElement) IsContentElement() {}

// PageElement represents a page configuration element.
// It can be used to set page properties and optionally wrap content.
// When used as `#page()[content]`, it creates a page break and applies
// the properties to that specific page.
type PageElement struct {
	// Body is the optional content for this page.
	// If nil, this element only applies set-rule style configuration.
	Body *Content

	// Width is the page width in points.
	// If nil, uses default (A4 width: 595.276pt).
	Width *float64

	// Height is the page height in points.
	// If nil, uses default (A4 height: 841.89pt).
	Height *float64

	// Margin specifies page margins.
	// Individual margins (top, bottom, left, right) can be set independently.
	Margin *PageMargin

	// Flipped indicates whether width and height should be swapped.
	// If nil, uses default (false).
	Flipped *bool

	// Fill is the page background fill (color or gradient).
	// If nil, uses default (none/transparent).
	Fill *Color

	// Numbering is the page numbering pattern (e.g., "1", "i", "a").
	// If nil, uses default (no numbering).
	Numbering *string

	// NumberAlign specifies where page numbers are placed.
	// Values: "center", "left", "right", or combined like "center + bottom".
	// If nil, uses default ("center + bottom").
	NumberAlign *Alignment2D

	// Header is the header content.
	// Can be content or a function receiving page context.
	// If nil, uses default (none).
	Header *Content

	// Footer is the footer content.
	// Can be content or a function receiving page context.
	// If nil, uses default (none).
	Footer *Content

	// HeaderAscent is the space between header baseline and main content.
	// If nil, uses default (30% of top margin).
	HeaderAscent *float64

	// FooterDescent is the space between footer baseline and main content.
	// If nil, uses default (30% of bottom margin).
	FooterDescent *float64

	// Background is content placed behind the page content.
	// If nil, uses default (none).
	Background *Content

	// Foreground is content placed in front of the page content.
	// If nil, uses default (none).
	Foreground *Content

	// Columns is the number of columns for the page.
	// If nil, uses default (1).
	Columns *int

	// Binding specifies which side the page is bound.
	// Values: "left" or "right".
	// If nil, uses default based on text direction (left for LTR).
	Binding *string
}

func (*PageElement) IsContentElement() {}

// PageMargin represents page margin configuration.
type PageMargin struct {
	// Top margin in points. If nil, uses default.
	Top *float64
	// Bottom margin in points. If nil, uses default.
	Bottom *float64
	// Left margin in points. If nil, uses default.
	Left *float64
	// Right margin in points. If nil, uses default.
	Right *float64
	// Inside margin for two-sided documents. If nil, uses Left.
	Inside *float64
	// Outside margin for two-sided documents. If nil, uses Right.
	Outside *float64
	// X sets both left and right margins. If nil, uses individual values.
	X *float64
	// Y sets both top and bottom margins. If nil, uses individual values.
	Y *float64
	// Rest sets all unspecified margins. If nil, uses default.
	Rest *float64
}

// ----------------------------------------------------------------------------
// Error Types
// ----------------------------------------------------------------------------

// UnsupportedExprError is returned when evaluating an unsupported expression type.
type UnsupportedExprError struct {
	Expr syntax.Expr
}

func (e *UnsupportedExprError) Error() string {
	if e.Expr != nil {
		return fmt.Sprintf("unsupported expression type: %s", e.Expr.Kind())
	}
	return "unsupported expression type"
}

// TypeError is returned when a value has an unexpected type.
type TypeError struct {
	Expected Type
	Got      Type
	Span     syntax.Span
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Got)
}

// IterationError is returned when a loop iteration fails.
type IterationError struct {
	Message string
	Span    syntax.Span
}

func (e *IterationError) Error() string {
	return e.Message
}

// FieldNotFoundError is returned when accessing a non-existent field.
type FieldNotFoundError struct {
	Field string
	Type  Type
	Span  syntax.Span
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %q not found on %s", e.Field, e.Type)
}
