// Context for Typst evaluation.
// Translated from typst-library/src/foundations/context.rs

package foundations

import "typstcore/introspect"

// Context holds data that is contextually made available to code.
//
// Contextual functions and expressions require the presence of certain
// pieces of context to be evaluated. This includes things like `text.lang`,
// `measure`, or `counter(heading).get()`.
//
// Matches Rust's Context struct in context.rs.
type Context struct {
	// Location is the location in the document.
	Location *Location

	// Styles are the active styles.
	Styles *StyleChain

	// Introspector is the previous convergence pass's snapshot of the
	// document, used by counter/state "final" folds and queries. It is
	// nil until the first full pass of the outer convergence loop has
	// completed.
	Introspector *introspect.Introspector

	// Loc is the Location assigned to the context-dependent call site
	// itself, as opposed to Location above which tracks a page/position
	// pair for a different, page-layout-facing use. Set by realize when
	// it resolves a ContextElem; read by here(), and by counter/state
	// "at" folds that want "as of this point".
	Loc introspect.Location

	// Registry is the current pass's in-flight registry. Queries merge
	// its entries with the snapshot so that in-pass data (elements
	// realized earlier in the same pass) is visible before the next
	// snapshot is frozen.
	Registry *introspect.Registry
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{
		Location: nil,
		Styles:   nil,
	}
}

// NewContextWith creates a context with the given location and styles.
func NewContextWith(location *Location, styles *StyleChain) *Context {
	return &Context{
		Location: location,
		Styles:   styles,
	}
}

// GetIntrospector returns the introspector snapshot available to this
// context, or a deferred error if introspection has not run yet (the
// caller is expected to retry once the outer convergence loop has
// produced a snapshot).
func (c *Context) GetIntrospector() (*introspect.Introspector, error) {
	if c == nil || c.Introspector == nil {
		return nil, introspect.NewDeferredError(&ContextError{
			Message: "introspection is not available in this context",
		})
	}
	return c.Introspector, nil
}

// GetLocation returns the location, or an error if not available.
func (c *Context) GetLocation() (*Location, error) {
	if c == nil || c.Location == nil {
		return nil, &ContextError{Message: "can only be used when context is known"}
	}
	return c.Location, nil
}

// GetLoc returns the Location of the enclosing context call, or a
// deferred error if none is set (the call happened outside of any
// `context` expression, e.g. directly at the top level of a script).
func (c *Context) GetLoc() (introspect.Location, error) {
	if c == nil || c.Loc.IsNil() {
		return introspect.Nil, introspect.NewDeferredError(&ContextError{
			Message: "can only be used when context is known",
		})
	}
	return c.Loc, nil
}

// GetStyles returns the styles, or an error if not available.
func (c *Context) GetStyles() (*StyleChain, error) {
	if c == nil || c.Styles == nil {
		return nil, &ContextError{Message: "can only be used when context is known"}
	}
	return c.Styles, nil
}

// ContextError is returned when context is not available.
type ContextError struct {
	Message string
}

func (e *ContextError) Error() string {
	return e.Message
}

// ContextElem defers evaluation of its Func until realization has
// assigned a Location (and, for queries, the previous pass's
// Introspector snapshot is known). It is produced by `context ...`
// expressions and consumed by the realize package, which invokes Func
// with a Context carrying the assigned Location and replaces the
// ContextElem with whatever content Func returns. Deferring keeps
// position-dependent calls out of evaluation, which runs before any
// locations exist.
type ContextElem struct {
	// Func is the zero-argument closure to invoke once context is known.
	Func *Func
}

func (*ContextElem) IsContentElement() {}
