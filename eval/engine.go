package eval

import "typstcore/library/foundations"

// NewEngine creates an Engine for world with no Routines vtable wired in.
// Nothing in this module currently calls Engine.Routines.EvalClosure —
// eval's own Vm.CallFunc evaluates closures directly (see call.go) — so a
// nil Routines is safe; it exists purely to let foundations code stay
// decoupled from eval per its own package comment.
func NewEngine(world World) *Engine {
	return foundations.NewEngine(world, nil)
}

// NewContext returns an empty evaluation context (no location, styles, or
// introspector bound yet). Callers fill in the fields the current
// evaluation pass has available, e.g. compile.go sets Introspector to the
// previous convergence pass's snapshot before evaluating.
func NewContext() *Context {
	return foundations.NewContext()
}

// NewScopes returns a fresh scope stack backed by base (typically the
// standard library scope returned by Library()).
func NewScopes(base *Scope) *Scopes {
	return foundations.NewScopes(base)
}
