package realize

import (
	"errors"
	"fmt"
	"reflect"

	"typstcore/eval"
	"typstcore/introspect"
	"typstcore/library/foundations"
)

// LocatedPair pairs a realized element with its style chain and the
// Location assigned to it during this realization pass. Spacing elements
// (HElem, VElem) and tags are not independently locatable and carry the
// zero Location.
type LocatedPair struct {
	Pair
	Location introspect.Location
}

// nonLocatableKinds are element kinds that do not receive their own
// Location: they are pure layout directives, not content a document can
// meaningfully reference.
var nonLocatableKinds = map[string]bool{
	"HElem":         true,
	"VElem":         true,
	"TagElem":       true,
	"PagebreakElem": true,
	"SequenceElem":  true,
}

func elementKind(elem eval.ContentElement) string {
	t := reflect.TypeOf(elem)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	return t.Name()
}

// RegisterCounterUpdate pushes a counter-update entry at loc into
// registry. Library code (e.g. the heading element's counter step) calls
// this once it knows which counter an already-located element affects;
// realization itself is agnostic to which elements happen to carry
// counters.
func RegisterCounterUpdate(registry *introspect.Registry, loc introspect.Location, kind string, counter introspect.Counter, op introspect.CounterOp) {
	registry.Push(introspect.Entry{
		Location:    loc,
		Kind:        kind,
		UpdateKey:   counter.Key,
		UpdateApply: counter.Update(op),
	})
}

// HeadingCounter is the well-known counter backing #counter(heading) and
// heading numbering patterns ("1.2.3").
var HeadingCounter = introspect.NewCounter("heading")

// maxContextDepth bounds nested context resolution: content returned by a
// context callback may itself contain context nodes, and a callback that
// keeps producing fresh ones would otherwise never terminate.
const maxContextDepth = 16

// documentRealizer performs the location-assignment, context-resolution,
// and counter-registration steps over a realized pair stream. The
// per-kind occurrence counters are threaded explicitly here rather than
// hidden inside the locator, keeping the locator itself side-effect-free.
type documentRealizer struct {
	engine   *eval.Engine
	tracked  introspect.TrackedView
	counts   map[string]uint64
	registry *introspect.Registry
	ins      *introspect.Introspector
	deferred error
	out      []LocatedPair
}

// RealizeDocument runs Realize and then walks the pair stream in realized
// order: every locatable element is assigned a Location via the locator's
// tracked view (stateless, so a cache replay reproduces the identical
// sequence), context nodes are resolved against the previous pass's
// introspector snapshot, and counter/state update events are entered into
// the registry. It is the entry point the compile driver's convergence
// loop uses instead of calling Realize directly.
//
// Deferred lookup failures inside context callbacks (references to
// elements the snapshot does not contain yet) do not abort the walk: the
// failing node yields no output, the rest of the document still realizes
// and registers, and the first such error is returned wrapped as a
// DeferredError so the convergence loop can suppress it on non-final
// iterations.
func RealizeDocument(
	kind RealizationKind,
	engine *eval.Engine,
	content *eval.Content,
	styles *StyleChain,
	locator introspect.Locator,
	registry *introspect.Registry,
	ins *introspect.Introspector,
) ([]LocatedPair, error) {
	pairs, err := Realize(kind, engine, content, styles)
	if err != nil {
		return nil, err
	}

	r := &documentRealizer{
		engine:   engine,
		tracked:  locator.Tracked(),
		counts:   make(map[string]uint64),
		registry: registry,
		ins:      ins,
	}
	if err := r.process(pairs, 0); err != nil {
		return nil, err
	}
	return r.out, r.deferred
}

func (r *documentRealizer) process(pairs []Pair, depth int) error {
	for _, p := range pairs {
		kind := elementKind(p.Element)
		if nonLocatableKinds[kind] {
			r.out = append(r.out, LocatedPair{Pair: p})
			continue
		}

		idx := r.counts[kind]
		r.counts[kind] = idx + 1
		loc := r.tracked.Next(kind, idx)

		if ctx, ok := p.Element.(*eval.ContextElem); ok {
			if err := r.resolveContext(ctx, loc, p, depth); err != nil {
				return err
			}
			continue
		}

		entry := introspect.Entry{
			Location: loc,
			Kind:     kind,
			Label:    p.Label,
			Payload:  p.Element,
		}
		r.applyUpdate(&entry, p.Element)
		r.registry.Push(entry)
		r.out = append(r.out, LocatedPair{Pair: p, Location: loc})
	}
	return nil
}

// applyUpdate fills the update fields of entry for elements that modify a
// counter or state register.
func (r *documentRealizer) applyUpdate(entry *introspect.Entry, elem eval.ContentElement) {
	switch e := elem.(type) {
	case *eval.HeadingElement:
		level := e.Level
		if level < 1 {
			level = 1
		}
		counter := HeadingCounter
		entry.UpdateKey = counter.Key
		entry.UpdateApply = counter.Update(introspect.Step(level-1, 1))

	case *eval.CounterStepElem:
		counter := introspect.NewCounter(e.Key)
		var op introspect.CounterOp
		if e.Set != nil {
			op = introspect.Set(e.Set)
		} else {
			op = introspect.Step(e.Level, e.Amount)
		}
		entry.UpdateKey = counter.Key
		entry.UpdateApply = counter.Update(op)

	case *eval.StateUpdateElem:
		entry.UpdateKey = e.Key
		entry.UpdateApply = e.Apply
	}
}

// resolveContext invokes a deferred context callback with the location
// assigned to the node and re-enters the produced content into the
// realization walk.
func (r *documentRealizer) resolveContext(ctx *eval.ContextElem, loc introspect.Location, p Pair, depth int) error {
	// The node itself registers so that the next pass's snapshot knows
	// its position, which makes counter-at-location folds line up.
	r.registry.Push(introspect.Entry{
		Location: loc,
		Kind:     "ContextElem",
		Label:    p.Label,
		Payload:  ctx,
	})

	if r.engine == nil || ctx.Func == nil {
		return nil
	}
	if depth >= maxContextDepth {
		return fmt.Errorf("maximum context nesting depth exceeded")
	}

	callCtx := foundations.NewContext()
	callCtx.Loc = loc
	callCtx.Introspector = r.ins
	callCtx.Registry = r.registry

	scopes := eval.NewScopes(r.engine.World.Library())
	vm := eval.NewVm(r.engine, callCtx, scopes, ctx.Func.Span)
	result, err := eval.CallFunc(vm, ctx.Func, eval.NewArgs(ctx.Func.Span))
	if err != nil {
		var deferred *introspect.DeferredError
		if errors.As(err, &deferred) {
			if r.deferred == nil {
				r.deferred = deferred
			}
			return nil
		}
		return err
	}

	content := eval.Display(result)
	if len(content.Elements) == 0 {
		return nil
	}
	pairs, err := Realize(&LayoutFragment{}, r.engine, &content, p.Styles)
	if err != nil {
		return err
	}
	return r.process(pairs, depth+1)
}

// AssignLocations walks pairs in realized (source) order, assigns a
// Location to every locatable element using locator's tracked view, and
// pushes an introspect.Entry for each into registry. It is the
// context-free subset of RealizeDocument, usable when the caller has
// already realized content and no context nodes can occur (measurement
// probes, test harnesses).
func AssignLocations(pairs []Pair, locator introspect.Locator, registry *introspect.Registry) []LocatedPair {
	r := &documentRealizer{
		tracked:  locator.Tracked(),
		counts:   make(map[string]uint64),
		registry: registry,
	}
	_ = r.process(pairs, maxContextDepth)
	return r.out
}

