package introspect

import "hash/maphash"

// Locator is a deterministic source of location ids, seeded from a parent
// chain element so that two invocations at the same point in the same
// realization produce the same sequence.
//
// A Locator itself holds no mutable state — state lives in the two views
// obtained from it (Tracked, Replay), so the same Locator can safely back
// both a memoized measurement and the commit that follows it.
type Locator struct {
	base0, base1 uint64
}

// Root returns the Locator seeded for the top of a realization pass,
// discriminated by disc so independent segments (e.g. parallel page runs)
// never collide.
func Root(disc uint64) Locator {
	h := new(maphash.Hash)
	h.SetSeed(seed)
	mixString(h, "root")
	mix(h, disc)
	lo := h.Sum64()
	h.Reset()
	mixString(h, "root-hi")
	mix(h, disc)
	hi := h.Sum64()
	return Locator{base0: lo, base1: hi}
}

// Child derives a new Locator scoped under this one for the given label
// (e.g. the element kind owning a nested realization, or an entry of
// the containing label stack).
func (l Locator) Child(label string) Locator {
	h := new(maphash.Hash)
	h.SetSeed(seed)
	mix(h, l.base0)
	mix(h, l.base1)
	mixString(h, label)
	lo := h.Sum64()
	h.Reset()
	mix(h, l.base1)
	mix(h, l.base0)
	mixString(h, label)
	mixString(h, "hi")
	hi := h.Sum64()
	return Locator{base0: lo, base1: hi}
}

// seeded computes the Location for the idx-th occurrence of kind under
// this Locator. It is a pure function of (l, kind, idx): calling it twice
// with the same arguments always yields the same Location, which is what
// makes the Tracked view safe to use as a cache key.
func (l Locator) seeded(kind string, idx uint64) Location {
	h := new(maphash.Hash)
	h.SetSeed(seed)
	mix(h, l.base0)
	mix(h, l.base1)
	mixString(h, kind)
	mix(h, idx)
	lo := h.Sum64()
	h.Reset()
	mixString(h, "hi")
	mix(h, l.base1)
	mixString(h, kind)
	mix(h, idx)
	hi := h.Sum64()
	return Location{hi: hi, lo: lo}
}

// Tracked returns a stateless view of l: calling Next with the same
// (kind, idx) pair always returns the same Location, with no side
// effects. Use this inside functions that are memoized (measure), so
// invoking them from cache-lookup replay or from a real call produces
// identical results.
func (l Locator) Tracked() TrackedView {
	return TrackedView{l: l}
}

// TrackedView is the side-effect-free view of a Locator, safe to use
// repeatedly as (part of) a memoization key.
type TrackedView struct {
	l Locator
}

// Next returns the Location for the idx-th element of the given kind.
// The caller supplies idx explicitly (typically a loop counter) so that
// the view itself carries no mutable state.
func (t TrackedView) Next(kind string, idx uint64) Location {
	return t.l.seeded(kind, idx)
}

// Replay returns a freshly-seeded, stateful view of l: each call to Next
// advances a per-kind counter starting at zero, so driving it through the
// same sequence of kind-labeled calls as an earlier traversal (tracked or
// replay) reproduces the identical sequence of locations. Use this for
// commit: the sequence of Next calls must mirror the sequence the
// corresponding measure made via Tracked.
func (l Locator) Replay() *ReplayView {
	return &ReplayView{l: l, counts: make(map[string]uint64)}
}

// ReplayView is the stateful view of a Locator used to recreate a
// deterministic id sequence across a fresh traversal.
type ReplayView struct {
	l      Locator
	counts map[string]uint64
}

// Next returns the Location for the next element of the given kind,
// advancing that kind's counter.
func (r *ReplayView) Next(kind string) Location {
	idx := r.counts[kind]
	r.counts[kind] = idx + 1
	return r.l.seeded(kind, idx)
}
