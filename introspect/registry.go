package introspect

import "sync"

// Registry is the per-pass, thread-local structure into which
// realization and layout push newly created introspectable elements
// during a pass. One instance exists per segment worker; it is
// cleared at the start of each convergence iteration and must never be
// read from outside the realization/layout step that owns it — only the
// frozen Introspector produced at the end of a pass is shared.
type Registry struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Push records a newly realized or laid-out entry. Safe for concurrent
// use by parallel segment workers within the same pass.
func (r *Registry) Push(e Entry) {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
}

// Merge folds another registry's entries into this one. Used to combine
// per-segment registries (one per parallel page run) into a single
// pass-wide registry before freezing.
func (r *Registry) Merge(other *Registry) {
	other.mu.Lock()
	entries := append([]Entry(nil), other.entries...)
	other.mu.Unlock()

	r.mu.Lock()
	r.entries = append(r.entries, entries...)
	r.mu.Unlock()
}

// InPassLookup lets a query made *during* the pass that is still
// populating this registry see the entries pushed so far, so in-pass
// queries observe in-pass data. It returns a snapshot, not a live view: entries
// pushed after the call are not retroactively visible to an earlier
// snapshot, matching the ordinary (immutable) Introspector contract.
func (r *Registry) InPassLookup() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Freeze finalizes the registry into the next pass's Introspector,
// sorting entries by layout position (page, then y, then x).
func (r *Registry) Freeze() *Introspector {
	r.mu.Lock()
	entries := append([]Entry(nil), r.entries...)
	r.mu.Unlock()

	return newIntrospector(entries)
}
