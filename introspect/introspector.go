package introspect

import "sort"

// Introspector is a read-only snapshot of everything known about the
// document from the previous convergence pass: an ordered list of
// (element, location, page, position) tuples, with indices by kind, by
// label, and by counter-affecting status.
//
// An Introspector is immutable once constructed and may be shared freely
// across goroutines.
type Introspector struct {
	entries []Entry // sorted by layout position: page, then y, then x

	byLocation map[Location]int // index into entries
	byKind     map[string][]int
	byLabel    map[string]int
	updaters   map[string][]int // entries with UpdateKey == key, in order
}

// Empty returns the Introspector used to seed iteration 0 of the
// convergence loop: no prior knowledge of the document.
func Empty() *Introspector {
	return newIntrospector(nil)
}

func newIntrospector(entries []Entry) *Introspector {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Position.Y != b.Position.Y {
			return a.Position.Y < b.Position.Y
		}
		return a.Position.X < b.Position.X
	})

	ins := &Introspector{
		entries:    entries,
		byLocation: make(map[Location]int, len(entries)),
		byKind:     make(map[string][]int),
		byLabel:    make(map[string]int),
		updaters:   make(map[string][]int),
	}
	for i, e := range entries {
		ins.byLocation[e.Location] = i
		ins.byKind[e.Kind] = append(ins.byKind[e.Kind], i)
		if e.HasLabel() {
			ins.byLabel[e.Label] = i
		}
		if e.IsUpdate() {
			ins.updaters[e.UpdateKey] = append(ins.updaters[e.UpdateKey], i)
		}
	}
	return ins
}

// Len returns the number of entries in the snapshot.
func (ins *Introspector) Len() int {
	if ins == nil {
		return 0
	}
	return len(ins.entries)
}

// ByLocation returns the entry at loc, if any.
func (ins *Introspector) ByLocation(loc Location) (Entry, bool) {
	if ins == nil {
		return Entry{}, false
	}
	i, ok := ins.byLocation[loc]
	if !ok {
		return Entry{}, false
	}
	return ins.entries[i], true
}

// ByLabel returns the entry carrying label, if any.
func (ins *Introspector) ByLabel(label string) (Entry, bool) {
	if ins == nil {
		return Entry{}, false
	}
	i, ok := ins.byLabel[label]
	if !ok {
		return Entry{}, false
	}
	return ins.entries[i], true
}

// Selector filters entries during a Query.
type Selector func(Entry) bool

// ByKind returns a Selector matching entries of the given kind.
func ByKind(kind string) Selector {
	return func(e Entry) bool { return e.Kind == kind }
}

// ByEntryLabel returns a Selector matching entries carrying the given label.
func ByEntryLabel(label string) Selector {
	return func(e Entry) bool { return e.Label == label }
}

// And combines selectors, matching only when all match.
func And(selectors ...Selector) Selector {
	return func(e Entry) bool {
		for _, s := range selectors {
			if !s(e) {
				return false
			}
		}
		return true
	}
}

// Or combines selectors, matching when any matches.
func Or(selectors ...Selector) Selector {
	return func(e Entry) bool {
		for _, s := range selectors {
			if s(e) {
				return true
			}
		}
		return false
	}
}

// Before returns a Selector matching entries that precede the entry at
// loc in layout order.
func (ins *Introspector) Before(loc Location) Selector {
	idx, ok := ins.byLocation[loc]
	if !ok {
		idx = len(ins.entries)
	}
	return func(e Entry) bool {
		i, ok := ins.byLocation[e.Location]
		return ok && i < idx
	}
}

// After returns a Selector matching entries that follow the entry at loc
// in layout order.
func (ins *Introspector) After(loc Location) Selector {
	idx, ok := ins.byLocation[loc]
	if !ok {
		idx = -1
	}
	return func(e Entry) bool {
		i, ok := ins.byLocation[e.Location]
		return ok && i > idx
	}
}

// Query returns matching elements in layout order.
func (ins *Introspector) Query(sel Selector) []Entry {
	if ins == nil {
		return nil
	}
	var out []Entry
	for _, e := range ins.entries {
		if sel == nil || sel(e) {
			out = append(out, e)
		}
	}
	return out
}
