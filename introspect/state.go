package introspect

// State is a named, document-wide register carrying an arbitrary value.
// Like Counter, it is modified by update events with their own
// Location and read back by folding prior events in layout order.
type State struct {
	Key     string
	Initial any
}

// NewState returns a State identified by key, starting at initial until
// the first update event.
func NewState(key string, initial any) State {
	return State{Key: key, Initial: initial}
}

// Update returns the Entry.UpdateApply closure that sets the state to the
// value returned by fn(prev).
func (s State) Update(fn func(prev any) any) func(prev any) any {
	return func(prev any) any {
		if prev == nil {
			prev = s.Initial
		}
		return fn(prev)
	}
}

// At folds every update event for this state preceding loc in ins's
// layout order and returns the resulting value.
func (s State) At(ins *Introspector, loc Location, inclusive bool) any {
	if ins == nil {
		return s.Initial
	}
	boundary := len(ins.entries)
	if idx, ok := ins.byLocation[loc]; ok {
		if inclusive {
			boundary = idx + 1
		} else {
			boundary = idx
		}
	}

	value := s.Initial
	for _, i := range ins.updaters[s.Key] {
		if i >= boundary {
			break
		}
		value = ins.entries[i].UpdateApply(value)
	}
	return value
}

// Final folds every update event for this state in the entire snapshot.
func (s State) Final(ins *Introspector) any {
	if ins == nil {
		return s.Initial
	}
	value := s.Initial
	for _, i := range ins.updaters[s.Key] {
		value = ins.entries[i].UpdateApply(value)
	}
	return value
}
