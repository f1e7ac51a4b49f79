package introspect

// Counter is a named, document-wide register carrying an ordered tuple of
// non-negative integers (for numberings like "1.2.3"). A counter is
// modified by update events embedded in the content stream; each event
// has its own Location. A query for a counter's value at a location L
// returns the value obtained by folding every event whose location
// precedes L in layout order.
type Counter struct {
	Key string
}

// NewCounter returns a Counter identified by key (e.g. "heading",
// or a label-qualified key for a user-defined counter).
func NewCounter(key string) Counter {
	return Counter{Key: key}
}

// CounterOp describes how an update event changes a counter tuple.
// Typst's counter() exposes step/update/set; all three reduce to "apply
// this function to the prior tuple".
type CounterOp func(prev []int) []int

// Step returns a CounterOp that increments the field at level (0 is the
// first/outermost level) by amount and drops every deeper level, padding
// missing shallower levels with zero, matching heading-numbering
// semantics ("1.2.3" -> "1.3" on a step at level 1, "1.2.3" -> "2" on a
// step at level 0).
func Step(level int, amount int) CounterOp {
	return func(prev []int) []int {
		next := make([]int, level+1)
		copy(next, prev)
		next[level] += amount
		return next[:level+1]
	}
}

// Set returns a CounterOp that replaces the tuple outright.
func Set(tuple []int) CounterOp {
	return func([]int) []int {
		return append([]int(nil), tuple...)
	}
}

// Update returns the Entry.UpdateApply-compatible closure for op, folding
// []int through the generic `any` event representation entries use.
func (c Counter) Update(op CounterOp) func(prev any) any {
	return func(prev any) any {
		tuple, _ := prev.([]int)
		return op(tuple)
	}
}

// At folds every update event for this counter preceding loc (exclusive)
// in ins's layout order and returns the resulting tuple. Events at loc
// itself are included only if inclusive is true, matching the distinction
// between "value before this heading" and "value including this
// heading's own step".
func (c Counter) At(ins *Introspector, loc Location, inclusive bool) []int {
	if ins == nil {
		return nil
	}
	boundary := len(ins.entries)
	if idx, ok := ins.byLocation[loc]; ok {
		if inclusive {
			boundary = idx + 1
		} else {
			boundary = idx
		}
	}

	var tuple []int
	for _, i := range ins.updaters[c.Key] {
		if i >= boundary {
			break
		}
		tuple = ins.entries[i].UpdateApply(toAny(tuple)).([]int)
	}
	return tuple
}

// Final folds every update event for this counter in the entire snapshot.
func (c Counter) Final(ins *Introspector) []int {
	if ins == nil {
		return nil
	}
	var tuple []int
	for _, i := range ins.updaters[c.Key] {
		tuple = ins.entries[i].UpdateApply(toAny(tuple)).([]int)
	}
	return tuple
}

func toAny(tuple []int) any {
	return tuple
}
