package introspect

// Point is a position within a page, independent of any particular
// layout package's unit type so introspect has no import-cycle
// dependency on layout.
type Point struct {
	X, Y float64
}

// Entry is everything introspection needs to know about one realized,
// locatable element: its kind, the page/position it ended up at, its
// label (if any), and an opaque payload the owning package (realize,
// library/introspection) knows how to interpret.
type Entry struct {
	Location Location
	Kind     string
	Label    string
	Page     int
	Position Point
	Payload  any

	// UpdateKey, when non-empty, names the counter or state this entry
	// updates; UpdateApply folds the prior value into the next one.
	UpdateKey   string
	UpdateApply func(prev any) any
}

// HasLabel reports whether e carries a non-empty label.
func (e Entry) HasLabel() bool {
	return e.Label != ""
}

// IsUpdate reports whether e is a counter/state update event rather than
// a plain locatable element.
func (e Entry) IsUpdate() bool {
	return e.UpdateKey != "" && e.UpdateApply != nil
}
