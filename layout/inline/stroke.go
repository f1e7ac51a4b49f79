package inline

// Stroke primitives shared with the output encoders: a resolved stroke
// is a paint, a thickness, and the cap/join/dash parameters a renderer
// needs verbatim.

// FixedStroke represents a stroke with fixed width.
type FixedStroke struct {
	// Paint is the stroke paint (color or gradient).
	Paint interface{}
	// Thickness is the stroke width.
	Thickness Abs
	// LineCap selects the end-of-line shape.
	LineCap LineCap
	// LineJoin selects the corner shape.
	LineJoin LineJoin
	// DashArray and DashPhase describe the dash pattern, if any.
	DashArray []Abs
	DashPhase Abs
}

// StrokeFromPair creates a FixedStroke from paint and thickness with
// default caps and joins.
func StrokeFromPair(paint interface{}, thickness Abs) FixedStroke {
	return FixedStroke{
		Paint:     paint,
		Thickness: thickness,
		LineCap:   LineCapButt,
		LineJoin:  LineJoinMiter,
	}
}

// LineCap represents line cap styles.
type LineCap int

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// LineJoin represents line join styles.
type LineJoin int

const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)
