package inline

import "sort"

// ExclusionBand reserves horizontal space over a vertical extent of a
// paragraph. Wrap-floats produce one band each: text lines overlapping
// the band's vertical range shrink by the reserved widths.
type ExclusionBand struct {
	// YStart and YEnd delimit the band, paragraph-relative.
	YStart, YEnd Abs
	// LeftReserved is the width reserved at the line start side.
	LeftReserved Abs
	// RightReserved is the width reserved at the line end side.
	RightReserved Abs
}

// overlaps reports whether the band intersects the vertical range
// [y0, y1).
func (b ExclusionBand) overlaps(y0, y1 Abs) bool {
	return b.YStart < y1 && y0 < b.YEnd
}

// ParExclusions is an ordered set of exclusion bands shaping a
// paragraph's per-line widths.
type ParExclusions struct {
	bands []ExclusionBand
}

// NewParExclusions returns an empty exclusion set.
func NewParExclusions() *ParExclusions {
	return &ParExclusions{}
}

// Add inserts a band, keeping the set ordered by YStart.
func (e *ParExclusions) Add(band ExclusionBand) {
	if band.YEnd <= band.YStart {
		return
	}
	e.bands = append(e.bands, band)
	sort.SliceStable(e.bands, func(i, j int) bool {
		return e.bands[i].YStart < e.bands[j].YStart
	})
}

// IsEmpty reports whether no bands are registered.
func (e *ParExclusions) IsEmpty() bool {
	return e == nil || len(e.bands) == 0
}

// Bands returns the bands in YStart order.
func (e *ParExclusions) Bands() []ExclusionBand {
	if e == nil {
		return nil
	}
	return e.bands
}

// Shifted returns the exclusions rebased by dy: a set registered in
// region coordinates becomes paragraph-relative by shifting by the
// paragraph's y position.
func (e *ParExclusions) Shifted(dy Abs) *ParExclusions {
	if e.IsEmpty() {
		return NewParExclusions()
	}
	out := &ParExclusions{bands: make([]ExclusionBand, 0, len(e.bands))}
	for _, b := range e.bands {
		out.bands = append(out.bands, ExclusionBand{
			YStart:        b.YStart + dy,
			YEnd:          b.YEnd + dy,
			LeftReserved:  b.LeftReserved,
			RightReserved: b.RightReserved,
		})
	}
	return out
}

// AvailableWidth returns the width available to a line occupying the
// vertical range [y0, y1) of a paragraph whose full width is full. The
// result never exceeds full and never drops below zero; between band
// boundaries it is constant.
func (e *ParExclusions) AvailableWidth(full, y0, y1 Abs) Abs {
	width := full - e.LeftOffset(y0, y1) - e.rightReserved(y0, y1)
	if width < 0 {
		return 0
	}
	return width
}

// LeftOffset returns the x offset a line in [y0, y1) starts at: the
// largest left reservation among overlapping bands.
func (e *ParExclusions) LeftOffset(y0, y1 Abs) Abs {
	if e == nil {
		return 0
	}
	var left Abs
	for _, b := range e.bands {
		if b.overlaps(y0, y1) && b.LeftReserved > left {
			left = b.LeftReserved
		}
	}
	return left
}

func (e *ParExclusions) rightReserved(y0, y1 Abs) Abs {
	if e == nil {
		return 0
	}
	var right Abs
	for _, b := range e.bands {
		if b.overlaps(y0, y1) && b.RightReserved > right {
			right = b.RightReserved
		}
	}
	return right
}

// WidthVariance returns the largest relative deviation of any band's
// available width from the full width. It decides whether the
// optimizing breaker's monotonicity assumptions still hold.
func (e *ParExclusions) WidthVariance(full Abs) float64 {
	if e.IsEmpty() || full <= 0 {
		return 0
	}
	var worst float64
	for _, b := range e.bands {
		reserved := float64(b.LeftReserved + b.RightReserved)
		if v := reserved / float64(full); v > worst {
			worst = v
		}
	}
	return worst
}
