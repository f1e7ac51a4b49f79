package flow

import (
	"fmt"

	"typstcore/layout"
	"typstcore/layout/inline"
	"typstcore/memo"
)

// WrapFloatChild is positioned in-flow but does not consume vertical
// space: subsequent paragraphs flow alongside it with reduced line
// width. It differs from a PlacedChild float in that it never reserves a
// top or bottom insertion bank; instead it registers an exclusion band
// with the distributor.
type WrapFloatChild struct {
	// AlignX selects the side the float hugs; text flows on the other
	// side.
	AlignX FixedAlignment
	// Clearance is the gap kept between the float and the text flowing
	// alongside it.
	Clearance layout.Abs
	// location identifies the element for skip tracking.
	location Location
	// frame is the cached layout result.
	frame *Frame
}

func (WrapFloatChild) isChild() {}

// NewWrapFloatChild creates a wrap-float with a pre-laid-out frame.
func NewWrapFloatChild(alignX FixedAlignment, clearance layout.Abs, loc Location, frame Frame) *WrapFloatChild {
	return &WrapFloatChild{
		AlignX:    alignX,
		Clearance: clearance,
		location:  loc,
		frame:     &frame,
	}
}

// Layout lays out the wrap-float's body at the given base size.
func (w *WrapFloatChild) Layout(engine *Engine, base layout.Size) (Frame, error) {
	if w.frame != nil {
		return *w.frame, nil
	}
	return Frame{}, nil
}

// Location returns the location of this wrap-float.
func (w *WrapFloatChild) Location() Location {
	return w.location
}

// WrapFloatItem is the distribution item for a wrap-float: it is
// positioned at the cursor it was registered at but contributes no
// height, so the items after it stack as if it were not there.
type WrapFloatItem struct {
	Frame  Frame
	AlignX FixedAlignment
}

func (WrapFloatItem) isItem() {}

// Migratable returns false - a registered wrap-float pins its region.
func (WrapFloatItem) Migratable() bool { return false }

// wrapFloat processes a wrap-floating child: lay out its body, register
// an exclusion band for later paragraphs, and emit its frame without
// advancing the vertical cursor. A wrap-float wider than the configured
// fraction of the region falls back to a regular float with a warning.
func (d *Distributor) wrapFloat(wrap *WrapFloatChild) Stop {
	if _, ok := d.composer.Work.Skips[wrap.Location()]; ok {
		return nil
	}

	frame, err := wrap.Layout(d.composer.Engine, d.regions.Base())
	if err != nil {
		return StopError{Err: err}
	}

	maxFraction := defaultWrapFloatMaxFraction
	if d.composer.Config != nil && d.composer.Config.WrapFloatMaxFraction > 0 {
		maxFraction = d.composer.Config.WrapFloatMaxFraction
	}
	if float64(frame.Width()) > maxFraction*float64(d.regions.Base().Width) {
		// Too wide to flow text alongside: degrade to a regular float.
		d.composer.Warn(fmt.Sprintf(
			"wrap-float is wider than %d%% of the region, falling back to a regular float",
			int(maxFraction*100)))
		placed := &PlacedChild{
			AlignX:    wrap.AlignX,
			Scope:     PlacementScopeColumn,
			Float:     true,
			Clearance: wrap.Clearance,
			location:  wrap.location,
			frame:     &frame,
		}
		return d.placed(placed)
	}

	// The float doesn't fit this region at all: carry it to the next.
	if !d.regions.Size.Height.Fits(frame.Height()) && d.regions.MayProgress() {
		return StopFinish{Forced: false}
	}

	// Register the exclusion band at the current cursor.
	y0 := d.cursor()
	band := inline.ExclusionBand{
		YStart: y0,
		YEnd:   y0 + frame.Height() + wrap.Clearance,
	}
	reserved := frame.Width() + wrap.Clearance
	if wrap.AlignX == FixedAlignEnd {
		band.RightReserved = reserved
	} else {
		band.LeftReserved = reserved
	}
	d.wrap.Add(band)

	d.composer.Work.Skips[wrap.Location()] = struct{}{}
	d.flushTags()
	d.items = append(d.items, WrapFloatItem{Frame: frame, AlignX: wrap.AlignX})
	return nil
}

// defaultWrapFloatMaxFraction is the region-width fraction above which a
// wrap-float stops leaving useful line width and degrades to a regular
// float.
const defaultWrapFloatMaxFraction = 0.5

// cursor returns the vertical position distribution has reached in the
// current region.
func (d *Distributor) cursor() layout.Abs {
	return d.initialHeight - d.regions.Size.Height
}

// WrapExclusions exposes the active exclusion bands, region-relative.
// Paragraph layout shifts them by its own position to obtain
// paragraph-relative bands.
func (d *Distributor) WrapExclusions() *inline.ParExclusions {
	return d.wrap
}

// ParChild defers a paragraph's inline layout into distribution, where
// the active exclusion bands are known. It supports the measure/commit
// split: Layout measures against the available width profile without
// committing region space; the distributor then places the resulting
// lines one by one.
type ParChild struct {
	// Prep is the prepared paragraph (shaped, breakpoints enumerated).
	Prep *inline.Preparation
	// Align positions the emitted line frames.
	Align Axes[FixedAlignment]
	// Leading is the vertical advance between line tops.
	Leading layout.Abs
	// PreventOrphans keeps the first line from sitting alone at a region
	// end.
	PreventOrphans bool
	// PreventWidows keeps the last line from sitting alone at a region
	// start.
	PreventWidows bool
}

func (ParChild) isChild() {}

// Measure breaks the paragraph against the given width with the
// distributor's exclusion bands shifted to paragraph coordinates. The
// measurement is memoized through cache (when non-nil), so unchanged
// paragraphs are not re-broken across regions, convergence passes, or
// incremental recompiles.
func (p *ParChild) Measure(cache *memo.Cache, width layout.Abs, excl *inline.ParExclusions) inline.WrapResult {
	return inline.LinebreakCached(cache, p.Prep, width, excl, p.Leading)
}

// ParSpill carries the remaining lines of a partially placed paragraph
// into the next region. The spilled lines keep the widths they were
// measured with; they are not re-measured against the next region's
// exclusions.
type ParSpill struct {
	Par   *ParChild
	Lines []inline.Line
	Next  int
}

// par processes a paragraph child: measure against the current region
// with any active exclusion bands, then emit line frames. If the first
// line doesn't fit and the region may progress, the whole paragraph
// moves to the next region; a mid-paragraph overflow records a spill for
// resumption.
func (d *Distributor) par(par *ParChild) Stop {
	width := d.regions.Size.Width
	excl := d.wrap.Shifted(-d.cursor())
	var cache *memo.Cache
	if d.composer.Engine != nil {
		cache = d.composer.Engine.Cache
	}
	result := par.Measure(cache, width, excl)
	if !result.Converged {
		d.composer.Warn("text wrapping around a float did not converge")
	}
	return d.parLines(par, result.Lines, 0, true)
}

// parSpill resumes a paragraph spilled from a previous region.
func (d *Distributor) parSpill(spill *ParSpill) Stop {
	return d.parLines(spill.Par, spill.Lines, spill.Next, false)
}

// parLines emits the paragraph's lines starting at index from. advance
// reports whether the work cursor still points at this paragraph and
// must be advanced when it spills.
func (d *Distributor) parLines(par *ParChild, lines []inline.Line, from int, advance bool) Stop {
	leading := par.Leading
	if leading <= 0 {
		leading = par.Prep.Config.FontSize
	}

	for i := from; i < len(lines); i++ {
		// The need of a line covers every following line it must not be
		// separated from: the first line drags the second along when
		// orphan prevention is on, the penultimate drags the last when
		// widow prevention is on.
		need := leading
		if par.PreventOrphans && i == 0 && len(lines) >= 2 {
			need += leading
		}
		if par.PreventWidows && len(lines) >= 2 && i == len(lines)-2 {
			need += leading
		}

		frame := NewFrame(layout.Size{Width: lines[i].Width, Height: leading})
		line := &LineChild{Frame: frame, Align: par.Align, Need: need}
		if stop := d.line(line); stop != nil {
			if _, ok := stop.(StopFinish); ok {
				if i > from {
					// Partially placed: carry the rest as distributor state.
					d.composer.Work.ParSpill = &ParSpill{Par: par, Lines: lines, Next: i}
					if advance {
						d.composer.Work.Advance()
					}
				} else if !advance {
					// A resumed spill whose next line still doesn't fit is
					// restored unchanged so no line is lost.
					d.composer.Work.ParSpill = &ParSpill{Par: par, Lines: lines, Next: from}
				}
			}
			return stop
		}
	}
	return nil
}
