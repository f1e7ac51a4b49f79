package flow

import (
	"strings"
	"testing"

	"typstcore/layout"
	"typstcore/layout/inline"
)

// preparedWords builds an inline preparation of n short words shaped at
// 6pt per character.
func preparedWords(n int) *inline.Preparation {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("word")
	}
	text := b.String()

	shaped := &inline.ShapedText{Text: text, Size: 12}
	var glyphs []inline.ShapedGlyph
	for i := range text {
		glyphs = append(glyphs, inline.ShapedGlyph{
			XAdvance:      inline.Em(0.5),
			Size:          12,
			Range:         inline.Range{Start: i, End: i + 1},
			IsJustifiable: text[i] == ' ',
		})
	}
	shaped.Glyphs = inline.NewGlyphsFromSlice(glyphs)

	return &inline.Preparation{
		Text: text,
		Items: []inline.PreparedItem{
			{Range: inline.Range{Start: 0, End: len(text)}, Item: inline.NewTextItem(shaped)},
		},
		Config: &inline.Config{
			Linebreaks: layout.LinebreaksOptimized,
			FontSize:   12,
			Costs:      inline.DefaultCosts(),
		},
	}
}

func newTestComposer(children []Child) *Composer {
	return &Composer{
		Engine: &Engine{},
		Work:   NewWork(children),
		Config: &Config{Mode: FlowModeRoot},
	}
}

func TestWrapFloatRegistersExclusion(t *testing.T) {
	float := NewWrapFloatChild(
		FixedAlignEnd, 8, 1,
		NewFrame(layout.Size{Width: 60, Height: 50}),
	)
	composer := newTestComposer([]Child{float})
	regions := NewRegions(
		layout.Size{Width: 200, Height: 400},
		Axes[bool]{},
		layout.Size{Width: 200, Height: 400},
	)

	frame, stop := Distribute(composer, regions)
	if stop != nil {
		t.Fatalf("unexpected stop: %v", stop)
	}
	if len(composer.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", composer.Warnings)
	}
	// The float's frame is in the output even though no height was
	// consumed.
	found := false
	for _, entry := range frame.Items() {
		if _, ok := entry.Item.(FrameItemFrame); ok {
			found = true
		}
	}
	if !found {
		t.Error("wrap-float frame missing from output")
	}
}

func TestWrapFloatNarrowsFollowingParagraph(t *testing.T) {
	// Page 200 wide, a 60-wide wrap-float at the top-right with
	// clearance 8, followed by a paragraph of short words. Lines whose y
	// falls within the float's vertical extent must be at most
	// 200 - 60 - 8 = 132 wide; lines below it get the full 200.
	float := NewWrapFloatChild(
		FixedAlignEnd, 8, 1,
		NewFrame(layout.Size{Width: 60, Height: 50}),
	)
	par := &ParChild{Prep: preparedWords(40), Leading: 14}
	composer := newTestComposer([]Child{float, par})
	regions := NewRegions(
		layout.Size{Width: 200, Height: 1000},
		Axes[bool]{},
		layout.Size{Width: 200, Height: 1000},
	)

	frame, stop := Distribute(composer, regions)
	if stop != nil {
		t.Fatalf("unexpected stop: %v", stop)
	}

	floatBottom := layout.Abs(50 + 8)
	narrow := layout.Abs(200 - 60 - 8)
	sawNarrow := false
	sawWide := false
	for _, entry := range frame.Items() {
		nested, ok := entry.Item.(FrameItemFrame)
		if !ok || nested.Frame.Height() != 14 {
			continue
		}
		w := nested.Frame.Width()
		if entry.Pos.Y < floatBottom {
			if !narrow.Fits(w) {
				t.Errorf("line at y=%v is %v wide, exceeds %v", entry.Pos.Y, w, narrow)
			}
			sawNarrow = true
		} else {
			if !layout.Abs(200).Fits(w) {
				t.Errorf("line at y=%v is %v wide, exceeds full width", entry.Pos.Y, w)
			}
			if w > narrow {
				sawWide = true
			}
		}
	}
	if !sawNarrow {
		t.Error("no lines laid out beside the float")
	}
	if !sawWide {
		t.Error("no full-width lines below the float")
	}
}

func TestWrapFloatTooWideFallsBack(t *testing.T) {
	// Wider than half the region: degrades to a regular float with a
	// warning.
	float := NewWrapFloatChild(
		FixedAlignEnd, 8, 1,
		NewFrame(layout.Size{Width: 150, Height: 40}),
	)
	composer := newTestComposer([]Child{float})
	regions := NewRegions(
		layout.Size{Width: 200, Height: 400},
		Axes[bool]{},
		layout.Size{Width: 200, Height: 400},
	)

	_, stop := Distribute(composer, regions)
	if stop != nil {
		t.Fatalf("unexpected stop: %v", stop)
	}
	if len(composer.Warnings) != 1 {
		t.Fatalf("expected exactly one fallback warning, got %v", composer.Warnings)
	}
	if len(composer.PlacedFloats()) != 1 {
		t.Errorf("expected the degraded float to be placed as a regular float")
	}
}

func TestWidowPreventionMigratesParagraph(t *testing.T) {
	// Fifteen words at 6pt per character break into five lines (three
	// words each at width 100) of 14pt leading; the region fits only the
	// first line.
	// With widow/orphan prevention, the whole paragraph moves to the
	// next region.
	par := &ParChild{
		Prep:           preparedWords(15),
		Leading:        14,
		PreventOrphans: true,
		PreventWidows:  true,
	}
	composer := newTestComposer([]Child{par})
	regions := NewRegions(
		layout.Size{Width: 100, Height: 20},
		Axes[bool]{},
		layout.Size{Width: 100, Height: 20},
	)
	regions.Backlog = []layout.Abs{400}

	frame, stop := Distribute(composer, regions)
	if stop != nil {
		t.Fatalf("unexpected stop: %v", stop)
	}
	for _, entry := range frame.Items() {
		if nested, ok := entry.Item.(FrameItemFrame); ok && nested.Frame.Height() == 14 {
			t.Error("orphaned line left behind in first region")
		}
	}
	if composer.Work.Done() {
		t.Error("paragraph should remain pending for the next region")
	}
}

func TestParagraphSpillResumesOnce(t *testing.T) {
	// A paragraph too long for the first region spills; the second
	// region resumes from the saved index rather than re-emitting.
	par := &ParChild{Prep: preparedWords(60), Leading: 14}
	composer := newTestComposer([]Child{par})
	first := NewRegions(
		layout.Size{Width: 100, Height: 60},
		Axes[bool]{},
		layout.Size{Width: 100, Height: 60},
	)
	first.Backlog = []layout.Abs{2000}

	frameA, stop := Distribute(composer, first)
	if stop != nil {
		t.Fatalf("unexpected stop in first region: %v", stop)
	}
	spill := composer.Work.ParSpill
	if spill == nil {
		t.Fatal("expected a paragraph spill after the first region")
	}
	linesA := countLineFrames(frameA, 14)

	second := NewRegions(
		layout.Size{Width: 100, Height: 2000},
		Axes[bool]{},
		layout.Size{Width: 100, Height: 2000},
	)
	frameB, stop := Distribute(composer, second)
	if stop != nil {
		t.Fatalf("unexpected stop in second region: %v", stop)
	}
	linesB := countLineFrames(frameB, 14)

	total := len(spill.Lines)
	if linesA+linesB != total {
		t.Errorf("lines split %d+%d across regions, want %d total without loss or duplication",
			linesA, linesB, total)
	}
}

func countLineFrames(frame Frame, leading layout.Abs) int {
	n := 0
	for _, entry := range frame.Items() {
		if nested, ok := entry.Item.(FrameItemFrame); ok && nested.Frame.Height() == leading {
			n++
		}
	}
	return n
}
