package inline

import "testing"

func TestAvailableWidthNeverExceedsFull(t *testing.T) {
	excl := NewParExclusions()
	excl.Add(ExclusionBand{YStart: 0, YEnd: 50, RightReserved: 68})
	excl.Add(ExclusionBand{YStart: 30, YEnd: 80, LeftReserved: 40})

	full := Abs(200)
	for y := Abs(0); y < 120; y += 5 {
		w := excl.AvailableWidth(full, y, y+10)
		if w > full {
			t.Errorf("available width %v at y=%v exceeds full width %v", w, y, full)
		}
		if w < 0 {
			t.Errorf("available width %v at y=%v is negative", w, y)
		}
	}
}

func TestAvailableWidthFlatOutsideBands(t *testing.T) {
	excl := NewParExclusions()
	excl.Add(ExclusionBand{YStart: 20, YEnd: 60, RightReserved: 68})

	full := Abs(200)
	// Inside the band, the reservation applies.
	if w := excl.AvailableWidth(full, 30, 40); w != 132 {
		t.Errorf("expected width 132 inside band, got %v", w)
	}
	// Below the band, the full width is back and stays back.
	for y := Abs(60); y < 200; y += 13 {
		if w := excl.AvailableWidth(full, y, y+10); w != full {
			t.Errorf("expected full width %v at y=%v, got %v", full, y, w)
		}
	}
	// Above the band too.
	if w := excl.AvailableWidth(full, 0, 20); w != full {
		t.Errorf("expected full width above band, got %v", w)
	}
}

func TestAvailableWidthOverlappingBands(t *testing.T) {
	excl := NewParExclusions()
	excl.Add(ExclusionBand{YStart: 0, YEnd: 100, LeftReserved: 30})
	excl.Add(ExclusionBand{YStart: 50, YEnd: 150, LeftReserved: 70})

	// Overlap region takes the larger reservation, not the sum.
	if w := excl.AvailableWidth(200, 60, 70); w != 130 {
		t.Errorf("expected width 130 in overlap, got %v", w)
	}
	if off := excl.LeftOffset(60, 70); off != 70 {
		t.Errorf("expected left offset 70 in overlap, got %v", off)
	}
}

func TestExclusionsShifted(t *testing.T) {
	excl := NewParExclusions()
	excl.Add(ExclusionBand{YStart: 100, YEnd: 150, RightReserved: 40})

	// Rebasing by the paragraph position moves the band.
	rel := excl.Shifted(-100)
	if w := rel.AvailableWidth(200, 0, 10); w != 160 {
		t.Errorf("expected width 160 after shift, got %v", w)
	}
	if w := rel.AvailableWidth(200, 60, 70); w != 200 {
		t.Errorf("expected full width past shifted band, got %v", w)
	}
}

func TestWidthVariance(t *testing.T) {
	excl := NewParExclusions()
	if v := excl.WidthVariance(200); v != 0 {
		t.Errorf("empty exclusions should have zero variance, got %v", v)
	}
	excl.Add(ExclusionBand{YStart: 0, YEnd: 10, RightReserved: 50})
	if v := excl.WidthVariance(200); v != 0.25 {
		t.Errorf("expected variance 0.25, got %v", v)
	}
	excl.Add(ExclusionBand{YStart: 20, YEnd: 30, LeftReserved: 180})
	if v := excl.WidthVariance(200); v != 0.9 {
		t.Errorf("expected variance 0.9, got %v", v)
	}
}

func TestZeroHeightBandIgnored(t *testing.T) {
	excl := NewParExclusions()
	excl.Add(ExclusionBand{YStart: 50, YEnd: 50, RightReserved: 100})
	if !excl.IsEmpty() {
		t.Error("zero-height band should be dropped")
	}
}
