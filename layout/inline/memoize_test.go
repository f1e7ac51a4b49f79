package inline

import (
	"testing"

	"typstcore/memo"
)

func TestLinebreakCachedReusesUnchangedParagraphs(t *testing.T) {
	cache := memo.NewCache()
	a := preparedWords(10)
	b := preparedWords(20)
	excl := NewParExclusions()

	// First compile: both paragraphs measured.
	LinebreakCached(cache, a, 200, excl, 14)
	LinebreakCached(cache, b, 200, excl, 14)
	hits, misses := cache.Stats()
	if hits != 0 || misses != 2 {
		t.Fatalf("first pass: hits=%d misses=%d, want 0/2", hits, misses)
	}

	// Second compile after an edit to paragraph b: a is untouched and
	// must be served from cache; only b is re-measured.
	cache.Advance()
	edited := preparedWords(21)
	LinebreakCached(cache, a, 200, excl, 14)
	LinebreakCached(cache, edited, 200, excl, 14)
	hits, misses = cache.Stats()
	if hits != 1 {
		t.Errorf("unchanged paragraph was re-measured: hits=%d", hits)
	}
	if misses != 3 {
		t.Errorf("edited paragraph should miss once more: misses=%d", misses)
	}
}

func TestLinebreakCachedMatchesUncached(t *testing.T) {
	cache := memo.NewCache()
	p := preparedWords(12)
	excl := NewParExclusions()
	excl.Add(ExclusionBand{YStart: 0, YEnd: 28, RightReserved: 40})

	cached := LinebreakCached(cache, p, 200, excl, 14)
	direct := LinebreakWithExclusions(p, 200, excl, 14)
	if len(cached.Lines) != len(direct.Lines) {
		t.Errorf("cached result diverges: %d vs %d lines", len(cached.Lines), len(direct.Lines))
	}

	// A second identical call is a hit and returns the same breaks.
	again := LinebreakCached(cache, p, 200, excl, 14)
	if len(again.Lines) != len(cached.Lines) {
		t.Error("cache hit returned different breaks")
	}
	if hits, _ := cache.Stats(); hits != 1 {
		t.Errorf("expected one cache hit, got %d", hits)
	}
}

func TestLinebreakCachedKeyedOnExclusions(t *testing.T) {
	cache := memo.NewCache()
	p := preparedWords(12)

	plain := NewParExclusions()
	banded := NewParExclusions()
	banded.Add(ExclusionBand{YStart: 0, YEnd: 28, RightReserved: 100})

	LinebreakCached(cache, p, 200, plain, 14)
	LinebreakCached(cache, p, 200, banded, 14)
	if hits, misses := cache.Stats(); hits != 0 || misses != 2 {
		t.Errorf("different exclusions must not share entries: hits=%d misses=%d", hits, misses)
	}
}
