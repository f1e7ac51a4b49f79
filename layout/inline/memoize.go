package inline

import (
	"math"

	"typstcore/memo"
)

// Memoized paragraph measurement. Breaking is a pure function of the
// prepared paragraph, the width profile, and the exclusion bands, so the
// result can be reused across convergence passes and across incremental
// recompiles whenever those inputs are unchanged. Editing one paragraph
// must not re-run the breaker on any other.

// hashConfig folds the break-relevant configuration fields.
func hashConfig(h *memo.Hasher, c *Config) {
	if c == nil {
		return
	}
	justify := uint64(0)
	if c.Justify {
		justify = 1
	}
	h.WriteUint64(justify)
	h.WriteUint64(uint64(c.Linebreaks))
	h.WriteUint64(float64bits(float64(c.FontSize)))
	h.WriteUint64(float64bits(float64(c.FirstLineIndent)))
	h.WriteUint64(float64bits(float64(c.HangingIndent)))
	h.WriteUint64(float64bits(c.Costs.Hyphenation))
	h.WriteUint64(float64bits(c.Costs.Runt))
	if c.Hyphenate != nil {
		v := uint64(1)
		if *c.Hyphenate {
			v = 2
		}
		h.WriteUint64(v)
	}
}

// measureKey computes the non-tracked-argument hash for one measurement:
// the paragraph text and configuration, the full width, the exclusion
// bands, and the line height used to map indices to positions.
func measureKey(p *Preparation, width Abs, excl *ParExclusions, lineHeight Abs) uint64 {
	h := memo.NewHasher()
	h.WriteString(p.Text)
	hashConfig(h, p.Config)
	h.WriteUint64(float64bits(float64(width)))
	h.WriteUint64(float64bits(float64(lineHeight)))
	for _, b := range excl.Bands() {
		h.WriteUint64(float64bits(float64(b.YStart)))
		h.WriteUint64(float64bits(float64(b.YEnd)))
		h.WriteUint64(float64bits(float64(b.LeftReserved)))
		h.WriteUint64(float64bits(float64(b.RightReserved)))
	}
	return h.Sum64()
}

// noTracked is the replay dispatch for measurements, which observe no
// tracked inputs: an empty fingerprint always replays successfully, so
// entries are discriminated purely by the argument hash.
func noTracked(method string, argsHash uint64) (uint64, bool) {
	return 0, false
}

// LinebreakCached measures p at width through cache. The result is
// shared, so callers must treat the lines as immutable.
func LinebreakCached(cache *memo.Cache, p *Preparation, width Abs, excl *ParExclusions, lineHeight Abs) WrapResult {
	if cache == nil {
		return LinebreakWithExclusions(p, width, excl, lineHeight)
	}
	return memo.Memoize(cache, "inline.linebreak", measureKey(p, width, excl, lineHeight), noTracked,
		func(rec *memo.Recorder) WrapResult {
			return LinebreakWithExclusions(p, width, excl, lineHeight)
		})
}

func float64bits(f float64) uint64 {
	return math.Float64bits(f)
}
