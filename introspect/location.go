package introspect

import "hash/maphash"

var seed = maphash.MakeSeed()

// Location is a 128-bit identifier assigned to a locatable element during
// realization. It is deterministic given the realization sequence
// (derived from a hash chain over the element's position in the realized
// stream plus a discriminator), stable across measure/commit cycles of
// the same logical element, and unstable across convergence iterations —
// consumers must not compare locations across iterations.
type Location struct {
	hi, lo uint64
}

// Nil is the zero Location, never produced by a Locator and usable as a
// "no location" sentinel.
var Nil Location

// IsNil reports whether l is the zero Location.
func (l Location) IsNil() bool {
	return l == Nil
}

// Variant returns a distinguishable derivative of l. It is used when two
// otherwise-identical elements would hash to the same location (e.g. the
// start and end tags of the same element instance).
func (l Location) Variant(v uint32) Location {
	h := maphash.Bytes(seed, []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
	return Location{hi: l.hi, lo: l.lo ^ h}
}

func mix(h *maphash.Hash, v uint64) {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(v >> (8 * i))
	}
	h.Write(buf[:])
}

func mixString(h *maphash.Hash, s string) {
	h.WriteString(s)
	h.WriteByte(0)
}
