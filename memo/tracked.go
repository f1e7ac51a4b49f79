package memo

import (
	"hash/maphash"
)

// seed is shared across all fingerprint hashing in this process so that
// two calls with identical arguments always hash identically within a
// single run. maphash still randomizes the seed per-process, which is
// fine: fingerprints are never persisted across process boundaries.
var seed = maphash.MakeSeed()

// hashBytes returns a 64-bit digest of b.
func hashBytes(b []byte) uint64 {
	return maphash.Bytes(seed, b)
}

// hashString returns a 64-bit digest of s.
func hashString(s string) uint64 {
	return maphash.String(seed, s)
}

// Hasher accumulates bytes into a single digest across several values,
// e.g. a method name followed by its argument encoding.
type Hasher struct {
	h maphash.Hash
}

// NewHasher returns a ready-to-use Hasher.
func NewHasher() *Hasher {
	h := &Hasher{}
	h.h.SetSeed(seed)
	return h
}

// WriteString folds s into the digest.
func (h *Hasher) WriteString(s string) *Hasher {
	h.h.WriteString(s)
	h.h.WriteByte(0)
	return h
}

// WriteUint64 folds v into the digest.
func (h *Hasher) WriteUint64(v uint64) *Hasher {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(v >> (8 * i))
	}
	h.h.Write(buf[:])
	return h
}

// Sum64 returns the accumulated digest.
func (h *Hasher) Sum64() uint64 {
	return h.h.Sum64()
}

// Hashable is implemented by values that know how to contribute a stable
// digest of themselves. Recorded call arguments and return values are
// reduced to uint64 digests before they are recorded, so that replay can
// compare without relying on reflection or pointer identity.
type Hashable interface {
	Hash() uint64
}

// call is one recorded (method, args, returned-hash) triple.
type call struct {
	method     string
	argsHash   uint64
	resultHash uint64
}

// Recorder collects the calls made against tracked inputs during a single
// invocation of a memoized function. A fresh Recorder is created for every
// cache miss; its accumulated calls become the fingerprint stored with the
// result.
type Recorder struct {
	calls []call
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends a call to the fingerprint being built.
func (r *Recorder) Record(method string, argsHash, resultHash uint64) {
	r.calls = append(r.calls, call{method: method, argsHash: argsHash, resultHash: resultHash})
}

// Fingerprint freezes the recorder's calls into an immutable Fingerprint.
func (r *Recorder) Fingerprint() Fingerprint {
	calls := make([]call, len(r.calls))
	copy(calls, r.calls)
	return Fingerprint{calls: calls}
}

// Fingerprint is the frozen sequence of tracked calls a function made
// while producing a cached result. It is replayed against the tracked
// inputs of a later call to decide whether the cached result still
// applies.
type Fingerprint struct {
	calls []call
}

// digest summarizes the fingerprint for use as a cache-entry discriminator
// (two fingerprints with the same digest are not guaranteed equal, but the
// Cache always falls back to full replay before declaring a hit).
func (f Fingerprint) digest() uint64 {
	h := NewHasher()
	for _, c := range f.calls {
		h.WriteString(c.method).WriteUint64(c.argsHash).WriteUint64(c.resultHash)
	}
	return h.Sum64()
}

// Tracked wraps a value of type T so that its accessor methods can be
// called through Call, which records each call into a Recorder (when one
// is active) and replays recorded calls during cache lookup.
//
// T is typically an interface like a World implementation: the wrapped
// value is never mutated by Tracked itself, only observed.
type Tracked[T any] struct {
	inner T
}

// Track wraps v as a tracked input.
func Track[T any](v T) Tracked[T] {
	return Tracked[T]{inner: v}
}

// Inner returns the wrapped value for use outside the tracked-call
// protocol (e.g. by code that is not itself memoized and does not need
// fingerprinting).
func (t Tracked[T]) Inner() T {
	return t.inner
}

// Call invokes method on the tracked value's inner value via fn, hashing
// args and the returned value and folding the triple into rec (if rec is
// non-nil — during replay, rec is nil and the caller compares the result
// hash itself via Replay).
//
// Call is generic over the tracked and result types: callers pass an
// already-hashed uint64 for the arguments (built with a Hasher) and a
// hashResult function for the result, so Call itself does no encoding.
func Call[T, R any](t Tracked[T], rec *Recorder, method string, argsHash uint64, fn func(T) R, hashResult func(R) uint64) R {
	result := fn(t.inner)
	if rec != nil {
		rec.Record(method, argsHash, hashResult(result))
	}
	return result
}

// Replay re-executes every call in fp against the current tracked value
// dispatch table and reports whether every recorded return-hash still
// matches. dispatch maps a method name to a function taking the recorded
// argsHash and returning the current result hash for that call; it is
// supplied by the package doing the tracking (e.g. kit.World) because
// only that package knows how to re-invoke "Source(id)" from an opaque
// argsHash.
//
// Replay is deliberately simple: it trusts the caller's dispatch table to
// be a pure, deterministic function of (method, argsHash) given the
// current tracked value. Nondeterminism there (e.g. hashing map iteration
// order) would defeat the soundness guarantee: a hit must imply that
// every observed call returns byte-identical data.
func (fp Fingerprint) Replay(dispatch func(method string, argsHash uint64) (resultHash uint64, ok bool)) bool {
	for _, c := range fp.calls {
		resultHash, ok := dispatch(c.method, c.argsHash)
		if !ok || resultHash != c.resultHash {
			return false
		}
	}
	return true
}
