package introspect

import (
	"errors"
	"fmt"
	"hash/maphash"
)

// Warning is a non-fatal diagnostic surfaced from the convergence loop
// itself (as opposed to the document pipeline it wraps).
type Warning struct {
	Message string
}

// DeferredError marks an error that should be suppressed on every
// iteration but the last: typically
// a query/counter/reference lookup for an element the introspector
// snapshot does not yet contain. Wrap such an error with NewDeferredError
// so Converge knows to retry rather than fail immediately.
type DeferredError struct {
	err error
}

// NewDeferredError wraps err as deferred.
func NewDeferredError(err error) *DeferredError {
	return &DeferredError{err: err}
}

func (d *DeferredError) Error() string { return d.err.Error() }
func (d *DeferredError) Unwrap() error { return d.err }

// ConvergeOptions configures Converge.
type ConvergeOptions struct {
	// MaxIterations bounds the loop; 0 selects the default of 5.
	MaxIterations int
}

// RunFunc performs one convergence iteration: evaluation → realization →
// layout against ins (the previous pass's snapshot, Empty() on the first
// call). iteration is the zero-based pass index. It must push every
// locatable element and counter/state update it discovers into the
// returned Registry.
type RunFunc[T any] func(ins *Introspector, iteration int) (result T, reg *Registry, err error)

// Converge implements the outer fixed-point loop of compilation: run
// evaluation/realization/layout repeatedly against a growing
// introspector snapshot until the candidate snapshot's digest stops
// changing (or the iteration cap is hit), suppressing DeferredErrors on
// every iteration but the one whose result is actually returned.
func Converge[T any](run RunFunc[T], opts ConvergeOptions) (T, []Warning, error) {
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = 5
	}

	var zero T
	ins := Empty()
	var prevDigest uint64
	var warnings []Warning

	for k := 0; k < maxIter; k++ {
		result, reg, err := run(ins, k)
		if reg == nil {
			reg = NewRegistry()
		}
		candidate := reg.Freeze()
		digest := candidate.digest()
		converged := k > 0 && digest == prevDigest
		final := converged || k == maxIter-1

		if err != nil {
			var deferred *DeferredError
			if errors.As(err, &deferred) {
				if final {
					return zero, warnings, deferred.Unwrap()
				}
				// Suppressed: the reference that failed may resolve once
				// this pass's discoveries are folded into the next
				// introspector snapshot.
			} else {
				return zero, warnings, err
			}
		}

		if final {
			if !converged {
				warnings = append(warnings, Warning{
					Message: fmt.Sprintf("introspection did not converge after %d iterations", maxIter),
				})
			}
			return result, warnings, nil
		}

		ins = candidate
		prevDigest = digest
	}

	// Unreachable: the loop above always returns by k == maxIter-1.
	return zero, warnings, nil
}

// digest summarizes ins for convergence comparison: kinds, labels, and
// positions rounded to a precision tolerance. Two
// snapshots with the same digest are treated as unchanged even if exact
// floating-point positions differ by less than the tolerance, so the
// loop terminates in the presence of harmless numerical noise.
const positionTolerance = 1e-3

func roundTo(v, tolerance float64) float64 {
	if tolerance <= 0 {
		return v
	}
	return float64(int64(v/tolerance)) * tolerance
}

func (ins *Introspector) digest() uint64 {
	h := new(maphash.Hash)
	h.SetSeed(seed)
	for _, e := range ins.entries {
		mixString(h, e.Kind)
		mixString(h, e.Label)
		mix(h, uint64(e.Page))
		mix(h, uint64(int64(roundTo(e.Position.X, positionTolerance)*1000)))
		mix(h, uint64(int64(roundTo(e.Position.Y, positionTolerance)*1000)))
	}
	return h.Sum64()
}
