// Package introspect implements the introspection and convergence
// machinery that lets a document reference its own eventual layout:
// counters, states, labels, and cross-references whose values depend on
// final page positions that they, in turn, influence.
//
// The central discipline is a fixed-point loop (Converge): each pass
// realizes and lays out the document against a read-only snapshot of the
// previous pass (an Introspector), collects everything the current pass
// discovered into a Registry, and freezes that Registry into the next
// pass's Introspector. The loop stops once the digest of the candidate
// snapshot stops changing, or after a bounded number of iterations.
package introspect
