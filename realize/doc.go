// Package realize converts an evaluated content stream into the linear
// sequence of layout-ready elements the flow engine consumes.
//
// Realization walks the content tree in source order, unwrapping style
// scopes, labels, and sequences; applies show rules outermost-first
// (each rule fires at most once per element instance, so rewrite chains
// terminate); groups inline runs into paragraphs and item runs into
// lists; and collapses spaces against the destructive elements around
// them.
//
// RealizeDocument layers the introspection steps on top: every locatable
// element receives a deterministic Location from the pass's locator,
// counter and state update events enter the registry, and context nodes
// (deferred callbacks produced by `context` expressions) resolve against
// the previous convergence pass's introspector snapshot. Deferred lookup
// failures do not abort the pass; they surface as a DeferredError the
// convergence loop suppresses on every iteration but the last.
package realize
