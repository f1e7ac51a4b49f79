// Package memo implements the incremental memoization fabric underlying
// compilation: a dependency-tracked function-result cache that keys on the
// observed subset of tracked inputs, so a cache entry stays valid whenever
// the parts of its inputs actually touched still hash to the same value.
//
// A tracked input is wrapped in a Tracked value. Every call made through
// the tracked value's accessor is recorded into a Recorder as a
// (method, args, returned-hash) triple, called a fingerprint. Memoize
// looks up an existing Cache entry by replaying its fingerprint against
// the current tracked inputs; a full replay match is a hit, and the
// wrapped function is never invoked.
package memo
