package memo

import (
	"sync"
)

// entry is a single cache slot: the fingerprint that produced result, plus
// bookkeeping for generational eviction.
type entry struct {
	fingerprint Fingerprint
	nonTracked  uint64
	result      any
	generation  uint64 // generation this entry was last confirmed valid in
}

// key identifies a family of cache entries sharing a function identity and
// non-tracked argument hash. Multiple entries may share a key (different
// fingerprints for the same non-tracked args, because the tracked inputs
// differed) — they are disambiguated by fingerprint replay at lookup time.
type key struct {
	function   string
	nonTracked uint64
}

// Cache is the shared store backing Memoize. It is safe for concurrent
// use: every access holds the cache's mutex only briefly (fingerprint
// replay runs outside it), and a concurrent second insertion for
// the same (function, fingerprint, non-tracked-args) triple is discarded
// rather than overwriting the first (insertion is idempotent).
type Cache struct {
	mu         sync.Mutex
	entries    map[key][]*entry
	generation uint64
	hits       uint64
	misses     uint64
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[key][]*entry)}
}

// Advance bumps the cache's generation counter. Call this once per
// top-level Compile invocation, before evaluation begins.
func (c *Cache) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
}

// Evict drops entries whose generation lags the current one by more than
// maxAge. It is safe to call concurrently with lookups/inserts, though for
// predictable results callers typically call it between top-level
// compiles rather than mid-compile.
func (c *Cache) Evict(maxAge uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, list := range c.entries {
		kept := list[:0]
		for _, e := range list {
			if c.generation-e.generation <= maxAge {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(c.entries, k)
		} else {
			c.entries[k] = kept
		}
	}
}

// lookup replays every candidate entry sharing (function, nonTracked)
// against dispatch, returning the first whose fingerprint fully matches.
func (c *Cache) lookup(function string, nonTracked uint64, dispatch func(method string, argsHash uint64) (uint64, bool)) *entry {
	c.mu.Lock()
	candidates := append([]*entry(nil), c.entries[key{function, nonTracked}]...)
	c.mu.Unlock()

	for _, e := range candidates {
		if e.fingerprint.Replay(dispatch) {
			return e
		}
	}
	return nil
}

// insert records a fresh entry, discarding the insertion if a concurrent
// writer already inserted an entry with the same fingerprint digest and
// non-tracked hash (insertion is idempotent).
func (c *Cache) insert(function string, nonTracked uint64, fp Fingerprint, result any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key{function, nonTracked}
	digest := fp.digest()
	for _, e := range c.entries[k] {
		if e.fingerprint.digest() == digest {
			return // another writer beat us to it
		}
	}
	c.entries[k] = append(c.entries[k], &entry{
		fingerprint: fp,
		nonTracked:  nonTracked,
		result:      result,
		generation:  c.generation,
	})
}

// touch bumps e's generation to the cache's current one, so a later
// Evict does not reclaim an entry that is still being hit.
func (c *Cache) touch(e *entry) {
	c.mu.Lock()
	e.generation = c.generation
	c.mu.Unlock()
}

// Stats reports how many Memoize calls were served from cache and how
// many invoked their function. Useful for asserting that an edit did not
// re-run work on unaffected inputs.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Memoize is the single entry point other packages call to get
// lookup-or-invoke behavior. function identifies the memoized function
// (typically its fully qualified name); nonTrackedArgsHash folds in every
// argument that is not itself a tracked input; dispatch replays a
// candidate fingerprint's recorded calls against the tracked inputs
// actually in scope for this invocation; fn computes the result on a miss,
// given a fresh Recorder to thread through to any tracked calls it makes.
//
// Memoize is generic so callers get a typed result back without an
// unchecked type assertion at every call site.
func Memoize[R any](cache *Cache, function string, nonTrackedArgsHash uint64, dispatch func(method string, argsHash uint64) (uint64, bool), fn func(rec *Recorder) R) R {
	if e := cache.lookup(function, nonTrackedArgsHash, dispatch); e != nil {
		cache.touch(e)
		cache.mu.Lock()
		cache.hits++
		cache.mu.Unlock()
		return e.result.(R)
	}

	rec := NewRecorder()
	result := fn(rec)
	cache.insert(function, nonTrackedArgsHash, rec.Fingerprint(), result)
	cache.mu.Lock()
	cache.misses++
	cache.mu.Unlock()
	return result
}
