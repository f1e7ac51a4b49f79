package kit

import (
	"sync"

	"typstcore/library/foundations"
	"typstcore/memo"
	"typstcore/syntax"
)

// TrackedWorld wraps a World so that every observation a compilation
// makes through it is recorded into a fingerprint: each Source, File,
// and Today call contributes a (method, argument, result-digest) triple.
// A cached compilation result stays valid exactly as long as replaying
// those calls against the current world yields the same digests, so a
// change to a file the compilation never read cannot invalidate it.
//
// One TrackedWorld is created per world and reused across compiles; the
// argument registry it accumulates is what makes replay possible (a
// recorded argument hash alone cannot be turned back into a file id).
type TrackedWorld struct {
	world foundations.World

	mu   sync.Mutex
	rec  *memo.Recorder
	args map[uint64]syntax.FileId
}

// NewTrackedFileWorld builds a FileWorld and wraps it for tracked
// access in one step.
func NewTrackedFileWorld(root string, mainPath string, opts ...FileWorldOption) (*TrackedWorld, error) {
	world, err := NewFileWorld(root, mainPath, opts...)
	if err != nil {
		return nil, err
	}
	return NewTrackedWorld(world), nil
}

// NewTrackedWorld wraps world for tracked access.
func NewTrackedWorld(world foundations.World) *TrackedWorld {
	return &TrackedWorld{
		world: world,
		args:  make(map[uint64]syntax.FileId),
	}
}

// Inner returns the wrapped world.
func (t *TrackedWorld) Inner() foundations.World {
	return t.world
}

// BeginRecording installs rec as the fingerprint recorder for subsequent
// calls. Passing nil stops recording.
func (t *TrackedWorld) BeginRecording(rec *memo.Recorder) {
	t.mu.Lock()
	t.rec = rec
	t.mu.Unlock()
}

func (t *TrackedWorld) record(method string, id syntax.FileId, resultHash uint64) {
	argsHash := hashFileId(id)
	t.mu.Lock()
	t.args[argsHash] = id
	if t.rec != nil {
		t.rec.Record(method, argsHash, resultHash)
	}
	t.mu.Unlock()
}

func hashFileId(id syntax.FileId) uint64 {
	return memo.NewHasher().WriteUint64(uint64(id)).Sum64()
}

func hashSource(source *syntax.Source, err error) uint64 {
	h := memo.NewHasher()
	if err != nil {
		h.WriteString("error").WriteString(err.Error())
	} else if source != nil {
		h.WriteString(source.Text())
	}
	return h.Sum64()
}

func hashBytes(data []byte, err error) uint64 {
	h := memo.NewHasher()
	if err != nil {
		h.WriteString("error").WriteString(err.Error())
	} else {
		h.WriteString(string(data))
	}
	return h.Sum64()
}

// hashDate folds a date's calendar components into the digest.
func hashDate(h *memo.Hasher, date *foundations.Datetime) {
	if date == nil {
		h.WriteString("none")
		return
	}
	h.WriteUint64(uint64(int64(date.YearOr(0))))
	h.WriteUint64(uint64(int64(date.MonthOr(0))))
	h.WriteUint64(uint64(int64(date.DayOr(0))))
}

// Library returns the standard library scope. The library is fixed for
// the lifetime of a world and is not tracked.
func (t *TrackedWorld) Library() *foundations.Scope {
	return t.world.Library()
}

// MainFile returns the main source file ID.
func (t *TrackedWorld) MainFile() syntax.FileId {
	return t.world.MainFile()
}

// Source returns the parsed source for a file, recording the access.
func (t *TrackedWorld) Source(id syntax.FileId) (*syntax.Source, error) {
	source, err := t.world.Source(id)
	t.record("source", id, hashSource(source, err))
	return source, err
}

// File returns the raw bytes of a file, recording the access.
func (t *TrackedWorld) File(id syntax.FileId) ([]byte, error) {
	data, err := t.world.File(id)
	t.record("file", id, hashBytes(data, err))
	return data, err
}

// Today returns the current date, recording the access so that cached
// results keyed on a date are invalidated when the date changes.
func (t *TrackedWorld) Today(offset *int) *foundations.Datetime {
	date := t.world.Today(offset)

	h := memo.NewHasher()
	off := uint64(0)
	if offset != nil {
		off = uint64(int64(*offset))
	}
	h.WriteUint64(off)
	hashDate(h, date)

	t.mu.Lock()
	if t.rec != nil {
		t.rec.Record("today", off, h.Sum64())
	}
	t.mu.Unlock()
	return date
}

// Dispatch returns the replay table for cache lookups: it re-invokes the
// recorded method against the current world and reports the digest of
// what it returns now. Methods or arguments this world never saw report
// no match, which fails the replay and forces a fresh computation.
func (t *TrackedWorld) Dispatch() func(method string, argsHash uint64) (uint64, bool) {
	return func(method string, argsHash uint64) (uint64, bool) {
		switch method {
		case "source":
			t.mu.Lock()
			id, ok := t.args[argsHash]
			t.mu.Unlock()
			if !ok {
				return 0, false
			}
			source, err := t.world.Source(id)
			return hashSource(source, err), true
		case "file":
			t.mu.Lock()
			id, ok := t.args[argsHash]
			t.mu.Unlock()
			if !ok {
				return 0, false
			}
			data, err := t.world.File(id)
			return hashBytes(data, err), true
		case "today":
			off := int(int64(argsHash))
			var offset *int
			if argsHash != 0 {
				offset = &off
			}
			date := t.world.Today(offset)
			h := memo.NewHasher()
			h.WriteUint64(argsHash)
			hashDate(h, date)
			return h.Sum64(), true
		}
		return 0, false
	}
}
