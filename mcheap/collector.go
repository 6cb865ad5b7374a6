// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Collector orchestrator: flips spaces, promotes hinted pages, exactly
// updates global roots, and sweeps the promotion queue.
//
// See doc.go for overview. Grounded on the lock/phase/unlock control
// flow of runtime/mheap.go and runtime/mcentral.go, generalized from
// mark-and-sweep bookkeeping to a copying collection's flip/promote/
// forward/sweep phases.

package mcheap

// collect implements spec.md §4.6 end to end.
func (h *Heap) collect() error {
	if h.isCollecting() {
		h.logFatal(ErrCollectorReentry, "collect invoked while a collection is already in progress", map[string]interface{}{
			"current_space": h.current, "next_space": h.next,
		})
		return errorf(ErrCollectorReentry, "collect() called with current_space(%d) != next_space(%d)", h.current, h.next)
	}

	h.stats.collections.Add(1)
	h.logPhase("start", map[string]interface{}{"alloc_pages": h.allocPages, "heap_pages": h.arena.pageCount()})

	h.sealCurrentPage()

	h.next = nextTag(h.current)
	h.allocPages = 0
	h.dir.qhead, h.dir.qtail = noPage, noPage
	h.bump = bumpState{page: noPage, freeOff: nullOffset, freeWords: 0}

	h.conservativeScan()
	pinned := h.countNextPages()
	h.stats.lastCollectionPinned.Store(int64(pinned))
	h.logPhase("conservative", map[string]interface{}{"pinned_pages": pinned})

	for _, cell := range h.roots {
		newAddr, err := h.move(*cell)
		if err != nil {
			return err
		}
		*cell = newAddr
	}
	h.logPhase("exact-globals", map[string]interface{}{"roots": len(h.roots)})

	if err := h.sweep(); err != nil {
		return err
	}
	h.logPhase("sweep", map[string]interface{}{"bytes_copied": h.stats.bytesCopied.Load()})

	h.current = h.next
	h.stats.pagesInUse.Store(int64(h.allocPages))
	h.stats.pagesFree.Store(int64(h.arena.pageCount()) - int64(h.allocPages))
	return nil
}

// sweep implements spec.md §4.6 step 7: walk every promoted page's
// objects, forwarding each one's pointer fields. Forwarding a pointer
// can itself enqueue further pages (when move copies a not-yet-moved
// object into a fresh destination page), so the queue is drained until
// empty rather than iterated a fixed number of times.
func (h *Heap) sweep() error {
	for {
		q, ok := h.dir.dequeueHead()
		if !ok {
			return nil
		}
		if err := h.sweepPage(q); err != nil {
			return err
		}
	}
}

// sweepPage walks one promoted page's objects from its first word,
// stepping by each header's word count, rewriting every leading pointer
// field via move. It stops at the page boundary or, if q is the page
// currently receiving new allocations, at the high-water mark of what
// has actually been written so far — new data can still be appended to
// q by move() calls made earlier in this very walk.
func (h *Heap) sweepPage(q pageNum) error {
	cursor := h.arena.pageStart(q)
	for {
		if h.arena.pageOf(cursor) != q {
			return nil
		}
		if q == h.bump.page && cursor >= h.bump.freeOff {
			return nil
		}

		hdr := h.arena.readHeader(cursor)
		if err := assertf(hdr.live(), ErrCollectorReentry, "sweep encountered a non-live header on a promoted page at page %d", q); err != nil {
			h.logFatal(ErrCollectorReentry, "corrupt promoted page", map[string]interface{}{"page": q})
			return err
		}

		words := hdr.words()
		ptrs := hdr.ptrs()
		for i := uint32(0); i < ptrs; i++ {
			slot := cursor + offset(1+i)*WordSize
			addr := h.arena.readWord(slot)
			newAddr, err := h.move(addr)
			if err != nil {
				return err
			}
			h.arena.writeWord(slot, newAddr)
		}

		cursor += offset(words) * WordSize
	}
}

// countNextPages is a diagnostics helper: how many pages are currently
// tagged next_space (pinned plus freshly allocated destination pages).
// collect calls it right after the conservative phase and feeds the
// result to the debug trace and the LastCollectionPinned counter; it
// plays no part in correctness.
func (h *Heap) countNextPages() int {
	n := 0
	for p := pageNum(0); p < h.arena.pageCount(); p++ {
		if h.dir.isNext(p, h.next) {
			n++
		}
	}
	return n
}
