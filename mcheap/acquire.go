// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Page acquirer: finds N contiguous free pages, triggering a
// collection when the heap crosses its half-full watermark.
//
// See doc.go for overview. Grounded on runtime/mcentral.go's grow()
// (fetch from the next layer down, carve into usable units, retry) and
// runtime/mheap.go's free-list scan.

package mcheap

// isCollecting reports whether a collection is in progress: spec.md
// §3's "during steady state current_space == next_space; during a
// collection they differ."
func (h *Heap) isCollecting() bool {
	return h.current != h.next
}

// acquirePages implements spec.md §4.3. On success it installs a fresh
// current page (or run of pages) in h.bump and returns nil; on a
// watermark trip during steady state it runs a collection and returns
// nil without installing a page, relying on reserveWords's retry loop
// to call acquirePages again. It returns a non-nil error only for
// ErrHeapExhausted (no run exists, including after a collection) or a
// propagated error from collect() itself.
func (h *Heap) acquirePages(n int) error {
	if !h.isCollecting() {
		threshold := int(float64(h.arena.pageCount()) * h.watermark)
		if h.allocPages+n >= threshold {
			h.logPhase("watermark", map[string]interface{}{
				"alloc_pages": h.allocPages, "requested": n, "heap_pages": h.arena.pageCount(),
			})
			if err := h.collect(); err != nil {
				return err
			}
			return nil
		}
	}

	base, ok := h.findFreeRun(n)
	if !ok {
		h.logFatal(ErrHeapExhausted, "no run of contiguous free pages satisfies request", map[string]interface{}{
			"requested_pages": n, "heap_pages": h.arena.pageCount(), "collecting": h.isCollecting(),
		})
		return errorf(ErrHeapExhausted, "no run of %d contiguous free pages available (heap has %d pages)", n, h.arena.pageCount())
	}

	tag := h.next
	h.dir.setType(base, pageObject)
	h.dir.setSpace(base, tag)
	for i := 1; i < n; i++ {
		p := base + pageNum(i)
		h.dir.setType(p, pageContinued)
		h.dir.setSpace(p, tag)
	}

	h.bump.page = base
	h.bump.freeOff = h.arena.pageStart(base)
	h.bump.freeWords = uint32(n) * h.arena.pageWords()
	h.allocPages += n
	h.cursor = (base + pageNum(n)) % h.arena.pageCount()

	if h.isCollecting() {
		h.dir.enqueue(base)
	}
	return nil
}

// findFreeRun walks up to one full lap of the page directory starting
// at the rotating cursor, looking for a run of n contiguous pages whose
// tag is neither current_space nor next_space. Per spec.md §4.3, a run
// may not straddle the wrap from the last page back to page 0 — we
// enforce that by resetting the run length whenever the walk crosses
// page 0, even mid-run.
func (h *Heap) findFreeRun(n int) (pageNum, bool) {
	pages := int(h.arena.pageCount())
	if n > pages {
		return 0, false
	}

	runLen := 0
	var runStart pageNum
	for i := 0; i < pages; i++ {
		idx := pageNum((int(h.cursor) + i) % pages)
		if idx == 0 {
			runLen = 0
		}
		if h.dir.isFree(idx, h.current, h.next) {
			if runLen == 0 {
				runStart = idx
			}
			runLen++
			if runLen == n {
				return runStart, true
			}
		} else {
			runLen = 0
		}
	}
	return 0, false
}
