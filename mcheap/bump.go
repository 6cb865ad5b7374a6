// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Bump allocator: the fast path within the current page.
//
// See doc.go for overview. Grounded on runtime/mcache.go's per-cache
// fast-path shape: serve from local state until it runs out, then fall
// back to a slower refill path (there mcentral.cacheSpan, here the page
// acquirer).

package mcheap

// bumpAllocate reserves `words` contiguous words (header included) for
// a new object and writes a header with the given pointer count,
// implementing spec.md §4.2 end to end. The caller is responsible for
// treating the returned offset as the header location (the user
// pointer is one word past it).
//
// ptrs user words immediately following the header are zeroed; any
// further user words are left as-is, matching spec.md §4.2 step 3.
func (h *Heap) bumpAllocate(words uint32, ptrs uint32) (offset, error) {
	off, err := h.reserveWords(words)
	if err != nil {
		return 0, err
	}
	h.arena.writeHeader(off, makeHeader(words, ptrs))
	for i := uint32(0); i < ptrs; i++ {
		h.arena.writeWord(off+offset((i+1)*WordSize), 0)
	}
	return off, nil
}

// reserveWords implements spec.md §4.2 steps 1(partial)/2/4: find
// `words` contiguous free words starting at a page boundary-respecting
// free pointer, sealing and replacing the current page as needed. It
// never writes the object's own header — bumpAllocate and the
// forwarder do that once they know what header to write — so it is
// also the entry point forward.go uses to reserve space for a copy.
//
// This must never itself trigger a second collection while one is
// already in progress (spec.md §4.4/§9: "must never trigger another
// collect()"); acquirePages enforces that by skipping the watermark
// check (and therefore never calling collect) whenever
// h.isCollecting() is already true (see acquire.go).
func (h *Heap) reserveWords(words uint32) (offset, error) {
	for {
		if words <= h.bump.freeWords {
			off := h.bump.freeOff
			// freeOff always advances to the true end of what's now
			// written, even when this allocation consumes the page (or
			// run) exactly or overflows a single page's word count: the
			// sweep phase (collector.go) uses freeOff as the frontier
			// of valid data on whatever page is currently being filled,
			// not merely as "the next small-object slot."
			h.bump.freeOff = off + offset(words)*WordSize
			if words < h.arena.pageWords() {
				h.bump.freeWords -= words
			} else {
				h.bump.freeWords = 0
			}
			return off, nil
		}

		h.sealCurrentPage()

		pagesNeeded := (int(words) + int(h.arena.pageWords()) - 1) / int(h.arena.pageWords())
		if err := h.acquirePages(pagesNeeded); err != nil {
			return 0, err
		}
		// Loop back and re-check fit: acquirePages has either installed
		// a fresh current page sized to exactly cover pagesNeeded pages,
		// or run a collection without installing one, in which case the
		// next pass asks for pages again.
	}
}

// sealCurrentPage writes a filler header over whatever's left in the
// current bump page, so a later sweep walking the page object-by-object
// never reads past the last real object. It is a no-op on a brand new
// heap (no current page yet) and is also used verbatim by collect()
// (spec.md §4.6 step 2) to seal the page being collected out from
// under the mutator.
func (h *Heap) sealCurrentPage() {
	if h.bump.page == noPage || h.bump.freeWords == 0 {
		return
	}
	h.arena.writeHeader(h.bump.freeOff, fillerHeader(h.bump.freeWords))
	h.bump.freeWords = 0
}
