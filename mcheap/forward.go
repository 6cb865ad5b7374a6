// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Forwarder: copies one reachable object into the destination space
// and installs a forwarding pointer at its old location.
//
// See doc.go for overview. Grounded on runtime/mgcwork.go's tagged-word
// shape (a pointer-sized slot that is either real data or a redirect,
// disambiguated by a low bit) generalized from work-queue bookkeeping
// to whole-object relocation.

package mcheap

// move implements spec.md §4.4 at the host-address boundary: addr is
// either 0 (the null sentinel, returned unchanged) or a real address
// previously handed out by Allocate. It returns the address the caller
// should use from now on — unchanged if addr's object lives on a pinned
// (next_space) page or was already forwarded earlier in this
// collection cycle, or the address of a fresh copy otherwise.
func (h *Heap) move(addr uintptr) (uintptr, error) {
	if addr == 0 {
		return 0, nil
	}
	off, ok := h.arena.offsetOf(addr)
	if !ok {
		// Not a pointer into this heap's arena. A well-behaved host
		// never stores anything else in a pointer slot or global root,
		// so this only happens if move is misused; leaving it
		// untouched is safer than corrupting unrelated host memory.
		return addr, nil
	}
	newOff, err := h.moveOffset(off)
	if err != nil {
		return 0, err
	}
	return h.arena.address(newOff), nil
}

// moveOffset is move's internal-offset counterpart, used directly by
// the sweep phase (collector.go) where pointer fields are already
// converted once per visit.
func (h *Heap) moveOffset(off offset) (offset, error) {
	p := h.arena.pageOf(off)

	// DESIGN.md Open Question #2: a pointer landing inside a Continued
	// page cannot legitimately be an exact root's own object pointer
	// (those always name an Object page's first user word), but we
	// tolerate it defensively by routing it through the same
	// owning-page back-walk the conservative scanner uses, pinning the
	// whole run rather than guessing at a header location that isn't
	// really there.
	if h.dir.pageType(p) == pageContinued {
		h.promoteOwningObjectPage(p)
		return off, nil
	}

	if h.dir.isNext(p, h.next) {
		return off, nil
	}

	headerOff := off - offset(WordSize)
	hdr := h.arena.readHeader(headerOff)
	if !hdr.live() {
		// Already forwarded earlier in this cycle (spec.md P3:
		// at-most-once forwarding) — the stored word is the
		// destination's header offset.
		return hdr.forwardOffset() + offset(WordSize), nil
	}
	return h.copyObject(headerOff)
}

// copyObject allocates a same-sized destination (into next_space, via
// the ordinary bump allocator — see bump.go's reserveWords for why this
// can never recurse into collect), copies the header and every user
// word verbatim, and leaves a forwarding word at the source.
func (h *Heap) copyObject(headerOff offset) (offset, error) {
	hdr := h.arena.readHeader(headerOff)
	words := hdr.words()

	// ptrs=0: the destination's pointer words must not be pre-nulled,
	// since the verbatim copy below immediately overwrites them (and
	// the header itself) with the source's real contents.
	destOff, err := h.bumpAllocate(words, 0)
	if err != nil {
		return 0, err
	}
	for i := uint32(0); i < words; i++ {
		w := h.arena.readWord(headerOff + offset(i)*WordSize)
		h.arena.writeWord(destOff+offset(i)*WordSize, w)
	}
	h.arena.writeHeader(headerOff, forwardHeader(destOff))
	h.stats.bytesCopied.Add(int64(words) * WordSize)
	h.stats.objectsCopied.Add(1)
	return destOff + offset(WordSize), nil
}
