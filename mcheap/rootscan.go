// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Conservative root scanner: treats words in the host's stack/register
// range as page-pointer hints, and the shared owning-page back-walk
// used to promote whatever a hint (or, defensively, a misdirected exact
// root) turns out to point at.
//
// See doc.go for overview. spec.md §9 flags the stack-scan-top
// mechanism as platform-dependent and asks for it to be modeled as "a
// capability the host supplies" rather than inline assembly; RootSource
// is that capability (see DESIGN.md, Open Question 1).

package mcheap

import "unsafe"

// RootSource supplies the conservative stack/register hints a
// collection scans. StackHints must call yield once per candidate
// machine word between the current top of the host's stack and
// stackBase (spec.md §3's stack root range), stopping early if yield
// returns false.
//
// A host with stronger guarantees than the default best-effort
// implementation — for instance one that pins a non-growable OS thread
// and reads its real stack pointer via cgo — can supply its own
// RootSource via WithRootSource instead.
type RootSource interface {
	StackHints(stackBase uintptr, yield func(word uintptr) bool)
}

// defaultRootSource is mcheap's best-effort RootSource: it captures the
// address of a local variable in the current goroutine as the top of
// the scan range and walks every word up to stackBase. This mirrors the
// original's "&fp" trick (spec.md §9) and inherits the same caveat: it
// assumes the relevant registers have been spilled to this stack frame
// and that nothing relocates the goroutine's stack while the scan
// reads it. Go's own stacks are growable and movable, so this is
// genuinely best-effort, not a portability guarantee — see DESIGN.md's
// resolution of Open Question 1 for the tradeoff this accepts.
type defaultRootSource struct{}

//go:noinline
func spillBarrier() {
	// An opaque call boundary immediately before capturing the stack
	// top, so the compiler has a reason to have flushed
	// callee-saved/live registers to memory by the time we take &fp.
}

func captureStackTop() uintptr {
	spillBarrier()
	var fp int
	return uintptr(unsafe.Pointer(&fp))
}

func (defaultRootSource) StackHints(stackBase uintptr, yield func(word uintptr) bool) {
	top := captureStackTop()
	lo, hi := top, stackBase
	if lo > hi {
		lo, hi = hi, lo
	}
	for addr := lo; addr+WordSize <= hi; addr += WordSize {
		w := *(*uintptr)(unsafe.Pointer(addr))
		if !yield(w) {
			return
		}
	}
}

// conservativeScan implements spec.md §4.5/§4.6 step 5: every hint word
// that happens to name a page currently in the current_space
// generation gets its owning object page promoted in place. Hints that
// miss the heap entirely, or land on a free or already-promoted page,
// are ignored — the scanner is deliberately sloppy about false
// positives on page numbers but never promotes a page it shouldn't.
func (h *Heap) conservativeScan() {
	h.rootSource.StackHints(h.stackBase, func(word uintptr) bool {
		page, ok := h.arena.pageOfAddr(word)
		if !ok {
			return true
		}
		if !h.dir.isCurrent(page, h.current) {
			return true
		}
		h.promoteOwningObjectPage(page)
		return true
	})
}

// promoteOwningObjectPage retags the whole run p belongs to (its owning
// Object page and every Continued page of the run, before and after p)
// to next_space and enqueues the Object page for the sweep phase. It
// returns the Object page. It is idempotent: a page already tagged
// next_space is left alone by promotePage, so re-promoting a page a
// second hint also landed on costs a walk over the run's page types and
// nothing else.
func (h *Heap) promoteOwningObjectPage(p pageNum) pageNum {
	for h.dir.pageType(p) == pageContinued {
		// Continued pages are retagged so invariant 2 holds (every page
		// is either free or tagged current_space — never a stale tag)
		// but are never enqueued: they carry no header of their own, so
		// the sweep phase only ever walks their owning Object page.
		h.promotePage(p, false)
		if p == 0 {
			// A Continued page with no preceding Object page is a
			// corrupt heap; stop rather than wrap pageNum's unsigned
			// subtraction.
			break
		}
		p--
	}
	h.promotePage(p, true)
	// The Continued pages after the one the walk started from belong to
	// the same run; they are retagged too so none of it is freed.
	for q := p + 1; q < h.arena.pageCount() && h.dir.pageType(q) == pageContinued && !h.dir.isFree(q, h.current, h.next); q++ {
		h.promotePage(q, false)
	}
	return p
}

// promotePage retags a single page to next_space, unless it is already
// on next_space (already promoted earlier in this cycle, or a freshly
// allocated destination page). enqueue controls whether the page also
// joins the sweep queue — true for Object pages, false for the
// Continued pages of a multi-page run, which have nothing of their own
// to sweep.
func (h *Heap) promotePage(p pageNum, enqueue bool) {
	if h.dir.isNext(p, h.next) {
		return
	}
	h.dir.setSpace(p, h.next)
	if enqueue {
		h.dir.enqueue(p)
	}
}
