// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcheap

import "testing"

func TestPromoteOwningObjectPageWalksContinuedPages(t *testing.T) {
	h := newTestHeap(t, 64, 4)
	h.next = nextTag(h.current)

	// Simulate a 3-page object: page 0 is the Object page, pages 1 and
	// 2 are Continued.
	h.dir.setSpace(0, h.current)
	h.dir.setType(0, pageObject)
	h.dir.setSpace(1, h.current)
	h.dir.setType(1, pageContinued)
	h.dir.setSpace(2, h.current)
	h.dir.setType(2, pageContinued)

	owner := h.promoteOwningObjectPage(2)
	if owner != 0 {
		t.Fatalf("promoteOwningObjectPage(2) = %d, want 0", owner)
	}

	for _, p := range []pageNum{0, 1, 2} {
		if !h.dir.isNext(p, h.next) {
			t.Errorf("page %d not retagged to next_space", p)
		}
	}

	// Only the owning Object page (0) should have been enqueued: pages
	// 1 and 2 have no header of their own to sweep.
	got, ok := h.dir.dequeueHead()
	if !ok || got != 0 {
		t.Fatalf("dequeueHead() = (%d, %v), want (0, true)", got, ok)
	}
	if !h.dir.queueEmpty() {
		t.Errorf("queue should contain exactly one page")
	}
}

func TestPromotePageIsIdempotent(t *testing.T) {
	h := newTestHeap(t, 64, 4)
	h.next = nextTag(h.current)
	h.dir.setSpace(0, h.current)

	h.promotePage(0, true)
	if h.dir.queueEmpty() {
		t.Fatalf("queue should have exactly one entry after first promotion")
	}
	got, _ := h.dir.dequeueHead()
	if got != 0 {
		t.Fatalf("dequeueHead() = %d, want 0", got)
	}

	// Re-promoting an already-next_space page must not enqueue it
	// again.
	h.promotePage(0, true)
	if !h.dir.queueEmpty() {
		t.Errorf("re-promoting an already-promoted page enqueued it again")
	}
}

// fakeRootSource yields exactly the words given to it, for deterministic
// conservativeScan tests independent of the real host stack's contents.
type fakeRootSource struct {
	words []uintptr
}

func (f fakeRootSource) StackHints(_ uintptr, yield func(word uintptr) bool) {
	for _, w := range f.words {
		if !yield(w) {
			return
		}
	}
}

func TestConservativeScanPromotesHintedPage(t *testing.T) {
	h := newTestHeap(t, 64, 4)
	h.dir.setSpace(0, h.current)
	h.dir.setType(0, pageObject)
	h.next = nextTag(h.current)

	hintAddr := h.arena.address(h.arena.pageStart(0) + offset(WordSize))
	h.rootSource = fakeRootSource{words: []uintptr{0, hintAddr, 0xdeadbeef}}

	h.conservativeScan()

	if !h.dir.isNext(0, h.next) {
		t.Fatalf("conservativeScan did not promote the page named by a stack hint")
	}
}

func TestConservativeScanIgnoresHintsOutsideCurrentSpace(t *testing.T) {
	h := newTestHeap(t, 64, 4)
	h.next = nextTag(h.current)
	// Page 0 is free (tag 0), never tagged current_space.
	hintAddr := h.arena.address(h.arena.pageStart(0))
	h.rootSource = fakeRootSource{words: []uintptr{hintAddr}}

	h.conservativeScan()

	if h.dir.isNext(0, h.next) {
		t.Errorf("conservativeScan promoted a free page from a stray hint")
	}
}
