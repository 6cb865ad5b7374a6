// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcheap

import "testing"

func TestFindFreeRunDoesNotWrapAcrossPageZero(t *testing.T) {
	h := newTestHeap(t, 64, 4)

	// Only pages 3 and 0 are free; the only 2-page run that could
	// satisfy a request of 2 would have to straddle the wrap from page
	// 3 back to page 0, which is forbidden, so none should be found.
	h.dir.setSpace(1, h.current)
	h.dir.setSpace(2, h.current)
	h.cursor = 3

	if _, ok := h.findFreeRun(2); ok {
		t.Fatalf("findFreeRun(2) found a run straddling the page-0 wrap, want none")
	}
}

func TestFindFreeRunFindsNonWrappingRun(t *testing.T) {
	h := newTestHeap(t, 64, 4)
	h.cursor = 1

	start, ok := h.findFreeRun(2)
	if !ok {
		t.Fatalf("findFreeRun(2) from cursor 1: want a run, got none")
	}
	if start != 1 {
		t.Errorf("findFreeRun(2) start = %d, want 1", start)
	}
}

func TestAcquirePagesInstallsFreshBumpPage(t *testing.T) {
	h := newTestHeap(t, 64, 8) // pageCount/2 = 4, well above the 2 pages requested

	if err := h.acquirePages(2); err != nil {
		t.Fatalf("acquirePages(2): %v", err)
	}
	if h.bump.page != 0 {
		t.Errorf("bump.page = %d, want 0", h.bump.page)
	}
	if h.bump.freeWords != 16 {
		t.Errorf("bump.freeWords = %d, want 16 (2 pages x 8 words)", h.bump.freeWords)
	}
	if h.allocPages != 2 {
		t.Errorf("allocPages = %d, want 2", h.allocPages)
	}
	if h.dir.pageType(0) != pageObject || h.dir.pageType(1) != pageContinued {
		t.Errorf("page types = %v,%v, want pageObject,pageContinued", h.dir.pageType(0), h.dir.pageType(1))
	}
}
