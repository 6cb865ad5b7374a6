// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcheap

import "testing"

func TestPageDirectoryFreeCurrentNext(t *testing.T) {
	d := newPageDirectory(4)
	current, next := spaceTag(1), spaceTag(1)

	if !d.isFree(0, current, next) {
		t.Fatalf("fresh page 0 should be free")
	}

	d.setSpace(0, current)
	if d.isFree(0, current, next) {
		t.Errorf("page tagged current should not be free")
	}
	if !d.isCurrent(0, current) {
		t.Errorf("isCurrent(0, current) = false, want true")
	}

	next = nextTag(current)
	d.setSpace(1, next)
	if d.isFree(1, current, next) {
		t.Errorf("page tagged next should not be free")
	}
	if !d.isNext(1, next) {
		t.Errorf("isNext(1, next) = false, want true")
	}
}

func TestNextTagSkipsFree(t *testing.T) {
	t0 := spaceTag(tagModulus - 1)
	t1 := nextTag(t0)
	if t1 == tagFree {
		t.Fatalf("nextTag wrapped onto tagFree")
	}
	if t1 != 1 {
		t.Errorf("nextTag(%d) = %d, want 1", t0, t1)
	}
}

func TestPageDirectoryQueueFIFO(t *testing.T) {
	d := newPageDirectory(8)
	if !d.queueEmpty() {
		t.Fatalf("fresh queue should be empty")
	}

	want := []pageNum{3, 1, 5}
	for _, p := range want {
		d.enqueue(p)
	}
	if d.queueEmpty() {
		t.Fatalf("queue should not be empty after enqueue")
	}

	for _, w := range want {
		got, ok := d.dequeueHead()
		if !ok {
			t.Fatalf("dequeueHead: not ok, want page %d", w)
		}
		if got != w {
			t.Errorf("dequeueHead() = %d, want %d", got, w)
		}
	}
	if _, ok := d.dequeueHead(); ok {
		t.Errorf("dequeueHead on empty queue: ok = true, want false")
	}
}
