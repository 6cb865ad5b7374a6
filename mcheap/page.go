// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Page directory: per-page space tag, page type, and queue linkage.
//
// See doc.go for overview. Grounded on runtime/mheap.go's mSpanList —
// an intrusive singly-linked queue threaded through a field on the
// element itself — generalized from span granularity to page
// granularity, and on the free/busy-list-per-length shape of mheap's
// own free arrays (here collapsed to one tag array since pages, unlike
// spans, are fixed size).

package mcheap

// pageType records what a page currently holds.
type pageType uint8

const (
	pageFree pageType = iota
	pageObject
	pageContinued
)

// spaceTag identifies which collection epoch owns a page. Tag 0 is
// reserved to mean "free" (spec.md §3/§9); tags otherwise cycle through
// a 15-bit space, matching the original's tag width.
type spaceTag uint16

const (
	tagFree    spaceTag = 0
	tagBits             = 15
	tagModulus          = 1 << tagBits
)

// nextTag advances a space tag, skipping the reserved free value.
func nextTag(t spaceTag) spaceTag {
	n := spaceTag((uint32(t) + 1) % tagModulus)
	if n == tagFree {
		n = 1
	}
	return n
}

// pageDirectory is the fixed-capacity, page-number-indexed metadata
// array described in spec.md §4.1. All three parallel arrays are sized
// once, at construction, to the heap's page count.
type pageDirectory struct {
	tag  []spaceTag
	typ  []pageType
	link []pageNum // queue successor; noPage means "not linked"

	qhead, qtail pageNum // FIFO sentinel endpoints; noPage means empty
}

func newPageDirectory(pages pageNum) *pageDirectory {
	d := &pageDirectory{
		tag:   make([]spaceTag, pages),
		typ:   make([]pageType, pages),
		link:  make([]pageNum, pages),
		qhead: noPage,
		qtail: noPage,
	}
	for i := range d.link {
		d.link[i] = noPage
	}
	return d
}

func (d *pageDirectory) isCurrent(p pageNum, current spaceTag) bool {
	return d.tag[p] == current
}

func (d *pageDirectory) isNext(p pageNum, next spaceTag) bool {
	return d.tag[p] == next
}

func (d *pageDirectory) isFree(p pageNum, current, next spaceTag) bool {
	t := d.tag[p]
	return t != current && t != next
}

func (d *pageDirectory) setSpace(p pageNum, tag spaceTag) {
	d.tag[p] = tag
}

func (d *pageDirectory) setType(p pageNum, t pageType) {
	d.typ[p] = t
}

func (d *pageDirectory) pageType(p pageNum) pageType {
	return d.typ[p]
}

// enqueue appends p to the promotion queue. The orchestrator is
// responsible for only ever enqueuing a page once per collection (on
// its current->next transition); enqueue itself does not check for
// double-insertion, matching spec.md §4.1's "forbidden, guaranteed by
// the caller" contract rather than silently ignoring a programming
// error.
func (d *pageDirectory) enqueue(p pageNum) {
	d.link[p] = noPage
	if d.qtail == noPage {
		d.qhead = p
	} else {
		d.link[d.qtail] = p
	}
	d.qtail = p
}

// dequeueHead pops the front of the promotion queue, returning noPage,
// false once it is empty.
func (d *pageDirectory) dequeueHead() (pageNum, bool) {
	if d.qhead == noPage {
		return noPage, false
	}
	p := d.qhead
	d.qhead = d.link[p]
	if d.qhead == noPage {
		d.qtail = noPage
	}
	return p, true
}

func (d *pageDirectory) queueEmpty() bool {
	return d.qhead == noPage
}
