// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Heap region: the page-aligned arena and address<->page arithmetic.
//
// See doc.go for overview.

package mcheap

import "unsafe"

// defaultPageSize is the nominal page size from spec.md §3: 512 bytes.
// It is the default, not a compile-time ceiling — see WithPageSize.
const defaultPageSize = 512

// defaultWatermark is spec.md §4.3's hard-coded trigger: a collection
// runs once allocation since the last cycle would cross half the heap's
// pages. See WithWatermark for why this is now a construction-time
// default rather than a fixed fraction.
const defaultWatermark = 0.5

// offset is a byte offset into the arena, 0-based from the arena's own
// start. Internal bookkeeping (page numbers, free pointers, forwarding
// words) is expressed in offsets rather than raw addresses, per the
// re-architecture guidance in spec.md §9: "pointers are offsets ...
// within that array for internal bookkeeping, and raw machine addresses
// only at the host boundary." nullOffset marks an offset that names
// nothing (the bump allocator's free pointer before any page is
// installed): since offset 0 can be a legitimate word offset (the very
// first page's header), we cannot reuse 0 for that and instead reserve
// the largest representable offset, which can never be produced by a
// real allocation. Pointer slots and global roots hold host addresses,
// not offsets, and use 0 as their null value.
type offset uintptr

const nullOffset offset = ^offset(0)

// pageNum is a page index into the arena, starting at 0 for the page at
// the arena's base. Using a 0-based page number (rather than the
// original's page-number-minus-a-negative-base scheme) removes the
// "biased array indexing" hazard spec.md §9 calls out: every per-page
// array in page.go is simply indexed by pageNum directly.
type pageNum uint32

const noPage pageNum = ^pageNum(0)

// arena owns the raw backing store for a Heap: a single contiguous,
// page-aligned byte slice plus its page geometry.
type arena struct {
	bytes    []byte
	pageSize int
	pages    pageNum
}

func newArena(heapSizeBytes, pageSize int) (*arena, error) {
	if pageSize <= 0 || pageSize%WordSize != 0 {
		return nil, errorf(ErrInvalidConfig, "page size %d must be a positive multiple of word size %d", pageSize, WordSize)
	}
	if heapSizeBytes <= 0 {
		return nil, errorf(ErrInvalidConfig, "heap size %d must be positive", heapSizeBytes)
	}
	pages := heapSizeBytes / pageSize
	if pages == 0 {
		return nil, errorf(ErrInvalidConfig, "heap size %d is smaller than one page (%d bytes)", heapSizeBytes, pageSize)
	}
	return &arena{
		bytes:    make([]byte, pages*pageSize),
		pageSize: pageSize,
		pages:    pageNum(pages),
	}, nil
}

// base returns the real address of the arena's first byte. It is the
// only place besides Heap.Allocate's return value and the global-root
// dereferences where a raw machine address is produced — everywhere
// else mcheap works in offsets.
func (a *arena) base() uintptr {
	if len(a.bytes) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&a.bytes[0]))
}

// address converts an internal offset to the real address the host
// sees. It is the host-boundary crossing spec.md §9 asks for.
func (a *arena) address(off offset) uintptr {
	return a.base() + uintptr(off)
}

// offsetOf converts a real address the host handed back to us into an
// internal offset, validating that it actually falls inside the arena.
func (a *arena) offsetOf(addr uintptr) (offset, bool) {
	base := a.base()
	if addr < base || addr >= base+uintptr(len(a.bytes)) {
		return 0, false
	}
	return offset(addr - base), true
}

// pageOf returns the page number containing off. Pure arithmetic, per
// spec.md §3 ("page <-> address conversion is arithmetic").
func (a *arena) pageOf(off offset) pageNum {
	return pageNum(uintptr(off) / uintptr(a.pageSize))
}

// pageOfAddr returns the page containing a real machine address, or
// false if the address lies outside the arena. It is used only by the
// conservative scanner when turning a stack hint into a page candidate.
func (a *arena) pageOfAddr(addr uintptr) (pageNum, bool) {
	off, ok := a.offsetOf(addr)
	if !ok {
		return 0, false
	}
	return a.pageOf(off), true
}

// pageStart returns the offset of the first byte of page p.
func (a *arena) pageStart(p pageNum) offset {
	return offset(uintptr(p) * uintptr(a.pageSize))
}

// pageWords returns how many whole words fit in one page.
func (a *arena) pageWords() uint32 {
	return uint32(a.pageSize / WordSize)
}

func (a *arena) pageCount() pageNum {
	return a.pages
}

// readWord/writeWord/readHeader/writeHeader give the rest of the
// package word-granularity access to the arena without repeating the
// unsafe arithmetic at every call site.

func (a *arena) readWord(off offset) uintptr {
	return *(*uintptr)(a.wordPtr(off))
}

func (a *arena) writeWord(off offset, v uintptr) {
	*(*uintptr)(a.wordPtr(off)) = v
}

func (a *arena) readHeader(off offset) header {
	return header(a.readWord(off))
}

func (a *arena) writeHeader(off offset, h header) {
	a.writeWord(off, uintptr(h))
}

func (a *arena) wordPtr(off offset) unsafe.Pointer {
	return unsafe.Pointer(&a.bytes[off])
}
