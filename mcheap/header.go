// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Object header encoding.
//
// See doc.go for overview.

package mcheap

// WordSize is the size, in bytes, of one managed word. mcheap targets
// 64-bit hosts, so a word is a uintptr/pointer width; header.go widens
// the header's bitfields accordingly (see DESIGN.md, "header bit
// widths").
const WordSize = 8

// header is the single word that precedes every object's user data.
//
// Bit 0 is the live flag: 1 means the remaining bits are a live header
// (word count and pointer count); 0 means the entire word is a
// forwarding offset into the destination space. This reuses the fact
// that every offset we ever store is word-aligned and therefore already
// has bit 0 clear — forcing bit 0 to 1 on a live header is what makes
// the two cases distinguishable from a single load, the same trick
// runtime/mgcwork.go's wbufptr relies on for tagged pointers.
//
// Bits [1:33) hold the object's size in words, header included. Bits
// [33:64) hold the number of leading pointer words in the user area.
// This widens the original's 15/16-bit fields (spec.md §9) so a single
// object can exceed 65,535 words; headerMaxWords and headerMaxPtrs below
// are the resulting ceilings.
type header uint64

const (
	headerLiveBit  = 1
	headerWordsLen = 32
	headerPtrsLen  = 31

	headerWordsShift = 1
	headerPtrsShift  = headerWordsShift + headerWordsLen

	headerWordsMask = uint64(1)<<headerWordsLen - 1
	headerPtrsMask  = uint64(1)<<headerPtrsLen - 1
)

// headerMaxWords and headerMaxPtrs are the largest size/pointer counts
// the header can encode, typed uint32 like makeHeader's arguments.
const (
	headerMaxWords = uint32(headerWordsMask)
	headerMaxPtrs  = uint32(headerPtrsMask)
)

// makeHeader builds a live header for an object of the given total word
// count (header included) and leading pointer-word count.
func makeHeader(words, ptrs uint32) header {
	return header(headerLiveBit) |
		header(uint64(words)&headerWordsMask)<<headerWordsShift |
		header(uint64(ptrs)&headerPtrsMask)<<headerPtrsShift
}

// live reports whether h is a live object header, as opposed to a
// forwarding word.
func (h header) live() bool {
	return h&headerLiveBit != 0
}

// words returns the object's total word count, header included. Only
// meaningful when h.live().
func (h header) words() uint32 {
	return uint32((uint64(h) >> headerWordsShift) & headerWordsMask)
}

// ptrs returns the object's leading pointer-word count. Only meaningful
// when h.live().
func (h header) ptrs() uint32 {
	return uint32((uint64(h) >> headerPtrsShift) & headerPtrsMask)
}

// forwardOffset interprets a non-live header word as the byte offset,
// within the heap's arena, of the object's new location. Only
// meaningful when !h.live().
func (h header) forwardOffset() offset {
	return offset(h)
}

// forwardHeader builds the word to write over a source object's header
// once it has been copied to dest.
func forwardHeader(dest offset) header {
	// dest is always word-aligned (every allocation starts on a word
	// boundary), so bit 0 is already clear; no masking needed.
	return header(dest)
}

// fillerHeader is written into the leftover space at the tail of a page
// the bump allocator can no longer use. It has zero pointer words, so
// the sweep phase walks over it without following any references, and
// it always covers at least one word (sealCurrentPage never writes one
// for a page with no words left), so object-by-object page walks always
// advance.
func fillerHeader(remainingWords uint32) header {
	return makeHeader(remainingWords, 0)
}
