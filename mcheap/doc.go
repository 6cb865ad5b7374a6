// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mcheap implements a Bartlett-style mostly-copying garbage
// collector: a paged managed heap for an unmanaged host program.
//
// The host declares, at each allocation, how many bytes it wants and how
// many of the leading words are pointers; mcheap hands back the address
// one word past an object header and reclaims unreachable objects by
// copying the reachable ones into a fresh space.
//
// Collection is mostly-copying rather than purely-copying: pages that a
// conservative scan of the host's stack and registers might reference are
// pinned in place (promoted) rather than moved, while everything reached
// only through exact roots (the globals passed to New, and pointers
// stored inside promoted pages) is copied exactly. Copying a cyclic graph
// falls out of forwarding pointers for free; nothing special detects
// cycles.
//
// The heap is a single contiguous, page-aligned arena (see arena.go)
// broken into fixed-size pages whose per-page metadata (arena.go's
// sibling page.go) tracks which of two alternating "spaces" a page
// belongs to. A bump allocator (bump.go) serves allocations from the
// current page, asking the page acquirer (acquire.go) for more pages on
// exhaustion; the acquirer triggers a collection (collector.go) once the
// heap crosses its half-full watermark. A collection flips the space
// tag, conservatively promotes pages the stack scanner (rootscan.go)
// hints at, exactly forwards (forward.go) everything reachable from
// globals, then sweeps the promoted pages to forward their own pointer
// fields.
//
// mcheap is single-threaded and stop-the-world: there is no mutator
// activity concurrent with a collection, no finalizers, no weak
// references, and no incremental or generational behavior. A host that
// drives a Heap from more than one goroutine must serialize every call
// itself — see the concurrency note on Heap.
package mcheap
