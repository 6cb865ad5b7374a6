// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Counters published both as a plain Stats snapshot and, per-process,
// through expvar.
//
// See doc.go for overview. Grounded on src/expvar/expvar.go's Map/Int
// shape (atomic counters wrapped in a Var so they show up at
// /debug/vars), adapted here from a single process-wide registry to a
// per-Heap *expvar.Map named after the heap's own pointer so more than
// one Heap in a process never collide.

package mcheap

import (
	"expvar"
	"fmt"
	"sync/atomic"
)

// stats holds every counter mcheap maintains across the lifetime of a
// Heap. All fields are atomic: Allocate and collect mutate them without
// holding any lock of their own (see heap.go's concurrency note).
type stats struct {
	collections          atomic.Int64
	bytesAllocated       atomic.Int64
	bytesCopied          atomic.Int64
	objectsCopied        atomic.Int64
	pagesInUse           atomic.Int64
	pagesFree            atomic.Int64
	lastCollectionPinned atomic.Int64
	published            *expvar.Map
}

// init publishes s under a name unique to this stats value, so two Heaps
// in one process don't collide at /debug/vars. A second call on the same
// stats value panics, since expvar.NewMap rejects a duplicate name; New
// calls this exactly once per Heap.
func (s *stats) init() {
	name := fmt.Sprintf("mcheap.%p", s)
	s.published = expvar.NewMap(name)
	s.published.Set("collections", expvar.Func(func() interface{} { return s.collections.Load() }))
	s.published.Set("bytes_allocated", expvar.Func(func() interface{} { return s.bytesAllocated.Load() }))
	s.published.Set("bytes_copied", expvar.Func(func() interface{} { return s.bytesCopied.Load() }))
	s.published.Set("objects_copied", expvar.Func(func() interface{} { return s.objectsCopied.Load() }))
	s.published.Set("pages_in_use", expvar.Func(func() interface{} { return s.pagesInUse.Load() }))
	s.published.Set("pages_free", expvar.Func(func() interface{} { return s.pagesFree.Load() }))
	s.published.Set("last_collection_pinned_pages", expvar.Func(func() interface{} { return s.lastCollectionPinned.Load() }))
}

// Stats is a point-in-time, race-free snapshot of a Heap's counters.
// Unlike stats, it carries plain int64 fields so callers can compare,
// log, or assert on it without reaching back into mcheap's internals.
type Stats struct {
	Collections          int64
	BytesAllocated       int64
	BytesCopied          int64
	ObjectsCopied        int64
	PagesInUse           int64
	PagesFree            int64
	LastCollectionPinned int64
}

func (s *stats) snapshot() Stats {
	return Stats{
		Collections:          s.collections.Load(),
		BytesAllocated:       s.bytesAllocated.Load(),
		BytesCopied:          s.bytesCopied.Load(),
		ObjectsCopied:        s.objectsCopied.Load(),
		PagesInUse:           s.pagesInUse.Load(),
		PagesFree:            s.pagesFree.Load(),
		LastCollectionPinned: s.lastCollectionPinned.Load(),
	}
}
