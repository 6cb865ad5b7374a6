// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Error kinds and the fatal-error path.
//
// See doc.go for overview.

package mcheap

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a mcheap error. The three fatal kinds named in
// spec.md §7 are Kind values so callers can test for them with
// errors.As instead of matching message text.
type Kind int

const (
	// ErrInvalidConfig reports a construction-time argument that makes
	// no sense (non-positive heap size, page size not a word multiple,
	// and similar). Not named in spec.md's three fatal kinds, but
	// recoverable-by-construction: New simply refuses to build a
	// Heap, same as any other constructor validating its arguments.
	ErrInvalidConfig Kind = iota

	// ErrHeapExhausted is spec.md §7's HeapExhausted: no run of N
	// contiguous free pages exists even after a collection.
	ErrHeapExhausted

	// ErrCollectorReentry is spec.md §7's CollectorReentry: collect()
	// was invoked while current_space != next_space, i.e. a collection
	// was already in progress. Indicates an implementation bug.
	ErrCollectorReentry

	// ErrOversizedObject is spec.md §7's OversizedObject: the
	// requested word count exceeds the heap's total page capacity (or
	// the header's own encodable range).
	ErrOversizedObject
)

func (k Kind) String() string {
	switch k {
	case ErrInvalidConfig:
		return "invalid configuration"
	case ErrHeapExhausted:
		return "heap exhausted"
	case ErrCollectorReentry:
		return "collector reentry"
	case ErrOversizedObject:
		return "oversized object"
	default:
		return "unknown mcheap error"
	}
}

// FatalError is the error type mcheap returns for the kinds spec.md §7
// calls fatal. It is still a plain Go error — mcheap does not call
// os.Exit itself, since a library shouldn't terminate its host process
// out from under it — but every fatal condition is also logged via
// log.go before it is returned, and is never meant to be retried: the
// heap is not left in a state the caller can usefully continue from.
type FatalError struct {
	Kind Kind
	msg  string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("mcheap: %s: %s", e.Kind, e.msg)
}

// errorf builds a FatalError wrapped with a stack trace, mirroring
// src/errors/errors.go's errorString for the base case and
// github.com/pkg/errors (per other_examples' cgroup-memory.go) for the
// trace.
func errorf(kind Kind, format string, args ...interface{}) error {
	base := &FatalError{Kind: kind, msg: fmt.Sprintf(format, args...)}
	return errors.WithStack(base)
}

// assertf is an internal consistency check that should never fail in a
// correct implementation. It returns an error for the caller
// (Allocate/Collect) to log and surface rather than crashing the
// process outright: "this is a bug, not a recoverable condition."
func assertf(cond bool, kind Kind, format string, args ...interface{}) error {
	if cond {
		return nil
	}
	return errorf(kind, format, args...)
}
