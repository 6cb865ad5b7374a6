// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Diagnostic logging.
//
// See doc.go for overview.

package mcheap

import (
	"os"

	"github.com/rs/zerolog"
)

// defaultLogger writes structured fatal/debug events to stderr, the
// standard error stream a fatal condition's diagnostic message belongs
// on.
func defaultLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
}

// logFatal records a fatal condition before it is returned to the
// caller as a FatalError. It never panics or exits on its own — see the
// comment on FatalError for why — it only makes sure the event reaches
// the configured logger with the fields a diagnosis needs.
func (h *Heap) logFatal(kind Kind, msg string, fields map[string]interface{}) {
	ev := h.log.Error().Str("kind", kind.String())
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// logPhase emits a Debug event for one collection phase when the Heap
// was constructed with WithDebugLog. Phase tracing is the domain-stack
// use of zerolog described in SPEC_FULL.md: it exists to diagnose P3
// (at-most-once forwarding) and P4 (unreachability) violations during
// development, not for production telemetry.
func (h *Heap) logPhase(phase string, fields map[string]interface{}) {
	if !h.debugLog {
		return
	}
	ev := h.log.Debug().Str("phase", phase)
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg("collection phase")
}
