// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Construction-time configuration via the functional-options pattern,
// in place of package-level tuning constants.

package mcheap

import "github.com/rs/zerolog"

// config collects every New parameter that has a sane default, so New's
// signature stays fixed at (heapSizeBytes, stackBase, globalCells) no
// matter how many knobs mcheap grows.
type config struct {
	pageSize   int
	watermark  float64
	logger     zerolog.Logger
	debugLog   bool
	rootSource RootSource
}

func defaultConfig() config {
	return config{
		pageSize:  defaultPageSize,
		watermark: defaultWatermark,
		logger:    defaultLogger(),
	}
}

// Option configures a Heap at construction. Each Option is applied in
// the order passed to New, so a later option overrides an earlier one
// that touches the same field.
type Option func(*config)

// WithPageSize overrides the default page size (defaultPageSize bytes).
// Must be a positive multiple of WordSize; New surfaces a non-conforming
// value as ErrInvalidConfig rather than silently rounding it, since a
// wrong page size would otherwise misalign every header read in arena.go.
func WithPageSize(bytes int) Option {
	return func(c *config) { c.pageSize = bytes }
}

// WithWatermark overrides the fraction of the heap's pages (0, 1] that
// may be allocated since the last collection before acquirePages runs
// one preemptively. spec.md §4.3 hard-codes this at one half; we keep
// that as the default (defaultWatermark) but let a host that knows its
// allocation pattern trades collection frequency for pause-free runway
// tune it, the same way WithPageSize turns a spec.md "constant" into a
// construction-time parameter.
func WithWatermark(fraction float64) Option {
	return func(c *config) { c.watermark = fraction }
}

// WithLogger replaces the default stderr zerolog.Logger, e.g. to route
// fatal events and phase traces into a host's own logging pipeline.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithDebugLog turns on logPhase's per-collection-phase Debug events.
// Off by default: spec.md's engine is meant to run silently in steady
// state, and phase tracing adds a zerolog call on every watermark trip
// and every collection phase.
func WithDebugLog(on bool) Option {
	return func(c *config) { c.debugLog = on }
}

// WithRootSource replaces defaultRootSource with a host-supplied
// RootSource, per spec.md §9's guidance that stack/register scanning
// should be modeled as a capability the host provides rather than
// inline assembly baked into the engine (see rootscan.go, DESIGN.md
// Open Question 1).
func WithRootSource(rs RootSource) Option {
	return func(c *config) { c.rootSource = rs }
}
