// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcheap

import "testing"

func TestNewArenaRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name               string
		heapBytes, pageSize int
	}{
		{"zero heap", 0, 64},
		{"negative heap", -1, 64},
		{"zero page size", 1024, 0},
		{"page size not word multiple", 1024, 65},
		{"heap smaller than one page", 32, 64},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := newArena(c.heapBytes, c.pageSize); err == nil {
				t.Fatalf("newArena(%d, %d): want error, got nil", c.heapBytes, c.pageSize)
			}
		})
	}
}

func TestArenaAddressOffsetRoundTrip(t *testing.T) {
	a, err := newArena(4096, 64)
	if err != nil {
		t.Fatalf("newArena: %v", err)
	}
	if got := a.pageCount(); got != 64 {
		t.Fatalf("pageCount() = %d, want 64", got)
	}

	for _, off := range []offset{0, 8, 63 * 64, 4095 / 8 * 8} {
		addr := a.address(off)
		back, ok := a.offsetOf(addr)
		if !ok {
			t.Fatalf("offsetOf(address(%d)): not ok", off)
		}
		if back != off {
			t.Errorf("offsetOf(address(%d)) = %d, want %d", off, back, off)
		}
	}
}

func TestArenaOffsetOfRejectsOutsideAddresses(t *testing.T) {
	a, err := newArena(4096, 64)
	if err != nil {
		t.Fatalf("newArena: %v", err)
	}
	if _, ok := a.offsetOf(a.base() - 1); ok {
		t.Errorf("offsetOf(base-1): ok = true, want false")
	}
	if _, ok := a.offsetOf(a.base() + uintptr(len(a.bytes))); ok {
		t.Errorf("offsetOf(base+len): ok = true, want false")
	}
}

func TestArenaPageArithmetic(t *testing.T) {
	a, err := newArena(4096, 64)
	if err != nil {
		t.Fatalf("newArena: %v", err)
	}
	if got := a.pageOf(offset(200)); got != 3 {
		t.Errorf("pageOf(200) = %d, want 3", got)
	}
	if got := a.pageStart(3); got != offset(192) {
		t.Errorf("pageStart(3) = %d, want 192", got)
	}
	if got := a.pageWords(); got != 8 {
		t.Errorf("pageWords() = %d, want 8", got)
	}
}

func TestArenaWordReadWrite(t *testing.T) {
	a, err := newArena(4096, 64)
	if err != nil {
		t.Fatalf("newArena: %v", err)
	}
	a.writeWord(offset(16), 0xdeadbeef)
	if got := a.readWord(offset(16)); got != 0xdeadbeef {
		t.Errorf("readWord(16) = %#x, want 0xdeadbeef", got)
	}
	a.writeHeader(offset(24), makeHeader(3, 1))
	h := a.readHeader(offset(24))
	if h.words() != 3 || h.ptrs() != 1 {
		t.Errorf("readHeader(24) = {words:%d ptrs:%d}, want {3 1}", h.words(), h.ptrs())
	}
}
