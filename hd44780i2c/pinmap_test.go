// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780i2c

import (
	"errors"
	"math/rand"
	"testing"
)

func TestPinMapDefault(t *testing.T) {
	pm, err := NewPinMap(DefaultPinout)
	if err != nil {
		t.Fatal(err)
	}
	expected := []struct {
		name string
		mask byte
		pos  int
	}{
		{"rs", pm.rs, 0},
		{"rw", pm.rw, 1},
		{"enable", pm.enable, 2},
		{"backlight", pm.backlight, 3},
		{"d4", pm.data[0], 4},
		{"d5", pm.data[1], 5},
		{"d6", pm.data[2], 6},
		{"d7", pm.data[3], 7},
	}
	var seen byte
	for _, e := range expected {
		if e.mask != 1<<e.pos {
			t.Errorf("%s mask = %#02x, want %#02x", e.name, e.mask, 1<<e.pos)
		}
		if seen&e.mask != 0 {
			t.Errorf("%s mask %#02x overlaps another signal", e.name, e.mask)
		}
		seen |= e.mask
	}
}

// Any permutation of the eight bit positions is a valid wiring; the derived
// masks must always be single bits covering the whole port with no overlap.
func TestPinMapPermutations(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for range 64 {
		perm := rng.Perm(8)
		p := Pinout{
			RS:        perm[0],
			RW:        perm[1],
			Enable:    perm[2],
			Backlight: perm[3],
			Data:      [4]int{perm[4], perm[5], perm[6], perm[7]},
		}
		pm, err := NewPinMap(p)
		if err != nil {
			t.Fatalf("%+v: %v", p, err)
		}
		masks := []byte{pm.rs, pm.rw, pm.enable, pm.backlight, pm.data[0], pm.data[1], pm.data[2], pm.data[3]}
		var seen byte
		for i, m := range masks {
			if m == 0 || m&(m-1) != 0 {
				t.Fatalf("%+v: mask %d = %#02x is not a single bit", p, i, m)
			}
			if seen&m != 0 {
				t.Fatalf("%+v: mask %d = %#02x overlaps", p, i, m)
			}
			seen |= m
		}
		if seen != 0xff {
			t.Fatalf("%+v: masks cover %#02x, want 0xff", p, seen)
		}
	}
}

func TestPinMapConflict(t *testing.T) {
	p := DefaultPinout
	p.RS = 2 // collides with Enable
	_, err := NewPinMap(p)
	var pce *PinConfigError
	if !errors.As(err, &pce) {
		t.Fatalf("expected PinConfigError, got %v", err)
	}
	if pce.Bit != 2 || pce.Conflict == "" {
		t.Errorf("conflict not attributed: %+v", pce)
	}
}

func TestPinMapOutOfRange(t *testing.T) {
	for _, bad := range []int{-2, 8, 255} {
		p := DefaultPinout
		p.Data[3] = bad
		_, err := NewPinMap(p)
		var pce *PinConfigError
		if !errors.As(err, &pce) {
			t.Fatalf("Data[3]=%d: expected PinConfigError, got %v", bad, err)
		}
		if pce.Conflict != "" {
			t.Errorf("Data[3]=%d reported as conflict: %+v", bad, pce)
		}
	}
}

func TestPinMapOptionalSignals(t *testing.T) {
	p := JoyItPinout
	pm, err := NewPinMap(p)
	if err != nil {
		t.Fatal(err)
	}
	if pm.backlight != 0 {
		t.Errorf("backlight mask = %#02x, want absent", pm.backlight)
	}
	p.RW = NoPin
	pm, err = NewPinMap(p)
	if err != nil {
		t.Fatal(err)
	}
	if pm.rw != 0 {
		t.Errorf("rw mask = %#02x, want absent", pm.rw)
	}
	// An absent backlight never contributes to the output byte.
	if out := pm.base(true, true); out != pm.rs {
		t.Errorf("base with absent backlight = %#02x, want %#02x", out, pm.rs)
	}
}

func TestPinMapRequiredSignals(t *testing.T) {
	p := DefaultPinout
	p.Enable = NoPin
	if _, err := NewPinMap(p); err == nil {
		t.Error("expected error for absent enable signal")
	}
	p = DefaultPinout
	p.RS = NoPin
	if _, err := NewPinMap(p); err == nil {
		t.Error("expected error for absent rs signal")
	}
}
