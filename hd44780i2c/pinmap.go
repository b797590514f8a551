// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780i2c

import "fmt"

// NoPin marks a signal that is not wired to the expander. Only the RW and
// Backlight signals may be absent: RW-less backpacks tie the line low, and
// some boards hard-wire the backlight.
const NoPin = -1

// Pinout assigns each logical LCD signal to an output-bit position on the
// expander port. Backpack vendors wire these differently; use one of the
// presets below or describe your board.
type Pinout struct {
	// RS is the register-select line, low for instructions, high for data.
	RS int
	// RW is the read/write line. The driver never asserts it; mapping it
	// only keeps the expander bit reserved and low. NoPin when tied low in
	// hardware.
	RW int
	// Enable is the latch strobe.
	Enable int
	// Backlight switches the panel backlight. NoPin when not switchable.
	Backlight int
	// Data holds the display's D4 through D7 lines in order.
	Data [4]int
}

// DefaultPinout matches the common PCF8574 backpacks sold with LCD1602 and
// LCD2004 panels.
var DefaultPinout = Pinout{RS: 0, RW: 1, Enable: 2, Backlight: 3, Data: [4]int{4, 5, 6, 7}}

// JoyItPinout matches the Joy-It RB-LCD boards.
//
// https://joy-it.net/en/products/RB-LCD-20x4
var JoyItPinout = Pinout{RS: 4, RW: 5, Enable: 7, Backlight: NoPin, Data: [4]int{0, 1, 2, 3}}

// PinMap holds the derived output-byte mask for every logical signal. A
// zero mask means the signal is not wired; every wired signal has exactly
// one bit set and no two signals share a bit.
type PinMap struct {
	rs, rw, enable, backlight byte
	data                      [4]byte
}

// NewPinMap validates p and derives the signal masks. Every present
// position must be within 0-7 and pairwise distinct; a shared bit is a
// wiring description error and fails loudly rather than silently folding
// two signals together.
func NewPinMap(p Pinout) (*PinMap, error) {
	pm := &PinMap{}
	var holder [8]string
	assign := func(signal string, pos int, mask *byte, optional bool) error {
		if optional && pos == NoPin {
			return nil
		}
		if pos < 0 || pos > 7 {
			return &PinConfigError{Signal: signal, Bit: pos}
		}
		if prev := holder[pos]; prev != "" {
			return &PinConfigError{Signal: signal, Bit: pos, Conflict: prev}
		}
		holder[pos] = signal
		*mask = 1 << pos
		return nil
	}
	if err := assign("rs", p.RS, &pm.rs, false); err != nil {
		return nil, err
	}
	if err := assign("rw", p.RW, &pm.rw, true); err != nil {
		return nil, err
	}
	if err := assign("enable", p.Enable, &pm.enable, false); err != nil {
		return nil, err
	}
	if err := assign("backlight", p.Backlight, &pm.backlight, true); err != nil {
		return nil, err
	}
	for i, pos := range p.Data {
		if err := assign(fmt.Sprintf("d%d", i+4), pos, &pm.data[i], false); err != nil {
			return nil, err
		}
	}
	return pm, nil
}
