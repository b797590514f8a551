// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780i2c

import "periph.io/x/conn/v3/display"

// HD44780 instruction set. An instruction byte is the command bit OR-ed
// with the full current flag group for that command, so the flag groups are
// tracked across calls.
const (
	cmdClear    byte = 0x01
	cmdHome     byte = 0x02
	cmdEntry    byte = 0x04
	cmdControl  byte = 0x08
	cmdShift    byte = 0x10
	cmdFunction byte = 0x20
	cmdSetCGRAM byte = 0x40
	cmdSetDDRAM byte = 0x80

	// Entry mode flags.
	entryIncrement  byte = 0x02
	entryAutoScroll byte = 0x01

	// Display control flags.
	ctlDisplay byte = 0x04
	ctlCursor  byte = 0x02
	ctlBlink   byte = 0x01

	// Cursor/display shift flags.
	shiftDisplay byte = 0x08
	shiftRight   byte = 0x04

	// Function set flags. The data-length bit stays clear: the expander
	// only reaches D4-D7, so the interface is always 4 bits wide.
	funcTwoLine byte = 0x08
)

// displayState tracks the controller registers that must be replayed into
// later instructions: the entry-mode and display-control flag groups, the
// backlight level, and the line count baked into the function-set
// instruction.
//
// It is a value type. Operations derive a candidate state plus the
// instruction byte carrying it, and commit the candidate only after the
// bus write succeeds, so a transport failure never leaves the host's idea
// of the panel ahead of the hardware.
type displayState struct {
	control   byte
	entry     byte
	backlight display.Intensity
	lines     int
}

// newDisplayState mirrors the controller's internal-reset defaults:
// display off, cursor increments left to right, no shift.
func newDisplayState(lines int) displayState {
	return displayState{entry: entryIncrement, lines: lines}
}

// withControl returns the state with the given display-control flags set or
// cleared, plus the instruction byte carrying the new flag group. Applying
// an already-set flag is a state no-op but still yields the instruction:
// the hardware is told either way.
func (s displayState) withControl(flags byte, on bool) (displayState, byte) {
	if on {
		s.control |= flags
	} else {
		s.control &^= flags
	}
	return s, cmdControl | s.control
}

// withEntry is withControl for the entry-mode flag group.
func (s displayState) withEntry(flags byte, on bool) (displayState, byte) {
	if on {
		s.entry |= flags
	} else {
		s.entry &^= flags
	}
	return s, cmdEntry | s.entry
}

// backlightOn reports whether the backlight bit goes out on the wire. Only
// on/off is observable there; the stored level is host bookkeeping.
func (s displayState) backlightOn() bool {
	return s.backlight > 0
}

// functionSet returns the function-set instruction for the fixed interface
// geometry. Sent once during the reset handshake; the line count never
// changes afterwards.
func (s displayState) functionSet() byte {
	v := cmdFunction
	if s.lines > 1 {
		v |= funcTwoLine
	}
	return v
}
