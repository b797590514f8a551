// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780i2c

import "time"

// Timing from the HD44780U datasheet, "Initializing by Instruction", plus
// the longer execution time of the clear and return-home instructions.
// With no busy-flag polling the delays are unconditional.
const (
	powerUpSettle = 50 * time.Millisecond
	resetFirst    = 4500 * time.Microsecond
	resetRepeat   = 200 * time.Microsecond
	clearSettle   = 1600 * time.Microsecond
)

// initSequence runs the power-up reset handshake and leaves the controller
// in 4-bit interface mode with the documented post-reset defaults: display
// on, cleared, text flowing left to right.
//
// The 0x03 nibble goes out three times because the controller may still be
// interpreting transfers in 8-bit mode after power-on; the repeats land it
// in a known state no matter where it started. Only then does 0x02 commit
// the 4-bit interface, and the function-set instruction is the first one
// to travel the regular two-nibble path.
//
// None of the steps can be verified from this side of the expander, so the
// contract is send and trust the timing; the first failed bus write aborts
// the handshake.
func (d *Dev) initSequence() error {
	fail := func(step string, err error) error {
		return &InitError{Step: step, Err: err}
	}
	// Park the expander outputs and let the supply settle. The
	// register-select bit rides along; without an enable edge the
	// controller latches nothing.
	if err := d.writeRaw(d.pins.base(true, d.state.backlightOn())); err != nil {
		return fail("settle", err)
	}
	time.Sleep(powerUpSettle)

	for _, delay := range []time.Duration{resetFirst, resetRepeat, resetRepeat} {
		if err := d.sendNibble(0x03); err != nil {
			return fail("reset", err)
		}
		time.Sleep(delay)
	}
	if err := d.sendNibble(0x02); err != nil {
		return fail("4-bit interface", err)
	}

	if err := d.command(d.state.functionSet()); err != nil {
		return fail("function set", err)
	}
	if err := d.Display(true); err != nil {
		return fail("display on", err)
	}
	if err := d.Clear(); err != nil {
		return fail("clear", err)
	}
	if err := d.TextFlow(true); err != nil {
		return fail("entry mode", err)
	}
	return nil
}

// sendNibble transfers a bare half-byte with one enable pulse, bypassing
// the two-nibble path. Only the reset handshake uses it.
func (d *Dev) sendNibble(nib byte) error {
	buf := make([]byte, 0, 2)
	buf = d.pins.appendNibble(buf, d.pins.base(false, d.state.backlightOn()), nib)
	return d.writeFrame(buf)
}
