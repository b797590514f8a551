// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780i2c

// Every byte written to the expander is a complete snapshot of its output
// port. The controller latches the presented nibble on the falling edge of
// the enable line, so each nibble costs two bytes: the port state with
// enable high, then the identical state with enable low. A full
// instruction byte is therefore four expander bytes, high nibble first.

// base returns the output bits every byte of a transfer carries: the
// backlight bit while lit and the register-select bit for data transfers.
// The rw mask is never asserted; the driver is strictly write-only and the
// mapping exists only so the bit stays reserved and low.
func (pm *PinMap) base(data, backlight bool) byte {
	var out byte
	if backlight {
		out |= pm.backlight
	}
	if data {
		out |= pm.rs
	}
	return out
}

// appendNibble appends the enable-pulse pair presenting the low four bits
// of nib on the data lines, with base carried in both bytes.
func (pm *PinMap) appendNibble(dst []byte, base, nib byte) []byte {
	out := base
	for i, m := range pm.data {
		if nib&(1<<i) != 0 {
			out |= m
		}
	}
	return append(dst, out|pm.enable, out)
}

// appendInstruction appends the four-byte frame transferring value as an
// instruction (data=false) or character data (data=true).
func (pm *PinMap) appendInstruction(dst []byte, value byte, data, backlight bool) []byte {
	base := pm.base(data, backlight)
	dst = pm.appendNibble(dst, base, value>>4)
	return pm.appendNibble(dst, base, value&0x0f)
}
