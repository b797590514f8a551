// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdsink

import "github.com/periph-community/lcdbackpack/hd44780i2c"

// decoder reverses the backpack encoding: it watches the enable line for
// falling edges, maps the data bits back through the board wiring and
// feeds the reassembled instruction bytes to the controller model.
type decoder struct {
	rs, enable, backlight byte
	data                  [4]byte

	prev    byte
	backlit bool

	// The controller powers up believing the interface is 8 bits wide; in
	// that state every latch is a whole instruction whose low nibble never
	// arrives. Function set with DL=0 commits the 4-bit interface and
	// latches pair up from then on.
	mode8    bool
	haveHigh bool
	high     byte

	ctl controller
}

func maskOf(pos int) byte {
	if pos == hd44780i2c.NoPin {
		return 0
	}
	return 1 << pos
}

func newDecoder(p hd44780i2c.Pinout) decoder {
	d := decoder{
		rs:        maskOf(p.RS),
		enable:    maskOf(p.Enable),
		backlight: maskOf(p.Backlight),
		mode8:     true,
		ctl:       newController(),
	}
	for i, pos := range p.Data {
		d.data[i] = maskOf(pos)
	}
	return d
}

// step consumes one expander output byte.
func (d *decoder) step(out byte) {
	if d.backlight != 0 {
		d.backlit = out&d.backlight != 0
	}
	falling := d.prev&d.enable != 0 && out&d.enable == 0
	d.prev = out
	if !falling {
		return
	}
	// The data lines hold steady across the pulse, so the enable-low byte
	// carries them at the latch point.
	var nib byte
	for i, m := range d.data {
		if out&m != 0 {
			nib |= 1 << i
		}
	}
	d.latch(nib, out&d.rs != 0)
}

func (d *decoder) latch(nib byte, rs bool) {
	if d.mode8 {
		if rs {
			// Character data before the interface is set up is lost.
			return
		}
		switch nib {
		case 0x03: // function set keeping the 8-bit interface
		case 0x02:
			d.mode8 = false
		default:
			// Any other instruction executes with its low nibble stuck at
			// zero, exactly as the hardware would see it.
			d.ctl.command(nib << 4)
		}
		return
	}
	if !d.haveHigh {
		d.high = nib
		d.haveHigh = true
		return
	}
	d.haveHigh = false
	v := d.high<<4 | nib
	if rs {
		d.ctl.write(v)
	} else {
		d.ctl.command(v)
	}
}

// Standard DDRAM layout: 80 cells in two 40-cell banks addressed at 0x00
// and 0x40. Four-row panels split each bank at column 20.
const (
	rowLen     = 40
	ddramCells = 2 * rowLen
	cgramCells = 64
)

var rowOffsets = [4]byte{0x00, 0x40, 0x14, 0x54}

// controller models the HD44780's registers and RAM precisely enough to
// reproduce what a panel shows: address counter, entry mode, display
// shift, and both RAMs.
type controller struct {
	ddram [ddramCells]byte
	cgram [cgramCells]byte
	ac    byte // address counter
	// cgMode routes the address counter (and data writes) to CGRAM.
	cgMode bool
	// shift counts the columns the display window has moved right over
	// DDRAM; negative means left.
	shift int

	increment  bool
	autoScroll bool
	on         bool
	cursor     bool
	blink      bool
	twoLine    bool
}

func newController() controller {
	c := controller{increment: true}
	for i := range c.ddram {
		c.ddram[i] = ' '
	}
	return c
}

func (c *controller) command(v byte) {
	switch {
	case v&0x80 != 0: // set DDRAM address
		c.ac = v & 0x7f
		c.cgMode = false
	case v&0x40 != 0: // set CGRAM address
		c.ac = v & 0x3f
		c.cgMode = true
	case v&0x20 != 0: // function set
		c.twoLine = v&0x08 != 0
	case v&0x10 != 0: // cursor or display shift
		switch {
		case v&0x08 == 0: // cursor only
			if v&0x04 != 0 {
				c.ac = nextAddr(c.ac)
			} else {
				c.ac = prevAddr(c.ac)
			}
		case v&0x04 != 0: // display shift right: window moves left
			c.shift--
		default:
			c.shift++
		}
	case v&0x08 != 0: // display control
		c.on = v&0x04 != 0
		c.cursor = v&0x02 != 0
		c.blink = v&0x01 != 0
	case v&0x04 != 0: // entry mode set
		c.increment = v&0x02 != 0
		c.autoScroll = v&0x01 != 0
	case v&0x02 != 0: // return home
		c.ac = 0
		c.cgMode = false
		c.shift = 0
	case v&0x01 != 0: // clear display
		for i := range c.ddram {
			c.ddram[i] = ' '
		}
		c.ac = 0
		c.cgMode = false
		c.shift = 0
		c.increment = true
	}
}

func (c *controller) write(v byte) {
	if c.cgMode {
		c.cgram[c.ac%cgramCells] = v
		if c.increment {
			c.ac = (c.ac + 1) % cgramCells
		} else {
			c.ac = (c.ac + cgramCells - 1) % cgramCells
		}
		return
	}
	if i, ok := ddIndex(c.ac); ok {
		c.ddram[i] = v
	}
	if c.increment {
		c.ac = nextAddr(c.ac)
	} else {
		c.ac = prevAddr(c.ac)
	}
	if c.autoScroll {
		// S=1 shifts the display with every write so the cursor appears
		// to stay put.
		if c.increment {
			c.shift++
		} else {
			c.shift--
		}
	}
}

// ddIndex maps an address-counter value to a DDRAM cell, rejecting the
// gaps between the banks.
func ddIndex(ac byte) (int, bool) {
	if ac < rowLen {
		return int(ac), true
	}
	if ac >= 0x40 && ac < 0x40+rowLen {
		return rowLen + int(ac-0x40), true
	}
	return 0, false
}

// The address counter wraps between the two 40-cell banks.
func nextAddr(ac byte) byte {
	switch ac {
	case rowLen - 1:
		return 0x40
	case 0x40 + rowLen - 1:
		return 0
	default:
		return ac + 1
	}
}

func prevAddr(ac byte) byte {
	switch ac {
	case 0:
		return 0x40 + rowLen - 1
	case 0x40:
		return rowLen - 1
	default:
		return ac - 1
	}
}

// cellAddr returns the DDRAM address shown at the visible column and row,
// display shift applied.
func (c *controller) cellAddr(col, row int) byte {
	off := rowOffsets[row]
	var bank byte
	if off >= 0x40 {
		bank = 0x40
		off -= 0x40
	}
	ddcol := (int(off) + col + c.shift) % rowLen
	if ddcol < 0 {
		ddcol += rowLen
	}
	return bank | byte(ddcol)
}

// cell returns the character code shown at the visible column and row.
func (c *controller) cell(col, row int) byte {
	i, _ := ddIndex(c.cellAddr(col, row))
	return c.ddram[i]
}
