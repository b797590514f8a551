// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdsink emulates an HD44780 character LCD sitting behind an I2C
// GPIO expander backpack.
//
// It implements i2c.Bus, so a driver can be pointed at it unchanged: the
// sink replays the expander byte stream edge by edge, reassembles the
// nibbles into instructions and keeps a full DDRAM/CGRAM model of the
// panel. Useful for driver tests that assert on what a real panel would
// show, and for developing display output on a machine with no bus at
// all. The panel can be dumped to a terminal or rasterized to an image.
package lcdsink

import (
	"errors"
	"fmt"
	"strings"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/periph-community/lcdbackpack/hd44780i2c"
)

// Opts describes the simulated board.
type Opts struct {
	// Addr is the expander's bus address. Zero accepts any address.
	Addr uint16
	// Pins is the simulated board wiring.
	Pins hd44780i2c.Pinout
	// Rows and Cols give the attached panel's geometry.
	Rows, Cols int
}

// DefaultOpts simulates the common 16x2 backpack at its usual address.
var DefaultOpts = Opts{Addr: 0x27, Pins: hd44780i2c.DefaultPinout, Rows: 2, Cols: 16}

// Display is a simulated backpack plus panel.
type Display struct {
	addr       uint16
	rows, cols int
	dec        decoder

	// Txs and Bytes count the bus transactions and expander bytes
	// received, for asserting on a driver's batching behavior.
	Txs   int
	Bytes int
}

// New returns a simulated backpack. The pin description is validated the
// same way the driver validates it.
func New(opts *Opts) (*Display, error) {
	if _, err := hd44780i2c.NewPinMap(opts.Pins); err != nil {
		return nil, err
	}
	if opts.Rows < 1 || opts.Rows > 4 || opts.Cols < 1 || opts.Cols > 40 {
		return nil, fmt.Errorf("lcdsink: unsupported geometry %dx%d", opts.Cols, opts.Rows)
	}
	return &Display{
		addr: opts.Addr,
		rows: opts.Rows,
		cols: opts.Cols,
		dec:  newDecoder(opts.Pins),
	}, nil
}

func (d *Display) String() string {
	return fmt.Sprintf("lcdsink(%dx%d)", d.cols, d.rows)
}

// SetSpeed implements i2c.Bus; the sink has no clock to adjust.
func (d *Display) SetSpeed(f physic.Frequency) error {
	return nil
}

// Tx implements i2c.Bus. Writes feed the decoder. The simulated expander
// is write-only, like the real board with the R/W line tied low.
func (d *Display) Tx(addr uint16, w, r []byte) error {
	if d.addr != 0 && addr != d.addr {
		return fmt.Errorf("lcdsink: write to unexpected address %#02x", addr)
	}
	if len(r) != 0 {
		return errors.New("lcdsink: read not supported")
	}
	for _, out := range w {
		d.dec.step(out)
	}
	d.Txs++
	d.Bytes += len(w)
	return nil
}

// Backlight reports whether the backlight bit was set in the last
// expander byte received.
func (d *Display) Backlight() bool {
	return d.dec.backlit
}

// On reports whether the display is switched on.
func (d *Display) On() bool {
	return d.dec.ctl.on
}

// FourBit reports whether the controller has committed to the 4-bit
// interface; false means the reset handshake has not completed.
func (d *Display) FourBit() bool {
	return !d.dec.mode8
}

// Screen returns the visible panel contents, one slice of cells per row,
// display shift applied. Cells hold raw character codes: 0x20-0x7e are
// ASCII, 0x00-0x07 address the CGRAM glyph slots.
func (d *Display) Screen() [][]byte {
	rows := make([][]byte, d.rows)
	for r := range rows {
		rows[r] = make([]byte, d.cols)
		for col := range rows[r] {
			rows[r][col] = d.dec.ctl.cell(col, r)
		}
	}
	return rows
}

// Text returns the visible contents as a string, one line per row, with
// codes outside printable ASCII rendered as spaces.
func (d *Display) Text() string {
	var sb strings.Builder
	for r, row := range d.Screen() {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range row {
			if c >= 0x20 && c <= 0x7e {
				sb.WriteByte(c)
			} else {
				sb.WriteByte(' ')
			}
		}
	}
	return sb.String()
}

// Glyph returns the eight rows of CGRAM pixel data programmed into a slot.
func (d *Display) Glyph(slot int) [8]byte {
	var g [8]byte
	if slot >= 0 && slot < 8 {
		copy(g[:], d.dec.ctl.cgram[slot*8:slot*8+8])
	}
	return g
}

// Cursor returns the zero-based column and row the address counter points
// at, or (-1, -1) while it addresses CGRAM or an off-screen cell.
func (d *Display) Cursor() (col, row int) {
	if d.dec.ctl.cgMode {
		return -1, -1
	}
	ac := d.dec.ctl.ac
	for r := range d.rows {
		for c := range d.cols {
			if d.dec.ctl.cellAddr(c, r) == ac {
				return c, r
			}
		}
	}
	return -1, -1
}

var _ i2c.Bus = &Display{}
