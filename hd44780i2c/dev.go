// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780i2c controls HD44780 character LCDs wired behind an 8-bit
// I2C GPIO expander backpack (PCF8574 style boards) in 4-bit parallel
// mode.
//
// The expander's eight outputs fan out to the display's control and data
// lines, and which output drives which line varies between backpack
// vendors. The wiring is described by a Pinout; every instruction byte is
// encoded through the derived bit masks into the two-nibble, enable-pulsed
// transfers the controller expects, and character data is batched into
// bounded bus transactions.
//
// The driver is strictly write-only. The R/W line, when wired at all, is
// held low, and busy times are covered by fixed delays. It performs no
// locking; callers sharing a Dev across goroutines must serialize access
// themselves, and must only cancel between operations, never inside one,
// because a partial nibble pair leaves the controller in an undefined
// state.
//
// Implements periph.io/x/conn/v3/display.TextDisplay and
// display.DisplayBacklight.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
//
// The usual backpack wiring is described in
// https://www.handsontec.com/dataspecs/I2C_2004_LCD.pdf
package hd44780i2c

import (
	"fmt"
	"io"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
)

// DefaultAddress is where the common PCF8574 backpacks answer.
const DefaultAddress uint16 = 0x27

// DDRAM address of the first column of each display row, fixed by the
// controller for every geometry up to four lines.
var rowOffsets = [4]byte{0x00, 0x40, 0x14, 0x54}

// Dev is an open handle to one display.
type Dev struct {
	d          *i2c.Dev
	pins       *PinMap
	rows, cols int
	state      displayState
}

// New opens the display behind the expander at the given address, using
// pins to describe the board wiring, and runs the power-up reset
// handshake. rows may be 1 to 4 and cols 1 to 40.
func New(bus i2c.Bus, address uint16, pins Pinout, rows, cols int) (*Dev, error) {
	pm, err := NewPinMap(pins)
	if err != nil {
		return nil, err
	}
	if rows < 1 || rows > len(rowOffsets) {
		return nil, &InvalidArgError{Op: "New rows", Value: rows, Min: 1, Max: len(rowOffsets)}
	}
	if cols < 1 || cols > 40 {
		return nil, &InvalidArgError{Op: "New cols", Value: cols, Min: 1, Max: 40}
	}
	d := &Dev{
		d:     &i2c.Dev{Bus: bus, Addr: address},
		pins:  pm,
		rows:  rows,
		cols:  cols,
		state: newDisplayState(rows),
	}
	if err := d.initSequence(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewBackpack opens a display on the common PCF8574 backpack wiring.
func NewBackpack(bus i2c.Bus, address uint16, rows, cols int) (*Dev, error) {
	return New(bus, address, DefaultPinout, rows, cols)
}

// NewJoyItBackpack opens a display on the Joy-It RB-LCD wiring.
func NewJoyItBackpack(bus i2c.Bus, address uint16, rows, cols int) (*Dev, error) {
	return New(bus, address, JoyItPinout, rows, cols)
}

// writeFrame issues one bus transaction. Errors carry the transport error
// verbatim; there is no retry, since a silently repeated transfer would
// desynchronize the enable-pulse framing.
func (d *Dev) writeFrame(p []byte) error {
	if err := d.d.Tx(p, nil); err != nil {
		return &TxError{Err: err}
	}
	return nil
}

// writeRaw presents a single expander state with no enable pulse.
func (d *Dev) writeRaw(out byte) error {
	return d.writeFrame([]byte{out})
}

// command transfers one instruction byte in its own transaction.
func (d *Dev) command(value byte) error {
	buf := make([]byte, 0, 2*frameLen)
	buf = d.pins.appendInstruction(buf, value, false, d.state.backlightOn())
	return d.writeFrame(buf)
}

// setControl recomputes the display-control instruction with flags set or
// cleared, and commits the new state once the write is confirmed.
func (d *Dev) setControl(flags byte, on bool) error {
	next, instr := d.state.withControl(flags, on)
	if err := d.command(instr); err != nil {
		return err
	}
	d.state = next
	return nil
}

// setEntry is setControl for the entry-mode flag group.
func (d *Dev) setEntry(flags byte, on bool) error {
	next, instr := d.state.withEntry(flags, on)
	if err := d.command(instr); err != nil {
		return err
	}
	d.state = next
	return nil
}

// Command sends a raw instruction byte to the controller. It is the escape
// hatch for controller features the driver does not surface; the flag
// groups tracked by the driver are not updated.
func (d *Dev) Command(value byte) error {
	return d.command(value)
}

// Clear blanks the display and moves the cursor to the first position.
func (d *Dev) Clear() error {
	if err := d.command(cmdClear); err != nil {
		return err
	}
	// Clear and home run for ~1.5ms on the controller, much longer than
	// other instructions.
	time.Sleep(clearSettle)
	return nil
}

// Home moves the cursor to the first position and undoes any scrolling.
func (d *Dev) Home() error {
	if err := d.command(cmdHome); err != nil {
		return err
	}
	time.Sleep(clearSettle)
	return nil
}

// Display switches the display on or off without touching its contents.
func (d *Dev) Display(on bool) error {
	return d.setControl(ctlDisplay, on)
}

// ShowCursor shows or hides the underline cursor.
func (d *Dev) ShowCursor(on bool) error {
	return d.setControl(ctlCursor, on)
}

// Blink turns the blinking block cursor on or off.
func (d *Dev) Blink(on bool) error {
	return d.setControl(ctlBlink, on)
}

// Cursor sets the cursor rendering mode. Multiple modes may be passed:
// Cursor(CursorBlink, CursorUnderline). Implements display.TextDisplay.
func (d *Dev) Cursor(modes ...display.CursorMode) error {
	next := d.state
	for _, mode := range modes {
		switch mode {
		case display.CursorOff:
			next, _ = next.withControl(ctlCursor|ctlBlink, false)
		case display.CursorUnderline:
			next, _ = next.withControl(ctlCursor, true)
		case display.CursorBlink, display.CursorBlock:
			next, _ = next.withControl(ctlBlink, true)
		default:
			return fmt.Errorf("%s: unexpected cursor mode: %d", packageName, mode)
		}
	}
	if err := d.command(cmdControl | next.control); err != nil {
		return err
	}
	d.state = next
	return nil
}

// TextFlow sets the writing direction. Left to right is the power-on
// default.
func (d *Dev) TextFlow(leftToRight bool) error {
	return d.setEntry(entryIncrement, leftToRight)
}

// AutoScroll makes every write shift the display so the cursor appears to
// stay put, right-justifying text written against the right edge.
func (d *Dev) AutoScroll(enabled bool) error {
	return d.setEntry(entryAutoScroll, enabled)
}

// Scroll shifts the displayed window one column without changing DDRAM.
// Forward scrolls the contents right, Backward scrolls them left. The
// controller cannot scroll vertically.
func (d *Dev) Scroll(dir display.CursorDirection) error {
	v := cmdShift | shiftDisplay
	switch dir {
	case display.Forward:
		v |= shiftRight
	case display.Backward:
	default:
		return ErrNotImplemented
	}
	return d.command(v)
}

// Move shifts the cursor one position forward or backward. Implements
// display.TextDisplay.
func (d *Dev) Move(dir display.CursorDirection) error {
	v := cmdShift
	switch dir {
	case display.Forward:
		v |= shiftRight
	case display.Backward:
	default:
		return ErrNotImplemented
	}
	return d.command(v)
}

// SetCursor moves the cursor to the zero-based column and row.
func (d *Dev) SetCursor(col, row int) error {
	if row < 0 || row >= d.rows {
		return &InvalidArgError{Op: "SetCursor row", Value: row, Min: 0, Max: d.rows - 1}
	}
	if col < 0 || col >= d.cols {
		return &InvalidArgError{Op: "SetCursor col", Value: col, Min: 0, Max: d.cols - 1}
	}
	return d.command(cmdSetDDRAM | (rowOffsets[row] + byte(col)))
}

// MoveTo moves the cursor to the one-based row and column of
// display.TextDisplay.
func (d *Dev) MoveTo(row, col int) error {
	if row < d.MinRow() || row > d.rows {
		return &InvalidArgError{Op: "MoveTo row", Value: row, Min: d.MinRow(), Max: d.rows}
	}
	if col < d.MinCol() || col > d.cols {
		return &InvalidArgError{Op: "MoveTo col", Value: col, Min: d.MinCol(), Max: d.cols}
	}
	return d.command(cmdSetDDRAM | (rowOffsets[row-1] + byte(col-1)))
}

// MinRow returns the minimum row position.
func (d *Dev) MinRow() int { return 1 }

// MinCol returns the minimum column position.
func (d *Dev) MinCol() int { return 1 }

// Rows returns the number of rows the display supports.
func (d *Dev) Rows() int { return d.rows }

// Cols returns the number of columns the display supports.
func (d *Dev) Cols() int { return d.cols }

// CreateChar programs one of the controller's eight CGRAM glyph slots. The
// glyph is eight rows of 5-bit pixel data, top row first. Writing the slot
// number as character data displays the glyph. The cursor position is
// clobbered; follow with SetCursor before writing text.
func (d *Dev) CreateChar(slot int, glyph [8]byte) error {
	if slot < 0 || slot > 7 {
		return &InvalidArgError{Op: "CreateChar slot", Value: slot, Min: 0, Max: 7}
	}
	if err := d.command(cmdSetCGRAM | byte(slot)<<3); err != nil {
		return err
	}
	_, err := d.Write(glyph[:])
	return err
}

// Write sends character data to the cursor position. Frames are batched so
// a long string costs one bus transaction per handful of characters rather
// than one each. n is the count of characters confirmed on the wire when
// an error cuts the write short.
func (d *Dev) Write(p []byte) (n int, err error) {
	b := newTxBatcher(d.d)
	backlight := d.state.backlightOn()
	for _, c := range p {
		if err := b.data(d.pins, c, backlight); err != nil {
			return b.written(), err
		}
	}
	if err := b.flush(); err != nil {
		return b.written(), err
	}
	return len(p), nil
}

// WriteString writes text at the cursor position.
func (d *Dev) WriteString(text string) (int, error) {
	return d.Write([]byte(text))
}

// WriteByte sends a single character. Implements io.ByteWriter.
func (d *Dev) WriteByte(c byte) error {
	_, err := d.Write([]byte{c})
	return err
}

// Backlight sets the backlight level. The expander exposes a single
// on/off bit, so any non-zero intensity lights the panel; the level is
// kept so the bit can be replayed into every later transfer. The expander
// output is re-latched immediately with a transfer that carries no enable
// pulse, so the panel reacts without waiting for the next instruction.
func (d *Dev) Backlight(intensity display.Intensity) error {
	next := d.state
	next.backlight = intensity
	if err := d.writeRaw(d.pins.base(true, next.backlightOn())); err != nil {
		return err
	}
	d.state = next
	return nil
}

// Halt clears the display and turns the backlight and the display off.
// Implements conn.Resource.
func (d *Dev) Halt() error {
	_ = d.Clear()
	_ = d.Backlight(0)
	return d.Display(false)
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s: %s Rows: %d Cols: %d", packageName, d.d.String(), d.rows, d.cols)
}

var _ display.TextDisplay = &Dev{}
var _ display.DisplayBacklight = &Dev{}
var _ conn.Resource = &Dev{}
var _ io.Writer = &Dev{}
var _ io.StringWriter = &Dev{}
var _ io.ByteWriter = &Dev{}
