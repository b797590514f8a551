// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780i2c

import "periph.io/x/conn/v3/i2c"

// Transaction sizing follows the smallest transport buffer commonly found
// in front of these backpacks, 32 bytes. A batch flushes once another
// four-byte frame could no longer fit, so a flush never overflows the
// bound, and a final partial batch always flushes at end of stream.
const (
	frameLen  = 4
	maxFrame  = 32
	flushMark = maxFrame - frameLen
)

// txBatcher groups encoded data frames into bounded bus transactions.
// Printing a string costs one transaction per seven characters instead of
// one per character. Single-instruction operations bypass it.
type txBatcher struct {
	d   *i2c.Dev
	buf []byte
	// n counts expander bytes confirmed on the wire; it becomes the offset
	// of a TxError and, divided by frameLen, the caller's written count.
	n int
}

func newTxBatcher(d *i2c.Dev) *txBatcher {
	return &txBatcher{d: d, buf: make([]byte, 0, flushMark)}
}

// data stages one character frame, flushing first when the transaction is
// full.
func (b *txBatcher) data(pm *PinMap, value byte, backlight bool) error {
	b.buf = pm.appendInstruction(b.buf, value, true, backlight)
	if len(b.buf) >= flushMark {
		return b.flush()
	}
	return nil
}

// flush writes the staged frames in a single transaction.
func (b *txBatcher) flush() error {
	if len(b.buf) == 0 {
		return nil
	}
	if err := b.d.Tx(b.buf, nil); err != nil {
		return &TxError{Offset: b.n, Err: err}
	}
	b.n += len(b.buf)
	b.buf = b.buf[:0]
	return nil
}

// written returns the count of whole characters confirmed on the wire.
func (b *txBatcher) written() int {
	return b.n / frameLen
}
