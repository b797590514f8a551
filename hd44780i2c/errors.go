// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780i2c

import (
	"fmt"

	"periph.io/x/conn/v3/display"
)

const packageName = "hd44780i2c"

// ErrNotImplemented is returned for TextDisplay operations the controller
// has no instruction for.
var ErrNotImplemented = fmt.Errorf("%s: %w", packageName, display.ErrNotImplemented)

// PinConfigError reports an invalid Pinout: a bit position outside the
// expander's eight outputs, or two signals mapped to the same bit. It is
// returned at construction time, never during operation.
type PinConfigError struct {
	// Signal is the logical line whose assignment is invalid.
	Signal string
	// Bit is the offending output-bit position.
	Bit int
	// Conflict names the signal already holding Bit, or is empty when Bit
	// itself is out of range.
	Conflict string
}

func (e *PinConfigError) Error() string {
	if e.Conflict != "" {
		return fmt.Sprintf("%s: signals %s and %s both mapped to expander bit %d", packageName, e.Signal, e.Conflict, e.Bit)
	}
	return fmt.Sprintf("%s: signal %s mapped to bit %d, valid positions are 0-7", packageName, e.Signal, e.Bit)
}

// InitError reports a bus write failure during the power-up reset
// handshake. The handshake cannot be resumed; construct the device again.
type InitError struct {
	// Step names the handshake step that failed.
	Step string
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s: initialization failed at %s: %v", packageName, e.Step, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// TxError reports a failed bus transaction during normal operation.
type TxError struct {
	// Offset is the count of expander bytes already confirmed on the wire
	// by the operation before the failing transaction.
	Offset int
	Err    error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("%s: bus write failed at byte offset %d: %v", packageName, e.Offset, e.Err)
}

func (e *TxError) Unwrap() error { return e.Err }

// InvalidArgError reports a coordinate or glyph slot outside the display
// geometry.
type InvalidArgError struct {
	Op       string
	Value    int
	Min, Max int
}

func (e *InvalidArgError) Error() string {
	return fmt.Sprintf("%s: %s: %d out of range %d-%d", packageName, e.Op, e.Value, e.Min, e.Max)
}
