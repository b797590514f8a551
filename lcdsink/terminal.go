// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdsink

import (
	"bytes"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Panel tints. The classic modules glow yellow-green when backlit and go
// near black when not.
var (
	litColor = color.NRGBA{R: 0x9a, G: 0xcd, B: 0x32, A: 255}
	offColor = color.NRGBA{R: 0x20, G: 0x26, B: 0x1e, A: 255}
)

// TermDump writes an ANSI rendering of the panel to w: the character
// matrix inside a frame of blocks tinted by the backlight state, blank
// while the display is switched off. A nil writer renders to stdout
// through go-colorable, which keeps the escapes working on Windows
// consoles.
//
// CGRAM glyph slots show as '#'; Image draws their real pixels.
func (d *Display) TermDump(w io.Writer) error {
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	tint := offColor
	if d.Backlight() {
		tint = litColor
	}
	palette := *ansi256.Default
	block := palette.Block(tint)

	var buf bytes.Buffer
	edge := func() {
		for range d.cols + 2 {
			buf.WriteString(block)
		}
		buf.WriteString("\033[0m\n")
	}
	edge()
	for _, row := range d.Screen() {
		buf.WriteString(block)
		buf.WriteString("\033[0m")
		for _, c := range row {
			switch {
			case !d.On():
				c = ' '
			case c < 0x08:
				c = '#'
			case c < 0x20 || c > 0x7e:
				c = ' '
			}
			buf.WriteByte(c)
		}
		buf.WriteString(block)
		buf.WriteString("\033[0m\n")
	}
	edge()
	_, err := buf.WriteTo(w)
	return err
}
