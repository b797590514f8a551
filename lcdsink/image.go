// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdsink

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// Raster geometry in pixels. Each character cell is the controller's 5x8
// dot matrix scaled up, plus a one-dot gap between cells.
const (
	dotSize  = 3
	cellW    = (5 + 1) * dotSize
	cellH    = (8 + 1) * dotSize
	marginPx = 2 * dotSize
)

// Image rasterizes the panel. CGRAM glyph slots are drawn dot by dot from
// their programmed pixel data; everything else is drawn with the Go
// regular font. The background follows the backlight state, and a
// switched-off display renders as a blank panel.
func (d *Display) Image() (image.Image, error) {
	w := 2*marginPx + d.cols*cellW
	h := 2*marginPx + d.rows*cellH
	dc := gg.NewContext(w, h)

	bg := offColor
	if d.Backlight() {
		bg = litColor
	}
	dc.SetRGBA255(int(bg.R), int(bg.G), int(bg.B), 255)
	dc.Clear()

	if !d.On() {
		return dc.Image(), nil
	}

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(f, &truetype.Options{Size: cellH - 2*dotSize})
	dc.SetFontFace(face)
	dc.SetRGB(0.08, 0.10, 0.06)

	for r, row := range d.Screen() {
		y := marginPx + r*cellH
		for col, c := range row {
			x := marginPx + col*cellW
			switch {
			case c < 0x08:
				drawGlyph(dc, d.Glyph(int(c)), x, y)
			case c >= 0x20 && c <= 0x7e:
				dc.DrawStringAnchored(string(rune(c)),
					float64(x)+float64(cellW)/2, float64(y)+float64(cellH)/2, 0.5, 0.5)
			}
		}
	}
	return dc.Image(), nil
}

// drawGlyph renders one CGRAM glyph as the controller would, five dots
// across and eight down, most significant pixel bit leftmost.
func drawGlyph(dc *gg.Context, g [8]byte, x, y int) {
	for row, bits := range g {
		for col := range 5 {
			if bits&(1<<(4-col)) == 0 {
				continue
			}
			dc.DrawRectangle(float64(x+col*dotSize), float64(y+row*dotSize), dotSize, dotSize)
		}
	}
	dc.Fill()
}
