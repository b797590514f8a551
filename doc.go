// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdbackpack is a container for drivers for HD44780 character
// LCDs wired behind I2C GPIO expander backpacks.
//
// hd44780i2c is the display driver; lcdsink is a simulated panel for
// tests and bus-less development.
package lcdbackpack
