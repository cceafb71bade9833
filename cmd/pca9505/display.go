// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"

	"github.com/GermanBionicSystems/expanders/pca9505"
)

var (
	colorLow       = color.NRGBA{0x30, 0x30, 0x30, 255}
	colorHighIn    = color.NRGBA{0x00, 0xFF, 0x00, 255}
	colorHighOut   = color.NRGBA{0xFF, 0xA0, 0x00, 255}
	pinViewHeading = "\033[0m    01234567\n"
)

// pinView renders the pins on a terminal using ANSI color codes, one line per
// port with bit 0 on the left.
type pinView struct {
	w       io.Writer
	palette ansi256.Palette
	buf     bytes.Buffer
}

func newPinView(w io.Writer, p *ansi256.Palette) *pinView {
	if p == nil {
		p = ansi256.Default
	}
	return &pinView{w: w, palette: *p}
}

// render draws the input levels; dir has a bit set for outputs.
func (v *pinView) render(in, dir pca9505.Vector) error {
	// This code is designed to minimize the amount of memory allocated per call.
	v.buf.Reset()
	_, _ = v.buf.WriteString(pinViewHeading)
	for port := range in {
		fmt.Fprintf(&v.buf, "P%d  ", port)
		for bit := uint(0); bit < pca9505.PinsPerPort; bit++ {
			high := in[port]&(1<<bit) != 0
			out := dir[port]&(1<<bit) != 0
			_, _ = io.WriteString(&v.buf, v.palette.Block(pinColor(high, out)))
		}
		fmt.Fprintf(&v.buf, "\033[0m 0x%02x\n", in[port])
	}
	_, err := v.buf.WriteTo(v.w)
	return err
}

func pinColor(high, out bool) color.NRGBA {
	switch {
	case !high:
		return colorLow
	case out:
		return colorHighOut
	default:
		return colorHighIn
	}
}
