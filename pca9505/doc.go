// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pca9505 provides a driver for the NXP PCA9505 40-bit I²C GPIO
// expander.
//
// The chip exposes 5 ports of 8 pins. Every port has an input, output,
// polarity inversion, I/O configuration and interrupt mask register. Each
// register group (a Bank) spans 5 consecutive addresses, one per port, and
// can be read or written in a single transaction with auto-increment.
//
// The driver caches the interrupt mask, polarity and direction registers. The
// cache is valid after Begin or after a Pull call; the chip stays the ground
// truth.
//
// Both gpio.PinIO (Dev.Pins) and conn.Conn (Dev.Conns) views are provided.
//
// # Datasheet
//
// https://www.nxp.com/docs/en/data-sheet/PCA9505_9506.pdf
package pca9505
