// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pca9505

import (
	"sync"

	"periph.io/x/conn/v3/i2c"
)

// Bus is the transport shared by every device on one I²C bus.
//
// The caller must hold the lock around Scan, Write and WriteRead.
// Implementations do not lock internally so that a device can make a sequence
// of transfers atomic with respect to other bus users.
type Bus interface {
	sync.Locker
	// Scan returns the addresses of the devices that acknowledge on the bus.
	Scan() ([]uint16, error)
	// Write sends w to the device at addr.
	Write(addr uint16, w []byte) error
	// WriteRead sends w to the device at addr then reads exactly len(r)
	// bytes into r.
	WriteRead(addr uint16, w, r []byte) error
}

// Range of 7 bit addresses probed by Scan. Reserved addresses are skipped.
const (
	scanFirst uint16 = 0x08
	scanLast  uint16 = 0x77
)

// I2CBus implements Bus on top of a periph.io i2c.Bus.
//
// Share a single I2CBus between all the devices using the same physical bus.
type I2CBus struct {
	mu  sync.Mutex
	bus i2c.Bus
}

// NewBus returns a Bus backed by b.
func NewBus(b i2c.Bus) *I2CBus {
	return &I2CBus{bus: b}
}

// Lock implements sync.Locker.
func (b *I2CBus) Lock() {
	b.mu.Lock()
}

// Unlock implements sync.Locker.
func (b *I2CBus) Unlock() {
	b.mu.Unlock()
}

// Scan probes every non reserved 7 bit address with a one byte read.
func (b *I2CBus) Scan() ([]uint16, error) {
	var found []uint16
	r := make([]byte, 1)
	for addr := scanFirst; addr <= scanLast; addr++ {
		if err := b.bus.Tx(addr, nil, r); err == nil {
			found = append(found, addr)
		}
	}
	return found, nil
}

// Write implements Bus.
func (b *I2CBus) Write(addr uint16, w []byte) error {
	return b.bus.Tx(addr, w, nil)
}

// WriteRead implements Bus. The read follows the write with a repeated start.
func (b *I2CBus) WriteRead(addr uint16, w, r []byte) error {
	return b.bus.Tx(addr, w, r)
}

func (b *I2CBus) String() string {
	return b.bus.String()
}

var _ Bus = &I2CBus{}
