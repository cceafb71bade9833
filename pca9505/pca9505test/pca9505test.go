// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pca9505test implements a simulated PCA9505 answering on an
// i2c.Bus.
//
// The register file behaves like the chip: the command byte selects a
// register and the auto-increment flag, auto-increment rolls over within the
// 5 registers of a bank, and the input register reflects the pin levels after
// polarity inversion.
package pca9505test

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

const (
	ports      = 5
	bankInput  = 0x00
	bankOutput = 0x08
	bankPol    = 0x10
	bankConfig = 0x18
	bankMask   = 0x20
	lastBank   = bankMask
	autoInc    = 0x80
)

// ErrNoAck is returned for a transaction at an address without a chip.
var ErrNoAck = errors.New("pca9505test: no acknowledge")

// Chip is a simulated PCA9505.
//
// Ops records every transaction addressed to the chip, in the format used by
// i2ctest.Playback.
type Chip struct {
	Addr uint16
	// Ops is the transcript of the transactions addressed to Addr.
	Ops []i2ctest.IO
	// Err, when set, is returned by every transaction addressed to Addr.
	Err error

	mu     sync.Mutex
	regs   [ports * 5]uint8 // indexed by bank/8*5 + port
	levels [ports]uint8     // levels applied on the pins from outside
	ptr    uint8
	ai     bool
}

// New returns a chip in its power-on state at addr.
func New(addr uint16) *Chip {
	c := &Chip{Addr: addr}
	for p := 0; p < ports; p++ {
		c.regs[index(bankConfig, p)] = 0xFF
		c.regs[index(bankMask, p)] = 0xFF
	}
	return c
}

func index(bank uint8, port int) int {
	return int(bank/8)*ports + port
}

func (c *Chip) String() string {
	return fmt.Sprintf("pca9505test(0x%02x)", c.Addr)
}

// Tx implements i2c.Bus.
func (c *Chip) Tx(addr uint16, w, r []byte) error {
	if addr != c.Addr {
		return ErrNoAck
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	io := i2ctest.IO{Addr: addr}
	if len(w) != 0 {
		io.W = append([]byte{}, w...)
		if err := c.command(w[0]); err != nil {
			return err
		}
		for _, b := range w[1:] {
			c.store(b)
			c.advance()
		}
	}
	for i := range r {
		r[i] = c.load()
		c.advance()
	}
	if len(r) != 0 {
		io.R = append([]byte{}, r...)
	}
	c.Ops = append(c.Ops, io)
	return nil
}

// SetSpeed implements i2c.Bus.
func (c *Chip) SetSpeed(f physic.Frequency) error {
	return nil
}

// Halt implements conn.Resource.
func (c *Chip) Halt() error {
	return nil
}

// SetLevel sets the level applied from outside on an input pin.
func (c *Chip) SetLevel(pin int, l gpio.Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l {
		c.levels[pin/8] |= 1 << uint(pin%8)
	} else {
		c.levels[pin/8] &^= 1 << uint(pin%8)
	}
}

// Reg returns the current value of the register at reg, as read on the bus.
func (c *Chip) Reg(reg uint8) uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read(reg)
}

// Reset clears the transcript.
func (c *Chip) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Ops = nil
}

func (c *Chip) command(b byte) error {
	reg := b &^ autoInc
	if reg > lastBank+ports-1 || reg&7 >= ports {
		return fmt.Errorf("pca9505test: invalid register 0x%02x", reg)
	}
	c.ptr = reg
	c.ai = b&autoInc != 0
	return nil
}

func (c *Chip) advance() {
	if !c.ai {
		return
	}
	bank := c.ptr &^ 7
	c.ptr = bank + (c.ptr-bank+1)%ports
}

func (c *Chip) store(b byte) {
	bank := c.ptr &^ 7
	if bank == bankInput {
		return
	}
	c.regs[index(bank, int(c.ptr&7))] = b
}

func (c *Chip) load() byte {
	return c.read(c.ptr)
}

func (c *Chip) read(reg uint8) uint8 {
	bank, p := reg&^7, int(reg&7)
	if bank != bankInput {
		return c.regs[index(bank, p)]
	}
	// Output pins read back what they drive.
	cfg := c.regs[index(bankConfig, p)]
	level := c.levels[p]&cfg | c.regs[index(bankOutput, p)]&^cfg
	return level ^ c.regs[index(bankPol, p)]
}

var _ i2c.Bus = &Chip{}

// Bus routes transactions to the chip answering at the address.
type Bus struct {
	Chips []*Chip
}

func (b *Bus) String() string {
	return "pca9505test.Bus"
}

// Tx implements i2c.Bus.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	for _, c := range b.Chips {
		if c.Addr == addr {
			return c.Tx(addr, w, r)
		}
	}
	return ErrNoAck
}

// SetSpeed implements i2c.Bus.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	return nil
}

// Halt implements conn.Resource.
func (b *Bus) Halt() error {
	return nil
}

var _ i2c.Bus = &Bus{}
