// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pca9505

import (
	"strconv"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// baseAddress is the address with A2, A1 and A0 tied low.
const baseAddress uint16 = 0x20

// Address returns the 7 bit bus address selected by the A2..A0 pins, sel
// being A2<<2 | A1<<1 | A0.
func Address(sel uint8) (uint16, error) {
	if sel > 7 {
		return 0, &InvalidArgumentError{Name: "address select", Value: int(sel)}
	}
	return baseAddress | uint16(sel), nil
}

// Opts holds the configuration options.
type Opts struct {
	Addr uint16
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{Addr: baseAddress}

// Direction is the direction of a pin or port.
type Direction uint8

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "Output"
	}
	return "Input"
}

// Dev is a handle to a PCA9505.
type Dev struct {
	Pins  [][]Pin     // Pins is structured as [port][bit].
	Conns []conn.Conn // Conns is indexed by port.

	bus        Bus
	addr       uint16
	name       string
	registered []string

	mu            sync.Mutex
	interruptMask Vector
	polarity      Vector
	directionMode Vector // 1 = output
}

// New returns a handle to the PCA9505 at opts.Addr once a bus scan reported
// it. Nothing is written to the chip; call Begin to put it in a known state.
//
// The pins are registered in gpioreg. When a pin of the same name is already
// registered, for example by another Dev at the same address, the
// registration is skipped: Dev.Pins still drives this device but
// gpioreg.ByName returns the pin registered first.
func New(b Bus, opts *Opts) (*Dev, error) {
	if opts.Addr < baseAddress || opts.Addr > baseAddress|7 {
		return nil, &InvalidArgumentError{Name: "address", Value: int(opts.Addr)}
	}
	if err := probe(b, opts.Addr); err != nil {
		return nil, err
	}
	d := &Dev{
		bus:           b,
		addr:          opts.Addr,
		name:          "PCA9505_" + strconv.FormatUint(uint64(opts.Addr), 16),
		interruptMask: defaultInterruptMask,
		polarity:      defaultPolarity,
		directionMode: defaultDirectionMode,
	}
	d.Pins = make([][]Pin, Ports)
	d.Conns = make([]conn.Conn, Ports)
	for p := 0; p < Ports; p++ {
		pt := &port{dev: d, port: p, name: d.name + "_P" + strconv.Itoa(p)}
		d.Conns[p] = pt
		d.Pins[p] = pt.pins()
		for _, pin := range d.Pins[p] {
			// A pin with the same name may already be registered; ignore it.
			if err := gpioreg.Register(pin); err == nil {
				d.registered = append(d.registered, pin.Name())
			}
		}
	}
	return d, nil
}

func probe(b Bus, addr uint16) error {
	b.Lock()
	defer b.Unlock()
	found, err := b.Scan()
	if err != nil {
		return &BusError{Op: "scan", Addr: addr, Err: err}
	}
	for _, a := range found {
		if a == addr {
			return nil
		}
	}
	return &DeviceNotFoundError{Addr: addr}
}

func (d *Dev) String() string {
	return d.name
}

// Close removes the pin registrations done by New.
func (d *Dev) Close() error {
	for len(d.registered) != 0 {
		if err := gpioreg.Unregister(d.registered[0]); err != nil {
			return err
		}
		d.registered = d.registered[1:]
	}
	return nil
}

// Begin resets the cached interrupt mask, polarity and direction to their
// defaults and writes them to the chip, one bank per transaction: all
// interrupts disabled, no polarity inversion, all pins inputs.
//
// The current chip state is not read.
func (d *Dev) Begin() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.interruptMask = defaultInterruptMask
	d.polarity = defaultPolarity
	d.directionMode = defaultDirectionMode
	if err := d.writeBank(BankMask, d.interruptMask); err != nil {
		return err
	}
	if err := d.writeBank(BankPolarity, d.polarity); err != nil {
		return err
	}
	return d.writeBank(BankConfig, flipDirection(d.directionMode))
}

// SetPinMode sets the direction of one pin.
func (d *Dev) SetPinMode(pin int, dir Direction) error {
	port, bit, err := pinBit(pin)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.getAndSetBit(BankConfig, port, bit, dir != Output)
	if err != nil {
		return err
	}
	d.directionMode[port] = ^v
	return nil
}

// PinMode reads the direction of one pin from the chip.
func (d *Dev) PinMode(pin int) (Direction, error) {
	port, bit, err := pinBit(pin)
	if err != nil {
		return Input, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	in, v, err := d.getBit(BankConfig, port, bit)
	if err != nil {
		return Input, err
	}
	d.directionMode[port] = ^v
	if in {
		return Input, nil
	}
	return Output, nil
}

// SetPortMode sets the direction of all the pins of a port in one write.
func (d *Dev) SetPortMode(port int, dir Direction) error {
	if err := checkPort(port); err != nil {
		return err
	}
	v := uint8(0xFF)
	if dir == Output {
		v = 0x00
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeReg(BankConfig, port, v); err != nil {
		return err
	}
	d.directionMode[port] = ^v
	return nil
}

// PortMode reads the direction of a port from the chip. A set bit means
// the pin is an output.
func (d *Dev) PortMode(port int) (uint8, error) {
	if err := checkPort(port); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.readReg(BankConfig, port)
	if err != nil {
		return 0, err
	}
	d.directionMode[port] = ^v
	return ^v, nil
}

// WritePin sets the output level of one pin, leaving the other pins of its
// port untouched.
func (d *Dev) WritePin(pin int, l gpio.Level) error {
	port, bit, err := pinBit(pin)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err = d.getAndSetBit(BankOutput, port, bit, l == gpio.High)
	return err
}

// WritePort drives a whole port, which is treated as active low: High writes
// 0x00 and Low writes 0xFF to the output register.
//
// Use WritePortValue to write an arbitrary pattern.
func (d *Dev) WritePort(port int, l gpio.Level) error {
	v := uint8(0xFF)
	if l == gpio.High {
		v = 0x00
	}
	return d.WritePortValue(port, v)
}

// WritePortValue writes v to the output register of a port.
func (d *Dev) WritePortValue(port int, v uint8) error {
	if err := checkPort(port); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeReg(BankOutput, port, v)
}

// ReadPin returns the input level of one pin.
func (d *Dev) ReadPin(pin int) (gpio.Level, error) {
	port, bit, err := pinBit(pin)
	if err != nil {
		return gpio.Low, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	high, _, err := d.getBit(BankInput, port, bit)
	if err != nil {
		return gpio.Low, err
	}
	return gpio.Level(high), nil
}

// ReadPort returns the input register of a port.
func (d *Dev) ReadPort(port int) (uint8, error) {
	if err := checkPort(port); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readReg(BankInput, port)
}

// ReadPorts returns the input registers of all the ports in one transaction.
func (d *Dev) ReadPorts() (Vector, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readBank(BankInput)
}

// SetPinInterrupt enables or disables the interrupt of one pin.
func (d *Dev) SetPinInterrupt(pin int, enable bool) error {
	port, bit, err := pinBit(pin)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.getAndSetBit(BankMask, port, bit, !enable)
	if err != nil {
		return err
	}
	d.interruptMask[port] = v
	return nil
}

// PinInterrupt reports whether the interrupt of one pin is enabled.
func (d *Dev) PinInterrupt(pin int) (bool, error) {
	port, bit, err := pinBit(pin)
	if err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	masked, v, err := d.getBit(BankMask, port, bit)
	if err != nil {
		return false, err
	}
	d.interruptMask[port] = v
	return !masked, nil
}

// SetPortInterrupt enables or disables the interrupts of a whole port.
func (d *Dev) SetPortInterrupt(port int, enable bool) error {
	if err := checkPort(port); err != nil {
		return err
	}
	v := uint8(0xFF)
	if enable {
		v = 0x00
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeReg(BankMask, port, v); err != nil {
		return err
	}
	d.interruptMask[port] = v
	return nil
}

// PortInterrupt returns the interrupt mask register of a port. A set bit
// means the interrupt of that pin is disabled.
func (d *Dev) PortInterrupt(port int) (uint8, error) {
	if err := checkPort(port); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.readReg(BankMask, port)
	if err != nil {
		return 0, err
	}
	d.interruptMask[port] = v
	return v, nil
}

// SetPinPolarity inverts, or not, the input reading of one pin.
func (d *Dev) SetPinPolarity(pin int, inverted bool) error {
	port, bit, err := pinBit(pin)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.getAndSetBit(BankPolarity, port, bit, inverted)
	if err != nil {
		return err
	}
	d.polarity[port] = v
	return nil
}

// PinPolarity reports whether the input reading of one pin is inverted.
func (d *Dev) PinPolarity(pin int) (bool, error) {
	port, bit, err := pinBit(pin)
	if err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	inverted, v, err := d.getBit(BankPolarity, port, bit)
	if err != nil {
		return false, err
	}
	d.polarity[port] = v
	return inverted, nil
}

// SetPortPolarity inverts, or not, the input reading of a whole port.
func (d *Dev) SetPortPolarity(port int, inverted bool) error {
	if err := checkPort(port); err != nil {
		return err
	}
	v := uint8(0x00)
	if inverted {
		v = 0xFF
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeReg(BankPolarity, port, v); err != nil {
		return err
	}
	d.polarity[port] = v
	return nil
}

// InterruptMask returns the cached interrupt mask.
func (d *Dev) InterruptMask() Vector {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.interruptMask
}

// Polarity returns the cached polarity inversion.
func (d *Dev) Polarity() Vector {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.polarity
}

// DirectionMode returns the cached direction, a set bit meaning output.
func (d *Dev) DirectionMode() Vector {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.directionMode
}

// PushInterruptMask stores v in the cache and writes it to all the ports.
//
// On error the cache and the chip may differ; use PullInterruptMask to
// resynchronize.
func (d *Dev) PushInterruptMask(v Vector) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.interruptMask = v
	return d.writeBank(BankMask, v)
}

// PullInterruptMask reads the interrupt mask of all the ports into the cache.
func (d *Dev) PullInterruptMask() (Vector, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.readBank(BankMask)
	if err != nil {
		return d.interruptMask, err
	}
	d.interruptMask = v
	return v, nil
}

// PushPolarity stores v in the cache and writes it to all the ports.
func (d *Dev) PushPolarity(v Vector) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.polarity = v
	return d.writeBank(BankPolarity, v)
}

// PullPolarity reads the polarity inversion of all the ports into the cache.
func (d *Dev) PullPolarity() (Vector, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.readBank(BankPolarity)
	if err != nil {
		return d.polarity, err
	}
	d.polarity = v
	return v, nil
}

// PushDirectionMode stores v, a set bit meaning output, in the cache and
// writes it to all the ports.
func (d *Dev) PushDirectionMode(v Vector) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.directionMode = v
	return d.writeBank(BankConfig, flipDirection(v))
}

// PullDirectionMode reads the direction of all the ports into the cache. A
// set bit in the result means output.
func (d *Dev) PullDirectionMode() (Vector, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.readBank(BankConfig)
	if err != nil {
		return d.directionMode, err
	}
	d.directionMode = flipDirection(v)
	return d.directionMode, nil
}

func pinBit(pin int) (port, bit int, err error) {
	if pin < 0 || pin >= NumPins {
		return 0, 0, &InvalidArgumentError{Name: "pin", Value: pin}
	}
	return pin / PinsPerPort, pin % PinsPerPort, nil
}

func checkPort(port int) error {
	if port < 0 || port >= Ports {
		return &InvalidArgumentError{Name: "port", Value: port}
	}
	return nil
}
