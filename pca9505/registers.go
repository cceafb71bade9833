// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pca9505

const (
	// Ports is the number of 8 bit ports on the chip.
	Ports = 5
	// PinsPerPort is the number of pins in one port.
	PinsPerPort = 8
	// NumPins is the number of GPIO pins on the chip.
	NumPins = Ports * PinsPerPort
)

// Bank is the base address of a group of 5 per-port registers.
type Bank uint8

const (
	BankInput    Bank = 0x00 // IP: read only, 1 = pin is high
	BankOutput   Bank = 0x08 // OP: 1 = drive pin high
	BankPolarity Bank = 0x10 // PI: 1 = input reading is inverted
	BankConfig   Bank = 0x18 // IOC: 0 = output, 1 = input
	BankMask     Bank = 0x20 // MSK: 0 = interrupt enabled, 1 = disabled
)

// Command byte flag selecting auto-increment over the ports of a bank.
const (
	autoIncrementOff = 0x00
	autoIncrementOn  = 0x80
)

// Reg returns the register address of port within the bank. The port is
// taken modulo Ports.
func (b Bank) Reg(port uint8) uint8 {
	return uint8(b) + port%Ports
}

func (b Bank) String() string {
	switch b {
	case BankInput:
		return "IP"
	case BankOutput:
		return "OP"
	case BankPolarity:
		return "PI"
	case BankConfig:
		return "IOC"
	case BankMask:
		return "MSK"
	default:
		return "Bank(?)"
	}
}

// Vector holds one register value per port, in port order.
type Vector [Ports]uint8

// Default cache values set by Begin: interrupts disabled, no polarity
// inversion, every pin an input.
var (
	defaultInterruptMask = Vector{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	defaultPolarity      = Vector{}
	defaultDirectionMode = Vector{}
)

// flipDirection converts between the logical direction encoding kept in the
// cache (1 = output) and the IOC register encoding (0 = output). It is its own
// inverse.
func flipDirection(v Vector) Vector {
	for i := range v {
		v[i] = ^v[i]
	}
	return v
}

// writeReg writes one port register with auto-increment off.
func (d *Dev) writeReg(b Bank, port int, value uint8) error {
	reg := b.Reg(uint8(port)) | autoIncrementOff
	d.bus.Lock()
	defer d.bus.Unlock()
	if err := d.bus.Write(d.addr, []byte{reg, value}); err != nil {
		return &BusError{Op: "write", Addr: d.addr, Reg: reg, Err: err}
	}
	return nil
}

// readReg reads one port register with auto-increment off.
func (d *Dev) readReg(b Bank, port int) (uint8, error) {
	reg := b.Reg(uint8(port)) | autoIncrementOff
	rx := make([]byte, 1)
	d.bus.Lock()
	defer d.bus.Unlock()
	if err := d.bus.WriteRead(d.addr, []byte{reg}, rx); err != nil {
		return 0, &BusError{Op: "read", Addr: d.addr, Reg: reg, Err: err}
	}
	return rx[0], nil
}

// writeBank writes all 5 port registers of a bank in one auto-increment
// transaction.
func (d *Dev) writeBank(b Bank, v Vector) error {
	reg := uint8(b) | autoIncrementOn
	w := make([]byte, 0, 1+Ports)
	w = append(w, reg)
	w = append(w, v[:]...)
	d.bus.Lock()
	defer d.bus.Unlock()
	if err := d.bus.Write(d.addr, w); err != nil {
		return &BusError{Op: "write", Addr: d.addr, Reg: reg, Err: err}
	}
	return nil
}

// readBank reads all 5 port registers of a bank in one auto-increment
// transaction.
func (d *Dev) readBank(b Bank) (Vector, error) {
	var v Vector
	reg := uint8(b) | autoIncrementOn
	rx := make([]byte, Ports)
	d.bus.Lock()
	defer d.bus.Unlock()
	if err := d.bus.WriteRead(d.addr, []byte{reg}, rx); err != nil {
		return v, &BusError{Op: "read", Addr: d.addr, Reg: reg, Err: err}
	}
	copy(v[:], rx)
	return v, nil
}

// getAndSetBit does a read-modify-write of one bit of a port register and
// returns the value written.
func (d *Dev) getAndSetBit(b Bank, port, bit int, value bool) (uint8, error) {
	v, err := d.readReg(b, port)
	if err != nil {
		return 0, err
	}
	if value {
		v |= 1 << uint(bit)
	} else {
		v &^= 1 << uint(bit)
	}
	return v, d.writeReg(b, port, v)
}

// getBit returns one bit of a port register along with the full byte.
func (d *Dev) getBit(b Bank, port, bit int) (bool, uint8, error) {
	v, err := d.readReg(b, port)
	return v&(1<<uint(bit)) != 0, v, err
}
