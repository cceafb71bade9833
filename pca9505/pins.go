// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pca9505

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Pin extends gpio.PinIO with the PCA9505 per pin features.
type Pin interface {
	gpio.PinIO
	pin.PinFunc
	// SetPolarityInverted inverts the value read on the input when true.
	SetPolarityInverted(p bool) error
	// IsPolarityInverted returns true if the input reading is inverted.
	IsPolarityInverted() (bool, error)
	// SetInterrupt enables or disables the interrupt of the pin.
	SetInterrupt(enable bool) error
	// IsInterruptEnabled returns true if the pin contributes to the INT
	// output.
	IsInterruptEnabled() (bool, error)
}

// port is the conn.Conn view of one 8 bit port.
type port struct {
	dev  *Dev
	port int
	name string
}

func (p *port) pins() []Pin {
	result := make([]Pin, PinsPerPort)
	for i := range result {
		result[i] = &portpin{port: p, bit: i}
	}
	return result
}

// Tx writes w to the output register or reads the input register into r, one
// byte at a time. Only half duplex is supported.
func (p *port) Tx(w, r []byte) error {
	switch {
	case len(w) > 0 && len(r) > 0:
		return errors.New("pca9505: only conn.Half duplex is supported")
	case len(w) > 0:
		for _, b := range w {
			if err := p.dev.WritePortValue(p.port, b); err != nil {
				return err
			}
		}
	case len(r) > 0:
		for i := range r {
			v, err := p.dev.ReadPort(p.port)
			if err != nil {
				return err
			}
			r[i] = v
		}
	}
	return nil
}

// Duplex returns that this is a half duplex connection.
func (p *port) Duplex() conn.Duplex {
	return conn.Half
}

func (p *port) String() string {
	return p.name
}

type portpin struct {
	port *port
	bit  int
}

func (p *portpin) number() int {
	return p.port.port*PinsPerPort + p.bit
}

func (p *portpin) String() string {
	return p.Name()
}

// Halt sets the pin to high impedance input.
func (p *portpin) Halt() error {
	return p.In(gpio.Float, gpio.NoEdge)
}

func (p *portpin) Name() string {
	return p.port.name + "_" + strconv.Itoa(p.bit)
}

// Number returns the global pin index, 0 to 39.
func (p *portpin) Number() int {
	return p.number()
}

func (p *portpin) Function() string {
	return string(p.Func())
}

func (p *portpin) In(pull gpio.Pull, edge gpio.Edge) error {
	switch pull {
	case gpio.PullDown:
		return errors.New("pca9505: PullDown is not supported")
	case gpio.PullUp:
		return errors.New("pca9505: PullUp is not supported")
	case gpio.Float, gpio.PullNoChange:
	}
	// The INT line is not serviced by this driver.
	if edge != gpio.NoEdge {
		return errors.New("pca9505: edge detection not supported")
	}
	return p.port.dev.SetPinMode(p.number(), Input)
}

func (p *portpin) Read() gpio.Level {
	l, _ := p.port.dev.ReadPin(p.number())
	return l
}

func (p *portpin) WaitForEdge(timeout time.Duration) bool {
	return false
}

func (p *portpin) Pull() gpio.Pull {
	return gpio.Float
}

func (p *portpin) DefaultPull() gpio.Pull {
	return gpio.Float
}

func (p *portpin) Out(l gpio.Level) error {
	if err := p.port.dev.SetPinMode(p.number(), Output); err != nil {
		return err
	}
	return p.port.dev.WritePin(p.number(), l)
}

func (p *portpin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("pca9505: PWM is not supported")
}

func (p *portpin) Func() pin.Func {
	dir, err := p.port.dev.PinMode(p.number())
	if err != nil {
		return pin.FuncNone
	}
	if dir == Output {
		return gpio.OUT
	}
	return gpio.IN
}

func (p *portpin) SupportedFuncs() []pin.Func {
	return supportedFuncs[:]
}

func (p *portpin) SetFunc(f pin.Func) error {
	switch f {
	case gpio.IN:
		return p.port.dev.SetPinMode(p.number(), Input)
	case gpio.OUT:
		return p.port.dev.SetPinMode(p.number(), Output)
	default:
		return fmt.Errorf("pca9505: function not supported: %s", f)
	}
}

func (p *portpin) SetPolarityInverted(pol bool) error {
	return p.port.dev.SetPinPolarity(p.number(), pol)
}

func (p *portpin) IsPolarityInverted() (bool, error) {
	return p.port.dev.PinPolarity(p.number())
}

func (p *portpin) SetInterrupt(enable bool) error {
	return p.port.dev.SetPinInterrupt(p.number(), enable)
}

func (p *portpin) IsInterruptEnabled() (bool, error) {
	return p.port.dev.PinInterrupt(p.number())
}

var supportedFuncs = [...]pin.Func{gpio.IN, gpio.OUT}

var _ conn.Conn = &port{}
var _ Pin = &portpin{}
