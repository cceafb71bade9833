// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pca9505

import "fmt"

// DeviceNotFoundError is returned by New when the bus scan does not report
// the requested address.
type DeviceNotFoundError struct {
	Addr uint16
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("pca9505: no device found at address 0x%02x", e.Addr)
}

// BusError wraps a failure of the underlying bus transport.
type BusError struct {
	Op   string // "scan", "read" or "write"
	Addr uint16
	Reg  uint8
	Err  error
}

func (e *BusError) Error() string {
	if e.Op == "scan" {
		return fmt.Sprintf("pca9505: scan for 0x%02x failed: %v", e.Addr, e.Err)
	}
	return fmt.Sprintf("pca9505: %s of register 0x%02x at 0x%02x failed: %v", e.Op, e.Reg, e.Addr, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

// InvalidArgumentError is returned when a pin, port or address is out of
// range. No bus traffic happens in that case.
type InvalidArgumentError struct {
	Name  string
	Value int
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("pca9505: invalid %s %d", e.Name, e.Value)
}
